// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table
//   - procurement.go: the five s_* tables written per invoice
//   - master_data.go: the m_* lookup tables used by the resolving reference mode
package models
