package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the surrogate key and audit timestamps shared by all records
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// NewBaseEntity stamps a new entity with the given key and creation time
func NewBaseEntity(id uuid.UUID, now time.Time) BaseEntity {
	return BaseEntity{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
