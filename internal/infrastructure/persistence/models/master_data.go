package models

import (
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/google/uuid"
)

// MasterDataTables maps each reference kind to its lookup table
var MasterDataTables = map[procurement.ReferenceKind]string{
	procurement.RefSupplier:    "m_supplier",
	procurement.RefItem:        "m_item",
	procurement.RefLegalEntity: "m_legal_entity",
	procurement.RefSite:        "m_site",
	procurement.RefPO:          "m_purchase_order",
}

// MasterDataModel is one row of any m_* lookup table. The table is chosen
// per query with Table(MasterDataTables[kind]).
type MasterDataModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	MatchKey    string    `gorm:"column:match_key;type:text;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}
