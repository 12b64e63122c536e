package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/shared"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReferenceRepository implements procurement.ReferenceRepository over the m_* tables
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewGormReferenceRepository creates a new GormReferenceRepository
func NewGormReferenceRepository(db *gorm.DB) *GormReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// FindKey returns the id of the row whose match_key equals matchKey
func (r *GormReferenceRepository) FindKey(ctx context.Context, kind procurement.ReferenceKind, matchKey string) (uuid.UUID, error) {
	table, ok := models.MasterDataTables[kind]
	if !ok {
		return uuid.Nil, fmt.Errorf("no master data table for reference kind %q", kind)
	}

	var row models.MasterDataModel
	if err := r.db.WithContext(ctx).
		Table(table).
		Select("id").
		Where("match_key = ?", matchKey).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, shared.ErrNotFound
		}
		return uuid.Nil, err
	}
	return row.ID, nil
}

// Upsert stores a master data entry keyed by the normalized display name. An
// existing entry with the same match key keeps its id and takes the new
// display name; the stored id is returned.
func (r *GormReferenceRepository) Upsert(ctx context.Context, kind procurement.ReferenceKind, id uuid.UUID, displayName string) (uuid.UUID, error) {
	table, ok := models.MasterDataTables[kind]
	if !ok {
		return uuid.Nil, fmt.Errorf("no master data table for reference kind %q", kind)
	}
	matchKey := procurement.NormalizeIdentifier(displayName)
	if matchKey == "" {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "display name is required")
	}

	row := models.MasterDataModel{
		ID:          id,
		MatchKey:    matchKey,
		DisplayName: strings.TrimSpace(displayName),
	}
	err := r.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name"}),
		}).
		Create(&row).Error
	if err != nil {
		return uuid.Nil, err
	}
	return r.FindKey(ctx, kind, matchKey)
}
