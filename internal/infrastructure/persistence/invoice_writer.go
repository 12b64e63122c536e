package persistence

import (
	"context"
	"errors"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// Logical table names reported in DatabaseError
const (
	TablePOHeader    = "s_po_header"
	TablePOLine      = "s_po_line"
	TablePOCondition = "s_po_condition"
	TableGRNHeader   = "s_grn_header"
	TableGRNLine     = "s_grn_line"
)

// GormInvoiceWriter implements procurement.InvoiceWriter using GORM
type GormInvoiceWriter struct {
	db *gorm.DB
}

// NewGormInvoiceWriter creates a new GormInvoiceWriter
func NewGormInvoiceWriter(db *gorm.DB) *GormInvoiceWriter {
	return &GormInvoiceWriter{db: db}
}

// WriteInvoice inserts the five record sets of one invoice in a single
// transaction, parents before children. Any failure rolls everything back and
// is returned as *procurement.DatabaseError naming the table that failed.
func (w *GormInvoiceWriter) WriteInvoice(ctx context.Context, rs *procurement.RecordSet) (procurement.WriteSummary, error) {
	if err := rs.Validate(); err != nil {
		return procurement.WriteSummary{}, err
	}

	poHeader := models.POHeaderModelFromDomain(rs.POHeader)
	poLines := make([]*models.POLineModel, len(rs.POLines))
	for i, l := range rs.POLines {
		poLines[i] = models.POLineModelFromDomain(l)
	}
	conditions := make([]*models.POConditionModel, len(rs.POConditions))
	for i, c := range rs.POConditions {
		conditions[i] = models.POConditionModelFromDomain(c)
	}
	grnHeader := models.GRNHeaderModelFromDomain(rs.GRNHeader)
	grnLines := make([]*models.GRNLineModel, len(rs.GRNLines))
	for i, l := range rs.GRNLines {
		grnLines[i] = models.GRNLineModelFromDomain(l)
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(tx, TablePOHeader, poHeader); err != nil {
			return err
		}
		if err := insert(tx, TablePOLine, poLines); err != nil {
			return err
		}
		if len(conditions) > 0 {
			if err := insert(tx, TablePOCondition, conditions); err != nil {
				return err
			}
		}
		if err := insert(tx, TableGRNHeader, grnHeader); err != nil {
			return err
		}
		return insert(tx, TableGRNLine, grnLines)
	})
	if err != nil {
		var dbErr *procurement.DatabaseError
		if errors.As(err, &dbErr) {
			return procurement.WriteSummary{}, err
		}
		return procurement.WriteSummary{}, &procurement.DatabaseError{Err: err}
	}
	return rs.Summary(), nil
}

func insert(tx *gorm.DB, table string, value any) error {
	if err := tx.Create(value).Error; err != nil {
		return &procurement.DatabaseError{Table: table, Err: err}
	}
	return nil
}
