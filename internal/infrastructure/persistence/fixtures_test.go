package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/shared"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sampleRecordSet builds a bound record set with n lines and one IGST
// condition per line. suffix keeps business keys unique across calls.
func sampleRecordSet(n int, suffix string) *procurement.RecordSet {
	now := time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC)
	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	bind := func(kind procurement.ReferenceKind, id string, placeholder bool) procurement.Reference {
		ref := procurement.NewReference(kind, id)
		ref.Bind(procurement.Resolution{Key: uuid.New(), Placeholder: placeholder})
		return ref
	}

	po := &procurement.POHeader{
		BaseEntity:     shared.NewBaseEntity(uuid.New(), now),
		POID:           "POID-A1B2C3" + suffix,
		PONumber:       "PO1",
		PODate:         day,
		Status:         procurement.POStatusApproved,
		Type:           procurement.POTypeStandard,
		Supplier:       bind(procurement.RefSupplier, "ACME", false),
		SourcePO:       bind(procurement.RefPO, "PO1", true),
		CurrencyID:     "INR",
		TotalValue:     decimal.RequireFromString("118.00"),
		PaymentTerms:   procurement.DefaultPaymentTerms,
		MatchingType:   procurement.MatchingThreeWay,
		CreatedBy:      procurement.CreatedByOCR,
		ExternalSystem: procurement.ExternalSystemOCR,
		ExternalID:     "OCR-PO1",
		EffectiveFrom:  day,
	}
	grn := &procurement.GRNHeader{
		BaseEntity:          shared.NewBaseEntity(uuid.New(), now),
		GRNNumber:           "GRN-20250320-ABC" + suffix,
		GRNID:               "GRNID-0F1E2D" + suffix,
		GRNDate:             day,
		Status:              procurement.GRNStatusReceived,
		QCStatus:            procurement.QCStatusPending,
		TotalReceivedQty:    decimal.NewFromInt(int64(n)),
		TotalReceivedAmount: decimal.NewFromInt(int64(100 * n)),
		WeightUOM:           procurement.DefaultWeightUOM,
		InvoiceNumber:       "INV1",
		ExternalSystem:      procurement.ExternalSystemOCR,
		ExternalID:          "OCR-GRN-GRN-20250320-ABC" + suffix,
		EffectiveFrom:       day,
	}
	rs := &procurement.RecordSet{POHeader: po, GRNHeader: grn}
	for i := 1; i <= n; i++ {
		item := bind(procurement.RefItem, fmt.Sprintf("item-%d", i), true)
		pl := &procurement.POLine{
			BaseEntity:    shared.NewBaseEntity(uuid.New(), now),
			POLineID:      fmt.Sprintf("POLN-A1B2C-%04d%s", i, suffix),
			POHeaderRef:   po.ID,
			LineNo:        i,
			Item:          item,
			Description:   fmt.Sprintf("Item %d", i),
			HSNCode:       procurement.DefaultHSN,
			OrderedQty:    decimal.NewFromInt(1),
			UnitPrice:     decimal.NewFromInt(100),
			LineAmount:    decimal.NewFromInt(100),
			UOM:           procurement.DefaultUOM,
			Status:        procurement.POLineStatusOpen,
			EffectiveFrom: day,
		}
		rs.POLines = append(rs.POLines, pl)
		lineRef := pl.ID
		rs.POConditions = append(rs.POConditions, &procurement.POCondition{
			BaseEntity:       shared.NewBaseEntity(uuid.New(), now),
			POConditionID:    fmt.Sprintf("POCOND-%06d%s", i, suffix),
			POHeaderRef:      po.ID,
			POLineRef:        &lineRef,
			ConditionType:    "IGST",
			CalculationBasis: procurement.CalculationPercentage,
			Rate:             decimal.NewFromInt(18),
			Amount:           decimal.NewFromInt(18),
			UOM:              procurement.ConditionUOMPercent,
			EffectiveFrom:    day,
		})
		rs.GRNLines = append(rs.GRNLines, &procurement.GRNLine{
			BaseEntity:    shared.NewBaseEntity(uuid.New(), now),
			GRNLineID:     fmt.Sprintf("GRNLN-0F1E2-%04d%s", i, suffix),
			GRNHeaderRef:  grn.ID,
			LineNo:        i,
			Item:          item,
			Description:   fmt.Sprintf("Item %d", i),
			HSNCode:       procurement.DefaultHSN,
			UOM:           procurement.DefaultUOM,
			ReceivedQty:   decimal.NewFromInt(1),
			AcceptedQty:   decimal.NewFromInt(1),
			RejectedQty:   decimal.Zero,
			UnitPrice:     decimal.NewFromInt(100),
			LineAmount:    decimal.NewFromInt(100),
			QCResult:      procurement.QCStatusPending,
			Status:        procurement.GRNStatusReceived,
			EffectiveFrom: day,
		})
	}
	grn.POLineRef = rs.POLines[0].ID
	return rs
}

func setupProcurementTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a second connection would see a different in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.POHeaderModel{},
		&models.POLineModel{},
		&models.POConditionModel{},
		&models.GRNHeaderModel{},
		&models.GRNLineModel{},
	))
	for _, table := range models.MasterDataTables {
		require.NoError(t, db.Exec(fmt.Sprintf(`CREATE TABLE %s (
			id TEXT PRIMARY KEY,
			match_key TEXT NOT NULL UNIQUE,
			display_name TEXT,
			created_at DATETIME NOT NULL
		)`, table)).Error)
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
