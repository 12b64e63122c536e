package integration

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"testing"

	invoiceapp "github.com/easyml-code/ocr-data-insertion/internal/application/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/cache"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gstInvoice = `{
  "dynamic": [
    {"Description":"Steel bolts M8","Quantity":"10","Line Amount":"1,000.00","Unit Price":"100","HSN Number":"7318","cgst_rate":"9%","sgst_rate":"9","PO Number":"PO-77","Unit":"BOX"},
    {"Description":"Washers","Quantity":"2.5","Line Amount":"50.55","Unit Price":"20.22","PO Number":"PO-77"}
  ],
  "static": {
    "Invoice Date": "15/03/2025",
    "Invoice Currency": "INR",
    "Total Invoice Amount": "1230.56",
    "Supplier Name": "Acme Fasteners Pvt Ltd",
    "Invoice No": "INV-2025-001",
    "Supplier GSTN": "27AAACA1234A1Z5",
    "Location GSTN": "29BBBCB5678B1Z3"
  }
}`

var masterData = map[procurement.ReferenceKind][]string{
	procurement.RefSupplier:    {"ACME  FASTENERS pvt ltd"},
	procurement.RefSite:        {"27AAACA1234A1Z5", "29BBBCB5678B1Z3"},
	procurement.RefLegalEntity: {"29BBBCB5678B1Z3"},
	procurement.RefPO:          {"PO-77"},
	procurement.RefItem:        {"Steel Bolts M8", "washers"},
}

func decode(t *testing.T, payload string) *invoice.RawInvoice {
	t.Helper()
	var raw invoice.RawInvoice
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return &raw
}

func seedMasterData(t *testing.T, repo *persistence.GormReferenceRepository) map[string]uuid.UUID {
	t.Helper()
	ids := make(map[string]uuid.UUID)
	for kind, names := range masterData {
		for _, name := range names {
			id, err := repo.Upsert(context.Background(), kind, uuid.New(), name)
			require.NoError(t, err)
			ids[string(kind)+":"+name] = id
		}
	}
	return ids
}

func newLookupProcessor(db *TestDB, refCache invoiceapp.ReferenceCache, opts ...invoiceapp.ProcessorOption) *invoiceapp.Processor {
	keys := procurement.NewKeyGenerator()
	resolver := invoiceapp.NewLookupResolver(persistence.NewGormReferenceRepository(db.DB), refCache)
	return invoiceapp.NewProcessor(
		invoiceapp.NewValidator(),
		invoiceapp.NewMapper(keys, resolver),
		persistence.NewGormInvoiceWriter(db.DB),
		opts...,
	)
}

func TestInvoicePipeline_Integration(t *testing.T) {
	db := NewTestDB(t)
	repo := persistence.NewGormReferenceRepository(db.DB)
	ids := seedMasterData(t, repo)
	ctx := context.Background()

	t.Run("writes all five tables with resolved keys", func(t *testing.T) {
		db.CleanTables()
		p := newLookupProcessor(db, cache.NewInMemoryReferenceCache(0))

		result := p.Process(ctx, decode(t, gstInvoice))
		require.True(t, result.Succeeded(), "errors: %v", result.Errors)
		assert.Equal(t, "INV-2025-001", result.InvoiceNumber)
		require.NotNil(t, result.Details)
		assert.Equal(t, 2, result.Details.POLinesInserted)
		assert.Equal(t, 2, result.Details.GRNLinesInserted)
		assert.Equal(t, 2, result.Details.POConditionsInserted)

		assert.EqualValues(t, 1, db.Count(persistence.TablePOHeader))
		assert.EqualValues(t, 2, db.Count(persistence.TablePOLine))
		assert.EqualValues(t, 2, db.Count(persistence.TablePOCondition))
		assert.EqualValues(t, 1, db.Count(persistence.TableGRNHeader))
		assert.EqualValues(t, 2, db.Count(persistence.TableGRNLine))

		var header struct {
			SupplierRef    uuid.UUID
			LegalEntityRef uuid.UUID
			SourcePORef    uuid.UUID
		}
		require.NoError(t, db.DB.Table(persistence.TablePOHeader).
			Select("supplier_ref, legal_entity_ref, source_po_ref").
			Take(&header).Error)
		assert.Equal(t, ids["supplier:ACME  FASTENERS pvt ltd"], header.SupplierRef)
		assert.Equal(t, ids["legal_entity:29BBBCB5678B1Z3"], header.LegalEntityRef)
		assert.Equal(t, ids["po:PO-77"], header.SourcePORef)

		var itemRefs []uuid.UUID
		require.NoError(t, db.DB.Table(persistence.TablePOLine).
			Order("line_no").Pluck("item_ref", &itemRefs).Error)
		assert.Equal(t, []uuid.UUID{ids["item:Steel Bolts M8"], ids["item:washers"]}, itemRefs)

		var grnInvoice string
		require.NoError(t, db.DB.Table(persistence.TableGRNHeader).
			Select("invoice_number").Take(&grnInvoice).Error)
		assert.Equal(t, "INV-2025-001", grnInvoice)
	})

	t.Run("unknown supplier fails at resolution and writes nothing", func(t *testing.T) {
		db.CleanTables()
		p := newLookupProcessor(db, nil)

		raw := decode(t, gstInvoice)
		raw.Static["Supplier Name"] = "Unknown Traders"

		result := p.Process(ctx, raw)
		assert.False(t, result.Succeeded())
		assert.Equal(t, invoiceapp.StepResolve, result.Stage)
		assert.NotEmpty(t, result.Errors)
		assert.EqualValues(t, 0, db.Count(persistence.TablePOHeader))
		assert.EqualValues(t, 0, db.Count(persistence.TableGRNHeader))
	})

	t.Run("batch isolates failures", func(t *testing.T) {
		db.CleanTables()
		p := newLookupProcessor(db, nil, invoiceapp.WithBatchConcurrency(2))

		second := decode(t, gstInvoice)
		second.Static["Invoice No"] = "INV-2025-002"
		broken := decode(t, gstInvoice)
		broken.Dynamic[0]["Quantity"] = "-3"

		batch := p.ProcessBatch(ctx, []*invoice.RawInvoice{decode(t, gstInvoice), broken, second})
		assert.Equal(t, 3, batch.Total)
		assert.Equal(t, 2, batch.Successful)
		assert.Equal(t, 1, batch.Failed)
		assert.Equal(t, invoiceapp.StepValidate, batch.Results[1].Stage)

		assert.EqualValues(t, 2, db.Count(persistence.TableGRNHeader))
		assert.EqualValues(t, 4, db.Count(persistence.TableGRNLine))
	})
}

func TestRedisStores_Integration(t *testing.T) {
	db := NewTestDB(t)
	seedMasterData(t, persistence.NewGormReferenceRepository(db.DB))

	host, portStr, err := net.SplitHostPort(NewRedis(t))
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	stores, err := cache.NewFactory(
		config.RedisConfig{Host: host, Port: port},
		config.ProcessingConfig{
			CacheBackend:   config.CacheBackendRedis,
			DuplicateGuard: true,
		},
	).CreateStores()
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })

	ctx := context.Background()
	p := newLookupProcessor(db, stores.References, invoiceapp.WithDuplicateGuard(stores.Guard))

	first := p.Process(ctx, decode(t, gstInvoice))
	require.True(t, first.Succeeded(), "errors: %v", first.Errors)

	key, ok, err := stores.References.Get(ctx, procurement.RefSupplier,
		procurement.NormalizeIdentifier("Acme Fasteners Pvt Ltd"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, uuid.Nil, key)

	again := p.Process(ctx, decode(t, gstInvoice))
	assert.False(t, again.Succeeded())
	assert.Equal(t, invoiceapp.StepValidate, again.Stage)
	assert.Contains(t, again.Errors[0], "duplicate invoice")
	assert.EqualValues(t, 1, db.Count(persistence.TableGRNHeader))
}
