package invoiceapp

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/stretchr/testify/require"
)

const scenarioJSON = `{
  "dynamic": [{"Quantity":"1","Line Amount":"100","Unit Price":"100","HSN Number":"1","igst_rate":"18","PO Number":"PO1"}],
  "static": {"Invoice Date":["01-Jan-2025"],"Invoice Currency":["INR"],"Total Invoice Amount":["118"],"Supplier Name":["ACME"],"Invoice No":["INV1"]}
}`

const twoLineJSON = `{
  "dynamic": [
    {"Description":"Steel bolts M8","Quantity":"10","Line Amount":"1,000.00","Unit Price":"100","HSN Number":"7318","cgst_rate":"9%","sgst_rate":"9","PO Number":"PO-77","Unit":"BOX"},
    {"Description":"Washers","Quantity":"2.5","Line Amount":"50.555","Unit Price":"20.222","PO Number":"PO-77"}
  ],
  "static": {
    "Invoice Date": "15/03/2025",
    "Invoice Currency": "INR",
    "Total Invoice Amount": "1230.56",
    "Supplier Name": "Acme Fasteners Pvt Ltd",
    "Invoice No": "INV-2025-001",
    "Supplier GSTN": "27AAACA1234A1Z5",
    "Location GSTN": "29BBBCB5678B1Z3",
    "Subtotal": "1050.56",
    "Payment Terms": "NET45"
  }
}`

func decodeRaw(t *testing.T, payload string) *invoice.RawInvoice {
	t.Helper()
	var raw invoice.RawInvoice
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))
	return &raw
}

func processingTime() time.Time {
	return time.Date(2025, time.March, 20, 9, 15, 0, 0, time.UTC)
}

// seededKeys returns a KeyGenerator whose output depends only on seed
func seededKeys(seed byte) *procurement.KeyGenerator {
	var s [32]byte
	s[0] = seed
	return procurement.NewKeyGenerator(
		procurement.WithRandomSource(rand.NewChaCha8(s)),
		procurement.WithClock(processingTime),
	)
}

func newTestPipeline(seed byte, writer procurement.InvoiceWriter, opts ...ProcessorOption) *Processor {
	keys := seededKeys(seed)
	return NewProcessor(NewValidator(), NewMapper(keys, NewPlaceholderResolver(keys)), writer, opts...)
}

// recordingWriter keeps every record set it is asked to write
type recordingWriter struct {
	mu      sync.Mutex
	written []*procurement.RecordSet
	fail    func(call int, rs *procurement.RecordSet) error
	calls   int
}

func (w *recordingWriter) WriteInvoice(ctx context.Context, rs *procurement.RecordSet) (procurement.WriteSummary, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.fail != nil {
		if err := w.fail(w.calls, rs); err != nil {
			return procurement.WriteSummary{}, err
		}
	}
	w.written = append(w.written, rs)
	return rs.Summary(), nil
}

func (w *recordingWriter) Calls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}
