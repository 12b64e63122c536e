package procurement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// InvoiceWriter persists a complete RecordSet atomically. Inserts run in the
// order PO header, PO lines, PO conditions, GRN header, GRN lines.
type InvoiceWriter interface {
	WriteInvoice(ctx context.Context, rs *RecordSet) (WriteSummary, error)
}

// WriteSummary reports what one invoice write inserted
type WriteSummary struct {
	GRNHeaderID          uuid.UUID `json:"grn_header_id"`
	GRNLinesInserted     int       `json:"grn_lines_inserted"`
	POHeaderID           uuid.UUID `json:"po_header_id"`
	POLinesInserted      int       `json:"po_lines_inserted"`
	POConditionsInserted int       `json:"po_conditions_inserted"`
}

// DatabaseError wraps a failed write. The whole transaction was rolled back.
type DatabaseError struct {
	Table string
	Err   error
}

func (e *DatabaseError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("database error: %v", e.Err)
	}
	return fmt.Sprintf("database error on %s: %v", e.Table, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}
