package invoiceapp

import (
	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
)

// Result statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ProcessResult is the outcome of one invoice
type ProcessResult struct {
	Status        string                    `json:"status"`
	Message       string                    `json:"message"`
	Stage         Step                      `json:"stage,omitempty"`
	InvoiceNumber string                    `json:"invoice_number,omitempty"`
	GRNNumber     string                    `json:"grn_number,omitempty"`
	GRNID         string                    `json:"grn_id,omitempty"`
	PONumber      string                    `json:"po_number,omitempty"`
	Details       *procurement.WriteSummary `json:"details,omitempty"`
	Errors        []string                  `json:"errors"`
}

// Succeeded reports whether the invoice was written
func (r ProcessResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// BatchResult holds one result per submitted invoice, in submission order
type BatchResult struct {
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Results    []ProcessResult `json:"results"`
}

func newBatchResult(results []ProcessResult) BatchResult {
	br := BatchResult{Total: len(results), Results: results}
	for _, r := range results {
		if r.Succeeded() {
			br.Successful++
		} else {
			br.Failed++
		}
	}
	return br
}
