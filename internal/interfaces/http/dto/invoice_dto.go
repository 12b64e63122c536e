package dto

import "github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"

// BatchProcessRequest is the body of POST /invoice/process/batch
type BatchProcessRequest struct {
	Invoices []*invoice.RawInvoice `json:"invoices" binding:"required,min=1"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
}
