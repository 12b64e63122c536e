package handler

import (
	"context"
	"fmt"
	"net/http"

	invoiceapp "github.com/easyml-code/ocr-data-insertion/internal/application/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/dto"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InvoiceProcessor runs OCR payloads through the pipeline
type InvoiceProcessor interface {
	Process(ctx context.Context, raw *invoice.RawInvoice) invoiceapp.ProcessResult
	ProcessBatch(ctx context.Context, raws []*invoice.RawInvoice) invoiceapp.BatchResult
}

// InvoiceHandler handles invoice ingestion endpoints
type InvoiceHandler struct {
	BaseHandler
	processor    InvoiceProcessor
	maxBatchSize int
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(processor InvoiceProcessor, maxBatchSize int) *InvoiceHandler {
	return &InvoiceHandler{
		processor:    processor,
		maxBatchSize: maxBatchSize,
	}
}

// RegisterRoutes mounts /invoice/process and /invoice/process/batch
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/invoice")
	g.POST("/process", h.Process)
	g.POST("/process/batch", h.ProcessBatch)
}

// Process godoc
// @Summary      Process one OCR invoice
// @Description  Validates, maps and writes one invoice into the PO and GRN tables.
// @Description  A 422 carries the same result body, naming the stage the invoice stopped at.
// @Tags         invoice
// @Accept       json
// @Produce      json
// @Param        request body invoice.RawInvoice true "OCR payload with dynamic line items and static header fields"
// @Success      200 {object} dto.Response{data=invoiceapp.ProcessResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{data=invoiceapp.ProcessResult,error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/v1/invoice/process [post]
func (h *InvoiceHandler) Process(c *gin.Context) {
	var raw invoice.RawInvoice
	if err := c.ShouldBindJSON(&raw); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	result := h.processor.Process(c.Request.Context(), &raw)
	if !result.Succeeded() {
		c.JSON(http.StatusUnprocessableEntity, dto.NewFailedResponse(
			dto.ErrCodeInvoiceFailed, result.Message, getRequestID(c), result))
		return
	}
	h.Success(c, result)
}

// ProcessBatch godoc
// @Summary      Process a batch of OCR invoices
// @Description  Runs every invoice independently. Once the batch ran the answer is 200;
// @Description  per-invoice outcomes are in results.
// @Tags         invoice
// @Accept       json
// @Produce      json
// @Param        request body dto.BatchProcessRequest true "Invoices to process"
// @Success      200 {object} dto.Response{data=invoiceapp.BatchResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /api/v1/invoice/process/batch [post]
func (h *InvoiceHandler) ProcessBatch(c *gin.Context) {
	var req dto.BatchProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}
	if h.maxBatchSize > 0 && len(req.Invoices) > h.maxBatchSize {
		h.ErrorWithCode(c, dto.ErrCodeBatchTooLarge,
			fmt.Sprintf("batch holds %d invoices, at most %d are accepted", len(req.Invoices), h.maxBatchSize))
		return
	}

	h.Success(c, h.processor.ProcessBatch(c.Request.Context(), req.Invoices))
}
