package invoiceapp

import (
	"context"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const batchCancelledMessage = "batch cancelled before processing"

// ProcessBatch processes every invoice independently. results[i] belongs to
// invoices[i]; one failure never stops the others. Once the context is
// cancelled no further invoice is started, while invoices already running
// finish their write.
func (p *Processor) ProcessBatch(ctx context.Context, invoices []*invoice.RawInvoice) BatchResult {
	ctx = logger.EnsureContext(ctx, p.logger)
	ctx, span := telemetry.StartSpan(ctx, "invoice.process_batch",
		attribute.Int("batch.size", len(invoices)),
		attribute.Int("batch.concurrency", p.concurrency),
	)
	defer span.End()

	results := make([]ProcessResult, len(invoices))
	detached := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, raw := range invoices {
		if ctx.Err() != nil {
			results[i] = cancelledResult()
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = cancelledResult()
				return nil
			}
			if raw == nil {
				results[i] = failed(StepValidate, "", []string{"invoice payload is empty"})
				return nil
			}
			results[i] = p.Process(detached, raw)
			return nil
		})
	}
	_ = g.Wait()

	br := newBatchResult(results)
	span.SetAttributes(
		attribute.Int("batch.successful", br.Successful),
		attribute.Int("batch.failed", br.Failed),
	)
	logger.L(ctx).Info("batch processed",
		zap.Int("total", br.Total),
		zap.Int("successful", br.Successful),
		zap.Int("failed", br.Failed),
	)
	return br
}

func cancelledResult() ProcessResult {
	return ProcessResult{
		Status:  StatusFailed,
		Message: batchCancelledMessage,
		Errors:  []string{batchCancelledMessage},
	}
}
