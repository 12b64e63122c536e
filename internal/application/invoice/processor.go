package invoiceapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/invoice"
	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DuplicateGuard rejects invoices that were already accepted recently.
// Acquire returns false when key is already held.
type DuplicateGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// RawArchive stores the original OCR payload of a written invoice
type RawArchive interface {
	Archive(ctx context.Context, grnNumber string, at time.Time, payload []byte) (string, error)
}

// Recorder receives pipeline metrics
type Recorder interface {
	RecordOutcome(ctx context.Context, status, stage string, elapsed time.Duration, warnings int)
	RecordRows(ctx context.Context, table string, n int)
}

// Processor runs invoices through validate, map, resolve and write
type Processor struct {
	validator   *Validator
	mapper      *Mapper
	writer      procurement.InvoiceWriter
	logger      *zap.Logger
	retries     int
	retryDelay  time.Duration
	concurrency int
	guard       DuplicateGuard
	archive     RawArchive
	metrics     Recorder
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor)

// WithLogger sets the base logger
func WithLogger(l *zap.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = l }
}

// WithWriteRetries retries a failed write of the same record set up to n
// times, delay apart. Only database errors are retried.
func WithWriteRetries(n int, delay time.Duration) ProcessorOption {
	return func(p *Processor) {
		p.retries = max(n, 0)
		p.retryDelay = delay
	}
}

// WithBatchConcurrency bounds how many invoices of a batch run at once
func WithBatchConcurrency(n int) ProcessorOption {
	return func(p *Processor) { p.concurrency = max(n, 1) }
}

// WithDuplicateGuard enables duplicate submission detection
func WithDuplicateGuard(g DuplicateGuard) ProcessorOption {
	return func(p *Processor) { p.guard = g }
}

// WithRawArchive stores the raw payload of every written invoice
func WithRawArchive(a RawArchive) ProcessorOption {
	return func(p *Processor) { p.archive = a }
}

// WithMetrics records outcomes and row counts
func WithMetrics(r Recorder) ProcessorOption {
	return func(p *Processor) { p.metrics = r }
}

// NewProcessor creates a Processor. Batches run sequentially and writes are
// not retried unless configured otherwise.
func NewProcessor(validator *Validator, mapper *Mapper, writer procurement.InvoiceWriter, opts ...ProcessorOption) *Processor {
	p := &Processor{
		validator:   validator,
		mapper:      mapper,
		writer:      writer,
		logger:      zap.NewNop(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one invoice to a terminal state. Every failure, including a
// panic inside the pipeline, is reported in the result rather than returned.
func (p *Processor) Process(ctx context.Context, raw *invoice.RawInvoice) (result ProcessResult) {
	start := time.Now()
	run := newInvoiceRun()

	ctx, span := telemetry.StartSpan(ctx, "invoice.process")
	defer span.End()
	ctx = logger.EnsureContext(ctx, p.logger)
	var invoiceNo, guardKey string
	release := func() {
		if guardKey == "" {
			return
		}
		if err := p.guard.Release(ctx, guardKey); err != nil {
			logger.L(ctx).Warn("failed to release duplicate guard", zap.Error(err))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			release()
			step := run.fail()
			logger.L(ctx).Error("invoice pipeline panicked", zap.Any("panic", r), zap.String("stage", string(step)))
			result = failed(step, invoiceNo, []string{fmt.Sprintf("internal error: %v", r)})
		}
		if result.Succeeded() {
			telemetry.SetOK(span)
		} else {
			span.SetAttributes(attribute.String("invoice.failed_stage", string(result.Stage)))
			telemetry.RecordError(span, errors.New(result.Message))
		}
		if p.metrics != nil {
			p.metrics.RecordOutcome(ctx, result.Status, string(result.Stage), time.Since(start), warningCount(result))
		}
	}()

	inv, err := p.validator.Validate(raw)
	if err != nil {
		return p.fail(ctx, run, "", err)
	}
	run.advance(StateValidated)
	invoiceNo = inv.Number
	ctx = logger.WithInvoiceNumber(ctx, inv.Number)
	span.SetAttributes(attribute.String("invoice.number", inv.Number), attribute.Int("invoice.lines", len(inv.Lines)))
	logger.L(ctx).Debug("invoice validated", zap.Int("lines", len(inv.Lines)))

	if p.guard != nil {
		guardKey = duplicateKey(inv)
		acquired, err := p.guard.Acquire(ctx, guardKey)
		switch {
		case err != nil:
			logger.L(ctx).Warn("duplicate guard unavailable, continuing", zap.Error(err))
			guardKey = ""
		case !acquired:
			return failed(StepValidate, inv.Number, []string{
				fmt.Sprintf("duplicate invoice: %s from %s was already submitted", inv.Number, inv.SupplierName)})
		}
	}
	rs, err := p.mapper.Map(inv)
	if err != nil {
		release()
		return p.fail(ctx, run, inv.Number, err)
	}
	run.advance(StateMapped)

	if err := p.mapper.Resolve(ctx, rs); err != nil {
		release()
		return p.fail(ctx, run, inv.Number, err)
	}
	if err := rs.Validate(); err != nil {
		release()
		return p.fail(ctx, run, inv.Number, err)
	}
	run.advance(StateResolved)

	summary, err := p.write(ctx, rs)
	if err != nil {
		release()
		return p.fail(ctx, run, inv.Number, err)
	}
	run.advance(StateWritten)

	warnings := append([]string{}, rs.Warnings...)
	if p.archive != nil {
		if w := p.archiveRaw(ctx, rs, raw); w != "" {
			warnings = append(warnings, w)
		}
	}
	p.recordRows(ctx, summary)

	logger.L(ctx).Info("invoice written",
		zap.String("grn_number", rs.GRNHeader.GRNNumber),
		zap.String("po_number", rs.POHeader.PONumber),
		zap.Int("lines", summary.GRNLinesInserted),
		zap.Int("conditions", summary.POConditionsInserted),
		zap.Int("warnings", len(warnings)),
	)

	return ProcessResult{
		Status:        StatusSuccess,
		Message:       "Invoice processed successfully",
		InvoiceNumber: inv.Number,
		GRNNumber:     rs.GRNHeader.GRNNumber,
		GRNID:         rs.GRNHeader.GRNID,
		PONumber:      rs.POHeader.PONumber,
		Details:       &summary,
		Errors:        warnings,
	}
}

// write calls the writer once, plus configured retries on database errors
func (p *Processor) write(ctx context.Context, rs *procurement.RecordSet) (procurement.WriteSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "invoice.write")
	defer span.End()

	var summary procurement.WriteSummary
	var lastErr error
	attempt := 0
	operation := func() error {
		attempt++
		s, err := p.writer.WriteInvoice(ctx, rs)
		if err == nil {
			summary = s
			return nil
		}
		lastErr = err
		var dbErr *procurement.DatabaseError
		if !errors.As(err, &dbErr) {
			return backoff.Permanent(err)
		}
		if attempt <= p.retries {
			logger.L(ctx).Warn("invoice write failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.retryDelay), uint64(p.retries)), ctx)
	err := backoff.Retry(operation, policy)
	// a cancelled context hides the database error that ended the last attempt
	if err != nil && lastErr != nil && errors.Is(err, ctx.Err()) {
		err = lastErr
	}
	telemetry.RecordError(span, err)
	return summary, err
}

func (p *Processor) archiveRaw(ctx context.Context, rs *procurement.RecordSet, raw *invoice.RawInvoice) string {
	payload, err := json.Marshal(raw)
	if err == nil {
		_, err = p.archive.Archive(ctx, rs.GRNHeader.GRNNumber, rs.GRNHeader.CreatedAt, payload)
	}
	if err != nil {
		logger.L(ctx).Warn("failed to archive raw invoice", zap.Error(err))
		return "raw payload not archived: " + err.Error()
	}
	return ""
}

func (p *Processor) recordRows(ctx context.Context, s procurement.WriteSummary) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordRows(ctx, "po_header", 1)
	p.metrics.RecordRows(ctx, "po_line", s.POLinesInserted)
	p.metrics.RecordRows(ctx, "po_condition", s.POConditionsInserted)
	p.metrics.RecordRows(ctx, "grn_header", 1)
	p.metrics.RecordRows(ctx, "grn_line", s.GRNLinesInserted)
}

// fail moves run to FAILED and builds the result for err
func (p *Processor) fail(ctx context.Context, run *invoiceRun, invoiceNo string, err error) ProcessResult {
	step := run.fail()
	msgs := errorMessages(err)
	logger.L(ctx).Warn("invoice failed",
		zap.String("stage", string(step)),
		zap.Strings("errors", msgs),
	)
	return failed(step, invoiceNo, msgs)
}

func failed(step Step, invoiceNo string, msgs []string) ProcessResult {
	return ProcessResult{
		Status:        StatusFailed,
		Message:       fmt.Sprintf("Invoice processing failed at %s", step),
		Stage:         step,
		InvoiceNumber: invoiceNo,
		Errors:        msgs,
	}
}

// errorMessages flattens the pipeline error taxonomy into caller-facing messages
func errorMessages(err error) []string {
	var (
		validationErr *invoice.ValidationError
		mappingErr    *invoice.MappingError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Messages()
	case errors.As(err, &mappingErr):
		return mappingErr.Messages()
	default:
		return []string{err.Error()}
	}
}

func warningCount(r ProcessResult) int {
	if r.Succeeded() {
		return len(r.Errors)
	}
	return 0
}

// duplicateKey identifies an invoice by supplier and invoice number
func duplicateKey(inv *invoice.Invoice) string {
	return procurement.NormalizeIdentifier(inv.SupplierName) + "|" + procurement.NormalizeIdentifier(inv.Number)
}
