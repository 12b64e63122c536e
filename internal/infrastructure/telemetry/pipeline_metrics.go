package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics records invoice processing outcomes
type PipelineMetrics struct {
	processed metric.Int64Counter
	duration  metric.Float64Histogram
	rows      metric.Int64Counter
	warnings  metric.Int64Counter
}

// NewPipelineMetrics registers the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	processed, err := meter.Int64Counter("ocr.invoices.processed",
		metric.WithDescription("Invoices that reached a terminal state"),
		metric.WithUnit("{invoice}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	duration, err := meter.Float64Histogram("ocr.invoice.duration",
		metric.WithDescription("Time from receipt to terminal state"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram: %w", err)
	}
	rows, err := meter.Int64Counter("ocr.rows.inserted",
		metric.WithDescription("Rows inserted per target table"),
		metric.WithUnit("{row}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	warnings, err := meter.Int64Counter("ocr.invoice.warnings",
		metric.WithDescription("Non-fatal warnings attached to processed invoices"),
		metric.WithUnit("{warning}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}
	return &PipelineMetrics{processed: processed, duration: duration, rows: rows, warnings: warnings}, nil
}

// RecordOutcome counts one finished invoice. stage is the stage that failed,
// or empty on success.
func (m *PipelineMetrics) RecordOutcome(ctx context.Context, status, stage string, elapsed time.Duration, warnings int) {
	attrs := metric.WithAttributes(attribute.String("status", status), attribute.String("stage", stage))
	m.processed.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if warnings > 0 {
		m.warnings.Add(ctx, int64(warnings))
	}
}

// RecordRows counts rows inserted into table
func (m *PipelineMetrics) RecordRows(ctx context.Context, table string, n int) {
	if n > 0 {
		m.rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("table", table)))
	}
}
