package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.Same(t, log, lp.Tee(log, "svc", zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestStartSpan_RecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := StartSpan(context.Background(), "invoice.write")
	RecordError(span, errors.New("duplicate key"))
	span.End()

	_, ok := StartSpan(context.Background(), "invoice.validate")
	SetOK(ok)
	RecordError(ok, nil)
	ok.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "invoice.write", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, codes.Ok, ended[1].Status().Code)
}

func TestPipelineMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewPipelineMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOutcome(ctx, "success", "", 20*time.Millisecond, 2)
	m.RecordOutcome(ctx, "failed", "VALIDATED", time.Millisecond, 0)
	m.RecordRows(ctx, "s_po_line", 3)
	m.RecordRows(ctx, "s_po_condition", 0)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}

	processed := byName["ocr.invoices.processed"].Data.(metricdata.Sum[int64])
	assert.Len(t, processed.DataPoints, 2)

	rows := byName["ocr.rows.inserted"].Data.(metricdata.Sum[int64])
	require.Len(t, rows.DataPoints, 1)
	assert.Equal(t, int64(3), rows.DataPoints[0].Value)

	warnings := byName["ocr.invoice.warnings"].Data.(metricdata.Sum[int64])
	require.Len(t, warnings.DataPoints, 1)
	assert.Equal(t, int64(2), warnings.DataPoints[0].Value)
}
