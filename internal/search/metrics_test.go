package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jmccarv/monocrack/internal/key"
)

func TestMetrics_RecordsRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ct := NewCiphertext("AOL XBPJR IYVDU MVE")
	_, err := NewShiftSearch(english(), WithLogger(quietLogger()), WithMetrics(m)).Run(context.Background(), ct)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StrategyCaesar, "ok")))
	assert.Equal(t, 26.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues(StrategyCaesar)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RunDurationSeconds))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewShiftSearch(english(), WithLogger(quietLogger()), WithMetrics(m)).Run(ctx, ct)
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues(StrategyCaesar, "cancelled")))
}

func TestMetrics_AcceptedMoves(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ct := NewCiphertext(encipher("THE LIGHT FADED SLOWLY OVER THE HILLS", key.Random(newRNG(21))))

	cfg := AnnealConfig{Iterations: 300, TempStart: 8.0, TempEnd: 0.01, Restarts: 2}
	_, err := NewAnnealer(english(), cfg, newRNG(22), WithLogger(quietLogger()), WithMetrics(m)).Run(context.Background(), ct)
	require.NoError(t, err)

	assert.Greater(t, testutil.ToFloat64(m.AcceptedMovesTotal), 0.0)
	assert.LessOrEqual(t, testutil.ToFloat64(m.AcceptedMovesTotal), 600.0)
	assert.Equal(t, 601.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues(StrategyAnneal)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(Result{Strategy: StrategyCaesar}, nil)
		m.acceptedMoves(3)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", outcome(nil))
	assert.Equal(t, "cancelled", outcome(fmt.Errorf("anneal: %w", context.Canceled)))
	assert.Equal(t, "cancelled", outcome(context.DeadlineExceeded))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}

func TestTracing_SpanPerRun(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ct := NewCiphertext("AOL XBPJR IYVDU MVE")
	_, err := NewShiftSearch(english(), WithLogger(quietLogger())).Run(context.Background(), ct)
	require.NoError(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "search.caesar", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "caesar", attrs["search.strategy"].AsString())
	assert.Equal(t, int64(16), attrs["search.letters"].AsInt64())
	assert.Equal(t, int64(26), attrs["search.evaluations"].AsInt64())
}
