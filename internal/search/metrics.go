package search

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const metricsNamespace = "monocrack"

const searchSubsystem = "search"

const tracerName = "github.com/jmccarv/monocrack/internal/search"

// Metrics records search activity.
//
// Thread Safety: Safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	// RunsTotal counts strategy runs.
	// Labels: strategy, outcome (ok, cancelled, error)
	RunsTotal *prometheus.CounterVec

	// EvaluationsTotal counts fitness evaluations.
	// Labels: strategy
	EvaluationsTotal *prometheus.CounterVec

	// AcceptedMovesTotal counts annealing proposals that were accepted.
	AcceptedMovesTotal prometheus.Counter

	// BestScore is the best score of the latest run.
	// Labels: strategy
	BestScore *prometheus.GaugeVec

	// RunDurationSeconds measures run wall time.
	// Labels: strategy
	RunDurationSeconds *prometheus.HistogramVec
}

// NewMetrics registers the search metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "runs_total",
			Help:      "Total search runs by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		EvaluationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "evaluations_total",
			Help:      "Total fitness evaluations by strategy",
		}, []string{"strategy"}),
		AcceptedMovesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "anneal_accepted_moves_total",
			Help:      "Total accepted annealing moves",
		}),
		BestScore: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "best_score",
			Help:      "Best fitness of the latest run by strategy",
		}, []string{"strategy"}),
		RunDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Search run duration",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 5, 15, 60, 300},
		}, []string{"strategy"}),
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func (m *Metrics) observe(res Result, err error) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(res.Strategy, outcome(err)).Inc()
	m.EvaluationsTotal.WithLabelValues(res.Strategy).Add(float64(res.Evaluations))
	m.BestScore.WithLabelValues(res.Strategy).Set(res.Best.Score)
	m.RunDurationSeconds.WithLabelValues(res.Strategy).Observe(res.Elapsed.Seconds())
}

func (m *Metrics) acceptedMoves(n int64) {
	if m == nil {
		return
	}
	m.AcceptedMovesTotal.Add(float64(n))
}

func startSpan(ctx context.Context, strategy string, ct Ciphertext, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("search.strategy", strategy),
		attribute.Int("search.letters", ct.NrLetters()),
	)
	return otel.Tracer(tracerName).Start(ctx, "search."+strategy, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, res Result, err error) {
	span.SetAttributes(
		attribute.Float64("search.best_score", res.Best.Score),
		attribute.Int64("search.evaluations", res.Evaluations),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// finish stamps the common result fields and records metrics and tracing.
func (o options) finish(span trace.Span, res *Result, ct Ciphertext, err error) {
	res.Plaintext = ct.Decrypt(res.Best.Key)
	o.metrics.observe(*res, err)
	endSpan(span, *res, err)

	log := o.logger.Info
	if err != nil {
		log = o.logger.Warn
	}
	log("search finished",
		"strategy", res.Strategy,
		"best_score", res.Best.Score,
		"key", res.Best.Key.String(),
		"evaluations", res.Evaluations,
		"elapsed", res.Elapsed,
		"outcome", outcome(err),
	)
}
