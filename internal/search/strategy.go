// Package search breaks monoalphabetic ciphers by maximising quadgram
// fitness over the key space.
//
// Three strategies are provided:
//
//   - ShiftSearch tries all 26 Caesar shifts.
//   - Annealer runs simulated annealing from a frequency-seeded key, with
//     independent restarts.
//   - Genetic evolves a population of random keys with tournament
//     selection, order crossover, swap mutation and elitism.
//
// Every strategy owns an injected random generator, so a fixed seed gives
// the same result for any Workers setting. The model is only read during a
// search and may be shared between strategies running concurrently.
package search

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/jmccarv/monocrack/internal/key"
)

// Strategy names, also used as metric labels.
const (
	StrategyCaesar  = "caesar"
	StrategyAnneal  = "anneal"
	StrategyGenetic = "genetic"
)

// Strategy searches for the key that best decrypts a ciphertext.
type Strategy interface {
	Name() string

	// Run returns the best candidate found. When ctx ends early Run returns
	// the best candidate so far together with the context error.
	Run(ctx context.Context, ct Ciphertext) (Result, error)
}

// Result is the outcome of one strategy run.
type Result struct {
	Strategy string

	// Best is the highest-scoring candidate found.
	Best Candidate

	// Shift is the winning rotation. Only set by ShiftSearch.
	Shift key.Shift

	// Plaintext is the full ciphertext decrypted with Best.Key.
	Plaintext string

	// Top holds up to TopN distinct candidates, best first.
	Top []Candidate

	// RestartScores holds the best score of each annealing restart.
	RestartScores []float64

	// Generations is the number of generations the genetic run completed.
	Generations int

	// Evaluations counts fitness evaluations.
	Evaluations int64

	// Inconclusive is set when the ciphertext holds no letters, so every
	// key scores 0.
	Inconclusive bool

	Elapsed time.Duration
}

// Progress is reported after each annealing restart and each generation.
type Progress struct {
	Strategy string
	Step     int
	Total    int
	Best     float64
}

// Option configures a strategy.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	metrics  *Metrics
	progress func(Progress)
	workers  int
	topN     int
}

func newOptions(opts []Option) options {
	o := options{
		logger:  slog.Default(),
		workers: 1,
		topN:    1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records run metrics. Nil disables recording.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProgress registers a callback for progress updates. Callbacks are
// never invoked concurrently.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) { o.progress = fn }
}

// WithWorkers bounds parallelism. n < 1 means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithTopN keeps the n best distinct candidates in Result.Top.
func WithTopN(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.topN = n
	}
}

func (o options) report(p Progress) {
	if o.progress != nil {
		o.progress(p)
	}
}
