package search

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/quadgram"
)

// minTemperature keeps the Metropolis exponent finite as T approaches 0.
const minTemperature = 1e-9

// cancelCheckInterval is how many iterations pass between context checks.
const cancelCheckInterval = 1024

// Annealer breaks a substitution cipher with simulated annealing.
type Annealer struct {
	model *quadgram.Model
	cfg   AnnealConfig
	rng   *rand.Rand
	opts  options
}

// NewAnnealer creates an annealer. rng seeds every restart; the Annealer
// owns it from here on.
func NewAnnealer(m *quadgram.Model, cfg AnnealConfig, rng *rand.Rand, opts ...Option) *Annealer {
	return &Annealer{model: m, cfg: cfg, rng: rng, opts: newOptions(opts)}
}

func (a *Annealer) Name() string { return StrategyAnneal }

type restart struct {
	best        Candidate
	evaluations int64
	accepted    int64
	started     bool
	done        bool
}

// Run performs cfg.Restarts independent annealing runs from the frequency
// seed of ct and returns the best key over all of them. Restarts run on up
// to Workers goroutines; each has its own generator drawn from the
// Annealer's generator up front, so the result does not depend on Workers.
func (a *Annealer) Run(ctx context.Context, ct Ciphertext) (res Result, err error) {
	if err := a.cfg.Validate(); err != nil {
		return Result{Strategy: StrategyAnneal}, fmt.Errorf("anneal: %w", err)
	}

	start := time.Now()
	ctx, span := startSpan(ctx, StrategyAnneal, ct,
		attribute.Int("anneal.iterations", a.cfg.Iterations),
		attribute.Int("anneal.restarts", a.cfg.Restarts),
	)
	defer func() {
		res.Elapsed = time.Since(start)
		a.opts.finish(span, &res, ct, err)
	}()

	res.Strategy = StrategyAnneal
	res.Inconclusive = ct.NrLetters() == 0

	seed := Candidate{Key: key.FrequencySeed(ct.String())}
	seed.Score = ct.fitness(a.model, seed.Key)

	a.opts.logger.Info("annealing",
		"iterations", a.cfg.Iterations,
		"temp_start", a.cfg.TempStart,
		"temp_end", a.cfg.TempEnd,
		"restarts", a.cfg.Restarts,
		"workers", a.opts.workers,
		"seed_key", seed.Key.String(),
		"seed_score", seed.Score,
	)

	rngs := make([]*rand.Rand, a.cfg.Restarts)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewPCG(a.rng.Uint64(), a.rng.Uint64()))
	}

	runs := make([]restart, a.cfg.Restarts)
	var mu sync.Mutex
	completed := 0
	runningBest := math.Inf(-1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.workers)
	for i := range runs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := a.anneal(gctx, ct, seed, rngs[i])
			runs[i] = r

			mu.Lock()
			defer mu.Unlock()
			if r.done {
				completed++
				runningBest = math.Max(runningBest, r.best.Score)
				a.opts.logger.Debug("restart finished", "restart", i, "score", r.best.Score, "key", r.best.Key.String())
				a.opts.report(Progress{Strategy: StrategyAnneal, Step: completed, Total: len(runs), Best: runningBest})
			}
			return err
		})
	}
	err = g.Wait()

	// Restarts are combined in index order so ties resolve the same way
	// however they were scheduled.
	res.Best = seed
	res.Evaluations = 1
	lb := NewLeaderboard(a.opts.topN)
	var accepted int64
	found := false
	for _, r := range runs {
		res.Evaluations += r.evaluations
		accepted += r.accepted
		if !r.started {
			continue
		}
		if r.done {
			res.RestartScores = append(res.RestartScores, r.best.Score)
		}
		lb.Add(r.best)
		if !found || r.best.Score > res.Best.Score {
			res.Best = r.best
			found = true
		}
	}
	if !found {
		lb.Add(seed)
	}
	res.Top = lb.Candidates()
	a.opts.metrics.acceptedMoves(accepted)

	if err != nil {
		return res, fmt.Errorf("anneal: %w", err)
	}
	if verr := res.Best.Key.Validate(); verr != nil {
		return res, fmt.Errorf("anneal: %w", verr)
	}
	return res, nil
}

// anneal runs one cooling schedule from seed. The walk may accept worse
// keys, so the best key seen is tracked separately from the current one.
func (a *Annealer) anneal(ctx context.Context, ct Ciphertext, seed Candidate, rng *rand.Rand) (restart, error) {
	cur := seed
	r := restart{best: seed, started: true}

	iters := a.cfg.Iterations
	ratio := a.cfg.TempEnd / a.cfg.TempStart
	for i := 1; i <= iters; i++ {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return r, err
			}
		}

		t := a.cfg.TempStart * math.Pow(ratio, float64(i)/float64(iters))

		cand := Candidate{Key: key.Swap(cur.Key, rng)}
		cand.Score = ct.fitness(a.model, cand.Key)
		r.evaluations++

		delta := cand.Score - cur.Score
		if delta > 0 || math.Exp(delta/math.Max(t, minTemperature)) > rng.Float64() {
			cur = cand
			r.accepted++
			if cur.Score > r.best.Score {
				r.best = cur
			}
		}
	}

	r.done = true
	return r, nil
}
