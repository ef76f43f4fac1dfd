package search

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/quadgram"
)

// progressLogInterval is how often, in generations, the best candidate is
// logged at debug level.
const progressLogInterval = 50

// Genetic breaks a substitution cipher with a genetic algorithm.
type Genetic struct {
	model *quadgram.Model
	cfg   GeneticConfig
	rng   *rand.Rand
	opts  options

	// scratch for tournament sampling
	idx []int
}

// NewGenetic creates a genetic search. Run rejects a cfg that fails
// GeneticConfig.Validate.
func NewGenetic(m *quadgram.Model, cfg GeneticConfig, rng *rand.Rand, opts ...Option) *Genetic {
	return &Genetic{model: m, cfg: cfg, rng: rng, opts: newOptions(opts)}
}

func (g *Genetic) Name() string { return StrategyGenetic }

// Run evolves a population of random keys for cfg.Generations generations
// (fewer when Patience is set) and returns the best key of the final
// population. Elitism makes the best score non-decreasing from one
// generation to the next.
func (g *Genetic) Run(ctx context.Context, ct Ciphertext) (res Result, err error) {
	if err := g.cfg.Validate(); err != nil {
		return Result{Strategy: StrategyGenetic}, fmt.Errorf("genetic: %w", err)
	}

	start := time.Now()
	ctx, span := startSpan(ctx, StrategyGenetic, ct,
		attribute.Int("genetic.population_size", g.cfg.PopulationSize),
		attribute.Int("genetic.generations", g.cfg.Generations),
	)
	defer func() {
		res.Elapsed = time.Since(start)
		g.opts.finish(span, &res, ct, err)
	}()

	res.Strategy = StrategyGenetic
	res.Inconclusive = ct.NrLetters() == 0

	size := g.cfg.PopulationSize
	elite := min(g.cfg.ElitismCount, size)

	g.opts.logger.Info("evolving",
		"population_size", size,
		"generations", g.cfg.Generations,
		"elitism_count", elite,
		"mutation_rate", g.cfg.MutationRate,
		"tournament_size", g.cfg.TournamentSize,
		"patience", g.cfg.Patience,
		"workers", g.opts.workers,
	)

	pop := make([]Candidate, size)
	for i := range pop {
		pop[i].Key = key.Random(g.rng)
	}
	g.evaluate(ct, pop)
	res.Evaluations = int64(size)

	bestSeen := math.Inf(-1)
	stale := 0
	for gen := 0; gen < g.cfg.Generations; gen++ {
		if err = ctx.Err(); err != nil {
			break
		}

		sortCandidates(pop)
		if gen%progressLogInterval == 0 {
			g.opts.logger.Debug("generation", "generation", gen, "best_score", pop[0].Score, "key", pop[0].Key.String())
		}
		g.opts.report(Progress{Strategy: StrategyGenetic, Step: gen, Total: g.cfg.Generations, Best: pop[0].Score})

		if pop[0].Score > bestSeen {
			bestSeen = pop[0].Score
			stale = 0
		} else {
			stale++
		}
		if g.cfg.Patience > 0 && stale >= g.cfg.Patience {
			g.opts.logger.Info("stopping early", "generation", gen, "patience", g.cfg.Patience)
			break
		}

		next := make([]Candidate, elite, size)
		copy(next, pop[:elite])
		children := g.breed(pop, size-elite)
		g.evaluate(ct, children)
		res.Evaluations += int64(len(children))

		pop = append(next, children...)
		res.Generations++
	}

	res.Best = bestOf(pop)
	g.opts.report(Progress{Strategy: StrategyGenetic, Step: res.Generations, Total: g.cfg.Generations, Best: res.Best.Score})

	final := make([]Candidate, len(pop))
	copy(final, pop)
	sortCandidates(final)
	lb := NewLeaderboard(g.opts.topN)
	for _, c := range final {
		lb.Add(c)
	}
	res.Top = lb.Candidates()

	if err != nil {
		return res, fmt.Errorf("genetic: %w", err)
	}
	if verr := res.Best.Key.Validate(); verr != nil {
		return res, fmt.Errorf("genetic: %w", verr)
	}
	return res, nil
}

// breed produces n unscored children from the sorted population. Parents
// come in pairs from two tournaments; when one slot is left only the first
// child of the last pair is kept.
func (g *Genetic) breed(pop []Candidate, n int) []Candidate {
	children := make([]Candidate, 0, n)
	for len(children) < n {
		p1 := g.tournament(pop)
		p2 := g.tournament(pop)

		c1, c2 := key.OrderCrossover(p1.Key, p2.Key, g.rng)
		if g.rng.Float64() < g.cfg.MutationRate {
			c1 = key.Mutate(c1, g.rng)
		}
		if g.rng.Float64() < g.cfg.MutationRate {
			c2 = key.Mutate(c2, g.rng)
		}

		children = append(children, Candidate{Key: c1})
		if len(children) < n {
			children = append(children, Candidate{Key: c2})
		}
	}
	return children
}

// tournament samples TournamentSize distinct members and returns the best,
// the earliest sampled winning ties.
func (g *Genetic) tournament(pop []Candidate) Candidate {
	n := len(pop)
	if len(g.idx) != n {
		g.idx = make([]int, n)
	}
	for i := range g.idx {
		g.idx[i] = i
	}

	k := min(g.cfg.TournamentSize, n)
	best := -1
	for i := 0; i < k; i++ {
		j := i + g.rng.IntN(n-i)
		g.idx[i], g.idx[j] = g.idx[j], g.idx[i]
		if best < 0 || pop[g.idx[i]].Score > pop[best].Score {
			best = g.idx[i]
		}
	}
	return pop[best]
}

// evaluate scores cs in place, on a pool of Workers goroutines when more
// than one is allowed. Scoring is pure, so the order does not matter.
func (g *Genetic) evaluate(ct Ciphertext, cs []Candidate) {
	if g.opts.workers <= 1 || len(cs) < 2 {
		for i := range cs {
			cs[i].Score = ct.fitness(g.model, cs[i].Key)
		}
		return
	}

	p := pool.New().WithMaxGoroutines(g.opts.workers)
	for i := range cs {
		p.Go(func() {
			cs[i].Score = ct.fitness(g.model, cs[i].Key)
		})
	}
	p.Wait()
}
