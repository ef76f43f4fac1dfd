package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmccarv/monocrack/internal/key"
	"github.com/jmccarv/monocrack/internal/quadgram"
	"github.com/jmccarv/monocrack/internal/report"
	"github.com/jmccarv/monocrack/internal/search"
	"github.com/jmccarv/monocrack/internal/transport"
)

// seedStream is the PCG stream selector; the seed picks the state.
const seedStream = 0x9e3779b97f4a7c15

func searchArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return usageErrorf("%s takes no arguments or MESSAGE_FILE CORPUS_FILE, got %d arguments", cmd.Name(), len(args))
	}
	return nil
}

func newCaesarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "caesar [MESSAGE_FILE CORPUS_FILE]",
		Short: "Try all 26 shifts and print the best",
		Args:  searchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args, 0, func(m *quadgram.Model, _ *rand.Rand, opts []search.Option) search.Strategy {
				return search.NewShiftSearch(m, opts...)
			})
		},
	}
}

func newAnnealCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anneal [MESSAGE_FILE CORPUS_FILE]",
		Short: "Break a substitution cipher with simulated annealing",
		Args:  searchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args, a.cfg.Anneal.Restarts, func(m *quadgram.Model, rng *rand.Rand, opts []search.Option) search.Strategy {
				return search.NewAnnealer(m, a.cfg.Anneal, rng, opts...)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&a.tuning.Anneal.Iterations, "iterations", a.tuning.Anneal.Iterations, "Swap proposals per restart")
	f.Float64Var(&a.tuning.Anneal.TempStart, "temp-start", a.tuning.Anneal.TempStart, "Starting temperature")
	f.Float64Var(&a.tuning.Anneal.TempEnd, "temp-end", a.tuning.Anneal.TempEnd, "Final temperature")
	f.IntVar(&a.tuning.Anneal.Restarts, "restarts", a.tuning.Anneal.Restarts, "Independent restarts")
	return cmd
}

func newGeneticCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genetic [MESSAGE_FILE CORPUS_FILE]",
		Short: "Break a substitution cipher with a genetic algorithm",
		Args:  searchArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, args, a.cfg.Genetic.Generations, func(m *quadgram.Model, rng *rand.Rand, opts []search.Option) search.Strategy {
				return search.NewGenetic(m, a.cfg.Genetic, rng, opts...)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&a.tuning.Genetic.PopulationSize, "population", a.tuning.Genetic.PopulationSize, "Population size")
	f.IntVar(&a.tuning.Genetic.Generations, "generations", a.tuning.Genetic.Generations, "Number of generations")
	f.IntVar(&a.tuning.Genetic.ElitismCount, "elitism", a.tuning.Genetic.ElitismCount, "Best keys copied unchanged into the next generation")
	f.Float64Var(&a.tuning.Genetic.MutationRate, "mutation-rate", a.tuning.Genetic.MutationRate, "Probability of mutating each child")
	f.IntVar(&a.tuning.Genetic.TournamentSize, "tournament", a.tuning.Genetic.TournamentSize, "Tournament size for parent selection")
	f.IntVar(&a.tuning.Genetic.Patience, "patience", a.tuning.Genetic.Patience, "Stop after this many generations without improvement; 0 never stops early")
	return cmd
}

// applyStrategyFlags copies the strategy flags given on the command line
// into cfg.
func (a *app) applyStrategyFlags(cmd *cobra.Command, cfg *search.Config) {
	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Lookup(name) != nil && f.Changed(name) {
			apply()
		}
	}
	set("iterations", func() { cfg.Anneal.Iterations = a.tuning.Anneal.Iterations })
	set("temp-start", func() { cfg.Anneal.TempStart = a.tuning.Anneal.TempStart })
	set("temp-end", func() { cfg.Anneal.TempEnd = a.tuning.Anneal.TempEnd })
	set("restarts", func() { cfg.Anneal.Restarts = a.tuning.Anneal.Restarts })
	set("population", func() { cfg.Genetic.PopulationSize = a.tuning.Genetic.PopulationSize })
	set("generations", func() { cfg.Genetic.Generations = a.tuning.Genetic.Generations })
	set("elitism", func() { cfg.Genetic.ElitismCount = a.tuning.Genetic.ElitismCount })
	set("mutation-rate", func() { cfg.Genetic.MutationRate = a.tuning.Genetic.MutationRate })
	set("tournament", func() { cfg.Genetic.TournamentSize = a.tuning.Genetic.TournamentSize })
	set("patience", func() { cfg.Genetic.Patience = a.tuning.Genetic.Patience })
}

type strategyFactory func(m *quadgram.Model, rng *rand.Rand, opts []search.Option) search.Strategy

// runSearch loads the inputs, runs one strategy and prints the report. steps
// is the progress total the strategy reports against, 0 for none. A search
// cut short by --max-runtime or an interrupt still reports the best key
// found.
func (a *app) runSearch(cmd *cobra.Command, args []string, steps int, newStrategy strategyFactory) error {
	msgPath, corpusPath := defaultMessageFile, defaultCorpusFile
	if len(args) == 2 {
		msgPath, corpusPath = args[0], args[1]
	}

	stopCPU, err := startCPUProfile(a.cpuprofile)
	if err != nil {
		return err
	}
	defer stopCPU()

	shutdownTracing, err := setupTracing(a.traceOut, a.runID)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			a.logger.Warn("trace shutdown failed", "error", err)
		}
	}()

	text, err := readMessage(msgPath, a.encoding, a.logger)
	if err != nil {
		return err
	}
	m, err := loadModel(corpusPath, a.logger)
	if err != nil {
		return err
	}
	ct := search.NewCiphertext(text)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if a.maxRuntime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.maxRuntime)
		defer cancel()
	}

	opts := []search.Option{
		search.WithLogger(a.logger),
		search.WithMetrics(a.metrics),
		search.WithWorkers(a.cfg.Workers),
		search.WithTopN(a.cfg.TopN),
	}
	finish := func() {}
	if steps > 0 {
		var update func(search.Progress)
		update, finish = progressBar(a.stderr, cmd.Name(), steps)
		opts = append(opts, search.WithProgress(update))
	}
	s := newStrategy(m, rand.New(rand.NewPCG(a.cfg.Seed, seedStream)), opts)

	a.logger.Info("search starting",
		"strategy", s.Name(),
		"seed", a.cfg.Seed,
		"letters", ct.NrLetters(),
		"workers", a.cfg.Workers,
		"max_runtime", a.maxRuntime,
	)
	res, err := s.Run(ctx, ct)
	finish()
	if err != nil {
		if !interrupted(err) {
			return err
		}
		a.logger.Warn("search stopped early, reporting the best key so far", "reason", err)
	}

	if err := report.Write(a.stdout, res, ct, report.Options{Alternatives: a.cfg.TopN > 1}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := a.writeMetrics(); err != nil {
		return err
	}
	return writeHeapProfile(a.memprofile)
}

// parseKeyFlag accepts a Caesar shift (0-25) or anything key.Parse accepts.
func parseKeyFlag(s string) (key.Key, error) {
	if s == "" {
		return key.Key{}, usageErrorf("--key is required")
	}
	if n, err := strconv.Atoi(s); err == nil {
		shift := key.Shift(n)
		if !shift.Valid() {
			return key.Key{}, usageErrorf("shift %d out of range [0, %d)", n, key.Size)
		}
		return shift.Key(), nil
	}
	k, err := key.Parse(s)
	if err != nil {
		return key.Key{}, &UsageError{Err: fmt.Errorf("--key: %w", err)}
	}
	return k, nil
}

func newDecryptCmd(a *app) *cobra.Command {
	var keyFlag, corpusPath string
	cmd := &cobra.Command{
		Use:   "decrypt --key KEY [MESSAGE_FILE]",
		Short: "Decrypt a message with a known key",
		Long: `Decrypt a message with a known key.

KEY is a Caesar shift (0-25), 26 letters giving the plaintext letter for
each of A..Z, or mappings like "A=Q B=W".`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("%s takes at most one MESSAGE_FILE, got %d arguments", cmd.Name(), len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKeyFlag(keyFlag)
			if err != nil {
				return err
			}

			msgPath := defaultMessageFile
			if len(args) == 1 {
				msgPath = args[0]
			}

			text, err := readMessage(msgPath, a.encoding, a.logger)
			if err != nil {
				return err
			}
			plain := search.NewCiphertext(text).Decrypt(k)

			if corpusPath != "" {
				m, err := loadModel(corpusPath, a.logger)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(a.stdout, "Score: %0.2f\n\n", quadgram.NewScorer(m).Score(plain)); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(a.stdout, plain)
			return err
		},
	}
	cmd.Flags().StringVarP(&keyFlag, "key", "k", "", "Decryption key")
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "Quadgram corpus used to score the result")
	return cmd
}

func newEncryptCmd(a *app) *cobra.Command {
	var keyFlag string
	cmd := &cobra.Command{
		Use:   "encrypt --key KEY [PLAINTEXT_FILE]",
		Short: "Encrypt text so that KEY decrypts it",
		Long: `Encrypt text so that "decrypt --key KEY" recovers it.

Reads PLAINTEXT_FILE, or standard input without one, and writes the
ciphertext in the --encoding format.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("%s takes at most one PLAINTEXT_FILE, got %d arguments", cmd.Name(), len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKeyFlag(keyFlag)
			if err != nil {
				return err
			}

			in := a.stdin
			if len(args) == 1 {
				f, err := openInput("plaintext", args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read plaintext: %w", err)
			}

			out := k.Invert().Apply(strings.TrimRight(string(raw), "\r\n"))
			if a.encoding == encodingBinary {
				out = transport.EncodeBinary(out)
			}
			_, err = fmt.Fprintln(a.stdout, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&keyFlag, "key", "k", "", "Key that will decrypt the output")
	return cmd
}
