package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jmccarv/monocrack/internal/logging"
	"github.com/jmccarv/monocrack/internal/search"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{stdin: stdin, stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, "Error:", err)
	code := exitCode(err)
	if code == exitUsage {
		fmt.Fprintln(stderr, "Run 'monocrack --help' for usage.")
	}
	return code
}

// app carries the global flags and everything derived from them before a
// command runs.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	logJSON    bool
	seed       uint64
	workers    int
	topN       int
	encoding   string
	maxRuntime time.Duration
	metricsOut string
	traceOut   string
	cpuprofile string
	memprofile string

	// tuning receives the strategy flags. It starts at the defaults so
	// --help shows them, and is copied into cfg only for flags that are set.
	tuning search.Config

	cfg      search.Config
	logger   *slog.Logger
	runID    string
	registry *prometheus.Registry
	metrics  *search.Metrics
}

func newRootCmd(a *app) *cobra.Command {
	a.tuning = search.DefaultConfig()
	root := &cobra.Command{
		Use:   "monocrack",
		Short: "Break Caesar and substitution ciphers with a quadgram language model",
		Long: `monocrack recovers the key of a monoalphabetic cipher from ciphertext alone.

The search commands read a message file (binary tokens by default) and a
quadgram corpus of "TOKEN COUNT" lines. Without arguments they read
Mensagem-Codificada and quadgrams from the current directory.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML or JSON config file")
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.BoolVar(&a.logJSON, "log-json", false, "Write logs as JSON")
	pf.Uint64Var(&a.seed, "seed", 0, "Random seed; 0 picks one from the clock")
	pf.IntVarP(&a.workers, "workers", "p", 1, "Number of worker goroutines; 0 uses every CPU")
	pf.IntVar(&a.topN, "top", 1, "Display the top N distinct solutions")
	pf.StringVar(&a.encoding, "encoding", encodingBinary, "Message encoding: binary or plain")
	pf.DurationVarP(&a.maxRuntime, "max-runtime", "r", 0, "Stop searching after this long and report the best so far. Ex: 30s or 1m")
	pf.StringVar(&a.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file after the run")
	pf.StringVar(&a.traceOut, "trace-out", "", "Write trace spans as JSON to this file")
	pf.StringVar(&a.cpuprofile, "cpuprofile", "", "Write cpu profile to 'file'")
	pf.StringVar(&a.memprofile, "memprofile", "", "Write memory profile to 'file'")

	root.AddCommand(
		newCaesarCmd(a),
		newAnnealCmd(a),
		newGeneticCmd(a),
		newDecryptCmd(a),
		newEncryptCmd(a),
	)
	return root
}

// setup builds the logger and the merged configuration. Flags override the
// config file and environment only when given explicitly.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return &UsageError{Err: err}
	}
	if err := checkEncoding(a.encoding); err != nil {
		return err
	}

	a.runID = uuid.NewString()
	a.logger = logging.New(logging.Config{
		Level:   level,
		JSON:    a.logJSON,
		Writer:  a.stderr,
		Service: "monocrack",
	}).With("run_id", a.runID)

	cfg, err := search.LoadConfig(a.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &MissingFileError{Role: "config", Path: a.configPath, Err: err}
		}
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = a.seed
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("top") {
		cfg.TopN = a.topN
	}
	a.applyStrategyFlags(cmd, &cfg)

	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if err := cfg.Validate(); err != nil {
		return &UsageError{Err: err}
	}

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	a.cfg = cfg

	a.registry = prometheus.NewRegistry()
	a.metrics = search.NewMetrics(a.registry)
	return nil
}

// writeMetrics dumps the run's metrics in the Prometheus text format, for
// the node_exporter textfile collector or for inspection.
func (a *app) writeMetrics() error {
	if a.metricsOut == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsOut, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug("metrics written", "file", a.metricsOut)
	return nil
}
