package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable parameter of the search strategies.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	// Anneal configures the simulated annealing strategy.
	Anneal AnnealConfig `json:"anneal" yaml:"anneal"`

	// Genetic configures the genetic algorithm strategy.
	Genetic GeneticConfig `json:"genetic" yaml:"genetic"`

	// Workers bounds the goroutines used for annealing restarts and for
	// fitness evaluation within a generation. 1 runs everything inline and
	// 0 uses every CPU.
	Workers int `json:"workers" yaml:"workers" validate:"gte=0"`

	// TopN is how many distinct candidates a result keeps.
	TopN int `json:"top_n" yaml:"top_n" validate:"gte=1"`

	// Seed seeds the random generator. 0 lets the caller pick one.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// AnnealConfig is the annealing schedule.
type AnnealConfig struct {
	Iterations int     `json:"iterations" yaml:"iterations" validate:"gte=0"`
	TempStart  float64 `json:"temp_start" yaml:"temp_start" validate:"gt=0"`
	TempEnd    float64 `json:"temp_end" yaml:"temp_end" validate:"gt=0"`
	Restarts   int     `json:"restarts" yaml:"restarts" validate:"gte=1"`
}

// GeneticConfig is the genetic algorithm setup.
type GeneticConfig struct {
	PopulationSize int     `json:"population_size" yaml:"population_size" validate:"gte=1"`
	Generations    int     `json:"generations" yaml:"generations" validate:"gte=0"`
	ElitismCount   int     `json:"elitism_count" yaml:"elitism_count" validate:"gte=0,ltefield=PopulationSize"`
	MutationRate   float64 `json:"mutation_rate" yaml:"mutation_rate" validate:"gte=0,lte=1"`
	TournamentSize int     `json:"tournament_size" yaml:"tournament_size" validate:"gte=1,ltefield=PopulationSize"`

	// Patience stops the run after this many generations without a better
	// best score. 0 always runs every generation.
	Patience int `json:"patience" yaml:"patience" validate:"gte=0"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Anneal: AnnealConfig{
			Iterations: 15000,
			TempStart:  8.0,
			TempEnd:    0.01,
			Restarts:   6,
		},
		Genetic: GeneticConfig{
			PopulationSize: 10,
			Generations:    30000,
			ElitismCount:   4,
			MutationRate:   0.1,
			TournamentSize: 5,
		},
		Workers: 1,
		TopN:    1,
	}
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Validate checks the configuration, naming fields by their YAML keys.
func (c Config) Validate() error {
	return validationError(validate.Struct(c))
}

// Validate checks the annealing schedule on its own.
func (c AnnealConfig) Validate() error {
	return validationError(validate.Struct(c))
}

// Validate checks the genetic setup on its own.
func (c GeneticConfig) Validate() error {
	return validationError(validate.Struct(c))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		switch fe.Tag() {
		case "ltefield":
			msgs = append(msgs, fmt.Sprintf("%s must be <= %s", field, yamlName(fe.Param())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// yamlName maps the Go field names used in cross-field tags to YAML keys.
func yamlName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadConfig loads configuration with priority: env > file > defaults.
//
// Inputs:
//   - path: Path to a YAML or JSON config file. Empty means defaults only.
//
// Outputs:
//   - Config: Merged configuration.
//   - error: Non-nil if the file exists but is invalid, or validation fails.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}

	loadConfigFromEnv(&config)

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func envFloat(name string, dst *float64) {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func loadConfigFromEnv(config *Config) {
	// Annealing
	envInt("MONOCRACK_ANNEAL_ITERATIONS", &config.Anneal.Iterations)
	envFloat("MONOCRACK_ANNEAL_TEMP_START", &config.Anneal.TempStart)
	envFloat("MONOCRACK_ANNEAL_TEMP_END", &config.Anneal.TempEnd)
	envInt("MONOCRACK_ANNEAL_RESTARTS", &config.Anneal.Restarts)

	// Genetic
	envInt("MONOCRACK_GENETIC_POPULATION_SIZE", &config.Genetic.PopulationSize)
	envInt("MONOCRACK_GENETIC_GENERATIONS", &config.Genetic.Generations)
	envInt("MONOCRACK_GENETIC_ELITISM_COUNT", &config.Genetic.ElitismCount)
	envFloat("MONOCRACK_GENETIC_MUTATION_RATE", &config.Genetic.MutationRate)
	envInt("MONOCRACK_GENETIC_TOURNAMENT_SIZE", &config.Genetic.TournamentSize)
	envInt("MONOCRACK_GENETIC_PATIENCE", &config.Genetic.Patience)

	envInt("MONOCRACK_WORKERS", &config.Workers)
	envInt("MONOCRACK_TOP_N", &config.TopN)
	if v := os.Getenv("MONOCRACK_SEED"); v != "" {
		if s, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Seed = s
		}
	}
}
