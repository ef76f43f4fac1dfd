package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 15000, cfg.Anneal.Iterations)
	assert.Equal(t, 8.0, cfg.Anneal.TempStart)
	assert.Equal(t, 0.01, cfg.Anneal.TempEnd)
	assert.Equal(t, 6, cfg.Anneal.Restarts)
	assert.Equal(t, 10, cfg.Genetic.PopulationSize)
	assert.Equal(t, 30000, cfg.Genetic.Generations)
	assert.Equal(t, 4, cfg.Genetic.ElitismCount)
	assert.Equal(t, 0.1, cfg.Genetic.MutationRate)
	assert.Equal(t, 5, cfg.Genetic.TournamentSize)
	assert.Equal(t, 0, cfg.Genetic.Patience)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"zero iterations allowed", func(c *Config) { c.Anneal.Iterations = 0 }, ""},
		{"zero generations allowed", func(c *Config) { c.Genetic.Generations = 0 }, ""},
		{"no restarts", func(c *Config) { c.Anneal.Restarts = 0 }, "anneal.restarts must be gte 1"},
		{"zero start temperature", func(c *Config) { c.Anneal.TempStart = 0 }, "anneal.temp_start must be gt 0"},
		{"negative end temperature", func(c *Config) { c.Anneal.TempEnd = -1 }, "anneal.temp_end must be gt 0"},
		{"empty population", func(c *Config) { c.Genetic.PopulationSize = 0 }, "genetic.population_size must be gte 1"},
		{"mutation rate above one", func(c *Config) { c.Genetic.MutationRate = 1.5 }, "genetic.mutation_rate must be lte 1"},
		{"tournament larger than population", func(c *Config) { c.Genetic.TournamentSize = 11 }, "genetic.tournament_size must be <= population_size"},
		{"elitism larger than population", func(c *Config) { c.Genetic.ElitismCount = 11 }, "genetic.elitism_count must be <= population_size"},
		{"elitism equal to population", func(c *Config) { c.Genetic.ElitismCount = 10 }, ""},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers must be gte 0"},
		{"no top", func(c *Config) { c.TopN = 0 }, "top_n must be gte 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_NoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, "monocrack.yaml", `
anneal:
  iterations: 500
  restarts: 2
genetic:
  population_size: 30
  patience: 100
workers: 4
top_n: 3
seed: 42
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Anneal.Iterations)
	assert.Equal(t, 2, cfg.Anneal.Restarts)
	assert.Equal(t, 8.0, cfg.Anneal.TempStart)
	assert.Equal(t, 30, cfg.Genetic.PopulationSize)
	assert.Equal(t, 100, cfg.Genetic.Patience)
	assert.Equal(t, 5, cfg.Genetic.TournamentSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, uint64(42), cfg.Seed)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "monocrack.json", `{"anneal": {"temp_start": 12.5}, "genetic": {"mutation_rate": 0.25}}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.Anneal.TempStart)
	assert.Equal(t, 0.25, cfg.Genetic.MutationRate)
	assert.Equal(t, 15000, cfg.Anneal.Iterations)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "monocrack.yaml", "anneal:\n  iterations: 500\nworkers: 2\n")
	t.Setenv("MONOCRACK_ANNEAL_ITERATIONS", "900")
	t.Setenv("MONOCRACK_GENETIC_MUTATION_RATE", "0.5")
	t.Setenv("MONOCRACK_SEED", "7")
	t.Setenv("MONOCRACK_TOP_N", "not-a-number")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.Anneal.Iterations)
	assert.Equal(t, 0.5, cfg.Genetic.MutationRate)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1, cfg.TopN)
}

func TestLoadConfig_InvalidAfterMerge(t *testing.T) {
	path := writeConfig(t, "monocrack.yaml", "genetic:\n  population_size: 3\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genetic.elitism_count must be <= population_size")
	assert.Contains(t, err.Error(), "genetic.tournament_size must be <= population_size")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_Unparseable(t *testing.T) {
	path := writeConfig(t, "bad.yaml", "anneal: [1, 2\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tried YAML and JSON")
}
