package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds the defaults taken from the environment (and .env).
// Flags override every field.
type envConfig struct {
	ConfigDir string `env:"CRAFTSIM_CONFIGS" envDefault:"./configs"`
	Tuning    string `env:"CRAFTSIM_TUNING"`
	DataDir   string `env:"CRAFTSIM_DATA"`
	IndexPath string `env:"CRAFTSIM_INDEX"`
	Workers   int    `env:"CRAFTSIM_WORKERS"`
	CacheSize int    `env:"CRAFTSIM_CACHE_SIZE"`
	Validate  bool   `env:"CRAFTSIM_VALIDATE"`

	LogPeriod time.Duration `env:"CRAFTSIM_LOG_PERIOD" envDefault:"1h"`
}

type runConfig struct {
	ConfigDir    string
	TuningPath   string
	DataDir      string
	LogPeriod    time.Duration
	IndexPath    string
	SnapshotPath string
	Workers      int
	CacheSize    int
	Runs         int
	Validate     bool
	BestRecipe   string
	BestLimit    int
	Files        []string
}

func loadConfig(args []string) (runConfig, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return runConfig{}, fmt.Errorf("parse env: %w", err)
	}

	var cfg runConfig
	fs := flag.NewFlagSet("craftsim", flag.ContinueOnError)
	fs.StringVar(&cfg.ConfigDir, "configs", ec.ConfigDir, "config directory (recipes.json, crafters.json, tuning.yaml)")
	fs.StringVar(&cfg.TuningPath, "tuning", ec.Tuning, "path to tuning.yaml (default: <configs>/tuning.yaml)")
	fs.StringVar(&cfg.DataDir, "data", ec.DataDir, "data directory for the compressed run log (empty to disable)")
	fs.DurationVar(&cfg.LogPeriod, "log_period", ec.LogPeriod, "run log file window, whole minutes dividing 24h")
	fs.StringVar(&cfg.IndexPath, "index", ec.IndexPath, "sqlite evaluation index path (empty to disable)")
	fs.StringVar(&cfg.SnapshotPath, "snapshot", "", "write a replayable snapshot of the evaluated reports")
	fs.IntVar(&cfg.Workers, "workers", ec.Workers, "evaluation workers (0: tuning value)")
	fs.IntVar(&cfg.CacheSize, "cache", ec.CacheSize, "report cache size (0: tuning value, -1: disabled)")
	fs.IntVar(&cfg.Runs, "runs", 0, "Monte Carlo runs per request (overrides mode.runs when > 0)")
	fs.BoolVar(&cfg.Validate, "validate", ec.Validate, "validate every report against the REPORT schema")
	fs.StringVar(&cfg.BestRecipe, "best", "", "print the best indexed rotations for this recipe id (needs -index)")
	fs.IntVar(&cfg.BestLimit, "best_limit", 5, "rows printed by -best")
	if err := fs.Parse(args); err != nil {
		return runConfig{}, err
	}
	cfg.Files = fs.Args()

	cfg.ConfigDir = strings.TrimSpace(cfg.ConfigDir)
	cfg.TuningPath = strings.TrimSpace(cfg.TuningPath)
	cfg.DataDir = strings.TrimSpace(cfg.DataDir)
	cfg.IndexPath = strings.TrimSpace(cfg.IndexPath)
	cfg.SnapshotPath = strings.TrimSpace(cfg.SnapshotPath)
	cfg.BestRecipe = strings.TrimSpace(cfg.BestRecipe)

	if cfg.Workers < 0 {
		return runConfig{}, fmt.Errorf("-workers must be >= 0")
	}
	if cfg.Runs < 0 {
		return runConfig{}, fmt.Errorf("-runs must be >= 0")
	}
	if cfg.BestRecipe != "" && cfg.IndexPath == "" {
		return runConfig{}, fmt.Errorf("-best needs -index")
	}
	return cfg, nil
}
