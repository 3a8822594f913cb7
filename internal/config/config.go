// Package config loads diffeval settings from the environment.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/diffeval/internal/artifact"
	"github.com/abhisek/diffeval/internal/dataset"
	"github.com/abhisek/diffeval/internal/gbt"
	"github.com/abhisek/diffeval/internal/train"
)

// Config holds every setting the CLI needs. Flags override these values.
type Config struct {
	// WorkDir holds the dataset and model files unless their paths are
	// set explicitly.
	WorkDir     string `env:"DIFFEVAL_WORKDIR" envDefault:"."`
	DatasetPath string `env:"DIFFEVAL_DATASET"`
	ModelPath   string `env:"DIFFEVAL_MODEL"`
	DBPath      string `env:"DIFFEVAL_DB"`
	LogLevel    string `env:"DIFFEVAL_LOG_LEVEL" envDefault:"info"`

	// Entries is the number of synthesized records.
	Entries int `env:"DIFFEVAL_ENTRIES" envDefault:"10000"`
	// Seed seeds the synthesizer; 0 derives one from the clock.
	Seed uint64 `env:"DIFFEVAL_SEED" envDefault:"0"`

	SplitSeed    uint64  `env:"DIFFEVAL_SPLIT_SEED" envDefault:"22"`
	TestFraction float64 `env:"DIFFEVAL_TEST_FRACTION" envDefault:"0.2"`

	Boost BoostConfig `envPrefix:"DIFFEVAL_BOOST_"`
}

// BoostConfig mirrors gbt.Config.
type BoostConfig struct {
	Rounds         int     `env:"ROUNDS" envDefault:"100"`
	MaxDepth       int     `env:"MAX_DEPTH" envDefault:"6"`
	LearningRate   float64 `env:"LEARNING_RATE" envDefault:"0.3"`
	Lambda         float64 `env:"LAMBDA" envDefault:"1"`
	Gamma          float64 `env:"GAMMA" envDefault:"0"`
	MinChildWeight float64 `env:"MIN_CHILD_WEIGHT" envDefault:"1"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Override changes a parsed configuration before it is validated.
type Override func(*Config)

// WithWorkDir overrides WorkDir unless dir is empty.
func WithWorkDir(dir string) Override {
	return func(c *Config) {
		if dir != "" {
			c.WorkDir = dir
		}
	}
}

// WithLogLevel overrides LogLevel unless level is empty.
func WithLogLevel(level string) Override {
	return func(c *Config) {
		if level != "" {
			c.LogLevel = level
		}
	}
}

// Load parses the environment, applies overrides in order and validates
// the result.
func Load(overrides ...Override) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects out-of-range values.
func (c Config) Validate() error {
	if c.WorkDir == "" {
		return fmt.Errorf("work dir must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Entries <= 0 {
		return fmt.Errorf("entries must be positive, got %d", c.Entries)
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0,1), got %g", c.TestFraction)
	}
	if err := c.BoostConfig().Validate(); err != nil {
		return fmt.Errorf("boost: %w", err)
	}
	return nil
}

// DatasetFile is the dataset artifact path.
func (c Config) DatasetFile() string {
	if c.DatasetPath != "" {
		return c.DatasetPath
	}
	return filepath.Join(c.WorkDir, dataset.DefaultFile)
}

// ModelFile is the model artifact path.
func (c Config) ModelFile() string {
	if c.ModelPath != "" {
		return c.ModelPath
	}
	return filepath.Join(c.WorkDir, artifact.DefaultFile)
}

// BoostConfig converts the boosting settings for gbt.
func (c Config) BoostConfig() gbt.Config {
	cfg := gbt.DefaultConfig()
	cfg.Rounds = c.Boost.Rounds
	cfg.MaxDepth = c.Boost.MaxDepth
	cfg.LearningRate = c.Boost.LearningRate
	cfg.Lambda = c.Boost.Lambda
	cfg.Gamma = c.Boost.Gamma
	cfg.MinChildWeight = c.Boost.MinChildWeight
	return cfg
}

// TrainConfig builds the training stage configuration.
func (c Config) TrainConfig() train.Config {
	return train.Config{
		SplitSeed:    c.SplitSeed,
		TestFraction: c.TestFraction,
		Boost:        c.BoostConfig(),
	}
}
