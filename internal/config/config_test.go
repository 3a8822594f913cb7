package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/diffeval/internal/gbt"
	"github.com/abhisek/diffeval/internal/train"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkDir != "." || cfg.LogLevel != "info" || cfg.Entries != 10000 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0 (time-derived)", cfg.Seed)
	}
	if cfg.TrainConfig() != train.DefaultConfig() {
		t.Errorf("TrainConfig() = %+v, want %+v", cfg.TrainConfig(), train.DefaultConfig())
	}
	if got, want := cfg.DatasetFile(), "difficulty_evaluation.csv"; got != want {
		t.Errorf("DatasetFile() = %q, want %q", got, want)
	}
	if got, want := cfg.ModelFile(), "difficulty_evaluation.model"; got != want {
		t.Errorf("ModelFile() = %q, want %q", got, want)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DIFFEVAL_WORKDIR", "/tmp/work")
	t.Setenv("DIFFEVAL_MODEL", "/models/m.model")
	t.Setenv("DIFFEVAL_ENTRIES", "500")
	t.Setenv("DIFFEVAL_SEED", "42")
	t.Setenv("DIFFEVAL_BOOST_ROUNDS", "25")
	t.Setenv("DIFFEVAL_BOOST_MAX_DEPTH", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Entries != 500 || cfg.Seed != 42 {
		t.Errorf("entries/seed = %d/%d, want 500/42", cfg.Entries, cfg.Seed)
	}
	if got, want := cfg.DatasetFile(), filepath.Join("/tmp/work", "difficulty_evaluation.csv"); got != want {
		t.Errorf("DatasetFile() = %q, want %q", got, want)
	}
	if got := cfg.ModelFile(); got != "/models/m.model" {
		t.Errorf("ModelFile() = %q, want explicit path", got)
	}

	want := gbt.DefaultConfig()
	want.Rounds = 25
	want.MaxDepth = 3
	if got := cfg.BoostConfig(); got != want {
		t.Errorf("BoostConfig() = %+v, want %+v", got, want)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"DIFFEVAL_ENTRIES", "not-a-number", "parse env:"},
		{"DIFFEVAL_ENTRIES", "0", "entries must be positive"},
		{"DIFFEVAL_TEST_FRACTION", "1", "test fraction"},
		{"DIFFEVAL_LOG_LEVEL", "chatty", "log level"},
		{"DIFFEVAL_BOOST_LEARNING_RATE", "0", "boost: learning rate"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DIFFEVAL_WORKDIR", "/tmp/env")
	t.Setenv("DIFFEVAL_LOG_LEVEL", "warn")

	cfg, err := Load(WithWorkDir("/tmp/flag"), WithLogLevel(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkDir != "/tmp/flag" {
		t.Errorf("WorkDir = %q, want the override", cfg.WorkDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want the environment value", cfg.LogLevel)
	}

	// Overrides are validated like the environment.
	if _, err := Load(WithLogLevel("chatty")); err == nil || !strings.Contains(err.Error(), "log level") {
		t.Errorf("err = %v, want log level rejection", err)
	}
}
