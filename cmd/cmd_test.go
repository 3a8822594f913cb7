package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/diffeval/internal/session"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, Execute(), "diffeval %v: %s", args, out.String())
	return out.String()
}

func TestPipeline(t *testing.T) {
	t.Setenv("DIFFEVAL_LOG_LEVEL", "error")
	dir := t.TempDir()
	global := []string{"--workdir", dir, "--db", filepath.Join(dir, "diffeval.db")}
	with := func(args ...string) []string { return append(args, global...) }

	out := run(t, with("synthesize", "--entries", "400", "--seed", "5")...)
	assert.Contains(t, out, "Dataset synthesized")
	assert.FileExists(t, filepath.Join(dir, "difficulty_evaluation.csv"))

	out = run(t, with("train", "--rounds", "15")...)
	assert.Contains(t, out, "Testing error")
	assert.FileExists(t, filepath.Join(dir, "difficulty_evaluation.model"))

	out = run(t, with("runs")...)
	assert.Contains(t, out, "TestErr")

	// A won cop session that scores -4.
	won := session.Record{
		SuccessState: 1, SessionLength: 30, PlayerType: session.Cop,
		RobbersTagged: 100, TimesSpedUp: 2, DiamondsCollected: 20,
	}
	raw, err := json.Marshal(won.Features())
	require.NoError(t, err)
	features := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(features, raw, 0o644))

	out = run(t, with("evaluate", "--features-file", features)...)
	assert.Contains(t, out, "-4")
	assert.Contains(t, out, "Harder")

	// Flag pairs override the file.
	out = run(t, with("evaluate", "--features-file", features,
		"-f", session.ColSuccessState+"=0", "-f", session.ColSessionLength+"=120",
		"-f", session.ColRobbersTagged+"=20", "-f", session.ColTimesSpedUp+"=12",
		"-f", session.ColDiamondsCollected+"=100")...)
	assert.Contains(t, out, "Easier")

	out = run(t, with("predict", "--features-file", features)...)
	assert.Contains(t, out, "Increase")
	assert.Contains(t, out, "5 → 6")

	out = run(t, with("predictions")...)
	assert.Contains(t, out, "Increase")

	out = run(t, with("select-role", "cop", "--roll", "99")...)
	assert.Contains(t, out, "objective adjusted")

	out = run(t, with("state")...)
	assert.Contains(t, out, "Robber agents")
	assert.Contains(t, out, "4")

	out = run(t, with("reset")...)
	assert.Contains(t, out, "none")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, run(t, "version"), "diffeval (devel)")
}
