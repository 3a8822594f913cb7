package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/diffeval/internal/session"
)

func addFeatureFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("feature", "f", nil, `Session feature as "Name=value" (repeatable)`)
	cmd.Flags().String("features-file", "", "JSON object mapping feature names to values")
}

// readFeatures merges --features-file with --feature pairs; pairs win.
func readFeatures(cmd *cobra.Command) (map[string]float64, error) {
	features := make(map[string]float64)

	if path, _ := cmd.Flags().GetString("features-file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read features file: %w", err)
		}
		if err := json.Unmarshal(raw, &features); err != nil {
			return nil, fmt.Errorf("parse features file %s: %w", path, err)
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("feature")
	for _, p := range pairs {
		name, v, err := session.ParseFeature(p)
		if err != nil {
			return nil, err
		}
		features[name] = v
	}

	if len(features) == 0 {
		return nil, fmt.Errorf("no session features given; use --feature or --features-file")
	}
	return features, nil
}
