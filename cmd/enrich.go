package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/profile-cli/internal/linkfind"
	"github.com/sells-group/profile-cli/internal/store"
	"github.com/sells-group/profile-cli/pkg/serper"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Find likely LinkedIn profiles for stored records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		inPath, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		sleep, _ := cmd.Flags().GetFloat64("sleep")
		limit, _ := cmd.Flags().GetInt("limit")
		start, _ := cmd.Flags().GetInt("start")

		if cfg.Serper.Key == "" {
			return eris.New("serper API key is not set (PROFILE_SERPER_KEY)")
		}

		inputs, err := loadEnrichInputs(inPath)
		if err != nil {
			return err
		}

		if sleep <= 0 {
			sleep = cfg.Linkfind.SleepSecs
		}
		client := serper.NewClient(cfg.Serper.Key, serper.WithBaseURL(cfg.Serper.BaseURL))
		enricher := linkfind.NewEnricher(client, linkfind.Options{
			Sleep:          time.Duration(sleep * float64(time.Second)),
			Start:          start,
			Limit:          limit,
			ScoreThreshold: cfg.Linkfind.ScoreThreshold,
			Retries:        cfg.Linkfind.Retries,
		})

		counters, err := enricher.Run(ctx, inputs, out)
		if err != nil {
			return err
		}

		fmt.Printf("processed=%d matched=%d needs_review=%d not_found=%d error=%d\n",
			counters.Processed,
			counters.Matched,
			counters.NeedsReview,
			counters.NotFound,
			counters.Errors,
		)
		return nil
	},
}

// loadEnrichInputs reads inputs from an NDJSON profile store or a CSV,
// by extension.
func loadEnrichInputs(path string) ([]linkfind.Input, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return linkfind.LoadCSVInputs(path)
	case strings.HasSuffix(strings.ToLower(path), ".jsonl"):
		profiles, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		defer profiles.Close() //nolint:errcheck

		records := profiles.Records()
		inputs := make([]linkfind.Input, 0, len(records))
		for _, rec := range records {
			inputs = append(inputs, linkfind.InputFromRecord(rec))
		}
		return inputs, nil
	default:
		return nil, eris.Errorf("cannot detect input format of %s (want .jsonl or .csv)", path)
	}
}

func init() {
	enrichCmd.Flags().String("in", "", "input NDJSON store or CSV")
	enrichCmd.Flags().String("out", "", "output CSV path")
	enrichCmd.Flags().Float64("sleep", 0, "seconds between search calls (default from config)")
	enrichCmd.Flags().Int("limit", 0, "process only the first N rows")
	enrichCmd.Flags().Int("start", 0, "start index offset for resume")
	_ = enrichCmd.MarkFlagRequired("in")
	_ = enrichCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(enrichCmd)
}
