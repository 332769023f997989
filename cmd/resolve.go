package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/profile-cli/internal/pipeline"
	"github.com/sells-group/profile-cli/internal/resolve"
	"github.com/sells-group/profile-cli/internal/signal"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve captured signal bundles into profile records",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		bundlesPath, _ := cmd.Flags().GetString("bundles")
		storePath, _ := cmd.Flags().GetString("store")
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		bundles, err := signal.LoadBundles(bundlesPath)
		if err != nil {
			return eris.Wrap(err, "resolve: load bundles")
		}
		if limit > 0 && limit < len(bundles) {
			bundles = bundles[:limit]
		}
		if len(bundles) == 0 {
			fmt.Fprintln(os.Stderr, "No bundles to resolve.")
			return nil
		}

		patterns, err := loadPatterns()
		if err != nil {
			return err
		}

		profiles, err := openProfiles(storePath)
		if err != nil {
			return err
		}
		defer profiles.Close() //nolint:errcheck

		ledger, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer ledger.Close() //nolint:errcheck

		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		runner := pipeline.NewRunner(resolve.NewReconciler(patterns), profiles, ledger, concurrency)
		run, err := runner.Run(ctx, bundles, bundlesPath, query)
		if err != nil {
			return err
		}

		fmt.Printf("run=%s processed=%d resolved=%d duplicates=%d failed=%d\n",
			run.ID,
			run.Counters.Processed,
			run.Counters.Resolved,
			run.Counters.Duplicates,
			run.Counters.Failed,
		)
		return nil
	},
}

func init() {
	resolveCmd.Flags().String("bundles", "", "path to captured signal bundles (JSON or JSONL)")
	resolveCmd.Flags().String("store", "", "profile store path (default from config)")
	resolveCmd.Flags().String("query", "", "search query that produced this batch")
	resolveCmd.Flags().Int("limit", 0, "resolve only the first N bundles")
	resolveCmd.Flags().Int("concurrency", 0, "parallel workers (default from config)")
	_ = resolveCmd.MarkFlagRequired("bundles")
	rootCmd.AddCommand(resolveCmd)
}
