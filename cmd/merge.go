package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/profile-cli/internal/export"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Join linked-account columns onto an external CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		storePath, _ := cmd.Flags().GetString("store")
		csvPath, _ := cmd.Flags().GetString("csv")
		key, _ := cmd.Flags().GetString("key")
		out, _ := cmd.Flags().GetString("out")

		profiles, err := openProfiles(storePath)
		if err != nil {
			return err
		}
		defer profiles.Close() //nolint:errcheck

		if err := export.MergeFile(profiles.Records(), csvPath, out, key); err != nil {
			return err
		}

		fmt.Printf("merged %s into %s\n", csvPath, out)
		return nil
	},
}

func init() {
	mergeCmd.Flags().String("store", "", "profile store path (default from config)")
	mergeCmd.Flags().String("csv", "", "source CSV to merge into")
	mergeCmd.Flags().String("key", export.DefaultMergeKey, "source column holding the profile URL")
	mergeCmd.Flags().String("out", "", "output CSV path")
	_ = mergeCmd.MarkFlagRequired("csv")
	_ = mergeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(mergeCmd)
}
