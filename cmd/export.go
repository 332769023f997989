package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/profile-cli/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored profile records as a flat table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		storePath, _ := cmd.Flags().GetString("store")
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		if format == "" {
			format = cfg.Export.Format
		}

		profiles, err := openProfiles(storePath)
		if err != nil {
			return err
		}
		defer profiles.Close() //nolint:errcheck

		records := profiles.Records()
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "Store is empty, writing header-only file.")
		}

		switch format {
		case "csv":
			err = export.FlattenFile(records, out)
		case "xlsx":
			err = export.FlattenXLSX(records, out)
		default:
			return eris.Errorf("unknown export format: %s", format)
		}
		if err != nil {
			return err
		}

		fmt.Printf("exported %d records to %s\n", len(records), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("store", "", "profile store path (default from config)")
	exportCmd.Flags().String("out", "", "output file path")
	exportCmd.Flags().String("format", "", "output format: csv or xlsx (default from config)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
