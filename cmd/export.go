package cmd

import (
	"fmt"
	"time"

	"github.com/SKR35/FCC-Synthetic-TM/internal/export"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the generated tables to JSON, YAML or CSV",
	Long: `Dump customers, accounts, alerts and cash_transactions into a timestamped
file (json, yaml) or directory of one file per table (csv). Columns keep their
schema order and rows are sorted by primary key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.ExportPath = out
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		format, _ := cmd.Flags().GetString("format")

		ctx := cmd.Context()
		t, err := openTarget(ctx, cmd, cfg, false)
		if err != nil {
			return err
		}
		defer t.db.Close()

		path, err := export.Export(ctx, t.db, t.dialect, cfg.ExportPath, format, time.Now())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		color.Green("✅ Exported %s to %s", t.label, path)
		return nil
	},
}

func init() {
	addDBFlag(exportCmd)
	exportCmd.Flags().String("out", "", "output directory (default from config export_path)")
	exportCmd.Flags().String("format", export.FormatJSON, "export format: json, yaml, csv")
	rootCmd.AddCommand(exportCmd)
}
