package cmd

import (
	"fmt"

	"github.com/SKR35/FCC-Synthetic-TM/internal/schema"
	"github.com/SKR35/FCC-Synthetic-TM/internal/store"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts of the generated tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx := cmd.Context()
		t, err := openTarget(ctx, cmd, cfg, false)
		if err != nil {
			return err
		}
		defer t.db.Close()

		if err := schema.Verify(ctx, t.db, t.dialect); err != nil {
			return err
		}

		counts, err := store.New(t.db, t.dialect).Counts(ctx)
		if err != nil {
			return err
		}
		order, err := schema.InsertionOrder()
		if err != nil {
			return err
		}

		color.Cyan("📊 %s", t.label)
		for _, name := range order {
			fmt.Printf("  %-20s %d\n", name, counts[name])
		}
		return nil
	},
}

func init() {
	addDBFlag(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
