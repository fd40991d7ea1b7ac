package cmd

import (
	"fmt"

	"github.com/SKR35/FCC-Synthetic-TM/internal/schema"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initCmd = &cobra.Command{
	Use:     "init-db",
	Aliases: []string{"init-schema"},
	Short:   "Create the database and its tables",
	Long: `Create the SQLite file (and its parent directories) if needed and apply the
schema: customers, accounts, cash_transactions and alerts with their checks,
foreign keys and indexes. Running it again leaves existing data untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log := newLogger(cfg)
		defer log.Sync()

		ctx := cmd.Context()
		t, err := openTarget(ctx, cmd, cfg, true)
		if err != nil {
			return err
		}
		defer t.db.Close()

		if err := schema.Apply(ctx, t.db, t.dialect); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		log.Debug("schema applied", zap.String("provider", t.dialect.Provider))

		color.Green("Initialized schema at %s", t.label)
		return nil
	},
}

func init() {
	addDBFlag(initCmd)
	rootCmd.AddCommand(initCmd)
}
