package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/SKR35/FCC-Synthetic-TM/internal/config"
	apperr "github.com/SKR35/FCC-Synthetic-TM/internal/errors"
	"github.com/SKR35/FCC-Synthetic-TM/internal/pipeline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one synthetic batch",
	Long: `Generate customers, accounts, cash transactions and alerts and write them in a
single transaction. The schema must exist (see init-db). Ids are random UUIDs,
so running generate again appends another batch.

With --seeded-ids the ids are derived from the seed as well, and the same
seed, counts and --as-of clock give identical output run to run. Rerunning a
seeded batch into a database that already holds it fails with a constraint
violation; use --truncate or a different --seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, output, err := generateOptions(cmd, cfg)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log := newLogger(cfg)
		defer log.Sync()

		ctx := cmd.Context()
		t, err := openTarget(ctx, cmd, cfg, false)
		if err != nil {
			return err
		}
		defer t.db.Close()

		stats, err := pipeline.New(t.db, t.dialect, log).Run(ctx, opts)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}

		if output == "text" {
			color.Green("Generated: %s -> %s", stats, t.label)
			return nil
		}
		return stats.Render(os.Stdout, output)
	},
}

// generateOptions merges flags over the config. Only flags the user set
// override config values.
func generateOptions(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, string, error) {
	flags := cmd.Flags()
	g := &cfg.Generate

	intFlags := map[string]*int{
		"n-customers":    &g.Customers,
		"n-externals":    &g.Externals,
		"n-accounts":     &g.Accounts,
		"n-transactions": &g.Transactions,
		"batch-size":     &g.BatchSize,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	if flags.Changed("seed") {
		g.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("top-percent") {
		g.TopPercent, _ = flags.GetFloat64("top-percent")
	}
	if flags.Changed("seeded-ids") {
		g.SeededIDs, _ = flags.GetBool("seeded-ids")
	}

	opts := pipeline.Options{
		Customers:     g.Customers,
		Externals:     g.Externals,
		Accounts:      g.Accounts,
		Transactions:  g.Transactions,
		Seed:          g.Seed,
		TopPercent:    g.TopPercent,
		TxWindowDays:  g.TxWindowDays,
		OpenDateYears: g.OpenDateYears,
		BatchSize:     g.BatchSize,
		SeededIDs:     g.SeededIDs,
	}
	opts.Truncate, _ = flags.GetBool("truncate")

	if asOf, _ := flags.GetString("as-of"); asOf != "" {
		now, err := time.Parse(time.RFC3339, asOf)
		if err != nil {
			return opts, "", apperr.InvalidArgument("--as-of must be RFC3339 (e.g. 2025-06-30T12:00:00Z): %v", err)
		}
		opts.Now = now
	}

	output, _ := flags.GetString("output")
	switch output {
	case "text", "json", "yaml":
	default:
		return opts, "", apperr.InvalidArgument("unsupported output format: %s (text, json, yaml)", output)
	}
	return opts, output, nil
}

func addGenerateFlags(c *cobra.Command) {
	defaults := pipeline.DefaultOptions()

	addDBFlag(c)
	c.Flags().Int("n-customers", defaults.Customers, "internal customers to generate")
	c.Flags().Int("n-externals", defaults.Externals, "external counterparties to generate")
	c.Flags().Int("n-accounts", defaults.Accounts, "accounts to generate")
	c.Flags().Int("n-transactions", defaults.Transactions, "cash transactions to generate")
	c.Flags().Int64("seed", defaults.Seed, "random seed")
	c.Flags().Float64("top-percent", defaults.TopPercent, "share of the batch flagged by the high-amount rule")
	c.Flags().String("as-of", "", "generation clock, RFC3339 (default now)")
	c.Flags().Bool("seeded-ids", false, "derive ids from the seed for fully reproducible output")
	c.Flags().Bool("truncate", false, "delete existing rows before generating")
	c.Flags().Int("batch-size", defaults.BatchSize, "rows per INSERT statement")
	c.Flags().StringP("output", "o", "text", "summary format: text, json, yaml")
}

func init() {
	addGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}
