package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SKR35/FCC-Synthetic-TM/internal/config"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.1.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║     ███████╗ ██████╗ ██████╗    ████████╗███╗   ███╗ ║",
		"║     ██╔════╝██╔════╝██╔════╝    ╚══██╔══╝████╗ ████║ ║",
		"║     █████╗  ██║     ██║            ██║   ██╔████╔██║ ║",
		"║     ██╔══╝  ██║     ██║            ██║   ██║╚██╔╝██║ ║",
		"║     ██║     ╚██████╗╚██████╗       ██║   ██║ ╚═╝ ██║ ║",
		"║     ╚═╝      ╚═════╝ ╚═════╝       ╚═╝   ╚═╝     ╚═╝ ║",
		"║                                                      ║",
		"║     Synthetic cash transactions for TM testing       ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                  ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "fcctm",
	Short: "Generate synthetic customers, accounts, cash transactions and alerts",
	Long: `
fcctm populates a relational store with synthetic financial-crime test data:
internal customers and external counterparties, accounts, card/ATM/cash
transactions and high-amount alerts. Runs are reproducible from a seed.

Database Support:
- SQLite (default, single file)
- PostgreSQL
- MySQL 8`,
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("fcctm version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

// Execute runs the root command with a context that is cancelled on SIGINT
// or SIGTERM, which rolls back an in-flight generation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().String("provider", "", "database provider: sqlite, postgres, mysql")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console, json")

	viper.BindPFlag("database.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultConfigFile, ".json"))
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}
