package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartshop-ai/smartshop/cmd/smartshop/commands"
	"github.com/smartshop-ai/smartshop/logger"
)

var rootCmd = &cobra.Command{
	Use:   "smartshop",
	Short: "SmartShop AI data ingestion",
	Long: `SmartShop AI - CSV data ingestion for the product assistant.

Validates, deduplicates and persists product catalogs, customer reviews and
store policies into the assistant's SQLite knowledge base, with quality
monitoring of every run.

Available commands:
  ingest  - Run an ingestion pipeline (products, reviews, policies, all)
  db      - Manage the SQLite database
  config  - Manage configuration

Examples:
  smartshop ingest products --file data/raw/products.csv
  smartshop ingest all                # Every domain from the configured data dir
  smartshop db stats                  # Show persisted row counts
  smartshop config init               # Write a default smartshop.toml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		verbosity, _ := cmd.Flags().GetCount("verbose")

		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Structured JSON log output instead of console output")

	rootCmd.AddCommand(commands.IngestCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
