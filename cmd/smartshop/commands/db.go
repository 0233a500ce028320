package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartshop-ai/smartshop/config"
	"github.com/smartshop-ai/smartshop/db"
	"github.com/smartshop-ai/smartshop/errors"
	"github.com/smartshop-ai/smartshop/logger"
	"github.com/smartshop-ai/smartshop/storage"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the SmartShop database",
	Long: `Manage SmartShop database operations.

Examples:
  smartshop db stats      # Show row counts per domain table
  smartshop db migrate    # Apply pending schema migrations`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display persisted row counts for products, reviews and policies",
	RunE:  runDbStats,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

func init() {
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbMigrateCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	database, err := db.OpenWithMigrations(cfg.Database.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer database.Close()

	stats, err := storage.CollectStats(cmd.Context(), database)
	if err != nil {
		return errors.Wrap(err, "collect statistics")
	}

	fmt.Printf("Database Statistics\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Printf("Database Path: %s\n", cfg.Database.Path)
	fmt.Printf("Products:      %d\n", stats.Products)
	fmt.Printf("Reviews:       %d\n", stats.Reviews)
	fmt.Printf("Policies:      %d\n", stats.Policies)

	return nil
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	database, err := db.Open(cfg.Database.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer database.Close()

	if err := db.Migrate(database, logger.Logger); err != nil {
		return errors.Wrap(err, "apply migrations")
	}

	fmt.Println("Migrations applied")
	return nil
}
