package commands

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/smartshop-ai/smartshop/config"
	"github.com/smartshop-ai/smartshop/db"
	"github.com/smartshop-ai/smartshop/errors"
	"github.com/smartshop-ai/smartshop/ingest"
	"github.com/smartshop-ai/smartshop/ingest/quality"
	"github.com/smartshop-ai/smartshop/logger"
	"github.com/smartshop-ai/smartshop/storage"
)

// IngestCmd represents the ingest command
var IngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run an ingestion pipeline",
	Long: `Ingest CSV source files into the SmartShop knowledge base.

Each run validates records against the domain schema, filters duplicates by
content-based keys, persists survivors in batches, and evaluates the outcome
against the configured quality thresholds. A JSON quality report is written
for every completed run.

Domains:
  products - Product catalog entries
  reviews  - Customer reviews (references must resolve to known products)
  policies - Store policy Q&A

Examples:
  smartshop ingest products --file data/raw/products.csv
  smartshop ingest reviews --file reviews.csv --batch-size 50
  smartshop ingest policies --strict            # Abort on the first sink failure
  smartshop ingest all                          # Every domain from the data dir
  smartshop ingest products --fail-on-alert     # Non-zero exit on quality alert`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var ingestProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Ingest a product catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestDomain(cmd.Context(), ingest.DomainProducts)
	},
}

var ingestReviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Ingest a customer review file",
	Long: `Ingest a customer review file.

Reviews reference products by id; a review whose product is not in the
database is rejected as a validation failure. Ingest the product catalog
first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestDomain(cmd.Context(), ingest.DomainReviews)
	},
}

var ingestPoliciesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Ingest a store policy file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestDomain(cmd.Context(), ingest.DomainPolicies)
	},
}

var ingestAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Ingest every domain from the configured data directory",
	Long: `Ingest every domain in dependency order: products, then reviews, then
policies. Source files are <data_dir>/products.csv, <data_dir>/reviews.csv and
<data_dir>/policies.csv; --file is ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngestAll(cmd.Context())
	},
}

var (
	ingestFileFlag        string
	ingestBatchSizeFlag   int
	ingestStrictFlag      bool
	ingestFailOnAlertFlag bool
)

func init() {
	IngestCmd.PersistentFlags().StringVarP(&ingestFileFlag, "file", "f", "", "Source CSV file (default: <data_dir>/<domain>.csv)")
	IngestCmd.PersistentFlags().IntVar(&ingestBatchSizeFlag, "batch-size", 0, "Records per batch flush (default: from config)")
	IngestCmd.PersistentFlags().BoolVar(&ingestStrictFlag, "strict", false, "Abort the run on the first sink failure")
	IngestCmd.PersistentFlags().BoolVar(&ingestFailOnAlertFlag, "fail-on-alert", false, "Exit non-zero when the quality gate alerts")

	IngestCmd.AddCommand(ingestProductsCmd)
	IngestCmd.AddCommand(ingestReviewsCmd)
	IngestCmd.AddCommand(ingestPoliciesCmd)
	IngestCmd.AddCommand(ingestAllCmd)
}

// ErrQualityAlert is returned when a run trips the quality gate and alert
// escalation was requested.
var ErrQualityAlert = errors.New("quality alert")

func runIngestDomain(ctx context.Context, domainName string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	database, err := db.OpenWithMigrations(cfg.Database.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourcePath := ingestFileFlag
	if sourcePath == "" {
		sourcePath = defaultSourcePath(cfg, domainName)
	}

	return ingestOne(ctx, cfg, database, domainName, sourcePath)
}

// runIngestAll processes every domain in dependency order. Products first so
// review references resolve against a populated catalog.
func runIngestAll(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}

	database, err := db.OpenWithMigrations(cfg.Database.Path, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var alerted bool
	for _, domainName := range []string{ingest.DomainProducts, ingest.DomainReviews, ingest.DomainPolicies} {
		err := ingestOne(ctx, cfg, database, domainName, defaultSourcePath(cfg, domainName))
		if errors.Is(err, ErrQualityAlert) {
			alerted = true
			continue
		}
		if err != nil {
			return err
		}
	}

	if alerted {
		return ErrQualityAlert
	}
	return nil
}

func ingestOne(ctx context.Context, cfg *config.Config, database *sql.DB, domainName, sourcePath string) error {
	domain, err := buildDomain(ctx, database, domainName)
	if err != nil {
		return err
	}

	seed, err := storage.SeedKeys(ctx, database, domainName)
	if err != nil {
		return errors.Wrap(err, "seed dedup keys")
	}

	batchSize := ingestBatchSizeFlag
	if batchSize <= 0 {
		batchSize = cfg.Ingest.BatchSize
	}
	strict := ingestStrictFlag || cfg.Ingest.Strict

	pterm.Info.Printf("Ingesting %s from %s (batch size %d)\n", domainName, sourcePath, batchSize)

	spinner, _ := pterm.DefaultSpinner.Start("Processing records...")
	pipeline, err := ingest.New(
		domain,
		storage.NewSQLSink(database, logger.Logger),
		batchSize,
		ingest.WithDedupSeed(seed),
		ingest.WithStrictSink(strict),
		ingest.WithLogger(logger.Logger),
		ingest.WithObserver(func(p ingest.Progress) {
			spinner.UpdateText(pterm.Sprintf("Processed %d records (%d inserted, %d rejected, %d duplicates)",
				p.Processed, p.Inserted, p.Rejected, p.Duplicates))
		}),
	)
	if err != nil {
		spinner.Fail("Pipeline setup failed")
		return err
	}

	result, runErr := pipeline.Run(ctx, sourcePath)
	if runErr != nil {
		spinner.Fail(pterm.Sprintf("Run failed: %v", runErr))
	} else {
		spinner.Success("Run complete")
	}

	// The quality gate evaluates whatever the run produced, partial or not
	report := quality.Evaluate(result, quality.Config{
		MinSuccessRate: cfg.Quality.MinSuccessRate,
		MaxErrorCount:  cfg.Quality.MaxErrorCount,
	})

	reportPath, reportErr := quality.Write(cfg.Quality.ReportDir, report, logger.Logger)
	if reportErr != nil {
		logger.Logger.Warnw("Failed to write quality report", "error", reportErr.Error())
	}

	printSummary(result, report, reportPath)

	if runErr != nil {
		return runErr
	}
	if report.Alert && (ingestFailOnAlertFlag || cfg.Quality.FailOnAlert) {
		return errors.Wrapf(ErrQualityAlert, "%s run %s", result.Domain, result.RunID)
	}
	return nil
}

// buildDomain wires the per-domain validation policy. Reviews need the known
// product set so references can be checked during validation.
func buildDomain(ctx context.Context, database *sql.DB, domainName string) (ingest.Domain, error) {
	switch domainName {
	case ingest.DomainProducts:
		return ingest.NewProductDomain(), nil
	case ingest.DomainReviews:
		ids, err := storage.KnownProductIDs(ctx, database)
		if err != nil {
			return nil, errors.Wrap(err, "load known products")
		}
		return ingest.NewReviewDomain(ids), nil
	case ingest.DomainPolicies:
		return ingest.NewPolicyDomain(), nil
	default:
		return nil, errors.Newf("unknown domain %q", domainName)
	}
}

func defaultSourcePath(cfg *config.Config, domainName string) string {
	return filepath.Join(cfg.Ingest.DataDir, domainName+".csv")
}

func printSummary(result *ingest.Result, report quality.Report, reportPath string) {
	pterm.Println()
	pterm.Info.Printf("Ingestion summary (%s)\n", result.Domain)
	pterm.Printf("  Run ID:       %s\n", result.RunID)
	pterm.Printf("  Total:        %d\n", result.TotalRecords)
	pterm.Printf("  Inserted:     %d\n", result.Inserted)
	pterm.Printf("  Rejected:     %d validation, %d duplicates\n",
		result.RejectedValidation(), result.RejectedDuplicates())
	pterm.Printf("  Batches:      %d\n", result.BatchCount)
	pterm.Printf("  Success rate: %.1f%%\n", report.SuccessRate*100)
	pterm.Printf("  Duration:     %s\n", result.Elapsed().Round(time.Millisecond))

	if len(result.SinkFailures) > 0 {
		pterm.Warning.Printf("%d sink failure(s) tolerated\n", len(result.SinkFailures))
	}

	if report.Alert {
		pterm.Warning.Printf("Quality gate: %s\n", report.Status)
		for _, violation := range report.Violations {
			pterm.Printf("  - %s\n", violation)
		}
	} else {
		pterm.Success.Printf("Quality gate: %s\n", report.Status)
	}

	if len(report.SampleErrors) > 0 {
		pterm.Println("  Sample errors:")
		for _, sample := range report.SampleErrors {
			pterm.Printf("    %s\n", sample)
		}
	}

	if reportPath != "" {
		pterm.Printf("  Report: %s\n", reportPath)
	}
}
