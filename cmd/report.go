// =============================================================================
// Quarterly Sales Report - Report Command
// =============================================================================
//
// This file defines the 'report' command, the main command of the tool. It
// orchestrates the whole run.
//
// COMMAND USAGE:
//   salesreport report [flags]
//
// FLAGS:
//   --source        : "generate" or "files" (overrides input.source)
//   --input         : File or directory of CSV/XLSX exports (implies files)
//   --records       : Number of records to generate
//   --seed          : Generator seed; 0 picks a random one
//   --top           : Number of top orders and product lines per quarter
//   --metrics-file  : Write run metrics to this Prometheus textfile
//
// PROCESSING PIPELINE:
//   1. Load configuration and apply flag overrides
//   2. Obtain records, generated or loaded concurrently from files
//   3. Run the aggregation pipeline
//   4. Write the report to stdout
//   5. Log a run summary and write the metrics textfile if asked to
//      (with --verbose, every validation failure is dumped to stderr)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/quarterly-sales-report/internal/aggregation"
	"github.com/ginjaninja78/quarterly-sales-report/internal/config"
	"github.com/ginjaninja78/quarterly-sales-report/internal/generator"
	"github.com/ginjaninja78/quarterly-sales-report/internal/loader"
	"github.com/ginjaninja78/quarterly-sales-report/internal/logger"
	"github.com/ginjaninja78/quarterly-sales-report/internal/metrics"
	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/reportwriter"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/validation"
	"github.com/ginjaninja78/quarterly-sales-report/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	reportSource      string
	reportInput       string
	reportRecords     int
	reportSeed        int64
	reportTop         int
	reportMetricsFile string
)

// =============================================================================
// REPORT COMMAND DEFINITION
// =============================================================================

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate sales records and print the quarterly report",
	Long: `The report command obtains a year of sales records, folds them into
quarterly summaries and prints the report to stdout.

Records are generated unless the source is "files", in which case every CSV
and XLSX file under --input is loaded concurrently. A file that fails to load
aborts the run; records that fail a business rule are skipped by the
aggregator that rejects them and listed at the end of the report.

Logs go to stderr (or the configured log output) so the report can be piped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	flags := reportCmd.Flags()
	flags.StringVar(&reportSource, "source", "", `Record source: "generate" or "files"`)
	flags.StringVar(&reportInput, "input", "", "CSV/XLSX file or directory to load (implies --source files)")
	flags.IntVar(&reportRecords, "records", 0, "Number of records to generate")
	flags.Int64Var(&reportSeed, "seed", 0, "Generator seed; 0 picks a random one")
	flags.IntVar(&reportTop, "top", 0, "Number of top orders and product lines per quarter")
	flags.StringVar(&reportMetricsFile, "metrics-file", "", "Write run metrics to this Prometheus textfile")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runReport(cmd *cobra.Command) error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyReportFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	runID := utils.NewRunID()
	log = log.With(zap.String("run_id", runID))

	// =========================================================================
	// STEP 2: OBTAIN RECORDS
	// =========================================================================

	codec := productid.NewCodec(cfg.Catalog)

	records, source, err := obtainRecords(cfg, codec, log)
	if err != nil {
		log.Error("failed to obtain records", zap.Error(err))
		return err
	}
	log.Info("records ready", zap.Int("records", len(records)), zap.String("source", source))

	// =========================================================================
	// STEP 3: AGGREGATE
	// =========================================================================

	collector := metrics.NewCollector()
	pipeline := aggregation.NewPipeline(codec,
		aggregation.WithTopN(cfg.Report.TopN),
		aggregation.WithLogger(log),
		aggregation.WithObserver(collector),
	)

	result, err := pipeline.Run(records)
	if err != nil {
		log.Error("aggregation failed", zap.Error(err))
		return err
	}

	// =========================================================================
	// STEP 4: WRITE REPORT
	// =========================================================================

	writer, err := reportwriter.New(cmd.OutOrStdout(), reportwriter.Options{
		Currency: cfg.Report.Currency,
		RunID:    runID,
		Source:   source,
	})
	if err != nil {
		return err
	}
	if err := writer.WriteReport(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	// =========================================================================
	// STEP 5: SUMMARY AND METRICS
	// =========================================================================

	elapsed := time.Since(startTime)
	log.Info("run complete",
		zap.Int("records", result.Processed),
		zap.Int("skipped", result.SkippedCount()),
		zap.Int("quarters", len(result.Quarters())),
		zap.Duration("elapsed", elapsed),
	)

	if verbose && result.SkippedCount() > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), validation.FormatErrors(result.Failures()))
	}

	if cfg.Metrics.Textfile != "" {
		collector.ObserveResult(result)
		collector.ObserveDuration(elapsed)
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return err
		}
		log.Debug("metrics written", zap.String("path", cfg.Metrics.Textfile))
	}

	return nil
}

// applyReportFlags overrides configuration values with flags given on the
// command line.
func applyReportFlags(cmd *cobra.Command, cfg *config.MainConfig) {
	flags := cmd.Flags()

	if flags.Changed("input") {
		cfg.Input.Path = reportInput
		cfg.Input.Source = config.SourceFiles
	}
	if flags.Changed("source") {
		cfg.Input.Source = reportSource
	}
	if flags.Changed("records") {
		cfg.Generator.Records = reportRecords
	}
	if flags.Changed("seed") {
		cfg.Generator.Seed = reportSeed
	}
	if flags.Changed("top") {
		cfg.Report.TopN = reportTop
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = reportMetricsFile
	}
}

// obtainRecords returns the records of the run and a description of where
// they came from.
func obtainRecords(cfg *config.MainConfig, codec *productid.Codec, log *zap.Logger) ([]types.SalesRecord, string, error) {
	switch cfg.Input.Source {
	case config.SourceGenerate:
		return generateRecords(cfg, codec)
	case config.SourceFiles:
		return loadRecords(cfg, log)
	default:
		return nil, "", fmt.Errorf("unknown input source %q", cfg.Input.Source)
	}
}

func generateRecords(cfg *config.MainConfig, codec *productid.Codec) ([]types.SalesRecord, string, error) {
	gen, err := generator.New(codec, generator.Options{
		Year: cfg.Generator.Year,
		Seed: uint64(cfg.Generator.Seed),
	})
	if err != nil {
		return nil, "", err
	}

	records, err := gen.Generate(cfg.Generator.Records)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate records: %w", err)
	}

	source := fmt.Sprintf("generated, year %d", cfg.Generator.Year)
	if cfg.Generator.Seed != 0 {
		source = fmt.Sprintf("%s, seed %d", source, cfg.Generator.Seed)
	}
	return records, source, nil
}

func loadRecords(cfg *config.MainConfig, log *zap.Logger) ([]types.SalesRecord, string, error) {
	files, err := utils.DiscoverInputFiles(cfg.Input.Path, utils.DefaultInputExtensions)
	if err != nil {
		if errors.Is(err, utils.ErrNoInputFiles) {
			return nil, "", fmt.Errorf("nothing to report: %w", err)
		}
		return nil, "", err
	}
	log.Info("loading input files", zap.Int("files", len(files)), zap.String("path", cfg.Input.Path))

	results := loader.New(cfg.Input, log).LoadFiles(files)

	records, err := loader.Records(results)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load input files: %w", err)
	}

	return records, fmt.Sprintf("%s (%d files)", cfg.Input.Path, len(files)), nil
}
