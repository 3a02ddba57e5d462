// =============================================================================
// Quarterly Sales Report - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which writes synthetic sales
// records in the layout the report command loads.
//
// COMMAND USAGE:
//   salesreport generate [flags]
//
// FLAGS:
//   --records : Number of records to write
//   --seed    : Generator seed; 0 picks a random one
//   --year    : Calendar year of the generated sales
//   --format  : "csv" (default) or "xlsx"
//   --output  : Destination file; CSV goes to stdout when omitted
//   --force   : Overwrite an existing output file
//
// =============================================================================

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/quarterly-sales-report/internal/config"
	"github.com/ginjaninja78/quarterly-sales-report/internal/csvparser"
	"github.com/ginjaninja78/quarterly-sales-report/internal/generator"
	"github.com/ginjaninja78/quarterly-sales-report/internal/logger"
	"github.com/ginjaninja78/quarterly-sales-report/internal/productid"
	"github.com/ginjaninja78/quarterly-sales-report/internal/types"
	"github.com/ginjaninja78/quarterly-sales-report/internal/xlsxparser"
	"github.com/ginjaninja78/quarterly-sales-report/pkg/utils"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

var (
	generateRecordsFlag int
	generateSeed        int64
	generateYear        int
	generateFormat      string
	generateOutput      string
	generateForce       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write synthetic sales records as CSV or XLSX",
	Long: `The generate command writes random sales records drawn from the configured
catalog. The output can be fed back to 'salesreport report --input'.

CSV is written to stdout unless --output is given. XLSX always needs --output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.IntVar(&generateRecordsFlag, "records", 0, "Number of records to write")
	flags.Int64Var(&generateSeed, "seed", 0, "Generator seed; 0 picks a random one")
	flags.IntVar(&generateYear, "year", 0, "Calendar year of the generated sales")
	flags.StringVar(&generateFormat, "format", formatCSV, `Output format: "csv" or "xlsx"`)
	flags.StringVarP(&generateOutput, "output", "o", "", "Destination file; CSV goes to stdout when omitted")
	flags.BoolVar(&generateForce, "force", false, "Overwrite an existing output file")
}

func runGenerate(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("records") {
		cfg.Generator.Records = generateRecordsFlag
	}
	if flags.Changed("seed") {
		cfg.Generator.Seed = generateSeed
	}
	if flags.Changed("year") {
		cfg.Generator.Year = generateYear
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	format := strings.ToLower(generateFormat)
	if format != formatCSV && format != formatXLSX {
		return fmt.Errorf("unsupported format %q (want csv or xlsx)", generateFormat)
	}
	if format == formatXLSX && generateOutput == "" {
		return fmt.Errorf("--output is required for xlsx")
	}
	if generateOutput != "" && !generateForce && utils.FileExists(generateOutput) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", generateOutput)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	gen, err := generator.New(productid.NewCodec(cfg.Catalog), generator.Options{
		Year: cfg.Generator.Year,
		Seed: uint64(cfg.Generator.Seed),
	})
	if err != nil {
		return err
	}

	records, err := gen.Generate(cfg.Generator.Records)
	if err != nil {
		return fmt.Errorf("failed to generate records: %w", err)
	}

	if err := writeGenerated(cmd, cfg, format, records); err != nil {
		return err
	}

	log.Info("records generated",
		zap.Int("records", len(records)),
		zap.Int("year", cfg.Generator.Year),
		zap.String("format", format),
		zap.String("output", outputName()),
	)
	return nil
}

func writeGenerated(cmd *cobra.Command, cfg *config.MainConfig, format string, records []types.SalesRecord) error {
	if format == formatXLSX {
		return xlsxparser.WriteRecords(generateOutput, cfg.Input.Sheet, records)
	}

	if generateOutput == "" {
		return csvparser.WriteRecords(cmd.OutOrStdout(), records, cfg.Input.CSVSettings)
	}

	file, err := os.Create(generateOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := csvparser.WriteRecords(buf, records, cfg.Input.CSVSettings); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return file.Close()
}

func outputName() string {
	if generateOutput == "" {
		return "stdout"
	}
	return generateOutput
}
