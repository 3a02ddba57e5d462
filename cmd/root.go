// =============================================================================
// Quarterly Sales Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesreport)
//   ├── reportCmd   (salesreport report)
//   ├── generateCmd (salesreport generate)
//   ├── validateCmd (salesreport validate)
//   └── versionCmd  (salesreport version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Each
//   command loads the configuration, applies its own flag overrides and then
//   builds its logger from the result.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/quarterly-sales-report/internal/config"
	"github.com/ginjaninja78/quarterly-sales-report/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesreport",
	Short: "Quarterly Sales Report - Aggregate sales orders into quarterly summaries",
	Long: `salesreport folds a year of sales orders into quarterly summaries:
sales and profit per department, the most profitable orders, and the most
profitable product lines of every quarter.

Records come either from the built-in generator or from CSV/XLSX exports.

Example Usage:
  salesreport report                              # Report on 100000 generated records
  salesreport report --records 5000 --seed 42     # Reproducible generated run
  salesreport report --source files --input ./in  # Report on CSV/XLSX exports
  salesreport generate --records 1000 > q.csv     # Write synthetic input data
  salesreport validate --config ./my.yaml         # Check a configuration file`,

	// Errors are printed once by Execute.
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigPath,
		"Path to the main configuration file; built-in defaults apply when the default file is absent",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging, including every skipped record",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the configuration named by --config. A missing file is
// only an error when --config was given on the command line.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	explicit := cmd.Flags().Changed("config")

	cfg, err := config.Load(cfgFile, explicit)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Log.Level = "debug"
	}

	return cfg, nil
}

// newLogger builds the run logger from the log section of cfg.
func newLogger(cfg *config.MainConfig) (*zap.Logger, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
