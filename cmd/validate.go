// =============================================================================
// Quarterly Sales Report - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks a configuration
// file without running a report.
//
// COMMAND USAGE:
//   salesreport validate [--config path]
//
// OUTPUT:
//   Configuration OK: config.yaml
//   Source:      generate (100000 records, year 2023)
//   Departments: 8
//   Top N:       3
//   Currency:    USD
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/quarterly-sales-report/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration without running a report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration OK: %s\n", cfgFile)
		if cfg.Input.Source == config.SourceFiles {
			fmt.Fprintf(out, "Source:      files (%s)\n", cfg.Input.Path)
		} else {
			fmt.Fprintf(out, "Source:      generate (%d records, year %d)\n", cfg.Generator.Records, cfg.Generator.Year)
		}
		fmt.Fprintf(out, "Departments: %d\n", len(cfg.Catalog.Departments))
		fmt.Fprintf(out, "Top N:       %d\n", cfg.Report.TopN)
		fmt.Fprintf(out, "Currency:    %s\n", cfg.Report.Currency)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
