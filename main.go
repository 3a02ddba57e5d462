// =============================================================================
// Quarterly Sales Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the salesreport CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   salesreport report     - Aggregate records and print the quarterly report
//   salesreport generate   - Write synthetic sales records
//   salesreport validate   - Validate the configuration file
//   salesreport version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Aggregation engine, loaders, report writer
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/quarterly-sales-report/cmd"
)

func main() {
	cmd.Execute()
}
