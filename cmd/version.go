// =============================================================================
// Quarterly Sales Report - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   salesreport version [--short]
//
// OUTPUT:
//   Quarterly Sales Report
//   Version:    0.3.0
//   Commit:     unknown
//   Build Date: unknown
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, overridden with -ldflags at release time:
//
//	go build -ldflags "-X github.com/ginjaninja78/quarterly-sales-report/cmd.Version=0.3.0 \
//	  -X github.com/ginjaninja78/quarterly-sales-report/cmd.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return
		}

		fmt.Fprintln(out, "Quarterly Sales Report")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Commit:     %s\n", Commit)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
