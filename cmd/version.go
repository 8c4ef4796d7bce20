// =============================================================================
// MILSTRIP Validator - Version Command
// =============================================================================
//
// The 'version' command prints the release, the build date and the Go
// runtime the binary was built with.
//
// COMMAND USAGE:
//   milstrip version
//
// OUTPUT:
//   MILSTRIP Validator
//   Version:    1.0.0
//   Build Date: 2026-10-18
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Release metadata, overridden at link time:
//   go build -ldflags "-X 'github.com/ginjaninja78/milstrip-validator/cmd.Version=1.1.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "MILSTRIP Validator")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
