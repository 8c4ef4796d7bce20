// =============================================================================
// MILSTRIP Validator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (milstrip)
//   ├── checkCmd   (milstrip check)
//   ├── processCmd (milstrip process)
//   ├── labelsCmd  (milstrip labels)
//   └── versionCmd (milstrip version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration on behalf of subcommands
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrInvalidRecords is returned by commands that found invalid records.
// Execute maps it to exit status 2.
var ErrInvalidRecords = errors.New("invalid records found")

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "milstrip",
	Short: "MILSTRIP Validator - Check fixed-width MILSTRIP requisition records",

	Long: `MILSTRIP Validator checks 80-character MILSTRIP requisition records
field by field and reports every violation by label.

Key Features:
  - One-off checks of records given as arguments or on standard input
  - Batch validation of text, CSV and .xlsx workbook files
  - XML or YAML reports with per-label summaries
  - Concurrent processing with automatic file archival

Example Usage:
  milstrip check "DAAA11A5310001-234-567EA..."   # Check a single record
  milstrip check < requisitions.txt              # Check records from stdin
  milstrip process                               # Validate the input directory
  milstrip process --config ./my.yaml            # Use a custom configuration file`,

	// Command errors are printed once by Execute.
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
//
// EXIT STATUS:
//   0 - success
//   1 - the command failed
//   2 - records were checked and at least one was invalid
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrInvalidRecords) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	// 'check' falls back to the built-in defaults when it is missing.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	// --verbose flag: Enables debug logging on standard error.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the configuration named by --config. Unless required
// is set, a missing file yields the defaults.
func loadConfig(required bool) (*config.MainConfig, error) {
	load := config.LoadOrDefault
	if required {
		load = config.LoadMainConfig
	}

	cfg, err := load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}
	return cfg, nil
}

// setupLogger builds the command logger. File output follows the
// configuration when withFile is set; --verbose adds debug output on
// stderr.
func setupLogger(cmd *cobra.Command, cfg *config.MainConfig, withFile bool) (logging.Logger, io.Closer, error) {
	opts := logging.Options{
		Level:      cfg.LogLevel,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogBackups(),
		Console:    verbose,
		Stderr:     cmd.ErrOrStderr(),
	}
	if withFile {
		opts.File = cfg.LogFile
	}
	if verbose {
		opts.Level = "debug"
	}

	logger, closer, err := logging.Setup(opts)
	if err != nil {
		return nil, nil, err
	}

	entry := logger.WithFields(logrus.Fields{"command": cmd.Name()})
	return logging.New(entry), closer, nil
}
