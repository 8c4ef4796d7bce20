// =============================================================================
// MILSTRIP Validator - Process Command
// =============================================================================
//
// This file defines the 'process' command, which validates every record
// file in the input directory and writes one report per file.
//
// COMMAND USAGE:
//   milstrip process [flags]
//
// FLAGS:
//   --dry-run : Validate without writing reports or archiving files
//   --file    : Process a single file instead of the input directory
//
// PROCESSING PIPELINE:
//   1. Load the configuration
//   2. Discover record files in the input directory
//   3. For each file (concurrently):
//      a. Read the records
//      b. Validate every record
//      c. Build and write the report
//   4. Archive processed files
//   5. Print and write the summary
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ginjaninja78/milstrip-validator/internal/batch"
	"github.com/ginjaninja78/milstrip-validator/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun validates without writing reports.
var dryRun bool

// filePath is the path to a specific file to process.
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Validate record files and write reports",
	Long: `The process command scans the input directory for record files (text
files with one record per line, CSV files, or .xlsx workbooks), validates
every record, and writes one report per file to the output directory.

Processing is done concurrently. Each file is processed independently, and
an unreadable file does not stop the others unless continue_on_error is off.

On successful processing:
  - The report is placed in the output directory
  - The input file is moved to the input archive
  - The report is copied to the output archive
  - A summary is written to the output directory

On error:
  - The input file remains in the input directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// init registers the process command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(processCmd)

	// --dry-run flag: Validate without writing reports.
	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Validate without writing reports or archiving files",
	)

	// --file flag: Path to a specific file to process.
	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Path to a specific file to process",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates the batch run.
func runProcess(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	fmt.Fprintln(out, "=== MILSTRIP Validator ===")

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	logger, closer, err := setupLogger(cmd, cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	processor := batch.New(cfg, batch.Options{DryRun: dryRun, Logger: logger})
	files := processor.Files()

	if !dryRun {
		if err := files.EnsureDirectories(); err != nil {
			return err
		}
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if filePath != "" {
		inputFiles = []string{filePath}
	} else {
		inputFiles, err = files.DiscoverInputFiles(cfg.FilePatterns)
		if err != nil {
			return fmt.Errorf("failed to discover input files: %w", err)
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No record files found in the input directory.")
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))
	logger.Info("Processing %d file(s) with %d worker(s)", len(inputFiles), cfg.MaxConcurrency)

	// =========================================================================
	// STEP 3: PROCESS FILES CONCURRENTLY
	// =========================================================================

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := processor.RunAll(ctx, inputFiles)

	for _, result := range results {
		name := filepath.Base(result.FilePath)
		switch {
		case !result.Success:
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
		case result.ReportFile == "":
			fmt.Fprintf(out, "  ✓ %s: %d record(s), %d invalid\n", name, result.Stats.Records, result.Stats.InvalidRecords)
		default:
			fmt.Fprintf(out, "  ✓ %s -> %s (%d record(s), %d invalid)\n", name, filepath.Base(result.ReportFile),
				result.Stats.Records, result.Stats.InvalidRecords)
		}
	}

	// =========================================================================
	// STEP 4: PRINT AND WRITE SUMMARY
	// =========================================================================

	summary := batch.Summarize(results, startTime, time.Now())
	printSummary(out, summary)

	if !dryRun {
		summaryPath, err := utils.WriteSummaryLog(summary, cfg.OutputDir)
		if err != nil {
			logger.Warn("Failed to write summary: %v", err)
		} else {
			logger.Info("Wrote summary to: %s", summaryPath)
		}
	}

	if summary.FailedFiles > 0 {
		return fmt.Errorf("%d of %d file(s) failed", summary.FailedFiles, summary.TotalFiles)
	}
	return nil
}

// printSummary prints the run totals.
func printSummary(out io.Writer, summary utils.ProcessingSummary) {
	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Records:         %d\n", summary.TotalRecords)
	fmt.Fprintf(out, "Invalid records: %d\n", summary.InvalidRecords)
	fmt.Fprintf(out, "Violations:      %d\n", summary.Violations)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))
}
