// =============================================================================
// MILSTRIP Validator - Check Command
// =============================================================================
//
// This file defines the 'check' command, which validates records given on
// the command line or read from standard input and prints the result.
//
// COMMAND USAGE:
//   milstrip check [record ...] [flags]
//
// FLAGS:
//   --format : Output format: text, xml or yaml (default text)
//   --year   : Reference year for the Date field (default: config or clock)
//
// Records are passed through untouched, so a record with leading or
// trailing spaces must be quoted on the command line.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/milstrip-validator/internal/config"
	"github.com/ginjaninja78/milstrip-validator/internal/recordreader"
	"github.com/ginjaninja78/milstrip-validator/internal/report"
	"github.com/ginjaninja78/milstrip-validator/internal/types"
	"github.com/ginjaninja78/milstrip-validator/internal/validation"
	"github.com/spf13/cobra"
)

// formatText selects the plain listing.
const formatText = "text"

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// checkFormat is the output format.
var checkFormat string

// checkYear overrides the configured reference year.
var checkYear int

// =============================================================================
// CHECK COMMAND DEFINITION
// =============================================================================

// checkCmd represents the 'check' command.
var checkCmd = &cobra.Command{
	Use:   "check [record ...]",
	Short: "Validate records given as arguments or on standard input",
	Long: `The check command validates MILSTRIP records and prints every violation
by label. Each argument is one record. Without arguments, records are read
from standard input, one per line; empty lines are skipped.

The command exits with status 2 when any record is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args)
	},
}

// init registers the check command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(
		&checkFormat,
		"format",
		formatText,
		"Output format: text, xml or yaml",
	)

	checkCmd.Flags().IntVar(
		&checkYear,
		"year",
		0,
		"Reference year for the Date field (default: config or current year)",
	)
}

// =============================================================================
// CHECK FUNCTION
// =============================================================================

// runCheck validates the records and prints the report.
func runCheck(cmd *cobra.Command, args []string) error {
	if err := config.ValidateReferenceYear(checkYear); err != nil {
		return err
	}

	switch checkFormat {
	case formatText, report.FormatXML, report.FormatYAML:
	default:
		return fmt.Errorf("%w: %q", report.ErrUnknownFormat, checkFormat)
	}

	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	logger, closer, err := setupLogger(cmd, cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	year := cfg.ReferenceYear
	if checkYear != 0 {
		year = checkYear
	}
	v := validation.New(validation.WithReferenceYear(year))

	// Collect the records.
	source := "arguments"
	records := make([]types.Record, 0, len(args))
	for i, arg := range args {
		records = append(records, types.Record{Number: i + 1, Text: arg})
	}
	if len(args) == 0 {
		source = "stdin"
		records, err = recordreader.ReadAll(recordreader.NewTextReader(cmd.InOrStdin()))
		if err != nil {
			return fmt.Errorf("failed to read records: %w", err)
		}
	}

	logger.Debug("Checking %d record(s) from %s against year %d", len(records), source, v.ReferenceYear())

	checked := make([]types.CheckedRecord, len(records))
	for i, record := range records {
		checked[i] = types.CheckedRecord{Record: record, Result: v.Check(record.Text)}
	}

	options := report.DefaultBuildOptions()
	options.ReferenceYear = v.ReferenceYear()
	doc := report.Build(source, checked, options)

	if err := writeCheckOutput(cmd.OutOrStdout(), doc); err != nil {
		return err
	}

	if doc.Summary.Invalid > 0 {
		logger.Debug("%d of %d record(s) invalid", doc.Summary.Invalid, doc.Summary.Records)
		return ErrInvalidRecords
	}
	return nil
}

// writeCheckOutput renders the report in the selected format.
func writeCheckOutput(w io.Writer, doc *report.Report) error {
	if checkFormat == formatText {
		_, err := io.WriteString(w, report.Text(doc))
		return err
	}

	data, err := report.Encode(doc, checkFormat)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
