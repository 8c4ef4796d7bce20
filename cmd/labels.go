// =============================================================================
// MILSTRIP Validator - Labels Command
// =============================================================================
//
// This file defines the 'labels' command, which prints the error label
// vocabulary and the field layout the validator checks.
//
// COMMAND USAGE:
//   milstrip labels
//
// OUTPUT:
//   FIELD                 COLUMNS  LABEL
//   Document Identifier   1-3      Invalid Document Identifier
//   ...
//
// =============================================================================

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/ginjaninja78/milstrip-validator/internal/validation"
	"github.com/spf13/cobra"
)

// labelsCmd represents the 'labels' command.
var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List the checked fields and their error labels",
	Long: `List every field of the 80-character record with its one-based columns
and the label reported when it fails. The record length check comes first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

		fmt.Fprintln(w, "FIELD\tCOLUMNS\tLABEL")
		fmt.Fprintf(w, "Record\t1-%d\t%s\n", validation.RecordLength, validation.LabelLength)
		for _, field := range validation.Fields() {
			fmt.Fprintf(w, "%s\t%d-%d\t%s\n", field.Name, field.Offset+1, field.End(), field.Label)
		}

		return w.Flush()
	},
}

// init registers the labels command with the root command.
func init() {
	rootCmd.AddCommand(labelsCmd)
}
