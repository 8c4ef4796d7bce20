// =============================================================================
// MILSTRIP Validator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the MILSTRIP Validator CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   milstrip check [record ...] - Validate records from arguments or stdin
//   milstrip process            - Validate every record file in the input directory
//   milstrip labels             - List the checked fields and error labels
//   milstrip version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/                    : CLI command definitions (Cobra)
//   - internal/validation     : The record validation engine
//   - internal/recordreader   : Text and workbook record sources
//   - internal/report         : Report building and encoding
//   - internal/batch          : Concurrent file processing
//   - internal/config         : YAML configuration
//   - internal/logging        : Log setup
//   - pkg/utils               : File discovery, archival and summaries
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/milstrip-validator/cmd"
)

func main() {
	cmd.Execute()
}
