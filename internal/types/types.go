// =============================================================================
// MILSTRIP Validator - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - recordreader
//   - batch
//   - report
//
// =============================================================================

package types

import (
	"github.com/ginjaninja78/milstrip-validator/internal/validation"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// Record is one requisition record as read from a source.
type Record struct {
	// Number is the 1-indexed line or row the record came from.
	// Useful for error reporting.
	Number int

	// Text is the raw record, unchanged apart from the line terminator.
	Text string
}

// CheckedRecord pairs a record with its validation result.
type CheckedRecord struct {
	Record

	// Result is the validation outcome for Text.
	Result *validation.RecordResult
}
