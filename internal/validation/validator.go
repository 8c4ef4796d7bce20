// =============================================================================
// MILSTRIP Validator - Validation Engine
// =============================================================================
//
// This module validates a single fixed-width MILSTRIP requisition record
// against the positional field table defined in fields.go and reports every
// rule violation it finds.
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Record-level: the record must be exactly 80 characters long
//   2. Field-level: each field in the table is checked independently
//
// ERROR HANDLING:
//   - Errors are collected, never thrown
//   - Nothing is short-circuited: a wrong length does not stop the field
//     checks, and one bad field does not hide another
//   - Each error carries the field, the failing position and the value
//
// DETERMINISM:
//   The Date field depends on the current calendar year. The year is read
//   once per call from an injectable clock, or pinned with
//   WithReferenceYear, so the same record always yields the same result
//   for the same year.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single rule violation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	// It is "Record" for record-level checks.
	Field string

	// Label is the error label from the closed vocabulary.
	Label string

	// Offset is the zero-based offset of the field.
	Offset int

	// Position is the zero-based record position of the failing character,
	// or -1 when the check covers the whole field or record.
	Position int

	// Value is the text found in the field. It is shorter than the field
	// when the record ends early.
	Value string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s: field '%s' at offset %d (value: '%s')",
			e.Label, e.Field, e.Offset, e.Value)
	}
	return fmt.Sprintf("%s: field '%s' at position %d (value: '%s')",
		e.Label, e.Field, e.Position, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// RecordResult contains the outcome of validating one record.
type RecordResult struct {
	// Record is the validated input, unchanged.
	Record string

	// Errors contains every violation in report order.
	Errors []*ValidationError

	// Labels holds the label of each entry in Errors, in the same order.
	Labels []string

	// IsValid is true when no violation was found.
	IsValid bool
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks records against the field table. A Validator holds no
// mutable state and is safe for concurrent use.
type Validator struct {
	// clock supplies the current time for the Date field.
	clock func() time.Time

	// referenceYear overrides the clock when non-zero.
	referenceYear int
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the time source used to derive the current year.
func WithClock(clock func() time.Time) Option {
	return func(v *Validator) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// WithReferenceYear pins the year used by the Date field. Zero restores
// the clock.
func WithReferenceYear(year int) Option {
	return func(v *Validator) {
		v.referenceYear = year
	}
}

// New creates a new Validator. Without options it reads the system clock.
func New(opts ...Option) *Validator {
	v := &Validator{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// defaultValidator backs the package-level Validate.
var defaultValidator = New()

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate validates a record using the system clock and returns the label
// of every violation, in report order. The result is never nil.
//
// PARAMETERS:
//   - record: The record to validate. Any length is accepted.
//
// RETURNS:
//   - A slice of error labels. Empty when the record is valid.
func Validate(record string) []string {
	return defaultValidator.Validate(record)
}

// Validate returns the label of every violation found in record.
func (v *Validator) Validate(record string) []string {
	return v.Check(record).Labels
}

// Check validates a record and returns the detailed result.
func (v *Validator) Check(record string) *RecordResult {
	ctx := checkContext{year: v.ReferenceYear()}

	result := &RecordResult{
		Record: record,
		Errors: make([]*ValidationError, 0),
		Labels: make([]string, 0),
	}

	// =========================================================================
	// RECORD-LEVEL VALIDATION
	// =========================================================================

	if len(record) != RecordLength {
		result.add(&ValidationError{
			Field:    "Record",
			Label:    LabelLength,
			Offset:   0,
			Position: -1,
			Value:    fmt.Sprintf("%d characters", len(record)),
		})
	}

	// =========================================================================
	// FIELD-LEVEL VALIDATION
	// =========================================================================
	// Every field is checked even when the length is wrong.

	for _, field := range fieldTable {
		for _, err := range v.validateField(record, field, ctx) {
			result.add(err)
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// validateField runs one field check against the record.
func (v *Validator) validateField(record string, field Field, ctx checkContext) []*ValidationError {
	s := spanOf(record, field.Offset, field.Length)

	var errors []*ValidationError
	for _, pos := range field.check(s, ctx) {
		position := -1
		if pos != wholeFieldFailure {
			position = field.Offset + pos
		}

		errors = append(errors, &ValidationError{
			Field:    field.Name,
			Label:    field.Label,
			Offset:   field.Offset,
			Position: position,
			Value:    s.text,
		})
	}

	return errors
}

// ReferenceYear returns the year the Date field is currently checked
// against.
func (v *Validator) ReferenceYear() int {
	if v.referenceYear != 0 {
		return v.referenceYear
	}
	return v.clock().Year()
}

func (r *RecordResult) add(err *ValidationError) {
	r.Errors = append(r.Errors, err)
	r.Labels = append(r.Labels, err.Label)
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
