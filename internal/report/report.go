// =============================================================================
// MILSTRIP Validator - Report Module
// =============================================================================
//
// This module turns validated records into a report document. Reports are
// written as XML or YAML by the batch processor and as plain text by the
// check command.
//
// XML STRUCTURE:
//
//   <validationReport source="reqs.txt" generatedAt="..." referenceYear="2026">
//     <summary records="2" valid="1" invalid="1" violations="2">
//       <label name="Invalid Federal Supply Class" count="2"/>
//     </summary>
//     <record n="1" valid="true">
//       <text>DAAA11A5310...</text>
//     </record>
//     <record n="2" valid="false">
//       <text>DAAA11Aab10...</text>
//       <error label="Invalid Federal Supply Class" field="Federal Supply Class" position="7">ab10</error>
//       <error label="Invalid Federal Supply Class" field="Federal Supply Class" position="8">ab10</error>
//     </record>
//   </validationReport>
//
// The summary lists labels in vocabulary order and omits labels that never
// occurred.
//
// =============================================================================

package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/milstrip-validator/internal/types"
	"github.com/ginjaninja78/milstrip-validator/internal/validation"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Encode for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Report formats.
const (
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// =============================================================================
// REPORT STRUCTURE
// =============================================================================

// Report is the validation report for one source.
type Report struct {
	XMLName xml.Name `xml:"validationReport" yaml:"-"`

	// Source is the input the records were read from.
	Source string `xml:"source,attr" yaml:"source"`

	// GeneratedAt is the time the report was built.
	GeneratedAt time.Time `xml:"generatedAt,attr" yaml:"generated_at"`

	// ReferenceYear is the year the Date field was checked against.
	ReferenceYear int `xml:"referenceYear,attr,omitempty" yaml:"reference_year,omitempty"`

	// Summary aggregates the record results.
	Summary Summary `xml:"summary" yaml:"summary"`

	// Records holds one entry per reported record.
	Records []RecordReport `xml:"record" yaml:"records"`
}

// Summary counts records and violations.
type Summary struct {
	Records    int          `xml:"records,attr" yaml:"records"`
	Valid      int          `xml:"valid,attr" yaml:"valid"`
	Invalid    int          `xml:"invalid,attr" yaml:"invalid"`
	Violations int          `xml:"violations,attr" yaml:"violations"`
	Labels     []LabelCount `xml:"label" yaml:"labels,omitempty"`
}

// LabelCount is the number of violations reported under one label.
type LabelCount struct {
	Label string `xml:"name,attr" yaml:"label"`
	Count int    `xml:"count,attr" yaml:"count"`
}

// RecordReport is the result for one record.
type RecordReport struct {
	Number int         `xml:"n,attr" yaml:"number"`
	Valid  bool        `xml:"valid,attr" yaml:"valid"`
	Text   string      `xml:"text" yaml:"text"`
	Errors []Violation `xml:"error" yaml:"errors,omitempty"`
}

// Violation is one reported rule violation.
type Violation struct {
	Label    string `xml:"label,attr" yaml:"label"`
	Field    string `xml:"field,attr" yaml:"field"`
	Position int    `xml:"position,attr" yaml:"position"`
	Value    string `xml:",chardata" yaml:"value"`
}

// =============================================================================
// BUILD OPTIONS
// =============================================================================

// BuildOptions contains options for building a report.
type BuildOptions struct {
	// IncludeValidRecords lists valid records alongside invalid ones.
	// Default: true
	IncludeValidRecords bool

	// ReferenceYear is recorded in the report when non-zero.
	ReferenceYear int

	// Now supplies the generation time.
	// Default: time.Now
	Now func() time.Time
}

// DefaultBuildOptions returns the default build options.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		IncludeValidRecords: true,
		Now:                 time.Now,
	}
}

// =============================================================================
// REPORT GENERATION
// =============================================================================

// Build creates a report from validated records.
//
// PARAMETERS:
//   - source: The name of the input the records came from.
//   - checked: The records with their validation results, in input order.
//   - options: The build options.
//
// RETURNS:
//   - The report. Summary counts always cover every record, even when
//     valid records are left out of the listing.
func Build(source string, checked []types.CheckedRecord, options BuildOptions) *Report {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	report := &Report{
		Source:        source,
		GeneratedAt:   now(),
		ReferenceYear: options.ReferenceYear,
		Summary:       summarize(checked),
		Records:       make([]RecordReport, 0, len(checked)),
	}

	for _, c := range checked {
		if c.Result.IsValid && !options.IncludeValidRecords {
			continue
		}
		report.Records = append(report.Records, buildRecord(c))
	}

	return report
}

// summarize counts records and violations per label.
func summarize(checked []types.CheckedRecord) Summary {
	valid := lo.CountBy(checked, func(c types.CheckedRecord) bool {
		return c.Result.IsValid
	})

	labels := lo.FlatMap(checked, func(c types.CheckedRecord, _ int) []string {
		return c.Result.Labels
	})
	counts := lo.CountValues(labels)

	return Summary{
		Records:    len(checked),
		Valid:      valid,
		Invalid:    len(checked) - valid,
		Violations: len(labels),
		Labels: lo.FilterMap(validation.Labels(), func(label string, _ int) (LabelCount, bool) {
			return LabelCount{Label: label, Count: counts[label]}, counts[label] > 0
		}),
	}
}

func buildRecord(c types.CheckedRecord) RecordReport {
	record := RecordReport{
		Number: c.Number,
		Valid:  c.Result.IsValid,
		Text:   c.Text,
	}

	for _, err := range c.Result.Errors {
		record.Errors = append(record.Errors, Violation{
			Label:    err.Label,
			Field:    err.Field,
			Position: err.Position,
			Value:    err.Value,
		})
	}

	return record
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode renders the report in the given format.
func Encode(report *Report, format string) ([]byte, error) {
	switch format {
	case FormatXML:
		return EncodeXML(report)
	case FormatYAML:
		return EncodeYAML(report)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// EncodeXML renders the report as an indented XML document with a
// declaration.
func EncodeXML(report *Report) ([]byte, error) {
	body, err := xml.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML report: %w", err)
	}

	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// EncodeYAML renders the report as YAML.
func EncodeYAML(report *Report) ([]byte, error) {
	out, err := yaml.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

// Extension returns the file extension for a report format.
func Extension(format string) string {
	switch format {
	case FormatYAML:
		return ".yaml"
	default:
		return ".xml"
	}
}
