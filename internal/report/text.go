package report

import (
	"fmt"
	"strings"
)

// Text renders the report as a plain listing, one block per record.
func Text(report *Report) string {
	var builder strings.Builder

	for _, record := range report.Records {
		if record.Valid {
			builder.WriteString(fmt.Sprintf("record %d: valid\n", record.Number))
			continue
		}

		builder.WriteString(fmt.Sprintf("record %d: %d error(s)\n", record.Number, len(record.Errors)))
		for _, v := range record.Errors {
			if v.Position < 0 {
				builder.WriteString(fmt.Sprintf("  %s (%s)\n", v.Label, v.Field))
			} else {
				builder.WriteString(fmt.Sprintf("  %s (%s, position %d)\n", v.Label, v.Field, v.Position))
			}
		}
	}

	s := report.Summary
	builder.WriteString(fmt.Sprintf("%d record(s): %d valid, %d invalid, %d violation(s)\n",
		s.Records, s.Valid, s.Invalid, s.Violations))

	return builder.String()
}
