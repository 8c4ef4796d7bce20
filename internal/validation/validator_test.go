package validation

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYear = 2026

// validRecord passes every check for testYear.
var validRecord = buildRecord(map[int]string{
	0:  "DAA",
	3:  "A11",
	6:  "A",
	7:  "5310",
	11: "001-234-567",
	22: "EA",
	24: "00010",
	29: "W12345",
	35: "6123",
	39: "001",
	50: "A",
	51: "KZ",
	59: "05",
})

// buildRecord lays the given content over 80 fill characters.
func buildRecord(content map[int]string) string {
	b := []byte(strings.Repeat("_", RecordLength))
	for index, s := range content {
		copy(b[index:], s)
	}
	return string(b)
}

// withContentAt returns the fill-only record with content placed at index.
func withContentAt(index int, content string) string {
	return strings.Repeat("_", index) + content + strings.Repeat("_", RecordLength-(index+len(content)))
}

// overlay returns validRecord with content placed at index.
func overlay(index int, content string) string {
	b := []byte(validRecord)
	copy(b[index:], content)
	return string(b)
}

func count(labels []string, label string) int {
	n := 0
	for _, l := range labels {
		if l == label {
			n++
		}
	}
	return n
}

func newTestValidator() *Validator {
	return New(WithReferenceYear(testYear))
}

func TestValidate_ValidRecord(t *testing.T) {
	require.Len(t, validRecord, RecordLength)

	errors := newTestValidator().Validate(validRecord)
	assert.Empty(t, errors)
	assert.NotNil(t, errors)
}

func TestValidate_Length(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"80 characters", strings.Repeat("_", 80), 0},
		{"79 characters", strings.Repeat("_", 79), 1},
		{"81 characters", strings.Repeat("_", 81), 1},
		{"empty", "", 1},
		{"valid record with trailing character", validRecord + "_", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, count(v.Validate(tt.input), LabelLength))
		})
	}
}

func TestValidate_AllFill(t *testing.T) {
	errors := newTestValidator().Validate(strings.Repeat("_", RecordLength))

	// Every field fails; length does not.
	assert.ElementsMatch(t, Labels()[1:], uniq(errors))
	assert.NotContains(t, errors, LabelLength)

	expected := map[string]int{
		LabelDocumentIdentifier:     1,
		LabelRoutingIdentifier:      1,
		LabelMediaStatusCode:        1,
		LabelFederalSupplyClass:     4,
		LabelNationalItemID:         11,
		LabelUnitOfIssue:            1,
		LabelQuantity:               5,
		LabelDoDAAC:                 6,
		LabelDate:                   1,
		LabelSerial:                 3,
		LabelSignalCode:             1,
		LabelFundCode:               2,
		LabelPriorityDesignatorCode: 1,
	}
	for label, want := range expected {
		assert.Equalf(t, want, count(errors, label), "label %q", label)
	}
	assert.Len(t, errors, 38)
}

func uniq(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func TestValidate_Fields(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		index   int
		content string
		label   string
		want    int
	}{
		// Document Identifier
		{"document identifier valid", 0, "Daa", LabelDocumentIdentifier, 0},
		{"document identifier lowercase d", 0, "daa", LabelDocumentIdentifier, 1},
		{"document identifier symbol 2nd", 0, "D.a", LabelDocumentIdentifier, 1},
		{"document identifier symbol 3rd", 0, "Da.", LabelDocumentIdentifier, 1},
		{"document identifier symbols 2nd and 3rd", 0, "D..", LabelDocumentIdentifier, 2},
		{"document identifier fill 3rd", 0, "Da_", LabelDocumentIdentifier, 0},
		{"document identifier fill 2nd and 3rd", 0, "D__", LabelDocumentIdentifier, 0},

		// Routing Identifier
		{"routing identifier valid", 3, "a11", LabelRoutingIdentifier, 0},
		{"routing identifier starts with digit", 3, "111", LabelRoutingIdentifier, 1},
		{"routing identifier symbol 2nd", 3, "a.1", LabelRoutingIdentifier, 1},
		{"routing identifier symbol 3rd", 3, "a1.", LabelRoutingIdentifier, 1},
		{"routing identifier fill 2nd and 3rd", 3, "Z__", LabelRoutingIdentifier, 0},
		{"routing identifier fill 1st", 3, "_11", LabelRoutingIdentifier, 1},

		// Media & Status Code
		{"media status A", 6, "A", LabelMediaStatusCode, 0},
		{"media status S", 6, "S", LabelMediaStatusCode, 0},
		{"media status 0", 6, "0", LabelMediaStatusCode, 0},
		{"media status space", 6, " ", LabelMediaStatusCode, 0},
		{"media status fill", 6, "_", LabelMediaStatusCode, 1},
		{"media status lowercase", 6, "a", LabelMediaStatusCode, 1},

		// Federal Supply Class
		{"fsc valid", 7, "1234", LabelFederalSupplyClass, 0},
		{"fsc all letters", 7, "aaaa", LabelFederalSupplyClass, 4},
		{"fsc one letter", 7, "12a4", LabelFederalSupplyClass, 1},

		// NIIN
		{"niin valid", 11, "123-456-789", LabelNationalItemID, 0},
		{"niin letters with hyphens", 11, "aaa-aaa-aaa", LabelNationalItemID, 9},
		{"niin letters only", 11, "aaaaaaaaaaa", LabelNationalItemID, 11},
		{"niin wrong separators", 11, "123.456.789", LabelNationalItemID, 2},
		{"niin no separators", 11, "12345678901", LabelNationalItemID, 2},

		// Unit of Issue
		{"unit of issue EA", 22, "EA", LabelUnitOfIssue, 0},
		{"unit of issue BX", 22, "BX", LabelUnitOfIssue, 0},
		{"unit of issue DZ", 22, "DZ", LabelUnitOfIssue, 0},
		{"unit of issue GP", 22, "GP", LabelUnitOfIssue, 0},
		{"unit of issue unknown", 22, "ZZ", LabelUnitOfIssue, 1},
		{"unit of issue lowercase", 22, "ea", LabelUnitOfIssue, 1},

		// Quantity
		{"quantity 00001", 24, "00001", LabelQuantity, 0},
		{"quantity 99999", 24, "99999", LabelQuantity, 0},
		{"quantity letters", 24, "aaaaa", LabelQuantity, 5},
		{"quantity zero", 24, "00000", LabelQuantity, 1},
		{"quantity zeros and letter", 24, "0000a", LabelQuantity, 1},
		{"quantity sign", 24, "+0001", LabelQuantity, 1},

		// DoDAAC
		{"dodaac valid", 29, "W12345", LabelDoDAAC, 0},
		{"dodaac symbol", 29, "W1234.", LabelDoDAAC, 1},
		{"dodaac fill", 29, "______", LabelDoDAAC, 6},

		// Date
		{"date first day", 35, "6001", LabelDate, 0},
		{"date last day", 35, "6366", LabelDate, 0},
		{"date day zero", 35, "6000", LabelDate, 1},
		{"date day 367", 35, "6367", LabelDate, 1},
		{"date wrong year", 35, "5001", LabelDate, 1},
		{"date letter in day", 35, "6a01", LabelDate, 1},
		{"date letter in year", 35, "a001", LabelDate, 1},

		// Serial
		{"serial 001", 39, "001", LabelSerial, 0},
		{"serial 999", 39, "999", LabelSerial, 0},
		{"serial zero", 39, "000", LabelSerial, 1},
		{"serial letter", 39, "0a0", LabelSerial, 1},
		{"serial letters", 39, "abc", LabelSerial, 3},

		// Signal Code
		{"signal A", 50, "A", LabelSignalCode, 0},
		{"signal B", 50, "B", LabelSignalCode, 0},
		{"signal C", 50, "C", LabelSignalCode, 0},
		{"signal J", 50, "J", LabelSignalCode, 0},
		{"signal K", 50, "K", LabelSignalCode, 0},
		{"signal L", 50, "L", LabelSignalCode, 0},
		{"signal D", 50, "D", LabelSignalCode, 1},
		{"signal lowercase", 50, "a", LabelSignalCode, 1},

		// Fund Code
		{"fund code valid", 51, "9z", LabelFundCode, 0},
		{"fund code symbols", 51, "._", LabelFundCode, 2},
		{"fund code one symbol", 51, "K.", LabelFundCode, 1},

		// Priority Designator Code
		{"priority zero", 59, "00", LabelPriorityDesignatorCode, 1},
		{"priority 16", 59, "16", LabelPriorityDesignatorCode, 1},
		{"priority symbol", 59, ".1", LabelPriorityDesignatorCode, 1},
		{"priority letters", 59, "ab", LabelPriorityDesignatorCode, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := v.Validate(overlay(tt.index, tt.content))
			assert.Equal(t, tt.want, count(errors, tt.label), "errors: %v", errors)
			assert.Equal(t, tt.want, len(errors), "only %q should fail, got %v", tt.label, errors)
		})
	}
}

func TestValidate_PriorityRange(t *testing.T) {
	v := newTestValidator()

	for _, code := range []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12", "13", "14", "15"} {
		t.Run(code, func(t *testing.T) {
			assert.NotContains(t, v.Validate(overlay(59, code)), LabelPriorityDesignatorCode)
		})
	}
}

func TestValidate_FillRecordFixtures(t *testing.T) {
	v := newTestValidator()

	// Content placed in an otherwise fill-only record.
	assert.NotContains(t, v.Validate(withContentAt(0, "Daa")), LabelDocumentIdentifier)
	assert.Contains(t, v.Validate(withContentAt(0, "daa")), LabelDocumentIdentifier)
	assert.Equal(t, 1, count(v.Validate(withContentAt(0, "D.a")), LabelDocumentIdentifier))
	assert.Equal(t, 1, count(v.Validate(withContentAt(0, "Da.")), LabelDocumentIdentifier))
	assert.NotContains(t, v.Validate(withContentAt(0, "Da_")), LabelDocumentIdentifier)
	assert.NotContains(t, v.Validate(withContentAt(3, "a11")), LabelRoutingIdentifier)
	assert.Contains(t, v.Validate(withContentAt(3, "111")), LabelRoutingIdentifier)
	assert.Equal(t, 4, count(v.Validate(withContentAt(7, "aaaa")), LabelFederalSupplyClass))
}

func TestValidate_Order(t *testing.T) {
	record := overlay(0, "dA.")
	record = record[:7] + "a1a1" + record[11:]
	record = record[:24] + "00000" + record[29:]
	record = record[:59] + "99" + record[61:]

	result := newTestValidator().Check(record)

	assert.Equal(t, []string{
		LabelDocumentIdentifier,
		LabelDocumentIdentifier,
		LabelFederalSupplyClass,
		LabelFederalSupplyClass,
		LabelQuantity,
		LabelPriorityDesignatorCode,
	}, result.Labels)

	positions := make([]int, len(result.Errors))
	for i, err := range result.Errors {
		positions[i] = err.Position
	}
	assert.Equal(t, []int{0, 2, 7, 9, -1, -1}, positions)
	assert.False(t, result.IsValid)
}

func TestValidate_LengthReportedFirst(t *testing.T) {
	errors := newTestValidator().Validate("")

	require.NotEmpty(t, errors)
	assert.Equal(t, LabelLength, errors[0])
	// 3+3+1+4+11+1+5+6+1+3+1+2+1 field failures plus the length.
	assert.Len(t, errors, 43)
}

func TestValidate_ShortRecord(t *testing.T) {
	v := newTestValidator()

	// The Priority Designator Code is cut after its first character.
	assert.Equal(t, []string{LabelLength, LabelPriorityDesignatorCode}, v.Validate(validRecord[:60]))

	// Everything from the Signal Code on is missing.
	errors := v.Validate(validRecord[:50])
	assert.Equal(t, []string{
		LabelLength,
		LabelSignalCode,
		LabelFundCode,
		LabelFundCode,
		LabelPriorityDesignatorCode,
	}, errors)

	// Quantity cut after two digits reports the three missing characters.
	assert.Equal(t, 3, count(v.Validate(validRecord[:26]), LabelQuantity))
}

func TestValidate_MultiByteInput(t *testing.T) {
	record := strings.Replace(validRecord, "W12345", "W1234é", 1)

	var errors []string
	assert.NotPanics(t, func() {
		errors = newTestValidator().Validate(record)
	})
	assert.Contains(t, errors, LabelLength)
	assert.Contains(t, errors, LabelDoDAAC)
}

func TestValidate_Idempotent(t *testing.T) {
	v := newTestValidator()
	record := withContentAt(24, "aaaaa")

	first := v.Validate(record)
	second := v.Validate(record)
	assert.Equal(t, first, second)
	assert.Equal(t, withContentAt(24, "aaaaa"), record)
}

func TestValidate_Clock(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2031, time.March, 1, 0, 0, 0, 0, time.UTC)
	}
	v := New(WithClock(clock))

	assert.NotContains(t, v.Validate(overlay(35, "1050")), LabelDate)
	assert.Contains(t, v.Validate(overlay(35, "6050")), LabelDate)

	// A pinned year wins over the clock.
	pinned := New(WithClock(clock), WithReferenceYear(testYear))
	assert.NotContains(t, pinned.Validate(overlay(35, "6050")), LabelDate)

	assert.Equal(t, 2031, v.ReferenceYear())
	assert.Equal(t, testYear, pinned.ReferenceYear())
}

func TestValidate_PackageLevel(t *testing.T) {
	year := time.Now().Year() % 10
	record := overlay(35, string(rune('0'+year))+"100")

	assert.Empty(t, Validate(record))
}

func TestValidate_Concurrent(t *testing.T) {
	v := newTestValidator()
	record := withContentAt(11, "aaa-aaa-aaa")
	want := v.Validate(record)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, want, v.Validate(record))
			}
		}()
	}
	wg.Wait()
}

func TestValidationError_Error(t *testing.T) {
	result := newTestValidator().Check(overlay(7, "12a4"))
	require.Len(t, result.Errors, 1)

	err := result.Errors[0]
	assert.Equal(t, "Federal Supply Class", err.Field)
	assert.Equal(t, 9, err.Position)
	assert.Equal(t, "12a4", err.Value)
	assert.Equal(t, "Invalid Federal Supply Class: field 'Federal Supply Class' at position 9 (value: '12a4')", err.Error())

	whole := newTestValidator().Check(overlay(59, "16")).Errors[0]
	assert.Equal(t, -1, whole.Position)
	assert.Equal(t, "Invalid Priority Designator Code: field 'Priority Designator Code' at offset 59 (value: '16')", whole.Error())
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	result := newTestValidator().Check(overlay(59, "16"))
	out := FormatErrors(result.Errors)
	assert.True(t, strings.HasPrefix(out, "Validation completed with 1 error(s):\n"))
	assert.Contains(t, out, "1. Invalid Priority Designator Code")
}

func TestLabelsAndFields(t *testing.T) {
	labels := Labels()
	require.Len(t, labels, 14)
	assert.Equal(t, LabelLength, labels[0])
	assert.Equal(t, LabelPriorityDesignatorCode, labels[13])

	fields := Fields()
	require.Len(t, fields, 13)
	for i := 1; i < len(fields); i++ {
		assert.Greater(t, fields[i].Offset, fields[i-1].Offset)
		assert.LessOrEqual(t, fields[i-1].End(), fields[i].Offset)
	}
	assert.LessOrEqual(t, fields[len(fields)-1].End(), RecordLength)

	// Mutating the copy leaves the table intact.
	fields[0].Label = "changed"
	assert.Equal(t, LabelDocumentIdentifier, Fields()[0].Label)
}

func TestIsUnitOfIssue(t *testing.T) {
	var ctx checkContext
	assert.True(t, isUnitOfIssue("EA", ctx))
	assert.True(t, isUnitOfIssue("BX", ctx))
	assert.False(t, isUnitOfIssue("ZZ", ctx))
	assert.False(t, isUnitOfIssue("E", ctx))
	assert.False(t, isUnitOfIssue("", ctx))
}
