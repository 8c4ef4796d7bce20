// =============================================================================
// MILSTRIP Validator - Field Rules
// =============================================================================
//
// This file holds the building blocks the field table is assembled from:
// character classes, per-character rules and whole-field predicates.
//
// A check returns the positions within its field that failed. Per-character
// checks return one relative index per bad character; whole-field checks
// return the wholeFieldFailure marker at most once.
//
// ABSENT CHARACTERS:
//   When the record is shorter than a field, the missing positions are
//   absent. An absent character fails every per-character rule, and a
//   whole-field predicate over an incomplete span always fails.
//
// =============================================================================

package validation

import (
	"strconv"
)

// wholeFieldFailure marks a failure that belongs to the field rather than
// to one character.
const wholeFieldFailure = -1

// checkContext carries the per-call environment into the rules.
type checkContext struct {
	// year is the reference calendar year for the Date field.
	year int
}

// checkFunc returns the failing positions of one field.
type checkFunc func(s span, ctx checkContext) []int

// charRule tests one character. ok is false when the character is absent.
type charRule func(c byte, ok bool) bool

// fieldPredicate tests the full text of a field.
type fieldPredicate func(value string, ctx checkContext) bool

// =============================================================================
// FIELD SPAN
// =============================================================================

// span is the slice of a record covered by one field.
type span struct {
	// text holds the characters actually present.
	text string

	// length is the declared field length.
	length int
}

// spanOf extracts the field at offset from record. Positions past the end
// of the record are left absent.
func spanOf(record string, offset, length int) span {
	s := span{length: length}
	if offset >= len(record) {
		return s
	}

	end := offset + length
	if end > len(record) {
		end = len(record)
	}
	s.text = record[offset:end]
	return s
}

// at returns the character at position i and whether it is present.
func (s span) at(i int) (byte, bool) {
	if i < len(s.text) {
		return s.text[i], true
	}
	return 0, false
}

// complete reports whether every position of the field is present.
func (s span) complete() bool {
	return len(s.text) == s.length
}

// =============================================================================
// CHARACTER CLASSES
// =============================================================================

func isDigit(c byte, ok bool) bool {
	return ok && c >= '0' && c <= '9'
}

func isAlpha(c byte, ok bool) bool {
	return ok && (c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z')
}

func isAlphanumeric(c byte, ok bool) bool {
	return isAlpha(c, ok) || isDigit(c, ok)
}

func alphanumericOrFill(c byte, ok bool) bool {
	return isAlphanumeric(c, ok) || ok && c == FillCharacter
}

// exactly matches a single case-sensitive character.
func exactly(want byte) charRule {
	return func(c byte, ok bool) bool {
		return ok && c == want
	}
}

// =============================================================================
// PER-CHARACTER CHECKS
// =============================================================================

// eachChar applies the same rule to every position of the field.
func eachChar(rule charRule) checkFunc {
	return func(s span, _ checkContext) []int {
		var failed []int
		for i := 0; i < s.length; i++ {
			if !rule(s.at(i)) {
				failed = append(failed, i)
			}
		}
		return failed
	}
}

// positional applies rules[i] to position i. The number of rules must
// equal the field length.
func positional(rules ...charRule) checkFunc {
	return func(s span, _ checkContext) []int {
		var failed []int
		for i, rule := range rules {
			if !rule(s.at(i)) {
				failed = append(failed, i)
			}
		}
		return failed
	}
}

// pattern builds a positional check from a layout string where 'D' stands
// for a digit and any other character must appear literally.
func pattern(layout string) checkFunc {
	rules := make([]charRule, len(layout))
	for i := 0; i < len(layout); i++ {
		if layout[i] == 'D' {
			rules[i] = isDigit
		} else {
			rules[i] = exactly(layout[i])
		}
	}
	return positional(rules...)
}

// nonZero adds a whole-field failure when the wrapped check passes and the
// field reads as zero. The wrapped check must guarantee all digits.
func nonZero(inner checkFunc) checkFunc {
	return func(s span, ctx checkContext) []int {
		failed := inner(s, ctx)
		if len(failed) > 0 {
			return failed
		}

		n, err := strconv.Atoi(s.text)
		if err != nil || n == 0 {
			return []int{wholeFieldFailure}
		}
		return nil
	}
}

// =============================================================================
// WHOLE-FIELD CHECKS
// =============================================================================

// wholeField fails once unless the field is complete and the predicate holds.
func wholeField(pred fieldPredicate) checkFunc {
	return func(s span, ctx checkContext) []int {
		if s.complete() && pred(s.text, ctx) {
			return nil
		}
		return []int{wholeFieldFailure}
	}
}

// inSet accepts exactly one of the listed values.
func inSet(values ...string) fieldPredicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(value string, _ checkContext) bool {
		_, ok := set[value]
		return ok
	}
}

// inRange accepts an all-digit value whose number lies in [low, high].
func inRange(low, high int) fieldPredicate {
	return func(value string, _ checkContext) bool {
		n, ok := parseDigits(value)
		return ok && n >= low && n <= high
	}
}

// ordinalDate checks the YDDD date: Y is the last digit of the reference
// year and DDD is a day of the year between 001 and 366.
var ordinalDate = wholeField(func(value string, ctx checkContext) bool {
	if len(value) != 4 {
		return false
	}

	if !isDigit(value[0], true) || int(value[0]-'0') != ctx.year%10 {
		return false
	}

	day, ok := parseDigits(value[1:])
	return ok && day >= 1 && day <= 366
})

// parseDigits parses an unsigned decimal string of ASCII digits only.
// strconv.Atoi alone would also accept a leading sign.
func parseDigits(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	for i := 0; i < len(value); i++ {
		if !isDigit(value[i], true) {
			return 0, false
		}
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
