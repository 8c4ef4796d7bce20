// =============================================================================
// MILSTRIP Validator - Field Table
// =============================================================================
//
// This file defines the positional layout of an 80-character MILSTRIP
// requisition record and the rule attached to each validated field.
//
// RECORD LAYOUT (zero-based offsets):
//
//   | Field                      | Offset | Len | Rule                                   |
//   |----------------------------|--------|-----|----------------------------------------|
//   | Document Identifier        |      0 |   3 | 'D', then alphanumeric or fill         |
//   | Routing Identifier         |      3 |   3 | letter, then alphanumeric or fill      |
//   | Media & Status Code        |      6 |   1 | one of 'A', 'S', '0', ' '              |
//   | Federal Supply Class       |      7 |   4 | digits                                 |
//   | NIIN                       |     11 |  11 | DDD-DDD-DDD                            |
//   | Unit of Issue              |     22 |   2 | whitelisted two-letter code            |
//   | Quantity                   |     24 |   5 | digits, not all zero                   |
//   | DoDAAC                     |     29 |   6 | alphanumeric                           |
//   | Date                       |     35 |   4 | YDDD, Y = last digit of current year   |
//   | Serial                     |     39 |   3 | digits, not all zero                   |
//   | Signal Code                |     50 |   1 | one of A B C J K L                     |
//   | Fund Code                  |     51 |   2 | alphanumeric                           |
//   | Priority Designator Code   |     59 |   2 | 01 through 15                          |
//
// Offsets not listed above are filler and are never inspected.
//
// ERROR MULTIPLICITY:
//   Most fields are checked one character at a time and report one failure
//   per offending character. Whole-field checks (code lists, ranges, the
//   zero checks on Quantity and Serial) report at most one failure.
//
// =============================================================================

package validation

// =============================================================================
// RECORD CONSTANTS
// =============================================================================

const (
	// RecordLength is the fixed width of a MILSTRIP record.
	RecordLength = 80

	// FillCharacter occupies positions that carry no data.
	FillCharacter = '_'
)

// =============================================================================
// ERROR LABELS
// =============================================================================
// The label vocabulary is closed. Callers match on these exact strings.

const (
	LabelLength                 = "Invalid Length"
	LabelDocumentIdentifier     = "Invalid Document Identifier"
	LabelRoutingIdentifier      = "Invalid Routing Identifier"
	LabelMediaStatusCode        = "Invalid Media & Status Code"
	LabelFederalSupplyClass     = "Invalid Federal Supply Class"
	LabelNationalItemID         = "Invalid National Item Identification Number"
	LabelUnitOfIssue            = "Invalid Unit of Issue"
	LabelQuantity               = "Invalid Quantity"
	LabelDoDAAC                 = "Invalid DoDAAC"
	LabelDate                   = "Invalid Date"
	LabelSerial                 = "Invalid Serial"
	LabelSignalCode             = "Invalid Signal Code"
	LabelFundCode               = "Invalid Fund Code"
	LabelPriorityDesignatorCode = "Invalid Priority Designator Code"
)

// =============================================================================
// FIELD DESCRIPTOR
// =============================================================================

// Field describes one positional field of the record.
type Field struct {
	// Name is the human-readable field name.
	Name string

	// Label is the error label reported for every failure in this field.
	Label string

	// Offset is the zero-based position of the first character.
	Offset int

	// Length is the number of characters the field occupies.
	Length int

	// check yields the failing positions within the field.
	check checkFunc
}

// End returns the offset one past the last character of the field.
func (f Field) End() int {
	return f.Offset + f.Length
}

// fieldTable is the ordered rule table. It is never modified after
// package initialization.
var fieldTable = []Field{
	{
		Name:   "Document Identifier",
		Label:  LabelDocumentIdentifier,
		Offset: 0,
		Length: 3,
		check:  positional(exactly('D'), alphanumericOrFill, alphanumericOrFill),
	},
	{
		Name:   "Routing Identifier",
		Label:  LabelRoutingIdentifier,
		Offset: 3,
		Length: 3,
		check:  positional(isAlpha, alphanumericOrFill, alphanumericOrFill),
	},
	{
		Name:   "Media & Status Code",
		Label:  LabelMediaStatusCode,
		Offset: 6,
		Length: 1,
		check:  wholeField(inSet("A", "S", "0", " ")),
	},
	{
		Name:   "Federal Supply Class",
		Label:  LabelFederalSupplyClass,
		Offset: 7,
		Length: 4,
		check:  eachChar(isDigit),
	},
	{
		Name:   "National Item Identification Number",
		Label:  LabelNationalItemID,
		Offset: 11,
		Length: 11,
		check:  pattern("DDD-DDD-DDD"),
	},
	{
		Name:   "Unit of Issue",
		Label:  LabelUnitOfIssue,
		Offset: 22,
		Length: 2,
		check:  wholeField(isUnitOfIssue),
	},
	{
		Name:   "Quantity",
		Label:  LabelQuantity,
		Offset: 24,
		Length: 5,
		check:  nonZero(eachChar(isDigit)),
	},
	{
		Name:   "DoDAAC",
		Label:  LabelDoDAAC,
		Offset: 29,
		Length: 6,
		check:  eachChar(isAlphanumeric),
	},
	{
		Name:   "Date",
		Label:  LabelDate,
		Offset: 35,
		Length: 4,
		check:  ordinalDate,
	},
	{
		Name:   "Serial",
		Label:  LabelSerial,
		Offset: 39,
		Length: 3,
		check:  nonZero(eachChar(isDigit)),
	},
	{
		Name:   "Signal Code",
		Label:  LabelSignalCode,
		Offset: 50,
		Length: 1,
		check:  wholeField(inSet("A", "B", "C", "J", "K", "L")),
	},
	{
		Name:   "Fund Code",
		Label:  LabelFundCode,
		Offset: 51,
		Length: 2,
		check:  eachChar(isAlphanumeric),
	},
	{
		Name:   "Priority Designator Code",
		Label:  LabelPriorityDesignatorCode,
		Offset: 59,
		Length: 2,
		check:  wholeField(inRange(1, 15)),
	},
}

// Fields returns a copy of the field table in report order.
func Fields() []Field {
	fields := make([]Field, len(fieldTable))
	copy(fields, fieldTable)
	return fields
}

// Labels returns the complete error label vocabulary in report order.
func Labels() []string {
	labels := make([]string, 0, len(fieldTable)+1)
	labels = append(labels, LabelLength)
	for _, f := range fieldTable {
		labels = append(labels, f.Label)
	}
	return labels
}

// =============================================================================
// UNIT OF ISSUE CODES
// =============================================================================

// unitsOfIssue is the accepted set of two-letter unit of issue codes.
var unitsOfIssue = map[string]struct{}{
	"AM": {}, "AT": {}, "AY": {}, "BA": {}, "BD": {}, "BE": {}, "BF": {},
	"BG": {}, "BK": {}, "BL": {}, "BO": {}, "BR": {}, "BT": {}, "BX": {},
	"CA": {}, "CB": {}, "CC": {}, "CD": {}, "CE": {}, "CF": {}, "CG": {},
	"CK": {}, "CL": {}, "CN": {}, "CO": {}, "CS": {}, "CT": {}, "CU": {},
	"CX": {}, "CY": {}, "CZ": {}, "DR": {}, "DZ": {}, "EA": {}, "EN": {},
	"FT": {}, "FV": {}, "FY": {}, "GL": {}, "GP": {}, "GR": {}, "GS": {},
	"HD": {}, "HK": {}, "IN": {}, "JR": {}, "KG": {}, "KT": {}, "LB": {},
	"LG": {}, "LI": {}, "LR": {}, "MC": {}, "ME": {}, "MR": {}, "MX": {},
	"OT": {}, "OZ": {}, "PD": {}, "PG": {}, "PI": {}, "PM": {}, "PR": {},
	"PT": {}, "PZ": {}, "QT": {}, "RA": {}, "RL": {}, "RM": {}, "RO": {},
	"SD": {}, "SE": {}, "SF": {}, "SH": {}, "SI": {}, "SK": {}, "SL": {},
	"SO": {}, "SP": {}, "SQ": {}, "SX": {}, "SY": {}, "TD": {}, "TE": {},
	"TN": {}, "TO": {}, "TS": {}, "TU": {}, "US": {}, "VI": {}, "YD": {},
}

// isUnitOfIssue reports whether value is an accepted unit of issue.
func isUnitOfIssue(value string, _ checkContext) bool {
	_, ok := unitsOfIssue[value]
	return ok
}
