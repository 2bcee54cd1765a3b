// Package parser turns raw datalog bytes into a header-keyed table.
//
// The pipeline is: NormalizeText → SplitLines → LocateHeader → ParseTable.
// Nothing here interprets cell values beyond deciding whether a token
// looks numeric; every cell stays a string.
package parser

import "errors"

var (
	// ErrHeaderNotFound is returned when no line in the scan window looks
	// like a tabular header.
	ErrHeaderNotFound = errors.New("header not found")

	// ErrNoUsableRows is returned when the data region yields no rows,
	// even after the permissive retry.
	ErrNoUsableRows = errors.New("no usable rows")

	// ErrInputTooLarge is returned when decoded input exceeds the size bound.
	ErrInputTooLarge = errors.New("input too large")
)

// HeaderLocation identifies the header row of a datalog.
type HeaderLocation struct {
	// LineIndex is the index of the header in the line set (blank lines included).
	LineIndex int

	// Delimiter is the field delimiter detected on the header line.
	Delimiter rune

	// TokenCount is the number of header tokens.
	TokenCount int
}

// Row maps a field name to its raw cell. Cells missing from a short row
// are absent from the map.
type Row map[string]string

// Table is the parsed data region.
type Table struct {
	// Fields holds the unique column names in source order.
	Fields []string

	// Rows holds one entry per usable data line.
	Rows []Row

	// Units maps a field to the unit text of a units row directly below
	// the header, if the export has one.
	Units map[string]string

	// Delimiter is the delimiter the rows were actually parsed with.
	Delimiter rune

	// Retried is true when strict parsing failed and the permissive
	// parse with an inferred delimiter produced the rows.
	Retried bool

	// SkippedLines counts malformed lines dropped by the permissive parse.
	SkippedLines int
}

// Unit returns the units-row text for a field, or "".
func (t *Table) Unit(field string) string {
	if t.Units == nil {
		return ""
	}
	return t.Units[field]
}
