package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	// inferSampleLines bounds the lines inspected when inferring a delimiter.
	inferSampleLines = 20

	// minFooterFields is the header width from which the permissive parse
	// drops rows without numeric cells.
	minFooterFields = 3
)

// ParseTable parses the header line and everything after it. Lines before
// the header are discarded as preamble; blank lines are skipped.
//
// The located delimiter is tried first with strict row widths. If that
// fails, or yields no rows, the region is parsed once more permissively
// with a delimiter inferred from the region itself.
func ParseTable(lines []string, loc HeaderLocation) (*Table, error) {
	if loc.LineIndex < 0 || loc.LineIndex >= len(lines) {
		return nil, fmt.Errorf("%w: header line %d out of range", ErrNoUsableRows, loc.LineIndex)
	}

	region := nonBlank(lines[loc.LineIndex:])
	data := strings.Join(region, "\n")

	records, err := readStrict(data, loc.Delimiter)
	if err == nil {
		if t := buildTable(records, loc.Delimiter, false); len(t.Rows) > 0 {
			return t, nil
		}
	}

	delim := InferDelimiter(region)
	records, skipped, perr := readPermissive(data, delim)
	if perr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoUsableRows, perr)
	}

	t := buildTable(records, delim, true)
	t.Retried = true
	t.SkippedLines += skipped
	if len(t.Rows) == 0 {
		if err != nil {
			return nil, fmt.Errorf("%w: strict parse failed (%v) and retry found no rows", ErrNoUsableRows, err)
		}
		return nil, ErrNoUsableRows
	}
	return t, nil
}

// InferDelimiter picks the candidate that splits lines into the most
// consistent field counts (averaging at least two fields). It falls back
// to DetectDelimiter on the first line.
func InferDelimiter(lines []string) rune {
	sample := nonBlank(lines)
	if len(sample) > inferSampleLines {
		sample = sample[:inferSampleLines]
	}
	if len(sample) == 0 {
		return ','
	}

	best := rune(0)
	bestDelta := math.MaxFloat64
	bestAvg := 0.0
	for _, d := range Delimiters {
		counts := make([]float64, len(sample))
		sum := 0.0
		for i, line := range sample {
			counts[i] = float64(strings.Count(line, string(d)) + 1)
			sum += counts[i]
		}
		avg := sum / float64(len(counts))
		if avg < 2 {
			continue
		}

		delta := 0.0
		for _, c := range counts {
			delta += math.Abs(c - avg)
		}
		delta /= float64(len(counts))

		if delta < bestDelta || (delta == bestDelta && avg > bestAvg) {
			best, bestDelta, bestAvg = d, delta, avg
		}
	}

	if best == 0 {
		return DetectDelimiter(sample[0])
	}
	return best
}

func readStrict(data string, delim rune) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = 0
	return r.ReadAll()
}

func readPermissive(data string, delim rune) ([][]string, int, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	skipped := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, skipped, err
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// buildTable keys records by the header. In a permissive build, rows
// without a single numeric cell (footers, trailing notes) are dropped and
// counted as skipped once the header has minFooterFields fields.
func buildTable(records [][]string, delim rune, permissive bool) *Table {
	t := &Table{Delimiter: delim}
	if len(records) == 0 {
		return t
	}

	t.Fields = uniqueFields(records[0])

	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(Row, len(t.Fields))
		for i, cell := range rec {
			if i >= len(t.Fields) {
				break
			}
			row[t.Fields[i]] = cell
		}
		t.Rows = append(t.Rows, row)
	}

	if len(t.Rows) > 0 && isUnitsRow(t.Rows[0]) {
		t.Units = make(map[string]string, len(t.Rows[0]))
		for field, cell := range t.Rows[0] {
			if u := trimToken(cell); u != "" {
				t.Units[field] = u
			}
		}
		t.Rows = t.Rows[1:]
	}

	if permissive && len(t.Fields) >= minFooterFields {
		kept := t.Rows[:0]
		for _, row := range t.Rows {
			if hasNumeric(row) {
				kept = append(kept, row)
			} else {
				t.SkippedLines++
			}
		}
		t.Rows = kept
	}

	return t
}

// uniqueFields keeps header names verbatim, naming empty cells by
// position and suffixing repeats.
func uniqueFields(header []string) []string {
	fields := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		seen[candidate] = true
		fields[i] = candidate
	}
	return fields
}

// isUnitsRow reports whether a row is a units line such as "s;rpm;%;kPa"
// under the header: no numeric cells, at least two labels, and at least
// half of the labels known units.
func isUnitsRow(row Row) bool {
	labels, known := 0, 0
	for _, cell := range row {
		cell = trimToken(cell)
		if cell == "" {
			continue
		}
		if IsNumeric(cell) {
			return false
		}
		labels++
		if IsUnit(cell) {
			known++
		}
	}
	return labels >= 2 && known*2 >= labels
}

// IsUnit reports whether s is a unit label commonly written in datalog
// units rows. Brackets and case are ignored.
func IsUnit(s string) bool {
	s = strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "[]()")))
	_, ok := knownUnits[s]
	return ok
}

var knownUnits = map[string]struct{}{
	"s": {}, "sec": {}, "ms": {}, "min": {}, "h": {},
	"rpm": {}, "1/min": {}, "u/min": {}, "min-1": {},
	"%": {}, "deg": {}, "°": {}, "°kw": {}, "°crk": {}, "grad": {},
	"kpa": {}, "hpa": {}, "mbar": {}, "bar": {}, "psi": {}, "psig": {}, "psia": {}, "inhg": {},
	"°c": {}, "c": {}, "degc": {}, "°f": {}, "f": {}, "k": {},
	"lambda": {}, "λ": {}, "afr": {},
	"v": {}, "mv": {}, "a": {}, "ma": {},
	"km/h": {}, "mph": {}, "g/s": {}, "kg/h": {}, "mg/stk": {}, "mg/hub": {}, "nm": {}, "ms/rev": {},
}

func hasNumeric(row Row) bool {
	for _, cell := range row {
		if IsNumeric(trimToken(cell)) {
			return true
		}
	}
	return false
}

func blankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
