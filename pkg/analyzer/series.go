package analyzer

import "github.com/ccollicutt/wotlog/pkg/parser"

// Coerce converts one column of rows to numbers. Rows without the field
// yield nil entries.
func Coerce(rows []parser.Row, field string) Series {
	s := make(Series, len(rows))
	for i, row := range rows {
		if cell, ok := row[field]; ok {
			s[i] = parser.ParseNumber(cell)
		}
	}
	return s
}

// Map applies fn to every present value. Absent values stay absent.
func (s Series) Map(fn func(float64) float64) Series {
	out := make(Series, len(s))
	for i, v := range s {
		if v != nil {
			f := fn(*v)
			out[i] = &f
		}
	}
	return out
}

// Values returns the present values in order.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s))
	for _, v := range s {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// At returns the value at i, or nil when i is out of range.
func (s Series) At(i int) *float64 {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}
