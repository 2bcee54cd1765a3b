package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	if report.Failed() {
		_, err := fmt.Fprintf(w, "%s: could not be parsed\n", report.Source)
		return err
	}
	r := report.Result
	_, err := fmt.Fprintf(w, "%s: %d rows, %d high load, boost %s\n",
		report.Source, r.Rows, r.HighLoadRows, boostLabel(r.BoostInterpretation))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "=== wotlog: %s ===\n", report.Source)
	if report.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", report.Note)
	}
	fmt.Fprintln(w)

	if report.Failed() {
		if report.Message != nil {
			fmt.Fprintln(w, *report.Message)
		}
		return nil
	}

	r := report.Result
	if f.opts.Verbose && report.Metadata != nil {
		m := report.Metadata
		fmt.Fprintf(w, "Header: line %d, delimiter %s", m.HeaderLine+1, delimiterName(m.Delimiter))
		if m.Retried {
			fmt.Fprintf(w, " (inferred, %d malformed lines skipped)", m.SkippedLines)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Fields: %s\n\n", strings.Join(m.Fields, ", "))
	}

	fmt.Fprintln(w, "Detected columns:")
	cols := r.DetectedColumns
	for _, c := range []struct {
		name  string
		field *string
	}{
		{"time", cols.Time},
		{"rpm", cols.Rpm},
		{"pedal", cols.Pedal},
		{"throttle", cols.Throttle},
		{"boost", cols.Boost},
		{"iat", cols.Iat},
		{"lambda", cols.Lambda},
		{"ignition", cols.Ignition},
	} {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, stringOr(c.field, "(not found)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Boost: %s\n", boostLabel(r.BoostInterpretation))
	fmt.Fprintf(w, "Rows: %d (%d high load)\n\n", r.Rows, r.HighLoadRows)

	fmt.Fprintf(w, "%-14s %-34s %s\n", "Channel", "Full (min / max / avg, n)", "High load")
	for _, row := range statRows(r) {
		fmt.Fprintf(w, "%-14s %-34s %s\n", row.name, statLabel(row.full), statLabel(row.high))
	}

	if f.opts.Verbose && len(r.Sample) > 0 {
		fmt.Fprintf(w, "\nSample (%d rows):\n", len(r.Sample))
		fmt.Fprintf(w, "  %6s %10s %8s %8s %10s %s\n", "row", "rpm", "pedal", "throttle", "boost_g", "wot")
		for _, s := range r.Sample {
			fmt.Fprintf(w, "  %6d %10s %8s %8s %10s %d\n",
				s.Row, floatOr(s.Rpm), floatOr(s.Pedal), floatOr(s.Throttle), floatOr(s.BoostGaugePsi), s.HighLoad)
		}
	}

	return nil
}

type statRow struct {
	name string
	full *StatSummary
	high *StatSummary
}

func statRows(r *AnalysisResult) []statRow {
	full, high := r.Full, r.HighLoad
	return []statRow{
		{"time", full.Time, high.Time},
		{"rpm", full.Rpm, high.Rpm},
		{"pedal", full.Pedal, high.Pedal},
		{"throttle", full.Throttle, high.Throttle},
		{"boostRaw", full.BoostRaw, high.BoostRaw},
		{"boostPsi", full.BoostPsi, high.BoostPsi},
		{"boostGaugePsi", full.BoostGaugePsi, high.BoostGaugePsi},
		{"iat", full.Iat, high.Iat},
		{"lambda", full.Lambda, high.Lambda},
		{"ignition", full.Ignition, high.Ignition},
	}
}

func boostLabel(b BoostInterpretation) string {
	if b.Unit == nil {
		return "unit unknown"
	}
	switch {
	case b.IsAbsoluteLikely == nil:
		return *b.Unit
	case *b.IsAbsoluteLikely:
		return *b.Unit + " (absolute)"
	default:
		return *b.Unit + " (gauge)"
	}
}

func statLabel(s *StatSummary) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%s / %s / %s, %d", formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.Avg), s.Count)
}

func delimiterName(d string) string {
	switch d {
	case "\t":
		return "tab"
	default:
		return strconv.Quote(d)
	}
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func floatOr(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatFloat(*v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
