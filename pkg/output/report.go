package output

import (
	"errors"
	"time"

	"github.com/ccollicutt/wotlog/pkg/analyzer"
	"github.com/ccollicutt/wotlog/pkg/parser"
)

// Advisory is shown in place of a result when a log cannot be parsed.
const Advisory = "We could not read this datalog reliably. Please re-export it with a single header row and one consistent delimiter, then try again. " +
	"/ Wir konnten dieses Datalog nicht zuverlässig auslesen. Bitte exportiere es erneut mit genau einer Kopfzeile und einem einheitlichen Trennzeichen und versuche es noch einmal."

// IsParseFailure reports whether err means the log itself could not be
// read as a table, as opposed to an I/O or configuration problem.
func IsParseFailure(err error) bool {
	return errors.Is(err, parser.ErrHeaderNotFound) || errors.Is(err, parser.ErrNoUsableRows)
}

// NewReport creates a Report from a successful analysis.
func NewReport(source string, a *analyzer.Analysis, opts BuildOptions) *Report {
	return &Report{
		Source: source,
		Note:   a.Note,
		Result: BuildResult(a, opts),
		Metadata: &Metadata{
			HeaderLine:   a.Header.LineIndex,
			Delimiter:    string(a.Table.Delimiter),
			Retried:      a.Table.Retried,
			SkippedLines: a.Table.SkippedLines,
			Fields:       a.Table.Fields,
		},
		AnalyzedAt: time.Now().UTC(),
	}
}

// NewFailureReport turns a parse failure into the advisory Report. Any
// other error is returned unchanged.
func NewFailureReport(source, note string, err error) (*Report, error) {
	if !IsParseFailure(err) {
		return nil, err
	}
	msg := Advisory
	return &Report{
		Source:     source,
		Note:       note,
		Message:    &msg,
		AnalyzedAt: time.Now().UTC(),
	}, nil
}
