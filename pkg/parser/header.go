package parser

import (
	"fmt"
	"strings"
)

// Delimiters lists candidate field delimiters in tie-break order.
var Delimiters = []rune{',', ';', '\t', '|'}

// ScanOptions controls the header search.
type ScanOptions struct {
	// Window is the number of non-empty lines inspected.
	Window int
	// MinTokens is the minimum token count of a header line.
	MinTokens int
	// NonNumericRatio is the floored share of tokens that must be non-numeric.
	NonNumericRatio float64
	// MinNonNumeric is the absolute floor for non-numeric tokens.
	MinNonNumeric int
}

// DefaultScanOptions returns the standard header search settings.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Window:          50,
		MinTokens:       3,
		NonNumericRatio: 0.4,
		MinNonNumeric:   2,
	}
}

// LineScore describes how header-like a single line is.
type LineScore struct {
	LineIndex  int
	Delimiter  rune
	TokenCount int
	NonNumeric int
	HeaderLike bool
}

// DetectDelimiter returns the candidate delimiter occurring most often in
// line. Ties go to the earlier candidate; a line without any candidate
// yields a comma.
func DetectDelimiter(line string) rune {
	best := ','
	bestCount := 0
	for _, d := range Delimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best = d
			bestCount = n
		}
	}
	return best
}

// ScoreLine splits a line by its detected delimiter and counts the tokens
// that do not coerce to numbers.
func ScoreLine(line string, opts ScanOptions) LineScore {
	delim := DetectDelimiter(line)
	tokens := strings.Split(line, string(delim))

	score := LineScore{
		Delimiter:  delim,
		TokenCount: len(tokens),
	}
	for _, tok := range tokens {
		tok = trimToken(tok)
		if tok == "" {
			continue
		}
		if !IsNumeric(tok) {
			score.NonNumeric++
		}
	}

	need := int(opts.NonNumericRatio * float64(score.TokenCount))
	if need < opts.MinNonNumeric {
		need = opts.MinNonNumeric
	}
	score.HeaderLike = score.TokenCount >= opts.MinTokens && score.NonNumeric >= need
	return score
}

// ScanLines scores the first opts.Window non-empty lines.
func ScanLines(lines []string, opts ScanOptions) []LineScore {
	var scores []LineScore
	for i, line := range lines {
		if len(scores) >= opts.Window {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		s := ScoreLine(line, opts)
		s.LineIndex = i
		scores = append(scores, s)
	}
	return scores
}

// LocateHeader finds the header row: among header-like lines in the scan
// window, the one with the most tokens, earliest first on ties.
func LocateHeader(lines []string, opts ScanOptions) (HeaderLocation, error) {
	var best *LineScore
	scores := ScanLines(lines, opts)
	for i := range scores {
		s := &scores[i]
		if !s.HeaderLike {
			continue
		}
		if best == nil || s.TokenCount > best.TokenCount {
			best = s
		}
	}

	if best == nil {
		return HeaderLocation{}, fmt.Errorf("%w: no header-like line in the first %d non-empty lines", ErrHeaderNotFound, opts.Window)
	}

	return HeaderLocation{
		LineIndex:  best.LineIndex,
		Delimiter:  best.Delimiter,
		TokenCount: best.TokenCount,
	}, nil
}

func trimToken(tok string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(tok), `"'`))
}
