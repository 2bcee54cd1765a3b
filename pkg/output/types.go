// Package output builds the serializable result of a datalog analysis and
// renders it as text or JSON.
package output

import "time"

// DetectedColumns names the source column of each channel. Nil means the
// channel was not found.
type DetectedColumns struct {
	Time     *string `json:"time"`
	Rpm      *string `json:"rpm"`
	Pedal    *string `json:"pedal"`
	Throttle *string `json:"throttle"`
	Boost    *string `json:"boost"`
	Iat      *string `json:"iat"`
	Lambda   *string `json:"lambda"`
	Ignition *string `json:"ignition"`
}

// BoostInterpretation is the boost unit and pressure reference. Both are
// nil when they could not be determined.
type BoostInterpretation struct {
	Unit             *string `json:"unit"`
	IsAbsoluteLikely *bool   `json:"isAbsoluteLikely"`
}

// StatSummary is a rounded min/max/avg/count.
type StatSummary struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// StatSet holds one summary per channel; boost is reported as logged, in
// psi and in gauge psi.
type StatSet struct {
	Time          *StatSummary `json:"time"`
	Rpm           *StatSummary `json:"rpm"`
	Pedal         *StatSummary `json:"pedal"`
	Throttle      *StatSummary `json:"throttle"`
	BoostRaw      *StatSummary `json:"boostRaw"`
	BoostPsi      *StatSummary `json:"boostPsi"`
	BoostGaugePsi *StatSummary `json:"boostGaugePsi"`
	Iat           *StatSummary `json:"iat"`
	Lambda        *StatSummary `json:"lambda"`
	Ignition      *StatSummary `json:"ignition"`
}

// SampleRow is one downsampled record.
type SampleRow struct {
	Row           int      `json:"row"`
	Time          *float64 `json:"time"`
	Rpm           *float64 `json:"rpm"`
	Pedal         *float64 `json:"pedal"`
	Throttle      *float64 `json:"throttle"`
	BoostRaw      *float64 `json:"boostRaw"`
	BoostGaugePsi *float64 `json:"boostGaugePsi"`
	Iat           *float64 `json:"iat"`
	Lambda        *float64 `json:"lambda"`
	Ignition      *float64 `json:"ignition"`
	HighLoad      int      `json:"highLoad"`
}

// AnalysisResult is the payload handed to downstream consumers.
type AnalysisResult struct {
	DetectedColumns     DetectedColumns     `json:"detectedColumns"`
	BoostInterpretation BoostInterpretation `json:"boostInterpretation"`
	Full                StatSet             `json:"full"`
	HighLoad            StatSet             `json:"highLoad"`
	Rows                int                 `json:"rows"`
	HighLoadRows        int                 `json:"highLoadRows"`
	Sample              []SampleRow         `json:"sample,omitempty"`
}

// Metadata describes how the log was read.
type Metadata struct {
	// HeaderLine is the zero-based line of the header.
	HeaderLine int `json:"headerLine"`

	// Delimiter is the delimiter the rows were parsed with.
	Delimiter string `json:"delimiter"`

	// Retried is true when the permissive parse produced the rows.
	Retried bool `json:"retried"`

	// SkippedLines counts malformed lines dropped by the permissive parse.
	SkippedLines int `json:"skippedLines,omitempty"`

	// Fields lists the columns in source order.
	Fields []string `json:"fields"`
}

// Report is the envelope for one analyzed file. Exactly one of Result and
// Message is set.
type Report struct {
	// Source is the file the log came from.
	Source string `json:"source"`

	// Note is the free text supplied with the log.
	Note string `json:"note,omitempty"`

	// Result is the analysis payload, nil when the log could not be parsed.
	Result *AnalysisResult `json:"result"`

	// Message is the advisory shown instead of a result.
	Message *string `json:"message"`

	// Metadata is set alongside Result.
	Metadata *Metadata `json:"metadata,omitempty"`

	// AnalyzedAt is when the report was produced.
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// Failed reports whether the log could not be parsed.
func (r *Report) Failed() bool {
	return r.Result == nil
}

// Payload is what quiet output emits: the result, or the advisory text.
func (r *Report) Payload() interface{} {
	if r.Result != nil {
		return r.Result
	}
	if r.Message != nil {
		return *r.Message
	}
	return nil
}
