// Package analyzer interprets a parsed datalog: it coerces the resolved
// channels to numbers, works out the boost unit and pressure reference,
// flags high-load rows and summarizes every channel.
package analyzer

import (
	"github.com/ccollicutt/wotlog/pkg/detector"
	"github.com/ccollicutt/wotlog/pkg/parser"
)

// RawLog is one datalog as handed to the analyzer.
type RawLog struct {
	// Data holds the file content, already decompressed.
	Data []byte

	// Note is optional free text supplied with the log.
	Note string
}

// Series is a numeric column aligned 1:1 with table rows. A nil entry is
// a cell that could not be coerced, or a channel that is not in the log.
type Series []*float64

// Stats summarizes the finite values of a series.
type Stats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Summary holds per-channel statistics. A nil entry means the channel is
// unresolved or has no usable values.
type Summary struct {
	Time          *Stats
	Rpm           *Stats
	Pedal         *Stats
	Throttle      *Stats
	BoostRaw      *Stats
	BoostPsi      *Stats
	BoostGaugePsi *Stats
	Iat           *Stats
	Lambda        *Stats
	Ignition      *Stats
}

// Analysis is the interpreted datalog.
type Analysis struct {
	// Note is the free text supplied with the log.
	Note string

	// Header is where the tabular header was found.
	Header parser.HeaderLocation

	// Table is the parsed data region.
	Table *parser.Table

	// Channels maps each resolved channel to its column.
	Channels detector.ChannelMap

	// Series holds the coerced values of every channel. Unresolved
	// channels have all-nil series.
	Series map[detector.Channel]Series

	// Pressure is the single interpretation of the boost channel.
	Pressure PressureInterpretation

	// BoostPsi and BoostGaugePsi are the boost series converted by Pressure.
	BoostPsi      Series
	BoostGaugePsi Series

	// HighLoad flags the rows at wide-open throttle.
	HighLoad []bool

	// Full summarizes every row; HighLoadStats only the high-load rows.
	Full          Summary
	HighLoadStats Summary
}

// Rows returns the number of data rows.
func (a *Analysis) Rows() int {
	if a.Table == nil {
		return 0
	}
	return len(a.Table.Rows)
}

// HighLoadRows returns the number of rows flagged high-load.
func (a *Analysis) HighLoadRows() int {
	n := 0
	for _, hl := range a.HighLoad {
		if hl {
			n++
		}
	}
	return n
}

// Column returns the series for c.
func (a *Analysis) Column(c detector.Channel) Series {
	return a.Series[c]
}
