package analyzer

import (
	"strings"

	"github.com/ccollicutt/wotlog/pkg/config"
	"github.com/ccollicutt/wotlog/pkg/detector"
)

// Unit is a boost pressure unit. The zero value is unknown.
type Unit string

// Boost units.
const (
	UnitUnknown Unit = ""
	UnitPSI     Unit = "psi"
	UnitKPa     Unit = "kpa"
	UnitBar     Unit = "bar"
)

// Conversion factors to psi.
const (
	PSIPerKPa = 0.1450377
	PSIPerBar = 14.50377
)

// Known reports whether the unit was determined.
func (u Unit) Known() bool {
	return u != UnitUnknown
}

// PressureInterpretation is the one-off reading of a boost series: which
// unit it is in and whether it is absolute. Convert values only through
// its methods so every consumer shares the same decision.
type PressureInterpretation struct {
	Unit Unit

	// IsAbsolute is nil when the unit is unknown or the series is empty.
	IsAbsolute *bool

	atmospheric float64
}

// InterpretPressure works out the unit of a boost series and whether it
// holds absolute pressure. name is the column name and unitText any units
// row text for it; raw is the coerced column.
func InterpretPressure(name, unitText string, raw Series, cfg config.PressureConfig) PressureInterpretation {
	p := PressureInterpretation{atmospheric: cfg.AtmosphericPSI}

	p.Unit = unitFromName(name + " " + unitText)
	if !p.Unit.Known() {
		p.Unit = unitFromRange(raw, cfg)
	}
	if !p.Unit.Known() {
		return p
	}

	if st := Aggregate(p.Psi(raw), nil); st != nil {
		abs := st.Min > cfg.AbsoluteMinPSI && st.Min < cfg.AbsoluteMaxPSI
		p.IsAbsolute = &abs
	}
	return p
}

// unitFromName looks for a unit in the column name. Millibar and
// hectopascal give no signal; their ranges are left to unitFromRange.
func unitFromName(name string) Unit {
	key := detector.NormalizeKey(name)
	switch {
	case strings.Contains(key, "mbar"), strings.Contains(key, "hpa"):
		return UnitUnknown
	case strings.Contains(key, "kpa"):
		return UnitKPa
	case strings.Contains(key, "bar"):
		return UnitBar
	case strings.Contains(key, "psi"):
		return UnitPSI
	default:
		return UnitUnknown
	}
}

// unitFromRange guesses the unit from the series' value range. The kPa
// band is tested before psi, so maxima in the overlap read as kPa.
func unitFromRange(raw Series, cfg config.PressureConfig) Unit {
	st := Aggregate(raw, nil)
	if st == nil {
		return UnitUnknown
	}
	switch {
	case st.Max <= cfg.BarMax && st.Min >= 0:
		return UnitBar
	case st.Max > cfg.KPaMin && st.Max <= cfg.KPaMax:
		return UnitKPa
	case st.Max > cfg.PSIMin && st.Max <= cfg.PSIMax:
		return UnitPSI
	default:
		return UnitUnknown
	}
}

// Psi converts raw to psi. An unknown unit yields an all-nil series.
func (p PressureInterpretation) Psi(raw Series) Series {
	switch p.Unit {
	case UnitPSI:
		return raw.Map(func(v float64) float64 { return v })
	case UnitKPa:
		return raw.Map(func(v float64) float64 { return v * PSIPerKPa })
	case UnitBar:
		return raw.Map(func(v float64) float64 { return v * PSIPerBar })
	default:
		return make(Series, len(raw))
	}
}

// Gauge converts raw to gauge psi, subtracting atmospheric pressure when
// the series is absolute. An unknown unit yields an all-nil series.
func (p PressureInterpretation) Gauge(raw Series) Series {
	psi := p.Psi(raw)
	if p.IsAbsolute == nil || !*p.IsAbsolute {
		return psi
	}
	atm := p.atmospheric
	return psi.Map(func(v float64) float64 { return v - atm })
}

// Atmospheric returns the pressure subtracted from absolute readings.
func (p PressureInterpretation) Atmospheric() float64 {
	return p.atmospheric
}
