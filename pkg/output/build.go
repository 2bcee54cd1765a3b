package output

import (
	"math"

	"github.com/ccollicutt/wotlog/pkg/analyzer"
	"github.com/ccollicutt/wotlog/pkg/detector"
)

// BuildOptions controls the payload.
type BuildOptions struct {
	// SampleCap bounds the row sample; 0 omits it.
	SampleCap int

	// Precision is the number of decimals kept; negative keeps full precision.
	Precision int
}

// BuildResult assembles the payload from an analysis. Output depends only
// on the analysis and options, so identical input gives identical JSON.
func BuildResult(a *analyzer.Analysis, opts BuildOptions) *AnalysisResult {
	r := &AnalysisResult{
		DetectedColumns: DetectedColumns{
			Time:     field(a, detector.Time),
			Rpm:      field(a, detector.Rpm),
			Pedal:    field(a, detector.Pedal),
			Throttle: field(a, detector.Throttle),
			Boost:    field(a, detector.Boost),
			Iat:      field(a, detector.Iat),
			Lambda:   field(a, detector.Lambda),
			Ignition: field(a, detector.Ignition),
		},
		Full:         statSet(a.Full, opts.Precision),
		HighLoad:     statSet(a.HighLoadStats, opts.Precision),
		Rows:         a.Rows(),
		HighLoadRows: a.HighLoadRows(),
	}

	if a.Pressure.Unit.Known() {
		unit := string(a.Pressure.Unit)
		r.BoostInterpretation.Unit = &unit
	}
	if a.Pressure.IsAbsolute != nil {
		abs := *a.Pressure.IsAbsolute
		r.BoostInterpretation.IsAbsoluteLikely = &abs
	}

	if opts.SampleCap > 0 {
		for _, i := range Downsample(a.Rows(), opts.SampleCap) {
			r.Sample = append(r.Sample, sampleRow(a, i, opts.Precision))
		}
	}
	return r
}

// Downsample returns evenly strided row indexes, at most limit of them,
// in ascending order. The stride is ceil(n / limit).
func Downsample(n, limit int) []int {
	if n <= 0 || limit <= 0 {
		return nil
	}
	stride := (n + limit - 1) / limit
	out := make([]int, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		out = append(out, i)
	}
	return out
}

func field(a *analyzer.Analysis, c detector.Channel) *string {
	f, ok := a.Channels.Field(c)
	if !ok {
		return nil
	}
	return &f
}

func statSet(s analyzer.Summary, precision int) StatSet {
	return StatSet{
		Time:          summary(s.Time, precision),
		Rpm:           summary(s.Rpm, precision),
		Pedal:         summary(s.Pedal, precision),
		Throttle:      summary(s.Throttle, precision),
		BoostRaw:      summary(s.BoostRaw, precision),
		BoostPsi:      summary(s.BoostPsi, precision),
		BoostGaugePsi: summary(s.BoostGaugePsi, precision),
		Iat:           summary(s.Iat, precision),
		Lambda:        summary(s.Lambda, precision),
		Ignition:      summary(s.Ignition, precision),
	}
}

func summary(st *analyzer.Stats, precision int) *StatSummary {
	if st == nil {
		return nil
	}
	return &StatSummary{
		Min:   round(st.Min, precision),
		Max:   round(st.Max, precision),
		Avg:   round(st.Avg, precision),
		Count: st.Count,
	}
}

func sampleRow(a *analyzer.Analysis, i, precision int) SampleRow {
	value := func(s analyzer.Series) *float64 {
		v := s.At(i)
		if v == nil {
			return nil
		}
		r := round(*v, precision)
		return &r
	}

	row := SampleRow{
		Row:           i,
		Time:          value(a.Column(detector.Time)),
		Rpm:           value(a.Column(detector.Rpm)),
		Pedal:         value(a.Column(detector.Pedal)),
		Throttle:      value(a.Column(detector.Throttle)),
		BoostRaw:      value(a.Column(detector.Boost)),
		BoostGaugePsi: value(a.BoostGaugePsi),
		Iat:           value(a.Column(detector.Iat)),
		Lambda:        value(a.Column(detector.Lambda)),
		Ignition:      value(a.Column(detector.Ignition)),
	}
	if i < len(a.HighLoad) && a.HighLoad[i] {
		row.HighLoad = 1
	}
	return row
}

func round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	p := math.Pow(10, float64(precision))
	r := math.Round(v*p) / p
	if r == 0 {
		// No negative zero in output.
		return 0
	}
	return r
}
