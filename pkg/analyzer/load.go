package analyzer

import (
	"math"

	"github.com/ccollicutt/wotlog/pkg/config"
)

// IsHighLoad classifies one pedal or throttle reading. Values up to
// cfg.FractionCutoff are read as a 0-1 fraction, larger ones as percent.
// The scale is decided per value, so an encoding outside both ranges
// (such as sensor volts) is misread.
func IsHighLoad(v *float64, cfg config.LoadConfig) bool {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return false
	}
	if *v <= cfg.FractionCutoff {
		return *v >= cfg.FractionThreshold
	}
	return *v >= cfg.PercentThreshold
}

// LoadMask flags every row where either the pedal or the throttle reading
// is high-load. A nil series counts as absent.
func LoadMask(pedal, throttle Series, cfg config.LoadConfig) []bool {
	n := len(pedal)
	if len(throttle) > n {
		n = len(throttle)
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = IsHighLoad(pedal.At(i), cfg) || IsHighLoad(throttle.At(i), cfg)
	}
	return mask
}
