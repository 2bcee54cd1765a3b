package analyzer

import (
	"math"
	"testing"

	"github.com/ccollicutt/wotlog/pkg/config"
)

func TestIsHighLoad(t *testing.T) {
	cfg := config.DefaultConfig().Load

	tests := []struct {
		name string
		v    *float64
		want bool
	}{
		{"absent", nil, false},
		{"fraction full", num(1.0), true},
		{"fraction threshold", num(0.9), true},
		{"fraction low", num(0.5), false},
		{"fraction cutoff", num(1.2), false},
		{"just above cutoff", num(1.3), false},
		{"percent threshold", num(90), true},
		{"percent below", num(89.9), false},
		{"percent full", num(100), true},
		{"nan", num(math.NaN()), false},
		{"inf", num(math.Inf(1)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHighLoad(tt.v, cfg); got != tt.want {
				t.Errorf("IsHighLoad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadMask(t *testing.T) {
	cfg := config.DefaultConfig().Load

	tests := []struct {
		name     string
		pedal    Series
		throttle Series
		want     []bool
	}{
		{
			name:  "pedal percent",
			pedal: series(10, 95),
			want:  []bool{false, true},
		},
		{
			name:     "throttle fraction",
			throttle: series(0.95, 0.2),
			want:     []bool{true, false},
		},
		{
			name:     "either channel",
			pedal:    series(10, 20, 99),
			throttle: Series{num(95), nil, num(0)},
			want:     []bool{true, false, true},
		},
		{
			name:     "no load channels",
			pedal:    make(Series, 2),
			throttle: make(Series, 2),
			want:     []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadMask(tt.pedal, tt.throttle, cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("LoadMask() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("LoadMask()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
