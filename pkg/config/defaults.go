package config

import (
	"os"
	"strconv"
	"time"
)

// Default values for configuration.
const (
	DefaultScanWindow      = 50
	DefaultMinTokens       = 3
	DefaultNonNumericRatio = 0.4
	DefaultMinNonNumeric   = 2

	DefaultMinScore           = 40
	DefaultMinReverseMatchLen = 2

	// DefaultAtmosphericPSI is one standard atmosphere (101.325 kPa) in psi.
	DefaultAtmosphericPSI = 14.6959
	DefaultAbsoluteMinPSI = 10.0
	DefaultAbsoluteMaxPSI = 18.0
	DefaultBarMax         = 5.0
	DefaultKPaMin         = 50.0
	DefaultKPaMax         = 400.0
	DefaultPSIMin         = 5.0
	DefaultPSIMax         = 120.0

	DefaultFractionCutoff    = 1.2
	DefaultFractionThreshold = 0.9
	DefaultPercentThreshold  = 90.0

	DefaultPrecision = 3
	DefaultMaxBytes  = 16 << 20

	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvSampleCap      = "WOTLOG_SAMPLE_CAP"
	EnvAtmosphericPSI = "WOTLOG_ATMOSPHERIC_PSI"
	EnvMaxBytes       = "WOTLOG_MAX_BYTES"
	EnvLogLevel       = "WOTLOG_LOG_LEVEL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Window:          DefaultScanWindow,
			MinTokens:       DefaultMinTokens,
			NonNumericRatio: DefaultNonNumericRatio,
			MinNonNumeric:   DefaultMinNonNumeric,
		},
		Resolver: ResolverConfig{
			MinScore:           DefaultMinScore,
			MinReverseMatchLen: DefaultMinReverseMatchLen,
		},
		Pressure: PressureConfig{
			AtmosphericPSI: DefaultAtmosphericPSI,
			AbsoluteMinPSI: DefaultAbsoluteMinPSI,
			AbsoluteMaxPSI: DefaultAbsoluteMaxPSI,
			BarMax:         DefaultBarMax,
			KPaMin:         DefaultKPaMin,
			KPaMax:         DefaultKPaMax,
			PSIMin:         DefaultPSIMin,
			PSIMax:         DefaultPSIMax,
		},
		Load: LoadConfig{
			FractionCutoff:    DefaultFractionCutoff,
			FractionThreshold: DefaultFractionThreshold,
			PercentThreshold:  DefaultPercentThreshold,
		},
		Output: OutputConfig{
			Precision: DefaultPrecision,
		},
		Input: InputConfig{
			MaxBytes: DefaultMaxBytes,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Unparseable values are ignored.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvSampleCap); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Output.SampleCap = n
		}
	}
	if v := os.Getenv(EnvAtmosphericPSI); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Pressure.AtmosphericPSI = f
		}
	}
	if v := os.Getenv(EnvMaxBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Input.MaxBytes = n
		}
	}
}
