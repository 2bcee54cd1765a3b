// Package config provides configuration loading and validation for wotlog.
//
// Every heuristic constant used by the datalog pipeline is a named value
// here so that a tuning file can adjust it without touching matching logic.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	Scan     ScanConfig      `yaml:"scan"`
	Resolver ResolverConfig  `yaml:"resolver"`
	Pressure PressureConfig  `yaml:"pressure"`
	Load     LoadConfig      `yaml:"load"`
	Output   OutputConfig    `yaml:"output"`
	Input    InputConfig     `yaml:"input"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// ScanConfig controls the header search.
type ScanConfig struct {
	// Window is the number of non-empty leading lines inspected for a header.
	Window int `yaml:"window"`

	// MinTokens is the minimum token count of a header-like line.
	MinTokens int `yaml:"min_tokens"`

	// NonNumericRatio is the share of tokens (floored) that must fail
	// numeric coercion for a line to look like a header.
	NonNumericRatio float64 `yaml:"non_numeric_ratio"`

	// MinNonNumeric is the absolute floor for non-numeric tokens.
	MinNonNumeric int `yaml:"min_non_numeric"`
}

// ResolverConfig controls column-to-channel matching.
type ResolverConfig struct {
	// MinScore is the lowest best score accepted for a channel.
	MinScore int `yaml:"min_score"`

	// MinReverseMatchLen is the shortest normalized field name allowed to
	// match by being contained in a synonym.
	MinReverseMatchLen int `yaml:"min_reverse_match_len"`

	// Synonyms maps a channel name (time, rpm, pedal, ...) to extra
	// synonyms appended after the built-in list.
	Synonyms map[string][]string `yaml:"synonyms,omitempty"`
}

// PressureConfig holds the boost unit and absoluteness heuristics.
type PressureConfig struct {
	// AtmosphericPSI is subtracted from absolute readings to get gauge psi.
	AtmosphericPSI float64 `yaml:"atmospheric_psi"`

	// AbsoluteMinPSI and AbsoluteMaxPSI bracket (exclusive) the series
	// minimum that marks a series as absolute pressure.
	AbsoluteMinPSI float64 `yaml:"absolute_min_psi"`
	AbsoluteMaxPSI float64 `yaml:"absolute_max_psi"`

	// BarMax is the largest series maximum read as bar (with min >= 0).
	BarMax float64 `yaml:"bar_max"`

	// KPaMin (exclusive) and KPaMax bound a series maximum read as kPa.
	KPaMin float64 `yaml:"kpa_min"`
	KPaMax float64 `yaml:"kpa_max"`

	// PSIMin (exclusive) and PSIMax bound a series maximum read as psi.
	PSIMin float64 `yaml:"psi_min"`
	PSIMax float64 `yaml:"psi_max"`
}

// LoadConfig holds the wide-open-throttle thresholds.
type LoadConfig struct {
	// FractionCutoff separates 0-1 fractions (<=) from 0-100 percentages.
	FractionCutoff float64 `yaml:"fraction_cutoff"`

	// FractionThreshold is the high-load threshold for fractions.
	FractionThreshold float64 `yaml:"fraction_threshold"`

	// PercentThreshold is the high-load threshold for percentages.
	PercentThreshold float64 `yaml:"percent_threshold"`
}

// OutputConfig controls the result payload.
type OutputConfig struct {
	// SampleCap is the maximum number of sampled rows; 0 disables sampling.
	SampleCap int `yaml:"sample_cap"`

	// Precision is the number of decimals kept in statistics and samples.
	Precision int `yaml:"precision"`
}

// InputConfig bounds what the CLI accepts before parsing.
type InputConfig struct {
	// MaxBytes rejects larger (decoded) inputs.
	MaxBytes int64 `yaml:"max_bytes"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every analyzed file (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerOnFailure fires only when a file could not be parsed.
	WebhookTriggerOnFailure WebhookTrigger = "on_failure"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint that receives reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "always" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Gzip compresses the request body.
	Gzip bool `yaml:"gzip,omitempty"`
}
