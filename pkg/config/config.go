package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides
// applied. It is used when no config file is given.
func Default() (*Config, error) {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and fills webhook defaults.
func Validate(cfg *Config) error {
	if err := validateScan(&cfg.Scan); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if err := validateResolver(&cfg.Resolver); err != nil {
		return fmt.Errorf("resolver: %w", err)
	}
	if err := validatePressure(&cfg.Pressure); err != nil {
		return fmt.Errorf("pressure: %w", err)
	}
	if err := validateLoad(&cfg.Load); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	if cfg.Output.SampleCap < 0 {
		return errors.New("output: sample_cap must be >= 0")
	}
	if cfg.Output.Precision < 0 || cfg.Output.Precision > 9 {
		return fmt.Errorf("output: precision must be between 0 and 9, got %d", cfg.Output.Precision)
	}
	if cfg.Input.MaxBytes <= 0 {
		return errors.New("input: max_bytes must be > 0")
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateScan(s *ScanConfig) error {
	if s.Window <= 0 {
		return errors.New("window must be > 0")
	}
	if s.MinTokens <= 0 {
		return errors.New("min_tokens must be > 0")
	}
	if s.NonNumericRatio <= 0 || s.NonNumericRatio > 1 {
		return fmt.Errorf("non_numeric_ratio must be in (0, 1], got %g", s.NonNumericRatio)
	}
	if s.MinNonNumeric < 0 {
		return errors.New("min_non_numeric must be >= 0")
	}
	return nil
}

func validateResolver(r *ResolverConfig) error {
	if r.MinScore <= 0 || r.MinScore > 100 {
		return fmt.Errorf("min_score must be in (0, 100], got %d", r.MinScore)
	}
	if r.MinReverseMatchLen < 1 {
		return errors.New("min_reverse_match_len must be >= 1")
	}
	for channel, words := range r.Synonyms {
		if strings.TrimSpace(channel) == "" {
			return errors.New("synonyms: channel name must not be empty")
		}
		for _, w := range words {
			if strings.TrimSpace(w) == "" {
				return fmt.Errorf("synonyms.%s: empty synonym", channel)
			}
		}
	}
	return nil
}

func validatePressure(p *PressureConfig) error {
	if p.AtmosphericPSI <= 0 {
		return errors.New("atmospheric_psi must be > 0")
	}
	if p.AbsoluteMinPSI >= p.AbsoluteMaxPSI {
		return fmt.Errorf("absolute_min_psi (%g) must be below absolute_max_psi (%g)", p.AbsoluteMinPSI, p.AbsoluteMaxPSI)
	}
	if p.AtmosphericPSI <= p.AbsoluteMinPSI || p.AtmosphericPSI >= p.AbsoluteMaxPSI {
		return fmt.Errorf("atmospheric_psi (%g) must lie between absolute_min_psi and absolute_max_psi", p.AtmosphericPSI)
	}
	if p.BarMax <= 0 {
		return errors.New("bar_max must be > 0")
	}
	if p.KPaMin >= p.KPaMax {
		return fmt.Errorf("kpa_min (%g) must be below kpa_max (%g)", p.KPaMin, p.KPaMax)
	}
	if p.PSIMin >= p.PSIMax {
		return fmt.Errorf("psi_min (%g) must be below psi_max (%g)", p.PSIMin, p.PSIMax)
	}
	return nil
}

func validateLoad(l *LoadConfig) error {
	if l.FractionCutoff <= 0 {
		return errors.New("fraction_cutoff must be > 0")
	}
	if l.FractionThreshold <= 0 || l.FractionThreshold > l.FractionCutoff {
		return fmt.Errorf("fraction_threshold must be in (0, fraction_cutoff], got %g", l.FractionThreshold)
	}
	if l.PercentThreshold <= l.FractionCutoff {
		return fmt.Errorf("percent_threshold (%g) must be above fraction_cutoff (%g)", l.PercentThreshold, l.FractionCutoff)
	}
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerAlways
	case WebhookTriggerAlways, WebhookTriggerOnFailure, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be always, on_failure, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
