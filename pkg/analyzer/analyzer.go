package analyzer

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/wotlog/pkg/config"
	"github.com/ccollicutt/wotlog/pkg/detector"
	"github.com/ccollicutt/wotlog/pkg/parser"
)

// Analyzer runs the datalog pipeline with one configuration. It holds no
// per-log state and is safe for concurrent use.
type Analyzer struct {
	cfg      *config.Config
	scan     parser.ScanOptions
	resolver *detector.Resolver
	logger   logrus.FieldLogger
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithLogger sets the logger for pipeline events. Events are logged at
// debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an analyzer from configuration.
func New(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	extra := make(map[detector.Channel][]string, len(cfg.Resolver.Synonyms))
	for name, words := range cfg.Resolver.Synonyms {
		c, err := detector.ParseChannel(name)
		if err != nil {
			return nil, fmt.Errorf("resolver synonyms: %w", err)
		}
		extra[c] = words
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Analyzer{
		cfg: cfg,
		scan: parser.ScanOptions{
			Window:          cfg.Scan.Window,
			MinTokens:       cfg.Scan.MinTokens,
			NonNumericRatio: cfg.Scan.NonNumericRatio,
			MinNonNumeric:   cfg.Scan.MinNonNumeric,
		},
		resolver: detector.New(
			detector.WithMinScore(cfg.Resolver.MinScore),
			detector.WithMinReverseMatchLen(cfg.Resolver.MinReverseMatchLen),
			detector.WithSynonyms(extra),
		),
		logger: discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Resolver returns the channel resolver built from configuration.
func (a *Analyzer) Resolver() *detector.Resolver {
	return a.resolver
}

// Analyze interprets one datalog. It fails with parser.ErrHeaderNotFound
// or parser.ErrNoUsableRows (wrapped) when the data region cannot be
// found; missing channels and undeterminable units are not errors.
func (a *Analyzer) Analyze(ctx context.Context, raw RawLog) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit := a.cfg.Input.MaxBytes; limit > 0 && int64(len(raw.Data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", parser.ErrInputTooLarge, len(raw.Data), limit)
	}

	lines := parser.SplitLines(parser.NormalizeText(raw.Data))

	loc, err := parser.LocateHeader(lines, a.scan)
	if err != nil {
		return nil, fmt.Errorf("locating header: %w", err)
	}
	a.logger.WithFields(logrus.Fields{
		"line":      loc.LineIndex,
		"delimiter": string(loc.Delimiter),
		"tokens":    loc.TokenCount,
	}).Debug("Header located")

	table, err := parser.ParseTable(lines, loc)
	if err != nil {
		return nil, fmt.Errorf("parsing table: %w", err)
	}
	if table.Retried {
		a.logger.WithFields(logrus.Fields{
			"delimiter": string(table.Delimiter),
			"skipped":   table.SkippedLines,
		}).Debug("Strict parse failed, used inferred delimiter")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Analysis{
		Note:     raw.Note,
		Header:   loc,
		Table:    table,
		Channels: a.resolver.Resolve(table.Fields),
		Series:   make(map[detector.Channel]Series),
	}

	for _, c := range detector.Channels() {
		field, ok := result.Channels.Field(c)
		if !ok {
			result.Series[c] = make(Series, len(table.Rows))
			continue
		}
		result.Series[c] = Coerce(table.Rows, field)
		a.logger.WithFields(logrus.Fields{
			"channel": c.String(),
			"field":   field,
			"score":   result.Channels[c].Score,
		}).Debug("Channel resolved")
	}

	boost := result.Series[detector.Boost]
	if field, ok := result.Channels.Field(detector.Boost); ok {
		result.Pressure = InterpretPressure(field, table.Unit(field), boost, a.cfg.Pressure)
	} else {
		result.Pressure = PressureInterpretation{atmospheric: a.cfg.Pressure.AtmosphericPSI}
	}
	result.BoostPsi = result.Pressure.Psi(boost)
	result.BoostGaugePsi = result.Pressure.Gauge(boost)

	fields := logrus.Fields{"unit": string(result.Pressure.Unit)}
	if result.Pressure.IsAbsolute != nil {
		fields["absolute"] = *result.Pressure.IsAbsolute
	}
	a.logger.WithFields(fields).Debug("Boost interpreted")

	result.HighLoad = LoadMask(result.Series[detector.Pedal], result.Series[detector.Throttle], a.cfg.Load)
	result.Full = summarize(result, nil)
	result.HighLoadStats = summarize(result, result.HighLoad)

	a.logger.WithFields(logrus.Fields{
		"rows":      result.Rows(),
		"high_load": result.HighLoadRows(),
	}).Debug("Analysis complete")

	return result, nil
}

func summarize(a *Analysis, mask []bool) Summary {
	return Summary{
		Time:          Aggregate(a.Series[detector.Time], mask),
		Rpm:           Aggregate(a.Series[detector.Rpm], mask),
		Pedal:         Aggregate(a.Series[detector.Pedal], mask),
		Throttle:      Aggregate(a.Series[detector.Throttle], mask),
		BoostRaw:      Aggregate(a.Series[detector.Boost], mask),
		BoostPsi:      Aggregate(a.BoostPsi, mask),
		BoostGaugePsi: Aggregate(a.BoostGaugePsi, mask),
		Iat:           Aggregate(a.Series[detector.Iat], mask),
		Lambda:        Aggregate(a.Series[detector.Lambda], mask),
		Ignition:      Aggregate(a.Series[detector.Ignition], mask),
	}
}
