package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/wotlog/internal/logger"
	"github.com/ccollicutt/wotlog/pkg/analyzer"
	"github.com/ccollicutt/wotlog/pkg/config"
	"github.com/ccollicutt/wotlog/pkg/detector"
	"github.com/ccollicutt/wotlog/pkg/output"
	"github.com/ccollicutt/wotlog/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(g *GlobalOptions) *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <datalog>",
		Short: "Show how a datalog's header and columns are recognized",
		Long: `Inspect a datalog and report what the heuristics found: the header
line and delimiter, the column chosen for each channel with its match
score, and the inferred boost unit.

Use --all to list every candidate column per channel, and --write-config
to generate a starter config with the detected columns pinned as synonyms.

Example:
  wotlog detect pull.csv
  wotlog detect --all --output json pull.csv
  wotlog detect -w wotlog.yaml pull.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all candidate columns, not just the chosen one")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

// ChannelReport describes the column resolution of one channel.
type ChannelReport struct {
	Channel    string           `json:"channel"`
	Field      *string          `json:"field"`
	Score      int              `json:"score"`
	Unit       string           `json:"unit,omitempty"`
	Candidates []detector.Match `json:"candidates,omitempty"`
}

// DetectOutput is the detect command result.
type DetectOutput struct {
	File       string                     `json:"file"`
	HeaderLine int                        `json:"header_line"`
	Delimiter  string                     `json:"delimiter"`
	TokenCount int                        `json:"token_count"`
	Fields     []string                   `json:"fields"`
	Retried    bool                       `json:"retried,omitempty"`
	Rows       int                        `json:"rows"`
	Channels   []ChannelReport            `json:"channels"`
	Boost      output.BoostInterpretation `json:"boost"`
	Message    *string                    `json:"message,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string, g *GlobalOptions, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("datalog not found: %s", logFile)
	}

	log, err := g.Logger()
	if err != nil {
		return err
	}

	cfg, err := g.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := parser.ReadFile(logFile, cfg.Input.MaxBytes)
	if err != nil {
		return fmt.Errorf("reading %s: %w", logFile, err)
	}

	a, err := analyzer.New(cfg, analyzer.WithLogger(logger.WithFile(log, "detect", logFile)))
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	w := cmd.OutOrStdout()

	result, err := a.Analyze(ctx, analyzer.RawLog{Data: data})
	if err != nil {
		if !output.IsParseFailure(err) {
			return fmt.Errorf("detection failed: %w", err)
		}
		ExitCode = 1
		msg := output.Advisory
		out := &DetectOutput{File: logFile, Message: &msg}
		if opts.Output == "json" {
			return writeDetectJSON(w, out)
		}
		_, err := fmt.Fprintf(w, "=== Datalog Detection ===\n\nFile: %s\n\n%v\n\n%s\n", logFile, err, msg)
		return err
	}

	out := buildDetectOutput(logFile, result, a.Resolver(), opts.ShowAll)

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(w, result, logFile, opts.WriteConfig); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		return writeDetectJSON(w, out)
	}
	return writeDetectText(w, out)
}

func buildDetectOutput(logFile string, a *analyzer.Analysis, r *detector.Resolver, showAll bool) *DetectOutput {
	out := &DetectOutput{
		File:       logFile,
		HeaderLine: a.Header.LineIndex,
		Delimiter:  string(a.Header.Delimiter),
		TokenCount: a.Header.TokenCount,
		Fields:     a.Table.Fields,
		Retried:    a.Table.Retried,
		Rows:       a.Rows(),
		Channels:   make([]ChannelReport, 0, len(detector.Channels())),
		Boost:      output.BuildResult(a, output.BuildOptions{Precision: -1}).BoostInterpretation,
	}

	for _, c := range detector.Channels() {
		cr := ChannelReport{Channel: c.String()}
		if m, ok := a.Channels[c]; ok {
			field := m.Field
			cr.Field = &field
			cr.Score = m.Score
			cr.Unit = a.Table.Unit(m.Field)
		}
		if showAll {
			cr.Candidates = r.Candidates(c, a.Table.Fields)
		}
		out.Channels = append(out.Channels, cr)
	}
	return out
}

func writeDetectText(w io.Writer, out *DetectOutput) error {
	bw := &errWriter{w: w}

	bw.printf("=== Datalog Detection ===\n\n")
	bw.printf("File: %s\n", out.File)
	bw.printf("Header: line %d, delimiter %s, %d columns\n", out.HeaderLine+1, delimiterLabel(out.Delimiter), out.TokenCount)
	if out.Retried {
		bw.printf("Note: strict parse failed, rows read with an inferred delimiter\n")
	}
	bw.printf("Rows: %d\n\n", out.Rows)

	bw.printf("Channels:\n")
	for _, cr := range out.Channels {
		if cr.Field == nil {
			bw.printf("  %-9s (not found)\n", cr.Channel)
		} else {
			unit := ""
			if cr.Unit != "" {
				unit = " [" + cr.Unit + "]"
			}
			bw.printf("  %-9s %s%s (score %d)\n", cr.Channel, *cr.Field, unit, cr.Score)
		}
		for _, m := range cr.Candidates {
			bw.printf("              candidate %s (score %d)\n", m.Field, m.Score)
		}
	}
	bw.printf("\n")

	unit := "unknown"
	if out.Boost.Unit != nil {
		unit = *out.Boost.Unit
	}
	ref := "undetermined"
	if out.Boost.IsAbsoluteLikely != nil {
		ref = "gauge"
		if *out.Boost.IsAbsoluteLikely {
			ref = "absolute"
		}
	}
	bw.printf("Boost: %s, %s\n", unit, ref)

	return bw.err
}

func writeDetectJSON(w io.Writer, out *DetectOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func delimiterLabel(d string) string {
	switch d {
	case "\t":
		return "tab"
	case "|":
		return `"|"`
	default:
		return fmt.Sprintf("%q", d)
	}
}

// writeStarterConfig generates a starter config file with the detected
// columns pinned as synonyms.
func writeStarterConfig(w io.Writer, a *analyzer.Analysis, logFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	content, err := generateStarterConfig(a, logFile)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, err = fmt.Fprintf(w, "Wrote starter config to: %s\n\n", configPath)
	return err
}

// generateStarterConfig renders the default config as YAML with every
// resolved column added to its channel's synonyms.
func generateStarterConfig(a *analyzer.Analysis, logFile string) ([]byte, error) {
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	cfg := config.DefaultConfig()
	cfg.Resolver.Synonyms = make(map[string][]string, len(a.Channels))
	for c, m := range a.Channels {
		cfg.Resolver.Synonyms[c.String()] = []string{m.Field}
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}

	header := fmt.Sprintf("# wotlog configuration\n# Generated by: wotlog detect %s\n\n", absLogFile)
	return append([]byte(header), body...), nil
}

// errWriter keeps the first write error so formatted output can be
// written without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
