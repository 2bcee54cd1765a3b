package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/wotlog/internal/logger"
	"github.com/ccollicutt/wotlog/pkg/analyzer"
	"github.com/ccollicutt/wotlog/pkg/config"
	"github.com/ccollicutt/wotlog/pkg/output"
	"github.com/ccollicutt/wotlog/pkg/parser"
	"github.com/ccollicutt/wotlog/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	Note    string
	Sample  int
	Verbose bool
	Quiet   bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
	WebhookGzip    bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(g *GlobalOptions) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <datalog>...",
		Short: "Summarize vehicle datalogs",
		Long: `Analyze one or more vehicle datalogs (CSV-like exports, optionally
.gz/.xz/.zst compressed, or .xlsx workbooks).

For each file the header row and delimiter are located, columns are mapped
to channels (time, rpm, pedal, throttle, boost, iat, lambda, ignition), the
boost unit and pressure reference are inferred, and full and high-load
statistics are reported. Files are analyzed independently.

Arguments may be files, directories or glob patterns.

Exit codes:
  0 - All datalogs analyzed
  1 - At least one datalog could not be parsed (advisory reported)
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Note, "note", "", "Free-text note attached to every report")
	cmd.Flags().IntVar(&opts.Sample, "sample", 0, "Include a downsampled row sample of at most N rows (overrides output.sample_cap)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show parse details and the row sample")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Payload or one-line summary only")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "always", "When to fire webhook (always|on_failure|never)")
	cmd.Flags().BoolVar(&opts.WebhookGzip, "webhook-gzip", false, "Gzip-compress the webhook request body")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, g *GlobalOptions, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := g.Logger()
	if err != nil {
		return err
	}

	cfg, err := g.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	files, err := parser.ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding datalog paths: %w", err)
	}

	a, err := analyzer.New(cfg, analyzer.WithLogger(logger.WithComponent(log, "analyzer")))
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	build := output.BuildOptions{
		SampleCap: cfg.Output.SampleCap,
		Precision: cfg.Output.Precision,
	}
	if cmd.Flags().Changed("sample") {
		if opts.Sample < 0 {
			return fmt.Errorf("invalid --sample %d (must be >= 0)", opts.Sample)
		}
		build.SampleCap = opts.Sample
	}

	failed := 0
	for _, file := range files {
		report, err := analyzeFile(ctx, a, file, opts.Note, cfg.Input.MaxBytes, build)
		if err != nil {
			return err
		}

		fileLog := logger.WithFile(log, "analyze", file)
		if report.Failed() {
			failed++
			fileLog.Warn("Datalog could not be parsed")
		} else {
			fileLog.WithFields(logrus.Fields{
				"rows":      report.Result.Rows,
				"high_load": report.Result.HighLoadRows,
			}).Info("Datalog analyzed")
		}

		if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}

		// Send webhooks (errors logged but don't fail analysis)
		sendWebhooks(ctx, cfg, opts, report, log)
	}

	if failed > 0 {
		ExitCode = 1
	}

	return nil
}

// analyzeFile reads and analyzes one datalog. Parse failures become an
// advisory report; read and configuration errors are returned.
func analyzeFile(ctx context.Context, a *analyzer.Analyzer, file, note string, maxBytes int64, build output.BuildOptions) (*output.Report, error) {
	data, err := parser.ReadFile(file, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	result, err := a.Analyze(ctx, analyzer.RawLog{Data: data, Note: note})
	if err != nil {
		report, ferr := output.NewFailureReport(file, note, err)
		if ferr != nil {
			return nil, fmt.Errorf("analyzing %s: %w", file, ferr)
		}
		return report, nil
	}

	return output.NewReport(file, result, build), nil
}

func createFormatter(opts *AnalyzeOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged but don't fail the analysis.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report, log logrus.FieldLogger) {
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient(webhook.WithUserAgent("wotlog-webhook/" + Version))

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.Failed()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
			Gzip:    wh.Gzip,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		entry := logger.WithComponent(log, "webhook").WithFields(logrus.Fields{
			"webhook":  name,
			"source":   report.Source,
			"duration": resp.Duration,
		})
		if resp.Success() {
			entry.WithField("status", resp.StatusCode).Info("Webhook sent")
		} else {
			entry.WithError(resp.Error).Warn("Webhook failed")
		}
	}
}

// collectWebhooks merges config file webhooks with CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerAlways
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
			Gzip:    opts.WebhookGzip,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for a report.
func shouldFireWebhook(trigger config.WebhookTrigger, failed bool) bool {
	switch trigger {
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnFailure:
		return failed
	default:
		return true
	}
}
