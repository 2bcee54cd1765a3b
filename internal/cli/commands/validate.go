package commands

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/wotlog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Validate a wotlog configuration file without analyzing any datalog.

The file is given as an argument or through --config.

Checks:
  - YAML syntax
  - Heuristic thresholds are in range
  - Synonym keys name known channels
  - Webhook URLs and triggers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, g)
		},
	}
}

func runValidate(cmd *cobra.Command, args []string, g *GlobalOptions) error {
	configPath := g.ConfigPath
	if len(args) == 1 {
		configPath = args[0]
	}
	if configPath == "" {
		return fmt.Errorf("no config file given (pass a path or --config)")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w := &errWriter{w: cmd.OutOrStdout()}
	w.printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	w.printf("\nConfiguration valid!\n")
	w.printf("  Scan window:     %d lines\n", cfg.Scan.Window)
	w.printf("  Min match score: %d\n", cfg.Resolver.MinScore)
	w.printf("  Atmospheric:     %g psi\n", cfg.Pressure.AtmosphericPSI)
	w.printf("  Sample cap:      %d\n", cfg.Output.SampleCap)
	w.printf("  Webhooks:        %d\n", len(cfg.Webhooks))

	if len(cfg.Resolver.Synonyms) > 0 {
		channels := make([]string, 0, len(cfg.Resolver.Synonyms))
		for name := range cfg.Resolver.Synonyms {
			channels = append(channels, name)
		}
		sort.Strings(channels)

		w.printf("\nExtra synonyms:\n")
		for _, name := range channels {
			w.printf("  %s: %v\n", name, cfg.Resolver.Synonyms[name])
		}
	}

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		trigger := wh.Trigger
		if trigger == "" {
			trigger = config.WebhookTriggerAlways
		}
		if i == 0 {
			w.printf("\nWebhooks:\n")
		}
		w.printf("  %d. [%s] %s\n", i+1, trigger, name)
	}

	return w.err
}
