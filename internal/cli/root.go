// Package cli provides the command-line interface for wotlog.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/wotlog/internal/cli/commands"
	"github.com/ccollicutt/wotlog/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	// A missing .env file is fine
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "wotlog",
		Short: "Summarize vehicle datalogs",
		Long: `wotlog reads messy vehicle datalog exports and reports what happened
at wide-open throttle.

It handles:
  - Preamble lines and units rows around the header
  - Comma, semicolon, tab and pipe delimiters, and decimal commas
  - English and German column names
  - Boost logged in psi, kPa or bar, absolute or gauge

Logs that cannot be read are answered with a re-export advisory instead
of a guess.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	logLevel := os.Getenv(config.EnvLogLevel)
	if logLevel == "" {
		logLevel = "info"
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", logLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&g.LogFormat, "log-format", "text", "Log format (text|json)")

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand(g))
	rootCmd.AddCommand(commands.NewDetectCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand(g))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
