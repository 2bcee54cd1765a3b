package commands

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ccollicutt/wotlog/internal/logger"
	"github.com/ccollicutt/wotlog/pkg/config"
)

// GlobalOptions holds the persistent root flags shared by all commands.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	// LogOutput receives log lines; nil means stderr.
	LogOutput io.Writer
}

// LoadConfig loads the --config file, or the built-in defaults when none
// was given.
func (g *GlobalOptions) LoadConfig(ctx context.Context) (*config.Config, error) {
	if g.ConfigPath == "" {
		return config.Default()
	}
	return config.Load(ctx, g.ConfigPath)
}

// Logger builds the logger selected by --log-level and --log-format.
func (g *GlobalOptions) Logger() (*logrus.Logger, error) {
	w := g.LogOutput
	if w == nil {
		w = os.Stderr
	}
	return logger.New(g.LogLevel, g.LogFormat, w)
}
