// Package cli implements the keywheel command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/keywheel/pkg/buildinfo"
	"github.com/matzehuels/keywheel/pkg/cache"
	"github.com/matzehuels/keywheel/pkg/config"
	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/pipeline"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/theory"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// settings. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "keywheel",
		Short: "keywheel draws the keys related to a musical key as a growing wheel",
		Long: `keywheel lays out the keys one diatonic step away from a root key on
three concentric rings, then renders the tree as it grows.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return c.loadConfig() },
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/keywheel/config.toml)")

	root.AddCommand(c.relatedCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "canvas", cfg.Canvas, "rings", cfg.Layout.RingRadii)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with an in-memory topology cache.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(cache.NewMemoryCache[*radial.Topology](), nil, c.Logger)
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{pipeline.FormatSVG}, nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if err := pipeline.ValidateFormat(f); err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, kerrors.New(kerrors.ErrCodeInvalidFormat, "no formats given")
	}
	return formats, nil
}

// keyCompletion completes key arguments with the standard roots.
func keyCompletion(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	roots := theory.StandardRoots()
	names := make([]string, len(roots))
	for i, k := range roots {
		names[i] = k.Spelling()
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
