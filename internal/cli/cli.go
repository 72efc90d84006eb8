// Package cli implements the toposort command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/toposort/pkg/buildinfo"
	"github.com/matzehuels/toposort/pkg/cache"
	"github.com/matzehuels/toposort/pkg/config"
	errs "github.com/matzehuels/toposort/pkg/errors"
	pkgio "github.com/matzehuels/toposort/pkg/io"
	"github.com/matzehuels/toposort/pkg/observability"
	"github.com/matzehuels/toposort/pkg/pipeline"
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
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
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
		Use:   "toposort",
		Short: "toposort orders items that must come before other items",
		Long: `toposort reads precedence relations ("a comes before b") and prints an
order of the items that respects every relation. Items caught in a cycle are
left out and reported.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/toposort/config.toml)")

	root.AddCommand(c.sortCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level, registers logging
// hooks and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(ctx, c.Config, noCache, c.Logger)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = c.Config.CacheTTL()
	return runner, nil
}

// newCache picks Redis when a URL is configured, otherwise the file cache.
// Without a usable cache directory it warns and caches nothing.
func newCache(ctx context.Context, cfg *config.Config, noCache bool, logger *log.Logger) (cache.Cache, error) {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.RedisURL != "" {
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		logger.Warn("render cache disabled, no cache directory", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Input Helpers
// =============================================================================

// readInput reads relations from the file named by args[0], or from stdin
// when there is no argument or it is "-". format overrides the format
// detected from the file extension; stdin defaults to text.
func readInput(cmd *cobra.Command, args []string, format string) (pkgio.Relations, error) {
	if len(args) == 0 || args[0] == "-" {
		if format == "" {
			format = pkgio.FormatText
		}
		return pkgio.ReadRelations(cmd.InOrStdin(), format)
	}
	if format == "" {
		return pkgio.ImportRelations(args[0])
	}
	f, err := openInput(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pkgio.ReadRelations(f, format)
}

// inputFlags are the flags shared by commands that read relations.
type inputFlags struct {
	mode        string
	inputFormat string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", pipeline.ModeAuto, "identifier mode: auto, int, or string")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "relation format: text, json, or toml (default: from file extension)")
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	return f, nil
}
