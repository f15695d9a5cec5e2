// Package cli implements the memgraph command-line interface.
//
// The commands share one [CLI] value holding the logger and the loaded
// configuration:
//   - view: interactive terminal viewer
//   - render: headless layout to SVG, PNG, DOT or JSON
//   - fetch: write the raw graph snapshot as JSON
//   - serve: demo graph server for local front ends
//   - cache: inspect and clear the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to command helpers and as *log.Logger to
// library packages.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/memgraph/internal/config"
	"github.com/matzehuels/memgraph/internal/sample"
	"github.com/matzehuels/memgraph/pkg/buildinfo"
	"github.com/matzehuels/memgraph/pkg/cache"
	"github.com/matzehuels/memgraph/pkg/errors"
	"github.com/matzehuels/memgraph/pkg/source"
	"github.com/matzehuels/memgraph/pkg/source/api"
	"github.com/matzehuels/memgraph/pkg/source/file"
	"github.com/matzehuels/memgraph/pkg/source/mongo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "memgraph"

// annotationNoConfig marks commands that run without reading the config
// file, such as "config init" which may be creating it.
const annotationNoConfig = "memgraph/no-config"

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

	logOut     io.Writer
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "memgraph explores a memory graph as a live force layout",
		Long:          `memgraph fetches a graph of notes and their weighted links, lays it out with a force simulation and lets you explore it in the terminal or export it as SVG, PNG, DOT or JSON.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, skip := cmd.Annotations[annotationNoConfig]; !skip {
				if err := c.loadConfig(); err != nil {
					return err
				}
			}
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// settings returns a copy of the loaded configuration, or of the defaults
// before PersistentPreRunE has run (for example in tests). Commands overlay
// their flags on the copy.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	cfg := *c.cfg
	return &cfg
}

// =============================================================================
// Source Factory
// =============================================================================

// sourceFlags are the flags shared by every command that reads graphs. Zero
// values leave the config file in charge.
type sourceFlags struct {
	kind        string
	url         string
	path        string
	query       string
	minStrength float64
	noCache     bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "source", "", "graph source: api, file, mongo or sample")
	cmd.Flags().StringVar(&f.url, "url", "", "base URL of the graph API")
	cmd.Flags().StringVarP(&f.path, "file", "f", "", "read the graph from a JSON file")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "only show memories matching this text")
	cmd.Flags().Float64Var(&f.minStrength, "min-strength", 0, "minimum link strength in [0,1] (default from config, 0.75)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the response cache")

	_ = cmd.RegisterFlagCompletionFunc("source", cobra.FixedCompletions(
		[]string{config.SourceAPI, config.SourceFile, config.SourceMongo, config.SourceSample},
		cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagFilename("file", "json")
}

// apply overlays the flags on cfg. A --file without --source selects the
// file source.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if f.kind != "" {
		cfg.Source.Kind = f.kind
	}
	if f.url != "" {
		cfg.Source.URL = f.url
	}
	if f.path != "" {
		cfg.Source.Path = f.path
		if f.kind == "" {
			cfg.Source.Kind = config.SourceFile
		}
	}
	if f.query != "" {
		cfg.Source.Query = f.query
	}
	if cmd.Flags().Changed("min-strength") {
		cfg.Source.MinStrength = f.minStrength
		if f.minStrength == 0 {
			cfg.Source.MinStrength = source.AnyStrength
		}
	}
	if f.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	return cfg.Validate()
}

// newSource builds the configured source, wrapped in the configured cache.
// The caller closes it through source.Closer.
func (c *CLI) newSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	var src source.Source
	switch cfg.Source.Kind {
	case config.SourceAPI:
		client, err := api.New(cfg.Source.URL,
			api.WithTimeout(cfg.Source.Timeout.Duration),
			api.WithHeader("User-Agent", buildinfo.UserAgent()))
		if err != nil {
			return nil, err
		}
		src = client
	case config.SourceFile:
		src = file.New(cfg.Source.Path)
	case config.SourceMongo:
		m, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		// Mongo reads are never cached.
		return m, nil
	case config.SourceSample:
		return &source.Static{Data: sample.Data()}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source kind %q", cfg.Source.Kind)
	}

	if cfg.Cache.Backend == config.CacheNone || cfg.Cache.Backend == "" {
		return src, nil
	}
	cc, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("response cache", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL.Duration)
	return source.NewCached(src, cc, cfg.Cache.TTL.Duration), nil
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheFile:
		dir, err := cacheDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.Redis)
	default:
		return cache.NewNullCache(), nil
	}
}

// cacheDir returns the configured file cache directory, or the XDG default
// (~/.cache/memgraph/).
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cache.DefaultDir()
}
