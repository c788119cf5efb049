package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/vtool/internal/cli/output"
	"github.com/leapstack-labs/vtool/internal/config"
	"github.com/leapstack-labs/vtool/internal/engine"
	"github.com/leapstack-labs/vtool/internal/loader"
	"github.com/leapstack-labs/vtool/internal/state"
	"github.com/leapstack-labs/vtool/pkg/dict"
	"github.com/leapstack-labs/vtool/pkg/typecheck"
	"github.com/leapstack-labs/vtool/pkg/validate"
)

// configKey and loggerKey store the loaded config and logger in the
// command context.
type (
	configKey struct{}
	loggerKey struct{}
)

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// GetConfig returns the config stored in ctx, or the defaults.
func GetConfig(ctx context.Context) *config.Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return c
		}
	}
	return config.Default()
}

// GetLogger returns the logger stored in ctx, or a discarding logger.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Registry *typecheck.Registry
	Dict     *dict.Dictionary
	Engine   *engine.Engine
}

// NewCommandContextWithoutEngine creates a CommandContext holding only the
// config, logger, registry and renderer.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
		Registry: typecheck.NewRegistry(),
	}
}

// NewCommandContextWithDictionary also loads the configured dictionaries.
func NewCommandContextWithDictionary(cmd *cobra.Command) (*CommandContext, error) {
	c := NewCommandContextWithoutEngine(cmd)
	if err := c.Cfg.RequireDictionaries(); err != nil {
		return nil, err
	}
	d, err := loader.New(c.Logger).Load(c.Cfg.Dictionaries...)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	c.Dict = d
	return c, nil
}

// NewCommandContext creates a CommandContext with a dictionary and an engine.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	c, err := NewCommandContextWithDictionary(cmd)
	if err != nil {
		return nil, err
	}
	opts := validate.DefaultOptions()
	opts.Aliasing = c.Cfg.Aliasing
	if c.Cfg.MaxDepth > 0 {
		opts.MaxDepth = c.Cfg.MaxDepth
	}
	eng, err := engine.New(engine.Config{
		Dictionary: c.Dict,
		Registry:   c.Registry,
		Options:    opts,
		Workers:    c.Cfg.Workers,
		MaxErrors:  c.Cfg.MaxErrors,
		CacheSize:  c.Cfg.CacheSize,
		Logger:     c.Logger,
	})
	if err != nil {
		return nil, err
	}
	c.Engine = eng
	return c, nil
}

// OpenStore opens the run history database. It returns a nil store when
// history is disabled.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	if c.Cfg.StatePath == "" {
		return nil, nil
	}
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// requireStore opens the history database or fails when history is disabled.
func (c *CommandContext) requireStore() (*state.SQLiteStore, error) {
	if c.Cfg.StatePath == "" {
		return nil, fmt.Errorf("run history is disabled\nHint: set state_path in %s", config.FileName)
	}
	if _, err := os.Stat(c.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("no run history at %s", c.Cfg.StatePath)
	}
	return c.OpenStore()
}
