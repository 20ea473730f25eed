// Package plugin is the host-facing boundary of musicbridge: a handle table
// of plugin contexts, each owning a registry, an automation executor, a
// dispatcher and the manifest generated from the registry.
package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petal-labs/musicbridge/automation"
	"github.com/petal-labs/musicbridge/config"
	"github.com/petal-labs/musicbridge/dispatch"
	"github.com/petal-labs/musicbridge/music"
	"github.com/petal-labs/musicbridge/osascript"
	"github.com/petal-labs/musicbridge/tool"
)

// Name is the plugin name reported in the manifest.
const Name = "musicbridge"

// Description is the plugin description reported in the manifest.
const Description = "Control Apple Music playback and query the library through AppleScript automation."

// Version is set via ldflags at build time.
var Version = "dev"

// Options configures a Context.
type Options struct {
	Config   config.Config
	Logger   *slog.Logger
	Observer dispatch.Observer
	// Runner replaces the osascript runner built from Config.Osascript.
	Runner osascript.Runner
	// Version overrides the package Version in the manifest.
	Version string
}

// Context is one initialized plugin instance.
type Context struct {
	registry   *tool.Registry
	executor   *automation.Executor
	dispatcher *dispatch.Dispatcher
	manifest   tool.Manifest
	describe   string
}

// NewContext wires the tool set and renders its manifest.
func NewContext(opts Options) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg.Osascript.Command == "" {
		cfg.Osascript.Command = config.Default().Osascript.Command
	}

	runner := opts.Runner
	if runner == nil {
		runner = &osascript.ExecRunner{
			Command: cfg.Osascript.Command,
			Args:    cfg.Osascript.Args,
			Env:     cfg.Osascript.Env,
			Logger:  logger,
		}
	}
	executor := automation.NewExecutor(automation.ExecutorConfig{Runner: runner, Logger: logger})

	registry, err := music.NewRegistry(executor, music.Options{
		DefaultSearchLimit: cfg.Search.DefaultLimit,
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("plugin: build registry: %w", err)
	}

	version := opts.Version
	if version == "" {
		version = Version
	}
	manifest := tool.BuildManifest(tool.PluginInfo{
		Name:        Name,
		Version:     version,
		Description: Description,
	}, registry)
	describe, err := tool.MarshalManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("plugin: render manifest: %w", err)
	}

	return &Context{
		registry: registry,
		executor: executor,
		dispatcher: dispatch.New(registry,
			dispatch.WithLogger(logger),
			dispatch.WithObserver(opts.Observer),
		),
		manifest: manifest,
		describe: describe,
	}, nil
}

// Describe returns the manifest JSON. It is identical for the lifetime of
// the context.
func (c *Context) Describe() string {
	return c.describe
}

// Manifest returns the structured manifest.
func (c *Context) Manifest() tool.Manifest {
	return c.manifest
}

// Registry returns the context's tool registry.
func (c *Context) Registry() *tool.Registry {
	return c.registry
}

// MusicRunning reports whether the Music app is currently running.
func (c *Context) MusicRunning(ctx context.Context) bool {
	return c.executor.IsRunning(ctx)
}

// Invoke dispatches one tool call.
func (c *Context) Invoke(ctx context.Context, capabilityType, toolID, payload string) string {
	return c.dispatcher.Invoke(ctx, capabilityType, toolID, payload)
}
