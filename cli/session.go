// Package cli implements the musicbridge host harness: cobra commands that
// drive the plugin boundary the same way a host application does.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/musicbridge/config"
	"github.com/petal-labs/musicbridge/dispatch"
	"github.com/petal-labs/musicbridge/journal"
	mbotel "github.com/petal-labs/musicbridge/otel"
	"github.com/petal-labs/musicbridge/osascript"
	"github.com/petal-labs/musicbridge/plugin"
)

// newRunner builds the automation runner. Tests replace it with a fake.
var newRunner = func(cfg config.OsascriptConfig, logger *slog.Logger) osascript.Runner {
	return &osascript.ExecRunner{
		Command: cfg.Command,
		Args:    cfg.Args,
		Env:     cfg.Env,
		Logger:  logger,
	}
}

// AddGlobalFlags registers the persistent flags every subcommand reads.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Path to musicbridge.yaml (default: ./musicbridge.yaml, then ~/.musicbridge/config.yaml)")
	root.PersistentFlags().Bool("verbose", false, "Enable verbose/debug logging")
	root.PersistentFlags().Bool("quiet", false, "Suppress all log output except errors")
}

// session is one plugin context opened for the duration of a command.
type session struct {
	cfg       config.Config
	logger    *slog.Logger
	adapter   *plugin.Adapter
	handle    plugin.Handle
	store     *journal.SQLiteStore
	telemetry *mbotel.Telemetry
}

type sessionOptions struct {
	journal bool
	// metrics records invocation metrics in process even when telemetry
	// export is disabled.
	metrics bool
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(explicit)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return config.Config{}, exitError(exitFileNotFound, "%v", err)
		}
		return config.Config{}, exitError(exitInputParse, "loading config: %v", err)
	}
	return cfg, nil
}

func commandLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return newLogger(cmd.ErrOrStderr(), cfg.Logging, verbose, quiet)
}

func openSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: commandLogger(cmd, cfg)}

	var observers []dispatch.Observer
	if cfg.Telemetry.Enabled {
		s.telemetry, err = mbotel.Setup(cmd.Context(), cfg.Telemetry, plugin.Version)
		if err != nil {
			return nil, exitError(exitRuntime, "telemetry setup: %v", err)
		}
	} else if opts.metrics {
		s.telemetry, err = mbotel.NewLocal(cfg.Telemetry.ServiceName, plugin.Version)
		if err != nil {
			return nil, exitError(exitRuntime, "telemetry setup: %v", err)
		}
	}
	if s.telemetry != nil {
		observers = append(observers, s.telemetry.Observer())
	}
	if opts.journal || cfg.Journal.Enabled {
		s.store, err = openJournal(cfg)
		if err != nil {
			_ = s.close(cmd.Context())
			return nil, exitError(exitRuntime, "%v", err)
		}
		observers = append(observers, journal.NewRecorder(s.store, s.logger))
	}

	s.adapter = plugin.NewAdapter(plugin.Options{
		Config:   cfg,
		Logger:   s.logger,
		Observer: dispatch.MultiObserver(observers...),
		Runner:   newRunner(cfg.Osascript, s.logger),
	})
	s.handle = s.adapter.Init()
	if s.handle == 0 {
		_ = s.close(cmd.Context())
		return nil, exitError(exitRuntime, "plugin initialization failed")
	}
	return s, nil
}

func (s *session) close(ctx context.Context) error {
	if s.adapter != nil && s.handle != 0 {
		s.adapter.Destroy(s.handle)
	}
	var errs []error
	if s.telemetry != nil {
		errs = append(errs, s.telemetry.Shutdown(ctx))
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}

func openJournal(cfg config.Config) (*journal.SQLiteStore, error) {
	path, err := cfg.JournalPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return journal.Open(journal.StoreConfig{DSN: path, RetentionCount: cfg.Journal.Retention})
}

// newLogger builds the slog handler selected by cfg. verbose forces debug
// and quiet forces error, with quiet winning.
func newLogger(w io.Writer, cfg config.LoggingConfig, verbose, quiet bool) *slog.Logger {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
