// Package music implements the Apple Music tools exposed by the plugin.
//
// Each tool parses its JSON payload, sends exactly one automation script
// through an Executor, and renders the flattened text reply as JSON.
package music

import (
	"context"
	"log/slog"

	"github.com/petal-labs/musicbridge/delimited"
	"github.com/petal-labs/musicbridge/tool"
)

// DefaultSearchLimit caps search_songs results when no limit is given.
const DefaultSearchLimit = 10

// Executor runs one automation script. When requireRunning is set and Music
// is not running, implementations return a not-running error without
// running the script.
type Executor interface {
	Execute(ctx context.Context, script string, requireRunning bool) (string, error)
}

// Options tunes tool behavior.
type Options struct {
	DefaultSearchLimit int
	Logger             *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.DefaultSearchLimit <= 0 {
		o.DefaultSearchLimit = DefaultSearchLimit
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Tools returns every Music tool bound to exec.
func Tools(exec Executor, opts Options) []tool.Tool {
	opts = opts.withDefaults()
	return []tool.Tool{
		newPlay(exec),
		newPause(exec),
		newNextTrack(exec),
		newPreviousTrack(exec),
		newOpenMusic(exec),
		&setVolumeTool{exec: exec},
		&currentTrackTool{exec: exec, codec: delimited.Default},
		&libraryStatsTool{exec: exec, codec: delimited.Default},
		&searchSongsTool{exec: exec, codec: delimited.Default, defaultLimit: opts.DefaultSearchLimit, logger: opts.Logger},
		&playSongTool{exec: exec, codec: delimited.Default},
	}
}

// NewRegistry builds the immutable registry of Music tools.
func NewRegistry(exec Executor, opts Options) (*tool.Registry, error) {
	return tool.NewRegistry(Tools(exec, opts)...)
}
