package music

import (
	"context"
	"strconv"
	"strings"

	"github.com/petal-labs/musicbridge/delimited"
	"github.com/petal-labs/musicbridge/tool"
)

type libraryStats struct {
	Tracks    int `json:"tracks"`
	Playlists int `json:"playlists"`
}

type libraryStatsTool struct {
	exec  Executor
	codec delimited.Codec
}

func (t *libraryStatsTool) Spec() tool.Spec {
	return tool.Spec{
		ID:          "get_library_stats",
		Description: "Count the tracks and user playlists in the Music library.",
		Permission:  tool.PermissionAuto,
		RequiresApp: true,
	}
}

func (t *libraryStatsTool) Run(ctx context.Context, _ string) string {
	out, err := t.exec.Execute(ctx, libraryStatsScript(), true)
	if err != nil {
		return tool.AutomationErrorJSON(err)
	}

	fields, err := t.codec.Fields(out, 2)
	if err != nil {
		return tool.ParseFailureJSON("library")
	}
	tracks, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return tool.ParseFailureJSON("library")
	}
	playlists, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return tool.ParseFailureJSON("library")
	}
	return tool.Encode(libraryStats{Tracks: tracks, Playlists: playlists})
}
