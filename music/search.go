package music

import (
	"context"
	"log/slog"
	"strings"

	"github.com/petal-labs/musicbridge/delimited"
	"github.com/petal-labs/musicbridge/tool"
)

const searchRecordFields = 3

type searchArgs struct {
	Query *string `json:"query"`
	Limit *int    `json:"limit"`
}

type songInfo struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

type searchResult struct {
	Results []songInfo `json:"results"`
	Count   int        `json:"count"`
}

type searchSongsTool struct {
	exec         Executor
	codec        delimited.Codec
	defaultLimit int
	logger       *slog.Logger
}

func (t *searchSongsTool) Spec() tool.Spec {
	return tool.Spec{
		ID:          "search_songs",
		Description: "Search the Music library for songs by name, artist or album.",
		Permission:  tool.PermissionAuto,
		RequiresApp: true,
		Parameters: map[string]tool.FieldSpec{
			"query": {
				Type:        tool.TypeString,
				Required:    true,
				Description: "Text to search for.",
			},
			"limit": {
				Type:        tool.TypeInteger,
				Description: "Maximum number of results.",
				Default:     t.defaultLimit,
				Minimum:     tool.IntPtr(1),
			},
		},
	}
}

func (t *searchSongsTool) Run(ctx context.Context, payload string) string {
	var args searchArgs
	if err := tool.DecodeArgs(payload, &args); err != nil || args.Query == nil {
		return tool.InvalidArgumentsJSON(`{"query": <string>, "limit": <integer, optional>}`)
	}
	limit := t.defaultLimit
	if args.Limit != nil && *args.Limit > 0 {
		limit = *args.Limit
	}

	out, err := t.exec.Execute(ctx, searchScript(*args.Query, limit), true)
	if err != nil {
		return tool.AutomationErrorJSON(err)
	}

	records := t.codec.Records(out, searchRecordFields)
	if out != "" {
		if total := strings.Count(out, t.codec.Record) + 1; total > len(records) {
			t.logger.Debug("dropped malformed search records", "dropped", total-len(records))
		}
	}

	result := searchResult{Results: make([]songInfo, 0, len(records))}
	for _, fields := range records {
		result.Results = append(result.Results, songInfo{
			Name:   fields[0],
			Artist: fields[1],
			Album:  fields[2],
		})
	}
	result.Count = len(result.Results)
	return tool.Encode(result)
}
