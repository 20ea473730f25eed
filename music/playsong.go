package music

import (
	"context"
	"fmt"

	"github.com/petal-labs/musicbridge/delimited"
	"github.com/petal-labs/musicbridge/tool"
)

type playSongArgs struct {
	Song *string `json:"song"`
}

type nowPlaying struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

type playSongResult struct {
	Success bool        `json:"success"`
	Playing *nowPlaying `json:"playing,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type playSongTool struct {
	exec  Executor
	codec delimited.Codec
}

func (t *playSongTool) Spec() tool.Spec {
	return tool.Spec{
		ID:          "play_song",
		Description: "Search the library and play the first matching song.",
		Permission:  tool.PermissionAsk,
		RequiresApp: true,
		Parameters: map[string]tool.FieldSpec{
			"song": {
				Type:        tool.TypeString,
				Required:    true,
				Description: "Song name, optionally with the artist.",
			},
		},
	}
}

func (t *playSongTool) Run(ctx context.Context, payload string) string {
	var args playSongArgs
	if err := tool.DecodeArgs(payload, &args); err != nil || args.Song == nil {
		return tool.InvalidArgumentsJSON(`{"song": <string>}`)
	}

	out, err := t.exec.Execute(ctx, playSongScript(*args.Song), true)
	if err != nil {
		return tool.AutomationErrorJSON(err)
	}
	if out == notFoundMarker {
		return tool.Encode(playSongResult{
			Success: false,
			Error:   fmt.Sprintf("No song found matching '%s'", *args.Song),
		})
	}

	fields, err := t.codec.Fields(out, 2)
	if err != nil {
		return tool.ParseFailureJSON("song")
	}
	return tool.Encode(playSongResult{
		Success: true,
		Playing: &nowPlaying{Name: fields[0], Artist: fields[1]},
	})
}
