package music

import (
	"context"
	"strconv"
	"strings"

	"github.com/petal-labs/musicbridge/delimited"
	"github.com/petal-labs/musicbridge/tool"
)

const currentTrackFields = 6

type trackInfo struct {
	Name     string   `json:"name"`
	Artist   string   `json:"artist"`
	Album    string   `json:"album"`
	Duration *float64 `json:"duration"`
	Position *float64 `json:"position"`
	State    string   `json:"state"`
}

type currentTrackResult struct {
	Playing bool       `json:"playing"`
	Track   *trackInfo `json:"track,omitempty"`
	Message string     `json:"message,omitempty"`
}

type currentTrackTool struct {
	exec  Executor
	codec delimited.Codec
}

func (t *currentTrackTool) Spec() tool.Spec {
	return tool.Spec{
		ID:          "get_current_track",
		Description: "Get the current track with its playback position and player state.",
		Permission:  tool.PermissionAuto,
		RequiresApp: true,
	}
}

func (t *currentTrackTool) Run(ctx context.Context, _ string) string {
	out, err := t.exec.Execute(ctx, currentTrackScript(), true)
	if err != nil {
		return tool.AutomationErrorJSON(err)
	}
	if out == stoppedMarker {
		return tool.Encode(currentTrackResult{Playing: false, Message: "No track is currently playing"})
	}

	fields, err := t.codec.Fields(out, currentTrackFields)
	if err != nil {
		return tool.ParseFailureJSON("track")
	}
	return tool.Encode(currentTrackResult{
		Playing: true,
		Track: &trackInfo{
			Name:     fields[0],
			Artist:   fields[1],
			Album:    fields[2],
			Duration: parseSeconds(fields[3]),
			Position: parseSeconds(fields[4]),
			State:    fields[5],
		},
	})
}

// parseSeconds reads an AppleScript real. Locales that print a decimal comma
// are accepted; anything non-numeric ("missing value" for streams) is nil.
func parseSeconds(raw string) *float64 {
	text := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}
