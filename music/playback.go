package music

import (
	"context"

	"github.com/petal-labs/musicbridge/tool"
)

type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// commandTool runs a fixed script and ignores its payload.
type commandTool struct {
	spec    tool.Spec
	exec    Executor
	script  string
	message string
}

func (t *commandTool) Spec() tool.Spec {
	return t.spec
}

func (t *commandTool) Run(ctx context.Context, _ string) string {
	if _, err := t.exec.Execute(ctx, t.script, t.spec.RequiresApp); err != nil {
		return tool.AutomationErrorJSON(err)
	}
	return tool.Encode(actionResult{Success: true, Message: t.message})
}

func newPlay(exec Executor) *commandTool {
	return &commandTool{
		spec: tool.Spec{
			ID:          "play",
			Description: "Start or resume playback in Apple Music.",
			Permission:  tool.PermissionAuto,
			RequiresApp: true,
		},
		exec:    exec,
		script:  tellMusic("play"),
		message: "Playback started",
	}
}

func newPause(exec Executor) *commandTool {
	return &commandTool{
		spec: tool.Spec{
			ID:          "pause",
			Description: "Pause playback in Apple Music.",
			Permission:  tool.PermissionAuto,
			RequiresApp: true,
		},
		exec:    exec,
		script:  tellMusic("pause"),
		message: "Playback paused",
	}
}

func newNextTrack(exec Executor) *commandTool {
	return &commandTool{
		spec: tool.Spec{
			ID:          "next_track",
			Description: "Skip to the next track.",
			Permission:  tool.PermissionAuto,
			RequiresApp: true,
		},
		exec:    exec,
		script:  tellMusic("next track"),
		message: "Skipped to next track",
	}
}

func newPreviousTrack(exec Executor) *commandTool {
	return &commandTool{
		spec: tool.Spec{
			ID:          "previous_track",
			Description: "Go back to the previous track.",
			Permission:  tool.PermissionAuto,
			RequiresApp: true,
		},
		exec:    exec,
		script:  tellMusic("previous track"),
		message: "Went back to previous track",
	}
}

// open_music launches the app, so it is the one tool that does not require
// Music to be running already.
func newOpenMusic(exec Executor) *commandTool {
	return &commandTool{
		spec: tool.Spec{
			ID:          "open_music",
			Description: "Open Apple Music and bring it to the front.",
			Permission:  tool.PermissionAsk,
			RequiresApp: false,
		},
		exec:    exec,
		script:  tellMusic("activate"),
		message: "Music app opened",
	}
}
