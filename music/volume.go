package music

import (
	"context"

	"github.com/petal-labs/musicbridge/tool"
)

const (
	minVolume = 0
	maxVolume = 100
)

type setVolumeArgs struct {
	Level *int `json:"level"`
}

type volumeResult struct {
	Success bool `json:"success"`
	Volume  int  `json:"volume"`
}

type setVolumeTool struct {
	exec Executor
}

func (t *setVolumeTool) Spec() tool.Spec {
	return tool.Spec{
		ID:          "set_volume",
		Description: "Set the Apple Music volume. Values outside 0-100 are clamped.",
		Permission:  tool.PermissionAsk,
		RequiresApp: true,
		Parameters: map[string]tool.FieldSpec{
			"level": {
				Type:        tool.TypeInteger,
				Required:    true,
				Description: "Volume level from 0 to 100.",
				Minimum:     tool.IntPtr(minVolume),
				Maximum:     tool.IntPtr(maxVolume),
			},
		},
	}
}

func (t *setVolumeTool) Run(ctx context.Context, payload string) string {
	var args setVolumeArgs
	if err := tool.DecodeArgs(payload, &args); err != nil || args.Level == nil {
		return tool.InvalidArgumentsJSON(`{"level": <integer 0-100>}`)
	}

	level := clampVolume(*args.Level)
	if _, err := t.exec.Execute(ctx, setVolumeScript(level), true); err != nil {
		return tool.AutomationErrorJSON(err)
	}
	return tool.Encode(volumeResult{Success: true, Volume: level})
}

func clampVolume(level int) int {
	return min(max(level, minVolume), maxVolume)
}
