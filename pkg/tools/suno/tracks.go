package suno

import (
	"context"

	workflow "github.com/entrhq/suno-mcp/pkg/suno"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

// GenerateTrackTool submits a track generation request.
type GenerateTrackTool struct {
	basicTool
	client *workflow.Client
}

// NewGenerateTrackTool creates a new generate track tool.
func NewGenerateTrackTool(client *workflow.Client) *GenerateTrackTool {
	return &GenerateTrackTool{client: client}
}

// Name returns the tool name.
func (t *GenerateTrackTool) Name() string {
	return "suno_generate_track"
}

// Description returns the tool description.
func (t *GenerateTrackTool) Description() string {
	return "Generate a new track from a text prompt, with optional style and lyrics. " +
		"Returns once generation has been submitted; generation itself continues on Suno."
}

// Schema returns the tool's JSON schema.
func (t *GenerateTrackTool) Schema() map[string]interface{} {
	durations := make([]interface{}, len(workflow.Durations))
	for i, d := range workflow.Durations {
		durations[i] = d
	}

	return tools.BaseToolSchema(
		map[string]interface{}{
			"prompt": map[string]interface{}{
				"type":        "string",
				"description": "Description of the desired music",
			},
			"style": map[string]interface{}{
				"type":        "string",
				"description": "Musical style, e.g. \"synthwave\", \"pop\", \"rock\" (default: synthwave)",
			},
			"lyrics": map[string]interface{}{
				"type":        "string",
				"description": "Optional lyrics for the track",
			},
			"duration": map[string]interface{}{
				"type":        "string",
				"enum":        durations,
				"description": "Track length (default: auto)",
			},
		},
		[]string{"prompt"},
	)
}

// Execute generates the track.
func (t *GenerateTrackTool) Execute(ctx context.Context, args tools.Arguments) (string, error) {
	var (
		req workflow.GenerateRequest
		err error
	)

	if req.Prompt, err = args.RequiredString("prompt"); err != nil {
		return "", err
	}
	if req.Style, err = args.String("style", ""); err != nil {
		return "", err
	}
	if req.Lyrics, err = args.String("lyrics", ""); err != nil {
		return "", err
	}
	if req.Duration, err = args.String("duration", "auto"); err != nil {
		return "", err
	}

	return t.client.GenerateTrack(ctx, req)
}

// DownloadTrackTool saves a track from the library.
type DownloadTrackTool struct {
	basicTool
	client *workflow.Client
}

// NewDownloadTrackTool creates a new download track tool.
func NewDownloadTrackTool(client *workflow.Client) *DownloadTrackTool {
	return &DownloadTrackTool{client: client}
}

// Name returns the tool name.
func (t *DownloadTrackTool) Name() string {
	return "suno_download_track"
}

// Description returns the tool description.
func (t *DownloadTrackTool) Description() string {
	return "Download a generated track from the Suno library, optionally with its stems. " +
		"The track is found by ID, falling back to matching the first 8 characters of the ID against listed tracks."
}

// Schema returns the tool's JSON schema.
func (t *DownloadTrackTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"track_id": map[string]interface{}{
				"type":        "string",
				"description": "Identifier of the track to download",
			},
			"download_path": map[string]interface{}{
				"type":        "string",
				"description": "Directory to save files in (default: configured paths.downloads)",
			},
			"include_stems": map[string]interface{}{
				"type":        "boolean",
				"description": "Also download the individual stems when available (default: true)",
			},
		},
		[]string{"track_id"},
	)
}

// Execute downloads the track.
func (t *DownloadTrackTool) Execute(ctx context.Context, args tools.Arguments) (string, error) {
	var (
		req workflow.DownloadRequest
		err error
	)

	if req.TrackID, err = args.RequiredString("track_id"); err != nil {
		return "", err
	}
	if req.Dir, err = args.String("download_path", ""); err != nil {
		return "", err
	}
	if req.IncludeStems, err = args.Bool("include_stems", true); err != nil {
		return "", err
	}

	return t.client.DownloadTrack(ctx, req)
}
