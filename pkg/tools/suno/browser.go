package suno

import (
	"context"

	workflow "github.com/entrhq/suno-mcp/pkg/suno"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

// OpenBrowserTool starts the browser session and loads the create page.
type OpenBrowserTool struct {
	basicTool
	client *workflow.Client
}

// NewOpenBrowserTool creates a new open browser tool.
func NewOpenBrowserTool(client *workflow.Client) *OpenBrowserTool {
	return &OpenBrowserTool{client: client}
}

// Name returns the tool name.
func (t *OpenBrowserTool) Name() string {
	return "suno_open_browser"
}

// Description returns the tool description.
func (t *OpenBrowserTool) Description() string {
	return "Open the browser and navigate to the Suno create page. Required before any other Suno operation; " +
		"later calls reuse the running browser."
}

// Schema returns the tool's JSON schema.
func (t *OpenBrowserTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"headless": map[string]interface{}{
				"type":        "boolean",
				"description": "Run the browser without a window (default: configured browser.headless). Only applies when the browser is launched.",
			},
		},
		nil,
	)
}

// Execute opens the browser.
func (t *OpenBrowserTool) Execute(ctx context.Context, args tools.Arguments) (string, error) {
	headless, err := args.OptionalBool("headless")
	if err != nil {
		return "", err
	}
	return t.client.OpenBrowser(ctx, headless)
}

// GetStatusTool reports the browser session state.
type GetStatusTool struct {
	basicTool
	client *workflow.Client
}

// NewGetStatusTool creates a new status tool.
func NewGetStatusTool(client *workflow.Client) *GetStatusTool {
	return &GetStatusTool{client: client}
}

// Name returns the tool name.
func (t *GetStatusTool) Name() string {
	return "suno_get_status"
}

// Description returns the tool description.
func (t *GetStatusTool) Description() string {
	return "Get the current Suno session status: whether the browser, context and page are open, the current URL and title, and whether the studio is active."
}

// Schema returns the tool's JSON schema.
func (t *GetStatusTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute reports the status.
func (t *GetStatusTool) Execute(ctx context.Context, _ tools.Arguments) (string, error) {
	return t.client.Status(ctx)
}

// CloseBrowserTool tears the browser session down.
type CloseBrowserTool struct {
	basicTool
	client *workflow.Client
}

// NewCloseBrowserTool creates a new close browser tool.
func NewCloseBrowserTool(client *workflow.Client) *CloseBrowserTool {
	return &CloseBrowserTool{client: client}
}

// Name returns the tool name.
func (t *CloseBrowserTool) Name() string {
	return "suno_close_browser"
}

// Description returns the tool description.
func (t *CloseBrowserTool) Description() string {
	return "Close the browser session and release its resources. Aborts any operation still running against the page."
}

// Schema returns the tool's JSON schema.
func (t *CloseBrowserTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute closes the browser.
func (t *CloseBrowserTool) Execute(_ context.Context, _ tools.Arguments) (string, error) {
	return t.client.CloseBrowser()
}
