package suno

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	workflow "github.com/entrhq/suno-mcp/pkg/suno"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

// ServerStatusTool reports process, session and limit information.
type ServerStatusTool struct {
	systemTool
	registry *tools.Registry
	client   *workflow.Client
	info     ServerInfo
}

// NewServerStatusTool creates a server status tool.
func NewServerStatusTool(registry *tools.Registry, client *workflow.Client, info ServerInfo) *ServerStatusTool {
	return &ServerStatusTool{registry: registry, client: client, info: info}
}

// Name returns the tool name.
func (t *ServerStatusTool) Name() string {
	return "get_server_status"
}

// Description returns the tool description.
func (t *ServerStatusTool) Description() string {
	return "Report server health: version, uptime, active interfaces, browser session state, limits and recent downloads."
}

// Schema returns the tool's JSON schema.
func (t *ServerStatusTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute builds the report. A failed session snapshot is reported in the
// text with troubleshooting hints rather than returned as an error.
func (t *ServerStatusTool) Execute(_ context.Context, _ tools.Arguments) (string, error) {
	manager := t.client.Manager()
	snap := manager.Status()

	if snap.Error != "" {
		return fmt.Sprintf(`Status Check Failed

Error: %s

Troubleshooting:
- Ensure Playwright browsers are installed (suno-mcp stdio --install)
- Check internet connectivity
- Verify Suno is reachable
- Review the server logs for details`, snap.Error), nil
	}

	settings := t.info.Settings
	var b strings.Builder

	b.WriteString("Suno MCP Server Status\n\n")

	b.WriteString("Server:\n")
	fmt.Fprintf(&b, "- Version: %s\n", t.info.Version)
	fmt.Fprintf(&b, "- Uptime: %s\n", time.Since(t.info.StartedAt).Truncate(time.Second))
	if len(t.info.Transports) > 0 {
		fmt.Fprintf(&b, "- Interfaces: %s\n", strings.Join(t.info.Transports, ", "))
	}
	var counts []string
	for _, c := range categories(t.registry) {
		counts = append(counts, fmt.Sprintf("%s: %d", c.name, len(c.tools)))
	}
	fmt.Fprintf(&b, "- Tools: %d (%s)\n\n", t.registry.Len(), strings.Join(counts, ", "))

	b.WriteString("Browser Session:\n")
	fmt.Fprintf(&b, "- State: %s\n", snap.State)
	fmt.Fprintf(&b, "- Browser Open: %t\n", snap.BrowserOpen)
	fmt.Fprintf(&b, "- Context Ready: %t\n", snap.ContextReady)
	fmt.Fprintf(&b, "- Page Ready: %t\n", snap.PageReady)
	fmt.Fprintf(&b, "- Current URL: %s\n", orNone(snap.CurrentURL))
	fmt.Fprintf(&b, "- Page Title: %s\n", orNone(snap.PageTitle))
	fmt.Fprintf(&b, "- In Studio Mode: %t\n", snap.InStudio)
	fmt.Fprintf(&b, "- Headless: %t\n\n", snap.Headless)

	b.WriteString("Limits:\n")
	fmt.Fprintf(&b, "- Max concurrent sessions: %d (one shared session in use)\n", settings.Security.MaxConcurrentSessions)
	fmt.Fprintf(&b, "- Rate limit: %d requests/minute, burst %d\n\n",
		settings.Security.RequestsPerMinute, settings.Security.BurstLimit)

	downloads := manager.Downloads()
	recent := downloads.Recent()
	b.WriteString("Downloads:\n")
	fmt.Fprintf(&b, "- Directory: %s\n", downloads.Dir())
	fmt.Fprintf(&b, "- Saved this session: %d", len(recent))
	if len(recent) > 0 {
		last := recent[len(recent)-1]
		fmt.Fprintf(&b, "\n- Last: %s (%s, %s)", filepath.Base(last.Path), last.Source, last.SavedAt.Format(time.RFC3339))
	}

	return b.String(), nil
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
