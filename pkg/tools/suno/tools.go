// Package suno exposes the Suno workflows as tools.
package suno

import (
	"time"

	"github.com/entrhq/suno-mcp/pkg/config"
	workflow "github.com/entrhq/suno-mcp/pkg/suno"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

// Version is reported by help and get_server_status.
const Version = "1.0.0"

const (
	categoryBasic  = "basic"
	categorySystem = "system"
)

// ServerInfo describes the running process for get_server_status.
type ServerInfo struct {
	Version   string
	StartedAt time.Time

	// Transports lists the active interfaces, e.g. "mcp-stdio" or "http"
	Transports []string

	Settings config.Settings
}

// Register adds every workflow tool plus help and get_server_status to r.
func Register(r *tools.Registry, client *workflow.Client, info ServerInfo) error {
	if info.Version == "" {
		info.Version = Version
	}
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}

	return r.Register(
		NewOpenBrowserTool(client),
		NewLoginTool(client),
		NewGenerateTrackTool(client),
		NewDownloadTrackTool(client),
		NewGetStatusTool(client),
		NewCloseBrowserTool(client),
		NewHelpTool(r),
		NewServerStatusTool(r, client, info),
	)
}

type basicTool struct{}

func (basicTool) Category() string { return categoryBasic }

type systemTool struct{}

func (systemTool) Category() string { return categorySystem }
