// Package mcp serves the tool registry over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/entrhq/suno-mcp/pkg/logging"
	"github.com/entrhq/suno-mcp/pkg/tools"
	"github.com/entrhq/suno-mcp/pkg/types"
)

// ServerName is announced to MCP clients.
const ServerName = "suno-mcp"

// Server exposes every registered tool as an MCP tool.
type Server struct {
	registry *tools.Registry
	mcp      *server.MCPServer
	logger   *logging.Logger
}

// NewServer builds an MCP server from the tools currently in registry.
func NewServer(registry *tools.Registry, version string, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard("mcp")
	}

	s := &Server{
		registry: registry,
		mcp: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		logger: logger,
	}

	for _, t := range registry.List() {
		schema, err := json.Marshal(t.Schema())
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema of %s: %w", t.Name(), err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema), s.handler(t.Name()))
	}

	return s, nil
}

// handler adapts one registry tool. Tool failures are reported as error
// results so the client sees the code; only protocol problems are Go errors.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.registry.Invoke(ctx, name, tools.Arguments(req.GetArguments()))
		if err != nil {
			return mcp.NewToolResultError(FormatError(err)), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// FormatError renders err as "[CODE] message".
func FormatError(err error) string {
	return fmt.Sprintf("[%s] %s", types.CodeOf(err), err.Error())
}

// ServeStdio answers requests read from in on out until ctx is cancelled or
// in is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger.Writer(), "", 0))

	s.logger.Infof("Serving %d tools over MCP stdio", s.registry.Len())
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}
