package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/suno-mcp/pkg/tools"
	"github.com/entrhq/suno-mcp/pkg/types"
)

type echoTool struct{}

func (echoTool) Name() string        { return "echo" }
func (echoTool) Description() string { return "Echo the text argument." }
func (echoTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"text": map[string]interface{}{"type": "string"},
	}, []string{"text"})
}

func (echoTool) Execute(_ context.Context, args tools.Arguments) (string, error) {
	return args.RequiredString("text")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	r := tools.NewRegistry(tools.RegistryOptions{})
	require.NoError(t, r.Register(echoTool{}))

	s, err := NewServer(r, "test", nil)
	require.NoError(t, err)
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "echo"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestHandler(t *testing.T) {
	s := newTestServer(t)
	h := s.handler("echo")

	t.Run("success", func(t *testing.T) {
		res, err := h(context.Background(), callRequest(map[string]interface{}{"text": "hello"}))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "hello", resultText(t, res))
	})

	t.Run("tool error becomes error result", func(t *testing.T) {
		res, err := h(context.Background(), callRequest(nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "[INVALID_ARGUMENT]")
	})
}

func TestToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"echo"`)
	assert.Contains(t, string(raw), `"required":["text"]`)
}

func TestFormatError(t *testing.T) {
	err := types.NewError(types.CodeTrackNotFound, "Track with ID %q not found in library", "abc")
	assert.Equal(t, `[TRACK_NOT_FOUND] Track with ID "abc" not found in library`, FormatError(err))
}
