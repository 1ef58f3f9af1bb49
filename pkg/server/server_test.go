package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

type upperTool struct{}

func (upperTool) Name() string        { return "upper" }
func (upperTool) Description() string { return "Upper-case the text argument." }
func (upperTool) Category() string    { return "basic" }
func (upperTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{
		"text": map[string]interface{}{"type": "string"},
	}, []string{"text"})
}

func (upperTool) Execute(_ context.Context, args tools.Arguments) (string, error) {
	text, err := args.RequiredString("text")
	if err != nil {
		return "", err
	}
	return strings.ToUpper(text), nil
}

func newTestServer(t *testing.T, opts tools.RegistryOptions) *Server {
	t.Helper()

	r := tools.NewRegistry(opts)
	require.NoError(t, r.Register(upperTool{}))

	return New(Options{
		Version:  "test",
		Registry: r,
		Status: func() browser.StatusSnapshot {
			return browser.StatusSnapshot{State: "ready", BrowserOpen: true, CurrentURL: "https://suno.test/create"}
		},
	})
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, tools.RegistryOptions{})

	rec, out := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "test", out["version"])
	assert.Equal(t, float64(1), out["tools_loaded"])
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, tools.RegistryOptions{})

	rec, out := do(t, s, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", out["state"])
	assert.Equal(t, true, out["browser_open"])
	assert.Equal(t, "https://suno.test/create", out["current_url"])
	assert.Equal(t, "http", out["server_mode"])
}

func TestListTools(t *testing.T) {
	s := newTestServer(t, tools.RegistryOptions{})

	rec, out := do(t, s, http.MethodGet, "/api/v1/tools", "")
	require.Equal(t, http.StatusOK, rec.Code)

	list := out["tools"].([]interface{})
	require.Len(t, list, 1)
	tool := list[0].(map[string]interface{})
	assert.Equal(t, "upper", tool["name"])
	assert.Equal(t, "basic", tool["category"])
	assert.Contains(t, tool["input_schema"], "properties")
}

func TestExecuteTool(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
		result   string
	}{
		{name: "success", path: "/api/v1/tools/upper", body: `{"arguments":{"text":"loud"}}`, wantCode: http.StatusOK, result: "LOUD"},
		{name: "unknown tool", path: "/api/v1/tools/nope", body: `{"arguments":{}}`, wantCode: http.StatusNotFound, wantErr: "UNKNOWN_TOOL"},
		{name: "missing argument", path: "/api/v1/tools/upper", body: `{"arguments":{}}`, wantCode: http.StatusBadRequest, wantErr: "INVALID_ARGUMENT"},
		{name: "empty body", path: "/api/v1/tools/upper", wantCode: http.StatusBadRequest, wantErr: "INVALID_ARGUMENT"},
		{name: "malformed body", path: "/api/v1/tools/upper", body: `{"arguments":`, wantCode: http.StatusBadRequest, wantErr: "INVALID_ARGUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tools.RegistryOptions{})

			rec, out := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr == "" {
				assert.Equal(t, true, out["success"])
				assert.Equal(t, tt.result, out["result"])
				return
			}
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.wantErr, out["code"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestExecuteTool_RateLimited(t *testing.T) {
	s := newTestServer(t, tools.RegistryOptions{RequestsPerMinute: 1, Burst: 1})
	body := `{"arguments":{"text":"a"}}`

	rec, _ := do(t, s, http.MethodPost, "/api/v1/tools/upper", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := do(t, s, http.MethodPost, "/api/v1/tools/upper", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", out["code"])
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t, tools.RegistryOptions{})

	rec, _ := do(t, s, http.MethodOptions, "/api/v1/tools/upper", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, tools.RegistryOptions{})
	_, _ = do(t, s, http.MethodPost, "/api/v1/tools/upper", `{"arguments":{"text":"a"}}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "suno_mcp_tool_invocations_total")
}
