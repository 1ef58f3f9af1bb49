package suno

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/tools"
)

// Help levels.
const (
	HelpBasic    = "basic"
	HelpDetailed = "detailed"
	HelpExamples = "examples"
)

// HelpTool renders usage help from the tools currently registered.
type HelpTool struct {
	systemTool
	registry *tools.Registry
}

// NewHelpTool creates a help tool describing the tools in registry.
func NewHelpTool(registry *tools.Registry) *HelpTool {
	return &HelpTool{registry: registry}
}

// Name returns the tool name.
func (t *HelpTool) Name() string {
	return "help"
}

// Description returns the tool description.
func (t *HelpTool) Description() string {
	return "Show help for this server at the requested level of detail: basic, detailed or examples."
}

// Schema returns the tool's JSON schema.
func (t *HelpTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"level": map[string]interface{}{
				"type":        "string",
				"enum":        []interface{}{HelpBasic, HelpDetailed, HelpExamples},
				"description": "Help detail level (default: basic)",
			},
		},
		nil,
	)
}

// Execute renders the help text. An unknown level yields a pointer to the
// valid ones rather than an error.
func (t *HelpTool) Execute(_ context.Context, args tools.Arguments) (string, error) {
	level, err := args.String("level", HelpBasic)
	if err != nil {
		return "", err
	}

	switch level {
	case HelpBasic:
		return t.basic(), nil
	case HelpDetailed:
		return t.detailed(), nil
	case HelpExamples:
		return examplesHelp, nil
	default:
		return `Use help() for basic help, help(level="detailed") for every tool and endpoint, or help(level="examples") for usage examples.`, nil
	}
}

func (t *HelpTool) basic() string {
	var b strings.Builder

	b.WriteString("Suno MCP Server Help\n\n")
	fmt.Fprintf(&b, "Available tools: %d\n", t.registry.Len())
	for _, category := range categories(t.registry) {
		fmt.Fprintf(&b, "- %s: %d\n", category.name, len(category.tools))
	}

	b.WriteString("\nGetting started:\n")
	b.WriteString("1. suno_open_browser to start a session\n")
	b.WriteString("2. suno_login to authenticate\n")
	b.WriteString("3. suno_generate_track to create music\n")
	b.WriteString("4. suno_download_track to save a finished track\n")
	b.WriteString("\nFor detailed help: help(level=\"detailed\")")

	return b.String()
}

func (t *HelpTool) detailed() string {
	var b strings.Builder

	b.WriteString("Suno MCP Server - Detailed Help\n")
	for _, category := range categories(t.registry) {
		fmt.Fprintf(&b, "\n%s tools:\n", titleCase(category.name))
		for _, tool := range category.tools {
			fmt.Fprintf(&b, "- %s - %s\n", tools.Describe(tool), firstSentence(tool.Description()))
		}
	}

	b.WriteString("\nHTTP endpoints:\n")
	b.WriteString("- GET /health - Health check\n")
	b.WriteString("- GET /api/v1/status - Browser session status\n")
	b.WriteString("- GET /api/v1/tools - List tools\n")
	b.WriteString("- POST /api/v1/tools/{name} - Execute a tool\n")
	b.WriteString("- GET /metrics - Prometheus metrics")

	return b.String()
}

const examplesHelp = `Suno MCP Server - Usage Examples

Basic music generation:
  suno_open_browser(headless=true)
  suno_login(email="me@example.com", password="...")
  suno_generate_track(prompt="upbeat pop song about summer", style="pop")

With lyrics and a duration:
  suno_generate_track(prompt="ballad", style="folk", lyrics="Verse lyrics here...", duration="short")

Download a finished track with stems:
  suno_download_track(track_id="track_123", download_path="downloads/", include_stems=true)

Over HTTP:
  curl -X POST localhost:3000/api/v1/tools/suno_get_status -d '{"arguments":{}}'

From the command line:
  suno-mcp call suno_generate_track prompt="lofi beats" style=lofi`

type category struct {
	name  string
	tools []tools.Tool
}

// categories groups the registry's tools, keeping first-seen order.
func categories(r *tools.Registry) []category {
	var out []category
	index := map[string]int{}

	for _, t := range r.List() {
		name := tools.CategoryOf(t)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, category{name: name})
		}
		out[i].tools = append(out[i].tools, t)
	}
	return out
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
