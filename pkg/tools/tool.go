// Package tools defines the tool boundary: named operations invoked with an
// argument mapping that return a human-readable result or a typed error.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/entrhq/suno-mcp/pkg/types"
)

// Tool represents one operation callable by name from MCP, HTTP or the CLI.
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "suno_login")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool. Failures should be *types.Error values; anything
	// else is reported as INTERNAL_ERROR.
	Execute(ctx context.Context, args Arguments) (string, error)
}

// Categorized is an optional interface for tools that belong to a named group.
type Categorized interface {
	Category() string
}

// CategoryOf returns the tool's category, or "general".
func CategoryOf(t Tool) string {
	if c, ok := t.(Categorized); ok {
		return c.Category()
	}
	return "general"
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Arguments is the decoded argument mapping of one invocation.
type Arguments map[string]interface{}

// String returns the string at key, or def when absent or null.
func (a Arguments) String(key, def string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid("%s must be a string", key)
	}
	return s, nil
}

// RequiredString returns the non-empty string at key.
func (a Arguments) RequiredString(key string) (string, error) {
	s, err := a.String(key, "")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", invalid("%s is required", key)
	}
	return s, nil
}

// Bool returns the boolean at key, or def when absent. The strings "true"
// and "false" are accepted for callers that only send strings.
func (a Arguments) Bool(key string, def bool) (bool, error) {
	b, err := a.OptionalBool(key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return def, nil
	}
	return *b, nil
}

// OptionalBool returns the boolean at key, or nil when absent.
func (a Arguments) OptionalBool(key string) (*bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return nil, invalid("%s must be a boolean", key)
		}
		return &parsed, nil
	default:
		return nil, invalid("%s must be a boolean", key)
	}
}

func invalid(format string, args ...interface{}) error {
	return types.NewError(types.CodeInvalidArgument, format, args...)
}

// Describe renders a one-line signature such as
// "suno_login(email, password)" from the tool schema.
func Describe(t Tool) string {
	props, _ := t.Schema()["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := t.Schema()["required"].([]string); ok {
		for _, r := range req {
			required[r] = true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sortParams(names, required)

	params := make([]string, len(names))
	for i, name := range names {
		if required[name] {
			params[i] = name
		} else {
			params[i] = name + "?"
		}
	}
	return fmt.Sprintf("%s(%s)", t.Name(), strings.Join(params, ", "))
}

// sortParams orders required parameters first, then alphabetically.
func sortParams(names []string, required map[string]bool) {
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})
}
