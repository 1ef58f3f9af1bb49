package suno

import (
	"context"

	workflow "github.com/entrhq/suno-mcp/pkg/suno"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

// LoginTool signs in to a Suno account.
type LoginTool struct {
	basicTool
	client *workflow.Client
}

// NewLoginTool creates a new login tool.
func NewLoginTool(client *workflow.Client) *LoginTool {
	return &LoginTool{client: client}
}

// Name returns the tool name.
func (t *LoginTool) Name() string {
	return "suno_login"
}

// Description returns the tool description.
func (t *LoginTool) Description() string {
	return "Log in to a Suno account. Returns immediately when already logged in. " +
		"If the account needs a second verification step the result says \"attempted\" instead of \"successful\"."
}

// Schema returns the tool's JSON schema.
func (t *LoginTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"email": map[string]interface{}{
				"type":        "string",
				"description": "Suno account email address",
			},
			"password": map[string]interface{}{
				"type":        "string",
				"description": "Suno account password",
			},
		},
		[]string{"email", "password"},
	)
}

// Execute logs in.
func (t *LoginTool) Execute(ctx context.Context, args tools.Arguments) (string, error) {
	email, err := args.RequiredString("email")
	if err != nil {
		return "", err
	}
	password, err := args.RequiredString("password")
	if err != nil {
		return "", err
	}
	return t.client.Login(ctx, email, password)
}
