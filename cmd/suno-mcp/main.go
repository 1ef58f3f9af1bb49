// Package main provides the suno-mcp command: an MCP server, HTTP facade and
// CLI for driving the Suno web app through a shared browser session.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
