package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/suno-mcp/pkg/mcp"
	"github.com/entrhq/suno-mcp/pkg/tools"
)

func newCallCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [key=value ...]",
		Short: "Invoke one tool and print its result",
		Long: `Invoke one tool and print its result. The browser session lives only for
the duration of the command, so chain workflows through stdio or serve instead.

Example:
  suno-mcp call suno_open_browser headless=false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolArgs, err := parseToolArgs(args[1:])
			if err != nil {
				return err
			}

			a, err := buildApp(cmd, opts, []string{"cli"}, false)
			if err != nil {
				return err
			}
			defer a.shutdown()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := a.registry.Invoke(ctx, args[0], toolArgs)
			if err != nil {
				return fmt.Errorf("%s", mcp.FormatError(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

// parseToolArgs turns key=value pairs into tool arguments. Values stay
// strings; boolean parameters accept "true" and "false".
func parseToolArgs(pairs []string) (tools.Arguments, error) {
	out := make(tools.Arguments, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}
