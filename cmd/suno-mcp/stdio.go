package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/suno-mcp/pkg/mcp"
	sunotools "github.com/entrhq/suno-mcp/pkg/tools/suno"
)

func newStdioCmd(opts *rootOptions) *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Serve the tools to an MCP client over stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, opts, []string{"mcp-stdio"}, install)
			if err != nil {
				return err
			}
			defer a.shutdown()

			srv, err := mcp.NewServer(a.registry, sunotools.Version, a.logger.With("mcp"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return ignoreCanceled(srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Install the Playwright driver and browsers before the first launch")
	return cmd
}
