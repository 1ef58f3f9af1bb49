package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/entrhq/suno-mcp/pkg/mcp"
	"github.com/entrhq/suno-mcp/pkg/server"
	sunotools "github.com/entrhq/suno-mcp/pkg/tools/suno"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr      string
		withStdio bool
		install   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API, optionally alongside MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			transports := []string{"http"}
			if withStdio {
				transports = append(transports, "mcp-stdio")
			}

			a, err := buildApp(cmd, opts, transports, install)
			if err != nil {
				return err
			}
			defer a.shutdown()

			if addr == "" {
				addr = a.settings.Server.Address
			}

			httpSrv := server.New(server.Options{
				Address:  addr,
				Version:  sunotools.Version,
				Registry: a.registry,
				Status:   a.manager.Status,
				Logger:   a.logger.With("http"),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return httpSrv.ListenAndServe(ctx)
			})

			if withStdio {
				mcpSrv, err := mcp.NewServer(a.registry, sunotools.Version, a.logger.With("mcp"))
				if err != nil {
					return err
				}
				g.Go(func() error {
					// End of input stops the whole process.
					defer stop()
					return mcpSrv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
				})
			}

			return ignoreCanceled(g.Wait())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.address)")
	cmd.Flags().BoolVar(&withStdio, "stdio", false, "Also serve MCP over stdin/stdout")
	cmd.Flags().BoolVar(&install, "install", false, "Install the Playwright driver and browsers before the first launch")
	return cmd
}
