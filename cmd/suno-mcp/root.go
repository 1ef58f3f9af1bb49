package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/suno-mcp/pkg/browser"
	"github.com/entrhq/suno-mcp/pkg/config"
	"github.com/entrhq/suno-mcp/pkg/logging"
	"github.com/entrhq/suno-mcp/pkg/suno"
	"github.com/entrhq/suno-mcp/pkg/tools"
	sunotools "github.com/entrhq/suno-mcp/pkg/tools/suno"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	headless   bool
	logDir     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "suno-mcp",
		Short: "Drive Suno music generation through a browser session",
		Long: `suno-mcp automates the Suno web app with a single shared browser session.
Its operations (open, login, generate, download, status, close) are exposed as
MCP tools over stdio, as an HTTP API, and as one-shot CLI calls.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file (YAML)")
	cmd.PersistentFlags().BoolVar(&opts.headless, "headless", true, "Launch the browser without a window")
	cmd.PersistentFlags().StringVar(&opts.logDir, "log-dir", "", "Directory for session log files (default ~/.suno-mcp/logs)")

	cmd.AddCommand(
		newStdioCmd(opts),
		newServeCmd(opts),
		newCallCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "suno-mcp.yaml"
	}
	return filepath.Join(home, ".suno-mcp", "config.yaml")
}

// app is the wired object graph used by the serving subcommands.
type app struct {
	settings config.Settings
	logger   *logging.Logger
	manager  *browser.Manager
	client   *suno.Client
	registry *tools.Registry
}

// buildApp loads configuration, applies flag overrides and wires the
// browser manager, workflow client and tool registry.
func buildApp(cmd *cobra.Command, opts *rootOptions, transports []string, install bool) (*app, error) {
	store, err := config.NewStore(opts.configPath)
	if err != nil {
		return nil, err
	}
	settings := config.Load(store)

	if cmd.Flags().Changed("headless") {
		settings.Browser.Headless = opts.headless
	}
	if install {
		settings.Browser.Install = true
	}
	if opts.logDir != "" {
		settings.LogDir = opts.logDir
	}

	if settings.LogDir != "" {
		logging.SetDirectory(settings.LogDir)
	}
	logger, err := logging.NewLogger("suno-mcp")
	if err != nil {
		// Fallback logger writes to stderr; keep going.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	downloads := browser.NewDownloadCoordinator(settings.Paths.Downloads, logger.With("downloads"))
	manager := browser.NewManager(browser.Options{
		Browser:      settings.Browser,
		PageTimeout:  settings.Timeouts.Navigation,
		StudioMarker: settings.Suno.StudioMarker,
		Downloads:    downloads,
		Logger:       logger.With("browser"),
	})

	client, err := suno.NewClient(manager, settings, logger.With("suno"))
	if err != nil {
		return nil, fmt.Errorf("failed to create suno client: %w", err)
	}

	registry := tools.NewRegistry(tools.RegistryOptions{
		RequestsPerMinute: settings.Security.RequestsPerMinute,
		Burst:             settings.Security.BurstLimit,
		Logger:            logger.With("tools"),
	})
	if err := sunotools.Register(registry, client, sunotools.ServerInfo{
		Version:    sunotools.Version,
		StartedAt:  time.Now(),
		Transports: transports,
		Settings:   settings,
	}); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	logger.Infof("Configuration loaded from %s (headless=%t, downloads=%s)",
		opts.configPath, settings.Browser.Headless, settings.Paths.Downloads)

	return &app{
		settings: settings,
		logger:   logger,
		manager:  manager,
		client:   client,
		registry: registry,
	}, nil
}

// shutdown closes the browser session, waits for pending downloads and
// flushes the log file. Close detaches the page first, so no passive save
// starts while Wait is blocking.
func (a *app) shutdown() {
	if err := a.manager.Close(); err != nil {
		a.logger.Errorf("Failed to close browser: %v", err)
	}
	a.manager.Downloads().Wait()
	a.logger.Infof("Shutdown complete")
	_ = a.logger.Close()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "suno-mcp v%s\n", sunotools.Version)
		},
	}
}

// ignoreCanceled treats a serve loop stopped by its context as a clean exit.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
