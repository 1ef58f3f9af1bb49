package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/suno-mcp/pkg/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change configuration values",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the value at a dot-separated key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(opts.configPath)
			if err != nil {
				return err
			}

			value := store.Get(args[0], nil)
			if value == nil {
				return fmt.Errorf("no configuration value at %q", args[0])
			}

			out, err := yaml.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to encode value: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a value and save the configuration file",
		Long: `Set a value and save the configuration file. The value is parsed as YAML,
so numbers, booleans and lists keep their types.

Example:
  suno-mcp config set timeouts.navigation 45000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewStore(opts.configPath)
			if err != nil {
				return err
			}

			value, err := parseValue(args[1])
			if err != nil {
				return err
			}
			store.Set(args[0], value)

			if err := store.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], store.Path())
			return nil
		},
	})

	return cmd
}

func parseValue(raw string) (interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return raw, nil
	}
	var v interface{}
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	return v, nil
}
