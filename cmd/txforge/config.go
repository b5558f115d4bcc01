package main

import "github.com/spf13/cobra"

// NewConfigCmd creates the config parent command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage txforge configuration.

Subcommands:
  init    Create config.toml interactively or from a template
  show    Display the effective configuration and where each value came from
  set     Change a single configuration value

Examples:
  # Walk through the initial setup
  txforge config init

  # See what the tool will actually use
  txforge config show

  # Point at a different node
  txforge config set node_url http://10.0.0.5:8545`,
	}

	cmd.AddCommand(
		NewConfigInitCmd(),
		NewConfigShowCmd(),
		NewConfigSetCmd(),
	)

	return cmd
}
