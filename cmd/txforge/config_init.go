package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/config"
	"github.com/altuslabsxyz/txforge/internal/output"
)

var (
	configInitOutput   string
	configInitForce    bool
	configInitTemplate bool
)

// NewConfigInitCmd creates the config init subcommand.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or reconfigure config.toml interactively",
		Long: `Create or reconfigure the config.toml file interactively.

By default this walks through the settings with prompts; existing values are
shown as defaults. Use --template to write a fully commented sample file
instead, or --force without a terminal to write plain defaults.

Examples:
  # Interactive configuration (creates/updates ~/.txforge/config.toml)
  txforge config init

  # Generate a commented template
  txforge config init --template

  # Generate a template at a custom location
  txforge config init --template --output /path/to/config.toml`,
		RunE: runConfigInit,
	}

	cmd.Flags().StringVarP(&configInitOutput, "output", "o", "",
		"Output path for the config file (default: <home>/config.toml)")
	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite an existing config without prompting")
	cmd.Flags().BoolVarP(&configInitTemplate, "template", "t", false,
		"Write a commented template instead of running the interactive setup")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if configInitTemplate {
		return runConfigInitTemplate(cmd)
	}
	return runConfigInitInteractive(cmd)
}

// runConfigInitTemplate writes a config.toml where every value is a
// commented-out example, ready to be edited by hand.
func runConfigInitTemplate(cmd *cobra.Command) error {
	if configInitOutput != "" {
		expanded, err := expandHome(configInitOutput)
		if err != nil {
			return handleCommandError(cmd, err)
		}
		if _, statErr := os.Stat(expanded); statErr == nil && !configInitForce {
			return handleCommandError(cmd,
				fmt.Errorf("config file already exists: %s\nUse --force to overwrite", expanded))
		}
		dir := filepath.Dir(expanded)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return handleCommandError(cmd, fmt.Errorf("failed to create directory %s: %w", dir, err))
		}
		template := config.NewConfigWriter(dir).Render(&config.FileConfig{})
		if err := os.WriteFile(expanded, []byte(template), 0644); err != nil {
			return handleCommandError(cmd, fmt.Errorf("failed to write config file: %w", err))
		}
		output.Success("Created config template: %s", expanded)
		output.Info("Edit the file to customize your settings.")
		return nil
	}

	writer := config.NewConfigWriter(homeDir)
	if writer.Exists() && !configInitForce {
		return handleCommandError(cmd,
			fmt.Errorf("config file already exists: %s\nUse --force to overwrite", writer.Path()))
	}
	// An empty FileConfig renders every key as a commented example.
	if err := writer.Write(&config.FileConfig{}); err != nil {
		return handleCommandError(cmd, err)
	}
	output.Success("Created config template: %s", writer.Path())
	output.Info("Edit the file to customize your settings.")
	return nil
}

// runConfigInitInteractive walks through the settings with prompts.
func runConfigInitInteractive(cmd *cobra.Command) error {
	if !config.IsInteractive() {
		if configInitForce {
			setup := config.NewInteractiveSetup(homeDir)
			cfg := setup.RunWithDefaults()
			if err := setup.WriteConfig(cfg); err != nil {
				return handleCommandError(cmd, fmt.Errorf("failed to save configuration: %w", err))
			}
			output.Success("Configuration saved to %s", filepath.Join(homeDir, "config.toml"))
			return nil
		}
		return handleCommandError(cmd,
			errors.New("interactive mode requires a terminal\nUse --template to generate a sample config file, or --force to write defaults"))
	}

	setup := config.NewInteractiveSetup(homeDir)
	if setup.ConfigExists() && !configInitForce {
		output.Info("Existing configuration found. Current values will be shown as defaults.")
	}

	cfg, err := setup.Run()
	if err != nil {
		if errors.Is(err, config.ErrSetupCancelled) {
			output.Info("Configuration cancelled.")
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &exitError{code: exitCancelled}
		}
		return handleCommandError(cmd, err)
	}

	if err := setup.WriteConfig(cfg); err != nil {
		return handleCommandError(cmd, fmt.Errorf("failed to save configuration: %w", err))
	}

	output.Success("Configuration saved to %s", filepath.Join(homeDir, "config.toml"))
	return nil
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
