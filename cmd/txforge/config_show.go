package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/config"
	"github.com/altuslabsxyz/txforge/internal/output"
)

// NewConfigShowCmd creates the config show subcommand.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Show displays every value txforge would actually use, after merging
defaults, config.toml, environment variables, and flags, together with the
source each value came from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)

			if IsJSONMode() {
				return output.PrintJSON(configAsJSON(cfg))
			}

			if cfg.ConfigFilePath != "" {
				output.Info("Config file: %s", cfg.ConfigFilePath)
			} else {
				output.Info("Config file: (none found)")
			}
			output.Info("")
			cfg.ToTable(os.Stdout)
			return nil
		},
	}
}

func configAsJSON(cfg *config.EffectiveConfig) map[string]interface{} {
	entry := func(value interface{}, source config.ConfigSource) map[string]interface{} {
		return map[string]interface{}{"value": value, "source": source.String()}
	}
	return map[string]interface{}{
		"config_file":     cfg.ConfigFilePath,
		"home":            entry(cfg.Home.Value, cfg.Home.Source),
		"no_color":        entry(cfg.NoColor.Value, cfg.NoColor.Source),
		"verbose":         entry(cfg.Verbose.Value, cfg.Verbose.Source),
		"json":            entry(cfg.JSON.Value, cfg.JSON.Source),
		"node_url":        entry(cfg.NodeURL.Value, cfg.NodeURL.Source),
		"key_file":        entry(cfg.KeyFile.Value, cfg.KeyFile.Source),
		"gas_strategy":    entry(cfg.GasStrategy.Value, cfg.GasStrategy.Source),
		"gas_price":       entry(cfg.GasPrice.Value, cfg.GasPrice.Source),
		"gas_initial":     entry(cfg.GasInitial.Value, cfg.GasInitial.Source),
		"gas_increment":   entry(cfg.GasIncrement.Value, cfg.GasIncrement.Source),
		"gas_coefficient": entry(cfg.GasCoefficient.Value, cfg.GasCoefficient.Source),
		"gas_interval":    entry(cfg.GasInterval.Value, cfg.GasInterval.Source),
		"gas_max_price":   entry(cfg.GasMaxPrice.Value, cfg.GasMaxPrice.Source),
		"gas_buffer":      entry(cfg.GasBuffer.Value, cfg.GasBuffer.Source),
		"deadline":        entry(cfg.Deadline.Value, cfg.Deadline.Source),
		"replace_every":   entry(cfg.ReplaceEvery.Value, cfg.ReplaceEvery.Source),
		"max_bumps":       entry(cfg.MaxBumps.Value, cfg.MaxBumps.Source),
		"poll_interval":   entry(cfg.PollInterval.Value, cfg.PollInterval.Source),
		"helper":          entry(cfg.Helper.Value, cfg.Helper.Source),
	}
}
