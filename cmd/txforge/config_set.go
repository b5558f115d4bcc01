package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/config"
	"github.com/altuslabsxyz/txforge/internal/output"
)

// keyAliases maps alternative spellings to the canonical TOML key.
var keyAliases = map[string]string{
	"node-url":        "node_url",
	"key-file":        "key_file",
	"gas-strategy":    "gas_strategy",
	"gas-price":       "gas_price",
	"gas-initial":     "gas_initial",
	"gas-increment":   "gas_increment",
	"gas-coefficient": "gas_coefficient",
	"gas-interval":    "gas_interval",
	"gas-max-price":   "gas_max_price",
	"gas-buffer":      "gas_buffer",
	"replace-every":   "replace_every",
	"max-bumps":       "max_bumps",
	"poll-interval":   "poll_interval",
	"no-color":        "no_color",
}

// normalizeKey converts a key to its canonical form.
func normalizeKey(key string) string {
	if canonical, ok := keyAliases[key]; ok {
		return canonical
	}
	return key
}

// NewConfigSetCmd creates the config set subcommand.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a configuration value",
		Long: `Set a single value in config.toml, validating it first.

Available keys:
  node_url         Node RPC endpoint URL
  key_file         Keystore file holding the signing key
  gas_strategy     "node", "fixed", "linear", or "geometric"
  gas_price        Fixed strategy bid in gwei
  gas_initial      Rising strategy starting bid in gwei
  gas_increment    Linear strategy per-interval raise in gwei
  gas_coefficient  Geometric strategy per-interval multiplier
  gas_interval     Time between strategy raises
  gas_max_price    Bid ceiling in gwei
  gas_buffer       Headroom added to the node's gas estimate
  deadline         Give up waiting after this long
  replace_every    Fee bump interval (empty disables bumping)
  max_bumps        Cap on replacement broadcasts
  poll_interval    Receipt polling interval
  helper           Batch helper contract address
  home, verbose, json, no_color

The keystore passphrase is never stored here; export TXFORGE_PASSPHRASE.

Examples:
  txforge config set node_url http://10.0.0.5:8545
  txforge config set gas_strategy geometric
  txforge config set gas_initial 1.5
  txforge config set replace_every 30s`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runConfigSet,
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := normalizeKey(args[0])

	if key == "passphrase" || key == "txforge_passphrase" {
		return handleCommandError(cmd,
			errors.New("the keystore passphrase is never stored in config.toml; export TXFORGE_PASSPHRASE instead"))
	}

	var value string
	if len(args) < 2 {
		var err error
		value, err = output.StringPrompt(fmt.Sprintf("Enter %s", key))
		if err != nil {
			return handleCommandError(cmd, err)
		}
		if value == "" {
			return handleCommandError(cmd, errors.New("value cannot be empty"))
		}
	} else {
		value = args[1]
	}

	if err := setConfigFileValue(key, value); err != nil {
		return handleCommandError(cmd, err)
	}
	return nil
}

// setConfigFileValue loads config.toml, assigns one key, validates the
// result, and writes the file back in the commented layout.
func setConfigFileValue(key, value string) error {
	writer := config.NewConfigWriter(homeDir)

	var cfg config.FileConfig
	if data, err := os.ReadFile(writer.Path()); err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	switch key {
	case "node_url":
		cfg.NodeURL = &value
	case "key_file":
		cfg.KeyFile = &value
	case "gas_strategy":
		cfg.GasStrategy = &value
	case "gas_price":
		cfg.GasPrice = &value
	case "gas_initial":
		cfg.GasInitial = &value
	case "gas_increment":
		cfg.GasIncrement = &value
	case "gas_coefficient":
		cfg.GasCoefficient = &value
	case "gas_interval":
		cfg.GasInterval = &value
	case "gas_max_price":
		cfg.GasMaxPrice = &value
	case "gas_buffer":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid gas_buffer: %s (must be an integer)", value)
		}
		cfg.GasBuffer = &n
	case "deadline":
		cfg.Deadline = &value
	case "replace_every":
		cfg.ReplaceEvery = &value
	case "max_bumps":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_bumps: %s (must be an integer)", value)
		}
		cfg.MaxBumps = &n
	case "poll_interval":
		cfg.PollInterval = &value
	case "helper":
		cfg.Helper = &value
	case "home":
		cfg.Home = &value
	case "verbose", "json", "no_color":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %s (must be true or false)", key, value)
		}
		switch key {
		case "verbose":
			cfg.Verbose = &b
		case "json":
			cfg.JSON = &b
		case "no_color":
			cfg.NoColor = &b
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := config.ValidateFileConfig(&cfg); err != nil {
		return err
	}

	if err := writer.Write(&cfg); err != nil {
		return err
	}

	output.Success("Set %s = %s", key, value)
	output.Info("Config saved to: %s", writer.Path())
	return nil
}
