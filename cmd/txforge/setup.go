package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"syscall"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/txforge/internal/config"
	"github.com/altuslabsxyz/txforge/pkg/chain/ethrpc"
	"github.com/altuslabsxyz/txforge/pkg/engine"
	"github.com/altuslabsxyz/txforge/pkg/signer"
)

// flagString returns the current value of a string flag, or "" when the
// command does not define it. Lets one resolver serve commands with
// different flag sets.
func flagString(cmd *cobra.Command, name string) string {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// flagInt is flagString for integer flags.
func flagInt(cmd *cobra.Command, name string) int {
	if f := cmd.Flags().Lookup(name); f != nil {
		if v, err := strconv.Atoi(f.Value.String()); err == nil {
			return v
		}
	}
	return 0
}

// effectiveConfig resolves the final configuration for cmd by layering the
// loaded config file, the environment, and any flags the user set over the
// built-in defaults. Flags cmd does not define simply never win.
func effectiveConfig(cmd *cobra.Command) *config.EffectiveConfig {
	cfg := config.NewEffectiveConfig(DefaultHomeDir())
	fileCfg := GetLoadedFileConfig()
	if fileCfg == nil {
		fileCfg = &config.FileConfig{}
	}

	cfg.Home.Value, cfg.Home.Source = config.ApplyStringConfig(cmd, "home", homeDir, fileCfg.Home)
	cfg.Home.Value, cfg.Home.Source = config.ApplyEnvString(cmd, "home", cfg.Home.Value, os.Getenv("TXFORGE_HOME"), cfg.Home.Source)

	cfg.NoColor.Value, cfg.NoColor.Source = config.ApplyBoolConfig(cmd, "no-color", noColor, fileCfg.NoColor)
	cfg.NoColor.Value, cfg.NoColor.Source = config.ApplyEnvBool(cmd, "no-color", cfg.NoColor.Value, os.Getenv("NO_COLOR") != "", cfg.NoColor.Source)

	cfg.Verbose.Value, cfg.Verbose.Source = config.ApplyBoolConfig(cmd, "verbose", verbose, fileCfg.Verbose)
	cfg.JSON.Value, cfg.JSON.Source = config.ApplyBoolConfig(cmd, "json", jsonMode, fileCfg.JSON)

	cfg.NodeURL.Value, cfg.NodeURL.Source = config.ApplyStringConfig(cmd, "node", nodeURL, fileCfg.NodeURL)
	cfg.NodeURL.Value, cfg.NodeURL.Source = config.ApplyEnvString(cmd, "node", cfg.NodeURL.Value, os.Getenv("TXFORGE_NODE"), cfg.NodeURL.Source)

	cfg.KeyFile.Value, cfg.KeyFile.Source = config.ApplyStringConfig(cmd, "key-file", flagString(cmd, "key-file"), fileCfg.KeyFile)

	cfg.GasStrategy.Value, cfg.GasStrategy.Source = config.ApplyStringConfig(cmd, "gas-strategy", flagString(cmd, "gas-strategy"), fileCfg.GasStrategy)
	cfg.GasPrice.Value, cfg.GasPrice.Source = config.ApplyStringConfig(cmd, "gas-price", flagString(cmd, "gas-price"), fileCfg.GasPrice)
	cfg.GasInitial.Value, cfg.GasInitial.Source = config.ApplyStringConfig(cmd, "gas-initial", flagString(cmd, "gas-initial"), fileCfg.GasInitial)
	cfg.GasIncrement.Value, cfg.GasIncrement.Source = config.ApplyStringConfig(cmd, "gas-increment", flagString(cmd, "gas-increment"), fileCfg.GasIncrement)
	cfg.GasCoefficient.Value, cfg.GasCoefficient.Source = config.ApplyStringConfig(cmd, "gas-coefficient", flagString(cmd, "gas-coefficient"), fileCfg.GasCoefficient)
	cfg.GasInterval.Value, cfg.GasInterval.Source = config.ApplyStringConfig(cmd, "gas-interval", flagString(cmd, "gas-interval"), fileCfg.GasInterval)
	cfg.GasMaxPrice.Value, cfg.GasMaxPrice.Source = config.ApplyStringConfig(cmd, "gas-max-price", flagString(cmd, "gas-max-price"), fileCfg.GasMaxPrice)
	cfg.GasBuffer.Value, cfg.GasBuffer.Source = config.ApplyIntConfig(cmd, "gas-buffer", flagInt(cmd, "gas-buffer"), fileCfg.GasBuffer)

	cfg.Deadline.Value, cfg.Deadline.Source = config.ApplyStringConfig(cmd, "deadline", flagString(cmd, "deadline"), fileCfg.Deadline)
	cfg.ReplaceEvery.Value, cfg.ReplaceEvery.Source = config.ApplyStringConfig(cmd, "replace-every", flagString(cmd, "replace-every"), fileCfg.ReplaceEvery)
	cfg.MaxBumps.Value, cfg.MaxBumps.Source = config.ApplyIntConfig(cmd, "max-bumps", flagInt(cmd, "max-bumps"), fileCfg.MaxBumps)
	cfg.PollInterval.Value, cfg.PollInterval.Source = config.ApplyStringConfig(cmd, "poll-interval", flagString(cmd, "poll-interval"), fileCfg.PollInterval)

	cfg.Helper.Value, cfg.Helper.Source = config.ApplyStringConfig(cmd, "helper", flagString(cmd, "helper"), fileCfg.Helper)

	cfg.ConfigFilePath = loadedConfigPath

	return cfg
}

// engineLogger returns the structured logger injected into the engine.
// Verbose mode streams engine events to stderr; otherwise they are dropped
// and only the CLI's own output is shown.
func engineLogger() log.Logger {
	if verbose {
		return log.NewLogger(os.Stderr)
	}
	return log.NewNopLogger()
}

// buildEngine dials the configured node and assembles an engine around it.
// A nil signer yields a watch-only engine. The caller owns both returned
// resources: close the engine first, then the client.
func buildEngine(ctx context.Context, cfg *config.EffectiveConfig, sgr signer.Signer) (*engine.Engine, *ethrpc.Client, error) {
	client, err := ethrpc.Dial(ctx, cfg.NodeURL.Value)
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{engine.WithLogger(engineLogger())}
	if cfg.PollInterval.Value != "" {
		if d, perr := time.ParseDuration(cfg.PollInterval.Value); perr == nil && d > 0 {
			opts = append(opts, engine.WithPollInterval(d))
		}
	}

	eng, err := engine.New(ctx, client, sgr, opts...)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return eng, client, nil
}

// submitOptions translates the merged configuration and the command's gas
// flags into per-submission options. cfg must already be validated.
func submitOptions(cfg *config.EffectiveConfig, gasLimit uint64, force bool) (engine.SubmitOptions, error) {
	strategy, err := cfg.StrategyConfig().Build()
	if err != nil {
		return engine.SubmitOptions{}, err
	}

	opts := engine.SubmitOptions{
		Strategy: strategy,
		GasLimit: gasLimit,
		Force:    force,
		MaxBumps: cfg.MaxBumps.Value,
	}
	// An explicit limit and a buffer are mutually exclusive; the flag wins
	// over a buffer that came from the config file.
	if gasLimit == 0 && cfg.GasBuffer.Value > 0 {
		opts.GasBuffer = uint64(cfg.GasBuffer.Value)
	}
	if cfg.Deadline.Value != "" {
		d, perr := time.ParseDuration(cfg.Deadline.Value)
		if perr != nil {
			return engine.SubmitOptions{}, fmt.Errorf("invalid deadline %q: %w", cfg.Deadline.Value, perr)
		}
		opts.Deadline = d
	}
	if cfg.ReplaceEvery.Value != "" {
		d, perr := time.ParseDuration(cfg.ReplaceEvery.Value)
		if perr != nil {
			return engine.SubmitOptions{}, fmt.Errorf("invalid replace interval %q: %w", cfg.ReplaceEvery.Value, perr)
		}
		opts.ReplaceEvery = d
	}
	return opts, nil
}

// loadSigner resolves the signing key for cmd. An explicit --key-file flag
// wins, then the TXFORGE_KEY environment variable (a raw hex key, for
// scripts and CI), then key_file from the config.
func loadSigner(cmd *cobra.Command, cfg *config.EffectiveConfig) (signer.Signer, error) {
	if raw := os.Getenv("TXFORGE_KEY"); raw != "" && !cmd.Flags().Changed("key-file") {
		sgr, err := signer.FromHexKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TXFORGE_KEY: %w", err)
		}
		return sgr, nil
	}

	keyFile := cfg.KeyFile.Value
	if keyFile == "" {
		return nil, errors.New("no signing key configured\nHint: pass --key-file, set key_file in config.toml, or export TXFORGE_KEY")
	}

	passphrase, err := keystorePassphrase()
	if err != nil {
		return nil, err
	}
	sgr, err := signer.FromKeystore(keyFile, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock keystore %s: %w", keyFile, err)
	}
	return sgr, nil
}

// keystorePassphrase reads TXFORGE_PASSPHRASE, falling back to a no-echo
// terminal prompt. Passphrases never pass through config.toml.
func keystorePassphrase() (string, error) {
	if pass, ok := os.LookupEnv("TXFORGE_PASSPHRASE"); ok {
		return pass, nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", errors.New("TXFORGE_PASSPHRASE is not set and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Keystore passphrase: ")
	pass, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(pass), nil
}
