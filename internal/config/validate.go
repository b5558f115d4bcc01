package config

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/txforge/pkg/gas"
)

// Gas strategy names accepted in configuration and on the command line.
const (
	GasStrategyNode      = gas.StrategyNode
	GasStrategyFixed     = gas.StrategyFixed
	GasStrategyLinear    = gas.StrategyLinear
	GasStrategyGeometric = gas.StrategyGeometric
)

// Validate validates the EffectiveConfig values against allowed ranges and
// types, including the cross-field requirements each gas strategy has.
func (c *EffectiveConfig) Validate() error {
	if c.NodeURL.Value == "" {
		return fmt.Errorf("node_url must not be empty")
	}

	switch c.GasStrategy.Value {
	case GasStrategyNode:
	case GasStrategyFixed:
		if c.GasPrice.Value == "" {
			return fmt.Errorf("gas_strategy %q requires gas_price", GasStrategyFixed)
		}
	case GasStrategyLinear:
		if c.GasInitial.Value == "" || c.GasIncrement.Value == "" {
			return fmt.Errorf("gas_strategy %q requires gas_initial and gas_increment", GasStrategyLinear)
		}
	case GasStrategyGeometric:
		if c.GasInitial.Value == "" {
			return fmt.Errorf("gas_strategy %q requires gas_initial", GasStrategyGeometric)
		}
	default:
		return fmt.Errorf("invalid gas_strategy: %s (must be 'node', 'fixed', 'linear', or 'geometric')", c.GasStrategy.Value)
	}

	for key, value := range map[string]string{
		"gas_price":     c.GasPrice.Value,
		"gas_initial":   c.GasInitial.Value,
		"gas_increment": c.GasIncrement.Value,
		"gas_max_price": c.GasMaxPrice.Value,
	} {
		if err := validateGwei(key, value); err != nil {
			return err
		}
	}

	if err := validateCoefficient(c.GasCoefficient.Value); err != nil {
		return err
	}

	for key, value := range map[string]string{
		"gas_interval":  c.GasInterval.Value,
		"deadline":      c.Deadline.Value,
		"replace_every": c.ReplaceEvery.Value,
		"poll_interval": c.PollInterval.Value,
	} {
		if err := validateDuration(key, value); err != nil {
			return err
		}
	}

	if c.GasBuffer.Value < 0 {
		return fmt.Errorf("invalid gas_buffer: %d (must not be negative)", c.GasBuffer.Value)
	}

	if c.MaxBumps.Value < 0 {
		return fmt.Errorf("invalid max_bumps: %d (must not be negative)", c.MaxBumps.Value)
	}

	if err := validateAddress("helper", c.Helper.Value); err != nil {
		return err
	}

	return nil
}

// ValidateConnection checks only the settings read-only commands use: the
// node endpoint and the polling and deadline durations. The gas strategy
// cross-field requirements stay out so an incomplete submission config does
// not block watching or inspection.
func (c *EffectiveConfig) ValidateConnection() error {
	if c.NodeURL.Value == "" {
		return fmt.Errorf("node_url must not be empty")
	}
	for key, value := range map[string]string{
		"deadline":      c.Deadline.Value,
		"poll_interval": c.PollInterval.Value,
	} {
		if err := validateDuration(key, value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFileConfig validates the FileConfig values before merging.
// This is called when loading the config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.GasStrategy != nil {
		switch *cfg.GasStrategy {
		case GasStrategyNode, GasStrategyFixed, GasStrategyLinear, GasStrategyGeometric:
		default:
			return fmt.Errorf("invalid gas_strategy in config file: %s (must be 'node', 'fixed', 'linear', or 'geometric')", *cfg.GasStrategy)
		}
	}

	for key, value := range map[string]*string{
		"gas_price":     cfg.GasPrice,
		"gas_initial":   cfg.GasInitial,
		"gas_increment": cfg.GasIncrement,
		"gas_max_price": cfg.GasMaxPrice,
	} {
		if value != nil {
			if err := validateGwei(key, *value); err != nil {
				return fmt.Errorf("in config file: %w", err)
			}
		}
	}

	if cfg.GasCoefficient != nil {
		if err := validateCoefficient(*cfg.GasCoefficient); err != nil {
			return fmt.Errorf("in config file: %w", err)
		}
	}

	for key, value := range map[string]*string{
		"gas_interval":  cfg.GasInterval,
		"deadline":      cfg.Deadline,
		"replace_every": cfg.ReplaceEvery,
		"poll_interval": cfg.PollInterval,
	} {
		if value != nil {
			if err := validateDuration(key, *value); err != nil {
				return fmt.Errorf("in config file: %w", err)
			}
		}
	}

	if cfg.GasBuffer != nil && *cfg.GasBuffer < 0 {
		return fmt.Errorf("invalid gas_buffer in config file: %d (must not be negative)", *cfg.GasBuffer)
	}

	if cfg.MaxBumps != nil && *cfg.MaxBumps < 0 {
		return fmt.Errorf("invalid max_bumps in config file: %d (must not be negative)", *cfg.MaxBumps)
	}

	if cfg.Helper != nil {
		if err := validateAddress("helper", *cfg.Helper); err != nil {
			return fmt.Errorf("in config file: %w", err)
		}
	}

	return nil
}

func validateGwei(key, value string) error {
	if value == "" {
		return nil
	}
	if _, err := gas.ParseGwei(value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

func validateCoefficient(value string) error {
	if value == "" {
		return nil
	}
	dec, err := sdkmath.LegacyNewDecFromStr(value)
	if err != nil {
		return fmt.Errorf("invalid gas_coefficient: %s", value)
	}
	if !dec.GT(sdkmath.LegacyOneDec()) {
		return fmt.Errorf("invalid gas_coefficient: %s (must be greater than 1)", value)
	}
	return nil
}

func validateDuration(key, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %s (use Go duration syntax like \"30s\")", key, value)
	}
	if d < 0 {
		return fmt.Errorf("invalid %s: %s (must not be negative)", key, value)
	}
	return nil
}

func validateAddress(key, value string) error {
	if value == "" {
		return nil
	}
	if !common.IsHexAddress(value) {
		return fmt.Errorf("invalid %s: %s (must be a 20-byte hex address)", key, value)
	}
	return nil
}
