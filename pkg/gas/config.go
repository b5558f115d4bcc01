package gas

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
)

// Strategy names accepted by Build. Configuration layers (TOML files, flags,
// batch plans) carry strategies as strings and hand them here.
const (
	StrategyNode      = "node"
	StrategyFixed     = "fixed"
	StrategyLinear    = "linear"
	StrategyGeometric = "geometric"
)

// StrategyConfig is the string form of a strategy as it appears in config
// files and batch plans. Amounts are gwei, Interval is Go duration syntax,
// Coefficient is a decimal greater than 1. Fields that a strategy does not
// use are ignored.
type StrategyConfig struct {
	Kind        string
	Price       string
	Initial     string
	Increment   string
	Coefficient string
	Interval    string
	MaxPrice    string
}

// Build constructs the Strategy the config describes. An empty Kind means
// NodeSuggested.
func (c StrategyConfig) Build() (Strategy, error) {
	switch c.Kind {
	case "", StrategyNode:
		return NodeSuggested{}, nil
	case StrategyFixed:
		if c.Price == "" {
			return nil, fmt.Errorf("fixed gas strategy requires a price")
		}
		price, err := ParseGwei(c.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid gas price %q: %w", c.Price, err)
		}
		return NewFixed(price), nil
	case StrategyLinear:
		if c.Initial == "" || c.Increment == "" {
			return nil, fmt.Errorf("linear gas strategy requires an initial price and an increment")
		}
		initial, err := ParseGwei(c.Initial)
		if err != nil {
			return nil, fmt.Errorf("invalid initial price %q: %w", c.Initial, err)
		}
		increment, err := ParseGwei(c.Increment)
		if err != nil {
			return nil, fmt.Errorf("invalid increment %q: %w", c.Increment, err)
		}
		every, err := c.interval()
		if err != nil {
			return nil, err
		}
		s := NewLinear(initial, increment, every)
		if c.MaxPrice != "" {
			max, err := ParseGwei(c.MaxPrice)
			if err != nil {
				return nil, fmt.Errorf("invalid max price %q: %w", c.MaxPrice, err)
			}
			s = s.WithMaxPrice(max)
		}
		return s, nil
	case StrategyGeometric:
		if c.Initial == "" {
			return nil, fmt.Errorf("geometric gas strategy requires an initial price")
		}
		initial, err := ParseGwei(c.Initial)
		if err != nil {
			return nil, fmt.Errorf("invalid initial price %q: %w", c.Initial, err)
		}
		every, err := c.interval()
		if err != nil {
			return nil, err
		}
		s := NewGeometric(initial, every)
		if c.Coefficient != "" {
			coefficient, err := sdkmath.LegacyNewDecFromStr(c.Coefficient)
			if err != nil {
				return nil, fmt.Errorf("invalid coefficient %q: %w", c.Coefficient, err)
			}
			s = s.WithCoefficient(coefficient)
		}
		if c.MaxPrice != "" {
			max, err := ParseGwei(c.MaxPrice)
			if err != nil {
				return nil, fmt.Errorf("invalid max price %q: %w", c.MaxPrice, err)
			}
			s = s.WithMaxPrice(max)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown gas strategy %q (want node, fixed, linear or geometric)", c.Kind)
	}
}

// DefaultInterval is the raise interval used when a rising strategy's config
// leaves it unset.
const DefaultInterval = 30 * time.Second

func (c StrategyConfig) interval() (time.Duration, error) {
	if c.Interval == "" {
		return DefaultInterval, nil
	}
	every, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", c.Interval, err)
	}
	if every <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", every)
	}
	return every, nil
}
