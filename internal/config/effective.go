package config

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/altuslabsxyz/txforge/pkg/gas"
)

// Built-in defaults, overridden by config.toml, environment, then flags.
const (
	DefaultNodeURL        = "http://localhost:8545"
	DefaultGasStrategy    = "node"
	DefaultGasCoefficient = "1.125"
	DefaultGasInterval    = "30s"
	DefaultDeadline       = "10m"
	DefaultPollInterval   = "1s"
)

// EffectiveConfig represents the final merged configuration after applying
// the priority chain: default < config.toml < environment < flag.
type EffectiveConfig struct {
	// Global settings
	Home    StringValue
	NoColor BoolValue
	Verbose BoolValue
	JSON    BoolValue

	// Connection settings
	NodeURL StringValue
	KeyFile StringValue

	// Gas strategy settings
	GasStrategy    StringValue
	GasPrice       StringValue
	GasInitial     StringValue
	GasIncrement   StringValue
	GasCoefficient StringValue
	GasInterval    StringValue
	GasMaxPrice    StringValue
	GasBuffer      IntValue

	// Confirmation settings
	Deadline     StringValue
	ReplaceEvery StringValue
	MaxBumps     IntValue
	PollInterval StringValue

	// Batch settings
	Helper StringValue

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
}

// NewEffectiveConfig creates a new EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	return &EffectiveConfig{
		Home:           NewStringValue(defaultHomeDir),
		NoColor:        NewBoolValue(false),
		Verbose:        NewBoolValue(false),
		JSON:           NewBoolValue(false),
		NodeURL:        NewStringValue(DefaultNodeURL),
		KeyFile:        NewStringValue(""),
		GasStrategy:    NewStringValue(DefaultGasStrategy),
		GasPrice:       NewStringValue(""),
		GasInitial:     NewStringValue(""),
		GasIncrement:   NewStringValue(""),
		GasCoefficient: NewStringValue(DefaultGasCoefficient),
		GasInterval:    NewStringValue(DefaultGasInterval),
		GasMaxPrice:    NewStringValue(""),
		GasBuffer:      NewIntValue(0), // 0 defers to the engine's default buffer
		Deadline:       NewStringValue(DefaultDeadline),
		ReplaceEvery:   NewStringValue(""), // bumping off unless asked for
		MaxBumps:       NewIntValue(0),
		PollInterval:   NewStringValue(DefaultPollInterval),
		Helper:         NewStringValue(""),
	}
}

// StrategyConfig returns the gas strategy settings in the form pkg/gas
// builds a Strategy from.
func (c *EffectiveConfig) StrategyConfig() gas.StrategyConfig {
	return gas.StrategyConfig{
		Kind:        c.GasStrategy.Value,
		Price:       c.GasPrice.Value,
		Initial:     c.GasInitial.Value,
		Increment:   c.GasIncrement.Value,
		Coefficient: c.GasCoefficient.Value,
		Interval:    c.GasInterval.Value,
		MaxPrice:    c.GasMaxPrice.Value,
	}
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "node_url\t%s\t%s\n", c.NodeURL.Value, c.NodeURL.Source)
	fmt.Fprintf(tw, "key_file\t%s\t%s\n", orUnset(c.KeyFile.Value), c.KeyFile.Source)
	fmt.Fprintf(tw, "gas_strategy\t%s\t%s\n", c.GasStrategy.Value, c.GasStrategy.Source)
	fmt.Fprintf(tw, "gas_price\t%s\t%s\n", orUnset(c.GasPrice.Value), c.GasPrice.Source)
	fmt.Fprintf(tw, "gas_initial\t%s\t%s\n", orUnset(c.GasInitial.Value), c.GasInitial.Source)
	fmt.Fprintf(tw, "gas_increment\t%s\t%s\n", orUnset(c.GasIncrement.Value), c.GasIncrement.Source)
	fmt.Fprintf(tw, "gas_coefficient\t%s\t%s\n", c.GasCoefficient.Value, c.GasCoefficient.Source)
	fmt.Fprintf(tw, "gas_interval\t%s\t%s\n", c.GasInterval.Value, c.GasInterval.Source)
	fmt.Fprintf(tw, "gas_max_price\t%s\t%s\n", orUnset(c.GasMaxPrice.Value), c.GasMaxPrice.Source)
	fmt.Fprintf(tw, "gas_buffer\t%d\t%s\n", c.GasBuffer.Value, c.GasBuffer.Source)
	fmt.Fprintf(tw, "deadline\t%s\t%s\n", c.Deadline.Value, c.Deadline.Source)
	fmt.Fprintf(tw, "replace_every\t%s\t%s\n", orUnset(c.ReplaceEvery.Value), c.ReplaceEvery.Source)
	fmt.Fprintf(tw, "max_bumps\t%d\t%s\n", c.MaxBumps.Value, c.MaxBumps.Source)
	fmt.Fprintf(tw, "poll_interval\t%s\t%s\n", c.PollInterval.Value, c.PollInterval.Source)
	fmt.Fprintf(tw, "helper\t%s\t%s\n", orUnset(c.Helper.Value), c.Helper.Source)
	tw.Flush()
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
