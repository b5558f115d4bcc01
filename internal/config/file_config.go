package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
// Gas amounts are strings in gwei so fractional prices survive TOML ("0.5");
// durations are strings in Go syntax ("30s", "10m").
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	// Connection settings
	NodeURL *string `toml:"node_url"`
	KeyFile *string `toml:"key_file"` // keystore file; passphrase comes from TXFORGE_PASSPHRASE

	// Gas strategy settings
	GasStrategy    *string `toml:"gas_strategy"`    // "node", "fixed", "linear", or "geometric"
	GasPrice       *string `toml:"gas_price"`       // fixed strategy price, gwei
	GasInitial     *string `toml:"gas_initial"`     // linear/geometric starting bid, gwei
	GasIncrement   *string `toml:"gas_increment"`   // linear per-interval raise, gwei
	GasCoefficient *string `toml:"gas_coefficient"` // geometric per-interval multiplier
	GasInterval    *string `toml:"gas_interval"`    // strategy step interval
	GasMaxPrice    *string `toml:"gas_max_price"`   // bid ceiling, gwei; empty means uncapped
	GasBuffer      *int    `toml:"gas_buffer"`      // added to the node's gas estimate; 0 means the built-in buffer

	// Confirmation settings
	Deadline     *string `toml:"deadline"`      // give up waiting after this long
	ReplaceEvery *string `toml:"replace_every"` // fee bump interval; empty disables bumping
	MaxBumps     *int    `toml:"max_bumps"`     // replacement cap; 0 means uncapped
	PollInterval *string `toml:"poll_interval"` // receipt poll interval

	// Batch settings
	Helper *string `toml:"helper"` // batch helper contract address
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.NodeURL == nil &&
		f.KeyFile == nil &&
		f.GasStrategy == nil &&
		f.GasPrice == nil &&
		f.GasInitial == nil &&
		f.GasIncrement == nil &&
		f.GasCoefficient == nil &&
		f.GasInterval == nil &&
		f.GasMaxPrice == nil &&
		f.GasBuffer == nil &&
		f.Deadline == nil &&
		f.ReplaceEvery == nil &&
		f.MaxBumps == nil &&
		f.PollInterval == nil &&
		f.Helper == nil
}
