package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a new ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, "config.toml")
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml.
// Creates homeDir if it doesn't exist.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	content := w.generateTOMLWithComments(cfg)

	if err := os.WriteFile(w.Path(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Render returns the config file contents for cfg without writing them.
func (w *ConfigWriter) Render(cfg *FileConfig) string {
	return w.generateTOMLWithComments(cfg)
}

// generateTOMLWithComments creates TOML content with section comments. Unset
// values are emitted as commented-out defaults so the file documents itself.
func (w *ConfigWriter) generateTOMLWithComments(cfg *FileConfig) string {
	var b strings.Builder

	b.WriteString("# txforge configuration file\n")
	b.WriteString("# Priority: default < config.toml < environment < CLI flag\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Location: %s\n", w.Path())
	b.WriteString("# Override with: --config /path/to/config.toml\n")
	b.WriteString("\n")

	b.WriteString("# =============================================================================\n")
	b.WriteString("# Global Settings (apply to all commands)\n")
	b.WriteString("# =============================================================================\n\n")

	writeString(&b, "home", cfg.Home, "~/.txforge")
	writeBool(&b, "verbose", cfg.Verbose)
	writeBool(&b, "json", cfg.JSON)
	writeBool(&b, "no_color", cfg.NoColor)
	b.WriteString("\n")

	b.WriteString("# =============================================================================\n")
	b.WriteString("# Connection Settings\n")
	b.WriteString("# =============================================================================\n\n")

	writeString(&b, "node_url", cfg.NodeURL, DefaultNodeURL)
	writeString(&b, "key_file", cfg.KeyFile, "~/.txforge/key.json")
	b.WriteString("# The keystore passphrase is never stored here; set TXFORGE_PASSPHRASE.\n")
	b.WriteString("\n")

	b.WriteString("# =============================================================================\n")
	b.WriteString("# Gas Strategy Settings\n")
	b.WriteString("# =============================================================================\n\n")

	writeString(&b, "gas_strategy", cfg.GasStrategy, DefaultGasStrategy)
	writeString(&b, "gas_price", cfg.GasPrice, "2")
	writeString(&b, "gas_initial", cfg.GasInitial, "1")
	writeString(&b, "gas_increment", cfg.GasIncrement, "0.5")
	writeString(&b, "gas_coefficient", cfg.GasCoefficient, DefaultGasCoefficient)
	writeString(&b, "gas_interval", cfg.GasInterval, DefaultGasInterval)
	writeString(&b, "gas_max_price", cfg.GasMaxPrice, "100")
	writeInt(&b, "gas_buffer", cfg.GasBuffer, 100000)
	b.WriteString("\n")

	b.WriteString("# =============================================================================\n")
	b.WriteString("# Confirmation Settings\n")
	b.WriteString("# =============================================================================\n\n")

	writeString(&b, "deadline", cfg.Deadline, DefaultDeadline)
	writeString(&b, "replace_every", cfg.ReplaceEvery, "30s")
	writeInt(&b, "max_bumps", cfg.MaxBumps, 0)
	writeString(&b, "poll_interval", cfg.PollInterval, DefaultPollInterval)
	b.WriteString("\n")

	b.WriteString("# =============================================================================\n")
	b.WriteString("# Batch Settings\n")
	b.WriteString("# =============================================================================\n\n")

	writeString(&b, "helper", cfg.Helper, "0x0000000000000000000000000000000000000000")

	return b.String()
}

func writeString(b *strings.Builder, key string, value *string, example string) {
	if value != nil {
		fmt.Fprintf(b, "%s = %q\n", key, *value)
		return
	}
	fmt.Fprintf(b, "# %s = %q\n", key, example)
}

func writeBool(b *strings.Builder, key string, value *bool) {
	if value != nil && *value {
		fmt.Fprintf(b, "%s = true\n", key)
		return
	}
	fmt.Fprintf(b, "# %s = false\n", key)
}

func writeInt(b *strings.Builder, key string, value *int, example int) {
	if value != nil {
		fmt.Fprintf(b, "%s = %d\n", key, *value)
		return
	}
	fmt.Fprintf(b, "# %s = %d\n", key, example)
}
