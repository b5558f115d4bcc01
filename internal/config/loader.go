package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/altuslabsxyz/txforge/internal/output"
)

// ConfigLoader is responsible for loading and merging configuration.
type ConfigLoader struct {
	homeDir    string
	configPath string // Explicit --config path
	logger     output.LoggerInterface
}

// NewConfigLoader creates a new ConfigLoader.
func NewConfigLoader(homeDir, configPath string, logger output.LoggerInterface) *ConfigLoader {
	return &ConfigLoader{
		homeDir:    homeDir,
		configPath: configPath,
		logger:     logger,
	}
}

// LoadFileConfig loads and parses config files, merging them in priority order.
// Priority: explicit path > ./config.toml > ~/.txforge/config.toml
// All config files are merged, with higher priority values overwriting lower ones.
// Returns the merged FileConfig and the primary (highest priority) config file path.
func (l *ConfigLoader) LoadFileConfig() (*FileConfig, string, error) {
	// Collect all config files in order of increasing priority.
	var configFiles []string

	// Home directory (lowest priority)
	homePath := filepath.Join(l.homeDir, "config.toml")
	if _, err := os.Stat(homePath); err == nil {
		configFiles = append(configFiles, homePath)
	}

	// Current directory
	if _, err := os.Stat("./config.toml"); err == nil {
		if absPath, _ := filepath.Abs("./config.toml"); absPath != homePath {
			configFiles = append(configFiles, "./config.toml")
		}
	}

	// Explicit path (highest priority)
	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, "", fmt.Errorf("config file not found: %s", l.configPath)
		}
		absPath, _ := filepath.Abs(l.configPath)
		isDuplicate := false
		for _, cf := range configFiles {
			if abs, _ := filepath.Abs(cf); abs == absPath {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			configFiles = append(configFiles, l.configPath)
		}
	}

	if len(configFiles) == 0 {
		// No config file found; every value stays at its default.
		return &FileConfig{}, "", nil
	}

	// Load and merge all configs (later files override earlier ones).
	var merged FileConfig
	var primaryFile string
	for _, configFile := range configFiles {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}

		var cfg FileConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}

		mergeFileConfig(&merged, &cfg)
		primaryFile = configFile

		l.warnUnknownKeys(data)

		if l.logger != nil {
			l.logger.Debug("Loaded config file: %s", configFile)
		}
	}

	if err := ValidateFileConfig(&merged); err != nil {
		return nil, "", fmt.Errorf("config validation failed: %w", err)
	}

	return &merged, primaryFile, nil
}

// mergeFileConfig merges src into dst. Non-nil values in src overwrite dst.
func mergeFileConfig(dst, src *FileConfig) {
	if src.Home != nil {
		dst.Home = src.Home
	}
	if src.NoColor != nil {
		dst.NoColor = src.NoColor
	}
	if src.Verbose != nil {
		dst.Verbose = src.Verbose
	}
	if src.JSON != nil {
		dst.JSON = src.JSON
	}
	if src.NodeURL != nil {
		dst.NodeURL = src.NodeURL
	}
	if src.KeyFile != nil {
		dst.KeyFile = src.KeyFile
	}
	if src.GasStrategy != nil {
		dst.GasStrategy = src.GasStrategy
	}
	if src.GasPrice != nil {
		dst.GasPrice = src.GasPrice
	}
	if src.GasInitial != nil {
		dst.GasInitial = src.GasInitial
	}
	if src.GasIncrement != nil {
		dst.GasIncrement = src.GasIncrement
	}
	if src.GasCoefficient != nil {
		dst.GasCoefficient = src.GasCoefficient
	}
	if src.GasInterval != nil {
		dst.GasInterval = src.GasInterval
	}
	if src.GasMaxPrice != nil {
		dst.GasMaxPrice = src.GasMaxPrice
	}
	if src.GasBuffer != nil {
		dst.GasBuffer = src.GasBuffer
	}
	if src.Deadline != nil {
		dst.Deadline = src.Deadline
	}
	if src.ReplaceEvery != nil {
		dst.ReplaceEvery = src.ReplaceEvery
	}
	if src.MaxBumps != nil {
		dst.MaxBumps = src.MaxBumps
	}
	if src.PollInterval != nil {
		dst.PollInterval = src.PollInterval
	}
	if src.Helper != nil {
		dst.Helper = src.Helper
	}
}

// warnUnknownKeys checks for unknown keys in the config file and logs warnings.
func (l *ConfigLoader) warnUnknownKeys(data []byte) {
	if l.logger == nil {
		return
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return // Ignore errors here - main parsing will catch them
	}

	knownKeys := map[string]bool{
		"home":            true,
		"no_color":        true,
		"verbose":         true,
		"json":            true,
		"node_url":        true,
		"key_file":        true,
		"gas_strategy":    true,
		"gas_price":       true,
		"gas_initial":     true,
		"gas_increment":   true,
		"gas_coefficient": true,
		"gas_interval":    true,
		"gas_max_price":   true,
		"gas_buffer":      true,
		"deadline":        true,
		"replace_every":   true,
		"max_bumps":       true,
		"poll_interval":   true,
		"helper":          true,
	}

	for key := range raw {
		if !knownKeys[key] {
			l.logger.Warn("Unknown config key: %s", key)
		}
	}
}
