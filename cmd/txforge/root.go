package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/config"
	"github.com/altuslabsxyz/txforge/internal/output"
)

// Global configuration variables
var (
	homeDir    string
	nodeURL    string
	jsonMode   bool
	noColor    bool
	verbose    bool
	configPath string // Path to config.toml file (--config flag)

	// loadedFileConfig holds the parsed config.toml values (nil if no config file)
	loadedFileConfig *config.FileConfig
	// loadedConfigPath is the primary config file the values came from
	loadedConfigPath string
)

// DefaultHomeDir returns the default home directory for txforge data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".txforge"
	}
	return filepath.Join(home, ".txforge")
}

// Command group IDs for organized help output.
const (
	GroupMain       = "main"
	GroupMonitoring = "monitoring"
	GroupAdvanced   = "advanced"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txforge",
		Short: "Submit, replace, and confirm transactions on Ethereum-style ledgers",
		Long: `txforge submits transactions and babysits them to a terminal state.

It wraps fee bidding, nonce sequencing, confirmation polling, and same-nonce
fee bumping behind a handful of commands:
  - Send a contract call or transfer and wait for its receipt
  - Bump a stuck transaction's fee on a schedule until it mines
  - Execute several calls atomically through a batch helper contract
  - Attach to an already-broadcast transaction and await its fate

Examples:
  # Send 0.1 ether and wait for the receipt
  txforge send --to 0xabc... --value 0.1ether

  # Call a contract with a rising fee, bumping every 30s
  txforge send --to 0xabc... --data 0xa9059cbb... \
    --gas-strategy geometric --gas-initial 1 --replace-every 30s

  # Execute a batch plan atomically
  txforge batch --file plans/rebalance.yaml

  # Watch a transaction someone else sent
  txforge watch 0x3f1a...`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config file
			loader := config.NewConfigLoader(homeDir, configPath, output.DefaultLogger)
			fileCfg, configFilePath, err := loader.LoadFileConfig()
			if err != nil {
				return err
			}
			loadedFileConfig = fileCfg
			loadedConfigPath = configFilePath

			// Apply config file values to global flags (if not explicitly set)
			// Priority: default < config.toml < env < flag

			if !cmd.Flags().Changed("home") && fileCfg.Home != nil {
				homeDir = *fileCfg.Home
			}
			if !cmd.Flags().Changed("node") && fileCfg.NodeURL != nil {
				nodeURL = *fileCfg.NodeURL
			}
			if !cmd.Flags().Changed("verbose") && fileCfg.Verbose != nil {
				verbose = *fileCfg.Verbose
			}
			if !cmd.Flags().Changed("json") && fileCfg.JSON != nil {
				jsonMode = *fileCfg.JSON
			}
			if !cmd.Flags().Changed("no-color") && fileCfg.NoColor != nil {
				noColor = *fileCfg.NoColor
			}

			// Environment variables override config.toml (but not explicit flags)
			if envHome := os.Getenv("TXFORGE_HOME"); envHome != "" && !cmd.Flags().Changed("home") {
				homeDir = envHome
			}
			if envNode := os.Getenv("TXFORGE_NODE"); envNode != "" && !cmd.Flags().Changed("node") {
				nodeURL = envNode
			}
			if os.Getenv("NO_COLOR") != "" && !cmd.Flags().Changed("no-color") {
				noColor = true
			}

			if configFilePath != "" && verbose {
				output.DefaultLogger.Debug("Using config file: %s", configFilePath)
			}

			// Apply global configuration to logger
			output.DefaultLogger.SetNoColor(noColor)
			output.DefaultLogger.SetVerbose(verbose)
			output.DefaultLogger.SetJSONMode(jsonMode)

			return nil
		},
	}

	// Global flags available on all commands
	cmd.PersistentFlags().StringVarP(&homeDir, "home", "H", DefaultHomeDir(),
		"Base directory for txforge data")
	cmd.PersistentFlags().StringVar(&nodeURL, "node", config.DefaultNodeURL,
		"Node RPC endpoint URL")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false,
		"Output in JSON format")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.toml file")

	// Define command groups for organized help output
	cmd.AddGroup(&cobra.Group{ID: GroupMain, Title: "Main Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupMonitoring, Title: "Monitoring Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupAdvanced, Title: "Advanced Commands:"})

	// Main commands
	sendCmd := NewSendCmd()
	sendCmd.GroupID = GroupMain
	batchCmd := NewBatchCmd()
	batchCmd.GroupID = GroupMain

	// Monitoring commands
	watchCmd := NewWatchCmd()
	watchCmd.GroupID = GroupMonitoring
	nonceCmd := NewNonceCmd()
	nonceCmd.GroupID = GroupMonitoring
	gasPriceCmd := NewGasPriceCmd()
	gasPriceCmd.GroupID = GroupMonitoring

	// Advanced commands
	configCmd := NewConfigCmd()
	configCmd.GroupID = GroupAdvanced

	// Utility commands (no group - shown separately)
	versionCmd := NewVersionCmd()
	completionCmd := NewCompletionCmd()

	cmd.AddCommand(
		sendCmd,
		batchCmd,

		watchCmd,
		nonceCmd,
		gasPriceCmd,

		configCmd,

		versionCmd,
		completionCmd,
	)

	return cmd
}

// GetHomeDir returns the configured home directory.
func GetHomeDir() string {
	return homeDir
}

// IsJSONMode returns true if JSON output is enabled.
func IsJSONMode() bool {
	return jsonMode
}

// GetLoadedFileConfig returns the loaded config.toml values.
// Returns nil if no config file was loaded.
func GetLoadedFileConfig() *config.FileConfig {
	return loadedFileConfig
}
