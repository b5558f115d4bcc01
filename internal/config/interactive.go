package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/altuslabsxyz/txforge/pkg/gas"
)

// InteractiveSetup handles interactive configuration prompts.
type InteractiveSetup struct {
	homeDir  string
	writer   *ConfigWriter
	defaults *FileConfig
}

// NewInteractiveSetup creates a new InteractiveSetup for the given home directory.
func NewInteractiveSetup(homeDir string) *InteractiveSetup {
	return &InteractiveSetup{
		homeDir:  homeDir,
		writer:   NewConfigWriter(homeDir),
		defaults: &FileConfig{},
	}
}

// IsInteractive returns true if the terminal supports interactive input.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfigExists returns true if config.toml exists in homeDir.
func (s *InteractiveSetup) ConfigExists() bool {
	return s.writer.Exists()
}

// LoadDefaults loads existing config values to use as defaults in prompts.
func (s *InteractiveSetup) LoadDefaults() *FileConfig {
	if !s.writer.Exists() {
		return s.defaults
	}

	loader := NewConfigLoader(s.homeDir, "", nil)
	cfg, _, err := loader.LoadFileConfig()
	if err != nil {
		return s.defaults
	}

	s.defaults = cfg
	return cfg
}

// Run executes the interactive configuration flow.
// Returns the configured FileConfig or error if cancelled.
func (s *InteractiveSetup) Run() (*FileConfig, error) {
	cfg := s.LoadDefaults()

	fmt.Println()
	fmt.Println("Welcome to txforge configuration!")
	fmt.Println("Press Ctrl+C at any time to cancel.")
	fmt.Println()

	nodeURL, err := s.promptNodeURL(cfg)
	if err != nil {
		return nil, err
	}
	cfg.NodeURL = &nodeURL

	keyFile, err := s.promptKeyFile(cfg)
	if err != nil {
		return nil, err
	}
	if keyFile != "" {
		cfg.KeyFile = &keyFile
	}

	strategy, err := s.promptGasStrategy(cfg)
	if err != nil {
		return nil, err
	}
	cfg.GasStrategy = &strategy

	switch strategy {
	case GasStrategyFixed:
		price, err := s.promptGwei("Fixed gas price (gwei)", cfg.GasPrice, "2")
		if err != nil {
			return nil, err
		}
		cfg.GasPrice = &price
	case GasStrategyLinear:
		initial, err := s.promptGwei("Starting bid (gwei)", cfg.GasInitial, "1")
		if err != nil {
			return nil, err
		}
		cfg.GasInitial = &initial
		increment, err := s.promptGwei("Raise per interval (gwei)", cfg.GasIncrement, "0.5")
		if err != nil {
			return nil, err
		}
		cfg.GasIncrement = &increment
		interval, err := s.promptDuration("Raise interval", cfg.GasInterval, DefaultGasInterval)
		if err != nil {
			return nil, err
		}
		cfg.GasInterval = &interval
	case GasStrategyGeometric:
		initial, err := s.promptGwei("Starting bid (gwei)", cfg.GasInitial, "1")
		if err != nil {
			return nil, err
		}
		cfg.GasInitial = &initial
		interval, err := s.promptDuration("Raise interval", cfg.GasInterval, DefaultGasInterval)
		if err != nil {
			return nil, err
		}
		cfg.GasInterval = &interval
	}

	return cfg, nil
}

// RunWithDefaults returns a FileConfig with default values.
// Used when terminal is non-interactive.
func (s *InteractiveSetup) RunWithDefaults() *FileConfig {
	nodeURL := DefaultNodeURL
	strategy := DefaultGasStrategy

	return &FileConfig{
		NodeURL:     &nodeURL,
		GasStrategy: &strategy,
	}
}

// WriteConfig writes the configuration to homeDir/config.toml.
func (s *InteractiveSetup) WriteConfig(cfg *FileConfig) error {
	return s.writer.Write(cfg)
}

// promptNodeURL prompts the user for the node's RPC endpoint.
func (s *InteractiveSetup) promptNodeURL(cfg *FileConfig) (string, error) {
	defaultValue := DefaultNodeURL
	if cfg.NodeURL != nil && *cfg.NodeURL != "" {
		defaultValue = *cfg.NodeURL
	}

	prompt := promptui.Prompt{
		Label:   "Node RPC URL",
		Default: defaultValue,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ Node: ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	if result == "" {
		result = defaultValue
	}
	return result, nil
}

// promptKeyFile prompts the user for a keystore file path. Empty is fine:
// watch-only usage needs no key.
func (s *InteractiveSetup) promptKeyFile(cfg *FileConfig) (string, error) {
	defaultValue := ""
	if cfg.KeyFile != nil {
		defaultValue = *cfg.KeyFile
	}

	prompt := promptui.Prompt{
		Label:   "Keystore file (empty for watch-only)",
		Default: defaultValue,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ Keystore: ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	return result, nil
}

// promptGasStrategy prompts the user to select a gas pricing strategy.
func (s *InteractiveSetup) promptGasStrategy(cfg *FileConfig) (string, error) {
	options := []string{GasStrategyNode, GasStrategyFixed, GasStrategyLinear, GasStrategyGeometric}

	defaultIdx := 0
	if cfg.GasStrategy != nil {
		for i, o := range options {
			if o == *cfg.GasStrategy {
				defaultIdx = i
				break
			}
		}
	}

	prompt := promptui.Select{
		Label:     "Select gas strategy",
		Items:     options,
		CursorPos: defaultIdx,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✓ Gas strategy: {{ . | green }}",
		},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}

	return result, nil
}

// promptGwei prompts for a gwei amount with validation.
func (s *InteractiveSetup) promptGwei(label string, current *string, fallback string) (string, error) {
	defaultValue := fallback
	if current != nil && *current != "" {
		defaultValue = *current
	}

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := gas.ParseGwei(input)
		return err
	}

	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	if result == "" {
		result = defaultValue
	}
	return result, nil
}

// promptDuration prompts for a Go duration with validation.
func (s *InteractiveSetup) promptDuration(label string, current *string, fallback string) (string, error) {
	defaultValue := fallback
	if current != nil && *current != "" {
		defaultValue = *current
	}

	validate := func(input string) error {
		if input == "" {
			return nil
		}
		_, err := time.ParseDuration(input)
		return err
	}

	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ ",
		},
	}

	result, err := prompt.Run()
	if err != nil {
		return "", handlePromptError(err)
	}
	if result == "" {
		result = defaultValue
	}
	return result, nil
}

// ErrSetupCancelled reports that the operator backed out of a prompt with
// Ctrl-C or Ctrl-D. Callers treat it as a clean abort, not a failure.
var ErrSetupCancelled = errors.New("configuration cancelled")

// handlePromptError converts promptui errors to user-friendly messages.
func handlePromptError(err error) error {
	if err == promptui.ErrInterrupt || err == promptui.ErrEOF {
		return ErrSetupCancelled
	}
	return err
}
