package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestConfigLoader_LoadFileConfig(t *testing.T) {
	homeDir := t.TempDir()
	writeConfig(t, homeDir, `node_url = "http://node:8545"
gas_strategy = "fixed"
gas_price = "2.5"
`)

	loader := NewConfigLoader(homeDir, "", nil)
	cfg, primary, err := loader.LoadFileConfig()
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}

	if cfg.NodeURL == nil || *cfg.NodeURL != "http://node:8545" {
		t.Errorf("node_url not loaded, got %v", cfg.NodeURL)
	}
	if cfg.GasPrice == nil || *cfg.GasPrice != "2.5" {
		t.Errorf("gas_price not loaded, got %v", cfg.GasPrice)
	}
	if cfg.KeyFile != nil {
		t.Errorf("key_file should stay unset, got %v", *cfg.KeyFile)
	}
	if primary != filepath.Join(homeDir, "config.toml") {
		t.Errorf("primary file = %s, want home config", primary)
	}
}

func TestConfigLoader_LoadFileConfig_NoFiles(t *testing.T) {
	loader := NewConfigLoader(t.TempDir(), "", nil)

	cfg, primary, err := loader.LoadFileConfig()
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}

	if !cfg.IsEmpty() {
		t.Error("config should be empty when no files exist")
	}
	if primary != "" {
		t.Errorf("primary file should be empty, got %s", primary)
	}
}

func TestConfigLoader_LoadFileConfig_MergePriority(t *testing.T) {
	homeDir := t.TempDir()
	writeConfig(t, homeDir, `node_url = "http://home:8545"
gas_strategy = "geometric"
gas_initial = "1"
`)

	overrideDir := t.TempDir()
	overridePath := filepath.Join(overrideDir, "override.toml")
	if err := os.WriteFile(overridePath, []byte(`node_url = "http://override:8545"
`), 0644); err != nil {
		t.Fatalf("failed to write override file: %v", err)
	}

	loader := NewConfigLoader(homeDir, overridePath, nil)
	cfg, primary, err := loader.LoadFileConfig()
	if err != nil {
		t.Fatalf("LoadFileConfig failed: %v", err)
	}

	// Explicit file wins where it speaks.
	if cfg.NodeURL == nil || *cfg.NodeURL != "http://override:8545" {
		t.Errorf("node_url = %v, want override value", cfg.NodeURL)
	}
	// Home values survive where the explicit file is silent.
	if cfg.GasStrategy == nil || *cfg.GasStrategy != "geometric" {
		t.Errorf("gas_strategy = %v, want geometric from home config", cfg.GasStrategy)
	}
	if cfg.GasInitial == nil || *cfg.GasInitial != "1" {
		t.Errorf("gas_initial = %v, want 1 from home config", cfg.GasInitial)
	}
	if primary != overridePath {
		t.Errorf("primary file = %s, want %s", primary, overridePath)
	}
}

func TestConfigLoader_LoadFileConfig_ExplicitMissing(t *testing.T) {
	loader := NewConfigLoader(t.TempDir(), "/nonexistent/config.toml", nil)

	_, _, err := loader.LoadFileConfig()
	if err == nil {
		t.Fatal("LoadFileConfig should fail for a missing explicit path")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error should say the file was not found, got %v", err)
	}
}

func TestConfigLoader_LoadFileConfig_MalformedTOML(t *testing.T) {
	homeDir := t.TempDir()
	writeConfig(t, homeDir, `node_url = `)

	loader := NewConfigLoader(homeDir, "", nil)
	_, _, err := loader.LoadFileConfig()
	if err == nil {
		t.Error("LoadFileConfig should fail for malformed TOML")
	}
}

func TestConfigLoader_LoadFileConfig_InvalidValues(t *testing.T) {
	homeDir := t.TempDir()
	writeConfig(t, homeDir, `gas_price = "not-a-number"
`)

	loader := NewConfigLoader(homeDir, "", nil)
	_, _, err := loader.LoadFileConfig()
	if err == nil {
		t.Fatal("LoadFileConfig should fail validation for a bad gwei amount")
	}
	if !strings.Contains(err.Error(), "gas_price") {
		t.Errorf("error should name the bad key, got %v", err)
	}
}

func TestMergeFileConfig(t *testing.T) {
	base := "http://home:8545"
	strategy := "linear"
	dst := FileConfig{NodeURL: &base, GasStrategy: &strategy}

	override := "http://other:8545"
	bumps := 3
	src := FileConfig{NodeURL: &override, MaxBumps: &bumps}

	mergeFileConfig(&dst, &src)

	if *dst.NodeURL != "http://other:8545" {
		t.Errorf("NodeURL = %s, want override", *dst.NodeURL)
	}
	if *dst.GasStrategy != "linear" {
		t.Errorf("GasStrategy = %s, want linear preserved", *dst.GasStrategy)
	}
	if dst.MaxBumps == nil || *dst.MaxBumps != 3 {
		t.Errorf("MaxBumps = %v, want 3", dst.MaxBumps)
	}
}
