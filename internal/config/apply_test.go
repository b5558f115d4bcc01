package config

import (
	"testing"

	"github.com/spf13/cobra"
)

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().String("node", DefaultNodeURL, "")
	cmd.Flags().Int("max-bumps", 0, "")
	cmd.Flags().Bool("verbose", false, "")
	return cmd
}

func TestApplyStringConfig(t *testing.T) {
	fileValue := "http://file:8545"

	// Nothing set: default stays.
	cmd := newFlagCommand()
	got, source := ApplyStringConfig(cmd, "node", DefaultNodeURL, nil)
	if got != DefaultNodeURL || source != SourceDefault {
		t.Errorf("got (%s, %s), want default", got, source)
	}

	// Config file set: file wins over default.
	got, source = ApplyStringConfig(cmd, "node", DefaultNodeURL, &fileValue)
	if got != fileValue || source != SourceConfigFile {
		t.Errorf("got (%s, %s), want config file value", got, source)
	}

	// Flag set: flag wins over file.
	cmd = newFlagCommand()
	if err := cmd.Flags().Set("node", "http://flag:8545"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	got, source = ApplyStringConfig(cmd, "node", "http://flag:8545", &fileValue)
	if got != "http://flag:8545" || source != SourceFlag {
		t.Errorf("got (%s, %s), want flag value", got, source)
	}
}

func TestApplyIntConfig(t *testing.T) {
	fileValue := 7

	cmd := newFlagCommand()
	got, source := ApplyIntConfig(cmd, "max-bumps", 0, &fileValue)
	if got != 7 || source != SourceConfigFile {
		t.Errorf("got (%d, %s), want file value 7", got, source)
	}

	if err := cmd.Flags().Set("max-bumps", "3"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	got, source = ApplyIntConfig(cmd, "max-bumps", 3, &fileValue)
	if got != 3 || source != SourceFlag {
		t.Errorf("got (%d, %s), want flag value 3", got, source)
	}
}

func TestApplyBoolConfig_UnchangedFlagDoesNotClobberFile(t *testing.T) {
	fileValue := true

	cmd := newFlagCommand()
	got, source := ApplyBoolConfig(cmd, "verbose", false, &fileValue)
	if !got || source != SourceConfigFile {
		t.Errorf("got (%t, %s), want file true", got, source)
	}
}

func TestApplyEnvString(t *testing.T) {
	// Environment beats the file-resolved value.
	cmd := newFlagCommand()
	got, source := ApplyEnvString(cmd, "node", "http://file:8545", "http://env:8545", SourceConfigFile)
	if got != "http://env:8545" || source != SourceEnvironment {
		t.Errorf("got (%s, %s), want environment value", got, source)
	}

	// Empty variable changes nothing.
	got, source = ApplyEnvString(cmd, "node", "http://file:8545", "", SourceConfigFile)
	if got != "http://file:8545" || source != SourceConfigFile {
		t.Errorf("got (%s, %s), want file value untouched", got, source)
	}

	// A set flag still wins over the environment.
	if err := cmd.Flags().Set("node", "http://flag:8545"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	got, source = ApplyEnvString(cmd, "node", "http://flag:8545", "http://env:8545", SourceFlag)
	if got != "http://flag:8545" || source != SourceFlag {
		t.Errorf("got (%s, %s), want flag value", got, source)
	}
}

func TestApplyEnvBool(t *testing.T) {
	cmd := newFlagCommand()

	got, source := ApplyEnvBool(cmd, "verbose", false, true, SourceDefault)
	if !got || source != SourceEnvironment {
		t.Errorf("got (%t, %s), want environment true", got, source)
	}

	got, source = ApplyEnvBool(cmd, "verbose", false, false, SourceDefault)
	if got || source != SourceDefault {
		t.Errorf("got (%t, %s), want default false", got, source)
	}
}
