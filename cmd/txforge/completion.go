package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bash, zsh, or fish.

To load completions:

Bash:
  $ source <(txforge completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ txforge completion bash > /etc/bash_completion.d/txforge
  # macOS:
  $ txforge completion bash > /usr/local/etc/bash_completion.d/txforge

Zsh:
  $ source <(txforge completion zsh)

  # To load completions for each session, execute once:
  $ txforge completion zsh > "${fpath[1]}/_txforge"

Fish:
  $ txforge completion fish | source

  # To load completions for each session, execute once:
  $ txforge completion fish > ~/.config/fish/completions/txforge.fish
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE:      runCompletion,
	}
}

func runCompletion(cmd *cobra.Command, args []string) error {
	switch shell := args[0]; shell {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	default:
		return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
	}
}
