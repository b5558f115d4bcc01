package main

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/output"
)

func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <hash>",
		Short: "Attach to a broadcast transaction and await its terminal state",
		Long: `Watch polls the ledger for a transaction broadcast elsewhere, identified
by hash, until it mines, reverts, or the deadline passes. No key is needed
and no fees are ever bumped; watch only reports.

The exit code reflects the outcome, so scripts can branch on it: 0 mined,
non-zero mapped from the failure class.`,
		Example: `  txforge watch 0x3f1a6890a7d1a88e31efcdbe8f1e147856b7bd25ae1f156713c86f7f651ba9a5

  # Give up after two minutes
  txforge watch --deadline 2m 0x3f1a6890a7d1a88e31efcdbe8f1e147856b7bd25ae1f156713c86f7f651ba9a5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			if err := cfg.ValidateConnection(); err != nil {
				return handleCommandError(cmd, err)
			}

			cleaned := strings.TrimPrefix(strings.TrimSpace(args[0]), "0x")
			raw, err := hex.DecodeString(cleaned)
			if err != nil || len(raw) != 32 {
				return usageError(cmd, "%q is not a transaction hash", args[0])
			}
			txHash := common.BytesToHash(raw)

			var deadline time.Duration
			if cfg.Deadline.Value != "" {
				if deadline, err = time.ParseDuration(cfg.Deadline.Value); err != nil {
					return handleCommandError(cmd, err)
				}
			}

			ctx := cmd.Context()
			eng, client, err := buildEngine(ctx, cfg, nil)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			defer client.Close()
			defer eng.Close()

			if !IsJSONMode() {
				output.Info("Watching %s", txHash.Hex())
			}

			h, err := eng.Watch(ctx, txHash, deadline)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			receipt, err := awaitOutcome(ctx, h)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			printOutcome(h, receipt)
			return nil
		},
	}

	cmd.Flags().String("deadline", "", `Give up watching after this long (default "10m")`)
	cmd.Flags().String("poll-interval", "", `Receipt polling interval (default "1s")`)

	return cmd
}
