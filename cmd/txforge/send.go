package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/txforge/internal/config"
	"github.com/altuslabsxyz/txforge/internal/output"
	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/gas"
)

func NewSendCmd() *cobra.Command {
	var (
		to       string
		data     string
		value    string
		transfer string
		gasLimit uint64
		force    bool
		async    bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a transaction and wait for its receipt",
		Long: `Send builds a transaction from the flags, prices it with the configured
gas strategy, broadcasts it, and waits until it mines, reverts, or the
deadline passes.

With --replace-every the bid is re-priced on that interval and a same-nonce
replacement is broadcast whenever the strategy raises it, so a stuck
transaction climbs the fee ladder instead of waiting forever. Estimation
runs first and a call that would revert is refused; --force with an explicit
--gas-limit submits it anyway.`,
		Example: `  # Plain transfer, wait for the receipt
  txforge send --transfer 0.5ether --to 0x7Cf412a4949f1e65b3cE9927dcbc639fcE9965E4

  # Contract call, bump the fee every 30s until it mines
  txforge send --to 0x7Cf412a4949f1e65b3cE9927dcbc639fcE9965E4 --data 0xa9059cbb... \
    --gas-strategy linear --gas-initial 1 --gas-increment 0.5 --replace-every 30s

  # Fire and forget: print the hash, do not wait
  txforge send --to 0x7Cf412a4949f1e65b3cE9927dcbc639fcE9965E4 --data 0x01 --async`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			if err := cfg.Validate(); err != nil {
				return handleCommandError(cmd, err)
			}

			if !common.IsHexAddress(to) {
				return usageError(cmd, "--to %q is not a hex address", to)
			}
			target := common.HexToAddress(to)

			if transfer != "" && (data != "" || value != "") {
				return usageError(cmd, "--transfer already carries the value; it cannot be combined with --data or --value")
			}
			if force && gasLimit == 0 {
				return usageError(cmd, "--force skips estimation, so it requires an explicit --gas-limit")
			}

			var inv chain.Invocation
			if transfer != "" {
				amount, err := parseAmount(transfer)
				if err != nil {
					return usageError(cmd, "%v", err)
				}
				inv = chain.Transfer(target, amount)
			} else {
				calldata, err := parseCalldata(data)
				if err != nil {
					return usageError(cmd, "%v", err)
				}
				inv = chain.NewInvocation(target, calldata)
				if value != "" {
					amount, err := parseAmount(value)
					if err != nil {
						return usageError(cmd, "%v", err)
					}
					inv.Value = amount
				}
			}

			opts, err := submitOptions(cfg, gasLimit, force)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			if !yes && !IsJSONMode() && term.IsTerminal(int(os.Stdin.Fd())) {
				printSendSummary(cfg, inv)
				confirmed, perr := output.ConfirmPrompt("Submit this transaction?")
				if perr != nil {
					return handleCommandError(cmd, perr)
				}
				if !confirmed {
					output.Info("Submission cancelled.")
					return nil
				}
			}

			sgr, err := loadSigner(cmd, cfg)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			ctx := cmd.Context()
			eng, client, err := buildEngine(ctx, cfg, sgr)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			defer client.Close()
			defer eng.Close()

			h, err := eng.Submit(ctx, inv, opts)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			if async {
				if IsJSONMode() {
					return output.PrintJSON(map[string]interface{}{
						"id":    h.ID().String(),
						"hash":  h.ActiveHash().Hex(),
						"nonce": h.Nonce(),
						"state": h.State().String(),
					})
				}
				output.Info("Submitted, not waiting for confirmation.")
				output.Cyan("%s", h.ActiveHash().Hex())
				output.Info("Follow it with: txforge watch %s", h.ActiveHash().Hex())
				return nil
			}

			if !IsJSONMode() {
				output.Info("Submitted %s (nonce %d)", h.ActiveHash().Hex(), h.Nonce())
			}

			receipt, err := awaitOutcome(ctx, h)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			printOutcome(h, receipt)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient contract or account address")
	cmd.Flags().StringVar(&data, "data", "", "Hex calldata, with or without the 0x prefix")
	cmd.Flags().StringVar(&value, "value", "", `Wei to attach to the call ("0.1ether", "2gwei", "1500")`)
	cmd.Flags().StringVar(&transfer, "transfer", "", "Plain value transfer of this amount, no calldata")
	cmd.Flags().Uint64Var(&gasLimit, "gas-limit", 0, "Explicit gas limit, skipping the estimate buffer")
	cmd.Flags().BoolVar(&force, "force", false, "Submit even when estimation says the call would revert (requires --gas-limit)")
	cmd.Flags().BoolVar(&async, "async", false, "Print the transaction hash and exit without waiting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	addKeyFlags(cmd)
	addGasFlags(cmd)
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// parseCalldata decodes hex calldata, tolerating a 0x prefix. Empty input
// means an empty payload.
func parseCalldata(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid calldata: %w", err)
	}
	return b, nil
}

func printSendSummary(cfg *config.EffectiveConfig, inv chain.Invocation) {
	output.Bold("Transaction")
	output.DefaultLogger.Println("  To:        %s", inv.Target.Hex())
	if len(inv.Calldata) > 0 {
		output.DefaultLogger.Println("  Calldata:  %d bytes (0x%x...)", len(inv.Calldata), calldataPreview(inv.Calldata))
	}
	if inv.CallValue().Sign() > 0 {
		output.DefaultLogger.Println("  Value:     %s wei (%s gwei)", inv.CallValue(), gas.FormatGwei(inv.CallValue()))
	}
	output.DefaultLogger.Println("  Node:      %s", cfg.NodeURL.Value)
	output.DefaultLogger.Println("  Strategy:  %s", cfg.GasStrategy.Value)
	if cfg.ReplaceEvery.Value != "" {
		output.DefaultLogger.Println("  Bumping:   every %s", cfg.ReplaceEvery.Value)
	}
	output.DefaultLogger.Println("")
}

func calldataPreview(data []byte) []byte {
	if len(data) > 4 {
		return data[:4]
	}
	return data
}
