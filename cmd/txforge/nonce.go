package main

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/output"
	"github.com/altuslabsxyz/txforge/pkg/chain/ethrpc"
)

func NewNonceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nonce [address]",
		Short: "Show an account's transaction counts",
		Long: `Nonce prints the account's confirmed and pending transaction counts. A
gap between them is transactions still waiting in the mempool; equal counts
mean nothing is in flight.

Without an address argument the configured signing key's account is used.`,
		Example: `  txforge nonce 0x7Cf412a4949f1e65b3cE9927dcbc639fcE9965E4`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			if err := cfg.ValidateConnection(); err != nil {
				return handleCommandError(cmd, err)
			}

			var account common.Address
			if len(args) == 1 {
				if !common.IsHexAddress(args[0]) {
					return usageError(cmd, "%q is not a hex address", args[0])
				}
				account = common.HexToAddress(args[0])
			} else {
				sgr, err := loadSigner(cmd, cfg)
				if err != nil {
					return handleCommandError(cmd, err)
				}
				account = sgr.Address()
			}

			ctx := cmd.Context()
			client, err := ethrpc.Dial(ctx, cfg.NodeURL.Value)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			defer client.Close()

			latest, err := client.LatestNonceAt(ctx, account)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			pending, err := client.PendingNonceAt(ctx, account)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			balance, err := client.BalanceAt(ctx, account)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			height, err := client.BlockNumber(ctx)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			if IsJSONMode() {
				return output.PrintJSON(map[string]interface{}{
					"address":    account.Hex(),
					"latest":     latest,
					"pending":    pending,
					"in_mempool": pending - latest,
					"balance":    balance.String(),
					"height":     height,
				})
			}

			output.Bold("Account %s", account.Hex())
			output.DefaultLogger.Println("  Latest nonce:   %d", latest)
			output.DefaultLogger.Println("  Pending nonce:  %d", pending)
			if pending > latest {
				output.DefaultLogger.Println("  In mempool:     %d", pending-latest)
			}
			output.DefaultLogger.Println("  Balance:        %s wei", balance)
			output.DefaultLogger.Println("  Head block:     %d", height)
			return nil
		},
	}

	addKeyFlags(cmd)
	return cmd
}
