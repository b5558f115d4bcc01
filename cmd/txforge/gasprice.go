package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/txforge/internal/output"
	"github.com/altuslabsxyz/txforge/pkg/chain/ethrpc"
	"github.com/altuslabsxyz/txforge/pkg/gas"
)

func NewGasPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gas-price",
		Short: "Print the node's suggested gas price",
		Long: `Gas-price asks the node what it would currently charge and prints the
suggestion. This is the bid the "node" strategy starts from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := effectiveConfig(cmd)
			if err := cfg.ValidateConnection(); err != nil {
				return handleCommandError(cmd, err)
			}

			ctx := cmd.Context()
			client, err := ethrpc.Dial(ctx, cfg.NodeURL.Value)
			if err != nil {
				return handleCommandError(cmd, err)
			}
			defer client.Close()

			price, err := client.SuggestGasPrice(ctx)
			if err != nil {
				return handleCommandError(cmd, err)
			}

			if IsJSONMode() {
				return output.PrintJSON(map[string]interface{}{
					"wei":  price.String(),
					"gwei": gas.FormatGwei(price),
					"node": cfg.NodeURL.Value,
				})
			}

			output.Info("%s gwei (%s wei)", gas.FormatGwei(price), price)
			return nil
		},
	}
}
