package main

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"
)

// addKeyFlags registers the signing key flag on commands that broadcast.
func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().String("key-file", "", "Keystore file holding the signing key")
}

// addGasFlags registers the fee and confirmation knobs shared by the
// submitting commands. Defaults are empty strings so values from
// config.toml survive unless a flag is actually set.
func addGasFlags(cmd *cobra.Command) {
	cmd.Flags().String("gas-strategy", "", `Gas pricing strategy: "node", "fixed", "linear", or "geometric"`)
	cmd.Flags().String("gas-price", "", "Fixed strategy bid in gwei")
	cmd.Flags().String("gas-initial", "", "Rising strategy starting bid in gwei")
	cmd.Flags().String("gas-increment", "", "Linear strategy per-interval raise in gwei")
	cmd.Flags().String("gas-coefficient", "", "Geometric strategy per-interval multiplier")
	cmd.Flags().String("gas-interval", "", `Time between strategy raises (default "30s")`)
	cmd.Flags().String("gas-max-price", "", "Bid ceiling in gwei (empty = uncapped)")
	cmd.Flags().Int("gas-buffer", 0, "Headroom added to the node's gas estimate")
	cmd.Flags().String("deadline", "", `Give up waiting after this long (default "10m")`)
	cmd.Flags().String("replace-every", "", "Rebid with a same-nonce replacement at this interval (empty = no bumping)")
	cmd.Flags().Int("max-bumps", 0, "Cap on replacement broadcasts (0 = uncapped)")
	cmd.Flags().String("poll-interval", "", `Receipt polling interval (default "1s")`)
}

var amountUnits = []struct {
	suffix string
	scale  *big.Int
}{
	{"ether", new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)},
	{"gwei", big.NewInt(1_000_000_000)},
	{"wei", big.NewInt(1)},
}

// parseAmount converts a value amount with an optional unit suffix into
// wei: "1500000", "2gwei", "0.1ether". Bare numbers are wei. Amounts must
// be non-negative and resolve to whole wei.
func parseAmount(input string) (*big.Int, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	scale := big.NewInt(1)
	for _, unit := range amountUnits {
		if strings.HasSuffix(s, unit.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			scale = unit.scale
			break
		}
	}

	dec, err := sdkmath.LegacyNewDecFromStr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", input, err)
	}
	if dec.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", input)
	}

	wei := dec.MulInt(sdkmath.NewIntFromBigInt(scale))
	if !wei.Equal(wei.TruncateDec()) {
		return nil, fmt.Errorf("invalid amount %q: finer than one wei", input)
	}
	return wei.TruncateInt().BigInt(), nil
}
