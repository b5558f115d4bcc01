package gas

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// ParseGwei converts a decimal gwei amount ("2", "0.5", "12.75") into wei.
// Amounts must be non-negative and resolve to whole wei, so at most nine
// decimal places.
func ParseGwei(amount string) (*big.Int, error) {
	dec, err := sdkmath.LegacyNewDecFromStr(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid gwei amount %q: %w", amount, err)
	}
	if dec.IsNegative() {
		return nil, fmt.Errorf("invalid gwei amount %q: must not be negative", amount)
	}

	wei := dec.MulInt64(1_000_000_000)
	if !wei.Equal(wei.TruncateDec()) {
		return nil, fmt.Errorf("invalid gwei amount %q: finer than one wei", amount)
	}
	return wei.TruncateInt().BigInt(), nil
}

// FormatGwei renders a wei amount as decimal gwei without trailing zeros.
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	dec := sdkmath.LegacyNewDecFromBigInt(new(big.Int).Set(wei)).QuoInt64(1_000_000_000)
	s := dec.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
