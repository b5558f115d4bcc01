// Package gas implements bidding strategies for transaction fees. A strategy
// answers one question: what price should a submission bid, given how long it
// has been waiting. The engine consults the strategy once before the first
// submission and again on every replacement cycle; it resubmits only when the
// answer rises above the last submitted bid, so a strategy that holds its
// price simply means "keep waiting".
package gas

import (
	"context"
	"math/big"
	"time"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// Gwei is one gigawei in wei.
var Gwei = big.NewInt(1_000_000_000)

// Strategy yields the fee bid for a submission first sent elapsed ago.
// Implementations must never return a price lower than one they returned for
// a smaller elapsed value; the on-chain mempool rejects fee decreases for a
// nonce it already holds.
type Strategy interface {
	PriceAt(ctx context.Context, node chain.Node, elapsed time.Duration) (*big.Int, error)
}

// NodeSuggested bids whatever the connected node currently suggests, floored
// at 1 gwei. Replacements happen only when the market price rises.
type NodeSuggested struct{}

// PriceAt returns the node's suggested price.
func (NodeSuggested) PriceAt(ctx context.Context, node chain.Node, _ time.Duration) (*big.Int, error) {
	price, err := node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	if price.Cmp(Gwei) < 0 {
		return new(big.Int).Set(Gwei), nil
	}
	return price, nil
}
