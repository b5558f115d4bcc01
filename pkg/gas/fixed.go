package gas

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// Fixed bids a constant price. The price may be raised while a transaction is
// pending via SetPrice; the replacement cycle picks the new value up on its
// next tick and resubmits. Raising by less than the ledger's replacement
// floor (typically 10-12.5%) leaves the resubmission rejected as underpriced,
// so raise generously.
type Fixed struct {
	mu    sync.Mutex
	price *big.Int
}

// NewFixed returns a strategy bidding price wei.
func NewFixed(price *big.Int) *Fixed {
	return &Fixed{price: new(big.Int).Set(price)}
}

// SetPrice raises the bid. Lowering is rejected: a lower fee for a nonce the
// mempool already holds would never be accepted.
func (f *Fixed) SetPrice(price *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if price.Cmp(f.price) < 0 {
		return fmt.Errorf("cannot lower fixed gas price from %s to %s wei", f.price, price)
	}
	f.price = new(big.Int).Set(price)
	return nil
}

// Price returns the current bid.
func (f *Fixed) Price() *big.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.price)
}

// PriceAt returns the current fixed bid regardless of elapsed time.
func (f *Fixed) PriceAt(_ context.Context, _ chain.Node, _ time.Duration) (*big.Int, error) {
	return f.Price(), nil
}
