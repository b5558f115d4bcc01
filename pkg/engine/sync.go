package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// Outcome pairs a handle with its terminal result. Reverted transactions
// carry both a receipt and an error.
type Outcome struct {
	Handle  *Handle
	Receipt *chain.Receipt
	Err     error
}

// WaitAll blocks until every handle resolves or ctx ends, whichever comes
// first, and returns outcomes in argument order. It never gives up early: a
// failure in one transaction does not stop the others from being awaited.
// The returned error is the first failure in argument order, nil when all
// mined successfully.
func WaitAll(ctx context.Context, handles ...*Handle) ([]Outcome, error) {
	outcomes := make([]Outcome, len(handles))

	var g errgroup.Group
	for i, h := range handles {
		g.Go(func() error {
			receipt, err := h.Wait(ctx)
			outcomes[i] = Outcome{Handle: h, Receipt: receipt, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes, FirstError(outcomes)
}

// FirstError returns the first failing outcome's error, nil if none failed.
func FirstError(outcomes []Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}
