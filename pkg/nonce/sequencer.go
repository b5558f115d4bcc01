// Package nonce serializes nonce assignment per account. The ledger orders an
// account's transactions by a strictly increasing sequence number; handing the
// same number to two in-flight transactions makes one of them invalid, so all
// concurrent submitters for an account must draw from one Sequencer.
package nonce

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// Sequencer hands out unique, strictly increasing nonces per account. On
// first use for an address it seeds from the ledger's pending transaction
// count; afterwards every acquisition is an atomic read-and-increment. An
// acquired nonce that is never submitted (the caller aborted) is permanently
// skipped: the resulting gap is harmless on this ledger model, reuse is not.
type Sequencer struct {
	node chain.Node

	mu   sync.Mutex
	next map[common.Address]uint64
}

// NewSequencer returns a sequencer seeded lazily from the node.
func NewSequencer(node chain.Node) *Sequencer {
	return &Sequencer{
		node: node,
		next: make(map[common.Address]uint64),
	}
}

// Next acquires the account's next nonce. Safe for concurrent use; no two
// acquisitions ever observe the same value. The first call per account
// queries the node once under the lock.
func (s *Sequencer) Next(ctx context.Context, account common.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.next[account]
	if !ok {
		seeded, err := s.node.PendingNonceAt(ctx, account)
		if err != nil {
			return 0, fmt.Errorf("failed to seed nonce for %s: %w", account.Hex(), err)
		}
		n = seeded
	}

	s.next[account] = n + 1
	return n, nil
}

// Peek reports the nonce the next acquisition would return, without
// consuming it. ok is false if the account has never been seeded.
func (s *Sequencer) Peek(account common.Address) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.next[account]
	return n, ok
}

// Resync reseeds the account from the ledger's pending count after a nonce
// conflict. It never lowers the local counter: numbers below it may belong to
// in-flight transactions, and a gap is recoverable where a duplicate is not.
// Returns the counter now in effect.
func (s *Sequencer) Resync(ctx context.Context, account common.Address) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.node.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to resync nonce for %s: %w", account.Hex(), err)
	}

	if current, ok := s.next[account]; ok && current > ledger {
		return current, nil
	}
	s.next[account] = ledger
	return ledger, nil
}
