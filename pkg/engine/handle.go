package engine

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// Attempt is one broadcast of the logical transaction. Replacements share
// the nonce and call but carry a higher bid and a different hash.
type Attempt struct {
	Hash     common.Hash
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	SentAt   time.Time
	State    TxState
}

// Handle tracks one logical transaction from submission to a terminal
// state. All methods are safe for concurrent use.
type Handle struct {
	id   uuid.UUID
	eng  *Engine
	inv  chain.Invocation
	opts SubmitOptions

	mu       sync.Mutex
	state    TxState
	attempts []Attempt
	receipt  *chain.Receipt
	err      error
	done     chan struct{}
	cancel   context.CancelFunc

	// Monitor-goroutine state. Not guarded: only the monitor touches it.
	submittedAt time.Time
	lastBid     *big.Int
	bumps       int
	signedTx    *types.Transaction
	watchOnly   bool
}

func newHandle(eng *Engine, inv chain.Invocation, opts SubmitOptions) *Handle {
	return &Handle{
		id:    uuid.New(),
		eng:   eng,
		inv:   inv,
		opts:  opts,
		state: StateBuilding,
		done:  make(chan struct{}),
	}
}

// ID returns the handle's identifier, stable across replacements.
func (h *Handle) ID() uuid.UUID { return h.id }

// State returns the logical transaction's current state.
func (h *Handle) State() TxState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// ActiveHash returns the hash of the newest broadcast attempt, the one a
// block explorer is most likely to show.
func (h *Handle) ActiveHash() common.Hash {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.attempts) == 0 {
		return common.Hash{}
	}
	return h.attempts[len(h.attempts)-1].Hash
}

// Nonce returns the ledger position every attempt occupies.
func (h *Handle) Nonce() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.attempts) == 0 {
		return 0
	}
	return h.attempts[0].Nonce
}

// Attempts returns a copy of every broadcast attempt, oldest first.
func (h *Handle) Attempts() []Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Attempt, len(h.attempts))
	copy(out, h.attempts)
	for i := range out {
		if out[i].GasPrice != nil {
			out[i].GasPrice = new(big.Int).Set(out[i].GasPrice)
		}
	}
	return out
}

// Wait blocks until the transaction reaches a terminal state or ctx ends.
// It is idempotent: every call observes the same receipt and error. A mined
// but reverted transaction returns its receipt alongside the error.
func (h *Handle) Wait(ctx context.Context) (*chain.Receipt, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.receipt, h.err
}

// Cancel abandons monitoring. The transaction itself is not recalled; any
// broadcast attempt may still mine. Wait resolves with ErrAbandoned.
func (h *Handle) Cancel() {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (h *Handle) setState(s TxState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Terminal() {
		return
	}
	h.state = s
}

// recordAttempt registers a freshly broadcast transaction as the active
// attempt.
func (h *Handle) recordAttempt(tx *types.Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attempts = append(h.attempts, Attempt{
		Hash:     tx.Hash(),
		Nonce:    tx.Nonce(),
		GasPrice: new(big.Int).Set(tx.GasPrice()),
		GasLimit: tx.Gas(),
		SentAt:   time.Now(),
		State:    StateSubmitted,
	})
	h.state = StateSubmitted
	h.signedTx = tx
	h.lastBid = new(big.Int).Set(tx.GasPrice())
}

// markActiveSuperseded retires the current attempt ahead of a replacement.
func (h *Handle) markActiveSuperseded() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.attempts); n > 0 {
		h.attempts[n-1].State = StateSuperseded
	}
}

// setAttemptState updates one attempt's state and, when it is the active
// attempt, the logical state too.
func (h *Handle) setAttemptState(hash common.Hash, s TxState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Terminal() {
		return
	}
	for i := range h.attempts {
		if h.attempts[i].Hash != hash {
			continue
		}
		h.attempts[i].State = s
		if i == len(h.attempts)-1 {
			h.state = s
		}
		return
	}
}

// finish moves the handle to a terminal state and releases every waiter.
// Later calls are ignored.
func (h *Handle) finish(s TxState, receipt *chain.Receipt, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state.Terminal() {
		return
	}
	h.state = s
	h.receipt = receipt
	h.err = err
	close(h.done)
}
