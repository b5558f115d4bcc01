package engine

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// monitor drives one handle to a terminal state: poll every attempt for a
// receipt, classify the active attempt as pending or dropped, bump the fee
// on the replacement ticker, and enforce the confirmation deadline.
func (e *Engine) monitor(ctx context.Context, h *Handle) {
	poll := time.NewTicker(e.pollInterval)
	defer poll.Stop()

	var deadline <-chan time.Time
	if h.opts.Deadline > 0 {
		timer := time.NewTimer(h.opts.Deadline)
		defer timer.Stop()
		deadline = timer.C
	}

	var replace <-chan time.Time
	if h.opts.ReplaceEvery > 0 && !h.watchOnly {
		ticker := time.NewTicker(h.opts.ReplaceEvery)
		defer ticker.Stop()
		replace = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			h.finish(StateAbandoned, nil, ErrAbandoned)
			return

		case <-e.quit:
			h.finish(StateAbandoned, nil, chain.ErrClosed)
			return

		case <-deadline:
			// One last look so a receipt that landed during the final
			// interval is not reported as a timeout.
			if e.pollOnce(ctx, h) {
				return
			}
			err := chain.WrapError(chain.StageConfirm, "await confirmation",
				chain.ErrTimedOut, chain.HintFor(chain.ErrTimedOut))
			h.finish(StateTimedOut, nil, err)
			e.metrics.timedOut()
			e.logger.Warn("confirmation deadline exceeded",
				"id", h.id,
				"hash", h.ActiveHash(),
				"waited", h.opts.Deadline,
			)
			return

		case <-poll.C:
			if e.pollOnce(ctx, h) {
				return
			}

		case <-replace.C:
			e.tryReplace(ctx, h)
		}
	}
}

// pollOnce checks every attempt for a receipt, newest first since the
// active attempt is the likeliest to mine. Superseded attempts stay watched:
// a slower part of the network may still mine one, and whichever attempt
// mines settles the transaction. Returns true once the handle is terminal.
func (e *Engine) pollOnce(ctx context.Context, h *Handle) bool {
	attempts := h.Attempts()
	for i := len(attempts) - 1; i >= 0; i-- {
		receipt, err := e.node.TransactionReceipt(ctx, attempts[i].Hash)
		if err != nil {
			e.logger.Debug("receipt query failed", "hash", attempts[i].Hash, "error", err)
			continue
		}
		if receipt == nil {
			continue
		}
		e.resolveMined(h, attempts[i].Hash, receipt)
		return true
	}

	if len(attempts) == 0 {
		return false
	}

	active := attempts[len(attempts)-1]
	known, pending, err := e.node.TransactionByHash(ctx, active.Hash)
	if err != nil {
		return false
	}
	switch {
	case known && pending:
		h.setAttemptState(active.Hash, StatePending)
	case known && !pending:
		// Mined per the node; the receipt surfaces on a later poll.
	default:
		if h.State() != StateDropped {
			e.logger.Warn("transaction no longer known to the node",
				"id", h.id,
				"hash", active.Hash,
			)
		}
		h.setAttemptState(active.Hash, StateDropped)
	}
	return false
}

// resolveMined settles the handle from a receipt, successful or reverted.
func (e *Engine) resolveMined(h *Handle, hash common.Hash, receipt *chain.Receipt) {
	if receipt.Success {
		h.setAttemptState(hash, StateMined)
		h.finish(StateMined, receipt, nil)
		e.metrics.mined()
		e.logger.Info("transaction mined",
			"id", h.id,
			"hash", hash,
			"block", receipt.BlockNumber,
			"gas_used", receipt.GasUsed,
		)
		return
	}

	h.setAttemptState(hash, StateReverted)
	err := chain.WrapError(chain.StageConfirm, "execute transaction",
		chain.ErrMinedReverted, chain.HintFor(chain.ErrMinedReverted))
	h.finish(StateReverted, receipt, err)
	e.metrics.reverted()
	e.logger.Error("transaction mined but reverted",
		"id", h.id,
		"hash", hash,
		"block", receipt.BlockNumber,
	)
}

// tryReplace consults the strategy and, when it raises the bid, broadcasts
// a same-nonce replacement. The strategy holding its bid leaves the active
// attempt alone, except that a dropped transaction is re-gossiped as is.
// Broadcast failures here are not retried; the next tick tries again.
func (e *Engine) tryReplace(ctx context.Context, h *Handle) {
	if h.State().Terminal() {
		return
	}
	if h.opts.MaxBumps > 0 && h.bumps >= h.opts.MaxBumps {
		return
	}

	price, err := h.opts.Strategy.PriceAt(ctx, e.node, time.Since(h.submittedAt))
	if err != nil {
		e.logger.Warn("gas strategy failed", "id", h.id, "error", err)
		return
	}

	if price.Cmp(h.lastBid) <= 0 {
		if h.State() == StateDropped && h.signedTx != nil {
			if err := e.node.SendTransaction(ctx, h.signedTx); err == nil || errors.Is(err, chain.ErrAlreadyKnown) {
				e.logger.Info("re-broadcast dropped transaction",
					"id", h.id,
					"hash", h.signedTx.Hash(),
				)
				h.setAttemptState(h.signedTx.Hash(), StateSubmitted)
			}
		}
		return
	}

	attempts := h.Attempts()
	active := attempts[len(attempts)-1]
	signed, err := e.buildAndSign(h.inv, active.Nonce, price, active.GasLimit)
	if err != nil {
		e.logger.Error("failed to sign replacement", "id", h.id, "error", err)
		return
	}

	err = e.node.SendTransaction(ctx, signed)
	switch {
	case err == nil, errors.Is(err, chain.ErrAlreadyKnown):
		h.markActiveSuperseded()
		h.recordAttempt(signed)
		h.bumps++
		e.metrics.replaced()
		e.logger.Info("replacement broadcast",
			"id", h.id,
			"hash", signed.Hash(),
			"nonce", signed.Nonce(),
			"gas_price", price,
			"bump", h.bumps,
		)
	case errors.Is(err, chain.ErrReplaceUnderpriced):
		// Below the ledger's bump floor. The prior attempt stays active and
		// the strategy bids higher on a later tick.
		e.logger.Debug("replacement under ledger floor",
			"id", h.id,
			"offered", price,
			"active_bid", h.lastBid,
		)
	case errors.Is(err, chain.ErrNonceConflict):
		// The nonce just mined; the next poll finds the receipt.
		e.logger.Debug("replacement raced a confirmation", "id", h.id)
	default:
		e.logger.Warn("replacement broadcast failed", "id", h.id, "error", err)
	}
}
