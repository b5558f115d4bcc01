// Package engine submits invocations to the ledger and shepherds them to a
// terminal state: estimation with revert refusal, serialized nonce
// assignment, signing, broadcast with transport retries, receipt polling,
// and optional same-nonce fee bumping while a transaction waits.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jpillora/backoff"

	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/nonce"
	"github.com/altuslabsxyz/txforge/pkg/signer"
)

// ErrAbandoned resolves Wait after Cancel stops monitoring a transaction.
var ErrAbandoned = errors.New("monitoring abandoned")

// Engine turns invocations into confirmed transactions. Construct with New;
// one engine serves one sending account. Safe for concurrent use.
type Engine struct {
	node    chain.Node
	signer  signer.Signer
	seq     *nonce.Sequencer
	logger  log.Logger
	metrics *Metrics

	chainID *big.Int
	from    common.Address

	pollInterval  time.Duration
	retryMin      time.Duration
	retryMax      time.Duration
	retryAttempts int

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	quit   chan struct{}
}

// New builds an engine against a node, caching the chain ID for signing.
// A nil signer yields a watch-only engine: Watch works, Submit fails.
func New(ctx context.Context, node chain.Node, sgr signer.Signer, opts ...Option) (*Engine, error) {
	e := &Engine{
		node:          node,
		signer:        sgr,
		logger:        log.NewNopLogger(),
		pollInterval:  DefaultPollInterval,
		retryMin:      defaultRetryMin,
		retryMax:      defaultRetryMax,
		retryAttempts: defaultRetryAttempts,
		quit:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.seq == nil {
		e.seq = nonce.NewSequencer(node)
	}

	chainID, err := node.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	e.chainID = chainID
	if sgr != nil {
		e.from = sgr.Address()
	}
	return e, nil
}

// From returns the sending account, zero for a watch-only engine.
func (e *Engine) From() common.Address { return e.from }

// Sequencer exposes the nonce sequencer for inspection and manual resync.
func (e *Engine) Sequencer() *nonce.Sequencer { return e.seq }

// Node returns the backing node.
func (e *Engine) Node() chain.Node { return e.node }

// Submit estimates, prices, signs, and broadcasts inv, then monitors it in
// the background. It returns once the transaction is accepted by the node;
// use the handle to await confirmation.
//
// Estimation failing with a revert refuses the submission outright unless
// opts.Force is set. A nonce conflict during broadcast resynchronizes the
// sequencer and retries once with a fresh nonce.
func (e *Engine) Submit(ctx context.Context, inv chain.Invocation, opts SubmitOptions) (*Handle, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	if e.signer == nil {
		return nil, chain.WrapError(chain.StageSign, "sign transaction",
			errors.New("engine is watch-only"), "Configure a signing key to submit transactions.")
	}
	if err := opts.sanitize(); err != nil {
		return nil, chain.WrapError(chain.StageEstimate, "validate submit options", err, "")
	}

	h := newHandle(e, inv, opts)

	gasLimit, err := e.gasLimit(ctx, inv, opts)
	if err != nil {
		return nil, err
	}

	price, err := opts.Strategy.PriceAt(ctx, e.node, 0)
	if err != nil {
		return nil, chain.WrapError(chain.StageEstimate, "price initial bid", err, chain.HintFor(err))
	}

	nonceVal, err := e.seq.Next(ctx, e.from)
	if err != nil {
		return nil, chain.WrapError(chain.StageSequence, "acquire nonce", err, chain.HintFor(chain.ErrNodeUnavailable))
	}

	signed, err := e.buildAndSign(inv, nonceVal, price, gasLimit)
	if err != nil {
		return nil, err
	}
	h.setState(StateSigned)

	if err := e.send(ctx, signed); err != nil {
		if errors.Is(err, chain.ErrNonceConflict) {
			signed, err = e.retryWithFreshNonce(ctx, inv, price, gasLimit)
		}
		if err != nil {
			return nil, chain.WrapError(chain.StageSubmit, "broadcast transaction", err, chain.HintFor(err))
		}
	}

	h.recordAttempt(signed)
	e.metrics.submitted()
	e.logger.Info("transaction submitted",
		"id", h.id,
		"hash", signed.Hash(),
		"nonce", signed.Nonce(),
		"gas_price", signed.GasPrice(),
		"gas_limit", signed.Gas(),
	)

	e.startMonitor(h)
	return h, nil
}

// SubmitAndWait submits inv and blocks until it resolves.
func (e *Engine) SubmitAndWait(ctx context.Context, inv chain.Invocation, opts SubmitOptions) (*chain.Receipt, error) {
	h, err := e.Submit(ctx, inv, opts)
	if err != nil {
		return nil, err
	}
	return h.Wait(ctx)
}

// Watch monitors a transaction broadcast elsewhere, identified by hash.
// Already-mined hashes resolve immediately. The handle never bumps fees; it
// only reports.
func (e *Engine) Watch(ctx context.Context, txHash common.Hash, deadline time.Duration) (*Handle, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	h := newHandle(e, chain.Invocation{}, SubmitOptions{Deadline: deadline})
	h.watchOnly = true
	h.mu.Lock()
	h.attempts = append(h.attempts, Attempt{Hash: txHash, SentAt: time.Now(), State: StateSubmitted})
	h.state = StateSubmitted
	h.mu.Unlock()

	if receipt, err := e.node.TransactionReceipt(ctx, txHash); err == nil && receipt != nil {
		e.resolveMined(h, txHash, receipt)
		return h, nil
	}

	e.startMonitor(h)
	return h, nil
}

// Close stops every monitor and waits for them to exit. In-flight handles
// resolve with ErrClosed. Close is idempotent.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.quit)
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return chain.ErrClosed
	}
	return nil
}

// gasLimit resolves the limit per the options: force mode trusts the
// explicit limit without estimating, everything else estimates first so a
// doomed call is refused before spending fees.
func (e *Engine) gasLimit(ctx context.Context, inv chain.Invocation, opts SubmitOptions) (uint64, error) {
	if opts.Force {
		e.logger.Warn("force mode: submitting without estimation",
			"target", inv.Target,
			"gas_limit", opts.GasLimit,
		)
		return opts.GasLimit, nil
	}

	estimate, err := e.node.EstimateGas(ctx, inv.CallMsg(e.from))
	if err != nil {
		return 0, chain.WrapError(chain.StageEstimate, "estimate gas", err, chain.HintFor(err))
	}
	if opts.GasLimit != 0 {
		return opts.GasLimit, nil
	}
	return estimate + opts.GasBuffer, nil
}

func (e *Engine) buildAndSign(inv chain.Invocation, nonceVal uint64, price *big.Int, gasLimit uint64) (*types.Transaction, error) {
	target := inv.Target
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonceVal,
		To:       &target,
		Value:    inv.CallValue(),
		Gas:      gasLimit,
		GasPrice: new(big.Int).Set(price),
		Data:     inv.Calldata,
	})

	signed, err := e.signer.SignTx(tx, e.chainID)
	if err != nil {
		return nil, chain.WrapError(chain.StageSign, "sign transaction", err, "")
	}
	return signed, nil
}

// send broadcasts with exponential backoff on transport failures. A node
// that already knows the transaction counts as success.
func (e *Engine) send(ctx context.Context, tx *types.Transaction) error {
	retry := &backoff.Backoff{
		Min:    e.retryMin,
		Max:    e.retryMax,
		Factor: 2,
		Jitter: true,
	}

	for attempt := 1; ; attempt++ {
		err := e.node.SendTransaction(ctx, tx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, chain.ErrAlreadyKnown):
			e.logger.Debug("node already holds transaction", "hash", tx.Hash())
			return nil
		case errors.Is(err, chain.ErrNodeUnavailable):
			if attempt >= e.retryAttempts {
				return err
			}
			wait := retry.Duration()
			e.logger.Warn("broadcast failed, backing off",
				"hash", tx.Hash(),
				"attempt", attempt,
				"retry_in", wait,
				"error", err,
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			case <-e.quit:
				return chain.ErrClosed
			}
		default:
			return err
		}
	}
}

// retryWithFreshNonce handles a broadcast-time nonce conflict: another
// sender consumed the number, so resynchronize from the ledger and try once
// more. The conflicted number is left behind; the sequencer never reissues
// it.
func (e *Engine) retryWithFreshNonce(ctx context.Context, inv chain.Invocation, price *big.Int, gasLimit uint64) (*types.Transaction, error) {
	e.logger.Warn("nonce conflict, resynchronizing and retrying once", "account", e.from)

	if _, err := e.seq.Resync(ctx, e.from); err != nil {
		return nil, err
	}
	nonceVal, err := e.seq.Next(ctx, e.from)
	if err != nil {
		return nil, err
	}
	signed, err := e.buildAndSign(inv, nonceVal, price, gasLimit)
	if err != nil {
		return nil, err
	}
	if err := e.send(ctx, signed); err != nil {
		return nil, err
	}
	return signed, nil
}

func (e *Engine) startMonitor(h *Handle) {
	mctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()
	h.submittedAt = time.Now()

	e.metrics.inFlightInc()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer e.metrics.inFlightDec()
		defer cancel()
		e.monitor(mctx, h)
	}()
}
