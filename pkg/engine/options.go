package engine

import (
	"errors"
	"time"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/txforge/pkg/gas"
	"github.com/altuslabsxyz/txforge/pkg/nonce"
)

const (
	// DefaultGasBuffer is added to the node's gas estimate when no explicit
	// limit is given. Estimates assume the chain state at estimation time,
	// so the buffer absorbs drift between estimation and inclusion.
	DefaultGasBuffer = 100_000

	// DefaultPollInterval is how often monitors query for receipts.
	DefaultPollInterval = 1 * time.Second

	defaultRetryMin      = 1 * time.Second
	defaultRetryMax      = 15 * time.Second
	defaultRetryAttempts = 5
)

// SubmitOptions shape a single submission. The zero value estimates gas,
// adds DefaultGasBuffer, bids the node's suggested price, and watches the
// transaction without a deadline and without fee bumping.
type SubmitOptions struct {
	// Strategy prices the initial bid and any replacements. Nil means
	// gas.NodeSuggested.
	Strategy gas.Strategy

	// GasLimit sets the gas limit directly. Mutually exclusive with
	// GasBuffer.
	GasLimit uint64

	// GasBuffer is added to the node's estimate to form the gas limit.
	GasBuffer uint64

	// Force submits even though estimation was skipped, for calls that are
	// expected to revert during estimation but succeed on-chain, or that
	// must land regardless. Requires GasLimit since there is no estimate to
	// derive one from.
	Force bool

	// Deadline bounds confirmation. When it passes without a receipt the
	// transaction resolves as timed out. Zero means wait indefinitely.
	Deadline time.Duration

	// ReplaceEvery enables the replacement cycle: every interval the
	// strategy is consulted and, when it raises the bid, a same-nonce
	// replacement is broadcast. Zero disables bumping.
	ReplaceEvery time.Duration

	// MaxBumps caps how many replacements are broadcast. Zero means no cap.
	MaxBumps int
}

func (o *SubmitOptions) sanitize() error {
	if o.GasLimit != 0 && o.GasBuffer != 0 {
		return errors.New("gas limit and gas buffer are mutually exclusive")
	}
	if o.Force && o.GasLimit == 0 {
		return errors.New("force submission requires an explicit gas limit")
	}
	if o.Strategy == nil {
		o.Strategy = gas.NodeSuggested{}
	}
	if o.GasLimit == 0 && o.GasBuffer == 0 {
		o.GasBuffer = DefaultGasBuffer
	}
	return nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches metrics. The default records nothing.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithSequencer substitutes the nonce sequencer, letting several engines
// share one allocation stream for the same accounts.
func WithSequencer(seq *nonce.Sequencer) Option {
	return func(e *Engine) { e.seq = seq }
}

// WithPollInterval sets how often monitors poll for receipts.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithSubmitRetry tunes the backoff applied to transport failures during
// broadcast: the first wait, the wait ceiling, and the total number of send
// attempts.
func WithSubmitRetry(min, max time.Duration, attempts int) Option {
	return func(e *Engine) {
		if min > 0 {
			e.retryMin = min
		}
		if max > 0 {
			e.retryMax = max
		}
		if attempts > 0 {
			e.retryAttempts = attempts
		}
	}
}
