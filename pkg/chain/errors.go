package chain

import (
	"errors"
	"fmt"
)

// Submission and confirmation errors. Node adapters wrap their backend's
// failures with these so the engine and callers classify with errors.Is.
var (
	// ErrEstimationRevert means cost estimation indicates the call would fail
	// on-chain. The engine refuses to submit unless force mode is set.
	ErrEstimationRevert = errors.New("execution would revert")

	// ErrNodeUnavailable covers transient transport and node failures.
	// Retried with backoff; fatal once the retry budget is exhausted.
	ErrNodeUnavailable = errors.New("node unavailable")

	// ErrNonceConflict means the ledger rejected the attempt's nonce as
	// stale or already consumed. The engine resynchronizes the sequencer
	// and retries once with a fresh nonce.
	ErrNonceConflict = errors.New("nonce already used")

	// ErrReplaceUnderpriced means a same-nonce replacement bid below the
	// ledger's bump floor. The prior attempt stays active.
	ErrReplaceUnderpriced = errors.New("replacement underpriced")

	// ErrAlreadyKnown means the node already holds this exact transaction.
	// Treated as a successful, idempotent submission.
	ErrAlreadyKnown = errors.New("transaction already known")

	// ErrSubmissionRejected covers every other ledger-level validation
	// failure (insufficient funds, intrinsic gas, oversized payload).
	ErrSubmissionRejected = errors.New("transaction rejected")

	// ErrTimedOut means no inclusion was observed within the confirmation
	// deadline. The transaction is unconfirmed, not definitely failed.
	ErrTimedOut = errors.New("confirmation deadline exceeded")

	// ErrMinedReverted means the transaction was included but execution
	// failed on-chain. Fees were spent. Distinct from a submission failure.
	ErrMinedReverted = errors.New("transaction mined but reverted")

	// ErrClosed is returned for operations on a closed engine.
	ErrClosed = errors.New("engine closed")
)

// Stage identifies where in the submission lifecycle an error occurred.
type Stage string

const (
	StageEstimate Stage = "estimate"
	StageSequence Stage = "sequence"
	StageSign     Stage = "sign"
	StageSubmit   Stage = "submit"
	StageConfirm  Stage = "confirm"
	StageReplace  Stage = "replace"
)

// TxError wraps an error with lifecycle context and an operator hint.
type TxError struct {
	Stage Stage
	Op    string
	Err   error
	Hint  string
}

func (e *TxError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("[%s] %s: %v\nHint: %s", e.Stage, e.Op, e.Err, e.Hint)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// WrapError creates a TxError with context.
func WrapError(stage Stage, op string, err error, hint string) *TxError {
	return &TxError{
		Stage: stage,
		Op:    op,
		Err:   err,
		Hint:  hint,
	}
}

// HintFor returns a recovery suggestion for taxonomy errors.
func HintFor(err error) string {
	switch {
	case errors.Is(err, ErrEstimationRevert):
		return "The call fails against current chain state. Use --force with an explicit --gas-limit to submit anyway."
	case errors.Is(err, ErrNodeUnavailable):
		return "Check the node URL and that the node is reachable and synced."
	case errors.Is(err, ErrNonceConflict):
		return "Another process may be sending from this account. Re-run; the nonce sequencer has resynchronized."
	case errors.Is(err, ErrReplaceUnderpriced):
		return "Raise the gas strategy's increment or coefficient so bumps clear the ledger's replacement floor."
	case errors.Is(err, ErrSubmissionRejected):
		return "Check the account balance and the transaction's gas parameters."
	case errors.Is(err, ErrTimedOut):
		return "The transaction may still mine later. Watch it with 'txforge watch <hash>' or resubmit with a higher fee."
	case errors.Is(err, ErrMinedReverted):
		return "Execution failed on-chain and fees were spent. Inspect the transaction in a block explorer."
	default:
		return ""
	}
}
