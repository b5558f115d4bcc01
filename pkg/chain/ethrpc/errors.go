package ethrpc

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// wrapTransport marks an error as a transient node failure. Everything that
// is not a structured server response is assumed retryable.
func wrapTransport(err error) error {
	return fmt.Errorf("%w: %v", chain.ErrNodeUnavailable, err)
}

// classifySendError maps a node's submission rejection onto the taxonomy.
// Matching is on the server message: the JSON-RPC surface carries no stable
// error codes for mempool rejections, and every mainstream implementation
// uses these strings.
func classifySendError(err error) error {
	if _, ok := err.(rpc.Error); !ok {
		// Not a server response: the node never judged the transaction.
		return wrapTransport(err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "nonce too low"):
		return fmt.Errorf("%w: %v", chain.ErrNonceConflict, err)
	case strings.Contains(msg, "replacement transaction underpriced"):
		return fmt.Errorf("%w: %v", chain.ErrReplaceUnderpriced, err)
	case strings.Contains(msg, "already known"),
		strings.Contains(msg, "known transaction"),
		strings.Contains(msg, "alreadyexists"),
		strings.Contains(msg, "duplicate transaction"):
		return fmt.Errorf("%w: %v", chain.ErrAlreadyKnown, err)
	default:
		return fmt.Errorf("%w: %v", chain.ErrSubmissionRejected, err)
	}
}

// classifyEstimateError distinguishes "the call would revert" from node
// trouble. Reverts come back as structured errors carrying return data, or
// as an execution-reverted message.
func classifyEstimateError(err error) error {
	if de, ok := err.(rpc.DataError); ok && de.ErrorData() != nil {
		return fmt.Errorf("%w: %v", chain.ErrEstimationRevert, err)
	}

	if _, ok := err.(rpc.Error); ok {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "execution reverted") ||
			strings.Contains(msg, "always failing transaction") ||
			strings.Contains(msg, "gas required exceeds allowance") {
			return fmt.Errorf("%w: %v", chain.ErrEstimationRevert, err)
		}
		return fmt.Errorf("%w: %v", chain.ErrSubmissionRejected, err)
	}

	return wrapTransport(err)
}
