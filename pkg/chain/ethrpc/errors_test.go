package ethrpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// serverError mimics a structured JSON-RPC error response.
type serverError struct {
	msg  string
	data interface{}
}

func (e serverError) Error() string          { return e.msg }
func (e serverError) ErrorCode() int         { return 3 }
func (e serverError) ErrorData() interface{} { return e.data }

func TestClassifySendError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nonce too low",
			err:  serverError{msg: "nonce too low"},
			want: chain.ErrNonceConflict,
		},
		{
			name: "replacement underpriced",
			err:  serverError{msg: "replacement transaction underpriced"},
			want: chain.ErrReplaceUnderpriced,
		},
		{
			name: "already known",
			err:  serverError{msg: "already known"},
			want: chain.ErrAlreadyKnown,
		},
		{
			name: "legacy known transaction",
			err:  serverError{msg: "known transaction: 0xabc"},
			want: chain.ErrAlreadyKnown,
		},
		{
			name: "insufficient funds",
			err:  serverError{msg: "insufficient funds for gas * price + value"},
			want: chain.ErrSubmissionRejected,
		},
		{
			name: "intrinsic gas",
			err:  serverError{msg: "intrinsic gas too low"},
			want: chain.ErrSubmissionRejected,
		},
		{
			name: "transport failure",
			err:  errors.New("dial tcp 127.0.0.1:8545: connection refused"),
			want: chain.ErrNodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySendError(tt.err)
			require.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyEstimateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "revert with return data",
			err:  serverError{msg: "execution reverted: Auction/not-live", data: "0x08c379a0"},
			want: chain.ErrEstimationRevert,
		},
		{
			name: "revert without data",
			err:  serverError{msg: "execution reverted"},
			want: chain.ErrEstimationRevert,
		},
		{
			name: "gas cap exceeded reads as revert",
			err:  serverError{msg: "gas required exceeds allowance (30000000)"},
			want: chain.ErrEstimationRevert,
		},
		{
			name: "other server error",
			err:  serverError{msg: "header not found"},
			want: chain.ErrSubmissionRejected,
		},
		{
			name: "transport failure",
			err:  errors.New("i/o timeout"),
			want: chain.ErrNodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyEstimateError(tt.err)
			require.ErrorIs(t, got, tt.want)
		})
	}
}
