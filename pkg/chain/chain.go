// Package chain defines the ledger-facing types and the node port used by
// every txforge component: invocations (what to execute), receipts (what the
// ledger reports back), the Node interface adapters implement, and the error
// taxonomy submission and confirmation code classifies against.
package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Invocation describes a desired state change: a target contract, the call
// payload, and the value transferred with the call. It carries no fee, nonce,
// or signature; the engine binds those per attempt. Invocations are immutable
// and may be reused across replacement attempts of one submission.
type Invocation struct {
	Target   common.Address
	Calldata []byte
	Value    *big.Int
}

// NewInvocation returns an invocation calling target with calldata and no
// value.
func NewInvocation(target common.Address, calldata []byte) Invocation {
	return Invocation{Target: target, Calldata: calldata, Value: new(big.Int)}
}

// Transfer returns an invocation sending amount wei to the recipient with an
// empty payload.
func Transfer(to common.Address, amount *big.Int) Invocation {
	return Invocation{Target: to, Value: new(big.Int).Set(amount)}
}

// MethodID returns the 4-byte selector for a canonical method signature,
// e.g. "transfer(address,uint256)". Facades that hand-pack calldata prepend
// this to their ABI-encoded arguments.
func MethodID(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// CallValue returns the invocation's value, treating nil as zero.
func (inv Invocation) CallValue() *big.Int {
	if inv.Value == nil {
		return new(big.Int)
	}
	return inv.Value
}

// CallMsg renders the invocation as an estimation call from the given sender.
func (inv Invocation) CallMsg(from common.Address) ethereum.CallMsg {
	to := inv.Target
	return ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: inv.CallValue(),
		Data:  inv.Calldata,
	}
}

// Receipt is the ledger's record of a mined transaction. It is immutable:
// once obtained it is cached against the submission's terminal state and
// never refetched.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	Success     bool
	GasUsed     uint64
	Logs        []*types.Log
}

// ReceiptFromTypes converts a go-ethereum receipt into the port type.
func ReceiptFromTypes(r *types.Receipt) *Receipt {
	return &Receipt{
		TxHash:      r.TxHash,
		BlockNumber: r.BlockNumber.Uint64(),
		Success:     r.Status == types.ReceiptStatusSuccessful,
		GasUsed:     r.GasUsed,
		Logs:        r.Logs,
	}
}
