// Package batch composes several invocations into one atomic transaction
// executed through a pre-deployed helper contract. The helper runs the
// sub-calls in order and reverts the whole transaction if any of them fails,
// so either every step lands or none do. Assets the sub-calls spend must be
// approved to the helper beforehand; see ApproveInvocation.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/engine"
)

const helperABIJSON = `[
	{"name":"execute","type":"function","stateMutability":"nonpayable","inputs":[{"name":"tokens","type":"address[]"},{"name":"script","type":"bytes"}],"outputs":[]}
]`

const erc20ABIJSON = `[
	{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var (
	helperABI = mustParseABI(helperABIJSON)
	erc20ABI  = mustParseABI(erc20ABIJSON)
)

// MaxAllowance is the full uint256, the conventional unlimited approval.
var MaxAllowance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Executor builds batch transactions against one helper contract.
type Executor struct {
	helper common.Address
}

// NewExecutor returns an executor for the helper deployed at the given
// address.
func NewExecutor(helper common.Address) *Executor {
	return &Executor{helper: helper}
}

// Helper returns the helper contract's address.
func (x *Executor) Helper() common.Address { return x.helper }

// Invocation packs the sub-calls into a single helper invocation. tokens
// lists the assets the helper may pull from the caller while executing; it
// can be empty when no sub-call spends caller funds. Sub-calls cannot carry
// value: the script format has no slot for it.
func (x *Executor) Invocation(tokens []common.Address, invs ...chain.Invocation) (chain.Invocation, error) {
	if len(invs) == 0 {
		return chain.Invocation{}, errors.New("batch needs at least one invocation")
	}

	script, err := EncodeScript(invs)
	if err != nil {
		return chain.Invocation{}, err
	}
	if tokens == nil {
		tokens = []common.Address{}
	}

	calldata, err := helperABI.Pack("execute", tokens, script)
	if err != nil {
		return chain.Invocation{}, fmt.Errorf("failed to pack batch call: %w", err)
	}
	return chain.NewInvocation(x.helper, calldata), nil
}

// Execute packs the sub-calls and submits them through the engine as one
// transaction. Confirmation is awaited through the returned handle; a
// reverted receipt means no sub-call took effect.
func (x *Executor) Execute(ctx context.Context, eng *engine.Engine, tokens []common.Address, invs []chain.Invocation, opts engine.SubmitOptions) (*engine.Handle, error) {
	inv, err := x.Invocation(tokens, invs...)
	if err != nil {
		return nil, err
	}
	return eng.Submit(ctx, inv, opts)
}

// EncodeScript serializes invocations into the helper's script format: for
// each sub-call the 20-byte target, the calldata length as a 32-byte
// big-endian word, then the calldata itself.
func EncodeScript(invs []chain.Invocation) ([]byte, error) {
	var script []byte
	for i, inv := range invs {
		if inv.Value != nil && inv.Value.Sign() != 0 {
			return nil, fmt.Errorf("batch sub-call %d carries value; the helper cannot forward it", i)
		}
		script = append(script, inv.Target.Bytes()...)

		var length [32]byte
		big.NewInt(int64(len(inv.Calldata))).FillBytes(length[:])
		script = append(script, length[:]...)
		script = append(script, inv.Calldata...)
	}
	return script, nil
}

// ApproveInvocation returns the ERC20 approval granting spender rights over
// the caller's token balance, typically the helper ahead of its first batch
// touching that token. Use MaxAllowance for an unlimited grant.
func ApproveInvocation(token, spender common.Address, allowance *big.Int) (chain.Invocation, error) {
	calldata, err := erc20ABI.Pack("approve", spender, allowance)
	if err != nil {
		return chain.Invocation{}, fmt.Errorf("failed to pack approval: %w", err)
	}
	return chain.NewInvocation(token, calldata), nil
}
