package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Node is the ledger port consumed by the engine, sequencer, gas strategies,
// and batch executor. Adapters translate their backend's failures into the
// taxonomy in errors.go so callers can classify with errors.Is; raw transport
// failures map to ErrNodeUnavailable.
type Node interface {
	// ChainID returns the ledger's replay-protection identifier.
	ChainID(ctx context.Context) (*big.Int, error)

	// BlockNumber returns the current head height.
	BlockNumber(ctx context.Context) (uint64, error)

	// BalanceAt returns the current balance of the account.
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)

	// PendingNonceAt returns the account's next nonce including mempool
	// transactions. Seeds the sequencer.
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)

	// SuggestGasPrice returns the node's current fee recommendation in wei.
	SuggestGasPrice(ctx context.Context) (*big.Int, error)

	// EstimateGas simulates the call against current state and returns a gas
	// limit. A guaranteed revert is reported as ErrEstimationRevert.
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)

	// SendTransaction submits a signed transaction to the mempool.
	SendTransaction(ctx context.Context, tx *types.Transaction) error

	// TransactionReceipt returns the receipt for a mined transaction, or
	// (nil, nil) while the transaction is not mined.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)

	// TransactionByHash reports whether the node knows the transaction and
	// whether it is still waiting in the mempool. (false, false, nil) means
	// the node has dropped or never seen the hash.
	TransactionByHash(ctx context.Context, txHash common.Hash) (known bool, pending bool, err error)
}
