package chaintest

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var testTarget = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func signedTx(t *testing.T, nonce uint64, priceWei int64) *types.Transaction {
	t.Helper()

	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &testTarget,
		Value:    big.NewInt(1),
		Gas:      21000,
		GasPrice: big.NewInt(priceWei),
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(DefaultChainID), key)
	require.NoError(t, err)
	return signed
}

func TestSendAndMine(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	tx := signedTx(t, 0, 100)
	require.NoError(t, ledger.SendTransaction(ctx, tx))

	known, pending, err := ledger.TransactionByHash(ctx, tx.Hash())
	require.NoError(t, err)
	require.True(t, known)
	require.True(t, pending)

	receipt, err := ledger.TransactionReceipt(ctx, tx.Hash())
	require.NoError(t, err)
	require.Nil(t, receipt)

	mined := ledger.MineBlock()
	require.Equal(t, []common.Hash{tx.Hash()}, mined)

	receipt, err = ledger.TransactionReceipt(ctx, tx.Hash())
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.True(t, receipt.Success)
	require.Equal(t, uint64(1), receipt.BlockNumber)

	known, pending, err = ledger.TransactionByHash(ctx, tx.Hash())
	require.NoError(t, err)
	require.True(t, known)
	require.False(t, pending)

	require.Equal(t, 2, ledger.ReceiptQueries(tx.Hash()))
}

func TestStaleNonceRejected(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	require.NoError(t, ledger.SendTransaction(ctx, signedTx(t, 0, 100)))
	ledger.MineBlock()

	err := ledger.SendTransaction(ctx, signedTx(t, 0, 200))
	require.ErrorIs(t, err, chain.ErrNonceConflict)
}

func TestReplacementRules(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	first := signedTx(t, 0, 100)
	require.NoError(t, ledger.SendTransaction(ctx, first))

	require.ErrorIs(t, ledger.SendTransaction(ctx, first), chain.ErrAlreadyKnown)

	// Floor is a 10% raise: 109 is short of 110.
	low := signedTx(t, 0, 109)
	require.ErrorIs(t, ledger.SendTransaction(ctx, low), chain.ErrReplaceUnderpriced)

	bumped := signedTx(t, 0, 110)
	require.NoError(t, ledger.SendTransaction(ctx, bumped))

	known, _, err := ledger.TransactionByHash(ctx, first.Hash())
	require.NoError(t, err)
	require.False(t, known, "replaced entry should be forgotten")

	mined := ledger.MineBlock()
	require.Equal(t, []common.Hash{bumped.Hash()}, mined)
}

func TestMineGate(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	ledger.SetMinMinePrice(big.NewInt(9))

	cheap := signedTx(t, 0, 5)
	require.NoError(t, ledger.SendTransaction(ctx, cheap))
	require.Empty(t, ledger.MineBlock())

	priced := signedTx(t, 0, 9)
	require.NoError(t, ledger.SendTransaction(ctx, priced))
	require.Equal(t, []common.Hash{priced.Hash()}, ledger.MineBlock())
}

func TestExecutionRevert(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	ledger.RevertOnExecution(testTarget)

	tx := signedTx(t, 0, 100)
	require.NoError(t, ledger.SendTransaction(ctx, tx))
	ledger.MineBlock()

	receipt, err := ledger.TransactionReceipt(ctx, tx.Hash())
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.False(t, receipt.Success)
}

func TestEstimateControls(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	gas, err := ledger.EstimateGas(ctx, chain.Invocation{Target: testTarget, Calldata: []byte{1, 2}}.CallMsg(common.Address{}))
	require.NoError(t, err)
	require.Equal(t, uint64(21032), gas)

	ledger.RevertOnEstimate(testTarget)
	_, err = ledger.EstimateGas(ctx, chain.Invocation{Target: testTarget}.CallMsg(common.Address{}))
	require.ErrorIs(t, err, chain.ErrEstimationRevert)

	ledger.QueueEstimateFault(chain.ErrNodeUnavailable)
	_, err = ledger.EstimateGas(ctx, chain.Invocation{Target: common.Address{}}.CallMsg(common.Address{}))
	require.ErrorIs(t, err, chain.ErrNodeUnavailable)

	require.Equal(t, 3, ledger.EstimateCalls())
}

func TestSendFaultQueue(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()
	ledger.QueueSendFault(chain.ErrNodeUnavailable)

	tx := signedTx(t, 0, 100)
	require.ErrorIs(t, ledger.SendTransaction(ctx, tx), chain.ErrNodeUnavailable)
	require.NoError(t, ledger.SendTransaction(ctx, tx))
}

func TestDropTx(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	tx := signedTx(t, 0, 100)
	require.NoError(t, ledger.SendTransaction(ctx, tx))
	require.True(t, ledger.DropTx(tx.Hash()))
	require.False(t, ledger.DropTx(tx.Hash()))

	known, pending, err := ledger.TransactionByHash(ctx, tx.Hash())
	require.NoError(t, err)
	require.False(t, known)
	require.False(t, pending)

	require.Empty(t, ledger.MineBlock())
}

func TestMineHashRevivesReplaced(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	first := signedTx(t, 0, 100)
	bumped := signedTx(t, 0, 200)
	require.NoError(t, ledger.SendTransaction(ctx, first))
	require.NoError(t, ledger.SendTransaction(ctx, bumped))

	// A slower node mines the original attempt anyway.
	require.True(t, ledger.MineHash(first.Hash()))

	receipt, err := ledger.TransactionReceipt(ctx, first.Hash())
	require.NoError(t, err)
	require.NotNil(t, receipt)

	// The bump can never mine now.
	require.Empty(t, ledger.MineBlock())
	receipt, err = ledger.TransactionReceipt(ctx, bumped.Hash())
	require.NoError(t, err)
	require.Nil(t, receipt)

	err = ledger.SendTransaction(ctx, signedTx(t, 0, 300))
	require.ErrorIs(t, err, chain.ErrNonceConflict)
}

func TestPendingNonceCountsPool(t *testing.T) {
	ledger := NewLedger()
	ctx := context.Background()

	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)
	account := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := ledger.PendingNonceAt(ctx, account)
	require.NoError(t, err)
	require.Equal(t, uint64(0), nonce)

	require.NoError(t, ledger.SendTransaction(ctx, signedTx(t, 0, 100)))
	require.NoError(t, ledger.SendTransaction(ctx, signedTx(t, 1, 100)))

	nonce, err = ledger.PendingNonceAt(ctx, account)
	require.NoError(t, err)
	require.Equal(t, uint64(2), nonce)

	mined := ledger.MineBlock()
	require.Len(t, mined, 2, "contiguous nonces mine in one block")
}
