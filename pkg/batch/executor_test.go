package batch_test

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/txforge/pkg/batch"
	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/chain/chaintest"
	"github.com/altuslabsxyz/txforge/pkg/engine"
	"github.com/altuslabsxyz/txforge/pkg/gas"
	"github.com/altuslabsxyz/txforge/pkg/signer"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var (
	helperAddr = common.HexToAddress("0x0000000000000000000000000000000000000077")
	tokenAddr  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	otherAddr  = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func TestEncodeScript(t *testing.T) {
	script, err := batch.EncodeScript([]chain.Invocation{
		{Target: tokenAddr, Calldata: []byte{0xde, 0xad, 0xbe, 0xef}},
		{Target: otherAddr},
	})
	require.NoError(t, err)

	want := "00000000000000000000000000000000000000aa" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"deadbeef" +
		"00000000000000000000000000000000000000bb" +
		"0000000000000000000000000000000000000000000000000000000000000000"
	require.Equal(t, want, hex.EncodeToString(script))
}

func TestEncodeScriptRejectsValue(t *testing.T) {
	_, err := batch.EncodeScript([]chain.Invocation{
		{Target: tokenAddr},
		{Target: otherAddr, Value: big.NewInt(1)},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sub-call 1")
}

func TestInvocationPacksExecuteCall(t *testing.T) {
	x := batch.NewExecutor(helperAddr)

	sub := chain.NewInvocation(tokenAddr, chain.MethodID("transfer(address,uint256)"))
	inv, err := x.Invocation([]common.Address{tokenAddr}, sub)
	require.NoError(t, err)
	require.Equal(t, helperAddr, inv.Target)
	require.Equal(t, chain.MethodID("execute(address[],bytes)"), inv.Calldata[:4])

	_, err = x.Invocation(nil)
	require.Error(t, err, "an empty batch is rejected")
}

func TestApproveInvocation(t *testing.T) {
	inv, err := batch.ApproveInvocation(tokenAddr, helperAddr, batch.MaxAllowance)
	require.NoError(t, err)

	require.Equal(t, tokenAddr, inv.Target)
	require.Len(t, inv.Calldata, 4+32+32)
	require.Equal(t, chain.MethodID("approve(address,uint256)"), inv.Calldata[:4])
	require.Equal(t, helperAddr.Bytes(), inv.Calldata[4+12:4+32])

	allowanceWord := inv.Calldata[4+32:]
	for _, b := range allowanceWord {
		require.Equal(t, byte(0xff), b, "unlimited allowance is the full word")
	}
}

func newBatchEngine(t *testing.T, ledger *chaintest.Ledger) *engine.Engine {
	t.Helper()

	sgr, err := signer.FromHexKey(testKeyHex)
	require.NoError(t, err)
	eng, err := engine.New(context.Background(), ledger, sgr,
		engine.WithPollInterval(2*time.Millisecond),
		engine.WithSubmitRetry(time.Millisecond, 2*time.Millisecond, 5),
	)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func startMiner(t *testing.T, ledger *chaintest.Ledger) {
	t.Helper()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(3 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ledger.MineBlock()
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		<-done
	})
}

func batchOfThree() []chain.Invocation {
	return []chain.Invocation{
		chain.NewInvocation(tokenAddr, chain.MethodID("transfer(address,uint256)")),
		chain.NewInvocation(otherAddr, chain.MethodID("approve(address,uint256)")),
		chain.NewInvocation(tokenAddr, []byte{0x01}),
	}
}

func TestExecuteMinesAsOneTransaction(t *testing.T) {
	ctx := context.Background()
	ledger := chaintest.NewLedger()
	eng := newBatchEngine(t, ledger)
	startMiner(t, ledger)

	x := batch.NewExecutor(helperAddr)
	h, err := x.Execute(ctx, eng, []common.Address{tokenAddr}, batchOfThree(), engine.SubmitOptions{
		Strategy: gas.NewFixed(big.NewInt(10)),
	})
	require.NoError(t, err)

	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, receipt.Success)
	require.Equal(t, 1, ledger.SendCalls(), "three sub-calls ride one transaction")
}

func TestExecuteRevertsAtomically(t *testing.T) {
	ctx := context.Background()
	ledger := chaintest.NewLedger()
	// One failing sub-call makes the helper revert the whole transaction.
	ledger.RevertOnExecution(helperAddr)
	eng := newBatchEngine(t, ledger)
	startMiner(t, ledger)

	x := batch.NewExecutor(helperAddr)
	h, err := x.Execute(ctx, eng, nil, batchOfThree(), engine.SubmitOptions{})
	require.NoError(t, err)

	receipt, err := h.Wait(ctx)
	require.ErrorIs(t, err, chain.ErrMinedReverted)
	require.NotNil(t, receipt)
	require.False(t, receipt.Success)
	require.Equal(t, engine.StateReverted, h.State())
}

func TestExecuteRefusedWhenEstimationReverts(t *testing.T) {
	ctx := context.Background()
	ledger := chaintest.NewLedger()
	ledger.RevertOnEstimate(helperAddr)
	eng := newBatchEngine(t, ledger)

	x := batch.NewExecutor(helperAddr)
	_, err := x.Execute(ctx, eng, nil, batchOfThree(), engine.SubmitOptions{})
	require.ErrorIs(t, err, chain.ErrEstimationRevert)
	require.Zero(t, ledger.SendCalls())
}
