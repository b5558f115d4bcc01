package engine_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/txforge/pkg/chain"
	"github.com/altuslabsxyz/txforge/pkg/chain/chaintest"
	"github.com/altuslabsxyz/txforge/pkg/engine"
	"github.com/altuslabsxyz/txforge/pkg/gas"
	"github.com/altuslabsxyz/txforge/pkg/nonce"
	"github.com/altuslabsxyz/txforge/pkg/signer"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

var testTarget = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newTestEngine(t *testing.T, ledger *chaintest.Ledger, opts ...engine.Option) *engine.Engine {
	t.Helper()

	sgr, err := signer.FromHexKey(testKeyHex)
	require.NoError(t, err)

	defaults := []engine.Option{
		engine.WithPollInterval(2 * time.Millisecond),
		engine.WithSubmitRetry(time.Millisecond, 2*time.Millisecond, 5),
	}
	eng, err := engine.New(context.Background(), ledger, sgr, append(defaults, opts...)...)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

// startMiner mines blocks in the background until the test ends.
func startMiner(t *testing.T, ledger *chaintest.Ledger, every time.Duration) {
	t.Helper()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
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

// stepStrategy returns a scripted sequence of bids, one per consultation,
// holding the last bid once the script runs out. Timing-independent, unlike
// the elapsed-based strategies.
type stepStrategy struct {
	mu     sync.Mutex
	prices []int64
	calls  int
}

func (s *stepStrategy) PriceAt(context.Context, chain.Node, time.Duration) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	if i >= len(s.prices) {
		i = len(s.prices) - 1
	}
	s.calls++
	return big.NewInt(s.prices[i]), nil
}

func countSuperseded(attempts []engine.Attempt) int {
	n := 0
	for _, a := range attempts {
		if a.State == engine.StateSuperseded {
			n++
		}
	}
	return n
}

func rawSignedTx(t *testing.T, nonce uint64, priceWei int64) *types.Transaction {
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
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chaintest.DefaultChainID), key)
	require.NoError(t, err)
	return signed
}

func TestSubmitAndMineFixedPrice(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy: gas.NewFixed(big.NewInt(10)),
	})
	require.NoError(t, err)

	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	require.True(t, receipt.Success)
	require.NotZero(t, receipt.BlockNumber)

	require.Equal(t, engine.StateMined, h.State())
	require.Equal(t, receipt.TxHash, h.ActiveHash())

	attempts := h.Attempts()
	require.Len(t, attempts, 1)
	require.Equal(t, int64(10), attempts[0].GasPrice.Int64())
	require.Equal(t, engine.StateMined, attempts[0].State)
}

func TestSubmitRefusesRevertingCall(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.RevertOnEstimate(testTarget)
	eng := newTestEngine(t, ledger)

	h, err := eng.Submit(ctx, chain.Invocation{Target: testTarget, Calldata: []byte{0xde, 0xad}}, engine.SubmitOptions{})
	require.Nil(t, h)
	require.ErrorIs(t, err, chain.ErrEstimationRevert)

	var txErr *chain.TxError
	require.ErrorAs(t, err, &txErr)
	require.Equal(t, chain.StageEstimate, txErr.Stage)

	require.Zero(t, ledger.SendCalls(), "a refused call must never reach the node")
}

func TestForceSubmitsWithoutEstimation(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.RevertOnEstimate(testTarget)
	ledger.RevertOnExecution(testTarget)
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	receipt, err := eng.SubmitAndWait(ctx, chain.Invocation{Target: testTarget}, engine.SubmitOptions{
		Force:    true,
		GasLimit: 80_000,
	})
	require.ErrorIs(t, err, chain.ErrMinedReverted)
	require.NotNil(t, receipt, "a reverted transaction still has a receipt")
	require.False(t, receipt.Success)

	require.Zero(t, ledger.EstimateCalls(), "force mode must not estimate")
}

func TestSubmitOptionValidation(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	tests := []struct {
		name    string
		opts    engine.SubmitOptions
		wantErr string
	}{
		{
			name:    "force without gas limit",
			opts:    engine.SubmitOptions{Force: true},
			wantErr: "explicit gas limit",
		},
		{
			name:    "gas limit and buffer together",
			opts:    engine.SubmitOptions{GasLimit: 50_000, GasBuffer: 10_000},
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), tt.opts)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConcurrentSubmissionsUniqueNonces(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	const n = 16
	handles := make([]*engine.Handle, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handles[i], errs[i] = eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
				Strategy: gas.NewFixed(big.NewInt(100)),
			})
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		nonce := handles[i].Nonce()
		require.False(t, seen[nonce], "nonce %d assigned twice", nonce)
		require.Less(t, nonce, uint64(n), "nonces must be contiguous from zero")
		seen[nonce] = true
	}

	ledger.MineBlock()

	outcomes, err := engine.WaitAll(ctx, handles...)
	require.NoError(t, err)
	require.Len(t, outcomes, n)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
		require.True(t, o.Receipt.Success)
	}
}

func TestNonceConflictResyncAndRetry(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	receipt, err := eng.SubmitAndWait(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.NoError(t, err)
	require.True(t, receipt.Success)

	// Transactions from outside this process consumed nonces 1 through 4.
	ledger.SetConfirmedNonce(eng.From(), 5)

	sendsBefore := ledger.SendCalls()
	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(2)), engine.SubmitOptions{})
	require.NoError(t, err)
	require.Equal(t, uint64(5), h.Nonce(), "retry must use the resynchronized nonce")
	require.Equal(t, sendsBefore+2, ledger.SendCalls(), "one rejected send plus one retry")

	receipt, err = h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, receipt.Success)
}

func TestAlreadyKnownTreatedAsSubmitted(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()

	sgr, err := signer.FromHexKey(testKeyHex)
	require.NoError(t, err)
	seq := nonce.NewSequencer(ledger)
	_, err = seq.Resync(ctx, sgr.Address())
	require.NoError(t, err)

	// A byte-identical transaction already sits in the mempool, as happens
	// when a prior process broadcast it and crashed before confirming.
	prior := rawSignedTx(t, 0, 100)
	require.NoError(t, ledger.SendTransaction(ctx, prior))

	eng := newTestEngine(t, ledger, engine.WithSequencer(seq))
	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy: gas.NewFixed(big.NewInt(100)),
		GasLimit: 21000,
	})
	require.NoError(t, err, "a node that already holds the transaction is a successful broadcast")
	require.Equal(t, prior.Hash(), h.ActiveHash())

	ledger.MineBlock()
	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, receipt.Success)
	require.Equal(t, prior.Hash(), receipt.TxHash)
}

func TestTransportFailuresRetriedWithBackoff(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	ledger.QueueSendFault(chain.ErrNodeUnavailable, chain.ErrNodeUnavailable)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Equal(t, 3, ledger.SendCalls(), "two faults then a success")
}

func TestTransportFailureBudgetExhausted(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	ledger.QueueSendFault(
		chain.ErrNodeUnavailable,
		chain.ErrNodeUnavailable,
		chain.ErrNodeUnavailable,
		chain.ErrNodeUnavailable,
		chain.ErrNodeUnavailable,
	)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.Nil(t, h)
	require.ErrorIs(t, err, chain.ErrNodeUnavailable)
	require.Equal(t, 5, ledger.SendCalls())
}

func TestReplacementBumpsUntilMined(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.SetMinMinePrice(big.NewInt(9))
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy:     &stepStrategy{prices: []int64{5, 7, 9}},
		ReplaceEvery: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, receipt.Success)

	attempts := h.Attempts()
	require.Len(t, attempts, 3)
	require.Equal(t, int64(5), attempts[0].GasPrice.Int64())
	require.Equal(t, int64(7), attempts[1].GasPrice.Int64())
	require.Equal(t, int64(9), attempts[2].GasPrice.Int64())
	require.Equal(t, 2, countSuperseded(attempts), "exactly the first two attempts are superseded")
	require.Equal(t, engine.StateMined, attempts[2].State)
	require.Equal(t, attempts[2].Hash, receipt.TxHash)

	// Every attempt occupied the same ledger slot; only one advanced it.
	for _, a := range attempts {
		require.Equal(t, attempts[0].Nonce, a.Nonce)
	}
	next, err := ledger.PendingNonceAt(ctx, eng.From())
	require.NoError(t, err)
	require.Equal(t, attempts[0].Nonce+1, next)
}

func TestReplacementRespectsMaxBumps(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.SetMinMinePrice(big.NewInt(1_000_000)) // never mines
	eng := newTestEngine(t, ledger)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy:     &stepStrategy{prices: []int64{5, 7, 9, 11, 13, 15}},
		ReplaceEvery: 5 * time.Millisecond,
		MaxBumps:     2,
		Deadline:     60 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, chain.ErrTimedOut)
	require.Equal(t, engine.StateTimedOut, h.State())
	require.Len(t, h.Attempts(), 3, "initial broadcast plus two bumps")
}

func TestUnderpricedReplacementKeptWaiting(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.SetMinMinePrice(big.NewInt(120))
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	// 105 is below the ledger's 10% bump floor over 100, so that attempt is
	// rejected and never becomes an attempt; 120 clears it.
	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy:     &stepStrategy{prices: []int64{100, 105, 120}},
		ReplaceEvery: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, receipt.Success)

	attempts := h.Attempts()
	require.Len(t, attempts, 2)
	require.Equal(t, int64(100), attempts[0].GasPrice.Int64())
	require.Equal(t, int64(120), attempts[1].GasPrice.Int64())
	require.Equal(t, 1, countSuperseded(attempts))
}

func TestSupersededAttemptStillWatched(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.SetMinMinePrice(big.NewInt(1_000_000)) // block normal mining
	eng := newTestEngine(t, ledger)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy:     &stepStrategy{prices: []int64{100, 200}},
		ReplaceEvery: 8 * time.Millisecond,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(h.Attempts()) == 2
	}, 2*time.Second, time.Millisecond)

	// A slower part of the network mines the attempt the engine had already
	// replaced. Whichever attempt mines settles the transaction.
	first := h.Attempts()[0]
	require.True(t, ledger.MineHash(first.Hash))

	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, first.Hash, receipt.TxHash)
	require.Equal(t, engine.StateMined, h.State())
}

func TestDroppedTransactionRebroadcast(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy:     gas.NewFixed(big.NewInt(100)),
		ReplaceEvery: 25 * time.Millisecond,
	})
	require.NoError(t, err)

	require.True(t, ledger.DropTx(h.ActiveHash()))
	require.Eventually(t, func() bool {
		return h.State() == engine.StateDropped
	}, 2*time.Second, time.Millisecond)

	// A fixed strategy never raises the bid, so the replacement cycle
	// re-gossips the identical transaction instead.
	require.Eventually(t, func() bool {
		return h.State() == engine.StatePending
	}, 2*time.Second, time.Millisecond)
	require.Len(t, h.Attempts(), 1, "re-gossip is not a new attempt")

	ledger.MineBlock()
	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.True(t, receipt.Success)
}

func TestDroppedWithoutReplacementTimesOut(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Deadline: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	require.True(t, ledger.DropTx(h.ActiveHash()))

	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, chain.ErrTimedOut)
	require.Equal(t, engine.StateTimedOut, h.State())

	attempts := h.Attempts()
	require.Len(t, attempts, 1)
	require.Equal(t, engine.StateDropped, attempts[0].State)
}

func TestWaitIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.NoError(t, err)

	first, err := h.Wait(ctx)
	require.NoError(t, err)
	queries := ledger.ReceiptQueries(h.ActiveHash())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			again, err := h.Wait(ctx)
			require.NoError(t, err)
			require.Same(t, first, again)
		}()
	}
	wg.Wait()
	require.Equal(t, queries, ledger.ReceiptQueries(h.ActiveHash()), "repeat waits must not refetch the receipt")
}

func TestWaitAllCollectsEveryOutcome(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	reverting := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	ledger.RevertOnExecution(reverting)
	eng := newTestEngine(t, ledger)
	startMiner(t, ledger, 3*time.Millisecond)

	h1, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.NoError(t, err)
	h2, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(2)), engine.SubmitOptions{})
	require.NoError(t, err)
	h3, err := eng.Submit(ctx, chain.Transfer(reverting, big.NewInt(3)), engine.SubmitOptions{})
	require.NoError(t, err)

	outcomes, err := engine.WaitAll(ctx, h1, h2, h3)
	require.Len(t, outcomes, 3)

	require.Same(t, h1, outcomes[0].Handle)
	require.Same(t, h2, outcomes[1].Handle)
	require.Same(t, h3, outcomes[2].Handle)

	require.NoError(t, outcomes[0].Err)
	require.NoError(t, outcomes[1].Err)
	require.ErrorIs(t, outcomes[2].Err, chain.ErrMinedReverted)
	require.NotNil(t, outcomes[2].Receipt, "a reverted outcome still carries its receipt")

	require.ErrorIs(t, err, chain.ErrMinedReverted, "aggregate error is the first failure")
	require.ErrorIs(t, engine.FirstError(outcomes), chain.ErrMinedReverted)
}

func TestWatchExistingTransaction(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()

	watcher, err := engine.New(ctx, ledger, nil, engine.WithPollInterval(2*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(watcher.Close)

	// Watch-only engines cannot submit.
	_, err = watcher.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.ErrorContains(t, err, "watch-only")

	pending := rawSignedTx(t, 0, 100)
	require.NoError(t, ledger.SendTransaction(ctx, pending))

	h, err := watcher.Watch(ctx, pending.Hash(), 0)
	require.NoError(t, err)

	ledger.MineBlock()
	receipt, err := h.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, pending.Hash(), receipt.TxHash)

	// An already-mined hash resolves without polling.
	h2, err := watcher.Watch(ctx, pending.Hash(), 0)
	require.NoError(t, err)
	receipt2, err := h2.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, receipt.TxHash, receipt2.TxHash)
}

func TestWatchUnknownHashTimesOut(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	watcher, err := engine.New(ctx, ledger, nil, engine.WithPollInterval(2*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(watcher.Close)

	h, err := watcher.Watch(ctx, common.HexToHash("0x01"), 40*time.Millisecond)
	require.NoError(t, err)

	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, chain.ErrTimedOut)
}

func TestCancelAbandonsMonitoring(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	eng := newTestEngine(t, ledger)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.NoError(t, err)

	h.Cancel()
	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, engine.ErrAbandoned)
	require.Equal(t, engine.StateAbandoned, h.State())

	// The broadcast itself is not recalled.
	_, inPool := ledger.PendingTx(eng.From(), h.Nonce())
	require.True(t, inPool)
}

func TestCloseResolvesInFlightHandles(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()

	sgr, err := signer.FromHexKey(testKeyHex)
	require.NoError(t, err)
	eng, err := engine.New(ctx, ledger, sgr, engine.WithPollInterval(2*time.Millisecond))
	require.NoError(t, err)

	h, err := eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.NoError(t, err)

	eng.Close()
	_, err = h.Wait(ctx)
	require.ErrorIs(t, err, chain.ErrClosed)

	_, err = eng.Submit(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{})
	require.ErrorIs(t, err, chain.ErrClosed)
}

func TestMetricsCountLifecycle(t *testing.T) {
	ctx := testContext(t)
	ledger := chaintest.NewLedger()
	ledger.SetMinMinePrice(big.NewInt(7))

	metrics := engine.NewMetrics(prometheus.NewRegistry())
	eng := newTestEngine(t, ledger, engine.WithMetrics(metrics))
	startMiner(t, ledger, 3*time.Millisecond)

	receipt, err := eng.SubmitAndWait(ctx, chain.Transfer(testTarget, big.NewInt(1)), engine.SubmitOptions{
		Strategy:     &stepStrategy{prices: []int64{5, 7}},
		ReplaceEvery: 8 * time.Millisecond,
	})
	require.NoError(t, err)
	require.True(t, receipt.Success)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Submitted))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Replaced))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Mined))
	require.Equal(t, 0.0, testutil.ToFloat64(metrics.Reverted))
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.InFlight) == 0
	}, 2*time.Second, time.Millisecond)
}
