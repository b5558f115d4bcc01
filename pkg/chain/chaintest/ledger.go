// Package chaintest provides a deterministic in-memory ledger implementing
// chain.Node. Tests drive it explicitly: transactions wait in a pool until
// MineBlock is called, mining eligibility is price-gated, and estimation
// reverts, execution reverts, transport faults, and mempool eviction are all
// injectable. Facade authors can use it to exercise submission flows without
// a node.
package chaintest

import (
	"context"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// DefaultChainID is the ledger's chain ID unless overridden.
var DefaultChainID = big.NewInt(1337)

// defaultBumpFloorPercent is the minimum fee increase for a same-nonce
// replacement to enter the pool, mirroring mainstream mempool rules.
const defaultBumpFloorPercent = 10

type poolTx struct {
	tx   *types.Transaction
	from common.Address
}

// Ledger is a fake chain.Node. All methods are safe for concurrent use.
type Ledger struct {
	mu sync.Mutex

	chainID *big.Int
	height  uint64

	balances  map[common.Address]*big.Int
	confirmed map[common.Address]uint64 // mined tx count per account

	pool     map[common.Hash]*poolTx // one entry per (account, nonce)
	replaced map[common.Hash]*poolTx // superseded in the pool, forgotten but minable
	mined    map[common.Hash]*poolTx
	receipts map[common.Hash]*chain.Receipt

	suggestedPrice   *big.Int
	minMinePrice     *big.Int // pool entries below this never mine
	bumpFloorPercent int64

	estimateReverts map[common.Address]bool
	executeReverts  map[common.Address]bool
	sendFaults      []error // consumed one per SendTransaction call
	estimateFaults  []error

	sendCalls      int
	estimateCalls  int
	receiptQueries map[common.Hash]int
}

// NewLedger returns an empty ledger at height 0 with a 1 gwei suggested
// price.
func NewLedger() *Ledger {
	return &Ledger{
		chainID:          new(big.Int).Set(DefaultChainID),
		balances:         make(map[common.Address]*big.Int),
		confirmed:        make(map[common.Address]uint64),
		pool:             make(map[common.Hash]*poolTx),
		replaced:         make(map[common.Hash]*poolTx),
		mined:            make(map[common.Hash]*poolTx),
		receipts:         make(map[common.Hash]*chain.Receipt),
		suggestedPrice:   new(big.Int).Set(big.NewInt(1_000_000_000)),
		bumpFloorPercent: defaultBumpFloorPercent,
		estimateReverts:  make(map[common.Address]bool),
		executeReverts:   make(map[common.Address]bool),
		receiptQueries:   make(map[common.Hash]int),
	}
}

// --- test controls ---

// Fund sets an account balance.
func (l *Ledger) Fund(account common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = new(big.Int).Set(amount)
}

// SetConfirmedNonce sets an account's mined transaction count, simulating
// activity outside this process.
func (l *Ledger) SetConfirmedNonce(account common.Address, nonce uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmed[account] = nonce
}

// SetSuggestedPrice sets the price returned by SuggestGasPrice.
func (l *Ledger) SetSuggestedPrice(price *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.suggestedPrice = new(big.Int).Set(price)
}

// SetMinMinePrice gates mining: pool entries bidding below price are skipped
// by MineBlock until replaced with a high enough bid.
func (l *Ledger) SetMinMinePrice(price *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minMinePrice = new(big.Int).Set(price)
}

// RevertOnEstimate makes gas estimation against the target report a revert.
func (l *Ledger) RevertOnEstimate(target common.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.estimateReverts[target] = true
}

// RevertOnExecution makes mined transactions against the target fail
// on-chain. Estimation still succeeds, as with state that changed between
// estimation and inclusion.
func (l *Ledger) RevertOnExecution(target common.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.executeReverts[target] = true
}

// QueueSendFault makes upcoming SendTransaction calls return errs in order,
// one each, before normal processing resumes.
func (l *Ledger) QueueSendFault(errs ...error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sendFaults = append(l.sendFaults, errs...)
}

// QueueEstimateFault makes upcoming EstimateGas calls return errs in order.
func (l *Ledger) QueueEstimateFault(errs ...error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.estimateFaults = append(l.estimateFaults, errs...)
}

// DropTx evicts a pool entry, as a node shedding mempool load. The hash
// becomes unknown to the ledger.
func (l *Ledger) DropTx(hash common.Hash) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pool[hash]; !ok {
		return false
	}
	delete(l.pool, hash)
	return true
}

// MineBlock advances the chain one block, including every eligible pool
// entry: bid at or above the mine gate and nonce contiguous with the
// account's confirmed count. Returns the hashes mined, in deterministic
// order.
func (l *Ledger) MineBlock() []common.Hash {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.height++

	var minedNow []common.Hash
	for {
		candidates := l.eligibleLocked()
		if len(candidates) == 0 {
			break
		}
		for _, hash := range candidates {
			l.mineLocked(hash, l.pool[hash])
			minedNow = append(minedNow, hash)
		}
	}
	return minedNow
}

// MineHash force-mines a specific transaction, bypassing the price gate.
// Works on replaced entries too, as when a slower node mines an attempt the
// submitter had already superseded. Returns false for unknown hashes.
func (l *Ledger) MineHash(hash common.Hash) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.pool[hash]
	if !ok {
		entry, ok = l.replaced[hash]
	}
	if !ok {
		return false
	}
	if entry.tx.Nonce() < l.confirmed[entry.from] {
		return false
	}

	l.height++
	l.mineLocked(hash, entry)
	return true
}

// Height returns the current block height.
func (l *Ledger) Height() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// SendCalls returns how many times SendTransaction was invoked.
func (l *Ledger) SendCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sendCalls
}

// EstimateCalls returns how many times EstimateGas was invoked.
func (l *Ledger) EstimateCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.estimateCalls
}

// ReceiptQueries returns how many times the hash's receipt was requested.
func (l *Ledger) ReceiptQueries(hash common.Hash) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.receiptQueries[hash]
}

// PendingTx returns the pool entry holding the account's nonce, if any.
func (l *Ledger) PendingTx(account common.Address, nonce uint64) (*types.Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.pool {
		if entry.from == account && entry.tx.Nonce() == nonce {
			return entry.tx, true
		}
	}
	return nil, false
}

func (l *Ledger) eligibleLocked() []common.Hash {
	var out []common.Hash
	for hash, entry := range l.pool {
		if l.minMinePrice != nil && entry.tx.GasPrice().Cmp(l.minMinePrice) < 0 {
			continue
		}
		if entry.tx.Nonce() != l.confirmed[entry.from] {
			continue
		}
		out = append(out, hash)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out
}

func (l *Ledger) mineLocked(hash common.Hash, entry *poolTx) {
	success := true
	if to := entry.tx.To(); to != nil && l.executeReverts[*to] {
		success = false
	}

	l.receipts[hash] = &chain.Receipt{
		TxHash:      hash,
		BlockNumber: l.height,
		Success:     success,
		GasUsed:     entry.tx.Gas() / 2,
	}
	l.confirmed[entry.from] = entry.tx.Nonce() + 1
	l.mined[hash] = entry
	delete(l.pool, hash)
	delete(l.replaced, hash)

	// Same-nonce rivals can never mine now.
	for rival, rivalEntry := range l.pool {
		if rivalEntry.from == entry.from && rivalEntry.tx.Nonce() == entry.tx.Nonce() {
			delete(l.pool, rival)
		}
	}
}

// --- chain.Node ---

// ChainID implements chain.Node.
func (l *Ledger) ChainID(_ context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.chainID), nil
}

// BlockNumber implements chain.Node.
func (l *Ledger) BlockNumber(_ context.Context) (uint64, error) {
	return l.Height(), nil
}

// BalanceAt implements chain.Node. Balances are static fixtures; mining does
// not debit them.
func (l *Ledger) BalanceAt(_ context.Context, account common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if balance, ok := l.balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return new(big.Int), nil
}

// PendingNonceAt implements chain.Node: the confirmed count plus any
// contiguous pool entries.
func (l *Ledger) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.confirmed[account]
	for {
		advanced := false
		for _, entry := range l.pool {
			if entry.from == account && entry.tx.Nonce() == next {
				next++
				advanced = true
				break
			}
		}
		if !advanced {
			return next, nil
		}
	}
}

// SuggestGasPrice implements chain.Node.
func (l *Ledger) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.suggestedPrice), nil
}

// EstimateGas implements chain.Node with a size-proportional estimate.
func (l *Ledger) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.estimateCalls++
	if len(l.estimateFaults) > 0 {
		err := l.estimateFaults[0]
		l.estimateFaults = l.estimateFaults[1:]
		return 0, err
	}
	if msg.To != nil && l.estimateReverts[*msg.To] {
		return 0, chain.ErrEstimationRevert
	}
	return 21000 + uint64(len(msg.Data))*16, nil
}

// SendTransaction implements chain.Node, enforcing the mempool rules the
// engine must survive: stale nonces, duplicate hashes, and underpriced
// replacements are rejected; a sufficient same-nonce bump displaces the
// prior entry.
func (l *Ledger) SendTransaction(_ context.Context, tx *types.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sendCalls++
	if len(l.sendFaults) > 0 {
		err := l.sendFaults[0]
		l.sendFaults = l.sendFaults[1:]
		return err
	}

	from, err := types.Sender(types.LatestSignerForChainID(l.chainID), tx)
	if err != nil {
		return chain.ErrSubmissionRejected
	}

	if tx.Nonce() < l.confirmed[from] {
		return chain.ErrNonceConflict
	}
	if _, ok := l.pool[tx.Hash()]; ok {
		return chain.ErrAlreadyKnown
	}
	if _, ok := l.mined[tx.Hash()]; ok {
		return chain.ErrAlreadyKnown
	}

	for rival, rivalEntry := range l.pool {
		if rivalEntry.from != from || rivalEntry.tx.Nonce() != tx.Nonce() {
			continue
		}
		floor := new(big.Int).Mul(rivalEntry.tx.GasPrice(), big.NewInt(100+l.bumpFloorPercent))
		floor.Div(floor, big.NewInt(100))
		if tx.GasPrice().Cmp(floor) < 0 {
			return chain.ErrReplaceUnderpriced
		}
		l.replaced[rival] = rivalEntry
		delete(l.pool, rival)
	}

	l.pool[tx.Hash()] = &poolTx{tx: tx, from: from}
	return nil
}

// TransactionReceipt implements chain.Node, returning (nil, nil) for
// unmined hashes.
func (l *Ledger) TransactionReceipt(_ context.Context, txHash common.Hash) (*chain.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.receiptQueries[txHash]++
	if receipt, ok := l.receipts[txHash]; ok {
		return receipt, nil
	}
	return nil, nil
}

// TransactionByHash implements chain.Node. Replaced and dropped entries are
// unknown, as on a node that has forgotten them.
func (l *Ledger) TransactionByHash(_ context.Context, txHash common.Hash) (bool, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pool[txHash]; ok {
		return true, true, nil
	}
	if _, ok := l.mined[txHash]; ok {
		return true, false, nil
	}
	return false, false, nil
}

var _ chain.Node = (*Ledger)(nil)
