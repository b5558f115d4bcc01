// Package ethrpc adapts a go-ethereum JSON-RPC endpoint to the chain.Node
// port. It classifies server rejections into the chain error taxonomy and
// caches mined receipts so they are fetched at most once per process.
package ethrpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	lru "github.com/hashicorp/golang-lru"

	"github.com/altuslabsxyz/txforge/pkg/chain"
)

// receiptCacheSize bounds the per-process receipt cache. Receipts are
// immutable once mined, so eviction only costs a refetch.
const receiptCacheSize = 512

// Client implements chain.Node over an ethclient connection.
type Client struct {
	rpcURL   string
	client   *ethclient.Client
	chainID  *big.Int
	receipts *lru.Cache
}

// Dial connects to the RPC endpoint and caches the chain ID.
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to node %s: %w", rpcURL, chain.ErrNodeUnavailable)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", wrapTransport(err))
	}

	receipts, err := lru.New(receiptCacheSize)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Client{
		rpcURL:   rpcURL,
		client:   client,
		chainID:  chainID,
		receipts: receipts,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.client.Close()
}

// ChainID returns the chain ID cached at dial time.
func (c *Client) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

// BlockNumber returns the current head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.client.BlockNumber(ctx)
	if err != nil {
		return 0, wrapTransport(err)
	}
	return n, nil
}

// BalanceAt returns the account's current balance.
func (c *Client) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, wrapTransport(err)
	}
	return balance, nil
}

// PendingNonceAt returns the account's next nonce including the mempool.
func (c *Client) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.client.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, wrapTransport(err)
	}
	return nonce, nil
}

// LatestNonceAt returns the account's transaction count at the head block,
// excluding the mempool. Not part of chain.Node: only diagnostics compare
// the confirmed count against the pending one.
func (c *Client) LatestNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.client.NonceAt(ctx, account, nil)
	if err != nil {
		return 0, wrapTransport(err)
	}
	return nonce, nil
}

// SuggestGasPrice returns the node's fee recommendation.
func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, wrapTransport(err)
	}
	return price, nil
}

// EstimateGas simulates the call. A revert indication is reported as
// chain.ErrEstimationRevert so callers can distinguish it from node trouble.
func (c *Client) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, classifyEstimateError(err)
	}
	return gas, nil
}

// SendTransaction submits the signed transaction and classifies rejections.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.client.SendTransaction(ctx, tx); err != nil {
		return classifySendError(err)
	}
	return nil
}

// TransactionReceipt returns the receipt, or (nil, nil) while unmined. Mined
// receipts are served from the cache on repeat lookups.
func (c *Client) TransactionReceipt(ctx context.Context, txHash common.Hash) (*chain.Receipt, error) {
	if cached, ok := c.receipts.Get(txHash); ok {
		return cached.(*chain.Receipt), nil
	}

	receipt, err := c.client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if err == ethereum.NotFound {
			return nil, nil
		}
		return nil, wrapTransport(err)
	}

	converted := chain.ReceiptFromTypes(receipt)
	c.receipts.Add(txHash, converted)
	return converted, nil
}

// TransactionByHash reports mempool presence for the hash.
func (c *Client) TransactionByHash(ctx context.Context, txHash common.Hash) (bool, bool, error) {
	_, pending, err := c.client.TransactionByHash(ctx, txHash)
	if err != nil {
		if err == ethereum.NotFound {
			return false, false, nil
		}
		return false, false, wrapTransport(err)
	}
	return true, pending, nil
}

var _ chain.Node = (*Client)(nil)
