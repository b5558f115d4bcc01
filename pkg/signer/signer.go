// Package signer holds the signing port and local key implementations. Key
// custody beyond loading a key into memory is out of scope; anything that can
// produce an EIP-155 signature behind the Signer interface works with the
// engine.
package signer

import (
	"crypto/ecdsa"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs transactions for one account.
type Signer interface {
	// Address returns the signing account.
	Address() common.Address

	// SignTx returns the signed transaction. The input is not mutated; the
	// signed copy carries the final hash.
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// keySigner signs with an in-memory secp256k1 key.
type keySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// FromHexKey builds a signer from a hex-encoded private key, with or without
// a 0x prefix.
func FromHexKey(hexKey string) (Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, err
	}
	return FromKey(key), nil
}

// FromKey builds a signer from an already-parsed private key.
func FromKey(key *ecdsa.PrivateKey) Signer {
	return &keySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func (s *keySigner) Address() common.Address {
	return s.address
}

func (s *keySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
}
