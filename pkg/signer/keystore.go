package signer

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
)

// FromKeystore decrypts a go-ethereum keystore file with the given
// passphrase and returns a signer for the contained key.
func FromKeystore(path, passphrase string) (Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	key, err := keystore.DecryptKey(data, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore file %s: %w", path, err)
	}

	return FromKey(key.PrivateKey), nil
}
