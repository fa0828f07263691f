package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// LocalSigner signs with an in-memory secp256k1 private key.
type LocalSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewLocalSigner parses a hex-encoded private key, with or without the
// 0x prefix.
func NewLocalSigner(privateKeyHex string) (*LocalSigner, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return FromKey(key), nil
}

// FromKey wraps an existing private key.
func FromKey(key *ecdsa.PrivateKey) *LocalSigner {
	publicKey := key.Public().(*ecdsa.PublicKey)
	return &LocalSigner{
		key:     key,
		address: crypto.PubkeyToAddress(*publicKey),
	}
}

// Address returns the address derived from the key.
func (s *LocalSigner) Address() common.Address {
	return s.address
}

// Sign signs a 32-byte digest and returns r || s || v with v in 27/28
// form.
func (s *LocalSigner) Sign(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	sig[64] += 27
	return sig, nil
}
