// Package signer signs 32-byte digests with secp256k1 keys and checks
// the resulting signatures.
package signer

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// secp256k1 curve order and its half, the EIP-2 malleability bound.
var (
	Secp256k1N     = uint256.MustFromHex("0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	Secp256k1HalfN = uint256.MustFromHex("0x7fffffffffffffffffffffffffffffff5d576e7357a4501ddfe92f46681b20a0")
)

var (
	ErrInvalidKey       = errors.New("invalid private key")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Signer produces 65-byte signatures laid out as r (32) || s (32) || v.
type Signer interface {
	// Address returns the address the signatures recover to.
	Address() common.Address
	// Sign signs a 32-byte digest.
	Sign(digest common.Hash) ([]byte, error)
}

// CheckSignature validates the shape of a 65-byte signature: r and s
// in [1, N), s at most N/2, and v one of 0, 1, 27, 28.
func CheckSignature(sig []byte) error {
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("%w: %d bytes", ErrInvalidSignature, len(sig))
	}

	r := new(uint256.Int).SetBytes(sig[:32])
	s := new(uint256.Int).SetBytes(sig[32:64])
	if r.IsZero() || r.Cmp(Secp256k1N) >= 0 {
		return fmt.Errorf("%w: r out of range", ErrInvalidSignature)
	}
	if s.IsZero() || s.Cmp(Secp256k1N) >= 0 {
		return fmt.Errorf("%w: s out of range", ErrInvalidSignature)
	}
	if s.Cmp(Secp256k1HalfN) > 0 {
		return fmt.Errorf("%w: s exceeds N/2", ErrInvalidSignature)
	}

	switch sig[64] {
	case 0, 1, 27, 28:
		return nil
	default:
		return fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig[64])
	}
}

// RecoverAddress recovers the signing address from a digest and a
// 65-byte signature in either v convention.
func RecoverAddress(digest common.Hash, sig []byte) (common.Address, error) {
	if err := CheckSignature(sig); err != nil {
		return common.Address{}, err
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pubKey, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// Verify reports whether sig over digest recovers to addr.
func Verify(digest common.Hash, sig []byte, addr common.Address) bool {
	recovered, err := RecoverAddress(digest, sig)
	if err != nil {
		return false
	}
	return recovered == addr
}
