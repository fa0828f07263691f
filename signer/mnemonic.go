package signer

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/pbkdf2"
)

// FromMnemonic derives a signer from a BIP-39 mnemonic along the
// Ethereum BIP-44 path m/44'/60'/0'/0/accountIndex.
func FromMnemonic(mnemonic string, accountIndex uint32) (*LocalSigner, error) {
	words := strings.Fields(strings.ToLower(mnemonic))
	normalized := strings.Join(words, " ")

	// BIP-39 seed: PBKDF2-HMAC-SHA512 with salt "mnemonic" + passphrase
	// (empty passphrase).
	seed := pbkdf2.Key([]byte(normalized), []byte("mnemonic"), 2048, 64, sha512.New)

	masterKey, chainCode := generateMasterKey(seed)

	path := []uint32{
		0x8000002C, // 44' (purpose)
		0x8000003C, // 60' (Ethereum coin type)
		0x80000000, // 0' (account)
		0x00000000, // 0 (external chain)
		accountIndex,
	}

	key := masterKey
	code := chainCode
	var err error
	for _, index := range path {
		key, code, err = deriveChildKey(key, code, index)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child key: %w", err)
		}
	}

	ecdsaKey, err := crypto.ToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return FromKey(ecdsaKey), nil
}

// generateMasterKey produces the BIP-32 master key and chain code.
func generateMasterKey(seed []byte) ([]byte, []byte) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	result := mac.Sum(nil)
	return result[:32], result[32:]
}

// deriveChildKey derives one BIP-32 child key from its parent.
func deriveChildKey(parentKey, chainCode []byte, index uint32) ([]byte, []byte, error) {
	var data []byte
	if index >= 0x80000000 {
		// Hardened child: 0x00 || parentKey || index
		data = make([]byte, 37)
		data[0] = 0x00
		copy(data[1:33], parentKey)
		binary.BigEndian.PutUint32(data[33:], index)
	} else {
		// Normal child: compressed parent public key || index
		parent, err := crypto.ToECDSA(parentKey)
		if err != nil {
			return nil, nil, err
		}
		data = make([]byte, 37)
		copy(data[:33], crypto.CompressPubkey(&parent.PublicKey))
		binary.BigEndian.PutUint32(data[33:], index)
	}

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	result := mac.Sum(nil)

	// Child key = (IL + parentKey) mod n
	il := new(big.Int).SetBytes(result[:32])
	pk := new(big.Int).SetBytes(parentKey)

	childKey := new(big.Int).Add(il, pk)
	childKey.Mod(childKey, crypto.S256().Params().N)

	keyBytes := childKey.Bytes()
	if len(keyBytes) < 32 {
		padded := make([]byte, 32)
		copy(padded[32-len(keyBytes):], keyBytes)
		keyBytes = padded
	}

	return keyBytes, result[32:], nil
}
