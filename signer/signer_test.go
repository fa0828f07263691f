package signer

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Known test keys (DO NOT USE IN PRODUCTION)
var testPrivateKeys = []string{
	"b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291",
	"8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a",
}

func TestLocalSignerAddress(t *testing.T) {
	s, err := NewLocalSigner(testPrivateKeys[0])
	if err != nil {
		t.Fatalf("NewLocalSigner() error = %v", err)
	}

	key, _ := crypto.HexToECDSA(testPrivateKeys[0])
	want := crypto.PubkeyToAddress(key.PublicKey)
	if s.Address() != want {
		t.Errorf("Address() = %s, want %s", s.Address().Hex(), want.Hex())
	}

	// 0x prefix is accepted
	s2, err := NewLocalSigner("0x" + testPrivateKeys[0])
	if err != nil {
		t.Fatalf("NewLocalSigner() with prefix error = %v", err)
	}
	if s2.Address() != want {
		t.Errorf("Address() with prefix = %s, want %s", s2.Address().Hex(), want.Hex())
	}
}

func TestLocalSignerRejectsBadKey(t *testing.T) {
	if _, err := NewLocalSigner("not hex"); err == nil {
		t.Error("NewLocalSigner() should fail on invalid hex")
	}
	if _, err := NewLocalSigner(""); err == nil {
		t.Error("NewLocalSigner() should fail on empty key")
	}
}

func TestSignAndRecover(t *testing.T) {
	for _, keyHex := range testPrivateKeys {
		s, err := NewLocalSigner(keyHex)
		if err != nil {
			t.Fatalf("NewLocalSigner() error = %v", err)
		}

		digest := crypto.Keccak256Hash([]byte("test payload"))
		sig, err := s.Sign(digest)
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}

		if len(sig) != 65 {
			t.Fatalf("Sign() length = %d, want 65", len(sig))
		}
		if sig[64] != 27 && sig[64] != 28 {
			t.Errorf("Sign() v = %d, want 27 or 28", sig[64])
		}
		if err := CheckSignature(sig); err != nil {
			t.Errorf("CheckSignature() error = %v", err)
		}

		recovered, err := RecoverAddress(digest, sig)
		if err != nil {
			t.Fatalf("RecoverAddress() error = %v", err)
		}
		if recovered != s.Address() {
			t.Errorf("RecoverAddress() = %s, want %s", recovered.Hex(), s.Address().Hex())
		}

		if !Verify(digest, sig, s.Address()) {
			t.Error("Verify() = false for own signature")
		}
		if Verify(digest, sig, common.HexToAddress("0x1")) {
			t.Error("Verify() = true for wrong address")
		}
	}
}

func TestSignLowS(t *testing.T) {
	s, err := NewLocalSigner(testPrivateKeys[0])
	if err != nil {
		t.Fatalf("NewLocalSigner() error = %v", err)
	}

	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		sig, err := s.Sign(crypto.Keccak256Hash([]byte(msg)))
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		sVal := new(uint256.Int).SetBytes(sig[32:64])
		if sVal.Cmp(Secp256k1HalfN) > 0 {
			t.Errorf("Sign(%q) s = %s exceeds N/2", msg, sVal)
		}
	}
}

func TestCheckSignature(t *testing.T) {
	s, _ := NewLocalSigner(testPrivateKeys[0])
	digest := crypto.Keccak256Hash([]byte("x"))
	valid, _ := s.Sign(digest)

	highS := make([]byte, 65)
	copy(highS, valid)
	high := new(uint256.Int).Sub(Secp256k1N, uint256.NewInt(1))
	copy(highS[32:64], high.PaddedBytes(32))

	tests := []struct {
		name string
		sig  []byte
		ok   bool
	}{
		{"valid", valid, true},
		{"too short", valid[:64], false},
		{"too long", append(append([]byte{}, valid...), 0), false},
		{"zero r", append(make([]byte, 32), valid[32:]...), false},
		{"high s", highS, false},
		{"bad v", append(append([]byte{}, valid[:64]...), 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSignature(tt.sig)
			if (err == nil) != tt.ok {
				t.Errorf("CheckSignature() error = %v, ok = %v", err, tt.ok)
			}
		})
	}
}

func TestFromMnemonic(t *testing.T) {
	// Standard BIP-39 test mnemonic; the first account on
	// m/44'/60'/0'/0 is well known.
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	s, err := FromMnemonic(mnemonic, 0)
	if err != nil {
		t.Fatalf("FromMnemonic() error = %v", err)
	}

	want := common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	if s.Address() != want {
		t.Errorf("FromMnemonic() address = %s, want %s", s.Address().Hex(), want.Hex())
	}
}

func TestFromMnemonicNormalization(t *testing.T) {
	a, err := FromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", 0)
	if err != nil {
		t.Fatalf("FromMnemonic() error = %v", err)
	}
	b, err := FromMnemonic(strings.ToUpper("  abandon   abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about "), 0)
	if err != nil {
		t.Fatalf("FromMnemonic() error = %v", err)
	}
	if a.Address() != b.Address() {
		t.Errorf("normalized mnemonics disagree: %s vs %s", a.Address().Hex(), b.Address().Hex())
	}
}

func TestFromMnemonicAccountIndex(t *testing.T) {
	mnemonic := "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	a, _ := FromMnemonic(mnemonic, 0)
	b, _ := FromMnemonic(mnemonic, 1)
	if a.Address() == b.Address() {
		t.Error("different account indexes must derive different addresses")
	}
}
