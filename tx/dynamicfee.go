package tx

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// DynamicFeeTx is an EIP-1559 (type 2) transaction. The wire form is
// 0x02 || rlp([chainId, nonce, maxPriorityFeePerGas, maxFeePerGas,
// gasLimit, to, value, data, accessList, yParity, r, s]).
type DynamicFeeTx struct {
	ChainID    *uint256.Int
	Nonce      uint64
	GasTipCap  *uint256.Int
	GasFeeCap  *uint256.Int
	Gas        uint64
	To         *common.Address
	Value      *uint256.Int
	Data       []byte
	AccessList []AccessTuple

	V *uint256.Int
	R *uint256.Int
	S *uint256.Int
}

// toField renders To for RLP. A nil recipient, meaning contract
// creation, encodes as the empty string.
func (t *DynamicFeeTx) toField() interface{} {
	if t.To == nil {
		return []byte{}
	}
	return *t.To
}

func (t *DynamicFeeTx) accessListField() []AccessTuple {
	if t.AccessList == nil {
		return []AccessTuple{}
	}
	return t.AccessList
}

// SigHash computes the digest the sender signs:
// keccak256(0x02 || rlp(unsigned fields)).
func (t *DynamicFeeTx) SigHash() (common.Hash, error) {
	unsignedRLP, err := rlp.EncodeToBytes([]interface{}{
		t.ChainID,
		t.Nonce,
		t.GasTipCap,
		t.GasFeeCap,
		t.Gas,
		t.toField(),
		t.Value,
		t.Data,
		t.accessListField(),
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode unsigned tx: %w", err)
	}
	return crypto.Keccak256Hash(append([]byte{DynamicFeeTxType}, unsignedRLP...)), nil
}

// WithSignature splits a 65-byte r || s || v signature into the
// transaction. v in 27/28 form is normalized to the 0/1 y parity the
// wire format requires.
func (t *DynamicFeeTx) WithSignature(sig []byte) error {
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("invalid signature length %d", len(sig))
	}

	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return fmt.Errorf("%w: %d", ErrInvalidYParity, sig[64])
	}

	t.R = new(uint256.Int).SetBytes(sig[:32])
	t.S = new(uint256.Int).SetBytes(sig[32:64])
	t.V = uint256.NewInt(uint64(v))
	return nil
}

// Raw encodes the signed transaction for eth_sendRawTransaction.
func (t *DynamicFeeTx) Raw() ([]byte, error) {
	if t.V == nil || t.R == nil || t.S == nil {
		return nil, fmt.Errorf("transaction is not signed")
	}

	signedRLP, err := rlp.EncodeToBytes([]interface{}{
		t.ChainID,
		t.Nonce,
		t.GasTipCap,
		t.GasFeeCap,
		t.Gas,
		t.toField(),
		t.Value,
		t.Data,
		t.accessListField(),
		t.V,
		t.R,
		t.S,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode signed tx: %w", err)
	}
	return append([]byte{DynamicFeeTxType}, signedRLP...), nil
}

// Hash is the transaction hash, keccak256 of the raw encoding.
func (t *DynamicFeeTx) Hash() (common.Hash, error) {
	raw, err := t.Raw()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(raw), nil
}
