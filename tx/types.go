// Package tx builds, signs and broadcasts EIP-1559 transactions.
package tx

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transaction type identifiers.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
)

var (
	ErrNoSigner       = errors.New("no signer configured")
	ErrGasLimitTooLow = errors.New("gas limit below intrinsic cost")
	ErrFeeCapTooLow   = errors.New("max fee per gas below priority fee")
	ErrInvalidYParity = errors.New("invalid signature y parity")
	ErrHashMismatch   = errors.New("node returned unexpected transaction hash")
	ErrMissingChainID = errors.New("chain ID not set")
	ErrNegativeValue  = errors.New("negative transaction value")
)

// AccessTuple is one entry of an EIP-2930 access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// Params describes a transaction to send. Nil fields are resolved
// from the network: the nonce from the pending transaction count, the
// fees from the current fee market and the gas limit from
// eth_estimateGas. To is nil for contract deployments.
type Params struct {
	To                   *common.Address
	Value                *big.Int
	Data                 []byte
	Nonce                *uint64
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	AccessList           []AccessTuple
}

// Status is the lifecycle state of a sent transaction.
type Status int

const (
	// StatusPending means the transaction was accepted by the node but
	// has no receipt yet.
	StatusPending Status = iota
	// StatusConfirmed means the transaction was mined and executed
	// without revert.
	StatusConfirmed
	// StatusReverted means the transaction was mined but its execution
	// reverted.
	StatusReverted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConfirmed:
		return "confirmed"
	case StatusReverted:
		return "reverted"
	default:
		return "unknown"
	}
}
