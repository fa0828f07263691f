// Package contract binds parsed ABIs to on-chain addresses and
// dispatches calls through them.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/stable-net/evmkit/abi"
	"github.com/stable-net/evmkit/rpc"
	"github.com/stable-net/evmkit/tx"
)

var (
	ErrNoSigner     = errors.New("contract has no signing client")
	ErrNotAFunction = errors.New("not a callable function")
)

// Contract is an ABI bound to a deployed address. Reads need only an
// RPC client; state-changing calls additionally need a signing client.
type Contract struct {
	address common.Address
	items   []abi.Item
	reader  *rpc.Client
	sender  *tx.SigningClient
	log     zerolog.Logger
}

// Option configures a Contract.
type Option func(*Contract)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Contract) { c.log = log }
}

// NewReader binds an ABI for read-only access.
func NewReader(address common.Address, abiJSON []byte, reader *rpc.Client, opts ...Option) (*Contract, error) {
	items, err := abi.ParseJSON(abiJSON)
	if err != nil {
		return nil, err
	}
	c := &Contract{address: address, items: items, reader: reader, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// New binds an ABI with full read and write access.
func New(address common.Address, abiJSON []byte, sender *tx.SigningClient, opts ...Option) (*Contract, error) {
	c, err := NewReader(address, abiJSON, sender.Client(), opts...)
	if err != nil {
		return nil, err
	}
	c.sender = sender
	return c, nil
}

// Address returns the bound address.
func (c *Contract) Address() common.Address {
	return c.address
}

// Items returns the parsed ABI entries.
func (c *Contract) Items() []abi.Item {
	return c.items
}

// Function finds the first function overload with the given name, or
// an exact canonical signature such as "transfer(address,uint256)".
func (c *Contract) Function(nameOrSig string) (abi.Item, error) {
	if item, err := abi.FindBySignature(c.items, nameOrSig); err == nil {
		return item, nil
	}
	return abi.FindFunction(c.items, nameOrSig)
}

// TxOpts overrides transaction fields for state-changing calls.
type TxOpts struct {
	Value                *big.Int
	GasLimit             uint64
	Nonce                *uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// CallResult is the outcome of a dispatched call. Reads carry decoded
// Values; writes carry the mined transaction and its receipt.
type CallResult struct {
	Values  []abi.Value
	Pending *tx.PendingTransaction
	Receipt *rpc.Receipt
}

// Call dispatches on the function's state mutability: view and pure
// functions are executed with eth_call and decoded, everything else is
// sent as a transaction with default options and waited on until the
// receipt arrives. Use Transact to send without blocking.
func (c *Contract) Call(ctx context.Context, nameOrSig string, args ...interface{}) (*CallResult, error) {
	item, err := c.Function(nameOrSig)
	if err != nil {
		return nil, err
	}
	if item.IsReadOnly() {
		values, err := c.read(ctx, item, args)
		if err != nil {
			return nil, err
		}
		return &CallResult{Values: values}, nil
	}
	pending, err := c.transact(ctx, item, TxOpts{}, args)
	if err != nil {
		return nil, err
	}
	receipt, err := pending.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return &CallResult{Pending: pending, Receipt: receipt}, nil
}

// Read executes a view or pure function and decodes its outputs.
func (c *Contract) Read(ctx context.Context, nameOrSig string, args ...interface{}) ([]abi.Value, error) {
	item, err := c.Function(nameOrSig)
	if err != nil {
		return nil, err
	}
	return c.read(ctx, item, args)
}

// Transact sends a state-changing call as a transaction.
func (c *Contract) Transact(ctx context.Context, opts TxOpts, nameOrSig string, args ...interface{}) (*tx.PendingTransaction, error) {
	item, err := c.Function(nameOrSig)
	if err != nil {
		return nil, err
	}
	return c.transact(ctx, item, opts, args)
}

func (c *Contract) read(ctx context.Context, item abi.Item, args []interface{}) ([]abi.Value, error) {
	if item.Kind != abi.KindFunction {
		return nil, fmt.Errorf("%w: %s", ErrNotAFunction, item.Name)
	}

	calldata, err := abi.EncodeCall(item, args)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("contract", c.address.Hex()).
		Str("function", item.Signature()).Msg("eth_call")

	to := c.address
	out, err := c.reader.CallContract(ctx, rpc.CallMsg{To: &to, Data: calldata}, rpc.BlockLatest)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", item.Signature(), err)
	}
	if len(item.Outputs) == 0 {
		return nil, nil
	}
	return abi.DecodeResult(item, out)
}

func (c *Contract) transact(ctx context.Context, item abi.Item, opts TxOpts, args []interface{}) (*tx.PendingTransaction, error) {
	if c.sender == nil {
		return nil, ErrNoSigner
	}
	if item.Kind != abi.KindFunction {
		return nil, fmt.Errorf("%w: %s", ErrNotAFunction, item.Name)
	}
	if opts.Value != nil && opts.Value.Sign() > 0 && !item.IsPayable() {
		return nil, fmt.Errorf("function %s is not payable", item.Signature())
	}

	calldata, err := abi.EncodeCall(item, args)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("contract", c.address.Hex()).
		Str("function", item.Signature()).Msg("sending transaction")

	to := c.address
	return c.sender.SendTransaction(ctx, tx.Params{
		To:                   &to,
		Value:                opts.Value,
		Data:                 calldata,
		GasLimit:             opts.GasLimit,
		Nonce:                opts.Nonce,
		MaxFeePerGas:         opts.MaxFeePerGas,
		MaxPriorityFeePerGas: opts.MaxPriorityFeePerGas,
	})
}
