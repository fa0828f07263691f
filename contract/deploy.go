package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/evmkit/abi"
	"github.com/stable-net/evmkit/rpc"
	"github.com/stable-net/evmkit/tx"
)

var ErrDeployFailed = errors.New("deployment reverted")

// Deployment is an in-flight contract deployment.
type Deployment struct {
	pending *tx.PendingTransaction
	items   []abi.Item
	sender  *tx.SigningClient
}

// Pending returns the underlying pending transaction.
func (d *Deployment) Pending() *tx.PendingTransaction {
	return d.pending
}

// Hash returns the deployment transaction hash.
func (d *Deployment) Hash() common.Hash {
	return d.pending.Hash()
}

// Wait blocks until the deployment is mined and returns the bound
// contract at its new address.
func (d *Deployment) Wait(ctx context.Context) (*Contract, *rpc.Receipt, error) {
	receipt, err := d.pending.Wait(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !receipt.Succeeded() {
		return nil, receipt, fmt.Errorf("%w: tx %s", ErrDeployFailed, d.pending.Hash().Hex())
	}
	if receipt.ContractAddress == nil {
		return nil, receipt, fmt.Errorf("receipt for %s has no contract address", d.pending.Hash().Hex())
	}

	c := &Contract{
		address: *receipt.ContractAddress,
		items:   d.items,
		reader:  d.sender.Client(),
		sender:  d.sender,
	}
	return c, receipt, nil
}

// Deploy sends a contract creation transaction. The init data is the
// creation bytecode followed by the encoded constructor arguments;
// with no constructor arguments the data is the bytecode alone.
func Deploy(ctx context.Context, sender *tx.SigningClient, abiJSON []byte, bytecode []byte, opts TxOpts, args ...interface{}) (*Deployment, error) {
	items, err := abi.ParseJSON(abiJSON)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(bytecode))
	copy(data, bytecode)

	ctor, hasCtor := abi.FindConstructor(items)
	switch {
	case hasCtor:
		encoded, err := abi.EncodeParams(ctor.Inputs, args)
		if err != nil {
			return nil, fmt.Errorf("encoding constructor args: %w", err)
		}
		data = append(data, encoded...)
	case len(args) != 0:
		return nil, fmt.Errorf("%w: %d args for contract without constructor",
			abi.ErrArgumentCountMismatch, len(args))
	}

	pending, err := sender.SendTransaction(ctx, tx.Params{
		Value:                opts.Value,
		Data:                 data,
		GasLimit:             opts.GasLimit,
		Nonce:                opts.Nonce,
		MaxFeePerGas:         opts.MaxFeePerGas,
		MaxPriorityFeePerGas: opts.MaxPriorityFeePerGas,
	})
	if err != nil {
		return nil, err
	}

	return &Deployment{pending: pending, items: items, sender: sender}, nil
}
