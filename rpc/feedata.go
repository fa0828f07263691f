package rpc

import (
	"context"
	"errors"
	"math/big"
)

// defaultTip is the fixed priority fee used when pricing against the
// base fee, 1.5 gwei.
var defaultTip = big.NewInt(1_500_000_000)

// FeeData samples the current fee market. On EIP-1559 networks the
// latest base fee prices the caps: tip is a fixed 1.5 gwei and the fee
// cap is twice the base fee plus the tip, which survives six
// consecutive full blocks of base fee growth. Pre-London networks get
// only a gas price.
//
// The gas price and latest block are fetched independently; either one
// failing degrades to the other source, and an error is returned only
// when neither yields usable data.
func (c *Client) FeeData(ctx context.Context) (*FeeData, error) {
	gasPrice, priceErr := c.GasPrice(ctx)
	block, blockErr := c.GetBlockByNumber(ctx, BlockLatest)
	if priceErr != nil && blockErr != nil {
		return nil, errors.Join(priceErr, blockErr)
	}

	fd := &FeeData{}
	if priceErr == nil {
		fd.GasPrice = gasPrice
	}

	if blockErr == nil && block.BaseFee != nil {
		baseFee := block.BaseFee.ToInt()
		tip := new(big.Int).Set(defaultTip)
		cap := new(big.Int).Mul(baseFee, big.NewInt(2))
		cap.Add(cap, tip)

		fd.LastBaseFee = baseFee
		fd.MaxPriorityFeePerGas = tip
		fd.MaxFeePerGas = cap
		return fd, nil
	}

	// No base fee: only the gas price can position us.
	if priceErr != nil {
		return nil, priceErr
	}
	return fd, nil
}
