package tx

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/stable-net/evmkit/rpc"
	"github.com/stable-net/evmkit/signer"
)

// SigningClient combines an RPC client with a signer and sends
// EIP-1559 transactions. All transactions are type 2: fees are always
// expressed as a priority fee and a fee cap.
type SigningClient struct {
	client       *rpc.Client
	signer       signer.Signer
	chainID      *big.Int
	pollInterval time.Duration
	log          zerolog.Logger
}

// SigningOption configures a SigningClient.
type SigningOption func(*SigningClient)

// WithChainID pins the chain ID instead of querying the node.
func WithChainID(chainID *big.Int) SigningOption {
	return func(c *SigningClient) { c.chainID = new(big.Int).Set(chainID) }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) SigningOption {
	return func(c *SigningClient) { c.log = log }
}

// WithPollInterval sets the receipt polling interval for the pending
// transactions this client produces.
func WithPollInterval(d time.Duration) SigningOption {
	return func(c *SigningClient) { c.pollInterval = d }
}

// NewSigningClient builds a signing client. The chain ID is fetched
// from the node unless pinned with WithChainID.
func NewSigningClient(ctx context.Context, client *rpc.Client, s signer.Signer, opts ...SigningOption) (*SigningClient, error) {
	if s == nil {
		return nil, ErrNoSigner
	}
	c := &SigningClient{client: client, signer: s, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.chainID == nil {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get chain ID: %w", err)
		}
		c.chainID = chainID
	}
	return c, nil
}

// Address returns the sending address.
func (c *SigningClient) Address() common.Address {
	return c.signer.Address()
}

// ChainID returns the chain ID transactions are bound to.
func (c *SigningClient) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// Client returns the underlying RPC client.
func (c *SigningClient) Client() *rpc.Client {
	return c.client
}

// SendTransaction resolves the missing fields of params, signs the
// transaction and broadcasts it. The returned PendingTransaction can
// be waited on for the receipt.
func (c *SigningClient) SendTransaction(ctx context.Context, params Params) (*PendingTransaction, error) {
	if c.chainID == nil {
		return nil, ErrMissingChainID
	}

	value := params.Value
	if value == nil {
		value = new(big.Int)
	}
	if value.Sign() < 0 {
		return nil, ErrNegativeValue
	}

	from := c.signer.Address()

	nonce, err := c.resolveNonce(ctx, params)
	if err != nil {
		return nil, err
	}

	tip, feeCap, err := c.resolveFees(ctx, params)
	if err != nil {
		return nil, err
	}

	gasLimit, err := c.resolveGasLimit(ctx, params, from, value)
	if err != nil {
		return nil, err
	}

	t := &DynamicFeeTx{
		ChainID:    uint256.MustFromBig(c.chainID),
		Nonce:      nonce,
		GasTipCap:  uint256.MustFromBig(tip),
		GasFeeCap:  uint256.MustFromBig(feeCap),
		Gas:        gasLimit,
		To:         params.To,
		Value:      uint256.MustFromBig(value),
		Data:       params.Data,
		AccessList: params.AccessList,
	}

	sigHash, err := t.SigHash()
	if err != nil {
		return nil, err
	}
	sig, err := c.signer.Sign(sigHash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := signer.CheckSignature(sig); err != nil {
		return nil, err
	}
	if err := t.WithSignature(sig); err != nil {
		return nil, err
	}

	raw, err := t.Raw()
	if err != nil {
		return nil, err
	}
	hash, err := t.Hash()
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("from", from.Hex()).
		Uint64("nonce", nonce).
		Str("tip", tip.String()).
		Str("feeCap", feeCap.String()).
		Uint64("gas", gasLimit).
		Str("hash", hash.Hex()).
		Msg("sending transaction")

	sentHash, err := c.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	if sentHash != hash {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, sentHash.Hex(), hash.Hex())
	}

	pending := newPendingTransaction(c.client, hash, raw, c.log)
	if c.pollInterval > 0 {
		pending.SetPollInterval(c.pollInterval)
	}
	return pending, nil
}

// resolveNonce uses the explicit nonce when given, otherwise the
// pending transaction count.
func (c *SigningClient) resolveNonce(ctx context.Context, params Params) (uint64, error) {
	if params.Nonce != nil {
		return *params.Nonce, nil
	}
	nonce, err := c.client.GetNonce(ctx, c.signer.Address())
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", err)
	}
	return nonce, nil
}

// resolveFees produces the priority fee and fee cap. Both explicit win
// as given. With only the priority fee explicit the cap is the current
// gas price plus that tip; with only the cap explicit the tip comes
// from the node's suggestion. With neither, the FeeData heuristic
// prices both on EIP-1559 networks, and legacy networks get the node's
// tip suggestion with the cap at twice the gas price.
func (c *SigningClient) resolveFees(ctx context.Context, params Params) (tip, feeCap *big.Int, err error) {
	tip = params.MaxPriorityFeePerGas
	feeCap = params.MaxFeePerGas

	switch {
	case tip != nil && feeCap != nil:

	case tip != nil:
		gasPrice, err := c.client.GasPrice(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get gas price: %w", err)
		}
		feeCap = new(big.Int).Add(gasPrice, tip)

	case feeCap != nil:
		tip, err = c.client.MaxPriorityFeePerGas(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get priority fee: %w", err)
		}

	default:
		fd, err := c.client.FeeData(ctx)
		if err != nil {
			return nil, nil, err
		}
		if fd.MaxFeePerGas != nil {
			tip = fd.MaxPriorityFeePerGas
			feeCap = fd.MaxFeePerGas
		} else {
			tip, err = c.client.MaxPriorityFeePerGas(ctx)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to get priority fee: %w", err)
			}
			feeCap = new(big.Int).Mul(fd.GasPrice, big.NewInt(2))
		}
	}

	if feeCap.Cmp(tip) < 0 {
		return nil, nil, fmt.Errorf("%w: cap %s, tip %s", ErrFeeCapTooLow, feeCap, tip)
	}
	return tip, feeCap, nil
}

// resolveGasLimit validates an explicit gas limit against the
// intrinsic cost, or asks the node to estimate one.
func (c *SigningClient) resolveGasLimit(ctx context.Context, params Params, from common.Address, value *big.Int) (uint64, error) {
	if params.GasLimit != 0 {
		if floor := IntrinsicGas(params.Data, params.AccessList); params.GasLimit < floor {
			return 0, fmt.Errorf("%w: have %d, need %d", ErrGasLimitTooLow, params.GasLimit, floor)
		}
		return params.GasLimit, nil
	}

	msg := rpc.CallMsg{
		From:  &from,
		To:    params.To,
		Value: value,
		Data:  params.Data,
	}
	gas, err := c.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("failed to estimate gas: %w", err)
	}
	return gas, nil
}
