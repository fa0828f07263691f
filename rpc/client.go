package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when the node answers null for a lookup,
// such as a receipt for a transaction that is not yet mined.
var ErrNotFound = errors.New("not found")

// Client exposes typed accessors over a Transport.
type Client struct {
	transport Transport
	log       zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger attaches a logger to the client.
func WithClientLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient wraps a transport.
func NewClient(transport Transport, opts ...ClientOption) *Client {
	c := &Client{transport: transport, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial is shorthand for NewClient over an HTTP transport.
func Dial(url string, opts ...ClientOption) *Client {
	return NewClient(NewHTTPTransport(url), opts...)
}

// Call performs a raw JSON-RPC call and unmarshals the result into
// out. A nil out discards the result.
func (c *Client) Call(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	result, err := c.transport.Send(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if string(result) == "null" {
		return fmt.Errorf("%w: %s", ErrNotFound, method)
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("%s: decoding result: %w", method, err)
	}
	return nil
}

// callQuantity fetches a hex quantity result as a big.Int.
func (c *Client) callQuantity(ctx context.Context, method string, params ...interface{}) (*big.Int, error) {
	var raw string
	if err := c.Call(ctx, &raw, method, params...); err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(raw, "0x"), 16)
	if !ok {
		return nil, fmt.Errorf("%s: invalid quantity %q", method, raw)
	}
	return n, nil
}

// ChainID returns the network chain ID.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	return c.callQuantity(ctx, "eth_chainId")
}

// BlockNumber returns the number of the most recent block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.callQuantity(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GetBalance returns the wei balance of addr at the given block tag.
func (c *Client) GetBalance(ctx context.Context, addr common.Address, block string) (*big.Int, error) {
	return c.callQuantity(ctx, "eth_getBalance", addr.Hex(), block)
}

// GetNonce returns the pending transaction count for addr, so queued
// transactions are accounted for when picking the next nonce.
func (c *Client) GetNonce(ctx context.Context, addr common.Address) (uint64, error) {
	n, err := c.callQuantity(ctx, "eth_getTransactionCount", addr.Hex(), BlockPending)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the node's gas price suggestion.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	return c.callQuantity(ctx, "eth_gasPrice")
}

// MaxPriorityFeePerGas returns the node's tip suggestion. Chains that
// do not implement eth_maxPriorityFeePerGas get a 1 gwei fallback;
// every other failure propagates.
func (c *Client) MaxPriorityFeePerGas(ctx context.Context) (*big.Int, error) {
	fee, err := c.callQuantity(ctx, "eth_maxPriorityFeePerGas")
	if err != nil {
		var rpcErr *Error
		if errors.As(err, &rpcErr) && rpcErr.IsMethodNotFound() {
			return big.NewInt(1_000_000_000), nil
		}
		return nil, err
	}
	return fee, nil
}

// GetBlockByNumber fetches a block by number or tag with transaction
// hashes only.
func (c *Client) GetBlockByNumber(ctx context.Context, block string) (*Block, error) {
	var b Block
	if err := c.Call(ctx, &b, "eth_getBlockByNumber", block, false); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBlockByHash fetches a block by hash with transaction hashes only.
func (c *Client) GetBlockByHash(ctx context.Context, hash common.Hash) (*Block, error) {
	var b Block
	if err := c.Call(ctx, &b, "eth_getBlockByHash", hash.Hex(), false); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetTransactionByHash fetches a transaction. ErrNotFound is returned
// for unknown hashes.
func (c *Client) GetTransactionByHash(ctx context.Context, hash common.Hash) (*Transaction, error) {
	var tx Transaction
	if err := c.Call(ctx, &tx, "eth_getTransactionByHash", hash.Hex()); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetTransactionReceipt fetches a receipt. ErrNotFound is returned
// while the transaction is still pending.
func (c *Client) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*Receipt, error) {
	var r Receipt
	if err := c.Call(ctx, &r, "eth_getTransactionReceipt", hash.Hex()); err != nil {
		return nil, err
	}
	return &r, nil
}

// CallContract executes a read-only call at the given block tag and
// returns the raw return data.
func (c *Client) CallContract(ctx context.Context, msg CallMsg, block string) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.Call(ctx, &out, "eth_call", msg, block); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateGas asks the node to estimate gas for msg.
func (c *Client) EstimateGas(ctx context.Context, msg CallMsg) (uint64, error) {
	var raw string
	if err := c.Call(ctx, &raw, "eth_estimateGas", msg); err != nil {
		return 0, err
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(raw, "0x"), 16)
	if !ok {
		return 0, fmt.Errorf("eth_estimateGas: invalid quantity %q", raw)
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns
// its hash.
func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.Call(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(rawTx)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// GetCode returns the code at addr.
func (c *Client) GetCode(ctx context.Context, addr common.Address, block string) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.Call(ctx, &out, "eth_getCode", addr.Hex(), block); err != nil {
		return nil, err
	}
	return out, nil
}

// GetStorageAt returns the storage word at the given slot.
func (c *Client) GetStorageAt(ctx context.Context, addr common.Address, slot common.Hash, block string) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.Call(ctx, &out, "eth_getStorageAt", addr.Hex(), slot.Hex(), block); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLogs fetches logs matching the filter.
func (c *Client) GetLogs(ctx context.Context, q FilterQuery) ([]Log, error) {
	var logs []Log
	if err := c.Call(ctx, &logs, "eth_getLogs", q); err != nil {
		return nil, err
	}
	return logs, nil
}

// NewFilter installs a log filter on the node and returns its id.
func (c *Client) NewFilter(ctx context.Context, q FilterQuery) (string, error) {
	var id string
	if err := c.Call(ctx, &id, "eth_newFilter", q); err != nil {
		return "", err
	}
	return id, nil
}

// GetFilterChanges returns the logs that arrived since the filter was
// last polled.
func (c *Client) GetFilterChanges(ctx context.Context, id string) ([]Log, error) {
	var logs []Log
	if err := c.Call(ctx, &logs, "eth_getFilterChanges", id); err != nil {
		return nil, err
	}
	return logs, nil
}

// UninstallFilter removes a filter from the node.
func (c *Client) UninstallFilter(ctx context.Context, id string) (bool, error) {
	var removed bool
	if err := c.Call(ctx, &removed, "eth_uninstallFilter", id); err != nil {
		return false, err
	}
	return removed, nil
}

// NetVersion returns the network id as a decimal string.
func (c *Client) NetVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.Call(ctx, &version, "net_version"); err != nil {
		return "", err
	}
	return version, nil
}

// NetListening reports whether the node accepts connections.
func (c *Client) NetListening(ctx context.Context) (bool, error) {
	var listening bool
	if err := c.Call(ctx, &listening, "net_listening"); err != nil {
		return false, err
	}
	return listening, nil
}

// NetPeerCount returns the number of connected peers.
func (c *Client) NetPeerCount(ctx context.Context) (uint64, error) {
	n, err := c.callQuantity(ctx, "net_peerCount")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// ClientVersion returns the node's software version string.
func (c *Client) ClientVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.Call(ctx, &version, "web3_clientVersion"); err != nil {
		return "", err
	}
	return version, nil
}

// Sha3 asks the node for the keccak-256 hash of data.
func (c *Client) Sha3(ctx context.Context, data []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.Call(ctx, &hash, "web3_sha3", hexutil.Encode(data)); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}
