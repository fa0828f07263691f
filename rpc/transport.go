// Package rpc implements a JSON-RPC 2.0 client for Ethereum nodes over
// a pluggable transport.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// Response is a JSON-RPC 2.0 response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Error is a JSON-RPC error object returned by the node.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// IsMethodNotFound reports whether the node rejected the method as
// unknown. Chains that predate a method answer this way.
func (e *Error) IsMethodNotFound() bool {
	return e.Code == -32601
}

// Transport delivers a single JSON-RPC call and returns the raw result.
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, method string, params []interface{}) (json.RawMessage, error)
}

// HTTPTransport is the HTTP POST transport. Request IDs are assigned
// from an atomic counter so concurrent callers never collide.
type HTTPTransport struct {
	url        string
	httpClient *http.Client
	nextID     atomic.Uint64
	log        zerolog.Logger
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) { t.httpClient = c }
}

// WithLogger attaches a logger to the transport. The default discards
// everything.
func WithLogger(log zerolog.Logger) HTTPOption {
	return func(t *HTTPTransport) { t.log = log }
}

// NewHTTPTransport creates a transport for the given endpoint URL.
func NewHTTPTransport(url string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send performs one JSON-RPC call.
func (t *HTTPTransport) Send(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      t.nextID.Add(1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	t.log.Debug().Str("method", method).Uint64("id", req.ID).Msg("rpc call")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp Response
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC response: %w", err)
	}
	if rpcResp.Error != nil {
		t.log.Debug().Str("method", method).Int("code", rpcResp.Error.Code).
			Str("message", rpcResp.Error.Message).Msg("rpc error")
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}
