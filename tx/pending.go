package tx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/stable-net/evmkit/rpc"
)

// defaultPollInterval is how often Wait polls for a receipt.
const defaultPollInterval = 2 * time.Second

// PendingTransaction is a broadcast transaction awaiting inclusion.
type PendingTransaction struct {
	client   *rpc.Client
	hash     common.Hash
	raw      []byte
	interval time.Duration
	log      zerolog.Logger
}

func newPendingTransaction(client *rpc.Client, hash common.Hash, raw []byte, log zerolog.Logger) *PendingTransaction {
	return &PendingTransaction{
		client:   client,
		hash:     hash,
		raw:      raw,
		interval: defaultPollInterval,
		log:      log,
	}
}

// Hash returns the transaction hash.
func (p *PendingTransaction) Hash() common.Hash {
	return p.hash
}

// Raw returns the signed raw transaction bytes.
func (p *PendingTransaction) Raw() []byte {
	out := make([]byte, len(p.raw))
	copy(out, p.raw)
	return out
}

// SetPollInterval changes the receipt polling interval.
func (p *PendingTransaction) SetPollInterval(d time.Duration) {
	p.interval = d
}

// Status checks the current lifecycle state without blocking.
func (p *PendingTransaction) Status(ctx context.Context) (Status, error) {
	receipt, err := p.client.GetTransactionReceipt(ctx, p.hash)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return StatusPending, nil
		}
		return StatusPending, err
	}
	if receipt.Succeeded() {
		return StatusConfirmed, nil
	}
	return StatusReverted, nil
}

// Wait polls for the receipt until the transaction is mined. There is
// no internal timeout: the caller bounds the wait through ctx.
func (p *PendingTransaction) Wait(ctx context.Context) (*rpc.Receipt, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		receipt, err := p.client.GetTransactionReceipt(ctx, p.hash)
		if err == nil {
			p.log.Debug().
				Str("hash", p.hash.Hex()).
				Uint64("block", receipt.BlockNumber.ToInt().Uint64()).
				Uint64("status", uint64(receipt.Status)).
				Msg("transaction mined")
			return receipt, nil
		}
		if !errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("failed to get receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
