package rpc

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block tags accepted wherever a block parameter is expected.
const (
	BlockLatest    = "latest"
	BlockPending   = "pending"
	BlockEarliest  = "earliest"
	BlockSafe      = "safe"
	BlockFinalized = "finalized"
)

// Block is a block as returned by eth_getBlockByNumber with
// transaction hashes only.
type Block struct {
	Number       *hexutil.Big   `json:"number"`
	Hash         common.Hash    `json:"hash"`
	ParentHash   common.Hash    `json:"parentHash"`
	Miner        common.Address `json:"miner"`
	GasLimit     hexutil.Uint64 `json:"gasLimit"`
	GasUsed      hexutil.Uint64 `json:"gasUsed"`
	Timestamp    hexutil.Uint64 `json:"timestamp"`
	BaseFee      *hexutil.Big   `json:"baseFeePerGas"`
	Transactions []common.Hash  `json:"transactions"`
}

// Transaction is a transaction as returned by eth_getTransactionByHash.
type Transaction struct {
	Hash                 common.Hash     `json:"hash"`
	BlockHash            *common.Hash    `json:"blockHash"`
	BlockNumber          *hexutil.Big    `json:"blockNumber"`
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Nonce                hexutil.Uint64  `json:"nonce"`
	Gas                  hexutil.Uint64  `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"`
	Input                hexutil.Bytes   `json:"input"`
	Type                 hexutil.Uint64  `json:"type"`
	ChainID              *hexutil.Big    `json:"chainId"`
}

// Receipt is a transaction receipt. ContractAddress is non-nil only
// for deployments.
type Receipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	TransactionIndex  hexutil.Uint64  `json:"transactionIndex"`
	BlockHash         common.Hash     `json:"blockHash"`
	BlockNumber       *hexutil.Big    `json:"blockNumber"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	ContractAddress   *common.Address `json:"contractAddress"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
	Status            hexutil.Uint64  `json:"status"`
	Logs              []Log           `json:"logs"`
}

// Succeeded reports whether the transaction executed without revert.
func (r *Receipt) Succeeded() bool {
	return r.Status == 1
}

// Log is a single log entry emitted by a transaction.
type Log struct {
	Address          common.Address `json:"address"`
	Topics           []common.Hash  `json:"topics"`
	Data             hexutil.Bytes  `json:"data"`
	BlockNumber      hexutil.Uint64 `json:"blockNumber"`
	TransactionHash  common.Hash    `json:"transactionHash"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
	BlockHash        common.Hash    `json:"blockHash"`
	LogIndex         hexutil.Uint64 `json:"logIndex"`
	Removed          bool           `json:"removed"`
}

// CallMsg is the parameter object for eth_call and eth_estimateGas.
// Zero fields are omitted from the wire form.
type CallMsg struct {
	From     *common.Address
	To       *common.Address
	Gas      uint64
	GasPrice *big.Int
	Value    *big.Int
	Data     []byte
}

func (m CallMsg) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{})
	if m.From != nil {
		obj["from"] = m.From.Hex()
	}
	if m.To != nil {
		obj["to"] = m.To.Hex()
	}
	if m.Gas != 0 {
		obj["gas"] = hexutil.Uint64(m.Gas)
	}
	if m.GasPrice != nil {
		obj["gasPrice"] = (*hexutil.Big)(m.GasPrice)
	}
	if m.Value != nil {
		obj["value"] = (*hexutil.Big)(m.Value)
	}
	if len(m.Data) != 0 {
		obj["data"] = hexutil.Bytes(m.Data)
	}
	return json.Marshal(obj)
}

// FilterQuery is the parameter object for eth_getLogs.
type FilterQuery struct {
	FromBlock string
	ToBlock   string
	Address   []common.Address
	Topics    [][]common.Hash
}

func (q FilterQuery) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{})
	if q.FromBlock != "" {
		obj["fromBlock"] = q.FromBlock
	}
	if q.ToBlock != "" {
		obj["toBlock"] = q.ToBlock
	}
	if len(q.Address) != 0 {
		obj["address"] = q.Address
	}
	if q.Topics != nil {
		obj["topics"] = q.Topics
	}
	return json.Marshal(obj)
}

// FeeData holds the current fee market view used to price
// transactions. LastBaseFee, MaxFeePerGas and MaxPriorityFeePerGas are
// nil on pre-London networks.
type FeeData struct {
	LastBaseFee          *big.Int
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}
