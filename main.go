// evmkit - A command line client for EVM chains
//
// This tool reads contract state, sends transactions and deploys
// contracts over JSON-RPC using ABI definitions.
//
// Usage:
//
//	evmkit [options]
//
// Options:
//
//	-rpc           RPC endpoint URL (default: http://localhost:8545)
//	-preset        Chain preset (local, mainnet, sepolia, holesky)
//	-key           Private key hex for signing
//	-mnemonic      BIP39 mnemonic for deriving the signing account
//	-env           Path to .env file (default: .env in current directory)
//	-verbose       Show debug logging
//	-list-presets  List available chain presets
//
// Commands:
//
//	-balance       Print the balance of an address (-address, or the signer)
//	-fee-data      Print the current fee market view
//	-call          Call a contract function (-address, -abi, -fn, -args)
//	-send          Send a state-changing contract call
//	-deploy        Deploy a contract (-abi, -bytecode, -args)
//
// Environment Variables:
//
//	RPC_URL            RPC endpoint URL (overridden by -rpc flag)
//	CHAIN_ID           Chain ID (overridden by -chain-id flag)
//	CHAIN_PRESET       Chain preset name (e.g., sepolia)
//	PRIVATE_KEY        Signing account private key (no 0x prefix)
//	MNEMONIC           BIP39 mnemonic (used when PRIVATE_KEY is empty)
//	GAS_LIMIT          Explicit gas limit (estimated when unset)
//	MAX_FEE_GWEI       Explicit fee cap in gwei
//	PRIORITY_FEE_GWEI  Explicit priority fee in gwei
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"github.com/stable-net/evmkit/config"
	"github.com/stable-net/evmkit/contract"
	"github.com/stable-net/evmkit/rpc"
	"github.com/stable-net/evmkit/signer"
	"github.com/stable-net/evmkit/tx"
)

func main() {
	// Pre-parse to get env path for early loading
	// We need to load .env before defining other flags so defaults work
	envLoaded := false
	for i, arg := range os.Args[1:] {
		if arg == "-env" && i+1 < len(os.Args)-1 {
			_ = config.LoadConfig(os.Args[i+2])
			envLoaded = true
			break
		} else if strings.HasPrefix(arg, "-env=") {
			_ = config.LoadConfig(strings.TrimPrefix(arg, "-env="))
			envLoaded = true
			break
		}
	}
	// Try default .env if not explicitly specified
	if !envLoaded {
		_ = config.LoadConfig("")
	}

	// Define flags
	_ = flag.String("env", "", "Path to .env file (default: .env in current directory)")
	preset := flag.String("preset", "", "Chain preset (local, mainnet, sepolia, holesky)")
	listPresets := flag.Bool("list-presets", false, "List available chain presets")

	// Define flags with environment-aware defaults
	chainID := flag.Int64("chain-id", config.GetChainID().Int64(), "Chain ID")
	rpcURL := flag.String("rpc", config.GetRPCURL(), "RPC endpoint URL")
	keyHex := flag.String("key", config.GetPrivateKey(), "Private key hex for signing")
	mnemonic := flag.String("mnemonic", config.GetMnemonic(), "BIP39 mnemonic for deriving the signing account")
	verbose := flag.Bool("verbose", false, "Show debug logging")

	// Commands
	balance := flag.Bool("balance", false, "Print the balance of an address")
	feeData := flag.Bool("fee-data", false, "Print the current fee market view")
	call := flag.Bool("call", false, "Call a contract function")
	send := flag.Bool("send", false, "Send a state-changing contract call")
	deploy := flag.Bool("deploy", false, "Deploy a contract")

	// Command parameters
	address := flag.String("address", "", "Contract or account address")
	abiPath := flag.String("abi", "", "Path to the contract ABI JSON file")
	fn := flag.String("fn", "", "Function name or canonical signature")
	argList := flag.String("args", "", "Comma-separated call arguments")
	bytecodePath := flag.String("bytecode", "", "Path to the creation bytecode hex file")
	valueEther := flag.String("value", "", "Ether amount to send with the call")
	wait := flag.Bool("wait", false, "Wait for the transaction receipt")

	flag.Parse()

	// Handle list-presets command
	if *listPresets {
		config.PrintPresets()
		return
	}

	// Apply preset if specified (preset values are overridden by explicit flags)
	if *preset != "" {
		presetConfig, err := config.ApplyPreset(*preset)
		if err != nil {
			fatal(err)
		}
		if !isFlagSet("chain-id") {
			*chainID = presetConfig.ChainID.Int64()
		}
		if !isFlagSet("rpc") {
			*rpcURL = presetConfig.RPCURL
		}
	}

	log := zerolog.Nop()
	if *verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}

	client := rpc.NewClient(
		rpc.NewHTTPTransport(*rpcURL, rpc.WithLogger(log)),
		rpc.WithClientLogger(log),
	)
	ctx := context.Background()

	switch {
	case *feeData:
		runFeeData(ctx, client)
	case *balance:
		runBalance(ctx, client, *address, *keyHex, *mnemonic)
	case *call:
		runCall(ctx, client, *address, *abiPath, *fn, *argList)
	case *send:
		sc := mustSigningClient(ctx, client, *keyHex, *mnemonic, *chainID, log)
		runSend(ctx, sc, *address, *abiPath, *fn, *argList, *valueEther, *wait, log)
	case *deploy:
		sc := mustSigningClient(ctx, client, *keyHex, *mnemonic, *chainID, log)
		runDeploy(ctx, sc, *abiPath, *bytecodePath, *argList, *valueEther, *wait)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// mustSigner builds a signer from the key flag, falling back to
// mnemonic derivation at account index 0.
func mustSigner(keyHex, mnemonic string) signer.Signer {
	if keyHex != "" {
		s, err := signer.NewLocalSigner(keyHex)
		if err != nil {
			fatal(err)
		}
		return s
	}
	if mnemonic != "" {
		s, err := signer.FromMnemonic(mnemonic, 0)
		if err != nil {
			fatal(err)
		}
		return s
	}
	fatal(fmt.Errorf("no signing key: set -key, -mnemonic or PRIVATE_KEY"))
	return nil
}

func mustSigningClient(ctx context.Context, client *rpc.Client, keyHex, mnemonic string, chainID int64, log zerolog.Logger) *tx.SigningClient {
	opts := []tx.SigningOption{tx.WithLogger(log)}
	if isFlagSet("chain-id") || os.Getenv("CHAIN_ID") != "" {
		opts = append(opts, tx.WithChainID(big.NewInt(chainID)))
	}
	sc, err := tx.NewSigningClient(ctx, client, mustSigner(keyHex, mnemonic), opts...)
	if err != nil {
		fatal(err)
	}
	return sc
}

func runFeeData(ctx context.Context, client *rpc.Client) {
	fd, err := client.FeeData(ctx)
	if err != nil {
		fatal(err)
	}
	if fd.GasPrice != nil {
		fmt.Printf("gasPrice:             %s wei\n", fd.GasPrice)
	}
	if fd.MaxFeePerGas != nil {
		fmt.Printf("lastBaseFee:          %s wei\n", fd.LastBaseFee)
		fmt.Printf("maxFeePerGas:         %s wei\n", fd.MaxFeePerGas)
		fmt.Printf("maxPriorityFeePerGas: %s wei\n", fd.MaxPriorityFeePerGas)
	} else {
		fmt.Println("(no base fee: pre-London network)")
	}
}

func runBalance(ctx context.Context, client *rpc.Client, address, keyHex, mnemonic string) {
	var addr common.Address
	if address != "" {
		addr = common.HexToAddress(address)
	} else {
		addr = mustSigner(keyHex, mnemonic).Address()
	}

	wei, err := client.GetBalance(ctx, addr, rpc.BlockLatest)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s: %s ETH (%s wei)\n", addr.Hex(), tx.Wei(wei), wei)
}

func runCall(ctx context.Context, client *rpc.Client, address, abiPath, fn, argList string) {
	if address == "" || abiPath == "" || fn == "" {
		fatal(fmt.Errorf("-call requires -address, -abi and -fn"))
	}
	abiJSON, err := os.ReadFile(abiPath)
	if err != nil {
		fatal(err)
	}

	c, err := contract.NewReader(common.HexToAddress(address), abiJSON, client)
	if err != nil {
		fatal(err)
	}

	values, err := c.Read(ctx, fn, parseArgs(argList)...)
	if err != nil {
		fatal(err)
	}
	for _, v := range values {
		fmt.Println(v.String())
	}
}

func runSend(ctx context.Context, sc *tx.SigningClient, address, abiPath, fn, argList, valueEther string, wait bool, log zerolog.Logger) {
	if address == "" || abiPath == "" || fn == "" {
		fatal(fmt.Errorf("-send requires -address, -abi and -fn"))
	}
	abiJSON, err := os.ReadFile(abiPath)
	if err != nil {
		fatal(err)
	}

	c, err := contract.New(common.HexToAddress(address), abiJSON, sc, contract.WithLogger(log))
	if err != nil {
		fatal(err)
	}

	pending, err := c.Transact(ctx, txOpts(valueEther), fn, parseArgs(argList)...)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("tx: %s\n", pending.Hash().Hex())

	if wait {
		reportReceipt(waitReceipt(ctx, pending))
	}
}

func runDeploy(ctx context.Context, sc *tx.SigningClient, abiPath, bytecodePath, argList, valueEther string, wait bool) {
	if abiPath == "" || bytecodePath == "" {
		fatal(fmt.Errorf("-deploy requires -abi and -bytecode"))
	}
	abiJSON, err := os.ReadFile(abiPath)
	if err != nil {
		fatal(err)
	}
	raw, err := os.ReadFile(bytecodePath)
	if err != nil {
		fatal(err)
	}
	bytecode, err := hexutil.Decode("0x" + strings.TrimPrefix(strings.TrimSpace(string(raw)), "0x"))
	if err != nil {
		fatal(fmt.Errorf("invalid bytecode: %w", err))
	}

	deployment, err := contract.Deploy(ctx, sc, abiJSON, bytecode, txOpts(valueEther), parseArgs(argList)...)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("tx: %s\n", deployment.Hash().Hex())

	if wait {
		c, receipt, err := deployment.Wait(ctx)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("contract: %s (block %s, gas %d)\n",
			c.Address().Hex(), receipt.BlockNumber.ToInt(), receipt.GasUsed)
	}
}

func waitReceipt(ctx context.Context, pending *tx.PendingTransaction) *rpc.Receipt {
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	receipt, err := pending.Wait(waitCtx)
	if err != nil {
		fatal(err)
	}
	return receipt
}

func reportReceipt(receipt *rpc.Receipt) {
	status := "reverted"
	if receipt.Succeeded() {
		status = "confirmed"
	}
	fmt.Printf("status: %s (block %s, gas %d)\n",
		status, receipt.BlockNumber.ToInt(), receipt.GasUsed)
}

func txOpts(valueEther string) contract.TxOpts {
	opts := contract.TxOpts{
		GasLimit:             config.GetGasLimit(),
		MaxFeePerGas:         config.GetMaxFeeGwei(),
		MaxPriorityFeePerGas: config.GetPriorityFeeGwei(),
	}
	if valueEther != "" {
		v, err := tx.Ether(valueEther)
		if err != nil {
			fatal(err)
		}
		opts.Value = v.Wei()
	}
	return opts
}

// parseArgs splits a comma-separated argument list. Booleans are
// converted; everything else is passed along as a string and coerced
// by the ABI encoder.
func parseArgs(argList string) []interface{} {
	if argList == "" {
		return nil
	}
	parts := strings.Split(argList, ",")
	args := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch p {
		case "true":
			args = append(args, true)
		case "false":
			args = append(args, false)
		default:
			args = append(args, p)
		}
	}
	return args
}
