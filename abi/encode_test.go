package abi

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		t.Fatalf("invalid hex fixture: %v", err)
	}
	return b
}

func TestEncodeCallBalanceOf(t *testing.T) {
	item := Item{Kind: KindFunction, Name: "balanceOf", Inputs: []Parameter{
		{Name: "owner", Type: "address"},
	}}

	owner := common.HexToAddress("0x1234567890AbcdEF1234567890aBcdef12345678")
	got, err := EncodeCall(item, []interface{}{owner})
	if err != nil {
		t.Fatalf("EncodeCall() error = %v", err)
	}

	want := mustDecodeHex(t,
		"70a08231"+
			"0000000000000000000000001234567890abcdef1234567890abcdef12345678")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeCall() = %x, want %x", got, want)
	}
}

func TestEncodeCallTransfer(t *testing.T) {
	item := Item{Kind: KindFunction, Name: "transfer", Inputs: []Parameter{
		{Name: "to", Type: "address"},
		{Name: "amount", Type: "uint256"},
	}}

	got, err := EncodeCall(item, []interface{}{
		"0x5B38Da6a701c568545dCfcB03FcB875f56beddC4",
		big.NewInt(1000),
	})
	if err != nil {
		t.Fatalf("EncodeCall() error = %v", err)
	}

	want := mustDecodeHex(t,
		"a9059cbb"+
			"0000000000000000000000005b38da6a701c568545dcfcb03fcb875f56beddc4"+
			"00000000000000000000000000000000000000000000000000000000000003e8")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeCall() = %x, want %x", got, want)
	}
}

// Encoding of sam(bytes,bool,uint256[]) with ("dave", true, [1,2,3]),
// the worked example from the Solidity ABI documentation.
func TestEncodeCallMixedDynamic(t *testing.T) {
	item := Item{Kind: KindFunction, Name: "sam", Inputs: []Parameter{
		{Type: "bytes"},
		{Type: "bool"},
		{Type: "uint256[]"},
	}}

	got, err := EncodeCall(item, []interface{}{
		[]byte("dave"),
		true,
		[]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
	})
	if err != nil {
		t.Fatalf("EncodeCall() error = %v", err)
	}

	want := mustDecodeHex(t,
		"a5643bf2"+
			"0000000000000000000000000000000000000000000000000000000000000060"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"00000000000000000000000000000000000000000000000000000000000000a0"+
			"0000000000000000000000000000000000000000000000000000000000000004"+
			"6461766500000000000000000000000000000000000000000000000000000000"+
			"0000000000000000000000000000000000000000000000000000000000000003"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"0000000000000000000000000000000000000000000000000000000000000003")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeCall() = %x, want %x", got, want)
	}
}

// Encoding of f(uint256,uint32[],bytes10,bytes), the second worked
// example from the Solidity ABI documentation.
func TestEncodeCallOffsetChain(t *testing.T) {
	item := Item{Kind: KindFunction, Name: "f", Inputs: []Parameter{
		{Type: "uint256"},
		{Type: "uint32[]"},
		{Type: "bytes10"},
		{Type: "bytes"},
	}}

	got, err := EncodeCall(item, []interface{}{
		big.NewInt(0x123),
		[]uint64{0x456, 0x789},
		[]byte("1234567890"),
		[]byte("Hello, world!"),
	})
	if err != nil {
		t.Fatalf("EncodeCall() error = %v", err)
	}

	want := mustDecodeHex(t,
		"8be65246"+
			"0000000000000000000000000000000000000000000000000000000000000123"+
			"0000000000000000000000000000000000000000000000000000000000000080"+
			"3132333435363738393000000000000000000000000000000000000000000000"+
			"00000000000000000000000000000000000000000000000000000000000000e0"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"0000000000000000000000000000000000000000000000000000000000000456"+
			"0000000000000000000000000000000000000000000000000000000000000789"+
			"000000000000000000000000000000000000000000000000000000000000000d"+
			"48656c6c6f2c20776f726c642100000000000000000000000000000000000000")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeCall() = %x, want %x", got, want)
	}
}

func TestEncodeParamsString(t *testing.T) {
	got, err := EncodeParams([]Parameter{{Type: "string"}}, []interface{}{"hello"})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}

	want := mustDecodeHex(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000005"+
			"68656c6c6f000000000000000000000000000000000000000000000000000000")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeParams() = %x, want %x", got, want)
	}
}

func TestEncodeParamsTuple(t *testing.T) {
	params := []Parameter{{Type: "tuple", Components: []Parameter{
		{Name: "maker", Type: "address"},
		{Name: "amount", Type: "uint256"},
	}}}

	got, err := EncodeParams(params, []interface{}{
		[]interface{}{"0x5B38Da6a701c568545dCfcB03FcB875f56beddC4", big.NewInt(7)},
	})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}

	// Static tuple encodes inline with no offset.
	want := mustDecodeHex(t,
		"0000000000000000000000005b38da6a701c568545dcfcb03fcb875f56beddc4"+
			"0000000000000000000000000000000000000000000000000000000000000007")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeParams() = %x, want %x", got, want)
	}
}

func TestEncodeParamsDynamicTuple(t *testing.T) {
	params := []Parameter{{Type: "tuple", Components: []Parameter{
		{Name: "id", Type: "uint256"},
		{Name: "label", Type: "string"},
	}}}

	got, err := EncodeParams(params, []interface{}{
		[]interface{}{big.NewInt(1), "ok"},
	})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}

	// Head: offset to the tuple. Tuple body: its own head/tail pair
	// with the string offset relative to the tuple start.
	want := mustDecodeHex(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000001"+
			"0000000000000000000000000000000000000000000000000000000000000040"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"6f6b000000000000000000000000000000000000000000000000000000000000")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeParams() = %x, want %x", got, want)
	}
}

func TestEncodeParamsFixedArrayOfStrings(t *testing.T) {
	got, err := EncodeParams([]Parameter{{Type: "string[2]"}}, []interface{}{
		[]string{"ab", "cd"},
	})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}

	// Dynamic fixed array: one top-level offset, then an element
	// offset table without a length word.
	want := mustDecodeHex(t,
		"0000000000000000000000000000000000000000000000000000000000000020"+
			"0000000000000000000000000000000000000000000000000000000000000040"+
			"0000000000000000000000000000000000000000000000000000000000000080"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"6162000000000000000000000000000000000000000000000000000000000000"+
			"0000000000000000000000000000000000000000000000000000000000000002"+
			"6364000000000000000000000000000000000000000000000000000000000000")
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeParams() = %x, want %x", got, want)
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		params  []Parameter
		args    []interface{}
		wantErr error
	}{
		{
			name:    "arg count mismatch",
			params:  []Parameter{{Type: "uint256"}},
			args:    []interface{}{big.NewInt(1), big.NewInt(2)},
			wantErr: ErrArgumentCountMismatch,
		},
		{
			name:    "negative int",
			params:  []Parameter{{Type: "int256"}},
			args:    []interface{}{big.NewInt(-1)},
			wantErr: ErrNegativeInt,
		},
		{
			name:    "negative uint",
			params:  []Parameter{{Type: "uint256"}},
			args:    []interface{}{big.NewInt(-1)},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "uint8 overflow",
			params:  []Parameter{{Type: "uint8"}},
			args:    []interface{}{big.NewInt(256)},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "short address",
			params:  []Parameter{{Type: "address"}},
			args:    []interface{}{"0x1234"},
			wantErr: ErrInvalidAddressLength,
		},
		{
			name:    "bad hex bytes",
			params:  []Parameter{{Type: "bytes"}},
			args:    []interface{}{"0xzz"},
			wantErr: ErrInvalidHexString,
		},
		{
			name:    "bytes4 overflow",
			params:  []Parameter{{Type: "bytes4"}},
			args:    []interface{}{[]byte{1, 2, 3, 4, 5}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unsupported type",
			params:  []Parameter{{Type: "fixed128x18"}},
			args:    []interface{}{big.NewInt(1)},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "fixed array length mismatch",
			params:  []Parameter{{Type: "uint256[2]"}},
			args:    []interface{}{[]*big.Int{big.NewInt(1)}},
			wantErr: ErrArgumentCountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeParams(tt.params, tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EncodeParams() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeValueRoundTrip(t *testing.T) {
	params := []Parameter{{Type: "uint256"}, {Type: "string"}}
	original, err := EncodeParams(params, []interface{}{big.NewInt(42), "hello"})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}

	values, err := DecodeParams(params, original)
	if err != nil {
		t.Fatalf("DecodeParams() error = %v", err)
	}

	// Decoded Values are accepted back as encoder arguments.
	again, err := EncodeParams(params, []interface{}{values[0], values[1]})
	if err != nil {
		t.Fatalf("EncodeParams() error = %v", err)
	}
	if !bytes.Equal(original, again) {
		t.Errorf("re-encode = %x, want %x", again, original)
	}
}
