package abi

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// EncodeCall builds calldata for a function call: the 4-byte selector
// followed by the head/tail encoding of args against item.Inputs.
func EncodeCall(item Item, args []interface{}) ([]byte, error) {
	encoded, err := EncodeParams(item.Inputs, args)
	if err != nil {
		return nil, err
	}
	sel := item.Selector()
	return append(sel[:], encoded...), nil
}

// EncodeParams encodes a parameter list without a selector. This is
// the form constructor arguments use.
func EncodeParams(params []Parameter, args []interface{}) ([]byte, error) {
	if len(params) != len(args) {
		return nil, fmt.Errorf("%w: %d values for %d parameters",
			ErrArgumentCountMismatch, len(args), len(params))
	}
	for _, p := range params {
		if err := checkType(p); err != nil {
			return nil, err
		}
	}
	return encodeSection(params, args)
}

// encodeSection emits head ++ tail for one parameter list. Head
// offsets are byte distances from the start of this section, advanced
// incrementally as each preceding dynamic member's length is known.
func encodeSection(params []Parameter, args []interface{}) ([]byte, error) {
	headSize := HeadSize(params)
	var head, tail []byte
	for i, p := range params {
		arg := unwrapValue(args[i])
		if isDynamicParam(p) {
			head = append(head, uintWord(int64(headSize+len(tail)))...)
			enc, err := encodeDynamic(p, arg)
			if err != nil {
				return nil, err
			}
			tail = append(tail, enc...)
		} else {
			enc, err := encodeStatic(p, arg)
			if err != nil {
				return nil, err
			}
			head = append(head, enc...)
		}
	}
	return append(head, tail...), nil
}

// encodeDynamic encodes the tail body of a dynamic parameter.
func encodeDynamic(p Parameter, arg interface{}) ([]byte, error) {
	switch p.Type {
	case "string":
		s, ok := arg.(string)
		if !ok {
			if b, ok2 := arg.([]byte); ok2 {
				s = string(b)
			} else {
				return nil, errInvalidValue(p.Type, arg)
			}
		}
		return lengthPrefixed([]byte(s)), nil
	case "bytes":
		b, err := toBytes(arg)
		if err != nil {
			return nil, err
		}
		return lengthPrefixed(b), nil
	}

	if elem, k, ok := splitArraySuffix(p.Type); ok {
		items, ok := toSlice(arg)
		if !ok {
			return nil, errInvalidValue(p.Type, arg)
		}
		ep := elemParam(p, elem)
		if k < 0 {
			body, err := encodeElems(ep, items)
			if err != nil {
				return nil, err
			}
			return append(uintWord(int64(len(items))), body...), nil
		}
		// Fixed array of dynamic elements: no length word.
		if len(items) != k {
			return nil, fmt.Errorf("%w: %d elements for %s",
				ErrArgumentCountMismatch, len(items), p.Type)
		}
		return encodeElems(ep, items)
	}

	if baseType(p.Type) == "tuple" {
		fields, ok := toSlice(arg)
		if !ok {
			return nil, errInvalidValue(p.Type, arg)
		}
		if len(fields) != len(p.Components) {
			return nil, fmt.Errorf("%w: %d values for %d tuple components",
				ErrArgumentCountMismatch, len(fields), len(p.Components))
		}
		return encodeSection(p.Components, fields)
	}

	return nil, errUnsupportedType(p.Type)
}

// encodeElems encodes an element sequence. Static elements are placed
// inline; dynamic elements get an offset table (relative to the start
// of the sequence) followed by their tails.
func encodeElems(ep Parameter, items []interface{}) ([]byte, error) {
	if !isDynamicParam(ep) {
		var out []byte
		for _, it := range items {
			enc, err := encodeStatic(ep, unwrapValue(it))
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}

	base := len(items) * wordSize
	var offsets, tails []byte
	for _, it := range items {
		offsets = append(offsets, uintWord(int64(base+len(tails)))...)
		enc, err := encodeDynamic(ep, unwrapValue(it))
		if err != nil {
			return nil, err
		}
		tails = append(tails, enc...)
	}
	return append(offsets, tails...), nil
}

// encodeStatic encodes a static parameter into its full static size.
func encodeStatic(p Parameter, arg interface{}) ([]byte, error) {
	if elem, k, ok := splitArraySuffix(p.Type); ok {
		items, ok := toSlice(arg)
		if !ok {
			return nil, errInvalidValue(p.Type, arg)
		}
		if len(items) != k {
			return nil, fmt.Errorf("%w: %d elements for %s",
				ErrArgumentCountMismatch, len(items), p.Type)
		}
		ep := elemParam(p, elem)
		var out []byte
		for _, it := range items {
			enc, err := encodeStatic(ep, unwrapValue(it))
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}

	if p.Type == "tuple" {
		fields, ok := toSlice(arg)
		if !ok {
			return nil, errInvalidValue(p.Type, arg)
		}
		if len(fields) != len(p.Components) {
			return nil, fmt.Errorf("%w: %d values for %d tuple components",
				ErrArgumentCountMismatch, len(fields), len(p.Components))
		}
		var out []byte
		for i, c := range p.Components {
			enc, err := encodeStatic(c, unwrapValue(fields[i]))
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		return out, nil
	}

	switch {
	case p.Type == "address":
		addr, err := toAddress(arg)
		if err != nil {
			return nil, err
		}
		return common.LeftPadBytes(addr.Bytes(), wordSize), nil

	case p.Type == "bool":
		b, ok := arg.(bool)
		if !ok {
			return nil, errInvalidValue(p.Type, arg)
		}
		if b {
			return uintWord(1), nil
		}
		return uintWord(0), nil

	case strings.HasPrefix(p.Type, "uint"), strings.HasPrefix(p.Type, "int"):
		n, err := toBigInt(arg)
		if err != nil {
			return nil, errInvalidValue(p.Type, arg)
		}
		if n.Sign() < 0 {
			if strings.HasPrefix(p.Type, "int") {
				return nil, fmt.Errorf("%w: %s", ErrNegativeInt, p.Type)
			}
			return nil, errInvalidValue(p.Type, arg)
		}
		if n.BitLen() > typeBits(p.Type) {
			return nil, fmt.Errorf("%w %s: value needs %d bits",
				ErrInvalidValue, p.Type, n.BitLen())
		}
		return common.LeftPadBytes(n.Bytes(), wordSize), nil

	case strings.HasPrefix(p.Type, "bytes"):
		n, _ := strconv.Atoi(strings.TrimPrefix(p.Type, "bytes"))
		b, err := toBytes(arg)
		if err != nil {
			return nil, err
		}
		if len(b) > n {
			return nil, fmt.Errorf("%w %s: %d bytes", ErrInvalidValue, p.Type, len(b))
		}
		return common.RightPadBytes(b, wordSize), nil
	}

	return nil, errUnsupportedType(p.Type)
}

// typeBits returns the declared bit width of a uintN/intN type,
// defaulting to 256 for the bare forms.
func typeBits(typ string) int {
	rest := strings.TrimPrefix(strings.TrimPrefix(typ, "uint"), "int")
	if rest == "" {
		return 256
	}
	n, _ := strconv.Atoi(rest)
	return n
}

// lengthPrefixed encodes len(b) as one word followed by b padded to a
// word boundary.
func lengthPrefixed(b []byte) []byte {
	out := uintWord(int64(len(b)))
	out = append(out, b...)
	if rem := len(b) % wordSize; rem != 0 {
		out = append(out, make([]byte, wordSize-rem)...)
	}
	return out
}

func uintWord(n int64) []byte {
	return common.LeftPadBytes(big.NewInt(n).Bytes(), wordSize)
}

// unwrapValue lets previously decoded Values be re-encoded directly.
func unwrapValue(arg interface{}) interface{} {
	if v, ok := arg.(Value); ok {
		return v.ToAny()
	}
	return arg
}

func toAddress(arg interface{}) (common.Address, error) {
	switch v := arg.(type) {
	case common.Address:
		return v, nil
	case [20]byte:
		return common.Address(v), nil
	case []byte:
		if len(v) != common.AddressLength {
			return common.Address{}, fmt.Errorf("%w: %d bytes", ErrInvalidAddressLength, len(v))
		}
		return common.BytesToAddress(v), nil
	case string:
		s := strings.TrimPrefix(v, "0x")
		if len(s) != 2*common.AddressLength {
			return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddressLength, v)
		}
		raw, err := hex.DecodeString(s)
		if err != nil {
			return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidHexString, v)
		}
		return common.BytesToAddress(raw), nil
	default:
		return common.Address{}, errInvalidValue("address", arg)
	}
}

func toBigInt(arg interface{}) (*big.Int, error) {
	switch v := arg.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case string:
		s := v
		if strings.HasPrefix(s, "0x") {
			n, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidHexString, v)
			}
			return n, nil
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidValue, v)
		}
		return n, nil
	default:
		return nil, errInvalidValue("integer", arg)
	}
}

func toBytes(arg interface{}) ([]byte, error) {
	switch v := arg.(type) {
	case []byte:
		return v, nil
	case string:
		raw, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHexString, v)
		}
		return raw, nil
	default:
		return nil, errInvalidValue("bytes", arg)
	}
}

// toSlice flattens any slice or array argument into []interface{}.
func toSlice(arg interface{}) ([]interface{}, bool) {
	if s, ok := arg.([]interface{}); ok {
		return s, true
	}
	rv := reflect.ValueOf(arg)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
