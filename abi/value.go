package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ValueKind discriminates decoded values.
type ValueKind int

const (
	// KindInt is a uintN/intN value.
	KindInt ValueKind = iota

	// KindBool is a boolean.
	KindBool

	// KindAddress is a 20-byte address.
	KindAddress

	// KindString is a UTF-8 string.
	KindString

	// KindBytes is a bytes or bytesN payload.
	KindBytes

	// KindArray is a fixed or dynamic array of values.
	KindArray

	// KindTuple is a tuple of values.
	KindTuple
)

// Value is a decoded ABI value: a recursive sum over scalars,
// byte payloads, arrays and tuples. The zero Value is an integer zero.
type Value struct {
	Kind ValueKind

	num   *big.Int
	str   string
	flag  bool
	bs    []byte
	addr  common.Address
	elems []Value
}

// IntValue wraps an integer.
func IntValue(n *big.Int) Value { return Value{Kind: KindInt, num: new(big.Int).Set(n)} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, flag: b} }

// AddressValue wraps an address.
func AddressValue(a common.Address) Value { return Value{Kind: KindAddress, addr: a} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, str: s} }

// BytesValue wraps a byte payload.
func BytesValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{Kind: KindBytes, bs: cp}
}

// ArrayValue wraps an array of values.
func ArrayValue(vs []Value) Value { return Value{Kind: KindArray, elems: vs} }

// TupleValue wraps a tuple of values.
func TupleValue(vs []Value) Value { return Value{Kind: KindTuple, elems: vs} }

// Int returns the integer payload, or zero for other kinds.
func (v Value) Int() *big.Int {
	if v.num == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.num)
}

// Bool returns the boolean payload.
func (v Value) Bool() bool { return v.flag }

// Address returns the address payload.
func (v Value) Address() common.Address { return v.addr }

// String returns a display rendering of the value; for KindString it
// is the string payload itself.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return v.Int().String()
	case KindBool:
		return fmt.Sprintf("%t", v.flag)
	case KindAddress:
		return v.addr.Hex()
	case KindString:
		return v.str
	case KindBytes:
		return fmt.Sprintf("0x%x", v.bs)
	case KindArray, KindTuple:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		if v.Kind == KindTuple {
			return "(" + strings.Join(parts, ", ") + ")"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// Text returns the string payload for KindString values.
func (v Value) Text() string { return v.str }

// Bytes returns the byte payload.
func (v Value) Bytes() []byte {
	cp := make([]byte, len(v.bs))
	copy(cp, v.bs)
	return cp
}

// Len returns the element count for arrays and tuples.
func (v Value) Len() int { return len(v.elems) }

// At returns the i-th element of an array or tuple.
func (v Value) At(i int) Value { return v.elems[i] }

// Elems returns the elements of an array or tuple.
func (v Value) Elems() []Value { return append([]Value(nil), v.elems...) }

// ToAny converts the value into plain Go data: *big.Int, bool,
// common.Address, string, []byte, or []interface{} for arrays and
// tuples. Useful at API boundaries that want untyped results.
func (v Value) ToAny() interface{} {
	switch v.Kind {
	case KindInt:
		return v.Int()
	case KindBool:
		return v.flag
	case KindAddress:
		return v.addr
	case KindString:
		return v.str
	case KindBytes:
		return v.Bytes()
	case KindArray, KindTuple:
		out := make([]interface{}, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int().Cmp(o.Int()) == 0
	case KindBool:
		return v.flag == o.flag
	case KindAddress:
		return v.addr == o.addr
	case KindString:
		return v.str == o.str
	case KindBytes:
		if len(v.bs) != len(o.bs) {
			return false
		}
		for i := range v.bs {
			if v.bs[i] != o.bs[i] {
				return false
			}
		}
		return true
	case KindArray, KindTuple:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
