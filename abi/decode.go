package abi

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DecodeResult decodes return data against item.Outputs. The outputs
// are treated as one implicit tuple, so top-level dynamic offsets are
// relative to the start of data. One Value per output is returned.
func DecodeResult(item Item, data []byte) ([]Value, error) {
	if len(item.Outputs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoOutputs, item.Name)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, item.Name)
	}
	return decodeSection(item.Outputs, data)
}

// DecodeResultToAny is DecodeResult with each Value lowered to plain
// Go values via ToAny.
func DecodeResultToAny(item Item, data []byte) ([]interface{}, error) {
	vals, err := DecodeResult(item, data)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v.ToAny()
	}
	return out, nil
}

// DecodeParams decodes data against a bare parameter list.
func DecodeParams(params []Parameter, data []byte) ([]Value, error) {
	for _, p := range params {
		if err := checkType(p); err != nil {
			return nil, err
		}
	}
	return decodeSection(params, data)
}

// decodeSection walks the head of one section, following offsets into
// the tail for dynamic members. Offsets are relative to the section
// start.
func decodeSection(params []Parameter, data []byte) ([]Value, error) {
	vals := make([]Value, 0, len(params))
	pos := 0
	for _, p := range params {
		if isDynamicParam(p) {
			off, err := wordToOffset(data, pos)
			if err != nil {
				return nil, err
			}
			if off > len(data) {
				return nil, fmt.Errorf("%w: offset %d past %d bytes",
					ErrDecodingFailed, off, len(data))
			}
			v, err := decodeDynamic(p, data[off:])
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
			pos += wordSize
		} else {
			size := staticSize(p)
			if pos+size > len(data) {
				return nil, fmt.Errorf("%w: need %d bytes at %d, have %d",
					ErrInsufficientData, size, pos, len(data))
			}
			v, err := decodeStatic(p, data[pos:pos+size])
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
			pos += size
		}
	}
	return vals, nil
}

// decodeDynamic decodes the tail body of a dynamic parameter, with
// data sliced to start at the body.
func decodeDynamic(p Parameter, data []byte) (Value, error) {
	switch p.Type {
	case "string":
		b, err := readLengthPrefixed(data)
		if err != nil {
			return Value{}, err
		}
		return StringValue(string(b)), nil
	case "bytes":
		b, err := readLengthPrefixed(data)
		if err != nil {
			return Value{}, err
		}
		return BytesValue(b), nil
	}

	if elem, k, ok := splitArraySuffix(p.Type); ok {
		ep := elemParam(p, elem)
		if k < 0 {
			n, err := wordToOffset(data, 0)
			if err != nil {
				return Value{}, err
			}
			elems, err := decodeElems(ep, data[wordSize:], n)
			if err != nil {
				return Value{}, err
			}
			return ArrayValue(elems), nil
		}
		// Fixed array of dynamic elements carries no length word.
		elems, err := decodeElems(ep, data, k)
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(elems), nil
	}

	if baseType(p.Type) == "tuple" {
		fields, err := decodeSection(p.Components, data)
		if err != nil {
			return Value{}, err
		}
		return TupleValue(fields), nil
	}

	return Value{}, errUnsupportedType(p.Type)
}

// decodeElems decodes n elements starting at data. Static elements
// are laid out back to back, dynamic ones behind an offset table
// relative to the start of the element region.
func decodeElems(ep Parameter, data []byte, n int) ([]Value, error) {
	elems := make([]Value, 0, n)
	if !isDynamicParam(ep) {
		size := staticSize(ep)
		if n*size > len(data) {
			return nil, fmt.Errorf("%w: %d elements of %d bytes, have %d",
				ErrInsufficientData, n, size, len(data))
		}
		for i := 0; i < n; i++ {
			v, err := decodeStatic(ep, data[i*size:(i+1)*size])
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return elems, nil
	}

	for i := 0; i < n; i++ {
		off, err := wordToOffset(data, i*wordSize)
		if err != nil {
			return nil, err
		}
		if off > len(data) {
			return nil, fmt.Errorf("%w: element offset %d past %d bytes",
				ErrDecodingFailed, off, len(data))
		}
		v, err := decodeDynamic(ep, data[off:])
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return elems, nil
}

// decodeStatic decodes a parameter from exactly its static size.
func decodeStatic(p Parameter, b []byte) (Value, error) {
	if elem, k, ok := splitArraySuffix(p.Type); ok {
		ep := elemParam(p, elem)
		size := staticSize(ep)
		elems := make([]Value, 0, k)
		for i := 0; i < k; i++ {
			v, err := decodeStatic(ep, b[i*size:(i+1)*size])
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return ArrayValue(elems), nil
	}

	if p.Type == "tuple" {
		fields := make([]Value, 0, len(p.Components))
		pos := 0
		for _, c := range p.Components {
			size := staticSize(c)
			v, err := decodeStatic(c, b[pos:pos+size])
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, v)
			pos += size
		}
		return TupleValue(fields), nil
	}

	switch {
	case p.Type == "address":
		return AddressValue(common.BytesToAddress(b[wordSize-common.AddressLength:])), nil

	case p.Type == "bool":
		return BoolValue(b[wordSize-1] != 0), nil

	case strings.HasPrefix(p.Type, "uint"), strings.HasPrefix(p.Type, "int"):
		// intN values are surfaced with their unsigned word
		// interpretation.
		return IntValue(new(big.Int).SetBytes(b)), nil

	case strings.HasPrefix(p.Type, "bytes"):
		n, _ := strconv.Atoi(strings.TrimPrefix(p.Type, "bytes"))
		return BytesValue(b[:n]), nil
	}

	return Value{}, errUnsupportedType(p.Type)
}

// readLengthPrefixed reads a length word followed by that many bytes.
func readLengthPrefixed(data []byte) ([]byte, error) {
	n, err := wordToOffset(data, 0)
	if err != nil {
		return nil, err
	}
	if wordSize+n > len(data) {
		return nil, fmt.Errorf("%w: length %d with %d bytes remaining",
			ErrInsufficientData, n, len(data)-wordSize)
	}
	out := make([]byte, n)
	copy(out, data[wordSize:wordSize+n])
	return out, nil
}

// wordToOffset reads the word at pos as a small non-negative integer.
func wordToOffset(data []byte, pos int) (int, error) {
	if pos+wordSize > len(data) {
		return 0, fmt.Errorf("%w: word at %d, have %d bytes",
			ErrInsufficientData, pos, len(data))
	}
	n := new(big.Int).SetBytes(data[pos : pos+wordSize])
	if n.BitLen() > 31 {
		return 0, fmt.Errorf("%w: oversized word 0x%x", ErrDecodingFailed, n)
	}
	return int(n.Int64()), nil
}
