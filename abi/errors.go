package abi

import (
	"errors"
	"fmt"
)

// Encoding and decoding failure modes.
var (
	// ErrArgumentCountMismatch is returned when the number of supplied
	// arguments does not match the parameter list.
	ErrArgumentCountMismatch = errors.New("abi: argument count mismatch")

	// ErrUnsupportedType is returned for type strings the codec does
	// not handle.
	ErrUnsupportedType = errors.New("abi: unsupported type")

	// ErrInvalidValue is returned when a Go value cannot be encoded as
	// the declared ABI type.
	ErrInvalidValue = errors.New("abi: invalid value for type")

	// ErrInvalidAddressLength is returned for address values that are
	// not exactly 20 bytes.
	ErrInvalidAddressLength = errors.New("abi: invalid address length")

	// ErrInvalidHexString is returned when a hex-encoded input cannot
	// be decoded.
	ErrInvalidHexString = errors.New("abi: invalid hex string")

	// ErrInsufficientData is returned when the payload is shorter than
	// the layout requires.
	ErrInsufficientData = errors.New("abi: insufficient data")

	// ErrNoOutputs is returned when decoding is requested for a
	// function that declares no outputs.
	ErrNoOutputs = errors.New("abi: function has no outputs")

	// ErrNoData is returned for an empty (0x) return payload.
	ErrNoData = errors.New("abi: no return data")

	// ErrDecodingFailed is returned when the payload is structurally
	// malformed (for example an offset pointing outside the data).
	ErrDecodingFailed = errors.New("abi: decoding failed")

	// ErrNegativeInt is returned when a negative value is supplied for
	// an intN parameter. Two's-complement encoding of negative signed
	// integers is not implemented.
	ErrNegativeInt = errors.New("abi: negative intN values are not supported")

	// ErrNotFound is returned when an item lookup by name or signature
	// has no match.
	ErrNotFound = errors.New("abi: item not found")
)

func errUnsupportedType(typ string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
}

func errInvalidValue(typ string, v interface{}) error {
	return fmt.Errorf("%w %s: %T", ErrInvalidValue, typ, v)
}
