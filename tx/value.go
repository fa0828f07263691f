package tx

import (
	"fmt"
	"math/big"
	"strings"
)

// weiPerEther is 10^18.
var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// weiPerGwei is 10^9.
var weiPerGwei = big.NewInt(1_000_000_000)

// Value is an amount of ether held losslessly in wei.
type Value struct {
	wei *big.Int
}

// Wei wraps a wei amount.
func Wei(wei *big.Int) Value {
	return Value{wei: new(big.Int).Set(wei)}
}

// Gwei converts a gwei amount to a Value.
func Gwei(gwei int64) Value {
	return Value{wei: new(big.Int).Mul(big.NewInt(gwei), weiPerGwei)}
}

// Ether parses a decimal ether string, such as "1.5" or "0.000021",
// without any floating point rounding. At most 18 fractional digits
// are allowed.
func Ether(s string) (Value, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if neg {
		whole = strings.TrimPrefix(whole, "-")
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 18 {
		return Value{}, fmt.Errorf("invalid ether amount %q: more than 18 decimals", s)
	}

	wholeInt, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return Value{}, fmt.Errorf("invalid ether amount %q", s)
	}
	wei := new(big.Int).Mul(wholeInt, weiPerEther)

	if frac != "" {
		fracInt, ok := new(big.Int).SetString(frac, 10)
		if !ok {
			return Value{}, fmt.Errorf("invalid ether amount %q", s)
		}
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(18-len(frac))), nil)
		wei.Add(wei, fracInt.Mul(fracInt, scale))
	}

	if neg {
		wei.Neg(wei)
	}
	return Value{wei: wei}, nil
}

// MustEther is Ether for compile-time constants; it panics on bad
// input.
func MustEther(s string) Value {
	v, err := Ether(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Wei returns the amount in wei.
func (v Value) Wei() *big.Int {
	if v.wei == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.wei)
}

// String renders the amount as a decimal ether string with trailing
// zeros trimmed.
func (v Value) String() string {
	wei := v.Wei()
	neg := wei.Sign() < 0
	if neg {
		wei.Neg(wei)
	}

	whole, rem := new(big.Int).QuoRem(wei, weiPerEther, new(big.Int))
	out := whole.String()
	if rem.Sign() != 0 {
		frac := fmt.Sprintf("%018s", rem.String())
		frac = strings.TrimRight(frac, "0")
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
