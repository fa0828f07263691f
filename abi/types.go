package abi

import (
	"strconv"
	"strings"
)

// wordSize is the ABI slot size in bytes.
const wordSize = 32

// splitArraySuffix splits the outermost array suffix off a type
// string. "uint256[3][]" yields ("uint256[3]", -1, true): the last
// bracket group is the outermost dimension. A fixed size is returned
// as k >= 0, a dynamic dimension as k == -1.
func splitArraySuffix(typ string) (elem string, k int, ok bool) {
	if !strings.HasSuffix(typ, "]") {
		return "", 0, false
	}
	open := strings.LastIndex(typ, "[")
	if open < 0 {
		return "", 0, false
	}
	inner := typ[open+1 : len(typ)-1]
	if inner == "" {
		return typ[:open], -1, true
	}
	n, err := strconv.Atoi(inner)
	if err != nil || n < 0 {
		return "", 0, false
	}
	return typ[:open], n, true
}

// baseType strips every array dimension: "tuple[2][]" -> "tuple".
func baseType(typ string) string {
	if i := strings.Index(typ, "["); i >= 0 {
		return typ[:i]
	}
	return typ
}

// elemParam returns the parameter describing one element of an array
// parameter. Components carry through: a tuple[] element is a tuple
// with the same component list.
func elemParam(p Parameter, elem string) Parameter {
	return Parameter{Name: p.Name, Type: elem, Components: p.Components}
}

// IsDynamic reports whether a type needs tail (offset-referenced)
// encoding. A type is dynamic iff it is string, bytes, any T[], any
// T[k] with a dynamic element type, or a tuple with at least one
// dynamic component. Evaluated structurally on every call.
func IsDynamic(typ string, components []Parameter) bool {
	switch typ {
	case "string", "bytes":
		return true
	}
	if elem, k, ok := splitArraySuffix(typ); ok {
		if k < 0 {
			return true
		}
		return IsDynamic(elem, components)
	}
	if typ == "tuple" {
		for _, c := range components {
			if IsDynamic(c.Type, c.Components) {
				return true
			}
		}
	}
	return false
}

func isDynamicParam(p Parameter) bool {
	return IsDynamic(p.Type, p.Components)
}

// staticSize returns the encoded byte size of a static parameter:
// one word for scalars, the component sum for static tuples, and
// k * element size for fixed arrays of static elements. Must not be
// called for dynamic parameters.
func staticSize(p Parameter) int {
	if elem, k, ok := splitArraySuffix(p.Type); ok && k >= 0 {
		return k * staticSize(elemParam(p, elem))
	}
	if baseType(p.Type) == "tuple" {
		sum := 0
		for _, c := range p.Components {
			sum += staticSize(c)
		}
		return sum
	}
	return wordSize
}

// HeadSize returns the size in bytes of the head section for a
// parameter list: dynamic parameters contribute one offset word,
// static parameters their full static size. This is the base from
// which tail offsets are computed.
func HeadSize(params []Parameter) int {
	size := 0
	for _, p := range params {
		if isDynamicParam(p) {
			size += wordSize
		} else {
			size += staticSize(p)
		}
	}
	return size
}

// validScalar reports whether a non-array, non-tuple base type is one
// the codec supports.
func validScalar(typ string) bool {
	switch typ {
	case "address", "bool", "string", "bytes", "function":
		return typ != "function" // function pointers are not supported
	}
	if strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int") {
		rest := strings.TrimPrefix(strings.TrimPrefix(typ, "uint"), "int")
		if rest == "" {
			return true
		}
		n, err := strconv.Atoi(rest)
		return err == nil && n >= 8 && n <= 256 && n%8 == 0
	}
	if strings.HasPrefix(typ, "bytes") {
		n, err := strconv.Atoi(strings.TrimPrefix(typ, "bytes"))
		return err == nil && n >= 1 && n <= 32
	}
	return false
}

// checkType validates a parameter's type string recursively.
func checkType(p Parameter) error {
	typ := p.Type
	for {
		elem, _, ok := splitArraySuffix(typ)
		if !ok {
			break
		}
		typ = elem
	}
	if typ == "tuple" {
		if len(p.Components) == 0 {
			return errUnsupportedType(p.Type + " (missing components)")
		}
		for _, c := range p.Components {
			if err := checkType(c); err != nil {
				return err
			}
		}
		return nil
	}
	if !validScalar(typ) {
		return errUnsupportedType(p.Type)
	}
	return nil
}
