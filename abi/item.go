// Package abi implements the Solidity contract ABI: parsing ABI JSON
// documents, computing canonical signatures and selectors, and
// encoding/decoding values against the 32-byte-word wire format
// (static types, string/bytes, fixed and dynamic arrays, tuples, and
// nested combinations of those).
//
// Known limitation: intN parameters are handled as unsigned big-endian
// words. Negative values are rejected with ErrNegativeInt rather than
// encoded in two's complement.
package abi

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// ItemKind identifies the kind of an ABI entry.
type ItemKind int

const (
	// KindFunction is a callable contract function.
	KindFunction ItemKind = iota

	// KindConstructor is the deployment constructor.
	KindConstructor

	// KindReceive is the plain-ether receive handler.
	KindReceive

	// KindFallback is the fallback handler.
	KindFallback

	// KindEvent is a log event definition.
	KindEvent

	// KindError is a custom error definition.
	KindError
)

// String returns the JSON type tag for the kind.
func (k ItemKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindConstructor:
		return "constructor"
	case KindReceive:
		return "receive"
	case KindFallback:
		return "fallback"
	case KindEvent:
		return "event"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

func kindFromString(s string) (ItemKind, bool) {
	switch s {
	case "function", "": // legacy documents omit "type" for functions
		return KindFunction, true
	case "constructor":
		return KindConstructor, true
	case "receive":
		return KindReceive, true
	case "fallback":
		return KindFallback, true
	case "event":
		return KindEvent, true
	case "error":
		return KindError, true
	default:
		return 0, false
	}
}

// Parameter is one input or output of an ABI item.
type Parameter struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []Parameter `json:"components,omitempty"`
	Indexed    bool        `json:"indexed,omitempty"`
}

// Item is one parsed ABI entry. Immutable once parsed.
type Item struct {
	Kind            ItemKind
	Name            string
	Inputs          []Parameter
	Outputs         []Parameter
	StateMutability string
	Anonymous       bool
}

// jsonItem mirrors the on-disk ABI entry shape.
type jsonItem struct {
	Type            string      `json:"type"`
	Name            string      `json:"name"`
	Inputs          []Parameter `json:"inputs"`
	Outputs         []Parameter `json:"outputs"`
	StateMutability string      `json:"stateMutability"`
	Anonymous       bool        `json:"anonymous"`
}

// UnmarshalJSON parses a single ABI entry, mapping the "type" tag onto
// the closed ItemKind set.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw jsonItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, ok := kindFromString(raw.Type)
	if !ok {
		return fmt.Errorf("abi: unknown item type %q", raw.Type)
	}
	*it = Item{
		Kind:            kind,
		Name:            raw.Name,
		Inputs:          raw.Inputs,
		Outputs:         raw.Outputs,
		StateMutability: raw.StateMutability,
		Anonymous:       raw.Anonymous,
	}
	return nil
}

// MarshalJSON renders the entry back into the standard JSON shape.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonItem{
		Type:            it.Kind.String(),
		Name:            it.Name,
		Inputs:          it.Inputs,
		Outputs:         it.Outputs,
		StateMutability: it.StateMutability,
		Anonymous:       it.Anonymous,
	})
}

// IsReadOnly reports whether calling the item cannot modify state.
func (it Item) IsReadOnly() bool {
	return it.StateMutability == "view" || it.StateMutability == "pure"
}

// IsPayable reports whether the item accepts ether.
func (it Item) IsPayable() bool {
	return it.StateMutability == "payable"
}

// ParseJSON parses an ABI document. Three input forms are accepted:
// a JSON array of items, a single item object, and an artifact-style
// wrapper {"abi": [...]}.
func ParseJSON(data []byte) ([]Item, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("abi: empty document")
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("abi: parse array: %w", err)
		}
		return items, nil
	}

	// Try the artifact wrapper first; fall back to a single object.
	var wrapper struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.ABI) > 0 {
		var items []Item
		if err := json.Unmarshal(wrapper.ABI, &items); err != nil {
			return nil, fmt.Errorf("abi: parse wrapped array: %w", err)
		}
		return items, nil
	}

	var single Item
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("abi: parse item: %w", err)
	}
	return []Item{single}, nil
}

// FindFunction returns the first function with the given name.
// Overloads resolve to the first match in document order; use
// FindBySignature when that is not what you want.
func FindFunction(items []Item, name string) (Item, error) {
	for _, it := range items {
		if it.Kind == KindFunction && it.Name == name {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: function %q", ErrNotFound, name)
}

// FindBySignature returns the function whose canonical signature
// matches exactly, e.g. "transfer(address,uint256)".
func FindBySignature(items []Item, sig string) (Item, error) {
	for _, it := range items {
		if it.Kind == KindFunction && it.Signature() == sig {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("%w: signature %q", ErrNotFound, sig)
}

// FindConstructor returns the constructor entry, if any.
func FindConstructor(items []Item) (Item, bool) {
	for _, it := range items {
		if it.Kind == KindConstructor {
			return it, true
		}
	}
	return Item{}, false
}

// canonicalType renders one parameter's canonical type. Tuples render
// as parenthesized component lists with any array suffix appended
// after the closing parenthesis: (uint256,address)[3].
func canonicalType(p Parameter) string {
	base := p.Type
	suffix := ""
	if i := strings.Index(base, "["); i >= 0 {
		suffix = base[i:]
		base = base[:i]
	}
	if base != "tuple" {
		return p.Type
	}
	parts := make([]string, len(p.Components))
	for i, c := range p.Components {
		parts[i] = canonicalType(c)
	}
	return "(" + strings.Join(parts, ",") + ")" + suffix
}

// Signature returns the canonical signature string name(type1,type2,...).
func (it Item) Signature() string {
	types := make([]string, len(it.Inputs))
	for i, p := range it.Inputs {
		types[i] = canonicalType(p)
	}
	return it.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector returns the 4-byte function selector: the first four bytes
// of keccak256 of the canonical signature.
func (it Item) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(it.Signature()))[:4])
	return sel
}

// SelectorHex returns the selector as a 0x-prefixed hex string.
func (it Item) SelectorHex() string {
	sel := it.Selector()
	return fmt.Sprintf("0x%x", sel[:])
}
