package abi

import (
	"testing"
)

const erc20JSON = `[
	{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"pure"},
	{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}],"stateMutability":"nonpayable"},
	{"type":"event","name":"Transfer","inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256"}]}
]`

func TestParseJSON(t *testing.T) {
	items, err := ParseJSON([]byte(erc20JSON))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("ParseJSON() returned %d items, want 5", len(items))
	}
	if items[0].Kind != KindFunction {
		t.Errorf("items[0].Kind = %v, want function", items[0].Kind)
	}
	if items[3].Kind != KindConstructor {
		t.Errorf("items[3].Kind = %v, want constructor", items[3].Kind)
	}
	if items[4].Kind != KindEvent {
		t.Errorf("items[4].Kind = %v, want event", items[4].Kind)
	}
}

func TestParseJSONSingleObject(t *testing.T) {
	single := `{"type":"function","name":"decimals","inputs":[],"outputs":[{"name":"","type":"uint8"}],"stateMutability":"view"}`
	items, err := ParseJSON([]byte(single))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("ParseJSON() returned %d items, want 1", len(items))
	}
	if items[0].Name != "decimals" {
		t.Errorf("items[0].Name = %q, want decimals", items[0].Name)
	}
}

func TestParseJSONWrapper(t *testing.T) {
	wrapped := `{"abi":` + erc20JSON + `}`
	items, err := ParseJSON([]byte(wrapped))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if len(items) != 5 {
		t.Errorf("ParseJSON() returned %d items, want 5", len(items))
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want string
	}{
		{
			name: "transfer",
			item: Item{
				Kind: KindFunction,
				Name: "transfer",
				Inputs: []Parameter{
					{Name: "to", Type: "address"},
					{Name: "amount", Type: "uint256"},
				},
			},
			want: "transfer(address,uint256)",
		},
		{
			name: "no args",
			item: Item{Kind: KindFunction, Name: "decimals"},
			want: "decimals()",
		},
		{
			name: "tuple input",
			item: Item{
				Kind: KindFunction,
				Name: "submit",
				Inputs: []Parameter{
					{Name: "order", Type: "tuple", Components: []Parameter{
						{Name: "maker", Type: "address"},
						{Name: "amounts", Type: "uint256[]"},
					}},
				},
			},
			want: "submit((address,uint256[]))",
		},
		{
			name: "tuple array input",
			item: Item{
				Kind: KindFunction,
				Name: "batch",
				Inputs: []Parameter{
					{Name: "orders", Type: "tuple[]", Components: []Parameter{
						{Name: "maker", Type: "address"},
						{Name: "amount", Type: "uint256"},
					}},
				},
			},
			want: "batch((address,uint256)[])",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Signature(); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSelector(t *testing.T) {
	tests := []struct {
		sig  string
		item Item
		want string
	}{
		{
			item: Item{Kind: KindFunction, Name: "transfer", Inputs: []Parameter{
				{Type: "address"}, {Type: "uint256"},
			}},
			want: "0xa9059cbb",
		},
		{
			item: Item{Kind: KindFunction, Name: "balanceOf", Inputs: []Parameter{
				{Type: "address"},
			}},
			want: "0x70a08231",
		},
		{
			item: Item{Kind: KindFunction, Name: "approve", Inputs: []Parameter{
				{Type: "address"}, {Type: "uint256"},
			}},
			want: "0x095ea7b3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.item.Name, func(t *testing.T) {
			if got := tt.item.SelectorHex(); got != tt.want {
				t.Errorf("SelectorHex() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFindFunction(t *testing.T) {
	items, err := ParseJSON([]byte(erc20JSON))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	item, err := FindFunction(items, "balanceOf")
	if err != nil {
		t.Fatalf("FindFunction() error = %v", err)
	}
	if item.Name != "balanceOf" {
		t.Errorf("FindFunction() name = %s, want balanceOf", item.Name)
	}
	if !item.IsReadOnly() {
		t.Error("balanceOf should be read-only")
	}

	if _, err := FindFunction(items, "missing"); err == nil {
		t.Error("FindFunction() should fail for unknown name")
	}

	// Events are not functions
	if _, err := FindFunction(items, "Transfer"); err == nil {
		t.Error("FindFunction() should not match events")
	}
}

func TestFindFunctionFirstOverload(t *testing.T) {
	overloaded := `[
		{"type":"function","name":"get","inputs":[{"name":"key","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
		{"type":"function","name":"get","inputs":[{"name":"key","type":"string"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}
	]`
	items, err := ParseJSON([]byte(overloaded))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	item, err := FindFunction(items, "get")
	if err != nil {
		t.Fatalf("FindFunction() error = %v", err)
	}
	if got := item.Signature(); got != "get(uint256)" {
		t.Errorf("FindFunction() picked %s, want first overload get(uint256)", got)
	}

	item, err = FindBySignature(items, "get(string)")
	if err != nil {
		t.Fatalf("FindBySignature() error = %v", err)
	}
	if got := item.Signature(); got != "get(string)" {
		t.Errorf("FindBySignature() picked %s, want get(string)", got)
	}
}

func TestFindConstructor(t *testing.T) {
	items, err := ParseJSON([]byte(erc20JSON))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	ctor, ok := FindConstructor(items)
	if !ok {
		t.Fatal("FindConstructor() found no constructor")
	}
	if len(ctor.Inputs) != 1 || ctor.Inputs[0].Type != "uint256" {
		t.Errorf("constructor inputs = %+v, want single uint256", ctor.Inputs)
	}
}

func TestStateMutability(t *testing.T) {
	items, _ := ParseJSON([]byte(erc20JSON))

	tests := []struct {
		name     string
		readOnly bool
	}{
		{"transfer", false},
		{"balanceOf", true},
		{"decimals", true},
	}
	for _, tt := range tests {
		item, err := FindFunction(items, tt.name)
		if err != nil {
			t.Fatalf("FindFunction(%s) error = %v", tt.name, err)
		}
		if got := item.IsReadOnly(); got != tt.readOnly {
			t.Errorf("%s IsReadOnly() = %v, want %v", tt.name, got, tt.readOnly)
		}
	}
}

func TestHeadSize(t *testing.T) {
	tests := []struct {
		name   string
		params []Parameter
		want   int
	}{
		{
			name:   "uint256 and string",
			params: []Parameter{{Type: "uint256"}, {Type: "string"}},
			want:   64,
		},
		{
			name:   "static fixed array",
			params: []Parameter{{Type: "uint256[3]"}},
			want:   96,
		},
		{
			name:   "dynamic array takes one slot",
			params: []Parameter{{Type: "uint256[]"}, {Type: "bool"}},
			want:   64,
		},
		{
			name: "static tuple",
			params: []Parameter{{Type: "tuple", Components: []Parameter{
				{Type: "address"}, {Type: "uint256"},
			}}},
			want: 64,
		},
		{
			name: "dynamic tuple takes one slot",
			params: []Parameter{{Type: "tuple", Components: []Parameter{
				{Type: "address"}, {Type: "string"},
			}}},
			want: 32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeadSize(tt.params); got != tt.want {
				t.Errorf("HeadSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsDynamic(t *testing.T) {
	tests := []struct {
		typ        string
		components []Parameter
		want       bool
	}{
		{typ: "uint256", want: false},
		{typ: "address", want: false},
		{typ: "bytes32", want: false},
		{typ: "string", want: true},
		{typ: "bytes", want: true},
		{typ: "uint256[]", want: true},
		{typ: "uint256[3]", want: false},
		{typ: "string[3]", want: true},
		{typ: "tuple", components: []Parameter{{Type: "uint256"}}, want: false},
		{typ: "tuple", components: []Parameter{{Type: "bytes"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			if got := IsDynamic(tt.typ, tt.components); got != tt.want {
				t.Errorf("IsDynamic(%s) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
