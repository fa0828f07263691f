package tx

import (
	"math/big"
	"testing"
)

func TestEther(t *testing.T) {
	tests := []struct {
		in      string
		wantWei string
		wantErr bool
	}{
		{in: "1", wantWei: "1000000000000000000"},
		{in: "1.5", wantWei: "1500000000000000000"},
		{in: "0.000000000000000001", wantWei: "1"},
		{in: "0", wantWei: "0"},
		{in: "1000000", wantWei: "1000000000000000000000000"},
		{in: ".5", wantWei: "500000000000000000"},
		{in: "-0.5", wantWei: "-500000000000000000"},
		{in: "0.0000000000000000001", wantErr: true}, // 19 decimals
		{in: "abc", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Ether(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Ether(%q) expected error, got %s", tt.in, v.Wei())
				}
				return
			}
			if err != nil {
				t.Fatalf("Ether(%q) error = %v", tt.in, err)
			}
			want, _ := new(big.Int).SetString(tt.wantWei, 10)
			if v.Wei().Cmp(want) != 0 {
				t.Errorf("Ether(%q) = %s wei, want %s", tt.in, v.Wei(), tt.wantWei)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"1.5", "1.5"},
		{"1.500", "1.5"},
		{"0.000000000000000001", "0.000000000000000001"},
		{"0", "0"},
		{"-2.25", "-2.25"},
	}

	for _, tt := range tests {
		v := MustEther(tt.in)
		if got := v.String(); got != tt.want {
			t.Errorf("MustEther(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGwei(t *testing.T) {
	v := Gwei(3)
	if v.Wei().Cmp(big.NewInt(3_000_000_000)) != 0 {
		t.Errorf("Gwei(3) = %s wei, want 3000000000", v.Wei())
	}
}

func TestWeiCopies(t *testing.T) {
	n := big.NewInt(100)
	v := Wei(n)
	n.SetInt64(999)
	if v.Wei().Int64() != 100 {
		t.Error("Wei() must not alias the caller's big.Int")
	}
}
