package tx

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestIntrinsicGas(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		accessList []AccessTuple
		want       uint64
	}{
		{
			name: "plain transfer",
			want: 21000,
		},
		{
			name: "zero bytes",
			data: make([]byte, 4),
			want: 21000 + 4*4,
		},
		{
			name: "nonzero bytes",
			data: []byte{0xa9, 0x05, 0x9c, 0xbb},
			want: 21000 + 4*16,
		},
		{
			name: "mixed calldata",
			data: []byte{0xa9, 0x00, 0x9c, 0x00},
			want: 21000 + 2*16 + 2*4,
		},
		{
			name: "access list",
			accessList: []AccessTuple{
				{Address: common.HexToAddress("0x1"), StorageKeys: []common.Hash{{}, {}}},
				{Address: common.HexToAddress("0x2")},
			},
			want: 21000 + 2*2400 + 2*1900,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntrinsicGas(tt.data, tt.accessList); got != tt.want {
				t.Errorf("IntrinsicGas() = %d, want %d", got, tt.want)
			}
		})
	}
}
