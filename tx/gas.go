package tx

// Gas cost constants for intrinsic gas calculation.
const (
	TxGas                     = 21000
	TxDataZeroGas             = 4
	TxDataNonZeroGas          = 16
	TxAccessListAddressGas    = 2400
	TxAccessListStorageKeyGas = 1900
)

// IntrinsicGas returns the minimum gas a transaction with the given
// calldata and access list consumes before any execution.
func IntrinsicGas(data []byte, accessList []AccessTuple) uint64 {
	gas := uint64(TxGas)

	for _, b := range data {
		if b == 0 {
			gas += TxDataZeroGas
		} else {
			gas += TxDataNonZeroGas
		}
	}

	for _, tuple := range accessList {
		gas += TxAccessListAddressGas
		gas += uint64(len(tuple.StorageKeys)) * TxAccessListStorageKeyGas
	}

	return gas
}
