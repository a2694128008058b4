package types

import "github.com/gagliardetto/solana-go"

// RootMetadata is the metadata committed to as the first leaf of a proposal merkle tree.
type RootMetadata struct {
	ChainID              ChainSelector    `json:"chainId" validate:"required"`
	Multisig             solana.PublicKey `json:"multisig" validate:"required"`
	PreOpCount           uint64           `json:"preOpCount"`
	PostOpCount          uint64           `json:"postOpCount"`
	OverridePreviousRoot bool             `json:"overridePreviousRoot"`
}

// TxCount returns the number of operations covered by the metadata.
func (m RootMetadata) TxCount() uint64 {
	if m.PostOpCount < m.PreOpCount {
		return 0
	}

	return m.PostOpCount - m.PreOpCount
}
