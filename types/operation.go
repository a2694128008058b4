package types

import "github.com/gagliardetto/solana-go"

// OperationMetadata contains metadata about an operation
type OperationMetadata struct {
	ContractType string   `json:"contractType,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// AccountRef is an account passed to the target program of an operation.
type AccountRef struct {
	Address    solana.PublicKey `json:"address" validate:"required"`
	IsSigner   bool             `json:"isSigner"`
	IsWritable bool             `json:"isWritable"`
}

// Operation represents a single instruction the multisig executes on behalf of the proposal.
//
// The OperationMetadata is informational only and is not committed to by the merkle root.
type Operation struct {
	To       solana.PublicKey `json:"to" validate:"required"`
	Data     []byte           `json:"data"`
	Accounts []AccountRef     `json:"accounts" validate:"dive"`
	OperationMetadata
}

// AccountMetas converts the operation accounts into solana account metas, preserving order.
func (o Operation) AccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, len(o.Accounts))
	for i, a := range o.Accounts {
		metas[i] = solana.NewAccountMeta(a.Address, a.IsWritable, a.IsSigner)
	}

	return metas
}

// Addresses returns the target program followed by every account address of the operation.
func (o Operation) Addresses() []solana.PublicKey {
	addrs := make([]solana.PublicKey, 0, len(o.Accounts)+1)
	addrs = append(addrs, o.To)
	for _, a := range o.Accounts {
		addrs = append(addrs, a.Address)
	}

	return addrs
}
