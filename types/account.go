package types

import (
	"bytes"
	"slices"

	"github.com/gagliardetto/solana-go"
)

// AccountState is the observable state of a ledger account.
type AccountState struct {
	Lamports   uint64           `json:"lamports"`
	Data       []byte           `json:"data"`
	Owner      solana.PublicKey `json:"owner"`
	Executable bool             `json:"executable"`
}

// Clone returns a deep copy of the state. The copy never shares its data buffer with the
// receiver.
func (s AccountState) Clone() AccountState {
	c := s
	if s.Data != nil {
		c.Data = slices.Clone(s.Data)
	}

	return c
}

// Equal reports whether both states are identical, byte for byte.
func (s AccountState) Equal(o AccountState) bool {
	return s.Lamports == o.Lamports &&
		s.Owner.Equals(o.Owner) &&
		s.Executable == o.Executable &&
		bytes.Equal(s.Data, o.Data)
}

// AccountSnapshot is a point-in-time copy of an account.
type AccountSnapshot struct {
	Address solana.PublicKey `json:"address"`
	AccountState
}

// NewAccountSnapshot copies state into a snapshot for address.
func NewAccountSnapshot(address solana.PublicKey, state AccountState) AccountSnapshot {
	return AccountSnapshot{Address: address, AccountState: state.Clone()}
}
