package engine

import (
	"bytes"
	"slices"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

// Mutation describes how one account changed across a batch. Pointer fields are nil when the
// account did not exist on that side.
type Mutation struct {
	Address        solana.PublicKey  `json:"address"`
	ExistedBefore  bool              `json:"existedBefore"`
	ExistsAfter    bool              `json:"existsAfter"`
	OwnerBefore    *solana.PublicKey `json:"ownerBefore"`
	OwnerAfter     *solana.PublicKey `json:"ownerAfter"`
	LamportsBefore *uint64           `json:"lamportsBefore"`
	LamportsAfter  *uint64           `json:"lamportsAfter"`
	DataChanged    bool              `json:"dataChanged"`

	// DataBefore and DataAfter are only set when DataChanged is true.
	DataBefore []byte `json:"dataBefore,omitempty"`
	DataAfter  []byte `json:"dataAfter,omitempty"`
}

// ComputeMutation compares two optional snapshots of address. It returns false when the account
// is unchanged, which includes the case where it exists on neither side.
func ComputeMutation(address solana.PublicKey, before, after *types.AccountSnapshot) (Mutation, bool) {
	m := Mutation{
		Address:       address,
		ExistedBefore: before != nil,
		ExistsAfter:   after != nil,
	}

	if before != nil {
		owner, lamports := before.Owner, before.Lamports
		m.OwnerBefore, m.LamportsBefore = &owner, &lamports
	}
	if after != nil {
		owner, lamports := after.Owner, after.Lamports
		m.OwnerAfter, m.LamportsAfter = &owner, &lamports
	}

	switch {
	case before == nil && after == nil:
		return Mutation{}, false
	case before == nil || after == nil:
		m.DataChanged = true
	default:
		m.DataChanged = !bytes.Equal(before.Data, after.Data)
	}

	if m.DataChanged {
		if before != nil {
			m.DataBefore = slices.Clone(before.Data)
		}
		if after != nil {
			m.DataAfter = slices.Clone(after.Data)
		}
	}

	changed := m.ExistedBefore != m.ExistsAfter || m.DataChanged
	if !changed {
		// both sides exist
		changed = !before.Owner.Equals(after.Owner) || before.Lamports != after.Lamports
	}
	if !changed {
		return Mutation{}, false
	}

	return m, true
}

// ComputeMutations returns the mutations of the tracked addresses, in tracked order with
// repeated addresses reported once.
func ComputeMutations(
	tracked []solana.PublicKey, before, after map[solana.PublicKey]types.AccountSnapshot,
) []Mutation {
	mutations := make([]Mutation, 0)
	for _, address := range dedupe(tracked) {
		var b, a *types.AccountSnapshot
		if snapshot, ok := before[address]; ok {
			b = &snapshot
		}
		if snapshot, ok := after[address]; ok {
			a = &snapshot
		}

		if m, ok := ComputeMutation(address, b, a); ok {
			mutations = append(mutations, m)
		}
	}

	return mutations
}
