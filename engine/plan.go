package engine

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

// Batch is a group of instructions submitted as one atomic transaction.
type Batch struct {
	Label string

	// FeePayer pays the transaction fee. When zero the plan fee payer is used.
	FeePayer solana.PublicKey

	// FundLamports, when non zero, is credited to the fee payer before submission.
	FundLamports uint64

	Instructions []solana.Instruction
}

// Plan describes a simulation run.
type Plan struct {
	// Accounts are loaded from the account source before anything else happens.
	Accounts []solana.PublicKey

	// Overrides are written to the sandbox after loading and take precedence over the source.
	Overrides map[solana.PublicKey]types.AccountState

	// Clock, when set, is applied to the sandbox before the first batch.
	Clock *time.Time

	// FeePayer is the default fee payer of batches that do not name one.
	FeePayer solana.PublicKey

	Batches []Batch

	// TrackedAccounts returns the accounts whose changes are reported for a batch. When nil,
	// every account referenced by the batch instructions is tracked.
	TrackedAccounts func(batchIndex int) []solana.PublicKey
}

// TrackedAccountsFor returns the accounts tracked for the batch at index i.
func (p Plan) TrackedAccountsFor(i int) []solana.PublicKey {
	if p.TrackedAccounts != nil {
		return p.TrackedAccounts(i)
	}

	var tracked []solana.PublicKey
	for _, ix := range p.Batches[i].Instructions {
		for _, meta := range ix.Accounts() {
			tracked = append(tracked, meta.PublicKey)
		}
	}

	return dedupe(tracked)
}

func (p Plan) feePayerFor(i int) solana.PublicKey {
	if !p.Batches[i].FeePayer.IsZero() {
		return p.Batches[i].FeePayer
	}

	return p.FeePayer
}

// dedupe removes repeated addresses, keeping the first occurrence.
func dedupe(addresses []solana.PublicKey) []solana.PublicKey {
	seen := make(map[solana.PublicKey]struct{}, len(addresses))
	out := make([]solana.PublicKey, 0, len(addresses))
	for _, address := range addresses {
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		out = append(out, address)
	}

	return out
}
