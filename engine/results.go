package engine

import (
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

// BatchResult is the outcome of one batch.
type BatchResult struct {
	Index     int        `json:"index"`
	Label     string     `json:"label"`
	Success   bool       `json:"success"`
	Error     string     `json:"error,omitempty"`
	Logs      []string   `json:"logs"`
	Mutations []Mutation `json:"mutations"`
}

// Results is the output of a simulation run.
type Results struct {
	Batches []BatchResult `json:"batches"`

	// LoadedAccounts are the account states fetched from the source and written to the sandbox,
	// in plan order.
	LoadedAccounts []types.AccountSnapshot `json:"loadedAccounts"`

	// MissingAccounts and FailedAccounts are only populated under the lenient load policy.
	MissingAccounts []solana.PublicKey `json:"missingAccounts,omitempty"`
	FailedAccounts  []AccountFailure   `json:"failedAccounts,omitempty"`

	// Overrides are the account states written from the plan overrides, sorted by address.
	Overrides []types.AccountSnapshot `json:"overrides"`
}

// AllSucceeded reports whether every batch succeeded.
func (r *Results) AllSucceeded() bool {
	for _, batch := range r.Batches {
		if !batch.Success {
			return false
		}
	}

	return true
}

// FailedBatches returns the indexes of the batches that failed.
func (r *Results) FailedBatches() []int {
	var failed []int
	for _, batch := range r.Batches {
		if !batch.Success {
			failed = append(failed, batch.Index)
		}
	}

	return failed
}
