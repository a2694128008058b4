package preview

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/mcms-preview/types"
)

// ErrZeroProgramID is returned when a proposal does not name the MCM program.
var ErrZeroProgramID = errors.New("program id must not be the zero address")

// ErrBatchesFailed is returned when at least one simulated batch failed.
var ErrBatchesFailed = errors.New("one or more batches failed")

// InvalidOpCountError is returned when the op counts of the root metadata do not cover exactly
// the operations of the proposal.
type InvalidOpCountError struct {
	PreOpCount    uint64
	PostOpCount   uint64
	NumOperations int
}

// NewInvalidOpCountError creates a new InvalidOpCountError.
func NewInvalidOpCountError(pre, post uint64, numOps int) *InvalidOpCountError {
	return &InvalidOpCountError{PreOpCount: pre, PostOpCount: post, NumOperations: numOps}
}

func (e *InvalidOpCountError) Error() string {
	return fmt.Sprintf("invalid op count: postOpCount (%d) - preOpCount (%d) must be positive and equal the number of operations (%d)",
		e.PostOpCount, e.PreOpCount, e.NumOperations)
}

// UnsupportedChainFamilyError is returned when the proposal targets a chain that is not Solana.
type UnsupportedChainFamilyError struct {
	ChainSelector types.ChainSelector
	ChainFamily   string
}

// NewUnsupportedChainFamilyError creates a new UnsupportedChainFamilyError.
func NewUnsupportedChainFamilyError(sel types.ChainSelector, family string) *UnsupportedChainFamilyError {
	return &UnsupportedChainFamilyError{ChainSelector: sel, ChainFamily: family}
}

func (e *UnsupportedChainFamilyError) Error() string {
	return fmt.Sprintf("unsupported chain family %q for chain selector %d", e.ChainFamily, e.ChainSelector)
}
