package sdk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

// Sandbox is an isolated ledger that instruction batches are executed against.
//
// A sandbox is owned by a single simulation run. It never verifies signatures.
type Sandbox interface {
	// SetAccount replaces the state of address.
	SetAccount(ctx context.Context, address solana.PublicKey, state types.AccountState) error

	// GetAccount returns the current state of address, and false if the account does not exist.
	GetAccount(ctx context.Context, address solana.PublicKey) (types.AccountState, bool, error)

	// Submit executes the instructions as a single atomic transaction paid by feePayer. Either
	// every instruction takes effect or none does. A rejected transaction is reported as a
	// *TransactionError.
	Submit(ctx context.Context, feePayer solana.PublicKey, instructions []solana.Instruction) error

	// AdvanceClock moves the sandbox clock to ts.
	AdvanceClock(ctx context.Context, ts time.Time) error

	// FundAccount credits lamports to address, creating a system owned account if needed.
	FundAccount(ctx context.Context, address solana.PublicKey, lamports uint64) error
}

// TransactionError is returned by a Sandbox when it rejects a submitted transaction.
type TransactionError struct {
	// Reason is the runtime error description.
	Reason string

	// InstructionIndex is the index of the failing instruction, or -1 when the failure is not
	// tied to an instruction (e.g. fee payment).
	InstructionIndex int

	// Logs are the program logs emitted before the failure.
	Logs []string
}

// NewTransactionError creates a new TransactionError.
func NewTransactionError(reason string, instructionIndex int, logs []string) *TransactionError {
	return &TransactionError{Reason: reason, InstructionIndex: instructionIndex, Logs: logs}
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.InstructionIndex < 0 {
		return "transaction failed: " + e.Reason
	}

	return fmt.Sprintf("transaction failed: instruction %d: %s", e.InstructionIndex, e.Reason)
}

// LogsString joins the program logs with new lines.
func (e *TransactionError) LogsString() string {
	return strings.Join(e.Logs, "\n")
}
