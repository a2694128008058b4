// Package memory implements an in-process ledger that instruction batches can be simulated
// against without a cluster. Programs are native Go models registered by address.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/types"
)

var _ sdk.Sandbox = (*Sandbox)(nil)

const (
	// DefaultTransactionFee is the fee charged per transaction, one signature at the default
	// lamports per signature.
	DefaultTransactionFee uint64 = 5000

	// DefaultMaxInvokeDepth is the deepest instruction nesting allowed, the top level
	// instruction included.
	DefaultMaxInvokeDepth = 5
)

// Program is a native model of an on-chain program.
type Program interface {
	// Process executes one instruction addressed to the program.
	Process(ictx *InvokeContext, accounts []*solana.AccountMeta, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ictx *InvokeContext, accounts []*solana.AccountMeta, data []byte) error

func (f ProgramFunc) Process(ictx *InvokeContext, accounts []*solana.AccountMeta, data []byte) error {
	return f(ictx, accounts, data)
}

// Sandbox is an in-memory sdk.Sandbox.
type Sandbox struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey]types.AccountState
	programs map[solana.PublicKey]Program
	clock    time.Time
	fee      uint64
	maxDepth int
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithProgram registers a native program at programID.
func WithProgram(programID solana.PublicKey, program Program) Option {
	return func(s *Sandbox) {
		s.programs[programID] = program
	}
}

// WithTransactionFee sets the fee charged to the fee payer of every successful transaction.
func WithTransactionFee(fee uint64) Option {
	return func(s *Sandbox) {
		s.fee = fee
	}
}

// WithClock sets the initial time of the sandbox clock.
func WithClock(ts time.Time) Option {
	return func(s *Sandbox) {
		s.clock = ts
	}
}

// WithMaxInvokeDepth sets the maximum instruction nesting.
func WithMaxInvokeDepth(depth int) Option {
	return func(s *Sandbox) {
		s.maxDepth = depth
	}
}

// NewSandbox creates an empty sandbox with the system program registered.
func NewSandbox(opts ...Option) *Sandbox {
	s := &Sandbox{
		accounts: make(map[solana.PublicKey]types.AccountState),
		programs: map[solana.PublicKey]Program{solana.SystemProgramID: SystemProgram{}},
		clock:    time.Now().UTC(),
		fee:      DefaultTransactionFee,
		maxDepth: DefaultMaxInvokeDepth,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Sandbox) SetAccount(_ context.Context, address solana.PublicKey, state types.AccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[address] = state.Clone()

	return nil
}

func (s *Sandbox) GetAccount(_ context.Context, address solana.PublicKey) (types.AccountState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.accounts[address]
	if !ok {
		return types.AccountState{}, false, nil
	}

	return state.Clone(), true, nil
}

func (s *Sandbox) FundAccount(_ context.Context, address solana.PublicKey, lamports uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.accounts[address]
	if !ok {
		state = types.AccountState{Owner: solana.SystemProgramID}
	}
	if state.Lamports+lamports < state.Lamports {
		return fmt.Errorf("funding %s overflows its balance", address)
	}
	state.Lamports += lamports
	s.accounts[address] = state

	return nil
}

// AdvanceClock moves the clock forward. Moving it backwards is rejected.
func (s *Sandbox) AdvanceClock(_ context.Context, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ts.Before(s.clock) {
		return fmt.Errorf("cannot move clock backwards from %s to %s", s.clock, ts)
	}
	s.clock = ts

	return nil
}

// Clock returns the current sandbox time.
func (s *Sandbox) Clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clock
}

// Submit runs the instructions in order against a copy of the ledger. The copy replaces the
// ledger only when every instruction succeeds and the fee can be paid.
func (s *Sandbox) Submit(ctx context.Context, feePayer solana.PublicKey, instructions []solana.Instruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payer, ok := s.accounts[feePayer]
	if !ok {
		return sdk.NewTransactionError("fee payer account not found", -1, nil)
	}
	if payer.Lamports < s.fee {
		return sdk.NewTransactionError("insufficient funds for fee", -1, nil)
	}

	tx := newTransaction(s, feePayer)
	for i, ix := range instructions {
		data, err := ix.Data()
		if err != nil {
			return sdk.NewTransactionError(fmt.Sprintf("invalid instruction data: %v", err), i, tx.logs)
		}

		if err := tx.invoke(ix.ProgramID(), ix.Accounts(), data, tx.topLevelPrivileges(ix.Accounts()), 1); err != nil {
			return sdk.NewTransactionError(err.Error(), i, tx.logs)
		}
	}

	payer, ok = tx.get(feePayer)
	if !ok || payer.Lamports < s.fee {
		return sdk.NewTransactionError("insufficient funds for fee", -1, tx.logs)
	}
	payer.Lamports -= s.fee
	tx.put(feePayer, &payer)
	tx.commit()

	sdk.LoggerFrom(ctx).Debugw("transaction committed", "instructions", len(instructions), "logs", len(tx.logs))

	return nil
}

var (
	// ErrProgramNotFound is returned when an instruction targets an unregistered program.
	ErrProgramNotFound = errors.New("program not found")

	// ErrCallDepth is returned when instruction nesting exceeds the configured maximum.
	ErrCallDepth = errors.New("cross-program invocation call depth too deep")

	// ErrPrivilegeEscalation is returned when an inner instruction asks for a signer or
	// writable privilege its caller does not hold.
	ErrPrivilegeEscalation = errors.New("cross-program invocation with unauthorized signer or writable account")

	// ErrReadonlyModified is returned when an instruction writes to an account it received as
	// read only.
	ErrReadonlyModified = errors.New("instruction modified a read-only account")

	// ErrExternalAccountModified is returned when an instruction changes the data or owner, or
	// debits the balance, of an account owned by another program.
	ErrExternalAccountModified = errors.New("instruction modified an account it does not own")
)
