package memory

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

type privilege struct {
	signer   bool
	writable bool
}

// transaction is the copy-on-write view of the ledger used while a submission executes.
type transaction struct {
	sandbox  *Sandbox
	feePayer solana.PublicKey
	writes   map[solana.PublicKey]*types.AccountState
	logs     []string
}

func newTransaction(s *Sandbox, feePayer solana.PublicKey) *transaction {
	return &transaction{
		sandbox:  s,
		feePayer: feePayer,
		writes:   make(map[solana.PublicKey]*types.AccountState),
	}
}

func (t *transaction) get(address solana.PublicKey) (types.AccountState, bool) {
	if state, ok := t.writes[address]; ok {
		if state == nil {
			return types.AccountState{}, false
		}

		return state.Clone(), true
	}

	state, ok := t.sandbox.accounts[address]
	if !ok {
		return types.AccountState{}, false
	}

	return state.Clone(), true
}

func (t *transaction) put(address solana.PublicKey, state *types.AccountState) {
	t.writes[address] = state
}

// commit applies the writes to the ledger. Accounts left without lamports are purged.
func (t *transaction) commit() {
	for address, state := range t.writes {
		if state == nil || state.Lamports == 0 {
			delete(t.sandbox.accounts, address)
			continue
		}
		t.sandbox.accounts[address] = *state
	}
}

func (t *transaction) log(format string, args ...any) {
	t.logs = append(t.logs, fmt.Sprintf(format, args...))
}

// topLevelPrivileges merges the flags of every mention of an account in a transaction level
// instruction. The fee payer always signs and is writable.
func (t *transaction) topLevelPrivileges(metas []*solana.AccountMeta) map[solana.PublicKey]privilege {
	privileges := map[solana.PublicKey]privilege{t.feePayer: {signer: true, writable: true}}
	for _, meta := range metas {
		p := privileges[meta.PublicKey]
		p.signer = p.signer || meta.IsSigner
		p.writable = p.writable || meta.IsWritable
		privileges[meta.PublicKey] = p
	}

	return privileges
}

func (t *transaction) invoke(
	programID solana.PublicKey,
	metas []*solana.AccountMeta,
	data []byte,
	callerPrivileges map[solana.PublicKey]privilege,
	depth int,
) error {
	if depth > t.sandbox.maxDepth {
		return fmt.Errorf("%w: depth %d", ErrCallDepth, depth)
	}

	program, ok := t.sandbox.programs[programID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}

	for _, meta := range metas {
		granted := callerPrivileges[meta.PublicKey]
		if (meta.IsSigner && !granted.signer) || (meta.IsWritable && !granted.writable) {
			return fmt.Errorf("%w: %s", ErrPrivilegeEscalation, meta.PublicKey)
		}
	}

	t.log("Program %s invoke [%d]", programID, depth)

	ictx := &InvokeContext{tx: t, programID: programID, accounts: metas, depth: depth}
	if err := program.Process(ictx, metas, data); err != nil {
		t.log("Program %s failed: %v", programID, err)
		return err
	}

	t.log("Program %s success", programID)

	return nil
}

// InvokeContext is the view of the ledger given to a program while it processes an instruction.
type InvokeContext struct {
	tx        *transaction
	programID solana.PublicKey
	accounts  []*solana.AccountMeta
	depth     int
}

// ProgramID returns the address of the executing program.
func (c *InvokeContext) ProgramID() solana.PublicKey {
	return c.programID
}

// Clock returns the sandbox time.
func (c *InvokeContext) Clock() time.Time {
	return c.tx.sandbox.clock
}

// Logf appends a program log line.
func (c *InvokeContext) Logf(format string, args ...any) {
	c.tx.log("Program log: "+format, args...)
}

// IsSigner reports whether address signed the current instruction.
func (c *InvokeContext) IsSigner(address solana.PublicKey) bool {
	meta := c.meta(address)
	return meta != nil && meta.IsSigner
}

// Account returns the state of an account passed to the current instruction.
func (c *InvokeContext) Account(address solana.PublicKey) (types.AccountState, bool, error) {
	if c.meta(address) == nil {
		return types.AccountState{}, false, fmt.Errorf("account %s was not passed to the instruction", address)
	}

	state, ok := c.tx.get(address)

	return state, ok, nil
}

// SetAccount writes the state of an account passed as writable to the current instruction. Only
// the owning program may change the data or owner of an account or debit its balance. Accounts
// that do not exist yet are treated as system owned.
func (c *InvokeContext) SetAccount(address solana.PublicKey, state types.AccountState) error {
	meta := c.meta(address)
	if meta == nil {
		return fmt.Errorf("account %s was not passed to the instruction", address)
	}
	if !meta.IsWritable {
		return fmt.Errorf("%w: %s", ErrReadonlyModified, address)
	}

	current, ok := c.tx.get(address)
	if !ok {
		current = types.AccountState{Owner: solana.SystemProgramID}
	}
	if !current.Owner.Equals(c.programID) {
		modified := !current.Owner.Equals(state.Owner) ||
			current.Executable != state.Executable ||
			!bytes.Equal(current.Data, state.Data) ||
			state.Lamports < current.Lamports
		if modified {
			return fmt.Errorf("%w: %s", ErrExternalAccountModified, address)
		}
	}

	cloned := state.Clone()
	c.tx.put(address, &cloned)

	return nil
}

// Invoke executes a cross-program invocation. signers are program derived addresses the
// calling program signs for.
func (c *InvokeContext) Invoke(ix solana.Instruction, signers ...solana.PublicKey) error {
	data, err := ix.Data()
	if err != nil {
		return fmt.Errorf("invalid instruction data: %w", err)
	}

	privileges := make(map[solana.PublicKey]privilege, len(c.accounts)+len(signers))
	for _, meta := range c.accounts {
		p := privileges[meta.PublicKey]
		p.signer = p.signer || meta.IsSigner
		p.writable = p.writable || meta.IsWritable
		privileges[meta.PublicKey] = p
	}
	for _, signer := range signers {
		p := privileges[signer]
		p.signer = true
		privileges[signer] = p
	}

	return c.tx.invoke(ix.ProgramID(), ix.Accounts(), data, privileges, c.depth+1)
}

func (c *InvokeContext) meta(address solana.PublicKey) *solana.AccountMeta {
	var found *solana.AccountMeta
	for _, meta := range c.accounts {
		if !meta.PublicKey.Equals(address) {
			continue
		}
		if found == nil {
			m := *meta
			found = &m
			continue
		}
		found.IsSigner = found.IsSigner || meta.IsSigner
		found.IsWritable = found.IsWritable || meta.IsWritable
	}

	return found
}
