package memory

import (
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/smartcontractkit/mcms-preview/types"
)

// MaxPermittedDataLength is the largest account the system program allocates.
const MaxPermittedDataLength = 10 * 1024 * 1024

var (
	ErrMissingRequiredSignature = errors.New("missing required signature for instruction")
	ErrInsufficientFunds        = errors.New("insufficient lamports")
	ErrAccountAlreadyInUse      = errors.New("account already in use")
	ErrInvalidAccountData       = errors.New("invalid account data for instruction")
	ErrNotEnoughAccountKeys     = errors.New("insufficient account keys for instruction")
	ErrArithmeticOverflow       = errors.New("arithmetic overflow")
)

// SystemProgram models the transfer, create account, assign and allocate instructions of the
// system program.
type SystemProgram struct{}

var _ Program = SystemProgram{}

func (SystemProgram) Process(ictx *InvokeContext, accounts []*solana.AccountMeta, data []byte) error {
	inst, err := system.DecodeInstruction(accounts, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAccountData, err)
	}

	switch impl := inst.Impl.(type) {
	case *system.Transfer:
		ictx.Logf("Instruction: Transfer")
		if len(accounts) < 2 {
			return ErrNotEnoughAccountKeys
		}

		return transfer(ictx, accounts[0].PublicKey, accounts[1].PublicKey, *impl.Lamports)

	case *system.CreateAccount:
		ictx.Logf("Instruction: CreateAccount")
		if len(accounts) < 2 {
			return ErrNotEnoughAccountKeys
		}

		return createAccount(ictx, accounts[0].PublicKey, accounts[1].PublicKey, *impl.Lamports, *impl.Space, *impl.Owner)

	case *system.Assign:
		ictx.Logf("Instruction: Assign")
		if len(accounts) < 1 {
			return ErrNotEnoughAccountKeys
		}

		return assign(ictx, accounts[0].PublicKey, *impl.Owner)

	case *system.Allocate:
		ictx.Logf("Instruction: Allocate")
		if len(accounts) < 1 {
			return ErrNotEnoughAccountKeys
		}

		return allocate(ictx, accounts[0].PublicKey, *impl.Space)

	default:
		return fmt.Errorf("%w: unsupported system instruction %T", ErrInvalidAccountData, impl)
	}
}

func transfer(ictx *InvokeContext, from, to solana.PublicKey, lamports uint64) error {
	if !ictx.IsSigner(from) {
		return fmt.Errorf("%w: %s", ErrMissingRequiredSignature, from)
	}

	source, _, err := ictx.Account(from)
	if err != nil {
		return err
	}
	if len(source.Data) > 0 {
		return fmt.Errorf("%w: transfer from must not carry data", ErrInvalidAccountData)
	}
	if source.Lamports < lamports {
		ictx.Logf("Transfer: insufficient lamports %d, need %d", source.Lamports, lamports)
		return ErrInsufficientFunds
	}
	source.Lamports -= lamports
	if err = ictx.SetAccount(from, source); err != nil {
		return err
	}

	destination, exists, err := ictx.Account(to)
	if err != nil {
		return err
	}
	if !exists {
		destination = types.AccountState{Owner: solana.SystemProgramID}
	}
	if destination.Lamports > math.MaxUint64-lamports {
		ictx.Logf("Transfer: destination %s balance overflows", to)
		return ErrArithmeticOverflow
	}
	destination.Lamports += lamports

	return ictx.SetAccount(to, destination)
}

func createAccount(ictx *InvokeContext, from, to solana.PublicKey, lamports, space uint64, owner solana.PublicKey) error {
	if !ictx.IsSigner(to) {
		return fmt.Errorf("%w: %s", ErrMissingRequiredSignature, to)
	}

	existing, exists, err := ictx.Account(to)
	if err != nil {
		return err
	}
	if exists && (existing.Lamports > 0 || len(existing.Data) > 0 || !existing.Owner.Equals(solana.SystemProgramID)) {
		ictx.Logf("Create Account: account %s already in use", to)
		return ErrAccountAlreadyInUse
	}

	if err = allocate(ictx, to, space); err != nil {
		return err
	}
	if err = assign(ictx, to, owner); err != nil {
		return err
	}

	return transfer(ictx, from, to, lamports)
}

func assign(ictx *InvokeContext, address, owner solana.PublicKey) error {
	account, exists, err := ictx.Account(address)
	if err != nil {
		return err
	}
	if !exists {
		account = types.AccountState{Owner: solana.SystemProgramID}
	}
	if account.Owner.Equals(owner) {
		return nil
	}
	if !ictx.IsSigner(address) {
		return fmt.Errorf("%w: %s", ErrMissingRequiredSignature, address)
	}
	account.Owner = owner

	return ictx.SetAccount(address, account)
}

func allocate(ictx *InvokeContext, address solana.PublicKey, space uint64) error {
	if !ictx.IsSigner(address) {
		return fmt.Errorf("%w: %s", ErrMissingRequiredSignature, address)
	}

	account, exists, err := ictx.Account(address)
	if err != nil {
		return err
	}
	if !exists {
		account = types.AccountState{Owner: solana.SystemProgramID}
	}
	if len(account.Data) > 0 || !account.Owner.Equals(solana.SystemProgramID) {
		ictx.Logf("Allocate: account %s already in use", address)
		return ErrAccountAlreadyInUse
	}
	if space > MaxPermittedDataLength {
		return fmt.Errorf("%w: requested %d bytes", ErrInvalidAccountData, space)
	}
	account.Data = make([]byte, space)

	return ictx.SetAccount(address, account)
}
