package memory

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/internal/core/merkle"
	"github.com/smartcontractkit/mcms-preview/internal/utils/safecast"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
	"github.com/smartcontractkit/mcms-preview/types"
)

var (
	ErrConstraintSeeds         = errors.New("ConstraintSeeds: account does not match the expected program address")
	ErrAccountOwnedByWrongProg = errors.New("AccountOwnedByWrongProgram")
	ErrRootExpired             = errors.New("RootExpired")
	ErrWrongChainID            = errors.New("WrongChainId")
	ErrWrongMultiSig           = errors.New("WrongMultiSig")
	ErrWrongNonce              = errors.New("WrongNonce")
	ErrPostOpCountReached      = errors.New("PostOpCountReached")
	ErrProofCannotBeVerified   = errors.New("ProofCannotBeVerified")
)

// MCMProgram models the execute instruction of the ManyChainMultiSig program: it checks an
// operation against the active root and invokes the operation's target signed by the multisig
// signer.
type MCMProgram struct{}

var _ Program = MCMProgram{}

func (MCMProgram) Process(ictx *InvokeContext, accounts []*solana.AccountMeta, data []byte) error {
	args, err := solanasdk.DecodeExecuteArgs(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAccountData, err)
	}
	ictx.Logf("Instruction: Execute")

	if len(accounts) < solanasdk.ExecuteFixedAccountCount {
		return ErrNotEnoughAccountKeys
	}

	pdas, err := solanasdk.FindMCMAccounts(ictx.ProgramID(), args.MultisigID)
	if err != nil {
		return err
	}
	expected := []struct {
		index   int
		address solana.PublicKey
	}{
		{solanasdk.ExecuteConfigAccountIndex, pdas.Config},
		{solanasdk.ExecuteRootMetadataAccountIndex, pdas.RootMetadata},
		{solanasdk.ExecuteExpiringRootAccountIndex, pdas.ExpiringRootAndOpCount},
		{solanasdk.ExecuteSignerAccountIndex, pdas.Signer},
	}
	for _, e := range expected {
		if !accounts[e.index].PublicKey.Equals(e.address) {
			return fmt.Errorf("%w: account %d", ErrConstraintSeeds, e.index)
		}
	}

	metadata, err := loadRootMetadata(ictx, pdas.RootMetadata)
	if err != nil {
		return err
	}
	expiringRoot, err := loadExpiringRoot(ictx, pdas.ExpiringRootAndOpCount)
	if err != nil {
		return err
	}

	now, err := safecast.Int64ToUint64(ictx.Clock().Unix())
	if err != nil {
		return err
	}
	if now > uint64(expiringRoot.ValidUntil) {
		return ErrRootExpired
	}
	if args.ChainID != metadata.ChainID {
		return ErrWrongChainID
	}
	if !metadata.Multisig.Equals(pdas.Config) {
		return ErrWrongMultiSig
	}
	if args.Nonce != expiringRoot.OpCount {
		return fmt.Errorf("%w: expected %d, got %d", ErrWrongNonce, expiringRoot.OpCount, args.Nonce)
	}
	if expiringRoot.OpCount >= metadata.PostOpCount {
		return ErrPostOpCountReached
	}

	// the signer pda reaches the program unsigned and is signed for on invocation
	remaining := accounts[solanasdk.ExecuteFixedAccountCount:]
	op := types.Operation{
		To:       accounts[solanasdk.ExecuteToAccountIndex].PublicKey,
		Data:     args.Data,
		Accounts: make([]types.AccountRef, len(remaining)),
	}
	innerMetas := make([]*solana.AccountMeta, len(remaining))
	for i, meta := range remaining {
		isSigner := meta.IsSigner || meta.PublicKey.Equals(pdas.Signer)
		op.Accounts[i] = types.AccountRef{Address: meta.PublicKey, IsSigner: isSigner, IsWritable: meta.IsWritable}
		innerMetas[i] = solana.NewAccountMeta(meta.PublicKey, meta.IsWritable, isSigner)
	}

	encoder := solanasdk.NewEncoder(types.RootMetadata{
		ChainID:              types.ChainSelector(metadata.ChainID),
		Multisig:             metadata.Multisig,
		PreOpCount:           metadata.PreOpCount,
		PostOpCount:          metadata.PostOpCount,
		OverridePreviousRoot: metadata.OverridePreviousRoot,
	})
	leaf := encoder.HashOperation(args.Nonce, op)

	proof := make([]common.Hash, len(args.Proof))
	for i := range args.Proof {
		proof[i] = args.Proof[i]
	}
	if !merkle.VerifyProof(expiringRoot.Root, leaf, proof) {
		return ErrProofCannotBeVerified
	}

	expiringRoot.OpCount++
	encoded, err := solanasdk.EncodeExpiringRootAndOpCount(expiringRoot)
	if err != nil {
		return err
	}
	state, _, err := ictx.Account(pdas.ExpiringRootAndOpCount)
	if err != nil {
		return err
	}
	state.Data = encoded
	if err = ictx.SetAccount(pdas.ExpiringRootAndOpCount, state); err != nil {
		return err
	}

	return ictx.Invoke(solana.NewInstruction(op.To, innerMetas, op.Data), pdas.Signer)
}

func loadRootMetadata(ictx *InvokeContext, address solana.PublicKey) (solanasdk.RootMetadataAccount, error) {
	data, err := programAccountData(ictx, address)
	if err != nil {
		return solanasdk.RootMetadataAccount{}, err
	}

	return solanasdk.DecodeRootMetadataAccount(data)
}

func loadExpiringRoot(ictx *InvokeContext, address solana.PublicKey) (solanasdk.ExpiringRootAndOpCount, error) {
	data, err := programAccountData(ictx, address)
	if err != nil {
		return solanasdk.ExpiringRootAndOpCount{}, err
	}

	return solanasdk.DecodeExpiringRootAndOpCount(data)
}

func programAccountData(ictx *InvokeContext, address solana.PublicKey) ([]byte, error) {
	state, exists, err := ictx.Account(address)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("AccountNotInitialized: %s", address)
	}
	if !state.Owner.Equals(ictx.ProgramID()) {
		return nil, fmt.Errorf("%w: %s", ErrAccountOwnedByWrongProg, address)
	}

	return state.Data, nil
}
