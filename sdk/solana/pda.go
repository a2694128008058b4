package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

var (
	configSeed                 = []byte("multisig_config")
	rootMetadataSeed           = []byte("root_metadata")
	expiringRootAndOpCountSeed = []byte("expiring_root_and_op_count")
	signerSeed                 = []byte("multisig_signer")
)

// FindConfigPDA returns the address of the multisig config account. It is also the multisig
// address committed to in the root metadata.
func FindConfigPDA(programID solana.PublicKey, multisigID types.MultisigID) (solana.PublicKey, error) {
	return findPDA(programID, configSeed, multisigID)
}

// FindRootMetadataPDA returns the address of the root metadata account.
func FindRootMetadataPDA(programID solana.PublicKey, multisigID types.MultisigID) (solana.PublicKey, error) {
	return findPDA(programID, rootMetadataSeed, multisigID)
}

// FindExpiringRootAndOpCountPDA returns the address of the account holding the current root, its
// expiry and the executed operation count.
func FindExpiringRootAndOpCountPDA(programID solana.PublicKey, multisigID types.MultisigID) (solana.PublicKey, error) {
	return findPDA(programID, expiringRootAndOpCountSeed, multisigID)
}

// FindSignerPDA returns the address the multisig signs inner instructions with.
func FindSignerPDA(programID solana.PublicKey, multisigID types.MultisigID) (solana.PublicKey, error) {
	return findPDA(programID, signerSeed, multisigID)
}

func findPDA(programID solana.PublicKey, seed []byte, multisigID types.MultisigID) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{seed, multisigID[:]}, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("unable to find %s pda: %w", seed, err)
	}

	return pda, nil
}

// MCMAccounts groups the program derived accounts of a multisig instance.
type MCMAccounts struct {
	ProgramID              solana.PublicKey
	Config                 solana.PublicKey
	RootMetadata           solana.PublicKey
	ExpiringRootAndOpCount solana.PublicKey
	Signer                 solana.PublicKey
}

// FindMCMAccounts derives every account of the multisig instance.
func FindMCMAccounts(programID solana.PublicKey, multisigID types.MultisigID) (MCMAccounts, error) {
	accounts := MCMAccounts{ProgramID: programID}

	var err error
	if accounts.Config, err = FindConfigPDA(programID, multisigID); err != nil {
		return MCMAccounts{}, err
	}
	if accounts.RootMetadata, err = FindRootMetadataPDA(programID, multisigID); err != nil {
		return MCMAccounts{}, err
	}
	if accounts.ExpiringRootAndOpCount, err = FindExpiringRootAndOpCountPDA(programID, multisigID); err != nil {
		return MCMAccounts{}, err
	}
	if accounts.Signer, err = FindSignerPDA(programID, multisigID); err != nil {
		return MCMAccounts{}, err
	}

	return accounts, nil
}
