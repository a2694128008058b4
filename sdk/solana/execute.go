package solana

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

var executeDiscriminator = anchorDiscriminator("global", "execute")

// ErrInvalidDiscriminator is returned when instruction or account data does not start with the
// expected anchor discriminator.
var ErrInvalidDiscriminator = errors.New("invalid discriminator")

// ExecuteArgs are the arguments of the MCM execute instruction.
type ExecuteArgs struct {
	MultisigID [32]uint8
	ChainID    uint64
	Nonce      uint64
	Data       []byte
	Proof      [][32]uint8
}

// EncodeExecuteArgs serializes the execute arguments prefixed with the instruction discriminator.
func EncodeExecuteArgs(args ExecuteArgs) ([]byte, error) {
	body, err := bin.MarshalBorsh(args)
	if err != nil {
		return nil, fmt.Errorf("unable to encode execute args: %w", err)
	}

	return append(executeDiscriminator[:], body...), nil
}

// DecodeExecuteArgs parses instruction data produced by EncodeExecuteArgs.
func DecodeExecuteArgs(data []byte) (ExecuteArgs, error) {
	if len(data) < discriminatorLength || !bytes.Equal(data[:discriminatorLength], executeDiscriminator[:]) {
		return ExecuteArgs{}, fmt.Errorf("%w: expected execute instruction", ErrInvalidDiscriminator)
	}

	var args ExecuteArgs
	if err := bin.UnmarshalBorsh(&args, data[discriminatorLength:]); err != nil {
		return ExecuteArgs{}, fmt.Errorf("unable to decode execute args: %w", err)
	}

	return args, nil
}

// Fixed accounts of the execute instruction, in order, before the operation's own accounts.
const (
	ExecuteConfigAccountIndex = iota
	ExecuteRootMetadataAccountIndex
	ExecuteExpiringRootAccountIndex
	ExecuteToAccountIndex
	ExecuteSignerAccountIndex
	ExecuteAuthorityAccountIndex
	ExecuteFixedAccountCount
)

// NewExecuteInstruction builds the MCM execute instruction for a single operation. The signer
// PDA is passed without the signer flag since the program signs for it when invoking the target.
func NewExecuteInstruction(
	accounts MCMAccounts,
	multisigID types.MultisigID,
	chainID types.ChainSelector,
	nonce uint64,
	op types.Operation,
	proof []common.Hash,
	authority solana.PublicKey,
) (solana.Instruction, error) {
	data, err := EncodeExecuteArgs(ExecuteArgs{
		MultisigID: multisigID,
		ChainID:    uint64(chainID),
		Nonce:      nonce,
		Data:       op.Data,
		Proof:      solanaProof(proof),
	})
	if err != nil {
		return nil, err
	}

	metas := solana.AccountMetaSlice{
		solana.Meta(accounts.Config),
		solana.Meta(accounts.RootMetadata),
		solana.Meta(accounts.ExpiringRootAndOpCount).WRITE(),
		solana.Meta(op.To),
		solana.Meta(accounts.Signer),
		solana.Meta(authority).WRITE().SIGNER(),
	}
	for _, meta := range op.AccountMetas() {
		if meta.PublicKey.Equals(accounts.Signer) {
			meta.IsSigner = false
		}
		metas = append(metas, meta)
	}

	return solana.NewInstruction(accounts.ProgramID, metas, data), nil
}

func solanaProof(proof []common.Hash) [][32]uint8 {
	sproof := make([][32]uint8, len(proof))
	for i := range proof {
		sproof[i] = proof[i]
	}

	return sproof
}
