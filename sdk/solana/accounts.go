package solana

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

var (
	expiringRootAndOpCountDiscriminator = anchorDiscriminator("account", "ExpiringRootAndOpCount")
	rootMetadataDiscriminator           = anchorDiscriminator("account", "RootMetadata")
)

// ExpiringRootAndOpCount is the on-chain account holding the active root.
type ExpiringRootAndOpCount struct {
	Root       [32]uint8
	ValidUntil uint32
	OpCount    uint64
}

// RootMetadataAccount is the on-chain account holding the metadata of the active root.
type RootMetadataAccount struct {
	ChainID              uint64
	Multisig             solana.PublicKey
	PreOpCount           uint64
	PostOpCount          uint64
	OverridePreviousRoot bool
}

// NewRootMetadataAccount converts proposal root metadata to its account representation.
func NewRootMetadataAccount(md types.RootMetadata) RootMetadataAccount {
	return RootMetadataAccount{
		ChainID:              uint64(md.ChainID),
		Multisig:             md.Multisig,
		PreOpCount:           md.PreOpCount,
		PostOpCount:          md.PostOpCount,
		OverridePreviousRoot: md.OverridePreviousRoot,
	}
}

// EncodeExpiringRootAndOpCount returns the account data, including the discriminator.
func EncodeExpiringRootAndOpCount(account ExpiringRootAndOpCount) ([]byte, error) {
	return encodeAccount(expiringRootAndOpCountDiscriminator, account)
}

// DecodeExpiringRootAndOpCount parses account data produced by EncodeExpiringRootAndOpCount.
func DecodeExpiringRootAndOpCount(data []byte) (ExpiringRootAndOpCount, error) {
	var account ExpiringRootAndOpCount
	err := decodeAccount(expiringRootAndOpCountDiscriminator, data, &account)

	return account, err
}

// EncodeRootMetadataAccount returns the account data, including the discriminator.
func EncodeRootMetadataAccount(account RootMetadataAccount) ([]byte, error) {
	return encodeAccount(rootMetadataDiscriminator, account)
}

// DecodeRootMetadataAccount parses account data produced by EncodeRootMetadataAccount.
func DecodeRootMetadataAccount(data []byte) (RootMetadataAccount, error) {
	var account RootMetadataAccount
	err := decodeAccount(rootMetadataDiscriminator, data, &account)

	return account, err
}

func encodeAccount(discriminator [discriminatorLength]byte, account any) ([]byte, error) {
	body, err := bin.MarshalBorsh(account)
	if err != nil {
		return nil, fmt.Errorf("unable to encode account: %w", err)
	}

	return append(discriminator[:], body...), nil
}

func decodeAccount(discriminator [discriminatorLength]byte, data []byte, out any) error {
	if len(data) < discriminatorLength || !bytes.Equal(data[:discriminatorLength], discriminator[:]) {
		return fmt.Errorf("%w: unexpected account type", ErrInvalidDiscriminator)
	}
	if err := bin.UnmarshalBorsh(out, data[discriminatorLength:]); err != nil {
		return fmt.Errorf("unable to decode account: %w", err)
	}

	return nil
}
