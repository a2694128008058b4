package solana

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/smartcontractkit/mcms-preview/types"
)

var (
	metadataDomainSeparator = crypto.Keccak256Hash([]byte("MANY_CHAIN_MULTI_SIG_DOMAIN_SEPARATOR_METADATA_SOLANA"))
	opDomainSeparator       = crypto.Keccak256Hash([]byte("MANY_CHAIN_MULTI_SIG_DOMAIN_SEPARATOR_OP_SOLANA"))
)

// Encoder hashes root metadata and operations into the leaves expected by the Solana
// ManyChainMultiSig program.
type Encoder struct {
	Metadata types.RootMetadata
}

// NewEncoder returns a new Encoder for the given root metadata.
func NewEncoder(metadata types.RootMetadata) *Encoder {
	return &Encoder{Metadata: metadata}
}

// HashMetadata hashes the root metadata into the metadata leaf.
func (e *Encoder) HashMetadata() common.Hash {
	buffers := [][]byte{
		metadataDomainSeparator[:],
		numToU64LePaddedEncoding(uint64(e.Metadata.ChainID)),
		e.Metadata.Multisig.Bytes(),
		numToU64LePaddedEncoding(e.Metadata.PreOpCount),
		numToU64LePaddedEncoding(e.Metadata.PostOpCount),
		boolToPaddedEncoding(e.Metadata.OverridePreviousRoot),
	}

	return calculateHash(buffers)
}

// HashOperation hashes an operation executed with the given nonce into an operation leaf.
func (e *Encoder) HashOperation(nonce uint64, op types.Operation) common.Hash {
	buffers := [][]byte{
		opDomainSeparator[:],
		numToU64LePaddedEncoding(uint64(e.Metadata.ChainID)),
		e.Metadata.Multisig.Bytes(),
		numToU64LePaddedEncoding(nonce),
		op.To.Bytes(),
		numToU64LePaddedEncoding(uint64(len(op.Data))),
		op.Data,
		numToU64LePaddedEncoding(uint64(len(op.Accounts))),
	}
	for _, account := range op.Accounts {
		buffers = append(buffers, serializeAccountRef(account))
	}

	return calculateHash(buffers)
}

func calculateHash(buffers [][]byte) common.Hash {
	return crypto.Keccak256Hash(bytes.Join(buffers, nil))
}

// numToU64LePaddedEncoding writes n as little endian into the last 8 bytes of a zeroed 32 byte
// buffer.
func numToU64LePaddedEncoding(n uint64) []byte {
	const numBytes = 32
	const offset = 24
	b := make([]byte, numBytes)
	binary.LittleEndian.PutUint64(b[offset:], n)

	return b
}

func boolToPaddedEncoding(b bool) []byte {
	const numBytes = 32
	result := make([]byte, numBytes)
	if b {
		result[numBytes-1] = 1
	}

	return result
}

// serializeAccountRef encodes an account as its 32 byte address followed by a flags byte
// (bit 0 writable, bit 1 signer).
func serializeAccountRef(a types.AccountRef) []byte {
	var flags byte
	if a.IsSigner {
		flags |= 0b10
	}
	if a.IsWritable {
		flags |= 0b01
	}

	return append(a.Address.Bytes(), flags)
}
