package preview

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/mcms-preview/internal/core/merkle"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
	"github.com/smartcontractkit/mcms-preview/types"
)

// MerkleRoot is the commitment to a proposal: the root and one inclusion proof per operation.
// The proof of the metadata leaf is not part of it.
type MerkleRoot struct {
	Root   common.Hash     `json:"root"`
	Proofs [][]common.Hash `json:"proofs"`
}

// BuildMerkleRoot commits the metadata and operations. Operation n is hashed with nonce
// PreOpCount + n.
func BuildMerkleRoot(metadata types.RootMetadata, ops []types.Operation) (MerkleRoot, error) {
	tree, err := merkle.NewTree(proposalLeaves(metadata, ops))
	if err != nil {
		return MerkleRoot{}, wrapTreeGenErr(err)
	}

	return merkleRootFromTree(tree), nil
}

// MerkleRoot returns the root of the proposal and the proofs of its operations.
func (p *Proposal) MerkleRoot() (MerkleRoot, error) {
	tree, err := p.MerkleTree()
	if err != nil {
		return MerkleRoot{}, err
	}

	return merkleRootFromTree(tree), nil
}

// proposalLeaves returns the metadata leaf followed by the operation leaves.
func proposalLeaves(metadata types.RootMetadata, ops []types.Operation) []common.Hash {
	encoder := solanasdk.NewEncoder(metadata)

	leaves := make([]common.Hash, 0, len(ops)+1)
	leaves = append(leaves, encoder.HashMetadata())
	for i, op := range ops {
		leaves = append(leaves, encoder.HashOperation(metadata.PreOpCount+uint64(i), op))
	}

	return leaves
}

func merkleRootFromTree(tree *merkle.Tree) MerkleRoot {
	proofs := tree.GetProofs()

	return MerkleRoot{Root: tree.Root, Proofs: proofs[1:]}
}
