package merkle

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// HashPairSize defines the size of hash pairs when computing parent nodes.
const HashPairSize = 2

// Tree represents a cryptographic Merkle tree used to verify data integrity.
//
// Parents are the keccak256 hash of their two children sorted by byte value, so a proof can be
// replayed without knowing on which side each sibling sits. A trailing node on a level with an
// odd number of nodes is promoted to the next level unchanged.
type Tree struct {
	// Root is the final hash at the top of the Merkle tree, derived from the hashes of all the
	// leaf nodes.
	Root common.Hash

	// Layers contains all tree layers, starting from the leaves and ending with the single root
	// node.
	Layers [][]common.Hash
}

// NewTree constructs a Merkle tree from a list of leaf hashes.
// It hashes pairs of nodes level by level until a single root hash is obtained.
func NewTree(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, &EmptyTreeError{}
	}

	currHashes := make([]common.Hash, len(leaves))
	copy(currHashes, leaves)

	layers := [][]common.Hash{currHashes}
	for len(currHashes) > 1 {
		parents := make([]common.Hash, 0, (len(currHashes)+1)/HashPairSize)
		for i := 0; i < len(currHashes); i += HashPairSize {
			if i+1 == len(currHashes) {
				// Odd node out: promote it unchanged.
				parents = append(parents, currHashes[i])
				continue
			}
			parents = append(parents, HashPair(currHashes[i], currHashes[i+1]))
		}

		layers = append(layers, parents)
		currHashes = parents
	}

	return &Tree{
		Root:   currHashes[0],
		Layers: layers,
	}, nil
}

// Leaves returns the leaf layer of the tree.
func (t *Tree) Leaves() []common.Hash {
	return t.Layers[0]
}

// Depth returns the number of levels above the leaves.
func (t *Tree) Depth() int {
	return len(t.Layers) - 1
}

// GetProof generates a Merkle proof for the leaf at the given index.
// A proof is the list of sibling hashes needed to reconstruct the root from this leaf. Levels
// where the node was promoted without a sibling contribute nothing.
func (t *Tree) GetProof(index int) ([]common.Hash, error) {
	if index < 0 || index >= len(t.Leaves()) {
		return nil, NewLeafIndexOutOfRangeError(index, len(t.Leaves()))
	}

	proof := make([]common.Hash, 0, t.Depth())
	idx := index
	for _, layer := range t.Layers[:t.Depth()] {
		if idx%2 == 1 {
			proof = append(proof, layer[idx-1])
		} else if idx+1 < len(layer) {
			proof = append(proof, layer[idx+1])
		}
		idx /= HashPairSize
	}

	return proof, nil
}

// GetProofs generates Merkle proofs for all leaves in the tree, in leaf order.
func (t *Tree) GetProofs() [][]common.Hash {
	proofs := make([][]common.Hash, len(t.Leaves()))
	for i := range t.Leaves() {
		// The index is always in range here.
		proofs[i], _ = t.GetProof(i)
	}

	return proofs
}

// VerifyProof replays the sorted pair hashes of proof starting at leaf and reports whether the
// result equals root.
func VerifyProof(root common.Hash, leaf common.Hash, proof []common.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = HashPair(computed, sibling)
	}

	return computed == root
}

// EmptyTreeError is returned when a tree is built from zero leaves.
type EmptyTreeError struct{}

// Error implements the error interface for EmptyTreeError.
func (e *EmptyTreeError) Error() string {
	return "cannot build a merkle tree without leaves"
}

// LeafIndexOutOfRangeError indicates that a proof was requested for a leaf that does not exist.
type LeafIndexOutOfRangeError struct {
	Index     int
	NumLeaves int
}

// NewLeafIndexOutOfRangeError creates a new LeafIndexOutOfRangeError.
func NewLeafIndexOutOfRangeError(index, numLeaves int) *LeafIndexOutOfRangeError {
	return &LeafIndexOutOfRangeError{Index: index, NumLeaves: numLeaves}
}

// Error implements the error interface for LeafIndexOutOfRangeError.
func (e *LeafIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("leaf index %d out of range for merkle tree with %d leaves", e.Index, e.NumLeaves)
}

// HashPair takes two hashes and returns their sorted combined hash.
// Sorting ensures deterministic results regardless of input order.
func HashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) < 0 {
		return efficientHash(a, b)
	}

	return efficientHash(b, a)
}

// efficientHash combines two hashes and computes their Keccak256 hash.
func efficientHash(a, b common.Hash) common.Hash {
	var combinedHash [64]byte
	copy(combinedHash[:32], a[:])
	copy(combinedHash[32:], b[:])

	return crypto.Keccak256Hash(combinedHash[:])
}
