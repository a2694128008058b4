package preview

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/mcms-preview/internal/core/merkle"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
	"github.com/smartcontractkit/mcms-preview/types"
)

func testOperations(n int) []types.Operation {
	ops := make([]types.Operation, n)
	for i := range ops {
		ops[i] = types.Operation{
			To:   testTargetProgram,
			Data: []byte{byte(i), 0xaa},
			Accounts: []types.AccountRef{
				{Address: testMultisig, IsWritable: true},
			},
		}
	}

	return ops
}

func testRootMetadata(pre uint64, n int) types.RootMetadata {
	return types.RootMetadata{
		ChainID:     testChainSelector,
		Multisig:    testMultisig,
		PreOpCount:  pre,
		PostOpCount: pre + uint64(n),
	}
}

func Test_BuildMerkleRoot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		numOps           int
		wantProofLengths []int
		wantDepth        int
	}{
		{name: "single operation", numOps: 1, wantProofLengths: []int{1}, wantDepth: 1},
		{name: "two operations, odd leaf promoted", numOps: 2, wantProofLengths: []int{2, 1}, wantDepth: 2},
		{name: "three operations", numOps: 3, wantProofLengths: []int{2, 2, 2}, wantDepth: 2},
		{name: "four operations, odd leaf promoted", numOps: 4, wantProofLengths: []int{3, 3, 3, 1}, wantDepth: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md := testRootMetadata(3, tt.numOps)
			ops := testOperations(tt.numOps)

			root, err := BuildMerkleRoot(md, ops)
			require.NoError(t, err)
			require.Len(t, root.Proofs, tt.numOps)

			tree, err := merkle.NewTree(proposalLeaves(md, ops))
			require.NoError(t, err)
			assert.Equal(t, tt.wantDepth, tree.Depth())
			assert.Equal(t, tree.Root, root.Root)

			encoder := solanasdk.NewEncoder(md)
			for i, op := range ops {
				assert.Len(t, root.Proofs[i], tt.wantProofLengths[i], "proof %d", i)

				leaf := encoder.HashOperation(md.PreOpCount+uint64(i), op)
				assert.True(t, merkle.VerifyProof(root.Root, leaf, root.Proofs[i]), "proof %d", i)
			}
		})
	}
}

func Test_BuildMerkleRoot_SingleOperation(t *testing.T) {
	t.Parallel()

	md := testRootMetadata(0, 1)
	ops := testOperations(1)
	encoder := solanasdk.NewEncoder(md)

	root, err := BuildMerkleRoot(md, ops)
	require.NoError(t, err)

	metadataLeaf := encoder.HashMetadata()
	opLeaf := encoder.HashOperation(0, ops[0])
	assert.Equal(t, merkle.HashPair(metadataLeaf, opLeaf), root.Root)
	assert.Equal(t, [][]common.Hash{{metadataLeaf}}, root.Proofs)
}

func Test_BuildMerkleRoot_Commitments(t *testing.T) {
	t.Parallel()

	md := testRootMetadata(0, 2)
	ops := testOperations(2)

	root, err := BuildMerkleRoot(md, ops)
	require.NoError(t, err)

	again, err := BuildMerkleRoot(md, ops)
	require.NoError(t, err)
	assert.Equal(t, root, again, "root must be deterministic")

	reordered, err := BuildMerkleRoot(md, []types.Operation{ops[1], ops[0]})
	require.NoError(t, err)
	assert.NotEqual(t, root.Root, reordered.Root, "operation order is committed to")

	shifted, err := BuildMerkleRoot(testRootMetadata(1, 2), ops)
	require.NoError(t, err)
	assert.NotEqual(t, root.Root, shifted.Root, "nonces are committed to")

	tagged := testOperations(2)
	tagged[0].ContractType = "TokenPool"
	tagged[0].Tags = []string{"upgrade"}
	withMetadata, err := BuildMerkleRoot(md, tagged)
	require.NoError(t, err)
	assert.Equal(t, root.Root, withMetadata.Root, "operation metadata is not committed to")
}

func Test_Proposal_MerkleRoot(t *testing.T) {
	t.Parallel()

	md := testRootMetadata(5, 3)
	proposal := &Proposal{
		Version:      "v1",
		MultisigID:   testMultisigID,
		ProgramID:    testProgramID,
		ValidUntil:   4_000_000_000,
		RootMetadata: md,
		Operations:   testOperations(3),
	}

	got, err := proposal.MerkleRoot()
	require.NoError(t, err)

	want, err := BuildMerkleRoot(md, proposal.Operations)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	tree, err := proposal.MerkleTree()
	require.NoError(t, err)
	assert.Len(t, tree.Leaves(), 4)
	assert.Equal(t, want.Root, tree.Root)
}
