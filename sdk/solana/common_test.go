package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"

	"github.com/smartcontractkit/mcms-preview/types"
)

var (
	testChainSelector = types.ChainSelector(chainsel.SOLANA_DEVNET.Selector)
	testProgramID     = solana.MustPublicKeyFromBase58("6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX")
	testMultisigID    = types.MultisigID{'t', 'e', 's', 't', '-', 'm', 'c', 'm'}
	testMultisig      = solana.MustPublicKeyFromBase58("CiPYshUKNDV9i4p4MLaqXSRqYWtnMtW6b1aYjh4Lw9nP")
	testTargetProgram = solana.MustPublicKeyFromBase58("4HeqEoSyfYpeC2goFLj9eHgkxV33mR5G7JYAbRsN14uQ")
	testMetadata      = types.RootMetadata{
		ChainID:     testChainSelector,
		Multisig:    testMultisig,
		PreOpCount:  0,
		PostOpCount: 1,
	}
)

func Test_FindMCMAccounts(t *testing.T) {
	t.Parallel()

	accounts, err := FindMCMAccounts(testProgramID, testMultisigID)
	require.NoError(t, err)

	assert.Equal(t, testProgramID, accounts.ProgramID)

	config, err := FindConfigPDA(testProgramID, testMultisigID)
	require.NoError(t, err)
	assert.Equal(t, config, accounts.Config)

	rootMetadata, err := FindRootMetadataPDA(testProgramID, testMultisigID)
	require.NoError(t, err)
	assert.Equal(t, rootMetadata, accounts.RootMetadata)

	expiringRoot, err := FindExpiringRootAndOpCountPDA(testProgramID, testMultisigID)
	require.NoError(t, err)
	assert.Equal(t, expiringRoot, accounts.ExpiringRootAndOpCount)

	signer, err := FindSignerPDA(testProgramID, testMultisigID)
	require.NoError(t, err)
	assert.Equal(t, signer, accounts.Signer)

	// every account is distinct and off curve
	seen := map[solana.PublicKey]bool{}
	for _, pda := range []solana.PublicKey{accounts.Config, accounts.RootMetadata, accounts.ExpiringRootAndOpCount, accounts.Signer} {
		assert.Assert(t, !seen[pda])
		assert.Assert(t, !pda.IsOnCurve())
		seen[pda] = true
	}
}

func Test_FindConfigPDA_DependsOnMultisigID(t *testing.T) {
	t.Parallel()

	a, err := FindConfigPDA(testProgramID, testMultisigID)
	require.NoError(t, err)

	otherID, err := types.NewMultisigIDFromString("other-mcm")
	require.NoError(t, err)
	b, err := FindConfigPDA(testProgramID, otherID)
	require.NoError(t, err)

	assert.Assert(t, a != b)
}

func Test_RentExemptMinimum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(890_880), RentExemptMinimum(0))
	assert.Equal(t, uint64(1_141_440), RentExemptMinimum(36))
}

func Test_chunkIndexes(t *testing.T) {
	t.Parallel()

	assert.DeepEqual(t, [][2]int{{0, 2}, {2, 4}, {4, 5}}, chunkIndexes(5, 2))
	assert.DeepEqual(t, [][2]int{}, chunkIndexes(0, 2))
	assert.DeepEqual(t, [][2]int{{0, 3}}, chunkIndexes(3, 100))
}

func Test_anchorDiscriminator(t *testing.T) {
	t.Parallel()

	// sha256("global:execute")[:8]
	assert.Equal(t, [8]byte{0x82, 0xdd, 0xf2, 0x9a, 0x0d, 0xc1, 0xbd, 0x1d}, anchorDiscriminator("global", "execute"))
}
