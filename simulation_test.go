package preview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/smartcontractkit/mcms-preview/engine"
	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/sdk/memory"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
	"github.com/smartcontractkit/mcms-preview/types"
)

var (
	testClock      = time.Unix(1_700_000_000, 0)
	testValidUntil = uint32(4_000_000_000)
	nativeLoaderID = solana.MustPublicKeyFromBase58("NativeLoader1111111111111111111111111111111")
)

const (
	testSignerBalance    = 1_000_000
	testRecipientBalance = 1_000_000
	testFunding          = 1_000_000
)

// SimulationTestSuite runs proposals end to end through the in-memory MCM program.
type SimulationTestSuite struct {
	suite.Suite

	ctx       context.Context
	pdas      solanasdk.MCMAccounts
	authority solana.PublicKey
	recipient solana.PublicKey
	sandbox   *memory.Sandbox
	accounts  []types.AccountSnapshot
}

func TestSimulationTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SimulationTestSuite))
}

func (s *SimulationTestSuite) SetupTest() {
	var err error

	s.ctx = context.Background()
	s.pdas, err = solanasdk.FindMCMAccounts(testProgramID, testMultisigID)
	s.Require().NoError(err)

	s.authority = solana.NewWallet().PublicKey()
	s.recipient = solana.NewWallet().PublicKey()
	s.sandbox = memory.NewSandbox(
		memory.WithClock(testClock),
		memory.WithProgram(testProgramID, memory.MCMProgram{}),
	)
	s.accounts = []types.AccountSnapshot{
		{Address: s.pdas.Config, AccountState: types.AccountState{Lamports: 1_000_000, Data: []byte{1, 2, 3}, Owner: testProgramID}},
		{Address: s.pdas.Signer, AccountState: types.AccountState{Lamports: testSignerBalance, Owner: solana.SystemProgramID}},
		{Address: s.recipient, AccountState: types.AccountState{Lamports: testRecipientBalance, Owner: solana.SystemProgramID}},
		{Address: solana.SystemProgramID, AccountState: types.AccountState{Lamports: 1, Owner: nativeLoaderID, Executable: true}},
	}
}

// proposal builds a proposal of transfers from the multisig signer to the recipient, one per
// amount, starting at nonce 2.
func (s *SimulationTestSuite) proposal(amounts ...uint64) *Proposal {
	ops := make([]types.Operation, len(amounts))
	for i, amount := range amounts {
		data, err := system.NewTransferInstruction(amount, s.pdas.Signer, s.recipient).Build().Data()
		s.Require().NoError(err)

		ops[i] = types.Operation{
			To:   solana.SystemProgramID,
			Data: data,
			Accounts: []types.AccountRef{
				{Address: s.pdas.Signer, IsSigner: true, IsWritable: true},
				{Address: s.recipient, IsWritable: true},
			},
			OperationMetadata: types.OperationMetadata{ContractType: "SystemProgram"},
		}
	}

	p := &Proposal{
		Version:    "v1",
		MultisigID: testMultisigID,
		ProgramID:  testProgramID,
		ValidUntil: testValidUntil,
		RootMetadata: types.RootMetadata{
			ChainID:     testChainSelector,
			Multisig:    s.pdas.Config,
			PreOpCount:  2,
			PostOpCount: 2 + uint64(len(amounts)),
		},
		Operations: ops,
	}
	s.Require().NoError(p.Validate())

	return p
}

// unusedSimulator fails every simulation. Runs that reach it are a test failure.
type unusedSimulator struct{}

func (unusedSimulator) SimulateTransactionWithOpts(
	context.Context, *solana.Transaction, *rpc.SimulateTransactionOpts,
) (*rpc.SimulateTransactionResponse, error) {
	return nil, errors.New("unexpected simulation")
}

func (s *SimulationTestSuite) engine(opts ...engine.Option) *engine.Engine {
	return engine.New(s.sandbox, memory.NewStaticAccountSource(s.accounts...), opts...)
}

func (s *SimulationTestSuite) options() SimulationOptions {
	return SimulationOptions{Authority: s.authority, FundLamports: testFunding}
}

func (s *SimulationTestSuite) balance(address solana.PublicKey) uint64 {
	state, exists, err := s.sandbox.GetAccount(s.ctx, address)
	s.Require().NoError(err)
	s.Require().True(exists, "account %s does not exist", address)

	return state.Lamports
}

func (s *SimulationTestSuite) opCount() uint64 {
	state, exists, err := s.sandbox.GetAccount(s.ctx, s.pdas.ExpiringRootAndOpCount)
	s.Require().NoError(err)
	s.Require().True(exists)

	account, err := solanasdk.DecodeExpiringRootAndOpCount(state.Data)
	s.Require().NoError(err)

	return account.OpCount
}

func (s *SimulationTestSuite) TestSimulate_AllOperationsSucceed() {
	p := s.proposal(10, 20, 30)

	root, results, err := Simulate(s.ctx, s.engine(), p, s.options())
	s.Require().NoError(err)

	want, err := p.MerkleRoot()
	s.Require().NoError(err)
	s.Equal(want, root)

	s.Require().Len(results.Batches, 3)
	s.True(results.AllSucceeded())
	s.Require().Len(results.Overrides, 2)
	for _, override := range results.Overrides {
		s.Equal(testProgramID, override.Owner)
		s.Equal(solanasdk.RentExemptMinimum(len(override.Data)), override.Lamports)
	}
	s.ElementsMatch(
		[]solana.PublicKey{s.pdas.ExpiringRootAndOpCount, s.pdas.RootMetadata},
		[]solana.PublicKey{results.Overrides[0].Address, results.Overrides[1].Address},
	)

	loaded := make(map[solana.PublicKey]types.AccountState, len(results.LoadedAccounts))
	for _, snapshot := range results.LoadedAccounts {
		loaded[snapshot.Address] = snapshot.AccountState
	}
	s.Equal(s.accounts[0].AccountState, loaded[s.pdas.Config])
	s.Equal(uint64(testRecipientBalance), loaded[s.recipient].Lamports)

	first := results.Batches[0]
	s.Empty(first.Error)
	s.Require().Len(first.Mutations, 3)

	signer := first.Mutations[0]
	s.Equal(s.pdas.Signer, signer.Address)
	s.Equal(uint64(testSignerBalance), *signer.LamportsBefore)
	s.Equal(uint64(testSignerBalance-10), *signer.LamportsAfter)
	s.False(signer.DataChanged)

	recipient := first.Mutations[1]
	s.Equal(s.recipient, recipient.Address)
	s.Equal(uint64(testRecipientBalance+10), *recipient.LamportsAfter)

	expiringRoot := first.Mutations[2]
	s.Equal(s.pdas.ExpiringRootAndOpCount, expiringRoot.Address)
	s.True(expiringRoot.DataChanged)
	s.Equal(*expiringRoot.LamportsBefore, *expiringRoot.LamportsAfter)

	s.Equal(uint64(5), s.opCount())
	s.Equal(uint64(testRecipientBalance+60), s.balance(s.recipient))
	s.Equal(uint64(testSignerBalance-60), s.balance(s.pdas.Signer))
	s.Equal(uint64(3*testFunding-3*memory.DefaultTransactionFee), s.balance(s.authority))
}

func (s *SimulationTestSuite) TestSimulate_FailedBatchDoesNotStopTheRun() {
	p := s.proposal(10, 5*testSignerBalance, 10)

	_, results, err := Simulate(s.ctx, s.engine(), p, s.options())
	s.Require().NoError(err)

	s.False(results.AllSucceeded())
	s.Equal([]int{1, 2}, results.FailedBatches())

	s.True(results.Batches[0].Success)

	failed := results.Batches[1]
	s.Contains(failed.Error, "insufficient lamports")
	s.Empty(failed.Mutations)
	s.Contains(failed.Logs, "Program "+testProgramID.String()+" invoke [1]")
	s.Contains(failed.Logs, "Program "+solana.SystemProgramID.String()+" invoke [2]")

	// the failed batch did not consume its nonce
	s.Contains(results.Batches[2].Error, "WrongNonce: expected 3, got 4")

	s.Equal(uint64(3), s.opCount())
	s.Equal(uint64(testRecipientBalance+10), s.balance(s.recipient))
}

func (s *SimulationTestSuite) TestSimulate_ExpiredRoot() {
	p := s.proposal(10, 10)
	opts := s.options()
	after := time.Unix(int64(testValidUntil)+1, 0)
	opts.Clock = &after

	_, results, err := Simulate(s.ctx, s.engine(), p, opts)
	s.Require().NoError(err)

	s.Require().Len(results.Batches, 2)
	for _, batch := range results.Batches {
		s.False(batch.Success)
		s.Contains(batch.Error, memory.ErrRootExpired.Error())
		s.Empty(batch.Mutations)
	}
	s.Equal(uint64(2), s.opCount())
}

func (s *SimulationTestSuite) TestSimulate_ValidUntilIsInclusive() {
	p := s.proposal(10)
	opts := s.options()
	at := time.Unix(int64(testValidUntil), 0)
	opts.Clock = &at

	_, results, err := Simulate(s.ctx, s.engine(), p, opts)
	s.Require().NoError(err)
	s.True(results.AllSucceeded())
}

func (s *SimulationTestSuite) TestSimulate_DefaultAuthority() {
	p := s.proposal(10)

	_, results, err := Simulate(s.ctx, s.engine(), p, SimulationOptions{})
	s.Require().NoError(err)
	s.True(results.AllSucceeded())
}

func (s *SimulationTestSuite) TestSimulate_StrictLoadFails() {
	s.accounts = s.accounts[:2]
	p := s.proposal(10)

	_, _, err := Simulate(s.ctx, s.engine(), p, s.options())

	var loadErr *engine.AccountLoadError
	s.Require().ErrorAs(err, &loadErr)
	s.ElementsMatch([]solana.PublicKey{s.recipient, solana.SystemProgramID}, loadErr.Missing)
}

func (s *SimulationTestSuite) TestSimulate_LenientLoadCreatesMissingRecipient() {
	s.accounts = s.accounts[:2]
	p := s.proposal(10)

	_, results, err := Simulate(s.ctx, s.engine(engine.WithLoadPolicy(engine.LoadPolicyLenient)), p, s.options())
	s.Require().NoError(err)

	s.ElementsMatch([]solana.PublicKey{s.recipient, solana.SystemProgramID}, results.MissingAccounts)
	s.Require().True(results.AllSucceeded())

	recipient := results.Batches[0].Mutations[1]
	s.False(recipient.ExistedBefore)
	s.True(recipient.ExistsAfter)
	s.Nil(recipient.LamportsBefore)
	s.Equal(uint64(10), *recipient.LamportsAfter)
}

func (s *SimulationTestSuite) TestSimulate_WrongMultisigWarns() {
	p := s.proposal(10)
	p.RootMetadata.Multisig = testMultisig

	core, logs := observer.New(zap.WarnLevel)
	ctx := sdk.ContextWithLogger(s.ctx, zap.New(core).Sugar())

	_, results, err := Simulate(ctx, s.engine(), p, s.options())
	s.Require().NoError(err)

	s.Equal(1, logs.FilterMessage("Root metadata multisig is not the config account of the multisig id").Len())
	s.Contains(results.Batches[0].Error, memory.ErrWrongMultiSig.Error())
}

func (s *SimulationTestSuite) TestSimulate_ClusterRejectsRootOverrides() {
	source := memory.NewStaticAccountSource(s.accounts...)
	sandbox := solanasdk.NewClusterSandbox(unusedSimulator{}, source)

	_, _, err := Simulate(s.ctx, engine.New(sandbox, source), s.proposal(10), s.options())
	s.Require().ErrorIs(err, solanasdk.ErrOverridesUnsupported)
}

func (s *SimulationTestSuite) TestSimulationPlan() {
	p := s.proposal(10, 20)
	root, err := p.MerkleRoot()
	s.Require().NoError(err)

	global := solana.NewWallet().PublicKey()
	extra := solana.NewWallet().PublicKey()
	plan, err := SimulationPlan(p, root, SimulationOptions{
		Authority:      s.authority,
		FundLamports:   42,
		ExtraAccounts:  []solana.PublicKey{extra},
		GlobalAccounts: []solana.PublicKey{global},
	})
	s.Require().NoError(err)

	s.Equal(s.authority, plan.FeePayer)
	s.Equal([]solana.PublicKey{
		s.pdas.Config, s.pdas.Signer,
		solana.SystemProgramID, s.pdas.Signer, s.recipient,
		solana.SystemProgramID, s.pdas.Signer, s.recipient,
		extra,
	}, plan.Accounts)
	s.Equal([]solana.PublicKey{s.pdas.Signer, s.recipient, s.pdas.ExpiringRootAndOpCount, global}, plan.TrackedAccountsFor(1))

	metadata, err := solanasdk.DecodeRootMetadataAccount(plan.Overrides[s.pdas.RootMetadata].Data)
	s.Require().NoError(err)
	s.Equal(solanasdk.NewRootMetadataAccount(p.RootMetadata), metadata)
	s.Equal(testProgramID, plan.Overrides[s.pdas.RootMetadata].Owner)

	expiringRoot := plan.Overrides[s.pdas.ExpiringRootAndOpCount]
	s.Equal(solanasdk.RentExemptMinimum(len(expiringRoot.Data)), expiringRoot.Lamports)
	decoded, err := solanasdk.DecodeExpiringRootAndOpCount(expiringRoot.Data)
	s.Require().NoError(err)
	s.Equal(solanasdk.ExpiringRootAndOpCount{Root: root.Root, ValidUntil: testValidUntil, OpCount: 2}, decoded)

	s.Require().Len(plan.Batches, 2)
	batch := plan.Batches[1]
	s.Equal("operation 1 (nonce 3): SystemProgram "+solana.SystemProgramID.String(), batch.Label)
	s.Equal(uint64(42), batch.FundLamports)
	s.Require().Len(batch.Instructions, 1)

	ix := batch.Instructions[0]
	s.Equal(testProgramID, ix.ProgramID())
	data, err := ix.Data()
	s.Require().NoError(err)
	args, err := solanasdk.DecodeExecuteArgs(data)
	s.Require().NoError(err)
	s.Equal(uint64(3), args.Nonce)
	s.Len(args.Proof, len(root.Proofs[1]))

	metas := ix.Accounts()
	s.Require().Len(metas, solanasdk.ExecuteFixedAccountCount+2)
	s.Equal(s.authority, metas[solanasdk.ExecuteAuthorityAccountIndex].PublicKey)
	s.False(metas[solanasdk.ExecuteFixedAccountCount].IsSigner, "signer pda is passed unsigned")
}

func (s *SimulationTestSuite) TestSimulationPlan_ProofCountMismatch() {
	p := s.proposal(10, 20)
	root, err := p.MerkleRoot()
	s.Require().NoError(err)
	root.Proofs = root.Proofs[:1]

	_, err = SimulationPlan(p, root, s.options())
	s.Require().ErrorContains(err, "expected 2 operation proofs, got 1")
}
