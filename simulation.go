package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/engine"
	"github.com/smartcontractkit/mcms-preview/sdk"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
	"github.com/smartcontractkit/mcms-preview/types"
)

// DefaultAuthorityFunding is credited to the executing authority before every batch when the
// options do not name an authority.
const DefaultAuthorityFunding uint64 = 1_000_000_000

// SimulationOptions tunes the plan built for a proposal.
type SimulationOptions struct {
	// Authority signs and pays for every execute transaction. A fresh key is used when zero.
	Authority solana.PublicKey

	// FundLamports is credited to the authority before every batch.
	FundLamports uint64

	// Clock, when set, is applied to the sandbox before execution.
	Clock *time.Time

	// ExtraAccounts are loaded in addition to the accounts the operations reference.
	ExtraAccounts []solana.PublicKey

	// GlobalAccounts are tracked in every batch.
	GlobalAccounts []solana.PublicKey
}

// Runner executes a simulation plan. *engine.Engine is a Runner.
type Runner interface {
	Run(ctx context.Context, plan engine.Plan) (*engine.Results, error)
}

// SimulationPlan returns the plan that executes every operation of the proposal through the MCM
// program with the proposal root staged as the active root.
func SimulationPlan(p *Proposal, root MerkleRoot, opts SimulationOptions) (engine.Plan, error) {
	pdas, err := solanasdk.FindMCMAccounts(p.ProgramID, p.MultisigID)
	if err != nil {
		return engine.Plan{}, err
	}
	if len(root.Proofs) != len(p.Operations) {
		return engine.Plan{}, fmt.Errorf("expected %d operation proofs, got %d", len(p.Operations), len(root.Proofs))
	}

	authority := opts.Authority
	fund := opts.FundLamports
	if authority.IsZero() {
		authority = solana.NewWallet().PublicKey()
		if fund == 0 {
			fund = DefaultAuthorityFunding
		}
	}

	overrides, err := rootOverrides(p, root, pdas)
	if err != nil {
		return engine.Plan{}, err
	}

	accounts := []solana.PublicKey{pdas.Config, pdas.Signer}
	batches := make([]engine.Batch, len(p.Operations))
	for i, nonce := range p.TransactionNonces() {
		op := p.Operations[i]
		accounts = append(accounts, op.Addresses()...)

		ix, ierr := solanasdk.NewExecuteInstruction(pdas, p.MultisigID, p.RootMetadata.ChainID, nonce, op, root.Proofs[i], authority)
		if ierr != nil {
			return engine.Plan{}, fmt.Errorf("unable to build execute instruction for operation %d: %w", i, ierr)
		}

		batches[i] = engine.Batch{
			Label:        batchLabel(i, nonce, op),
			FeePayer:     authority,
			FundLamports: fund,
			Instructions: []solana.Instruction{ix},
		}
	}
	accounts = append(accounts, opts.ExtraAccounts...)

	globals := append([]solana.PublicKey{pdas.ExpiringRootAndOpCount}, opts.GlobalAccounts...)

	return engine.Plan{
		Accounts:  accounts,
		Overrides: overrides,
		Clock:     opts.Clock,
		FeePayer:  authority,
		Batches:   batches,
		TrackedAccounts: func(i int) []solana.PublicKey {
			tracked := make([]solana.PublicKey, 0, len(p.Operations[i].Accounts)+len(globals))
			for _, account := range p.Operations[i].Accounts {
				tracked = append(tracked, account.Address)
			}

			return append(tracked, globals...)
		},
	}, nil
}

// rootOverrides stages the proposal root as the active root of the multisig.
func rootOverrides(p *Proposal, root MerkleRoot, pdas solanasdk.MCMAccounts) (map[solana.PublicKey]types.AccountState, error) {
	metadata, err := solanasdk.EncodeRootMetadataAccount(solanasdk.NewRootMetadataAccount(p.RootMetadata))
	if err != nil {
		return nil, err
	}
	expiringRoot, err := solanasdk.EncodeExpiringRootAndOpCount(solanasdk.ExpiringRootAndOpCount{
		Root:       root.Root,
		ValidUntil: p.ValidUntil,
		OpCount:    p.RootMetadata.PreOpCount,
	})
	if err != nil {
		return nil, err
	}

	return map[solana.PublicKey]types.AccountState{
		pdas.RootMetadata: {
			Lamports: solanasdk.RentExemptMinimum(len(metadata)),
			Data:     metadata,
			Owner:    p.ProgramID,
		},
		pdas.ExpiringRootAndOpCount: {
			Lamports: solanasdk.RentExemptMinimum(len(expiringRoot)),
			Data:     expiringRoot,
			Owner:    p.ProgramID,
		},
	}, nil
}

func batchLabel(i int, nonce uint64, op types.Operation) string {
	if op.ContractType != "" {
		return fmt.Sprintf("operation %d (nonce %d): %s %s", i, nonce, op.ContractType, op.To)
	}

	return fmt.Sprintf("operation %d (nonce %d): %s", i, nonce, op.To)
}

// Simulate commits the proposal and runs it. Batch failures are reported in the results, the
// error is reserved for failures that prevent the run.
func Simulate(ctx context.Context, runner Runner, p *Proposal, opts SimulationOptions) (MerkleRoot, *engine.Results, error) {
	lggr := sdk.LoggerFrom(ctx)

	root, err := p.MerkleRoot()
	if err != nil {
		return MerkleRoot{}, nil, err
	}
	lggr.Infow("Built merkle root", "root", root.Root.Hex(), "operations", len(p.Operations))

	plan, err := SimulationPlan(p, root, opts)
	if err != nil {
		return MerkleRoot{}, nil, fmt.Errorf("unable to build simulation plan: %w", err)
	}

	if config, _ := solanasdk.FindConfigPDA(p.ProgramID, p.MultisigID); !config.Equals(p.RootMetadata.Multisig) {
		lggr.Warnw("Root metadata multisig is not the config account of the multisig id",
			"multisig", p.RootMetadata.Multisig, "config", config)
	}

	results, err := runner.Run(ctx, plan)
	if err != nil {
		return MerkleRoot{}, nil, fmt.Errorf("simulation failed: %w", err)
	}

	return root, results, nil
}
