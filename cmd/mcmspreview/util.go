package mcmspreview

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	preview "github.com/smartcontractkit/mcms-preview"
	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/sdk/memory"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
)

// newBackend builds the sandbox and the account source the proposal is simulated with.
func newBackend(cfg SimulationConfig, proposal *preview.Proposal) (sdk.Sandbox, sdk.AccountSource, error) {
	switch cfg.Backend {
	case BackendMemory:
		sandbox := memory.NewSandbox(memory.WithProgram(proposal.ProgramID, memory.MCMProgram{}))
		if cfg.Fixtures != "" {
			source, err := memory.LoadAccountFixtures(cfg.Fixtures)
			if err != nil {
				return nil, nil, err
			}

			return sandbox, source, nil
		}

		client, err := newRPCClient(cfg, proposal)
		if err != nil {
			return nil, nil, err
		}

		return sandbox, newRPCAccountSource(cfg, client), nil

	case BackendCluster:
		client, err := newRPCClient(cfg, proposal)
		if err != nil {
			return nil, nil, err
		}
		source := newRPCAccountSource(cfg, client)

		return solanasdk.NewClusterSandbox(client, source), source, nil

	default:
		return nil, nil, fmt.Errorf("unknown simulation backend %q", cfg.Backend)
	}
}

func newRPCClient(cfg SimulationConfig, proposal *preview.Proposal) (*rpc.Client, error) {
	url, err := rpcURL(cfg, proposal.RootMetadata.ChainID)
	if err != nil {
		return nil, err
	}

	return rpc.New(url), nil
}

func newRPCAccountSource(cfg SimulationConfig, client *rpc.Client) *solanasdk.RPCAccountSource {
	return solanasdk.NewRPCAccountSource(client,
		solanasdk.WithCommitment(rpc.CommitmentType(cfg.Commitment)),
		solanasdk.WithRetry(cfg.RetryAttempts, cfg.RetryDelay),
	)
}

// simulationOptions converts the configured addresses and clock.
func simulationOptions(cfg SimulationConfig) (preview.SimulationOptions, error) {
	opts := preview.SimulationOptions{FundLamports: cfg.FundLamports}

	if cfg.Authority != "" {
		authority, err := solana.PublicKeyFromBase58(cfg.Authority)
		if err != nil {
			return opts, fmt.Errorf("invalid authority: %w", err)
		}
		opts.Authority = authority
	}

	if cfg.Clock != "" {
		clock, err := time.Parse(time.RFC3339, cfg.Clock)
		if err != nil {
			return opts, fmt.Errorf("invalid clock %q: %w", cfg.Clock, err)
		}
		opts.Clock = &clock
	}

	var err error
	if opts.ExtraAccounts, err = parseAddresses(cfg.ExtraAccounts); err != nil {
		return opts, fmt.Errorf("invalid extra account: %w", err)
	}
	if opts.GlobalAccounts, err = parseAddresses(cfg.GlobalAccounts); err != nil {
		return opts, fmt.Errorf("invalid global account: %w", err)
	}

	return opts, nil
}

func parseAddresses(addresses []string) ([]solana.PublicKey, error) {
	keys := make([]solana.PublicKey, 0, len(addresses))
	for _, address := range addresses {
		key, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", address, err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}
