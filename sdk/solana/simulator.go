package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cast"

	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/types"
)

var _ sdk.Sandbox = (*ClusterSandbox)(nil)

// ErrClockUnsupported is returned by ClusterSandbox.AdvanceClock: simulateTransaction always
// runs against the cluster clock.
var ErrClockUnsupported = errors.New("cluster sandbox does not support advancing the clock")

// ErrOverridesUnsupported is returned when a write would make the local view of an account
// differ from the cluster. simulateTransaction only executes against cluster state.
var ErrOverridesUnsupported = errors.New("cluster sandbox does not support account state that differs from the cluster")

// TransactionSimulator is the subset of the rpc client used to dry run transactions.
type TransactionSimulator interface {
	SimulateTransactionWithOpts(
		ctx context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts,
	) (*rpc.SimulateTransactionResponse, error)
}

// ClusterSandbox dry runs batches against a live cluster with simulateTransaction.
//
// The post state of simulated transactions is kept in a local overlay that GetAccount reads
// first. The cluster never sees the overlay, so SetAccount only accepts the state the sandbox
// already reports for the account, and FundAccount only accepts zero lamports. Every other
// write fails with ErrOverridesUnsupported.
type ClusterSandbox struct {
	client TransactionSimulator
	source sdk.AccountSource

	mu      sync.Mutex
	overlay map[solana.PublicKey]*types.AccountState
}

// NewClusterSandbox creates a sandbox that simulates through client and reads accounts that
// were never written locally from source.
func NewClusterSandbox(client TransactionSimulator, source sdk.AccountSource) *ClusterSandbox {
	return &ClusterSandbox{
		client:  client,
		source:  source,
		overlay: make(map[solana.PublicKey]*types.AccountState),
	}
}

func (s *ClusterSandbox) SetAccount(ctx context.Context, address solana.PublicKey, state types.AccountState) error {
	current, exists, err := s.GetAccount(ctx, address)
	if err != nil {
		return err
	}
	if !exists || !current.Equal(state) {
		return fmt.Errorf("account %s: %w", address, ErrOverridesUnsupported)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cloned := state.Clone()
	s.overlay[address] = &cloned

	return nil
}

func (s *ClusterSandbox) GetAccount(ctx context.Context, address solana.PublicKey) (types.AccountState, bool, error) {
	s.mu.Lock()
	state, ok := s.overlay[address]
	s.mu.Unlock()

	if ok {
		if state == nil {
			return types.AccountState{}, false, nil
		}

		return state.Clone(), true, nil
	}

	accounts, err := s.source.GetAccounts(ctx, []solana.PublicKey{address})
	if err != nil {
		return types.AccountState{}, false, fmt.Errorf("unable to get account %s: %w", address, err)
	}
	loaded, exists := accounts[address]

	return loaded, exists, nil
}

// FundAccount fails for any non-zero amount: the fee payer must already be funded on the
// cluster.
func (s *ClusterSandbox) FundAccount(_ context.Context, address solana.PublicKey, lamports uint64) error {
	if lamports == 0 {
		return nil
	}

	return fmt.Errorf("unable to fund %s with %d lamports: %w", address, lamports, ErrOverridesUnsupported)
}

func (s *ClusterSandbox) AdvanceClock(context.Context, time.Time) error {
	return ErrClockUnsupported
}

// Submit simulates the instructions as one transaction and records the post state of every
// writable account in the overlay.
func (s *ClusterSandbox) Submit(ctx context.Context, feePayer solana.PublicKey, instructions []solana.Instruction) error {
	tx, err := solana.NewTransaction(instructions, solana.Hash{}, solana.TransactionPayer(feePayer))
	if err != nil {
		return fmt.Errorf("unable to create transaction: %w", err)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	writable := writableAccounts(feePayer, instructions)

	resp, err := s.client.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		ReplaceRecentBlockhash: true,
		Commitment:             rpc.CommitmentConfirmed,
		Accounts: &rpc.SimulateTransactionAccountsOpts{
			Encoding:  solana.EncodingBase64,
			Addresses: writable,
		},
	})
	if err != nil {
		return fmt.Errorf("unable to simulate transaction: %w", err)
	}
	if resp == nil || resp.Value == nil {
		return errors.New("unable to simulate transaction: empty response")
	}

	result := resp.Value
	if result.Err != nil {
		return newSimulationError(result.Err, result.Logs)
	}
	if len(result.Accounts) != len(writable) {
		return fmt.Errorf("unexpected simulation response: requested %d accounts, got %d",
			len(writable), len(result.Accounts))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, account := range result.Accounts {
		if account == nil {
			s.overlay[writable[i]] = nil
			continue
		}
		state := accountStateFromRPC(account)
		s.overlay[writable[i]] = &state
	}

	return nil
}

// writableAccounts returns the fee payer followed by every other writable account, in order of
// first appearance.
func writableAccounts(feePayer solana.PublicKey, instructions []solana.Instruction) []solana.PublicKey {
	seen := map[solana.PublicKey]bool{feePayer: true}
	writable := []solana.PublicKey{feePayer}

	for _, ix := range instructions {
		for _, meta := range ix.Accounts() {
			if !meta.IsWritable || seen[meta.PublicKey] {
				continue
			}
			seen[meta.PublicKey] = true
			writable = append(writable, meta.PublicKey)
		}
	}

	return writable
}

// newSimulationError converts the err field of a simulation result. Instruction failures have the
// shape {"InstructionError": [index, detail]}.
func newSimulationError(value any, logs []string) *sdk.TransactionError {
	if m, ok := value.(map[string]any); ok {
		if ixErr, ok := m["InstructionError"].([]any); ok && len(ixErr) == 2 {
			if index, err := instructionIndex(ixErr[0]); err == nil {
				return sdk.NewTransactionError(errorReason(ixErr[1]), index, logs)
			}
		}
	}

	return sdk.NewTransactionError(errorReason(value), -1, logs)
}

func instructionIndex(value any) (int, error) {
	if n, ok := value.(json.Number); ok {
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}

		return cast.ToIntE(i)
	}

	return cast.ToIntE(value)
}

func errorReason(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(b)
}
