package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/types"
)

var _ sdk.AccountSource = (*RPCAccountSource)(nil)

// getMultipleAccounts accepts at most this many addresses per request.
const maxAccountsPerRequest = 100

var (
	defaultRetryAttempts uint = 3
	defaultRetryDelay         = 500 * time.Millisecond
)

// MultipleAccountsGetter is the subset of the rpc client used to load accounts.
type MultipleAccountsGetter interface {
	GetMultipleAccountsWithOpts(
		ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts,
	) (*rpc.GetMultipleAccountsResult, error)
}

// RPCAccountSource loads accounts from a cluster through the getMultipleAccounts rpc method.
type RPCAccountSource struct {
	client     MultipleAccountsGetter
	commitment rpc.CommitmentType
	attempts   uint
	delay      time.Duration
}

// RPCAccountSourceOption configures an RPCAccountSource.
type RPCAccountSourceOption func(*RPCAccountSource)

// WithCommitment sets the commitment level of the account reads.
func WithCommitment(commitment rpc.CommitmentType) RPCAccountSourceOption {
	return func(s *RPCAccountSource) {
		s.commitment = commitment
	}
}

// WithRetry sets the number of attempts and the delay between them.
func WithRetry(attempts uint, delay time.Duration) RPCAccountSourceOption {
	return func(s *RPCAccountSource) {
		s.attempts = attempts
		s.delay = delay
	}
}

// NewRPCAccountSource creates an account source backed by the given rpc client. A
// *rpc.Client satisfies MultipleAccountsGetter.
func NewRPCAccountSource(client MultipleAccountsGetter, opts ...RPCAccountSourceOption) *RPCAccountSource {
	s := &RPCAccountSource{
		client:     client,
		commitment: rpc.CommitmentConfirmed,
		attempts:   defaultRetryAttempts,
		delay:      defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetAccounts fetches the requested accounts. Requests larger than the rpc limit are split and
// any failing request fails the whole call.
func (s *RPCAccountSource) GetAccounts(
	ctx context.Context, addresses []solana.PublicKey,
) (map[solana.PublicKey]types.AccountState, error) {
	accounts := make(map[solana.PublicKey]types.AccountState, len(addresses))

	for _, chunk := range chunkIndexes(len(addresses), maxAccountsPerRequest) {
		keys := addresses[chunk[0]:chunk[1]]

		result, err := retry.DoWithData(
			func() (*rpc.GetMultipleAccountsResult, error) {
				return s.client.GetMultipleAccountsWithOpts(ctx, keys, &rpc.GetMultipleAccountsOpts{
					Encoding:   solana.EncodingBase64,
					Commitment: s.commitment,
				})
			},
			retry.Context(ctx),
			retry.Attempts(s.attempts),
			retry.Delay(s.delay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(attempt uint, err error) {
				sdk.LoggerFrom(ctx).Debugw("retrying getMultipleAccounts", "attempt", attempt, "error", err)
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("unable to get accounts: %w", err)
		}
		if result == nil || len(result.Value) != len(keys) {
			return nil, fmt.Errorf("unexpected getMultipleAccounts response: requested %d accounts", len(keys))
		}

		for i, account := range result.Value {
			if account == nil {
				continue
			}
			accounts[keys[i]] = accountStateFromRPC(account)
		}
	}

	return accounts, nil
}

func accountStateFromRPC(account *rpc.Account) types.AccountState {
	state := types.AccountState{
		Lamports:   account.Lamports,
		Owner:      account.Owner,
		Executable: account.Executable,
	}
	if account.Data != nil {
		state.Data = append([]byte{}, account.Data.GetBinary()...)
	}

	return state
}
