package solana

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/types"
)

type fakeSimulator struct {
	result *rpc.SimulateTransactionResult
	err    error

	tx   *solana.Transaction
	opts *rpc.SimulateTransactionOpts
}

func (f *fakeSimulator) SimulateTransactionWithOpts(
	_ context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts,
) (*rpc.SimulateTransactionResponse, error) {
	f.tx = tx
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}

	return &rpc.SimulateTransactionResponse{Value: f.result}, nil
}

type staticSource map[solana.PublicKey]types.AccountState

func (s staticSource) GetAccounts(_ context.Context, addrs []solana.PublicKey) (map[solana.PublicKey]types.AccountState, error) {
	out := map[solana.PublicKey]types.AccountState{}
	for _, a := range addrs {
		if state, ok := s[a]; ok {
			out[a] = state
		}
	}

	return out, nil
}

func TestClusterSandbox_Submit(t *testing.T) {
	t.Parallel()

	payer := solana.NewWallet().PublicKey()
	recipient := solana.NewWallet().PublicKey()
	transfer := system.NewTransferInstruction(10, payer, recipient).Build()

	tests := []struct {
		name      string
		simulator *fakeSimulator
		wantErr   string
		wantIndex int
		want      map[solana.PublicKey]types.AccountState
	}{
		{
			name: "success",
			simulator: &fakeSimulator{result: &rpc.SimulateTransactionResult{
				Logs: []string{"Program 11111111111111111111111111111111 success"},
				Accounts: []*rpc.Account{
					newRPCAccount(90, solana.SystemProgramID, nil),
					newRPCAccount(10, solana.SystemProgramID, nil),
				},
			}},
			want: map[solana.PublicKey]types.AccountState{
				payer:     {Lamports: 90, Owner: solana.SystemProgramID, Data: []byte{}},
				recipient: {Lamports: 10, Owner: solana.SystemProgramID, Data: []byte{}},
			},
		},
		{
			name: "failure: instruction error",
			simulator: &fakeSimulator{result: &rpc.SimulateTransactionResult{
				Err: map[string]any{
					"InstructionError": []any{json.Number("0"), map[string]any{"Custom": json.Number("1")}},
				},
				Logs: []string{"Transfer: insufficient lamports 0, need 10"},
			}},
			wantErr:   `transaction failed: instruction 0: {"Custom":1}`,
			wantIndex: 0,
		},
		{
			name: "failure: transaction error",
			simulator: &fakeSimulator{result: &rpc.SimulateTransactionResult{
				Err: "AccountNotFound",
			}},
			wantErr:   "transaction failed: AccountNotFound",
			wantIndex: -1,
		},
		{
			name:      "failure: rpc error",
			simulator: &fakeSimulator{err: errors.New("timeout")},
			wantErr:   "unable to simulate transaction: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			sandbox := NewClusterSandbox(tt.simulator, staticSource{})

			err := sandbox.Submit(ctx, payer, []solana.Instruction{transfer})

			require.NotNil(t, tt.simulator.opts)
			assert.False(t, tt.simulator.opts.SigVerify)
			assert.True(t, tt.simulator.opts.ReplaceRecentBlockhash)
			assert.Equal(t, []solana.PublicKey{payer, recipient}, tt.simulator.opts.Accounts.Addresses)
			assert.Len(t, tt.simulator.tx.Signatures, 1)

			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)

				var txErr *sdk.TransactionError
				if errors.As(err, &txErr) {
					assert.Equal(t, tt.wantIndex, txErr.InstructionIndex)
					assert.Equal(t, tt.simulator.result.Logs, txErr.Logs)
				}

				_, exists, gerr := sandbox.GetAccount(ctx, recipient)
				require.NoError(t, gerr)
				assert.False(t, exists)

				return
			}

			require.NoError(t, err)
			for addr, want := range tt.want {
				got, exists, gerr := sandbox.GetAccount(ctx, addr)
				require.NoError(t, gerr)
				assert.True(t, exists)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestClusterSandbox_Accounts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	onChain := solana.NewWallet().PublicKey()
	staged := solana.NewWallet().PublicKey()
	onChainState := types.AccountState{Lamports: 5, Owner: solana.SystemProgramID}

	sandbox := NewClusterSandbox(&fakeSimulator{}, staticSource{onChain: onChainState})

	got, exists, err := sandbox.GetAccount(ctx, onChain)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, uint64(5), got.Lamports)

	// state matching the cluster is accepted
	require.NoError(t, sandbox.SetAccount(ctx, onChain, onChainState))
	require.NoError(t, sandbox.FundAccount(ctx, onChain, 0))

	err = sandbox.SetAccount(ctx, onChain, types.AccountState{Lamports: 42, Owner: solana.SystemProgramID})
	require.ErrorIs(t, err, ErrOverridesUnsupported)

	err = sandbox.SetAccount(ctx, staged, types.AccountState{Lamports: 42, Owner: testProgramID, Data: []byte{9, 9}})
	require.ErrorIs(t, err, ErrOverridesUnsupported)

	require.ErrorIs(t, sandbox.FundAccount(ctx, onChain, 2), ErrOverridesUnsupported)

	// rejected writes never reach the local view
	_, exists, err = sandbox.GetAccount(ctx, staged)
	require.NoError(t, err)
	assert.False(t, exists)

	got, _, err = sandbox.GetAccount(ctx, onChain)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.Lamports)

	require.ErrorIs(t, sandbox.AdvanceClock(ctx, time.Now()), ErrClockUnsupported)
}
