package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/mcms-preview/types"
)

func TestLoadAccountFixtures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	address := solana.MustPublicKeyFromBase58("CiPYshUKNDV9i4p4MLaqXSRqYWtnMtW6b1aYjh4Lw9nP")
	missing := solana.NewWallet().PublicKey()

	tests := []struct {
		name    string
		content string
		want    map[solana.PublicKey]types.AccountState
		wantErr string
	}{
		{
			name: "success",
			content: `[{
				"address": "CiPYshUKNDV9i4p4MLaqXSRqYWtnMtW6b1aYjh4Lw9nP",
				"lamports": 42,
				"data": "AQID",
				"owner": "11111111111111111111111111111111",
				"executable": false
			}]`,
			want: map[solana.PublicKey]types.AccountState{
				address: {Lamports: 42, Data: []byte{1, 2, 3}, Owner: solana.SystemProgramID},
			},
		},
		{
			name:    "failure: invalid json",
			content: `{"address":`,
			wantErr: "unable to parse account fixtures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.name+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			source, err := LoadAccountFixtures(path)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			got, err := source.GetAccounts(context.Background(), []solana.PublicKey{address, missing})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := LoadAccountFixtures(filepath.Join(dir, "does-not-exist.json"))
	require.ErrorContains(t, err, "unable to read account fixtures")
}
