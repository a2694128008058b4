package solana

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/mcms-preview/types"
)

func Test_ParseContractAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		address        string
		wantProgramID  solana.PublicKey
		wantMultisigID types.MultisigID
		wantContractID string
		wantErr        string
	}{
		{
			name:           "success",
			address:        "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.test-mcm",
			wantProgramID:  testProgramID,
			wantMultisigID: testMultisigID,
			wantContractID: "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.test-mcm",
		},
		{
			name:    "failure: long multisig id",
			address: "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.really-long-pda-seed-value-0123456789abcdef",
			wantErr: "unable to parse multisig id: invalid multisig id",
		},
		{
			name:    "failure: invalid format",
			address: "string-without-a-dot",
			wantErr: "invalid solana contract address format: \"string-without-a-dot\"",
		},
		{
			name:    "failure: invalid program id",
			address: "invalid-program-id.pda-seed",
			wantErr: "unable to parse solana program id: decode: invalid base58 digit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			programID, multisigID, err := ParseContractAddress(tt.address)

			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Empty(t, cmp.Diff(tt.wantProgramID, programID))
				require.Empty(t, cmp.Diff(tt.wantMultisigID, multisigID))

				contractAddress := ContractAddress(programID, multisigID)
				require.Empty(t, cmp.Diff(tt.wantContractID, contractAddress))
			} else {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func Test_ContractAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		multisigID types.MultisigID
		want       string
	}{
		{
			name:       "name padded with zeros",
			multisigID: testMultisigID,
			want:       "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.test-mcm",
		},
		{
			name:       "leading zero bytes",
			multisigID: types.MultisigID{0, 0, 'm', 'c', 'm'},
			want:       "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.0x00006d636d000000000000000000000000000000000000000000000000000000",
		},
		{
			name:       "binary id",
			multisigID: types.MultisigID{0x01, 0xff, 0x0a},
			want:       "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.0x01ff0a0000000000000000000000000000000000000000000000000000000000",
		},
		{
			name:       "zero id",
			multisigID: types.MultisigID{},
			want:       "6UmMZr5MEqiKWD5jqTJd1WCR5kT8oZuFYBLJFi1o6GQX.0x0000000000000000000000000000000000000000000000000000000000000000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ContractAddress(testProgramID, tt.multisigID)
			require.Equal(t, tt.want, got)

			programID, multisigID, err := ParseContractAddress(got)
			require.NoError(t, err)
			require.Equal(t, testProgramID, programID)
			require.Equal(t, tt.multisigID, multisigID)
		})
	}
}
