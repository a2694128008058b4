package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/sdk"
	"github.com/smartcontractkit/mcms-preview/types"
)

var _ sdk.AccountSource = (*StaticAccountSource)(nil)

// StaticAccountSource serves accounts from a fixed set of snapshots.
type StaticAccountSource struct {
	accounts map[solana.PublicKey]types.AccountState
}

// NewStaticAccountSource creates a source serving the given snapshots. Later snapshots of the
// same address win.
func NewStaticAccountSource(snapshots ...types.AccountSnapshot) *StaticAccountSource {
	accounts := make(map[solana.PublicKey]types.AccountState, len(snapshots))
	for _, snapshot := range snapshots {
		accounts[snapshot.Address] = snapshot.AccountState.Clone()
	}

	return &StaticAccountSource{accounts: accounts}
}

func (s *StaticAccountSource) GetAccounts(
	_ context.Context, addresses []solana.PublicKey,
) (map[solana.PublicKey]types.AccountState, error) {
	found := make(map[solana.PublicKey]types.AccountState, len(addresses))
	for _, address := range addresses {
		if state, ok := s.accounts[address]; ok {
			found[address] = state.Clone()
		}
	}

	return found, nil
}

// LoadAccountFixtures reads a JSON array of account snapshots, as written by an account dump,
// and returns a source serving them.
func LoadAccountFixtures(path string) (*StaticAccountSource, error) {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("unable to read account fixtures: %w", err)
	}

	var snapshots []types.AccountSnapshot
	if err := json.Unmarshal(b, &snapshots); err != nil {
		return nil, fmt.Errorf("unable to parse account fixtures %s: %w", path, err)
	}

	return NewStaticAccountSource(snapshots...), nil
}
