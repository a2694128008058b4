package sdk

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

// AccountSource is the source of truth accounts are loaded from before a simulation.
type AccountSource interface {
	// GetAccounts returns the state of every requested address that exists. Addresses that do
	// not exist are omitted from the result. A non nil error means the request failed as a whole
	// and nothing can be said about the existence of the requested addresses.
	GetAccounts(ctx context.Context, addresses []solana.PublicKey) (map[solana.PublicKey]types.AccountState, error)
}
