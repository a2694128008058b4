package engine

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// AccountFailure records an account that could not be fetched.
type AccountFailure struct {
	Address solana.PublicKey `json:"address"`
	Error   string           `json:"error"`
}

// AccountLoadError is returned by Run under the strict load policy when requested accounts are
// missing from the source or could not be fetched.
type AccountLoadError struct {
	Missing []solana.PublicKey
	Failed  []AccountFailure
}

// NewAccountLoadError creates a new AccountLoadError.
func NewAccountLoadError(missing []solana.PublicKey, failed []AccountFailure) *AccountLoadError {
	return &AccountLoadError{Missing: missing, Failed: failed}
}

func (e *AccountLoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unable to load accounts: %d missing, %d failed", len(e.Missing), len(e.Failed))

	for _, address := range e.Missing {
		fmt.Fprintf(&b, "; %s: not found", address)
	}
	for _, failure := range e.Failed {
		fmt.Fprintf(&b, "; %s: %s", failure.Address, failure.Error)
	}

	return b.String()
}
