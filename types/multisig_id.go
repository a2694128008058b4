package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// MultisigIDLength is the length in bytes of a multisig identifier.
const MultisigIDLength = 32

// ErrInvalidMultisigID is returned when a multisig identifier is not exactly 32 bytes.
var ErrInvalidMultisigID = errors.New("invalid multisig id")

// MultisigID identifies a multisig instance of the MCM program. It is also the seed of every PDA
// the instance owns.
type MultisigID [MultisigIDLength]byte

// NewMultisigIDFromString left-aligns a short ASCII name into a MultisigID, e.g. "test-mcm".
func NewMultisigIDFromString(name string) (MultisigID, error) {
	var id MultisigID
	if len(name) > MultisigIDLength {
		return id, fmt.Errorf("%w: name %q is longer than %d bytes", ErrInvalidMultisigID, name, MultisigIDLength)
	}
	copy(id[:], name)

	return id, nil
}

// Hex returns the 0x prefixed hex encoding of the id.
func (id MultisigID) Hex() string {
	return hexutil.Encode(id[:])
}

// String implements fmt.Stringer.
func (id MultisigID) String() string {
	return id.Hex()
}

// IsZero reports whether the id is all zeros.
func (id MultisigID) IsZero() bool {
	return id == MultisigID{}
}

// MarshalText implements encoding.TextMarshaler.
func (id MultisigID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The input must be the hex encoding of
// exactly 32 bytes, with or without the 0x prefix.
func (id *MultisigID) UnmarshalText(text []byte) error {
	s := string(text)
	if !has0xPrefix(s) {
		s = "0x" + s
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMultisigID, err)
	}
	if len(b) != MultisigIDLength {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidMultisigID, MultisigIDLength, len(b))
	}
	copy(id[:], b)

	return nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
