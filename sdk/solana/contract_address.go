package solana

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/smartcontractkit/mcms-preview/types"
)

// ContractAddress returns a string representation of a solana multisig instance
// which is a combination of the program id and the multisig id <PROGRAM_ID>.<MULTISIG_ID>
//
// The multisig id is printed as its name when it is a printable ASCII string padded with
// trailing zeros, and as 0x prefixed hex otherwise.
func ContractAddress(programID solana.PublicKey, multisigID types.MultisigID) string {
	return fmt.Sprintf("%s.%s", programID.String(), multisigIDName(multisigID))
}

// ParseContractAddress parses an address produced by ContractAddress.
func ParseContractAddress(address string) (solana.PublicKey, types.MultisigID, error) {
	const numParts = 2
	parts := strings.SplitN(address, ".", numParts)
	if len(parts) != numParts {
		return solana.PublicKey{}, types.MultisigID{}, fmt.Errorf("invalid solana contract address format: %q", address)
	}

	programID, err := solana.PublicKeyFromBase58(parts[0])
	if err != nil {
		return solana.PublicKey{}, types.MultisigID{}, fmt.Errorf("unable to parse solana program id: %w", err)
	}

	var multisigID types.MultisigID
	if isHexMultisigID(parts[1]) {
		err = multisigID.UnmarshalText([]byte(parts[1]))
	} else {
		multisigID, err = types.NewMultisigIDFromString(parts[1])
	}
	if err != nil {
		return solana.PublicKey{}, types.MultisigID{}, fmt.Errorf("unable to parse multisig id: %w", err)
	}

	return programID, multisigID, nil
}

func multisigIDName(id types.MultisigID) string {
	name := bytes.TrimRight(id[:], "\x00")
	if len(name) == 0 {
		return id.Hex()
	}
	for _, b := range name {
		if b < 0x21 || b > 0x7e {
			return id.Hex()
		}
	}

	return string(name)
}

// isHexMultisigID reports whether s is the hex form ContractAddress falls back to. Names are at
// most 32 bytes, so they never take this shape.
func isHexMultisigID(s string) bool {
	return len(s) == 2+2*types.MultisigIDLength && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"))
}
