package engine

import (
	"fmt"
	"strings"
)

// LoadPolicy decides what happens when accounts requested by a plan cannot be loaded.
type LoadPolicy int

const (
	// LoadPolicyStrict aborts the run when any account is missing or fails to load.
	LoadPolicyStrict LoadPolicy = iota

	// LoadPolicyLenient logs a warning, skips the account and records it in the results.
	LoadPolicyLenient
)

func (p LoadPolicy) String() string {
	switch p {
	case LoadPolicyStrict:
		return "strict"
	case LoadPolicyLenient:
		return "lenient"
	default:
		return fmt.Sprintf("LoadPolicy(%d)", int(p))
	}
}

// ParseLoadPolicy parses "strict" or "lenient", ignoring case.
func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return LoadPolicyStrict, nil
	case "lenient":
		return LoadPolicyLenient, nil
	default:
		return 0, fmt.Errorf("unknown load policy %q: expected strict or lenient", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p LoadPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *LoadPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseLoadPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed

	return nil
}
