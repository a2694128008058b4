package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/mcms-preview/engine"
	"github.com/smartcontractkit/mcms-preview/types"
)

// Verbosity controls how account data is rendered in a report.
type Verbosity string

const (
	// VerbosityFull renders account data as hex.
	VerbosityFull Verbosity = "full"
	// VerbositySummary renders the length and keccak256 hash of account data.
	VerbositySummary Verbosity = "summary"
)

// Report output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	ErrInvalidVerbosity = errors.New("invalid verbosity")
	ErrInvalidFormat    = errors.New("invalid report format")
)

// ParseVerbosity parses "full" or "summary".
func ParseVerbosity(s string) (Verbosity, error) {
	switch v := Verbosity(strings.ToLower(s)); v {
	case VerbosityFull, VerbositySummary:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVerbosity, s)
	}
}

type ReportOptions struct {
	// Verbosity defaults to VerbositySummary.
	Verbosity Verbosity
}

// Report is the serializable outcome of a proposal simulation.
type Report struct {
	RunID        string        `json:"runId" yaml:"runId"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Root         string        `json:"root" yaml:"root"`
	ValidUntil   uint32        `json:"validUntil" yaml:"validUntil"`
	MultisigID   string        `json:"multisigId" yaml:"multisigId"`
	MCMAddress   string        `json:"mcmAddress" yaml:"mcmAddress"`
	ChainID      uint64        `json:"chainId" yaml:"chainId"`
	ChainFamily  string        `json:"chainFamily" yaml:"chainFamily"`
	AllSucceeded bool          `json:"allSucceeded" yaml:"allSucceeded"`
	Accounts     AccountReport `json:"accounts" yaml:"accounts"`
	Batches      []BatchReport `json:"batches" yaml:"batches"`
}

// AccountReport lists how the accounts of the run were sourced.
type AccountReport struct {
	Loaded    []string `json:"loaded" yaml:"loaded"`
	Overrides []string `json:"overrides" yaml:"overrides"`
	Missing   []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Failed    []string `json:"failed,omitempty" yaml:"failed,omitempty"`
}

type BatchReport struct {
	Index     int              `json:"index" yaml:"index"`
	Nonce     uint64           `json:"nonce" yaml:"nonce"`
	Label     string           `json:"label" yaml:"label"`
	Target    string           `json:"target" yaml:"target"`
	Success   bool             `json:"success" yaml:"success"`
	Error     *string          `json:"error" yaml:"error"`
	Logs      []string         `json:"logs" yaml:"logs"`
	Mutations []MutationReport `json:"mutations" yaml:"mutations"`
}

// MutationReport renders an engine.Mutation. Only one of the data representations is set,
// depending on the report verbosity, and only when the data changed.
type MutationReport struct {
	Address        string  `json:"address" yaml:"address"`
	ExistedBefore  bool    `json:"existedBefore" yaml:"existedBefore"`
	ExistsAfter    bool    `json:"existsAfter" yaml:"existsAfter"`
	OwnerBefore    *string `json:"ownerBefore" yaml:"ownerBefore"`
	OwnerAfter     *string `json:"ownerAfter" yaml:"ownerAfter"`
	LamportsBefore *uint64 `json:"lamportsBefore" yaml:"lamportsBefore"`
	LamportsAfter  *uint64 `json:"lamportsAfter" yaml:"lamportsAfter"`
	DataChanged    bool    `json:"dataChanged" yaml:"dataChanged"`

	DataBefore *string `json:"dataBefore,omitempty" yaml:"dataBefore,omitempty"`
	DataAfter  *string `json:"dataAfter,omitempty" yaml:"dataAfter,omitempty"`

	DataBeforeSummary *DataSummary `json:"dataBeforeSummary,omitempty" yaml:"dataBeforeSummary,omitempty"`
	DataAfterSummary  *DataSummary `json:"dataAfterSummary,omitempty" yaml:"dataAfterSummary,omitempty"`
}

type DataSummary struct {
	Length int    `json:"length" yaml:"length"`
	Hash   string `json:"hash" yaml:"hash"`
}

// BuildReport renders the results of simulating p. There must be one batch result per operation.
func BuildReport(p *Proposal, root MerkleRoot, results *engine.Results, opts ReportOptions) (*Report, error) {
	if results == nil {
		return nil, errors.New("results must not be nil")
	}
	if len(results.Batches) != len(p.Operations) {
		return nil, fmt.Errorf("expected %d batch results, got %d", len(p.Operations), len(results.Batches))
	}

	verbosity := opts.Verbosity
	if verbosity == "" {
		verbosity = VerbositySummary
	}
	if _, err := ParseVerbosity(string(verbosity)); err != nil {
		return nil, err
	}

	runID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("unable to generate run id: %w", err)
	}

	family, err := types.GetChainSelectorFamily(p.RootMetadata.ChainID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:        runID.String(),
		Description:  p.Description,
		Root:         root.Root.Hex(),
		ValidUntil:   p.ValidUntil,
		MultisigID:   p.MultisigID.Hex(),
		MCMAddress:   p.ContractAddress(),
		ChainID:      uint64(p.RootMetadata.ChainID),
		ChainFamily:  family,
		AllSucceeded: results.AllSucceeded(),
		Accounts: AccountReport{
			Loaded:    snapshotAddresses(results.LoadedAccounts),
			Overrides: snapshotAddresses(results.Overrides),
		},
		Batches: make([]BatchReport, len(results.Batches)),
	}
	if len(results.MissingAccounts) > 0 {
		report.Accounts.Missing = addressStrings(results.MissingAccounts)
	}
	for _, failure := range results.FailedAccounts {
		report.Accounts.Failed = append(report.Accounts.Failed, failure.Address.String())
	}

	nonces := p.TransactionNonces()
	for i, batch := range results.Batches {
		br := BatchReport{
			Index:     batch.Index,
			Nonce:     nonces[i],
			Label:     batch.Label,
			Target:    p.Operations[i].To.String(),
			Success:   batch.Success,
			Logs:      batch.Logs,
			Mutations: make([]MutationReport, len(batch.Mutations)),
		}
		if br.Logs == nil {
			br.Logs = []string{}
		}
		if !batch.Success {
			msg := batch.Error
			br.Error = &msg
		}
		for j, m := range batch.Mutations {
			br.Mutations[j] = newMutationReport(m, verbosity)
		}
		report.Batches[i] = br
	}

	return report, nil
}

func newMutationReport(m engine.Mutation, verbosity Verbosity) MutationReport {
	out := MutationReport{
		Address:        m.Address.String(),
		ExistedBefore:  m.ExistedBefore,
		ExistsAfter:    m.ExistsAfter,
		LamportsBefore: m.LamportsBefore,
		LamportsAfter:  m.LamportsAfter,
		DataChanged:    m.DataChanged,
	}
	if m.OwnerBefore != nil {
		owner := m.OwnerBefore.String()
		out.OwnerBefore = &owner
	}
	if m.OwnerAfter != nil {
		owner := m.OwnerAfter.String()
		out.OwnerAfter = &owner
	}
	if !m.DataChanged {
		return out
	}

	if verbosity == VerbosityFull {
		if m.ExistedBefore {
			before := hexutil.Encode(m.DataBefore)
			out.DataBefore = &before
		}
		if m.ExistsAfter {
			after := hexutil.Encode(m.DataAfter)
			out.DataAfter = &after
		}

		return out
	}

	if m.ExistedBefore {
		out.DataBeforeSummary = summarize(m.DataBefore)
	}
	if m.ExistsAfter {
		out.DataAfterSummary = summarize(m.DataAfter)
	}

	return out
}

func summarize(data []byte) *DataSummary {
	return &DataSummary{Length: len(data), Hash: crypto.Keccak256Hash(data).Hex()}
}

func snapshotAddresses(snapshots []types.AccountSnapshot) []string {
	out := make([]string, len(snapshots))
	for i, snapshot := range snapshots {
		out[i] = snapshot.Address.String()
	}

	return out
}

func addressStrings[T fmt.Stringer](addresses []T) []string {
	out := make([]string, len(addresses))
	for i, a := range addresses {
		out[i] = a.String()
	}

	return out
}

// Write encodes the report to w as "json" or "yaml".
func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}
