// Package preview loads MCM proposals for Solana, commits them to a merkle root and previews
// their execution against a sandboxed ledger.
package preview

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"

	"github.com/smartcontractkit/mcms-preview/internal/core/merkle"
	solanasdk "github.com/smartcontractkit/mcms-preview/sdk/solana"
	"github.com/smartcontractkit/mcms-preview/types"
)

// Proposal is a batch of operations the multisig identified by MultisigID is asked to execute.
// It is immutable once loaded.
type Proposal struct {
	Version     string           `json:"version" validate:"required"`
	MultisigID  types.MultisigID `json:"multisigId"`
	ProgramID   solana.PublicKey `json:"programId"`
	ValidUntil  uint32           `json:"validUntil" validate:"required"`
	Description string           `json:"description"`

	RootMetadata types.RootMetadata `json:"rootMetadata"`
	Operations   []types.Operation  `json:"operations" validate:"required,min=1,dive"`
}

// LoadProposal decodes and validates a JSON proposal.
func LoadProposal(reader io.Reader) (*Proposal, error) {
	var out Proposal
	if err := json.NewDecoder(reader).Decode(&out); err != nil {
		return nil, err
	}

	return &out, nil
}

// LoadProposalFromFile decodes and validates the JSON proposal stored at path.
func LoadProposalFromFile(path string) (*Proposal, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("unable to open proposal file: %w", err)
	}
	defer f.Close()

	proposal, err := LoadProposal(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load proposal %s: %w", path, err)
	}

	return proposal, nil
}

// MarshalJSON marshals the proposal to JSON
func (p *Proposal) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	type Alias Proposal

	return json.Marshal((*Alias)(p))
}

// UnmarshalJSON unmarshals the JSON to a proposal and validates it.
func (p *Proposal) UnmarshalJSON(data []byte) error {
	type Alias Proposal
	if err := json.Unmarshal(data, (*Alias)(p)); err != nil {
		return err
	}

	return p.Validate()
}

// Validate checks the struct tags, the target chain and the op count invariant.
func (p *Proposal) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.ProgramID.IsZero() {
		return ErrZeroProgramID
	}
	if p.MultisigID.IsZero() {
		return fmt.Errorf("%w: must not be zero", types.ErrInvalidMultisigID)
	}

	family, err := types.GetChainSelectorFamily(p.RootMetadata.ChainID)
	if err != nil {
		return err
	}
	if !p.RootMetadata.ChainID.IsSolana() {
		return NewUnsupportedChainFamilyError(p.RootMetadata.ChainID, family)
	}

	md := p.RootMetadata
	if md.PostOpCount <= md.PreOpCount || md.TxCount() != uint64(len(p.Operations)) {
		return NewInvalidOpCountError(md.PreOpCount, md.PostOpCount, len(p.Operations))
	}

	return nil
}

// TransactionNonces returns the nonce of every operation, in order.
func (p *Proposal) TransactionNonces() []uint64 {
	nonces := make([]uint64, len(p.Operations))
	for i := range p.Operations {
		nonces[i] = p.RootMetadata.PreOpCount + uint64(i)
	}

	return nonces
}

// ContractAddress returns the <program>.<multisig id> address of the multisig instance.
func (p *Proposal) ContractAddress() string {
	return solanasdk.ContractAddress(p.ProgramID, p.MultisigID)
}

// MerkleTree builds the tree over the metadata leaf followed by one leaf per operation.
func (p *Proposal) MerkleTree() (*merkle.Tree, error) {
	tree, err := merkle.NewTree(proposalLeaves(p.RootMetadata, p.Operations))
	if err != nil {
		return nil, wrapTreeGenErr(err)
	}

	return tree, nil
}

// wrapTreeGenErr wraps an error with a message indicating that it occurred during
// merkle tree generation.
func wrapTreeGenErr(err error) error {
	return fmt.Errorf("merkle tree generation error: %w", err)
}
