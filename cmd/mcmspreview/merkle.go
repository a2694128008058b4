package mcmspreview

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	preview "github.com/smartcontractkit/mcms-preview"
)

type merkleOperation struct {
	Index int           `json:"index"`
	Nonce uint64        `json:"nonce"`
	Proof []common.Hash `json:"proof"`
}

type merkleOutput struct {
	Root       common.Hash       `json:"root"`
	ValidUntil uint32            `json:"validUntil"`
	MCMAddress string            `json:"mcmAddress"`
	Operations []merkleOperation `json:"operations"`
}

func buildMerkleCmd(proposalPath *string) *cobra.Command {
	cmd := cobra.Command{
		Use:   "merkle",
		Short: "Prints the merkle root of a proposal and the proof of every operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			proposal, err := preview.LoadProposalFromFile(*proposalPath)
			if err != nil {
				return err
			}

			root, err := proposal.MerkleRoot()
			if err != nil {
				return err
			}

			out := merkleOutput{
				Root:       root.Root,
				ValidUntil: proposal.ValidUntil,
				MCMAddress: proposal.ContractAddress(),
				Operations: make([]merkleOperation, len(proposal.Operations)),
			}
			for i, nonce := range proposal.TransactionNonces() {
				out.Operations[i] = merkleOperation{Index: i, Nonce: nonce, Proof: root.Proofs[i]}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err = enc.Encode(out); err != nil {
				return fmt.Errorf("unable to write merkle root: %w", err)
			}

			return nil
		},
	}

	return &cmd
}
