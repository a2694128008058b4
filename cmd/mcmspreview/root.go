package mcmspreview

import (
	"github.com/spf13/cobra"
)

// BuildMCMSPreviewCmd builds the root command of the CLI.
func BuildMCMSPreviewCmd() *cobra.Command {
	var (
		proposalPath string
		configPath   string
	)

	cmd := cobra.Command{
		Use:           "mcms-preview",
		Short:         "Preview the execution of MCMS proposals on Solana",
		Long:          `Commit a proposal to its merkle root and simulate the execution of every operation against a sandboxed ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&proposalPath, "proposal", "", "File path containing the proposal to preview")
	cmd.PersistentFlags().StringVar(&configPath, "config", "mcms-preview.yaml", "File path of the configuration, ignored when missing")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = cmd.MarkPersistentFlagRequired("proposal")

	cmd.AddCommand(buildMerkleCmd(&proposalPath))
	cmd.AddCommand(buildSimulateCmd(&proposalPath, &configPath))

	return &cmd
}
