package mcmspreview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	preview "github.com/smartcontractkit/mcms-preview"
	"github.com/smartcontractkit/mcms-preview/engine"
	"github.com/smartcontractkit/mcms-preview/sdk"
)

func buildSimulateCmd(proposalPath, configPath *string) *cobra.Command {
	cmd := cobra.Command{
		Use:   "simulate",
		Short: "Simulates the execution of every operation of a proposal and reports the account changes",
		Long: `Stages the proposal root as the active root of the multisig and executes every operation,
in nonce order, through the MCM program. The command fails when any operation fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(*configPath, cmd.Flags())
			if err != nil {
				return err
			}

			lggr, err := sdk.NewLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			ctx := sdk.ContextWithLogger(cmd.Context(), lggr)

			proposal, err := preview.LoadProposalFromFile(*proposalPath)
			if err != nil {
				return err
			}

			sandbox, source, err := newBackend(cfg.Simulation, proposal)
			if err != nil {
				return err
			}

			policy, err := engine.ParseLoadPolicy(cfg.Simulation.LoadPolicy)
			if err != nil {
				return err
			}
			eng := engine.New(sandbox, source,
				engine.WithLoadPolicy(policy),
				engine.WithConcurrency(cfg.Simulation.Concurrency),
				engine.WithChunkSize(cfg.Simulation.ChunkSize),
				engine.WithLogger(lggr),
			)

			opts, err := simulationOptions(cfg.Simulation)
			if err != nil {
				return err
			}

			root, results, err := preview.Simulate(ctx, eng, proposal, opts)
			if err != nil {
				return err
			}

			report, err := preview.BuildReport(proposal, root, results, preview.ReportOptions{
				Verbosity: preview.Verbosity(cfg.Report.Verbosity),
			})
			if err != nil {
				return err
			}

			if err = writeReport(cmd.OutOrStdout(), cfg.Report, report); err != nil {
				return err
			}

			if !report.AllSucceeded {
				lggr.Errorw("Simulation finished with failed operations", "failed", results.FailedBatches())
				return preview.ErrBatchesFailed
			}
			lggr.Infow("Simulation finished", "operations", len(results.Batches))

			return nil
		},
	}

	cmd.Flags().String("backend", BackendMemory, "Sandbox backend (memory, cluster). cluster needs the root set on chain and a funded --authority")
	cmd.Flags().String("fixtures", "", "JSON file of account snapshots used instead of the RPC")
	cmd.Flags().String("rpc-url", "", "Solana RPC URL, defaults to RPC_URL_<selector> from the environment")
	cmd.Flags().String("load-policy", engine.LoadPolicyStrict.String(), "Account load policy (strict, lenient)")
	cmd.Flags().String("authority", "", "Fee payer executing the operations, generated when empty")
	cmd.Flags().Uint64("fund-lamports", 0, "Lamports credited to the authority before every operation")
	cmd.Flags().String("clock", "", "RFC3339 time the sandbox clock is set to")
	cmd.Flags().StringSlice("extra-account", nil, "Additional account to load (repeatable)")
	cmd.Flags().StringSlice("global-account", nil, "Account tracked in every operation (repeatable)")
	cmd.Flags().String("verbosity", string(preview.VerbositySummary), "Account data in the report (full, summary)")
	cmd.Flags().String("format", preview.FormatJSON, "Report format (json, yaml)")
	cmd.Flags().String("output", "", "Report file path, stdout when empty")

	return &cmd
}

func writeReport(stdout io.Writer, cfg ReportConfig, report *preview.Report) error {
	if cfg.Output == "" {
		return report.Write(stdout, cfg.Format)
	}

	f, err := os.Create(filepath.Clean(cfg.Output))
	if err != nil {
		return fmt.Errorf("unable to create report file: %w", err)
	}
	defer f.Close()

	return report.Write(f, cfg.Format)
}
