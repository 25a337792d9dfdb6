package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui/internal/cli"
	"github.com/aretw0/sapgui/internal/presentation/tui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configuration and that SAP GUI is reachable",
	Long: `Loads the configuration, attaches to SAP GUI, resolves the current session
and releases everything again. Use it to confirm scripting is enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(out)
		}

		rt, cfg, err := newRuntime(cmd)
		if err != nil {
			tui.Failure(out, "Configuration: %v", err)
			return err
		}
		defer closeRuntime(rt)
		tui.Success(out, "Configuration: application %q, snapshots in %s", cfg.Application, cfg.Snapshots.Backend)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		snap, err := rt.Client.Sessions(sigCtx)
		if err != nil {
			tui.Failure(out, "Connection: %v", err)
			return err
		}
		tui.Success(out, "Connection: %d session(s), current transaction %s", len(snap.Sessions), snap.CurrentTransaction)

		if len(snap.Sessions) == 0 {
			tui.Warning(out, "No open sessions; log on to a system first")
		}
		if _, err := rt.Store.List(sigCtx); err != nil {
			tui.Failure(out, "Snapshot store: %v", err)
			return fmt.Errorf("snapshot store unavailable: %w", err)
		}
		tui.Success(out, "Snapshot store: reachable")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
}
