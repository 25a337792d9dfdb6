package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui/internal/cli"
	"github.com/aretw0/sapgui/internal/presentation/tui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the open sessions of the first connection",
	Long: `Connects to SAP GUI, reads the Info object of every session of the first
connection and prints them. With --save the inventory is also stored as a
snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		format, _ := cmd.Flags().GetString("format")
		save, _ := cmd.Flags().GetBool("save")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		snap, err := rt.Client.Sessions(sigCtx)
		if save && err == nil {
			snap, err = rt.Client.Snapshot(sigCtx)
		}
		if err != nil {
			return err
		}

		var render cli.Renderer
		if format == cli.FormatMD && cmd.OutOrStdout() == os.Stdout && tui.IsTerminal(os.Stdout) {
			render = tui.NewRenderer()
		}
		if err := cli.WriteSnapshot(cmd.OutOrStdout(), snap, format, render); err != nil {
			return err
		}
		if save {
			tui.Success(cmd.ErrOrStderr(), "Saved snapshot %s", snap.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text, json, md or mermaid")
	sessionsCmd.Flags().Bool("save", false, "Store the inventory as a snapshot")
}
