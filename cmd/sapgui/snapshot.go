package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui/internal/presentation/tui"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored session snapshots",
	Long:  `List, inspect, and remove snapshots saved with "sessions --save", the HTTP API or the MCP tools.`,
}

var snapshotLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		ids, err := rt.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing snapshots: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No snapshots found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

var snapshotInspectCmd = &cobra.Command{
	Use:   "inspect <snapshot-id>",
	Short: "Print a stored snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		snap, err := rt.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading snapshot '%s': %w", args[0], err)
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var snapshotRmCmd = &cobra.Command{
	Use:   "rm <snapshot-id>...",
	Short: "Remove one or more snapshots",
	Args: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return errors.New("requires at least 1 snapshot id, or --all")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = rt.Store.List(cmd.Context()); err != nil {
				return fmt.Errorf("error listing snapshots: %w", err)
			}
		}

		var errs []error
		for _, id := range args {
			if err := rt.Store.Delete(cmd.Context(), id); err != nil {
				tui.Failure(cmd.ErrOrStderr(), "Error removing '%s': %v", id, err)
				errs = append(errs, err)
				continue
			}
			tui.Success(cmd.OutOrStdout(), "Removed snapshot '%s'", id)
		}
		if len(errs) > 0 {
			return fmt.Errorf("failed to remove %d snapshot(s)", len(errs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotLsCmd)
	snapshotCmd.AddCommand(snapshotInspectCmd)
	snapshotCmd.AddCommand(snapshotRmCmd)
	snapshotRmCmd.Flags().Bool("all", false, "Remove every stored snapshot")
}
