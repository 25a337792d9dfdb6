package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui/internal/cli"
)

var transactionCmd = &cobra.Command{
	Use:     "transaction",
	Aliases: []string{"tx"},
	Short:   "Print the transaction code of the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, _, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer closeRuntime(rt)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		tx, err := rt.Client.Transaction(sigCtx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tx)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transactionCmd)
}
