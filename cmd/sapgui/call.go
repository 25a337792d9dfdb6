package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui/internal/cli"
)

func newCallCmd(op, use, short string, minArgs int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(minArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer closeRuntime(rt)

			target, _ := cmd.Flags().GetString("id")
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()

			result, err := cli.RunCall(sigCtx, rt.Client, cli.CallRequest{
				Op:     op,
				Target: target,
				Name:   args[0],
				Args:   args[1:],
			})
			if err != nil {
				return err
			}
			if op == cli.OpSet {
				return nil
			}

			out, err := json.Marshal(result)
			if err != nil {
				out = []byte(fmt.Sprint(result))
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().String("id", "", "Element ID resolved with findById, e.g. wnd[0]/tbar[0]/okcd")
	return cmd
}

var (
	getCmd    = newCallCmd(cli.OpGet, "get <property> [args...]", "Read a property of the current session or one of its elements", 1)
	setCmd    = newCallCmd(cli.OpSet, "set <property> <value>", "Write a property of the current session or one of its elements", 2)
	invokeCmd = newCallCmd(cli.OpInvoke, "invoke <method> [args...]", "Call a method on the current session or one of its elements", 1)
)

func init() {
	rootCmd.AddCommand(getCmd, setCmd, invokeCmd)
}
