package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sapgui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sapgui",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sapgui version %s\n", sapgui.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
