package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ragso"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ragso",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ragso version %s\n", strings.TrimSpace(ragso.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
