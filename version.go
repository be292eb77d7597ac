//go:build !tinygo

package main

import (
	"fmt"

	"barface/internal/buildinfo"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "barface %s\n", buildinfo.Long())
	},
}
