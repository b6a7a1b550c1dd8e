package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stubsift-dev/stubsift/internal/version"
)

// versionCmd implements the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stubsift",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("stubsift version %s\n", version.Banner())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
