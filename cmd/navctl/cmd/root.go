package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "navctl",
	Short: "build and query navigation meshes",
	Long: `navctl is the command-line companion to navgo:
	- build a navmesh graph from tile records (JSON),
	- inspect the resulting map (tile/polygon/link counts),
	- issue planner queries against it (static path, local replan, heatmaps),
	- emit a settings file prefilled with defaults.`,
}

// Execute adds all child commands to RootCmd and runs it. Called once
// by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
