package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/navgo/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:   "config [FILE]",
	Short: "create a build/planner settings file",
	Long: `Create a settings file in YAML format, prefilled with default values
for both the build-time tuning (tile pitch, static portal brackets) and
the per-request planner tuning (funnel shrink distances, local replan
neighborhood radii, heat multipliers).

If FILE is not provided, 'navctl.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "navctl.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path, fmt.Sprintf("file %s already exists, overwrite? [y/N]", path))
		if !ok {
			if err == nil {
				fmt.Println("aborted by user")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}
		check(config.Save(path, config.DefaultSettings()))
		fmt.Printf("settings written to %q\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
