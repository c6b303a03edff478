package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arl/navgo/buildlog"
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/meshbuild"
)

var buildCfgVal, buildSceneVal string

// buildCmd represents the build command.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "build a navmesh graph from a scene file and report on it",
	Long: `Build a navigation mesh graph from tile records in a scene JSON
file. Build is controlled by the build-time settings in --config, if
given, otherwise the defaults. Prints tile/polygon/link counts and any
warnings raised while fusing or linking tiles; this is a smoke-test and
inspection tool, not a persistence step, since maps are rebuilt
on demand by the registry.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings := config.DefaultBuildSettings()
		if buildCfgVal != "" {
			s, err := config.Load(buildCfgVal)
			check(err)
			settings = s.Build
		}

		records, err := loadScene(buildSceneVal)
		check(err)

		log := buildlog.New()
		m, err := meshbuild.Build(records, &settings, log)
		check(err)

		fmt.Printf("tiles: %d (%dx%d grid)\n", len(m.Tiles()), m.TileCols, m.TileRows)
		fmt.Printf("polygons: %d\n", len(m.AllPolys()))
		fmt.Printf("links: %d\n", len(m.Links()))
		for _, msg := range log.Messages() {
			fmt.Println(msg.Text)
		}
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildCfgVal, "config", "", "settings file (defaults applied if omitted)")
	buildCmd.Flags().StringVar(&buildSceneVal, "scene", "", "scene JSON file (required)")
	buildCmd.MarkFlagRequired("scene")
}
