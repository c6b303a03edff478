package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arl/navgo/config"
	"github.com/arl/navgo/meshbuild"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/planner"
	"github.com/arl/navgo/registry"
)

var (
	queryCfgVal     string
	querySceneVal   string
	queryOpVal      string
	queryFromVal    string
	queryToVal      string
	queryPlayersVal []string
	queryFriendsVal []string
	queryFoesVal    []string
)

// queryCmd represents the query command.
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "issue a planner query against a scene",
	Long: `Build the navmesh graph for a scene file and issue one of the
planner's operations against it: path, pathnear, canwalk, iswalkable,
around, heatmaps, pathlocal or pathheatmap. Prints the response as
JSON, including the microsecond timing the four path operations
report.`,
	Run: runQuery,
}

func init() {
	RootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryCfgVal, "config", "", "settings file (defaults applied if omitted)")
	queryCmd.Flags().StringVar(&querySceneVal, "scene", "", "scene JSON file (required)")
	queryCmd.Flags().StringVar(&queryOpVal, "op", "path", "path|pathnear|canwalk|iswalkable|around|heatmaps|pathlocal|pathheatmap")
	queryCmd.Flags().StringVar(&queryFromVal, "from", "", "\"x,y\" (required)")
	queryCmd.Flags().StringVar(&queryToVal, "to", "", "\"x,y\" (required by every op but iswalkable/around/heatmaps)")
	queryCmd.Flags().StringArrayVar(&queryPlayersVal, "player", nil, "\"x,y\" obstacle box center, repeatable")
	queryCmd.Flags().StringArrayVar(&queryFriendsVal, "friend", nil, "\"x,y,radius,weight\" heat source, repeatable")
	queryCmd.Flags().StringArrayVar(&queryFoesVal, "foe", nil, "\"x,y,radius,weight\" heat source, repeatable")
	queryCmd.MarkFlagRequired("scene")
}

func mustPoint(flag, s string) navmesh.Point {
	x, y, err := parseXY(s)
	if err != nil {
		check(fmt.Errorf("--%s: %w", flag, err))
	}
	return navmesh.Point{X: x, Y: y}
}

func parsePlayers(raw []string) []planner.PlayerBox {
	out := make([]planner.PlayerBox, 0, len(raw))
	for _, s := range raw {
		p := mustPoint("player", s)
		out = append(out, planner.PlayerBox{X: p.X, Y: p.Y})
	}
	return out
}

func parseAgents(raw []string) []planner.Agent {
	out := make([]planner.Agent, 0, len(raw))
	for _, s := range raw {
		var x, y float64
		var radius, weight float64
		n, err := fmt.Sscanf(s, "%f,%f,%f,%f", &x, &y, &radius, &weight)
		if n != 4 || err != nil {
			check(fmt.Errorf("agent %q: want \"x,y,radius,weight\": %w", s, err))
		}
		out = append(out, planner.Agent{X: int32(x), Y: int32(y), Radius: radius, Weight: int64(weight)})
	}
	return out
}

func runQuery(cmd *cobra.Command, args []string) {
	settings := config.DefaultSettings()
	if queryCfgVal != "" {
		s, err := config.Load(queryCfgVal)
		check(err)
		settings = s
	}

	records, err := loadScene(querySceneVal)
	check(err)

	reg := registry.New(settings.Build)
	const mapID = 1
	reg.Register(mapID, func() ([]meshbuild.TileRecord, error) { return records, nil })

	p := planner.New(reg, settings.Planner)

	from := mustPoint("from", queryFromVal)
	var to navmesh.Point
	if queryToVal != "" {
		to = mustPoint("to", queryToVal)
	}

	out := queryResult{}
	switch queryOpVal {
	case "path":
		out.fromResponse(p.Path(mapID, from, to))
	case "pathnear":
		out.fromResponse(p.PathNear(mapID, from, to))
	case "canwalk":
		ok, err := p.CanWalkDirect(mapID, from, to)
		out.CanWalk = &ok
		out.setErr(err)
	case "iswalkable":
		ok, err := p.IsWalkable(mapID, from)
		out.Walkable = &ok
		out.setErr(err)
	case "around":
		tris, err := p.AroundBoxes(mapID, from, parsePlayers(queryPlayersVal))
		out.Triangles = tris
		out.setErr(err)
	case "heatmaps":
		tris, err := p.HeatMaps(mapID, from, parseAgents(queryFriendsVal), parseAgents(queryFoesVal))
		out.Triangles = tris
		out.setErr(err)
	case "pathlocal":
		out.fromResponse(p.PathLocal(mapID, from, to, parsePlayers(queryPlayersVal)))
	case "pathheatmap":
		out.fromResponse(p.PathHeatmap(mapID, from, to, parseAgents(queryFriendsVal), parseAgents(queryFoesVal)))
	default:
		check(fmt.Errorf("unknown --op %q", queryOpVal))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	check(enc.Encode(out))
}

// queryResult flattens every planner operation's result shape into one
// JSON-friendly struct; errors are rendered as their message string
// since error values don't marshal on their own.
type queryResult struct {
	Micros      int64                      `json:"micros,omitempty"`
	Path        []planner.Point3           `json:"path,omitempty"`
	Triangles   []planner.WeightedTriangle `json:"triangles,omitempty"`
	SamePolygon bool                       `json:"same_polygon,omitempty"`
	CanWalk     *bool                      `json:"can_walk,omitempty"`
	Walkable    *bool                      `json:"walkable,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

func (q *queryResult) fromResponse(r planner.Response) {
	q.Micros = r.Micros
	q.Path = r.Path
	q.Triangles = r.Triangles
	q.SamePolygon = r.SamePolygon
	q.setErr(r.Err)
}

func (q *queryResult) setErr(err error) {
	if err != nil {
		q.Error = err.Error()
	}
}
