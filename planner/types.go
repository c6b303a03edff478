// Package planner implements the online planning half of the module:
// the static A* planner and funnel smoother, the local replanner
// backed by the heat-map compositor, and the eight-operation
// dispatcher exposed to the host. It plays the role detour/query.go's
// DtNavMeshQuery plays for Detour's runtime mesh queries, reshaped
// around this module's simpler triangle-graph-plus-funnel pipeline
// instead of Detour's tiled polygon refs and raycast-based local
// boundary.
package planner

import (
	"errors"

	"github.com/arl/navgo/navmesh"
)

// Point3 is an integer XY with its recovered float Z, the shape every
// path operation emits.
type Point3 struct {
	X, Y int32
	Z    float64
}

func point3From(p navmesh.Point, z float64) Point3 {
	return Point3{X: p.X, Y: p.Y, Z: z}
}

// PlayerBox is one obstacle-inducing agent position for path_local /
// around_boxes: a square hole is punched centered on it.
type PlayerBox struct {
	X, Y int32
	Z    float64
}

func (b PlayerBox) point() navmesh.Point { return navmesh.Point{X: b.X, Y: b.Y} }

// Agent is one friend/foe position for heat_maps / path_heatmap. The
// planner does not read Weight: an agent's heat region is +1 when it is
// passed among the friends and -1 when it is passed among the foes.
type Agent struct {
	X, Y   int32
	Z      float64
	Radius float64
	Weight int64
}

func (a Agent) point() navmesh.Point { return navmesh.Point{X: a.X, Y: a.Y} }

// WeightedTriangle is one local/heat-neighborhood triangle alongside
// the signed weight it carries, the shape around_boxes and heat_maps
// return.
type WeightedTriangle struct {
	Tri    navmesh.PrePoly
	Weight int64
}

// Sentinel errors returned by the planner's operations. Same-polygon
// is deliberately NOT among these: it is a distinguished successful
// outcome (an empty path), never an error.
var (
	// ErrMapUnknown is returned when the requested map id has no
	// registered tile source; the planner never falls back to a
	// sibling map.
	ErrMapUnknown = errors.New("planner: unknown map")
	// ErrUnreachable is returned when A* exhausts its open list
	// without reaching the goal.
	ErrUnreachable = errors.New("planner: goal unreachable")
	// ErrDegenerate is returned when a request's neighborhood
	// retriangulates to zero triangles.
	ErrDegenerate = errors.New("planner: degenerate geometry")
)
