package planner

import (
	"math"

	"github.com/arl/navgo/astar"
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/funnel"
	"github.com/arl/navgo/geom"
	"github.com/arl/navgo/navmesh"
)

// Corridor is the sequence of polygons an A* search crossed, start to
// goal inclusive.
type Corridor struct {
	Polys   []*navmesh.PrePoly
	Portals []funnel.Portal
}

// staticCorridor runs A* over m's static graph between the polygons
// containing from and to. samePolygon is a distinguished sentinel, not
// an error, returned when both points bind to the same polygon.
func staticCorridor(m *navmesh.Map, from, to navmesh.Point, settings config.PlannerSettings) (Corridor, bool, error) {
	fromPoly := navmesh.FindClosestNode(m, float64(from.X), float64(from.Y), settings.ClosestNodeRadius2)
	toPoly := navmesh.FindClosestNode(m, float64(to.X), float64(to.Y), settings.ClosestNodeRadius2)
	if fromPoly == nil || toPoly == nil {
		return Corridor{}, false, ErrUnreachable
	}
	if fromPoly.ID == toPoly.ID {
		return Corridor{Polys: []*navmesh.PrePoly{fromPoly}}, true, nil
	}

	targetCentroid := toPoly.Centroid.ToGeom()
	h := func(id string) int64 {
		pid, err := navmesh.PolyIDFromVertex(id)
		if err != nil {
			return 0
		}
		poly := m.Poly(pid)
		if poly == nil {
			return 0
		}
		return int64(math.Round(geom.Dist(poly.Centroid.ToGeom(), targetCentroid)))
	}

	vids, err := astar.Search(m.Graph, navmesh.VertexID(fromPoly.ID), navmesh.VertexID(toPoly.ID), h)
	if err != nil {
		return Corridor{}, false, ErrUnreachable
	}

	polys := make([]*navmesh.PrePoly, len(vids))
	for i, vid := range vids {
		pid, err := navmesh.PolyIDFromVertex(vid)
		if err != nil {
			return Corridor{}, false, ErrUnreachable
		}
		polys[i] = m.Poly(pid)
	}

	portals := make([]funnel.Portal, 0, len(polys)-1)
	for i := 0; i < len(polys)-1; i++ {
		link, ok := m.LinkBetween(polys[i].ID, polys[i+1].ID)
		if !ok {
			return Corridor{}, false, ErrUnreachable
		}
		portals = append(portals, funnel.Portal{A: link.Portal.A.ToGeom(), B: link.Portal.B.ToGeom()})
	}

	return Corridor{Polys: polys, Portals: portals}, false, nil
}

// smoothCorridor runs the funnel smoother over c and recovers Z at
// every emitted vertex by plane interpolation over whichever corridor
// triangle contains that vertex, falling back to the nearest one.
func smoothCorridor(c Corridor, from, to navmesh.Point, settings config.PlannerSettings) []Point3 {
	if len(c.Polys) == 0 {
		return nil
	}
	pts := funnel.Smooth(c.Portals, from.ToGeom(), to.ToGeom(), settings)
	out := make([]Point3, len(pts))
	last := len(pts) - 1
	for i, p := range pts {
		var z float64
		switch i {
		case 0:
			z = c.Polys[0].ZAt(p.X, p.Y)
		case last:
			z = c.Polys[len(c.Polys)-1].ZAt(p.X, p.Y)
		default:
			z = navmesh.PolyContaining(p.X, p.Y, c.Polys).ZAt(p.X, p.Y)
		}
		out[i] = Point3{X: int32(math.Round(p.X)), Y: int32(math.Round(p.Y)), Z: z}
	}
	return out
}

// StaticPath implements the `path` operation: A* over the static graph
// followed by the funnel smoother. samePolygon is the distinguished
// "same polygon" sentinel.
func StaticPath(m *navmesh.Map, from, to navmesh.Point, settings config.PlannerSettings) ([]Point3, bool, error) {
	corridor, same, err := staticCorridor(m, from, to, settings)
	if err != nil {
		return nil, false, err
	}
	if same {
		// start==goal returns an empty path; callers treat same as the
		// same-polygon sentinel.
		return nil, true, nil
	}
	return smoothCorridor(corridor, from, to, settings), false, nil
}
