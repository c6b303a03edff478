package planner

import (
	"time"

	"github.com/arl/navgo/config"
	"github.com/arl/navgo/geom"
	"github.com/arl/navgo/heatmap"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/polyalg"
)

// MapProvider resolves a map id to its built, immutable navmesh.Map;
// registry.Registry satisfies this.
type MapProvider interface {
	Get(mapID int) (*navmesh.Map, error)
}

// Planner is the single dispatcher exposing the host binding's eight
// operations. The four path operations (Path, PathNear, PathLocal,
// PathHeatmap) return a Response carrying their own wall time in
// microseconds; CanWalkDirect, IsWalkable, AroundBoxes and HeatMaps
// are not timed.
type Planner struct {
	maps     MapProvider
	settings config.PlannerSettings
}

// New returns a Planner reading maps from provider and using settings
// for every per-request tunable.
func New(provider MapProvider, settings config.PlannerSettings) *Planner {
	return &Planner{maps: provider, settings: settings}
}

// Response is the tagged result every dispatcher operation returns:
// Err set means a MapUnknown/Unreachable/Degenerate error outcome;
// SamePolygon true with Err nil is the distinguished sentinel (never
// an error); otherwise Path/Triangles carries the successful result.
type Response struct {
	Micros      int64
	Path        []Point3
	Triangles   []WeightedTriangle
	SamePolygon bool
	Err         error
}

func timed(fn func() Response) Response {
	start := time.Now()
	resp := fn()
	resp.Micros = time.Since(start).Microseconds()
	return resp
}

// Path implements the `path` operation: always the static planner
// followed by the funnel smoother. Unlike PathNear it never takes the
// direct-walk short-circuit.
func (p *Planner) Path(mapID int, from, to navmesh.Point) Response {
	return timed(func() Response {
		m, err := p.maps.Get(mapID)
		if err != nil {
			return Response{Err: err}
		}
		path, same, err := StaticPath(m, from, to, p.settings)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Path: path, SamePolygon: same}
	})
}

// PathNear implements `path_near`: identical to Path, except it first
// tries a direct-walk short-circuit when from and to are close enough
// and the straight segment between them is clear, returning just [to].
func (p *Planner) PathNear(mapID int, from, to navmesh.Point) Response {
	return timed(func() Response {
		m, err := p.maps.Get(mapID)
		if err != nil {
			return Response{Err: err}
		}
		if geom.Dist(from.ToGeom(), to.ToGeom()) < p.settings.DirectWalkMaxDist {
			layout, _ := neighborhoodLayout(m, from, p.settings.LocalNeighborhoodRadius)
			if canWalkDirect(layout, from, to) {
				nearest := navmesh.FindClosestNode(m, float64(to.X), float64(to.Y), p.settings.ClosestNodeRadius2)
				if nearest != nil {
					return Response{Path: []Point3{point3From(to, nearest.ZAt(float64(to.X), float64(to.Y)))}}
				}
			}
		}
		path, same, err := StaticPath(m, from, to, p.settings)
		if err != nil {
			return Response{Err: err}
		}
		return Response{Path: path, SamePolygon: same}
	})
}

// CanWalkDirect implements the `can_walk_direct` operation.
func (p *Planner) CanWalkDirect(mapID int, from, to navmesh.Point) (bool, error) {
	m, err := p.maps.Get(mapID)
	if err != nil {
		return false, err
	}
	return CanWalkDirect(m, from, to, p.settings.LocalNeighborhoodRadius), nil
}

// IsWalkable implements the `is_walkable` operation: point-in-polygon
// of the closest polygon.
func (p *Planner) IsWalkable(mapID int, at navmesh.Point) (bool, error) {
	m, err := p.maps.Get(mapID)
	if err != nil {
		return false, err
	}
	poly := navmesh.FindClosestNode(m, float64(at.X), float64(at.Y), p.settings.ClosestNodeRadius2)
	if poly == nil {
		return false, nil
	}
	res := geom.PointInPolygon(float64(at.X), float64(at.Y), poly.GeomRing(), nil)
	return res != geom.Outside, nil
}

// AroundBoxes implements `around_boxes`: the retriangulated
// obstacle-perforated neighborhood around from, with no search
// performed, exactly the layout path_local plans over.
func (p *Planner) AroundBoxes(mapID int, from navmesh.Point, players []PlayerBox) ([]WeightedTriangle, error) {
	m, err := p.maps.Get(mapID)
	if err != nil {
		return nil, err
	}
	layout, posToZ := neighborhoodLayout(m, from, p.settings.LocalNeighborhoodRadius)
	punched := punchObstacles(layout, players, from, p.settings)
	tris := triangulateLocal(punched, nil, posToZ)
	if len(tris) == 0 {
		return nil, errDegenerateNeighborhood(p.settings.LocalNeighborhoodRadius)
	}
	return toWeightedTriangles(tris), nil
}

// HeatMaps implements `heat_maps`: the heat-composited neighborhood
// around from, exactly the layout path_heatmap plans over.
func (p *Planner) HeatMaps(mapID int, from navmesh.Point, friends, foes []Agent) ([]WeightedTriangle, error) {
	m, err := p.maps.Get(mapID)
	if err != nil {
		return nil, err
	}
	layout, posToZ := neighborhoodLayout(m, from, p.settings.HeatNeighborhoodRadius)
	polys, weights := splitWeighted(applyHeat(layout, friends, foes, from, p.settings))
	tris := triangulateLocal(polys, weights, posToZ)
	if len(tris) == 0 {
		return nil, errDegenerateNeighborhood(p.settings.HeatNeighborhoodRadius)
	}
	return toWeightedTriangles(tris), nil
}

func splitWeighted(weighted []heatmap.Weighted) ([]polyalg.Polygon, []int64) {
	polys := make([]polyalg.Polygon, len(weighted))
	weights := make([]int64, len(weighted))
	for i, w := range weighted {
		polys[i] = w.Poly
		weights[i] = w.Weight
	}
	return polys, weights
}

func toWeightedTriangles(tris []localTri) []WeightedTriangle {
	out := make([]WeightedTriangle, len(tris))
	for i, t := range tris {
		out[i] = WeightedTriangle{Tri: t.tri, Weight: t.weight}
	}
	return out
}

// PathLocal implements `path_local`: obstacles become square holes;
// the local plan splices onto the tail of the static plan. Local
// failure surfaces as an error rather than silently falling back to
// the unobstructed global path.
func (p *Planner) PathLocal(mapID int, from, to navmesh.Point, players []PlayerBox) Response {
	return timed(func() Response {
		m, err := p.maps.Get(mapID)
		if err != nil {
			return Response{Err: err}
		}
		return p.localPlan(m, from, to, false, func(layout []polyalg.Polygon) ([]polyalg.Polygon, []int64) {
			return punchObstacles(layout, players, from, p.settings), nil
		})
	})
}

// PathHeatmap implements `path_heatmap`: like PathLocal, but the
// local graph is reweighted by signed friend/foe heat rather than
// narrow-gap penalties.
func (p *Planner) PathHeatmap(mapID int, from, to navmesh.Point, friends, foes []Agent) Response {
	return timed(func() Response {
		m, err := p.maps.Get(mapID)
		if err != nil {
			return Response{Err: err}
		}
		return p.localPlan(m, from, to, true, func(layout []polyalg.Polygon) ([]polyalg.Polygon, []int64) {
			return splitWeighted(applyHeat(layout, friends, foes, from, p.settings))
		})
	})
}

// localPlan implements the shared shape of path_local/path_heatmap:
// run the static planner first, find the splice vertex
// SpliceAdvanceDist units along it, retriangulate the transformed
// neighborhood, locally A*-search from the source to the splice point,
// and append the remainder of the global path. When from and to are
// closer than DirectWalkMaxDist and the straight segment crosses no
// edge of the transformed neighborhood, it returns just [to] instead.
func (p *Planner) localPlan(m *navmesh.Map, from, to navmesh.Point, heat bool, transform func([]polyalg.Polygon) ([]polyalg.Polygon, []int64)) Response {
	globalPath, same, err := StaticPath(m, from, to, p.settings)
	if err != nil {
		return Response{Err: err}
	}
	if same || len(globalPath) == 0 {
		return Response{SamePolygon: true}
	}

	radius := p.settings.LocalNeighborhoodRadius
	if heat {
		radius = p.settings.HeatNeighborhoodRadius
	}
	layout, posToZ := neighborhoodLayout(m, from, radius)
	polys, weights := transform(layout)
	if geom.Dist(from.ToGeom(), to.ToGeom()) < p.settings.DirectWalkMaxDist && canWalkDirect(polys, from, to) {
		if nearest := navmesh.FindClosestNode(m, float64(to.X), float64(to.Y), p.settings.ClosestNodeRadius2); nearest != nil {
			return Response{Path: []Point3{point3From(to, nearest.ZAt(float64(to.X), float64(to.Y)))}}
		}
	}
	tris := triangulateLocal(polys, weights, posToZ)
	if len(tris) == 0 {
		return Response{Err: errDegenerateNeighborhood(radius)}
	}

	spliceIdx, splicePt := spliceVertex(globalPath, from, p.settings)
	g, portals := buildLocalGraph(tris, heat, p.settings)
	localPath, err := localSearch(g, portals, tris, from, point3ToNavmesh(splicePt), p.settings)
	if err != nil {
		return Response{Err: err}
	}
	localPath = dropLeadingSource(localPath, from)

	full := make([]Point3, 0, len(localPath)+len(globalPath)-spliceIdx)
	full = append(full, localPath...)
	full = append(full, globalPath[spliceIdx+1:]...)
	return Response{Path: full}
}
