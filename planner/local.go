package planner

import (
	"fmt"
	"math"

	assert "github.com/aurelien-rainone/assertgo"
	"github.com/katalvlaran/lvlath/core"

	"github.com/arl/navgo/astar"
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/funnel"
	"github.com/arl/navgo/geom"
	"github.com/arl/navgo/heatmap"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/polyalg"
)

// localTri is one local-replan triangle: its mesh data plus the
// signed heat weight it carries (zero outside heat mode).
type localTri struct {
	tri    navmesh.PrePoly
	weight int64
}

// punchObstacles punches a hole for every player within PlayerBoxRange
// of center: a PlayerBoxHalfSide*2 square, subtracted from every
// working polygon via polyalg.Difference.
func punchObstacles(layout []polyalg.Polygon, players []PlayerBox, center navmesh.Point, settings config.PlannerSettings) []polyalg.Polygon {
	var holes []polyalg.Polygon
	for _, pl := range players {
		if geom.DistSq(pl.point().ToGeom(), center.ToGeom()) > settings.PlayerBoxRange*settings.PlayerBoxRange {
			continue
		}
		r := settings.PlayerBoxHalfSide
		holes = append(holes, polyalg.NewRect(float64(pl.X)-r, float64(pl.Y)-r, float64(pl.X)+r, float64(pl.Y)+r))
	}
	out := layout
	for _, hole := range holes {
		var next []polyalg.Polygon
		for _, poly := range out {
			next = append(next, polyalg.Difference(poly, hole)...)
		}
		out = next
	}
	return out
}

// applyHeat turns friend/foe agents within HeatAgentRange of center
// into signed-weight squares, composited and overlaid onto the
// working layout. Every friend contributes +1, every foe -1: the sign
// is fixed by which slice an agent arrived in; Agent.Weight is not
// read.
func applyHeat(layout []polyalg.Polygon, friends, foes []Agent, center navmesh.Point, settings config.PlannerSettings) []heatmap.Weighted {
	var regions []heatmap.Region
	add := func(agents []Agent, sign int64) {
		for _, a := range agents {
			if geom.DistSq(a.point().ToGeom(), center.ToGeom()) > settings.HeatAgentRange*settings.HeatAgentRange {
				continue
			}
			regions = append(regions, heatmap.Square(float64(a.X), float64(a.Y), a.Radius, sign))
		}
	}
	add(friends, 1)
	add(foes, -1)
	return heatmap.Overlay(layout, regions)
}

// triangulateLocal retriangulates every working polygon and assigns it
// a fresh, locally-scoped id; Z is recovered from the rebuilt pos->Z
// side-map or 0 if unknown.
func triangulateLocal(pieces []polyalg.Polygon, weights []int64, posToZ map[navmesh.Point]float64) []localTri {
	var out []localTri
	var nextID uint64
	for i, poly := range pieces {
		ext := ringToPoints(poly.Exterior)
		var holes [][]geom.Point
		for _, h := range poly.Holes {
			holes = append(holes, ringToPoints(h))
		}
		tris := geom.Triangulate(ext, holes)
		if len(tris) == 0 {
			continue
		}
		allVerts := append([]geom.Point{}, ext...)
		for _, h := range holes {
			allVerts = append(allVerts, h...)
		}
		w := int64(0)
		if weights != nil {
			w = weights[i]
		}
		for _, tr := range tris {
			var verts [3]navmesh.Vertex
			for k, idx := range tr {
				p := allVerts[idx]
				x, y := int32(p.X), int32(p.Y)
				z := posToZ[navmesh.Point{X: x, Y: y}]
				verts[k] = navmesh.Vertex{X: x, Y: y, Z: z}
			}
			nextID++
			out = append(out, localTri{
				tri: navmesh.PrePoly{
					ID:       nextID,
					Verts:    verts,
					Centroid: navmesh.ComputeCentroid(verts),
				},
				weight: w,
			})
		}
	}
	return out
}

// buildLocalGraph enumerates shared edges over a flat local triangle
// set (no tile grid: every pair is compared, which is fine at the
// neighborhood's scale). In obstacle mode weight uses the
// narrow-gap penalty table; in heat mode it uses a signed-weight
// multiplier instead.
func buildLocalGraph(tris []localTri, heat bool, settings config.PlannerSettings) (*core.Graph, map[[2]uint64]navmesh.Portal) {
	g := core.NewGraph(core.WithWeighted())
	portals := make(map[[2]uint64]navmesh.Portal)
	for _, lt := range tris {
		_ = g.AddVertex(navmesh.VertexID(lt.tri.ID))
	}
	for i := 0; i < len(tris); i++ {
		p := tris[i].tri
		pEdges := triEdges(p)
		for j := i + 1; j < len(tris); j++ {
			q := tris[j].tri
			qEdges := triEdges(q)
			portal, length, ok := firstOverlap(pEdges, qEdges)
			if !ok || length <= 0 {
				continue
			}
			d := geom.Dist(p.Centroid.ToGeom(), q.Centroid.ToGeom())
			var mult float64
			if heat {
				delta := float64(tris[i].weight + tris[j].weight)
				mult = math.Pow(settings.HeatMultiplierBase, -delta)
			} else {
				mult = config.PortalMultiplier(settings.LocalPortalBrackets, length)
			}
			weight := int64(math.Round(d * mult))
			if weight < 1 {
				weight = 1
			}
			if _, err := g.AddEdge(navmesh.VertexID(p.ID), navmesh.VertexID(q.ID), weight); err == nil {
				portals[[2]uint64{p.ID, q.ID}] = navmesh.Portal{
					A: navmesh.Point{X: int32(portal.A.X), Y: int32(portal.A.Y)},
					B: navmesh.Point{X: int32(portal.B.X), Y: int32(portal.B.Y)},
				}
			}
		}
	}
	return g, portals
}

func triEdges(p navmesh.PrePoly) []geom.Segment {
	a, b, c := p.Verts[0].XY().ToGeom(), p.Verts[1].XY().ToGeom(), p.Verts[2].XY().ToGeom()
	return []geom.Segment{{A: a, B: b}, {A: b, B: c}, {A: c, B: a}}
}

func firstOverlap(pEdges, qEdges []geom.Segment) (geom.Segment, float64, bool) {
	for _, pe := range pEdges {
		for _, qe := range qEdges {
			if ov, ok := geom.SegmentsOverlap(pe.A, pe.B, qe.A, qe.B); ok {
				return ov, geom.Dist(ov.A, ov.B), true
			}
		}
	}
	return geom.Segment{}, 0, false
}

func localByID(tris []localTri) map[uint64]*navmesh.PrePoly {
	out := make(map[uint64]*navmesh.PrePoly, len(tris))
	for i := range tris {
		out[tris[i].tri.ID] = &tris[i].tri
	}
	return out
}

func localPrePolys(tris []localTri) []*navmesh.PrePoly {
	out := make([]*navmesh.PrePoly, len(tris))
	for i := range tris {
		out[i] = &tris[i].tri
	}
	return out
}

// localSearch runs A* over a local graph from the triangle containing
// src to the triangle containing dst and returns the smoothed polyline
// between them.
func localSearch(g *core.Graph, portals map[[2]uint64]navmesh.Portal, tris []localTri, src, dst navmesh.Point, settings config.PlannerSettings) ([]Point3, error) {
	all := localPrePolys(tris)
	srcTri := navmesh.PolyContaining(float64(src.X), float64(src.Y), all)
	dstTri := navmesh.PolyContaining(float64(dst.X), float64(dst.Y), all)
	if srcTri == nil || dstTri == nil {
		return nil, ErrDegenerate
	}
	if srcTri.ID == dstTri.ID {
		z := srcTri.ZAt(float64(dst.X), float64(dst.Y))
		return []Point3{point3From(dst, z)}, nil
	}

	targetCentroid := dstTri.Centroid.ToGeom()
	byID := localByID(tris)
	h := func(id string) int64 {
		pid, err := navmesh.PolyIDFromVertex(id)
		if err != nil {
			return 0
		}
		p, ok := byID[pid]
		if !ok {
			return 0
		}
		return int64(math.Round(geom.Dist(p.Centroid.ToGeom(), targetCentroid)))
	}

	vids, err := astar.Search(g, navmesh.VertexID(srcTri.ID), navmesh.VertexID(dstTri.ID), h)
	if err != nil {
		return nil, ErrUnreachable
	}

	polys := make([]*navmesh.PrePoly, len(vids))
	for i, vid := range vids {
		pid, err := navmesh.PolyIDFromVertex(vid)
		if err != nil {
			return nil, ErrUnreachable
		}
		p, ok := byID[pid]
		if !ok {
			return nil, ErrUnreachable
		}
		polys[i] = p
	}

	fp := make([]funnel.Portal, 0, len(polys)-1)
	for i := 0; i < len(polys)-1; i++ {
		key := [2]uint64{polys[i].ID, polys[i+1].ID}
		if polys[i].ID > polys[i+1].ID {
			key = [2]uint64{polys[i+1].ID, polys[i].ID}
		}
		portal, ok := portals[key]
		if !ok {
			return nil, ErrUnreachable
		}
		fp = append(fp, funnel.Portal{A: portal.A.ToGeom(), B: portal.B.ToGeom()})
	}

	corridor := Corridor{Polys: polys, Portals: fp}
	return smoothCorridor(corridor, src, dst, settings), nil
}

// spliceVertex finds the first vertex on the smoothed global path
// (skipping the source itself) at or beyond
// SpliceAdvanceDist units from the source, or the final goal if none
// qualifies. It returns the splice index into globalPath and the vertex
// at that index; the caller appends the suffix strictly after the
// index to the local segment.
func spliceVertex(globalPath []Point3, src navmesh.Point, settings config.PlannerSettings) (int, Point3) {
	assert.True(len(globalPath) > 0, "splice requires a non-empty global path")
	srcG := src.ToGeom()
	for i := 1; i < len(globalPath); i++ {
		p := globalPath[i]
		d := geom.Dist(srcG, geom.Point{X: float64(p.X), Y: float64(p.Y)})
		if d >= settings.SpliceAdvanceDist {
			return i, p
		}
	}
	last := len(globalPath) - 1
	return last, globalPath[last]
}

func point3ToNavmesh(p Point3) navmesh.Point { return navmesh.Point{X: p.X, Y: p.Y} }

// dropLeadingSource removes path[0] if it coincides (in XY) with src:
// removing it avoids a duplicate leading point once the local segment
// is stitched onto the global one.
func dropLeadingSource(path []Point3, src navmesh.Point) []Point3 {
	if len(path) == 0 {
		return path
	}
	if path[0].X == src.X && path[0].Y == src.Y {
		return path[1:]
	}
	return path
}

// errDegenerateNeighborhood is returned when a neighborhood
// retriangulates to zero triangles.
func errDegenerateNeighborhood(radius float64) error {
	return fmt.Errorf("%w: neighborhood within %.0f units retriangulated to no triangles", ErrDegenerate, radius)
}
