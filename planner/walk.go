package planner

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/arl/navgo/geom"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/polyalg"
)

// neighborhoodTiles returns every tile in m whose AABB lies within
// radius of center.
func neighborhoodTiles(m *navmesh.Map, center navmesh.Point, radius float64) []*navmesh.PreTile {
	var out []*navmesh.PreTile
	for _, t := range m.Tiles() {
		if distToBounds(t.Bounds, center) <= radius {
			out = append(out, t)
		}
	}
	return out
}

func distToBounds(b navmesh.Bounds, p navmesh.Point) float64 {
	x, y := float64(p.X), float64(p.Y)
	dx := 0.0
	switch {
	case x < float64(b.MinX):
		dx = float64(b.MinX) - x
	case x > float64(b.MaxX):
		dx = x - float64(b.MaxX)
	}
	dy := 0.0
	switch {
	case y < float64(b.MinY):
		dy = float64(b.MinY) - y
	case y > float64(b.MaxY):
		dy = y - float64(b.MaxY)
	}
	return math.Hypot(dx, dy)
}

// neighborhoodLayout collects the merged outer polygons of every tile
// within radius of center, plus the pos->Z side-map rebuilt from those
// tiles' own triangle vertices. The per-tile outers are unioned into
// one layout so a shared tile-boundary edge disappears rather than
// surviving as a false interior edge for canWalkDirect to trip on.
func neighborhoodLayout(m *navmesh.Map, center navmesh.Point, radius float64) ([]polyalg.Polygon, map[navmesh.Point]float64) {
	tiles := neighborhoodTiles(m, center, radius)
	var outers []polyalg.Polygon
	posToZ := make(map[navmesh.Point]float64)
	for _, t := range tiles {
		outers = append(outers, t.FusedOuter...)
		for _, p := range t.Polys {
			for _, v := range p.Verts {
				posToZ[v.XY()] = v.Z
			}
		}
	}
	return mergeLayout(outers), posToZ
}

// mergeLayout repeatedly unions any touching or overlapping pair until
// the remaining set is pairwise disjoint, the same fixed-point loop
// meshbuild's tile fusion runs over raw input polygons.
func mergeLayout(polys []polyalg.Polygon) []polyalg.Polygon {
	for {
		merged := false
		for i := 0; i < len(polys) && !merged; i++ {
			for j := i + 1; j < len(polys); j++ {
				result := polyalg.Union(polys[i], polys[j])
				if len(result) != 1 {
					continue
				}
				next := make([]polyalg.Polygon, 0, len(polys)-1)
				next = append(next, polys[:i]...)
				next = append(next, result[0])
				next = append(next, polys[i+1:j]...)
				next = append(next, polys[j+1:]...)
				polys = next
				merged = true
				break
			}
		}
		if !merged {
			return polys
		}
	}
}

// canWalkDirect reports whether the straight segment from->to crosses
// no exterior or hole edge of layout (SegmentIntersects == Crossing is
// the only blocking relation; a shared-endpoint touch or a collinear
// overlap is not blocking).
func canWalkDirect(layout []polyalg.Polygon, from, to navmesh.Point) bool {
	a, b := from.ToGeom(), to.ToGeom()
	for _, poly := range layout {
		for _, e := range polygonEdges(poly) {
			if geom.SegmentIntersects(a, b, e.A, e.B) == geom.Crossing {
				return false
			}
		}
	}
	return true
}

func polygonEdges(p polyalg.Polygon) []geom.Segment {
	var out []geom.Segment
	addRing := func(r orb.Ring) {
		n := len(r)
		if n > 1 && r[0] == r[n-1] {
			n--
		}
		for i := 0; i < n; i++ {
			a, b := r[i], r[(i+1)%n]
			out = append(out, geom.Segment{
				A: geom.Point{X: a[0], Y: a[1]},
				B: geom.Point{X: b[0], Y: b[1]},
			})
		}
	}
	addRing(p.Exterior)
	for _, h := range p.Holes {
		addRing(h)
	}
	return out
}

// ringToPoints converts an (optionally closed) orb.Ring into an open
// geom.Point ring, the vertex list geom.Triangulate expects.
func ringToPoints(r orb.Ring) []geom.Point {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	out := make([]geom.Point, n)
	for i := 0; i < n; i++ {
		out[i] = geom.Point{X: r[i][0], Y: r[i][1]}
	}
	return out
}

// CanWalkDirect implements the `can_walk_direct` operation: true iff
// the straight segment from->to clears every boundary edge of the tile
// neighborhood around from, ignoring any obstacle or heat weighting
// (those only apply inside path_local/path_heatmap's own
// short-circuit, via canWalkDirect over their perforated layout).
func CanWalkDirect(m *navmesh.Map, from, to navmesh.Point, radius float64) bool {
	layout, _ := neighborhoodLayout(m, from, radius)
	return canWalkDirect(layout, from, to)
}
