// Package meshbuild is the offline pipeline that turns raw,
// possibly-overlapping tile records into a navmesh.Map: tile
// normalization followed by graph construction. It plays the role
// recast.Config/recast build functions play for Recast's voxel
// pipeline, reshaped around pre-triangulated 2D polygon input instead
// of a 3D mesh to rasterize.
package meshbuild

import (
	"fmt"

	assert "github.com/aurelien-rainone/assertgo"
	"github.com/paulmach/orb"

	"github.com/arl/navgo/buildlog"
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/geom"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/polyalg"
)

// RawVertex is one polygon corner as it arrives from the asset
// collaborator: integer XY with its source Z.
type RawVertex struct {
	X, Y int32
	Z    float64
}

// RawPolygon is an unprocessed simple polygon from a tile record,
// exterior ring only, arbitrary vertex count (not yet a triangle).
type RawPolygon struct {
	Verts []RawVertex
}

// TileRecord is one input tile: its AABB and the raw polygons
// reported for it, possibly overlapping or duplicated across tiles
// sharing the same origin.
type TileRecord struct {
	Bounds navmesh.Bounds
	Polys  []RawPolygon
}

// idAllocator assigns dense, monotonically increasing polygon ids,
// confined to build time.
type idAllocator struct{ next uint64 }

func (a *idAllocator) take() uint64 {
	a.next++
	return a.next
}

// Build runs the tile normalizer and the graph builder over records,
// returning the immutable Map. log may be nil. settings may be nil, in
// which case config.DefaultBuildSettings() applies.
func Build(records []TileRecord, settings *config.BuildSettings, log *buildlog.Context) (*navmesh.Map, error) {
	if settings == nil {
		d := config.DefaultBuildSettings()
		settings = &d
	}
	log.StartTimer("clip")
	clipped := clipToBounds(records, log)
	log.StopTimer("clip")

	buckets := bucketByOrigin(clipped)

	m := navmesh.NewMap()
	ids := &idAllocator{}

	pitch := settings.TilePitch

	var minX, minY, maxX, maxY int32
	first := true
	for origin := range buckets {
		if first {
			minX, minY = origin[0], origin[1]
			maxX, maxY = origin[0]+pitch, origin[1]+pitch
			first = false
			continue
		}
		if origin[0] < minX {
			minX = origin[0]
		}
		if origin[1] < minY {
			minY = origin[1]
		}
		if origin[0]+pitch > maxX {
			maxX = origin[0] + pitch
		}
		if origin[1]+pitch > maxY {
			maxY = origin[1] + pitch
		}
	}
	m.Bounds = navmesh.Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	m.TileCols = int((maxX - minX) / pitch)
	m.TileRows = int((maxY - minY) / pitch)

	log.StartTimer("fuse+triangulate")
	for origin, bucket := range buckets {
		col := int((origin[0] - minX) / pitch)
		row := int((origin[1] - minY) / pitch)

		tile, err := fuseBucket(origin, bucket, ids, log)
		if err != nil {
			return nil, fmt.Errorf("meshbuild: cell (%d,%d): %w", col, row, err)
		}
		m.AddTile(col, row, tile)
	}
	log.StopTimer("fuse+triangulate")

	for _, t := range m.Tiles() {
		for _, p := range t.Polys {
			a, b, c := p.Verts[0].XY().ToGeom(), p.Verts[1].XY().ToGeom(), p.Verts[2].XY().ToGeom()
			assert.True(geom.CCW(a, b, c) != 0, "degenerate (zero-area) triangle produced for polygon %d", p.ID)
		}
	}

	log.StartTimer("graph")
	buildGraph(m, settings, log)
	log.StopTimer("graph")

	return m, nil
}

type originKey = [2]int32

func clipToBounds(records []TileRecord, log *buildlog.Context) []TileRecord {
	out := make([]TileRecord, 0, len(records))
	for _, rec := range records {
		var kept []RawPolygon
		for _, poly := range rec.Polys {
			inside := true
			for _, v := range poly.Verts {
				if !rec.Bounds.Contains(v.X, v.Y) {
					inside = false
					break
				}
			}
			if inside {
				kept = append(kept, poly)
			} else {
				log.Warningf("dropped polygon leaking outside tile bounds %+v", rec.Bounds)
			}
		}
		out = append(out, TileRecord{Bounds: rec.Bounds, Polys: kept})
	}
	return out
}

func bucketByOrigin(records []TileRecord) map[originKey][]TileRecord {
	buckets := make(map[originKey][]TileRecord)
	for _, rec := range records {
		key := originKey{rec.Bounds.MinX, rec.Bounds.MinY}
		buckets[key] = append(buckets[key], rec)
	}
	return buckets
}

// fuseBucket normalizes every tile sharing one origin: union
// overlapping polygons until pairwise disjoint, retriangulate, and
// recover Z from the original vertices.
func fuseBucket(origin originKey, bucket []TileRecord, ids *idAllocator, log *buildlog.Context) (*navmesh.PreTile, error) {
	bounds := bucket[0].Bounds
	for _, rec := range bucket[1:] {
		if rec.Bounds.MaxZ > bounds.MaxZ {
			bounds.MaxZ = rec.Bounds.MaxZ
		}
		if rec.Bounds.MinZ < bounds.MinZ {
			bounds.MinZ = rec.Bounds.MinZ
		}
	}

	posToZ := make(map[navmesh.Point]float64)
	var polys []polyalg.Polygon
	for _, rec := range bucket {
		for _, raw := range rec.Polys {
			ring := make(orb.Ring, len(raw.Verts))
			for i, v := range raw.Verts {
				ring[i] = orb.Point{float64(v.X), float64(v.Y)}
				posToZ[navmesh.Point{X: v.X, Y: v.Y}] = v.Z
			}
			polys = append(polys, polyalg.Polygon{Exterior: ring})
		}
	}

	fused := fuseOverlapping(polys)

	tile := &navmesh.PreTile{Bounds: bounds, FusedOuter: fused}
	for _, poly := range fused {
		tris, err := triangulateFused(poly, posToZ, bounds.MaxZ, ids)
		if err != nil {
			log.Warningf("cell origin %v: %v, contributing no polygons for this piece", origin, err)
			continue
		}
		tile.Polys = append(tile.Polys, tris...)
	}
	return tile, nil
}

// fuseOverlapping repeatedly unions any intersecting pair until the
// remaining set is pairwise disjoint. polyalg.Union itself reports
// whether two inputs touched or overlapped (it merges
// into one ring); two untouched polygons come back as two, which is
// this loop's signal to leave them alone.
func fuseOverlapping(polys []polyalg.Polygon) []polyalg.Polygon {
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

func triangulateFused(poly polyalg.Polygon, posToZ map[navmesh.Point]float64, fallbackZ float64, ids *idAllocator) ([]navmesh.PrePoly, error) {
	ext := ringToGeom(poly.Exterior)
	var holes [][]geom.Point
	for _, h := range poly.Holes {
		holes = append(holes, ringToGeom(h))
	}

	tris := geom.Triangulate(ext, holes)
	if len(tris) == 0 {
		return nil, fmt.Errorf("no valid triangulation for fused polygon")
	}

	allVerts := append([]geom.Point{}, ext...)
	for _, h := range holes {
		allVerts = append(allVerts, h...)
	}

	out := make([]navmesh.PrePoly, 0, len(tris))
	for _, tr := range tris {
		var verts [3]navmesh.Vertex
		for k, idx := range tr {
			p := allVerts[idx]
			x, y := int32(p.X), int32(p.Y)
			z, ok := posToZ[navmesh.Point{X: x, Y: y}]
			if !ok {
				z = fallbackZ
			}
			verts[k] = navmesh.Vertex{X: x, Y: y, Z: z}
		}
		out = append(out, navmesh.PrePoly{
			ID:       ids.take(),
			Verts:    verts,
			Centroid: navmesh.ComputeCentroid(verts),
		})
	}
	return out, nil
}

func ringToGeom(r orb.Ring) []geom.Point {
	out := make([]geom.Point, 0, len(r))
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	for i := 0; i < n; i++ {
		out = append(out, geom.Point{X: r[i][0], Y: r[i][1]})
	}
	return out
}

// neighborOffsets is the portal-search neighborhood: self plus the 4
// axis neighbors, not the full 8-connected ring.
var neighborOffsets = [5][2]int{{0, 0}, {-1, 0}, {0, -1}, {0, 1}, {1, 0}}

// buildGraph compares every polygon against its own tile and the
// up-to-4 axis-neighbor tiles, emitting a link for every shared-edge
// portal found.
func buildGraph(m *navmesh.Map, settings *config.BuildSettings, log *buildlog.Context) {
	tiles := m.Tiles()
	for _, t := range tiles {
		var candidates []*navmesh.PrePoly
		for _, off := range neighborOffsets {
			nb := m.TileAt(t.Col+off[0], t.Row+off[1])
			if nb == nil {
				continue
			}
			for i := range nb.Polys {
				candidates = append(candidates, &nb.Polys[i])
			}
		}
		for i := range t.Polys {
			p := &t.Polys[i]
			for _, q := range candidates {
				if q.ID <= p.ID {
					continue
				}
				linkIfPortal(m, p, q, settings, log)
			}
		}
	}
}

func linkIfPortal(m *navmesh.Map, p, q *navmesh.PrePoly, settings *config.BuildSettings, log *buildlog.Context) {
	pEdges := triangleEdges(p)
	qEdges := triangleEdges(q)
	for _, pe := range pEdges {
		for _, qe := range qEdges {
			overlap, ok := geom.SegmentsOverlap(pe.A, pe.B, qe.A, qe.B)
			if !ok {
				continue
			}
			length := geom.Dist(overlap.A, overlap.B)
			if length <= 0 {
				continue
			}
			d := geom.Dist(p.Centroid.ToGeom(), q.Centroid.ToGeom())
			mult := config.PortalMultiplier(settings.StaticPortalBrackets, length)
			weight := int64(roundFloat(d) * mult)
			portal := navmesh.Portal{
				A: navmesh.Point{X: int32(overlap.A.X), Y: int32(overlap.A.Y)},
				B: navmesh.Point{X: int32(overlap.B.X), Y: int32(overlap.B.Y)},
			}
			if err := m.AddLink(p.ID, q.ID, portal, weight); err != nil {
				log.Warningf("%v", err)
			}
			return
		}
	}
}

func roundFloat(f float64) float64 {
	if f < 0 {
		return float64(int64(f - 0.5))
	}
	return float64(int64(f + 0.5))
}

func triangleEdges(p *navmesh.PrePoly) []geom.Segment {
	a := geom.Point{X: float64(p.Verts[0].X), Y: float64(p.Verts[0].Y)}
	b := geom.Point{X: float64(p.Verts[1].X), Y: float64(p.Verts[1].Y)}
	c := geom.Point{X: float64(p.Verts[2].X), Y: float64(p.Verts[2].Y)}
	return []geom.Segment{{A: a, B: b}, {A: b, B: c}, {A: c, B: a}}
}
