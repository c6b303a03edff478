// Package navmesh is the data model the mesh-build pipeline produces
// and every planner reads: tiles, triangles, the polygon adjacency
// graph and the immutable per-map product built from them. It plays
// the role detour.MeshTile/NavMesh plays for a runtime tiled mesh,
// reshaped around this module's simpler triangle-only,
// pre-supplied-geometry world.
package navmesh

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arl/navgo/geom"
	"github.com/arl/navgo/polyalg"
	"github.com/katalvlaran/lvlath/core"
)

// TilePitch is the fixed tile edge length in game units: any tile
// whose extent isn't exactly this is a bug upstream of this package.
const TilePitch = 1260

// Point is an integer XY coordinate in game units.
type Point struct {
	X, Y int32
}

// ToGeom widens p to the float64 geom.Point the geometry kernel works in.
func (p Point) ToGeom() geom.Point { return geom.Point{X: float64(p.X), Y: float64(p.Y)} }

// Vertex is a triangle corner: integer XY with the recovered float Z.
type Vertex struct {
	X, Y int32
	Z    float64
}

// XY returns the vertex's planar position.
func (v Vertex) XY() Point { return Point{v.X, v.Y} }

// PrePoly is a walkable triangle: 3 vertices, a precomputed centroid
// and a stable 64-bit id unique within its Map.
type PrePoly struct {
	ID       uint64
	Verts    [3]Vertex
	Centroid Point
}

// GeomRing returns the triangle's 3 vertices as a geom ring for
// point-in-polygon and area calculations.
func (p PrePoly) GeomRing() []geom.Point {
	return []geom.Point{p.Verts[0].XY().ToGeom(), p.Verts[1].XY().ToGeom(), p.Verts[2].XY().ToGeom()}
}

// ComputeCentroid returns the integer mean of a triangle's vertices.
func ComputeCentroid(verts [3]Vertex) Point {
	var sx, sy int64
	for _, v := range verts {
		sx += int64(v.X)
		sy += int64(v.Y)
	}
	return Point{int32(sx / 3), int32(sy / 3)}
}

// Bounds is an axis-aligned XYZ box.
type Bounds struct {
	MinX, MinY int32
	MaxX, MaxY int32
	MinZ, MaxZ float64
}

// Contains reports whether (x,y) lies within the bounds, inclusive.
func (b Bounds) Contains(x, y int32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// PreTile is one normalized tile-pitch cell: its bounds, the
// triangles it contributes to the map, and the fused outer polygon(s)
// that triangle set came from, retained as a clipping surface for the
// local replanner.
type PreTile struct {
	Bounds      Bounds
	Polys       []PrePoly
	FusedOuter  []polyalg.Polygon
	Col, Row    int
}

// Portal is the shared linear overlap between two adjacent triangles,
// the corridor segment an agent crosses between them.
type Portal struct {
	A, B Point
}

// Length returns the Euclidean length of the portal segment.
func (p Portal) Length() float64 {
	return geom.Dist(p.A.ToGeom(), p.B.ToGeom())
}

// Link is one (id_a, id_b, portal) graph edge, retained alongside the
// search graph for serialization and for corridor reconstruction.
type Link struct {
	A, B   uint64
	Portal Portal
	Weight int64
}

func linkKey(a, b uint64) [2]uint64 {
	if a > b {
		a, b = b, a
	}
	return [2]uint64{a, b}
}

// VertexID renders a polygon id as the lvlath core.Graph vertex id.
func VertexID(id uint64) string { return fmt.Sprintf("p%d", id) }

// PolyIDFromVertex parses a core.Graph vertex id back into a polygon
// id, the inverse of VertexID, for A* corridor reconstruction.
func PolyIDFromVertex(vid string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(vid, "p"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("navmesh: malformed vertex id %q: %w", vid, err)
	}
	return n, nil
}

// ZAt solves the plane through the triangle's three vertices for Z at
// (x,y): Z is recovered by plane interpolation over the containing
// triangle (`a*y + b*z + c*x = d`), not by nearest-vertex lookup,
// matching the Z-recovery rule every emitted path point other than a
// triangle's own corner needs. A degenerate (vertical) plane falls
// back to the mean of the three vertices' Z.
func (p PrePoly) ZAt(x, y float64) float64 {
	v0, v1, v2 := p.Verts[0], p.Verts[1], p.Verts[2]
	ux, uy, uz := float64(v1.X-v0.X), float64(v1.Y-v0.Y), v1.Z-v0.Z
	vx, vy, vz := float64(v2.X-v0.X), float64(v2.Y-v0.Y), v2.Z-v0.Z
	nx := uy*vz - uz*vy
	ny := uz*vx - ux*vz
	nz := ux*vy - uy*vx
	if nz == 0 {
		return (v0.Z + v1.Z + v2.Z) / 3
	}
	dx := x - float64(v0.X)
	dy := y - float64(v0.Y)
	return v0.Z - (nx*dx+ny*dy)/nz
}

// Map is the immutable per-map product of the build pipeline. Every
// planner observes it read-only once built; the only writer is the
// mesh-build pipeline during construction.
type Map struct {
	Bounds            Bounds
	TileCols, TileRows int

	grid  map[int]*PreTile // col + row*cols -> tile
	tiles []*PreTile       // dense, order defines no semantics but is stable

	polysByID map[uint64]*PrePoly
	tileOf    map[uint64]*PreTile

	Graph *core.Graph
	links map[[2]uint64]Link
}

// NewMap constructs an empty Map shell; the build pipeline populates
// it and it is never mutated again once returned to a caller.
func NewMap() *Map {
	return &Map{
		grid:      make(map[int]*PreTile),
		polysByID: make(map[uint64]*PrePoly),
		tileOf:    make(map[uint64]*PreTile),
		Graph:     core.NewGraph(core.WithWeighted()),
		links:     make(map[[2]uint64]Link),
	}
}

// CellIndex returns the grid key for (col,row).
func (m *Map) CellIndex(col, row int) int { return col + row*m.TileCols }

// TileAt returns the tile occupying (col,row), or nil if the cell is empty.
func (m *Map) TileAt(col, row int) *PreTile {
	return m.grid[m.CellIndex(col, row)]
}

// Tiles returns the dense tile list.
func (m *Map) Tiles() []*PreTile { return m.tiles }

// AddTile registers t at (col,row) and indexes its polygons.
func (m *Map) AddTile(col, row int, t *PreTile) {
	t.Col, t.Row = col, row
	m.grid[m.CellIndex(col, row)] = t
	m.tiles = append(m.tiles, t)
	for i := range t.Polys {
		p := &t.Polys[i]
		m.polysByID[p.ID] = p
		m.tileOf[p.ID] = t
	}
	for _, p := range t.Polys {
		_ = m.Graph.AddVertex(VertexID(p.ID))
	}
}

// Poly returns the polygon with the given id, or nil.
func (m *Map) Poly(id uint64) *PrePoly { return m.polysByID[id] }

// TileOf returns the tile that owns polygon id, or nil.
func (m *Map) TileOf(id uint64) *PreTile { return m.tileOf[id] }

// AddLink records an undirected graph edge between polygons a and b
// with the given portal and weight, rejecting self-loops; a duplicate
// link is a silent no-op.
func (m *Map) AddLink(a, b uint64, portal Portal, weight int64) error {
	if a == b {
		return fmt.Errorf("navmesh: self-loop rejected for polygon %d", a)
	}
	key := linkKey(a, b)
	if _, exists := m.links[key]; exists {
		return nil
	}
	if _, err := m.Graph.AddEdge(VertexID(a), VertexID(b), weight); err != nil {
		return fmt.Errorf("navmesh: add edge %d-%d: %w", a, b, err)
	}
	m.links[key] = Link{A: a, B: b, Portal: portal, Weight: weight}
	return nil
}

// LinkBetween returns the recorded link between a and b, if any.
func (m *Map) LinkBetween(a, b uint64) (Link, bool) {
	l, ok := m.links[linkKey(a, b)]
	return l, ok
}

// Links returns every recorded link, for serialization.
func (m *Map) Links() []Link {
	out := make([]Link, 0, len(m.links))
	for _, l := range m.links {
		out = append(out, l)
	}
	return out
}

// AllPolys returns every polygon across every tile.
func (m *Map) AllPolys() []*PrePoly {
	out := make([]*PrePoly, 0, len(m.polysByID))
	for _, t := range m.tiles {
		for i := range t.Polys {
			out = append(out, &t.Polys[i])
		}
	}
	return out
}

// FindClosestNode returns the first polygon within radius2 (squared)
// of (x,y) that actually contains the point by point-in-polygon, in
// AllPolys order; if none does, the overall centroid-nearest polygon.
// Returns nil if the map has no polygons at all.
func FindClosestNode(m *Map, x, y float64, radius2 float64) *PrePoly {
	target := geom.Point{X: x, Y: y}
	var nearest *PrePoly
	nearestD2 := math.MaxFloat64
	for _, p := range m.AllPolys() {
		d2 := geom.DistSq(p.Centroid.ToGeom(), target)
		if d2 < nearestD2 {
			nearestD2 = d2
			nearest = p
		}
		if d2 <= radius2 && geom.PointInPolygon(x, y, p.GeomRing(), nil) != geom.Outside {
			return p
		}
	}
	return nearest
}

// PolyContaining returns the first candidate whose triangle contains
// (x,y), or the centroid-nearest candidate if none does. Used by the
// local replanner to bind a query point to a triangle within an
// already-narrowed neighborhood set rather than the whole map.
func PolyContaining(x, y float64, candidates []*PrePoly) *PrePoly {
	target := geom.Point{X: x, Y: y}
	var nearest *PrePoly
	nearestD2 := math.MaxFloat64
	for _, c := range candidates {
		if geom.PointInPolygon(x, y, c.GeomRing(), nil) != geom.Outside {
			return c
		}
		d2 := geom.DistSq(c.Centroid.ToGeom(), target)
		if d2 < nearestD2 {
			nearestD2 = d2
			nearest = c
		}
	}
	return nearest
}
