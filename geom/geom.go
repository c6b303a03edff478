// Package geom implements the 2D geometric predicates the mesh-build
// pipeline and the planners are built on: orientation tests, segment
// intersection and overlap, point-in-polygon classification and
// ear-free polygon triangulation by diagonal enumeration.
//
// All predicates operate on float64 doubles, as required upstream
// (integer game-unit coordinates are converted on the way in). None of
// them assume exact arithmetic; ties are broken by explicit
// sign-comparison branches rather than epsilon fudging.
package geom

import "math"

// Point is a 2D point in game units.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Segment is a directed line segment A->B.
type Segment struct {
	A, B Point
}

func cross(a, b Point) float64 {
	return a.X*b.Y - b.X*a.Y
}

// CCW classifies p relative to the line a->b. Its sign is positive when
// p lies to the left of a->b, negative to the right, zero when
// collinear.
func CCW(a, b, p Point) float64 {
	return cross(a.Sub(p), b.Sub(p))
}

func lessOrEqual(a, b Point) bool {
	return a.X <= b.X && a.Y <= b.Y
}

// SegmentRelation is the tri-valued result of SegmentIntersects.
type SegmentRelation int

const (
	// Disjoint means the segments share no point (or touch only at a
	// shared endpoint of two collinear segments).
	Disjoint SegmentRelation = 0
	// Crossing means the segments meet at a single point, either in
	// their interiors or at an endpoint crossing.
	Crossing SegmentRelation = 1
	// Overlapping means the segments are collinear and their
	// projected intervals overlap on more than a single point.
	Overlapping SegmentRelation = -1
)

// SegmentIntersects classifies the relation between segments ab and cd.
// Callers that only care "does this block line of sight" should test
// for SegmentIntersects(...) > 0; callers looking for a shared portal
// use SegmentsOverlap instead, which returns the actual overlap.
func SegmentIntersects(a, b, c, d Point) SegmentRelation {
	ab := CCW(a, b, c) * CCW(a, b, d)
	cd := CCW(c, d, a) * CCW(c, d, b)

	if ab == 0 && cd == 0 {
		var lo1, hi1, lo2, hi2 Point
		if lessOrEqual(b, a) {
			lo1, hi1 = b, a
		} else {
			lo1, hi1 = a, b
		}
		if lessOrEqual(d, c) {
			lo2, hi2 = d, c
		} else {
			lo2, hi2 = c, d
		}
		if !(lessOrEqual(hi1, lo2) || lessOrEqual(hi2, lo1)) {
			return Overlapping
		}
		return Disjoint
	}
	if ab <= 0 && cd <= 0 {
		return Crossing
	}
	return Disjoint
}

// SegmentsOverlap is the portal detector: given two segments, it
// returns their colinear overlap segment, or ok=false if they are not
// collinear or share at most a single point. Collinearity requires
// both c and d to lie on line ab (CCW == 0 for both); pairs that mix
// a vertical segment with a non-vertical one are rejected up front
// since they cannot be collinear unless degenerate. The overlap
// endpoints are the two middle points once all four endpoints are
// sorted along the dominant axis (Y for vertical segments, X
// otherwise).
func SegmentsOverlap(a, b, c, d Point) (Segment, bool) {
	if CCW(a, b, c) != 0 || CCW(a, b, d) != 0 {
		return Segment{}, false
	}
	abVert := a.X == b.X
	cdVert := c.X == d.X
	if abVert != cdVert {
		return Segment{}, false
	}
	axis := func(p Point) float64 {
		if abVert {
			return p.Y
		}
		return p.X
	}
	lo1, hi1 := a, b
	if axis(lo1) > axis(hi1) {
		lo1, hi1 = hi1, lo1
	}
	lo2, hi2 := c, d
	if axis(lo2) > axis(hi2) {
		lo2, hi2 = hi2, lo2
	}
	loOverlap := lo1
	if axis(lo2) > axis(lo1) {
		loOverlap = lo2
	}
	hiOverlap := hi1
	if axis(hi2) < axis(hi1) {
		hiOverlap = hi2
	}
	if axis(loOverlap) >= axis(hiOverlap) {
		return Segment{}, false
	}
	return Segment{A: loOverlap, B: hiOverlap}, true
}

// PointInPolyResult is the tri-valued result of point-in-polygon tests.
type PointInPolyResult int

const (
	// Outside means the point lies strictly outside the ring.
	Outside PointInPolyResult = 0
	// Inside means the point lies strictly inside the ring.
	Inside PointInPolyResult = 1
	// OnBoundary means the point lies exactly on an edge or vertex.
	OnBoundary PointInPolyResult = -1
)

// PointInRing tests x,y against a closed ring (first and last point
// need not coincide; the edge wrapping from the last to the first
// vertex is included implicitly) by horizontal ray casting to the
// right, with explicit on-edge detection.
func PointInRing(x, y float64, ring []Point) PointInPolyResult {
	n := len(ring)
	if n < 3 {
		return Outside
	}
	intersections := 0
	dy2 := y - ring[n-1].Y
	prev := ring[n-1]
	for i := 0; i < n; i++ {
		cur := ring[i]
		dy := dy2
		dy2 = y - cur.Y

		if dy*dy2 <= 0 && (x >= prev.X || x >= cur.X) {
			if dy < 0 || dy2 < 0 {
				ff := dy*(cur.X-prev.X)/(dy-dy2) + prev.X
				if x > ff {
					intersections++
				} else if x == ff {
					return OnBoundary
				}
			} else if dy2 == 0 &&
				(x == cur.X || (dy == 0 && (x-prev.X)*(x-cur.X) <= 0)) {
				return OnBoundary
			}
		}
		prev = cur
	}
	if intersections&1 == 1 {
		return Inside
	}
	return Outside
}

// PointInPolygon tests a point against a polygon made of an exterior
// ring and zero or more hole rings: inside the exterior and outside
// every hole is Inside, on any ring's boundary is OnBoundary.
func PointInPolygon(x, y float64, exterior []Point, holes [][]Point) PointInPolyResult {
	res := PointInRing(x, y, exterior)
	if res != Inside {
		return res
	}
	for _, h := range holes {
		switch PointInRing(x, y, h) {
		case Inside:
			return Outside
		case OnBoundary:
			return OnBoundary
		}
	}
	return Inside
}

// edgeKey is an orientation-independent key for an undirected edge,
// used to dedupe the diagonal-enumeration edge set below.
type edgeKey struct{ a, b int }

func mkEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Triangle is a triple of vertex indices into the Triangulate input.
type Triangle [3]int

// Triangulate decomposes a simple polygon (exterior ring plus optional
// hole rings) into triangles by diagonal enumeration: every vertex
// pair not already an edge, not crossing an existing edge and whose
// midpoint lies in the polygon's interior becomes a diagonal; every
// mutually-connected vertex triple not containing a hole vertex
// becomes a triangle. No Steiner points are introduced; every emitted
// triangle's vertices are a subset of the input vertices.
//
// This is the textbook O(V^2*E) approach, adequate at the scale this
// module runs at (V <= ~500 per polygon).
func Triangulate(exterior []Point, holes [][]Point) []Triangle {
	var verts []Point
	var edges []Segment
	adj := map[edgeKey]bool{}

	addRing := func(ring []Point) {
		base := len(verts)
		n := len(ring)
		for i, p := range ring {
			verts = append(verts, p)
			j := (i + 1) % n
			edges = append(edges, Segment{ring[i], ring[j]})
			adj[mkEdgeKey(base+i, base+j)] = true
		}
	}
	addRing(exterior)
	for _, h := range holes {
		addRing(h)
	}

	n := len(verts)
	hasEdge := func(a, b Point) bool {
		for _, e := range edges {
			if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
				return true
			}
		}
		return false
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			key := mkEdgeKey(i, j)
			if adj[key] {
				continue
			}
			a, b := verts[i], verts[j]
			if hasEdge(a, b) {
				adj[key] = true
				continue
			}
			crosses := false
			for _, e := range edges {
				if SegmentIntersects(a, b, e.A, e.B) == Crossing {
					crosses = true
					break
				}
			}
			if crosses {
				continue
			}
			mid := Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
			if PointInRing(mid.X, mid.Y, exterior) == Outside {
				continue
			}
			inHole := false
			for _, h := range holes {
				if PointInRing(mid.X, mid.Y, h) == Inside {
					inHole = true
					break
				}
			}
			if inHole {
				continue
			}
			edges = append(edges, Segment{a, b})
			adj[key] = true
		}
	}

	connected := func(a, b int) bool { return adj[mkEdgeKey(a, b)] }

	var tris []Triangle
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !connected(i, j) {
				continue
			}
			for k := j + 1; k < n; k++ {
				if connected(i, k) && connected(j, k) {
					if trianglesEnclosesAnyHoleVertex(verts[i], verts[j], verts[k], holes) {
						continue
					}
					tris = append(tris, Triangle{i, j, k})
				}
			}
		}
	}
	return tris
}

func trianglesEnclosesAnyHoleVertex(a, b, c Point, holes [][]Point) bool {
	tri := []Point{a, b, c}
	for _, h := range holes {
		for _, p := range h {
			if PointInRing(p.X, p.Y, tri) == Inside {
				return true
			}
		}
	}
	return false
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistSq returns the squared Euclidean distance between a and b, for
// callers comparing against a squared radius without paying for a sqrt.
func DistSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
