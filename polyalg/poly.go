package polyalg

import "github.com/paulmach/orb"

// Polygon is a simple exterior ring with zero or more hole rings, the
// shape every boolean op in this package accepts and returns. Rings
// are open (first point not repeated) on input, as NewRect builds
// them; the clipping core closes them internally where the algorithm
// needs it.
type Polygon struct {
	Exterior orb.Ring
	Holes    []orb.Ring
}

// NewRect builds an axis-aligned rectangle polygon, the shape every
// obstacle box and heat-map region this module ever constructs starts
// life as.
func NewRect(minX, minY, maxX, maxY float64) Polygon {
	return Polygon{Exterior: orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}}
}

func pointInPlainRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	j := n - 1
	for i := 0; i < n; i++ {
		a, b := ring[j], ring[i]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func ringsIntersect(a, b orb.Ring) bool {
	an, bn := len(a), len(b)
	for i := 0; i < an; i++ {
		a1, a2 := a[i], a[(i+1)%an]
		for j := 0; j < bn; j++ {
			b1, b2 := b[j], b[(j+1)%bn]
			if _, _, _, ok := segIntersect(a1, a2, b1, b2); ok {
				return true
			}
		}
	}
	return false
}

// Union returns the union of two hole-free simple polygons. Every
// caller in this module (tile fusion in meshbuild, which unions raw
// input polygons, and the neighborhood merge in planner, which unions
// those fused outlines) satisfies that precondition; Union ignores any
// holes present on either input.
//
// Adjacent mesh polygons overwhelmingly share a full edge rather than
// partially overlapping, so Union first tries edge-welding (cancel
// every pair of exactly-reversed edges, then re-chain what's left)
// and only falls back to the general Greiner-Hormann clip when the
// two polygons genuinely overlap in area rather than merely touch.
func Union(a, b Polygon) []Polygon {
	if ring, ok := weldSharedEdges(a.Exterior, b.Exterior); ok {
		return []Polygon{{Exterior: ring}}
	}
	rings := clipRings(a.Exterior, b.Exterior, opUnion)
	return wrapRings(rings)
}

// Intersection returns the intersection of two hole-free simple
// polygons, as used by the heat-map compositor to find the overlap of
// two weighted regions.
func Intersection(a, b Polygon) []Polygon {
	rings := clipRings(a.Exterior, b.Exterior, opIntersection)
	return wrapRings(rings)
}

// Difference returns subject minus clip. Unlike Union/Intersection,
// Difference can turn a hole-free subject into a donut: if clip lies
// entirely inside subject's exterior and outside all of subject's
// existing holes, the result is a single polygon carrying clip as an
// additional hole ring, matching the player-obstacle and heat-overlay
// cutouts the local replanner produces, where the removed region
// usually does not touch the containing polygon's boundary. When clip
// crosses the boundary
// the result is the ordinary set of hole-free pieces the clip leaves
// behind, and any of subject's pre-existing holes that still fall
// inside a piece are reattached to it; a hole straddling the cut is
// dropped, which this module never produces (obstacle and heat boxes
// are punched one at a time into previously unholed or disjointly
// holed polygons).
func Difference(subject, clip Polygon) []Polygon {
	if !ringsIntersect(subject.Exterior, clip.Exterior) {
		switch {
		case pointInPlainRing(clip.Exterior[0], subject.Exterior) && !anyHoleContains(subject.Holes, clip.Exterior[0]):
			holes := make([]orb.Ring, 0, len(subject.Holes)+1)
			holes = append(holes, subject.Holes...)
			holes = append(holes, closeRing(clip.Exterior))
			return []Polygon{{Exterior: subject.Exterior, Holes: holes}}
		case pointInPlainRing(subject.Exterior[0], clip.Exterior):
			return nil
		default:
			return []Polygon{subject}
		}
	}

	pieces := clipRings(subject.Exterior, clip.Exterior, opDifference)
	out := make([]Polygon, 0, len(pieces))
	for _, piece := range pieces {
		poly := Polygon{Exterior: piece}
		for _, h := range subject.Holes {
			if pointInPlainRing(h[0], piece) {
				poly.Holes = append(poly.Holes, h)
			}
		}
		out = append(out, poly)
	}
	return out
}

func anyHoleContains(holes []orb.Ring, p orb.Point) bool {
	for _, h := range holes {
		if pointInPlainRing(p, h) {
			return true
		}
	}
	return false
}

type directedEdge struct{ p, q orb.Point }

func ringEdges(r orb.Ring) []directedEdge {
	n := len(r)
	edges := make([]directedEdge, n)
	for i := 0; i < n; i++ {
		edges[i] = directedEdge{r[i], r[(i+1)%n]}
	}
	return edges
}

// weldSharedEdges cancels every pair of exactly-reversed edges between
// a and b and re-chains the remainder into a single ring. It reports
// ok=false when no edge cancelled (the polygons don't share a full
// edge) or when the remaining edges don't close into one simple loop
// (branching or a dangling chain), in which case the caller should
// fall back to the general clipper.
func weldSharedEdges(a, b orb.Ring) (orb.Ring, bool) {
	edgesA := ringEdges(a)
	edgesB := ringEdges(b)
	cancelledA := make([]bool, len(edgesA))
	cancelledB := make([]bool, len(edgesB))
	anyCancel := false

	for i, ea := range edgesA {
		for j, eb := range edgesB {
			if cancelledB[j] {
				continue
			}
			if ea.p == eb.q && ea.q == eb.p {
				cancelledA[i] = true
				cancelledB[j] = true
				anyCancel = true
				break
			}
		}
	}
	if !anyCancel {
		return nil, false
	}

	next := map[orb.Point]orb.Point{}
	var start orb.Point
	haveStart := false
	count := 0
	addEdge := func(e directedEdge) bool {
		if _, dup := next[e.p]; dup {
			return false
		}
		next[e.p] = e.q
		if !haveStart {
			start = e.p
			haveStart = true
		}
		count++
		return true
	}
	for i, ea := range edgesA {
		if cancelledA[i] {
			continue
		}
		if !addEdge(ea) {
			return nil, false
		}
	}
	for j, eb := range edgesB {
		if cancelledB[j] {
			continue
		}
		if !addEdge(eb) {
			return nil, false
		}
	}
	if !haveStart {
		return nil, false
	}

	ring := make(orb.Ring, 0, count)
	cur := start
	for i := 0; i < count; i++ {
		ring = append(ring, cur)
		nxt, ok := next[cur]
		if !ok {
			return nil, false
		}
		cur = nxt
	}
	if cur != start {
		return nil, false
	}
	return ring, true
}

func wrapRings(rings []orb.Ring) []Polygon {
	out := make([]Polygon, 0, len(rings))
	for _, r := range rings {
		out = append(out, Polygon{Exterior: r})
	}
	return out
}

// Area returns the polygon's area (exterior minus holes) via the
// shoelace formula.
func (p Polygon) Area() float64 {
	a := ringArea(p.Exterior)
	for _, h := range p.Holes {
		a -= ringArea(h)
	}
	return a
}

func ringArea(r orb.Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i][0]*r[j][1] - r[j][0]*r[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
