// Package polyalg adapts a Greiner-Hormann polygon clipper behind the
// narrow boolean-op interface the mesh-build pipeline and the heat-map
// compositor need: union, intersection and difference of simple
// polygons. No polygon-boolean library shipped in the retrieved
// example pack (paulmach/orb clips a ring to a bounding box, it does
// not clip ring-against-ring), so this is a from-scratch adapter; see
// DESIGN.md for why no pack dependency could serve this component.
//
// Point and ring values are exchanged as github.com/paulmach/orb
// types so callers elsewhere in the module (which do use orb for
// plain point/ring plumbing) never need a conversion layer.
package polyalg

import (
	"github.com/paulmach/orb"
)

// clipOp selects which boolean operation clipRings performs.
type clipOp int

const (
	opUnion clipOp = iota
	opIntersection
	opDifference
)

// ghVertex is a node in a Greiner-Hormann polygon vertex list.
type ghVertex struct {
	p          orb.Point
	next, prev *ghVertex
	neighbor   *ghVertex
	intersect  bool
	entry      bool
	visited    bool
	alpha      float64
}

func newRingList(ring orb.Ring) *ghVertex {
	n := len(ring)
	if n > 0 && ring[0] == ring[n-1] {
		n--
	}
	nodes := make([]ghVertex, n)
	for i := 0; i < n; i++ {
		nodes[i].p = ring[i]
	}
	for i := 0; i < n; i++ {
		nodes[i].next = &nodes[(i+1)%n]
		nodes[i].prev = &nodes[(i-1+n)%n]
	}
	return &nodes[0]
}

func ringVertices(head *ghVertex) []*ghVertex {
	var out []*ghVertex
	v := head
	for {
		out = append(out, v)
		v = v.next
		if v == head {
			break
		}
	}
	return out
}

// segIntersect returns the intersection of segments p1p2 and p3p4, the
// parametric position of the intersection along each segment (alpha1,
// alpha2 in (0,1) exclusive of endpoints) and whether a proper
// interior intersection exists.
func segIntersect(p1, p2, p3, p4 orb.Point) (pt orb.Point, a1, a2 float64, ok bool) {
	d := (p4[0]-p3[0])*(p2[1]-p1[1]) - (p4[1]-p3[1])*(p2[0]-p1[0])
	if d == 0 {
		return pt, 0, 0, false
	}
	a1 = ((p4[0]-p3[0])*(p1[1]-p3[1]) - (p4[1]-p3[1])*(p1[0]-p3[0])) / d
	a2 = ((p2[0]-p1[0])*(p1[1]-p3[1]) - (p2[1]-p1[1])*(p1[0]-p3[0])) / d
	if a1 <= 0 || a1 >= 1 || a2 <= 0 || a2 >= 1 {
		return pt, 0, 0, false
	}
	pt = orb.Point{
		p1[0] + a1*(p2[0]-p1[0]),
		p1[1] + a1*(p2[1]-p1[1]),
	}
	return pt, a1, a2, true
}

func pointInRing(p orb.Point, head *ghVertex) bool {
	inside := false
	v := head
	for {
		a, b := v.p, v.next.p
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
		v = v.next
		if v == head {
			break
		}
	}
	return inside
}

// insertSorted inserts an intersection vertex iv between a and its
// next neighbor, keeping the segment's existing intersections sorted
// by alpha.
func insertSorted(a *ghVertex, iv *ghVertex) {
	v := a
	for v.next != a.next && v.next.intersect && v.next.alpha < iv.alpha {
		v = v.next
	}
	iv.next = v.next
	iv.prev = v
	v.next.prev = iv
	v.next = iv
}

// clipRings runs the Greiner-Hormann algorithm between two simple,
// hole-free rings and returns the result rings (closed, first point
// repeated) for the requested boolean op. Self-intersecting inputs
// are not supported; every ring this module ever builds (triangles,
// axis-aligned obstacle/heat squares, and their unions) is simple.
func clipRings(subject, clip orb.Ring, op clipOp) []orb.Ring {
	sHead := newRingList(subject)
	cHead := newRingList(clip)

	var anyIntersection bool
	sVerts := ringVertices(sHead)
	cVerts := ringVertices(cHead)

	for _, sv := range sVerts {
		if sv.intersect {
			continue
		}
		for _, cv := range cVerts {
			if cv.intersect {
				continue
			}
			pt, a1, a2, ok := segIntersect(sv.p, sv.next.p, cv.p, cv.next.p)
			if !ok {
				continue
			}
			anyIntersection = true
			si := &ghVertex{p: pt, intersect: true, alpha: a1}
			ci := &ghVertex{p: pt, intersect: true, alpha: a2}
			si.neighbor = ci
			ci.neighbor = si
			insertSorted(sv, si)
			insertSorted(cv, ci)
		}
	}

	if !anyIntersection {
		return clipDisjointOrContained(subject, clip, sHead, cHead, op)
	}

	sStartsInside := !pointInRing(sHead.p, cHead)
	markEntryExit(sHead, cHead, sStartsInside)
	cStartsInside := !pointInRing(cHead.p, sHead)
	switch op {
	case opUnion:
		markEntryExit(cHead, sHead, cStartsInside)
	case opIntersection:
		markEntryExitInverted(cHead, sHead, cStartsInside)
	case opDifference:
		markEntryExitInverted(cHead, sHead, cStartsInside)
	}

	return traceResults(sHead, op)
}

func markEntryExit(start *ghVertex, other *ghVertex, startsInside bool) {
	status := startsInside
	v := start
	for {
		if v.intersect {
			v.entry = !status
			status = !status
		}
		v = v.next
		if v == start {
			break
		}
	}
	_ = other
}

func markEntryExitInverted(start *ghVertex, other *ghVertex, startsInside bool) {
	status := startsInside
	v := start
	for {
		if v.intersect {
			v.entry = status
			status = !status
		}
		v = v.next
		if v == start {
			break
		}
	}
	_ = other
}

func traceResults(subjectHead *ghVertex, op clipOp) []orb.Ring {
	var rings []orb.Ring
	verts := ringVertices(subjectHead)
	for _, start := range verts {
		if !start.intersect || start.visited {
			continue
		}
		var ring orb.Ring
		v := start
		forward := true
		switch op {
		case opUnion:
			forward = !v.entry
		case opIntersection:
			forward = v.entry
		case opDifference:
			forward = v.entry
		}
		for {
			v.visited = true
			v.neighbor.visited = true
			ring = append(ring, v.p)
			if forward {
				v = v.next
			} else {
				v = v.prev
			}
			if v.intersect {
				v = v.neighbor
				if forward {
					v = v.next
				} else {
					v = v.prev
				}
				switch op {
				case opUnion:
					forward = !v.entry
				case opIntersection:
					forward = v.entry
				case opDifference:
					forward = v.entry
				}
				v = backtrackIntersect(v, forward)
			}
			if v == start || v.visited && v.intersect {
				break
			}
		}
		if len(ring) >= 3 {
			ring = append(ring, ring[0])
			rings = append(rings, ring)
		}
	}
	return rings
}

// backtrackIntersect steps back onto the intersection node itself so
// traceResults' loop head (which always appends v.p first) emits it.
func backtrackIntersect(v *ghVertex, forward bool) *ghVertex {
	if forward {
		return v.prev
	}
	return v.next
}

// clipDisjointOrContained handles the no-real-intersection case: the
// rings are either fully disjoint or one fully contains the other.
func clipDisjointOrContained(subject, clip orb.Ring, sHead, cHead *ghVertex, op clipOp) []orb.Ring {
	subjInClip := pointInRing(sHead.p, cHead)
	clipInSubj := pointInRing(cHead.p, sHead)

	switch op {
	case opUnion:
		if subjInClip {
			return []orb.Ring{closeRing(clip)}
		}
		if clipInSubj {
			return []orb.Ring{closeRing(subject)}
		}
		return []orb.Ring{closeRing(subject), closeRing(clip)}
	case opIntersection:
		if subjInClip {
			return []orb.Ring{closeRing(subject)}
		}
		if clipInSubj {
			return []orb.Ring{closeRing(clip)}
		}
		return nil
	case opDifference:
		if subjInClip {
			return nil
		}
		// clipInSubj true produces a donut (subject with a clip-shaped
		// hole); ring-only clipping cannot express that, the Polygon
		// wrapper in poly.go handles it by keeping clip as a hole.
		return []orb.Ring{closeRing(subject)}
	}
	return nil
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) == 0 {
		return r
	}
	if r[0] == r[len(r)-1] {
		return r
	}
	out := make(orb.Ring, len(r)+1)
	copy(out, r)
	out[len(r)] = r[0]
	return out
}
