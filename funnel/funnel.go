// Package funnel implements a corridor string-pull smoother: given an
// ordered sequence of shared-edge portals, it produces a short
// polyline from a source point to a goal point that stays inside the
// corridor those portals describe.
package funnel

import (
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/geom"
)

// Portal is one shared-edge segment in the corridor, in the order the
// static or local A* search crossed it.
type Portal struct {
	A, B geom.Point
}

func (p Portal) length() float64 { return geom.Dist(p.A, p.B) }

func (p Portal) midpoint() geom.Point {
	return geom.Point{X: (p.A.X + p.B.X) / 2, Y: (p.A.Y + p.B.Y) / 2}
}

// shrink pulls each of the portal's endpoints inward, along the
// portal's own axis, by the amount settings spec's for its length
// bracket: unchanged below FunnelShrinkShort, FunnelShrinkMidAmt up to
// FunnelShrinkMid, FunnelShrinkWideAmt at or above it. This keeps the
// smoothed path from hugging the triangle vertices the portal
// endpoints sit on.
func (p Portal) shrink(settings config.PlannerSettings) Portal {
	l := p.length()
	var amt float64
	switch {
	case l < settings.FunnelShrinkShort:
		return p
	case l < settings.FunnelShrinkMid:
		amt = settings.FunnelShrinkMidAmt
	default:
		amt = settings.FunnelShrinkWideAmt
	}
	if l <= 2*amt {
		return Portal{A: p.midpoint(), B: p.midpoint()}
	}
	dx, dy := (p.B.X-p.A.X)/l, (p.B.Y-p.A.Y)/l
	return Portal{
		A: geom.Point{X: p.A.X + dx*amt, Y: p.A.Y + dy*amt},
		B: geom.Point{X: p.B.X - dx*amt, Y: p.B.Y - dy*amt},
	}
}

// Smooth runs the string-pull over corridor (the shared edges between
// consecutive triangles on a found path, start to goal order) and
// returns the smoothed polyline. corridor may be empty (start and
// goal in the same triangle).
func Smooth(corridor []Portal, start, goal geom.Point, settings config.PlannerSettings) []geom.Point {
	portals := make([]Portal, 0, len(corridor)+2)
	portals = append(portals, Portal{A: start, B: start})
	for _, p := range corridor {
		portals = append(portals, p.shrink(settings))
	}
	portals = append(portals, Portal{A: goal, B: goal})

	mids := make([]geom.Point, len(portals))
	for i, p := range portals {
		mids[i] = p.midpoint()
	}

	out := []geom.Point{start}
	apexIdx := 0
	n := len(portals)
	for apexIdx < n-1 {
		apex := mids[apexIdx]
		best := apexIdx + 1
		for j := apexIdx + 1; j < n; j++ {
			if !visibleAcrossAll(apex, mids[j], portals, apexIdx, j) {
				break
			}
			best = j
		}
		apexIdx = best
		out = append(out, mids[apexIdx])
	}
	out = append(out, goal)

	return dedupe(out)
}

// visibleAcrossAll reports whether the straight segment apex->candidate
// crosses every portal strictly between fromIdx and toIdx (exclusive
// of both), i.e. the candidate midpoint stays reachable in a taut
// straight line through the intervening portals.
func visibleAcrossAll(apex, candidate geom.Point, portals []Portal, fromIdx, toIdx int) bool {
	for k := fromIdx + 1; k < toIdx; k++ {
		if geom.SegmentIntersects(apex, candidate, portals[k].A, portals[k].B) == geom.Disjoint {
			return false
		}
	}
	return true
}

func dedupe(pts []geom.Point) []geom.Point {
	if len(pts) == 0 {
		return pts
	}
	out := make([]geom.Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
