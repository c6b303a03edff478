// Package heatmap implements a heat-map compositor: it turns
// overlapping friend/foe squares into a set of non-overlapping
// signed-weight regions, then overlays that set onto a mesh layout so
// every output piece of the layout carries a net weight (0 for
// untouched mesh, +N/-N under N friend/foe squares).
//
// It plays the role region.go's partitioning plays for Recast's
// watershed regions, merging overlapping inputs into a disjoint
// partition, reshaped from height-field spans onto signed 2D polygons
// and built entirely on the polyalg boolean adapter rather than
// anything in region.go itself.
package heatmap

import "github.com/arl/navgo/polyalg"

// Region is one weighted square or derived piece: friend squares start
// at weight +1, foe squares at -1; compositing sums weights where
// inputs overlap.
type Region struct {
	Poly   polyalg.Polygon
	Weight int64
}

// Square builds the axis-aligned square heat region centered on
// (cx,cy) with half-side r and the given signed weight.
func Square(cx, cy, r float64, weight int64) Region {
	return Region{Poly: polyalg.NewRect(cx-r, cy-r, cx+r, cy+r), Weight: weight}
}

// Composite repeatedly splits the first overlapping pair found into
// intersection/exclusive-A/exclusive-B pieces with summed/retained
// weights, until no pair overlaps, then drops zero-weight pieces.
func Composite(regions []Region) []Region {
	working := append([]Region(nil), regions...)

	for {
		i, j, ok := firstOverlap(working)
		if !ok {
			break
		}
		a, b := working[i], working[j]

		var pieces []Region
		for _, p := range polyalg.Intersection(a.Poly, b.Poly) {
			pieces = append(pieces, Region{Poly: p, Weight: a.Weight + b.Weight})
		}
		for _, p := range polyalg.Difference(a.Poly, b.Poly) {
			pieces = append(pieces, Region{Poly: p, Weight: a.Weight})
		}
		for _, p := range polyalg.Difference(b.Poly, a.Poly) {
			pieces = append(pieces, Region{Poly: p, Weight: b.Weight})
		}

		next := make([]Region, 0, len(working)-2+len(pieces))
		for k, r := range working {
			if k == i || k == j {
				continue
			}
			next = append(next, r)
		}
		next = append(next, pieces...)
		working = next
	}

	out := working[:0]
	for _, r := range working {
		if r.Weight != 0 && r.Poly.Area() > 0 {
			out = append(out, r)
		}
	}
	return out
}

func firstOverlap(regions []Region) (int, int, bool) {
	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if overlaps(regions[i].Poly, regions[j].Poly) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// overlaps reports whether a and b's intersection has positive area:
// touching-only (shared edge/vertex, zero-area intersection) is not an
// overlap for compositing purposes.
func overlaps(a, b polyalg.Polygon) bool {
	for _, p := range polyalg.Intersection(a, b) {
		if p.Area() > 1e-9 {
			return true
		}
	}
	return false
}

// Weighted is one clipped mesh polygon carrying the net signed weight
// of the heat regions overlapping it (0 where no region reaches).
type Weighted struct {
	Poly   polyalg.Polygon
	Weight int64
}

// Overlay overlays composited heat regions onto a mesh layout: for
// every mesh polygon, subtract the union of composited heat regions
// and keep the residue at weight 0, then append every composited
// region clipped to the layout's footprint at its net weight.
func Overlay(layout []polyalg.Polygon, regions []Region) []Weighted {
	composited := Composite(regions)

	var out []Weighted
	for _, poly := range layout {
		residues := []polyalg.Polygon{poly}
		for _, r := range composited {
			var next []polyalg.Polygon
			for _, res := range residues {
				next = append(next, polyalg.Difference(res, r.Poly)...)
			}
			residues = next
		}
		for _, res := range residues {
			if res.Area() > 0 {
				out = append(out, Weighted{Poly: res, Weight: 0})
			}
		}
	}

	for _, r := range composited {
		for _, poly := range layout {
			for _, clipped := range polyalg.Intersection(poly, r.Poly) {
				if clipped.Area() > 0 {
					out = append(out, Weighted{Poly: clipped, Weight: r.Weight})
				}
			}
		}
	}
	return out
}
