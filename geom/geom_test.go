package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCCWSign(t *testing.T) {
	a := Point{0, 0}
	b := Point{10, 0}

	tests := []struct {
		msg  string
		p    Point
		want float64
	}{
		{"left of ab is positive", Point{5, 5}, 50},
		{"right of ab is negative", Point{5, -5}, -50},
		{"on ab is zero", Point{5, 0}, 0},
	}
	for _, tt := range tests {
		got := CCW(a, b, tt.p)
		if tt.want == 0 {
			require.Zero(t, got, tt.msg)
		} else if tt.want > 0 {
			require.Greater(t, got, 0.0, tt.msg)
		} else {
			require.Less(t, got, 0.0, tt.msg)
		}
	}
}

func TestSegmentIntersectsCrossing(t *testing.T) {
	rel := SegmentIntersects(Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{10, 0})
	require.Equal(t, Crossing, rel)
}

func TestSegmentIntersectsOverlapping(t *testing.T) {
	rel := SegmentIntersects(Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{20, 0})
	require.Equal(t, Overlapping, rel)
}

func TestSegmentIntersectsDisjoint(t *testing.T) {
	rel := SegmentIntersects(Point{0, 0}, Point{1, 1}, Point{5, 5}, Point{6, 6})
	require.Equal(t, Disjoint, rel)
}

func TestSegmentIntersectsSharedEndpointOnly(t *testing.T) {
	// two collinear segments that touch at a single shared endpoint
	// must not be classed as an overlap.
	rel := SegmentIntersects(Point{0, 0}, Point{10, 0}, Point{10, 0}, Point{20, 0})
	require.Equal(t, Disjoint, rel)
}

func TestSegmentsOverlapPortal(t *testing.T) {
	seg, ok := SegmentsOverlap(Point{0, 0}, Point{100, 0}, Point{50, 0}, Point{150, 0})
	require.True(t, ok)
	require.Equal(t, Point{50, 0}, seg.A)
	require.Equal(t, Point{100, 0}, seg.B)
}

func TestSegmentsOverlapRejectsNonCollinear(t *testing.T) {
	_, ok := SegmentsOverlap(Point{0, 0}, Point{100, 0}, Point{0, 50}, Point{100, 50})
	require.False(t, ok)
}

func TestSegmentsOverlapRejectsSharedEndpointOnly(t *testing.T) {
	_, ok := SegmentsOverlap(Point{0, 0}, Point{100, 0}, Point{100, 0}, Point{200, 0})
	require.False(t, ok)
}

func square(minX, minY, maxX, maxY float64) []Point {
	return []Point{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}
}

func TestPointInPolygon(t *testing.T) {
	ext := square(0, 0, 100, 100)

	require.Equal(t, Inside, PointInPolygon(50, 50, ext, nil))
	require.Equal(t, Outside, PointInPolygon(150, 50, ext, nil))
	require.Equal(t, OnBoundary, PointInPolygon(0, 50, ext, nil))

	hole := square(40, 40, 60, 60)
	require.Equal(t, Outside, PointInPolygon(50, 50, ext, [][]Point{hole}))
	require.Equal(t, Inside, PointInPolygon(10, 10, ext, [][]Point{hole}))
}

func triArea(a, b, c Point) float64 {
	return 0.5 * ((b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y))
}

func polyArea(ring []Point) float64 {
	sum := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// TestTriangulateCoversSquare asserts the triangulation-cover property:
// the union of output triangles equals the area of the input polygon.
func TestTriangulateCoversSquare(t *testing.T) {
	ext := square(0, 0, 10, 10)
	tris := Triangulate(ext, nil)
	require.NotEmpty(t, tris)

	var area float64
	verts := ext
	for _, tr := range tris {
		area += triArea(verts[tr[0]], verts[tr[1]], verts[tr[2]])
	}
	want := polyArea(ext)
	require.InDelta(t, want, area, 1e-6)
}

func TestTriangulateExcludesHole(t *testing.T) {
	ext := square(0, 0, 100, 100)
	hole := square(40, 40, 60, 60)
	tris := Triangulate(ext, [][]Point{hole})
	require.NotEmpty(t, tris)

	allVerts := append(append([]Point{}, ext...), hole...)
	for _, tr := range tris {
		c := Point{
			(allVerts[tr[0]].X + allVerts[tr[1]].X + allVerts[tr[2]].X) / 3,
			(allVerts[tr[0]].Y + allVerts[tr[1]].Y + allVerts[tr[2]].Y) / 3,
		}
		require.NotEqual(t, Inside, PointInRing(c.X, c.Y, hole), "triangle centroid fell inside the hole")
	}
}
