package polyalg

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestUnionOfTwoTrianglesFormsSquare(t *testing.T) {
	// two triangles sharing the diagonal of a 10x10 square, the same
	// shape the tile fuser in meshbuild produces when it unions a
	// triangulated tile against its neighbor.
	t1 := Polygon{Exterior: orb.Ring{{0, 0}, {10, 0}, {10, 10}}}
	t2 := Polygon{Exterior: orb.Ring{{0, 0}, {10, 10}, {0, 10}}}

	got := Union(t1, t2)
	require.Len(t, got, 1)
	require.InDelta(t, 100.0, got[0].Area(), 1e-6)
}

func TestUnionOfDisjointTrianglesReturnsBoth(t *testing.T) {
	t1 := Polygon{Exterior: orb.Ring{{0, 0}, {10, 0}, {10, 10}}}
	t2 := Polygon{Exterior: orb.Ring{{100, 100}, {110, 100}, {110, 110}}}

	got := Union(t1, t2)
	require.Len(t, got, 2)
}

func TestIntersectionOfOverlappingSquares(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 15, 15)

	got := Intersection(a, b)
	require.Len(t, got, 1)
	require.InDelta(t, 25.0, got[0].Area(), 1e-6)
}

func TestIntersectionOfDisjointSquaresIsEmpty(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(100, 100, 110, 110)

	got := Intersection(a, b)
	require.Empty(t, got)
}

// TestDifferenceInteriorHolePunchesDonut mirrors the obstacle-box
// case: a player's 60x60 box is carved out of a much larger polygon
// without touching its boundary, so the result keeps the outer ring
// intact and gains the box as a hole.
func TestDifferenceInteriorHolePunchesDonut(t *testing.T) {
	mesh := NewRect(0, 0, 100, 100)
	hole := NewRect(40, 40, 60, 60)

	got := Difference(mesh, hole)
	require.Len(t, got, 1)
	require.Len(t, got[0].Holes, 1)
	require.InDelta(t, 10000.0-400.0, got[0].Area(), 1e-6)
}

// TestDifferenceBoundaryCrossingNotch covers the case where the
// removed region overlaps the subject's own boundary, which must cut
// a notch rather than punch a hole.
func TestDifferenceBoundaryCrossingNotch(t *testing.T) {
	mesh := NewRect(0, 0, 100, 100)
	corner := NewRect(-10, -10, 10, 10)

	got := Difference(mesh, corner)
	require.Len(t, got, 1)
	require.Empty(t, got[0].Holes)
	require.InDelta(t, 10000.0-100.0, got[0].Area(), 1e-6)
}

func TestDifferenceDisjointIsUnchanged(t *testing.T) {
	mesh := NewRect(0, 0, 100, 100)
	other := NewRect(200, 200, 210, 210)

	got := Difference(mesh, other)
	require.Len(t, got, 1)
	require.InDelta(t, 10000.0, got[0].Area(), 1e-6)
}

func TestDifferenceFullyContainedSubjectIsEmpty(t *testing.T) {
	small := NewRect(40, 40, 60, 60)
	big := NewRect(0, 0, 100, 100)

	got := Difference(small, big)
	require.Empty(t, got)
}
