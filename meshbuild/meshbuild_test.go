package meshbuild

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arl/navgo/navmesh"
)

func tileBounds(minX, minY int32) navmesh.Bounds {
	return navmesh.Bounds{
		MinX: minX, MinY: minY,
		MaxX: minX + navmesh.TilePitch, MaxY: minY + navmesh.TilePitch,
		MinZ: 0, MaxZ: 10,
	}
}

func TestBuildSingleTriangleTile(t *testing.T) {
	rec := TileRecord{
		Bounds: tileBounds(0, 0),
		Polys: []RawPolygon{
			{Verts: []RawVertex{{X: 0, Y: 0, Z: 1}, {X: 100, Y: 0, Z: 1}, {X: 0, Y: 100, Z: 1}}},
		},
	}
	m, err := Build([]TileRecord{rec}, nil, nil)
	require.NoError(t, err)
	require.Len(t, m.Tiles(), 1)
	require.Len(t, m.Tiles()[0].Polys, 1)
	require.Equal(t, [3]navmesh.Vertex{
		{X: 0, Y: 0, Z: 1}, {X: 100, Y: 0, Z: 1}, {X: 0, Y: 100, Z: 1},
	}, m.Tiles()[0].Polys[0].Verts)
}

func TestBuildDropsPolygonLeakingOutsideBounds(t *testing.T) {
	rec := TileRecord{
		Bounds: tileBounds(0, 0),
		Polys: []RawPolygon{
			{Verts: []RawVertex{{X: 0, Y: 0}, {X: 2000, Y: 0}, {X: 0, Y: 100}}},
		},
	}
	m, err := Build([]TileRecord{rec}, nil, nil)
	require.NoError(t, err)
	require.Empty(t, m.Tiles()[0].Polys)
}

func TestBuildFusesTwoTrianglesSharingAnEdge(t *testing.T) {
	rec := TileRecord{
		Bounds: tileBounds(0, 0),
		Polys: []RawPolygon{
			{Verts: []RawVertex{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}},
			{Verts: []RawVertex{{X: 0, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}}},
		},
	}
	m, err := Build([]TileRecord{rec}, nil, nil)
	require.NoError(t, err)
	// fused into one quad, retriangulated back into exactly 2 triangles
	require.Len(t, m.Tiles()[0].Polys, 2)
}

// TestGraphBuilderNarrowPortalMultiplier checks that two triangles in
// adjacent tiles sharing a <=100-unit edge across the tile boundary
// get linked by the graph builder, with weight governed by the
// <=100-unit portal multiplier (3.2x).
func TestGraphBuilderNarrowPortalMultiplier(t *testing.T) {
	left := TileRecord{
		Bounds: tileBounds(0, 0),
		Polys: []RawPolygon{
			{Verts: []RawVertex{{X: 1260, Y: 0}, {X: 1260, Y: 10}, {X: 1160, Y: 0}}},
		},
	}
	right := TileRecord{
		Bounds: tileBounds(navmesh.TilePitch, 0),
		Polys: []RawPolygon{
			{Verts: []RawVertex{{X: 1260, Y: 0}, {X: 1260, Y: 10}, {X: 1360, Y: 0}}},
		},
	}
	m, err := Build([]TileRecord{left, right}, nil, nil)
	require.NoError(t, err)
	require.Len(t, m.Tiles(), 2)

	leftPoly := m.TileAt(0, 0).Polys[0]
	rightPoly := m.TileAt(1, 0).Polys[0]

	link, ok := m.LinkBetween(leftPoly.ID, rightPoly.ID)
	require.True(t, ok, "expected a cross-tile graph link over the shared (1260,0)-(1260,10) edge")
	// centroids (1226,3) and (1293,3) are 67 apart; 67*3.2 truncates to 214
	require.Equal(t, int64(214), link.Weight)
	require.True(t, m.Graph.HasVertex(navmesh.VertexID(leftPoly.ID)))
	require.True(t, m.Graph.HasVertex(navmesh.VertexID(rightPoly.ID)))
}
