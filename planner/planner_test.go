package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arl/navgo/config"
	"github.com/arl/navgo/meshbuild"
	"github.com/arl/navgo/navmesh"
)

// squareTileRecord builds one full-tile square at (originX,0), split
// into two triangles sharing the diagonal, with a flat Z.
func squareTileRecord(originX int32, z float64) meshbuild.TileRecord {
	x0, y0 := originX, int32(0)
	x1, y1 := originX+navmesh.TilePitch, int32(navmesh.TilePitch)
	return meshbuild.TileRecord{
		Bounds: navmesh.Bounds{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1, MinZ: z, MaxZ: z},
		Polys: []meshbuild.RawPolygon{
			{Verts: []meshbuild.RawVertex{{X: x0, Y: y0, Z: z}, {X: x1, Y: y0, Z: z}, {X: x1, Y: y1, Z: z}}},
			{Verts: []meshbuild.RawVertex{{X: x0, Y: y0, Z: z}, {X: x1, Y: y1, Z: z}, {X: x0, Y: y1, Z: z}}},
		},
	}
}

func twoTileMap(t *testing.T) *navmesh.Map {
	t.Helper()
	left := squareTileRecord(0, 5)
	right := squareTileRecord(navmesh.TilePitch, 5)
	m, err := meshbuild.Build([]meshbuild.TileRecord{left, right}, nil, nil)
	require.NoError(t, err)
	require.Len(t, m.Tiles(), 2)
	return m
}

func oneTileMap(t *testing.T) *navmesh.Map {
	t.Helper()
	m, err := meshbuild.Build([]meshbuild.TileRecord{squareTileRecord(0, 0)}, nil, nil)
	require.NoError(t, err)
	return m
}

// disjointTileMap builds a single tile holding two triangles far apart
// and not sharing any edge, so they land in separate graph components.
func disjointTileMap(t *testing.T) *navmesh.Map {
	t.Helper()
	rec := meshbuild.TileRecord{
		Bounds: navmesh.Bounds{MinX: 0, MinY: 0, MaxX: navmesh.TilePitch, MaxY: navmesh.TilePitch},
		Polys: []meshbuild.RawPolygon{
			{Verts: []meshbuild.RawVertex{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}},
			{Verts: []meshbuild.RawVertex{{X: 1000, Y: 1000}, {X: 1100, Y: 1000}, {X: 1000, Y: 1100}}},
		},
	}
	m, err := meshbuild.Build([]meshbuild.TileRecord{rec}, nil, nil)
	require.NoError(t, err)
	return m
}

func TestStaticPathSamePolygonReturnsEmptyPath(t *testing.T) {
	m := oneTileMap(t)
	settings := config.DefaultPlannerSettings()
	from := navmesh.Point{X: 100, Y: 100}
	to := navmesh.Point{X: 200, Y: 150}
	path, same, err := StaticPath(m, from, to, settings)
	require.NoError(t, err)
	require.True(t, same)
	require.Empty(t, path)
}

func TestStaticPathCrossesTileBoundary(t *testing.T) {
	m := twoTileMap(t)
	settings := config.DefaultPlannerSettings()
	from := navmesh.Point{X: 100, Y: 100}
	to := navmesh.Point{X: navmesh.TilePitch + 100, Y: 100}

	path, same, err := StaticPath(m, from, to, settings)
	require.NoError(t, err)
	require.False(t, same)
	require.NotEmpty(t, path)
	last := path[len(path)-1]
	require.Equal(t, to.X, last.X)
	require.Equal(t, to.Y, last.Y)
	require.InDelta(t, 5, last.Z, 1e-6)
}

func TestStaticPathUnreachableAcrossDisconnectedComponents(t *testing.T) {
	m := disjointTileMap(t)
	settings := config.DefaultPlannerSettings()
	from := navmesh.Point{X: 10, Y: 10}
	to := navmesh.Point{X: 1010, Y: 1010}
	_, _, err := StaticPath(m, from, to, settings)
	require.ErrorIs(t, err, ErrUnreachable)
}

func TestCanWalkDirectWithinOneTile(t *testing.T) {
	m := oneTileMap(t)
	settings := config.DefaultPlannerSettings()
	ok := CanWalkDirect(m, navmesh.Point{X: 10, Y: 10}, navmesh.Point{X: 1000, Y: 1000}, settings.LocalNeighborhoodRadius)
	require.True(t, ok)
}

func TestCanWalkDirectAcrossTileBoundary(t *testing.T) {
	m := twoTileMap(t)
	settings := config.DefaultPlannerSettings()
	from := navmesh.Point{X: navmesh.TilePitch - 100, Y: 100}
	to := navmesh.Point{X: navmesh.TilePitch + 100, Y: 100}
	ok := CanWalkDirect(m, from, to, settings.LocalNeighborhoodRadius)
	require.True(t, ok, "a straight segment crossing only the shared tile boundary must not be blocked by it")
}

type fakeProvider struct {
	m   *navmesh.Map
	err error
}

func (f fakeProvider) Get(mapID int) (*navmesh.Map, error) { return f.m, f.err }

func TestDispatcherPathUnknownMap(t *testing.T) {
	p := New(fakeProvider{err: ErrMapUnknown}, config.DefaultPlannerSettings())
	resp := p.Path(1, navmesh.Point{}, navmesh.Point{X: 10})
	require.ErrorIs(t, resp.Err, ErrMapUnknown)
}

func TestDispatcherPathSamePolygon(t *testing.T) {
	m := oneTileMap(t)
	p := New(fakeProvider{m: m}, config.DefaultPlannerSettings())
	resp := p.Path(1, navmesh.Point{X: 50, Y: 50}, navmesh.Point{X: 60, Y: 60})
	require.NoError(t, resp.Err)
	require.True(t, resp.SamePolygon)
	require.Empty(t, resp.Path)
	require.GreaterOrEqual(t, resp.Micros, int64(0))
}

func TestDispatcherPathNearShortCircuitsDirectWalk(t *testing.T) {
	m := oneTileMap(t)
	settings := config.DefaultPlannerSettings()
	p := New(fakeProvider{m: m}, settings)
	from := navmesh.Point{X: 50, Y: 50}
	to := navmesh.Point{X: 60, Y: 60}
	resp := p.PathNear(1, from, to)
	require.NoError(t, resp.Err)
	require.Len(t, resp.Path, 1)
	require.Equal(t, to.X, resp.Path[0].X)
	require.Equal(t, to.Y, resp.Path[0].Y)
}

func TestDispatcherIsWalkable(t *testing.T) {
	m := oneTileMap(t)
	p := New(fakeProvider{m: m}, config.DefaultPlannerSettings())

	inside, err := p.IsWalkable(1, navmesh.Point{X: 100, Y: 100})
	require.NoError(t, err)
	require.True(t, inside)

	outside, err := p.IsWalkable(1, navmesh.Point{X: -50000, Y: -50000})
	require.NoError(t, err)
	require.False(t, outside)
}

func TestDispatcherAroundBoxesPunchesHole(t *testing.T) {
	m := oneTileMap(t)
	p := New(fakeProvider{m: m}, config.DefaultPlannerSettings())

	without, err := p.AroundBoxes(1, navmesh.Point{X: 600, Y: 600}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, without)

	players := []PlayerBox{{X: 600, Y: 600}}
	withHole, err := p.AroundBoxes(1, navmesh.Point{X: 600, Y: 600}, players)
	require.NoError(t, err)
	require.NotEmpty(t, withHole)
	require.Greater(t, len(withHole), len(without))
}

func TestDispatcherHeatMapsCarriesSignedWeight(t *testing.T) {
	m := oneTileMap(t)
	p := New(fakeProvider{m: m}, config.DefaultPlannerSettings())

	friends := []Agent{{X: 600, Y: 600, Radius: 100, Weight: 1}}
	tris, err := p.HeatMaps(1, navmesh.Point{X: 600, Y: 600}, friends, nil)
	require.NoError(t, err)

	var sawPositive bool
	for _, tr := range tris {
		if tr.Weight > 0 {
			sawPositive = true
		}
	}
	require.True(t, sawPositive, "expected at least one triangle to carry the friend's positive weight")
}

func TestDispatcherHeatMapsForcesFoeWeightNegative(t *testing.T) {
	m := oneTileMap(t)
	p := New(fakeProvider{m: m}, config.DefaultPlannerSettings())

	// Weight is set positive here deliberately: a foe must still
	// contribute a negative heat region regardless of what its Weight
	// field carries.
	foes := []Agent{{X: 600, Y: 600, Radius: 100, Weight: 1}}
	tris, err := p.HeatMaps(1, navmesh.Point{X: 600, Y: 600}, nil, foes)
	require.NoError(t, err)

	var sawNegative bool
	for _, tr := range tris {
		if tr.Weight < 0 {
			sawNegative = true
		}
	}
	require.True(t, sawNegative, "expected at least one triangle to carry the foe's negative weight")
}

func TestDispatcherPathLocalWithoutPlayersReturnsPath(t *testing.T) {
	m := twoTileMap(t)
	p := New(fakeProvider{m: m}, config.DefaultPlannerSettings())

	from := navmesh.Point{X: 100, Y: 100}
	to := navmesh.Point{X: navmesh.TilePitch + 100, Y: 100}

	resp := p.PathLocal(1, from, to, nil)
	require.NoError(t, resp.Err)
	require.NotEmpty(t, resp.Path)
}
