package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arl/navgo/buildlog"
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/meshbuild"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/planner"
)

func singleTriangleTile() []meshbuild.TileRecord {
	return []meshbuild.TileRecord{{
		Bounds: navmesh.Bounds{MinX: 0, MinY: 0, MaxX: navmesh.TilePitch, MaxY: navmesh.TilePitch, MinZ: 0, MaxZ: 10},
		Polys: []meshbuild.RawPolygon{
			{Verts: []meshbuild.RawVertex{{X: 0, Y: 0, Z: 1}, {X: 100, Y: 0, Z: 1}, {X: 0, Y: 100, Z: 1}}},
		},
	}}
}

func TestGetUnregisteredMapReturnsErrMapUnknown(t *testing.T) {
	r := New(config.DefaultBuildSettings())
	_, err := r.Get(42)
	require.ErrorIs(t, err, planner.ErrMapUnknown)
}

func TestGetBuildsOnFirstUseAndCaches(t *testing.T) {
	r := New(config.DefaultBuildSettings())
	var calls int32
	r.Register(1, func() ([]meshbuild.TileRecord, error) {
		atomic.AddInt32(&calls, 1)
		return singleTriangleTile(), nil
	})

	m1, err := r.Get(1)
	require.NoError(t, err)
	require.NotNil(t, m1)

	m2, err := r.Get(1)
	require.NoError(t, err)
	require.Same(t, m1, m2)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetIsSafeForConcurrentFirstUse(t *testing.T) {
	r := New(config.DefaultBuildSettings())
	var calls int32
	r.Register(7, func() ([]meshbuild.TileRecord, error) {
		atomic.AddInt32(&calls, 1)
		return singleTriangleTile(), nil
	})

	var wg sync.WaitGroup
	maps := make([]*navmesh.Map, 16)
	for i := range maps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := r.Get(7)
			require.NoError(t, err)
			maps[i] = m
		}(i)
	}
	wg.Wait()

	for _, m := range maps[1:] {
		require.Same(t, maps[0], m)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRegisterIsIdempotentAfterBuild(t *testing.T) {
	r := New(config.DefaultBuildSettings())
	r.Register(3, func() ([]meshbuild.TileRecord, error) { return singleTriangleTile(), nil })
	m1, err := r.Get(3)
	require.NoError(t, err)

	r.Register(3, func() ([]meshbuild.TileRecord, error) {
		t.Fatal("source for an already-registered map must not run again")
		return nil, nil
	})
	m2, err := r.Get(3)
	require.NoError(t, err)
	require.Same(t, m1, m2)
}

func TestGetPropagatesSourceError(t *testing.T) {
	r := New(config.DefaultBuildSettings())
	boom := errors.New("boom")
	r.Register(9, func() ([]meshbuild.TileRecord, error) { return nil, boom })
	_, err := r.Get(9)
	require.ErrorIs(t, err, boom)
}

func TestOnBuildReceivesLog(t *testing.T) {
	r := New(config.DefaultBuildSettings())
	var got *buildlog.Context
	var mapID int
	r.OnBuild(func(id int, log *buildlog.Context) {
		mapID = id
		got = log
	})
	r.Register(5, func() ([]meshbuild.TileRecord, error) { return singleTriangleTile(), nil })
	_, err := r.Get(5)
	require.NoError(t, err)
	require.Equal(t, 5, mapID)
	require.NotNil(t, got)
}
