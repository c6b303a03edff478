// Package registry implements a lazy one-shot cache: a process-wide,
// read-mostly table from map id to the immutable navmesh.Map built
// from it. The first request for a map id runs the mesh-build pipeline
// and publishes the result; every later request (concurrent or not)
// observes that published Map read-only, never rebuilding it.
//
// This plays the role a map-id-to-asset-file table would play in a
// game server, except map-id-to-file registration is an external
// collaborator's job: Registry only owns the build-once-cache-forever
// policy, and a host populates it with its own TileSource per map id.
package registry

import (
	"fmt"
	"sync"

	"github.com/arl/navgo/buildlog"
	"github.com/arl/navgo/config"
	"github.com/arl/navgo/meshbuild"
	"github.com/arl/navgo/navmesh"
	"github.com/arl/navgo/planner"
)

// TileSource yields the raw tile records for one map id; decoding the
// game's proprietary asset format into this shape is left to an
// opaque collaborator.
type TileSource func() ([]meshbuild.TileRecord, error)

type entry struct {
	once sync.Once
	m    *navmesh.Map
	err  error
	src  TileSource
}

// Registry is the process-wide per-map Map cache. The zero value is
// not usable; construct with New.
type Registry struct {
	settings config.BuildSettings

	mu      sync.RWMutex
	entries map[int]*entry

	// log, if non-nil, receives every map build's log/timer output for
	// diagnostics; the registry itself never logs per-request activity.
	log func(mapID int, log *buildlog.Context)
}

// New returns an empty Registry using settings for every map it
// builds.
func New(settings config.BuildSettings) *Registry {
	return &Registry{settings: settings, entries: make(map[int]*entry)}
}

// OnBuild installs a callback invoked with the build log after each
// map's first (and only) build.
func (r *Registry) OnBuild(fn func(mapID int, log *buildlog.Context)) {
	r.log = fn
}

// Register associates mapID with src. Calling Register again for an
// already-built mapID has no effect on the cached Map; registration is
// meant to happen once, before the map's first request: a map is built
// once on first use and cached process-wide for the life of the
// process.
func (r *Registry) Register(mapID int, src TileSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[mapID]; ok {
		return
	}
	r.entries[mapID] = &entry{src: src}
}

// Get returns the built Map for mapID, building it on first use. If
// mapID was never Register-ed, it returns planner.ErrMapUnknown; the
// planner never falls back to a sibling map.
func (r *Registry) Get(mapID int) (*navmesh.Map, error) {
	r.mu.RLock()
	e, ok := r.entries[mapID]
	r.mu.RUnlock()
	if !ok {
		return nil, planner.ErrMapUnknown
	}

	e.once.Do(func() {
		records, err := e.src()
		if err != nil {
			e.err = fmt.Errorf("registry: map %d: loading tiles: %w", mapID, err)
			return
		}
		log := buildlog.New()
		m, err := meshbuild.Build(records, &r.settings, log)
		if err != nil {
			e.err = fmt.Errorf("registry: map %d: %w", mapID, err)
		}
		e.m = m
		if r.log != nil {
			r.log(mapID, log)
		}
	})
	return e.m, e.err
}
