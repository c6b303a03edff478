// Package config collects the build-time and planner tunables this
// module exposes as a loadable settings file, the role
// recast.BuildSettings and sample/tilemesh's DefaultSettings play for
// Recast's voxel pipeline, reshaped around this module's triangle-mesh
// constants instead of voxelization parameters.
package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// PortalBracket is one row of a narrow-gap penalty table: portals no
// longer than MaxLen get Multiplier applied to their centroid-distance
// weight.
type PortalBracket struct {
	MaxLen     float64 `yaml:"max_len"`
	Multiplier float64 `yaml:"multiplier"`
}

// BuildSettings are the tunables the offline mesh-build pipeline
// reads. The zero value is invalid; use DefaultBuildSettings.
type BuildSettings struct {
	// TilePitch is the fixed tile edge length in game units. Changing it
	// from 1260 does not match any real asset export this module has
	// seen; exposed for tests that build synthetic tile grids at a
	// different scale.
	TilePitch int32 `yaml:"tile_pitch"`

	// StaticPortalBrackets is the edge-weight multiplier table applied
	// to every graph edge: `{<=100: 3.2, <=200: 2.1, else: 1.0}`. Must
	// stay sorted ascending by MaxLen; the last row's MaxLen is ignored
	// (it always matches as the default).
	StaticPortalBrackets []PortalBracket `yaml:"static_portal_brackets"`
}

// DefaultBuildSettings returns the mesh-build pipeline's standard
// tunables.
func DefaultBuildSettings() BuildSettings {
	return BuildSettings{
		TilePitch: 1260,
		StaticPortalBrackets: []PortalBracket{
			{MaxLen: 100, Multiplier: 3.2},
			{MaxLen: 200, Multiplier: 2.1},
			{MaxLen: 0, Multiplier: 1.0}, // unconditional fallback
		},
	}
}

// PlannerSettings are the per-request tunables the static planner,
// funnel smoother and local replanner read. The zero value is invalid;
// use DefaultPlannerSettings.
type PlannerSettings struct {
	// FunnelShrinkShort/Mid and the two Amt fields describe the funnel
	// smoother's portal-shrink table: portals shorter than
	// FunnelShrinkShort are unchanged, up to FunnelShrinkMid shrink by
	// FunnelShrinkMidAmt, wider ones shrink by FunnelShrinkWideAmt.
	FunnelShrinkShort  float64 `yaml:"funnel_shrink_short"`  // threshold below which portals are unchanged
	FunnelShrinkMid    float64 `yaml:"funnel_shrink_mid"`    // threshold below which the 30-unit shrink applies
	FunnelShrinkMidAmt float64 `yaml:"funnel_shrink_mid_amt"`
	FunnelShrinkWideAmt float64 `yaml:"funnel_shrink_wide_amt"`

	// ClosestNodeRadius2 bounds FindClosestNode's containment search:
	// 2000^2 by default.
	ClosestNodeRadius2 float64 `yaml:"closest_node_radius2"`

	// DirectWalkMaxDist is the `path_near` direct-walk short-circuit
	// distance: 2000 by default.
	DirectWalkMaxDist float64 `yaml:"direct_walk_max_dist"`

	// LocalNeighborhoodRadius and HeatNeighborhoodRadius bound the local
	// replanner's neighborhood tile extraction: 1260 for obstacle
	// replanning, 2520 for heat replanning.
	LocalNeighborhoodRadius float64 `yaml:"local_neighborhood_radius"`
	HeatNeighborhoodRadius  float64 `yaml:"heat_neighborhood_radius"`

	// PlayerBoxRange and PlayerBoxHalfSide bound which players become
	// obstacle holes, and the hole half-side: 1200 range, 30 half-side
	// (a 60x60 box).
	PlayerBoxRange    float64 `yaml:"player_box_range"`
	PlayerBoxHalfSide float64 `yaml:"player_box_half_side"`

	// HeatAgentRange bounds which friend/foe agents contribute heat
	// regions: 2000.
	HeatAgentRange float64 `yaml:"heat_agent_range"`

	// SpliceAdvanceDist is the distance along the smoothed global path,
	// from the source, at which the local replanner looks for a splice
	// vertex: 1260 by default.
	SpliceAdvanceDist float64 `yaml:"splice_advance_dist"`

	// LocalPortalBrackets is the local replanner's narrow-gap penalty
	// table: `{<=60: 1000, <=100: 100, <=200: 10.1, else: 1.0}`. This is
	// the "first match wins" reading rather than the overlapping,
	// order-dependent match arms of the original this module was ported
	// from.
	LocalPortalBrackets []PortalBracket `yaml:"local_portal_brackets"`

	// HeatMultiplierBase is the heat-weighted edge multiplier base: an
	// edge's centroid distance is multiplied by
	// HeatMultiplierBase^(-delta), delta the sum of the two incident
	// triangles' signed heat weight.
	HeatMultiplierBase float64 `yaml:"heat_multiplier_base"`
}

// DefaultPlannerSettings returns the planner's standard per-request
// tunables; a zero-value PlannerSettings{} is never passed to a
// planner, only this constructor's result or a YAML-loaded override of
// it.
func DefaultPlannerSettings() PlannerSettings {
	return PlannerSettings{
		FunnelShrinkShort:       60,
		FunnelShrinkMid:         100,
		FunnelShrinkMidAmt:      30,
		FunnelShrinkWideAmt:     50,
		ClosestNodeRadius2:      2000 * 2000,
		DirectWalkMaxDist:       2000,
		LocalNeighborhoodRadius: 1260,
		HeatNeighborhoodRadius:  2520,
		PlayerBoxRange:          1200,
		PlayerBoxHalfSide:       30,
		HeatAgentRange:          2000,
		SpliceAdvanceDist:       1260,
		LocalPortalBrackets: []PortalBracket{
			{MaxLen: 60, Multiplier: 1000},
			{MaxLen: 100, Multiplier: 100},
			{MaxLen: 200, Multiplier: 10.1},
			{MaxLen: 0, Multiplier: 1.0},
		},
		HeatMultiplierBase: 100,
	}
}

// PortalMultiplier returns the multiplier the first matching bracket
// (ascending by MaxLen, last row always matching) assigns to a portal
// of the given length.
func PortalMultiplier(brackets []PortalBracket, length float64) float64 {
	for i, b := range brackets {
		if i == len(brackets)-1 {
			return b.Multiplier
		}
		if length <= b.MaxLen {
			return b.Multiplier
		}
	}
	return 1.0
}

// Settings bundles the build-time and per-request tunables loaded
// from or saved to a single YAML file.
type Settings struct {
	Build   BuildSettings   `yaml:"build"`
	Planner PlannerSettings `yaml:"planner"`
}

// DefaultSettings bundles both default settings structs, the value
// `navctl config` writes out and every other default loads.
func DefaultSettings() Settings {
	return Settings{Build: DefaultBuildSettings(), Planner: DefaultPlannerSettings()}
}

// Load reads and parses a YAML settings file at path.
func Load(path string) (Settings, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}
	out := DefaultSettings()
	if err := yaml.Unmarshal(buf, &out); err != nil {
		return Settings{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return out, nil
}

// Save writes s to path as YAML.
func Save(path string, s Settings) error {
	buf, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return ioutil.WriteFile(path, buf, 0o644)
}
