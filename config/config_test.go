package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPortalMultiplierFirstMatchWins(t *testing.T) {
	brackets := []PortalBracket{
		{MaxLen: 60, Multiplier: 1000},
		{MaxLen: 100, Multiplier: 100},
		{MaxLen: 200, Multiplier: 10.1},
		{MaxLen: 0, Multiplier: 1.0},
	}
	require.Equal(t, 1000.0, PortalMultiplier(brackets, 10))
	require.Equal(t, 1000.0, PortalMultiplier(brackets, 60))
	require.Equal(t, 100.0, PortalMultiplier(brackets, 61))
	require.Equal(t, 100.0, PortalMultiplier(brackets, 100))
	require.Equal(t, 10.1, PortalMultiplier(brackets, 101))
	require.Equal(t, 10.1, PortalMultiplier(brackets, 200))
	require.Equal(t, 1.0, PortalMultiplier(brackets, 5000))
}

func TestPortalMultiplierEmptyBracketsDefaultsToOne(t *testing.T) {
	require.Equal(t, 1.0, PortalMultiplier(nil, 42))
}

func TestDefaultSettingsRoundTripsThroughYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	want := DefaultSettings()
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadOverridesOnlySpecifiedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("build:\n  tile_pitch: 2520\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	require.EqualValues(t, 2520, got.Build.TilePitch)
	require.Equal(t, DefaultPlannerSettings(), got.Planner)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load("/nonexistent/settings.yaml")
	require.Error(t, err)
}
