package astar

import (
	"testing"

	"github.com/katalvlaran/lvlath/core"
	"github.com/stretchr/testify/require"
)

func chainGraph(t *testing.T) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithWeighted())
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, g.AddVertex(id))
	}
	_, err := g.AddEdge("a", "b", 10)
	require.NoError(t, err)
	_, err = g.AddEdge("b", "c", 10)
	require.NoError(t, err)
	_, err = g.AddEdge("c", "d", 10)
	require.NoError(t, err)
	_, err = g.AddEdge("a", "d", 100)
	require.NoError(t, err)
	return g
}

func zeroHeuristic(string) int64 { return 0 }

func TestSearchFindsShortestPath(t *testing.T) {
	g := chainGraph(t)
	path, err := Search(g, "a", "d", zeroHeuristic)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, path)
}

func TestSearchSameStartAndGoal(t *testing.T) {
	g := chainGraph(t)
	path, err := Search(g, "a", "a", zeroHeuristic)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, path)
}

func TestSearchUnreachableReturnsErrNoPath(t *testing.T) {
	g := core.NewGraph(core.WithWeighted())
	require.NoError(t, g.AddVertex("a"))
	require.NoError(t, g.AddVertex("b"))
	_, err := Search(g, "a", "b", zeroHeuristic)
	require.ErrorIs(t, err, ErrNoPath)
}

// TestHeuristicAdmissibleStillFindsOptimalPath exercises the same
// graph with a heuristic admissible by construction (straight-line
// distance never exceeds the graph's integer edge weights) and
// checks the result doesn't regress versus the zero heuristic.
func TestHeuristicAdmissibleStillFindsOptimalPath(t *testing.T) {
	g := chainGraph(t)
	centroids := map[string]float64{"a": 0, "b": 10, "c": 20, "d": 30}
	h := func(id string) int64 {
		return int64(30 - centroids[id])
	}
	path, err := Search(g, "a", "d", h)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "d"}, path)
}
