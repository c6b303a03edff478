// Package astar implements A* over an lvlath/core.Graph, shared by
// the static planner and the local replanner's local graph. The open
// list is a container/heap priority queue in the idiom lvlath's own
// graph.Dijkstra uses, combined with detour/nodequeue.go's bookkeeping
// shape (parent pointers, a closed set, g-cost tracked alongside the
// priority).
package astar

import (
	"container/heap"
	"errors"

	"github.com/katalvlaran/lvlath/core"
)

// ErrNoPath is returned when the open list empties without reaching goal.
var ErrNoPath = errors.New("astar: goal unreachable")

// Heuristic estimates the remaining cost from node id to the goal. It
// must be admissible (never overestimate) for the returned path to be
// optimal; the static and local planners both use Euclidean distance
// to the target's centroid. That is admissible over the static graph
// and the obstacle-mode local graph, whose edge multipliers are all at
// least 1; heat-mode multipliers can fall below 1, and there the
// heuristic can overestimate. An inadmissible heuristic can make the
// search miss the optimal path.
type Heuristic func(id string) int64

// Search runs A* from startID to goalID over g and returns the
// sequence of vertex ids from start to goal inclusive.
func Search(g *core.Graph, startID, goalID string, h Heuristic) ([]string, error) {
	if startID == goalID {
		return []string{startID}, nil
	}

	open := &nodePQ{}
	heap.Init(open)
	heap.Push(open, &nodeItem{id: startID, priority: h(startID)})

	gScore := map[string]int64{startID: 0}
	parent := map[string]string{}
	closed := map[string]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*nodeItem)
		if closed[cur.id] {
			continue
		}
		if cur.id == goalID {
			return reconstruct(parent, startID, goalID), nil
		}
		closed[cur.id] = true

		edges, err := g.Neighbors(cur.id)
		if err != nil {
			continue
		}
		for _, e := range edges {
			next := e.To
			if next == cur.id {
				next = e.From
			}
			if closed[next] {
				continue
			}
			tentative := gScore[cur.id] + e.Weight
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			parent[next] = cur.id
			heap.Push(open, &nodeItem{id: next, priority: tentative + h(next)})
		}
	}
	return nil, ErrNoPath
}

func reconstruct(parent map[string]string, start, goal string) []string {
	var rev []string
	cur := goal
	for {
		rev = append(rev, cur)
		if cur == start {
			break
		}
		cur = parent[cur]
	}
	out := make([]string, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}
	return out
}

type nodeItem struct {
	id       string
	priority int64
}

type nodePQ []*nodeItem

func (pq nodePQ) Len() int           { return len(pq) }
func (pq nodePQ) Less(i, j int) bool { return pq[i].priority < pq[j].priority }
func (pq nodePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) {
	*pq = append(*pq, x.(*nodeItem))
}
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}
