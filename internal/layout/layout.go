// Package layout computes 2D coordinates for opening graph nodes. It is a
// pluggable capability: the graph is fully usable without coordinates, and
// alternative services can replace the built-in one.
package layout

import (
	"sort"

	"github.com/freeeve/repertoire/internal/opening"
)

// Service produces a coordinate per node key. Implementations must be pure
// with respect to the graph: no mutation, deterministic output.
type Service interface {
	Layout(g *opening.Graph) map[string]opening.Point
}

// Layered is a hierarchical top-to-bottom layout: nodes are ranked by their
// longest distance from the root, ranks are stacked vertically and siblings
// spread horizontally. Y grows downward, matching canvas coordinates.
type Layered struct {
	RankSep float64 // vertical distance between ranks
	NodeSep float64 // horizontal distance between rank siblings
	CenterX float64 // x coordinate of the rank midline
}

// DefaultLayered returns the layout used when nothing else is configured.
func DefaultLayered() Layered {
	return Layered{RankSep: 150, NodeSep: 80, CenterX: 400}
}

// Layout ranks every node and assigns coordinates. Unreachable nodes (which
// a consistent graph does not have) would land on rank zero.
func (l Layered) Layout(g *opening.Graph) map[string]opening.Point {
	n := g.NodeCount()
	depth := make([]int, n)

	// Longest path from the root. Opening graphs are shallow DAGs; a fixed
	// point over the edge list is simpler than a topological sort and fast
	// enough at this scale.
	for changed := true; changed; {
		changed = false
		for _, e := range g.Edges() {
			if d := depth[e.Source] + 1; d > depth[e.Target] {
				depth[e.Target] = d
				changed = true
			}
		}
	}

	ranks := make(map[int][]opening.NodeID)
	for id := 0; id < n; id++ {
		ranks[depth[id]] = append(ranks[depth[id]], opening.NodeID(id))
	}

	out := make(map[string]opening.Point, n)
	for d, ids := range ranks {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		width := float64(len(ids)-1) * l.NodeSep
		for i, id := range ids {
			out[g.Node(id).Key] = opening.Point{
				X: l.CenterX - width/2 + float64(i)*l.NodeSep,
				Y: float64(d) * l.RankSep,
			}
		}
	}
	return out
}

// Cache memoizes a Service against the graph's generation counter. Any
// structural change invalidates it; a Get after mutation always recomputes.
type Cache struct {
	svc Service

	generation uint64
	points     map[string]opening.Point
	valid      bool
}

// NewCache wraps svc with generation-keyed memoization.
func NewCache(svc Service) *Cache {
	return &Cache{svc: svc}
}

// Get returns coordinates for g, recomputing when the graph changed since
// the last call.
func (c *Cache) Get(g *opening.Graph) map[string]opening.Point {
	if c.valid && c.generation == g.Generation() {
		return c.points
	}
	c.points = c.svc.Layout(g)
	c.generation = g.Generation()
	c.valid = true
	return c.points
}

// Invalidate drops the memoized layout unconditionally.
func (c *Cache) Invalidate() { c.valid = false }
