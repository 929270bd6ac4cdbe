// Package opening implements the transposition-aware opening graph: the
// node/edge store, the undo/redo history over it, the practice path
// enumerator and the versioned text format.
package opening

import (
	"errors"
	"fmt"

	"github.com/freeeve/repertoire/internal/fen"
)

// NodeID indexes the dense node arena. IDs stay dense across orphan removal;
// they are not stable handles and must not be persisted.
type NodeID int32

// EdgeID indexes the dense edge arena. Same stability caveat as NodeID.
type EdgeID int32

// Root is the id of the start node. It is created with the graph and is
// never removed.
const Root NodeID = 0

// Node is a board position, identified by its normalized key.
type Node struct {
	Key string
}

// Edge is a directed transition between two positions. At most one edge
// exists per ordered (Source, Target) pair.
type Edge struct {
	Source NodeID
	Target NodeID

	// Move is the SAN token that produced the transition. Legacy files may
	// leave it empty; the writer re-derives it on export.
	Move string

	// SourceFull is the full FEN (en passant preserved) the move was applied
	// to. Replaying Move from any other form of the source position can be
	// wrong when en passant participates.
	SourceFull string

	Annotation string
}

// ErrBadKey wraps key normalization failures. Callers can distinguish this
// from a plain "not found", which is a valid negative result.
var ErrBadKey = errors.New("bad position key")

// Graph is the opening repertoire store. It is a single-owner mutable
// structure: every mutating method rebuilds the lookup indices before
// returning, so re-entrant reads triggered synchronously by a mutation never
// observe a half-updated index.
type Graph struct {
	nodes []Node
	edges []Edge

	byKey  map[string]NodeID
	byPair map[[2]NodeID]EdgeID

	// generation increments on any structural change. Layout caches key on
	// it to invalidate themselves.
	generation uint64
}

// New creates a graph holding only the root node.
func New() *Graph {
	g := &Graph{
		byKey:  make(map[string]NodeID),
		byPair: make(map[[2]NodeID]EdgeID),
	}
	g.nodes = append(g.nodes, Node{Key: fen.Start})
	g.byKey[fen.Start] = Root
	return g
}

// Generation returns the structural change counter.
func (g *Graph) Generation() uint64 { return g.generation }

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node for id. The id must be live.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// Edges returns the live edges in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Graph) Edges() []Edge { return g.edges }

// Nodes returns the live nodes in id order. The slice is shared; callers
// must not mutate it.
func (g *Graph) Nodes() []Node { return g.nodes }

// Lookup resolves a key to a node id without creating anything.
func (g *Graph) Lookup(key string) (NodeID, bool) {
	norm, err := fen.Normalize(key)
	if err != nil {
		return 0, false
	}
	id, ok := g.byKey[norm]
	return id, ok
}

// EnsureNode normalizes key and returns the existing node id, creating the
// node on first reference.
func (g *Graph) EnsureNode(key string) (NodeID, error) {
	norm, err := fen.Normalize(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	if id, ok := g.byKey[norm]; ok {
		return id, nil
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Key: norm})
	g.byKey[norm] = id
	g.generation++
	return id, nil
}

// UpsertEdge ensures both endpoint nodes and creates or updates the edge
// between them. A repeated insertion for the same ordered pair updates the
// payload in place, last non-empty write wins.
func (g *Graph) UpsertEdge(sourceKey, targetKey, move, annotation, sourceFull string) (EdgeID, error) {
	src, err := g.EnsureNode(sourceKey)
	if err != nil {
		return 0, fmt.Errorf("source: %w", err)
	}
	dst, err := g.EnsureNode(targetKey)
	if err != nil {
		return 0, fmt.Errorf("target: %w", err)
	}

	pair := [2]NodeID{src, dst}
	if id, ok := g.byPair[pair]; ok {
		e := &g.edges[id]
		if move != "" {
			e.Move = move
		}
		if annotation != "" {
			e.Annotation = annotation
		}
		if sourceFull != "" {
			e.SourceFull = sourceFull
		}
		g.generation++
		return id, nil
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{
		Source:     src,
		Target:     dst,
		Move:       move,
		SourceFull: sourceFull,
		Annotation: annotation,
	})
	g.byPair[pair] = id
	g.generation++
	return id, nil
}

// EdgeBetween returns the edge for an ordered node pair.
func (g *Graph) EdgeBetween(src, dst NodeID) (Edge, bool) {
	id, ok := g.byPair[[2]NodeID{src, dst}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[id], true
}

// Children returns the target keys of all edges sourced at key's node, in
// insertion order. A missing node yields an empty slice, not an error.
func (g *Graph) Children(key string) []string {
	id, ok := g.Lookup(key)
	if !ok {
		return nil
	}
	var out []string
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, g.nodes[e.Target].Key)
		}
	}
	return out
}

// Parent returns the source key of the first-inserted incoming edge.
// Transposition nodes have several parents; first insertion is the
// deterministic tie-break.
func (g *Graph) Parent(key string) (string, bool) {
	id, ok := g.Lookup(key)
	if !ok {
		return "", false
	}
	for _, e := range g.edges {
		if e.Target == id {
			return g.nodes[e.Source].Key, true
		}
	}
	return "", false
}

// OutEdges returns the live edges sourced at id, in insertion order.
func (g *Graph) OutEdges(id NodeID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// InDegree returns the number of incoming edges on id.
func (g *Graph) InDegree(id NodeID) int {
	n := 0
	for _, e := range g.edges {
		if e.Target == id {
			n++
		}
	}
	return n
}

// PruneFutureFrom removes every edge sourced at id, then removes nodes that
// became unreachable. The node itself survives.
func (g *Graph) PruneFutureFrom(id NodeID) {
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	g.rebuildPairIndex()
	g.RemoveOrphans()
}

// RemoveOrphans drops every node unreachable from the root (the root itself
// always stays) and every edge touching a dropped node, then reindexes the
// arenas so ids stay dense. Both indices are rebuilt before returning; a
// stale lookup after a mutation is a bug this method's contract rules out.
func (g *Graph) RemoveOrphans() {
	reachable := make([]bool, len(g.nodes))
	reachable[Root] = true

	// Forward traversal over current edges. Iterate to a fixed point so
	// edge order does not matter.
	for changed := true; changed; {
		changed = false
		for _, e := range g.edges {
			if reachable[e.Source] && !reachable[e.Target] {
				reachable[e.Target] = true
				changed = true
			}
		}
	}

	remap := make([]NodeID, len(g.nodes))
	kept := g.nodes[:0]
	for id, n := range g.nodes {
		if !reachable[id] {
			remap[id] = -1
			continue
		}
		remap[id] = NodeID(len(kept))
		kept = append(kept, n)
	}
	g.nodes = kept

	keptEdges := g.edges[:0]
	for _, e := range g.edges {
		if remap[e.Source] < 0 || remap[e.Target] < 0 {
			continue
		}
		e.Source = remap[e.Source]
		e.Target = remap[e.Target]
		keptEdges = append(keptEdges, e)
	}
	g.edges = keptEdges

	g.byKey = make(map[string]NodeID, len(g.nodes))
	for id, n := range g.nodes {
		g.byKey[n.Key] = NodeID(id)
	}
	g.rebuildPairIndex()
	g.generation++
}

// Reset drops everything but the root.
func (g *Graph) Reset() {
	g.nodes = g.nodes[:1]
	g.edges = g.edges[:0]
	g.byKey = map[string]NodeID{fen.Start: Root}
	g.byPair = make(map[[2]NodeID]EdgeID)
	g.generation++
}

// Terminals returns the ids of nodes with no outgoing edges.
func (g *Graph) Terminals() []NodeID {
	hasOut := make([]bool, len(g.nodes))
	for _, e := range g.edges {
		hasOut[e.Source] = true
	}
	var out []NodeID
	for id := range g.nodes {
		if !hasOut[id] {
			out = append(out, NodeID(id))
		}
	}
	return out
}

func (g *Graph) rebuildPairIndex() {
	g.byPair = make(map[[2]NodeID]EdgeID, len(g.edges))
	for id, e := range g.edges {
		g.byPair[[2]NodeID{e.Source, e.Target}] = EdgeID(id)
	}
}
