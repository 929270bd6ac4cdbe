package opening

import (
	"fmt"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/oracle"
)

// Step is one ply of a practice path.
type Step struct {
	Move       string // SAN that was played to reach this step
	Key        string // normalized key of the resulting position
	FullFEN    string // replayable full FEN of the resulting position
	Annotation string
}

// Path is one root-to-terminal line. Steps are ordered from the first move;
// the root itself is implicit.
type Path struct {
	Steps []Step
}

// Terminal returns the normalized key of the line's final position.
func (p Path) Terminal() string {
	if len(p.Steps) == 0 {
		return fen.Start
	}
	return p.Steps[len(p.Steps)-1].Key
}

// EnumeratePaths walks the graph depth-first from the root and emits one
// Path per distinct root-to-terminal walk, in edge insertion order at every
// branch point. A transposition node is visited once per incoming path.
//
// Each step's full FEN is reconstructed by replaying the edge's move from
// the edge's stored source FEN, never from the normalized node key: the node
// key has lost en passant and is a topology identifier, not a position.
//
// A root-only graph yields no paths; that is the "nothing to practice"
// condition, not an error.
func EnumeratePaths(g *Graph, o oracle.Oracle) ([]Path, error) {
	if g.EdgeCount() == 0 {
		return nil, nil
	}

	// Outgoing adjacency in insertion order.
	out := make([][]Edge, g.NodeCount())
	for _, e := range g.Edges() {
		out[e.Source] = append(out[e.Source], e)
	}

	var paths []Path
	var walk func(id NodeID, prefix []Step) error
	walk = func(id NodeID, prefix []Step) error {
		if len(out[id]) == 0 {
			steps := make([]Step, len(prefix))
			copy(steps, prefix)
			paths = append(paths, Path{Steps: steps})
			return nil
		}
		for _, e := range out[id] {
			source := e.SourceFull
			if source == "" {
				// Legacy edge with no recorded source FEN; the normalized key
				// is the best we have. En passant may be lost here.
				source = g.Node(e.Source).Key
			}
			move := e.Move
			var full string
			if move == "" {
				// Legacy edge without a recorded move.
				lm, ok := deriveMove(o, source, g.Node(e.Target).Key)
				if !ok {
					return fmt.Errorf("no legal move connects %q to %q", source, g.Node(e.Target).Key)
				}
				move, full = lm.SAN, lm.ResultFEN
			} else {
				var err error
				full, err = o.Apply(source, move)
				if err != nil {
					return fmt.Errorf("replay %q from %q: %w", move, source, err)
				}
			}
			step := Step{
				Move:       move,
				Key:        g.Node(e.Target).Key,
				FullFEN:    full,
				Annotation: e.Annotation,
			}
			if err := walk(e.Target, append(prefix, step)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(Root, nil); err != nil {
		return nil, err
	}
	return paths, nil
}
