package opening

import (
	"errors"

	"github.com/freeeve/repertoire/internal/fen"
)

// History is the linear undo/redo log of visited positions. It records
// normalized keys; stepping backward prunes the graph's future from the new
// current node, stepping forward re-inserts the recorded edge.
type History struct {
	entries []entry
	index   int

	// replaying suppresses Visit while Undo/Redo move the cursor; a replayed
	// arrival is not a new visit.
	replaying bool
}

type entry struct {
	key string // normalized key of the visited node

	// Redo needs enough to rebuild the edge from the previous entry:
	// the move, its annotation and the full FEN it was applied to.
	move       string
	annotation string
	sourceFull string
}

// ErrNoPast is returned by Undo at the start of history.
var ErrNoPast = errors.New("nothing to undo")

// ErrNoFuture is returned by Redo at the end of history.
var ErrNoFuture = errors.New("nothing to redo")

// NewHistory returns a history positioned on the root.
func NewHistory() *History {
	return &History{entries: []entry{{key: fen.Start}}}
}

// Current returns the key under the cursor.
func (h *History) Current() string { return h.entries[h.index].key }

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position.
func (h *History) Index() int { return h.index }

// CanUndo reports whether the cursor can move backward.
func (h *History) CanUndo() bool { return h.index > 0 }

// CanRedo reports whether a previously recorded future is still ahead of
// the cursor.
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Visit records arrival at key via move (with its annotation and source full
// FEN). Anything after the cursor is truncated first: a new visit after an
// undo permanently discards the old future.
func (h *History) Visit(key, move, annotation, sourceFull string) error {
	if h.replaying {
		return nil
	}
	norm, err := fen.Normalize(key)
	if err != nil {
		return err
	}
	h.entries = h.entries[:h.index+1]
	h.entries = append(h.entries, entry{
		key:        norm,
		move:       move,
		annotation: annotation,
		sourceFull: sourceFull,
	})
	h.index = len(h.entries) - 1
	return nil
}

// Undo steps the cursor back one entry and prunes g's future from the new
// current node. The pruned branch stays replayable through Redo because the
// history retains the edge payloads. Returns the new current key.
func (h *History) Undo(g *Graph) (string, error) {
	if !h.CanUndo() {
		return "", ErrNoPast
	}
	h.replaying = true
	defer func() { h.replaying = false }()

	h.index--
	cur := h.entries[h.index].key
	if id, ok := g.Lookup(cur); ok {
		g.PruneFutureFrom(id)
	}
	return cur, nil
}

// Redo re-inserts the edge from the current entry to the next one via
// UpsertEdge and advances the cursor. Returns the new current key.
func (h *History) Redo(g *Graph) (string, error) {
	if !h.CanRedo() {
		return "", ErrNoFuture
	}
	h.replaying = true
	defer func() { h.replaying = false }()

	next := h.entries[h.index+1]
	if _, err := g.UpsertEdge(h.entries[h.index].key, next.key, next.move, next.annotation, next.sourceFull); err != nil {
		return "", err
	}
	h.index++
	return next.key, nil
}
