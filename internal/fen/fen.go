// Package fen implements the position key scheme used by the opening graph.
//
// Graph nodes are identified by a normalized FEN: the en-passant target and
// both move counters are replaced with fixed placeholders so that positions
// reached via different move orders collapse to one node. The full FEN, with
// the real en-passant square, is kept on edges for move replay only.
package fen

import (
	"errors"
	"fmt"
	"strings"
)

// Start is the sentinel key for the initial position. It survives
// normalization unchanged and is the root of every opening graph.
const Start = "start"

// StartFEN is the full FEN of the initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrMalformed is returned for keys that are neither the start sentinel nor
// a six-field FEN string.
var ErrMalformed = errors.New("malformed position key")

// Normalize canonicalizes a position key for use as a node identity.
// The en-passant field becomes "-", the halfmove clock "0" and the fullmove
// number "1". Normalization is idempotent. The start sentinel passes through.
//
// Two positions that differ only in en-passant rights normalize identically;
// that merge is an accepted approximation, not a defect.
func Normalize(key string) (string, error) {
	if key == Start {
		return Start, nil
	}
	parts := strings.Fields(key)
	if len(parts) != 6 {
		return "", fmt.Errorf("%w: %q has %d fields, want 6", ErrMalformed, key, len(parts))
	}
	parts[3] = "-"
	parts[4] = "0"
	parts[5] = "1"
	norm := strings.Join(parts, " ")
	if norm == StartFEN {
		return Start, nil
	}
	return norm, nil
}

// IdentityKey reduces a key to the fields that define the position itself:
// piece placement, side to move and castling rights, with the bookkeeping
// fields pinned. Used for fuzzy matching of externally supplied layout and
// evaluation lines whose counters may disagree with ours.
func IdentityKey(key string) string {
	if key == Start {
		return StartFEN
	}
	parts := strings.Fields(key)
	if len(parts) < 3 {
		return key
	}
	return strings.Join(parts[:3], " ") + " - 0 1"
}

// Expand maps the start sentinel to the full starting FEN; any other key is
// returned as-is. The result is suitable for feeding a chess engine.
func Expand(key string) string {
	if key == Start {
		return StartFEN
	}
	return key
}

// Valid reports whether key can serve as a position key at all.
func Valid(key string) bool {
	if key == Start {
		return true
	}
	return len(strings.Fields(key)) == 6
}
