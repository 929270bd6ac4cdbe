// Package oracle provides the move-legality capability consumed by the
// opening graph. The graph itself never implements chess rules; everything
// rule-shaped goes through this interface so the rules backend stays
// swappable and testable.
package oracle

import (
	"fmt"
	"strings"

	"github.com/freeeve/pgn/v3"

	"github.com/freeeve/repertoire/internal/fen"
)

// LegalMove describes one legal move from a queried position.
type LegalMove struct {
	SAN       string // algebraic notation, e.g. "Nf3", "exd5", "O-O"
	UCI       string // coordinate notation, e.g. "g1f3"
	ResultFEN string // full FEN after the move, en passant preserved
	Capture   bool   // capture or pawn move (irreversible)
	Terminal  bool   // resulting position has no legal replies
}

// Oracle answers move-legality questions about full position keys.
type Oracle interface {
	// Apply plays a SAN move on the position described by fullKey and
	// returns the resulting full FEN. The start sentinel is accepted.
	Apply(fullKey, san string) (string, error)

	// LegalMoves enumerates every legal move from fullKey.
	LegalMoves(fullKey string) ([]LegalMove, error)
}

// Engine is the production Oracle backed by the pgn move generator.
// It is stateless; every call loads the position fresh from the key.
type Engine struct{}

// New returns the pgn-backed oracle.
func New() *Engine { return &Engine{} }

func load(fullKey string) (*pgn.GameState, error) {
	if fullKey == fen.Start {
		return pgn.NewStartingPosition(), nil
	}
	pos, err := pgn.NewGame(fen.Expand(fullKey))
	if err != nil {
		return nil, fmt.Errorf("parse position %q: %w", fullKey, err)
	}
	return pos, nil
}

// Apply plays san on fullKey and returns the resulting full FEN.
func (e *Engine) Apply(fullKey, san string) (string, error) {
	pos, err := load(fullKey)
	if err != nil {
		return "", err
	}
	// ParseSAN rejects decorated tokens; the suffixes carry no information.
	token := strings.TrimSuffix(strings.TrimSuffix(san, "#"), "+")
	mv, err := pgn.ParseSAN(pos, token)
	if err != nil {
		return "", fmt.Errorf("illegal move %q from %q: %w", san, fullKey, err)
	}
	if err := pgn.ApplyMove(pos, mv); err != nil {
		return "", fmt.Errorf("apply %q: %w", san, err)
	}
	return pos.ToFEN(), nil
}

// LegalMoves enumerates the legal moves from fullKey in generator order.
func (e *Engine) LegalMoves(fullKey string) ([]LegalMove, error) {
	pos, err := load(fullKey)
	if err != nil {
		return nil, err
	}
	moves := pgn.GenerateLegalMoves(pos)
	out := make([]LegalMove, 0, len(moves))
	for _, mv := range moves {
		child := pos.Pack().Unpack()
		if child == nil {
			continue
		}
		if err := pgn.ApplyMove(child, mv); err != nil {
			continue
		}
		piece := pos.PieceAt(mv.From)
		isPawn := piece == 'P' || piece == 'p'
		capture := pos.PieceAt(mv.To) != 0 || (isPawn && mv.Flags == flagEnPassant)
		out = append(out, LegalMove{
			SAN:       sanFor(pos, mv),
			UCI:       uciFor(mv),
			ResultFEN: child.ToFEN(),
			Capture:   capture || isPawn,
			Terminal:  len(pgn.GenerateLegalMoves(child)) == 0,
		})
	}
	return out, nil
}
