// Package practice drills a player through the lines of a repertoire. A
// session walks one enumerated path; the trainee supplies the moves for
// their color and the session plays the opponent's replies.
package practice

import (
	"strings"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/opening"
)

// Session drills a single line. The zero value is not usable; construct
// with NewSession.
type Session struct {
	path     opening.Path
	color    string // "white" or "black"
	idx      int    // next step to play
	attempts int
	correct  int
}

// NewSession starts a drill over path for the given color.
func NewSession(path opening.Path, color string) *Session {
	if color != "black" {
		color = "white"
	}
	return &Session{path: path, color: color}
}

// Color returns the side being trained.
func (s *Session) Color() string { return s.color }

// Done reports whether the line has been played out.
func (s *Session) Done() bool { return s.idx >= len(s.path.Steps) }

// Position returns the full key of the position the trainee is looking at.
func (s *Session) Position() string {
	if s.idx == 0 {
		return fen.Start
	}
	return s.path.Steps[s.idx-1].FullFEN
}

// traineeToMove reports whether the next step belongs to the trained color.
// Step 0 is white's move.
func (s *Session) traineeToMove() bool {
	white := s.idx%2 == 0
	return white == (s.color == "white")
}

// AdvanceOpponent plays the opponent's moves up to the trainee's next turn
// (or the end of the line) and returns the steps played.
func (s *Session) AdvanceOpponent() []opening.Step {
	var played []opening.Step
	for !s.Done() && !s.traineeToMove() {
		played = append(played, s.path.Steps[s.idx])
		s.idx++
	}
	return played
}

// Try checks san against the expected move for the trainee's turn. A correct
// answer advances the line; a wrong one only counts the attempt. The
// returned step is the expected one either way so callers can reveal it.
func (s *Session) Try(san string) (bool, opening.Step) {
	if s.Done() || !s.traineeToMove() {
		return false, opening.Step{}
	}
	step := s.path.Steps[s.idx]
	s.attempts++
	if bare(san) != bare(step.Move) {
		return false, step
	}
	s.correct++
	s.idx++
	return true, step
}

// Score returns how many answers were attempted and how many were right.
func (s *Session) Score() (attempts, correct int) { return s.attempts, s.correct }

// Signature identifies the drilled line: its moves joined by spaces.
func (s *Session) Signature() string {
	moves := make([]string, len(s.path.Steps))
	for i, step := range s.path.Steps {
		moves[i] = step.Move
	}
	return strings.Join(moves, " ")
}

// bare strips check decoration so "Qxf7#" matches "Qxf7".
func bare(san string) string {
	return strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(san), "#"), "+")
}
