package eval

import (
	"testing"

	"github.com/freeeve/repertoire/internal/fen"
)

func TestVerdictWhiteToMove(t *testing.T) {
	ev := verdict(fen.StartFEN, 35, false)
	if ev.Side != "white" || ev.Mate != 0 {
		t.Fatalf("verdict = %+v", ev)
	}
	if ev.Pawns != 0.35 {
		t.Fatalf("pawns = %v, want 0.35", ev.Pawns)
	}
}

func TestVerdictNegativeScoreFlipsSide(t *testing.T) {
	ev := verdict(fen.StartFEN, -120, false)
	if ev.Side != "black" {
		t.Fatalf("side = %q, want black", ev.Side)
	}
	if ev.Pawns != 1.20 {
		t.Fatalf("pawns = %v, want 1.20", ev.Pawns)
	}
}

func TestVerdictBlackToMove(t *testing.T) {
	after := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	ev := verdict(after, 25, false)
	if ev.Side != "black" {
		t.Fatalf("side = %q, want black", ev.Side)
	}
	ev = verdict(after, -25, false)
	if ev.Side != "white" {
		t.Fatalf("side = %q, want white", ev.Side)
	}
}

func TestVerdictMate(t *testing.T) {
	ev := verdict(fen.StartFEN, 3, true)
	if ev.Side != "white" || ev.Mate != 3 || ev.Pawns != 0 {
		t.Fatalf("verdict = %+v", ev)
	}
	if got, want := ev.String(), "white M3"; got != want {
		t.Fatalf("string = %q, want %q", got, want)
	}
	ev = verdict(fen.StartFEN, -2, true)
	if ev.Side != "black" || ev.Mate != 2 {
		t.Fatalf("verdict = %+v", ev)
	}
}
