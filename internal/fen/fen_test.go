package fen

import "testing"

func TestNormalizeStripsEphemeralFields(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"en passant cleared",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
		},
		{
			"move counters reset",
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 4 12",
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 1",
		},
		{
			"start sentinel passes through",
			"start",
			"start",
		},
		{
			"starting FEN collapses to sentinel",
			"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			"start",
		},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if err != nil {
			t.Fatalf("%s: Normalize: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: Normalize = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	keys := []string{
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"start",
	}
	for _, k := range keys {
		once, err := Normalize(k)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", k, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)): %v", k, err)
		}
		if once != twice {
			t.Errorf("not idempotent: %q -> %q -> %q", k, once, twice)
		}
	}
}

func TestNormalizeDistinguishesRealDifferences(t *testing.T) {
	// Same placement, different side to move.
	a, _ := Normalize("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	b, _ := Normalize("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	if a == b {
		t.Error("positions differing in turn normalized identically")
	}

	// Same placement and turn, different castling rights.
	c, _ := Normalize("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQ - 0 1")
	if a == c {
		t.Error("positions differing in castling rights normalized identically")
	}
}

func TestNormalizeMalformed(t *testing.T) {
	for _, bad := range []string{"", "not a fen", "a b c d e", "a b c d e f g"} {
		if _, err := Normalize(bad); err == nil {
			t.Errorf("Normalize(%q) = nil error, want ErrMalformed", bad)
		}
	}
}

func TestIdentityKeyIgnoresBookkeeping(t *testing.T) {
	a := IdentityKey("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	b := IdentityKey("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 7 42")
	if a != b {
		t.Errorf("IdentityKey mismatch: %q vs %q", a, b)
	}
	if IdentityKey(Start) != StartFEN {
		t.Errorf("IdentityKey(start) = %q", IdentityKey(Start))
	}
}

func TestExpand(t *testing.T) {
	if Expand(Start) != StartFEN {
		t.Errorf("Expand(start) = %q", Expand(Start))
	}
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if Expand(fen) != fen {
		t.Errorf("Expand mangled a full FEN")
	}
}
