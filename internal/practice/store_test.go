package practice

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "practice.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRecordAccumulates(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record("Italian", "e4 e5 Nf3", 3, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("Italian", "e4 e5 Nf3", 2, 2); err != nil {
		t.Fatal(err)
	}

	lines, err := s.Lines("Italian")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(lines))
	}
	if lines[0].Attempts != 5 || lines[0].Correct != 4 {
		t.Fatalf("stats = %d/%d, want 4/5", lines[0].Correct, lines[0].Attempts)
	}
	if lines[0].LastSeen.IsZero() {
		t.Fatal("last seen not recorded")
	}
}

func TestStoreWeakestOrdering(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record("Italian", "e4 e5 Nf3", 4, 4); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("Italian", "e4 e5 Bc4", 4, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("Sicilian", "e4 c5", 4, 2); err != nil {
		t.Fatal(err)
	}

	weak, err := s.Weakest(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(weak) != 2 {
		t.Fatalf("weakest = %d entries, want 2", len(weak))
	}
	if weak[0].Line != "e4 e5 Bc4" {
		t.Fatalf("weakest line = %q", weak[0].Line)
	}
	if weak[1].Opening != "Sicilian" {
		t.Fatalf("second weakest = %q", weak[1].Opening)
	}
	if acc := weak[0].Accuracy(); acc != 0.25 {
		t.Fatalf("accuracy = %v, want 0.25", acc)
	}
}

func TestStoreLinesScopedByOpening(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record("Italian", "e4 e5 Nf3", 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("Sicilian", "e4 c5", 1, 0); err != nil {
		t.Fatal(err)
	}

	lines, err := s.Lines("Sicilian")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].Line != "e4 c5" {
		t.Fatalf("lines = %v", lines)
	}
}
