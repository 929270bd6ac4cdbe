package opening

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/oracle"
)

const afterE4Full = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"

func TestReadTwoMoveFile(t *testing.T) {
	input := "v4.0\n" +
		"= Test Opening\n" +
		"start -> e4\n" +
		afterE4Full + " -> e5\n"

	doc, sum, err := Read(strings.NewReader(input), oracle.New())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sum.Skipped != 0 {
		t.Fatalf("skipped = %d, warnings: %v", sum.Skipped, sum.Warnings)
	}
	if doc.Title != "Test Opening" {
		t.Errorf("title = %q", doc.Title)
	}
	g := doc.Graph
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("graph = %d nodes, %d edges; want 3, 2", g.NodeCount(), g.EdgeCount())
	}

	paths, err := EnumeratePaths(g, oracle.New())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || len(paths[0].Steps) != 2 {
		t.Fatalf("want one path of length 2, got %d paths", len(paths))
	}
}

func TestReadTranspositionFile(t *testing.T) {
	o := oracle.New()
	afterD4, _ := o.Apply(fen.Start, "d4")
	afterNf3, _ := o.Apply(fen.Start, "Nf3")
	afterD4D5, _ := o.Apply(afterD4, "d5")
	afterNf3D5, _ := o.Apply(afterNf3, "d5")

	input := "v4.0\n" +
		"= Transposition\n" +
		"start -> d4\n" +
		afterD4 + " -> d5\n" +
		afterD4D5 + " -> Nf3\n" +
		"start -> Nf3\n" +
		afterNf3 + " -> d5\n" +
		afterNf3D5 + " -> d4\n"

	doc, sum, err := Read(strings.NewReader(input), o)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sum.Skipped != 0 {
		t.Fatalf("warnings: %v", sum.Warnings)
	}
	g := doc.Graph

	// d4/Nf3 lines: both second moves (d5 by black) produce distinct nodes,
	// but the third-move targets merge.
	merged, _ := o.Apply(afterD4D5, "Nf3")
	id, ok := g.Lookup(merged)
	if !ok {
		t.Fatal("merged node missing")
	}
	if got := g.InDegree(id); got != 2 {
		t.Errorf("merged node in-degree = %d, want 2", got)
	}

	paths, err := EnumeratePaths(g, o)
	if err != nil {
		t.Fatal(err)
	}
	// The merged node is terminal, so exactly two paths exist, diverging at
	// the first move and reconverging at the end.
	if len(paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(paths))
	}
	if paths[0].Steps[0].Move == paths[1].Steps[0].Move {
		t.Error("paths do not diverge at the first move")
	}
	if paths[0].Terminal() != paths[1].Terminal() {
		t.Error("paths do not reconverge on the merged terminal")
	}
}

func TestReadRejectsBadVersion(t *testing.T) {
	input := "v9.9\n= Nope\nstart -> e4\n"
	_, _, err := Read(strings.NewReader(input), oracle.New())
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("err = %v, want ErrUnsupportedVersion", err)
	}
	if err != nil && !strings.Contains(err.Error(), "v9.9") {
		t.Errorf("error does not name the offending version: %v", err)
	}
}

func TestReadRejectsMissingTitle(t *testing.T) {
	for _, input := range []string{"v4.0\n", "v4.0\nstart -> e4\n", "v4.0\n=\n"} {
		if _, _, err := Read(strings.NewReader(input), oracle.New()); !errors.Is(err, ErrBadHeader) {
			t.Errorf("input %q: err = %v, want ErrBadHeader", input, err)
		}
	}
}

func TestReadV41PlayerColor(t *testing.T) {
	input := "v4.1\n= Caro-Kann\nblack\nstart -> e4\n"
	doc, _, err := Read(strings.NewReader(input), oracle.New())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.Color != "black" {
		t.Errorf("color = %q, want black", doc.Color)
	}

	bad := "v4.1\n= Broken\npurple\nstart -> e4\n"
	if _, _, err := Read(strings.NewReader(bad), oracle.New()); !errors.Is(err, ErrBadHeader) {
		t.Errorf("bad color: err = %v, want ErrBadHeader", err)
	}
}

func TestReadSkipsBadLinesAndCounts(t *testing.T) {
	input := "v4.0\n" +
		"= Mixed\n" +
		"start -> e4\n" +
		"start -> Zz9\n" + // illegal move
		"gibberish without arrow or colon\n" +
		afterE4Full + " -> e5\n"

	doc, sum, err := Read(strings.NewReader(input), oracle.New())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sum.Skipped != 2 {
		t.Errorf("skipped = %d, want 2 (%v)", sum.Skipped, sum.Warnings)
	}
	if doc.Graph.EdgeCount() != 2 {
		t.Errorf("edge count = %d, want 2", doc.Graph.EdgeCount())
	}
}

func TestReadAnnotationsAttachToNextTransition(t *testing.T) {
	input := "v4.0\n" +
		"= Annotated\n" +
		"# The king's pawn.\n" +
		"# Solid and principled.\n" +
		"start -> e4\n" +
		afterE4Full + " -> e5\n"

	doc, _, err := Read(strings.NewReader(input), oracle.New())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	edges := doc.Graph.Edges()
	if edges[0].Annotation != "The king's pawn. Solid and principled." {
		t.Errorf("annotation = %q", edges[0].Annotation)
	}
	if edges[1].Annotation != "" {
		t.Errorf("annotation leaked onto next edge: %q", edges[1].Annotation)
	}
}

func TestReadLayoutAndEvaluationLines(t *testing.T) {
	norm, _ := fen.Normalize(afterE4Full)
	input := "v4.0\n" +
		"= With Layout\n" +
		"start : 100, 50\n" +
		norm + " : 120.5, 200, white +0.30\n" +
		"start -> e4\n"

	doc, sum, err := Read(strings.NewReader(input), oracle.New())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sum.Skipped != 0 {
		t.Fatalf("warnings: %v", sum.Warnings)
	}
	if p, ok := doc.LayoutFor(fen.Start); !ok || p.X != 100 || p.Y != 50 {
		t.Errorf("start layout = %+v, ok=%v", p, ok)
	}
	// Fuzzy keyed: lookup through the full key works too.
	if p, ok := doc.LayoutFor(afterE4Full); !ok || p.X != 120.5 {
		t.Errorf("afterE4 layout = %+v, ok=%v", p, ok)
	}
	ev, ok := doc.EvaluationFor(afterE4Full)
	if !ok || ev.Side != "white" || ev.Pawns != 0.30 || ev.Mate != 0 {
		t.Errorf("evaluation = %+v, ok=%v", ev, ok)
	}
}

func TestReadLegacyFullKeyTransition(t *testing.T) {
	norm, _ := fen.Normalize(afterE4Full)
	input := "v4.0\n" +
		"= Legacy\n" +
		"start -> " + norm + "\n"

	doc, sum, err := Read(strings.NewReader(input), oracle.New())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if sum.Skipped != 0 {
		t.Fatalf("warnings: %v", sum.Warnings)
	}
	if doc.Graph.EdgeCount() != 1 {
		t.Fatalf("edge count = %d", doc.Graph.EdgeCount())
	}
	if doc.Graph.Edges()[0].Move != "" {
		t.Errorf("legacy edge recorded a move: %q", doc.Graph.Edges()[0].Move)
	}
}

func TestWriteDerivesMoveForLegacyEdges(t *testing.T) {
	o := oracle.New()
	norm, _ := fen.Normalize(afterE4Full)
	input := "v4.0\n= Legacy\nstart -> " + norm + "\n"
	doc, _, err := Read(strings.NewReader(input), o)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, doc, o); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "-> e4\n") {
		t.Errorf("derived move missing from output:\n%s", buf.String())
	}
}

func TestRoundTrip(t *testing.T) {
	o := oracle.New()
	doc := NewDocument("Round Trip")
	doc.Color = "white"

	cur := fen.Start
	for _, san := range []string{"e4", "e5", "Nf3", "Nc6"} {
		next, err := o.Apply(cur, san)
		if err != nil {
			t.Fatal(err)
		}
		ann := ""
		if san == "e4" {
			ann = "main move"
		}
		if _, err := doc.Graph.UpsertEdge(cur, next, san, ann, cur); err != nil {
			t.Fatal(err)
		}
		cur = next
	}
	doc.SetLayout(fen.Start, Point{X: 10, Y: 20})
	doc.SetEvaluation(cur, Evaluation{Side: "white", Pawns: 0.2})

	var buf bytes.Buffer
	if err := Write(&buf, doc, o); err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc2, sum, err := Read(bytes.NewReader(buf.Bytes()), o)
	if err != nil {
		t.Fatalf("Read back: %v", err)
	}
	if sum.Skipped != 0 {
		t.Fatalf("round trip skipped lines: %v", sum.Warnings)
	}

	if doc2.Title != doc.Title || doc2.Color != doc.Color {
		t.Errorf("metadata lost: %q/%q", doc2.Title, doc2.Color)
	}
	if doc2.Graph.NodeCount() != doc.Graph.NodeCount() {
		t.Errorf("nodes: %d vs %d", doc2.Graph.NodeCount(), doc.Graph.NodeCount())
	}
	if doc2.Graph.EdgeCount() != doc.Graph.EdgeCount() {
		t.Errorf("edges: %d vs %d", doc2.Graph.EdgeCount(), doc.Graph.EdgeCount())
	}
	want := edgeSet(doc.Graph)
	got := edgeSet(doc2.Graph)
	for k, mv := range want {
		if got[k] != mv {
			t.Errorf("edge %s: move %q, want %q", k, got[k], mv)
		}
	}
	if doc2.Graph.Edges()[0].Annotation != "main move" {
		t.Errorf("annotation lost: %q", doc2.Graph.Edges()[0].Annotation)
	}

	// A second write must be byte-identical: write(read(write(G))) stable.
	var buf2 bytes.Buffer
	if err := Write(&buf2, doc2, o); err != nil {
		t.Fatal(err)
	}
	if buf.String() != buf2.String() {
		t.Errorf("second write differs:\n%s\nvs\n%s", buf.String(), buf2.String())
	}
}

func TestSaveLoadCompressed(t *testing.T) {
	o := oracle.New()
	doc := NewDocument("Compressed")
	afterE4, _ := o.Apply(fen.Start, "e4")
	doc.Graph.UpsertEdge(fen.Start, afterE4, "e4", "", fen.Start)

	path := filepath.Join(t.TempDir(), "rep.txt.zst")
	if err := Save(path, doc, o); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc2, sum, err := Load(path, o)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sum.Skipped != 0 {
		t.Fatalf("warnings: %v", sum.Warnings)
	}
	if doc2.Graph.EdgeCount() != 1 || doc2.Title != "Compressed" {
		t.Errorf("compressed round trip lost data: %d edges, title %q",
			doc2.Graph.EdgeCount(), doc2.Title)
	}
}
