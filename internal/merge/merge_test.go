package merge

import (
	"strings"
	"testing"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

func apply(t *testing.T, o oracle.Oracle, key, san string) string {
	t.Helper()
	next, err := o.Apply(key, san)
	if err != nil {
		t.Fatalf("apply %q from %q: %v", san, key, err)
	}
	return next
}

func buildDoc(t *testing.T, o oracle.Oracle, title string, lines ...[]string) *opening.Document {
	t.Helper()
	doc := opening.NewDocument(title)
	for _, line := range lines {
		cur := fen.Start
		for _, san := range line {
			next, err := o.Apply(cur, san)
			if err != nil {
				t.Fatalf("apply %q from %q: %v", san, cur, err)
			}
			if _, err := doc.Graph.UpsertEdge(cur, next, san, "", cur); err != nil {
				t.Fatalf("upsert %q: %v", san, err)
			}
			cur = next
		}
	}
	return doc
}

func TestDocumentsRequiresTwo(t *testing.T) {
	o := oracle.New()
	doc := buildDoc(t, o, "One", []string{"e4"})
	if _, err := Documents(o, doc); err == nil {
		t.Fatal("expected error merging a single document")
	}
}

func TestDocumentsUnionAndDedupe(t *testing.T) {
	o := oracle.New()
	a := buildDoc(t, o, "Italian", []string{"e4", "e5", "Nf3"})
	b := buildDoc(t, o, "Vienna", []string{"e4", "e5", "Nc3"})

	res, err := Documents(o, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 0 {
		t.Fatalf("skipped = %d, want 0", res.Skipped)
	}
	// e4 and e5 are shared; only Nf3 vs Nc3 differ.
	if res.Transitions != 4 {
		t.Fatalf("transitions = %d, want 4", res.Transitions)
	}
	if got := res.Doc.Graph.EdgeCount(); got != 4 {
		t.Fatalf("edge count = %d, want 4", got)
	}
	if want := "Italian + Vienna"; res.Doc.Title != want {
		t.Fatalf("title = %q, want %q", res.Doc.Title, want)
	}
}

func TestDocumentsJoinsAnnotations(t *testing.T) {
	o := oracle.New()
	a := buildDoc(t, o, "A", []string{"e4"})
	b := buildDoc(t, o, "B", []string{"e4"})
	next := apply(t, o, fen.Start, "e4")
	a.Graph.UpsertEdge(fen.Start, next, "e4", "king pawn", fen.Start)
	b.Graph.UpsertEdge(fen.Start, next, "e4", "main line", fen.Start)

	res, err := Documents(o, a, b)
	if err != nil {
		t.Fatal(err)
	}
	edges := res.Doc.Graph.Edges()
	if len(edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(edges))
	}
	if want := "king pawn | main line"; edges[0].Annotation != want {
		t.Fatalf("annotation = %q, want %q", edges[0].Annotation, want)
	}
}

func TestDocumentsSkipsContainedAnnotation(t *testing.T) {
	o := oracle.New()
	a := buildDoc(t, o, "A", []string{"e4"})
	b := buildDoc(t, o, "B", []string{"e4"})
	next := apply(t, o, fen.Start, "e4")
	a.Graph.UpsertEdge(fen.Start, next, "e4", "main line for white", fen.Start)
	b.Graph.UpsertEdge(fen.Start, next, "e4", "main line", fen.Start)

	res, err := Documents(o, a, b)
	if err != nil {
		t.Fatal(err)
	}
	edges := res.Doc.Graph.Edges()
	if want := "main line for white"; edges[0].Annotation != want {
		t.Fatalf("annotation = %q, want %q", edges[0].Annotation, want)
	}
}

func TestDocumentsOrderStartFirst(t *testing.T) {
	o := oracle.New()
	a := buildDoc(t, o, "A", []string{"d4", "d5", "c4"})
	b := buildDoc(t, o, "B", []string{"e4", "c5"})

	res, err := Documents(o, a, b)
	if err != nil {
		t.Fatal(err)
	}
	edges := res.Doc.Graph.Edges()
	if len(edges) < 2 {
		t.Fatalf("edge count = %d", len(edges))
	}
	// All start-sourced transitions come before the rest.
	sawDeep := false
	for _, e := range edges {
		if e.SourceFull == fen.Start {
			if sawDeep {
				t.Fatal("start-sourced transition after deeper transition")
			}
			continue
		}
		sawDeep = true
	}
	// d4 sorts before e4 within the start group.
	if edges[0].Move != "d4" || edges[1].Move != "e4" {
		t.Fatalf("start moves = %q, %q; want d4, e4", edges[0].Move, edges[1].Move)
	}
}

func TestDocumentsDropsLayout(t *testing.T) {
	o := oracle.New()
	a := buildDoc(t, o, "A", []string{"e4"})
	b := buildDoc(t, o, "B", []string{"d4"})
	a.SetLayout(fen.Start, opening.Point{X: 400, Y: 0})

	res, err := Documents(o, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Doc.LayoutFor(fen.Start); ok {
		t.Fatal("layout survived a merge")
	}
	if !strings.Contains(res.Doc.Title, " + ") {
		t.Fatalf("title = %q", res.Doc.Title)
	}
}
