package layout

import (
	"testing"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

func buildLine(t *testing.T, g *opening.Graph, moves ...string) {
	t.Helper()
	o := oracle.New()
	cur := fen.Start
	for _, san := range moves {
		next, err := o.Apply(cur, san)
		if err != nil {
			t.Fatalf("apply %s: %v", san, err)
		}
		if _, err := g.UpsertEdge(cur, next, san, "", cur); err != nil {
			t.Fatal(err)
		}
		cur = next
	}
}

func TestLayeredRanksFollowDepth(t *testing.T) {
	g := opening.New()
	buildLine(t, g, "e4", "e5")
	buildLine(t, g, "d4")

	points := DefaultLayered().Layout(g)
	if len(points) != g.NodeCount() {
		t.Fatalf("points = %d, want %d", len(points), g.NodeCount())
	}

	rootY := points[fen.Start].Y
	if rootY != 0 {
		t.Errorf("root Y = %g, want 0", rootY)
	}
	for _, e := range g.Edges() {
		src := points[g.Node(e.Source).Key]
		dst := points[g.Node(e.Target).Key]
		if dst.Y <= src.Y {
			t.Errorf("edge %s: target Y %g not below source Y %g", e.Move, dst.Y, src.Y)
		}
	}
}

func TestLayeredSiblingsSpread(t *testing.T) {
	g := opening.New()
	buildLine(t, g, "e4")
	buildLine(t, g, "d4")

	points := DefaultLayered().Layout(g)
	var rank1 []opening.Point
	for _, n := range g.Nodes() {
		if n.Key != fen.Start {
			rank1 = append(rank1, points[n.Key])
		}
	}
	if len(rank1) != 2 {
		t.Fatalf("rank 1 nodes = %d", len(rank1))
	}
	if rank1[0].X == rank1[1].X {
		t.Error("siblings share an X coordinate")
	}
	if rank1[0].Y != rank1[1].Y {
		t.Error("siblings landed on different ranks")
	}
}

func TestLayeredDeterministic(t *testing.T) {
	g := opening.New()
	buildLine(t, g, "e4", "e5", "Nf3")
	buildLine(t, g, "d4", "d5")

	a := DefaultLayered().Layout(g)
	b := DefaultLayered().Layout(g)
	for k, p := range a {
		if b[k] != p {
			t.Fatalf("layout not deterministic at %q: %+v vs %+v", k, p, b[k])
		}
	}
}

func TestCacheInvalidatesOnMutation(t *testing.T) {
	g := opening.New()
	buildLine(t, g, "e4")

	cache := NewCache(DefaultLayered())
	first := cache.Get(g)
	if len(first) != 2 {
		t.Fatalf("points = %d", len(first))
	}
	if second := cache.Get(g); len(second) != len(first) {
		t.Error("cache returned different layout for unchanged graph")
	}

	buildLine(t, g, "d4")
	third := cache.Get(g)
	if len(third) != 3 {
		t.Errorf("stale layout after mutation: %d points", len(third))
	}
}
