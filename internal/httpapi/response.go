package httpapi

import (
	"github.com/freeeve/repertoire/internal/eco"
	"github.com/freeeve/repertoire/internal/layout"
	"github.com/freeeve/repertoire/internal/opening"
)

// NodeResponse is one position of a repertoire graph.
type NodeResponse struct {
	Key  string  `json:"key"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Eval string  `json:"eval,omitempty"`
	ECO  string  `json:"eco,omitempty"`
	Name string  `json:"name,omitempty"`
}

// EdgeResponse is one transition of a repertoire graph.
type EdgeResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Move       string `json:"move,omitempty"`
	Annotation string `json:"annotation,omitempty"`
}

// GraphResponse is the JSON rendering of a whole repertoire.
type GraphResponse struct {
	Title string         `json:"title"`
	Color string         `json:"color,omitempty"`
	Nodes []NodeResponse `json:"nodes"`
	Edges []EdgeResponse `json:"edges"`
}

// PathResponse is one playable line through a repertoire.
type PathResponse struct {
	Moves      []string `json:"moves"`
	FinalFEN   string   `json:"final_fen"`
	Annotation []string `json:"annotations,omitempty"`
}

// ToGraphResponse flattens a document. Stored coordinates win; positions the
// file never placed get their point from the layout service.
func ToGraphResponse(doc *opening.Document, svc layout.Service, ecoDB *eco.Database) *GraphResponse {
	g := doc.Graph
	resp := &GraphResponse{
		Title: doc.Title,
		Color: doc.Color,
		Nodes: make([]NodeResponse, 0, g.NodeCount()),
		Edges: make([]EdgeResponse, 0, g.EdgeCount()),
	}

	computed := svc.Layout(g)
	for _, n := range g.Nodes() {
		nr := NodeResponse{Key: n.Key}
		if p, ok := doc.LayoutFor(n.Key); ok {
			nr.X, nr.Y = p.X, p.Y
		} else if p, ok := computed[n.Key]; ok {
			nr.X, nr.Y = p.X, p.Y
		}
		if ev, ok := doc.EvaluationFor(n.Key); ok {
			nr.Eval = ev.String()
		}
		if ecoDB != nil {
			if o := ecoDB.Lookup(n.Key); o != nil {
				nr.ECO = o.ECO
				nr.Name = o.Name
			}
		}
		resp.Nodes = append(resp.Nodes, nr)
	}

	for _, e := range g.Edges() {
		resp.Edges = append(resp.Edges, EdgeResponse{
			From:       g.Node(e.Source).Key,
			To:         g.Node(e.Target).Key,
			Move:       e.Move,
			Annotation: e.Annotation,
		})
	}
	return resp
}

// ToPathResponses flattens enumerated lines.
func ToPathResponses(paths []opening.Path) []PathResponse {
	out := make([]PathResponse, 0, len(paths))
	for _, p := range paths {
		pr := PathResponse{Moves: make([]string, 0, len(p.Steps))}
		for _, s := range p.Steps {
			pr.Moves = append(pr.Moves, s.Move)
			if s.Annotation != "" {
				pr.Annotation = append(pr.Annotation, s.Annotation)
			}
		}
		if n := len(p.Steps); n > 0 {
			pr.FinalFEN = p.Steps[n-1].FullFEN
		}
		out = append(out, pr)
	}
	return out
}
