// Package merge unions several repertoire documents into one. Transitions
// are deduplicated by (source key, move); annotations of duplicates are
// concatenated, titles are joined. Layout and evaluation annotations do not
// survive a merge; they are recomputed downstream.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

// AnnotationSeparator joins differing annotations of a duplicated transition.
const AnnotationSeparator = " | "

// TitleSeparator joins the titles of the merged inputs.
const TitleSeparator = " + "

type transitionKey struct {
	source string
	move   string
}

// Result describes what a merge did.
type Result struct {
	Doc         *opening.Document
	Transitions int // unique transitions in the output
	Skipped     int // transitions that could not be replayed
}

// Documents merges docs in order. Later inputs win nothing: the first
// occurrence of a transition fixes its place in the output, duplicates only
// contribute their annotation.
func Documents(o oracle.Oracle, docs ...*opening.Document) (*Result, error) {
	if len(docs) < 2 {
		return nil, fmt.Errorf("merge needs at least 2 documents, got %d", len(docs))
	}

	annotations := make(map[transitionKey]string)
	var order []transitionKey
	var titles []string
	color := ""

	for _, doc := range docs {
		if doc.Title != "" {
			titles = append(titles, doc.Title)
		}
		if color == "" {
			color = doc.Color
		}
		g := doc.Graph
		for _, e := range g.Edges() {
			source := e.SourceFull
			if source == "" {
				source = g.Node(e.Source).Key
			}
			move := e.Move
			if move == "" {
				// Legacy transition; keep the target key as the right-hand
				// side the way the legacy format does.
				move = g.Node(e.Target).Key
			}
			k := transitionKey{source: source, move: move}
			existing, seen := annotations[k]
			if !seen {
				annotations[k] = e.Annotation
				order = append(order, k)
				continue
			}
			if e.Annotation != "" && existing != "" {
				if !strings.Contains(existing, e.Annotation) {
					annotations[k] = existing + AnnotationSeparator + e.Annotation
				}
			} else if e.Annotation != "" {
				annotations[k] = e.Annotation
			}
		}
	}

	title := "Merged Opening"
	if len(titles) > 0 {
		title = strings.Join(titles, TitleSeparator)
	}

	// Stable output order: start-sourced transitions first, then lexical by
	// source, moves lexical within a source.
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if (a.source == fen.Start) != (b.source == fen.Start) {
			return a.source == fen.Start
		}
		if a.source != b.source {
			return a.source < b.source
		}
		return a.move < b.move
	})

	out := opening.NewDocument(title)
	if color != "" {
		out.Color = color
	}
	res := &Result{Doc: out}

	for _, k := range order {
		target, move := k.move, k.move
		if strings.Contains(k.move, "/") || k.move == fen.Start {
			// Legacy right-hand side is already the target key.
			move = ""
		} else {
			full, err := o.Apply(k.source, k.move)
			if err != nil {
				res.Skipped++
				continue
			}
			target = full
		}
		if _, err := out.Graph.UpsertEdge(k.source, target, move, annotations[k], k.source); err != nil {
			res.Skipped++
			continue
		}
		res.Transitions++
	}
	return res, nil
}
