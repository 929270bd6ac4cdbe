package opening

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/freeeve/repertoire/internal/fen"
)

// Supported file format versions.
//
// v4.0 is the original layout: version, title, optional coordinate lines,
// transitions. v4.1 adds a player-color line after the title so a repertoire
// knows which side it trains.
const (
	VersionV40 = "v4.0"
	VersionV41 = "v4.1"
)

// CurrentVersion is what newly created documents are written as.
const CurrentVersion = VersionV41

var (
	// ErrBadHeader covers a missing or malformed version/title header.
	// Header errors are fatal to the whole load; body errors are not.
	ErrBadHeader = errors.New("bad file header")

	// ErrUnsupportedVersion is returned for version tokens we do not speak.
	ErrUnsupportedVersion = errors.New("unsupported file version")
)

// Point is a 2D layout coordinate. Y grows downward (canvas convention).
type Point struct {
	X, Y float64
}

// Evaluation is a side-relative engine verdict attached to a position:
// either an advantage in pawns or a forced mate. Purely informational; it
// never affects graph topology.
type Evaluation struct {
	Side  string  // "white" or "black": the side the numbers favor
	Pawns float64 // advantage in pawns; meaningful when Mate == 0
	Mate  int     // mate in N for Side; 0 means no forced mate
}

// String renders the file form, e.g. "white +0.25" or "black M3".
func (e Evaluation) String() string {
	if e.Mate > 0 {
		return fmt.Sprintf("%s M%d", e.Side, e.Mate)
	}
	return fmt.Sprintf("%s +%.2f", e.Side, e.Pawns)
}

// ParseEvaluation parses the file form of an evaluation.
func ParseEvaluation(s string) (Evaluation, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Evaluation{}, fmt.Errorf("evaluation %q: want two fields", s)
	}
	side := parts[0]
	if side != "white" && side != "black" {
		return Evaluation{}, fmt.Errorf("evaluation %q: unknown side %q", s, side)
	}
	val := parts[1]
	if strings.HasPrefix(val, "M") {
		n, err := strconv.Atoi(val[1:])
		if err != nil {
			return Evaluation{}, fmt.Errorf("evaluation %q: bad mate count: %w", s, err)
		}
		return Evaluation{Side: side, Mate: n}, nil
	}
	pawns, err := strconv.ParseFloat(strings.TrimPrefix(val, "+"), 64)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluation %q: bad score: %w", s, err)
	}
	return Evaluation{Side: side, Pawns: pawns}, nil
}

// Document is a repertoire file in memory: the graph plus its metadata and
// the optional per-position layout and evaluation annotations.
type Document struct {
	Version string
	Title   string

	// Color is the side this repertoire trains, "white" or "black".
	// Only serialized from format v4.1 on.
	Color string

	Graph *Graph

	// layout and evals are keyed loosely by identity key so coordinate lines
	// written with different move counters still attach to the right node.
	layout map[string]Point
	evals  map[string]Evaluation
}

// NewDocument creates an empty current-version document.
func NewDocument(title string) *Document {
	return &Document{
		Version: CurrentVersion,
		Title:   title,
		Color:   "white",
		Graph:   New(),
		layout:  make(map[string]Point),
		evals:   make(map[string]Evaluation),
	}
}

// SetLayout attaches a coordinate to the position identified by key.
func (d *Document) SetLayout(key string, p Point) {
	d.layout[fen.IdentityKey(key)] = p
}

// LayoutFor returns the coordinate attached to key's position, if any.
func (d *Document) LayoutFor(key string) (Point, bool) {
	p, ok := d.layout[fen.IdentityKey(key)]
	return p, ok
}

// ClearLayout removes all coordinates, marking any rendered layout stale.
func (d *Document) ClearLayout() {
	d.layout = make(map[string]Point)
}

// SetEvaluation attaches an engine verdict to the position identified by key.
func (d *Document) SetEvaluation(key string, e Evaluation) {
	d.evals[fen.IdentityKey(key)] = e
}

// EvaluationFor returns the verdict attached to key's position, if any.
func (d *Document) EvaluationFor(key string) (Evaluation, bool) {
	e, ok := d.evals[fen.IdentityKey(key)]
	return e, ok
}

// LoadSummary reports what a best-effort load actually did. A load with
// skipped lines still yields a usable graph.
type LoadSummary struct {
	Lines    int      // body lines seen
	Edges    int      // transitions applied
	Skipped  int      // malformed or semantically bad lines dropped
	Warnings []string // one human-readable note per skipped line
}

func (s *LoadSummary) warnf(line int, format string, args ...any) {
	s.Skipped++
	s.Warnings = append(s.Warnings, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}
