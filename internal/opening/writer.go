package opening

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/freeeve/repertoire/internal/oracle"
)

// Write serializes doc to the text format. Edges are written in insertion
// order; an edge without a stored move falls back to brute-force SAN
// discovery from its source FEN, degrading to the unknown-move marker when
// nothing matches. The writer never fails on a single bad edge.
func Write(w io.Writer, doc *Document, o oracle.Oracle) error {
	bw := bufio.NewWriter(w)

	version := doc.Version
	if version == "" {
		version = CurrentVersion
	}
	fmt.Fprintf(bw, "%s\n", version)
	fmt.Fprintf(bw, "= %s\n", doc.Title)
	if version != VersionV40 {
		color := doc.Color
		if color == "" {
			color = "white"
		}
		fmt.Fprintf(bw, "%s\n", color)
	}

	g := doc.Graph
	for _, n := range g.Nodes() {
		p, ok := doc.LayoutFor(n.Key)
		if !ok {
			continue
		}
		if ev, ok := doc.EvaluationFor(n.Key); ok {
			fmt.Fprintf(bw, "%s : %g, %g, %s\n", n.Key, p.X, p.Y, ev)
		} else {
			fmt.Fprintf(bw, "%s : %g, %g\n", n.Key, p.X, p.Y)
		}
	}

	for _, e := range g.Edges() {
		if e.Annotation != "" {
			fmt.Fprintf(bw, "# %s\n", e.Annotation)
		}
		source := e.SourceFull
		if source == "" {
			source = g.Node(e.Source).Key
		}
		move := e.Move
		if move == "" {
			if lm, ok := deriveMove(o, source, g.Node(e.Target).Key); ok {
				move = lm.SAN
			} else {
				move = UnknownMove
			}
		}
		fmt.Fprintf(bw, "%s -> %s\n", source, move)
	}

	return bw.Flush()
}

// Save writes a repertoire to disk, compressing when the path ends in .zst.
func Save(path string, doc *Document, o oracle.Oracle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("zstd: %w", err)
		}
		w = enc
	}
	if err := Write(w, doc, o); err != nil {
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}
