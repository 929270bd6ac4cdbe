package opening

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/oracle"
)

// Read parses a repertoire file. Header problems (version, title) abort the
// load; every body problem is counted, reported in the summary and skipped.
// The returned document is the best-effort graph for any readable input.
func Read(r io.Reader, o oracle.Oracle) (*Document, *LoadSummary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	version, err := readVersion(scanner)
	if err != nil {
		return nil, nil, err
	}
	title, err := readTitle(scanner)
	if err != nil {
		return nil, nil, err
	}

	doc := NewDocument(title)
	doc.Version = version
	lineNo := 2

	if version != VersionV40 {
		// v4.1 and later carry the player color on line 3.
		if !scanner.Scan() {
			return nil, nil, fmt.Errorf("%w: missing player color line", ErrBadHeader)
		}
		lineNo++
		color := strings.TrimSpace(scanner.Text())
		if color != "white" && color != "black" {
			return nil, nil, fmt.Errorf("%w: player color %q, want white or black", ErrBadHeader, color)
		}
		doc.Color = color
	} else {
		doc.Color = ""
	}

	sum := &LoadSummary{}
	var pending []string

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sum.Lines++

		if strings.HasPrefix(line, "#") {
			if text := strings.TrimSpace(line[1:]); text != "" {
				pending = append(pending, text)
			}
			continue
		}

		if strings.Contains(line, "->") {
			annotation := strings.Join(pending, " ")
			pending = nil
			readTransition(doc, o, sum, lineNo, line, annotation)
			continue
		}

		if strings.Contains(line, ":") {
			// Coordinate lines terminate any dangling comment run.
			pending = nil
			readLayoutLine(doc, sum, lineNo, line)
			continue
		}

		pending = nil
		sum.warnf(lineNo, "unrecognized line %q", line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	return doc, sum, nil
}

// Header holds the metadata lines of a repertoire file.
type Header struct {
	Version string
	Title   string
	Color   string // empty for v4.0 files
}

// ReadHeader parses only the header lines and stops before the body. Useful
// for listing repertoires without replaying their moves.
func ReadHeader(r io.Reader) (Header, error) {
	scanner := bufio.NewScanner(r)
	version, err := readVersion(scanner)
	if err != nil {
		return Header{}, err
	}
	title, err := readTitle(scanner)
	if err != nil {
		return Header{}, err
	}
	h := Header{Version: version, Title: title}
	if version != VersionV40 {
		if !scanner.Scan() {
			return Header{}, fmt.Errorf("%w: missing player color line", ErrBadHeader)
		}
		color := strings.TrimSpace(scanner.Text())
		if color != "white" && color != "black" {
			return Header{}, fmt.Errorf("%w: player color %q, want white or black", ErrBadHeader, color)
		}
		h.Color = color
	}
	return h, nil
}

func readVersion(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		return "", fmt.Errorf("%w: empty file", ErrBadHeader)
	}
	version := strings.TrimSpace(scanner.Text())
	switch version {
	case VersionV40, VersionV41:
		return version, nil
	}
	return "", fmt.Errorf("%w: expected %s or %s, found %q",
		ErrUnsupportedVersion, VersionV40, VersionV41, version)
}

func readTitle(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		return "", fmt.Errorf("%w: missing title line", ErrBadHeader)
	}
	line := strings.TrimSpace(scanner.Text())
	if !strings.HasPrefix(line, "=") {
		return "", fmt.Errorf("%w: expected \"= <title>\", found %q", ErrBadHeader, line)
	}
	title := strings.TrimSpace(line[1:])
	if title == "" {
		return "", fmt.Errorf("%w: empty title", ErrBadHeader)
	}
	return title, nil
}

// readTransition applies one "source -> rhs" line. The right-hand side is a
// legacy full position key when it contains the rank separator (or is the
// start sentinel); otherwise it is a SAN move applied through the oracle.
func readTransition(doc *Document, o oracle.Oracle, sum *LoadSummary, lineNo int, line, annotation string) {
	parts := strings.SplitN(line, "->", 2)
	source := strings.TrimSpace(parts[0])
	rhs := strings.TrimSpace(parts[1])
	if source == "" || rhs == "" {
		sum.warnf(lineNo, "malformed transition %q", line)
		return
	}
	if !fen.Valid(source) {
		sum.warnf(lineNo, "unparseable source key %q", source)
		return
	}

	if strings.Contains(rhs, "/") || rhs == fen.Start {
		// Legacy form: rhs is the target position itself, move unknown.
		if !fen.Valid(rhs) {
			sum.warnf(lineNo, "unparseable target key %q", rhs)
			return
		}
		if _, err := doc.Graph.UpsertEdge(source, rhs, "", annotation, source); err != nil {
			sum.warnf(lineNo, "insert: %v", err)
			return
		}
		sum.Edges++
		return
	}

	full, err := o.Apply(source, rhs)
	if err != nil {
		sum.warnf(lineNo, "cannot apply %q: %v", rhs, err)
		return
	}
	if _, err := doc.Graph.UpsertEdge(source, full, rhs, annotation, source); err != nil {
		sum.warnf(lineNo, "insert: %v", err)
		return
	}
	sum.Edges++
}

// readLayoutLine parses "key : x, y[, evaluation]". Coordinates are optional
// decoration; a bad one is skipped, never fatal.
func readLayoutLine(doc *Document, sum *LoadSummary, lineNo int, line string) {
	idx := strings.LastIndex(line, ":")
	key := strings.TrimSpace(line[:idx])
	rest := strings.TrimSpace(line[idx+1:])
	if key == "" || rest == "" {
		sum.warnf(lineNo, "malformed coordinate line %q", line)
		return
	}
	fields := strings.Split(rest, ",")
	if len(fields) < 2 {
		sum.warnf(lineNo, "coordinate line %q: want x, y", line)
		return
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if errX != nil || errY != nil {
		sum.warnf(lineNo, "coordinate line %q: bad numbers", line)
		return
	}
	doc.SetLayout(key, Point{X: x, Y: y})

	if len(fields) > 2 {
		evalStr := strings.TrimSpace(strings.Join(fields[2:], ","))
		ev, err := ParseEvaluation(evalStr)
		if err != nil {
			sum.warnf(lineNo, "%v", err)
			return
		}
		doc.SetEvaluation(key, ev)
	}
}

// Load reads a repertoire from disk, transparently decompressing files with
// a .zst suffix.
func Load(path string, o oracle.Oracle) (*Document, *LoadSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return Read(r, o)
}
