// Package catalog indexes a directory of repertoire files. Only headers are
// read, so listing stays cheap even for large repertoires.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/freeeve/repertoire/internal/opening"
)

// Entry describes one repertoire file found during a scan.
type Entry struct {
	Path    string `json:"path"`
	Name    string `json:"name"` // file name without .txt/.txt.zst
	Version string `json:"version"`
	Title   string `json:"title"`
	Color   string `json:"color,omitempty"`
}

// Catalog is the result of scanning a directory.
type Catalog struct {
	Entries  []Entry
	Warnings []string // unreadable files, duplicate titles
}

// ByName returns the entry whose Name matches, if present.
func (c *Catalog) ByName(name string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Scan indexes every .txt and .txt.zst file directly under dir, sorted by
// file name. Files with unreadable headers are skipped with a warning, as
// are titles that appear more than once.
func Scan(dir string) (*Catalog, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	cat := &Catalog{}
	byTitle := make(map[string]string)

	for _, de := range dirents {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".txt.zst") {
			continue
		}
		path := filepath.Join(dir, name)
		h, err := readHeader(path)
		if err != nil {
			cat.Warnings = append(cat.Warnings, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if prev, dup := byTitle[h.Title]; dup {
			cat.Warnings = append(cat.Warnings,
				fmt.Sprintf("%s: title %q already used by %s", name, h.Title, prev))
		} else {
			byTitle[h.Title] = name
		}
		cat.Entries = append(cat.Entries, Entry{
			Path:    path,
			Name:    baseName(name),
			Version: h.Version,
			Title:   h.Title,
			Color:   h.Color,
		})
	}

	sort.Slice(cat.Entries, func(i, j int) bool { return cat.Entries[i].Name < cat.Entries[j].Name })
	return cat, nil
}

func baseName(name string) string {
	name = strings.TrimSuffix(name, ".zst")
	return strings.TrimSuffix(name, ".txt")
}

func readHeader(path string) (opening.Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return opening.Header{}, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return opening.Header{}, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	return opening.ReadHeader(r)
}
