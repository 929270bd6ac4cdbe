// Package httpapi serves repertoires over HTTP for browse clients. All
// endpoints are read-only; editing happens through the CLI and the files.
package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freeeve/repertoire/internal/catalog"
	"github.com/freeeve/repertoire/internal/eco"
	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/layout"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

// Handler serves a directory of repertoire files.
type Handler struct {
	dir    string
	o      oracle.Oracle
	ecoDB  *eco.Database
	layout layout.Service
	log    zerolog.Logger

	mu    sync.Mutex
	cache map[string]*cachedDoc
}

type cachedDoc struct {
	doc     *opening.Document
	modTime time.Time
}

// NewRouter creates the HTTP router over a repertoire directory.
// ecoDB is optional - if provided, opening names are included in graph responses.
func NewRouter(log zerolog.Logger, dir string, o oracle.Oracle, ecoDB *eco.Database) http.Handler {
	h := &Handler{
		dir:    dir,
		o:      o,
		ecoDB:  ecoDB,
		layout: layout.DefaultLayered(),
		log:    log,
		cache:  make(map[string]*cachedDoc),
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", http.HandlerFunc(h.health))
	mux.Handle("/readyz", http.HandlerFunc(h.health))
	mux.Handle("/v1/openings", http.HandlerFunc(h.openings))
	mux.Handle("/v1/openings/", http.HandlerFunc(h.opening))
	mux.Handle("/v1/fen", http.HandlerFunc(h.fenLookup))

	// pprof endpoints
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	handler := CORS(RequestID(AccessLog(log, mux)))
	return handler
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// openings lists the repertoires in the served directory.
func (h *Handler) openings(w http.ResponseWriter, r *http.Request) {
	cat, err := catalog.Scan(h.dir)
	if err != nil {
		h.log.Error().Err(err).Str("rid", GetRequestID(r.Context())).Msg("scan openings")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"openings": cat.Entries,
		"warnings": cat.Warnings,
	})
}

// opening dispatches /v1/openings/{name}/graph and /v1/openings/{name}/paths.
func (h *Handler) opening(w http.ResponseWriter, r *http.Request) {
	parts := splitPath(r.URL.Path)
	if len(parts) != 4 {
		http.Error(w, "want /v1/openings/{name}/graph or /paths", http.StatusBadRequest)
		return
	}
	name, view := parts[2], parts[3]

	doc, err := h.loadDoc(name)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "opening not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("rid", GetRequestID(r.Context())).Str("opening", name).Msg("load opening")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch view {
	case "graph":
		writeJSON(w, ToGraphResponse(doc, h.layout, h.ecoDB))
	case "paths":
		paths, err := opening.EnumeratePaths(doc.Graph, h.o)
		if err != nil {
			h.log.Error().Err(err).Str("rid", GetRequestID(r.Context())).Str("opening", name).Msg("enumerate paths")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"title": doc.Title,
			"paths": ToPathResponses(paths),
		})
	default:
		http.Error(w, "unknown view "+view, http.StatusNotFound)
	}
}

// fenLookup normalizes a FEN the way the graph does and names the position
// when the ECO database knows it.
func (h *Handler) fenLookup(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("fen")
	if raw == "" {
		http.Error(w, "missing fen parameter", http.StatusBadRequest)
		return
	}

	norm, err := fen.Normalize(raw)
	if err != nil {
		http.Error(w, "invalid FEN: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := map[string]any{
		"key":      norm,
		"identity": fen.IdentityKey(raw),
	}
	if h.ecoDB != nil {
		if o := h.ecoDB.Lookup(raw); o != nil {
			resp["eco"] = o.ECO
			resp["name"] = o.Name
		}
	}
	writeJSON(w, resp)
}

// loadDoc resolves a catalog name to a parsed document, reloading when the
// file on disk changed.
func (h *Handler) loadDoc(name string) (*opening.Document, error) {
	cat, err := catalog.Scan(h.dir)
	if err != nil {
		return nil, err
	}
	entry, ok := cat.ByName(name)
	if !ok {
		return nil, os.ErrNotExist
	}
	info, err := os.Stat(entry.Path)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.cache[name]; ok && c.modTime.Equal(info.ModTime()) {
		return c.doc, nil
	}

	doc, sum, err := opening.Load(entry.Path, h.o)
	if err != nil {
		return nil, err
	}
	if sum.Skipped > 0 {
		h.log.Warn().Str("opening", name).Int("skipped", sum.Skipped).Msg("repertoire loaded with skipped lines")
	}
	h.cache[name] = &cachedDoc{doc: doc, modTime: info.ModTime()}
	return doc, nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
	// Don't call http.Error after setting headers - it causes "superfluous WriteHeader"
}

// splitPath splits a URL path into parts
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
