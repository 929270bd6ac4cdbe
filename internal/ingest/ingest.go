// Package ingest builds repertoire graphs from PGN game collections. Games
// are streamed, filtered by rating and replayed up to a ply limit; every
// surviving move becomes a graph transition, so lines that transpose merge
// the same way hand-entered ones do.
package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/freeeve/pgn/v3"
	"github.com/rs/zerolog"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

// Config configures a PGN import.
type Config struct {
	RatingMin int            // skip games where either player is below this
	MaxDepth  int            // plies to keep per game
	GameLimit int            // stop after this many accepted games; 0 = all
	Logger    zerolog.Logger // logger
}

// Stats reports what an import did.
type Stats struct {
	Games   int // games accepted
	Skipped int // games filtered out or unreplayable
	Edges   int // transitions inserted (including duplicates refreshed)
}

// Importer streams PGN files into a document's graph.
type Importer struct {
	cfg Config
	o   oracle.Oracle
	log zerolog.Logger

	// moves by source key; opening positions repeat across games constantly
	cache map[string][]oracle.LegalMove
}

// NewImporter creates an importer with defaults filled in.
func NewImporter(cfg Config, o oracle.Oracle) *Importer {
	if cfg.RatingMin == 0 {
		cfg.RatingMin = 2000
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 12
	}
	return &Importer{
		cfg:   cfg,
		o:     o,
		log:   cfg.Logger,
		cache: make(map[string][]oracle.LegalMove),
	}
}

// ImportFile streams the games of one PGN file (plain or .zst) into doc.
func (im *Importer) ImportFile(ctx context.Context, path string, doc *opening.Document) (Stats, error) {
	im.log.Info().
		Str("path", path).
		Int("rating_min", im.cfg.RatingMin).
		Int("max_depth", im.cfg.MaxDepth).
		Msg("pgn import started")

	startTime := time.Now()
	var stats Stats
	lastLog := time.Now()

	parser := pgn.Games(path)

	stopped := false
gameLoop:
	for game := range parser.Games {
		select {
		case <-ctx.Done():
			if !stopped {
				parser.Stop()
				stopped = true
			}
			break gameLoop
		default:
		}

		whiteRating := parseRating(game.Tags["WhiteElo"])
		blackRating := parseRating(game.Tags["BlackElo"])
		if whiteRating < im.cfg.RatingMin || blackRating < im.cfg.RatingMin {
			stats.Skipped++
			continue
		}

		edges, err := im.importGame(doc, game)
		if err != nil {
			stats.Skipped++
			continue
		}
		stats.Edges += edges
		stats.Games++

		if time.Since(lastLog) > 10*time.Second {
			elapsed := time.Since(startTime)
			im.log.Info().
				Int("games", stats.Games).
				Int("skipped", stats.Skipped).
				Int("edges", stats.Edges).
				Float64("games_per_sec", float64(stats.Games)/elapsed.Seconds()).
				Msg("import progress")
			lastLog = time.Now()
		}

		if im.cfg.GameLimit > 0 && stats.Games >= im.cfg.GameLimit {
			if !stopped {
				parser.Stop()
				stopped = true
			}
			break
		}
	}

	if err := parser.Err(); err != nil {
		return stats, err
	}

	im.log.Info().
		Int("games", stats.Games).
		Int("skipped", stats.Skipped).
		Int("edges", stats.Edges).
		Dur("elapsed", time.Since(startTime)).
		Msg("pgn import complete")

	return stats, nil
}

// importGame replays one game up to the ply limit, inserting a transition
// per move. The parsed moves are coordinates; the SAN comes from matching
// the resulting position against the legal moves of the source.
func (im *Importer) importGame(doc *opening.Document, game *pgn.Game) (int, error) {
	pos := pgn.NewStartingPosition()
	cur := fen.Start
	edges := 0

	for ply, mv := range game.Moves {
		if ply >= im.cfg.MaxDepth {
			break
		}
		if err := pgn.ApplyMove(pos, mv); err != nil {
			return edges, fmt.Errorf("ply %d: %w", ply, err)
		}
		target := fen.IdentityKey(pos.ToFEN())

		legal, err := im.legalMoves(cur)
		if err != nil {
			return edges, err
		}
		found := false
		for _, lm := range legal {
			if fen.IdentityKey(lm.ResultFEN) != target {
				continue
			}
			if _, err := doc.Graph.UpsertEdge(cur, lm.ResultFEN, lm.SAN, "", cur); err != nil {
				return edges, err
			}
			cur = lm.ResultFEN
			edges++
			found = true
			break
		}
		if !found {
			return edges, fmt.Errorf("ply %d: move not matched", ply)
		}
	}
	return edges, nil
}

func (im *Importer) legalMoves(key string) ([]oracle.LegalMove, error) {
	if cached, ok := im.cache[key]; ok {
		return cached, nil
	}
	legal, err := im.o.LegalMoves(key)
	if err != nil {
		return nil, err
	}
	im.cache[key] = legal
	return legal, nil
}

func parseRating(s string) int {
	if s == "" || s == "?" || s == "-" {
		return 0
	}
	r, _ := strconv.Atoi(s)
	return r
}
