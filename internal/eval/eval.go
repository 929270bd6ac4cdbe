// Package eval annotates repertoire positions with engine verdicts. It
// drives a UCI engine (Stockfish) and writes the results into a document's
// evaluation map, where the serializer picks them up.
package eval

import (
	"context"
	"fmt"
	"strings"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"

	"github.com/freeeve/repertoire/internal/fen"
	"github.com/freeeve/repertoire/internal/opening"
)

// Config configures the engine-backed evaluator.
type Config struct {
	StockfishPath string
	Logger        zerolog.Logger
	Depth         int // search depth per position
	HashMB        int // engine hash table size
	Threads       int // engine threads
}

// Engine evaluates positions with a UCI engine. Not safe for concurrent
// use; the underlying engine processes one search at a time.
type Engine struct {
	engine *uci.Engine
	log    zerolog.Logger
	cfg    Config
}

// New starts the engine process and applies options.
func New(cfg Config) (*Engine, error) {
	if cfg.StockfishPath == "" {
		return nil, fmt.Errorf("stockfish path required")
	}
	if cfg.Depth == 0 {
		cfg.Depth = 24
	}
	if cfg.HashMB == 0 {
		cfg.HashMB = 256
	}
	if cfg.Threads == 0 {
		cfg.Threads = 4
	}

	engine, err := uci.NewEngine(cfg.StockfishPath)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	opts := uci.Options{
		Hash:    cfg.HashMB,
		Threads: cfg.Threads,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := engine.SetOptions(opts); err != nil {
		engine.Close()
		return nil, fmt.Errorf("set options: %w", err)
	}

	return &Engine{engine: engine, log: cfg.Logger, cfg: cfg}, nil
}

// Close shuts the engine process down.
func (e *Engine) Close() error {
	if e.engine != nil {
		e.engine.Close()
	}
	return nil
}

// Evaluate searches the position identified by fullKey and returns the
// verdict. The start sentinel is accepted.
func (e *Engine) Evaluate(fullKey string) (opening.Evaluation, error) {
	position := fen.Expand(fullKey)
	if err := e.engine.SetFEN(position); err != nil {
		return opening.Evaluation{}, fmt.Errorf("set FEN: %w", err)
	}

	results, err := e.engine.GoDepth(e.cfg.Depth, uci.HighestDepthOnly)
	if err != nil {
		return opening.Evaluation{}, fmt.Errorf("engine search: %w", err)
	}
	if len(results.Results) == 0 {
		return opening.Evaluation{}, fmt.Errorf("no results from engine")
	}

	best := results.Results[0]
	for _, r := range results.Results {
		if r.Depth > best.Depth {
			best = r
		}
	}

	return verdict(position, best.Score, best.Mate), nil
}

// AnnotateLeaves evaluates every terminal position of doc that has no
// verdict yet. A failed search skips the position and keeps going; the
// returned count is the number of verdicts written.
func (e *Engine) AnnotateLeaves(ctx context.Context, doc *opening.Document) (int, error) {
	g := doc.Graph
	annotated := 0
	for _, id := range g.Terminals() {
		select {
		case <-ctx.Done():
			return annotated, ctx.Err()
		default:
		}

		key := g.Node(id).Key
		if _, ok := doc.EvaluationFor(key); ok {
			continue
		}
		ev, err := e.Evaluate(key)
		if err != nil {
			e.log.Warn().Err(err).Str("position", key).Msg("eval failed")
			continue
		}
		doc.SetEvaluation(key, ev)
		annotated++
		e.log.Info().Str("position", key).Str("eval", ev.String()).Msg("evaluated leaf")
	}
	return annotated, nil
}

// verdict converts a raw engine score into a side-favoring evaluation.
// UCI scores are from the side to move's perspective; the file format wants
// the favored side named, so negative scores flip to the opponent.
func verdict(position string, score int, mate bool) opening.Evaluation {
	whiteToMove := !strings.Contains(position, " b ")
	favored := "white"
	if (score < 0) == whiteToMove {
		favored = "black"
	}
	if score < 0 {
		score = -score
	}
	if mate {
		return opening.Evaluation{Side: favored, Mate: score}
	}
	return opening.Evaluation{Side: favored, Pawns: float64(score) / 100}
}
