package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/eval"
	"github.com/freeeve/repertoire/internal/layout"
	"github.com/freeeve/repertoire/internal/logx"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

var (
	annotateStockfish string
	annotateDepth     int
	annotateThreads   int
	annotateHash      int
)

func init() {
	annotateCmd.Flags().StringVar(&annotateStockfish, "stockfish", os.Getenv("STOCKFISH_PATH"), "Path to the Stockfish binary")
	annotateCmd.Flags().IntVar(&annotateDepth, "depth", 24, "Search depth per position")
	annotateCmd.Flags().IntVar(&annotateThreads, "threads", 4, "Engine threads")
	annotateCmd.Flags().IntVar(&annotateHash, "hash", 256, "Engine hash size in MB")
	rootCmd.AddCommand(annotateCmd)
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Evaluate the leaves of a repertoire with an engine",
	Long: `Run every terminal position of a repertoire through Stockfish and store
the verdicts on the file's coordinate lines. Positions that already
carry a verdict are left alone.

Examples:
  repertoire annotate --stockfish /usr/local/bin/stockfish openings/italian.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if annotateStockfish == "" {
		return fmt.Errorf("no engine: set --stockfish or STOCKFISH_PATH")
	}

	logger := logx.NewLogger()
	o := oracle.New()

	doc, sum, err := opening.Load(args[0], o)
	if err != nil {
		return err
	}
	for _, w := range sum.Warnings {
		logger.Warn().Msg(w)
	}

	engine, err := eval.New(eval.Config{
		StockfishPath: annotateStockfish,
		Logger:        logger.With().Str("component", "eval").Logger(),
		Depth:         annotateDepth,
		Threads:       annotateThreads,
		HashMB:        annotateHash,
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	annotated, err := engine.AnnotateLeaves(cmd.Context(), doc)
	if err != nil {
		return err
	}

	// Place positions the file never positioned.
	placed := 0
	points := layout.DefaultLayered().Layout(doc.Graph)
	for _, n := range doc.Graph.Nodes() {
		if _, ok := doc.LayoutFor(n.Key); ok {
			continue
		}
		if p, ok := points[n.Key]; ok {
			doc.SetLayout(n.Key, p)
			placed++
		}
	}

	if err := opening.Save(args[0], doc, o); err != nil {
		return err
	}

	fmt.Printf("annotated %d leaves, placed %d positions in %s\n", annotated, placed, args[0])
	return nil
}
