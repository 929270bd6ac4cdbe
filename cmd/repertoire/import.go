package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/ingest"
	"github.com/freeeve/repertoire/internal/logx"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

var (
	importTitle  string
	importColor  string
	importRating int
	importDepth  int
	importLimit  int
)

func init() {
	importCmd.Flags().StringVar(&importTitle, "title", "Imported Opening", "Title for the new repertoire")
	importCmd.Flags().StringVar(&importColor, "color", "white", "Side the repertoire is for (white or black)")
	importCmd.Flags().IntVar(&importRating, "rating", 2000, "Minimum rating for both players")
	importCmd.Flags().IntVar(&importDepth, "max-depth", 12, "Plies to keep per game")
	importCmd.Flags().IntVar(&importLimit, "limit", 0, "Stop after this many accepted games (0 = all)")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <pgn> <out>",
	Short: "Build a repertoire from a PGN collection",
	Long: `Stream the games of a PGN file (plain or .zst) into a new repertoire.
Lines that transpose merge into shared positions, the same as
hand-entered moves.

Examples:
  repertoire import --title "Lichess 2400+" --rating 2400 games.pgn.zst out.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	logger := logx.NewLogger()
	o := oracle.New()

	doc := opening.NewDocument(importTitle)
	if importColor == "black" {
		doc.Color = "black"
	}

	im := ingest.NewImporter(ingest.Config{
		RatingMin: importRating,
		MaxDepth:  importDepth,
		GameLimit: importLimit,
		Logger:    logger.With().Str("component", "import").Logger(),
	}, o)

	stats, err := im.ImportFile(cmd.Context(), args[0], doc)
	if err != nil {
		return err
	}
	if err := opening.Save(args[1], doc, o); err != nil {
		return err
	}

	fmt.Printf("imported %d games (%d skipped) into %s: %d positions, %d transitions\n",
		stats.Games, stats.Skipped, args[1], doc.Graph.NodeCount(), doc.Graph.EdgeCount())
	return nil
}
