package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

var pathsAnnotations bool

func init() {
	pathsCmd.Flags().BoolVar(&pathsAnnotations, "annotations", false, "Print annotations under each line")
	rootCmd.AddCommand(pathsCmd)
}

var pathsCmd = &cobra.Command{
	Use:   "paths <file>",
	Short: "Print every playable line of a repertoire",
	Long: `Enumerate the root-to-leaf lines of a repertoire. Transpositions are
walked once per incoming line, so a merged position appears in every
line that reaches it.

Examples:
  repertoire paths openings/italian.txt
  repertoire paths --annotations openings/italian.txt.zst`,
	Args: cobra.ExactArgs(1),
	RunE: runPaths,
}

func runPaths(cmd *cobra.Command, args []string) error {
	o := oracle.New()
	doc, sum, err := opening.Load(args[0], o)
	if err != nil {
		return err
	}
	for _, w := range sum.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	paths, err := opening.EnumeratePaths(doc.Graph, o)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d lines\n", doc.Title, len(paths))
	for i, p := range paths {
		moves := make([]string, len(p.Steps))
		for j, s := range p.Steps {
			moves[j] = s.Move
		}
		line := strings.Join(moves, " ")
		if ev, ok := doc.EvaluationFor(p.Terminal()); ok {
			line += "  (" + ev.String() + ")"
		}
		fmt.Printf("%3d. %s\n", i+1, line)
		if pathsAnnotations {
			for _, s := range p.Steps {
				if s.Annotation != "" {
					fmt.Printf("     %s: %s\n", s.Move, s.Annotation)
				}
			}
		}
	}
	return nil
}
