package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/merge"
	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
)

var mergeTitle string

func init() {
	mergeCmd.Flags().StringVar(&mergeTitle, "title", "", "Title for the merged repertoire (default: joined input titles)")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <out> <in> <in> [in...]",
	Short: "Merge repertoires into one",
	Long: `Merge two or more repertoire files. Transitions shared between inputs
are kept once with their annotations joined; coordinates are dropped
and recomputed on the next layout.

Examples:
  repertoire merge white.txt italian.txt vienna.txt`,
	Args: cobra.MinimumNArgs(3),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	o := oracle.New()
	out := args[0]

	docs := make([]*opening.Document, 0, len(args)-1)
	for _, path := range args[1:] {
		doc, sum, err := opening.Load(path, o)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, w := range sum.Warnings {
			fmt.Printf("warning: %s: %s\n", path, w)
		}
		docs = append(docs, doc)
	}

	res, err := merge.Documents(o, docs...)
	if err != nil {
		return err
	}
	if mergeTitle != "" {
		res.Doc.Title = mergeTitle
	}
	if err := opening.Save(out, res.Doc, o); err != nil {
		return err
	}

	fmt.Printf("merged %d files into %s: %d transitions", len(docs), out, res.Transitions)
	if res.Skipped > 0 {
		fmt.Printf(", %d skipped", res.Skipped)
	}
	fmt.Println()
	return nil
}
