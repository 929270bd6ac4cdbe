package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/practice"
)

var (
	weakestDB    string
	weakestLimit int
)

func init() {
	weakestCmd.Flags().StringVar(&weakestDB, "db", "./practice.db", "Results database")
	weakestCmd.Flags().IntVar(&weakestLimit, "limit", 10, "Lines to show")
	rootCmd.AddCommand(weakestCmd)
}

var weakestCmd = &cobra.Command{
	Use:   "weakest",
	Short: "Show the drilled lines with the worst accuracy",
	Args:  cobra.NoArgs,
	RunE:  runWeakest,
}

func runWeakest(cmd *cobra.Command, args []string) error {
	store, err := practice.OpenStore(weakestDB)
	if err != nil {
		return err
	}
	defer store.Close()

	lines, err := store.Weakest(weakestLimit)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("no practice results yet")
		return nil
	}
	for _, ls := range lines {
		fmt.Printf("  %3.0f%%  %-24s %s\n", ls.Accuracy()*100, ls.Opening, ls.Line)
	}
	return nil
}
