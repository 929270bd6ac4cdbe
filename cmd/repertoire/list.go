package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/catalog"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List the repertoires in a directory",
	Long: `List every repertoire file (.txt or .txt.zst) in a directory.

Examples:
  repertoire list ./openings`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Scan(args[0])
	if err != nil {
		return err
	}

	if len(cat.Entries) == 0 {
		fmt.Println("no repertoires found")
	}
	for _, e := range cat.Entries {
		color := e.Color
		if color == "" {
			color = "-"
		}
		fmt.Printf("  %-24s %-6s %-6s %s\n", e.Name, e.Version, color, e.Title)
	}
	for _, w := range cat.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	return nil
}
