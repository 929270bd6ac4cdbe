// Package main provides the repertoire CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "repertoire",
	Short: "Chess opening repertoire toolkit",
	Long: `repertoire manages chess opening repertoire files.

Repertoires are stored as versioned text files whose transitions form a
transposition-aware graph. The toolkit lists, merges, annotates, drills
and imports them; the api server in cmd/api serves the same files to
browse clients.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
}
