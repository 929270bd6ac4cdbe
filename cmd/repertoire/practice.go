package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freeeve/repertoire/internal/opening"
	"github.com/freeeve/repertoire/internal/oracle"
	"github.com/freeeve/repertoire/internal/practice"
)

var (
	practiceColor string
	practiceDB    string
	practiceLine  int
)

func init() {
	practiceCmd.Flags().StringVar(&practiceColor, "color", "", "Side to train (default: the file's color)")
	practiceCmd.Flags().StringVar(&practiceDB, "db", "./practice.db", "Results database")
	practiceCmd.Flags().IntVar(&practiceLine, "line", 0, "Drill a specific line number (default: random)")
	rootCmd.AddCommand(practiceCmd)
}

var practiceCmd = &cobra.Command{
	Use:   "practice <file>",
	Short: "Drill a line of a repertoire",
	Long: `Play through one line of a repertoire. The opponent's moves are played
for you; type your move in SAN when prompted. Results are recorded so
"repertoire weakest" can surface the lines that need work.

Examples:
  repertoire practice openings/italian.txt
  repertoire practice --line 3 openings/italian.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runPractice,
}

func runPractice(cmd *cobra.Command, args []string) error {
	o := oracle.New()
	doc, _, err := opening.Load(args[0], o)
	if err != nil {
		return err
	}

	paths, err := opening.EnumeratePaths(doc.Graph, o)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%s has no lines to drill", args[0])
	}

	var line opening.Path
	if practiceLine > 0 {
		if practiceLine > len(paths) {
			return fmt.Errorf("line %d out of range, file has %d lines", practiceLine, len(paths))
		}
		line = paths[practiceLine-1]
	} else {
		line = paths[rand.Intn(len(paths))]
	}

	color := practiceColor
	if color == "" {
		color = doc.Color
	}
	session := practice.NewSession(line, color)

	fmt.Printf("%s — drilling as %s, %d moves\n", doc.Title, session.Color(), len(line.Steps))

	reader := bufio.NewReader(os.Stdin)
	for replies := session.AdvanceOpponent(); !session.Done(); replies = session.AdvanceOpponent() {
		for _, s := range replies {
			fmt.Printf("opponent plays %s\n", s.Move)
		}
		if session.Done() {
			break
		}

		fmt.Print("your move: ")
		answer, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		ok, expected := session.Try(strings.TrimSpace(answer))
		if ok {
			fmt.Println("correct")
			if expected.Annotation != "" {
				fmt.Printf("  %s\n", expected.Annotation)
			}
		} else {
			fmt.Printf("no — the line plays %s\n", expected.Move)
		}
	}

	attempts, correct := session.Score()
	fmt.Printf("line complete: %d/%d\n", correct, attempts)

	store, err := practice.OpenStore(practiceDB)
	if err != nil {
		return fmt.Errorf("open results db: %w", err)
	}
	defer store.Close()
	return store.Record(doc.Title, session.Signature(), attempts, correct)
}
