package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation against the local pipeline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), a)
		},
	}
}

func runChat(ctx context.Context, a *app) error {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	green := color.New(color.FgGreen)

	bold.Printf("recommend-engine chat — %d products indexed\n", a.idx.Len())
	dim.Println("type a request, or 'quit' to exit")

	var history []catalog.Turn
	var shownIDs []string
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}
		message := strings.TrimSpace(line)
		if message == "" {
			continue
		}
		if message == "quit" || message == "exit" {
			return nil
		}

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " searching..."
		s.Start()

		result, err := a.engine.Respond(ctx, retrieval.Request{
			SessionID: "cli",
			Message:   message,
			History:   history,
			ShownIDs:  shownIDs,
		})
		s.Stop()
		if err != nil {
			color.Red("error: %v", err)
			continue
		}

		if result.Mode == retrieval.ModeComparisonReplay {
			dim.Println("(comparing previously shown products)")
		}
		printRanked(result.Ranked, green, dim)

		history = append(history,
			catalog.Turn{Role: "user", Content: message},
			catalog.Turn{Role: "assistant", Content: ""},
		)
		shownIDs = shownIDs[:0]
		for _, r := range result.Ranked {
			shownIDs = append(shownIDs, r.Product.ID)
		}
	}
}

func printRanked(ranked []retrieval.RankedResult, green, dim *color.Color) {
	if len(ranked) == 0 {
		dim.Println("no matching products")
		return
	}
	for i, r := range ranked {
		green.Printf("%2d. %s", i+1, r.Product.Name)
		fmt.Printf("  [%s]  %s  (%.3f)", r.Product.Category, r.Product.Price, r.Score)
		if len(r.Reasons) > 0 {
			dim.Printf("  — %s", strings.Join(r.Reasons, "; "))
		}
		fmt.Println()
	}
}
