package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
)

func newQueryCmd() *cobra.Command {
	var asJSON bool
	var category string

	cmd := &cobra.Command{
		Use:   "query [message]",
		Short: "Run one message through the pipeline and dump the ranking",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			req := retrieval.Request{
				SessionID: "cli",
				Message:   strings.Join(args, " "),
			}
			if category != "" {
				req.Filter = &index.Filter{Category: category}
			}

			result, err := a.engine.Respond(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			dim := color.New(color.Faint)
			fmt.Printf("mode: %s\n", result.Mode)
			if result.EnrichedQuery != "" {
				dim.Printf("enriched: %s\n", result.EnrichedQuery)
			}
			if result.Requirements.Category != "" {
				dim.Printf("category: %s\n", result.Requirements.Category)
			}
			printRanked(result.Ranked, color.New(color.FgGreen), dim)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	cmd.Flags().StringVar(&category, "category", "", "restrict to an exact category")
	return cmd
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories present in the catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			for _, c := range a.cat.Categories() {
				fmt.Println(c)
			}
			return nil
		},
	}
}
