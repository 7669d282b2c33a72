package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Audit the catalog feed: prices, specs, categories, vectors",
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				// index.Build already failed fast on vector defects; surface it
				return err
			}

			bar := progressbar.NewOptions(a.cat.Len(),
				progressbar.OptionSetDescription("auditing catalog"),
				progressbar.OptionShowCount(),
			)

			var noPrice, noSpecs, unknownCategory, accessories int
			for _, p := range a.cat.Products {
				if _, ok := catalog.ParsePrice(p.Price); !ok {
					noPrice++
				}
				if len(p.Specs) == 0 {
					noSpecs++
				}
				if catalog.MatchCategory(p.Category) == "" {
					unknownCategory++
				}
				if catalog.IsAccessoryProduct(p) {
					accessories++
				}
				bar.Add(1)
			}
			fmt.Println()

			bold := color.New(color.Bold)
			bold.Printf("%d products, %d vectors (dim %d, model %s)\n",
				a.cat.Len(), a.idx.Len(), a.idx.Dimension(), a.idx.Model())
			fmt.Printf("accessories:          %d\n", accessories)
			fmt.Printf("unparseable prices:   %d\n", noPrice)
			fmt.Printf("missing specs:        %d\n", noSpecs)
			fmt.Printf("non-canonical labels: %d\n", unknownCategory)

			if unknownCategory > 0 {
				color.Yellow("non-canonical category labels bypass the exact-category filter")
			}
			return nil
		},
	}
}
