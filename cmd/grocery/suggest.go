package grocery

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest recipes for the week",
}

var (
	suggestCount int
	suggestSeed  uint64
	suggestJSON  bool
)

func printSuggestions(cmd *cobra.Command, items []service.RecipeSuggestion) error {
	if suggestJSON {
		return printJSON(cmd, "suggestions", items)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "RECIPE\tINGREDIENTS\tKCAL\tVEGGIE")
	for _, s := range items {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%.2f\t%t\n", s.Recipe, s.UniqueIngredients, s.KcalPerPortion, s.Vegetarian)
	}
	return nil
}

var suggestBusyCmd = &cobra.Command{
	Use:   "busy",
	Short: "Recipes with the fewest ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			items, warnings := service.FewestIngredients(c, suggestCount)
			printWarnings(cmd, warnings)
			return printSuggestions(cmd, items)
		})
	},
}

var suggestLightCmd = &cobra.Command{
	Use:   "light",
	Short: "Recipes with the fewest calories per portion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			items, warnings := service.Lightest(c, suggestCount)
			printWarnings(cmd, warnings)
			return printSuggestions(cmd, items)
		})
	},
}

var suggestVeggieCmd = &cobra.Command{
	Use:   "veggie",
	Short: "Random vegetarian recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := suggestSeed
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			items, warnings := service.Vegetarian(c, suggestCount, rng)
			printWarnings(cmd, warnings)
			return printSuggestions(cmd, items)
		})
	},
}

var suggestFavoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Recipes you cook most (same as analytics favorites)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFavorites(cmd, service.DateRange{}, suggestCount, suggestJSON)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.AddCommand(suggestBusyCmd, suggestLightCmd, suggestVeggieCmd, suggestFavoritesCmd)

	suggestCmd.PersistentFlags().IntVarP(&suggestCount, "count", "n", service.DefaultSuggestions, "Number of suggestions")
	suggestCmd.PersistentFlags().BoolVar(&suggestJSON, "json", false, "Output JSON")
	suggestVeggieCmd.Flags().Uint64Var(&suggestSeed, "seed", 0, "Random seed for repeatable picks")
}
