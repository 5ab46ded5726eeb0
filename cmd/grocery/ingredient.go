package grocery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/grocery-cli/internal/provider/pricepage"
	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var ingredientCmd = &cobra.Command{
	Use:   "ingredient",
	Short: "Inspect catalog ingredients",
}

var (
	ingredientJSON     bool
	ingredientCategory string
	priceTimeout       time.Duration
)

var ingredientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingredients",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			month := time.Now().Month()
			type row struct {
				Name           string  `json:"name"`
				GramsPerUnit   float64 `json:"grams_per_unit"`
				KcalPer100g    float64 `json:"kcal_per_100g"`
				ProteinPer100g float64 `json:"protein_per_100g"`
				service.IngredientTags
			}
			rows := make([]row, 0, c.Ingredients.Len())
			for _, ing := range c.Ingredients.Sorted() {
				tags := service.TagIngredient(ing.Name, month)
				if ingredientCategory != "" && !strings.EqualFold(tags.Category, ingredientCategory) {
					continue
				}
				rows = append(rows, row{ing.Name, ing.GramsPerUnit, ing.KcalPer100g, ing.ProteinPer100g, tags})
			}
			if ingredientJSON {
				return printJSON(cmd, "ingredients", rows)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "NAME\tG/UNIT\tKCAL/100G\tP/100G\tCATEGORY\tMEAT/FISH\tIN SEASON")
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%t\n", r.Name, formatAmount(r.GramsPerUnit), formatAmount(r.KcalPer100g), formatAmount(r.ProteinPer100g), r.Category, r.MeatOrFish, r.InSeason)
			}
			return nil
		})
	},
}

var ingredientShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show ingredient details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			ing, err := c.Ingredients.Find(args[0])
			if err != nil {
				return err
			}
			tags := service.TagIngredient(ing.Name, time.Now().Month())
			if ingredientJSON {
				return printJSON(cmd, "ingredient", struct {
					Key               string  `json:"key"`
					Name              string  `json:"name"`
					GramsPerUnit      float64 `json:"grams_per_unit"`
					KcalPer100g       float64 `json:"kcal_per_100g"`
					ProteinPer100g    float64 `json:"protein_per_100g"`
					KcalPerUnit       float64 `json:"kcal_per_unit"`
					ProteinPerUnit    float64 `json:"protein_per_unit"`
					ProteinPer100Kcal float64 `json:"protein_per_100kcal"`
					URL               string  `json:"url,omitempty"`
					PriceURL          string  `json:"price_url,omitempty"`
					service.IngredientTags
				}{ing.Key, ing.Name, ing.GramsPerUnit, ing.KcalPer100g, ing.ProteinPer100g, ing.KcalPerUnit, ing.ProteinPerUnit, ing.ProteinPer100Kcal, ing.URL, ing.PriceURL, tags})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\nKey: %s\nGrams per unit: %s\nKcal per 100g: %s\nProtein per 100g: %sg\nKcal per unit: %s\nProtein per unit: %sg\nProtein per 100 kcal: %sg\nCategory: %s\nMeat/fish: %s\nIn season: %t\nURL: %s\nPrice URL: %s\n",
				ing.Name, ing.Key, formatAmount(ing.GramsPerUnit), formatAmount(ing.KcalPer100g), formatAmount(ing.ProteinPer100g),
				formatAmount(ing.KcalPerUnit), formatAmount(ing.ProteinPerUnit), formatAmount(ing.ProteinPer100Kcal),
				tags.Category, tags.MeatOrFish, tags.InSeason, ing.URL, ing.PriceURL)
			return nil
		})
	},
}

var ingredientPriceCmd = &cobra.Command{
	Use:   "price <name>",
	Short: "Look up an ingredient's current price from its price URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(sqldb *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			ing, err := c.Ingredients.Find(args[0])
			if err != nil {
				return err
			}
			if ing.PriceURL == "" {
				return fmt.Errorf("ingredient %q has no price url", ing.Name)
			}
			selector, err := service.ResolveSetting(sqldb, "", service.ConfigPriceSelector, pricepage.DefaultSelector)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), priceTimeout)
			defer cancel()

			client := &pricepage.Client{Selector: selector}
			newLogger(cmd).WithFields(logrus.Fields{"ingredient": ing.Name, "url": ing.PriceURL, "selector": selector}).Debug("looking up price")
			quote, err := client.LookupPrice(ctx, ing.PriceURL)
			if err != nil {
				return fmt.Errorf("lookup price for %s: %w", ing.Name, err)
			}
			if ingredientJSON {
				return printJSON(cmd, "price", quote)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\t%s\t%s\n", ing.Name, quote.Price, quote.Currency, quote.URL)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ingredientCmd)
	ingredientCmd.AddCommand(ingredientListCmd, ingredientShowCmd, ingredientPriceCmd)

	ingredientCmd.PersistentFlags().BoolVar(&ingredientJSON, "json", false, "Output JSON")
	ingredientListCmd.Flags().StringVar(&ingredientCategory, "category", "", "Only list ingredients in this category")
	ingredientPriceCmd.Flags().DurationVar(&priceTimeout, "timeout", 30*time.Second, "Overall lookup timeout including retries")
}
