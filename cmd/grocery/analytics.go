package grocery

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Analyze the shopping list history",
}

var (
	analyticsJSON  bool
	analyticsFrom  string
	analyticsTo    string
	favoritesLimit int
	usageLimit     int
	pairsTop       int
	pairsLimit     int
)

var analyticsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Exports, portions and category mix over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parseDateRange(analyticsFrom, analyticsTo)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.SummarizeHistory(sqldb, r)
			if err != nil {
				return err
			}
			if analyticsJSON {
				return printJSON(cmd, "analytics", report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Exports: %d\nDistinct recipes: %d\nTotal portions: %d\n", report.Exports, report.DistinctRecipes, report.TotalPortions)
			fmt.Fprintf(out, "Avg recipes per export: %.2f\nAvg portions per export: %.2f\n", report.AvgRecipesPerSave, report.AvgPortionsPerSave)
			if report.Largest != nil {
				fmt.Fprintf(out, "Largest export: %s (%d portions)\n", report.Largest.Date, report.Largest.Portions)
				fmt.Fprintf(out, "Smallest export: %s (%d portions)\n", report.Smallest.Date, report.Smallest.Portions)
			}
			fmt.Fprintln(out, "CATEGORY\tINGREDIENTS\tLINES")
			for _, c := range report.ByCategory {
				fmt.Fprintf(out, "%s\t%d\t%d\n", c.Category, c.Ingredients, c.Lines)
			}
			return nil
		})
	},
}

var analyticsFavoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Recipes with the highest average portions",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parseDateRange(analyticsFrom, analyticsTo)
		if err != nil {
			return err
		}
		return runFavorites(cmd, r, favoritesLimit, analyticsJSON)
	},
}

func runFavorites(cmd *cobra.Command, r service.DateRange, limit int, asJSON bool) error {
	return withDB(func(sqldb *sql.DB) error {
		items, err := service.FavoriteRecipes(sqldb, r, limit)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, "favorites", items)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "RECIPE\tPORTION\tFREQUENCY\tAVG PORTION")
		for _, f := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\t%.2f\n", f.Recipe, f.Portion, f.Frequency, f.AvgPortion)
		}
		return nil
	})
}

var analyticsExtrasCmd = &cobra.Command{
	Use:   "extras",
	Short: "Extras added by hand to the last logged list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			lines, date, ok, err := service.LastExtras(sqldb)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("history log is empty")
			}
			if analyticsJSON {
				return printJSON(cmd, "extras", struct {
					Date   string               `json:"date"`
					Extras []model.CombinedLine `json:"extras"`
				}{date.Format("2006-01-02"), lines})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Last list: %s\n", date.Format("2006-01-02"))
			fmt.Fprintln(cmd.OutOrStdout(), "INGREDIENT\tAMOUNT\tUNIT")
			for _, l := range lines {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", l.Ingredient, formatAmount(l.Amount), l.Unit)
			}
			return nil
		})
	},
}

var analyticsUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Total logged amount per ingredient",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parseDateRange(analyticsFrom, analyticsTo)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			items, err := service.IngredientUsageRange(sqldb, r)
			if err != nil {
				return err
			}
			if usageLimit > 0 && len(items) > usageLimit {
				items = items[:usageLimit]
			}
			if analyticsJSON {
				return printJSON(cmd, "usage", items)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "INGREDIENT\tTOTAL\tUNIT\tTIMES\tCATEGORY")
			for _, u := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\t%s\n", u.Ingredient, formatAmount(u.Total), u.Unit, u.TimesUsed, u.Category)
			}
			return nil
		})
	},
}

var analyticsTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Logged amounts per date, converted to units",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parseDateRange(analyticsFrom, analyticsTo)
		if err != nil {
			return err
		}
		return withCatalog(cmd, func(sqldb *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			report, err := service.UsageTrend(sqldb, c.Ingredients, r)
			if err != nil {
				return err
			}
			printWarnings(cmd, report.Warnings)
			if analyticsJSON {
				return printJSON(cmd, "trend", report)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tINGREDIENT\tAMOUNT\tIN RECIPES\tEXTRA\tUNIT")
			for _, p := range report.Points {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\n", p.Date, p.Ingredient, formatAmount(p.Amount), formatAmount(p.InRecipes), formatAmount(p.Extra), p.Unit)
			}
			return nil
		})
	},
}

var analyticsPairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Ingredient pairs that appear together in logged recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parseDateRange(analyticsFrom, analyticsTo)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			pairs, err := service.IngredientPairs(sqldb, r, pairsTop)
			if err != nil {
				return err
			}
			if pairsLimit > 0 && len(pairs) > pairsLimit {
				pairs = pairs[:pairsLimit]
			}
			if analyticsJSON {
				return printJSON(cmd, "pairs", pairs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "INGREDIENT\tINGREDIENT\tRECIPES")
			for _, p := range pairs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", p.First, p.Second, p.Recipes)
			}
			return nil
		})
	},
}

var analyticsRecipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Logged frequency and nutrition per recipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parseDateRange(analyticsFrom, analyticsTo)
		if err != nil {
			return err
		}
		return withCatalog(cmd, func(sqldb *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			stats, warnings, err := service.RecipeStatsRange(sqldb, c, r)
			if err != nil {
				return err
			}
			printWarnings(cmd, warnings)
			if analyticsJSON {
				return printJSON(cmd, "recipe stats", stats)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "RECIPE\tTIMES\tAVG PORTION\tINGREDIENTS\tKCAL\tP/100KCAL")
			for _, s := range stats {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%.2f\t%d\t%.2f\t%.2f\n", s.Recipe, s.TimesLogged, s.AvgPortion, s.UniqueIngredients, s.KcalPerPortion, s.ProteinPer100Kcal)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(analyticsSummaryCmd, analyticsFavoritesCmd, analyticsExtrasCmd, analyticsUsageCmd, analyticsTrendCmd, analyticsPairsCmd, analyticsRecipesCmd)

	analyticsCmd.PersistentFlags().BoolVar(&analyticsJSON, "json", false, "Output JSON")
	analyticsCmd.PersistentFlags().StringVar(&analyticsFrom, "from", "", "Start date YYYY-MM-DD")
	analyticsCmd.PersistentFlags().StringVar(&analyticsTo, "to", "", "End date YYYY-MM-DD")
	analyticsFavoritesCmd.Flags().IntVar(&favoritesLimit, "limit", service.DefaultSuggestions, "Number of recipes to show")
	analyticsUsageCmd.Flags().IntVar(&usageLimit, "limit", 0, "Number of ingredients to show (0 = all)")
	analyticsPairsCmd.Flags().IntVar(&pairsTop, "top", service.DefaultPairIngredients, "Only pair the most logged ingredients")
	analyticsPairsCmd.Flags().IntVar(&pairsLimit, "limit", 0, "Number of pairs to show (0 = all)")
}
