package grocery

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/spf13/cobra"
)

var (
	categoryJSON  bool
	categoryMonth int
	seasonMonth   int
	seasonJSON    bool
)

var categoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "Classify an ingredient name",
	Long:  "Shows the food category, meat/fish flag and seasonal availability for any ingredient name, whether or not it is in the catalog.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := resolveMonth(categoryMonth)
		if err != nil {
			return err
		}
		tags := service.TagIngredient(args[0], month)
		if categoryJSON {
			return printJSON(cmd, "category", tags)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Name: %s\nCategory: %s\nMeat/fish: %s\nIn season (%s): %t\n", tags.Name, tags.Category, tags.MeatOrFish, month, tags.InSeason)
		return nil
	},
}

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show what is in season",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := resolveMonth(seasonMonth)
		if err != nil {
			return err
		}
		return withCatalog(cmd, func(_ *sql.DB, c *service.Catalog, _ *service.LoadReport) error {
			out := struct {
				Month       string   `json:"month"`
				Fragments   []string `json:"fragments"`
				Ingredients []string `json:"ingredients"`
			}{month.String(), service.SeasonalFragments(month), service.SeasonalIngredients(c, month)}
			if seasonJSON {
				return printJSON(cmd, "season", out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Month: %s\n", out.Month)
			fmt.Fprintf(cmd.OutOrStdout(), "In season: %s\n", listOrNone(out.Fragments))
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog ingredients: %s\n", listOrNone(out.Ingredients))
			return nil
		})
	},
}

func resolveMonth(m int) (time.Month, error) {
	if m == 0 {
		return time.Now().Month(), nil
	}
	if m < 1 || m > 12 {
		return 0, fmt.Errorf("--month must be between 1 and 12")
	}
	return time.Month(m), nil
}

func init() {
	rootCmd.AddCommand(categoryCmd, seasonCmd)
	categoryCmd.Flags().BoolVar(&categoryJSON, "json", false, "Output JSON")
	categoryCmd.Flags().IntVar(&categoryMonth, "month", 0, "Month number for the seasonal check (default: current month)")
	seasonCmd.Flags().IntVar(&seasonMonth, "month", 0, "Month number (default: current month)")
	seasonCmd.Flags().BoolVar(&seasonJSON, "json", false, "Output JSON")
}
