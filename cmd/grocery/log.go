package grocery

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/saadjs/grocery-cli/internal/workbook"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage the shopping list history log",
}

var (
	logOut  string
	logIn   string
	logFrom string
	logTo   string
	logJSON bool
)

var logExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the history log to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logOut == "" {
			return fmt.Errorf("--out is required")
		}
		r, err := parseDateRange(logFrom, logTo)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			l, err := service.LoadLog(sqldb, r)
			if err != nil {
				return err
			}
			if len(l.PerRecipe) == 0 && len(l.Combined) == 0 {
				return fmt.Errorf("history log: %w", service.ErrNothingToWrite)
			}
			if err := workbook.WriteLog(logOut, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d per-recipe rows and %d combined rows to %s\n", len(l.PerRecipe), len(l.Combined), logOut)
			return nil
		})
	},
}

var logImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a history log workbook; dates it contains replace logged rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logIn == "" {
			return fmt.Errorf("--in is required")
		}
		l, err := workbook.ReadLog(logIn)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.ImportLog(sqldb, l)
			if err != nil {
				return err
			}
			printWarnings(cmd, report.Warnings)
			if logJSON {
				return printJSON(cmd, "log import", report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d per-recipe rows and %d combined rows for %d date(s)\n", report.PerRecipeRows, report.CombinedRows, len(report.Dates))
			return nil
		})
	},
}

var logDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List logged export dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			dates, err := service.ExportDates(sqldb)
			if err != nil {
				return err
			}
			if logJSON {
				return printJSON(cmd, "log dates", dates)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tRECIPES\tLINES")
			for _, d := range dates {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\n", d.Date, d.Recipes, d.CombinedLines)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logExportCmd, logImportCmd, logDatesCmd)

	logCmd.PersistentFlags().BoolVar(&logJSON, "json", false, "Output JSON")
	logExportCmd.Flags().StringVar(&logOut, "out", "", "Output xlsx path")
	logExportCmd.Flags().StringVar(&logFrom, "from", "", "Start date YYYY-MM-DD")
	logExportCmd.Flags().StringVar(&logTo, "to", "", "End date YYYY-MM-DD")
	logImportCmd.Flags().StringVar(&logIn, "in", "", "Log workbook to import")
}
