package grocery

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/grocery-cli/internal/app"
	"github.com/saadjs/grocery-cli/internal/db"
	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

// withCatalog opens the history database and loads the catalog workbook.
// Load diagnostics go to the command's stderr through the logger.
func withCatalog(cmd *cobra.Command, run func(*sql.DB, *service.Catalog, *service.LoadReport) error) error {
	return withDB(func(sqldb *sql.DB) error {
		path, err := resolveDataPath(sqldb)
		if err != nil {
			return err
		}
		catalog, report, err := service.OpenCatalog(path, newLogger(cmd))
		if err != nil {
			return err
		}
		return run(sqldb, catalog, report)
	})
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func resolveDataPath(sqldb *sql.DB) (string, error) {
	fallback, err := app.DefaultDataPath()
	if err != nil {
		return "", err
	}
	return service.ResolveSetting(sqldb, dataPath, service.ConfigDataPath, fallback)
}

func newLogger(cmd *cobra.Command) *logrus.Logger {
	return app.NewLogger(cmd.ErrOrStderr(), verbose, quiet)
}

func printJSON(cmd *cobra.Command, what string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s json: %w", what, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	if quiet {
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}

func parseDateOrToday(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", flag, value)
	}
	return t, nil
}

func parseDateRange(from, to string) (service.DateRange, error) {
	var r service.DateRange
	var err error
	if strings.TrimSpace(from) != "" {
		if r.From, err = parseDateOrToday("--from", from); err != nil {
			return r, err
		}
	}
	if strings.TrimSpace(to) != "" {
		if r.To, err = parseDateOrToday("--to", to); err != nil {
			return r, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return r, fmt.Errorf("--from must be on or before --to")
	}
	return r, nil
}

func formatAmount(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
