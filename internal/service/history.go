package service

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/workbook"
)

const logDateLayout = "2006-01-02"

// DateRange bounds history queries by export date. A zero From or To leaves
// that side open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return fmt.Errorf("from date must be <= to date")
	}
	return nil
}

// where returns an SQL condition on the export_date column plus its arguments.
func (r DateRange) where(column string) (string, []any) {
	clauses := []string{"1 = 1"}
	var args []any
	if !r.From.IsZero() {
		clauses = append(clauses, column+" >= ?")
		args = append(args, r.From.Format(logDateLayout))
	}
	if !r.To.IsZero() {
		clauses = append(clauses, column+" <= ?")
		args = append(args, r.To.Format(logDateLayout))
	}
	return strings.Join(clauses, " AND "), args
}

type LogBatch struct {
	BatchID       string `json:"batch_id"`
	ExportDate    string `json:"export_date"`
	PerRecipeRows int    `json:"per_recipe_rows"`
	CombinedRows  int    `json:"combined_rows"`
}

type LogImportReport struct {
	Dates         []string `json:"dates"`
	PerRecipeRows int      `json:"per_recipe_rows"`
	CombinedRows  int      `json:"combined_rows"`
	Warnings      []string `json:"warnings,omitempty"`
}

type LogDate struct {
	Date          string `json:"date"`
	Recipes       int    `json:"recipes"`
	CombinedLines int    `json:"combined_lines"`
}

// AppendShoppingList logs both views of a shopping list under date. Rows already
// logged for that date are replaced. An empty list is not written.
func AppendShoppingList(db *sql.DB, list *ShoppingList, date time.Time) (LogBatch, error) {
	if list == nil || list.Empty() {
		return LogBatch{}, ErrNothingToWrite
	}
	batch := LogBatch{BatchID: uuid.NewString(), ExportDate: date.Format(logDateLayout)}

	tx, err := db.Begin()
	if err != nil {
		return LogBatch{}, fmt.Errorf("begin log tx: %w", err)
	}
	defer tx.Rollback()

	if err := deleteLogDates(tx, []string{batch.ExportDate}); err != nil {
		return LogBatch{}, err
	}
	for _, p := range list.PerRecipe {
		if err := insertPerRecipe(tx, batch.BatchID, batch.ExportDate, p.Recipe, p.Portion, p.Ingredient, p.IngredientKey, p.Amount, p.Unit, p.Notes); err != nil {
			return LogBatch{}, err
		}
		batch.PerRecipeRows++
	}
	for _, c := range list.Combined {
		if err := insertCombined(tx, batch.BatchID, batch.ExportDate, c.Ingredient, c.Amount, c.Unit); err != nil {
			return LogBatch{}, err
		}
		batch.CombinedRows++
	}
	if err := tx.Commit(); err != nil {
		return LogBatch{}, fmt.Errorf("commit log tx: %w", err)
	}
	return batch, nil
}

// ImportLog stores the rows of a log workbook. Every export date present in the
// workbook replaces what is already logged for that date.
func ImportLog(db *sql.DB, l *workbook.Log) (LogImportReport, error) {
	report := LogImportReport{Warnings: append([]string(nil), l.Warnings...)}
	dateSet := map[string]struct{}{}
	for _, r := range l.PerRecipe {
		dateSet[r.ExportDate.Format(logDateLayout)] = struct{}{}
	}
	for _, r := range l.Combined {
		dateSet[r.ExportDate.Format(logDateLayout)] = struct{}{}
	}
	if len(dateSet) == 0 {
		return report, ErrNothingToWrite
	}
	for d := range dateSet {
		report.Dates = append(report.Dates, d)
	}
	sort.Strings(report.Dates)

	batches := map[string]string{}
	for _, d := range report.Dates {
		batches[d] = uuid.NewString()
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin log import tx: %w", err)
	}
	defer tx.Rollback()

	if err := deleteLogDates(tx, report.Dates); err != nil {
		return report, err
	}
	for _, r := range l.PerRecipe {
		d := r.ExportDate.Format(logDateLayout)
		key := r.Key
		if strings.TrimSpace(key) == "" {
			key = r.Ingredient
		}
		if err := insertPerRecipe(tx, batches[d], d, r.Recipe, r.Portion, r.Ingredient, key, r.Amount, r.Unit, r.Notes); err != nil {
			return report, err
		}
		report.PerRecipeRows++
	}
	for _, r := range l.Combined {
		d := r.ExportDate.Format(logDateLayout)
		if err := insertCombined(tx, batches[d], d, r.Ingredient, r.Amount, r.Unit); err != nil {
			return report, err
		}
		report.CombinedRows++
	}
	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit log import: %w", err)
	}
	return report, nil
}

func deleteLogDates(tx *sql.Tx, dates []string) error {
	for _, d := range dates {
		if _, err := tx.Exec(`DELETE FROM log_per_recipe WHERE export_date = ?`, d); err != nil {
			return fmt.Errorf("clear per-recipe log for %s: %w", d, err)
		}
		if _, err := tx.Exec(`DELETE FROM log_combined WHERE export_date = ?`, d); err != nil {
			return fmt.Errorf("clear combined log for %s: %w", d, err)
		}
	}
	return nil
}

func insertPerRecipe(tx *sql.Tx, batchID, date, recipe string, portion int, ingredient, key string, amount float64, unit model.Unit, notes string) error {
	if err := validateNonNegativeFloat("amount", amount); err != nil {
		return fmt.Errorf("log %s %s: %w", recipe, ingredient, err)
	}
	_, err := tx.Exec(`
INSERT INTO log_per_recipe(batch_id, export_date, recipe, portion, ingredient, ingredient_key, amount, unit, notes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, batchID, date, strings.TrimSpace(recipe), portion, strings.TrimSpace(ingredient), MakeKey(key), amount, string(NormalizeUnit(string(unit))), strings.TrimSpace(notes))
	if err != nil {
		return fmt.Errorf("insert per-recipe log row: %w", err)
	}
	return nil
}

func insertCombined(tx *sql.Tx, batchID, date, ingredient string, amount float64, unit model.Unit) error {
	if err := validateNonNegativeFloat("amount", amount); err != nil {
		return fmt.Errorf("log %s: %w", ingredient, err)
	}
	_, err := tx.Exec(`
INSERT INTO log_combined(batch_id, export_date, ingredient, amount, unit)
VALUES(?, ?, ?, ?, ?)
`, batchID, date, strings.TrimSpace(ingredient), amount, string(NormalizeUnit(string(unit))))
	if err != nil {
		return fmt.Errorf("insert combined log row: %w", err)
	}
	return nil
}

// LoadLog reads logged rows within r, ordered by date and insertion order.
func LoadLog(db *sql.DB, r DateRange) (*workbook.Log, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	out := &workbook.Log{}
	cond, args := r.where("export_date")

	rows, err := db.Query(`
SELECT id, batch_id, export_date, recipe, portion, ingredient, ingredient_key, amount, unit, notes
FROM log_per_recipe
WHERE `+cond+`
ORDER BY export_date ASC, id ASC
`, args...)
	if err != nil {
		return nil, fmt.Errorf("query per-recipe log: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row model.LogPerRecipeRow
		var date, unit string
		if err := rows.Scan(&row.ID, &row.BatchID, &date, &row.Recipe, &row.Portion, &row.Ingredient, &row.Key, &row.Amount, &unit, &row.Notes); err != nil {
			return nil, fmt.Errorf("scan per-recipe log: %w", err)
		}
		if row.ExportDate, err = parseLogDate(date); err != nil {
			return nil, err
		}
		row.Unit = model.Unit(unit)
		out.PerRecipe = append(out.PerRecipe, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate per-recipe log: %w", err)
	}

	combined, err := loadCombined(db, r)
	if err != nil {
		return nil, err
	}
	out.Combined = combined
	return out, nil
}

func loadCombined(db *sql.DB, r DateRange) ([]model.LogCombinedRow, error) {
	cond, args := r.where("export_date")
	rows, err := db.Query(`
SELECT id, batch_id, export_date, ingredient, amount, unit
FROM log_combined
WHERE `+cond+`
ORDER BY export_date ASC, id ASC
`, args...)
	if err != nil {
		return nil, fmt.Errorf("query combined log: %w", err)
	}
	defer rows.Close()
	var out []model.LogCombinedRow
	for rows.Next() {
		var row model.LogCombinedRow
		var date, unit string
		if err := rows.Scan(&row.ID, &row.BatchID, &date, &row.Ingredient, &row.Amount, &unit); err != nil {
			return nil, fmt.Errorf("scan combined log: %w", err)
		}
		if row.ExportDate, err = parseLogDate(date); err != nil {
			return nil, err
		}
		row.Unit = model.Unit(unit)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate combined log: %w", err)
	}
	return out, nil
}

// ExportDates lists logged export dates, newest first.
func ExportDates(db *sql.DB) ([]LogDate, error) {
	rows, err := db.Query(`
SELECT d.export_date,
  (SELECT COUNT(DISTINCT recipe) FROM log_per_recipe p WHERE p.export_date = d.export_date),
  (SELECT COUNT(1) FROM log_combined c WHERE c.export_date = d.export_date)
FROM (
  SELECT export_date FROM log_per_recipe
  UNION
  SELECT export_date FROM log_combined
) d
ORDER BY d.export_date DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list export dates: %w", err)
	}
	defer rows.Close()
	out := make([]LogDate, 0)
	for rows.Next() {
		var d LogDate
		if err := rows.Scan(&d.Date, &d.Recipes, &d.CombinedLines); err != nil {
			return nil, fmt.Errorf("scan export date: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export dates: %w", err)
	}
	return out, nil
}

// LatestExportDate returns the newest logged date; ok is false for an empty log.
func LatestExportDate(db *sql.DB) (time.Time, bool, error) {
	var raw sql.NullString
	err := db.QueryRow(`
SELECT MAX(export_date) FROM (
  SELECT export_date FROM log_per_recipe
  UNION ALL
  SELECT export_date FROM log_combined
)
`).Scan(&raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest export date: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false, nil
	}
	t, err := parseLogDate(raw.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func parseLogDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(logDateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse log date %q: %w", raw, err)
	}
	return t, nil
}
