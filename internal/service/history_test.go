package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/service"
	"github.com/saadjs/grocery-cli/internal/workbook"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.Local)
}

func logList(t *testing.T, sqldb *sql.DB, c *service.Catalog, date time.Time, selections []service.Selection, extras ...service.ExtraItem) service.LogBatch {
	t.Helper()
	list, err := service.BuildShoppingList(c.Recipes, selections, extras)
	if err != nil {
		t.Fatalf("build list: %v", err)
	}
	batch, err := service.AppendShoppingList(sqldb, list, date)
	if err != nil {
		t.Fatalf("append list: %v", err)
	}
	return batch
}

// seedHistory logs two weeks:
//
//	03-02 Chicken Rice x2 + 100 g rice
//	03-09 Chicken Rice x2, Tofu Bowl x1 + 1 tofu
func seedHistory(t *testing.T, sqldb *sql.DB, c *service.Catalog) {
	t.Helper()
	logList(t, sqldb, c, day(2),
		[]service.Selection{{Recipe: "Chicken Rice", Portion: 2}},
		service.ExtraItem{Ingredient: "Rice", Amount: 100, Unit: model.UnitGram})
	logList(t, sqldb, c, day(9),
		[]service.Selection{{Recipe: "Chicken Rice", Portion: 2}, {Recipe: "Tofu Bowl", Portion: 1, Notes: "mild"}},
		service.ExtraItem{Ingredient: "Tofu", Amount: 1, Unit: model.UnitCount})
}

func TestAppendShoppingListEmpty(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	if _, err := service.AppendShoppingList(sqldb, &service.ShoppingList{}, day(1)); !errors.Is(err, service.ErrNothingToWrite) {
		t.Fatalf("expected ErrNothingToWrite, got %v", err)
	}
	if _, ok, err := service.LatestExportDate(sqldb); err != nil || ok {
		t.Fatalf("empty log should have no latest date: ok=%v err=%v", ok, err)
	}
}

func TestAppendShoppingListReplacesSameDate(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	c := newTestCatalog(t)

	logList(t, sqldb, c, day(2), []service.Selection{{Recipe: "Tofu Bowl", Portion: 1}})
	batch := logList(t, sqldb, c, day(2), []service.Selection{{Recipe: "Chicken Rice", Portion: 1}})
	if batch.ExportDate != "2026-03-02" || batch.PerRecipeRows != 2 || batch.CombinedRows != 2 || batch.BatchID == "" {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	l, err := service.LoadLog(sqldb, service.DateRange{})
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if len(l.PerRecipe) != 2 || len(l.Combined) != 2 {
		t.Fatalf("expected only the second list, got %d/%d rows", len(l.PerRecipe), len(l.Combined))
	}
	for _, row := range l.PerRecipe {
		if row.Recipe != "Chicken Rice" || row.BatchID != batch.BatchID {
			t.Fatalf("stale row survived: %+v", row)
		}
	}
	if l.PerRecipe[0].Key != "CHICKENBREAST" || l.PerRecipe[0].Unit != model.UnitCount {
		t.Fatalf("unexpected first row: %+v", l.PerRecipe[0])
	}
}

func TestLoadLogDateRange(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	seedHistory(t, sqldb, newTestCatalog(t))

	l, err := service.LoadLog(sqldb, service.DateRange{From: day(5)})
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if len(l.PerRecipe) != 5 || len(l.Combined) != 4 {
		t.Fatalf("expected 5 per-recipe and 4 combined rows, got %d/%d", len(l.PerRecipe), len(l.Combined))
	}
	for _, row := range l.Combined {
		if !row.ExportDate.Equal(day(9)) {
			t.Fatalf("row outside range: %+v", row)
		}
	}

	if _, err := service.LoadLog(sqldb, service.DateRange{From: day(9), To: day(2)}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestExportDatesNewestFirst(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	seedHistory(t, sqldb, newTestCatalog(t))

	dates, err := service.ExportDates(sqldb)
	if err != nil {
		t.Fatalf("export dates: %v", err)
	}
	want := []service.LogDate{
		{Date: "2026-03-09", Recipes: 2, CombinedLines: 4},
		{Date: "2026-03-02", Recipes: 1, CombinedLines: 2},
	}
	if len(dates) != len(want) {
		t.Fatalf("got %+v", dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("date %d = %+v, want %+v", i, dates[i], want[i])
		}
	}

	latest, ok, err := service.LatestExportDate(sqldb)
	if err != nil || !ok || !latest.Equal(day(9)) {
		t.Fatalf("latest = %v ok=%v err=%v", latest, ok, err)
	}
}

func TestImportLogRoundTrip(t *testing.T) {
	t.Parallel()
	src := newTestDB(t)
	seedHistory(t, src, newTestCatalog(t))

	l, err := service.LoadLog(src, service.DateRange{})
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	dst := newTestDB(t)
	report, err := service.ImportLog(dst, l)
	if err != nil {
		t.Fatalf("import log: %v", err)
	}
	if len(report.Dates) != 2 || report.PerRecipeRows != len(l.PerRecipe) || report.CombinedRows != len(l.Combined) {
		t.Fatalf("unexpected import report: %+v", report)
	}

	want, _ := service.FavoriteRecipes(src, service.DateRange{}, 0)
	got, err := service.FavoriteRecipes(dst, service.DateRange{}, 0)
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("favorites differ: %+v vs %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("favorite %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// A second import of the same dates replaces instead of doubling.
	if _, err := service.ImportLog(dst, l); err != nil {
		t.Fatalf("reimport: %v", err)
	}
	again, _ := service.LoadLog(dst, service.DateRange{})
	if len(again.PerRecipe) != len(l.PerRecipe) || len(again.Combined) != len(l.Combined) {
		t.Fatalf("reimport duplicated rows: %d/%d", len(again.PerRecipe), len(again.Combined))
	}
}

func TestImportLogRejectsNegativeAmountAtomically(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	l := &workbook.Log{
		PerRecipe: []model.LogPerRecipeRow{
			{Recipe: "Chicken Rice", Portion: 1, Ingredient: "Rice", Amount: 200, Unit: "G", ExportDate: day(3)},
		},
		Combined: []model.LogCombinedRow{
			{Ingredient: "Rice", Amount: -200, Unit: model.UnitGram, ExportDate: day(3)},
		},
	}
	if _, err := service.ImportLog(sqldb, l); err == nil {
		t.Fatalf("expected negative amount to be rejected")
	}
	if _, ok, _ := service.LatestExportDate(sqldb); ok {
		t.Fatalf("failed import must not leave rows behind")
	}

	if _, err := service.ImportLog(sqldb, &workbook.Log{}); !errors.Is(err, service.ErrNothingToWrite) {
		t.Fatalf("expected ErrNothingToWrite for an empty log, got %v", err)
	}
}

func TestImportLogFillsMissingKey(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	l := &workbook.Log{
		PerRecipe: []model.LogPerRecipeRow{
			{Recipe: "Chicken Rice", Portion: 1, Ingredient: "Chicken Breast", Amount: 2, Unit: "U", ExportDate: day(3)},
		},
		Warnings: []string{"Log Combined row 7: invalid amount \"x\""},
	}
	report, err := service.ImportLog(sqldb, l)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("workbook warnings should be carried, got %v", report.Warnings)
	}
	got, _ := service.LoadLog(sqldb, service.DateRange{})
	if got.PerRecipe[0].Key != "CHICKENBREAST" || got.PerRecipe[0].Unit != model.UnitCount {
		t.Fatalf("unexpected stored row: %+v", got.PerRecipe[0])
	}
}
