package service_test

import (
	"strings"
	"testing"

	"github.com/saadjs/grocery-cli/internal/service"
)

func TestRunDoctorFindsAndFixesLogProblems(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	c := newTestCatalog(t)
	seedHistory(t, sqldb, c)

	for _, stmt := range []string{
		`INSERT INTO log_combined(batch_id, export_date, ingredient, amount, unit) VALUES('x', '2026-03-02', 'Rice', 10, ' G')`,
		`INSERT INTO log_combined(batch_id, export_date, ingredient, amount, unit) VALUES('x', '2026-03-02', 'Milk', 1, 'l')`,
		`INSERT INTO log_combined(batch_id, export_date, ingredient, amount, unit) VALUES('x', '2026-03-02', 'Milk', 1, 'l')`,
		`INSERT INTO log_per_recipe(batch_id, export_date, recipe, portion, ingredient, ingredient_key, amount, unit) VALUES('y', '2026-03-20', 'Tofu Bowl', 1, 'Tofu', 'TOFU', 1, 'U')`,
	} {
		if _, err := sqldb.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	report, err := service.RunDoctor(sqldb, c, &service.LoadReport{}, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if report.UnknownUnitRows != 4 || report.DuplicateLogLines != 1 || report.DatesMissingView != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !report.Issues() {
		t.Fatalf("expected issues")
	}
	if len(report.ZeroEnergyRecipes) != 1 || report.ZeroEnergyRecipes[0] != "Salt Water" {
		t.Fatalf("unexpected zero-energy recipes: %v", report.ZeroEnergyRecipes)
	}
	if strings.Join(report.MissingUnitWeight, ",") != "Rice,Salt" {
		t.Fatalf("unexpected missing unit weights: %v", report.MissingUnitWeight)
	}

	fixed, err := service.RunDoctor(sqldb, nil, nil, true)
	if err != nil {
		t.Fatalf("doctor fix: %v", err)
	}
	if fixed.FixedUnitRows != 2 || fixed.UnknownUnitRows != 2 {
		t.Fatalf("expected 2 fixed and 2 remaining, got %+v", fixed)
	}
	// ' G' became 'g' and now duplicates the logged Rice line.
	if fixed.DuplicateLogLines != 2 {
		t.Fatalf("expected 2 duplicate lines after fix, got %d", fixed.DuplicateLogLines)
	}
}

func TestRunDoctorCleanLog(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	seedHistory(t, sqldb, newTestCatalog(t))

	report, err := service.RunDoctor(sqldb, nil, nil, false)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if report.Issues() {
		t.Fatalf("clean log reported issues: %+v", report)
	}
}
