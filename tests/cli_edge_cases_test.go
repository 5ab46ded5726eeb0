package tests

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saadjs/grocery-cli/internal/workbook"
)

func buildGroceryBinary(t *testing.T) string {
	t.Helper()
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	binPath := filepath.Join(t.TempDir(), "grocery")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build grocery binary: %v\n%s", err, string(out))
	}
	return binPath
}

type env struct {
	bin  string
	db   string
	data string
	dir  string
}

func newEnv(t *testing.T, catalog *workbook.Catalog) env {
	t.Helper()
	dir := t.TempDir()
	e := env{bin: buildGroceryBinary(t), db: filepath.Join(dir, "grocery.db"), data: filepath.Join(dir, "data.xlsx"), dir: dir}
	if catalog != nil {
		if err := workbook.WriteCatalog(e.data, catalog); err != nil {
			t.Fatalf("write catalog: %v", err)
		}
	}
	_, stderr, exit := runGrocery(t, e, "init")
	if exit != 0 {
		t.Fatalf("init db failed: exit=%d stderr=%s", exit, stderr)
	}
	return e
}

func runGrocery(t *testing.T, e env, args ...string) (string, string, int) {
	t.Helper()
	allArgs := append([]string{"--db", e.db, "--data", e.data}, args...)
	cmd := exec.Command(e.bin, allArgs...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("run grocery command: %v", err)
	}
	return stdout.String(), stderr.String(), exitErr.ExitCode()
}

func kitchenCatalog() *workbook.Catalog {
	return &workbook.Catalog{
		Ingredients: []workbook.IngredientRow{
			{Name: "Chicken Breast", GramsPerUnit: "150", Kcal100g: "165", Prot100g: "31"},
			{Name: "Rice", GramsPerUnit: "0", Kcal100g: "130", Prot100g: "2.7"},
			{Name: "Tofu", GramsPerUnit: "200", Kcal100g: "144", Prot100g: "15"},
			{Name: "Spinazie", GramsPerUnit: "250", Kcal100g: "23", Prot100g: "2.9"},
		},
		Recipes: []workbook.RecipeRow{
			{Recipe: "Chicken Rice", Ingredient: "Chicken Breast", Amount: "2", Unit: "u"},
			{Recipe: "Chicken Rice", Ingredient: "Rice", Amount: "200", Unit: "g"},
			{Recipe: "Tofu Bowl", Ingredient: "Tofu", Amount: "1", Unit: "u"},
			{Recipe: "Tofu Bowl", Ingredient: "RICE", Amount: "150", Unit: "g"},
			{Recipe: "Tofu Bowl", Ingredient: "Spinazie", Amount: "100", Unit: "g"},
		},
	}
}

func TestCLIRejectsEmptySelection(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	_, stderr, exit := runGrocery(t, e, "list", "build")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for empty selection")
	}
	if !strings.Contains(stderr, "select at least one --recipe or --extra") {
		t.Fatalf("expected selection error in stderr, got: %s", stderr)
	}
}

func TestCLIRejectsUnknownRecipe(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	_, stderr, exit := runGrocery(t, e, "list", "build", "--recipe", "Unicorn Stew=2")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for unknown recipe")
	}
	if !strings.Contains(stderr, "recipe not found") {
		t.Fatalf("expected not-found error, got: %s", stderr)
	}
}

func TestCLIRejectsUnknownExtraUnit(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	_, stderr, exit := runGrocery(t, e, "list", "build", "--extra", "Rice=2lb")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for unknown unit")
	}
	if !strings.Contains(stderr, "unknown unit") {
		t.Fatalf("expected unit error, got: %s", stderr)
	}
}

func TestCLIRejectsZeroPortion(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	_, stderr, exit := runGrocery(t, e, "list", "build", "--recipe", "Chicken Rice=0")
	if exit == 0 {
		t.Fatalf("expected non-zero exit for zero portion")
	}
	if !strings.Contains(stderr, "portion must be > 0") {
		t.Fatalf("expected portion error, got: %s", stderr)
	}
}

func TestCLIMissingCatalogIsFatal(t *testing.T) {
	e := newEnv(t, nil)

	_, stderr, exit := runGrocery(t, e, "recipe", "list")
	if exit == 0 {
		t.Fatalf("expected non-zero exit without a catalog workbook")
	}
	if !strings.Contains(stderr, "load catalog") {
		t.Fatalf("expected load error, got: %s", stderr)
	}
}

func TestCLIExportUsesConfiguredDirectory(t *testing.T) {
	e := newEnv(t, kitchenCatalog())
	exportDir := filepath.Join(e.dir, "lists")

	_, stderr, exit := runGrocery(t, e, "config", "set", "--export-dir", exportDir)
	if exit != 0 {
		t.Fatalf("config set failed: exit=%d stderr=%s", exit, stderr)
	}
	_, stderr, exit = runGrocery(t, e, "list", "build", "--recipe", "Tofu Bowl", "--export", "--date", "2026-03-01")
	if exit != 0 {
		t.Fatalf("list build --export failed: exit=%d stderr=%s", exit, stderr)
	}
	want := filepath.Join(exportDir, "Grocery_List_2026-03-01.xlsx")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected export at %s: %v", want, err)
	}
}

func TestCLICategoryDoesNotNeedCatalog(t *testing.T) {
	e := newEnv(t, nil)

	stdout, stderr, exit := runGrocery(t, e, "category", "Kipfilet", "--month", "6")
	if exit != 0 {
		t.Fatalf("category failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stdout, "Category: Protein") || !strings.Contains(stdout, "Meat/fish: Meat") {
		t.Fatalf("unexpected category output: %s", stdout)
	}
}

func TestCLIDoctorCleanCatalog(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	stdout, stderr, exit := runGrocery(t, e, "doctor")
	if exit != 0 {
		t.Fatalf("doctor failed: exit=%d stdout=%s stderr=%s", exit, stdout, stderr)
	}
	if !strings.Contains(stdout, "Ingredients without unit weight: Rice") {
		t.Fatalf("expected unit weight note, got: %s", stdout)
	}
}

func TestCLIBackupRestoresHistoryAndCatalog(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	if _, stderr, exit := runGrocery(t, e, "list", "build", "--recipe", "Chicken Rice=2", "--log", "--date", "2026-03-02"); exit != 0 {
		t.Fatalf("list build --log failed: exit=%d stderr=%s", exit, stderr)
	}
	backup := filepath.Join(e.dir, "snapshots", "week10.db")
	stdout, stderr, exit := runGrocery(t, e, "backup", "create", "--out", backup)
	if exit != 0 {
		t.Fatalf("backup create failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stdout, "Export dates: 1 (2026-03-02..2026-03-02)") || !strings.Contains(stdout, "Catalog: ") {
		t.Fatalf("unexpected backup output: %s", stdout)
	}

	stdout, _, exit = runGrocery(t, e, "backup", "list", "--dir", filepath.Dir(backup))
	if exit != 0 || !strings.Contains(stdout, "week10.db") || !strings.Contains(stdout, "\t1\t2026-03-02..2026-03-02\tyes") {
		t.Fatalf("unexpected backup list: %s", stdout)
	}

	fresh := env{bin: e.bin, db: filepath.Join(e.dir, "fresh", "grocery.db"), data: filepath.Join(e.dir, "fresh", "data.xlsx"), dir: e.dir}
	stdout, stderr, exit = runGrocery(t, fresh, "backup", "restore", "--file", backup, "--catalog")
	if exit != 0 {
		t.Fatalf("backup restore failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stdout, "Restored catalog to "+fresh.data) {
		t.Fatalf("expected catalog restore, got: %s", stdout)
	}
	stdout, stderr, exit = runGrocery(t, fresh, "analytics", "favorites")
	if exit != 0 || !strings.Contains(stdout, "Chicken Rice") {
		t.Fatalf("restored history unusable: exit=%d stdout=%s stderr=%s", exit, stdout, stderr)
	}
}

func TestCLIUnitsViewMergesConvertedLines(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	stdout, stderr, exit := runGrocery(t, e, "list", "build",
		"--recipe", "Chicken Rice=1", "--extra", "Chicken Breast=300g", "--units")
	if exit != 0 {
		t.Fatalf("list build --units failed: %s", stderr)
	}
	if n := strings.Count(stdout, "Chicken Breast\t"); n != 1 {
		t.Fatalf("expected one chicken row, got %d:\n%s", n, stdout)
	}
	if !strings.Contains(stdout, "Chicken Breast\t4\tu") {
		t.Fatalf("expected 4 u of chicken, got:\n%s", stdout)
	}
}

func TestCLIAnalyticsPairsAndTrendSplit(t *testing.T) {
	e := newEnv(t, kitchenCatalog())

	if _, stderr, exit := runGrocery(t, e, "list", "build",
		"--recipe", "Chicken Rice=1", "--recipe", "Tofu Bowl=1", "--extra", "Tofu=1",
		"--log", "--date", "2026-03-02"); exit != 0 {
		t.Fatalf("list build failed: %s", stderr)
	}

	stdout, stderr, exit := runGrocery(t, e, "analytics", "pairs")
	if exit != 0 {
		t.Fatalf("analytics pairs failed: %s", stderr)
	}
	for _, want := range []string{"Chicken Breast\tRice\t1", "Rice\tSpinazie\t1", "Spinazie\tTofu\t1"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected pair %q in:\n%s", want, stdout)
		}
	}

	stdout, stderr, exit = runGrocery(t, e, "analytics", "trend")
	if exit != 0 {
		t.Fatalf("analytics trend failed: %s", stderr)
	}
	if !strings.Contains(stdout, "2026-03-02\tTofu\t2\t1\t1\tu") {
		t.Fatalf("expected tofu split into recipe and extra, got:\n%s", stdout)
	}
}
