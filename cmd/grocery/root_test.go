package grocery

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := runRoot(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if out == "" {
		t.Fatalf("expected help output")
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grocery.db")
	for i := 0; i < 2; i++ {
		if _, err := runRoot(t, "--db", path, "init"); err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
	}
}

func TestTemplateThenNutrition(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "grocery.db")
	data := filepath.Join(dir, "data.xlsx")

	if _, err := runRoot(t, "catalog", "template", "--out", data); err != nil {
		t.Fatalf("catalog template: %v", err)
	}
	out, err := runRoot(t, "--db", dbFile, "--data", data, "recipe", "nutrition", "Chicken Rice", "--portion", "1")
	if err != nil {
		t.Fatalf("recipe nutrition: %v", err)
	}
	// 2 x 247.5 chicken + 260 rice + 102 broccoli
	if !strings.Contains(out, "Calories: 857.00") {
		t.Fatalf("unexpected nutrition output: %s", out)
	}
}

func TestParseSelection(t *testing.T) {
	name, portion, err := parseSelection("Chicken Rice=3")
	if err != nil || name != "Chicken Rice" || portion != 3 {
		t.Fatalf("unexpected selection %q %d %v", name, portion, err)
	}
	name, portion, err = parseSelection("Pasta")
	if err != nil || name != "Pasta" || portion != 1 {
		t.Fatalf("bare name should be one portion, got %q %d %v", name, portion, err)
	}
	if _, _, err := parseSelection("Pasta=0"); err == nil {
		t.Fatalf("expected error for zero portion")
	}
	if _, _, err := parseSelection("Pasta=two"); err == nil {
		t.Fatalf("expected error for non-numeric portion")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{500: "500", 2.5: "2.5", 0.333: "0.33", 0: "0"}
	for in, want := range cases {
		if got := formatAmount(in); got != want {
			t.Fatalf("formatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
