package service_test

import (
	"testing"

	"github.com/saadjs/grocery-cli/internal/service"
)

func TestConfigSetGet(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)

	if err := service.SetConfig(sqldb, " Data_Path ", " /srv/data.xlsx "); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := service.GetConfig(sqldb, service.ConfigDataPath)
	if err != nil || !ok || v != "/srv/data.xlsx" {
		t.Fatalf("get = %q ok=%v err=%v", v, ok, err)
	}
	if err := service.SetConfig(sqldb, service.ConfigDataPath, "/srv/other.xlsx"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	all, err := service.ListConfig(sqldb)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[service.ConfigDataPath] != "/srv/other.xlsx" {
		t.Fatalf("unexpected config: %v", all)
	}

	if _, ok, err := service.GetConfig(sqldb, service.ConfigExportDir); err != nil || ok {
		t.Fatalf("unset key: ok=%v err=%v", ok, err)
	}
	if err := service.SetConfig(sqldb, "calorie_goal", "2000"); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
	if len(service.ConfigKeys()) != 3 || service.ConfigKeys()[0][0] != service.ConfigDataPath {
		t.Fatalf("unexpected keys: %v", service.ConfigKeys())
	}
}

func TestResolveSettingPrecedence(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)

	got, err := service.ResolveSetting(sqldb, "", service.ConfigExportDir, "exports")
	if err != nil || got != "exports" {
		t.Fatalf("default: %q %v", got, err)
	}
	if err := service.SetConfig(sqldb, service.ConfigExportDir, "/lists"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := service.ResolveSetting(sqldb, "", service.ConfigExportDir, "exports"); got != "/lists" {
		t.Fatalf("config should beat default, got %q", got)
	}
	if got, _ := service.ResolveSetting(sqldb, "  ./here ", service.ConfigExportDir, "exports"); got != "./here" {
		t.Fatalf("flag should beat config, got %q", got)
	}
}
