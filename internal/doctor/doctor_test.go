package doctor

import (
	"context"
	"errors"
	"testing"

	"saul/config"
)

func findCheck(t *testing.T, r Report, name string) CheckResult {
	t.Helper()
	for _, c := range r.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %q check in report", name)
	return CheckResult{}
}

func TestReportFreshInstall(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	t.Setenv(config.BackendURLEnv, "")

	probe := func(context.Context, config.Config) (int, error) { return 3, nil }
	r := GenerateReport(context.Background(), probe)

	if c := findCheck(t, r, "Configuration"); c.Status != StatusWarn {
		t.Errorf("missing config.yaml should warn, got %s: %s", c.Status, c.Summary)
	}
	if c := findCheck(t, r, "Backend"); c.Status != StatusOK {
		t.Errorf("reachable backend should pass, got %s", c.Status)
	}
	if c := findCheck(t, r, "Preferences store"); c.Status != StatusOK {
		t.Errorf("fresh database should open, got %s: %v", c.Status, c.Details)
	}
	if r.ExitCode() != 0 {
		t.Errorf("warnings alone must not fail the report")
	}
}

func TestReportUnreachableBackendFails(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())

	probe := func(context.Context, config.Config) (int, error) { return 0, errors.New("connection refused") }
	r := GenerateReport(context.Background(), probe)

	c := findCheck(t, r, "Backend")
	if c.Status != StatusFail || len(c.Actions) == 0 {
		t.Errorf("unreachable backend should fail with actions, got %+v", c)
	}
	if r.ExitCode() != 1 {
		t.Errorf("expected exit code 1")
	}
}

func TestReportInvalidConfigFails(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	path, err := config.GetConfigFile()
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Theme = "sepia"
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	r := GenerateReport(context.Background(), func(context.Context, config.Config) (int, error) { return 1, nil })
	if c := findCheck(t, r, "Configuration"); c.Status != StatusFail {
		t.Errorf("invalid theme should fail the config check, got %s", c.Status)
	}
}
