// Package doctor inspects a saul installation and reports what is broken.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"saul/config"
	"saul/internal/onboarding"
	"saul/internal/preferences"
)

type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

type CheckResult struct {
	Name    string
	Status  Status
	Summary string
	Details []string
	Actions []string
}

type Report struct {
	Checks []CheckResult
}

func (r Report) HasFailures() bool {
	for _, check := range r.Checks {
		if check.Status == StatusFail {
			return true
		}
	}
	return false
}

func (r Report) ExitCode() int {
	if r.HasFailures() {
		return 1
	}
	return 0
}

// Prober asks the backend for its cases and returns how many it has.
type Prober func(ctx context.Context, cfg config.Config) (int, error)

func GenerateReport(ctx context.Context, probe Prober) Report {
	if probe == nil {
		probe = onboarding.Probe
	}
	var checks []CheckResult

	checks = append(checks, checkMetadata())

	configResult, cfg := checkConfig()
	checks = append(checks, configResult)
	checks = append(checks, checkBackend(ctx, cfg, probe))
	checks = append(checks, checkPreferences(ctx))
	checks = append(checks, checkLogs())

	return Report{Checks: checks}
}

func checkMetadata() CheckResult {
	result := CheckResult{Name: "Runtime", Status: StatusOK}

	parts := []string{"go " + runtime.Version()}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			parts = append(parts, "module "+v)
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				result.Details = append(result.Details, "VCS revision: "+setting.Value)
			}
		}
	}
	result.Summary = strings.Join(parts, ", ")
	result.Details = append(result.Details, fmt.Sprintf("OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH))

	if exe, err := os.Executable(); err == nil {
		result.Details = append(result.Details, "Executable: "+exe)
	}
	return result
}

func checkConfig() (CheckResult, config.Config) {
	result := CheckResult{Name: "Configuration", Status: StatusOK}

	configDir, err := config.GetConfigDir()
	if err != nil {
		result.Status = StatusFail
		result.Summary = "Unable to resolve config directory"
		result.Details = append(result.Details, err.Error())
		result.Actions = append(result.Actions, "verify HOME or "+config.HomeEnv+" is set and accessible")
		return result, config.Default()
	}
	result.Details = append(result.Details, "Config directory: "+configDir)

	if err := checkDirWritable(configDir); err != nil {
		result.Status = StatusWarn
		result.Details = append(result.Details, fmt.Sprintf("Directory not writable: %v", err))
		result.Actions = append(result.Actions, "adjust permissions so saul can write its config")
	}

	path, err := config.GetConfigFile()
	if err != nil {
		result.Status = StatusFail
		result.Summary = "Unable to resolve config file"
		result.Details = append(result.Details, err.Error())
		return result, config.Default()
	}
	result.Details = append(result.Details, "Config file: "+path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		result.Status = StatusWarn
		result.Summary = "config.yaml not found, using defaults"
		result.Actions = append(result.Actions, "run 'saul init'")
		cfg, _ := config.Load(path)
		return result, cfg
	}

	cfg, err := config.Load(path)
	if err != nil {
		result.Status = StatusFail
		result.Summary = "config.yaml is invalid"
		result.Details = append(result.Details, err.Error())
		result.Actions = append(result.Actions, "fix config.yaml or rerun 'saul init'")
		return result, cfg
	}
	result.Summary = "Backend " + cfg.BackendURL
	return result, cfg
}

func checkDirWritable(dir string) error {
	file, err := os.CreateTemp(dir, "doctor-")
	if err != nil {
		return err
	}
	name := file.Name()
	file.Close()
	return os.Remove(name)
}

func checkBackend(ctx context.Context, cfg config.Config, probe Prober) CheckResult {
	result := CheckResult{Name: "Backend", Status: StatusOK}
	result.Details = append(result.Details, "URL: "+cfg.BackendURL)

	n, err := probe(ctx, cfg)
	if err != nil {
		result.Status = StatusFail
		result.Summary = "Backend not reachable"
		result.Details = append(result.Details, err.Error())
		result.Actions = append(result.Actions,
			"start the backend or point backend_url at it",
			"override once with "+config.BackendURLEnv+"=<url>",
		)
		return result
	}
	result.Summary = fmt.Sprintf("Backend answered (%d cases)", n)
	if n == 0 {
		result.Status = StatusWarn
		result.Actions = append(result.Actions, "create a client and a case before opening the notebook")
	}
	return result
}

func checkPreferences(ctx context.Context) CheckResult {
	result := CheckResult{Name: "Preferences store", Status: StatusOK}

	path, err := config.GetDatabasePath()
	if err != nil {
		result.Status = StatusFail
		result.Summary = "Unable to resolve database path"
		result.Details = append(result.Details, err.Error())
		return result
	}
	result.Details = append(result.Details, "Database: "+path)

	store, err := preferences.Open(ctx, path)
	if err != nil {
		result.Status = StatusWarn
		result.Summary = "Database unavailable, preferences will not persist"
		result.Details = append(result.Details, err.Error())
		result.Actions = append(result.Actions, "remove or fix "+path)
		return result
	}
	defer store.Close()

	theme, err := store.Get(ctx, preferences.KeyTheme)
	if err != nil {
		result.Status = StatusWarn
		result.Summary = "Database opened but cannot be read"
		result.Details = append(result.Details, err.Error())
		return result
	}
	if theme == "" {
		theme = "unset"
	}
	result.Summary = "Database ready (theme " + theme + ")"
	return result
}

func checkLogs() CheckResult {
	result := CheckResult{Name: "Logs", Status: StatusOK}
	path, err := config.GetLogPath()
	if err != nil {
		result.Status = StatusWarn
		result.Summary = "Log directory unavailable"
		result.Details = append(result.Details, err.Error())
		return result
	}
	result.Summary = path
	return result
}
