package onboarding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"saul/config"
)

func TestAnswersApply(t *testing.T) {
	cfg := config.Default()
	a := answersFrom(cfg)
	a.BackendURL = "  https://cases.example.org/api/ "
	a.UserName = " Kim "
	a.Theme = "light"
	a.Resizable = false

	got := a.Apply(cfg)
	if got.BackendURL != "https://cases.example.org/api" {
		t.Errorf("backend url not normalised: %q", got.BackendURL)
	}
	if got.UserName != "Kim" || got.Theme != "light" || got.Layout.Resizable {
		t.Errorf("answers not applied: %+v", got)
	}
	if got.Layout.SidebarWidth != cfg.Layout.SidebarWidth {
		t.Errorf("fields outside the form must be kept")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("applied config should validate: %v", err)
	}
}

func TestValidateBackendURL(t *testing.T) {
	for _, ok := range []string{"http://localhost:8000/api", "https://x.example"} {
		if err := validateBackendURL(ok); err != nil {
			t.Errorf("%q should be accepted: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "localhost:8000", "ftp://x", "http://"} {
		if err := validateBackendURL(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"case_id":1,"client_id":1},{"case_id":2,"client_id":1}]`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.BackendURL = srv.URL
	n, err := Probe(context.Background(), cfg)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 cases, got %d", n)
	}

	srv.Close()
	if _, err := Probe(context.Background(), cfg); err == nil {
		t.Errorf("probe of a closed server should fail")
	}
}

func TestIsFirstRun(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	if !IsFirstRun() {
		t.Fatalf("empty home should be a first run")
	}
	path, err := config.GetConfigFile()
	if err != nil {
		t.Fatal(err)
	}
	if err := config.Save(path, config.Default()); err != nil {
		t.Fatal(err)
	}
	if IsFirstRun() {
		t.Errorf("written config should end the first run")
	}
}
