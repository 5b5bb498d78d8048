package version

import "testing"

func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	Version, Commit, Date = "", "", ""
	if got := String(); got != "saul dev" {
		t.Errorf("got %q", got)
	}
	Version, Commit, Date = "1.2.0", "abc123", "2025-05-01"
	if got := String(); got != "saul 1.2.0 (abc123, 2025-05-01)" {
		t.Errorf("got %q", got)
	}
}
