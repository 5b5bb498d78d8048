package version

import "fmt"

// Version, Commit and Date are set at build time via -ldflags
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Get returns the current version
func Get() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// String is the long form printed by `saul version`.
func String() string {
	s := "saul " + Get()
	if Commit != "" {
		s += fmt.Sprintf(" (%s", Commit)
		if Date != "" {
			s += ", " + Date
		}
		s += ")"
	}
	return s
}
