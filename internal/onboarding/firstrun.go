package onboarding

import (
	"saul/config"
)

// IsFirstRun reports whether setup has never written a config file.
func IsFirstRun() bool {
	return !config.Exists()
}
