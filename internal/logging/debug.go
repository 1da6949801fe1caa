package logging

import (
	"log/slog"
	"os"
)

// DebugEnabled returns true if debug mode is enabled via TC_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TC_DEBUG") != ""
}

// ResolveLevel applies TC_DEBUG on top of the configured level.
func ResolveLevel(configured string) slog.Level {
	if DebugEnabled() {
		return slog.LevelDebug
	}
	return ParseLevel(configured)
}
