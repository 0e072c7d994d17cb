package internal

import (
	"log/slog"
	"os"
	"strings"
)

// GetLoggerFromString maps a level name to a text logger writing to
// stderr, keeping the chat surface on stdout clean.
func GetLoggerFromString(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN", "WARNING":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
