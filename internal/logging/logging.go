// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
)

// New initializes a structured logger and sets it as the slog default.
// LOG_FORMAT=json switches to JSON output for production; the default is
// human-readable text for development.
func New() {
	var handler slog.Handler
	switch os.Getenv("LOG_FORMAT") {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}
