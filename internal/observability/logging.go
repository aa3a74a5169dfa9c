package observability

import (
	"log/slog"
	"os"

	"github.com/trafficsafety/fars/internal/config"
)

// NewLogger builds the process-wide slog logger from config: JSON or text
// handler per LOG_FORMAT, leveled per LOG_LEVEL. Unknown values fall back
// to text at info level.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
