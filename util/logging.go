package util

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a slog.Logger backed by a tint handler, producing
// colorized, human-readable output suitable for local development. The
// engine's components log through the package-level slog functions, so a
// caller that wants JSON or another handler installs its own logger with
// slog.SetDefault.
func NewLogger() *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
	}))
}
