package logger

import (
	"log/slog"
	"os"
)

var Log *slog.Logger

// Init sets up the shared JSON logger. Every record carries the service
// name so log aggregation can tell talentflow services apart.
func Init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler).With("service", "talentflow-api")
}
