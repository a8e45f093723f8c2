package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger on stdout. Development runs log at debug level.
func Setup(environment string) {
	level := slog.LevelInfo
	if environment == "development" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// Attach fans the current default logger out to extra handlers, e.g. the
// database sink once the database is reachable.
func Attach(handlers ...slog.Handler) {
	all := append([]slog.Handler{slog.Default().Handler()}, handlers...)
	slog.SetDefault(slog.New(NewMultiHandler(all...)))
}
