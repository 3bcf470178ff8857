package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Unknown levels fall back to info so a typo
// in LOG_LEVEL never silences the service. ENV=dev switches to the console
// writer for local runs.
func New(level string) *zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stdout)
	if env := os.Getenv("ENV"); env == "dev" || env == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	log = log.Level(parsed).With().Timestamp().Logger()

	return &log
}
