package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New configures the process-wide logger. Development gets a console
// writer, everything else stays on structured JSON.
func New(environment string) zerolog.Logger {
	if environment == "development" {
		return log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
