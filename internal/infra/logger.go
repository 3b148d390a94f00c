package infra

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process-wide logger: raw JSON in production, pretty
// console output everywhere else.
func NewLogger(env string, out io.Writer) zerolog.Logger {
	if env == "production" {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(console).With().Timestamp().Logger()
}
