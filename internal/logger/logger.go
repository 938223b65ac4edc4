package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets human readable console
// output at debug level; everything else gets JSON at info level.
func New(environment string) zerolog.Logger {
	return NewWithWriter(environment, os.Stderr)
}

// NewWithWriter is New writing to w
func NewWithWriter(environment string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	out := w
	if environment == "development" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(out).With().Timestamp().Str("service", "mealturn-web").Logger().Level(level)
}
