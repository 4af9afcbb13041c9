package httpserve

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger at debug level in the "development"
// environment and info level otherwise.
func NewLogger(environment string) zerolog.Logger {
	return NewLoggerWithWriter(environment, zerolog.ConsoleWriter{Out: os.Stdout})
}

// NewLoggerWithWriter is NewLogger writing to w.
func NewLoggerWithWriter(environment string, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).With().Timestamp().Str("component", "s3get").Logger().Level(level)
}
