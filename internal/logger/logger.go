// =============================================================================
// Swedbank pain.001 Generator - Logging
// =============================================================================
//
// Structured logging setup shared by all commands. Logs go to stderr so
// generated document paths printed on stdout stay machine-readable.
//
// =============================================================================

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates the application logger at the given level. Unknown level
// strings fall back to info.
func New(level string) zerolog.Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter is New with an explicit sink, for tests.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(parsed).With().Timestamp().Logger()
}
