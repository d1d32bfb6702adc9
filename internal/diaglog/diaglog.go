// Package diaglog implements the append-only diagnostic log: one line per
// event, format "[<UTC timestamp>] <message>". The log is a write-only sink;
// nothing in franq ever reads it back, and writing to it must never fail the
// caller.
package diaglog

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const timeLayout = "2006-01-02 15:04:05"

// Log appends diagnostic lines to a file. Safe for concurrent use: the
// underlying writer is serialized, and each event is written in one call.
type Log struct {
	logger zerolog.Logger
	file   *os.File
}

// Open opens (or creates) the diagnostic log at path. If the file cannot be
// opened, the returned Log silently discards everything; diagnostics are
// best-effort by contract.
func Open(path string) *Log {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return Nop()
	}
	w := zerolog.ConsoleWriter{
		Out:        zerolog.SyncWriter(f),
		NoColor:    true,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i any) string {
			s, _ := i.(string)
			t, err := time.Parse(zerolog.TimeFieldFormat, s)
			if err != nil {
				t = time.Now()
			}
			return "[" + t.UTC().Format(timeLayout) + " UTC]"
		},
		FormatMessage: func(i any) string {
			return fmt.Sprint(i)
		},
	}
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &Log{logger: logger, file: f}
}

// Nop returns a Log that discards all events.
func Nop() *Log {
	return &Log{logger: zerolog.Nop()}
}

// Printf appends one formatted line. Write errors are swallowed.
func (l *Log) Printf(format string, args ...any) {
	l.logger.Log().Msgf(format, args...)
}

// Close closes the underlying file, if any.
func (l *Log) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}
