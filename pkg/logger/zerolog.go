package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// ZerologOptions configures a ZerologLogger.
type ZerologOptions struct {
	// Level is one of debug, info, warn(ing), error. Empty means info.
	Level string
	// Console receives human readable lines. Nil disables console output.
	Console io.Writer
	// NoColor disables ANSI colors on the console.
	NoColor bool
	// File is appended with one JSON object per line. Empty disables it.
	File string
}

// ZerologLogger logs through zerolog to a console writer and, optionally,
// an append-only JSON log file. Write failures on either sink are
// swallowed.
type ZerologLogger struct {
	z    zerolog.Logger
	mu   sync.Mutex
	file *os.File
}

// NewZerologLogger builds a logger from opts. If the log file cannot be
// opened the logger still works on the console and reports the problem
// there once.
func NewZerologLogger(opts ZerologOptions) *ZerologLogger {
	zerolog.ErrorFieldName = "err"

	l := &ZerologLogger{}
	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        quietWriter{opts.Console},
			TimeFormat: consoleTimeFormat,
			NoColor:    opts.NoColor,
		})
	}
	var fileErr error
	if opts.File != "" {
		l.file, fileErr = openAppend(opts.File)
		if l.file != nil {
			writers = append(writers, quietWriter{l.file})
		}
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}
	l.z = zerolog.New(out).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
	if fileErr != nil {
		l.Warning("log file %s unavailable: %v", opts.File, fileErr)
	}
	return l
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *ZerologLogger) Debug(format string, args ...interface{}) {
	l.z.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Info(format string, args ...interface{}) {
	l.z.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warning(format string, args ...interface{}) {
	l.z.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Error(format string, args ...interface{}) {
	l.z.Error().Msgf(format, args...)
}

// Close closes the log file, if any.
func (l *ZerologLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// quietWriter reports every write as successful so that a full disk or a
// closed file never surfaces through zerolog's error handler.
type quietWriter struct {
	w io.Writer
}

func (q quietWriter) Write(p []byte) (int, error) {
	_, _ = q.w.Write(p)
	return len(p), nil
}

var _ Logger = (*ZerologLogger)(nil)
