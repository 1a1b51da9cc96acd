package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level is a logging severity, independent of [slog.Level] so that CLI
// flag strings ("error", "warn", "info", "debug") have a single
// canonical representation.
type Level string

const (
	// LevelError is the error severity.
	LevelError Level = "error"
	// LevelWarn is the warning severity.
	LevelWarn Level = "warn"
	// LevelInfo is the info severity.
	LevelInfo Level = "info"
	// LevelDebug is the debug severity.
	LevelDebug Level = "debug"
)

// Format represents the log output format.
type Format string

const (
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
	// FormatLogfmt outputs logs in logfmt format.
	FormatLogfmt Format = "logfmt"
	// FormatText outputs logs in slog's default human-readable format.
	FormatText Format = "text"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

// Handler is the [slog.Handler] produced by [NewHandler]; named here so
// callers constructing one directly get a documented return type
// instead of a bare interface reference.
type Handler = slog.Handler

// slogLevel converts l into its [slog.Level] equivalent.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a log level string into a [Level].
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	}

	return "", ErrUnknownLogLevel
}

// ParseFormat parses a log format string into a [Format].
func ParseFormat(format string) (Format, error) {
	logFmt := Format(strings.ToLower(format))

	switch logFmt {
	case FormatJSON, FormatLogfmt, FormatText:
		return logFmt, nil
	}

	return "", ErrUnknownLogFormat
}

// GetAllLevelStrings returns every accepted level string, in the order
// flag completions should present them.
func GetAllLevelStrings() []string {
	return []string{string(LevelError), string(LevelWarn), string(LevelInfo), string(LevelDebug)}
}

// GetAllFormatStrings returns every accepted format string, in the
// order flag completions should present them.
func GetAllFormatStrings() []string {
	return []string{string(FormatJSON), string(FormatLogfmt), string(FormatText)}
}

// NewHandler creates a [Handler] writing to w at the given level and
// format.
func NewHandler(w io.Writer, level Level, format Format) Handler {
	opts := &slog.HandlerOptions{AddSource: true, Level: level.slogLevel()}

	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)
	case FormatLogfmt, FormatText:
		return slog.NewTextHandler(w, opts)
	}

	return slog.NewTextHandler(w, opts)
}

// NewHandlerFromStrings parses levelStr and formatStr and creates a
// [Handler] writing to w.
func NewHandlerFromStrings(w io.Writer, levelStr, formatStr string) (Handler, error) {
	level, err := ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	format, err := ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, level, format), nil
}
