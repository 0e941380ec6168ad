package log

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.opentelemetry.io/otel/trace"

	charmlog "github.com/charmbracelet/log"
)

type (
	Format string
	Level  string

	contextKey struct{}
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	Formats = []Format{FormatText, FormatLogfmt, FormatJSON}
	Levels  = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}
)

// Options configures [NewHandler].
type Options struct {
	Level  string
	Format string
	// Source adds the caller to each record.
	Source bool
}

// NewHandler returns a [slog.Handler] writing to w.
func NewHandler(w io.Writer, opts Options) (slog.Handler, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	hopts := &slog.HandlerOptions{AddSource: opts.Source, Level: lvl}

	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, hopts), nil
	case FormatLogfmt:
		return slog.NewTextHandler(w, hopts), nil
	default:
		return newTextHandler(w, lvl, opts.Source), nil
	}
}

// ParseLevel converts a level name into a [slog.Level].
// An empty name selects [slog.LevelInfo].
func ParseLevel(level string) (slog.Level, error) {
	switch Level(strings.ToLower(level)) {
	case LevelError:
		return slog.LevelError, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// ParseFormat validates a format name. An empty name selects [FormatText].
func ParseFormat(format string) (Format, error) {
	if format == "" {
		return FormatText, nil
	}

	f := Format(strings.ToLower(format))
	if slices.Contains(Formats, f) {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// LevelNames returns the accepted level names, for flag help and completion.
func LevelNames() []string {
	out := make([]string, 0, len(Levels))
	for _, l := range Levels {
		out = append(out, string(l))
	}

	return out
}

// FormatNames returns the accepted format names.
func FormatNames() []string {
	out := make([]string, 0, len(Formats))
	for _, f := range Formats {
		out = append(out, string(f))
	}

	return out
}

func newTextHandler(w io.Writer, level slog.Level, source bool) slog.Handler {
	//nolint:gosec // G115: level comes from ParseLevel.
	lvl := int32(level)

	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(lvl),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		ReportCaller:    source,
		TimeFormat:      time.StampMilli,
	})
	logger.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())

	return logger
}

// NewContext stores logger in ctx for [WithContext].
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// WithContext returns the logger stored in ctx, or the default logger.
// When ctx carries a valid span, the short trace id is attached.
func WithContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(contextKey{}).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}

	traceID := sc.TraceID().String()
	if len(traceID) > 8 {
		traceID = traceID[:8]
	}

	return logger.With(slog.String("trace_id", traceID))
}
