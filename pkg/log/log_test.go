package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/quellcode/quellcode/pkg/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  slog.Level
		err   error
	}{
		"empty":   {input: "", want: slog.LevelInfo},
		"debug":   {input: "debug", want: slog.LevelDebug},
		"upper":   {input: "WARN", want: slog.LevelWarn},
		"warning": {input: "warning", want: slog.LevelWarn},
		"error":   {input: "error", want: slog.LevelError},
		"unknown": {input: "loud", err: log.ErrUnknownLogLevel},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  log.Format
		err   error
	}{
		"empty":   {input: "", want: log.FormatText},
		"json":    {input: "JSON", want: log.FormatJSON},
		"logfmt":  {input: "logfmt", want: log.FormatLogfmt},
		"unknown": {input: "xml", err: log.ErrUnknownLogFormat},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseFormat(tc.input)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h, err := log.NewHandler(&buf, log.Options{Level: "info", Format: "json"})
		require.NoError(t, err)

		slog.New(h).Debug("hidden")
		slog.New(h).Info("shown", slog.String("k", "v"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "shown", rec["msg"])
		assert.Equal(t, "v", rec["k"])
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		h, err := log.NewHandler(&buf, log.Options{Level: "debug", Format: "text"})
		require.NoError(t, err)

		slog.New(h).Debug("hello")
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		_, err := log.NewHandler(&bytes.Buffer{}, log.Options{Format: "xml"})
		require.ErrorIs(t, err, log.ErrInvalidArgument)
		require.ErrorIs(t, err, log.ErrUnknownLogFormat)
	})
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)

	ctx := log.NewContext(t.Context(), logger)
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	log.WithContext(ctx).Info("traced")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "01234567", rec["trace_id"])

	assert.Equal(t, slog.Default(), log.WithContext(context.Background()))
}

func TestNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"error", "warn", "info", "debug"}, log.LevelNames())
	assert.Equal(t, []string{"text", "logfmt", "json"}, log.FormatNames())
}
