package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/crudforge/pkg/logger"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := logger.ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := logger.ParseLevel("verbose")
	require.ErrorIs(t, err, logger.ErrInvalidLevel)
}

func TestNewWithConfig_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithConfig(logger.Config{Output: &buf, Level: slog.LevelDebug}, requestID)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.DebugContext(ctx, "mapped", slog.String("route", "/api/products"))
	log.InfoContext(context.Background(), "no id")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "DEBUG", first["level"])
	require.Equal(t, "req-1", first["request_id"])
	require.Equal(t, "/api/products", first["route"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NotContains(t, second, "request_id")
}

func TestNewWithConfig_TextAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithConfig(logger.Config{Output: &buf, Format: logger.FormatText, Level: slog.LevelWarn})

	log.Info("hidden")
	log.Warn("shown", slog.Int("n", 1))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "n=1")
}

func TestContextHandler_WithAttrsKeepsExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithConfig(logger.Config{Output: &buf}, requestID).
		With("component", "registry").
		WithGroup("phase")

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-2")
	log.InfoContext(ctx, "mapped", slog.Int("controllers", 2))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "registry", rec["component"])
	phase, ok := rec["phase"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "req-2", phase["request_id"])
	require.InDelta(t, 2, phase["controllers"], 0)
}

func TestNewContextHandler_NoExtractors(t *testing.T) {
	t.Parallel()

	next := slog.NewTextHandler(&bytes.Buffer{}, nil)
	require.Same(t, next, logger.NewContextHandler(next, nil, nil))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var info, debug bytes.Buffer
	h := logger.Fanout(
		failingHandler{},
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	log := slog.New(h).With("component", "cache")
	log.Debug("debug detail")
	log.Info("cache ready")

	require.NotContains(t, info.String(), "debug detail")
	require.Contains(t, info.String(), "component=cache")
	require.Contains(t, info.String(), "cache ready", "a failing handler does not block the others")
	require.Contains(t, debug.String(), "debug detail")

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))
	require.ErrorContains(t, err, "sink down")

	single := slog.NewTextHandler(&info, nil)
	require.Same(t, single, logger.Fanout(single))
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	t.Parallel()

	log := logger.NewWithSentry(logger.SentryConfig{})
	require.NotNil(t, log)
	require.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	require.False(t, logger.NewNope().Enabled(context.Background(), slog.LevelDebug))
}
