package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	log.Debug("不会输出")
	log.With("request_id", "abc").Info("创建图书", "book_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "创建图书", line["msg"])
	assert.Equal(t, "abc", line["request_id"])
	assert.EqualValues(t, 7, line["book_id"])
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := New(Config{Output: path})
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, log.Close())
	assert.FileExists(t, path)
}

func TestContext(t *testing.T) {
	fallback := Nop()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	reqLog := fallback.With("request_id", "x")
	ctx := IntoContext(context.Background(), reqLog)
	assert.Same(t, reqLog, FromContext(ctx, fallback))
}
