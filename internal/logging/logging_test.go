package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf})
	ctx := context.Background()

	logger.Debug(ctx, "hidden")
	logger.Info(ctx, "shown", "key", "value")
	logger.Warn(ctx, "warned")
	logger.Error(ctx, "failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelDebug, Output: &buf}).
		WithOperation("flush").
		WithRepository("ssh://example.com/repo.git")

	logger.Debug(context.Background(), "pushed")

	out := buf.String()
	assert.Contains(t, out, "operation=flush")
	assert.Contains(t, out, "repository=ssh://example.com/repo.git")
}

func TestLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitwagon.log")
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: LogLevelInfo, Output: &buf, File: path})

	logger.Info(context.Background(), "to both")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestNopLogger(t *testing.T) {
	var nilLogger *Logger
	for _, logger := range []*Logger{NewNopLogger(), nilLogger} {
		assert.NotPanics(t, func() {
			ctx := context.Background()
			logger.Debug(ctx, "x")
			logger.Info(ctx, "x")
			logger.With("k", "v").Warn(ctx, "x")
			logger.WithOperation("op").Error(ctx, "x")
			assert.NoError(t, logger.Close())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{"warning", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"loud", LogLevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
