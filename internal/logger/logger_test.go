package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSecretKeys(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("login", "email", "a@b.c", "token", "abc.def.ghi", "status", 200)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["email"])
	assert.Equal(t, "[REDACTED]", fields["token"])
	assert.EqualValues(t, 200, fields["status"])
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("quiz_id", "rm-1")

	log.Warn("load failed", "err", "boom")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rm-1", entries[0].ContextMap()["quiz_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestRedactLeavesInputUntouched(t *testing.T) {
	kv := []any{"password", "hunter2"}
	_ = redact(kv)
	if kv[1] != "hunter2" {
		t.Fatalf("redact mutated its input: %v", kv)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"", zapcore.InfoLevel, false},
		{"DEBUG", zapcore.DebugLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseLevel(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trailhead.log")
	log, err := New(Options{Path: path, Level: "debug"})
	require.NoError(t, err)

	log.Debug("hello", "n", 1)
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"hello"`), "log file: %s", data)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("TRAILHEAD_LOG_FILE", "")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/trailhead/trailhead.log", p)

	t.Setenv("TRAILHEAD_LOG_FILE", "/var/log/th.log")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/th.log", p)
}
