package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"chatty", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNew_ConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "kidsnews.log")

	log, err := New(Options{Level: "info", File: file, Console: &console})
	require.NoError(t, err)

	WithRunID(Get(log, CategoryPipeline), "run-42").Info("stage 1: writing article", zap.String("day", "Thursday"))
	log.Debug("hidden at info level")
	require.NoError(t, log.Sync())

	assert.Contains(t, console.String(), "pipeline")
	assert.Contains(t, console.String(), "stage 1: writing article")
	assert.NotContains(t, console.String(), "hidden at info level")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "pipeline", entry["logger"])
	assert.Equal(t, "run-42", entry["run_id"])
	assert.Equal(t, "Thursday", entry["day"])
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Level: "error", Verbose: true, Console: &console})
	require.NoError(t, err)
	log.Debug("visible")
	assert.Contains(t, console.String(), "visible")

	_, err = New(Options{Level: "nope"})
	assert.Error(t, err)
}

func TestTimer_StopWithThreshold(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	StartTimer(log, "render").StopWithThreshold(time.Hour)
	timer := StartTimer(log, "capture")
	timer.start = timer.start.Add(-2 * time.Second)
	elapsed := timer.StopWithThreshold(time.Second)

	assert.GreaterOrEqual(t, elapsed, 2*time.Second)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	slow := logs.FilterMessage("operation slow").All()
	require.Len(t, slow, 1)
	assert.Equal(t, "capture", slow[0].ContextMap()["op"])
}

func TestGet_NilBase(t *testing.T) {
	assert.NotPanics(t, func() { Get(nil, CategoryBoot).Info("nothing") })
}
