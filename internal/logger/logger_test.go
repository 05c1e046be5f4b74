package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("cleaner")
	assert.Equal(t, "cleaner", entry.Entry.Data["component"])
}

func TestConfigureInvalidLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	log := Logger()
	assert.Error(t, log.Configure("loud", "json", "stdout", 0))
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	log := Logger()
	assert.Error(t, log.Configure("info", "xml", "stdout", 0))
}

func TestConfigureFileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	log := Logger()
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	require.NoError(t, log.Configure("debug", "text", path, 7))
}

func TestJSONFieldNames(t *testing.T) {
	log := Logger()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	LogPerformanceEntry(log.WithComponent("pipeline"), "clean", 1500*time.Microsecond, nil)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "performance metric", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "clean", line["operation"])
	assert.Equal(t, 1.5, line["duration_ms"])
	assert.Contains(t, line, "timestamp")
}
