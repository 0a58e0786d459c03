// internal/infrastructure/logger/logger_test.go
package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, DebugLevel)

	log.Debug("Skipping incomplete quote", map[string]interface{}{
		"currency": "USD",
	})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0]["level"])
	assert.Equal(t, "Skipping incomplete quote", entries[0]["message"])
	assert.Equal(t, "USD", entries[0]["currency"])
	assert.Contains(t, entries[0], "timestamp")
	assert.Contains(t, entries[0], "file")
	assert.Contains(t, entries[0], "line")
}

func TestJSONLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	warnLogger := NewJSONLogger(&buf, WarnLevel)

	warnLogger.Debug("hidden", nil)
	warnLogger.Info("hidden", nil)
	assert.Equal(t, "", buf.String())

	warnLogger.Warn("Currency fetch failed", nil)
	warnLogger.Error("Batch aborted", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestJSONLoggerContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewJSONLogger(&buf, InfoLevel)

	child := base.WithField("component", "quote_client").
		WithFields(map[string]interface{}{"base_currency": "BRL"})
	child.Info("Fetching range", map[string]interface{}{"currency": "EUR"})
	base.Info("Plain", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "quote_client", entries[0]["component"])
	assert.Equal(t, "BRL", entries[0]["base_currency"])
	assert.Equal(t, "EUR", entries[0]["currency"])
	assert.NotContains(t, entries[1], "component")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" warn ")
	assert.NoError(t, err)
	assert.Equal(t, WarnLevel, level)

	level, err = ParseLevel("verbose")
	assert.Error(t, err)
	assert.Equal(t, InfoLevel, level)
}

func TestDefaultLogger(t *testing.T) {
	original := GetDefaultLogger()
	defer SetDefaultLogger(original)

	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	GetDefaultLogger().Info("swapped", nil)
	assert.Contains(t, buf.String(), "swapped")

	SetDefaultLogger(nil)
	assert.NotNil(t, GetDefaultLogger())
}
