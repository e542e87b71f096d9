package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	Initialize(Config{Level: level, Format: "json", Output: buf})
	t.Cleanup(func() { globalLogger = nil })
	return buf
}

func TestInfo_WritesFieldsAndCaller(t *testing.T) {
	buf := captureJSON(t, "debug")

	Info("product created", Fields{"product_id": 7})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "product created", line["message"])
	assert.Equal(t, float64(7), line["product_id"])
	assert.Contains(t, line["caller"], "logger_test.go")
}

func TestError_IncludesError(t *testing.T) {
	buf := captureJSON(t, "debug")

	Error("lookup failed", errors.New("boom"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
}

func TestLevelFiltering(t *testing.T) {
	buf := captureJSON(t, "warn")

	Debug("hidden")
	Info("hidden")
	assert.Empty(t, buf.String())

	Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithContext_CarriesFields(t *testing.T) {
	buf := captureJSON(t, "debug")

	l := WithContext(Fields{"request_id": "abc"})
	l.Debug("handled")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["request_id"])
}
