package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtasker/internal/logging"
)

func TestInitWriter_Structured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logging.InitWriter(&buf, "structured", false))

	logging.With("request_id", "abc").Info("received suggestion request")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "received suggestion request", rec["msg"])
	assert.Equal(t, "abc", rec["request_id"])
}

func TestInitWriter_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logging.InitWriter(&buf, "plain", false))
	logging.Debug("hidden")
	assert.Empty(t, buf.String())

	require.NoError(t, logging.InitWriter(&buf, "plain", true))
	logging.Debug("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestInitWriter_InvalidFormat(t *testing.T) {
	assert.Error(t, logging.InitWriter(&bytes.Buffer{}, "xml", false))
}
