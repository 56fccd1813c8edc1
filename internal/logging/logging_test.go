package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	require.NoError(t, Configure(logger, "debug", "JSON", &buf))

	logger.WithField("pool", "accra").Debug("pool loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pool loaded", entry["msg"])
	assert.Equal(t, "accra", entry["pool"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	require.NoError(t, Configure(logger, "warn", "text", &buf))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_Invalid(t *testing.T) {
	logger := logrus.New()

	err := Configure(logger, "loud", "text", &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")

	err = Configure(logger, "info", "xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log format")
}
