package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		logger, err := New(Options{})
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
	})

	t.Run("json at debug", func(t *testing.T) {
		logger, err := New(Options{Level: "debug", Format: "json"})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(Options{Level: "loud"})
		assert.Error(t, err)

		_, err = New(Options{Format: "xml"})
		assert.Error(t, err)
	})

	t.Run("writes to the rotated file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "staysearch.log")

		logger, err := New(Options{File: path})
		require.NoError(t, err)
		logger.Info("search started")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "search started")
	})
}
