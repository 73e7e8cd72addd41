// SPDX-License-Identifier: MIT
package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/routechoice/config"
	"github.com/katalvlaran/routechoice/logger"
)

func TestInitialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	l := logger.Initialize(&config.LoggingConfig{Level: "debug", Format: "json", Output: path})
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
	require.Same(t, l, logger.GetLogger())

	l.WithField("episode", 3).Info("hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"episode":3`)
}

func TestInitializeFallbacks(t *testing.T) {
	l := logger.Initialize(&config.LoggingConfig{Level: "loud", Format: "xml", Output: "stderr"})
	require.Equal(t, logrus.InfoLevel, l.GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, l.Formatter)
	require.Same(t, os.Stderr, l.Out)
}
