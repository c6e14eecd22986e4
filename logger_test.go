package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	l := log.New()

	require.NoError(t, setupLogging(l, logConfig{level: "debug", format: "json"}))
	assert.Equal(t, log.DebugLevel, l.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, l.Formatter)
	assert.Equal(t, os.Stderr, l.Out)

	assert.Error(t, setupLogging(l, logConfig{level: "loud"}))
	assert.Error(t, setupLogging(l, logConfig{level: "info", format: "xml"}))
}

func TestSetupLoggingFile(t *testing.T) {
	l := log.New()
	file := filepath.Join(t.TempDir(), "router.log")

	require.NoError(t, setupLogging(l, logConfig{level: "info", file: file}))
	l.Info("Start server")

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Start server")
}
