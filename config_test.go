package qpl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qplang/qpl"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := qpl.DefaultConfig()
	assert.Equal(t, "0.0.0.0:8081", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.WithTypeChecking)
}

func TestLoadConfigAppliesEnvOverrides(t *testing.T) {
	t.Setenv("QPL_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("QPL_LOG_LEVEL", "debug")
	t.Setenv("QPL_TYPE_CHECKING", "false")

	cfg, err := qpl.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.WithTypeChecking)
}

func TestLoadConfigRejectsUnparsableBool(t *testing.T) {
	t.Setenv("QPL_TYPE_CHECKING", "not-a-bool")

	_, err := qpl.LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "http_addr: 0.0.0.0:7000\nlog_level: warn\nwith_type_checking: false\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := qpl.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.WithTypeChecking)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := qpl.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
