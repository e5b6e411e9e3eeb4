package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "udgram.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Socket.Path)

	d, err := cfg.ReceiveTimeout()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
socket:
  path: /run/udgram/main.sock
  timeout: 2s
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/run/udgram/main.sock", cfg.Socket.Path)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "json", cfg.Logging.Format)

	d, err := cfg.ReceiveTimeout()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "socket:\n  path: /tmp/x.sock\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.sock", cfg.Socket.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	for name, content := range map[string]string{
		"level":   "logging:\n  level: loud\n",
		"format":  "logging:\n  format: xml\n",
		"timeout": "socket:\n  timeout: soonish\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
