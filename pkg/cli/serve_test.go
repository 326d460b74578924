package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadServeConfigDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "stubs.yaml", `
endpoints:
  - method: GET
    path: /ping
    responses:
      - status: 200
`)

	cfg, endpoints, err := loadServeConfig(&serveFlags{configFile: path})
	require.NoError(t, err)

	assert.Equal(t, 4380, cfg.Port)
	assert.Equal(t, 30, cfg.ReadTimeout)
	assert.Len(t, endpoints, 1)
}

func TestLoadServeConfigFlagOverrides(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "stubs.yaml", `
server:
  port: 8080
  delay: 0.1
endpoints:
  - method: GET
    path: /ping
    responses:
      - status: 200
`)

	cfg, _, err := loadServeConfig(&serveFlags{
		configFile:   path,
		port:         3000,
		delay:        0.5,
		noRequestLog: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 0.5, cfg.DefaultDelay)
	assert.False(t, cfg.LogRequests)
	// Zero-valued file section fields get defaults.
	assert.Equal(t, 30, cfg.WriteTimeout)
}

func TestLoadServeConfigFileSettingsKept(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "stubs.yaml", `
server:
  port: 8080
  delay: 0.1
endpoints:
  - method: GET
    path: /ping
    responses:
      - status: 200
`)

	cfg, _, err := loadServeConfig(&serveFlags{configFile: path})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 0.1, cfg.DefaultDelay)
}

func TestLoadServeConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := loadServeConfig(&serveFlags{
		configFile: filepath.Join(t.TempDir(), "missing.yaml"),
	})
	assert.Error(t, err)
}
