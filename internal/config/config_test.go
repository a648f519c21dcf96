package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/resorthub-test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "resorthub", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, 24*60*60, cfg.Session.TTLSeconds)
	assert.Equal(t, "configs/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("RESORTHUB_DB_PATH", "/data/resorthub.db")
	path := writeConfig(t, `
database:
  path: ${RESORTHUB_DB_PATH}
redis:
  address: localhost:6379
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/resorthub.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestValidateRequiresDatabasePath(t *testing.T) {
	path := writeConfig(t, `
app:
  name: resorthub
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path is required")
}

func TestValidateRequiresKeysWhenAuthEnabled(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/resorthub-test.db
api:
  enabled: true
  auth:
    enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no api keys configured")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
