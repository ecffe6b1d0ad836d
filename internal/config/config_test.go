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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 5433
  user: app
  password: secret
  name: gestion_salud
server:
  host: 0.0.0.0
  port: 9090
mongo:
  uri: mongodb://localhost:27017
  database: gestion_salud
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	// Defaults fill what the file leaves out.
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "./migrations", cfg.Migrations.Dir)
	assert.Equal(t, "documentos_soporte", cfg.Mongo.Collection)
}

func TestLoadFileDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  user: app
  name: gestion_salud
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeConfig(t, "database: [not a mapping")
	_, err := LoadFile(path)
	assert.Error(t, err)
}
