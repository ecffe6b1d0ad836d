package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadPairsAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "002_add_indexes.sql", "CREATE INDEX idx_paciente_doc ON paciente (numero_documento);")
	writeFile(t, dir, "001_initial_schema.sql", "CREATE TABLE paciente ();")
	writeFile(t, dir, "001_initial_schema_down.sql", "DROP TABLE paciente;")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "badname.sql", "ignored")

	m := NewManager(nil, dir, nil)
	migrations, err := m.Load()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "initial_schema", migrations[0].Name)
	assert.Equal(t, "CREATE TABLE paciente ();", migrations[0].UpSQL)
	assert.Equal(t, "DROP TABLE paciente;", migrations[0].DownSQL)

	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "add_indexes", migrations[1].Name)
	assert.Empty(t, migrations[1].DownSQL)
}

func TestLoadDownOnlyKeepsName(t *testing.T) {
	dir := t.TempDir()
	// The down file can be read before the up file; the forward file's
	// name still wins.
	writeFile(t, dir, "003_drop_legacy_down.sql", "SELECT 1;")
	writeFile(t, dir, "003_drop_legacy.sql", "SELECT 2;")

	m := NewManager(nil, dir, nil)
	migrations, err := m.Load()
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Equal(t, "drop_legacy", migrations[0].Name)
	assert.Equal(t, "SELECT 2;", migrations[0].UpSQL)
	assert.Equal(t, "SELECT 1;", migrations[0].DownSQL)
}
