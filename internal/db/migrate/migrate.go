package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ledgerTable records which schema versions have been applied. It is
// named in Spanish like the rest of the schema.
const ledgerTable = "migracion_esquema"

// Migration is one schema version, read from a NNN_name.sql file with an
// optional NNN_name_down.sql companion for rollback.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Manager applies and rolls back SQL migrations from a directory,
// tracking progress in the ledger table.
type Manager struct {
	db     *pgxpool.Pool
	dir    string
	logger *zap.Logger
}

func NewManager(db *pgxpool.Pool, dir string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{db: db, dir: dir, logger: logger}
}

// Initialize creates the ledger table when it is missing.
func (m *Manager) Initialize(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+ledgerTable+` (
			version INTEGER PRIMARY KEY,
			nombre TEXT NOT NULL,
			fecha_aplicacion TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migration ledger: %w", err)
	}
	return nil
}

// Load reads every NNN_name.sql in the directory, pairing _down.sql
// companions with their forward file, sorted by version.
func (m *Manager) Load() ([]Migration, error) {
	files, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[int]Migration)
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		base := strings.TrimSuffix(name, ".sql")
		prefix, rest, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		mg := byVersion[version]
		mg.Version = version
		if down, found := strings.CutSuffix(rest, "_down"); found {
			mg.DownSQL = string(content)
			if mg.Name == "" {
				mg.Name = down
			}
		} else {
			mg.Name = rest
			mg.UpSQL = string(content)
		}
		byVersion[version] = mg
	}

	result := make([]Migration, 0, len(byVersion))
	for _, mg := range byVersion {
		result = append(result, mg)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})
	return result, nil
}

// Applied returns the versions recorded in the ledger with their
// application timestamps.
func (m *Manager) Applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.db.Query(ctx,
		"SELECT version, fecha_aplicacion FROM "+ledgerTable+" ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migration ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		applied[version] = at
	}
	return applied, rows.Err()
}

// Up applies every pending migration in version order. Each migration
// runs in its own transaction together with its ledger record.
func (m *Manager) Up(ctx context.Context) error {
	migrations, err := m.Load()
	if err != nil {
		return err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}

	for _, mg := range migrations {
		if _, ok := applied[mg.Version]; ok {
			continue
		}
		if err := m.apply(ctx, mg); err != nil {
			return err
		}
		m.logger.Info("migration applied",
			zap.Int("version", mg.Version), zap.String("name", mg.Name))
	}
	return nil
}

func (m *Manager) apply(ctx context.Context, mg Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, mg.UpSQL); err != nil {
		return fmt.Errorf("failed to apply migration %d: %w", mg.Version, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO "+ledgerTable+" (version, nombre) VALUES ($1, $2)",
		mg.Version, mg.Name); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", mg.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", mg.Version, err)
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Manager) Down(ctx context.Context) error {
	migrations, err := m.Load()
	if err != nil {
		return err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no migrations to roll back")
	}

	var last int
	for version := range applied {
		if version > last {
			last = version
		}
	}

	var target Migration
	for _, mg := range migrations {
		if mg.Version == last {
			target = mg
			break
		}
	}
	if target.Version == 0 {
		return fmt.Errorf("migration %d is recorded but its file is missing", last)
	}
	if target.DownSQL == "" {
		return fmt.Errorf("migration %d has no rollback file", last)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, target.DownSQL); err != nil {
		return fmt.Errorf("failed to roll back migration %d: %w", target.Version, err)
	}
	if _, err := tx.Exec(ctx,
		"DELETE FROM "+ledgerTable+" WHERE version = $1", target.Version); err != nil {
		return fmt.Errorf("failed to remove ledger record %d: %w", target.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rollback of migration %d: %w", target.Version, err)
	}

	m.logger.Info("migration rolled back",
		zap.Int("version", target.Version), zap.String("name", target.Name))
	return nil
}
