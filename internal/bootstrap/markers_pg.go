package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgMarkerStore struct {
	db *pgxpool.Pool
}

// NewPostgresMarkerStore returns a MarkerStore over the seed_markers
// table. The primary key makes Acquire first-writer-wins.
func NewPostgresMarkerStore(db *pgxpool.Pool) MarkerStore {
	return &pgMarkerStore{db: db}
}

func (m *pgMarkerStore) Acquire(ctx context.Context, name string) (bool, error) {
	tag, err := m.db.Exec(ctx,
		"INSERT INTO seed_markers (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name)
	if err != nil {
		return false, fmt.Errorf("failed to insert seed marker: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
