package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/database"
)

// MarkerStore records which one-time seeding steps have run. Acquire
// returns true exactly once per name across every process sharing the
// store.
type MarkerStore interface {
	Acquire(ctx context.Context, name string) (bool, error)
}

// AdminEnsurer creates the administrative account if it is missing.
// Satisfied by the auth service.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

// Seeder loads the initial catalog content and the default admin account.
// Running it any number of times, concurrently or not, leaves the same
// state: only empty catalogs are filled, and the marker store closes the
// race between parallel runs.
type Seeder struct {
	catalogs catalog.Repository
	markers  MarkerStore
	admin    AdminEnsurer
	logger   *zap.Logger
}

func NewSeeder(catalogs catalog.Repository, markers MarkerStore, admin AdminEnsurer, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{catalogs: catalogs, markers: markers, admin: admin, logger: logger}
}

// Run performs the full bootstrap. Catalogs whose tables do not exist yet
// are skipped with a warning so a partially migrated schema does not block
// startup. The admin account is ensured on every run.
func (s *Seeder) Run(ctx context.Context) error {
	acquired, err := s.markers.Acquire(ctx, "initial_catalogs")
	if err != nil {
		if database.IsUndefinedTable(err) {
			// Un-migrated store: nothing to seed into yet.
			s.logger.Warn("seed marker table missing, skipping bootstrap")
			return nil
		}
		return fmt.Errorf("failed to acquire seed marker: %w", err)
	}
	if acquired {
		if err := s.seedCatalogs(ctx); err != nil {
			return err
		}
	} else {
		s.logger.Info("catalog seeding already performed, skipping")
	}

	if s.admin != nil {
		if err := s.admin.EnsureAdmin(ctx, DefaultAdminUsername, DefaultAdminEmail, DefaultAdminPassword); err != nil {
			if database.IsUndefinedTable(err) {
				s.logger.Warn("users table missing, skipping admin account")
				return nil
			}
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
		s.logger.Info("admin account ensured", zap.String("username", DefaultAdminUsername))
	}
	return nil
}

func (s *Seeder) seedCatalogs(ctx context.Context) error {
	for _, kind := range catalog.Kinds() {
		rows, ok := seedEntries[kind]
		if !ok {
			continue
		}
		if err := s.seedKind(ctx, kind, rows); err != nil {
			return err
		}
	}
	return s.seedDisabilityTypes(ctx)
}

func (s *Seeder) seedKind(ctx context.Context, kind catalog.Kind, rows []catalog.Entry) error {
	count, err := s.catalogs.CountEntries(ctx, kind)
	if err != nil {
		if database.IsUndefinedTable(err) {
			s.logger.Warn("catalog table missing, skipping seed", zap.String("catalog", string(kind)))
			return nil
		}
		return fmt.Errorf("failed to count %s: %w", kind, err)
	}
	if count > 0 {
		s.logger.Info("catalog not empty, skipping seed",
			zap.String("catalog", string(kind)), zap.Int64("rows", count))
		return nil
	}

	for i := range rows {
		e := rows[i]
		if err := s.catalogs.CreateEntry(ctx, kind, &e); err != nil {
			return fmt.Errorf("failed to seed %s: %w", kind, err)
		}
	}
	s.logger.Info("catalog seeded",
		zap.String("catalog", string(kind)), zap.Int("rows", len(rows)))
	return nil
}

func (s *Seeder) seedDisabilityTypes(ctx context.Context) error {
	count, err := s.catalogs.CountDisabilityTypes(ctx)
	if err != nil {
		if database.IsUndefinedTable(err) {
			s.logger.Warn("catalog table missing, skipping seed", zap.String("catalog", "discapacidad"))
			return nil
		}
		return fmt.Errorf("failed to count discapacidad: %w", err)
	}
	if count > 0 {
		s.logger.Info("catalog not empty, skipping seed",
			zap.String("catalog", "discapacidad"), zap.Int64("rows", count))
		return nil
	}

	for i := range seedDisabilities {
		d := seedDisabilities[i]
		if err := s.catalogs.CreateDisabilityType(ctx, &d); err != nil {
			return fmt.Errorf("failed to seed discapacidad: %w", err)
		}
	}
	s.logger.Info("catalog seeded",
		zap.String("catalog", "discapacidad"), zap.Int("rows", len(seedDisabilities)))
	return nil
}
