package bootstrap_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesikahq/gestion-salud/internal/bootstrap"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/storage/memory"
)

// unmigratedMarkers reports the missing seed_markers table the way the
// PostgreSQL store does before migrations run.
type unmigratedMarkers struct{}

func (unmigratedMarkers) Acquire(context.Context, string) (bool, error) {
	return false, fmt.Errorf("failed to insert seed marker: %w",
		&pgconn.PgError{Code: "42P01", Message: `relation "seed_markers" does not exist`})
}

// unmigratedAdmin reports a missing users table.
type unmigratedAdmin struct{}

func (unmigratedAdmin) EnsureAdmin(context.Context, string, string, string) error {
	return fmt.Errorf("failed to ensure admin account: %w",
		&pgconn.PgError{Code: "42P01", Message: `relation "users" does not exist`})
}

func TestSeederPopulatesCatalogs(t *testing.T) {
	store := memory.NewStore()
	seeder := bootstrap.NewSeeder(store.Catalogs(), store, store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, seeder.Run(ctx))

	countries, err := store.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	assert.Len(t, countries, 4)

	ethnicities, err := store.ListEntries(ctx, catalog.KindEthnicity)
	require.NoError(t, err)
	assert.Len(t, ethnicities, 3)

	diseases, err := store.ListEntries(ctx, catalog.KindRareDisease)
	require.NoError(t, err)
	assert.Len(t, diseases, 22)

	disabilities, err := store.ListDisabilityTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, disabilities, 8)

	assert.True(t, store.HasUser(bootstrap.DefaultAdminUsername))
}

func TestSeederIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	seeder := bootstrap.NewSeeder(store.Catalogs(), store, store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))
	require.NoError(t, seeder.Run(ctx))

	countries, err := store.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	assert.Len(t, countries, 4)

	disabilities, err := store.ListDisabilityTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, disabilities, 8)

	assert.Equal(t, 1, store.UserCount())
}

func TestSeederSkipsPrepopulatedCatalog(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// An operator already loaded a country list by hand.
	custom := catalog.Entry{Name: "Ecuador"}
	require.NoError(t, store.CreateEntry(ctx, catalog.KindCountry, &custom))

	// The marker is fresh but the catalog is not empty; its content must
	// survive untouched.
	seeder := bootstrap.NewSeeder(store.Catalogs(), store, store, zap.NewNop())
	require.NoError(t, seeder.Run(ctx))

	countries, err := store.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "Ecuador", countries[0].Name)

	// Other catalogs still get their defaults.
	cities, err := store.ListEntries(ctx, catalog.KindCity)
	require.NoError(t, err)
	assert.Len(t, cities, 4)
}

func TestSeederToleratesUnmigratedStore(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// seed_markers missing: startup must continue with nothing seeded.
	seeder := bootstrap.NewSeeder(store.Catalogs(), unmigratedMarkers{}, store, zap.NewNop())
	require.NoError(t, seeder.Run(ctx))

	countries, err := store.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	assert.Empty(t, countries)
	assert.Equal(t, 0, store.UserCount())

	// users missing: catalogs still seed, the admin step is skipped.
	seeder = bootstrap.NewSeeder(store.Catalogs(), store, unmigratedAdmin{}, zap.NewNop())
	require.NoError(t, seeder.Run(ctx))

	countries, err = store.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	assert.Len(t, countries, 4)
	assert.Equal(t, 0, store.UserCount())
}

func TestMarkerAcquiredOnce(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	first, err := store.Acquire(ctx, "initial_catalogs")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.Acquire(ctx, "initial_catalogs")
	require.NoError(t, err)
	assert.False(t, second)
}
