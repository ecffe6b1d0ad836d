package patient_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
	"github.com/mesikahq/gestion-salud/internal/storage/memory"
)

type fixture struct {
	svc        *patient.Service
	store      *memory.Store
	refs       map[catalog.Kind]int64
	providerID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	refs := make(map[catalog.Kind]int64)
	for kind, entry := range map[catalog.Kind]catalog.Entry{
		catalog.KindCountry:         {Name: "Colombia"},
		catalog.KindCity:            {Name: "Bogota"},
		catalog.KindOccupation:      {Name: "Docente"},
		catalog.KindEthnicCommunity: {Code: "001"},
		catalog.KindEthnicity:       {Code: "AF"},
	} {
		e := entry
		require.NoError(t, store.CreateEntry(ctx, kind, &e))
		refs[kind] = e.ID
	}

	prov := &provider.Provider{Type: "IPS", Name: "Clinica Central"}
	require.NoError(t, store.Providers().Create(ctx, prov))

	return &fixture{
		svc:        patient.NewService(store.Patients(), audit.Nop()),
		store:      store,
		refs:       refs,
		providerID: prov.ID,
	}
}

func (f *fixture) makePatient(doc string) *patient.Patient {
	return &patient.Patient{
		CountryID:         f.refs[catalog.KindCountry],
		CityID:            f.refs[catalog.KindCity],
		OccupationID:      f.refs[catalog.KindOccupation],
		EthnicCommunityID: f.refs[catalog.KindEthnicCommunity],
		EthnicityID:       f.refs[catalog.KindEthnicity],
		ProviderID:        f.providerID,
		DocumentType:      "CC",
		DocumentNumber:    doc,
		GivenName:         "Carlos",
		FamilyName:        "Mendoza",
		BirthDate:         time.Date(1978, 6, 3, 0, 0, 0, 0, time.UTC),
		Age:               48,
		BiologicalSex:     "M",
	}
}

func TestRegisterCreatesPrimaryNationality(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))
	require.NotZero(t, p.ID)
	require.NotNil(t, p.NationalityID)

	nats, err := f.svc.ListNationalities(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, nats, 1)
	assert.Equal(t, p.CountryID, nats[0].CountryID)
	assert.Equal(t, *p.NationalityID, nats[0].ID)
}

func TestRegisterDuplicateDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, f.makePatient("52123456")))
	err := f.svc.Register(ctx, f.makePatient("52123456"))
	assert.ErrorIs(t, err, patient.ErrDuplicateDocument)
}

func TestRegisterInvalidPatient(t *testing.T) {
	f := newFixture(t)

	p := f.makePatient("52123456")
	p.BiologicalSex = "Q"
	assert.ErrorIs(t, f.svc.Register(context.Background(), p), patient.ErrInvalid)
}

func TestRegisterUnknownReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	p.EthnicityID = 9999
	assert.ErrorIs(t, f.svc.Register(ctx, p), patient.ErrInvalidReference)

	p = f.makePatient("52123456")
	p.ProviderID = 9999
	assert.ErrorIs(t, f.svc.Register(ctx, p), patient.ErrInvalidReference)
}

func TestGetByDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("79456123")
	require.NoError(t, f.svc.Register(ctx, p))

	got, err := f.svc.GetByDocument(ctx, "79456123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.svc.GetByDocument(ctx, "0000000")
	assert.ErrorIs(t, err, patient.ErrNotFound)
}

func TestPrimaryNationalityCannotBeRemoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))

	err := f.svc.RemoveNationality(ctx, *p.NationalityID)
	assert.ErrorIs(t, err, patient.ErrNationalityInUse)

	// A secondary nationality comes and goes freely.
	venezuela := catalog.Entry{Name: "Venezuela"}
	require.NoError(t, f.store.CreateEntry(ctx, catalog.KindCountry, &venezuela))
	n, err := f.svc.AddNationality(ctx, p.ID, venezuela.ID)
	require.NoError(t, err)
	assert.NoError(t, f.svc.RemoveNationality(ctx, n.ID))
}

func TestAddNationalityRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))

	_, err := f.svc.AddNationality(ctx, p.ID, p.CountryID)
	assert.ErrorIs(t, err, patient.ErrDuplicateNationality)
}

func TestUpdatePreservesLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))
	linkID := *p.NationalityID

	p.GivenName = "Juan"
	require.NoError(t, f.svc.Update(ctx, p))

	got, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.GivenName)
	require.NotNil(t, got.NationalityID)
	assert.Equal(t, linkID, *got.NationalityID)
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))
	created, updated := p.CreatedAt, p.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	p.GivenName = "Juan"
	require.NoError(t, f.svc.Update(ctx, p))

	got, err := f.svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(updated))
}

func TestUpdateUnknownReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))

	p.CityID = 9999
	assert.ErrorIs(t, f.svc.Update(ctx, p), patient.ErrInvalidReference)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ana := f.makePatient("100")
	ana.GivenName, ana.FamilyName = "Ana", "Zapata"
	bruno := f.makePatient("200")
	bruno.GivenName, bruno.FamilyName = "Bruno", "Acosta"
	require.NoError(t, f.svc.Register(ctx, ana))
	require.NoError(t, f.svc.Register(ctx, bruno))

	list, total, err := f.svc.List(ctx, patient.Filter{NameQuery: "an"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].GivenName)

	list, total, err = f.svc.List(ctx, patient.Filter{DocumentNumber: "200"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bruno", list[0].GivenName)

	// Sorted by family name.
	list, total, err = f.svc.List(ctx, patient.Filter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Acosta", list[0].FamilyName)
}

func TestDisabilityAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.makePatient("52123456")
	require.NoError(t, f.svc.Register(ctx, p))

	dt := seedDisabilityType(t, f.store)

	link, err := f.svc.AddDisability(ctx, p.ID, dt)
	require.NoError(t, err)

	_, err = f.svc.AddDisability(ctx, p.ID, dt)
	assert.ErrorIs(t, err, patient.ErrDuplicateDisability)

	list, err := f.svc.ListDisabilities(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.svc.RemoveDisability(ctx, link.ID))
	assert.ErrorIs(t, f.svc.RemoveDisability(ctx, link.ID), patient.ErrDisabilityNotFound)
}

func seedDisabilityType(t *testing.T, store *memory.Store) int64 {
	t.Helper()
	d := &catalog.DisabilityType{CategoryCode: "01", Name: "Fisica"}
	require.NoError(t, store.CreateDisabilityType(context.Background(), d))
	return d.ID
}
