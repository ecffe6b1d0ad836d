package directive_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/encryption"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
	"github.com/mesikahq/gestion-salud/internal/storage/memory"
)

type fixture struct {
	svc        *directive.Service
	store      *memory.Store
	patientID  int64
	providerID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("ENCRYPTION_KEY", strings.Repeat("ab", 32))

	store := memory.NewStore()
	crypto, err := encryption.NewService()
	require.NoError(t, err)

	prov := &provider.Provider{Type: "IPS", Name: "Clinica Central"}
	require.NoError(t, store.Providers().Create(context.Background(), prov))

	pat := &patient.Patient{
		CountryID:         seedEntry(t, store, catalog.KindCountry, catalog.Entry{Name: "Colombia"}),
		CityID:            seedEntry(t, store, catalog.KindCity, catalog.Entry{Name: "Bogota"}),
		OccupationID:      seedEntry(t, store, catalog.KindOccupation, catalog.Entry{Name: "Docente"}),
		EthnicCommunityID: seedEntry(t, store, catalog.KindEthnicCommunity, catalog.Entry{Code: "001"}),
		EthnicityID:       seedEntry(t, store, catalog.KindEthnicity, catalog.Entry{Code: "AF"}),
		ProviderID:        prov.ID,
		DocumentType: "CC", DocumentNumber: "52123456",
		GivenName: "Lucia", FamilyName: "Herrera",
		BirthDate:     time.Date(1970, 2, 2, 0, 0, 0, 0, time.UTC),
		Age:           56,
		BiologicalSex: "F",
	}
	require.NoError(t, store.Patients().Create(context.Background(), pat))

	return &fixture{
		svc:        directive.NewService(store.Directives(), crypto, audit.Nop()),
		store:      store,
		patientID:  pat.ID,
		providerID: prov.ID,
	}
}

func seedEntry(t *testing.T, store *memory.Store, kind catalog.Kind, e catalog.Entry) int64 {
	t.Helper()
	require.NoError(t, store.CreateEntry(context.Background(), kind, &e))
	return e.ID
}

func (f *fixture) subscribe(t *testing.T) *directive.Directive {
	t.Helper()
	d := &directive.Directive{
		PatientID:  f.patientID,
		ProviderID: f.providerID,
		Content:    "No reanimacion cardiopulmonar",
		Signature:  "firma-manuscrita",
	}
	require.NoError(t, f.svc.Subscribe(context.Background(), d))
	return d
}

func TestSubscribe(t *testing.T) {
	f := newFixture(t)
	d := f.subscribe(t)

	assert.Equal(t, directive.StatusActive, d.Status)
	assert.False(t, d.SubscribedAt.IsZero())
	assert.Equal(t, "firma-manuscrita", d.Signature)

	// Patient record now points at the directive.
	p, err := f.store.Patients().GetByID(context.Background(), f.patientID)
	require.NoError(t, err)
	require.NotNil(t, p.DirectiveID)
	assert.Equal(t, d.ID, *p.DirectiveID)
}

func TestSignatureSealedAtRest(t *testing.T) {
	f := newFixture(t)
	d := f.subscribe(t)

	// The repository row holds ciphertext, never the plain signature.
	raw, err := f.store.Directives().GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "firma-manuscrita", raw.Signature)

	got, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "firma-manuscrita", got.Signature)
}

func TestSubscribeUnknownPatient(t *testing.T) {
	f := newFixture(t)
	d := &directive.Directive{
		PatientID:  9999,
		ProviderID: f.providerID,
		Content:    "No reanimacion",
		Signature:  "firma",
	}
	err := f.svc.Subscribe(context.Background(), d)
	assert.ErrorIs(t, err, directive.ErrInvalidReference)
}

func TestAmend(t *testing.T) {
	f := newFixture(t)
	d := f.subscribe(t)

	got, err := f.svc.Amend(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, directive.StatusAmended, got.Status)
	require.NotNil(t, got.AmendedAt)

	// The subscribed document is never rewritten: content and signature
	// survive the transition exactly as recorded.
	reread, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "No reanimacion cardiopulmonar", reread.Content)
	assert.Equal(t, "firma-manuscrita", reread.Signature)
	assert.Equal(t, d.SubscribedAt, reread.SubscribedAt)

	// Amending twice is allowed.
	_, err = f.svc.Amend(context.Background(), d.ID)
	assert.NoError(t, err)
}

func TestRevokeIsTerminal(t *testing.T) {
	f := newFixture(t)
	d := f.subscribe(t)

	got, err := f.svc.Revoke(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, directive.StatusRevoked, got.Status)
	require.NotNil(t, got.RevokedAt)

	_, err = f.svc.Amend(context.Background(), d.ID)
	assert.ErrorIs(t, err, directive.ErrBadTransition)

	_, err = f.svc.Revoke(context.Background(), d.ID)
	assert.ErrorIs(t, err, directive.ErrBadTransition)
}

func TestDeleteClearsPatientLink(t *testing.T) {
	f := newFixture(t)
	d := f.subscribe(t)

	require.NoError(t, f.svc.Delete(context.Background(), d.ID))

	p, err := f.store.Patients().GetByID(context.Background(), f.patientID)
	require.NoError(t, err)
	assert.Nil(t, p.DirectiveID)
}

func TestListByPatientNewestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.subscribe(t)
	time.Sleep(5 * time.Millisecond)
	second := f.subscribe(t)

	list, err := f.svc.ListByPatient(context.Background(), f.patientID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	for _, d := range list {
		assert.Equal(t, "firma-manuscrita", d.Signature)
	}
}
