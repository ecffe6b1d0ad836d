package donation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/donation"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
	"github.com/mesikahq/gestion-salud/internal/storage/memory"
)

func newFixture(t *testing.T, withVault bool) (*donation.Service, *memory.Store, int64) {
	t.Helper()

	store := memory.NewStore()
	refs := seedPatientRefs(t, store)
	prov := &provider.Provider{Type: "IPS", Name: "Clinica Central"}
	require.NoError(t, store.Providers().Create(context.Background(), prov))

	pat := &patient.Patient{
		CountryID: refs[catalog.KindCountry], CityID: refs[catalog.KindCity],
		OccupationID: refs[catalog.KindOccupation], EthnicCommunityID: refs[catalog.KindEthnicCommunity],
		EthnicityID: refs[catalog.KindEthnicity], ProviderID: prov.ID,
		DocumentType: "CC", DocumentNumber: "52123456",
		GivenName: "Lucia", FamilyName: "Herrera",
		BirthDate:     time.Date(1970, 2, 2, 0, 0, 0, 0, time.UTC),
		Age:           56,
		BiologicalSex: "F",
	}
	require.NoError(t, store.Patients().Create(context.Background(), pat))

	var vault donation.Vault
	if withVault {
		vault = store.DocumentVault()
	}
	return donation.NewService(store.Oppositions(), vault, audit.Nop()), store, pat.ID
}

func seedPatientRefs(t *testing.T, store *memory.Store) map[catalog.Kind]int64 {
	t.Helper()
	refs := make(map[catalog.Kind]int64)
	for kind, entry := range map[catalog.Kind]catalog.Entry{
		catalog.KindCountry:         {Name: "Colombia"},
		catalog.KindCity:            {Name: "Bogota"},
		catalog.KindOccupation:      {Name: "Docente"},
		catalog.KindEthnicCommunity: {Code: "001"},
		catalog.KindEthnicity:       {Code: "AF"},
	} {
		e := entry
		require.NoError(t, store.CreateEntry(context.Background(), kind, &e))
		refs[kind] = e.ID
	}
	return refs
}

func declare(t *testing.T, svc *donation.Service, patientID int64) *donation.Opposition {
	t.Helper()
	o := &donation.Opposition{PatientID: patientID, Opposed: true}
	require.NoError(t, svc.Declare(context.Background(), o))
	return o
}

func TestDeclare(t *testing.T) {
	svc, store, patientID := newFixture(t, true)
	o := declare(t, svc, patientID)

	assert.NotZero(t, o.ID)
	assert.False(t, o.DeclaredAt.IsZero())

	p, err := store.Patients().GetByID(context.Background(), patientID)
	require.NoError(t, err)
	require.NotNil(t, p.OppositionID)
	assert.Equal(t, o.ID, *p.OppositionID)
}

func TestDeclareUnknownPatient(t *testing.T) {
	svc, _, _ := newFixture(t, true)
	o := &donation.Opposition{PatientID: 9999, Opposed: true}
	err := svc.Declare(context.Background(), o)
	assert.ErrorIs(t, err, donation.ErrPatientNotFound)
}

func TestAttachAndRetrieveDocument(t *testing.T) {
	svc, _, patientID := newFixture(t, true)
	o := declare(t, svc, patientID)
	ctx := context.Background()

	scan := []byte("%PDF-1.4 escritura notarial")
	ref, err := svc.AttachDocument(ctx, o.ID, "oposicion.pdf", scan)
	require.NoError(t, err)
	assert.NotEmpty(t, ref)

	data, filename, err := svc.Document(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, scan, data)
	assert.Equal(t, "oposicion.pdf", filename)
}

func TestAttachReplacesPreviousDocument(t *testing.T) {
	svc, _, patientID := newFixture(t, true)
	o := declare(t, svc, patientID)
	ctx := context.Background()

	_, err := svc.AttachDocument(ctx, o.ID, "v1.pdf", []byte("primera"))
	require.NoError(t, err)
	_, err = svc.AttachDocument(ctx, o.ID, "v2.pdf", []byte("segunda"))
	require.NoError(t, err)

	data, filename, err := svc.Document(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("segunda"), data)
	assert.Equal(t, "v2.pdf", filename)
}

func TestDetachDocument(t *testing.T) {
	svc, _, patientID := newFixture(t, true)
	o := declare(t, svc, patientID)
	ctx := context.Background()

	_, err := svc.AttachDocument(ctx, o.ID, "oposicion.pdf", []byte("escritura"))
	require.NoError(t, err)

	require.NoError(t, svc.DetachDocument(ctx, o.ID))

	_, _, err = svc.Document(ctx, o.ID)
	assert.ErrorIs(t, err, donation.ErrNoDocument)

	assert.ErrorIs(t, svc.DetachDocument(ctx, o.ID), donation.ErrNoDocument)
}

func TestUpdateKeepsDocumentReference(t *testing.T) {
	svc, _, patientID := newFixture(t, true)
	o := declare(t, svc, patientID)
	ctx := context.Background()

	_, err := svc.AttachDocument(ctx, o.ID, "oposicion.pdf", []byte("escritura"))
	require.NoError(t, err)

	obs := "Manifestacion ante notario"
	update := &donation.Opposition{
		ID:           o.ID,
		PatientID:    patientID,
		Opposed:      true,
		DeclaredAt:   o.DeclaredAt,
		Observations: &obs,
	}
	require.NoError(t, svc.Update(ctx, update))

	// A plain update never drops the vaulted scan.
	data, _, err := svc.Document(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("escritura"), data)
}

func TestDeleteClearsPatientLinkAndVault(t *testing.T) {
	svc, store, patientID := newFixture(t, true)
	o := declare(t, svc, patientID)
	ctx := context.Background()

	_, err := svc.AttachDocument(ctx, o.ID, "oposicion.pdf", []byte("escritura"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, o.ID))

	_, err = svc.Get(ctx, o.ID)
	assert.ErrorIs(t, err, donation.ErrNotFound)

	p, err := store.Patients().GetByID(ctx, patientID)
	require.NoError(t, err)
	assert.Nil(t, p.OppositionID)
}

func TestDocumentOperationsWithoutVault(t *testing.T) {
	svc, _, patientID := newFixture(t, false)
	o := declare(t, svc, patientID)
	ctx := context.Background()

	_, err := svc.AttachDocument(ctx, o.ID, "x.pdf", []byte("y"))
	assert.ErrorIs(t, err, donation.ErrNoDocument)

	_, _, err = svc.Document(ctx, o.ID)
	assert.ErrorIs(t, err, donation.ErrNoDocument)
}
