package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/directive"
	"github.com/mesikahq/gestion-salud/internal/encounter"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
)

func seedEntry(t *testing.T, s *Store, kind catalog.Kind, e catalog.Entry) int64 {
	t.Helper()
	require.NoError(t, s.CreateEntry(context.Background(), kind, &e))
	return e.ID
}

func seedProvider(t *testing.T, s *Store) int64 {
	t.Helper()
	p := &provider.Provider{Type: "IPS", Name: "Clinica Central"}
	require.NoError(t, s.Providers().Create(context.Background(), p))
	return p.ID
}

func seedPatient(t *testing.T, s *Store, refs map[catalog.Kind]int64, providerID int64, doc string) *patient.Patient {
	t.Helper()
	p := &patient.Patient{
		CountryID:         refs[catalog.KindCountry],
		CityID:            refs[catalog.KindCity],
		OccupationID:      refs[catalog.KindOccupation],
		EthnicCommunityID: refs[catalog.KindEthnicCommunity],
		EthnicityID:       refs[catalog.KindEthnicity],
		ProviderID:        providerID,
		DocumentType:      "CC",
		DocumentNumber:    doc,
		GivenName:         "Ana",
		FamilyName:        "Rojas",
		BirthDate:         time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC),
		Age:               41,
		BiologicalSex:     "F",
	}
	require.NoError(t, s.Patients().Create(context.Background(), p))
	return p
}

func patientRefs(t *testing.T, s *Store) map[catalog.Kind]int64 {
	t.Helper()
	return map[catalog.Kind]int64{
		catalog.KindCountry:         seedEntry(t, s, catalog.KindCountry, catalog.Entry{Name: "Colombia"}),
		catalog.KindCity:            seedEntry(t, s, catalog.KindCity, catalog.Entry{Name: "Bogota"}),
		catalog.KindOccupation:      seedEntry(t, s, catalog.KindOccupation, catalog.Entry{Name: "Docente"}),
		catalog.KindEthnicCommunity: seedEntry(t, s, catalog.KindEthnicCommunity, catalog.Entry{Code: "001"}),
		catalog.KindEthnicity:       seedEntry(t, s, catalog.KindEthnicity, catalog.Entry{Code: "AF"}),
	}
}

func TestCatalogEntryCRUD(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id := seedEntry(t, s, catalog.KindCountry, catalog.Entry{Name: "Colombia"})

	got, err := s.GetEntry(ctx, catalog.KindCountry, id)
	require.NoError(t, err)
	assert.Equal(t, "Colombia", got.Name)

	got.Name = "Republica de Colombia"
	require.NoError(t, s.UpdateEntry(ctx, catalog.KindCountry, got))

	list, err := s.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Republica de Colombia", list[0].Name)

	require.NoError(t, s.DeleteEntry(ctx, catalog.KindCountry, id))
	_, err = s.GetEntry(ctx, catalog.KindCountry, id)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalogListSorted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seedEntry(t, s, catalog.KindCountry, catalog.Entry{Name: "Venezuela"})
	seedEntry(t, s, catalog.KindCountry, catalog.Entry{Name: "Argentina"})
	seedEntry(t, s, catalog.KindCountry, catalog.Entry{Name: "Colombia"})

	list, err := s.ListEntries(ctx, catalog.KindCountry)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Argentina", list[0].Name)
	assert.Equal(t, "Venezuela", list[2].Name)
}

func TestDeleteReferencedEntryRestricted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	refs := patientRefs(t, s)
	providerID := seedProvider(t, s)
	seedPatient(t, s, refs, providerID, "100200300")

	for kind, id := range refs {
		err := s.DeleteEntry(ctx, kind, id)
		assert.ErrorIs(t, err, catalog.ErrInUse, "kind %s", kind)
	}
}

func TestDeleteRareDiseaseClearsEncounterReference(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	refs := patientRefs(t, s)
	providerID := seedProvider(t, s)
	p := seedPatient(t, s, refs, providerID, "100200300")

	cause := seedEntry(t, s, catalog.KindCauseOfVisit, catalog.Entry{Name: "Enfermedad general"})
	route := seedEntry(t, s, catalog.KindAdmissionRoute, catalog.Entry{Name: "Consulta externa"})
	modality := seedEntry(t, s, catalog.KindServiceModality, catalog.Entry{Code: "01"})
	diagnosis := seedEntry(t, s, catalog.KindDiagnosis, catalog.Entry{Name: "Fiebre tifoidea", Code: "A0"})
	rare := seedEntry(t, s, catalog.KindRareDisease, catalog.Entry{Name: "Acondroplasia", Code: "EH"})

	e := &encounter.Encounter{
		PatientID:       p.ID,
		ProviderID:      providerID,
		CauseID:         cause,
		AdmissionRoute:  route,
		ModalityID:      modality,
		DiagnosisCodeID: diagnosis,
		OrphanDiseaseID: &rare,
		ServiceType:     "Consulta especializada",
		AdmittedAt:      time.Now(),
		Diagnosis:       "Valoracion inicial",
		Status:          encounter.StatusScheduled,
	}
	require.NoError(t, s.Encounters().Create(ctx, e))

	require.NoError(t, s.DeleteEntry(ctx, catalog.KindRareDisease, rare))

	got, err := s.Encounters().GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.OrphanDiseaseID)
}

func TestDeleteProviderRestricted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	refs := patientRefs(t, s)
	providerID := seedProvider(t, s)
	seedPatient(t, s, refs, providerID, "100200300")

	assert.ErrorIs(t, s.Providers().Delete(ctx, providerID), provider.ErrInUse)

	unused := seedProvider(t, s)
	assert.NoError(t, s.Providers().Delete(ctx, unused))
}

func TestDeleteDisabilityTypeRestricted(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	refs := patientRefs(t, s)
	providerID := seedProvider(t, s)
	p := seedPatient(t, s, refs, providerID, "100200300")

	d := &catalog.DisabilityType{CategoryCode: "01", Name: "Fisica"}
	require.NoError(t, s.CreateDisabilityType(ctx, d))

	_, err := s.Patients().AddDisability(ctx, p.ID, d.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteDisabilityType(ctx, d.ID), catalog.ErrInUse)
}

func TestPatientDeleteCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	refs := patientRefs(t, s)
	providerID := seedProvider(t, s)
	p := seedPatient(t, s, refs, providerID, "100200300")

	d := &directive.Directive{
		PatientID:    p.ID,
		ProviderID:   providerID,
		SubscribedAt: time.Now(),
		Content:      "No reanimar",
		Status:       directive.StatusActive,
		Signature:    "sealed",
	}
	require.NoError(t, s.Directives().Create(ctx, d))

	require.NoError(t, s.Patients().Delete(ctx, p.ID))

	_, err := s.Directives().GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, directive.ErrNotFound)

	nats, err := s.Patients().ListNationalities(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, nats)
}
