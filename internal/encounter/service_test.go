package encounter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesikahq/gestion-salud/internal/audit"
	"github.com/mesikahq/gestion-salud/internal/catalog"
	"github.com/mesikahq/gestion-salud/internal/encounter"
	"github.com/mesikahq/gestion-salud/internal/patient"
	"github.com/mesikahq/gestion-salud/internal/provider"
	"github.com/mesikahq/gestion-salud/internal/storage/memory"
)

type fixture struct {
	svc       *encounter.Service
	store     *memory.Store
	patientID int64
	provID    int64
	cause     int64
	route     int64
	modality  int64
	diagnosis int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	prov := &provider.Provider{Type: "IPS", Name: "Hospital Regional"}
	require.NoError(t, store.Providers().Create(ctx, prov))

	pat := &patient.Patient{
		CountryID:         seed(t, store, catalog.KindCountry, catalog.Entry{Name: "Colombia"}),
		CityID:            seed(t, store, catalog.KindCity, catalog.Entry{Name: "Bogota"}),
		OccupationID:      seed(t, store, catalog.KindOccupation, catalog.Entry{Name: "Docente"}),
		EthnicCommunityID: seed(t, store, catalog.KindEthnicCommunity, catalog.Entry{Code: "001"}),
		EthnicityID:       seed(t, store, catalog.KindEthnicity, catalog.Entry{Code: "AF"}),
		ProviderID:        prov.ID,
		DocumentType: "CC", DocumentNumber: "52123456",
		GivenName: "Pedro", FamilyName: "Suarez",
		BirthDate:     time.Date(1960, 3, 3, 0, 0, 0, 0, time.UTC),
		Age:           66,
		BiologicalSex: "M",
	}
	require.NoError(t, store.Patients().Create(ctx, pat))

	f := &fixture{
		svc:       encounter.NewService(store.Encounters(), audit.Nop()),
		store:     store,
		patientID: pat.ID,
		provID:    prov.ID,
	}
	f.cause = seed(t, store, catalog.KindCauseOfVisit, catalog.Entry{Name: "Enfermedad general"})
	f.route = seed(t, store, catalog.KindAdmissionRoute, catalog.Entry{Name: "Urgencias"})
	f.modality = seed(t, store, catalog.KindServiceModality, catalog.Entry{Code: "01"})
	f.diagnosis = seed(t, store, catalog.KindDiagnosis, catalog.Entry{Name: "Fiebre tifoidea", Code: "A0"})
	return f
}

func seed(t *testing.T, store *memory.Store, kind catalog.Kind, e catalog.Entry) int64 {
	t.Helper()
	require.NoError(t, store.CreateEntry(context.Background(), kind, &e))
	return e.ID
}

func (f *fixture) schedule(t *testing.T) *encounter.Encounter {
	t.Helper()
	e := &encounter.Encounter{
		PatientID:       f.patientID,
		ProviderID:      f.provID,
		CauseID:         f.cause,
		AdmissionRoute:  f.route,
		ModalityID:      f.modality,
		DiagnosisCodeID: f.diagnosis,
		ServiceType:     "Consulta de urgencias",
		AdmittedAt:      time.Now(),
		Diagnosis:       "Dolor abdominal agudo",
	}
	require.NoError(t, f.svc.Schedule(context.Background(), e))
	return e
}

func TestSchedule(t *testing.T) {
	f := newFixture(t)
	e := f.schedule(t)

	assert.Equal(t, encounter.StatusScheduled, e.Status)
	assert.Nil(t, e.DischargedAt)
	assert.NotZero(t, e.ID)
}

func TestScheduleUnknownCatalogReference(t *testing.T) {
	f := newFixture(t)
	e := &encounter.Encounter{
		PatientID:       f.patientID,
		ProviderID:      f.provID,
		CauseID:         9999,
		AdmissionRoute:  f.route,
		ModalityID:      f.modality,
		DiagnosisCodeID: f.diagnosis,
		ServiceType:     "Consulta",
		AdmittedAt:      time.Now(),
		Diagnosis:       "Dolor",
	}
	err := f.svc.Schedule(context.Background(), e)
	assert.ErrorIs(t, err, encounter.ErrInvalidReference)
}

func TestTransitionsFromScheduled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	attended := f.schedule(t)
	got, err := f.svc.MarkAttended(ctx, attended.ID)
	require.NoError(t, err)
	assert.Equal(t, encounter.StatusAttended, got.Status)

	cancelled := f.schedule(t)
	got, err = f.svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, encounter.StatusCancelled, got.Status)

	noShow := f.schedule(t)
	got, err = f.svc.MarkNoShow(ctx, noShow.ID)
	require.NoError(t, err)
	assert.Equal(t, encounter.StatusNoShow, got.Status)

	// Terminal states reject further transitions.
	_, err = f.svc.MarkAttended(ctx, cancelled.ID)
	assert.ErrorIs(t, err, encounter.ErrBadTransition)
	_, err = f.svc.Cancel(ctx, attended.ID)
	assert.ErrorIs(t, err, encounter.ErrBadTransition)
}

func TestDischarge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.schedule(t)
	_, err := f.svc.Discharge(ctx, e.ID, "Alta por mejoria")
	assert.ErrorIs(t, err, encounter.ErrBadTransition, "cannot discharge a scheduled encounter")

	_, err = f.svc.MarkAttended(ctx, e.ID)
	require.NoError(t, err)

	got, err := f.svc.Discharge(ctx, e.ID, "Alta por mejoria")
	require.NoError(t, err)
	require.NotNil(t, got.DischargedAt)
	require.NotNil(t, got.DischargeDiagnosis)
	assert.Equal(t, "Alta por mejoria", *got.DischargeDiagnosis)

	_, err = f.svc.Discharge(ctx, e.ID, "Segunda alta")
	assert.ErrorIs(t, err, encounter.ErrBadTransition, "discharge happens once")
}

func TestDischargeRequiresDiagnosis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.schedule(t)
	_, err := f.svc.MarkAttended(ctx, e.ID)
	require.NoError(t, err)

	_, err = f.svc.Discharge(ctx, e.ID, "")
	assert.ErrorIs(t, err, encounter.ErrInvalid)
}

func TestUpdateOnlyWhileScheduled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.schedule(t)
	e.Diagnosis = "Diagnostico ajustado"
	require.NoError(t, f.svc.Update(ctx, e))

	_, err := f.svc.MarkAttended(ctx, e.ID)
	require.NoError(t, err)

	e.Diagnosis = "Otro ajuste"
	assert.ErrorIs(t, f.svc.Update(ctx, e), encounter.ErrBadTransition)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.schedule(t)
	second := f.schedule(t)
	_, err := f.svc.MarkAttended(ctx, first.ID)
	require.NoError(t, err)

	list, total, err := f.svc.List(ctx, encounter.Filter{Status: encounter.StatusScheduled}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	_, total, err = f.svc.List(ctx, encounter.Filter{PatientID: f.patientID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
