package encounter

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("encounter not found")
	ErrInvalid          = errors.New("invalid encounter")
	ErrInvalidReference = errors.New("referenced record not found")
	ErrBadTransition    = errors.New("encounter state does not allow this transition")
)

// Encounter lifecycle states. A scheduled encounter either happens, is
// cancelled, or the patient does not show; discharge data is recorded only
// for encounters that happened.
const (
	StatusScheduled = "PROGRAMADA"
	StatusAttended  = "ATENDIDA"
	StatusCancelled = "CANCELADA"
	StatusNoShow    = "NO_ASISTIO"
)

// Encounter is one clinical service episode for a patient at a provider.
// The orphan-disease reference is optional and survives catalog cleanup as
// a null.
type Encounter struct {
	ID         int64 `json:"id"`
	PatientID  int64 `json:"patient_id"`
	ProviderID int64 `json:"provider_id"`

	CauseID         int64  `json:"cause_id"`
	AdmissionRoute  int64  `json:"admission_route_id"`
	ModalityID      int64  `json:"modality_id"`
	OrphanDiseaseID *int64 `json:"orphan_disease_id,omitempty"`
	DiagnosisCodeID int64  `json:"diagnosis_code_id"`

	ServiceType        string     `json:"service_type"`
	AdmittedAt         time.Time  `json:"admitted_at"`
	DischargedAt       *time.Time `json:"discharged_at,omitempty"`
	Diagnosis          string     `json:"diagnosis"`
	DischargeDiagnosis *string    `json:"discharge_diagnosis,omitempty"`
	Status             string     `json:"status"`
}

// Filter narrows encounter lists.
type Filter struct {
	PatientID  int64
	ProviderID int64
	Status     string
}

// Validate checks field constraints before the record reaches storage.
func (e *Encounter) Validate() error {
	if e.PatientID == 0 || e.ProviderID == 0 {
		return fmt.Errorf("%w: patient and provider references are required", ErrInvalid)
	}
	if e.CauseID == 0 || e.AdmissionRoute == 0 || e.ModalityID == 0 || e.DiagnosisCodeID == 0 {
		return fmt.Errorf("%w: cause, admission route, modality and diagnosis code are required", ErrInvalid)
	}
	if e.ServiceType == "" || len(e.ServiceType) > 200 {
		return fmt.Errorf("%w: service type is required and limited to 200 characters", ErrInvalid)
	}
	if e.AdmittedAt.IsZero() {
		return fmt.Errorf("%w: admission date is required", ErrInvalid)
	}
	if e.Diagnosis == "" || len(e.Diagnosis) > 500 {
		return fmt.Errorf("%w: diagnosis is required and limited to 500 characters", ErrInvalid)
	}
	if e.DischargeDiagnosis != nil && len(*e.DischargeDiagnosis) > 500 {
		return fmt.Errorf("%w: discharge diagnosis is limited to 500 characters", ErrInvalid)
	}
	return nil
}
