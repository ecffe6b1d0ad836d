package donation

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("donation opposition not found")
	ErrInvalid         = errors.New("invalid donation opposition")
	ErrPatientNotFound = errors.New("referenced patient not found")
	ErrNoDocument      = errors.New("opposition has no supporting document")
)

// Opposition records whether a patient has formally opposed organ
// donation. The supporting document (a notarised scan) lives in the
// document vault; only its reference is stored here.
type Opposition struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patient_id"`

	Opposed      bool      `json:"opposed"`
	DeclaredAt   time.Time `json:"declared_at"`
	DocumentRef  *string   `json:"document_ref,omitempty"`
	Observations *string   `json:"observations,omitempty"`
	Witness      *string   `json:"witness,omitempty"`
	NotaryRecord *string   `json:"notary_record,omitempty"`
}

// Validate checks field constraints before the record reaches storage.
func (o *Opposition) Validate() error {
	if o.PatientID == 0 {
		return fmt.Errorf("%w: patient reference is required", ErrInvalid)
	}
	if o.DeclaredAt.IsZero() {
		return fmt.Errorf("%w: declaration date is required", ErrInvalid)
	}
	if o.Observations != nil && len(*o.Observations) > 200 {
		return fmt.Errorf("%w: observations are limited to 200 characters", ErrInvalid)
	}
	if o.Witness != nil && len(*o.Witness) > 200 {
		return fmt.Errorf("%w: witness is limited to 200 characters", ErrInvalid)
	}
	if o.NotaryRecord != nil && len(*o.NotaryRecord) > 200 {
		return fmt.Errorf("%w: notary record is limited to 200 characters", ErrInvalid)
	}
	return nil
}
