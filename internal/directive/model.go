package directive

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("advance directive not found")
	ErrInvalid          = errors.New("invalid advance directive")
	ErrInvalidReference = errors.New("referenced patient or provider not found")
	ErrBadTransition    = errors.New("directive state does not allow this transition")
)

// Directive lifecycle states.
const (
	StatusActive  = "ACTIVA"
	StatusAmended = "MODIFICADA"
	StatusRevoked = "REVOCADA"
)

// Directive is an advance-directive consent document subscribed by a
// patient before a health provider. A revoked directive is terminal: it can
// no longer be amended or revoked again.
type Directive struct {
	ID         int64  `json:"id"`
	PatientID  int64  `json:"patient_id"`
	ProviderID int64  `json:"provider_id"`

	SubscribedAt time.Time  `json:"subscribed_at"`
	AmendedAt    *time.Time `json:"amended_at,omitempty"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`

	Content   string `json:"content"`
	Status    string `json:"status"`
	Signature string `json:"signature"`
}

// Validate checks field constraints before the document reaches storage.
func (d *Directive) Validate() error {
	if d.PatientID == 0 || d.ProviderID == 0 {
		return fmt.Errorf("%w: patient and provider references are required", ErrInvalid)
	}
	if d.SubscribedAt.IsZero() {
		return fmt.Errorf("%w: subscription date is required", ErrInvalid)
	}
	if d.Content == "" || len(d.Content) > 500 {
		return fmt.Errorf("%w: content is required and limited to 500 characters", ErrInvalid)
	}
	if d.Signature == "" {
		return fmt.Errorf("%w: patient signature is required", ErrInvalid)
	}
	return nil
}
