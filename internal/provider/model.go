package provider

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("provider not found")
	ErrInUse    = errors.New("provider is referenced by other records")
	ErrInvalid  = errors.New("invalid provider data")
)

// Provider is a health-care provider entity (EPS, IPS or similar):
// administrative facility data referenced by patients, advance directives
// and clinical encounters.
type Provider struct {
	ID                int64  `json:"id"`
	Code              int    `json:"code"`
	Type              string `json:"type"`
	Name              string `json:"name"`
	ComplexityLevel   string `json:"complexity_level"`
	TaxID             string `json:"tax_id"`
	AccreditationCode string `json:"accreditation_code"`
	Municipality      string `json:"municipality"`
	Department        string `json:"department"`
	Address           string `json:"address"`
	Contact           string `json:"contact"`
}

// Validate performs field-level validation before a write reaches storage.
func (p *Provider) Validate() error {
	if p.Name == "" || p.Type == "" {
		return fmt.Errorf("%w: name and type are required", ErrInvalid)
	}
	if len(p.Name) > 100 || len(p.Type) > 100 {
		return fmt.Errorf("%w: name/type exceed 100 characters", ErrInvalid)
	}
	if len(p.TaxID) > 13 {
		return fmt.Errorf("%w: tax id exceeds 13 characters", ErrInvalid)
	}
	if len(p.AccreditationCode) > 20 {
		return fmt.Errorf("%w: accreditation code exceeds 20 characters", ErrInvalid)
	}
	if len(p.ComplexityLevel) > 20 {
		return fmt.Errorf("%w: complexity level exceeds 20 characters", ErrInvalid)
	}
	if len(p.Municipality) > 50 || len(p.Department) > 50 || len(p.Contact) > 50 {
		return fmt.Errorf("%w: municipality/department/contact exceed 50 characters", ErrInvalid)
	}
	if len(p.Address) > 100 {
		return fmt.Errorf("%w: address exceeds 100 characters", ErrInvalid)
	}
	return nil
}
