package patient

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound             = errors.New("patient not found")
	ErrDuplicateDocument    = errors.New("document number already registered")
	ErrDuplicateNationality = errors.New("patient already has this nationality")
	ErrDuplicateDisability  = errors.New("patient already has this disability")
	ErrNationalityNotFound  = errors.New("patient nationality not found")
	ErrDisabilityNotFound   = errors.New("patient disability not found")
	ErrNationalityInUse     = errors.New("nationality is the patient's primary link")
	ErrInvalidReference     = errors.New("referenced catalog entry or provider does not exist")
	ErrInvalid              = errors.New("invalid patient data")
)

// DocumentTypes is the canonical identity-document enumeration.
var DocumentTypes = []string{"CC", "TI", "CE", "PA", "RC"}

// BiologicalSexes is the biological-sex enumeration.
var BiologicalSexes = []string{"M", "F", "I"}

// Patient is the central demographic record. Every required reference
// points at a catalog or the provider registry; the optional links to the
// advance directive, donation opposition and disability association are
// cleared when the linked record disappears.
type Patient struct {
	ID int64 `json:"id"`

	// Required references
	CountryID         int64 `json:"country_id"`
	CityID            int64 `json:"city_id"`
	OccupationID      int64 `json:"occupation_id"`
	EthnicCommunityID int64 `json:"ethnic_community_id"`
	EthnicityID       int64 `json:"ethnicity_id"`
	ProviderID        int64 `json:"provider_id"`

	// Primary nationality link, set when the patient is created
	NationalityID *int64 `json:"nationality_id,omitempty"`

	// Optional cross-links
	DirectiveID      *int64 `json:"directive_id,omitempty"`
	OppositionID     *int64 `json:"opposition_id,omitempty"`
	DisabilityLinkID *int64 `json:"disability_link_id,omitempty"`

	// Personal data
	DocumentType     string    `json:"document_type"`
	DocumentNumber   string    `json:"document_number"`
	GivenName        string    `json:"given_name"`
	MiddleName       *string   `json:"middle_name,omitempty"`
	FamilyName       string    `json:"family_name"`
	SecondFamilyName *string   `json:"second_family_name,omitempty"`
	BirthDate        time.Time `json:"birth_date"`
	Age              int       `json:"age"`
	BiologicalSex    string    `json:"biological_sex"`
	GenderIdentity   *string   `json:"gender_identity,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Nationality is a (patient, country) association row. The pair is unique.
type Nationality struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patient_id"`
	CountryID int64 `json:"country_id"`
}

// Disability is a (patient, disability type) association row. The pair is
// unique.
type Disability struct {
	ID           int64 `json:"id"`
	PatientID    int64 `json:"patient_id"`
	DisabilityID int64 `json:"disability_id"`
}

// Filter narrows patient lists. NameQuery matches a prefix of the given or
// family name.
type Filter struct {
	NameQuery      string
	DocumentNumber string
}

// DisplayName is the composite human-readable name. Projection only,
// never persisted.
func (p *Patient) DisplayName() string {
	parts := []string{p.GivenName}
	if p.MiddleName != nil && *p.MiddleName != "" {
		parts = append(parts, *p.MiddleName)
	}
	parts = append(parts, p.FamilyName)
	if p.SecondFamilyName != nil && *p.SecondFamilyName != "" {
		parts = append(parts, *p.SecondFamilyName)
	}
	return strings.Join(parts, " ")
}

// Validate performs field-level validation before a write reaches storage.
func (p *Patient) Validate() error {
	if !containsString(DocumentTypes, p.DocumentType) {
		return fmt.Errorf("%w: document type %q not in enumeration", ErrInvalid, p.DocumentType)
	}
	if p.DocumentNumber == "" || len(p.DocumentNumber) > 15 {
		return fmt.Errorf("%w: document number is required and limited to 15 characters", ErrInvalid)
	}
	if p.GivenName == "" || p.FamilyName == "" {
		return fmt.Errorf("%w: given and family names are required", ErrInvalid)
	}
	if len(p.GivenName) > 30 || len(p.FamilyName) > 30 {
		return fmt.Errorf("%w: names are limited to 30 characters", ErrInvalid)
	}
	if p.MiddleName != nil && len(*p.MiddleName) > 30 {
		return fmt.Errorf("%w: middle name is limited to 30 characters", ErrInvalid)
	}
	if p.SecondFamilyName != nil && len(*p.SecondFamilyName) > 30 {
		return fmt.Errorf("%w: second family name is limited to 30 characters", ErrInvalid)
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth date is required", ErrInvalid)
	}
	if p.Age < 0 || p.Age > 150 {
		return fmt.Errorf("%w: age %d out of range", ErrInvalid, p.Age)
	}
	if !containsString(BiologicalSexes, p.BiologicalSex) {
		return fmt.Errorf("%w: biological sex %q not in enumeration", ErrInvalid, p.BiologicalSex)
	}
	if p.GenderIdentity != nil && len(*p.GenderIdentity) > 50 {
		return fmt.Errorf("%w: gender identity is limited to 50 characters", ErrInvalid)
	}
	if p.CountryID == 0 || p.CityID == 0 || p.OccupationID == 0 ||
		p.EthnicCommunityID == 0 || p.EthnicityID == 0 || p.ProviderID == 0 {
		return fmt.Errorf("%w: all catalog and provider references are required", ErrInvalid)
	}
	return nil
}

func containsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
