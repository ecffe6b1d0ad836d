package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("catalog entry not found")
	ErrInUse       = errors.New("catalog entry is referenced by other records")
	ErrInvalid     = errors.New("invalid catalog entry")
	ErrUnknownKind = errors.New("unknown catalog kind")
)

// Kind identifies one of the reference catalogs. The value is the
// underlying table name.
type Kind string

const (
	KindCountry         Kind = "pais"
	KindCity            Kind = "ciudad"
	KindOccupation      Kind = "ocupacion_ciuo"
	KindEthnicCommunity Kind = "comunidad_etnica"
	KindEthnicity       Kind = "etnia"
	KindCauseOfVisit    Kind = "causa_motivo"
	KindAdmissionRoute  Kind = "via_ingreso"
	KindServiceModality Kind = "modalidad"
	KindRareDisease     Kind = "catalogo_enfermedades_huerfanas"
	KindDiagnosis       Kind = "cie10"
)

// Kinds lists every lookup catalog handled through the generic Entry API.
// DisabilityType has its own shape and is handled separately.
func Kinds() []Kind {
	return []Kind{
		KindCountry, KindCity, KindOccupation, KindEthnicCommunity,
		KindEthnicity, KindCauseOfVisit, KindAdmissionRoute,
		KindServiceModality, KindRareDisease, KindDiagnosis,
	}
}

// Entry is a row of one of the simple lookup catalogs. Depending on the
// kind, Name, Code or both are populated.
type Entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

// DisabilityType is the one catalog with a richer shape: a category code,
// a display name and optional grade/notes.
type DisabilityType struct {
	ID           int64   `json:"id"`
	CategoryCode string  `json:"category_code"`
	Name         string  `json:"name"`
	Grade        *string `json:"grade,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// EthnicityCodes is the canonical ethnicity enumeration. The two observed
// schema revisions disagreed; this superset is the versioned source of truth.
var EthnicityCodes = []string{"AF", "IN", "RA", "RO", "PA", "OT"}

// descriptor drives the SQL and validation for one catalog kind.
type descriptor struct {
	table   string
	idCol   string
	nameCol string
	codeCol string
	nameMax int
	codeMax int
	orderBy string
	codes   []string // allowed code values; nil means free-form
}

var descriptors = map[Kind]descriptor{
	KindCountry:         {table: "pais", idCol: "id_pais", nameCol: "pais_nombre", nameMax: 200, orderBy: "pais_nombre"},
	KindCity:            {table: "ciudad", idCol: "codigo_municipio", nameCol: "nombre", nameMax: 200, orderBy: "nombre"},
	KindOccupation:      {table: "ocupacion_ciuo", idCol: "codigo_ciuo", nameCol: "nombre_ocupacion", nameMax: 200, orderBy: "nombre_ocupacion"},
	KindEthnicCommunity: {table: "comunidad_etnica", idCol: "id_comunidad", codeCol: "comunidad", codeMax: 3, orderBy: "comunidad"},
	KindEthnicity:       {table: "etnia", idCol: "id_etnia", codeCol: "etnia", codeMax: 2, orderBy: "etnia", codes: EthnicityCodes},
	KindCauseOfVisit:    {table: "causa_motivo", idCol: "codigo_motivo", nameCol: "nombre_motivo", nameMax: 50, orderBy: "nombre_motivo"},
	KindAdmissionRoute:  {table: "via_ingreso", idCol: "codigo_ingreso", nameCol: "nombre_ingreso", nameMax: 50, orderBy: "nombre_ingreso"},
	KindServiceModality: {table: "modalidad", idCol: "modalidad_id", codeCol: "grupo_servicio", codeMax: 2, orderBy: "grupo_servicio"},
	KindRareDisease:     {table: "catalogo_enfermedades_huerfanas", idCol: "id_huerfana", nameCol: "nombre", codeCol: "tipo", nameMax: 200, codeMax: 2, orderBy: "nombre"},
	KindDiagnosis:       {table: "cie10", idCol: "cie_id", nameCol: "nombre", codeCol: "tipo", nameMax: 200, codeMax: 2, orderBy: "nombre"},
}

func describe(kind Kind) (descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return descriptor{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return d, nil
}

// Validate checks an entry against the field constraints of its kind
// before the write reaches storage.
func Validate(kind Kind, e *Entry) error {
	d, err := describe(kind)
	if err != nil {
		return err
	}

	if d.nameCol != "" {
		if e.Name == "" {
			return fmt.Errorf("%w: %s requires a name", ErrInvalid, kind)
		}
		if len(e.Name) > d.nameMax {
			return fmt.Errorf("%w: %s name exceeds %d characters", ErrInvalid, kind, d.nameMax)
		}
	} else if e.Name != "" {
		return fmt.Errorf("%w: %s does not carry a name", ErrInvalid, kind)
	}

	if d.codeCol != "" {
		if e.Code == "" {
			return fmt.Errorf("%w: %s requires a code", ErrInvalid, kind)
		}
		if len(e.Code) > d.codeMax {
			return fmt.Errorf("%w: %s code exceeds %d characters", ErrInvalid, kind, d.codeMax)
		}
		if d.codes != nil && !containsString(d.codes, e.Code) {
			return fmt.Errorf("%w: %s code %q not in enumeration", ErrInvalid, kind, e.Code)
		}
	} else if e.Code != "" {
		return fmt.Errorf("%w: %s does not carry a code", ErrInvalid, kind)
	}

	return nil
}

// ValidateDisabilityType checks field constraints for a disability type.
func ValidateDisabilityType(d *DisabilityType) error {
	if d.CategoryCode == "" || d.Name == "" {
		return fmt.Errorf("%w: disability type requires category code and name", ErrInvalid)
	}
	if len(d.CategoryCode) > 50 {
		return fmt.Errorf("%w: disability category code exceeds 50 characters", ErrInvalid)
	}
	if len(d.Name) > 200 {
		return fmt.Errorf("%w: disability name exceeds 200 characters", ErrInvalid)
	}
	if d.Grade != nil && len(*d.Grade) > 50 {
		return fmt.Errorf("%w: disability grade exceeds 50 characters", ErrInvalid)
	}
	if d.Notes != nil && len(*d.Notes) > 200 {
		return fmt.Errorf("%w: disability notes exceed 200 characters", ErrInvalid)
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
