package patient

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPatient() *Patient {
	return &Patient{
		CountryID:         1,
		CityID:            2,
		OccupationID:      3,
		EthnicCommunityID: 4,
		EthnicityID:       5,
		ProviderID:        6,
		DocumentType:      "CC",
		DocumentNumber:    "1032456789",
		GivenName:         "Maria",
		FamilyName:        "Gomez",
		BirthDate:         time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Age:               36,
		BiologicalSex:     "F",
	}
}

func TestPatientValidate(t *testing.T) {
	require.NoError(t, validPatient().Validate())

	t.Run("document type outside enumeration", func(t *testing.T) {
		p := validPatient()
		p.DocumentType = "XX"
		assert.ErrorIs(t, p.Validate(), ErrInvalid)
	})

	t.Run("document number too long", func(t *testing.T) {
		p := validPatient()
		p.DocumentNumber = strings.Repeat("9", 16)
		assert.ErrorIs(t, p.Validate(), ErrInvalid)
	})

	t.Run("missing names", func(t *testing.T) {
		p := validPatient()
		p.GivenName = ""
		assert.ErrorIs(t, p.Validate(), ErrInvalid)
	})

	t.Run("age out of range", func(t *testing.T) {
		p := validPatient()
		p.Age = 151
		assert.ErrorIs(t, p.Validate(), ErrInvalid)
	})

	t.Run("biological sex outside enumeration", func(t *testing.T) {
		p := validPatient()
		p.BiologicalSex = "X"
		assert.ErrorIs(t, p.Validate(), ErrInvalid)
	})

	t.Run("missing catalog reference", func(t *testing.T) {
		p := validPatient()
		p.EthnicityID = 0
		assert.ErrorIs(t, p.Validate(), ErrInvalid)
	})
}

func TestPatientDisplayName(t *testing.T) {
	p := validPatient()
	assert.Equal(t, "Maria Gomez", p.DisplayName())

	middle := "Jose"
	second := "Perez"
	p.MiddleName = &middle
	p.SecondFamilyName = &second
	assert.Equal(t, "Maria Jose Gomez Perez", p.DisplayName())
}
