package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		entry   Entry
		wantErr error
	}{
		{"country ok", KindCountry, Entry{Name: "Colombia"}, nil},
		{"country missing name", KindCountry, Entry{}, ErrInvalid},
		{"country rejects code", KindCountry, Entry{Name: "Colombia", Code: "CO"}, ErrInvalid},
		{"community ok", KindEthnicCommunity, Entry{Code: "001"}, nil},
		{"community code too long", KindEthnicCommunity, Entry{Code: "0001"}, ErrInvalid},
		{"community rejects name", KindEthnicCommunity, Entry{Name: "Wayuu", Code: "001"}, ErrInvalid},
		{"ethnicity ok", KindEthnicity, Entry{Code: "AF"}, nil},
		{"ethnicity outside enumeration", KindEthnicity, Entry{Code: "ZZ"}, ErrInvalid},
		{"rare disease needs both fields", KindRareDisease, Entry{Name: "Acondroplasia"}, ErrInvalid},
		{"rare disease ok", KindRareDisease, Entry{Name: "Acondroplasia", Code: "EH"}, nil},
		{"diagnosis ok", KindDiagnosis, Entry{Name: "Fiebre tifoidea", Code: "A0"}, nil},
		{"name over limit", KindCountry, Entry{Name: strings.Repeat("x", 201)}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.kind, &tt.entry)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEntryUnknownKind(t *testing.T) {
	err := Validate(Kind("no_such_catalog"), &Entry{Name: "x"})
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindsCoverEveryDescriptor(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, len(descriptors))
	for _, k := range kinds {
		_, err := describe(k)
		assert.NoError(t, err)
	}
}

func TestValidateDisabilityType(t *testing.T) {
	grade := "MODERADA"
	ok := DisabilityType{CategoryCode: "01", Name: "Fisica", Grade: &grade}
	require.NoError(t, ValidateDisabilityType(&ok))

	missing := DisabilityType{Name: "Fisica"}
	assert.True(t, errors.Is(ValidateDisabilityType(&missing), ErrInvalid))

	longGrade := strings.Repeat("x", 51)
	bad := DisabilityType{CategoryCode: "01", Name: "Fisica", Grade: &longGrade}
	assert.True(t, errors.Is(ValidateDisabilityType(&bad), ErrInvalid))
}
