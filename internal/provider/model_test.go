package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderValidate(t *testing.T) {
	p := &Provider{
		Code:            500,
		Type:            "IPS",
		Name:            "Hospital San Rafael",
		ComplexityLevel: "MEDIA",
		TaxID:           "900123456-7",
		Municipality:    "Tunja",
		Department:      "Boyaca",
		Address:         "Cra 11 # 27-27",
		Contact:         "6067400",
	}
	require.NoError(t, p.Validate())

	t.Run("missing name", func(t *testing.T) {
		bad := *p
		bad.Name = ""
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("tax id too long", func(t *testing.T) {
		bad := *p
		bad.TaxID = strings.Repeat("9", 14)
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})

	t.Run("contact too long", func(t *testing.T) {
		bad := *p
		bad.Contact = strings.Repeat("9", 51)
		assert.ErrorIs(t, bad.Validate(), ErrInvalid)
	})
}
