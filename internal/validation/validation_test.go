package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectsMultipleErrors(t *testing.T) {
	ve := &ValidationErrors{}
	RequireField(ve, "name", "  ")
	ValidateEnum(ve, "status", "lost", ValidShipmentStatuses)
	ValidatePositiveFloat(ve, "weight", 0)

	require.True(t, ve.HasErrors())
	require.Len(t, ve.Errors, 3)
	require.Equal(t, "name", ve.Errors[0].Field)
	require.Contains(t, ve.Error(), "status")
}

func TestEnumAndEmailSkipEmptyValues(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateEnum(ve, "status", "", ValidQuoteStatuses)
	ValidateEmail(ve, "email", "")
	ValidateURL(ve, "attachmentUrl", "")
	require.False(t, ve.HasErrors())
}

func TestValidateEmail(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateEmail(ve, "email", "ram@everest.test")
	require.False(t, ve.HasErrors())

	ValidateEmail(ve, "email", "not-an-email")
	require.True(t, ve.HasErrors())
}

func TestValidateURLRequiresHTTPScheme(t *testing.T) {
	for _, bad := range []string{"ftp://files.test/x", "files.test/x", "https://"} {
		ve := &ValidationErrors{}
		ValidateURL(ve, "fileUrl", bad)
		require.True(t, ve.HasErrors(), "expected %q to be rejected", bad)
	}

	ve := &ValidationErrors{}
	ValidateURL(ve, "fileUrl", "https://files.test/doc.pdf")
	require.False(t, ve.HasErrors())
}

func TestValidatePassword(t *testing.T) {
	ve := &ValidationErrors{}
	ValidatePassword(ve, "password", "short")
	require.True(t, ve.HasErrors())

	ve = &ValidationErrors{}
	ValidatePassword(ve, "password", "long enough")
	require.False(t, ve.HasErrors())
}

func TestValidateMaxAmount(t *testing.T) {
	ve := &ValidationErrors{}
	ValidateMaxAmount(ve, "amount", MaxAmount+1)
	require.True(t, ve.HasErrors())
}
