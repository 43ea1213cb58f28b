package handler

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pickmyfruit/pickmyfruit-backend/internal/models"
)

func validListingForm() models.ListingForm {
	return models.ListingForm{
		Type:          "lemon",
		HarvestWindow: "Year-round",
		Address:       "1 Orchard Ln",
		City:          "Napa",
		State:         "CA",
		OwnerName:     "Pat",
		OwnerPhone:    "+1 (707) 555-0100",
	}
}

func TestValidators_ListingForm(t *testing.T) {
	RegisterValidators()

	require.NoError(t, binding.Validator.ValidateStruct(validListingForm()))

	form := validListingForm()
	form.Zip = "94559-1234"
	assert.NoError(t, binding.Validator.ValidateStruct(form))

	form = validListingForm()
	form.Type = "banana"
	form.Zip = "ABCDE"
	form.OwnerName = ""
	err := binding.Validator.ValidateStruct(form)
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields["type"], "must be one of")
	assert.Equal(t, "must be a 5-digit zip code", fields["zip"])
	assert.Equal(t, "is required", fields["ownerName"])
	assert.NotContains(t, fields, "ownerPhone")
}

func TestValidators_StatusUpdate(t *testing.T) {
	RegisterValidators()

	assert.NoError(t, binding.Validator.ValidateStruct(models.StatusUpdate{Status: "private"}))

	err := binding.Validator.ValidateStruct(models.StatusUpdate{Status: "gone"})
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "must be one of: available, unavailable, private", fields["status"])
}

func TestFieldErrors_NotValidation(t *testing.T) {
	_, ok := FieldErrors(assert.AnError)
	assert.False(t, ok)
}
