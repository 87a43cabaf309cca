package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassenger(t *testing.T) {
	// A well-formed passenger produces no field errors.
	errs := ValidatePassenger(0, "Anjali Menon", "female", "+919876543210", 28)
	assert.Empty(t, errs)

	// Phone is optional.
	errs = ValidatePassenger(0, "Ravi Kumar", "male", "", 35)
	assert.Empty(t, errs)

	errs = ValidatePassenger(1, "", "male", "", 30)
	assert.Len(t, errs, 1)
	assert.Equal(t, "passengers[1].name", errs[0].Field)

	errs = ValidatePassenger(0, "Ravi Kumar", "unknown", "", 30)
	assert.Len(t, errs, 1)
	assert.Equal(t, "passengers[0].gender", errs[0].Field)

	errs = ValidatePassenger(0, "Ravi Kumar", "male", "", 0)
	assert.Len(t, errs, 1)
	assert.Equal(t, "passengers[0].age", errs[0].Field)

	errs = ValidatePassenger(0, "Ravi Kumar", "male", "not-a-phone", 30)
	assert.Len(t, errs, 1)
	assert.Equal(t, "passengers[0].phone", errs[0].Field)

	// Everything wrong at once collects every field.
	errs = ValidatePassenger(2, "", "x", "abc", -1)
	assert.Len(t, errs, 4)
}

func TestValidatePaymentReference(t *testing.T) {
	assert.True(t, ValidatePaymentReference("UTR1234567"))
	assert.True(t, ValidatePaymentReference("  ABC123  "))
	assert.False(t, ValidatePaymentReference("AB12"))
	assert.False(t, ValidatePaymentReference("     "))
	assert.False(t, ValidatePaymentReference(""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("traveller@example.com"))
	assert.False(t, ValidateEmail("traveller@"))
	assert.False(t, ValidateEmail("not-an-email"))
}
