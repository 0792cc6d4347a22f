package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billflow/internal/domain"
	"billflow/internal/validator"
)

type partyInput struct {
	GSTIN string `binding:"omitempty,gstin"`
	HSN   string `binding:"omitempty,hsn"`
	Date  string `binding:"required,isodate"`
}

func TestFieldRules(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name  string
		input partyInput
		ok    bool
	}{
		{"valid", partyInput{GSTIN: "27AAPFU0939F1ZV", HSN: "8471", Date: "2024-01-15"}, true},
		{"lowercase_gstin", partyInput{GSTIN: "27aapfu0939f1zv", Date: "2024-01-15"}, true},
		{"blank_optional_fields", partyInput{Date: "2024-01-15"}, true},
		{"short_gstin", partyInput{GSTIN: "27AAPFU0939", Date: "2024-01-15"}, false},
		{"alpha_hsn", partyInput{HSN: "84A1", Date: "2024-01-15"}, false},
		{"long_hsn", partyInput{HSN: "123456789", Date: "2024-01-15"}, false},
		{"bad_date", partyInput{Date: "15/01/2024"}, false},
		{"missing_date", partyInput{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	v := validator.New()
	err := validator.Describe(v.Struct(partyInput{HSN: "x", Date: "2024-01-15"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "partyInput.HSN failed hsn")

	assert.NoError(t, validator.Describe(nil))
	assert.Equal(t, domain.ErrNotFound, validator.Describe(domain.ErrNotFound))
}
