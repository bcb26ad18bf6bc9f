package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Budget    string   `json:"budget" validate:"required,budget"`
	Interests []string `json:"interests" validate:"required,min=1,dive,required"`
	Kind      string   `json:"kind" validate:"required,oneof=physical experience"`
}

func TestIsBudget(t *testing.T) {
	for in, want := range map[string]bool{
		"50":       true,
		"0":        true,
		" 12.5":    true,
		"-1":       false,
		"abc":      false,
		"":         false,
		"Inf":      false,
		"+Inf":     false,
		"infinity": false,
		"NaN":      false,
		"0x1p4":    false,
		"1_000":    false,
		"-0":       false,
		"1000.50":  true,
	} {
		assert.Equal(t, want, IsBudget(in), in)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Budget: "-3", Kind: "gadget"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must be a non-negative number", verr.Fields["budget"])
	assert.Equal(t, "is required", verr.Fields["interests"])
	assert.Equal(t, "must be one of physical, experience", verr.Fields["kind"])
}

func TestStructDiveUsesParentName(t *testing.T) {
	err := Struct(sample{Budget: "5", Interests: []string{"Art", ""}, Kind: "physical"})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "interests")
}

func TestStructValid(t *testing.T) {
	assert.NoError(t, Struct(sample{Budget: "5", Interests: []string{"Art"}, Kind: "experience"}))
}
