package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Region
		wantErr bool
	}{
		{in: "IN", want: IN},
		{in: " us ", want: US},
		{in: "uk", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownRegion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForFallsBackToDefault(t *testing.T) {
	assert.Equal(t, For(Default), For(Region("FR")))
	assert.Equal(t, "₹", For(IN).CurrencySymbol)
	assert.Equal(t, "amazon.com", For(US).Marketplace)
}

func TestFormatBudget(t *testing.T) {
	assert.Equal(t, "$50", For(US).FormatBudget("50"))
	assert.Equal(t, "₹2500", For(IN).FormatBudget(" 2500 "))
}
