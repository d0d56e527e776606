package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rbsiding/estimator/internal/config"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/postal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWizard(t *testing.T) *estimator.Wizard {
	t.Helper()
	places, err := postal.Embedded()
	require.NoError(t, err)
	return estimator.New(optionsFor(config.Default(), places))
}

var defaultLimits = footageLimits{max: 10000, step: 100}

func TestHeadlessQuote(t *testing.T) {
	q, err := headlessQuote(newTestWizard(t), defaultLimits, "98101", 2000, "a@b.co")
	require.NoError(t, err)

	assert.Equal(t, "98101", q.ZipCode)
	assert.Equal(t, "WA", q.Region)
	assert.Equal(t, 2000, q.SquareFootage)
	assert.InDelta(t, 9000.0, q.Estimate, 1e-9)
	assert.Equal(t, "a@b.co", q.Email)
}

func TestHeadlessQuote_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		zip   string
		sqft  int
		email string
		want  error
	}{
		{name: "outside service area", zip: "10001", sqft: 2000, want: estimator.ErrInvalidZip},
		{name: "empty zip", zip: "", sqft: 2000, want: estimator.ErrInvalidZip},
		{name: "zero footage", zip: "98101", sqft: 0, want: estimator.ErrZeroFootage},
		{name: "bad email", zip: "98101", sqft: 2000, email: "a@b", want: estimator.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := headlessQuote(newTestWizard(t), defaultLimits, tt.zip, tt.sqft, tt.email)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestHeadlessQuote_ClampsFootage(t *testing.T) {
	tests := []struct {
		sqft int
		want int
	}{
		{-1000, 0},
		{123456, 10000},
		{55555, 10000},
		{250, 300},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.sqft), func(t *testing.T) {
			q, err := headlessQuote(newTestWizard(t), defaultLimits, "98101", tt.sqft, "")
			if tt.want == 0 {
				assert.ErrorIs(t, err, estimator.ErrZeroFootage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.SquareFootage)
			assert.InDelta(t, float64(tt.want)*4.5, q.Estimate, 1e-9)
			assert.GreaterOrEqual(t, q.Estimate, 0.0)
		})
	}
}

func TestHeadlessQuote_LongZip(t *testing.T) {
	_, err := headlessQuote(newTestWizard(t), defaultLimits, "981011", 2000, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 5 digits")
}

func TestWriteQuote(t *testing.T) {
	q, err := headlessQuote(newTestWizard(t), defaultLimits, "98101", 2000, "")
	require.NoError(t, err)

	var md bytes.Buffer
	require.NoError(t, writeQuote(&md, q, "R&B Siding", false))
	assert.Contains(t, md.String(), "# R&B Siding estimate")
	assert.Contains(t, md.String(), "**Estimated total: $9,000.00**")

	var js bytes.Buffer
	require.NoError(t, writeQuote(&js, q, "R&B Siding", true))
	var decoded estimator.Quote
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, q, decoded)
}
