package transfer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize(encode(t, scenarioJSON(t)))

	require.NoError(t, err)
	assert.Equal(t, Summary{
		StoreName:    "Main Street",
		ExportDate:   "2025-06-01T12:00:00.000Z",
		Version:      "1.0.0",
		Drugs:        1,
		Sales:        1,
		TotalRecords: 2,
	}, s)
}

func TestSummarizeToleratesMissingAndMistypedSections(t *testing.T) {
	s, err := Summarize([]byte(`{"drugs": [{}, {}, {}], "sales": "oops", "history": null}`))

	require.NoError(t, err)
	assert.Equal(t, FallbackStoreName, s.StoreName)
	assert.Equal(t, 3, s.Drugs)
	assert.Zero(t, s.Sales)
	assert.Zero(t, s.History)
	assert.Equal(t, 3, s.TotalRecords)

	s, err = Summarize([]byte(`{"store": {"name": 12}, "suppliers": [{}]}`))
	require.NoError(t, err)
	assert.Equal(t, FallbackStoreName, s.StoreName)
	assert.Equal(t, 1, s.Suppliers)
}

func TestSummarizeRejectsNonJSON(t *testing.T) {
	_, err := Summarize([]byte(`{"store": `))

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}
