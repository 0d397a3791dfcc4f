package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange_Empty(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/forms/f1/analytics", nil)

	dateRange, err := parseDateRange(r)
	require.NoError(t, err)
	assert.Nil(t, dateRange.From)
	assert.Nil(t, dateRange.To)
}

func TestParseDateRange_PlainDates(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/forms/f1/analytics?from=2026-08-01&to=2026-08-15", nil)

	dateRange, err := parseDateRange(r)
	require.NoError(t, err)

	require.NotNil(t, dateRange.From)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *dateRange.From)

	// A bare "to" date covers the whole day.
	require.NotNil(t, dateRange.To)
	assert.Equal(t, time.Date(2026, 8, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *dateRange.To)
}

func TestParseDateRange_RFC3339(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/forms/f1/analytics?to=2026-08-15T12:30:00Z", nil)

	dateRange, err := parseDateRange(r)
	require.NoError(t, err)
	require.NotNil(t, dateRange.To)
	assert.Equal(t, time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC), *dateRange.To)
}

func TestParseDateRange_Garbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/forms/f1/analytics?from=yesterday", nil)

	_, err := parseDateRange(r)
	assert.Error(t, err)
}
