package astro

import (
	"encoding/json"
	"testing"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBirthDetails_Empty(t *testing.T) {
	details, fallbacks := NormalizeBirthDetails(map[string]any{})

	assert.Equal(t, domain.DefaultLatitude, details.Latitude)
	assert.Equal(t, domain.DefaultLongitude, details.Longitude)
	assert.Equal(t, 5.5, details.Timezone)
	assert.Zero(t, details.Hour)
	assert.Zero(t, details.Minute)
	assert.Zero(t, details.Second)
	assert.NotEmpty(t, fallbacks)
}

func TestNormalizeBirthDetails_MixedInput(t *testing.T) {
	raw := map[string]any{
		"year":      "1990",
		"month":     6.0,
		"day":       json.Number("15"),
		"hours":     "10",
		"minute":    30,
		"seconds":   "abc",
		"latitude":  "28.6139",
		"longitude": 77.209,
		"timezone":  "UTC+05:30",
	}

	details, fallbacks := NormalizeBirthDetails(raw)

	assert.Equal(t, 1990, details.Year)
	assert.Equal(t, 6, details.Month)
	assert.Equal(t, 15, details.Day)
	assert.Equal(t, 10, details.Hour)
	assert.Equal(t, 30, details.Minute)
	assert.Zero(t, details.Second)
	assert.InDelta(t, 28.6139, details.Latitude, 1e-9)
	assert.InDelta(t, 77.209, details.Longitude, 1e-9)
	assert.Equal(t, 5.5, details.Timezone)

	require.Len(t, fallbacks, 1)
	assert.Equal(t, "seconds", fallbacks[0].Field)
}

func TestNormalizeBirthDetails_CoordinatesFallBackTogether(t *testing.T) {
	details, fallbacks := NormalizeBirthDetails(map[string]any{
		"year": 1990, "month": 1, "date": 1,
		"latitude":  12.97,
		"longitude": "east",
	})

	assert.Equal(t, domain.DefaultLatitude, details.Latitude)
	assert.Equal(t, domain.DefaultLongitude, details.Longitude)

	fields := make([]string, 0, len(fallbacks))
	for _, fb := range fallbacks {
		fields = append(fields, fb.Field)
	}
	assert.Contains(t, fields, "coordinates")
}

func TestNormalizeBirthDetails_UnparsableDatePassesThrough(t *testing.T) {
	details, _ := NormalizeBirthDetails(map[string]any{
		"year": "nineteen ninety", "month": 6, "date": 15,
	})

	assert.False(t, details.HasValidDate())

	data, err := json.Marshal(details)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "nineteen ninety", out["year"])
	assert.Equal(t, 6.0, out["month"])
	assert.Equal(t, 15.0, out["date"])
}

func TestResolveTimezoneOffset(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"kolkata", "Asia/Kolkata", 5.5, true},
		{"calcutta", "Asia/Calcutta", 5.5, true},
		{"utc with minutes", "UTC+05:30", 5.5, true},
		{"gmt negative", "GMT-03:30", -3.5, true},
		{"bare offset", "-4", -4, true},
		{"fractional", "+5.75", 5.75, true},
		{"numeric", 3.0, 3, true},
		{"integer", 9, 9, true},
		{"nonsense", "nonsense", 5.5, false},
		{"bare utc", "UTC", 5.5, false},
		{"missing", nil, 5.5, false},
		{"bad minutes", "+05:xx", 5.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveTimezoneOffset(tt.in)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalizeBirthDetails_TimezoneScenarios(t *testing.T) {
	for _, tz := range []string{"Asia/Kolkata", "UTC+05:30", "nonsense"} {
		details, _ := NormalizeBirthDetails(map[string]any{"timezone": tz})
		assert.Equal(t, 5.5, details.Timezone, tz)
	}
}

func TestBirthDetails_DateKey(t *testing.T) {
	details, _ := NormalizeBirthDetails(map[string]any{"year": 1990, "month": "6", "date": 15})
	assert.Equal(t, "1990_6_15", details.DateKey())

	missing, _ := NormalizeBirthDetails(map[string]any{"month": 6})
	assert.Equal(t, "None_6_None", missing.DateKey())
	assert.NotContains(t, missing.DateKey(), "<")
}
