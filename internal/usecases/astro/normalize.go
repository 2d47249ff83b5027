package astro

import (
	"math"
	"strconv"
	"strings"

	"github.com/admin/zodira/astro-api/internal/domain"
)

// Fallback поле, для которого нормализатор подставил значение по умолчанию
// или оставил исходное значение как есть
type Fallback struct {
	Field string
	Value any
}

// NormalizeBirthDetails приводит данные рождения в произвольном виде к BirthDetails.
// Никогда не возвращает ошибку: непарсящиеся поля заменяются значениями по умолчанию
// (время, координаты, часовой пояс) или передаются дальше как есть (год, месяц, день).
func NormalizeBirthDetails(raw map[string]any) (domain.BirthDetails, []Fallback) {
	var (
		details   domain.BirthDetails
		fallbacks []Fallback
	)

	dateFields := []struct {
		field string
		value any
		dst   *int
	}{
		{"year", raw["year"], &details.Year},
		{"month", raw["month"], &details.Month},
		{"date", firstPresent(raw, "date", "day"), &details.Day},
	}
	for _, f := range dateFields {
		n, ok := domain.AsInt(f.value)
		if !ok {
			details.SetRaw(f.field, f.value)
			fallbacks = append(fallbacks, Fallback{Field: f.field, Value: f.value})
			continue
		}
		*f.dst = n
	}

	timeFields := []struct {
		field string
		keys  []string
		dst   *int
	}{
		{"hours", []string{"hour", "hours"}, &details.Hour},
		{"minutes", []string{"minute", "minutes"}, &details.Minute},
		{"seconds", []string{"second", "seconds"}, &details.Second},
	}
	for _, f := range timeFields {
		value := firstPresent(raw, f.keys...)
		if value == nil {
			continue
		}
		n, ok := domain.AsInt(value)
		if !ok {
			fallbacks = append(fallbacks, Fallback{Field: f.field, Value: value})
			continue
		}
		*f.dst = n
	}

	lat, latOK := domain.AsFloat(raw["latitude"])
	lon, lonOK := domain.AsFloat(raw["longitude"])
	if latOK && lonOK {
		details.Latitude, details.Longitude = lat, lon
	} else {
		details.Latitude, details.Longitude = domain.DefaultLatitude, domain.DefaultLongitude
		fallbacks = append(fallbacks, Fallback{Field: "coordinates", Value: []any{raw["latitude"], raw["longitude"]}})
	}

	tz, ok := ResolveTimezoneOffset(raw["timezone"])
	if !ok {
		fallbacks = append(fallbacks, Fallback{Field: "timezone", Value: raw["timezone"]})
	}
	details.Timezone = tz

	return details, fallbacks
}

// ResolveTimezoneOffset переводит часовой пояс в смещение от UTC в часах.
// Поддерживаются число, Asia/Kolkata и Asia/Calcutta, "[UTC|GMT][+|-]HH:MM" и "[+|-]H(.H)".
// Всё остальное даёт 5.5 и false.
func ResolveTimezoneOffset(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return domain.DefaultTimezoneOffset, false
	case string:
		return parseTimezoneString(t)
	default:
		if f, ok := domain.AsFloat(t); ok {
			return f, true
		}
	}
	return domain.DefaultTimezoneOffset, false
}

func parseTimezoneString(s string) (float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "asia/kolkata" || lower == "asia/calcutta" {
		return 5.5, true
	}

	if strings.HasPrefix(lower, "utc") || strings.HasPrefix(lower, "gmt") {
		lower = lower[3:]
	}

	sign := 1.0
	switch {
	case strings.HasPrefix(lower, "+"):
		lower = lower[1:]
	case strings.HasPrefix(lower, "-"):
		sign = -1.0
		lower = lower[1:]
	}

	if h, m, found := strings.Cut(lower, ":"); found {
		hours, err := strconv.Atoi(h)
		if err != nil {
			return domain.DefaultTimezoneOffset, false
		}
		minutes, err := strconv.Atoi(m)
		if err != nil {
			return domain.DefaultTimezoneOffset, false
		}
		return sign * (float64(hours) + float64(minutes)/60.0), true
	}

	f, err := strconv.ParseFloat(lower, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.DefaultTimezoneOffset, false
	}
	return sign * f, true
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
