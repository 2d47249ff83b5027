package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLatitude       = 20.5937
	DefaultLongitude      = 78.9629
	DefaultTimezoneOffset = 5.5
)

// BirthDetails нормализованные данные рождения, в формате внешнего астро-API.
// Year/Month/Day, которые не удалось привести к числу, сохраняются в raw
// и уходят во внешний API как есть.
type BirthDetails struct {
	Year      int
	Month     int
	Day       int
	Hour      int
	Minute    int
	Second    int
	Latitude  float64
	Longitude float64
	Timezone  float64

	raw map[string]any
}

type birthDetailsJSON struct {
	Year      any     `json:"year"`
	Month     any     `json:"month"`
	Date      any     `json:"date"`
	Hours     int     `json:"hours"`
	Minutes   int     `json:"minutes"`
	Seconds   int     `json:"seconds"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  float64 `json:"timezone"`
}

// SetRaw запоминает исходное значение поля даты, которое не удалось распарсить
func (b *BirthDetails) SetRaw(field string, value any) {
	if b.raw == nil {
		b.raw = make(map[string]any)
	}
	b.raw[field] = value
}

func (b BirthDetails) datePart(field string, value int) any {
	if v, ok := b.raw[field]; ok {
		return v
	}
	return value
}

// HasValidDate сообщает, удалось ли распарсить все поля даты
func (b BirthDetails) HasValidDate() bool {
	return len(b.raw) == 0
}

// Moment момент рождения в местном времени (без учёта смещения).
// Возвращает false, если поля даты не образуют корректную дату.
func (b BirthDetails) Moment() (time.Time, bool) {
	if !b.HasValidDate() || b.Month < 1 || b.Month > 12 || b.Day < 1 || b.Day > 31 {
		return time.Time{}, false
	}
	t := time.Date(b.Year, time.Month(b.Month), b.Day, b.Hour, b.Minute, b.Second, 0, time.UTC)
	if t.Day() != b.Day || int(t.Month()) != b.Month {
		return time.Time{}, false
	}
	return t, true
}

// DateKey часть ключа кеша: {year}_{month}_{day}
func (b BirthDetails) DateKey() string {
	return fmt.Sprintf("%v_%v_%v",
		keyPart(b.datePart("year", b.Year)),
		keyPart(b.datePart("month", b.Month)),
		keyPart(b.datePart("date", b.Day)),
	)
}

// keyPart отсутствующее поле даты в ключе кеша пишется как None
func keyPart(v any) any {
	if v == nil {
		return "None"
	}
	return v
}

func (b BirthDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(birthDetailsJSON{
		Year:      b.datePart("year", b.Year),
		Month:     b.datePart("month", b.Month),
		Date:      b.datePart("date", b.Day),
		Hours:     b.Hour,
		Minutes:   b.Minute,
		Seconds:   b.Second,
		Latitude:  b.Latitude,
		Longitude: b.Longitude,
		Timezone:  b.Timezone,
	})
}

func (b *BirthDetails) UnmarshalJSON(data []byte) error {
	var aux birthDetailsJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*b = BirthDetails{
		Hour:      aux.Hours,
		Minute:    aux.Minutes,
		Second:    aux.Seconds,
		Latitude:  aux.Latitude,
		Longitude: aux.Longitude,
		Timezone:  aux.Timezone,
	}

	for field, value := range map[string]any{"year": aux.Year, "month": aux.Month, "date": aux.Date} {
		n, ok := AsInt(value)
		if !ok {
			b.SetRaw(field, value)
			continue
		}
		switch field {
		case "year":
			b.Year = n
		case "month":
			b.Month = n
		case "date":
			b.Day = n
		}
	}

	return nil
}

// AsInt приводит int-подобное значение (число или числовую строку) к int
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case float32:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if f, err := t.Float64(); err == nil {
			return int(f), true
		}
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
	}
	return 0, false
}

// AsFloat приводит числовое значение или числовую строку к float64
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
