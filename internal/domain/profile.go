package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultProfileTimezone = "Asia/Kolkata"

// Profile профиль человека, для которого строится карта
type Profile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	BirthDate    time.Time `json:"birth_date" db:"birth_date"`
	BirthTime    string    `json:"birth_time" db:"birth_time"` // HH:MM или HH:MM:SS
	BirthPlace   string    `json:"birth_place" db:"birth_place"`
	Latitude     *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64  `json:"longitude,omitempty" db:"longitude"`
	Timezone     string    `json:"timezone" db:"timezone"`
	Gender       *string   `json:"gender,omitempty" db:"gender"`
	Relationship string    `json:"relationship" db:"relationship"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
}

// RawBirthDetails данные рождения профиля в виде, который принимает нормализатор
func (p *Profile) RawBirthDetails() map[string]any {
	raw := map[string]any{
		"year":     p.BirthDate.Year(),
		"month":    int(p.BirthDate.Month()),
		"date":     p.BirthDate.Day(),
		"timezone": p.Timezone,
	}

	parts := strings.Split(p.BirthTime, ":")
	names := []string{"hours", "minutes", "seconds"}
	for i, part := range parts {
		if i >= len(names) {
			break
		}
		raw[names[i]] = part
	}

	if p.Latitude != nil && p.Longitude != nil {
		raw["latitude"] = *p.Latitude
		raw["longitude"] = *p.Longitude
	}

	return raw
}
