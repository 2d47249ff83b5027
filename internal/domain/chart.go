package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ChartPartKind вид части карты, запрашиваемой у внешнего API
type ChartPartKind string

const (
	ChartPartRasi     ChartPartKind = "rasi"
	ChartPartNavamsa  ChartPartKind = "navamsa"
	ChartPartD10      ChartPartKind = "d10"
	ChartPartChandra  ChartPartKind = "chandra"
	ChartPartShadbala ChartPartKind = "shadbala"

	// Части для дашборда, хранятся отдельно от карты
	ChartPartPlanetsExtended ChartPartKind = "planets_extended"
	ChartPartVimsottari      ChartPartKind = "vimsottari"
)

// ChartPartKinds пять частей, из которых собирается карта, в порядке запроса
var ChartPartKinds = []ChartPartKind{
	ChartPartRasi,
	ChartPartNavamsa,
	ChartPartD10,
	ChartPartChandra,
	ChartPartShadbala,
}

// DashboardExtraKinds части, которые сохраняются в astrology_dashboard_extras
var DashboardExtraKinds = []ChartPartKind{
	ChartPartPlanetsExtended,
	ChartPartVimsottari,
}

// IsValid проверяет, что вид входит в пять частей карты
func (k ChartPartKind) IsValid() bool {
	for _, kind := range ChartPartKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (k ChartPartKind) IsDashboardExtra() bool {
	return k == ChartPartPlanetsExtended || k == ChartPartVimsottari
}

// Payload сырой JSON-ответ внешнего API
type Payload map[string]any

// ChartKey ключ документа {user}_{profile}
type ChartKey struct {
	UserID    string
	ProfileID string
}

func (k ChartKey) String() string {
	return k.UserID + "_" + k.ProfileID
}

// PlanetPlacement положение планеты в доме.
// Знак приходит от API то номером, то названием, поэтому хранится как есть.
type PlanetPlacement struct {
	Name        string   `json:"name"`
	Sign        any      `json:"sign"`
	Degree      *float64 `json:"degree"`
	Strength    *float64 `json:"strength"`
	HouseNumber int      `json:"house_number"`
	CurrentSign any      `json:"current_sign"`
	FullDegree  *float64 `json:"fullDegree"`
}

type House struct {
	Planets []PlanetPlacement `json:"planets"`
}

// Houses ровно 12 домов, индекс 0 соответствует первому дому.
// В JSON сериализуется как {"house_1": {...}, ..., "house_12": {...}}.
type Houses [12]House

// House возвращает дом по номеру 1..12
func (h *Houses) House(n int) *House {
	if n < 1 || n > 12 {
		return nil
	}
	return &h[n-1]
}

func HouseField(n int) string {
	return "house_" + strconv.Itoa(n)
}

func (h Houses) MarshalJSON() ([]byte, error) {
	out := make(map[string]House, len(h))
	for i, house := range h {
		if house.Planets == nil {
			house.Planets = []PlanetPlacement{}
		}
		out[HouseField(i+1)] = house
	}
	return json.Marshal(out)
}

func (h *Houses) UnmarshalJSON(data []byte) error {
	var in map[string]House
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*h = Houses{}
	for key, house := range in {
		n, err := strconv.Atoi(strings.TrimPrefix(key, "house_"))
		if err != nil || n < 1 || n > 12 {
			return fmt.Errorf("unexpected house key %q", key)
		}
		h[n-1] = house
	}
	return nil
}

// LifeArea производное представление (карьера, финансы, здоровье, путешествия)
type LifeArea map[string]any

// DashaPeriod период Вимшоттари-даши
type DashaPeriod struct {
	Planet    string  `json:"planet"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StartAge  float64 `json:"start_age"`
	EndAge    float64 `json:"end_age"`
}

// StructuredChart карта, сохраняемая в astrology_charts
type StructuredChart struct {
	UserID           string        `json:"user_id"`
	ProfileID        string        `json:"profile_id"`
	Houses           Houses        `json:"houses"`
	Career           LifeArea      `json:"career"`
	Finance          LifeArea      `json:"finance"`
	Health           LifeArea      `json:"health"`
	Travel           LifeArea      `json:"travel"`
	VimshottariDasha []DashaPeriod `json:"vimshottari_dasha"`
	BirthDetails     BirthDetails  `json:"birth_details"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	IsActive         bool          `json:"is_active"`
}

func (c *StructuredChart) Key() ChartKey {
	return ChartKey{UserID: c.UserID, ProfileID: c.ProfileID}
}

// RawChartParts сырые части карты из astrology_chart_parts
type RawChartParts struct {
	UserID    string                    `json:"user_id"`
	ProfileID string                    `json:"profile_id"`
	Parts     map[ChartPartKind]Payload `json:"-"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Part возвращает часть карты или пустой payload
func (p *RawChartParts) Part(kind ChartPartKind) Payload {
	if p == nil || p.Parts[kind] == nil {
		return Payload{}
	}
	return p.Parts[kind]
}

// DashboardExtras данные для дашборда из astrology_dashboard_extras
type DashboardExtras struct {
	UserID          string    `json:"user_id"`
	ProfileID       string    `json:"profile_id"`
	PlanetsExtended Payload   `json:"planets_extended,omitempty"`
	Vimsottari      Payload   `json:"vimsottari,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VimshottariEntry планета и длительность её махадаши в годах
type VimshottariEntry struct {
	Planet string `json:"planet"`
	Years  int    `json:"years"`
}

// DefaultVimshottariOrder канонический порядок: первая накшатра (Ашвини) управляется Кету
func DefaultVimshottariOrder() []VimshottariEntry {
	return []VimshottariEntry{
		{Planet: "Ketu", Years: 7},
		{Planet: "Venus", Years: 20},
		{Planet: "Sun", Years: 6},
		{Planet: "Moon", Years: 10},
		{Planet: "Mars", Years: 7},
		{Planet: "Rahu", Years: 18},
		{Planet: "Jupiter", Years: 16},
		{Planet: "Saturn", Years: 19},
		{Planet: "Mercury", Years: 17},
	}
}
