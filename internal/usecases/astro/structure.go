package astro

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/admin/zodira/astro-api/internal/domain"
)

// ChartViews дома и производные представления карты
type ChartViews struct {
	Houses  domain.Houses
	Career  domain.LifeArea
	Finance domain.LifeArea
	Health  domain.LifeArea
	Travel  domain.LifeArea
}

// planetExtractor одна из известных форм ответа API со списком планет
type planetExtractor struct {
	name    string
	extract func(domain.Payload) []map[string]any
}

// порядок важен: первая форма, давшая хотя бы одну планету, побеждает
var planetExtractors = []planetExtractor{
	{name: "output_map", extract: planetsFromOutputMap},
	{name: "planets_list", extract: planetsFromList},
	{name: "planets_map", extract: planetsFromMap},
}

// nestedPayloadKeys ключи, под которыми API иногда заворачивает ответ
var nestedPayloadKeys = []string{"response", "data"}

// ExtractPlanets достаёт записи планет из ответа API.
// Возвращает имя сработавшей формы или false, если ни одна не подошла.
func ExtractPlanets(payload domain.Payload) ([]map[string]any, string, bool) {
	return extractPlanets(payload, 1)
}

func extractPlanets(payload domain.Payload, depth int) ([]map[string]any, string, bool) {
	for _, ex := range planetExtractors {
		if planets := ex.extract(payload); len(planets) > 0 {
			return planets, ex.name, true
		}
	}

	if depth <= 0 {
		return nil, "", false
	}

	for _, key := range nestedPayloadKeys {
		nested, ok := payload[key].(map[string]any)
		if !ok {
			continue
		}
		if planets, shape, found := extractPlanets(nested, depth-1); found {
			return planets, key + "." + shape, true
		}
	}

	return nil, "", false
}

// {"output": [{"0": {...}, "1": {...}}]}
func planetsFromOutputMap(payload domain.Payload) []map[string]any {
	output, ok := payload["output"].([]any)
	if !ok || len(output) == 0 {
		return nil
	}
	first, ok := output[0].(map[string]any)
	if !ok {
		return nil
	}
	return mapValues(first)
}

// {"planets": [{...}, {...}]}
func planetsFromList(payload domain.Payload) []map[string]any {
	list, ok := payload["planets"].([]any)
	if !ok {
		return nil
	}
	planets := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			planets = append(planets, m)
		}
	}
	return planets
}

// {"planets": {"Sun": {...}, "Moon": {...}}}
func planetsFromMap(payload domain.Payload) []map[string]any {
	m, ok := payload["planets"].(map[string]any)
	if !ok {
		return nil
	}
	return mapValues(m)
}

// mapValues значения-объекты в порядке ключей (числовые ключи по числу)
func mapValues(m map[string]any) []map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})

	values := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			values = append(values, v)
		}
	}
	return values
}

func planetName(entry map[string]any) string {
	for _, key := range []string{"name", "planet", "Planet"} {
		if v, ok := entry[key]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func firstFloat(entry map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if f, ok := domain.AsFloat(entry[key]); ok {
			return f, true
		}
	}
	return 0, false
}

// MoonLongitude полная долгота Луны из ответа rasi, nil если её не удалось найти
func MoonLongitude(rasi domain.Payload) *float64 {
	planets, _, ok := ExtractPlanets(rasi)
	if !ok {
		return nil
	}
	for _, entry := range planets {
		if !strings.EqualFold(planetName(entry), "moon") {
			continue
		}
		if lon, ok := firstFloat(entry, "fullDegree", "degree", "full_degree"); ok {
			return &lon
		}
		return nil
	}
	return nil
}

// StructureChart раскладывает планеты rasi по 12 домам и собирает
// карьеру (10 дом), финансы (2, 11), здоровье (6, 8) и путешествия (3, 12).
// navamsa и chandra сейчас в раскладке не участвуют.
func StructureChart(rasi, navamsa, d10, chandra, shadbala domain.Payload) ChartViews {
	var views ChartViews

	strengths := shadbalaOutput(shadbala)

	if planets, _, ok := ExtractPlanets(rasi); ok {
		for _, entry := range planets {
			houseNum, ok := domain.AsInt(firstPresent(entry, "house_number", "house"))
			if !ok || houseNum < 1 || houseNum > 12 {
				continue
			}
			placement := newPlacement(entry, houseNum, strengths)
			house := views.Houses.House(houseNum)
			house.Planets = append(house.Planets, placement)
		}
	}

	for i := range views.Houses {
		if views.Houses[i].Planets == nil {
			views.Houses[i].Planets = []domain.PlanetPlacement{}
		}
	}

	d10Summary, ok := d10["output"]
	if !ok || d10Summary == nil {
		d10Summary = map[string]any{}
	}

	planetsOf := func(n int) []domain.PlanetPlacement {
		return views.Houses.House(n).Planets
	}

	views.Career = domain.LifeArea{
		"10th_house_planets": planetsOf(10),
		"d10_summary":        d10Summary,
		"strengths":          strengths,
	}
	views.Finance = domain.LifeArea{
		"2nd_house_planets":  planetsOf(2),
		"11th_house_planets": planetsOf(11),
		"strengths":          strengths,
	}
	views.Health = domain.LifeArea{
		"6th_house_planets": planetsOf(6),
		"8th_house_planets": planetsOf(8),
		"strengths":         strengths,
	}
	views.Travel = domain.LifeArea{
		"3rd_house_planets":  planetsOf(3),
		"12th_house_planets": planetsOf(12),
		"strengths":          strengths,
	}

	return views
}

func newPlacement(entry map[string]any, houseNum int, strengths map[string]any) domain.PlanetPlacement {
	placement := domain.PlanetPlacement{
		Name:        planetName(entry),
		HouseNumber: houseNum,
		CurrentSign: entry["current_sign"],
		Sign:        entry["current_sign"],
	}
	if placement.Sign == nil {
		placement.Sign = entry["sign"]
	}

	if deg, ok := firstFloat(entry, "fullDegree"); ok {
		placement.FullDegree = &deg
		placement.Degree = &deg
	} else if deg, ok := firstFloat(entry, "degree", "normDegree"); ok {
		placement.Degree = &deg
	}

	placement.Strength = planetStrength(strengths, placement.Name)

	return placement
}

// shadbalaOutput поле output ответа shadbala; API иногда отдаёт его JSON-строкой
func shadbalaOutput(shadbala domain.Payload) map[string]any {
	switch out := shadbala["output"].(type) {
	case map[string]any:
		return out
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(out), &decoded); err == nil && decoded != nil {
			return decoded
		}
	}
	return map[string]any{}
}

func planetStrength(strengths map[string]any, name string) *float64 {
	if name == "" {
		return nil
	}
	switch v := strengths[name].(type) {
	case map[string]any:
		if f, ok := domain.AsFloat(v["Shadbala"]); ok {
			return &f
		}
	default:
		if f, ok := domain.AsFloat(v); ok {
			return &f
		}
	}
	return nil
}
