package astro

import (
	"testing"

	"github.com/admin/zodira/astro-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rasiOutputMap() domain.Payload {
	return domain.Payload{
		"statusCode": 200.0,
		"output": []any{
			map[string]any{
				"0": map[string]any{"name": "Ascendant", "current_sign": 5.0, "fullDegree": 130.2, "house_number": 1.0},
				"1": map[string]any{"name": "Sun", "current_sign": 2.0, "fullDegree": 60.4, "house_number": 10.0},
				"2": map[string]any{"name": "Moon", "current_sign": 2.0, "fullDegree": 45.0, "house_number": 10.0},
				"3": map[string]any{"name": "Mars", "current_sign": 11.0, "fullDegree": 320.1, "house_number": 7.0},
				"4": map[string]any{"name": "Venus", "current_sign": 1.0, "fullDegree": 10.0, "house": "2"},
				"5": map[string]any{"name": "Rahu", "current_sign": 10.0, "fullDegree": 290.0, "house_number": 13.0},
			},
		},
	}
}

func TestStructureChart_PlacesPlanetsIntoHouses(t *testing.T) {
	shadbala := domain.Payload{
		"output": `{"Sun": {"Shadbala": 412.5}, "Moon": {"Shadbala": 380.0}}`,
	}
	d10 := domain.Payload{"output": map[string]any{"0": "summary"}}

	views := StructureChart(rasiOutputMap(), domain.Payload{}, d10, domain.Payload{}, shadbala)

	tenth := views.Houses.House(10).Planets
	require.Len(t, tenth, 2)
	assert.Equal(t, "Sun", tenth[0].Name)
	assert.Equal(t, "Moon", tenth[1].Name)
	require.NotNil(t, tenth[0].Strength)
	assert.Equal(t, 412.5, *tenth[0].Strength)
	require.NotNil(t, tenth[1].FullDegree)
	assert.Equal(t, 45.0, *tenth[1].FullDegree)
	assert.Equal(t, 2.0, tenth[1].Sign)

	second := views.Houses.House(2).Planets
	require.Len(t, second, 1)
	assert.Equal(t, "Venus", second[0].Name)
	assert.Nil(t, second[0].Strength)

	for n := 1; n <= 12; n++ {
		for _, p := range views.Houses.House(n).Planets {
			assert.NotEqual(t, "Rahu", p.Name, "out-of-range house must be skipped")
		}
	}

	assert.Equal(t, tenth, views.Career["10th_house_planets"])
	assert.Equal(t, map[string]any{"0": "summary"}, views.Career["d10_summary"])
	assert.Equal(t, second, views.Finance["2nd_house_planets"])
	assert.Contains(t, views.Health, "6th_house_planets")
	assert.Contains(t, views.Health, "8th_house_planets")
	assert.Contains(t, views.Travel, "3rd_house_planets")
	assert.Contains(t, views.Travel, "12th_house_planets")
}

func TestStructureChart_AlwaysTwelveHouses(t *testing.T) {
	inputs := []domain.Payload{
		nil,
		{},
		{"output": "garbage"},
		{"output": []any{}},
		{"output": []any{42.0}},
		{"planets": 7.0},
		{"response": map[string]any{"data": map[string]any{}}},
	}

	for _, rasi := range inputs {
		views := StructureChart(rasi, nil, nil, nil, domain.Payload{"output": 1.0})

		assert.Len(t, views.Houses, 12)
		for n := 1; n <= 12; n++ {
			assert.NotNil(t, views.Houses.House(n).Planets)
			assert.Empty(t, views.Houses.House(n).Planets)
		}
		assert.Equal(t, map[string]any{}, views.Career["d10_summary"])
	}
}

func TestExtractPlanets_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		payload   domain.Payload
		wantShape string
		wantFirst string
	}{
		{
			name:      "output map",
			payload:   rasiOutputMap(),
			wantShape: "output_map",
			wantFirst: "Ascendant",
		},
		{
			name: "planets list",
			payload: domain.Payload{"planets": []any{
				map[string]any{"planet": "Moon", "degree": 12.0},
			}},
			wantShape: "planets_list",
			wantFirst: "Moon",
		},
		{
			name: "planets map",
			payload: domain.Payload{"planets": map[string]any{
				"Moon": map[string]any{"Planet": "Moon", "full_degree": 12.0},
			}},
			wantShape: "planets_map",
			wantFirst: "Moon",
		},
		{
			name: "nested under data",
			payload: domain.Payload{"data": map[string]any{"planets": []any{
				map[string]any{"name": "Sun"},
			}}},
			wantShape: "data.planets_list",
			wantFirst: "Sun",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planets, shape, ok := ExtractPlanets(tt.payload)
			require.True(t, ok)
			assert.Equal(t, tt.wantShape, shape)
			assert.Equal(t, tt.wantFirst, planetName(planets[0]))
		})
	}

	_, _, ok := ExtractPlanets(domain.Payload{"response": map[string]any{"response": map[string]any{"planets": []any{map[string]any{"name": "Sun"}}}}})
	assert.False(t, ok, "only one level of nesting is inspected")
}

func TestMoonLongitude(t *testing.T) {
	lon := MoonLongitude(rasiOutputMap())
	require.NotNil(t, lon)
	assert.Equal(t, 45.0, *lon)

	lon = MoonLongitude(domain.Payload{"planets": []any{map[string]any{"planet": "moon", "degree": "101.5"}}})
	require.NotNil(t, lon)
	assert.Equal(t, 101.5, *lon)

	assert.Nil(t, MoonLongitude(domain.Payload{"planets": []any{map[string]any{"name": "Sun", "fullDegree": 1.0}}}))
	assert.Nil(t, MoonLongitude(nil))
}
