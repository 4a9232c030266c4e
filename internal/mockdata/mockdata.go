// Package mockdata is the static weather catalogue the screen is rendered
// from. Nothing here is fetched; every value is fixed at build time except
// the hourly strip, which is generated from a per-location seed.
package mockdata

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"slices"

	"github.com/lox/pogoda/internal/models"
)

var locations = []string{"Москва", "Санкт-Петербург", "Казань"}

var current = models.CurrentConditions{
	Temp:         24,
	Condition:    "Солнечно",
	Icon:         "Sun",
	FeelsLike:    22,
	Humidity:     65,
	WindSpeed:    12,
	UVIndex:      6,
	VisibilityKM: 10,
	PressureMB:   1013,
}

var daily = []models.DailySample{
	{Day: "Пн", Icon: "Sun", TempMax: 26, TempMin: 18},
	{Day: "Вт", Icon: "CloudRain", TempMax: 22, TempMin: 16},
	{Day: "Ср", Icon: "Cloud", TempMax: 20, TempMin: 14},
	{Day: "Чт", Icon: "Sun", TempMax: 25, TempMin: 17},
	{Day: "Пт", Icon: "CloudDrizzle", TempMax: 21, TempMin: 15},
	{Day: "Сб", Icon: "Sun", TempMax: 27, TempMin: 19},
	{Day: "Вс", Icon: "CloudSun", TempMax: 24, TempMin: 18},
}

const (
	HoursPerDay = 24
	DaysPerWeek = 7
)

// Locations returns the fixed location list. The first entry is the default
// selection.
func Locations() []string {
	return slices.Clone(locations)
}

// Snapshot returns the weather shown for a location.
func Snapshot(location string) models.WeatherSnapshot {
	return models.WeatherSnapshot{
		Location: location,
		Current:  current,
		Hourly:   Hourly(location),
		Daily:    slices.Clone(daily),
	}
}

// Hourly generates the 24-hour strip. Temperatures fall in 20..29 and
// precipitation in 0..29 percent; the sun icon covers 07:00 to 19:00.
func Hourly(location string) []models.HourlySample {
	rng := rand.New(rand.NewPCG(seed(location), 0))
	hours := make([]models.HourlySample, HoursPerDay)
	for i := range hours {
		icon := "Moon"
		if i > 6 && i < 20 {
			icon = "Sun"
		}
		hours[i] = models.HourlySample{
			Hour:          i,
			Time:          fmt.Sprintf("%d:00", i),
			Temp:          20 + rng.IntN(10),
			Icon:          icon,
			Precipitation: rng.IntN(30),
		}
	}
	return hours
}

func seed(location string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(location))
	return h.Sum64()
}

// Cities returns the summary rows of the cities screen.
func Cities() []models.CitySummary {
	cities := make([]models.CitySummary, len(locations))
	for i, name := range locations {
		cities[i] = models.CitySummary{
			Position:  i,
			Name:      name,
			Condition: "Солнечно",
			Temp:      20 + i,
			Icon:      "Sun",
		}
	}
	return cities
}
