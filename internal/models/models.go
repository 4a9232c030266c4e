package models

// WeatherSnapshot is everything one location's weather screen displays.
type WeatherSnapshot struct {
	Location string            `json:"location"`
	Current  CurrentConditions `json:"current"`
	Hourly   []HourlySample    `json:"hourly"`
	Daily    []DailySample     `json:"daily"`
}

// CurrentConditions holds the headline reading. Humidity is a percentage and
// wind speed is in km/h.
type CurrentConditions struct {
	Temp         int    `json:"temp"`
	Condition    string `json:"condition"`
	Icon         string `json:"icon"`
	FeelsLike    int    `json:"feels_like"`
	Humidity     int    `json:"humidity"`
	WindSpeed    int    `json:"wind_speed"`
	UVIndex      int    `json:"uv_index"`
	VisibilityKM int    `json:"visibility_km"`
	PressureMB   int    `json:"pressure_mb"`
}

type HourlySample struct {
	Hour          int    `json:"hour"`
	Time          string `json:"time"`
	Temp          int    `json:"temp"`
	Icon          string `json:"icon"`
	Precipitation int    `json:"precipitation"`
}

type DailySample struct {
	Day     string `json:"day"`
	Icon    string `json:"icon"`
	TempMax int    `json:"temp_max"`
	TempMin int    `json:"temp_min"`
}

// RangePercent is the width of the min/max bar in the weekly list, where a
// 20 degree spread fills the bar.
func (d DailySample) RangePercent() int {
	pct := (d.TempMax - d.TempMin) * 100 / 20
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// CitySummary is one row of the cities screen.
type CitySummary struct {
	Position  int    `json:"position"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Temp      int    `json:"temp"`
	Icon      string `json:"icon"`
}
