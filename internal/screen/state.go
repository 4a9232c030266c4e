package screen

import "fmt"

// ForecastTab is one of the sub-views of the weather screen.
type ForecastTab string

const (
	TabCurrent ForecastTab = "current"
	TabHourly  ForecastTab = "hourly"
	TabWeekly  ForecastTab = "weekly"
)

// ForecastTabs lists the tabs in display order.
func ForecastTabs() []ForecastTab {
	return []ForecastTab{TabCurrent, TabHourly, TabWeekly}
}

func (t ForecastTab) Valid() bool {
	switch t {
	case TabCurrent, TabHourly, TabWeekly:
		return true
	}
	return false
}

// ParseForecastTab converts user input into a ForecastTab.
func ParseForecastTab(s string) (ForecastTab, error) {
	t := ForecastTab(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
	}
	return t, nil
}

// ScreenID is one of the top-level navigation destinations.
type ScreenID string

const (
	ScreenWeather  ScreenID = "weather"
	ScreenMap      ScreenID = "map"
	ScreenCities   ScreenID = "cities"
	ScreenSettings ScreenID = "settings"
)

// ScreenIDs lists the screens in navigation bar order.
func ScreenIDs() []ScreenID {
	return []ScreenID{ScreenWeather, ScreenMap, ScreenCities, ScreenSettings}
}

func (s ScreenID) Valid() bool {
	switch s {
	case ScreenWeather, ScreenMap, ScreenCities, ScreenSettings:
		return true
	}
	return false
}

// ParseScreenID converts user input into a ScreenID.
func ParseScreenID(s string) (ScreenID, error) {
	id := ScreenID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidScreen, s)
	}
	return id, nil
}

// AppState is the presentation state of one mounted screen.
type AppState struct {
	ActiveForecastTab ForecastTab `json:"active_forecast_tab"`
	ActiveScreen      ScreenID    `json:"active_screen"`
	SelectedLocation  string      `json:"selected_location"`
	IsLoading         bool        `json:"is_loading"`
}
