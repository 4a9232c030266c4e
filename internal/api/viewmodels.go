package api

import (
	"github.com/lox/pogoda/internal/models"
	"github.com/lox/pogoda/internal/screen"
	"github.com/lox/pogoda/internal/theme"
)

// PageData is what index.html renders.
type PageData struct {
	State     screen.AppState
	Theme     theme.Token
	Card      theme.Gradient
	Page      theme.Gradient
	Locations []string
	Weather   *models.WeatherSnapshot
	Cities    []models.CitySummary
	Tabs      []TabItem
	Nav       []NavItem
	Settings  []SettingRow
	// ThemeOverride carries ?theme= through to links and the OG image.
	ThemeOverride string
}

// LoadingData is what loading.html renders.
type LoadingData struct {
	Background theme.Gradient
}

type TabItem struct {
	ID     screen.ForecastTab
	Label  string
	Active bool
}

type NavItem struct {
	ID     screen.ScreenID
	Label  string
	Icon   string
	Active bool
}

type SettingRow struct {
	Label string
	Value string
}

var tabLabels = map[screen.ForecastTab]string{
	screen.TabCurrent: "Сейчас",
	screen.TabHourly:  "24 часа",
	screen.TabWeekly:  "Неделя",
}

var navItems = map[screen.ScreenID]NavItem{
	screen.ScreenWeather:  {Label: "Погода", Icon: "Cloud"},
	screen.ScreenMap:      {Label: "Карта", Icon: "Map"},
	screen.ScreenCities:   {Label: "Города", Icon: "MapPin"},
	screen.ScreenSettings: {Label: "Настройки", Icon: "Settings"},
}

// settingsRows are display-only; nothing on the settings screen is stored.
var settingsRows = []SettingRow{
	{Label: "Единицы температуры", Value: "°C"},
	{Label: "Уведомления", Value: "Вкл"},
	{Label: "Автоопределение местоположения", Value: "Вкл"},
}

func buildTabs(active screen.ForecastTab) []TabItem {
	tabs := make([]TabItem, 0, 3)
	for _, id := range screen.ForecastTabs() {
		tabs = append(tabs, TabItem{ID: id, Label: tabLabels[id], Active: id == active})
	}
	return tabs
}

func buildNav(active screen.ScreenID) []NavItem {
	items := make([]NavItem, 0, 4)
	for _, id := range screen.ScreenIDs() {
		item := navItems[id]
		item.ID = id
		item.Active = id == active
		items = append(items, item)
	}
	return items
}
