package api

import (
	"embed"
	"html/template"

	"github.com/lox/pogoda/internal/theme"
)

//go:embed templates/*
var templateFS embed.FS

// icons maps icon names used by the weather data to display glyphs.
var icons = map[string]string{
	"Sun":          "☀",
	"Moon":         "☾",
	"Cloud":        "☁",
	"CloudSun":     "⛅",
	"CloudRain":    "🌧",
	"CloudDrizzle": "🌦",
	"MapPin":       "📍",
	"Map":          "🗺",
	"Settings":     "⚙",
	"Droplets":     "💧",
	"Wind":         "💨",
	"Thermometer":  "🌡",
	"Eye":          "👁",
	"Gauge":        "⏲",
}

func iconGlyph(name string) string {
	if g, ok := icons[name]; ok {
		return g
	}
	return "•"
}

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"icon": iconGlyph,
		// html/template rejects parentheses in CSS values, so gradients are
		// passed through as trusted CSS.
		"gradient": func(g theme.Gradient) template.CSS {
			return template.CSS(g.CSS())
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
