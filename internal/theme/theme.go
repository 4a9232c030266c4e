package theme

import (
	"fmt"
	"time"
)

// Token identifies the gradient used behind the current-conditions card.
type Token string

const (
	Dawn   Token = "dawn"
	Midday Token = "midday"
	Dusk   Token = "dusk"
	Night  Token = "night"
)

// Gradient is a three-stop diagonal gradient.
type Gradient struct {
	From string
	Via  string
	To   string
}

// CSS renders the gradient as a CSS background value.
func (g Gradient) CSS() string {
	return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 50%%, %s 100%%)", g.From, g.Via, g.To)
}

var gradients = map[Token]Gradient{
	Dawn:   {From: "#fb923c", Via: "#f472b6", To: "#a855f7"}, // orange, pink, purple
	Midday: {From: "#60a5fa", Via: "#22d3ee", To: "#2dd4bf"}, // blue, cyan, teal
	Dusk:   {From: "#f97316", Via: "#f87171", To: "#9333ea"},
	Night:  {From: "#312e81", Via: "#581c87", To: "#831843"},
}

// LoadingGradient is the background of the loading screen.
var LoadingGradient = Gradient{From: "#3b82f6", Via: "#6366f1", To: "#9333ea"}

// PageGradient is the page background behind every screen.
var PageGradient = Gradient{From: "#667eea", Via: "#6f63c6", To: "#764ba2"}

// ForHour maps an hour of the day to its theme token.
func ForHour(hour int) Token {
	switch {
	case hour >= 5 && hour < 12:
		return Dawn
	case hour >= 12 && hour < 17:
		return Midday
	case hour >= 17 && hour < 21:
		return Dusk
	default:
		return Night
	}
}

// ForTime returns the token for the wall-clock hour of t. Call it on every
// render; the result changes as the day goes on.
func ForTime(t time.Time) Token {
	return ForHour(t.Hour())
}

// Gradient returns the colours for the token. Unknown tokens get the night
// gradient.
func (t Token) Gradient() Gradient {
	if g, ok := gradients[t]; ok {
		return g
	}
	return gradients[Night]
}

func (t Token) Valid() bool {
	_, ok := gradients[t]
	return ok
}

// Tokens lists every token in the order they occur through the day.
func Tokens() []Token {
	return []Token{Dawn, Midday, Dusk, Night}
}

// ParseToken parses a token name such as "dusk".
func ParseToken(s string) (Token, bool) {
	t := Token(s)
	return t, t.Valid()
}
