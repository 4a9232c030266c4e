package imagegen

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/lox/pogoda/internal/theme"
)

func TestGenerateOGImage(t *testing.T) {
	data := OGImageData{Location: "Казань", Temperature: 24, Condition: "Солнечно", Theme: theme.Dusk}

	b, err := GenerateOGImage(data)
	if err != nil {
		t.Fatalf("GenerateOGImage: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != OGWidth || img.Bounds().Dy() != OGHeight {
		t.Errorf("size = %v, want %dx%d", img.Bounds(), OGWidth, OGHeight)
	}

	// Top-left corner carries the first gradient stop.
	want, _ := parseHex(theme.Dusk.Gradient().From)
	got := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	if got != want {
		t.Errorf("corner = %v, want %v", got, want)
	}
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#fb923c")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{0xfb, 0x92, 0x3c, 255}) {
		t.Errorf("parseHex = %v", c)
	}
	for _, bad := range []string{"", "fb923c", "#zzzzzz", "#fff"} {
		if _, err := parseHex(bad); err == nil {
			t.Errorf("parseHex(%q) should fail", bad)
		}
	}
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", []byte("png"))
	if got, ok := c.Get("a"); !ok || string(got) != "png" {
		t.Fatalf("Get(a) = %q, %v", got, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("expired entry returned")
	}

	c.Set("b", []byte("png"))
	if c.Len() != 1 {
		t.Errorf("Len() = %d after eviction, want 1", c.Len())
	}
}
