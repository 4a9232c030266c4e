package imagegen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/lox/pogoda/internal/theme"
)

var (
	fontLarge   font.Face
	fontRegular font.Face
	fontOnce    sync.Once
	fontErr     error
)

func loadFonts() {
	fontOnce.Do(func() {
		regularFont, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse Go Regular: %w", err)
			return
		}

		fontRegular, err = opentype.NewFace(regularFont, &opentype.FaceOptions{
			Size:    36,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create regular face: %w", err)
			return
		}

		// Medium weight for the large temperature
		mediumFont, err := opentype.Parse(gomedium.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse Go Medium: %w", err)
			return
		}

		fontLarge, err = opentype.NewFace(mediumFont, &opentype.FaceOptions{
			Size:    120,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			fontErr = fmt.Errorf("create large face: %w", err)
			return
		}
	})
}

// OGImageData contains the dynamic data for the OG image.
type OGImageData struct {
	Location    string
	Temperature int    // Celsius
	Condition   string // e.g. "Солнечно"
	Theme       theme.Token
}

// CacheKey identifies the rendered content of d.
func (d OGImageData) CacheKey() string {
	return fmt.Sprintf("%s|%d|%s|%s", d.Location, d.Temperature, d.Condition, d.Theme)
}

// OGWidth and OGHeight are the standard Open Graph image dimensions.
const (
	OGWidth  = 1200
	OGHeight = 630
)

// GenerateOGImage paints the theme gradient and overlays the current
// conditions.
func GenerateOGImage(data OGImageData) ([]byte, error) {
	loadFonts()
	if fontErr != nil {
		return nil, fmt.Errorf("load fonts: %w", fontErr)
	}

	img := image.NewRGBA(image.Rect(0, 0, OGWidth, OGHeight))
	g := data.Theme.Gradient()
	from, err := parseHex(g.From)
	if err != nil {
		return nil, err
	}
	via, err := parseHex(g.Via)
	if err != nil {
		return nil, err
	}
	to, err := parseHex(g.To)
	if err != nil {
		return nil, err
	}
	drawGradient(img, from, via, to)
	drawTextOverlay(img, data)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode OG image: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGradient fills img with a three-stop gradient running from the top
// left corner to the bottom right.
func drawGradient(img *image.RGBA, from, via, to color.RGBA) {
	bounds := img.Bounds()
	span := float64(bounds.Dx() + bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			progress := float64(x+y) / span
			if progress < 0.5 {
				img.SetRGBA(x, y, lerp(from, via, progress*2))
			} else {
				img.SetRGBA(x, y, lerp(via, to, (progress-0.5)*2))
			}
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

func parseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
}

// drawTextOverlay draws the weather information text on the image.
func drawTextOverlay(img *image.RGBA, data OGImageData) {
	white := color.RGBA{255, 255, 255, 255}
	faded := color.RGBA{230, 230, 240, 255}

	if data.Location != "" {
		drawText(img, data.Location, 60, 90, faded, fontRegular)
	}

	drawText(img, fmt.Sprintf("%d°", data.Temperature), 60, OGHeight-180, white, fontLarge)

	if data.Condition != "" {
		drawText(img, data.Condition, 60, OGHeight-80, faded, fontRegular)
	}
}

// drawText draws text at the given position using the specified font face.
func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
