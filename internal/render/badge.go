package render

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// Level bands for the badge background, in pg/mL.
const (
	BandLow    = 50.0
	BandTarget = 100.0
	BandHigh   = 300.0
	BandMax    = 500.0
)

// BadgeOptions controls the badge size. Zero values use the defaults.
type BadgeOptions struct {
	Width  int
	Height int
	Label  string
}

// Badge renders a rounded PNG badge showing the estradiol level. A false ok
// draws a placeholder instead of a number.
func Badge(w io.Writer, valuePgML float64, ok bool, opts BadgeOptions) error {
	if opts.Width <= 0 {
		opts.Width = 160
	}
	if opts.Height <= 0 {
		opts.Height = 64
	}
	if opts.Label == "" {
		opts.Label = "E2"
	}

	width, height := float64(opts.Width), float64(opts.Height)
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	bg := bandColor(valuePgML, ok)
	dc.SetColor(bg)
	dc.DrawRoundedRectangle(0, 0, width, height, height/4)
	dc.Fill()

	brightness := (int(bg.R)*299 + int(bg.G)*587 + int(bg.B)*114) / 1000
	if brightness > 128 {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(color.White)
	}

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	text := "--"
	if ok {
		text = fmt.Sprintf("%.0f", valuePgML)
	}

	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: height * 0.22}))
	dc.DrawStringAnchored(opts.Label+" pg/mL", width/2, height*0.25, 0.5, 0.5)
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: height * 0.45}))
	dc.DrawStringAnchored(text, width/2, height*0.64, 0.5, 0.5)

	if err := png.Encode(w, dc.Image()); err != nil {
		return fmt.Errorf("encode badge: %w", err)
	}
	return nil
}

func bandColor(v float64, ok bool) color.RGBA {
	switch {
	case !ok || math.IsNaN(v):
		return color.RGBA{R: 158, G: 158, B: 158, A: 255}
	case v < BandLow || v > BandMax:
		return color.RGBA{R: 219, G: 68, B: 55, A: 255}
	case v < BandTarget || v > BandHigh:
		return color.RGBA{R: 244, G: 180, B: 0, A: 255}
	default:
		return color.RGBA{R: 15, G: 157, B: 88, A: 255}
	}
}
