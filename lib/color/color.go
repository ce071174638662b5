package color

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// Default palette. Containers start from ContainerFill and lighten with
// nesting depth.
const (
	Ink           = "#0d1633"
	Paper         = "#ffffff"
	ElementFill   = "#f7f8fe"
	ContainerFill = "#dee5fd"
	Connector     = "#5b6ba3"

	Empty = ""
	None  = "none"
)

// Normalize parses any CSS color notation and returns it as a hex
// string the renderer can emit directly.
func Normalize(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex(), nil
}

func Darken(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	// decrease luminance by 10%
	return colorful.Hsl(h, s, l-.1).Clamped().Hex(), nil
}

func Brighten(colorString string) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	h, s, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	// increase luminance by 10%
	return colorful.Hsl(h, s, l+.1).Clamped().Hex(), nil
}

// Tint lightens a fill toward white for each container nesting level so
// sibling depths stay distinguishable. Depth 1 is the fill itself.
func Tint(colorString string, depth int) (string, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return "", err
	}
	if depth < 1 {
		depth = 1
	}
	t := float64(depth-1) * 0.18
	if t > 0.72 {
		t = 0.72
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	blended := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(white, t)
	return blended.Clamped().Hex(), nil
}

func LuminanceCategory(colorString string) (string, error) {
	l, err := Luminance(colorString)
	if err != nil {
		return "", err
	}

	switch {
	case l >= .88:
		return "bright", nil
	case l >= .55:
		return "normal", nil
	case l >= .30:
		return "dark", nil
	default:
		return "darker", nil
	}
}

func Luminance(colorString string) (float64, error) {
	c, err := csscolorparser.Parse(colorString)
	if err != nil {
		return 0, err
	}

	l := float64(
		float64(0.299)*float64(c.R) +
			float64(0.587)*float64(c.G) +
			float64(0.114)*float64(c.B),
	)
	return l, nil
}
