package textmeasure

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	FONT_SIZE_M   = 16
	FONT_SIZE_L   = 20
	FONT_SIZE_XL  = 24
	FONT_SIZE_XXL = 28
)

type FontStyle int8

const (
	FONT_STYLE_REGULAR FontStyle = iota
	FONT_STYLE_BOLD
	FONT_STYLE_ITALIC
	FONT_STYLE_MONO
)

var FontStyles = []FontStyle{
	FONT_STYLE_REGULAR,
	FONT_STYLE_BOLD,
	FONT_STYLE_ITALIC,
	FONT_STYLE_MONO,
}

type Font struct {
	Style FontStyle
	Size  int
}

func (f Font) ttf() []byte {
	switch f.Style {
	case FONT_STYLE_BOLD:
		return gobold.TTF
	case FONT_STYLE_ITALIC:
		return goitalic.TTF
	case FONT_STYLE_MONO:
		return gomono.TTF
	default:
		return goregular.TTF
	}
}
