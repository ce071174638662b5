// Ported from https://github.com/faiface/pixel/tree/master/text
// Trimmed down to essentials of measuring text

package textmeasure

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/golang/freetype/truetype"
	"github.com/rivo/uniseg"

	"github.com/Josexato/almagag/lib/geo"
)

const TAB_SIZE = 4
const SIZELESS_FONT_SIZE = 0

// Runes encompasses ASCII, Latin-1, and geometric shapes like black square
var Runes []rune

func init() {
	// ASCII range (U+0000 to U+007F)
	for r := rune(0x0000); r <= rune(0x007F); r++ {
		Runes = append(Runes, r)
	}

	// Latin-1 Supplement (U+0080 to U+00FF)
	for r := rune(0x0080); r <= rune(0x00FF); r++ {
		Runes = append(Runes, r)
	}

	// Geometric Shapes (U+25A0 to U+25FF)
	for r := rune(0x25A0); r <= rune(0x25FF); r++ {
		Runes = append(Runes, r)
	}
}

// Ruler measures text. It is always associated with a fixed set of font faces
// and runes: writing text advances an internal Dot the same way drawing it
// would, and the union of the glyph bounds is the measurement.
//
// Newlines, tabs and carriage returns are supported.
type Ruler struct {
	// Orig specifies the text origin, usually the top-left dot position. Dot is always aligned
	// to Orig when writing newlines.
	Orig *geo.Point

	// Dot is the position where the next character will be written. Dot is automatically moved
	// when writing to a Ruler object, but you can also manipulate it manually
	Dot *geo.Point

	// lineHeight is the vertical distance between two lines of text.
	//
	// Example:
	//   txt.lineHeight = 1.5 * txt.atlas.lineHeight
	LineHeightFactor float64
	lineHeights      map[Font]float64

	// tabWidth is the horizontal tab width. Tab characters will align to the multiples of this
	// width.
	//
	// Example:
	//   txt.tabWidth = 8 * txt.atlas.glyph(' ').Advance
	tabWidths map[Font]float64

	atlases map[Font]*atlas

	ttfs map[Font]*truetype.Font

	buf    []byte
	prevR  rune
	bounds *rect

	// when drawing text also union Ruler.bounds with Dot
	boundsWithDot bool
}

func NewRuler() (*Ruler, error) {
	origin := geo.NewPoint(0, 0)
	r := &Ruler{
		Orig:             origin,
		Dot:              origin.Copy(),
		LineHeightFactor: 1.,
		lineHeights:      make(map[Font]float64),
		tabWidths:        make(map[Font]float64),
		atlases:          make(map[Font]*atlas),
		ttfs:             make(map[Font]*truetype.Font),
	}

	for _, fontStyle := range FontStyles {
		font := Font{
			Style: fontStyle,
			Size:  SIZELESS_FONT_SIZE,
		}
		ttf, err := truetype.Parse(font.ttf())
		if err != nil {
			return nil, err
		}
		r.ttfs[font] = ttf
	}

	r.clear()

	return r, nil
}

func (r *Ruler) addFontSize(font Font) {
	sizeless := font
	sizeless.Size = SIZELESS_FONT_SIZE
	face := truetype.NewFace(r.ttfs[sizeless], &truetype.Options{
		Size: float64(font.Size),
	})
	atlas := NewAtlas(face, Runes)
	r.atlases[font] = atlas
	r.lineHeights[font] = atlas.lineHeight
	r.tabWidths[font] = atlas.glyph(' ').advance * TAB_SIZE
}

func (t *Ruler) scaleUnicode(w float64, font Font, s string) float64 {
	// Weird unicode stuff is going on when this is true
	// See https://github.com/rivo/uniseg#grapheme-clusters
	// This method is a good-enough approximation. It overshoots, but not by much.
	// I suspect we need to import a font with the right glyphs to get the precise measurements
	// but Hans fonts are heavy.
	if uniseg.GraphemeClusterCount(s) != len(s) {
		for _, line := range strings.Split(s, "\n") {
			lineW, _ := t.MeasurePrecise(font, line)
			gr := uniseg.NewGraphemes(line)

			mono := Font{Style: FONT_STYLE_MONO, Size: font.Size}
			for gr.Next() {
				if gr.Width() == 1 {
					continue
				}
				// For each grapheme which doesn't have width=1, the ruler measured wrongly.
				// So, replace the measured width with a scaled measurement of a monospace version
				var prevRune rune
				dot := t.Orig.Copy()
				b := newRect()
				for _, r := range gr.Runes() {
					var control bool
					dot, control = t.controlRune(r, dot, font)
					if control {
						continue
					}

					var bounds *rect
					_, _, bounds, dot = t.atlases[font].DrawRune(prevRune, r, dot)
					b = b.union(bounds)

					prevRune = r
				}
				lineW -= b.w()
				lineW += t.spaceWidth(mono) * float64(gr.Width())
			}
			w = math.Max(w, lineW)
		}
	}
	return w
}

func (t *Ruler) Measure(font Font, s string) (width, height int) {
	w, h := t.MeasurePrecise(font, s)
	w = t.scaleUnicode(w, font, s)
	return int(math.Ceil(w)), int(math.Ceil(h))
}

func (t *Ruler) MeasurePrecise(font Font, s string) (width, height float64) {
	if _, ok := t.atlases[font]; !ok {
		t.addFontSize(font)
	}
	t.clear()
	t.buf = append(t.buf, s...)
	t.drawBuf(font)
	b := t.bounds
	return b.w(), b.h()
}

// clear removes all written text from the Ruler. The Dot field is reset to Orig.
func (txt *Ruler) clear() {
	txt.prevR = -1
	txt.bounds = newRect()
	txt.Dot = txt.Orig.Copy()
}

// controlRune checks if r is a control rune (newline, tab, ...). If it is, a new dot position and
// true is returned. If r is not a control rune, the original dot and false is returned.
func (txt *Ruler) controlRune(r rune, dot *geo.Point, font Font) (newDot *geo.Point, control bool) {
	switch r {
	case '\n':
		dot.X = txt.Orig.X
		dot.Y -= txt.LineHeightFactor * txt.lineHeights[font]
	case '\r':
		dot.X = txt.Orig.X
	case '\t':
		rem := math.Mod(dot.X-txt.Orig.X, txt.tabWidths[font])
		rem = math.Mod(rem, rem+txt.tabWidths[font])
		if rem == 0 {
			rem = txt.tabWidths[font]
		}
		dot.X += rem
	default:
		return dot, false
	}
	return dot, true
}

func (txt *Ruler) drawBuf(font Font) {
	if !utf8.FullRune(txt.buf) {
		return
	}

	for utf8.FullRune(txt.buf) {
		r, l := utf8.DecodeRune(txt.buf)
		txt.buf = txt.buf[l:]

		var control bool
		txt.Dot, control = txt.controlRune(r, txt.Dot, font)
		if control {
			continue
		}

		var bounds *rect
		_, _, bounds, txt.Dot = txt.atlases[font].DrawRune(txt.prevR, r, txt.Dot)

		txt.prevR = r

		if txt.boundsWithDot {
			txt.bounds = txt.bounds.union(&rect{txt.Dot, txt.Dot})
			txt.bounds = txt.bounds.union(bounds)
		} else {
			if txt.bounds.w()*txt.bounds.h() == 0 {
				txt.bounds = bounds
			} else {
				txt.bounds = txt.bounds.union(bounds)
			}
		}
	}
}

func (ruler *Ruler) spaceWidth(font Font) float64 {
	if _, has := ruler.atlases[font]; !has {
		ruler.addFontSize(font)
	}
	spaceRune, _ := utf8.DecodeRuneInString(" ")
	return ruler.atlases[font].glyph(spaceRune).advance
}
