package agchaos

import (
	"fmt"
	mathrand "math/rand"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"

	"oss.terrastruct.com/util-go/go2"
)

// GenDoc generates a random diagram document with roughly maxi parts.
// The same seed always produces the same document, so a failing input can be
// regenerated from the seed its test logged.
func GenDoc(seed int64, maxi int) (string, error) {
	gs := &docGenState{
		rand: mathrand.New(mathrand.NewSource(seed)),
		used: make(map[string]struct{}),
	}
	gs.gen(maxi)
	out, err := yaml.Marshal(gs.doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// document mirrors the wire form agcompiler reads.
type document struct {
	Canvas      *canvasDoc      `yaml:"canvas,omitempty"`
	Elements    []*elementDoc   `yaml:"elements,omitempty"`
	Connections []connectionDoc `yaml:"connections,omitempty"`
}

type canvasDoc struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type elementDoc struct {
	ID               string        `yaml:"id"`
	Type             string        `yaml:"type,omitempty"`
	Label            *string       `yaml:"label,omitempty"`
	X                *int          `yaml:"x,omitempty"`
	Y                *int          `yaml:"y,omitempty"`
	Width            *int          `yaml:"width,omitempty"`
	Height           *int          `yaml:"height,omitempty"`
	WidthProportion  *float64      `yaml:"width-proportion,omitempty"`
	HeightProportion *float64      `yaml:"height-proportion,omitempty"`
	Contains         []containsDoc `yaml:"contains,omitempty"`
	Style            *styleDoc     `yaml:"style,omitempty"`
}

type containsDoc struct {
	ID    string `yaml:"id"`
	Scope string `yaml:"scope,omitempty"`
}

type connectionDoc struct {
	From      string    `yaml:"from"`
	To        string    `yaml:"to"`
	Label     string    `yaml:"label,omitempty"`
	Direction string    `yaml:"direction,omitempty"`
	Style     *styleDoc `yaml:"style,omitempty"`
}

type styleDoc struct {
	Fill          *string `yaml:"fill,omitempty"`
	Stroke        *string `yaml:"stroke,omitempty"`
	TextTransform *string `yaml:"text-transform,omitempty"`
}

type docGenState struct {
	rand *mathrand.Rand
	doc  document

	elementsArr []*elementDoc
	used        map[string]struct{}
}

func (gs *docGenState) gen(maxi int) {
	maxi = gs.rand.Intn(maxi) + 1

	if gs.roll(25, 75) == 0 {
		// 25% chance of hinting a canvas.
		gs.doc.Canvas = &canvasDoc{
			Width:  float64(320 + gs.rand.Intn(1600)),
			Height: float64(240 + gs.rand.Intn(1200)),
		}
	}

	for i := 0; i < maxi; i++ {
		switch gs.roll(25, 75) {
		case 0:
			// 25% chance of declaring a new element.
			gs.element()
		case 1:
			// 75% chance of connecting two random elements.
			gs.connection()
		}
	}
}

func (gs *docGenState) genElement() *elementDoc {
	el := &elementDoc{ID: gs.randID(8)}
	gs.doc.Elements = append(gs.doc.Elements, el)
	gs.elementsArr = append(gs.elementsArr, el)
	return el
}

func (gs *docGenState) element() {
	el := gs.genElement()

	if gs.roll(25, 75) == 1 {
		// 75% chance of nesting the new element under an existing one.
		// Only ever the new one: nesting an older element again could
		// contain it twice, which the compiler rejects.
		container := gs.randContainer(el)
		if container != nil {
			entry := containsDoc{ID: el.ID}
			if gs.roll(25, 75) == 0 {
				entry.Scope = scopes[gs.rand.Intn(len(scopes))]
			}
			container.Contains = append(container.Contains, entry)
		}
	}

	if gs.roll(25, 75) == 0 {
		// 25% chance of a label.
		el.Label = go2.Pointer(gs.randLabel(24))
	}

	if gs.roll(25, 75) == 1 {
		// 75% chance of a type tag, sometimes one the catalog does not
		// know. Unknown tags fall back to generic.
		el.Type = kinds[gs.rand.Intn(len(kinds))]
	}

	if gs.roll(10, 90) == 0 {
		// 10% chance of pinned coordinates.
		el.X = go2.Pointer(gs.rand.Intn(1600))
		el.Y = go2.Pointer(gs.rand.Intn(1200))
	}

	if gs.roll(10, 90) == 0 {
		// 10% chance of an explicit size.
		el.Width = go2.Pointer(40 + gs.rand.Intn(360))
		el.Height = go2.Pointer(30 + gs.rand.Intn(270))
	}

	if gs.roll(10, 90) == 0 {
		// Non-positive multipliers exercise the compiler's
		// ignore-and-log path.
		el.WidthProportion = go2.Pointer(proportions[gs.rand.Intn(len(proportions))])
	}
	if gs.roll(10, 90) == 0 {
		el.HeightProportion = go2.Pointer(proportions[gs.rand.Intn(len(proportions))])
	}

	if gs.roll(10, 90) == 0 {
		// 10% chance of a dangling contains entry. The compiler drops it.
		el.Contains = append(el.Contains, containsDoc{ID: gs.ghostID()})
	}

	if gs.roll(25, 75) == 0 {
		// 25% chance of styling.
		el.Style = gs.randStyle()
	}
}

func (gs *docGenState) connection() {
	conn := connectionDoc{
		From: gs.randElement().ID,
		To:   gs.randElement().ID,
	}

	if gs.roll(10, 90) == 0 {
		// 10% chance of a dangling endpoint. The compiler drops the
		// whole connection.
		if gs.randBool() {
			conn.From = gs.ghostID()
		} else {
			conn.To = gs.ghostID()
		}
	}

	if gs.randBool() {
		conn.Label = gs.randLabel(16)
	}
	conn.Direction = directions[gs.rand.Intn(len(directions))]
	if gs.roll(25, 75) == 0 {
		conn.Style = gs.randStyle()
	}

	gs.doc.Connections = append(gs.doc.Connections, conn)
}

func (gs *docGenState) randContainer(except *elementDoc) *elementDoc {
	candidates := go2.Filter(gs.elementsArr, func(x *elementDoc) bool {
		return x != except
	})
	if len(candidates) == 0 {
		return nil
	}
	return candidates[gs.rand.Intn(len(candidates))]
}

func (gs *docGenState) randElement() *elementDoc {
	if len(gs.elementsArr) == 0 {
		return gs.genElement()
	}
	return gs.elementsArr[gs.rand.Intn(len(gs.elementsArr))]
}

func (gs *docGenState) randBool() bool {
	return gs.rand.Intn(2) == 0
}

func (gs *docGenState) randID(maxLen int) string {
	for {
		n := 1 + gs.rand.Intn(maxLen)
		b := make([]rune, n)
		for i := range b {
			b[i] = rune(gs.rand.Int31n(26) + 'a')
		}
		if gs.roll(10, 90) == 0 {
			// Ids are case insensitive. Mix case in sometimes.
			i := gs.rand.Intn(n)
			b[i] = unicode.ToUpper(b[i])
		}
		id := string(b)
		lower := strings.ToLower(id)
		if _, ok := gs.used[lower]; ok {
			continue
		}
		gs.used[lower] = struct{}{}
		return id
	}
}

// ghostID is an id that no element will ever be declared under. Reserving
// it keeps a dangling reference dangling: were a later element to take the
// same id, the reference would quietly materialize and could even contain
// an element twice.
func (gs *docGenState) ghostID() string {
	return gs.randID(8)
}

func (gs *docGenState) randLabel(maxLen int) string {
	var b strings.Builder
	n := gs.rand.Intn(maxLen)
	for i := 0; i < n; i++ {
		switch gs.roll(10, 10, 80) {
		case 0:
			b.WriteRune(' ')
		case 1:
			b.WriteRune('\n')
		default:
			// printable ascii
			b.WriteRune(rune(gs.rand.Int31n(94) + 33))
		}
	}
	return b.String()
}

func (gs *docGenState) randStyle() *styleDoc {
	st := &styleDoc{}
	if gs.randBool() {
		st.Fill = go2.Pointer(fmt.Sprintf("#%06x", gs.rand.Intn(0x1000000)))
	}
	if gs.randBool() {
		st.Stroke = go2.Pointer(fmt.Sprintf("#%06x", gs.rand.Intn(0x1000000)))
	}
	if gs.randBool() {
		st.TextTransform = go2.Pointer(textTransforms[gs.rand.Intn(len(textTransforms))])
	}
	return st
}

func (gs *docGenState) roll(probs ...int) int {
	max := 0
	for _, p := range probs {
		max += p
	}

	n := gs.rand.Intn(max)
	var acc int
	for i, p := range probs {
		if n >= acc && n < acc+p {
			return i
		}
		acc += p
	}

	panic("agchaos: unreachable")
}

var kinds = []string{
	"service", "database", "db", "queue", "cache", "storage", "bucket",
	"function", "lambda", "gateway", "user", "person", "external",
	"generic",
	// not in the catalog, falls back to generic
	"mainframe",
}

var directions = []string{
	"", "forward", "backward", "bidirectional", "none",
	// unknown, assumed forward
	"sideways",
}

var scopes = []string{"left", "right", "top", "bottom"}

// No multipliers in (0, 1): those can shrink a container under its own
// content. Non-positive ones are ignored by the compiler.
var proportions = []float64{-0.5, 0, 1, 1.25, 1.5, 2, 3}

var textTransforms = []string{
	"uppercase", "lowercase", "capitalize",
	// unknown, left as is
	"smallcaps",
}
