// Package agtarget is the finalized render model. Everything in it is
// resolved: integer pixel positions, committed label placements, routed
// connections. Renderers consume this and nothing earlier.
package agtarget

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
)

const STROKE_WIDTH = 2

type Diagram struct {
	Name string `json:"name"`

	Width  int `json:"width"`
	Height int `json:"height"`

	Shapes      []Shape      `json:"shapes"`
	Connections []Connection `json:"connections"`
}

func NewDiagram() *Diagram {
	return &Diagram{}
}

func (diagram Diagram) Bytes() ([]byte, error) {
	return json.Marshal(diagram)
}

func (diagram Diagram) HashID() (string, error) {
	b, err := diagram.Bytes()
	if err != nil {
		return "", err
	}
	h := fnv.New32a()
	h.Write(b)
	// CSS names can't start with numbers, so prepend a little something
	return fmt.Sprintf("ag-%d", h.Sum32()), nil
}

type Shape struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`

	Pos    Point `json:"pos"`
	Width  int   `json:"width"`
	Height int   `json:"height"`

	// Level is the containment depth, 1 for primaries. Containers use it for
	// their depth tint.
	Level     int  `json:"level"`
	Container bool `json:"container"`

	// Scope is the author's placement hint, carried through for tooling.
	Scope string `json:"scope,omitempty"`

	Fill   string `json:"fill"`
	Stroke string `json:"stroke"`

	Label         string `json:"label,omitempty"`
	LabelPosition string `json:"labelPosition,omitempty"`
	LabelWidth    int    `json:"labelWidth,omitempty"`
	LabelHeight   int    `json:"labelHeight,omitempty"`
	FontSize      int    `json:"fontSize,omitempty"`

	ZIndex int `json:"zIndex"`
}

type Connection struct {
	ID string `json:"id"`

	Src      string `json:"src"`
	SrcArrow bool   `json:"srcArrow"`
	Dst      string `json:"dst"`
	DstArrow bool   `json:"dstArrow"`

	Stroke string `json:"stroke"`

	Label         string `json:"label,omitempty"`
	LabelPosition string `json:"labelPosition,omitempty"`
	LabelWidth    int    `json:"labelWidth,omitempty"`
	LabelHeight   int    `json:"labelHeight,omitempty"`
	FontSize      int    `json:"fontSize,omitempty"`

	Route []*geo.Point `json:"route"`

	ZIndex int `json:"zIndex"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type TextDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func NewTextDimensions(w, h int) *TextDimensions {
	return &TextDimensions{Width: w, Height: h}
}

// LabelBox resolves the committed label placement against the shape
// outline. Nil when the shape has no placed label.
func (s Shape) LabelBox() *geo.Box {
	if s.Label == "" || s.LabelPosition == "" {
		return nil
	}
	box := geo.NewBox(
		geo.NewPoint(float64(s.Pos.X), float64(s.Pos.Y)),
		float64(s.Width),
		float64(s.Height),
	)
	tl := label.FromString(s.LabelPosition).GetPointOnBox(
		box, label.PADDING, float64(s.LabelWidth), float64(s.LabelHeight))
	return geo.NewBox(tl, float64(s.LabelWidth), float64(s.LabelHeight))
}

// LabelBox resolves the committed label placement against the route.
// Nil when the connection has no placed label.
func (c Connection) LabelBox() *geo.Box {
	if c.Label == "" || c.LabelPosition == "" || len(c.Route) < 2 {
		return nil
	}
	w := float64(c.LabelWidth)
	h := float64(c.LabelHeight)

	route := geo.Route(c.Route)
	// self loops collapse to a single spot, center on it
	if route.Length() == 0 {
		p := c.Route[0]
		return geo.NewBox(geo.NewPoint(p.X-w/2, p.Y-h/2), w, h)
	}

	tl, _ := label.FromString(c.LabelPosition).GetPointOnRoute(route, STROKE_WIDTH, w, h)
	if tl == nil {
		return nil
	}
	return geo.NewBox(tl, w, h)
}

// BoundingBox returns the extent of all shapes, labels and routes,
// ignoring the canvas dims
func (diagram Diagram) BoundingBox() (topLeft, bottomRight Point) {
	if len(diagram.Shapes) == 0 && len(diagram.Connections) == 0 {
		return Point{0, 0}, Point{0, 0}
	}
	x1 := math.MaxInt32
	y1 := math.MaxInt32
	x2 := -math.MaxInt32
	y2 := -math.MaxInt32

	growBox := func(b *geo.Box) {
		if b == nil {
			return
		}
		x1 = min(x1, int(math.Floor(b.TopLeft.X)))
		y1 = min(y1, int(math.Floor(b.TopLeft.Y)))
		x2 = max(x2, int(math.Ceil(b.TopLeft.X+b.Width)))
		y2 = max(y2, int(math.Ceil(b.TopLeft.Y+b.Height)))
	}

	for _, targetShape := range diagram.Shapes {
		x1 = min(x1, targetShape.Pos.X)
		y1 = min(y1, targetShape.Pos.Y)
		x2 = max(x2, targetShape.Pos.X+targetShape.Width)
		y2 = max(y2, targetShape.Pos.Y+targetShape.Height)

		growBox(targetShape.LabelBox())
	}

	for _, connection := range diagram.Connections {
		for _, point := range connection.Route {
			x1 = min(x1, int(math.Floor(point.X)))
			y1 = min(y1, int(math.Floor(point.Y)))
			x2 = max(x2, int(math.Ceil(point.X)))
			y2 = max(y2, int(math.Ceil(point.Y)))
		}
		growBox(connection.LabelBox())
	}

	return Point{x1, y1}, Point{x2, y2}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
