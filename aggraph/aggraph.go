package aggraph

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Josexato/almagag/agtarget"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
	"github.com/Josexato/almagag/lib/shape"
	"github.com/Josexato/almagag/lib/textmeasure"
)

const STROKE_WIDTH = agtarget.STROKE_WIDTH

type Graph struct {
	Name string `json:"name"`

	Root    *Object   `json:"root"`
	Edges   []*Edge   `json:"edges"`
	Objects []*Object `json:"objects"`

	Canvas *Canvas `json:"canvas,omitempty"`
}

func NewGraph() *Graph {
	g := &Graph{}
	g.Root = &Object{
		Graph:    g,
		Parent:   nil,
		Children: make(map[string]*Object),
	}
	return g
}

// Canvas is the drawing area the laid out diagram has to fit in. Hinted is
// true when the source document requested dimensions up front; otherwise the
// fitting stage sizes the canvas to the content and may expand it later.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Hinted bool    `json:"hinted"`
}

type Object struct {
	Graph  *Graph  `json:"-"`
	Parent *Object `json:"-"`

	ID    string     `json:"id"`
	Kind  shape.Kind `json:"kind"`
	Label string     `json:"label"`

	LabelDimensions agtarget.TextDimensions `json:"label_dimensions"`

	*geo.Box      `json:"box,omitempty"`
	LabelPosition *string `json:"labelPosition,omitempty"`

	// Author-requested geometry. Applied when dimensions are set; nil means
	// the engine computes it.
	XAttr      *int `json:"xAttr,omitempty"`
	YAttr      *int `json:"yAttr,omitempty"`
	WidthAttr  *int `json:"widthAttr,omitempty"`
	HeightAttr *int `json:"heightAttr,omitempty"`

	// Relative sizing knobs, 1.0 when the author left them alone.
	WidthScale  float64 `json:"widthScale"`
	HeightScale float64 `json:"heightScale"`

	// SizeComputed is set once the container grower finalizes dimensions.
	// Estimate paths must leave such objects alone.
	SizeComputed bool `json:"-"`

	// Scope is the placement scope hint carried on the parent's contains
	// entry, empty for primaries.
	Scope string `json:"scope,omitempty"`

	Style Style `json:"style"`

	Children      map[string]*Object `json:"-"`
	ChildrenArray []*Object          `json:"childrenArray,omitempty"`

	ZIndex int `json:"zIndex"`
}

type Style struct {
	Fill          *string `json:"fill,omitempty"`
	Stroke        *string `json:"stroke,omitempty"`
	TextTransform *string `json:"textTransform,omitempty"`
}

type Edge struct {
	Index int `json:"index"`

	Label           string                  `json:"label"`
	LabelDimensions agtarget.TextDimensions `json:"label_dimensions"`
	LabelPosition   *string                 `json:"labelPosition,omitempty"`

	Route []*geo.Point `json:"route,omitempty"`

	Src      *Object `json:"-"`
	SrcArrow bool    `json:"src_arrow"`
	Dst      *Object `json:"-"`
	DstArrow bool    `json:"dst_arrow"`

	Style Style `json:"style"`

	ZIndex int `json:"zIndex"`
}

type ContainerLevel int

func (l ContainerLevel) LabelSize() int {
	// Largest to smallest
	if l == 1 {
		return textmeasure.FONT_SIZE_XXL
	} else if l == 2 {
		return textmeasure.FONT_SIZE_XL
	} else if l == 3 {
		return textmeasure.FONT_SIZE_L
	}
	return textmeasure.FONT_SIZE_M
}

func (obj *Object) Level() ContainerLevel {
	if obj.Parent == nil {
		return 0
	}
	return 1 + obj.Parent.Level()
}

func (obj *Object) IsContainer() bool {
	return len(obj.Children) > 0
}

// IsPrimary reports whether the object sits at the top of the containment
// forest, directly under the invisible root.
func (obj *Object) IsPrimary() bool {
	return obj.Parent != nil && obj.Parent.Parent == nil
}

func (obj *Object) HasLabel() bool {
	if obj == nil {
		return false
	}
	return obj.Label != ""
}

// Pinned reports whether the author fixed this object's coordinates. Pinned
// objects keep their position through every layout phase.
func (obj *Object) Pinned() bool {
	return obj.XAttr != nil && obj.YAttr != nil
}

func (obj *Object) AbsID() string {
	if obj.Parent != nil && obj.Parent.ID != "" {
		return obj.Parent.AbsID() + "." + obj.ID
	}
	return obj.ID
}

func (obj *Object) AbsIDArray() []string {
	if obj.Parent == nil {
		return nil
	}
	return append(obj.Parent.AbsIDArray(), obj.ID)
}

func (obj *Object) FontSize() int {
	if obj.IsContainer() {
		return obj.Level().LabelSize()
	}
	return textmeasure.FONT_SIZE_M
}

func (obj *Object) Font() textmeasure.Font {
	style := textmeasure.FONT_STYLE_BOLD
	if obj.IsContainer() {
		style = textmeasure.FONT_STYLE_REGULAR
	}
	return textmeasure.Font{
		Size:  obj.FontSize(),
		Style: style,
	}
}

func (e *Edge) Font() textmeasure.Font {
	return textmeasure.Font{
		Size:  textmeasure.FONT_SIZE_M,
		Style: textmeasure.FONT_STYLE_ITALIC,
	}
}

func (e *Edge) HasLabel() bool {
	return e.Label != ""
}

func (obj *Object) newObject(id string) *Object {
	child := &Object{
		ID:    id,
		Kind:  shape.Generic,
		Label: id,

		WidthScale:  1.0,
		HeightScale: 1.0,

		Graph:  obj.Graph,
		Parent: obj,

		Children: make(map[string]*Object),
	}

	obj.Children[strings.ToLower(id)] = child
	obj.ChildrenArray = append(obj.ChildrenArray, child)

	if obj.Graph != nil {
		obj.Graph.Objects = append(obj.Graph.Objects, child)
	}

	return child
}

// EnsureChild grabs the direct child by id or creates it if it does not
// exist.
func (obj *Object) EnsureChild(id string) *Object {
	child, ok := obj.Children[strings.ToLower(id)]
	if !ok {
		child = obj.newObject(id)
	}
	return child
}

func (obj *Object) HasChild(id string) (*Object, bool) {
	child, ok := obj.Children[strings.ToLower(id)]
	return child, ok
}

// ReParent moves obj from directly under the root into newParent. An object
// cannot be contained twice and a container cannot adopt its own ancestor, so
// the containment stays a forest.
func (obj *Object) ReParent(newParent *Object) error {
	if obj.Parent == nil {
		return errors.New("cannot contain the root")
	}
	if obj.Parent.Parent != nil {
		return fmt.Errorf("%q is already contained in %q", obj.ID, obj.Parent.AbsID())
	}
	if newParent.IsDescendantOf(obj) {
		return fmt.Errorf("%q cannot contain its own ancestor %q", newParent.AbsID(), obj.ID)
	}

	obj.Parent.RemoveChild(obj)
	obj.Parent = newParent
	newParent.Children[strings.ToLower(obj.ID)] = obj
	newParent.ChildrenArray = append(newParent.ChildrenArray, obj)
	return nil
}

// GetObject returns the object with the given absolute ID, if it exists.
func (g *Graph) GetObject(absID string) *Object {
	for _, obj := range g.Objects {
		if obj.AbsID() == absID {
			return obj
		}
	}
	return nil
}

func (e *Edge) ArrowString() string {
	if e.SrcArrow && e.DstArrow {
		return "<->"
	}
	if e.SrcArrow {
		return "<-"
	}
	if e.DstArrow {
		return "->"
	}
	return "--"
}

func (e *Edge) AbsID() string {
	srcIDA := e.Src.AbsIDArray()
	dstIDA := e.Dst.AbsIDArray()

	var commonIDA []string
	for len(srcIDA) > 1 && len(dstIDA) > 1 {
		if !strings.EqualFold(srcIDA[0], dstIDA[0]) {
			break
		}
		commonIDA = append(commonIDA, srcIDA[0])
		srcIDA = srcIDA[1:]
		dstIDA = dstIDA[1:]
	}

	commonKey := ""
	if len(commonIDA) > 0 {
		commonKey = strings.Join(commonIDA, ".") + "."
	}

	return fmt.Sprintf("%s(%s %s %s)[%d]", commonKey, strings.Join(srcIDA, "."), e.ArrowString(), strings.Join(dstIDA, "."), e.Index)
}

func (e *Edge) initIndex() {
	for _, e2 := range e.Src.Graph.Edges {
		if e.Src == e2.Src &&
			e.SrcArrow == e2.SrcArrow &&
			e.Dst == e2.Dst &&
			e.DstArrow == e2.DstArrow {
			e.Index++
		}
	}
}

// Connect adds an edge between two objects of the graph.
func (g *Graph) Connect(src, dst *Object, srcArrow, dstArrow bool, label string) (*Edge, error) {
	if src.Graph != g || dst.Graph != g {
		return nil, errors.New("cannot connect objects from another graph")
	}

	e := &Edge{
		Label: label,

		Src:      src,
		SrcArrow: srcArrow,
		Dst:      dst,
		DstArrow: dstArrow,
	}
	e.initIndex()

	g.Edges = append(g.Edges, e)
	return e, nil
}

// ApplyTextTransform alters Label based on the text-transform styling
// option. This function has side-effects!
func (obj *Object) ApplyTextTransform() {
	obj.Label = transformText(obj.Label, obj.Style.TextTransform)
}

func (e *Edge) ApplyTextTransform() {
	e.Label = transformText(e.Label, e.Style.TextTransform)
}

func transformText(s string, transform *string) string {
	if transform == nil {
		return s
	}
	switch *transform {
	case "uppercase":
		return strings.ToUpper(s)
	case "lowercase":
		return strings.ToLower(s)
	case "capitalize":
		return cases.Title(language.Und).String(s)
	}
	return s
}

// SetDimensions measures every label with the ruler and sizes each object the
// author left unsized: the kind's base size, grown to hold the label, scaled
// by the author's multipliers. Containers get sized later from their
// contents.
func (g *Graph) SetDimensions(ruler *textmeasure.Ruler) error {
	if ruler == nil {
		return errors.New("no ruler to measure labels with")
	}

	for _, obj := range g.Objects {
		obj.Box = &geo.Box{}
		obj.ApplyTextTransform()

		if obj.HasLabel() {
			w, h := ruler.Measure(obj.Font(), obj.Label)
			obj.LabelDimensions = *agtarget.NewTextDimensions(w, h)
		}

		w, h := obj.Kind.BaseSize()
		width := float64(w)
		height := float64(h)
		if obj.HasLabel() && !obj.IsContainer() {
			width = math.Max(width, float64(obj.LabelDimensions.Width)+2*label.PADDING)
			height = math.Max(height, float64(obj.LabelDimensions.Height)+2*label.PADDING)
		}
		if obj.WidthAttr != nil {
			width = math.Max(width, float64(*obj.WidthAttr))
		}
		if obj.HeightAttr != nil {
			height = math.Max(height, float64(*obj.HeightAttr))
		}

		obj.Width = width * obj.WidthScale
		obj.Height = height * obj.HeightScale

		if obj.Pinned() {
			obj.TopLeft = geo.NewPoint(float64(*obj.XAttr), float64(*obj.YAttr))
		}
	}

	for _, e := range g.Edges {
		e.ApplyTextTransform()
		if e.Label != "" {
			w, h := ruler.Measure(e.Font(), e.Label)
			e.LabelDimensions = *agtarget.NewTextDimensions(w, h)
		}
	}

	return nil
}
