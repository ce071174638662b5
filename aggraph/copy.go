package aggraph

import (
	"github.com/Josexato/almagag/lib/geo"
)

func copyIntPointer(i *int) *int {
	if i == nil {
		return nil
	}
	tmp := *i
	return &tmp
}

func copyStringPointer(s *string) *string {
	if s == nil {
		return nil
	}
	tmp := *s
	return &tmp
}

func (s Style) Copy() Style {
	return Style{
		Fill:          copyStringPointer(s.Fill),
		Stroke:        copyStringPointer(s.Stroke),
		TextTransform: copyStringPointer(s.TextTransform),
	}
}

func (c *Canvas) Copy() *Canvas {
	if c == nil {
		return nil
	}
	tmp := *c
	return &tmp
}

func (o *Object) Copy() *Object {
	return &Object{
		Graph:  o.Graph,
		Parent: o.Parent,

		ID:              o.ID,
		Kind:            o.Kind,
		Label:           o.Label,
		LabelDimensions: o.LabelDimensions,

		Box:           o.Box.Copy(),
		LabelPosition: copyStringPointer(o.LabelPosition),

		XAttr:      copyIntPointer(o.XAttr),
		YAttr:      copyIntPointer(o.YAttr),
		WidthAttr:  copyIntPointer(o.WidthAttr),
		HeightAttr: copyIntPointer(o.HeightAttr),

		WidthScale:   o.WidthScale,
		HeightScale:  o.HeightScale,
		SizeComputed: o.SizeComputed,
		Scope:        o.Scope,

		Style: o.Style.Copy(),

		Children:      copyChildrenMap(o.Children),
		ChildrenArray: append([]*Object(nil), o.ChildrenArray...),

		ZIndex: o.ZIndex,
	}
}

func copyChildrenMap(children map[string]*Object) map[string]*Object {
	children2 := make(map[string]*Object, len(children))
	for id, ch := range children {
		children2[id] = ch
	}
	return children2
}

func (e *Edge) Copy() *Edge {
	var route []*geo.Point
	if e.Route != nil {
		route = make([]*geo.Point, len(e.Route))
		for i, p := range e.Route {
			route[i] = p.Copy()
		}
	}

	return &Edge{
		Index: e.Index,

		Label:           e.Label,
		LabelDimensions: e.LabelDimensions,
		LabelPosition:   copyStringPointer(e.LabelPosition),

		Route: route,

		Src:      e.Src,
		SrcArrow: e.SrcArrow,
		Dst:      e.Dst,
		DstArrow: e.DstArrow,

		Style: e.Style.Copy(),

		ZIndex: e.ZIndex,
	}
}

// Copy deep-copies the graph for use as a layout trial. Rejected trials are
// dropped whole, so nothing they mutate may be shared with the original:
// boxes, routes and label positions are all duplicated.
func (g *Graph) Copy() *Graph {
	g2 := &Graph{
		Name: g.Name,

		Root:   g.Root.Copy(),
		Canvas: g.Canvas.Copy(),
	}

	absIDMap := make(map[string]*Object, len(g.Objects))
	for _, o := range g.Objects {
		o2 := o.Copy()
		g2.Objects = append(g2.Objects, o2)
		absIDMap[o.AbsID()] = o2
	}

	updateObjectPointers := func(o2 *Object) {
		o2.Graph = g2
		if o2.Parent != nil {
			if o2.Parent.Parent == nil {
				o2.Parent = g2.Root
			} else {
				o2.Parent = absIDMap[o2.Parent.AbsID()]
			}
		}

		for id, ch := range o2.Children {
			o2.Children[id] = absIDMap[ch.AbsID()]
		}
		for i, ch := range o2.ChildrenArray {
			o2.ChildrenArray[i] = absIDMap[ch.AbsID()]
		}
	}
	updateObjectPointers(g2.Root)
	for _, o2 := range g2.Objects {
		updateObjectPointers(o2)
	}

	for _, e := range g.Edges {
		g2.Edges = append(g2.Edges, e.Copy())
	}
	for _, e2 := range g2.Edges {
		e2.Src = absIDMap[e2.Src.AbsID()]
		e2.Dst = absIDMap[e2.Dst.AbsID()]
	}

	return g2
}
