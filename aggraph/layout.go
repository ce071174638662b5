package aggraph

import (
	"math"
	"strings"

	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
)

func (obj *Object) MoveWithDescendants(dx, dy float64) {
	obj.TopLeft.X += dx
	obj.TopLeft.Y += dy
	for _, child := range obj.ChildrenArray {
		child.MoveWithDescendants(dx, dy)
	}
}

func (obj *Object) MoveWithDescendantsTo(x, y float64) {
	dx := x - obj.TopLeft.X
	dy := y - obj.TopLeft.Y
	obj.MoveWithDescendants(dx, dy)
}

func (parent *Object) RemoveChild(child *Object) {
	delete(parent.Children, strings.ToLower(child.ID))
	for i := 0; i < len(parent.ChildrenArray); i++ {
		if parent.ChildrenArray[i] == child {
			parent.ChildrenArray = append(parent.ChildrenArray[:i], parent.ChildrenArray[i+1:]...)
			break
		}
	}
}

func (obj *Object) IsDescendantOf(ancestor *Object) bool {
	if obj == ancestor {
		return true
	}
	if obj.Parent == nil {
		return false
	}
	return obj.Parent.IsDescendantOf(ancestor)
}

func (obj *Object) IterDescendants(apply func(parent, child *Object)) {
	for _, c := range obj.ChildrenArray {
		apply(obj, c)
		c.IterDescendants(apply)
	}
}

// ShiftDescendants moves the object's descendants (not including itself).
// Routes fully inside the subtree move whole, routes crossing its border
// only move the endpoint that is attached inside.
func (obj *Object) ShiftDescendants(dx, dy float64) {
	movedEdges := make(map[*Edge]struct{})
	for _, e := range obj.Graph.Edges {
		if len(e.Route) == 0 {
			continue
		}
		isSrcDesc := e.Src != obj && e.Src.IsDescendantOf(obj)
		isDstDesc := e.Dst != obj && e.Dst.IsDescendantOf(obj)

		if isSrcDesc && isDstDesc {
			movedEdges[e] = struct{}{}
			e.Move(dx, dy)
		} else if isSrcDesc {
			e.Route[0].X += dx
			e.Route[0].Y += dy
		} else if isDstDesc {
			e.Route[len(e.Route)-1].X += dx
			e.Route[len(e.Route)-1].Y += dy
		}
	}

	obj.IterDescendants(func(_, curr *Object) {
		curr.TopLeft.X += dx
		curr.TopLeft.Y += dy
	})
}

func (e *Edge) Move(dx, dy float64) {
	for _, p := range e.Route {
		p.X += dx
		p.Y += dy
	}
}

func (obj *Object) GetLabelTopLeft() *geo.Point {
	if obj.Box == nil || obj.TopLeft == nil || obj.LabelPosition == nil {
		return nil
	}

	labelPosition := label.FromString(*obj.LabelPosition)
	return labelPosition.GetPointOnBox(
		obj.Box,
		label.PADDING,
		float64(obj.LabelDimensions.Width),
		float64(obj.LabelDimensions.Height),
	)
}

func (e *Edge) GetLabelTopLeft() *geo.Point {
	if len(e.Route) == 0 || e.LabelPosition == nil {
		return nil
	}
	w := float64(e.LabelDimensions.Width)
	h := float64(e.LabelDimensions.Height)

	route := geo.Route(e.Route)
	// self loops collapse to a single spot, center on it
	if route.Length() == 0 {
		p := e.Route[0]
		return geo.NewPoint(p.X-w/2, p.Y-h/2)
	}

	point, _ := label.FromString(*e.LabelPosition).GetPointOnRoute(
		route,
		STROKE_WIDTH,
		w,
		h,
	)
	return point
}

// Bounds returns the extent of every placed object, committed label and
// routed edge. Unplaced objects are skipped.
func (g *Graph) Bounds() (tl, br *geo.Point) {
	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)

	grow := func(x1, y1, x2, y2 float64) {
		minX = math.Min(minX, x1)
		minY = math.Min(minY, y1)
		maxX = math.Max(maxX, x2)
		maxY = math.Max(maxY, y2)
	}

	for _, obj := range g.Objects {
		if obj.Box == nil || obj.TopLeft == nil {
			continue
		}
		grow(obj.TopLeft.X, obj.TopLeft.Y, obj.TopLeft.X+obj.Width, obj.TopLeft.Y+obj.Height)

		if labelTL := obj.GetLabelTopLeft(); labelTL != nil {
			grow(labelTL.X, labelTL.Y,
				labelTL.X+float64(obj.LabelDimensions.Width),
				labelTL.Y+float64(obj.LabelDimensions.Height))
		}
	}

	for _, e := range g.Edges {
		for _, p := range e.Route {
			grow(p.X, p.Y, p.X, p.Y)
		}
		if labelTL := e.GetLabelTopLeft(); labelTL != nil {
			grow(labelTL.X, labelTL.Y,
				labelTL.X+float64(e.LabelDimensions.Width),
				labelTL.Y+float64(e.LabelDimensions.Height))
		}
	}

	if math.IsInf(minX, 1) {
		return geo.NewPoint(0, 0), geo.NewPoint(0, 0)
	}
	return geo.NewPoint(minX, minY), geo.NewPoint(maxX, maxY)
}
