package agexporter

import (
	"context"
	"math"
	"sort"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/agtarget"
	"github.com/Josexato/almagag/lib/color"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/textmeasure"
)

// Export flattens a laid out graph into the render model. Geometry is
// taken as final: positions, container sizes, label placements, routes
// and the canvas all come from the layout stages.
func Export(ctx context.Context, g *aggraph.Graph) (*agtarget.Diagram, error) {
	diagram := agtarget.NewDiagram()
	diagram.Name = g.Name
	if g.Canvas != nil {
		diagram.Width = int(math.Ceil(g.Canvas.Width))
		diagram.Height = int(math.Ceil(g.Canvas.Height))
	}

	diagram.Shapes = make([]agtarget.Shape, len(g.Objects))
	for i := range g.Objects {
		diagram.Shapes[i] = toShape(g.Objects[i])
	}
	// containers paint under their contents
	sort.SliceStable(diagram.Shapes, func(i, j int) bool {
		return diagram.Shapes[i].ZIndex < diagram.Shapes[j].ZIndex
	})

	diagram.Connections = make([]agtarget.Connection, len(g.Edges))
	for i := range g.Edges {
		diagram.Connections[i] = toConnection(g.Edges[i])
	}

	return diagram, nil
}

func toShape(obj *aggraph.Object) agtarget.Shape {
	shape := agtarget.Shape{
		ID:        obj.AbsID(),
		Kind:      obj.Kind.String(),
		Level:     int(obj.Level()),
		Container: obj.IsContainer(),
		Scope:     obj.Scope,
		ZIndex:    int(obj.Level()),
	}
	if obj.TopLeft != nil {
		shape.Pos = agtarget.Point{X: int(math.Round(obj.TopLeft.X)), Y: int(math.Round(obj.TopLeft.Y))}
	}
	if obj.Box != nil {
		shape.Width = int(math.Ceil(obj.Width))
		shape.Height = int(math.Ceil(obj.Height))
	}

	shape.Fill = fillFor(obj)
	shape.Stroke = strokeFor(obj.Style, color.Ink)

	if obj.HasLabel() {
		shape.Label = obj.Label
		shape.LabelWidth = obj.LabelDimensions.Width
		shape.LabelHeight = obj.LabelDimensions.Height
		shape.FontSize = obj.FontSize()
		if obj.LabelPosition != nil {
			shape.LabelPosition = *obj.LabelPosition
		}
	}
	return shape
}

func toConnection(e *aggraph.Edge) agtarget.Connection {
	conn := agtarget.Connection{
		ID:       e.AbsID(),
		Src:      e.Src.AbsID(),
		SrcArrow: e.SrcArrow,
		Dst:      e.Dst.AbsID(),
		DstArrow: e.DstArrow,
		Stroke:   strokeFor(e.Style, color.Connector),
	}

	conn.Route = make([]*geo.Point, len(e.Route))
	for i, p := range e.Route {
		conn.Route[i] = p.Copy()
	}

	if e.HasLabel() {
		conn.Label = e.Label
		conn.LabelWidth = e.LabelDimensions.Width
		conn.LabelHeight = e.LabelDimensions.Height
		conn.FontSize = textmeasure.FONT_SIZE_M
		if e.LabelPosition != nil {
			conn.LabelPosition = *e.LabelPosition
		}
	}
	return conn
}

func fillFor(obj *aggraph.Object) string {
	if obj.Style.Fill != nil {
		if normalized, err := color.Normalize(*obj.Style.Fill); err == nil {
			return normalized
		}
		return *obj.Style.Fill
	}
	if obj.IsContainer() {
		return color.ContainerFill
	}
	return color.ElementFill
}

func strokeFor(style aggraph.Style, fallback string) string {
	if style.Stroke != nil {
		if normalized, err := color.Normalize(*style.Stroke); err == nil {
			return normalized
		}
		return *style.Stroke
	}
	return fallback
}
