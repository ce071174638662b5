// agsvg implements an SVG renderer for almagag diagrams.
// The input is agexporter's output.
package agsvg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strings"

	_ "embed"

	"github.com/Josexato/almagag/agtarget"
	"github.com/Josexato/almagag/lib/color"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/shape"
	"github.com/Josexato/almagag/lib/svg"
)

const (
	DEFAULT_PADDING = 100

	iconSize   = 24
	iconMargin = 10
)

//go:embed style.css
var baseStylesheet string

type RenderOpts struct {
	Pad *int64
	// the svg will be scaled by this factor, if unset width/height equal
	// the viewBox dimensions
	Scale    *float64
	NoXMLTag *bool
}

func dimensions(diagram *agtarget.Diagram, pad int) (left, top, width, height int) {
	tl, br := diagram.BoundingBox()
	left = tl.X - pad
	top = tl.Y - pad
	right := br.X + pad
	bottom := br.Y + pad

	// A hinted canvas can be larger than the content extent. The canvas
	// always hangs off the origin.
	if diagram.Width > 0 && diagram.Height > 0 {
		if left > 0 {
			left = 0
		}
		if top > 0 {
			top = 0
		}
		if right < diagram.Width {
			right = diagram.Width
		}
		if bottom < diagram.Height {
			bottom = diagram.Height
		}
	}

	return left, top, right - left, bottom - top
}

func hash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprint(h.Sum32())
}

func arrowheadMarkerID(diagramHash string, isTarget bool, connection agtarget.Connection) string {
	return fmt.Sprintf("mk-%s-%s", diagramHash, hash(fmt.Sprintf("%t,%s", isTarget, connection.Stroke)))
}

func arrowheadDimensions(strokeWidth float64) (width, height float64) {
	return 4 + strokeWidth*4, 4 + strokeWidth*4
}

func arrowheadMarker(isTarget bool, id string, connection agtarget.Connection) string {
	strokeWidth := float64(agtarget.STROKE_WIDTH)
	width, height := arrowheadDimensions(strokeWidth)

	var points string
	if isTarget {
		points = fmt.Sprintf("%f,%f %f,%f %f,%f %f,%f",
			0., 0.,
			width, height/2,
			0., height,
			width/4, height/2,
		)
	} else {
		points = fmt.Sprintf("%f,%f %f,%f %f,%f %f,%f",
			0., height/2,
			width, 0.,
			width*3/4, height/2,
			width, height,
		)
	}
	path := fmt.Sprintf(`<polygon class="connection" fill="%s" stroke-width="%d" points="%s" />`,
		connection.Stroke, agtarget.STROKE_WIDTH, points,
	)

	var refX float64
	refY := height / 2
	if isTarget {
		refX = width - 1.5*strokeWidth
	} else {
		refX = 1.5 * strokeWidth
	}

	return strings.Join([]string{
		fmt.Sprintf(`<marker id="%s" markerWidth="%f" markerHeight="%f" refX="%f" refY="%f"`,
			id, width, height, refX, refY,
		),
		fmt.Sprintf(`viewBox="%f %f %f %f"`, 0., 0., width, height),
		`orient="auto" markerUnits="userSpaceOnUse">`,
		path,
		"</marker>",
	}, " ")
}

// compute the (dx, dy) adjustment to apply to get the arrowhead-adjusted end point
func arrowheadAdjustment(start, end *geo.Point, hasArrowhead bool) *geo.Point {
	distance := float64(agtarget.STROKE_WIDTH)
	if hasArrowhead {
		distance += float64(agtarget.STROKE_WIDTH)
	}

	v := geo.NewVector(end.X-start.X, end.Y-start.Y)
	return v.Unit().Multiply(-distance).ToPoint()
}

func getArrowheadAdjustments(connection agtarget.Connection) (srcAdj, dstAdj *geo.Point) {
	route := connection.Route
	srcAdj = arrowheadAdjustment(route[1], route[0], connection.SrcArrow)
	dstAdj = arrowheadAdjustment(route[len(route)-2], route[len(route)-1], connection.DstArrow)
	return srcAdj, dstAdj
}

func pathData(connection agtarget.Connection, srcAdj, dstAdj *geo.Point) string {
	var path []string
	route := connection.Route

	path = append(path, fmt.Sprintf("M %f %f",
		route[0].X+srcAdj.X,
		route[0].Y+srcAdj.Y,
	))
	for i := 1; i < len(route)-1; i++ {
		path = append(path, fmt.Sprintf("L %f %f", route[i].X, route[i].Y))
	}
	lastPoint := route[len(route)-1]
	path = append(path, fmt.Sprintf("L %f %f",
		lastPoint.X+dstAdj.X,
		lastPoint.Y+dstAdj.Y,
	))

	return strings.Join(path, " ")
}

func RenderText(text string, x, height float64) string {
	if !strings.Contains(text, "\n") {
		return svg.EscapeText(text)
	}
	rendered := []string{}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		dy := height / float64(len(lines))
		if i == 0 {
			dy = 0
		}
		escaped := svg.EscapeText(line)
		if escaped == "" {
			// if there are multiple newlines in a row we still need text for the tspan to render
			escaped = " "
		}
		rendered = append(rendered, fmt.Sprintf(`<tspan x="%f" dy="%f">%s</tspan>`, x, dy, escaped))
	}
	return strings.Join(rendered, "")
}

func drawConnection(writer io.Writer, diagramHash string, connection agtarget.Connection, markers map[string]struct{}) {
	class := base64.URLEncoding.EncodeToString([]byte(svg.EscapeText(connection.ID)))
	fmt.Fprintf(writer, `<g class="%s" data-id="%s">`, class, svg.EscapeText(connection.ID))

	// a self loop's route collapses to a point, only its label is visible
	if geo.Route(connection.Route).Length() > 0 {
		var markerStart string
		if connection.SrcArrow {
			id := arrowheadMarkerID(diagramHash, false, connection)
			if _, in := markers[id]; !in {
				fmt.Fprint(writer, arrowheadMarker(false, id, connection))
				markers[id] = struct{}{}
			}
			markerStart = fmt.Sprintf(`marker-start="url(#%s)" `, id)
		}
		var markerEnd string
		if connection.DstArrow {
			id := arrowheadMarkerID(diagramHash, true, connection)
			if _, in := markers[id]; !in {
				fmt.Fprint(writer, arrowheadMarker(true, id, connection))
				markers[id] = struct{}{}
			}
			markerEnd = fmt.Sprintf(`marker-end="url(#%s)" `, id)
		}

		srcAdj, dstAdj := getArrowheadAdjustments(connection)
		fmt.Fprintf(writer, `<path d="%s" class="connection" fill="none" stroke="%s" stroke-width="%d" %s%s/>`,
			pathData(connection, srcAdj, dstAdj),
			connection.Stroke, agtarget.STROKE_WIDTH,
			markerStart, markerEnd,
		)
	}

	if labelBox := connection.LabelBox(); labelBox != nil {
		x := labelBox.TopLeft.X + labelBox.Width/2
		y := labelBox.TopLeft.Y + float64(connection.FontSize)
		fmt.Fprintf(writer, `<text class="text-italic" x="%f" y="%f" style="text-anchor:middle;font-size:%dpx">%s</text>`,
			x, y, connection.FontSize,
			RenderText(connection.Label, x, labelBox.Height),
		)
	}

	fmt.Fprint(writer, `</g>`)
}

func drawShape(writer io.Writer, targetShape agtarget.Shape) {
	class := base64.URLEncoding.EncodeToString([]byte(svg.EscapeText(targetShape.ID)))
	fmt.Fprintf(writer, `<g class="shape %s" data-id="%s">`, class, svg.EscapeText(targetShape.ID))

	fill := targetShape.Fill
	if targetShape.Container {
		// deeper containers fade toward the page so nesting reads at a glance
		if tinted, err := color.Tint(fill, targetShape.Level); err == nil {
			fill = tinted
		}
	}
	fmt.Fprintf(writer, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="%d" />`,
		targetShape.Pos.X, targetShape.Pos.Y, targetShape.Width, targetShape.Height,
		fill, targetShape.Stroke, agtarget.STROKE_WIDTH,
	)

	kind := shape.FromString(targetShape.Kind)
	if kind != shape.Generic {
		var tl *geo.Point
		if targetShape.Container {
			tl = geo.NewPoint(
				float64(targetShape.Pos.X)+iconMargin,
				float64(targetShape.Pos.Y)+iconMargin,
			)
		} else {
			tl = geo.NewPoint(
				float64(targetShape.Pos.X)+float64(targetShape.Width)/2-iconSize/2,
				float64(targetShape.Pos.Y)+float64(targetShape.Height)/2-iconSize/2,
			)
		}
		fmt.Fprintf(writer, `<g transform="translate(%f %f)"><path d="%s" fill="none" stroke="%s" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round" /></g>`,
			tl.X, tl.Y, kind.IconPath(), targetShape.Stroke,
		)
	}

	if labelBox := targetShape.LabelBox(); labelBox != nil {
		fontClass := "text-bold"
		if targetShape.Container {
			fontClass = "text"
		}
		x := labelBox.TopLeft.X + labelBox.Width/2
		y := labelBox.TopLeft.Y + float64(targetShape.FontSize)
		fmt.Fprintf(writer, `<text class="%s" x="%f" y="%f" style="text-anchor:middle;font-size:%dpx">%s</text>`,
			fontClass, x, y, targetShape.FontSize,
			RenderText(targetShape.Label, x, labelBox.Height),
		)
	}

	fmt.Fprint(writer, `</g>`)
}

func Render(diagram *agtarget.Diagram, opts *RenderOpts) ([]byte, error) {
	pad := DEFAULT_PADDING
	var scale *float64
	noXMLTag := false
	if opts != nil {
		if opts.Pad != nil {
			pad = int(*opts.Pad)
		}
		scale = opts.Scale
		if opts.NoXMLTag != nil {
			noXMLTag = *opts.NoXMLTag
		}
	}

	diagramHash, err := diagram.HashID()
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}

	// SVG has no notion of z-index, the z-index is effectively the order
	// it's drawn. So draw from the least nested to the most nested.
	markers := map[string]struct{}{}
	for _, targetShape := range diagram.Shapes {
		drawShape(buf, targetShape)
	}
	for _, connection := range diagram.Connections {
		if len(connection.Route) < 2 {
			continue
		}
		drawConnection(buf, diagramHash, connection, markers)
	}

	left, top, w, h := dimensions(diagram, pad)

	var dims string
	if scale != nil {
		dims = fmt.Sprintf(` width="%d" height="%d"`,
			int(math.Ceil((*scale)*float64(w))),
			int(math.Ceil((*scale)*float64(h))),
		)
	} else {
		dims = fmt.Sprintf(` width="%d" height="%d"`, w, h)
	}

	xmlTag := ""
	if !noXMLTag {
		xmlTag = `<?xml version="1.0" encoding="utf-8"?>`
	}

	docRendered := fmt.Sprintf(`%s<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" class="%s"%s viewBox="%d %d %d %d"><style type="text/css"><![CDATA[%s]]></style><rect x="%d" y="%d" width="%d" height="%d" fill="%s" />%s</svg>`,
		xmlTag,
		diagramHash,
		dims,
		left, top, w, h,
		baseStylesheet,
		left, top, w, h, color.Paper,
		buf.String(),
	)
	return []byte(docRendered), nil
}
