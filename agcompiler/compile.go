package agcompiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cdr.dev/slog"

	"github.com/goccy/go-yaml"

	"oss.terrastruct.com/util-go/xdefer"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/log"
	"github.com/Josexato/almagag/lib/shape"
	"github.com/Josexato/almagag/lib/textmeasure"
)

type CompileOptions struct {
	// Ruler measures label dimensions. Nil skips measuring, for callers
	// that only need the structure.
	Ruler *textmeasure.Ruler
}

// document is the wire form of a diagram description.
type document struct {
	Canvas      *canvasDoc      `yaml:"canvas"`
	Elements    []elementDoc    `yaml:"elements"`
	Connections []connectionDoc `yaml:"connections"`
}

type canvasDoc struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type elementDoc struct {
	ID               string        `yaml:"id"`
	Type             string        `yaml:"type"`
	Label            *string       `yaml:"label"`
	X                *int          `yaml:"x"`
	Y                *int          `yaml:"y"`
	Width            *int          `yaml:"width"`
	Height           *int          `yaml:"height"`
	WidthProportion  *float64      `yaml:"width-proportion"`
	HeightProportion *float64      `yaml:"height-proportion"`
	Contains         []containsDoc `yaml:"contains"`
	Style            *styleDoc     `yaml:"style"`
}

type containsDoc struct {
	ID    string `yaml:"id"`
	Scope string `yaml:"scope"`
}

type connectionDoc struct {
	From      string    `yaml:"from"`
	To        string    `yaml:"to"`
	Label     string    `yaml:"label"`
	Direction string    `yaml:"direction"`
	Style     *styleDoc `yaml:"style"`
}

type styleDoc struct {
	Fill          *string `yaml:"fill"`
	Stroke        *string `yaml:"stroke"`
	TextTransform *string `yaml:"text-transform"`
}

// Compile parses a YAML diagram description into a graph. Unknown
// references are skipped, not errored: a connection or contains entry
// naming an element that does not exist simply drops. Structural
// mistakes an author must fix (duplicate ids, containing an element
// twice) and unparseable YAML are the only errors.
func Compile(ctx context.Context, input string, opts *CompileOptions) (_ *aggraph.Graph, err error) {
	if opts == nil {
		opts = &CompileOptions{}
	}
	defer xdefer.Errorf(&err, "failed to compile")

	var doc document
	dec := yaml.NewDecoder(strings.NewReader(input))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	g := aggraph.NewGraph()
	if doc.Canvas != nil {
		g.Canvas = &aggraph.Canvas{
			Width:  doc.Canvas.Width,
			Height: doc.Canvas.Height,
			Hinted: true,
		}
	}

	// ids are case insensitive like the rest of the graph
	byID := make(map[string]*aggraph.Object, len(doc.Elements))
	for _, el := range doc.Elements {
		if el.ID == "" {
			return nil, errors.New("element without an id")
		}
		if _, ok := g.Root.HasChild(el.ID); ok {
			return nil, fmt.Errorf("duplicate element id %q", el.ID)
		}
		obj := g.Root.EnsureChild(el.ID)
		compileElement(ctx, obj, el)
		byID[strings.ToLower(el.ID)] = obj
	}

	for _, el := range doc.Elements {
		parent := byID[strings.ToLower(el.ID)]
		for _, entry := range el.Contains {
			child, ok := byID[strings.ToLower(entry.ID)]
			if !ok {
				log.Debug(ctx, "skipping unknown contained element",
					slog.F("container", el.ID),
					slog.F("id", entry.ID),
				)
				continue
			}
			if err := child.ReParent(parent); err != nil {
				return nil, err
			}
			child.Scope = entry.Scope
		}
	}

	for _, conn := range doc.Connections {
		src, okSrc := byID[strings.ToLower(conn.From)]
		dst, okDst := byID[strings.ToLower(conn.To)]
		if !okSrc || !okDst {
			log.Debug(ctx, "skipping connection with unknown endpoint",
				slog.F("from", conn.From),
				slog.F("to", conn.To),
			)
			continue
		}
		srcArrow, dstArrow := arrows(ctx, conn.Direction)
		e, err := g.Connect(src, dst, srcArrow, dstArrow, conn.Label)
		if err != nil {
			return nil, err
		}
		if conn.Style != nil {
			e.Style = aggraph.Style{
				Fill:          conn.Style.Fill,
				Stroke:        conn.Style.Stroke,
				TextTransform: conn.Style.TextTransform,
			}
		}
	}

	if opts.Ruler != nil {
		if err := g.SetDimensions(opts.Ruler); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func compileElement(ctx context.Context, obj *aggraph.Object, el elementDoc) {
	obj.Kind = shape.FromString(el.Type)
	if el.Label != nil {
		obj.Label = *el.Label
	}

	obj.XAttr = el.X
	obj.YAttr = el.Y
	obj.WidthAttr = el.Width
	obj.HeightAttr = el.Height

	if el.WidthProportion != nil {
		if *el.WidthProportion > 0 {
			obj.WidthScale = *el.WidthProportion
		} else {
			log.Debug(ctx, "ignoring non-positive width-proportion",
				slog.F("id", el.ID),
				slog.F("width-proportion", *el.WidthProportion),
			)
		}
	}
	if el.HeightProportion != nil {
		if *el.HeightProportion > 0 {
			obj.HeightScale = *el.HeightProportion
		} else {
			log.Debug(ctx, "ignoring non-positive height-proportion",
				slog.F("id", el.ID),
				slog.F("height-proportion", *el.HeightProportion),
			)
		}
	}

	if el.Style != nil {
		obj.Style = aggraph.Style{
			Fill:          el.Style.Fill,
			Stroke:        el.Style.Stroke,
			TextTransform: el.Style.TextTransform,
		}
	}
}

func arrows(ctx context.Context, direction string) (srcArrow, dstArrow bool) {
	switch direction {
	case "", "forward":
		return false, true
	case "backward":
		return true, false
	case "bidirectional":
		return true, true
	case "none":
		return false, false
	default:
		log.Debug(ctx, "unknown connection direction, assuming forward",
			slog.F("direction", direction),
		)
		return false, true
	}
}
