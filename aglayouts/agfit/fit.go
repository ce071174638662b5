package agfit

import (
	"context"
	"fmt"
	"math"

	"cdr.dev/slog"

	"oss.terrastruct.com/util-go/xdefer"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/aglayouts/aghier"
	"github.com/Josexato/almagag/agstructure"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/log"
)

type ConfigurableOpts struct {
	MaxIterations int `json:"maxiterations"`
	CanvasPadding int `json:"canvaspadding"`
}

var DefaultOpts = ConfigurableOpts{
	MaxIterations: MAX_FIT_ITERATIONS,
	CanvasPadding: int(CANVAS_PADDING),
}

type fitter struct {
	opts *ConfigurableOpts

	// keyed by absolute id so trial copies can look their scores up
	accessibility map[string]float64
}

func DefaultLayout(ctx context.Context, g *aggraph.Graph) error {
	return Layout(ctx, g, nil)
}

// Layout commits every label and resolves the overlaps the hierarchy
// layout left behind. Each iteration trials a single relocation on a
// deep copy and adopts it only when the collision count strictly
// drops, so the committed layout never gets worse.
func Layout(ctx context.Context, g *aggraph.Graph, opts *ConfigurableOpts) (err error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	defer xdefer.Errorf(&err, "failed to fit layout")

	info := agstructure.Analyze(ctx, g, nil)
	f := &fitter{
		opts:          opts,
		accessibility: make(map[string]float64, len(info.Accessibility)),
	}
	for obj, score := range info.Accessibility {
		f.accessibility[obj.AbsID()] = score
	}

	f.placeLabels(g)
	f.sizeCanvas(g)
	best := f.countCollisions(g)
	log.Debug(ctx, "initial fit", slog.F("collisions", best))

	for iter := 0; iter < opts.MaxIterations && best > 0; iter++ {
		trial := g.Copy()
		if !f.relocateOne(trial, iter) {
			break
		}
		aghier.Route(ctx, trial)
		f.placeLabels(trial)
		f.sizeCanvas(trial)
		count := f.countCollisions(trial)
		if count < best {
			adoptLayout(g, trial)
			best = count
			log.Debug(ctx, "relocation adopted",
				slog.F("iteration", iter),
				slog.F("collisions", best),
			)
		}
	}

	if best > 0 {
		log.Warn(ctx, fmt.Sprintf("%d collisions remain", best))
	}
	return nil
}

// contentBox bounds the icons and routes. Labels are excluded on
// purpose: they score against the canvas rather than define it.
func contentBox(g *aggraph.Graph) *geo.Box {
	minX := math.Inf(1)
	minY := math.Inf(1)
	maxX := math.Inf(-1)
	maxY := math.Inf(-1)

	for _, obj := range g.Objects {
		if obj.Box == nil || obj.TopLeft == nil {
			continue
		}
		minX = math.Min(minX, obj.TopLeft.X)
		minY = math.Min(minY, obj.TopLeft.Y)
		maxX = math.Max(maxX, obj.TopLeft.X+obj.Width)
		maxY = math.Max(maxY, obj.TopLeft.Y+obj.Height)
	}
	for _, e := range g.Edges {
		for _, p := range e.Route {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}

	if math.IsInf(minX, 1) {
		return geo.NewBox(geo.NewPoint(0, 0), 0, 0)
	}
	return geo.NewBox(geo.NewPoint(minX, minY), maxX-minX, maxY-minY)
}

// canvasBox is the rectangle labels are scored against. A hinted canvas
// is anchored at the origin; otherwise the canvas hugs the content.
func (f *fitter) canvasBox(g *aggraph.Graph) *geo.Box {
	if g.Canvas != nil && g.Canvas.Hinted {
		return geo.NewBox(geo.NewPoint(0, 0), g.Canvas.Width, g.Canvas.Height)
	}
	box := contentBox(g)
	pad := float64(f.opts.CanvasPadding)
	return geo.NewBox(
		geo.NewPoint(box.TopLeft.X-pad, box.TopLeft.Y-pad),
		box.Width+2*pad,
		box.Height+2*pad,
	)
}

// sizeCanvas settles the recorded canvas dimensions. Author-hinted
// dimensions hold unless the content has outgrown them, in which case
// the canvas expands; it never shrinks below the hint.
func (f *fitter) sizeCanvas(g *aggraph.Graph) {
	box := contentBox(g)
	pad := float64(f.opts.CanvasPadding)
	if g.Canvas == nil {
		g.Canvas = &aggraph.Canvas{}
	}
	if g.Canvas.Hinted {
		g.Canvas.Width = math.Max(g.Canvas.Width, box.TopLeft.X+box.Width+pad)
		g.Canvas.Height = math.Max(g.Canvas.Height, box.TopLeft.Y+box.Height+pad)
		return
	}
	g.Canvas.Width = box.Width + 2*pad
	g.Canvas.Height = box.Height + 2*pad
}

// adoptLayout copies the geometry of an accepted trial back onto the
// caller's graph. Objects pair up by absolute id, edges by indexed id.
func adoptLayout(dst, src *aggraph.Graph) {
	objects := make(map[string]*aggraph.Object, len(src.Objects))
	for _, obj := range src.Objects {
		objects[obj.AbsID()] = obj
	}
	for _, obj := range dst.Objects {
		s, ok := objects[obj.AbsID()]
		if !ok {
			continue
		}
		obj.TopLeft = s.TopLeft.Copy()
		obj.Width = s.Width
		obj.Height = s.Height
		obj.LabelPosition = copyPosition(s.LabelPosition)
	}

	edges := make(map[string]*aggraph.Edge, len(src.Edges))
	for _, e := range src.Edges {
		edges[e.AbsID()] = e
	}
	for _, e := range dst.Edges {
		s, ok := edges[e.AbsID()]
		if !ok {
			continue
		}
		e.Route = nil
		for _, p := range s.Route {
			e.Route = append(e.Route, p.Copy())
		}
		e.LabelPosition = copyPosition(s.LabelPosition)
	}

	dst.Canvas = src.Canvas.Copy()
}

func copyPosition(pos *string) *string {
	if pos == nil {
		return nil
	}
	tmp := *pos
	return &tmp
}
