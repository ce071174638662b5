package aghier

import (
	"context"
	"math"

	"cdr.dev/slog"

	"oss.terrastruct.com/util-go/go2"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
	"github.com/Josexato/almagag/lib/log"
)

func (hg *hierGraph) route(ctx context.Context) {
	Route(ctx, hg.graph)
}

// Route draws every connection as a straight segment between the two
// centers, clipped to the source and target borders so arrowheads land
// on the outline. It can rerun on its own after elements move.
func Route(ctx context.Context, g *aggraph.Graph) {
	routed := 0
	for _, e := range g.Edges {
		if e.Src == nil || e.Dst == nil || e.Src.Box == nil || e.Dst.Box == nil {
			continue
		}
		if e.Src.TopLeft == nil || e.Dst.TopLeft == nil {
			continue
		}
		start := e.Src.Center()
		end := e.Dst.Center()
		seg := *geo.NewSegment(start, end)
		if clipped := clipToBorder(e.Src.Box, seg, end); clipped != nil {
			start = clipped
		}
		if clipped := clipToBorder(e.Dst.Box, seg, start); clipped != nil {
			end = clipped
		}
		e.Route = []*geo.Point{start, end}
		if e.HasLabel() && e.LabelPosition == nil {
			e.LabelPosition = go2.Pointer(label.InsideMiddleCenter.String())
		}
		routed++
	}
	log.Debug(ctx, "routed connections", slog.F("count", routed))
}

// clipToBorder returns the border crossing nearest the far endpoint, or
// nil when the segment never crosses the outline, as happens between
// overlapping boxes.
func clipToBorder(box *geo.Box, seg geo.Segment, toward *geo.Point) *geo.Point {
	var best *geo.Point
	bestD := math.MaxFloat64
	for _, p := range box.Intersections(seg) {
		d := geo.EuclideanDistance(p.X, p.Y, toward.X, toward.Y)
		if d < bestD {
			best = p
			bestD = d
		}
	}
	return best
}
