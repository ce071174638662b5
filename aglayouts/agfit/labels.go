package agfit

import (
	"math"

	"oss.terrastruct.com/util-go/go2"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
)

// elementCandidates are tried for primary leaves, conventional spot
// first.
var elementCandidates = []label.Position{
	label.OutsideBottomCenter,
	label.OutsideTopCenter,
	label.OutsideLeftMiddle,
	label.OutsideRightMiddle,
}

// containerCandidates only matter when growth has not committed a
// header position already.
var containerCandidates = []label.Position{
	label.InsideTopCenter,
	label.OutsideTopCenter,
	label.OutsideBottomCenter,
}

var edgeCandidates = []label.Position{
	label.InsideMiddleCenter,
	label.OutsideTopCenter,
	label.OutsideBottomCenter,
	label.InsideMiddleLeft,
	label.InsideMiddleRight,
	label.OutsideTopLeft,
	label.OutsideBottomLeft,
	label.OutsideTopRight,
}

// placeLabels runs the greedy pass. Labels committed by the container
// grower hold their ground, then primary element labels commit in
// declaration order, then connection labels. Every commitment
// immediately becomes an obstacle for the labels after it.
func (f *fitter) placeLabels(g *aggraph.Graph) {
	icons := collectIcons(g)
	canvas := f.canvasBox(g)
	var placed []labelBox

	for _, obj := range g.Objects {
		if f.placesLabelOf(obj) {
			continue
		}
		tl := obj.GetLabelTopLeft()
		if tl == nil {
			continue
		}
		placed = append(placed, labelBox{
			box: geo.NewBox(tl,
				float64(obj.LabelDimensions.Width),
				float64(obj.LabelDimensions.Height)),
			owner: obj,
		})
	}

	for _, obj := range g.Objects {
		if !f.placesLabelOf(obj) {
			continue
		}
		candidates := elementCandidates
		if obj.IsContainer() {
			candidates = containerCandidates
		}
		pos, box := f.bestBoxPosition(g, obj, candidates, canvas, icons, placed)
		obj.LabelPosition = go2.Pointer(pos.String())
		placed = append(placed, labelBox{box: box, owner: obj})
	}

	for _, e := range g.Edges {
		if !e.HasLabel() || len(e.Route) < 2 {
			continue
		}
		pos, box := f.bestRoutePosition(g, e, canvas, icons, placed)
		e.LabelPosition = go2.Pointer(pos.String())
		placed = append(placed, labelBox{box: box, ownerEdge: e})
	}
}

// placesLabelOf reports whether the fitter owns this object's label.
// Container headers and child labels chosen during growth are fixed;
// primary leaf labels are rescored every round.
func (f *fitter) placesLabelOf(obj *aggraph.Object) bool {
	if !obj.HasLabel() || obj.Box == nil || obj.TopLeft == nil {
		return false
	}
	if !obj.IsPrimary() {
		return false
	}
	if obj.IsContainer() {
		return obj.LabelPosition == nil
	}
	return true
}

func (f *fitter) bestBoxPosition(g *aggraph.Graph, obj *aggraph.Object, candidates []label.Position, canvas *geo.Box, icons []iconBox, placed []labelBox) (label.Position, *geo.Box) {
	w := float64(obj.LabelDimensions.Width)
	h := float64(obj.LabelDimensions.Height)
	anchor := obj.Center()

	bestPos := candidates[0]
	var bestBox *geo.Box
	bestScore := math.Inf(1)
	for i, pos := range candidates {
		tl := pos.GetPointOnBox(obj.Box, label.PADDING, w, h)
		box := geo.NewBox(tl, w, h)
		cand := labelBox{box: box, owner: obj}
		score := f.score(g, cand, anchor, canvas, icons, placed, i == 0)
		if score < bestScore {
			bestScore = score
			bestPos = pos
			bestBox = box
		}
	}
	return bestPos, bestBox
}

func (f *fitter) bestRoutePosition(g *aggraph.Graph, e *aggraph.Edge, canvas *geo.Box, icons []iconBox, placed []labelBox) (label.Position, *geo.Box) {
	w := float64(e.LabelDimensions.Width)
	h := float64(e.LabelDimensions.Height)
	route := geo.Route(e.Route)

	// degenerate routes have no usable direction
	if route.Length() == 0 {
		p := e.Route[0]
		return label.InsideMiddleCenter, geo.NewBox(geo.NewPoint(p.X-w/2, p.Y-h/2), w, h)
	}

	anchor, _ := route.GetPointAtDistance(route.Length() / 2)

	bestPos := edgeCandidates[0]
	var bestBox *geo.Box
	bestScore := math.Inf(1)
	for i, pos := range edgeCandidates {
		tl, _ := pos.GetPointOnRoute(route, aggraph.STROKE_WIDTH, w, h)
		if tl == nil {
			continue
		}
		box := geo.NewBox(tl, w, h)
		cand := labelBox{box: box, ownerEdge: e}
		score := f.score(g, cand, anchor, canvas, icons, placed, i == 0)
		if score < bestScore {
			bestScore = score
			bestPos = pos
			bestBox = box
		}
	}
	if bestBox == nil {
		p := anchor
		return label.InsideMiddleCenter, geo.NewBox(geo.NewPoint(p.X-w/2, p.Y-h/2), w, h)
	}
	return bestPos, bestBox
}

// score sums a candidate's penalties. Leaving the canvas is severe,
// covering an element is high, crossing a connector comes next, then
// clipping another label, then crowding pressure within a fixed
// radius, a gentle pull toward the anchor, and a bonus that keeps ties
// on the conventional side.
func (f *fitter) score(g *aggraph.Graph, cand labelBox, anchor *geo.Point, canvas *geo.Box, icons []iconBox, placed []labelBox, preferred bool) float64 {
	score := 0.0

	if !containsBox(canvas, cand.box) {
		score += PENALTY_OUT_OF_CANVAS
	}

	for _, ic := range icons {
		if coveredOnPurpose(ic, cand) {
			continue
		}
		if cand.box.Overlaps(ic.box) {
			score += PENALTY_ELEMENT_OVERLAP
		}
	}

	for _, e := range g.Edges {
		if e == cand.ownerEdge || len(e.Route) < 2 {
			continue
		}
		for i := 0; i < len(e.Route)-1; i++ {
			if cand.box.Intersects(*geo.NewSegment(e.Route[i], e.Route[i+1])) {
				score += PENALTY_LINE_CROSSING
			}
		}
	}

	center := cand.box.Center()
	for _, other := range placed {
		if cand.box.Overlaps(other.box) {
			score += PENALTY_LABEL_OVERLAP
		}
		oc := other.box.Center()
		if geo.EuclideanDistance(center.X, center.Y, oc.X, oc.Y) < DENSITY_RADIUS {
			score += PENALTY_DENSITY
		}
	}

	score += DISTANCE_WEIGHT * geo.EuclideanDistance(center.X, center.Y, anchor.X, anchor.Y)
	if preferred {
		score -= PREFERRED_SIDE_BONUS
	}
	return score
}

func containsBox(outer, inner *geo.Box) bool {
	return inner.TopLeft.X >= outer.TopLeft.X &&
		inner.TopLeft.Y >= outer.TopLeft.Y &&
		inner.TopLeft.X+inner.Width <= outer.TopLeft.X+outer.Width &&
		inner.TopLeft.Y+inner.Height <= outer.TopLeft.Y+outer.Height
}
