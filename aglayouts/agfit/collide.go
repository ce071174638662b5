package agfit

import (
	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
)

type iconBox struct {
	obj *aggraph.Object
	box *geo.Box
}

// labelBox is a committed label and whichever element or connection
// owns it.
type labelBox struct {
	box       *geo.Box
	owner     *aggraph.Object
	ownerEdge *aggraph.Edge
}

func collectIcons(g *aggraph.Graph) []iconBox {
	var icons []iconBox
	for _, obj := range g.Objects {
		if obj.Box == nil || obj.TopLeft == nil {
			continue
		}
		icons = append(icons, iconBox{obj: obj, box: obj.Box})
	}
	return icons
}

func collectLabels(g *aggraph.Graph) []labelBox {
	var labels []labelBox
	for _, obj := range g.Objects {
		if !obj.HasLabel() {
			continue
		}
		tl := obj.GetLabelTopLeft()
		if tl == nil {
			continue
		}
		labels = append(labels, labelBox{
			box: geo.NewBox(tl,
				float64(obj.LabelDimensions.Width),
				float64(obj.LabelDimensions.Height)),
			owner: obj,
		})
	}
	for _, e := range g.Edges {
		if !e.HasLabel() || len(e.Route) < 2 {
			continue
		}
		tl := e.GetLabelTopLeft()
		if tl == nil {
			continue
		}
		labels = append(labels, labelBox{
			box: geo.NewBox(tl,
				float64(e.LabelDimensions.Width),
				float64(e.LabelDimensions.Height)),
			ownerEdge: e,
		})
	}
	return labels
}

// related reports containment in either direction. A container and its
// descendants overlap legitimately.
func related(a, b *aggraph.Object) bool {
	return a.IsDescendantOf(b) || b.IsDescendantOf(a)
}

// coveredOnPurpose excludes the icon-label pairs that overlap by
// construction: a label against its own icon, a label inside an
// ancestor container, and a connection label inside a container that
// holds both endpoints.
func coveredOnPurpose(ic iconBox, l labelBox) bool {
	if l.owner != nil {
		return l.owner.IsDescendantOf(ic.obj)
	}
	if l.ownerEdge != nil {
		return l.ownerEdge.Src.IsDescendantOf(ic.obj) &&
			l.ownerEdge.Dst.IsDescendantOf(ic.obj)
	}
	return false
}

// countCollisions tallies icon-icon overlaps, icon-label overlaps,
// label-label overlaps and connector segments cutting through labels.
func (f *fitter) countCollisions(g *aggraph.Graph) int {
	icons := collectIcons(g)
	labels := collectLabels(g)

	count := 0
	for i := 0; i < len(icons); i++ {
		for j := i + 1; j < len(icons); j++ {
			if related(icons[i].obj, icons[j].obj) {
				continue
			}
			if icons[i].box.Overlaps(icons[j].box) {
				count++
			}
		}
	}

	for _, l := range labels {
		for _, ic := range icons {
			if coveredOnPurpose(ic, l) {
				continue
			}
			if l.box.Overlaps(ic.box) {
				count++
			}
		}
	}

	for i := 0; i < len(labels); i++ {
		for j := i + 1; j < len(labels); j++ {
			if labels[i].box.Overlaps(labels[j].box) {
				count++
			}
		}
	}

	for _, e := range g.Edges {
		if len(e.Route) < 2 {
			continue
		}
		for i := 0; i < len(e.Route)-1; i++ {
			seg := *geo.NewSegment(e.Route[i], e.Route[i+1])
			for _, l := range labels {
				if l.ownerEdge == e {
					continue
				}
				if l.box.Intersects(seg) {
					count++
				}
			}
		}
	}

	return count
}
