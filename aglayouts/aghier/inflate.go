package aghier

import (
	"context"
	"math"

	"cdr.dev/slog"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
	"github.com/Josexato/almagag/lib/log"
)

// inflate turns grid slots into pixel positions. The column width
// follows the widest estimated cell so grown containers are likely to
// fit without shoving their neighbors, row heights follow the tallest
// cell per row.
func (hg *hierGraph) inflate(ctx context.Context) {
	xStep := float64(hg.opts.NodeSpacing)
	for _, obj := range hg.info.Primaries {
		w, _ := hg.estimateCell(obj)
		xStep = math.Max(xStep, w+float64(hg.opts.NodeSpacing))
	}

	rowTop := 0.0
	for _, layer := range hg.layers {
		rowHeight := 0.0
		for _, obj := range layer {
			_, h := hg.estimateCell(obj)
			rowHeight = math.Max(rowHeight, h)
		}
		for _, obj := range layer {
			w, h := hg.estimateCell(obj)
			cx := float64(hg.slot[obj])*xStep + xStep/2
			hg.centerX[obj] = cx
			obj.TopLeft = geo.NewPoint(cx-w/2, rowTop+(rowHeight-h)/2)
		}
		rowTop += rowHeight + float64(hg.opts.RowGap)
	}

	// contained elements ride along provisionally, tucked just inside
	// their container's corner until growth does the real layout
	for _, obj := range hg.info.Primaries {
		hg.nudgeDescendants(obj)
	}

	log.Debug(ctx, "inflated to pixels", slog.F("column_width", xStep))
}

// estimateCell guesses the pixel footprint of an element before
// containers are grown. Leaves already carry their final measured box,
// containers get a square-ish grid guess from their child count.
func (hg *hierGraph) estimateCell(obj *aggraph.Object) (w, h float64) {
	if !obj.IsContainer() || obj.SizeComputed {
		return obj.Width, obj.Height
	}
	maxW, maxH := 0.0, 0.0
	for _, child := range obj.ChildrenArray {
		cw, ch := hg.estimateCell(child)
		maxW = math.Max(maxW, cw)
		maxH = math.Max(maxH, ch)
	}
	n := len(obj.ChildrenArray)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	pad := float64(hg.opts.Padding)
	w = float64(cols)*maxW + float64(cols+1)*pad
	h = float64(rows)*maxH + float64(rows+1)*pad + hg.headerHeight(obj)
	return math.Max(w, obj.Width), math.Max(h, obj.Height)
}

// headerHeight is the band reserved at the top of a container for its
// kind glyph and label.
func (hg *hierGraph) headerHeight(obj *aggraph.Object) float64 {
	h := float64(HEADER_ICON_SIZE)
	if obj.HasLabel() {
		h = math.Max(h, float64(obj.LabelDimensions.Height))
	}
	return h + 2*label.PADDING
}

func (hg *hierGraph) nudgeDescendants(obj *aggraph.Object) {
	for _, child := range obj.ChildrenArray {
		if !child.Pinned() {
			child.TopLeft = geo.NewPoint(
				obj.TopLeft.X+CHILD_PLACEMENT_OFFSET,
				obj.TopLeft.Y+CHILD_PLACEMENT_OFFSET,
			)
		}
		hg.nudgeDescendants(child)
	}
}
