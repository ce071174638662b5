package aghier

import (
	"math"
)

// redistribute re-spaces rows using the true post-growth boxes: each
// row starts below the tallest element of the row above, and every
// element re-centers on the column the optimizer gave it. Relative
// ordering never changes here.
func (hg *hierGraph) redistribute() {
	rowTop := 0.0
	for _, layer := range hg.layers {
		rowHeight := 0.0
		for _, obj := range layer {
			rowHeight = math.Max(rowHeight, obj.Height)
		}
		for _, obj := range layer {
			dx := (hg.centerX[obj] - obj.Width/2) - obj.TopLeft.X
			dy := (rowTop + (rowHeight-obj.Height)/2) - obj.TopLeft.Y
			if dx != 0 || dy != 0 {
				obj.MoveWithDescendants(dx, dy)
			}
		}
		rowTop += rowHeight + float64(hg.opts.RowGap)
	}
}
