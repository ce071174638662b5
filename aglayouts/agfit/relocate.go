package agfit

import (
	"math"
	"sort"

	"github.com/Josexato/almagag/aggraph"
)

// relocateOne nudges a single crowded element toward the side with the
// most free space. Reports false when nothing is allowed to move.
func (f *fitter) relocateOne(g *aggraph.Graph, iter int) bool {
	icons := collectIcons(g)

	overlapping := make(map[*aggraph.Object]int)
	for i := 0; i < len(icons); i++ {
		for j := i + 1; j < len(icons); j++ {
			if related(icons[i].obj, icons[j].obj) {
				continue
			}
			if icons[i].box.Overlaps(icons[j].box) {
				overlapping[icons[i].obj]++
				overlapping[icons[j].obj]++
			}
		}
	}

	var movable []*aggraph.Object
	for _, obj := range g.Objects {
		if !obj.IsPrimary() || obj.Pinned() {
			continue
		}
		if obj.Box == nil || obj.TopLeft == nil {
			continue
		}
		if f.accessibility[obj.AbsID()] >= HIGH_PRIORITY_ACCESSIBILITY {
			continue
		}
		movable = append(movable, obj)
	}
	if len(movable) == 0 {
		return false
	}
	sort.SliceStable(movable, func(i, j int) bool {
		if overlapping[movable[i]] != overlapping[movable[j]] {
			return overlapping[movable[i]] > overlapping[movable[j]]
		}
		return movable[i].AbsID() < movable[j].AbsID()
	})
	obj := movable[iter%len(movable)]

	// larger elements take smaller steps; repeat visits push harder so a
	// rejected nudge is not retried verbatim
	scale := obj.WidthScale * obj.HeightScale
	if scale <= 0 {
		scale = 1
	}
	rounds := iter / len(movable)
	step := RELOCATE_STEP * float64(rounds+1) / scale

	free := freeSpace(obj, icons)
	// down, right, left, up; earlier wins ties
	best := 0
	for d := 1; d < len(free); d++ {
		if free[d] > free[best] {
			best = d
		}
	}
	move := step
	if free[best] > 0 && free[best] < math.MaxFloat64 {
		move = math.Min(step, free[best])
	}
	if free[best] <= 0 {
		// boxed in on every side: push down and let the canvas grow
		best = 0
		move = step
	}

	switch best {
	case 0:
		obj.MoveWithDescendants(0, move)
	case 1:
		obj.MoveWithDescendants(move, 0)
	case 2:
		obj.MoveWithDescendants(-move, 0)
	case 3:
		obj.MoveWithDescendants(0, -move)
	}
	return true
}

// freeSpace measures the gap to the nearest unrelated icon in each of
// down, right, left and up. Unobstructed directions report MaxFloat64.
func freeSpace(obj *aggraph.Object, icons []iconBox) [4]float64 {
	free := [4]float64{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}

	top := obj.TopLeft.Y
	bottom := top + obj.Height
	left := obj.TopLeft.X
	right := left + obj.Width

	for _, ic := range icons {
		if ic.obj == obj || related(ic.obj, obj) {
			continue
		}
		oTop := ic.box.TopLeft.Y
		oBottom := oTop + ic.box.Height
		oLeft := ic.box.TopLeft.X
		oRight := oLeft + ic.box.Width

		sharesColumn := oLeft < right && oRight > left
		sharesRow := oTop < bottom && oBottom > top

		if sharesColumn {
			if oTop >= bottom {
				free[0] = math.Min(free[0], oTop-bottom)
			}
			if oBottom <= top {
				free[3] = math.Min(free[3], top-oBottom)
			}
		}
		if sharesRow {
			if oLeft >= right {
				free[1] = math.Min(free[1], oLeft-right)
			}
			if oRight <= left {
				free[2] = math.Min(free[2], oRight-left)
			}
		}
	}
	return free
}
