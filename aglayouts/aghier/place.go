package aghier

import (
	"context"
	"sort"

	"cdr.dev/slog"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/log"
)

// place maps the unpinned primaries onto an integer grid, one row per
// hierarchy level. The first row seeds the ordering, every later row
// follows its predecessors.
func (hg *hierGraph) place(ctx context.Context) {
	for _, layer := range hg.info.Layers() {
		var row []*aggraph.Object
		for _, obj := range layer {
			if obj.Pinned() {
				continue
			}
			row = append(row, obj)
		}
		if len(row) > 0 {
			hg.layers = append(hg.layers, row)
		}
	}

	for i := range hg.layers {
		if i == 0 {
			row := hg.layers[0]
			sort.SliceStable(row, func(a, b int) bool {
				return hg.seedLess(row[a], row[b])
			})
		} else {
			prevSlot := make(map[*aggraph.Object]float64, len(hg.layers[i-1]))
			for _, obj := range hg.layers[i-1] {
				prevSlot[obj] = float64(hg.slot[obj])
			}
			hg.layers[i] = orderRow(hg.layers[i], prevSlot, hg.resolvedPreds, hg.resolvedNeighbors, hg.seedLess, hg.tieLess)
		}
		for slot, obj := range hg.layers[i] {
			hg.row[obj] = i
			hg.slot[obj] = slot
		}
	}

	log.Debug(ctx, "abstract placement done",
		slog.F("rows", len(hg.layers)),
		slog.F("crossings", hg.countCrossings()))
}

// seedLess orders elements that have no placed predecessor to follow:
// by kind, hubs first, then by declaration id.
func (hg *hierGraph) seedLess(a, b *aggraph.Object) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if da, db := hg.info.Outdegree(a), hg.info.Outdegree(b); da != db {
		return da > db
	}
	return a.ID < b.ID
}

// tieLess breaks barycenter ties: by kind, most accessible first, then
// by id.
func (hg *hierGraph) tieLess(a, b *aggraph.Object) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if sa, sb := hg.info.Accessibility[a], hg.info.Accessibility[b]; sa != sb {
		return sa > sb
	}
	return a.ID < b.ID
}

func (hg *hierGraph) resolvedPreds(obj *aggraph.Object) []*aggraph.Object {
	var preds []*aggraph.Object
	for _, l := range hg.info.Pred[obj] {
		preds = append(preds, l.Other)
	}
	return preds
}

func (hg *hierGraph) resolvedNeighbors(obj *aggraph.Object) []*aggraph.Object {
	var neighbors []*aggraph.Object
	for _, l := range hg.info.Succ[obj] {
		neighbors = append(neighbors, l.Other)
	}
	for _, l := range hg.info.Pred[obj] {
		neighbors = append(neighbors, l.Other)
	}
	return neighbors
}

// orderRow orders one row by a blended barycenter: 70% pull from
// predecessors placed in the previous row, 30% lateral pull from
// neighbors in this row. Elements with no placed predecessor append at
// the end in seed order.
func orderRow(row []*aggraph.Object, prevSlot map[*aggraph.Object]float64, preds, neighbors func(*aggraph.Object) []*aggraph.Object, seedLess, tieLess func(a, b *aggraph.Object) bool) []*aggraph.Object {
	var anchored, free []*aggraph.Object
	predMean := make(map[*aggraph.Object]float64)
	for _, obj := range row {
		sum, n := 0.0, 0
		for _, p := range preds(obj) {
			if x, ok := prevSlot[p]; ok {
				sum += x
				n++
			}
		}
		if n > 0 {
			predMean[obj] = sum / float64(n)
			anchored = append(anchored, obj)
		} else {
			free = append(free, obj)
		}
	}
	sort.SliceStable(free, func(i, j int) bool {
		return seedLess(free[i], free[j])
	})
	sort.SliceStable(anchored, func(i, j int) bool {
		a, b := anchored[i], anchored[j]
		if predMean[a] != predMean[b] {
			return predMean[a] < predMean[b]
		}
		return tieLess(a, b)
	})

	tentative := make(map[*aggraph.Object]float64, len(row))
	for s, obj := range anchored {
		tentative[obj] = float64(s)
	}
	for s, obj := range free {
		tentative[obj] = float64(len(anchored) + s)
	}

	key := make(map[*aggraph.Object]float64, len(anchored))
	for _, obj := range anchored {
		sum, n := 0.0, 0
		for _, other := range neighbors(obj) {
			if ts, ok := tentative[other]; ok {
				sum += ts
				n++
			}
		}
		key[obj] = predMean[obj]
		if n > 0 {
			key[obj] = 0.7*predMean[obj] + 0.3*(sum/float64(n))
		}
	}
	sort.SliceStable(anchored, func(i, j int) bool {
		a, b := anchored[i], anchored[j]
		if key[a] != key[b] {
			return key[a] < key[b]
		}
		return tieLess(a, b)
	})
	return append(anchored, free...)
}

type gridSegment struct {
	seg      geo.Segment
	src, dst *aggraph.Object
}

// countCrossings runs the pairwise segment test over the abstract grid.
// Diagnostics only, the optimizer never reads it.
func (hg *hierGraph) countCrossings() int {
	var segs []gridSegment
	for _, obj := range hg.info.Primaries {
		if _, ok := hg.row[obj]; !ok {
			continue
		}
		for _, l := range hg.info.Succ[obj] {
			if _, ok := hg.row[l.Other]; !ok {
				continue
			}
			segs = append(segs, gridSegment{
				seg: *geo.NewSegment(
					geo.NewPoint(float64(hg.slot[obj]), float64(hg.row[obj])),
					geo.NewPoint(float64(hg.slot[l.Other]), float64(hg.row[l.Other])),
				),
				src: obj,
				dst: l.Other,
			})
		}
	}

	count := 0
	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			a, b := segs[i], segs[j]
			if a.src == b.src || a.src == b.dst || a.dst == b.src || a.dst == b.dst {
				continue
			}
			if a.seg.Intersects(b.seg) {
				count++
			}
		}
	}
	return count
}
