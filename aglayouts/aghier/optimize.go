package aghier

import (
	"context"
	"math"

	"cdr.dev/slog"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/agstructure"
	"github.com/Josexato/almagag/lib/log"
)

// optimize slides whole rows horizontally to shorten connectors. Each
// row's offset is solved against earlier rows only, so settled content
// is never dragged around by rows below it. Sweeps alternate forward
// and backward until offsets stop moving.
func (hg *hierGraph) optimize(ctx context.Context) {
	if len(hg.layers) < 2 {
		return
	}
	for obj, s := range hg.slot {
		hg.posX[obj] = float64(s)
	}

	passes := 0
	for ; passes < MAX_OPTIMIZER_PASSES; passes++ {
		moved := 0.0
		for i := 1; i < len(hg.layers); i++ {
			moved = math.Max(moved, math.Abs(hg.shiftRow(i)))
		}
		for i := len(hg.layers) - 2; i >= 1; i-- {
			moved = math.Max(moved, math.Abs(hg.shiftRow(i)))
		}
		if moved < CONVERGENCE_THRESHOLD {
			break
		}
	}
	hg.roundRows()

	log.Debug(ctx, "row offsets optimized",
		slog.F("passes", passes),
		slog.F("crossings", hg.countCrossings()))
}

// pullTerm is one connector's contribution to a row's objective,
// weight times the Euclidean distance to a settled endpoint.
type pullTerm struct {
	weight float64
	baseX  float64
	otherX float64
	dy     float64
}

func (hg *hierGraph) rowTerms(i int) []pullTerm {
	var terms []pullTerm
	for _, obj := range hg.layers[i] {
		for _, l := range hg.info.Succ[obj] {
			hg.appendTerm(&terms, i, obj, l)
		}
		for _, l := range hg.info.Pred[obj] {
			hg.appendTerm(&terms, i, obj, l)
		}
	}
	return terms
}

func (hg *hierGraph) appendTerm(terms *[]pullTerm, i int, obj *aggraph.Object, l agstructure.Link) {
	r, ok := hg.row[l.Other]
	if !ok || r >= i {
		return
	}
	*terms = append(*terms, pullTerm{
		weight: l.Weight,
		baseX:  hg.posX[obj],
		otherX: hg.posX[l.Other],
		dy:     float64(i - r),
	})
}

// derivative of the row objective with respect to the offset t. Each
// term contributes within [-weight, weight] and grows with t, so the
// whole derivative is monotonically non-decreasing.
func derivative(terms []pullTerm, t float64) float64 {
	d := 0.0
	for _, term := range terms {
		dx := term.baseX + t - term.otherX
		dist := math.Hypot(dx, term.dy)
		if dist == 0 {
			continue
		}
		d += term.weight * dx / dist
	}
	return d
}

// shiftRow finds and applies the offset minimizing row i's objective.
// The derivative is monotone, so the zero crossing is bracketed by
// geometric expansion and then bisected.
func (hg *hierGraph) shiftRow(i int) float64 {
	terms := hg.rowTerms(i)
	if len(terms) == 0 {
		return 0
	}

	lo, hi := -1.0, 1.0
	for attempt := 0; derivative(terms, lo) > 0 && attempt < MAX_BRACKET_ATTEMPTS; attempt++ {
		lo *= 2
	}
	for attempt := 0; derivative(terms, hi) < 0 && attempt < MAX_BRACKET_ATTEMPTS; attempt++ {
		hi *= 2
	}
	for step := 0; step < BISECTION_STEPS; step++ {
		mid := (lo + hi) / 2
		if derivative(terms, mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}

	t := (lo + hi) / 2
	for _, obj := range hg.layers[i] {
		hg.posX[obj] += t
	}
	return t
}

// roundRows snaps the continuous columns back onto the integer grid.
// Rows are walked left to right so rounding collisions bump right,
// keeping the within-row order. Rows are never re-based individually,
// which keeps cross-row alignment; one global shift clears negative
// columns.
func (hg *hierGraph) roundRows() {
	minSlot := 0
	for _, layer := range hg.layers {
		prev := math.MinInt32
		for _, obj := range layer {
			s := int(math.Round(hg.posX[obj]))
			if s <= prev {
				s = prev + 1
			}
			hg.slot[obj] = s
			prev = s
			if s < minSlot {
				minSlot = s
			}
		}
	}
	if minSlot < 0 {
		for obj := range hg.slot {
			hg.slot[obj] -= minSlot
		}
	}
}
