package aghier

import (
	"context"
	"math"
	"sort"

	"cdr.dev/slog"

	"oss.terrastruct.com/util-go/go2"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
	"github.com/Josexato/almagag/lib/log"
)

// childLabelCandidates are tried in order, the conventional spot first.
var childLabelCandidates = []label.Position{
	label.OutsideBottomCenter,
	label.OutsideRightMiddle,
	label.OutsideTopCenter,
	label.OutsideLeftMiddle,
}

// containerPlan holds one container's internal layout in content-local
// coordinates until every ancestor has a settled origin.
type containerPlan struct {
	obj      *aggraph.Object
	local    map[*aggraph.Object]*geo.Point
	header   float64
	contentW float64
	contentH float64
}

// grow sizes containers bottom-up, deepest first, so a parent can trust
// its children's final boxes, then walks top-down converting each
// container's content-local positions to canvas positions.
func (hg *hierGraph) grow(ctx context.Context) {
	var containers []*aggraph.Object
	for _, obj := range hg.graph.Objects {
		if obj.IsContainer() {
			containers = append(containers, obj)
		}
	}
	sort.SliceStable(containers, func(i, j int) bool {
		di, dj := hg.info.Depth[containers[i]], hg.info.Depth[containers[j]]
		if di != dj {
			return di > dj
		}
		return containers[i].AbsID() < containers[j].AbsID()
	})

	plans := make(map[*aggraph.Object]*containerPlan, len(containers))
	for _, c := range containers {
		plans[c] = hg.planContainer(ctx, c)
	}
	for _, c := range containers {
		if c.Parent == hg.graph.Root {
			hg.applyPlan(plans, c)
		}
	}
}

// planContainer lays out c's direct children in content-local
// coordinates and assigns c its final dimensions. Children that are
// containers themselves have already been planned.
func (hg *hierGraph) planContainer(ctx context.Context, c *aggraph.Object) *containerPlan {
	pad := float64(hg.opts.Padding)
	plan := &containerPlan{
		obj:    c,
		local:  make(map[*aggraph.Object]*geo.Point),
		header: hg.headerHeight(c),
	}

	var flow []*aggraph.Object
	var placed []*geo.Box
	for _, child := range c.ChildrenArray {
		if !child.Pinned() {
			flow = append(flow, child)
			continue
		}
		p := geo.NewPoint(float64(*child.XAttr), float64(*child.YAttr))
		plan.local[child] = p
		box := geo.NewBox(p.Copy(), child.Width, child.Height)
		placed = append(placed, box)
		hg.placeChildLabel(child, box, &placed)
	}

	succ, pred := hg.induceEdges(c)
	rows := layerChildren(flow, succ)

	seedLess := func(a, b *aggraph.Object) bool {
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if len(succ[a]) != len(succ[b]) {
			return len(succ[a]) > len(succ[b])
		}
		return a.ID < b.ID
	}
	tieLess := func(a, b *aggraph.Object) bool {
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	}
	predsFn := func(obj *aggraph.Object) []*aggraph.Object {
		return pred[obj]
	}
	neighborsFn := func(obj *aggraph.Object) []*aggraph.Object {
		return append(append([]*aggraph.Object{}, succ[obj]...), pred[obj]...)
	}

	for i := range rows {
		if i == 0 {
			sort.SliceStable(rows[0], func(a, b int) bool {
				return seedLess(rows[0][a], rows[0][b])
			})
			continue
		}
		prevSlot := make(map[*aggraph.Object]float64, len(rows[i-1]))
		for s, obj := range rows[i-1] {
			prevSlot[obj] = float64(s)
		}
		rows[i] = orderRow(rows[i], prevSlot, predsFn, neighborsFn, seedLess, tieLess)
	}

	// realize rows as stacked icon boxes, the widest row setting the
	// content width and narrower rows centering within it
	rowWidths := make([]float64, len(rows))
	iconW := 0.0
	for i, row := range rows {
		w := -CHILD_GAP
		for _, child := range row {
			w += child.Width + CHILD_GAP
		}
		rowWidths[i] = w
		iconW = math.Max(iconW, w)
	}

	rowTop := 0.0
	for i, row := range rows {
		rowH := 0.0
		for _, child := range row {
			rowH = math.Max(rowH, child.Height)
		}
		x := (iconW - rowWidths[i]) / 2
		for _, child := range row {
			p := geo.NewPoint(x, rowTop+(rowH-child.Height)/2)
			plan.local[child] = p
			box := geo.NewBox(p.Copy(), child.Width, child.Height)
			placed = append(placed, box)
			hg.placeChildLabel(child, box, &placed)
			x += child.Width + CHILD_GAP
		}
		rowTop += rowH + CHILD_GAP
	}

	// labels can poke out of the icon grid, so the content box is
	// measured from what was actually placed and everything shifts to
	// its origin
	if len(placed) > 0 {
		tl := geo.NewPoint(math.MaxFloat64, math.MaxFloat64)
		br := geo.NewPoint(-math.MaxFloat64, -math.MaxFloat64)
		for _, box := range placed {
			tl.X = math.Min(tl.X, box.TopLeft.X)
			tl.Y = math.Min(tl.Y, box.TopLeft.Y)
			br.X = math.Max(br.X, box.TopLeft.X+box.Width)
			br.Y = math.Max(br.Y, box.TopLeft.Y+box.Height)
		}
		for _, p := range plan.local {
			p.X -= tl.X
			p.Y -= tl.Y
		}
		plan.contentW = br.X - tl.X
		plan.contentH = br.Y - tl.Y
	}

	w := plan.contentW + 2*pad
	if c.HasLabel() {
		w = math.Max(w, float64(c.LabelDimensions.Width)+2*(HEADER_ICON_SIZE+2*label.PADDING))
	}
	h := pad + plan.header + pad + plan.contentH + pad
	if c.WidthAttr != nil {
		w = math.Max(w, float64(*c.WidthAttr))
	}
	if c.HeightAttr != nil {
		h = math.Max(h, float64(*c.HeightAttr))
	}
	w *= c.WidthScale
	h *= c.HeightScale

	// a lone child floats in the middle of the content area
	if len(c.ChildrenArray) == 1 && !c.ChildrenArray[0].Pinned() {
		only := c.ChildrenArray[0]
		plan.local[only] = geo.NewPoint(
			(w-only.Width)/2-pad,
			(h-plan.header-2*pad-only.Height)/2-pad,
		)
	}

	c.Width = w
	c.Height = h
	c.SizeComputed = true
	if c.LabelPosition == nil && c.HasLabel() {
		c.LabelPosition = go2.Pointer(label.InsideTopCenter.String())
	}
	log.Debug(ctx, "grew container",
		slog.F("container", c.AbsID()),
		slog.F("width", w),
		slog.F("height", h))
	return plan
}

// applyPlan converts a container's content-local coordinates to canvas
// coordinates once the container's own origin is settled.
func (hg *hierGraph) applyPlan(plans map[*aggraph.Object]*containerPlan, c *aggraph.Object) {
	plan := plans[c]
	if plan == nil {
		return
	}
	pad := float64(hg.opts.Padding)
	originX := c.TopLeft.X + pad
	originY := c.TopLeft.Y + pad + plan.header + pad
	for _, child := range c.ChildrenArray {
		p := plan.local[child]
		child.TopLeft = geo.NewPoint(originX+p.X, originY+p.Y)
		if child.IsContainer() {
			hg.applyPlan(plans, child)
		}
	}
}

// placeChildLabel commits the first label slot that fits next to the
// child's icon without touching anything already placed. Containers
// carry their label in their own header instead.
func (hg *hierGraph) placeChildLabel(child *aggraph.Object, box *geo.Box, placed *[]*geo.Box) {
	if child.IsContainer() || !child.HasLabel() {
		return
	}
	w := float64(child.LabelDimensions.Width)
	h := float64(child.LabelDimensions.Height)
	var choice label.Position
	var choiceBox *geo.Box
	for _, pos := range childLabelCandidates {
		tl := pos.GetPointOnBox(box, label.PADDING, w, h)
		lb := geo.NewBox(tl, w, h)
		if choiceBox == nil {
			choice, choiceBox = pos, lb
		}
		collides := false
		for _, other := range *placed {
			if lb.Overlaps(other) {
				collides = true
				break
			}
		}
		if !collides {
			choice, choiceBox = pos, lb
			break
		}
	}
	child.LabelPosition = go2.Pointer(choice.String())
	*placed = append(*placed, choiceBox)
}

// induceEdges projects every connection between descendants of c onto
// c's direct children, the same way top-level connections resolve to
// primaries. Duplicate pairs collapse, pairs that meet in one child
// drop out.
func (hg *hierGraph) induceEdges(c *aggraph.Object) (succ, pred map[*aggraph.Object][]*aggraph.Object) {
	succ = make(map[*aggraph.Object][]*aggraph.Object)
	pred = make(map[*aggraph.Object][]*aggraph.Object)
	seen := make(map[[2]*aggraph.Object]bool)
	for _, e := range hg.graph.Edges {
		src := resolveToChild(c, e.Src)
		dst := resolveToChild(c, e.Dst)
		if src == nil || dst == nil || src == dst {
			continue
		}
		pair := [2]*aggraph.Object{src, dst}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		succ[src] = append(succ[src], dst)
		pred[dst] = append(pred[dst], src)
	}
	return succ, pred
}

// resolveToChild walks up from obj to the direct child of c containing
// it, or nil when obj is not inside c.
func resolveToChild(c, obj *aggraph.Object) *aggraph.Object {
	for cur := obj; cur != nil && cur.Parent != nil; cur = cur.Parent {
		if cur.Parent == c {
			return cur
		}
	}
	return nil
}

// layerChildren ranks children by their internal connections with the
// same bounded relaxation the analyzer uses, scoped to one container.
// Anything unreachable lands in the first row.
func layerChildren(flow []*aggraph.Object, succ map[*aggraph.Object][]*aggraph.Object) [][]*aggraph.Object {
	if len(flow) == 0 {
		return nil
	}
	level := make(map[*aggraph.Object]int, len(flow))
	for i := 0; i < len(flow); i++ {
		changed := false
		for _, obj := range flow {
			for _, next := range succ[obj] {
				if level[obj]+1 > level[next] {
					level[next] = level[obj] + 1
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	maxLevel := 0
	for _, obj := range flow {
		if level[obj] > maxLevel {
			maxLevel = level[obj]
		}
	}
	byLevel := make([][]*aggraph.Object, maxLevel+1)
	for _, obj := range flow {
		byLevel[level[obj]] = append(byLevel[level[obj]], obj)
	}
	var rows [][]*aggraph.Object
	for _, row := range byLevel {
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
