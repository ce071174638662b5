package agstructure

import (
	"context"
	"math"

	"cdr.dev/slog"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/log"
	"github.com/Josexato/almagag/lib/shape"
)

// Opts holds the accessibility scoring knobs. A nil Opts means DefaultOpts.
type Opts struct {
	// Alpha weighs how far an element sits below each non-dominant
	// predecessor.
	Alpha float64
	// Beta weighs fan-out beyond the first successor.
	Beta float64
	// MaxAccessibility caps the score.
	MaxAccessibility float64
}

func DefaultOpts() *Opts {
	return &Opts{
		Alpha:            0.5,
		Beta:             1.0,
		MaxAccessibility: 10,
	}
}

// Link is one end of a resolved connection. Weight counts how many document
// connections collapsed into the same primary pair.
type Link struct {
	Other  *aggraph.Object
	Weight float64
}

// Info is the structure summary the layout phases consume. It is computed
// once per run and read-only afterwards.
type Info struct {
	// Depth is the containment depth, 1 for primaries.
	Depth map[*aggraph.Object]int

	// Primaries are the root's direct children in document order.
	Primaries []*aggraph.Object

	// Succ and Pred hold the resolved adjacency between primaries,
	// deduplicated and weighted. Pairs that resolve to a single primary are
	// dropped.
	Succ map[*aggraph.Object][]Link
	Pred map[*aggraph.Object][]Link

	// Levels maps each primary to its topological level, 0 at the top.
	Levels map[*aggraph.Object]int

	Leaves         map[*aggraph.Object]bool
	TerminalLeaves map[*aggraph.Object]bool

	// Accessibility is an ordering hint, never a hard constraint: high
	// fan-out and long pulls from non-dominant predecessors raise it.
	Accessibility map[*aggraph.Object]float64

	ByKind map[shape.Kind][]*aggraph.Object

	backEdges map[[2]*aggraph.Object]bool
}

// Analyze computes the Info for a compiled graph. Cycles and unresolvable
// endpoints are absorbed, never surfaced as errors.
func Analyze(ctx context.Context, g *aggraph.Graph, opts *Opts) *Info {
	if opts == nil {
		opts = DefaultOpts()
	}

	info := &Info{
		Depth:          make(map[*aggraph.Object]int),
		Succ:           make(map[*aggraph.Object][]Link),
		Pred:           make(map[*aggraph.Object][]Link),
		Levels:         make(map[*aggraph.Object]int),
		Leaves:         make(map[*aggraph.Object]bool),
		TerminalLeaves: make(map[*aggraph.Object]bool),
		Accessibility:  make(map[*aggraph.Object]float64),
		ByKind:         make(map[shape.Kind][]*aggraph.Object),
		backEdges:      make(map[[2]*aggraph.Object]bool),
	}

	info.Primaries = append(info.Primaries, g.Root.ChildrenArray...)
	g.Root.IterDescendants(func(parent, child *aggraph.Object) {
		info.Depth[child] = info.Depth[parent] + 1
	})
	for _, p := range info.Primaries {
		info.ByKind[p.Kind] = append(info.ByKind[p.Kind], p)
	}

	info.resolveEdges(ctx, g)
	info.findBackEdges()
	info.computeLevels()
	info.disambiguateSources()
	info.correctLeaves()
	info.scoreAccessibility(opts)

	return info
}

// resolvePrimary walks the containment chain up to the primary ancestor.
func resolvePrimary(obj *aggraph.Object) *aggraph.Object {
	seen := make(map[*aggraph.Object]bool)
	for obj != nil && obj.Parent != nil {
		if obj.IsPrimary() {
			return obj
		}
		if seen[obj] {
			return nil
		}
		seen[obj] = true
		obj = obj.Parent
	}
	return nil
}

func (info *Info) resolveEdges(ctx context.Context, g *aggraph.Graph) {
	counts := make(map[[2]*aggraph.Object]float64)
	var order [][2]*aggraph.Object

	for _, e := range g.Edges {
		src := resolvePrimary(e.Src)
		dst := resolvePrimary(e.Dst)
		if src == nil || dst == nil {
			log.Debug(ctx, "dropping connection with unresolvable endpoint", slog.F("edge", e.AbsID()))
			continue
		}
		if src == dst {
			continue
		}
		pair := [2]*aggraph.Object{src, dst}
		if _, ok := counts[pair]; !ok {
			order = append(order, pair)
		}
		counts[pair]++
	}

	for _, pair := range order {
		src, dst := pair[0], pair[1]
		w := counts[pair]
		info.Succ[src] = append(info.Succ[src], Link{Other: dst, Weight: w})
		info.Pred[dst] = append(info.Pred[dst], Link{Other: src, Weight: w})
	}
}

const (
	white = iota
	gray
	black
)

func (info *Info) findBackEdges() {
	color := make(map[*aggraph.Object]int)
	var visit func(u *aggraph.Object)
	visit = func(u *aggraph.Object) {
		color[u] = gray
		for _, l := range info.Succ[u] {
			switch color[l.Other] {
			case white:
				visit(l.Other)
			case gray:
				info.backEdges[[2]*aggraph.Object{u, l.Other}] = true
			}
		}
		color[u] = black
	}
	for _, p := range info.Primaries {
		if color[p] == white {
			visit(p)
		}
	}
}

// IsBackEdge reports whether the resolved connection from src to dst closes
// a cycle.
func (info *Info) IsBackEdge(src, dst *aggraph.Object) bool {
	return info.backEdges[[2]*aggraph.Object{src, dst}]
}

func (info *Info) computeLevels() {
	for _, p := range info.Primaries {
		info.Levels[p] = 0
	}

	// longest-path relaxation over all edges, bounded so cycles terminate
	for i := 0; i < len(info.Primaries); i++ {
		changed := false
		for _, u := range info.Primaries {
			for _, l := range info.Succ[u] {
				if info.Levels[l.Other] < info.Levels[u]+1 {
					info.Levels[l.Other] = info.Levels[u] + 1
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	// every non-leaf sits one level below each of its acyclic parents
	for i := 0; i < len(info.Primaries); i++ {
		changed := false
		for _, u := range info.Primaries {
			for _, l := range info.Succ[u] {
				if info.IsBackEdge(u, l.Other) || len(info.Succ[l.Other]) == 0 {
					continue
				}
				if info.Levels[l.Other] < info.Levels[u]+1 {
					info.Levels[l.Other] = info.Levels[u] + 1
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	// cycles can push the whole range up, shift back to 0
	minLevel := math.MaxInt32
	for _, p := range info.Primaries {
		if info.Levels[p] < minLevel {
			minLevel = info.Levels[p]
		}
	}
	if minLevel > 0 && minLevel != math.MaxInt32 {
		for _, p := range info.Primaries {
			info.Levels[p] -= minLevel
		}
	}
}

func (info *Info) countDescendants(src *aggraph.Object) int {
	seen := map[*aggraph.Object]bool{src: true}
	queue := []*aggraph.Object{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, l := range info.Succ[u] {
			if !seen[l.Other] {
				seen[l.Other] = true
				queue = append(queue, l.Other)
			}
		}
	}
	return len(seen) - 1
}

func lessKindID(a, b *aggraph.Object) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.ID < b.ID
}

// disambiguateSources keeps only the source with the largest reachable set
// at level 0. Every other source moves to the level of a shared child's
// co-parent, or stays at 0 when it has none.
func (info *Info) disambiguateSources() {
	var sources []*aggraph.Object
	for _, p := range info.Primaries {
		if len(info.Pred[p]) == 0 {
			sources = append(sources, p)
		}
	}
	if len(sources) < 2 {
		return
	}

	dominant := sources[0]
	dominantCount := info.countDescendants(dominant)
	for _, s := range sources[1:] {
		c := info.countDescendants(s)
		if c > dominantCount || (c == dominantCount && lessKindID(s, dominant)) {
			dominant = s
			dominantCount = c
		}
	}

	for _, s := range sources {
		if s == dominant {
			continue
		}
		target := 0
		for _, l := range info.Succ[s] {
			for _, pl := range info.Pred[l.Other] {
				if pl.Other == s {
					continue
				}
				if info.Levels[pl.Other] > target {
					target = info.Levels[pl.Other]
				}
			}
		}
		info.Levels[s] = target
	}
}

func (info *Info) correctLeaves() {
	for _, p := range info.Primaries {
		if len(info.Succ[p]) == 0 {
			info.Leaves[p] = true
		}
	}

	for _, leaf := range info.Primaries {
		if !info.Leaves[leaf] || len(info.Pred[leaf]) == 0 {
			continue
		}

		siblingCount := 0
		allLeafSiblings := true
		for _, pl := range info.Pred[leaf] {
			for _, sl := range info.Succ[pl.Other] {
				if sl.Other == leaf {
					continue
				}
				siblingCount++
				if !info.Leaves[sl.Other] {
					allLeafSiblings = false
				}
			}
		}

		if siblingCount > 0 && allLeafSiblings {
			// a clutch of pure leaves hangs one level below its parents
			info.TerminalLeaves[leaf] = true
			info.Levels[leaf] = info.Levels[info.dominantPred(leaf)] + 1
		} else {
			maxPred := 0
			for _, pl := range info.Pred[leaf] {
				if info.Levels[pl.Other] > maxPred {
					maxPred = info.Levels[pl.Other]
				}
			}
			info.Levels[leaf] = maxPred
		}
	}
}

// dominantPred is the deepest direct predecessor, ties broken by kind then
// id.
func (info *Info) dominantPred(obj *aggraph.Object) *aggraph.Object {
	var dom *aggraph.Object
	for _, pl := range info.Pred[obj] {
		if dom == nil {
			dom = pl.Other
			continue
		}
		if info.Levels[pl.Other] > info.Levels[dom] ||
			(info.Levels[pl.Other] == info.Levels[dom] && lessKindID(pl.Other, dom)) {
			dom = pl.Other
		}
	}
	return dom
}

func (info *Info) scoreAccessibility(opts *Opts) {
	for _, v := range info.Primaries {
		score := opts.Beta * math.Max(0, float64(len(info.Succ[v])-1))
		dom := info.dominantPred(v)
		for _, pl := range info.Pred[v] {
			if pl.Other == dom {
				continue
			}
			score += opts.Alpha * float64(info.Levels[v]-info.Levels[pl.Other])
		}
		info.Accessibility[v] = math.Min(score, opts.MaxAccessibility)
	}
}

// Layers groups primaries by level in document order, skipping empty levels.
func (info *Info) Layers() [][]*aggraph.Object {
	maxLevel := -1
	for _, p := range info.Primaries {
		if info.Levels[p] > maxLevel {
			maxLevel = info.Levels[p]
		}
	}

	byLevel := make([][]*aggraph.Object, maxLevel+1)
	for _, p := range info.Primaries {
		byLevel[info.Levels[p]] = append(byLevel[info.Levels[p]], p)
	}

	var layers [][]*aggraph.Object
	for _, layer := range byLevel {
		if len(layer) > 0 {
			layers = append(layers, layer)
		}
	}
	return layers
}

// Outdegree is the number of distinct resolved successors.
func (info *Info) Outdegree(obj *aggraph.Object) int {
	return len(info.Succ[obj])
}
