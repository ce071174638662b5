package aghier

import (
	"context"

	"oss.terrastruct.com/util-go/xdefer"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/agstructure"
)

type ConfigurableOpts struct {
	NodeSpacing int `json:"nodespacing"`
	RowGap      int `json:"rowgap"`
	Padding     int `json:"padding"`

	// ordering hint knobs, see agstructure.Opts
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	MaxAccessibility float64 `json:"maxaccessibility"`
}

var DefaultOpts = ConfigurableOpts{
	NodeSpacing:      int(MIN_SPACING),
	RowGap:           int(MIN_ROW_GAP),
	Padding:          int(CONTAINER_PADDING),
	Alpha:            0.5,
	Beta:             1.0,
	MaxAccessibility: 10,
}

// hierGraph carries one layout run over a measured graph. Rows hold the
// unpinned primaries per hierarchy level, top to bottom; slots are their
// integer grid columns.
type hierGraph struct {
	graph *aggraph.Graph
	info  *agstructure.Info
	opts  *ConfigurableOpts

	layers [][]*aggraph.Object
	row    map[*aggraph.Object]int
	slot   map[*aggraph.Object]int

	// continuous columns while row offsets are being optimized
	posX map[*aggraph.Object]float64

	// pixel center each element settles on, kept so growth can re-center
	// containers whose final size beats the estimate
	centerX map[*aggraph.Object]float64
}

func newHierGraph(g *aggraph.Graph, info *agstructure.Info, opts *ConfigurableOpts) *hierGraph {
	return &hierGraph{
		graph:   g,
		info:    info,
		opts:    opts,
		row:     make(map[*aggraph.Object]int),
		slot:    make(map[*aggraph.Object]int),
		posX:    make(map[*aggraph.Object]float64),
		centerX: make(map[*aggraph.Object]float64),
	}
}

func DefaultLayout(ctx context.Context, g *aggraph.Graph) (err error) {
	return Layout(ctx, g, nil)
}

// Layout positions every element of g and routes its connections. It
// expects SetDimensions to have run so each object carries a measured
// box. Phases run in order: abstract placement on an integer grid, row
// offset optimization, inflation to pixels, bottom-up container growth,
// vertical redistribution, and straight-line routing.
func Layout(ctx context.Context, g *aggraph.Graph, opts *ConfigurableOpts) (err error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	defer xdefer.Errorf(&err, "failed to hierarchy layout")

	if len(g.Objects) == 0 {
		return nil
	}

	info := agstructure.Analyze(ctx, g, &agstructure.Opts{
		Alpha:            opts.Alpha,
		Beta:             opts.Beta,
		MaxAccessibility: opts.MaxAccessibility,
	})

	hg := newHierGraph(g, info, opts)
	hg.place(ctx)
	hg.optimize(ctx)
	hg.inflate(ctx)
	hg.grow(ctx)
	hg.redistribute()
	hg.route(ctx)
	return nil
}
