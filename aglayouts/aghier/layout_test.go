package aghier_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/go2"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/aglayouts/aghier"
	"github.com/Josexato/almagag/agtarget"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
	"github.com/Josexato/almagag/lib/log"
)

func mkObj(g *aggraph.Graph, id string, w, h float64) *aggraph.Object {
	obj := g.Root.EnsureChild(id)
	obj.Box = geo.NewBox(nil, w, h)
	obj.LabelDimensions = *agtarget.NewTextDimensions(len(id)*10, 19)
	return obj
}

func connect(t *testing.T, g *aggraph.Graph, src, dst *aggraph.Object) *aggraph.Edge {
	t.Helper()
	e, err := g.Connect(src, dst, false, true, "")
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestLayoutChain(t *testing.T) {
	//  ┌───┐    ┌───┐    ┌───┐
	//  │ A ├────► B ├────► C │
	//  └───┘    └───┘    └───┘
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	a := mkObj(g, "A", 120, 64)
	b := mkObj(g, "B", 120, 64)
	c := mkObj(g, "C", 120, 64)
	ab := connect(t, g, a, b)
	bc := connect(t, g, b, c)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	// A alone on the first row, B and C side by side below it: C is a
	// sibling-less leaf so it settles on B's level
	assert.Less(t, a.TopLeft.Y, b.TopLeft.Y)
	assert.InDelta(t, b.Center().Y, c.Center().Y, 0.01)
	assert.Less(t, b.Center().X, c.Center().X)
	assert.InDelta(t, a.Center().X, b.Center().X, 0.01)

	// the vertical connector is clipped to the two outlines
	assert.Len(t, ab.Route, 2)
	assert.InDelta(t, a.TopLeft.Y+a.Height, ab.Route[0].Y, 0.01)
	assert.InDelta(t, b.TopLeft.Y, ab.Route[1].Y, 0.01)

	// the horizontal connector leaves B's right side and enters C's left
	assert.Len(t, bc.Route, 2)
	assert.InDelta(t, b.TopLeft.X+b.Width, bc.Route[0].X, 0.01)
	assert.InDelta(t, c.TopLeft.X, bc.Route[1].X, 0.01)
}

func TestLayoutFork(t *testing.T) {
	//  ┌───┐      ┌───┐
	//  │ A ├──────► B │
	//  └─┬─┘      └───┘
	//    │
	//  ┌─▼─┐      ┌───┐
	//  │ C ├──────► D │
	//  └───┘      └───┘
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	a := mkObj(g, "A", 120, 64)
	b := mkObj(g, "B", 120, 64)
	c := mkObj(g, "C", 120, 64)
	d := mkObj(g, "D", 120, 64)
	connect(t, g, a, b)
	connect(t, g, a, c)
	connect(t, g, c, d)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	assert.InDelta(t, a.Center().Y, b.Center().Y, 0.01)
	assert.InDelta(t, c.Center().Y, d.Center().Y, 0.01)
	assert.Less(t, a.Center().Y, c.Center().Y)

	// the hub leads its row, the chains hang in declaration order
	assert.Less(t, a.Center().X, b.Center().X)
	assert.Less(t, c.Center().X, d.Center().X)
	assert.InDelta(t, a.Center().X, c.Center().X, 0.01)
}

func TestSingleChildContainerCentering(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	platform := mkObj(g, "platform", 120, 64)
	platform.Label = "payments\nplatform"
	platform.LabelDimensions = *agtarget.NewTextDimensions(90, 38)
	api := platform.EnsureChild("api")
	api.Box = geo.NewBox(nil, 120, 64)
	api.LabelDimensions = *agtarget.NewTextDimensions(30, 19)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	assert.True(t, platform.SizeComputed)

	pad := float64(aghier.DefaultOpts.Padding)
	header := math.Max(float64(platform.LabelDimensions.Height), aghier.HEADER_ICON_SIZE) + 2*label.PADDING

	// the lone child floats in the middle of the content area
	assert.InDelta(t, platform.TopLeft.X+(platform.Width-api.Width)/2, api.TopLeft.X, 0.01)
	wantY := platform.TopLeft.Y + pad + header + ((platform.Height-header-2*pad)-api.Height)/2
	assert.InDelta(t, wantY, api.TopLeft.Y, 0.01)

	// the child label got the conventional spot, the container keeps
	// its label in the header
	if assert.NotNil(t, api.LabelPosition) {
		assert.Equal(t, label.OutsideBottomCenter.String(), *api.LabelPosition)
	}
	if assert.NotNil(t, platform.LabelPosition) {
		assert.Equal(t, label.InsideTopCenter.String(), *platform.LabelPosition)
	}
}

func TestPinnedPrimaryStays(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	a := mkObj(g, "A", 120, 64)
	b := mkObj(g, "B", 120, 64)
	connect(t, g, a, b)

	legend := mkObj(g, "legend", 120, 64)
	legend.XAttr = go2.Pointer(500)
	legend.YAttr = go2.Pointer(300)
	legend.TopLeft = geo.NewPoint(500, 300)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 500.0, legend.TopLeft.X)
	assert.Equal(t, 300.0, legend.TopLeft.Y)

	// everything else still lays out: B is a sibling-less leaf, so it
	// joins A's row to its right
	assert.NotNil(t, a.TopLeft)
	assert.NotNil(t, b.TopLeft)
	assert.InDelta(t, a.Center().Y, b.Center().Y, 0.01)
	assert.Less(t, a.Center().X, b.Center().X)
}

func TestRowsRespaceBelowGrownContainer(t *testing.T) {
	//  ┌─────┐    ┌──────────────┐    ┌────┐    ┌───────┐
	//  │ svc ├────► cluster      ├────► db ├────► cache │
	//  └─────┘    │  ┌──┐  ┌──┐  │    └────┘    └───────┘
	//             │  │w1│  │w2│  │
	//             │  └──┘  └──┘  │
	//             └──────────────┘
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	svc := mkObj(g, "svc", 120, 64)
	cluster := mkObj(g, "cluster", 120, 64)
	db := mkObj(g, "db", 120, 64)
	cache := mkObj(g, "cache", 120, 64)
	for _, id := range []string{"w1", "w2"} {
		w := cluster.EnsureChild(id)
		w.Box = geo.NewBox(nil, 120, 64)
		w.LabelDimensions = *agtarget.NewTextDimensions(20, 19)
	}
	connect(t, g, svc, cluster)
	connect(t, g, cluster, db)
	connect(t, g, db, cache)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	w1 := cluster.Children["w1"]
	w2 := cluster.Children["w2"]

	// children sit inside the grown container, side by side
	assert.GreaterOrEqual(t, w1.TopLeft.X, cluster.TopLeft.X)
	assert.LessOrEqual(t, w2.TopLeft.X+w2.Width, cluster.TopLeft.X+cluster.Width)
	assert.GreaterOrEqual(t, w2.TopLeft.X, w1.TopLeft.X+w1.Width)
	assert.LessOrEqual(t, w1.TopLeft.Y+w1.Height, cluster.TopLeft.Y+cluster.Height)

	// the next row cleared the container's true bottom, not its estimate
	gap := float64(aghier.DefaultOpts.RowGap)
	assert.GreaterOrEqual(t, db.TopLeft.Y+0.01, cluster.TopLeft.Y+cluster.Height+gap)
}

func TestBarycenterKeepsSiblingsTogether(t *testing.T) {
	// P ─► a, P ─► d, Q ─► b, Q ─► c: by id alone the second row would
	// interleave the two fan-outs
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	p := mkObj(g, "P", 120, 64)
	q := mkObj(g, "Q", 120, 64)
	a := mkObj(g, "a", 120, 64)
	b := mkObj(g, "b", 120, 64)
	c := mkObj(g, "c", 120, 64)
	d := mkObj(g, "d", 120, 64)
	connect(t, g, p, a)
	connect(t, g, p, d)
	connect(t, g, q, b)
	connect(t, g, q, c)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	assert.InDelta(t, a.Center().Y, b.Center().Y, 0.01)
	assert.InDelta(t, c.Center().Y, d.Center().Y, 0.01)

	// P's children stay adjacent, Q's follow to their right
	assert.Less(t, math.Max(a.Center().X, d.Center().X), math.Min(b.Center().X, c.Center().X))
}

func TestSymmetricStarCenters(t *testing.T) {
	// A fans out to three equal leaves; the offset search should align
	// the middle one under the hub
	ctx := log.WithTB(context.Background(), t)
	g := aggraph.NewGraph()
	hub := mkObj(g, "A", 120, 64)
	x := mkObj(g, "x", 120, 64)
	y := mkObj(g, "y", 120, 64)
	z := mkObj(g, "z", 120, 64)
	connect(t, g, hub, x)
	connect(t, g, hub, y)
	connect(t, g, hub, z)

	err := aghier.DefaultLayout(ctx, g)
	if err != nil {
		t.Fatal(err)
	}

	assert.Less(t, x.Center().X, y.Center().X)
	assert.Less(t, y.Center().X, z.Center().X)
	assert.InDelta(t, hub.Center().X, y.Center().X, 1.01)
	assert.Less(t, hub.Center().Y, x.Center().Y)
}

func buildDeterminismGraph(t *testing.T) *aggraph.Graph {
	g := aggraph.NewGraph()
	gw := mkObj(g, "gateway", 120, 64)
	auth := mkObj(g, "auth", 120, 64)
	orders := mkObj(g, "orders", 120, 64)
	store := mkObj(g, "store", 120, 64)
	for _, id := range []string{"db", "replica"} {
		o := store.EnsureChild(id)
		o.Box = geo.NewBox(nil, 110, 80)
		o.LabelDimensions = *agtarget.NewTextDimensions(40, 19)
	}
	mon := mkObj(g, "monitor", 120, 64)
	connect(t, g, gw, auth)
	connect(t, g, gw, orders)
	connect(t, g, orders, store)
	connect(t, g, auth, store)
	connect(t, g, mon, orders)
	return g
}

func TestLayoutDeterminism(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g1 := buildDeterminismGraph(t)
	g2 := buildDeterminismGraph(t)

	if err := aghier.DefaultLayout(ctx, g1); err != nil {
		t.Fatal(err)
	}
	if err := aghier.DefaultLayout(ctx, g2); err != nil {
		t.Fatal(err)
	}

	if len(g1.Objects) != len(g2.Objects) {
		t.Fatalf("object counts diverged: %d != %d", len(g1.Objects), len(g2.Objects))
	}
	for i := range g1.Objects {
		o1, o2 := g1.Objects[i], g2.Objects[i]
		assert.Equal(t, o1.AbsID(), o2.AbsID())
		assert.Equal(t, o1.TopLeft.X, o2.TopLeft.X, o1.AbsID())
		assert.Equal(t, o1.TopLeft.Y, o2.TopLeft.Y, o1.AbsID())
		assert.Equal(t, o1.Width, o2.Width, o1.AbsID())
		assert.Equal(t, o1.Height, o2.Height, o1.AbsID())
	}
}
