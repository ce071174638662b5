package aggraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/go2"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
)

func TestMoveWithDescendants(t *testing.T) {
	g := aggraph.NewGraph()
	c := g.Root.EnsureChild("c")
	a := g.Root.EnsureChild("a")
	assert.NoError(t, a.ReParent(c))

	c.Box = geo.NewBox(geo.NewPoint(0, 0), 200, 200)
	a.Box = geo.NewBox(geo.NewPoint(50, 50), 100, 100)

	c.MoveWithDescendants(10, -20)
	assert.Equal(t, 10.0, c.TopLeft.X)
	assert.Equal(t, -20.0, c.TopLeft.Y)
	assert.Equal(t, 60.0, a.TopLeft.X)
	assert.Equal(t, 30.0, a.TopLeft.Y)

	c.MoveWithDescendantsTo(0, 0)
	assert.Equal(t, 50.0, a.TopLeft.X)
	assert.Equal(t, 50.0, a.TopLeft.Y)
}

func TestShiftDescendants(t *testing.T) {
	g := aggraph.NewGraph()
	c := g.Root.EnsureChild("c")
	a := g.Root.EnsureChild("a")
	b := g.Root.EnsureChild("b")
	out := g.Root.EnsureChild("out")
	assert.NoError(t, a.ReParent(c))
	assert.NoError(t, b.ReParent(c))

	c.Box = geo.NewBox(geo.NewPoint(0, 0), 300, 100)
	a.Box = geo.NewBox(geo.NewPoint(10, 30), 50, 50)
	b.Box = geo.NewBox(geo.NewPoint(200, 30), 50, 50)
	out.Box = geo.NewBox(geo.NewPoint(400, 30), 50, 50)

	inner, err := g.Connect(a, b, false, true, "")
	assert.NoError(t, err)
	inner.Route = []*geo.Point{geo.NewPoint(60, 55), geo.NewPoint(200, 55)}

	crossing, err := g.Connect(b, out, false, true, "")
	assert.NoError(t, err)
	crossing.Route = []*geo.Point{geo.NewPoint(250, 55), geo.NewPoint(400, 55)}

	c.ShiftDescendants(0, 25)

	// the container itself stays put, descendants and their routes move
	assert.Equal(t, 0.0, c.TopLeft.Y)
	assert.Equal(t, 55.0, a.TopLeft.Y)
	assert.Equal(t, 80.0, inner.Route[0].Y)
	assert.Equal(t, 80.0, inner.Route[1].Y)

	// only the attached endpoint of a crossing route moves
	assert.Equal(t, 80.0, crossing.Route[0].Y)
	assert.Equal(t, 55.0, crossing.Route[1].Y)
	assert.Equal(t, 30.0, out.TopLeft.Y)
}

func TestBounds(t *testing.T) {
	g := aggraph.NewGraph()
	a := g.Root.EnsureChild("a")
	b := g.Root.EnsureChild("b")

	a.Box = geo.NewBox(geo.NewPoint(0, 0), 100, 50)
	b.Box = geo.NewBox(geo.NewPoint(200, 100), 100, 50)

	tl, br := g.Bounds()
	assert.Equal(t, 0.0, tl.X)
	assert.Equal(t, 0.0, tl.Y)
	assert.Equal(t, 300.0, br.X)
	assert.Equal(t, 150.0, br.Y)

	// a committed outside label extends the bounds
	a.LabelDimensions.Width = 60
	a.LabelDimensions.Height = 20
	a.LabelPosition = go2.Pointer(label.OutsideTopCenter.String())

	tl, _ = g.Bounds()
	assert.Equal(t, -20.0-float64(label.PADDING), tl.Y)

	e, err := g.Connect(a, b, false, true, "")
	assert.NoError(t, err)
	e.Route = []*geo.Point{geo.NewPoint(100, 25), geo.NewPoint(350, 25)}

	_, br = g.Bounds()
	assert.Equal(t, 350.0, br.X)
}
