package aggraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/util-go/go2"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/geo"
	"github.com/Josexato/almagag/lib/label"
)

func TestCopyIsolation(t *testing.T) {
	g := aggraph.NewGraph()
	c := g.Root.EnsureChild("c")
	a := g.Root.EnsureChild("a")
	b := g.Root.EnsureChild("b")
	assert.NoError(t, a.ReParent(c))

	c.Box = geo.NewBox(geo.NewPoint(0, 0), 200, 200)
	a.Box = geo.NewBox(geo.NewPoint(20, 20), 50, 50)
	b.Box = geo.NewBox(geo.NewPoint(300, 20), 50, 50)
	b.LabelPosition = go2.Pointer(label.OutsideBottomCenter.String())
	g.Canvas = &aggraph.Canvas{Width: 500, Height: 400}

	e, err := g.Connect(a, b, false, true, "hi")
	assert.NoError(t, err)
	e.Route = []*geo.Point{geo.NewPoint(70, 45), geo.NewPoint(300, 45)}

	g2 := g.Copy()

	// structure carried over
	assert.Equal(t, len(g.Objects), len(g2.Objects))
	a2 := g2.GetObject("c.a")
	assert.NotNil(t, a2)
	assert.True(t, a2.Graph == g2)
	assert.True(t, a2.Parent == g2.GetObject("c"))
	assert.True(t, g2.Edges[0].Src == a2)

	// mutating the copy leaves the original alone
	a2.TopLeft.X = 999
	g2.Edges[0].Route[0].X = 999
	g2.Edges[0].LabelPosition = go2.Pointer(label.OutsideTopCenter.String())
	g2.GetObject("b").LabelPosition = nil
	g2.Canvas.Width = 10
	g2.Root.EnsureChild("fresh")

	assert.Equal(t, 20.0, a.TopLeft.X)
	assert.Equal(t, 70.0, e.Route[0].X)
	assert.Nil(t, e.LabelPosition)
	assert.NotNil(t, b.LabelPosition)
	assert.Equal(t, 500.0, g.Canvas.Width)
	assert.Equal(t, 3, len(g.Objects))
	assert.Equal(t, 4, len(g2.Objects))
}
