package aggraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/lib/shape"
)

func TestEnsureChild(t *testing.T) {
	g := aggraph.NewGraph()

	a := g.Root.EnsureChild("a")
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, "a", a.Label)
	assert.Equal(t, shape.Generic, a.Kind)
	assert.Equal(t, 1.0, a.WidthScale)
	assert.True(t, a.IsPrimary())

	// same id resolves to the same object
	a2 := g.Root.EnsureChild("a")
	assert.True(t, a == a2)
	assert.Equal(t, 1, len(g.Objects))

	b := g.Root.EnsureChild("b")
	assert.Equal(t, 2, len(g.Objects))
	assert.Equal(t, 2, len(g.Root.ChildrenArray))
	assert.False(t, b.IsContainer())
}

func TestReParent(t *testing.T) {
	g := aggraph.NewGraph()
	cluster := g.Root.EnsureChild("cluster")
	api := g.Root.EnsureChild("api")
	db := g.Root.EnsureChild("db")

	err := api.ReParent(cluster)
	assert.NoError(t, err)
	assert.True(t, api.Parent == cluster)
	assert.True(t, cluster.IsContainer())
	assert.Equal(t, 2, len(g.Root.ChildrenArray))

	// an object cannot be contained twice
	err = api.ReParent(db)
	assert.Error(t, err)

	// a container cannot adopt its own ancestor
	inner := g.Root.EnsureChild("inner")
	err = inner.ReParent(cluster)
	assert.NoError(t, err)
	err = cluster.ReParent(inner)
	assert.Error(t, err)
}

func TestAbsID(t *testing.T) {
	g := aggraph.NewGraph()
	c := g.Root.EnsureChild("c")
	a := g.Root.EnsureChild("a")
	b := g.Root.EnsureChild("b")
	assert.NoError(t, a.ReParent(c))
	assert.NoError(t, b.ReParent(c))

	assert.Equal(t, "c.a", a.AbsID())
	assert.Equal(t, aggraph.ContainerLevel(2), a.Level())

	e, err := g.Connect(a, b, false, true, "")
	assert.NoError(t, err)
	assert.Equal(t, "c.(a -> b)[0]", e.AbsID())

	assert.True(t, g.GetObject("c.a") == a)
	assert.Nil(t, g.GetObject("nope"))
}

func TestConnectIndex(t *testing.T) {
	g := aggraph.NewGraph()
	a := g.Root.EnsureChild("a")
	b := g.Root.EnsureChild("b")

	e1, err := g.Connect(a, b, false, true, "")
	assert.NoError(t, err)
	e2, err := g.Connect(a, b, false, true, "")
	assert.NoError(t, err)
	assert.Equal(t, 0, e1.Index)
	assert.Equal(t, 1, e2.Index)

	// different arrow pairs count separately
	e3, err := g.Connect(a, b, true, true, "")
	assert.NoError(t, err)
	assert.Equal(t, 0, e3.Index)
	assert.Equal(t, "<->", e3.ArrowString())
}

func TestApplyTextTransform(t *testing.T) {
	g := aggraph.NewGraph()
	a := g.Root.EnsureChild("a")
	a.Label = "web tier"

	transform := "uppercase"
	a.Style.TextTransform = &transform
	a.ApplyTextTransform()
	assert.Equal(t, "WEB TIER", a.Label)

	a.Label = "web tier"
	transform = "capitalize"
	a.ApplyTextTransform()
	assert.Equal(t, "Web Tier", a.Label)
}
