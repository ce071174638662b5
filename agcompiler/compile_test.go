package agcompiler_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Josexato/almagag/agcompiler"
	"github.com/Josexato/almagag/lib/log"
	"github.com/Josexato/almagag/lib/textmeasure"
)

func mustRuler(t *testing.T) *textmeasure.Ruler {
	t.Helper()
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		t.Fatal(err)
	}
	return ruler
}

func TestCompileBasic(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, `
elements:
  - id: api
    type: service
  - id: users
    type: database
    label: user store
connections:
  - from: api
    to: users
    label: reads
`, &agcompiler.CompileOptions{Ruler: mustRuler(t)})
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 2, len(g.Objects))
	api := g.Root.EnsureChild("api")
	users := g.Root.EnsureChild("users")
	assert.Equal(t, "service", api.Kind.String())
	assert.Equal(t, "database", users.Kind.String())
	// label defaults to the id when the document has none
	assert.Equal(t, "api", api.Label)
	assert.Equal(t, "user store", users.Label)
	assert.Greater(t, api.LabelDimensions.Width, 0)
	assert.Greater(t, api.LabelDimensions.Height, 0)
	assert.Greater(t, api.Width, 0.)
	assert.Greater(t, api.Height, 0.)

	if assert.Equal(t, 1, len(g.Edges)) {
		e := g.Edges[0]
		assert.Equal(t, api, e.Src)
		assert.Equal(t, users, e.Dst)
		assert.Equal(t, "reads", e.Label)
		assert.False(t, e.SrcArrow)
		assert.True(t, e.DstArrow)
	}
}

func TestCompileContainment(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, `
elements:
  - id: cluster
    type: external
    contains:
      - id: web
        scope: left
      - id: ghost
  - id: web
    type: service
`, nil)
	if err != nil {
		t.Fatal(err)
	}

	cluster := g.Root.EnsureChild("cluster")
	web, ok := cluster.HasChild("web")
	if !ok {
		t.Fatal("web was not nested under cluster")
	}
	assert.Equal(t, cluster, web.Parent)
	assert.Equal(t, "left", web.Scope)
	// the dangling contains entry is skipped, not materialized
	assert.Equal(t, 2, len(g.Objects))
}

func TestCompileContainedTwice(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	_, err := agcompiler.Compile(ctx, `
elements:
  - id: a
    contains: [{id: c}]
  - id: b
    contains: [{id: c}]
  - id: c
`, nil)
	if err == nil {
		t.Fatal("expected contained-twice error")
	}
	assert.True(t, strings.Contains(err.Error(), "already contained"))
}

func TestCompileDuplicateID(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	_, err := agcompiler.Compile(ctx, `
elements:
  - id: api
  - id: api
`, nil)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	assert.True(t, strings.Contains(err.Error(), `duplicate element id "api"`))
}

func TestCompileDanglingConnection(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, `
elements:
  - id: api
connections:
  - from: api
    to: nowhere
`, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0, len(g.Edges))
}

func TestCompileDirections(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, `
elements:
  - id: a
  - id: b
connections:
  - {from: a, to: b}
  - {from: a, to: b, direction: forward}
  - {from: a, to: b, direction: backward}
  - {from: a, to: b, direction: bidirectional}
  - {from: a, to: b, direction: none}
  - {from: a, to: b, direction: sideways}
`, nil)
	if err != nil {
		t.Fatal(err)
	}

	type ar struct{ src, dst bool }
	want := []ar{
		{false, true},
		{false, true},
		{true, false},
		{true, true},
		{false, false},
		{false, true},
	}
	if assert.Equal(t, len(want), len(g.Edges)) {
		for i, e := range g.Edges {
			assert.Equal(t, want[i].src, e.SrcArrow, "edge %d", i)
			assert.Equal(t, want[i].dst, e.DstArrow, "edge %d", i)
		}
	}
}

func TestCompileGeometryAttrs(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, `
canvas: {width: 800, height: 600}
elements:
  - id: legend
    x: 500
    y: 20
    width: 200
    height: 90
  - id: tall
    height-proportion: 1.5
    width-proportion: 0.5
`, &agcompiler.CompileOptions{Ruler: mustRuler(t)})
	if err != nil {
		t.Fatal(err)
	}

	if assert.NotNil(t, g.Canvas) {
		assert.True(t, g.Canvas.Hinted)
		assert.Equal(t, 800., g.Canvas.Width)
		assert.Equal(t, 600., g.Canvas.Height)
	}

	legend := g.Root.EnsureChild("legend")
	assert.True(t, legend.Pinned())
	assert.Equal(t, 500., legend.TopLeft.X)
	assert.Equal(t, 20., legend.TopLeft.Y)
	assert.Equal(t, 200., legend.Width)
	assert.Equal(t, 90., legend.Height)

	tall := g.Root.EnsureChild("tall")
	assert.Equal(t, 1.5, tall.HeightScale)
	assert.Equal(t, 0.5, tall.WidthScale)
	// scales multiply the base size after label fitting
	assert.Equal(t, 96., tall.Height)
}

func TestCompileTextTransform(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, `
elements:
  - id: api
    label: gateway
    style: {text-transform: uppercase}
`, &agcompiler.CompileOptions{Ruler: mustRuler(t)})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "GATEWAY", g.Root.EnsureChild("api").Label)
}

func TestCompileInvalidYAML(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	_, err := agcompiler.Compile(ctx, "elements: [pretty much: : not yaml", nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCompileEmptyInput(t *testing.T) {
	ctx := log.WithTB(context.Background(), t)
	g, err := agcompiler.Compile(ctx, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 0, len(g.Objects))
	assert.Equal(t, 0, len(g.Edges))
}
