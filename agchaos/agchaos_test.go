package agchaos_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Josexato/almagag/agchaos"
	"github.com/Josexato/almagag/agcompiler"
	"github.com/Josexato/almagag/agexporter"
	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/aglayouts/agfit"
	"github.com/Josexato/almagag/aglayouts/aghier"
	"github.com/Josexato/almagag/agstructure"
	"github.com/Josexato/almagag/lib/log"
	"github.com/Josexato/almagag/lib/textmeasure"
)

// usage: ALMAGAG_CHAOS_MAXI=100 ALMAGAG_CHAOS_N=100 go test ./agchaos
//
// ALMAGAG_CHAOS_MAXI controls the number of iterations the document
// generator should go through to generate each input. It's roughly
// equivalent to the complexity level of each document.
//
// ALMAGAG_CHAOS_N controls the number of documents to generate and run the
// full flow on.
//
// All generated documents are stored in ./out/<n>.yaml and also
// ./out/<n>.yaml.goenc. The goenc version is the text encoded as a Go
// string. It lets you replay a test by adding it to testPinned below as
// you can just copy paste the go string in. Each document is seeded with
// its n, so a failure also reproduces from the subtest name alone.
func TestChaos(t *testing.T) {
	t.Parallel()

	const outDir = "out"
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("writing generated files to %s", outDir)

	t.Run("pinned", func(t *testing.T) {
		testPinned(t, outDir)
	})

	n := 1
	if os.Getenv("ALMAGAG_CHAOS_N") != "" {
		envn, err := strconv.Atoi(os.Getenv("ALMAGAG_CHAOS_N"))
		if err != nil {
			t.Errorf("failed to atoi $ALMAGAG_CHAOS_N: %v", err)
		} else {
			n = envn
		}
	}

	maxi := 10
	if os.Getenv("ALMAGAG_CHAOS_MAXI") != "" {
		envMaxi, err := strconv.Atoi(os.Getenv("ALMAGAG_CHAOS_MAXI"))
		if err != nil {
			t.Errorf("failed to atoi $ALMAGAG_CHAOS_MAXI: %v", err)
		} else {
			maxi = envMaxi
		}
	}

	for i := 0; i < n; i++ {
		i := i
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			t.Parallel()

			text, err := agchaos.GenDoc(int64(i), maxi)
			if err != nil {
				t.Fatal(err)
			}

			textPath := filepath.Join(outDir, fmt.Sprintf("%d.yaml", i))
			test(t, textPath, text)
		})
	}
}

func test(t *testing.T, textPath, text string) {
	t.Logf("writing document to %v (%d bytes)", textPath, len(text))
	err := os.WriteFile(textPath, []byte(text), 0644)
	if err != nil {
		t.Fatal(err)
	}

	goencText := fmt.Sprintf("%#v", text)
	err = os.WriteFile(textPath+".goenc", []byte(goencText), 0644)
	if err != nil {
		t.Fatal(err)
	}

	ctx := log.WithTB(context.Background(), t)

	ruler, err := textmeasure.NewRuler()
	assert.Nil(t, err)

	g, err := agcompiler.Compile(ctx, text, &agcompiler.CompileOptions{Ruler: ruler})
	if err != nil {
		t.Fatal(err)
	}

	info := agstructure.Analyze(ctx, g, nil)
	verifyStructure(t, g, info)

	t.Run("layout", func(t *testing.T) {
		defer func() {
			r := recover()
			if r != nil {
				t.Errorf("recovered layout engine panic: %#v\n%s", r, debug.Stack())
			}
		}()

		err = aghier.DefaultLayout(ctx, g)
		if err != nil {
			t.Fatal(err)
		}

		err = agfit.DefaultLayout(ctx, g)
		if err != nil {
			t.Fatal(err)
		}

		verifyLayout(t, g)

		diagram, err := agexporter.Export(ctx, g)
		if err != nil {
			t.Fatal(err)
		}
		assert.Greater(t, diagram.Width, 0)
		assert.Greater(t, diagram.Height, 0)
	})
}

// verifyStructure checks what analysis promises for any compiled graph,
// cycles, self references and all.
func verifyStructure(t *testing.T, g *aggraph.Graph, info *agstructure.Info) {
	for _, p := range info.Primaries {
		level, ok := info.Levels[p]
		if !ok {
			t.Errorf("primary %q has no level", p.ID)
			continue
		}
		assert.GreaterOrEqual(t, level, 0, "%s sits above the top level", p.ID)
		assert.Equal(t, 1, info.Depth[p], "%s is primary yet not at depth 1", p.ID)
	}

	for obj, terminal := range info.TerminalLeaves {
		if terminal {
			assert.True(t, info.Leaves[obj], "%s is terminal but not a leaf", obj.AbsID())
		}
	}

	for _, obj := range g.Objects {
		if obj.Parent != nil && obj.Parent.Parent != nil {
			assert.GreaterOrEqual(t, info.Depth[obj], 2, "%s is nested yet not at depth 2+", obj.AbsID())
		}
	}
}

// verifyLayout checks the geometry guarantees that hold no matter the
// input: every element is positioned and sized, nested elements stay
// within their container, every surviving connection has a route.
func verifyLayout(t *testing.T, g *aggraph.Graph) {
	for _, obj := range g.Objects {
		if !assert.NotNil(t, obj.TopLeft, "%s has no position", obj.AbsID()) {
			continue
		}
		assert.False(t, math.IsNaN(obj.TopLeft.X) || math.IsNaN(obj.TopLeft.Y), "%s has a NaN position", obj.AbsID())
		assert.Greater(t, obj.Width, 0.0, "%s has no width", obj.AbsID())
		assert.Greater(t, obj.Height, 0.0, "%s has no height", obj.AbsID())

		if obj.Parent != nil && obj.Parent.Parent != nil {
			parent := obj.Parent
			assert.GreaterOrEqual(t, obj.TopLeft.X, parent.TopLeft.X-0.5, "%s pokes out the left of %s", obj.AbsID(), parent.AbsID())
			assert.GreaterOrEqual(t, obj.TopLeft.Y, parent.TopLeft.Y-0.5, "%s pokes out the top of %s", obj.AbsID(), parent.AbsID())
			assert.LessOrEqual(t, obj.TopLeft.X+obj.Width, parent.TopLeft.X+parent.Width+0.5, "%s pokes out the right of %s", obj.AbsID(), parent.AbsID())
			assert.LessOrEqual(t, obj.TopLeft.Y+obj.Height, parent.TopLeft.Y+parent.Height+0.5, "%s pokes out the bottom of %s", obj.AbsID(), parent.AbsID())
		}

		if obj.HasLabel() {
			assert.NotNil(t, obj.LabelPosition, "%s has a label but no label position", obj.AbsID())
		}
	}

	for _, e := range g.Edges {
		assert.GreaterOrEqual(t, len(e.Route), 2, "%s has no route", e.AbsID())
		if e.HasLabel() {
			assert.NotNil(t, e.LabelPosition, "%s has a label but no label position", e.AbsID())
		}
	}
}

func testPinned(t *testing.T, outDir string) {
	t.Parallel()

	outDir = filepath.Join(outDir, t.Name())
	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("writing generated files to %v", outDir)

	testCases := []struct {
		name string
		text string
	}{
		{
			name: "empty",
			text: "",
		},
		{
			name: "self loop",
			text: "elements:\n  - id: a\nconnections:\n  - from: a\n    to: a\n",
		},
		{
			name: "cycle",
			text: "elements:\n  - id: a\n  - id: b\n  - id: c\nconnections:\n  - from: a\n    to: b\n  - from: b\n    to: c\n  - from: c\n    to: a\n",
		},
		{
			name: "deep nesting",
			text: "elements:\n  - id: a\n    contains: [{id: b}]\n  - id: b\n    contains: [{id: c}]\n  - id: c\n    contains: [{id: d}]\n  - id: d\n",
		},
		{
			name: "dangling refs",
			text: "elements:\n  - id: a\n    contains: [{id: ghost}]\nconnections:\n  - from: a\n    to: phantom\n",
		},
		{
			name: "pinned in container",
			text: "elements:\n  - id: box\n    contains: [{id: inner}]\n  - id: inner\n    x: 900\n    y: 700\n",
		},
		{
			name: "canvas hinted",
			text: "canvas:\n  width: 640\n  height: 480\nelements:\n  - id: a\n    label: hello\n",
		},
		{
			name: "case insensitive refs",
			text: "elements:\n  - id: API\n  - id: db\nconnections:\n  - from: api\n    to: DB\n",
		},
		{
			name: "container endpoint",
			text: "elements:\n  - id: cluster\n    contains: [{id: web}]\n  - id: web\n  - id: lb\nconnections:\n  - from: lb\n    to: cluster\n  - from: web\n    to: lb\n",
		},
	}
	for i, tc := range testCases {
		tc := tc
		i := i
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			textPath := filepath.Join(outDir, fmt.Sprintf("%d.yaml", i))
			test(t, textPath, tc.text)
		})
	}
}
