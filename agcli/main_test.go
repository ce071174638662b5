package agcli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"oss.terrastruct.com/util-go/assert"
	"oss.terrastruct.com/util-go/xmain"
	"oss.terrastruct.com/util-go/xos"

	"github.com/Josexato/almagag/agcli"
	"github.com/Josexato/almagag/lib/version"
)

const helloDoc = `
elements:
  - id: x
  - id: y
connections:
  - from: x
    to: y
`

// The CLI does not run in its own process, so these cover flag plumbing
// and file IO, not signal handling.
func TestCLI(t *testing.T) {
	t.Parallel()

	tca := []struct {
		name string
		run  func(t *testing.T, ctx context.Context, dir string, env *xos.Env)
	}{
		{
			name: "hello_world",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "hello-world.yaml", helloDoc)
				err := runTestMain(t, ctx, dir, env, "hello-world.yaml")
				assert.Success(t, err)

				rendered := string(readFile(t, dir, "hello-world.svg"))
				assert.Equal(t, true, strings.HasPrefix(rendered, `<?xml version="1.0" encoding="utf-8"?>`))
				assert.Equal(t, true, strings.Contains(rendered, `data-id="x"`))
				assert.Equal(t, true, strings.Contains(rendered, `data-id="y"`))
			},
		},
		{
			name: "output_arg_no_xml_tag",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.yaml", helloDoc)
				err := runTestMain(t, ctx, dir, env, "--no-xml-tag", "in.yaml", "out.svg")
				assert.Success(t, err)

				rendered := string(readFile(t, dir, "out.svg"))
				assert.Equal(t, true, strings.HasPrefix(rendered, `<svg `))
			},
		},
		{
			name: "stdin",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdin := bytes.NewBufferString(helloDoc)
				stdout := &bytes.Buffer{}
				tms := testMain(dir, env, "-")
				tms.Stdin = stdin
				tms.Stdout = stdout
				tms.Start(t, ctx)
				defer tms.Cleanup(t)
				err := tms.Wait(ctx)
				assert.Success(t, err)

				assert.Equal(t, true, strings.Contains(stdout.String(), `data-id="x"`))
			},
		},
		{
			name: "too_many_args",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "in.yaml", helloDoc)
				err := runTestMain(t, ctx, dir, env, "in.yaml", "out.svg", "extra.svg")
				if err == nil {
					t.Fatal("expected usage error")
				}
				assert.Equal(t, true, strings.Contains(err.Error(), "too many arguments passed"))
			},
		},
		{
			name: "duplicate_id",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				writeFile(t, dir, "dup.yaml", `
elements:
  - id: x
  - id: x
`)
				err := runTestMain(t, ctx, dir, env, "dup.yaml")
				if err == nil {
					t.Fatal("expected compile error")
				}
				assert.Equal(t, true, strings.Contains(err.Error(), "duplicate element id"))
			},
		},
		{
			name: "version",
			run: func(t *testing.T, ctx context.Context, dir string, env *xos.Env) {
				stdout := &bytes.Buffer{}
				tms := testMain(dir, env, "version")
				tms.Stdout = stdout
				tms.Start(t, ctx)
				defer tms.Cleanup(t)
				err := tms.Wait(ctx)
				assert.Success(t, err)
				assert.Equal(t, true, strings.Contains(stdout.String(), version.Version))
			},
		},
	}

	ctx := context.Background()
	for _, tc := range tca {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(ctx, time.Minute*2)
			defer cancel()

			dir, cleanup := assert.TempDir(t)
			defer cleanup()

			env := xos.NewEnv(nil)

			tc.run(t, ctx, dir, env)
		})
	}
}

func testMain(dir string, env *xos.Env, args ...string) *xmain.TestState {
	return &xmain.TestState{
		Run:  agcli.Run,
		Env:  env,
		Args: append([]string{"agcli/almagag"}, args...),
		PWD:  dir,
	}
}

func runTestMain(tb testing.TB, ctx context.Context, dir string, env *xos.Env, args ...string) error {
	tms := testMain(dir, env, args...)
	tms.Start(tb, ctx)
	defer tms.Cleanup(tb)
	return tms.Wait(ctx)
}

func writeFile(tb testing.TB, dir, fp, data string) {
	tb.Helper()
	err := os.MkdirAll(filepath.Dir(filepath.Join(dir, fp)), 0755)
	assert.Success(tb, err)
	assert.WriteFile(tb, filepath.Join(dir, fp), []byte(data), 0644)
}

func readFile(tb testing.TB, dir, fp string) []byte {
	tb.Helper()
	return assert.ReadFile(tb, filepath.Join(dir, fp))
}
