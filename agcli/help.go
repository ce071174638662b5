package agcli

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"github.com/Josexato/almagag/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch=false] [--pad=100] file.yaml [file.svg]
  %[1]s version

%[1]s compiles and renders file.yaml to file.svg
It defaults to file.svg if an output path is not provided.

Use - to have %[1]s read from stdin or write to stdout.

Flags:
%[3]s

Subcommands:
  %[1]s version - Print the version
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}
