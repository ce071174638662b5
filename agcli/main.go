package agcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/xmain"

	"github.com/Josexato/almagag/aglib"
	"github.com/Josexato/almagag/agrenderers/agsvg"
	"github.com/Josexato/almagag/lib/log"
	"github.com/Josexato/almagag/lib/textmeasure"
	"github.com/Josexato/almagag/lib/version"
)

func Run(ctx context.Context, ms *xmain.State) (err error) {
	ctx = log.Stderr(ctx)

	// These should be kept up-to-date with the readme
	watchFlag, err := ms.Opts.Bool("ALMAGAG_WATCH", "watch", "w", false, "watch for changes to input and re-render the output file on each change")
	if err != nil {
		return err
	}
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		return err
	}
	padFlag, err := ms.Opts.Int64("ALMAGAG_PAD", "pad", "", agsvg.DEFAULT_PADDING, "pixels padded around the rendered diagram")
	if err != nil {
		return err
	}
	timeoutFlag, err := ms.Opts.Int64("ALMAGAG_TIMEOUT", "timeout", "", 120, "the maximum number of seconds almagag runs for before timing out and exiting. When rendering a large diagram, it is recommended to increase this value")
	if err != nil {
		return err
	}
	scaleFlag, err := ms.Opts.Float64("SCALE", "scale", "", -1, "scale the output. E.g., 0.5 to halve the default size. The default -1 keeps the width/height equal to the viewBox.")
	if err != nil {
		return err
	}
	noXMLTagFlag, err := ms.Opts.Bool("ALMAGAG_NO_XML_TAG", "no-xml-tag", "", false, "omit the XML tag (<?xml ...?>) from the output SVG. Useful when generating SVGs for direct HTML embedding")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if len(ms.Opts.Flags.Args()) > 0 {
		switch ms.Opts.Flags.Arg(0) {
		case "version":
			if len(ms.Opts.Flags.Args()) > 1 {
				return xmain.UsageErrorf("version subcommand accepts no arguments")
			}
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
	}

	if *debugFlag {
		ctx = log.Leveled(ctx, slog.LevelDebug)
		ms.Env.Setenv("DEBUG", "1")
	}
	if timeoutFlag != nil {
		os.Setenv("ALMAGAG_TIMEOUT", fmt.Sprintf("%d", *timeoutFlag))
	}

	var inputPath string
	var outputPath string

	if len(ms.Opts.Flags.Args()) == 0 {
		if versionFlag != nil && *versionFlag {
			fmt.Fprintln(ms.Stdout, version.Version)
			return nil
		}
		help(ms)
		return nil
	} else if len(ms.Opts.Flags.Args()) >= 3 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	inputPath = ms.Opts.Flags.Arg(0)
	if len(ms.Opts.Flags.Args()) >= 2 {
		outputPath = ms.Opts.Flags.Arg(1)
	} else {
		if inputPath == "-" {
			outputPath = "-"
		} else {
			outputPath = renameExt(inputPath, ".svg")
		}
	}
	if inputPath != "-" {
		inputPath = ms.AbsPath(inputPath)
	}
	if outputPath != "-" {
		outputPath = ms.AbsPath(outputPath)
	}

	var scale *float64
	if scaleFlag != nil && *scaleFlag > 0. {
		scale = scaleFlag
	}
	renderOpts := agsvg.RenderOpts{
		Pad:      padFlag,
		Scale:    scale,
		NoXMLTag: noXMLTagFlag,
	}

	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return err
	}

	if *watchFlag {
		if inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
		}
		w, err := newWatcher(ctx, ms, watcherOpts{
			ruler:      ruler,
			renderOpts: renderOpts,
			inputPath:  inputPath,
			outputPath: outputPath,
		})
		if err != nil {
			return err
		}
		return w.run()
	}

	ctx, cancel := log.WithTimeout(ctx, time.Minute*2)
	defer cancel()

	_, err = compile(ctx, ms, ruler, renderOpts, inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", ms.HumanPath(inputPath), err)
	}
	ms.Log.Success.Printf("successfully compiled %v to %v", ms.HumanPath(inputPath), ms.HumanPath(outputPath))
	return nil
}

func compile(ctx context.Context, ms *xmain.State, ruler *textmeasure.Ruler, renderOpts agsvg.RenderOpts, inputPath, outputPath string) ([]byte, error) {
	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return nil, err
	}

	diagram, _, err := aglib.Generate(ctx, string(input), &aglib.GenerateOptions{
		Ruler: ruler,
	})
	if err != nil {
		return nil, err
	}

	out, err := agsvg.Render(diagram, &renderOpts)
	if err != nil {
		return nil, err
	}

	err = ms.WritePath(outputPath, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// newExt must include leading .
func renameExt(fp string, newExt string) string {
	ext := filepath.Ext(fp)
	if ext == "" {
		return fp + newExt
	}
	return strings.TrimSuffix(fp, ext) + newExt
}
