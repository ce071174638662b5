package aglib

import (
	"context"

	"github.com/Josexato/almagag/agcompiler"
	"github.com/Josexato/almagag/agexporter"
	"github.com/Josexato/almagag/aggraph"
	"github.com/Josexato/almagag/aglayouts/agfit"
	"github.com/Josexato/almagag/aglayouts/aghier"
	"github.com/Josexato/almagag/agtarget"
	"github.com/Josexato/almagag/lib/textmeasure"
)

type GenerateOptions struct {
	// Ruler measures label text. Nil builds one, which loads font faces,
	// so callers generating more than once should pass their own.
	Ruler *textmeasure.Ruler

	// Layout positions the graph. Nil runs the hierarchy engine with its
	// defaults.
	Layout func(context.Context, *aggraph.Graph) error

	// Fit places labels and resolves collisions after layout. Nil runs
	// the fitter with its defaults.
	Fit func(context.Context, *aggraph.Graph) error
}

// Generate runs the whole pipeline: compile the document, lay out the
// graph, fit labels and collisions, export the render model. The
// returned graph is the laid-out one backing the diagram.
func Generate(ctx context.Context, input string, opts *GenerateOptions) (*agtarget.Diagram, *aggraph.Graph, error) {
	if opts == nil {
		opts = &GenerateOptions{}
	}

	ruler := opts.Ruler
	if ruler == nil {
		var err error
		ruler, err = textmeasure.NewRuler()
		if err != nil {
			return nil, nil, err
		}
	}

	g, err := agcompiler.Compile(ctx, input, &agcompiler.CompileOptions{
		Ruler: ruler,
	})
	if err != nil {
		return nil, nil, err
	}

	layout := opts.Layout
	if layout == nil {
		layout = aghier.DefaultLayout
	}
	err = layout(ctx, g)
	if err != nil {
		return nil, nil, err
	}

	fit := opts.Fit
	if fit == nil {
		fit = agfit.DefaultLayout
	}
	err = fit(ctx, g)
	if err != nil {
		return nil, nil, err
	}

	diagram, err := agexporter.Export(ctx, g)
	return diagram, g, err
}
