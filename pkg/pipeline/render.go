package pipeline

import (
	"context"
	"fmt"
	"time"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/observability"
	"github.com/matzehuels/keywheel/pkg/render"
	"github.com/matzehuels/keywheel/pkg/render/nodelink"
	"github.com/matzehuels/keywheel/pkg/render/sink"
)

// Render encodes a frame in every requested format.
// PNG and PDF are converted from the SVG rendition.
func (r *Runner) Render(ctx context.Context, frame Frame, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFrame(ctx, frame, &opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFrame(ctx context.Context, frame Frame, opts *Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = renderSVG(ctx, frame, opts)
		return svg, err
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.PNGScale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatDOT:
			data = []byte(nodelink.ToDOT(frame.Nodes, nodelink.Options{Theme: opts.Theme}))
		case FormatJSON:
			data, err = sink.RenderJSON(frame.Nodes,
				sink.WithJSONTick(frame.Tick),
				sink.WithJSONSaturated(frame.Saturated),
				sink.WithJSONCanvas(opts.Width, opts.Height))
		case FormatTXT:
			data = sink.RenderText(frame.Nodes)
		default:
			return nil, kerrors.New(kerrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderSVG(ctx context.Context, frame Frame, opts *Options) ([]byte, error) {
	if opts.Renderer == RendererGraphviz {
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(frame.Nodes, nodelink.Options{Theme: opts.Theme}))
	}
	return sink.RenderSVG(frame.Nodes,
		sink.WithCanvas(opts.Width, opts.Height),
		sink.WithTheme(opts.Theme)), nil
}
