// Package render turns laid-out key trees into files.
//
// Frame writers live in [sink] (SVG, JSON, plain text) and a Graphviz
// rendition with pinned positions lives in [nodelink]. This package converts
// any of their SVG output to raster or print formats with the external
// rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(nodes, sink.WithCanvas(1000, 1000))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink]: github.com/matzehuels/keywheel/pkg/render/sink
// [nodelink]: github.com/matzehuels/keywheel/pkg/render/nodelink
package render
