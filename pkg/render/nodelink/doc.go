// Package nodelink renders a radial key tree through Graphviz.
//
// Node positions come from the radial layout and are pinned, so the neato
// engine only routes edges and draws labels:
//
//	dot := nodelink.ToDOT(nodes, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source is also useful on its own, e.g. with
// `neato -n2 -Tsvg keys.dot`. In-process rendering uses
// [github.com/goccy/go-graphviz], which needs no Graphviz installation.
// PDF and PNG conversion of the result requires librsvg (rsvg-convert).
package nodelink
