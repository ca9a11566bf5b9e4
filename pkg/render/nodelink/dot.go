package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/render/sink"
)

// Options configures DOT generation.
type Options struct {
	// Theme supplies colours and font sizes. The zero value means
	// sink.DefaultTheme().
	Theme sink.Theme
}

// ToDOT converts a pre-order node list into an undirected neato graph with
// every node pinned at its layout position. Graphviz's y axis points up, so
// y coordinates are negated.
//
// Node IDs are pre-order indexes; the same key can appear under several
// branches at one generation.
func ToDOT(nodes []radial.Node, opts Options) string {
	theme := opts.Theme
	if theme == (sink.Theme{}) {
		theme = sink.DefaultTheme()
	}

	var buf bytes.Buffer
	buf.WriteString("graph keys {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", theme.Background)
	fmt.Fprintf(&buf, "  node [shape=plaintext, fontname=\"sans-serif bold\", fontcolor=%q];\n", theme.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%.1f];\n", dotColor(theme.Edge), theme.LineWidth)
	buf.WriteString("\n")

	for i, n := range nodes {
		fmt.Fprintf(&buf, "  n%d [label=%q, pos=\"%.2f,%.2f!\", fontsize=%.0f];\n",
			i, n.Label, n.Position.X, -n.Position.Y, theme.FontSize(n.Generation))
	}

	buf.WriteString("\n")
	for i, p := range parents(nodes) {
		if p >= 0 {
			fmt.Fprintf(&buf, "  n%d -- n%d;\n", p, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// parents returns the index of each node's parent, or -1 for the root. In
// pre-order the parent is the latest earlier node one generation up.
func parents(nodes []radial.Node) []int {
	var last [radial.Generations + 1]int
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = -1
		if g := n.Generation; g > 0 && g <= radial.Generations {
			out[i] = last[g-1]
		}
		if n.Generation >= 0 && n.Generation <= radial.Generations {
			last[n.Generation] = i
		}
	}
	return out
}

var rgbaRe = regexp.MustCompile(`^rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*([0-9.]+)\s*)?\)$`)

// dotColor turns a CSS rgb()/rgba() colour into Graphviz "#rrggbbaa".
// Other strings pass through.
func dotColor(c string) string {
	m := rgbaRe.FindStringSubmatch(c)
	if m == nil {
		return c
	}
	var rgb [3]int
	for i := range rgb {
		v, _ := strconv.Atoi(m[i+1])
		rgb[i] = min(v, 255)
	}
	alpha := 255
	if m[4] != "" {
		a, _ := strconv.ParseFloat(m[4], 64)
		alpha = int(min(max(a, 0), 1) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", rgb[0], rgb[1], rgb[2], alpha)
}

// RenderSVG renders DOT source to SVG in process.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
