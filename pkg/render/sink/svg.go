package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/keywheel/pkg/radial"
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	theme         Theme
}

// WithCanvas sets the frame size. The layout centre is not moved.
func WithCanvas(width, height float64) SVGOption {
	return func(r *svgRenderer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithTheme sets the colours, line width and font sizes.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// RenderSVG draws one frame. Edges are drawn beneath labels.
func RenderSVG(nodes []radial.Node, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		r.width, r.height, html.EscapeString(r.theme.Background))

	renderEdges(&buf, nodes, r.theme)
	renderLabels(&buf, nodes, r.theme)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderEdges(buf *bytes.Buffer, nodes []radial.Node, t Theme) {
	fmt.Fprintf(buf, `  <g class="edges" stroke="%s" stroke-width="%.1f">`+"\n", html.EscapeString(t.Edge), t.LineWidth)
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
			n.ParentPosition.X, n.ParentPosition.Y, n.Position.X, n.Position.Y)
	}
	buf.WriteString("  </g>\n")
}

func renderLabels(buf *bytes.Buffer, nodes []radial.Node, t Theme) {
	fmt.Fprintf(buf, `  <g class="keys" fill="%s" font-family="sans-serif" font-weight="bold" text-anchor="middle" dominant-baseline="middle">`+"\n",
		html.EscapeString(t.Text))
	for _, n := range nodes {
		class := fmt.Sprintf("gen%d", n.Generation)
		if n.Truncated {
			class += " truncated"
		}
		fmt.Fprintf(buf, `    <text class="%s" x="%.2f" y="%.2f" font-size="%.0f">%s</text>`+"\n",
			class, n.Position.X, n.Position.Y, t.FontSize(n.Generation), html.EscapeString(n.Label))
	}
	buf.WriteString("  </g>\n")
}
