package sink

import "github.com/matzehuels/keywheel/pkg/radial"

// Default frame colours and metrics.
const (
	DefaultBackground = "#66b8d9"
	DefaultText       = "#111111"
	DefaultEdge       = "rgba(60,60,60,0.3)"
	DefaultLineWidth  = 2.0
	DefaultWidth      = 1000.0
	DefaultHeight     = 1000.0
)

// DefaultFontSizes holds the label size per generation, root first.
var DefaultFontSizes = [radial.Generations + 1]float64{48, 28, 20, 12}

// Theme controls frame colours. Colours are any CSS colour string.
type Theme struct {
	Background string
	Text       string
	Edge       string
	LineWidth  float64
	FontSizes  [radial.Generations + 1]float64
}

// DefaultTheme returns the sky-blue theme.
func DefaultTheme() Theme {
	return Theme{
		Background: DefaultBackground,
		Text:       DefaultText,
		Edge:       DefaultEdge,
		LineWidth:  DefaultLineWidth,
		FontSizes:  DefaultFontSizes,
	}
}

// FontSize returns the label size for generation g.
func (t Theme) FontSize(g int) float64 {
	if g < 0 || g >= len(t.FontSizes) {
		return t.FontSizes[len(t.FontSizes)-1]
	}
	return t.FontSizes[g]
}
