// Package pipeline runs the topology → layout → render chain for one frame.
//
// The CLI and the preview server both go through a [Runner] so that caching,
// defaults and validation behave the same everywhere:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache[*radial.Topology](), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Root:    "C",
//	    Tick:    pipeline.TickSaturated,
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also run on their own: [Runner.Topology] builds (or fetches) the
// tick-independent tree, [Runner.Layout] places it at one tick and
// [Runner.Render] encodes a frame.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/keywheel/pkg/cache"
	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/render/sink"
	"github.com/matzehuels/keywheel/pkg/theory"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// TickSaturated asks for the first fully grown frame.
	TickSaturated = -1

	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = sink.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = sink.DefaultHeight

	// DefaultPNGScale is the rsvg-convert zoom for PNG output.
	DefaultPNGScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatTXT  = "txt"
)

// Renderer constants select how SVG (and PNG/PDF) output is drawn.
const (
	RendererCanvas   = "canvas"   // direct SVG, as the canvas driver draws it
	RendererGraphviz = "graphviz" // pinned neato graph via go-graphviz
)

// DefaultRenderer is the default SVG renderer.
const DefaultRenderer = RendererCanvas

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatTXT:  true,
}

// ValidRenderers is the set of supported SVG renderers.
var ValidRenderers = map[string]bool{
	RendererCanvas:   true,
	RendererGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Root is the key text of the tree root, e.g. "C" or "f#m".
	Root string `json:"root"`

	// Tick is the frame to lay out. TickSaturated means the first frame in
	// which every ring has reached its radius.
	Tick int `json:"tick"`

	// Geometry is the layout configuration. The zero value means
	// radial.DefaultConfig(). A zero centre is replaced by the canvas
	// midpoint.
	Geometry radial.Config `json:"geometry"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Formats  []string   `json:"formats,omitempty"`
	Renderer string     `json:"renderer,omitempty"`
	Theme    sink.Theme `json:"-"`
	PNGScale float64    `json:"png_scale,omitempty"`

	// Refresh bypasses the topology cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	key       theory.Key
	validated bool
}

// Frame is one laid-out tick of a tree.
type Frame struct {
	Root      theory.Key
	Tick      uint
	Saturated bool
	Nodes     []radial.Node
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Frame

	// Topology is the tick-independent tree the frame was laid out from.
	Topology *radial.Topology

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	Truncated    int
	TopologyTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TopologyHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return kerrors.ValidateFormat(format, ValidFormats)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRenderer checks that a renderer name is valid.
func ValidateRenderer(name string) error {
	if !ValidRenderers[name] {
		return kerrors.New(kerrors.ErrCodeInvalidInput, "invalid renderer: %q (must be one of: canvas, graphviz)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults parses the root, checks every field and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	key, err := theory.ParseKey(o.Root)
	if err != nil {
		return err
	}
	o.key = key

	if o.Tick < TickSaturated {
		return kerrors.New(kerrors.ErrCodeInvalidTick, "invalid tick %d (must be >= 0)", o.Tick)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "canvas size must be positive (got %gx%g)", o.Width, o.Height)
	}

	if o.Geometry == (radial.Config{}) {
		o.Geometry = radial.DefaultConfig()
	}
	if o.Geometry.Center == (radial.Point{}) {
		o.Geometry.Center = radial.Point{X: o.Width / 2, Y: o.Height / 2}
	}
	if err := o.Geometry.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if err := ValidateRenderer(o.Renderer); err != nil {
		return err
	}

	if o.Theme == (sink.Theme{}) {
		o.Theme = sink.DefaultTheme()
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Key returns the parsed root. It is only meaningful after
// ValidateAndSetDefaults succeeded.
func (o *Options) Key() theory.Key { return o.key }

// ResolveTick returns the concrete tick for the options' geometry.
func (o *Options) ResolveTick() uint {
	if o.Tick == TickSaturated {
		return o.Geometry.SaturationTick()
	}
	return uint(o.Tick)
}

// TopologyKeyOpts returns the cache key options for a geometry.
func TopologyKeyOpts(cfg radial.Config) cache.TopologyKeyOpts {
	return cache.TopologyKeyOpts{
		Rings:       [3]float64{cfg.Ring1Radius, cfg.Ring2Radius, cfg.Ring3Radius},
		Slices:      cfg.Slices,
		GrowthSpeed: cfg.GrowthSpeed,
		Center:      [2]float64{cfg.Center.X, cfg.Center.Y},
	}
}
