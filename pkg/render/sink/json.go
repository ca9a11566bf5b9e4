package sink

import (
	"encoding/json"

	"github.com/matzehuels/keywheel/pkg/radial"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonOutput)

// WithJSONTick records the tick the frame was laid out at.
func WithJSONTick(tick uint) JSONOption { return func(o *jsonOutput) { o.Tick = tick } }

// WithJSONCanvas records the frame size.
func WithJSONCanvas(width, height float64) JSONOption {
	return func(o *jsonOutput) { o.Width, o.Height = width, height }
}

// WithJSONSaturated marks the frame as the final, fully grown one.
func WithJSONSaturated(saturated bool) JSONOption {
	return func(o *jsonOutput) { o.Saturated = saturated }
}

type jsonOutput struct {
	Root      string        `json:"root"`
	Tick      uint          `json:"tick"`
	Saturated bool          `json:"saturated"`
	Width     float64       `json:"width,omitempty"`
	Height    float64       `json:"height,omitempty"`
	Nodes     []radial.Node `json:"nodes"`
}

// RenderJSON encodes a frame as indented JSON.
func RenderJSON(nodes []radial.Node, opts ...JSONOption) ([]byte, error) {
	out := jsonOutput{Nodes: nodes}
	if out.Nodes == nil {
		out.Nodes = []radial.Node{}
	}
	if len(nodes) > 0 {
		out.Root = nodes[0].Label
	}
	for _, opt := range opts {
		opt(&out)
	}
	return json.MarshalIndent(out, "", "  ")
}
