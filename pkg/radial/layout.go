package radial

import (
	"math"

	"github.com/matzehuels/keywheel/pkg/theory"
)

// Node is one drawable key in a single animation frame.
type Node struct {
	Key            theory.Key `json:"-"`
	Label          string     `json:"key"`
	Mode           string     `json:"mode"`
	Parent         string     `json:"parent,omitempty"`
	Generation     int        `json:"generation"`
	Angle          float64    `json:"angle"`
	TargetRadius   float64    `json:"target_radius"`
	Radius         float64    `json:"radius"`
	Position       Point      `json:"position"`
	ParentPosition Point      `json:"parent_position"`
	Truncated      bool       `json:"truncated,omitempty"`
}

// IsRoot reports whether n is the centre node.
func (n Node) IsRoot() bool { return n.Generation == 0 }

// Layout places every branch for the given tick and returns them in
// pre-order, root first. The root sits on the centre; every other node sits
// at its generation's current radius from the centre along its angle.
func (t *Topology) Layout(tick uint) []Node {
	cfg := t.Config
	nodes := make([]Node, 0, t.Stats().Total)
	pos := make(map[*Branch]Point, cap(nodes))

	t.Walk(func(b *Branch) {
		n := Node{
			Key:            b.Key,
			Label:          b.Key.Spelling(),
			Mode:           b.Key.Mode.String(),
			Generation:     b.Generation,
			Angle:          b.Angle,
			TargetRadius:   b.TargetRadius,
			Position:       cfg.Center,
			ParentPosition: cfg.Center,
			Truncated:      b.Truncated,
		}
		if p := b.Parent(); p != nil {
			n.Parent = p.Key.Spelling()
			n.ParentPosition = pos[p]
			n.Radius = cfg.RadiusAt(b.Generation, tick)
			n.Position = polar(cfg.Center, n.Radius, b.Angle)
		}
		pos[b] = n.Position
		nodes = append(nodes, n)
	})
	return nodes
}

// Saturated reports whether every ring has finished growing at tick.
func (t *Topology) Saturated(tick uint) bool {
	return tick >= t.Config.SaturationTick()
}

// ComputeLayout builds the topology for root and lays it out at tick.
// Like [BuildTopology] it only logs an invalid cfg.
func ComputeLayout(root theory.Key, tick uint, cfg Config, opts ...Option) []Node {
	return BuildTopology(root, cfg, opts...).Layout(tick)
}

func polar(center Point, r, degrees float64) Point {
	theta := degrees * math.Pi / 180
	return Point{
		X: center.X + r*math.Cos(theta),
		Y: center.Y + r*math.Sin(theta),
	}
}
