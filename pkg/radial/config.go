package radial

import (
	"math"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
)

// Generations is the number of rings expanded around the root.
const Generations = 3

// Default geometry, in canvas units.
const (
	DefaultRing1Radius = 150.0
	DefaultRing2Radius = 300.0
	DefaultRing3Radius = 450.0
	DefaultGrowthSpeed = 12.0
)

// DefaultSlices is the angular budget in degrees granted to the children of
// one node at each generation: the full circle for the root, then 360/6 and
// 360/36 for the nominal fan-out of six keys per node.
var DefaultSlices = [Generations]float64{360, 60, 10}

// Point is a position on the drawing surface.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config holds the layout geometry.
type Config struct {
	Ring1Radius float64              `json:"ring1_radius"`
	Ring2Radius float64              `json:"ring2_radius"`
	Ring3Radius float64              `json:"ring3_radius"`
	GrowthSpeed float64              `json:"growth_speed"` // distance units per tick
	Center      Point                `json:"center"`
	Slices      [Generations]float64 `json:"slices"` // degrees per generation
}

// DefaultConfig returns the standard geometry centred on the origin.
func DefaultConfig() Config {
	return Config{
		Ring1Radius: DefaultRing1Radius,
		Ring2Radius: DefaultRing2Radius,
		Ring3Radius: DefaultRing3Radius,
		GrowthSpeed: DefaultGrowthSpeed,
		Slices:      DefaultSlices,
	}
}

// Radius returns the target ring radius for generation g (1-3).
// The root's ring is 0.
func (c Config) Radius(g int) float64 {
	switch g {
	case 1:
		return c.Ring1Radius
	case 2:
		return c.Ring2Radius
	case 3:
		return c.Ring3Radius
	}
	return 0
}

// RadiusAt returns the drawn radius for generation g at tick:
// linear growth capped at the ring radius.
func (c Config) RadiusAt(g int, tick uint) float64 {
	return math.Min(float64(tick)*c.GrowthSpeed, c.Radius(g))
}

// SaturationTick returns the first tick at which every ring has reached its
// target radius. The largest ring decides, whichever generation it belongs to.
func (c Config) SaturationTick() uint {
	if c.GrowthSpeed <= 0 {
		return 0
	}
	outer := max(c.Ring1Radius, c.Ring2Radius, c.Ring3Radius)
	if outer <= 0 {
		return 0
	}
	return uint(math.Ceil(outer / c.GrowthSpeed))
}

// Validate checks that the geometry can be laid out.
func (c Config) Validate() error {
	if c.Ring1Radius <= 0 || c.Ring2Radius <= 0 || c.Ring3Radius <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "ring radii must be positive (got %g, %g, %g)",
			c.Ring1Radius, c.Ring2Radius, c.Ring3Radius)
	}
	if c.Ring1Radius >= c.Ring2Radius || c.Ring2Radius >= c.Ring3Radius {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "ring radii must increase outward (got %g, %g, %g)",
			c.Ring1Radius, c.Ring2Radius, c.Ring3Radius)
	}
	if c.GrowthSpeed <= 0 {
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "growth speed must be positive (got %g)", c.GrowthSpeed)
	}
	for i, s := range c.Slices {
		if s <= 0 || s > 360 {
			return kerrors.New(kerrors.ErrCodeInvalidConfig, "slice for generation %d must be in (0, 360] (got %g)", i+1, s)
		}
	}
	return nil
}
