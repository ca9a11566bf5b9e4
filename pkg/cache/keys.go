package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// TopologyKey identifies the tree expanded from a root spelling.
	TopologyKey(root string, opts TopologyKeyOpts) string
}

// TopologyKeyOpts holds the geometry a cached topology was built with.
// A topology carries its whole geometry into Layout, so growth speed and
// centre are part of the key too.
type TopologyKeyOpts struct {
	Rings       [3]float64 `json:"rings"`
	Slices      [3]float64 `json:"slices"`
	GrowthSpeed float64    `json:"growth_speed"`
	Center      [2]float64 `json:"center"`
}

// DefaultKeyer formats keys as "topology:<root>:<sha256 of opts>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TopologyKey implements Keyer.
func (DefaultKeyer) TopologyKey(root string, opts TopologyKeyOpts) string {
	return hashKey("topology:"+root, opts)
}

// hashKey returns prefix:hash(parts...).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return fmt.Sprintf("%s:%s", prefix, Hash(data))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
