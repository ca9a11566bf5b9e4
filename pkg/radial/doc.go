// Package radial lays out the related-key graph as a growing radial tree.
//
// # Overview
//
// The tree is rooted at one key and grows through three generations of
// related keys (see [related.Keys]). Each generation sits on its own ring
// around a centre point:
//
//	generation 0   the root, at the centre
//	generation 1   up to six keys spread evenly over the full circle
//	generation 2   each generation-1 branch gets a 60° slice
//	generation 3   each generation-2 branch gets a 10° slice
//
// A key that already appeared at a shallower generation is not shown again.
// Keys at the same generation may repeat across branches.
//
// # Topology and Frames
//
// Layout is split in two. [BuildTopology] computes the tick-independent tree:
// keys, generations, angles and target ring radii. [Topology.Layout] turns
// that tree into a flat list of [Node] values for one animation tick, where
// each node's radius is
//
//	min(tick * GrowthSpeed, ring radius)
//
// so a driver animates outward growth by incrementing the tick and laying out
// again. [ComputeLayout] does both in one call.
//
// # Failures
//
// When the resolver cannot expand a key (its related set would need a double
// accidental), that node is kept, marked Truncated, and recorded in
// [Topology.Failures]. The rest of the tree is laid out normally.
//
// # Concurrency
//
// Topologies are immutable after construction and safe to share. [Preview]
// lays out several roots concurrently.
//
// [related.Keys]: github.com/matzehuels/keywheel/pkg/related.Keys
package radial
