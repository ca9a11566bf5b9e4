// Package sink writes single frames of a radial key tree.
//
// Every writer takes the pre-order node list produced by
// [radial.Topology.Layout]; the first node is the root.
//
//   - [RenderSVG]: the frame as the browser canvas would draw it: a filled
//     background, one line per parent-child edge and one centred label per
//     key, sized by generation.
//   - [RenderJSON]: the node list with frame metadata, for other drivers.
//   - [RenderText]: an indented outline of the tree.
//
// [radial.Topology.Layout]: github.com/matzehuels/keywheel/pkg/radial
package sink
