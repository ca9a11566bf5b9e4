package sink

import (
	"bytes"
	"strings"

	"github.com/matzehuels/keywheel/pkg/radial"
)

// TruncatedMark follows the label of a key that failed to expand.
const TruncatedMark = "!"

// RenderText writes the tree as an outline, two spaces per generation.
// Keys that failed to expand are marked with [TruncatedMark].
func RenderText(nodes []radial.Node) []byte {
	var buf bytes.Buffer
	for _, n := range nodes {
		buf.WriteString(strings.Repeat("  ", n.Generation))
		buf.WriteString(n.Label)
		if n.Truncated {
			buf.WriteString(TruncatedMark)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
