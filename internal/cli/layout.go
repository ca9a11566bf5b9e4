package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/keywheel/pkg/pipeline"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/render/sink"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	tick   int  // frame to lay out, pipeline.TickSaturated for the grown tree
	asJSON bool // print the frame as JSON instead of a table
}

// layoutCommand creates the layout command, which prints the placed keys of
// one frame.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{tick: pipeline.TickSaturated}

	cmd := &cobra.Command{
		Use:   "layout <key>",
		Short: "Print the positions of every key in one frame",
		Long: `Print the positions of every key in one frame.

Without --tick the frame is the first one in which every ring has reached its
full radius. Geometry comes from the [layout] and [canvas] config sections.`,
		Example: `  keywheel layout C
  keywheel layout Am --tick 10
  keywheel layout Eb --json`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: keyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.tick, "tick", opts.tick, "frame to lay out (default: first saturated frame)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the frame as JSON")

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, root string, opts layoutOpts) error {
	runner := c.newRunner()
	defer runner.Close()

	formats := []string{pipeline.FormatTXT}
	if opts.asJSON {
		formats = []string{pipeline.FormatJSON}
	}

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Root:     root,
		Tick:     opts.tick,
		Geometry: c.Config.Radial(),
		Width:    c.Config.Canvas.Width,
		Height:   c.Config.Canvas.Height,
		Formats:  formats,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.asJSON {
		_, err := w.Write(result.Artifacts[pipeline.FormatJSON])
		return err
	}

	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s at tick %d", result.Root, result.Tick)))
	fmt.Fprintln(w, renderTable(layoutHeaders, layoutRows(result.Nodes), 1))
	printStats(w, result.Stats.NodeCount, result.Stats.Truncated, result.CacheInfo.TopologyHit)
	if len(result.Topology.Failures) > 0 {
		f := result.Topology.Failures[0]
		printWarning(w, "%d keys could not be expanded, first %s: %v", len(result.Topology.Failures), f.Key, f.Err)
	}
	if !result.Saturated {
		printInfo(w, "still growing, saturated at tick %d", result.Topology.Config.SaturationTick())
	}
	return nil
}

var layoutHeaders = []string{"Gen", "Key", "Parent", "Angle", "Radius", "X", "Y"}

// layoutRows formats nodes in pre-order; truncated keys carry a "!" suffix
// the same way the text sink marks them.
func layoutRows(nodes []radial.Node) [][]string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		label := n.Label
		if n.Truncated {
			label += sink.TruncatedMark
		}
		rows[i] = []string{
			strconv.Itoa(n.Generation),
			label,
			n.Parent,
			formatFloat(n.Angle),
			fmt.Sprintf("%s/%s", formatFloat(n.Radius), formatFloat(n.TargetRadius)),
			formatFloat(n.Position.X),
			formatFloat(n.Position.Y),
		}
	}
	return rows
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
