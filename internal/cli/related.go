package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/keywheel/pkg/related"
	"github.com/matzehuels/keywheel/pkg/theory"
)

// relatedCommand creates the related command, which lists the keys one
// diatonic step away from a key.
func (c *CLI) relatedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "related <key>",
		Short: "List the keys related to a key",
		Long: `List the up to six keys whose tonic is a degree of the given key's scale,
in scale-degree order. Keys are written as a letter, an optional accidental
(b or #) and an optional "m" for minor: C, F#m, Bb.`,
		Example: `  keywheel related C
  keywheel related f#m`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: keyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := theory.ParseKey(args[0])
			if err != nil {
				return err
			}
			return c.runRelated(cmd, key)
		},
	}
	return cmd
}

func (c *CLI) runRelated(cmd *cobra.Command, key theory.Key) error {
	steps, err := related.Steps(key)
	if err != nil {
		return err
	}
	c.Logger.Debug("resolved related keys", "key", key.Spelling(), "count", len(steps))

	rows := make([][]string, len(steps))
	for i, s := range steps {
		rows[i] = []string{s.Numeral(), s.Key.Spelling(), s.Key.Mode.String()}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("Keys related to %s %s", key.Root, key.Mode)))
	fmt.Fprintln(w, renderTable([]string{"Degree", "Key", "Mode"}, rows, 1))
	return nil
}
