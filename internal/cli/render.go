package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/pipeline"
	"github.com/matzehuels/keywheel/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path (several)
	formats  []string // output formats: svg, png, pdf, dot, json, txt
	tick     int      // frame to render, pipeline.TickSaturated for the grown tree
	renderer string   // svg renderer: canvas or graphviz
	width    float64  // canvas width, 0 for the config value
	height   float64  // canvas height, 0 for the config value
	scale    float64  // png zoom
}

// renderCommand creates the render command, which writes one frame to disk.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		tick:     pipeline.TickSaturated,
		renderer: pipeline.DefaultRenderer,
		scale:    pipeline.DefaultPNGScale,
	}

	cmd := &cobra.Command{
		Use:   "render <key>",
		Short: "Render one frame of a key's tree to files",
		Long: `Render one frame of a key's tree to files.

With a single format, -o names the output file. With several, -o is a base
path and each file gets the format as extension. PNG and PDF output need
rsvg-convert on PATH.`,
		Example: `  keywheel render C
  keywheel render F#m -f svg,png -o out/fsharp-minor
  keywheel render Bb --tick 5 --renderer graphviz`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: keyCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json, txt (comma-separated)")
	cmd.Flags().IntVar(&opts.tick, "tick", opts.tick, "frame to render (default: first saturated frame)")
	cmd.Flags().StringVar(&opts.renderer, "renderer", opts.renderer, "svg renderer: canvas (default), graphviz")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width (default: config canvas.width)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height (default: config canvas.height)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "png zoom factor")

	_ = cmd.RegisterFlagCompletionFunc("renderer", cobra.FixedCompletions(
		[]string{pipeline.RendererCanvas, pipeline.RendererGraphviz}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, root string, opts renderOpts) error {
	timer := newRenderTimer(c.Logger)

	// Fail before any work when a raster format cannot be produced.
	for _, f := range opts.formats {
		if (f == pipeline.FormatPNG || f == pipeline.FormatPDF) && !render.Available() {
			return kerrors.New(kerrors.ErrCodeUnsupported, "%s output needs rsvg-convert on PATH", f)
		}
	}

	width, height := opts.width, opts.height
	if width == 0 {
		width = c.Config.Canvas.Width
	}
	if height == 0 {
		height = c.Config.Canvas.Height
	}

	// The centre follows the canvas, which the flags may have resized.
	geometry := c.Config.Radial()
	geometry.Center.X, geometry.Center.Y = 0, 0

	runner := c.newRunner()
	defer runner.Close()

	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		Root:     root,
		Tick:     opts.tick,
		Geometry: geometry,
		Width:    width,
		Height:   height,
		Formats:  opts.formats,
		Renderer: opts.renderer,
		Theme:    c.Config.SinkTheme(),
		PNGScale: opts.scale,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	paths := outputPaths(opts.output, result.Root.Spelling(), opts.formats)
	for _, f := range opts.formats {
		if err := writeOutput(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}

	printSuccess(w, "Rendered %s at tick %d", result.Root, result.Tick)
	for _, f := range opts.formats {
		printFile(w, paths[f])
	}
	printStats(w, result.Stats.NodeCount, result.Stats.Truncated, result.CacheInfo.TopologyHit)
	timer.done(result.Root.Spelling(), result.Tick, len(opts.formats))
	return nil
}

// outputPaths maps each format onto the file it is written to. A single
// format with an explicit output path uses that path unchanged.
func outputPaths(output, root string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, root)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path. An empty output is derived from
// the root spelling ("F#m" becomes "keywheel-fsharp-minor"); a known format
// extension is stripped.
func basePath(output, root string) string {
	if output == "" {
		return "keywheel-" + fileStem(root)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

var accidentalWords = strings.NewReplacer("#", "sharp", "b", "flat")

func fileStem(spelling string) string {
	stem := strings.ToLower(spelling)
	suffix := ""
	if strings.HasSuffix(stem, "m") {
		stem, suffix = strings.TrimSuffix(stem, "m"), "-minor"
	}
	if stem == "" {
		return suffix
	}
	return stem[:1] + accidentalWords.Replace(stem[1:]) + suffix
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
