package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gambitproject/draw-tree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path (or base path for multiple formats)
	configPath string  // explicit config file
	scale      float64 // drawing scale factor
	hunit      float64 // horizontal unit in cm
	vunit      float64 // vertical unit in cm
	minGap     float64 // minimum information-set clearance in cm
	widenLimit int     // widening iteration cap
	dpi        int     // PNG resolution
	grid       bool    // draw the debug coordinate grid
	refresh    bool    // bypass the cache
	noCache    bool    // disable the cache entirely
}

// renderCommand creates the render command, the main entry point of
// the tool.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a game file to TikZ and derived artifacts",
		Long: `Render parses an extensive-form game file, lays out the tree and
emits TikZ markup. PDF output runs pdflatex, PNG additionally runs
pdftoppm; both must be installed. The svg and dot formats use the
embedded Graphviz engine instead and need no TeX toolchain.

Use "-" as the file argument to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], formatsStr, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): tex (default), pdf, png, svg, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/drawtree/config.toml)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale factor for the drawing")
	cmd.Flags().Float64Var(&opts.hunit, "hunit", 0, "horizontal unit between leaves in cm")
	cmd.Flags().Float64Var(&opts.vunit, "vunit", 0, "vertical distance between depth rows in cm")
	cmd.Flags().Float64Var(&opts.minGap, "min-gap", 0, "minimum clearance between information-set members in cm")
	cmd.Flags().IntVar(&opts.widenLimit, "widen-limit", 0, "maximum widening iterations for information-set clearance")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "PNG resolution in dots per inch")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw a coordinate grid under the picture")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// buildOptions assembles pipeline options from config file and flags.
// Flags win over the config file, the config file over built-in
// defaults.
func (o *renderOpts) buildOptions(source []byte, formats []string) (pipeline.Options, error) {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}

	popts := pipeline.Options{
		Source:  source,
		Formats: formats,
		DPI:     o.dpi,
		Grid:    o.grid,
		Refresh: o.refresh,
	}
	applyConfig(&popts, cfg)

	params := popts.Params.FillDefaults()
	if o.scale != 0 {
		params.Scale = o.scale
	}
	if o.hunit != 0 {
		params.HorizontalUnit = o.hunit
	}
	if o.vunit != 0 {
		params.VerticalUnit = o.vunit
	}
	if o.minGap != 0 {
		params.MinGap = o.minGap
	}
	if o.widenLimit != 0 {
		params.WidenLimit = o.widenLimit
	}
	popts.Params = params

	return popts, nil
}

func (c *CLI) runRender(ctx context.Context, input string, formatsStr string, opts *renderOpts) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	popts, err := opts.buildOptions(source, parseFormats(formatsStr))
	if err != nil {
		return err
	}

	// Resolve defaults up front so the final format list is known for
	// output file naming. Parameter errors surface here, before any
	// parsing happens.
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	formats := popts.Formats

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// The TeX toolchain can take a while, show a spinner for it.
	var spin *spinner
	if needsToolchain(formats) {
		spin = newSpinner(ctx, "compiling with pdflatex")
		spin.start()
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.stop()
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))

	if err := c.writeArtifacts(input, formats, opts.output, result); err != nil {
		return err
	}

	printStats(result.Stats.NodeCount, result.Stats.InfoSetCount,
		result.CacheInfo.LayoutHit && result.CacheInfo.ArtifactHit)
	if result.Stats.Widened > 0 {
		printDetail("widened %d times for information-set clearance", result.Stats.Widened)
	}
	return nil
}

func needsToolchain(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPDF || f == pipeline.FormatPNG {
			return true
		}
	}
	return false
}

// writeArtifacts writes each produced format to its output file. With
// one format the output flag names the file directly (empty means a
// name derived from the input, "-" output is not special-cased since
// tex and dot already default to readable stdout behavior via "-o ''").
func (c *CLI) writeArtifacts(input string, formats []string, output string, result *pipeline.Result) error {
	if len(formats) == 1 {
		path := output
		if path == "" && input != "-" {
			path = basePath("", input) + "." + formats[0]
		}
		return c.writeArtifact(path, result.Artifacts[formats[0]])
	}

	base := basePath(output, input)
	for _, format := range formats {
		if err := c.writeArtifact(base+"."+format, result.Artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input
// paths. An empty output strips the extension from input; an output
// with a known format extension is stripped to its stem.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "tree"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
