// Package pipeline provides the core rendering pipeline: parse →
// validate → layout → emit, with compilation and rasterization on
// demand. CLI and API both run through it, so behavior and caching
// stay identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  efText,
//	    Formats: []string{pipeline.FormatTeX},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tex := result.Artifacts[pipeline.FormatTeX]
//
// Individual stages can also be run on their own:
//
//	tree, err := runner.ParseTree(ctx, opts)
//	l, err := runner.ComputeLayout(ctx, tree, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gambitproject/draw-tree/pkg/cache"
	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/game"
	"github.com/gambitproject/draw-tree/pkg/layout"
	"github.com/gambitproject/draw-tree/pkg/render/tikz"
	"github.com/gambitproject/draw-tree/pkg/texdoc"
)

// DefaultDPI is the rasterization resolution when none is requested.
const DefaultDPI = 300

// Output format constants.
const (
	FormatTeX  = "tex"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTeX:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatSVG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run.
// The struct supports JSON serialization for API requests.
type Options struct {
	// Source is the .ef game description text.
	Source []byte `json:"source"`

	// Params are the layout parameters. The zero value means
	// [layout.DefaultParams].
	Params layout.Params `json:"params,omitempty"`

	// Formats selects the artifacts to produce. Default is tex.
	Formats []string `json:"formats,omitempty"`

	// DPI is the PNG rasterization resolution. Default is DefaultDPI.
	DPI int `json:"dpi,omitempty"`

	// Grid draws a debug coordinate grid under the picture.
	Grid bool `json:"grid,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime collaborators (not serialized)
	Logger     *log.Logger       `json:"-"`
	Compiler   texdoc.Compiler   `json:"-"`
	Rasterizer texdoc.Rasterizer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed and validated game tree.
	Tree *game.Tree

	// TreeHash is the content hash of the source.
	TreeHash string

	// Layout holds the computed node placements.
	Layout *layout.Layout

	// Document is the emitted TikZ picture.
	Document *tikz.Document

	// Artifacts contains the requested outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	InfoSetCount int
	Widened      int
	ParseTime    time.Duration
	LayoutTime   time.Duration
	EmitTime     time.Duration
	ArtifactTime time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	LayoutHit   bool // layout came from cache
	ArtifactHit bool // all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeConfig,
			"invalid format %q (must be one of: tex, pdf, png, svg, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and applies defaults.
// Layout parameters are rejected here, before any parsing happens, so
// a bad configuration fails fast. The method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.Params = o.Params.FillDefaults()
	if err := o.Params.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatTeX}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeConfig, "dpi must be positive, got %d", o.DPI)
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Compiler == nil {
		o.Compiler = &texdoc.Pdflatex{}
	}
	if o.Rasterizer == nil {
		o.Rasterizer = &texdoc.Pdftoppm{}
	}

	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		HorizontalUnit: o.Params.HorizontalUnit,
		VerticalUnit:   o.Params.VerticalUnit,
		Scale:          o.Params.Scale,
		MinGap:         o.Params.MinGap,
		WidenLimit:     o.Params.WidenLimit,
	}
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.DPI = o.DPI
	}
	return opts
}
