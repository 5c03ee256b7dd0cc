package pipeline

import (
	"context"
	"encoding/json"

	"github.com/gambitproject/draw-tree/pkg/cache"
	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/layout"
	"github.com/gambitproject/draw-tree/pkg/observability"
	"github.com/gambitproject/draw-tree/pkg/render/dot"
	"github.com/gambitproject/draw-tree/pkg/render/tikz"
)

// jsonArtifact is the machine-readable output format: the geometry
// plus the markup, enough to rebuild any other artifact downstream.
type jsonArtifact struct {
	TreeHash   string             `json:"tree_hash"`
	Players    []string           `json:"players"`
	Placements []layout.Placement `json:"placements"`
	Markup     string             `json:"markup"`
}

// BuildArtifactsWithCacheInfo produces the requested formats from a
// completed parse/layout/emit run. All formats must come from cache
// for the run to count as a cache hit; on any miss everything is
// rebuilt so the artifacts stay mutually consistent.
func (r *Runner) BuildArtifactsWithCacheInfo(ctx context.Context, result *Result, opts Options) (map[string][]byte, bool, error) {
	markupHash := cache.Hash([]byte(result.Document.Markup))

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(markupHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				artifacts = nil
				break
			}
			artifacts[format] = data
		}
		if artifacts != nil && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	artifacts, err := r.buildArtifacts(ctx, result, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(markupHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, key, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

func (r *Runner) buildArtifacts(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// The PDF feeds the PNG, build it once when either is wanted.
	var pdf []byte
	needPDF := false
	for _, f := range opts.Formats {
		if f == FormatPDF || f == FormatPNG {
			needPDF = true
		}
	}
	if needPDF {
		r.Logger.Debug("compiling document")
		var err error
		pdf, err = opts.Compiler.Compile(ctx, tikz.WrapDocument(result.Document.Markup))
		if err != nil {
			return nil, err
		}
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatTeX:
			artifacts[format] = []byte(tikz.WrapDocument(result.Document.Markup))
		case FormatPDF:
			artifacts[format] = pdf
		case FormatPNG:
			r.Logger.Debug("rasterizing", "dpi", opts.DPI)
			png, err := opts.Rasterizer.Rasterize(ctx, pdf, opts.DPI)
			if err != nil {
				return nil, err
			}
			artifacts[format] = png
		case FormatDOT:
			artifacts[format] = []byte(dot.ToDOT(result.Tree, dot.Options{}))
		case FormatSVG:
			svg, err := dot.RenderSVG(ctx, dot.ToDOT(result.Tree, dot.Options{}))
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg
		case FormatJSON:
			blob, err := json.MarshalIndent(jsonArtifact{
				TreeHash:   result.TreeHash,
				Players:    result.Tree.Players,
				Placements: result.Layout.Placements,
				Markup:     result.Document.Markup,
			}, "", "  ")
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal JSON artifact")
			}
			artifacts[format] = blob
		default:
			return nil, errors.New(errors.ErrCodeConfig, "invalid format %q", format)
		}
	}
	return artifacts, nil
}
