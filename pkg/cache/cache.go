// Package cache provides content-addressed caching for the render
// pipeline. Keys are derived from the input source and the options
// that affect each stage, so any change to either is a clean miss.
package cache

import (
	"context"
	"time"
)

// TTLs per entry class. Layouts are cheap to recompute, artifacts go
// through the TeX toolchain and are worth keeping longer.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// TreeKey identifies a parsed and validated tree by its source.
	TreeKey(source []byte) string

	// LayoutKey identifies a computed layout by the tree it was
	// computed from and the parameters that shaped it.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a compiled or rasterized artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout inputs that affect geometry.
type LayoutKeyOpts struct {
	HorizontalUnit float64 `json:"horizontal_unit"`
	VerticalUnit   float64 `json:"vertical_unit"`
	Scale          float64 `json:"scale"`
	MinGap         float64 `json:"min_gap"`
	WidenLimit     int     `json:"widen_limit"`
}

// ArtifactKeyOpts distinguish artifacts built from one layout.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	DPI    int    `json:"dpi"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TreeKey generates a key for tree caching.
func (k *DefaultKeyer) TreeKey(source []byte) string {
	return "tree:" + Hash(source)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
