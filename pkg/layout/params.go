package layout

import (
	"github.com/gambitproject/draw-tree/pkg/errors"
)

// Parameter ranges. Scale bounds match the documented CLI range.
const (
	MinScale = 0.01
	MaxScale = 100.0

	// DefaultWidenLimit caps the reconciliation widening loop. The cap is
	// an explicit, exported constant so pathological inputs fail with a
	// LAYOUT_ERROR instead of looping.
	DefaultWidenLimit = 12
)

// Default spacing in centimeters, chosen so a two-leaf tree at scale 1
// fits comfortably on an A4 TikZ picture.
const (
	DefaultHorizontalUnit = 1.2
	DefaultVerticalUnit   = 1.5
	DefaultMinGap         = 0.4
)

// Params are the recognized layout options. Zero values are not usable;
// start from [DefaultParams] and override.
type Params struct {
	// HorizontalUnit is the spacing between adjacent leaves, in cm.
	HorizontalUnit float64 `json:"horizontal_unit" toml:"horizontal_unit"`

	// VerticalUnit is the spacing between depth rows, in cm.
	VerticalUnit float64 `json:"vertical_unit" toml:"vertical_unit"`

	// Scale multiplies the whole drawing uniformly. Valid range
	// [MinScale, MaxScale].
	Scale float64 `json:"scale" toml:"scale"`

	// MinGap is the minimum clearance between adjacent members of an
	// information set, on top of the widest action label at their depth.
	MinGap float64 `json:"min_gap" toml:"min_gap"`

	// WidenLimit caps the number of proportional widening iterations.
	WidenLimit int `json:"widen_limit" toml:"widen_limit"`
}

// DefaultParams returns the standard layout parameters.
func DefaultParams() Params {
	return Params{
		HorizontalUnit: DefaultHorizontalUnit,
		VerticalUnit:   DefaultVerticalUnit,
		Scale:          1.0,
		MinGap:         DefaultMinGap,
		WidenLimit:     DefaultWidenLimit,
	}
}

// FillDefaults completes a partially specified parameter set, so a
// caller can override one knob and inherit the rest. Explicitly set
// values, valid or not, are left for [Params.Validate] to judge.
func (p Params) FillDefaults() Params {
	d := DefaultParams()
	if p.HorizontalUnit == 0 {
		p.HorizontalUnit = d.HorizontalUnit
	}
	if p.VerticalUnit == 0 {
		p.VerticalUnit = d.VerticalUnit
	}
	if p.Scale == 0 {
		p.Scale = d.Scale
	}
	if p.MinGap == 0 {
		p.MinGap = d.MinGap
	}
	if p.WidenLimit == 0 {
		p.WidenLimit = d.WidenLimit
	}
	return p
}

// Validate checks every parameter against its documented range and
// fails fast with CONFIG_ERROR. It must be called before any parsing or
// layout work starts.
func (p Params) Validate() error {
	if p.HorizontalUnit <= 0 {
		return errors.New(errors.ErrCodeConfig, "horizontal_unit %g must be positive", p.HorizontalUnit)
	}
	if p.VerticalUnit <= 0 {
		return errors.New(errors.ErrCodeConfig, "vertical_unit %g must be positive", p.VerticalUnit)
	}
	if p.Scale < MinScale || p.Scale > MaxScale {
		return errors.New(errors.ErrCodeConfig, "scale %g outside valid range [%g, %g]", p.Scale, MinScale, MaxScale)
	}
	if p.MinGap < 0 {
		return errors.New(errors.ErrCodeConfig, "min_gap %g must not be negative", p.MinGap)
	}
	if p.WidenLimit < 1 {
		return errors.New(errors.ErrCodeConfig, "widen_limit %d must be at least 1", p.WidenLimit)
	}
	return nil
}
