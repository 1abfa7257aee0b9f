package viewsynth

import (
	"fmt"

	"github.com/deepteams/viewsynth/internal/warp"
	"github.com/deepteams/viewsynth/picture"
)

// Config holds the renderer parameters shared by all models.
type Config struct {
	// NumBaseViews is the number of coded views that can be bound.
	NumBaseViews int
	// NumModels is the number of model slots.
	NumModels int

	// Width and Height are the luma dimensions of the base views.
	Width  int
	Height int

	// ShiftPrec is the disparity precision: shifts are in 1/2^ShiftPrec pel
	// (0-2, default 2).
	ShiftPrec int

	// HoleMargin is the number of samples extrapolated into a disocclusion
	// before the remainder is marked as a hole (default 6).
	HoleMargin int

	// BitDepth is the texture bit depth (8-14, default 8). Depth maps are
	// always 8-bit.
	BitDepth int

	// ChromaFormat is the format of texture pictures exchanged with the
	// renderer: picture.Chroma420 (default) or picture.Chroma444.
	ChromaFormat picture.ChromaFormat

	// ChromaError adds the Cb and Cr errors to the distortion.
	ChromaError bool

	// ZThresholdPerc is the depth-difference threshold, in percent of the
	// inverse-depth range, above which averaging blends take the nearer
	// view only (default 30).
	ZThresholdPerc int

	// SmoothDepth smooths depth maps with a 3x3 binomial filter when they
	// are bound.
	SmoothDepth bool
}

// DefaultConfig returns the default parameters for one base view and one
// model of the given size.
func DefaultConfig(width, height int) Config {
	return Config{
		NumBaseViews:   1,
		NumModels:      1,
		Width:          width,
		Height:         height,
		ShiftPrec:      2,
		HoleMargin:     6,
		BitDepth:       8,
		ChromaFormat:   picture.Chroma420,
		ZThresholdPerc: warp.DefaultZThresholdPerc,
	}
}

func (c *Config) validate() error {
	switch {
	case c.NumBaseViews <= 0:
		return fmt.Errorf("%w: %d base views", ErrInvalidConfig, c.NumBaseViews)
	case c.NumModels <= 0:
		return fmt.Errorf("%w: %d models", ErrInvalidConfig, c.NumModels)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.ShiftPrec < 0 || c.ShiftPrec > warp.MaxShiftPrec:
		return fmt.Errorf("%w: shift precision %d", ErrInvalidConfig, c.ShiftPrec)
	case c.HoleMargin < 0:
		return fmt.Errorf("%w: hole margin %d", ErrInvalidConfig, c.HoleMargin)
	case c.BitDepth < 8 || c.BitDepth > 14:
		return fmt.Errorf("%w: bit depth %d", ErrInvalidConfig, c.BitDepth)
	case c.ZThresholdPerc < 0 || c.ZThresholdPerc > 100:
		return fmt.Errorf("%w: z threshold %d%%", ErrInvalidConfig, c.ZThresholdPerc)
	}
	switch c.ChromaFormat {
	case picture.Chroma420:
		if c.Width%2 != 0 || c.Height%2 != 0 {
			return fmt.Errorf("%w: 4:2:0 needs even dimensions, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
		}
	case picture.Chroma444:
	default:
		return fmt.Errorf("%w: chroma format %s", ErrInvalidConfig, c.ChromaFormat)
	}
	return nil
}
