// Package warp implements the pixel warp engine: a forward DIBR renderer that
// synthesizes one virtual view from a left base view, a right base view or
// both, and answers incremental distortion queries for depth and texture
// edits without re-rendering the frame.
//
// Every row is rendered in scan space. Left views are scanned from the right
// picture border leftwards; right views are mirrored first, so both walk
// towards decreasing scan columns and occluders always come from columns
// that were already visited. The engine persists, per row and scan column,
// the occlusion boundary reached after that column. An edit re-renders from
// the right end of the edited block and stops as soon as the boundary
// matches the stored one, which bounds the work to the occlusion extent of
// the edit.
package warp

import (
	"errors"
	"fmt"

	"github.com/deepteams/viewsynth/internal/dsp"
	"github.com/deepteams/viewsynth/picture"
	"github.com/deepteams/viewsynth/shiftlut"
)

// Pel is a sample.
type Pel = dsp.Pel

// Mode selects which base views drive the engine.
type Mode int

const (
	ModeLeft   Mode = iota // warp from the left view only
	ModeRight              // warp from the right view only
	ModeMerged             // warp both views and blend
)

func (m Mode) String() string {
	switch m {
	case ModeLeft:
		return "left"
	case ModeRight:
		return "right"
	case ModeMerged:
		return "merged"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// BlendMode selects how a merged engine combines its two candidates.
type BlendMode int

const (
	BlendNone          BlendMode = iota // single-view engines
	BlendAverage                        // distance-weighted average, nearer side wins across depth edges
	BlendLeftDominant                   // left wherever filled, right fills the holes
	BlendRightDominant                  // right wherever filled, left fills the holes
)

func (b BlendMode) String() string {
	switch b {
	case BlendNone:
		return "none"
	case BlendAverage:
		return "average"
	case BlendLeftDominant:
		return "left-dominant"
	case BlendRightDominant:
		return "right-dominant"
	}
	return fmt.Sprintf("BlendMode(%d)", int(b))
}

// ViewPos addresses the per-view buffers of an engine.
type ViewPos int

const (
	PosLeft    ViewPos = iota
	PosRight
	PosBlended
)

// Fill status of a synthesized sample. Values in between are blend weights.
const (
	WeightPrec       = 8
	Hole       int32 = 0
	Filled     int32 = 1 << WeightPrec
)

// DefaultZThresholdPerc is the default depth-difference threshold, in percent
// of the inverse-depth range, above which averaging blends give way to the
// nearer view.
const DefaultZThresholdPerc = 30

// MaxShiftPrec is the finest supported shift precision (quarter pel).
const MaxShiftPrec = 2

var (
	// ErrInvalidOptions is returned by New for unusable options.
	ErrInvalidOptions = errors.New("warp: invalid options")
	// ErrNotBound is returned by Setup when a required view is missing.
	ErrNotBound = errors.New("warp: view not bound")
	// ErrInvalidLUT is returned by Setup for missing or short LUTs.
	ErrInvalidLUT = errors.New("warp: invalid shift LUT")
)

// Options configures an Engine.
type Options struct {
	Mode       Mode
	Blend      BlendMode
	Width      int
	Height     int
	ShiftPrec  int // disparities are in 1/2^ShiftPrec pel
	HoleMargin int // samples extrapolated into a hole before it is marked
	BitDepth   int

	// ChromaError adds the Cb and Cr errors to the per-sample distortion.
	ChromaError bool
	// UseOrgRef marks engines whose reference is rendered from original
	// (uncoded) views.
	UseOrgRef bool
	// ZThresholdPerc defaults to DefaultZThresholdPerc when zero.
	ZThresholdPerc int

	// SubPelLeft and SubPelRight are built from ShiftPrec when nil.
	SubPelLeft  shiftlut.Table
	SubPelRight shiftlut.Table
}

// views is a set of source buffers, indexed by side.
type views struct {
	video [2][3]*picture.Plane
	depth [2]*picture.Plane
}

// Engine renders one virtual view. It is not safe for concurrent use.
type Engine struct {
	opts   Options
	w, h   int
	prec   int
	gapTol int
	subPel [2]shiftlut.Table

	bound views

	// Rendering state, set by Setup.
	lut        [2][]int
	invZ       [2][]int
	zThres     int
	distToLeft int
	ready      bool

	// Synthesized buffers. In single-view modes the blended entries alias
	// the only side.
	video  [3][3]*picture.Plane
	depth  [3]*picture.Plane
	filled [2][]int32

	// bounds[side][y*(w+1)+u] is the occlusion boundary after scan column u;
	// u == w holds the border boundary.
	bounds [2][]int32

	ref [3]*picture.Plane
	err []int32

	bandTop    int
	bandHeight int

	// Lines rendered by the last Setup.
	setupTop    int
	setupBottom int
}

// New allocates an engine for the given options.
func New(opts Options) (*Engine, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidOptions, opts.Width, opts.Height)
	}
	if opts.ShiftPrec < 0 || opts.ShiftPrec > MaxShiftPrec {
		return nil, fmt.Errorf("%w: shift precision %d", ErrInvalidOptions, opts.ShiftPrec)
	}
	if opts.HoleMargin < 0 {
		return nil, fmt.Errorf("%w: hole margin %d", ErrInvalidOptions, opts.HoleMargin)
	}
	if opts.BitDepth < 8 || opts.BitDepth > 14 {
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidOptions, opts.BitDepth)
	}
	switch opts.Mode {
	case ModeLeft, ModeRight:
		if opts.Blend != BlendNone {
			return nil, fmt.Errorf("%w: %s engine cannot blend (%s)", ErrInvalidOptions, opts.Mode, opts.Blend)
		}
	case ModeMerged:
		if opts.Blend == BlendNone || opts.Blend > BlendRightDominant {
			return nil, fmt.Errorf("%w: merged engine needs a blend mode, got %s", ErrInvalidOptions, opts.Blend)
		}
	default:
		return nil, fmt.Errorf("%w: mode %s", ErrInvalidOptions, opts.Mode)
	}
	if opts.ZThresholdPerc == 0 {
		opts.ZThresholdPerc = DefaultZThresholdPerc
	}
	if opts.ZThresholdPerc < 0 || opts.ZThresholdPerc > 100 {
		return nil, fmt.Errorf("%w: z threshold %d%%", ErrInvalidOptions, opts.ZThresholdPerc)
	}
	if opts.SubPelLeft == nil || opts.SubPelRight == nil {
		opts.SubPelLeft, opts.SubPelRight = shiftlut.NewSubPelShift(opts.ShiftPrec)
	}
	maxGap := 2 << opts.ShiftPrec
	if opts.SubPelLeft.MaxGap() != maxGap || opts.SubPelRight.MaxGap() != maxGap {
		return nil, fmt.Errorf("%w: sub-pel tables do not match precision %d", ErrInvalidOptions, opts.ShiftPrec)
	}

	w, h := opts.Width, opts.Height
	e := &Engine{
		opts:       opts,
		w:          w,
		h:          h,
		prec:       opts.ShiftPrec,
		gapTol:     maxGap,
		subPel:     [2]shiftlut.Table{opts.SubPelLeft, opts.SubPelRight},
		err:        make([]int32, w*h),
		bandHeight: h,
	}
	for s := 0; s < 2; s++ {
		if !e.hasSide(s) {
			continue
		}
		for c := 0; c < 3; c++ {
			e.video[s][c] = picture.NewPlane(w, h, 0)
		}
		e.depth[s] = picture.NewPlane(w, h, 0)
		e.filled[s] = make([]int32, w*h)
		e.bounds[s] = make([]int32, (w+1)*h)
	}
	switch opts.Mode {
	case ModeLeft:
		e.video[PosBlended], e.depth[PosBlended] = e.video[PosLeft], e.depth[PosLeft]
	case ModeRight:
		e.video[PosBlended], e.depth[PosBlended] = e.video[PosRight], e.depth[PosRight]
	default:
		for c := 0; c < 3; c++ {
			e.video[PosBlended][c] = picture.NewPlane(w, h, 0)
		}
		e.depth[PosBlended] = picture.NewPlane(w, h, 0)
	}
	for c := 0; c < 3; c++ {
		e.ref[c] = picture.NewPlane(w, h, 0)
	}
	return e, nil
}

// Options returns the engine options, with defaults applied.
func (e *Engine) Options() Options { return e.opts }

// Mode returns the engine mode.
func (e *Engine) Mode() Mode { return e.opts.Mode }

// hasSide reports whether side s (0 left, 1 right) is rendered.
func (e *Engine) hasSide(s int) bool {
	switch e.opts.Mode {
	case ModeLeft:
		return s == 0
	case ModeRight:
		return s == 1
	}
	return true
}

func (e *Engine) side(pos ViewPos) int {
	if pos != PosLeft && pos != PosRight {
		panic(fmt.Sprintf("warp: %d is not a base view position", pos))
	}
	s := int(pos)
	if !e.hasSide(s) {
		panic(fmt.Sprintf("warp: %s engine has no view at position %d", e.opts.Mode, pos))
	}
	return s
}

// SetLRView binds the base view buffers used at pos. Video planes must be
// 4:4:4 at the engine size. The buffers are aliased, not copied.
func (e *Engine) SetLRView(pos ViewPos, video [3]*picture.Plane, depth *picture.Plane) {
	s := e.side(pos)
	for c, p := range video {
		if p == nil || p.Width != e.w || p.Height != e.h {
			panic(fmt.Sprintf("warp: video plane %d does not match engine size %dx%d", c, e.w, e.h))
		}
	}
	if depth == nil || depth.Width != e.w || depth.Height != e.h {
		panic(fmt.Sprintf("warp: depth plane does not match engine size %dx%d", e.w, e.h))
	}
	e.bound.video[s] = video
	e.bound.depth[s] = depth
}

// SetupPart restricts rendering and error accounting to lines
// [horOffset, horOffset+usedHeight). A band reaching lines the last Setup
// did not render makes the engine unready until the next Setup.
func (e *Engine) SetupPart(horOffset, usedHeight int) {
	if horOffset < 0 || usedHeight < 0 || horOffset+usedHeight > e.h {
		panic(fmt.Sprintf("warp: band [%d, %d) outside picture height %d", horOffset, horOffset+usedHeight, e.h))
	}
	e.bandTop, e.bandHeight = horOffset, usedHeight
	if horOffset < e.setupTop || horOffset+usedHeight > e.setupBottom {
		e.ready = false
	}
}

// Band returns the rendered line range.
func (e *Engine) Band() (top, height int) { return e.bandTop, e.bandHeight }

// SynthView returns plane c of the synthesized view at pos. The plane is
// owned by the engine and changes on the next mutating call.
func (e *Engine) SynthView(pos ViewPos, c int) *picture.Plane {
	e.checkPos(pos)
	return e.video[pos][c]
}

// SynthDepth returns the synthesized depth at pos.
func (e *Engine) SynthDepth(pos ViewPos) *picture.Plane {
	e.checkPos(pos)
	return e.depth[pos]
}

// RefView returns plane c of the reference.
func (e *Engine) RefView(c int) *picture.Plane { return e.ref[c] }

// Filled returns the fill status of side pos, row-major without padding.
func (e *Engine) Filled(pos ViewPos) []int32 {
	return e.filled[e.side(pos)]
}

// Error returns the stored distortion summed over the band.
func (e *Engine) Error() int64 {
	var sum int64
	for _, v := range e.err[e.bandTop*e.w : (e.bandTop+e.bandHeight)*e.w] {
		sum += int64(v)
	}
	return sum
}

func (e *Engine) checkPos(pos ViewPos) {
	if pos == PosBlended {
		return
	}
	e.side(pos)
}

// pixErr is the distortion of the blended sample at i.
func (e *Engine) pixErr(v [3]Pel, i int) int32 {
	shift := 2 * (e.opts.BitDepth - 8)
	d := dsp.SqErr(v[0], e.ref[0].Pix[i], shift)
	if e.opts.ChromaError {
		d += dsp.SqErr(v[1], e.ref[1].Pix[i], shift)
		d += dsp.SqErr(v[2], e.ref[2].Pix[i], shift)
	}
	return int32(d)
}
