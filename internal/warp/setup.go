package warp

import (
	"fmt"

	"github.com/deepteams/viewsynth/picture"
	"github.com/deepteams/viewsynth/shiftlut"
)

// LUTs are the depth-to-shift tables of a setup. Left and Right are in
// 1/2^ShiftPrec pel towards the virtual view; BaseLeft and BaseRight are the
// full-pel shifts across the whole baseline and only drive blending.
type LUTs struct {
	Left, BaseLeft   []int
	Right, BaseRight []int

	// DistToLeft weights the right view in averaging blends, in
	// [0, 1<<WeightPrec]; 0 puts the virtual view on the left camera.
	DistToLeft int
}

// RefKind selects where the reference of a setup comes from.
type RefKind int

const (
	// RefSelf takes the freshly rendered view as reference.
	RefSelf RefKind = iota
	// RefPicture copies Reference.Picture.
	RefPicture
	// RefKeep keeps the stored reference.
	RefKeep
	// RefViews renders Reference.Video and Reference.Depth, stores that
	// rendering as reference and then renders the bound views.
	RefViews
)

// Reference describes the reference of a setup.
type Reference struct {
	Kind RefKind

	// Picture is a 4:4:4 picture at the engine size, for RefPicture.
	Picture [3]*picture.Plane

	// Video and Depth are the source views of a RefViews setup, indexed by
	// side. Nil entries fall back to the bound buffers.
	Video [2][3]*picture.Plane
	Depth [2]*picture.Plane
}

// Setup renders the band of the bound views and establishes the reference
// used by all later distortion queries.
func (e *Engine) Setup(ref Reference, luts LUTs) error {
	tables := [2][]int{luts.Left, luts.Right}
	for s := 0; s < 2; s++ {
		if !e.hasSide(s) {
			continue
		}
		if e.bound.depth[s] == nil {
			return fmt.Errorf("%w: side %d", ErrNotBound, s)
		}
		if err := shiftlut.Validate(tables[s]); err != nil {
			return fmt.Errorf("%w: side %d: %w", ErrInvalidLUT, s, err)
		}
		e.lut[s] = tables[s]
	}
	if e.opts.Mode == ModeMerged {
		if err := shiftlut.Validate(luts.BaseLeft); err != nil {
			return fmt.Errorf("%w: left base: %w", ErrInvalidLUT, err)
		}
		if err := shiftlut.Validate(luts.BaseRight); err != nil {
			return fmt.Errorf("%w: right base: %w", ErrInvalidLUT, err)
		}
		if luts.DistToLeft < 0 || luts.DistToLeft > weightOne {
			return fmt.Errorf("%w: distance to left %d outside [0, %d]", ErrInvalidLUT, luts.DistToLeft, weightOne)
		}
		e.invZ[0] = shiftlut.InvZ(luts.BaseLeft)
		e.invZ[1] = shiftlut.InvZ(luts.BaseRight)
		e.zThres = zThreshold(e.invZ[0], e.invZ[1], e.opts.ZThresholdPerc)
		e.distToLeft = luts.DistToLeft
	}

	switch ref.Kind {
	case RefPicture:
		for c, p := range ref.Picture {
			if p == nil || p.Width != e.w || p.Height != e.h {
				return fmt.Errorf("%w: reference plane %d does not match %dx%d", ErrInvalidOptions, c, e.w, e.h)
			}
		}
		for c := range e.ref {
			e.ref[c].CopyFrom(ref.Picture[c])
		}
		e.renderBand(e.bound)
	case RefViews:
		src := e.bound
		for s := 0; s < 2; s++ {
			if ref.Depth[s] != nil {
				src.depth[s] = ref.Depth[s]
			}
			for c, p := range ref.Video[s] {
				if p != nil {
					src.video[s][c] = p
				}
			}
		}
		e.renderBand(src)
		e.snapshotRef()
		e.renderBand(e.bound)
	case RefSelf:
		e.renderBand(e.bound)
		e.snapshotRef()
	case RefKeep:
		e.renderBand(e.bound)
	default:
		return fmt.Errorf("%w: reference kind %d", ErrInvalidOptions, ref.Kind)
	}
	e.updateErr()
	e.setupTop, e.setupBottom = e.bandTop, e.bandTop+e.bandHeight
	e.ready = true
	return nil
}

// Ready reports whether Setup has completed.
func (e *Engine) Ready() bool { return e.ready }

// renderBand renders every line of the band from src.
func (e *Engine) renderBand(src views) {
	for y := e.bandTop; y < e.bandTop+e.bandHeight; y++ {
		for s := 0; s < 2; s++ {
			if !e.hasSide(s) {
				continue
			}
			r := e.newPass(passFull, s, y, src)
			r.fullCache()
			r.render(e.w-1, 0)
			r.release()
		}
		if e.opts.Mode == ModeMerged {
			e.blendRow(y)
		}
	}
}

func (e *Engine) newPass(kind passKind, s, y int, src views) *rowPass {
	r := &rowPass{
		e:     e,
		kind:  kind,
		side:  s,
		y:     y,
		sign:  1,
		depth: src.depth[s].Row(y),
		lut:   e.lut[s],
	}
	if s == 1 {
		r.sign = -1
	}
	for c := 0; c < 3; c++ {
		r.video[c] = src.video[s][c].Row(y)
	}
	return r
}

func (e *Engine) snapshotRef() {
	for y := e.bandTop; y < e.bandTop+e.bandHeight; y++ {
		for c := 0; c < 3; c++ {
			copy(e.ref[c].Row(y), e.video[PosBlended][c].Row(y))
		}
	}
}

// updateErr recomputes the stored distortion of the band.
func (e *Engine) updateErr() {
	for i := e.bandTop * e.w; i < (e.bandTop+e.bandHeight)*e.w; i++ {
		v := [3]Pel{e.video[PosBlended][0].Pix[i], e.video[PosBlended][1].Pix[i], e.video[PosBlended][2].Pix[i]}
		e.err[i] = e.pixErr(v, i)
	}
}
