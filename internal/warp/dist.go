package warp

import (
	"fmt"

	"github.com/deepteams/viewsynth/internal/dsp"
	"github.com/deepteams/viewsynth/internal/pool"
	"github.com/deepteams/viewsynth/picture"
)

// DistDepth returns the change of the stored distortion if the w x h depth
// block at (x, y) of the view at pos were replaced by data. Nothing is
// modified.
func (e *Engine) DistDepth(pos ViewPos, x, y, w, h int, data []Pel, stride int) int64 {
	s := e.side(pos)
	e.checkBlock(x, y, w, h)
	checkDepth(w, h, data, stride)
	if blockEqual(e.bound.depth[s], x, y, w, h, data, stride) {
		return 0
	}
	return e.update(passDist, s, -1, x, y, w, h, data, stride)
}

// SetDepth stores the depth block into the bound view and re-renders the
// affected output. It returns the distortion change.
func (e *Engine) SetDepth(pos ViewPos, x, y, w, h int, data []Pel, stride int) int64 {
	s := e.side(pos)
	e.checkBlock(x, y, w, h)
	checkDepth(w, h, data, stride)
	writeBlock(e.bound.depth[s], x, y, w, h, data, stride)
	return e.update(passCommit, s, -1, x, y, w, h, nil, 0)
}

// DistVideo is DistDepth for plane c of the texture.
func (e *Engine) DistVideo(pos ViewPos, c, x, y, w, h int, data []Pel, stride int) int64 {
	s := e.side(pos)
	e.checkBlock(x, y, w, h)
	if blockEqual(e.bound.video[s][c], x, y, w, h, data, stride) {
		return 0
	}
	return e.update(passDist, s, c, x, y, w, h, data, stride)
}

// SetVideo is SetDepth for plane c of the texture.
func (e *Engine) SetVideo(pos ViewPos, c, x, y, w, h int, data []Pel, stride int) int64 {
	s := e.side(pos)
	e.checkBlock(x, y, w, h)
	writeBlock(e.bound.video[s][c], x, y, w, h, data, stride)
	return e.update(passCommit, s, c, x, y, w, h, nil, 0)
}

func (e *Engine) checkBlock(x, y, w, h int) {
	if !e.ready {
		panic("warp: distortion query before Setup")
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > e.w || y+h > e.h {
		panic(fmt.Sprintf("warp: block %dx%d at (%d, %d) outside %dx%d", w, h, x, y, e.w, e.h))
	}
}

// checkDepth panics on depth samples that do not index a shift table.
func checkDepth(w, h int, data []Pel, stride int) {
	for j := 0; j < h; j++ {
		for i, v := range data[j*stride : j*stride+w] {
			if v >= 1<<dsp.DepthBits {
				panic(fmt.Sprintf("warp: depth sample %d at (%d, %d) of block exceeds %d bits", v, i, j, dsp.DepthBits))
			}
		}
	}
}

// update re-renders the rows of a block of side s. plane is -1 for depth
// edits and the texture plane otherwise. A non-nil data overlays the bound
// rows; it is nil when the block has already been written.
func (e *Engine) update(kind passKind, s, plane, x, y, w, h int, data []Pel, stride int) int64 {
	ua, ub := x, x+w-1
	if s == 1 {
		ua, ub = e.w-x-w, e.w-1-x
	}
	last := ua
	if plane >= 0 {
		last = ua - 1
	}

	var scratch []Pel
	if data != nil {
		scratch = pool.Get(e.w)
		defer pool.Put(scratch)
	}

	var delta int64
	top := max(y, e.bandTop)
	bottom := min(y+h, e.bandTop+e.bandHeight)
	for row := top; row < bottom; row++ {
		r := e.newPass(kind, s, row, e.bound)
		if data != nil {
			src := r.depth
			if plane >= 0 {
				src = r.video[plane]
			}
			copy(scratch, src)
			copy(scratch[x:x+w], data[(row-y)*stride:(row-y)*stride+w])
			if plane >= 0 {
				r.video[plane] = scratch
			} else {
				r.depth = scratch
			}
		}
		r.render(ub, last)
		delta += r.delta
	}
	return delta
}

func blockEqual(p *picture.Plane, x, y, w, h int, data []Pel, stride int) bool {
	for j := 0; j < h; j++ {
		row := p.Row(y + j)[x : x+w]
		for i, v := range data[j*stride : j*stride+w] {
			if row[i] != v {
				return false
			}
		}
	}
	return true
}

func writeBlock(p *picture.Plane, x, y, w, h int, data []Pel, stride int) {
	for j := 0; j < h; j++ {
		copy(p.Row(y + j)[x:x+w], data[j*stride:j*stride+w])
	}
}
