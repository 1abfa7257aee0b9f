package viewsynth

import (
	"fmt"

	"github.com/deepteams/viewsynth/internal/dsp"
	"github.com/deepteams/viewsynth/internal/pool"
	"github.com/deepteams/viewsynth/picture"
)

// SetErrorMode selects the edits that GetDist and SetData describe: blocks
// of plane (0 luma, 1 Cb, 2 Cr; 0 for depth) of content in view. Every
// model registered for that view and content is queried.
func (r *RenderModel) SetErrorMode(view int, content Content, plane int) error {
	if err := r.checkView(view); err != nil {
		return err
	}
	switch content {
	case ContentVideo:
		if plane < 0 || plane > 2 {
			return fmt.Errorf("%w: video plane %d", ErrInvalidConfig, plane)
		}
	case ContentDepth:
		if plane != 0 {
			return fmt.Errorf("%w: depth plane %d", ErrInvalidConfig, plane)
		}
	default:
		return fmt.Errorf("%w: content %d", ErrInvalidConfig, content)
	}
	r.errView, r.errContent, r.errPlane = view, content, plane
	r.active = r.byView[content][view]
	return nil
}

// ActiveModels returns the number of models queried by GetDist and SetData.
func (r *RenderModel) ActiveModels() int { return len(r.active) }

// GetDist returns the distortion change, averaged over the active models,
// if the w x h block at (x, y) were replaced by data. Chroma blocks are in
// the coordinates of the configured chroma format. Nothing is modified.
func (r *RenderModel) GetDist(x, y, w, h int, data []Pel, stride int) int64 {
	if len(r.active) == 0 {
		return 0
	}
	x, y, w, h, data, stride, release := r.toInternal(x, y, w, h, data, stride)
	defer release()

	var sum int64
	for _, reg := range r.active {
		eng := r.models[reg.model].eng
		if r.errContent == ContentDepth {
			sum += eng.DistDepth(reg.pos, x, y, w, h, data, stride)
		} else {
			sum += eng.DistVideo(reg.pos, r.errPlane, x, y, w, h, data, stride)
		}
	}
	return roundDiv(sum, int64(len(r.active)))
}

// SetData commits the block to every active model and stores it in the
// current buffer of the base view.
func (r *RenderModel) SetData(x, y, w, h int, data []Pel, stride int) {
	if r.errView < 0 {
		panic("viewsynth: SetData before SetErrorMode")
	}
	x, y, w, h, data, stride, release := r.toInternal(x, y, w, h, data, stride)
	defer release()

	for _, reg := range r.active {
		eng := r.models[reg.model].eng
		if r.errContent == ContentDepth {
			eng.SetDepth(reg.pos, x, y, w, h, data, stride)
		} else {
			eng.SetVideo(reg.pos, r.errPlane, x, y, w, h, data, stride)
		}
	}

	v := r.views[r.errView]
	dst := v.depth
	if r.errContent == ContentVideo {
		dst = v.video[r.errPlane]
	}
	for j := 0; j < h; j++ {
		copy(dst.Row(y + j)[x:x+w], data[j*stride:j*stride+w])
	}
}

// toInternal maps a block to the 4:4:4 coordinates of the base view
// buffers. 4:2:0 chroma blocks are up-sampled into a pooled buffer that
// release returns.
func (r *RenderModel) toInternal(x, y, w, h int, data []Pel, stride int) (int, int, int, int, []Pel, int, func()) {
	limW, limH := r.cfg.Width, r.cfg.Height
	chroma := r.errContent == ContentVideo && r.errPlane > 0 && r.cfg.ChromaFormat == picture.Chroma420
	if chroma {
		limW, limH = limW/2, limH/2
	}
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > limW || y+h > limH {
		panic(fmt.Sprintf("viewsynth: block %dx%d at (%d, %d) outside %dx%d", w, h, x, y, limW, limH))
	}
	if len(data) < (h-1)*stride+w {
		panic(fmt.Sprintf("viewsynth: block data holds %d samples, need %d", len(data), (h-1)*stride+w))
	}
	if !chroma {
		return x, y, w, h, data, stride, func() {}
	}
	buf := pool.Get(4 * w * h)
	dsp.SampleCUpHorUp(0, data, 0, stride, w, h, buf, 0, 2*w)
	return 2 * x, 2 * y, 2 * w, 2 * h, buf, 2 * w, func() { pool.Put(buf) }
}

// roundDiv divides with rounding half away from zero.
func roundDiv(sum, n int64) int64 {
	if sum < 0 {
		return -((-sum + n/2) / n)
	}
	return (sum + n/2) / n
}
