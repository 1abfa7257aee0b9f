package viewsynth

import (
	"fmt"

	"github.com/deepteams/viewsynth/internal/dsp"
	"github.com/deepteams/viewsynth/internal/pool"
	"github.com/deepteams/viewsynth/picture"
)

// Pel is a picture sample.
type Pel = picture.Pel

// SynthVideo copies the synthesized texture of model modelNum at pos into
// dst. dst may be 4:2:0 or 4:4:4, and its width may be the base view width
// divided by 1, 2 or 4.
func (r *RenderModel) SynthVideo(modelNum int, pos ViewPos, dst *picture.Picture) error {
	m, err := r.model(modelNum)
	if err != nil {
		return err
	}
	if !m.eng.Ready() {
		return fmt.Errorf("%w: model %d", ErrNotReady, modelNum)
	}
	if err := checkPos(m, pos); err != nil {
		return err
	}
	return r.exportVideo(m.eng.SynthView(pos, 0), m.eng.SynthView(pos, 1), m.eng.SynthView(pos, 2), dst)
}

// SynthDepth copies the synthesized depth of model modelNum at pos into the
// luma plane of dst.
func (r *RenderModel) SynthDepth(modelNum int, pos ViewPos, dst *picture.Picture) error {
	m, err := r.model(modelNum)
	if err != nil {
		return err
	}
	if !m.eng.Ready() {
		return fmt.Errorf("%w: model %d", ErrNotReady, modelNum)
	}
	if err := checkPos(m, pos); err != nil {
		return err
	}
	k, err := r.reduction(dst)
	if err != nil {
		return err
	}
	src, d := m.eng.SynthDepth(pos), dst.Luma()
	dsp.SampleHorDown(k, src.Pix, src.Offset(0, 0), src.Stride, d.Width, d.Height, d.Pix, d.Offset(0, 0), d.Stride)
	d.ExtendBorder()
	return nil
}

// RefVideo copies the reference of model modelNum into dst.
func (r *RenderModel) RefVideo(modelNum int, dst *picture.Picture) error {
	m, err := r.model(modelNum)
	if err != nil {
		return err
	}
	if !m.eng.Ready() {
		return fmt.Errorf("%w: model %d", ErrNotReady, modelNum)
	}
	return r.exportVideo(m.eng.RefView(0), m.eng.RefView(1), m.eng.RefView(2), dst)
}

func checkPos(m *model, pos ViewPos) error {
	switch {
	case pos == PosBlended:
		return nil
	case pos == PosLeft && m.left >= 0, pos == PosRight && m.right >= 0:
		return nil
	}
	return fmt.Errorf("%w: model has no view at position %d", ErrInvalidView, pos)
}

// reduction returns the horizontal reduction of dst against the base view
// size, as a power of two.
func (r *RenderModel) reduction(dst *picture.Picture) (int, error) {
	if dst.Height() == r.cfg.Height {
		for k := 0; k <= 2; k++ {
			if dst.Width()<<k == r.cfg.Width {
				return k, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: output %dx%d for %dx%d views", ErrPictureSize,
		dst.Width(), dst.Height(), r.cfg.Width, r.cfg.Height)
}

// exportVideo converts 4:4:4 planes at the base view size to dst.
func (r *RenderModel) exportVideo(y, cb, cr *picture.Plane, dst *picture.Picture) error {
	k, err := r.reduction(dst)
	if err != nil {
		return err
	}
	if dst.Format == picture.Chroma400 {
		return fmt.Errorf("%w: texture output needs chroma", ErrPictureSize)
	}
	if dst.BitDepth != r.cfg.BitDepth {
		return fmt.Errorf("%w: output bit depth %d, want %d", ErrPictureSize, dst.BitDepth, r.cfg.BitDepth)
	}
	d := dst.Luma()
	dsp.SampleHorDown(k, y.Pix, y.Offset(0, 0), y.Stride, d.Width, d.Height, d.Pix, d.Offset(0, 0), d.Stride)

	for c, src := range []*picture.Plane{cb, cr} {
		d := dst.Planes[c+1]
		if dst.Format == picture.Chroma444 {
			dsp.SampleHorDown(k, src.Pix, src.Offset(0, 0), src.Stride, d.Width, d.Height, d.Pix, d.Offset(0, 0), d.Stride)
			continue
		}
		hw, hh := src.Width/2, src.Height/2
		tmp := pool.Get(hw * hh)
		dsp.SampleDown2Tap13(src.Pix, src.Offset(0, 0), src.Stride, hw, hh, tmp, 0, hw)
		dsp.SampleHorDown(k, tmp, 0, hw, d.Width, d.Height, d.Pix, d.Offset(0, 0), d.Stride)
		pool.Put(tmp)
	}
	dst.ExtendBorder()
	return nil
}

// sseModels returns the models accounted by TotalSSE: the ready active
// models, or every ready model when no error mode is set.
func (r *RenderModel) sseModels() []int {
	var ids []int
	if r.errView >= 0 {
		seen := make(map[int]bool)
		for _, reg := range r.active {
			if !seen[reg.model] && r.models[reg.model].eng.Ready() {
				seen[reg.model] = true
				ids = append(ids, reg.model)
			}
		}
		return ids
	}
	for i, m := range r.models {
		if m != nil && m.eng.Ready() {
			ids = append(ids, i)
		}
	}
	return ids
}

// TotalSSE returns the squared error between the synthesized views and
// their references over the band, at the configured output format, summed
// per plane and averaged over the accounted models.
func (r *RenderModel) TotalSSE() (y, u, v int64) {
	ids := r.sseModels()
	if len(ids) == 0 {
		return 0, 0, 0
	}
	synth, err := picture.New(r.cfg.Width, r.cfg.Height, r.cfg.ChromaFormat, r.cfg.BitDepth)
	if err != nil {
		panic(err)
	}
	ref := synth.Clone()

	var sum [3]int64
	for _, id := range ids {
		eng := r.models[id].eng
		if err := r.exportVideo(eng.SynthView(PosBlended, 0), eng.SynthView(PosBlended, 1), eng.SynthView(PosBlended, 2), synth); err != nil {
			panic(err)
		}
		if err := r.exportVideo(eng.RefView(0), eng.RefView(1), eng.RefView(2), ref); err != nil {
			panic(err)
		}
		for c := 0; c < 3; c++ {
			top, h := r.planeBand(c)
			p, q := synth.Planes[c], ref.Planes[c]
			sum[c] += int64(dsp.SSE(p.Pix, p.Offset(0, top), p.Stride, q.Pix, q.Offset(0, top), q.Stride, p.Width, h))
		}
	}
	n := int64(len(ids))
	return roundDiv(sum[0], n), roundDiv(sum[1], n), roundDiv(sum[2], n)
}

// TotalPSNR returns the per-plane PSNR matching TotalSSE.
func (r *RenderModel) TotalPSNR() (y, u, v float64) {
	sy, su, sv := r.TotalSSE()
	var psnr [3]float64
	for c, sse := range []int64{sy, su, sv} {
		_, h := r.planeBand(c)
		w := r.cfg.Width
		if c > 0 && r.cfg.ChromaFormat == picture.Chroma420 {
			w /= 2
		}
		psnr[c] = dsp.PSNRFromSSE(uint64(sse), w*h, r.cfg.BitDepth)
	}
	return psnr[0], psnr[1], psnr[2]
}

// planeBand returns the band lines of plane c at the output format.
func (r *RenderModel) planeBand(c int) (top, height int) {
	if c > 0 && r.cfg.ChromaFormat == picture.Chroma420 {
		return r.bandTop / 2, r.bandHeight / 2
	}
	return r.bandTop, r.bandHeight
}
