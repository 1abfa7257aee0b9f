package viewsynth

import (
	"fmt"

	"github.com/deepteams/viewsynth/internal/dsp"
	"github.com/deepteams/viewsynth/internal/warp"
	"github.com/deepteams/viewsynth/picture"
	"github.com/deepteams/viewsynth/shiftlut"
)

// Content selects the texture or the depth of a base view.
type Content int

const (
	ContentVideo Content = iota
	ContentDepth
)

func (c Content) String() string {
	if c == ContentDepth {
		return "depth"
	}
	return "video"
}

// BlendMode selects how a model synthesized from two views merges them.
type BlendMode = warp.BlendMode

const (
	BlendNone          = warp.BlendNone
	BlendAverage       = warp.BlendAverage
	BlendLeftDominant  = warp.BlendLeftDominant
	BlendRightDominant = warp.BlendRightDominant
)

// ViewPos addresses the left, right or blended output of a model.
type ViewPos = warp.ViewPos

const (
	PosLeft    = warp.PosLeft
	PosRight   = warp.PosRight
	PosBlended = warp.PosBlended
)

// AllViews registers a model under every view it uses, for both contents.
const AllViews = -1

// baseView holds the buffers of one coded view, kept at 4:4:4.
type baseView struct {
	video    [3]*picture.Plane
	depth    *picture.Plane
	orgVideo [3]*picture.Plane
	orgDepth *picture.Plane
	hasOrg   [2]bool // per Content
	set      bool
}

type model struct {
	eng         *warp.Engine
	left, right int
	useOrgRef   bool
}

// sideView is a base view bound at a model position.
type sideView struct {
	view int
	pos  ViewPos
}

// registration is a model queried for edits of one base view.
type registration struct {
	model int
	pos   ViewPos
}

// RenderModel owns the base views and the models synthesized from them, and
// fans distortion queries and commits out to every model that uses the
// edited view. It is not safe for concurrent use.
type RenderModel struct {
	cfg    Config
	subPel [2]shiftlut.Table

	views  []*baseView
	models []*model
	byView [2][][]registration // [content][view]

	active     []registration
	errContent Content
	errView    int
	errPlane   int

	bandTop    int
	bandHeight int
}

// New creates a renderer with cfg.NumBaseViews empty base views and
// cfg.NumModels unused model slots.
func New(cfg Config) (*RenderModel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	r := &RenderModel{
		cfg:        cfg,
		views:      make([]*baseView, cfg.NumBaseViews),
		models:     make([]*model, cfg.NumModels),
		errView:    -1,
		bandHeight: cfg.Height,
	}
	r.subPel[0], r.subPel[1] = shiftlut.NewSubPelShift(cfg.ShiftPrec)
	for i := range r.views {
		v := &baseView{depth: picture.NewPlane(cfg.Width, cfg.Height, picture.DefaultPad)}
		for c := range v.video {
			v.video[c] = picture.NewPlane(cfg.Width, cfg.Height, picture.DefaultPad)
		}
		r.views[i] = v
	}
	for c := range r.byView {
		r.byView[c] = make([][]registration, cfg.NumBaseViews)
	}
	return r, nil
}

// Config returns the renderer configuration.
func (r *RenderModel) Config() Config { return r.cfg }

func (r *RenderModel) checkView(v int) error {
	if v < 0 || v >= len(r.views) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidView, v, len(r.views))
	}
	return nil
}

func (r *RenderModel) model(n int) (*model, error) {
	if n < 0 || n >= len(r.models) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidModel, n, len(r.models))
	}
	if r.models[n] == nil {
		return nil, fmt.Errorf("%w: model %d not created", ErrInvalidModel, n)
	}
	return r.models[n], nil
}

// CreateSingleModel creates model modelNum synthesized from leftView,
// rightView or both (-1 for an unused side). With baseView == AllViews the
// model is registered for edits of every view it uses, for both contents;
// otherwise only for edits of content in baseView.
func (r *RenderModel) CreateSingleModel(baseView int, content Content, modelNum, leftView, rightView int, useOrgRef bool, blend BlendMode) error {
	if modelNum < 0 || modelNum >= len(r.models) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidModel, modelNum, len(r.models))
	}
	if r.models[modelNum] != nil {
		return fmt.Errorf("%w: model %d already created", ErrInvalidModel, modelNum)
	}
	if content != ContentVideo && content != ContentDepth {
		return fmt.Errorf("%w: content %d", ErrInvalidModel, content)
	}

	var mode warp.Mode
	switch {
	case leftView >= 0 && rightView >= 0:
		mode = warp.ModeMerged
		if leftView == rightView {
			return fmt.Errorf("%w: view %d used on both sides", ErrInvalidView, leftView)
		}
	case leftView >= 0:
		mode, blend = warp.ModeLeft, BlendNone
	case rightView >= 0:
		mode, blend = warp.ModeRight, BlendNone
	default:
		return fmt.Errorf("%w: model %d has no base view", ErrInvalidView, modelNum)
	}
	for _, v := range []int{leftView, rightView} {
		if v < 0 {
			continue
		}
		if err := r.checkView(v); err != nil {
			return err
		}
	}

	eng, err := warp.New(warp.Options{
		Mode:           mode,
		Blend:          blend,
		Width:          r.cfg.Width,
		Height:         r.cfg.Height,
		ShiftPrec:      r.cfg.ShiftPrec,
		HoleMargin:     r.cfg.HoleMargin,
		BitDepth:       r.cfg.BitDepth,
		ChromaError:    r.cfg.ChromaError,
		UseOrgRef:      useOrgRef,
		ZThresholdPerc: r.cfg.ZThresholdPerc,
		SubPelLeft:     r.subPel[0],
		SubPelRight:    r.subPel[1],
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	eng.SetupPart(r.bandTop, r.bandHeight)

	var regs []sideView
	if leftView >= 0 {
		v := r.views[leftView]
		eng.SetLRView(PosLeft, v.video, v.depth)
		regs = append(regs, sideView{leftView, PosLeft})
	}
	if rightView >= 0 {
		v := r.views[rightView]
		eng.SetLRView(PosRight, v.video, v.depth)
		regs = append(regs, sideView{rightView, PosRight})
	}

	if baseView == AllViews {
		for _, reg := range regs {
			for c := range r.byView {
				r.byView[c][reg.view] = append(r.byView[c][reg.view], registration{modelNum, reg.pos})
			}
		}
	} else {
		if err := r.checkView(baseView); err != nil {
			return err
		}
		found := false
		for _, reg := range regs {
			if reg.view == baseView {
				r.byView[content][baseView] = append(r.byView[content][baseView], registration{modelNum, reg.pos})
				found = true
			}
		}
		if !found {
			return fmt.Errorf("%w: model %d does not use view %d", ErrInvalidView, modelNum, baseView)
		}
	}

	r.models[modelNum] = &model{eng: eng, left: leftView, right: rightView, useOrgRef: useOrgRef}
	return nil
}

// SetBaseView copies a new frame of view viewNum. video is in the
// configured chroma format; 4:2:0 chroma is up-sampled to 4:4:4. orgVideo
// and orgDepth are the uncoded pictures; when given, models with an
// original reference render their reference from them.
func (r *RenderModel) SetBaseView(viewNum int, video, depth, orgVideo, orgDepth *picture.Picture) error {
	if err := r.checkView(viewNum); err != nil {
		return err
	}
	if video == nil || depth == nil {
		return fmt.Errorf("%w: view %d needs video and depth", ErrInvalidView, viewNum)
	}
	v := r.views[viewNum]
	if err := r.importVideo(v.video, video); err != nil {
		return err
	}
	if err := r.importDepth(v.depth, depth); err != nil {
		return err
	}

	v.hasOrg = [2]bool{orgVideo != nil, orgDepth != nil}
	if orgVideo != nil {
		if v.orgVideo[0] == nil {
			for c := range v.orgVideo {
				v.orgVideo[c] = picture.NewPlane(r.cfg.Width, r.cfg.Height, picture.DefaultPad)
			}
		}
		if err := r.importVideo(v.orgVideo, orgVideo); err != nil {
			return err
		}
	}
	if orgDepth != nil {
		if v.orgDepth == nil {
			v.orgDepth = picture.NewPlane(r.cfg.Width, r.cfg.Height, picture.DefaultPad)
		}
		if err := r.importDepth(v.orgDepth, orgDepth); err != nil {
			return err
		}
	}
	v.set = true
	return nil
}

func (r *RenderModel) importVideo(dst [3]*picture.Plane, pic *picture.Picture) error {
	if pic.Format != r.cfg.ChromaFormat || pic.Width() != r.cfg.Width || pic.Height() != r.cfg.Height {
		return fmt.Errorf("%w: video %dx%d %s, want %dx%d %s", ErrPictureSize,
			pic.Width(), pic.Height(), pic.Format, r.cfg.Width, r.cfg.Height, r.cfg.ChromaFormat)
	}
	if pic.BitDepth != r.cfg.BitDepth {
		return fmt.Errorf("%w: video bit depth %d, want %d", ErrPictureSize, pic.BitDepth, r.cfg.BitDepth)
	}
	dst[0].CopyFrom(pic.Luma())
	for c := 1; c < 3; c++ {
		src := pic.Planes[c]
		if pic.Format == picture.Chroma444 {
			dst[c].CopyFrom(src)
		} else {
			dsp.SampleCUpHorUp(0, src.Pix, src.Offset(0, 0), src.Stride, src.Width, src.Height,
				dst[c].Pix, dst[c].Offset(0, 0), dst[c].Stride)
		}
	}
	for _, p := range dst {
		p.ExtendBorder()
	}
	return nil
}

func (r *RenderModel) importDepth(dst *picture.Plane, pic *picture.Picture) error {
	if pic.Width() != r.cfg.Width || pic.Height() != r.cfg.Height {
		return fmt.Errorf("%w: depth %dx%d, want %dx%d", ErrPictureSize,
			pic.Width(), pic.Height(), r.cfg.Width, r.cfg.Height)
	}
	if pic.BitDepth != dsp.DepthBits {
		return fmt.Errorf("%w: depth bit depth %d, want %d", ErrPictureSize, pic.BitDepth, dsp.DepthBits)
	}
	src := pic.Luma()
	for y := 0; y < src.Height; y++ {
		for x, v := range src.Row(y) {
			if v >= 1<<dsp.DepthBits {
				return fmt.Errorf("%w: depth sample %d at (%d, %d)", ErrPictureSize, v, x, y)
			}
		}
	}
	if r.cfg.SmoothDepth {
		dsp.Binominal(src.Pix, src.Offset(0, 0), src.Stride, src.Width, src.Height,
			dst.Pix, dst.Offset(0, 0), dst.Stride)
	} else {
		dst.CopyFrom(src)
	}
	dst.ExtendBorder()
	return nil
}

// SetSingleModel renders model modelNum for the current frame. lutL and
// lutR map depth to shift in 1/2^ShiftPrec pel, baseL and baseR are the
// full-pel shifts over the whole baseline; tables of an unused side may be
// nil. distToLeft in [0, 256] weights the right view in averaging blends.
//
// Models with an original reference take it from the original pictures of
// their views when any were supplied; otherwise ref is used, and without ref
// the rendered view becomes its own reference.
func (r *RenderModel) SetSingleModel(modelNum int, lutL, baseL, lutR, baseR []int, distToLeft int, ref *picture.Picture) error {
	m, err := r.model(modelNum)
	if err != nil {
		return err
	}
	sides := [2]int{m.left, m.right}
	for _, v := range sides {
		if v >= 0 && !r.views[v].set {
			return fmt.Errorf("%w: view %d of model %d", ErrNotReady, v, modelNum)
		}
	}

	var src warp.Reference
	useOrg := false
	if m.useOrgRef {
		for s, v := range sides {
			if v < 0 {
				continue
			}
			bv := r.views[v]
			if bv.hasOrg[ContentVideo] {
				src.Video[s] = bv.orgVideo
				useOrg = true
			}
			if bv.hasOrg[ContentDepth] {
				src.Depth[s] = bv.orgDepth
				useOrg = true
			}
		}
	}
	switch {
	case useOrg:
		src.Kind = warp.RefViews
	case ref != nil:
		planes, err := r.refPlanes(ref)
		if err != nil {
			return err
		}
		src = warp.Reference{Kind: warp.RefPicture, Picture: planes}
	default:
		src = warp.Reference{Kind: warp.RefSelf}
	}

	luts := warp.LUTs{Left: lutL, BaseLeft: baseL, Right: lutR, BaseRight: baseR, DistToLeft: distToLeft}
	if err := m.eng.Setup(src, luts); err != nil {
		return fmt.Errorf("%w: model %d: %w", ErrInvalidModel, modelNum, err)
	}
	return nil
}

// refPlanes converts a reference picture to 4:4:4 planes at the base view
// size.
func (r *RenderModel) refPlanes(pic *picture.Picture) ([3]*picture.Plane, error) {
	var planes [3]*picture.Plane
	for c := range planes {
		planes[c] = picture.NewPlane(r.cfg.Width, r.cfg.Height, 0)
	}
	if err := r.importVideo(planes, pic); err != nil {
		return planes, err
	}
	return planes, nil
}

// SetupPart restricts rendering and distortion to lines
// [horOffset, horOffset+usedHeight) for all current and future models.
func (r *RenderModel) SetupPart(horOffset, usedHeight int) error {
	if horOffset < 0 || usedHeight <= 0 || horOffset+usedHeight > r.cfg.Height {
		return fmt.Errorf("%w: band [%d, %d) outside height %d", ErrInvalidConfig, horOffset, horOffset+usedHeight, r.cfg.Height)
	}
	if r.cfg.ChromaFormat == picture.Chroma420 && (horOffset%2 != 0 || usedHeight%2 != 0) {
		return fmt.Errorf("%w: 4:2:0 band must start and end on even lines", ErrInvalidConfig)
	}
	r.bandTop, r.bandHeight = horOffset, usedHeight
	for _, m := range r.models {
		if m != nil {
			m.eng.SetupPart(horOffset, usedHeight)
		}
	}
	return nil
}
