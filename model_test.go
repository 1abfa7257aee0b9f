package viewsynth

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/deepteams/viewsynth/picture"
	"github.com/deepteams/viewsynth/shiftlut"
)

const (
	testW = 32
	testH = 8
)

type testLUTs struct {
	left, baseLeft, right, baseRight []int
}

func newLUTs(prec int) testLUTs {
	return testLUTs{
		left:      shiftlut.Linear(0.05, 0, prec),
		baseLeft:  shiftlut.Linear(0.1, 0, 0),
		right:     shiftlut.Linear(-0.05, 0, prec),
		baseRight: shiftlut.Linear(-0.1, 0, 0),
	}
}

func (l testLUTs) setup(r *RenderModel, modelNum int, ref *picture.Picture) error {
	return r.SetSingleModel(modelNum, l.left, l.baseLeft, l.right, l.baseRight, 128, ref)
}

func mustPicture(t *testing.T, w, h int, format picture.ChromaFormat, bitDepth int) *picture.Picture {
	t.Helper()
	p, err := picture.New(w, h, format, bitDepth)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func randomVideo(t *testing.T, rng *rand.Rand, w, h int) *picture.Picture {
	t.Helper()
	p := mustPicture(t, w, h, picture.Chroma420, 8)
	for c := 0; c < 3; c++ {
		pl := p.Planes[c]
		for y := 0; y < pl.Height; y++ {
			for x := range pl.Row(y) {
				pl.Set(x, y, Pel(rng.Intn(256)))
			}
		}
	}
	p.ExtendBorder()
	return p
}

func randomDepth(t *testing.T, rng *rand.Rand, w, h int) *picture.Picture {
	t.Helper()
	p := mustPicture(t, w, h, picture.Chroma400, 8)
	for y := 0; y < h; y++ {
		row := p.Luma().Row(y)
		for x := 0; x < w; {
			d := Pel(rng.Intn(256))
			for n := 1 + rng.Intn(6); n > 0 && x < w; n-- {
				row[x] = d
				x++
			}
		}
	}
	p.ExtendBorder()
	return p
}

func flatPicture(t *testing.T, w, h int, format picture.ChromaFormat, v Pel) *picture.Picture {
	t.Helper()
	p := mustPicture(t, w, h, format, 8)
	p.Fill(v, v, v)
	return p
}

func testConfig(views, models int) Config {
	cfg := DefaultConfig(testW, testH)
	cfg.NumBaseViews = views
	cfg.NumModels = models
	cfg.HoleMargin = 2
	cfg.ChromaError = true
	return cfg
}

func mustNew(t *testing.T, cfg Config) *RenderModel {
	t.Helper()
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(64, 32)
	if cfg.ShiftPrec != 2 || cfg.HoleMargin != 6 || cfg.BitDepth != 8 || cfg.ZThresholdPerc != 30 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ChromaFormat != picture.Chroma420 {
		t.Errorf("ChromaFormat = %s, want 4:2:0", cfg.ChromaFormat)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"no views", func(c *Config) { c.NumBaseViews = 0 }},
		{"no models", func(c *Config) { c.NumModels = 0 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"precision", func(c *Config) { c.ShiftPrec = 5 }},
		{"hole margin", func(c *Config) { c.HoleMargin = -2 }},
		{"bit depth", func(c *Config) { c.BitDepth = 7 }},
		{"z threshold", func(c *Config) { c.ZThresholdPerc = 150 }},
		{"odd 4:2:0", func(c *Config) { c.Width = 31 }},
		{"4:0:0 texture", func(c *Config) { c.ChromaFormat = picture.Chroma400 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(1, 1)
			tt.mod(&cfg)
			if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestCreateSingleModel_Errors(t *testing.T) {
	tests := []struct {
		name        string
		base        int
		model       int
		left, right int
		want        error
	}{
		{"model out of range", AllViews, 4, 0, 1, ErrInvalidModel},
		{"no view", AllViews, 0, -1, -1, ErrInvalidView},
		{"same view twice", AllViews, 0, 1, 1, ErrInvalidView},
		{"view out of range", AllViews, 0, 0, 3, ErrInvalidView},
		{"base view unused", 2, 0, 0, 1, ErrInvalidView},
		{"base view out of range", 7, 0, 0, 1, ErrInvalidView},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustNew(t, testConfig(3, 2))
			err := r.CreateSingleModel(tt.base, ContentDepth, tt.model, tt.left, tt.right, false, BlendAverage)
			if !errors.Is(err, tt.want) {
				t.Errorf("CreateSingleModel = %v, want %v", err, tt.want)
			}
		})
	}

	r := mustNew(t, testConfig(2, 1))
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, 1, false, BlendAverage); !errors.Is(err, ErrInvalidModel) {
		t.Errorf("re-creating a model = %v, want ErrInvalidModel", err)
	}
}

func TestCreateSingleModel_Registration(t *testing.T) {
	r := mustNew(t, testConfig(3, 3))
	// Merged 0|1, registered everywhere.
	if err := r.CreateSingleModel(AllViews, ContentVideo, 0, 0, 1, false, BlendLeftDominant); err != nil {
		t.Fatal(err)
	}
	// Left-only from 2, registered for depth edits of view 2.
	if err := r.CreateSingleModel(2, ContentDepth, 1, 2, -1, false, BlendNone); err != nil {
		t.Fatal(err)
	}
	// Merged 2|1, registered for video edits of view 1 only.
	if err := r.CreateSingleModel(1, ContentVideo, 2, 2, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		view    int
		content Content
		want    []registration
	}{
		{0, ContentVideo, []registration{{0, PosLeft}}},
		{0, ContentDepth, []registration{{0, PosLeft}}},
		{1, ContentVideo, []registration{{0, PosRight}, {2, PosRight}}},
		{1, ContentDepth, []registration{{0, PosRight}}},
		{2, ContentVideo, nil},
		{2, ContentDepth, []registration{{1, PosLeft}}},
	}
	for _, tt := range tests {
		if err := r.SetErrorMode(tt.view, tt.content, 0); err != nil {
			t.Fatal(err)
		}
		if r.ActiveModels() != len(tt.want) {
			t.Errorf("view %d %s: %d active models, want %d", tt.view, tt.content, r.ActiveModels(), len(tt.want))
			continue
		}
		for i, reg := range r.active {
			if reg != tt.want[i] {
				t.Errorf("view %d %s: active[%d] = %+v, want %+v", tt.view, tt.content, i, reg, tt.want[i])
			}
		}
	}
}

func TestSetErrorMode_Invalid(t *testing.T) {
	r := mustNew(t, testConfig(1, 1))
	if err := r.SetErrorMode(1, ContentDepth, 0); !errors.Is(err, ErrInvalidView) {
		t.Errorf("view out of range = %v", err)
	}
	if err := r.SetErrorMode(0, ContentDepth, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("depth plane 1 = %v", err)
	}
	if err := r.SetErrorMode(0, ContentVideo, 3); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("video plane 3 = %v", err)
	}
}

func TestSetBaseView_Errors(t *testing.T) {
	r := mustNew(t, testConfig(1, 1))
	video := flatPicture(t, testW, testH, picture.Chroma420, 0)
	depth := flatPicture(t, testW, testH, picture.Chroma400, 0)
	tests := []struct {
		name         string
		view         int
		video, depth *picture.Picture
		want         error
	}{
		{"view out of range", 1, video, depth, ErrInvalidView},
		{"missing depth", 0, video, nil, ErrInvalidView},
		{"wrong video size", 0, flatPicture(t, testW/2, testH, picture.Chroma420, 0), depth, ErrPictureSize},
		{"wrong video format", 0, flatPicture(t, testW, testH, picture.Chroma444, 0), depth, ErrPictureSize},
		{"wrong video bit depth", 0, mustPicture(t, testW, testH, picture.Chroma420, 10), depth, ErrPictureSize},
		{"wrong depth size", 0, video, flatPicture(t, testW, testH+2, picture.Chroma400, 0), ErrPictureSize},
		{"wrong depth bit depth", 0, video, mustPicture(t, testW, testH, picture.Chroma400, 10), ErrPictureSize},
		{"depth out of range", 0, video, flatPicture(t, testW, testH, picture.Chroma400, 256), ErrPictureSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.SetBaseView(tt.view, tt.video, tt.depth, nil, nil); !errors.Is(err, tt.want) {
				t.Errorf("SetBaseView = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetBaseView_ChromaUpsampling(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := mustNew(t, testConfig(1, 1))
	video := randomVideo(t, rng, testW, testH)
	if err := r.SetBaseView(0, video, randomDepth(t, rng, testW, testH), nil, nil); err != nil {
		t.Fatal(err)
	}
	v := r.views[0]
	if !v.video[0].Equal(video.Luma()) {
		t.Error("luma not copied")
	}
	for c := 1; c < 3; c++ {
		for y := 0; y < testH; y++ {
			for x := 0; x < testW; x++ {
				if got, want := v.video[c].At(x, y), video.Planes[c].At(x/2, y/2); got != want {
					t.Fatalf("plane %d (%d, %d) = %d, want %d", c, x, y, got, want)
				}
			}
		}
	}
}

func TestSetBaseView_SmoothDepth(t *testing.T) {
	cfg := testConfig(1, 1)
	cfg.SmoothDepth = true
	r := mustNew(t, cfg)
	depth := flatPicture(t, testW, testH, picture.Chroma400, 77)
	depth.Luma().Set(5, 5, 237)
	if err := r.SetBaseView(0, flatPicture(t, testW, testH, picture.Chroma420, 0), depth, nil, nil); err != nil {
		t.Fatal(err)
	}
	d := r.views[0].depth
	// (77*12 + 237*4 + 8) >> 4 at the peak, 77 far away.
	if got := d.At(5, 5); got != 117 {
		t.Errorf("smoothed peak = %d, want 117", got)
	}
	if got := d.At(20, 2); got != 77 {
		t.Errorf("flat area = %d, want 77", got)
	}
}

func TestSetSingleModel_NotReady(t *testing.T) {
	r := mustNew(t, testConfig(2, 1))
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}
	if err := newLUTs(2).setup(r, 0, nil); !errors.Is(err, ErrNotReady) {
		t.Errorf("SetSingleModel = %v, want ErrNotReady", err)
	}
	if err := newLUTs(2).setup(r, 1, nil); !errors.Is(err, ErrInvalidModel) {
		t.Errorf("SetSingleModel(1) = %v, want ErrInvalidModel", err)
	}
	dst := mustPicture(t, testW, testH, picture.Chroma420, 8)
	if err := r.SynthVideo(0, PosBlended, dst); !errors.Is(err, ErrNotReady) {
		t.Errorf("SynthVideo = %v, want ErrNotReady", err)
	}
}

// A flat depth map and a reference equal to the constant texture give no
// distortion.
func TestTotalSSE_FlatRoundTrip(t *testing.T) {
	cfg := DefaultConfig(4, 4)
	cfg.NumBaseViews = 2
	cfg.NumModels = 3
	r := mustNew(t, cfg)
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateSingleModel(AllViews, ContentDepth, 1, 0, -1, false, BlendNone); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateSingleModel(AllViews, ContentDepth, 2, -1, 1, false, BlendNone); err != nil {
		t.Fatal(err)
	}
	for v := 0; v < 2; v++ {
		video := flatPicture(t, 4, 4, picture.Chroma420, 128)
		depth := flatPicture(t, 4, 4, picture.Chroma400, 10)
		if err := r.SetBaseView(v, video, depth, nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	ref := flatPicture(t, 4, 4, picture.Chroma420, 128)
	for m := 0; m < 3; m++ {
		if err := newLUTs(2).setup(r, m, ref); err != nil {
			t.Fatal(err)
		}
	}
	if y, u, v := r.TotalSSE(); y != 0 || u != 0 || v != 0 {
		t.Errorf("TotalSSE = %d, %d, %d, want 0", y, u, v)
	}
	if py, _, _ := r.TotalPSNR(); py != 99 {
		t.Errorf("TotalPSNR luma = %v, want 99", py)
	}
	dst := mustPicture(t, 4, 4, picture.Chroma420, 8)
	if err := r.SynthVideo(0, PosBlended, dst); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(ref) {
		t.Error("synthesized view differs from the flat input")
	}
}

type scene struct {
	video [2]*picture.Picture
	depth [2]*picture.Picture
	ref   *picture.Picture
}

func randomScene(t *testing.T, seed int64) scene {
	rng := rand.New(rand.NewSource(seed))
	var s scene
	for v := 0; v < 2; v++ {
		s.video[v] = randomVideo(t, rng, testW, testH)
		s.depth[v] = randomDepth(t, rng, testW, testH)
	}
	s.ref = randomVideo(t, rng, testW, testH)
	return s
}

// build creates two models over the scene: a merged one and a left-only one
// on view 0.
func (s scene) build(t *testing.T, cfg Config) *RenderModel {
	t.Helper()
	r := mustNew(t, cfg)
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateSingleModel(AllViews, ContentDepth, 1, 0, -1, false, BlendNone); err != nil {
		t.Fatal(err)
	}
	for v := 0; v < 2; v++ {
		if err := r.SetBaseView(v, s.video[v], s.depth[v], nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	for m := 0; m < 2; m++ {
		if err := newLUTs(cfg.ShiftPrec).setup(r, m, s.ref); err != nil {
			t.Fatal(err)
		}
	}
	return r
}

func synthOf(t *testing.T, r *RenderModel, m int) *picture.Picture {
	t.Helper()
	dst := mustPicture(t, testW, testH, picture.Chroma420, 8)
	if err := r.SynthVideo(m, PosBlended, dst); err != nil {
		t.Fatal(err)
	}
	return dst
}

func TestGetDist_DepthCommit(t *testing.T) {
	s := randomScene(t, 3)
	r := s.build(t, testConfig(2, 2))
	if err := r.SetErrorMode(0, ContentDepth, 0); err != nil {
		t.Fatal(err)
	}
	if r.ActiveModels() != 2 {
		t.Fatalf("%d active models, want 2", r.ActiveModels())
	}

	rng := rand.New(rand.NewSource(4))
	const bx, by, bw, bh = 9, 2, 6, 4
	block := make([]Pel, bw*bh)
	for i := range block {
		block[i] = Pel(rng.Intn(256))
	}

	sy, su, sv := r.TotalSSE()
	before := [2]*picture.Picture{synthOf(t, r, 0), synthOf(t, r, 1)}
	d1 := r.GetDist(bx, by, bw, bh, block, bw)
	d2 := r.GetDist(bx, by, bw, bh, block, bw)
	if d1 != d2 {
		t.Fatalf("repeated GetDist = %d then %d", d1, d2)
	}
	if y, u, v := r.TotalSSE(); y != sy || u != su || v != sv {
		t.Error("GetDist changed the total SSE")
	}
	for m := 0; m < 2; m++ {
		if !synthOf(t, r, m).Equal(before[m]) {
			t.Errorf("GetDist changed the synthesized view of model %d", m)
		}
	}

	r.SetData(bx, by, bw, bh, block, bw)
	if d := r.GetDist(bx, by, bw, bh, block, bw); d != 0 {
		t.Errorf("GetDist after SetData = %d, want 0", d)
	}
	for j := 0; j < bh; j++ {
		for i := 0; i < bw; i++ {
			if got := r.views[0].depth.At(bx+i, by+j); got != block[j*bw+i] {
				t.Fatalf("base depth (%d, %d) = %d, want %d", bx+i, by+j, got, block[j*bw+i])
			}
		}
	}

	// A renderer set up on the edited depth from scratch must agree.
	edited := s
	edited.depth[0] = s.depth[0].Clone()
	for j := 0; j < bh; j++ {
		copy(edited.depth[0].Luma().Row(by + j)[bx:bx+bw], block[j*bw:(j+1)*bw])
	}
	full := edited.build(t, testConfig(2, 2))
	for m := 0; m < 2; m++ {
		if !synthOf(t, r, m).Equal(synthOf(t, full, m)) {
			t.Errorf("model %d: committed view differs from a full render", m)
		}
	}
	if err := full.SetErrorMode(0, ContentDepth, 0); err != nil {
		t.Fatal(err)
	}
	fy, fu, fv := full.TotalSSE()
	if y, u, v := r.TotalSSE(); y != fy || u != fu || v != fv {
		t.Errorf("TotalSSE = %d, %d, %d, full render %d, %d, %d", y, u, v, fy, fu, fv)
	}
}

func TestGetDist_Chroma420(t *testing.T) {
	s := randomScene(t, 8)
	r := s.build(t, testConfig(2, 2))
	if err := r.SetErrorMode(1, ContentVideo, 2); err != nil {
		t.Fatal(err)
	}
	// Only the merged model uses view 1.
	if r.ActiveModels() != 1 {
		t.Fatalf("%d active models, want 1", r.ActiveModels())
	}
	block := []Pel{10, 20, 30, 40, 50, 60}
	const bx, by, bw, bh = 3, 1, 3, 2
	if d1, d2 := r.GetDist(bx, by, bw, bh, block, bw), r.GetDist(bx, by, bw, bh, block, bw); d1 != d2 {
		t.Fatalf("repeated GetDist = %d then %d", d1, d2)
	}
	r.SetData(bx, by, bw, bh, block, bw)
	cr := r.views[1].video[2]
	for j := 0; j < 2*bh; j++ {
		for i := 0; i < 2*bw; i++ {
			want := block[(j/2)*bw+i/2]
			if got := cr.At(2*bx+i, 2*by+j); got != want {
				t.Fatalf("Cr (%d, %d) = %d, want %d", 2*bx+i, 2*by+j, got, want)
			}
		}
	}
	if d := r.GetDist(bx, by, bw, bh, block, bw); d != 0 {
		t.Errorf("GetDist after SetData = %d, want 0", d)
	}
}

func TestGetDist_OutOfRangePanics(t *testing.T) {
	s := randomScene(t, 2)
	r := s.build(t, testConfig(2, 2))
	if err := r.SetErrorMode(0, ContentVideo, 1); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("chroma block beyond the 4:2:0 plane did not panic")
		}
	}()
	r.GetDist(testW/2-2, 0, 4, 1, make([]Pel, 4), 4)
}

func TestRoundDiv(t *testing.T) {
	tests := []struct{ sum, n, want int64 }{
		{0, 3, 0},
		{5, 2, 3},
		{-5, 2, -3},
		{4, 3, 1},
		{-4, 3, -1},
		{7, 1, 7},
		{-8, 3, -3},
	}
	for _, tt := range tests {
		if got := roundDiv(tt.sum, tt.n); got != tt.want {
			t.Errorf("roundDiv(%d, %d) = %d, want %d", tt.sum, tt.n, got, tt.want)
		}
	}
}

func TestSetSingleModel_OrgReference(t *testing.T) {
	s := randomScene(t, 12)
	org := randomScene(t, 13)

	cfg := testConfig(2, 1)
	r := mustNew(t, cfg)
	if err := r.CreateSingleModel(AllViews, ContentVideo, 0, 0, 1, true, BlendAverage); err != nil {
		t.Fatal(err)
	}
	for v := 0; v < 2; v++ {
		if err := r.SetBaseView(v, s.video[v], s.depth[v], org.video[v], org.depth[v]); err != nil {
			t.Fatal(err)
		}
	}
	// The supplied reference is ignored in favour of the originals.
	if err := newLUTs(2).setup(r, 0, s.ref); err != nil {
		t.Fatal(err)
	}

	fromOrg := mustNew(t, cfg)
	if err := fromOrg.CreateSingleModel(AllViews, ContentVideo, 0, 0, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}
	for v := 0; v < 2; v++ {
		if err := fromOrg.SetBaseView(v, org.video[v], org.depth[v], nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := newLUTs(2).setup(fromOrg, 0, nil); err != nil {
		t.Fatal(err)
	}

	got := mustPicture(t, testW, testH, picture.Chroma420, 8)
	want := mustPicture(t, testW, testH, picture.Chroma420, 8)
	if err := r.RefVideo(0, got); err != nil {
		t.Fatal(err)
	}
	if err := fromOrg.SynthVideo(0, PosBlended, want); err != nil {
		t.Fatal(err)
	}
	if !got.Equal(want) {
		t.Error("reference was not rendered from the original views")
	}
	if y, _, _ := r.TotalSSE(); y == 0 {
		t.Error("TotalSSE = 0 although coded and original views differ")
	}
	if y, u, v := fromOrg.TotalSSE(); y != 0 || u != 0 || v != 0 {
		t.Errorf("self-referenced TotalSSE = %d, %d, %d, want 0", y, u, v)
	}
}

func TestSetupPart(t *testing.T) {
	s := randomScene(t, 21)
	cfg := testConfig(2, 2)
	r := mustNew(t, cfg)
	if err := r.SetupPart(1, 4); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("odd band = %v, want ErrInvalidConfig", err)
	}
	if err := r.SetupPart(6, 4); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("band past the bottom = %v, want ErrInvalidConfig", err)
	}
	if err := r.SetupPart(2, 4); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, 1, false, BlendAverage); err != nil {
		t.Fatal(err)
	}
	for v := 0; v < 2; v++ {
		if err := r.SetBaseView(v, s.video[v], s.depth[v], nil, nil); err != nil {
			t.Fatal(err)
		}
	}
	if err := newLUTs(2).setup(r, 0, s.ref); err != nil {
		t.Fatal(err)
	}
	if top, h := r.models[0].eng.Band(); top != 2 || h != 4 {
		t.Fatalf("engine band = %d, %d, want 2, 4", top, h)
	}

	full := s.build(t, cfg)
	part, whole := synthOf(t, r, 0), synthOf(t, full, 0)
	for y := 0; y < testH; y++ {
		inBand := y >= 2 && y < 6
		for x, v := range part.Luma().Row(y) {
			if inBand && v != whole.Luma().At(x, y) {
				t.Fatalf("line %d differs from the full render", y)
			}
			if !inBand && v != 0 {
				t.Fatalf("line %d outside the band was rendered", y)
			}
		}
	}
}

func TestSynthDepth_Reduced(t *testing.T) {
	r := mustNew(t, testConfig(1, 1))
	if err := r.CreateSingleModel(AllViews, ContentDepth, 0, 0, -1, false, BlendNone); err != nil {
		t.Fatal(err)
	}
	depth := flatPicture(t, testW, testH, picture.Chroma400, 0)
	for x := 0; x < testW; x++ {
		for y := 0; y < testH; y++ {
			depth.Luma().Set(x, y, Pel(x%2*100))
		}
	}
	if err := r.SetBaseView(0, flatPicture(t, testW, testH, picture.Chroma420, 50), depth, nil, nil); err != nil {
		t.Fatal(err)
	}
	// Zero shift keeps the depth in place.
	zero := make([]int, shiftlut.Size)
	if err := r.SetSingleModel(0, zero, nil, nil, nil, 0, nil); err != nil {
		t.Fatal(err)
	}
	half := mustPicture(t, testW/2, testH, picture.Chroma400, 8)
	if err := r.SynthDepth(0, PosLeft, half); err != nil {
		t.Fatal(err)
	}
	for x, v := range half.Luma().Row(3) {
		if v != 50 {
			t.Fatalf("reduced depth at %d = %d, want 50", x, v)
		}
	}
	if err := r.SynthDepth(0, PosRight, half); !errors.Is(err, ErrInvalidView) {
		t.Errorf("SynthDepth(PosRight) on a left model = %v", err)
	}
	odd := mustPicture(t, testW/3, testH, picture.Chroma400, 8)
	if err := r.SynthDepth(0, PosLeft, odd); !errors.Is(err, ErrPictureSize) {
		t.Errorf("SynthDepth into %d columns = %v", testW/3, err)
	}
	quarter := mustPicture(t, testW/4, testH, picture.Chroma420, 8)
	if err := r.SynthVideo(0, PosBlended, quarter); err != nil {
		t.Fatal(err)
	}
	for x, v := range quarter.Cb().Row(1) {
		if v != 50 {
			t.Fatalf("reduced chroma at %d = %d, want 50", x, v)
		}
	}
}
