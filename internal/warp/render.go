package warp

import (
	"github.com/deepteams/viewsynth/internal/dsp"
	"github.com/deepteams/viewsynth/internal/pool"
)

// rowState tracks the warp of one scanline. Scan columns are visited in
// decreasing order; the boundary is the lowest shifted position written so
// far, and everything at or beyond it is owned by nearer columns.
type rowState struct {
	lastSPos           int  // shifted position of the last column
	inOcclusion        bool // last column fell behind the boundary
	lastOccludedSPos   int  // boundary while in occlusion
	lastOccludedSPosFP int  // the same, rounded up to full pel
}

// boundary returns the position new samples must stay below.
func (r *rowState) boundary() int {
	if r.inOcclusion {
		return r.lastOccludedSPos
	}
	return r.lastSPos
}

// reset starts the state at a stored boundary.
func (r *rowState) reset(m, prec int) {
	*r = rowState{lastSPos: m}
	r.lastOccludedSPos = m
	r.lastOccludedSPosFP = ceilFP(m, prec)
}

// advance records the shifted position of the next column and reports
// whether that column is occluded.
func (r *rowState) advance(s, prec int) bool {
	m := r.boundary()
	r.lastSPos = s
	if s >= m {
		r.inOcclusion = true
		r.lastOccludedSPos = m
		r.lastOccludedSPosFP = ceilFP(m, prec)
		return true
	}
	r.inOcclusion = false
	return false
}

// ceilFP rounds a sub-pel position up to full pel.
func ceilFP(v, prec int) int {
	return (v + 1<<prec - 1) >> prec
}

type passKind int

const (
	passFull   passKind = iota // write side buffers only
	passDist                   // accumulate error deltas, no writes
	passCommit                 // write everything and update the error
)

// rowPass renders one row of one side.
type rowPass struct {
	e     *Engine
	kind  passKind
	side  int
	y     int
	sign  int
	depth []Pel    // source depth, indexed by picture column
	video [3][]Pel // source samples, indexed by picture column
	cache [3][]Pel // optional horizontally up-sampled rows
	lut   []int
	delta int64
}

// col maps a scan column to a picture column.
func (r *rowPass) col(u int) int {
	if r.side == 0 {
		return u
	}
	return r.e.w - 1 - u
}

// shifted returns the shifted position of scan column u. u == w uses the
// border depth.
func (r *rowPass) shifted(u int) int {
	c := r.col(u)
	if u == r.e.w {
		c = r.col(u - 1)
	}
	return u<<r.e.prec - r.sign*r.lut[r.depth[c]]
}

// fullCache up-samples the source rows once for a full-row render.
func (r *rowPass) fullCache() {
	w, p := r.e.w, r.e.prec
	if p == 0 {
		return
	}
	for c := 0; c < 3; c++ {
		buf := pool.Get(w << p)
		dsp.SampleHorUp(p, r.video[c], 0, w, w, 1, buf, 0, w<<p)
		r.cache[c] = buf
	}
}

func (r *rowPass) release() {
	for c := range r.cache {
		if r.cache[c] != nil {
			pool.Put(r.cache[c])
			r.cache[c] = nil
		}
	}
}

// sample returns the source samples at picture column c.
func (r *rowPass) sample(c int) [3]Pel {
	return [3]Pel{r.video[0][c], r.video[1][c], r.video[2][c]}
}

// interp returns the source samples at scan sub-pel position s.
func (r *rowPass) interp(s int) [3]Pel {
	w, p := r.e.w, r.e.prec
	a := s >> p
	k := s & (1<<p - 1)
	if a >= w-1 {
		return r.sample(r.col(w - 1))
	}
	if k == 0 {
		return r.sample(r.col(a))
	}
	var v [3]Pel
	if r.side == 0 {
		for c := 0; c < 3; c++ {
			if r.cache[c] != nil {
				v[c] = r.cache[c][s]
			} else {
				v[c] = dsp.SubPel(r.video[c][a], r.video[c][a+1], k, p)
			}
		}
		return v
	}
	x := w - 1 - a
	for c := 0; c < 3; c++ {
		if r.cache[c] != nil {
			v[c] = r.cache[c][x<<p-k]
		} else {
			v[c] = dsp.SubPel(r.video[c][x], r.video[c][x-1], k, p)
		}
	}
	return v
}

// span clamps the full-pel range covering sub-pel [lo, hi) to the picture.
func (r *rowPass) span(lo, hi int) (int, int) {
	a := dsp.ClampInt(ceilFP(lo, r.e.prec), 0, r.e.w)
	b := dsp.ClampInt(ceilFP(hi, r.e.prec), 0, r.e.w)
	return a, b
}

// fillHoles writes the extrapolated sample c over sub-pel [lo, hi). The
// first margin+1 positions counted from lo carry tapered weights, the rest
// are holes.
func (r *rowPass) fillHoles(lo, hi, c, margin int) {
	v := r.sample(c)
	d := r.depth[c]
	first := ceilFP(lo, r.e.prec)
	a, b := r.span(lo, hi)
	for x := a; x < b; x++ {
		r.emit(x, v, d, marginWeight(x-first, margin))
	}
}

// marginWeight is the fill weight of the k-th extrapolated position of a
// hole margin: Filled at the edge, falling quadratically to zero one step
// past the margin.
func marginWeight(k, margin int) int32 {
	if k < 0 || k > margin {
		return Hole
	}
	n := margin + 1
	m := n - k
	return int32(int64(Filled) * int64(m*m) / int64(n*n))
}

// render re-renders scan columns ub down to 0. Columns at or above last are
// always rendered; below it the scan stops once the boundary matches the
// stored one.
func (r *rowPass) render(ub, last int) {
	e := r.e
	w, p := e.w, e.prec
	bounds := e.bounds[r.side][r.y*(w+1) : (r.y+1)*(w+1)]
	write := r.kind != passDist

	var st rowState
	oldNext := int(bounds[ub+1])
	if ub == w-1 {
		// Border holes right of the last column.
		sw := r.shifted(w)
		r.fillHoles(sw, w<<p, r.col(w-1), -1)
		if write {
			bounds[w] = int32(sw)
		}
		st.reset(sw, p)
	} else {
		st.reset(oldNext, p)
	}

	stopped := false
	for u := ub; u >= 0; u-- {
		m := st.boundary()
		if u < last && m == oldNext {
			stopped = true
			break
		}
		s := r.shifted(u)
		if !st.advance(s, p) {
			r.renderColumn(u, s, m)
		}
		oldNext = int(bounds[u])
		if write {
			bounds[u] = int32(st.boundary())
		}
	}
	if !stopped {
		// Border holes left of the first column.
		r.fillHoles(-1<<30, st.boundary(), r.col(0), -1)
	}
}

// renderColumn writes the output covered by scan column u, shifted to s,
// up to boundary m.
func (r *rowPass) renderColumn(u, s, m int) {
	e := r.e
	p := e.prec
	c := r.col(u)
	gap := m - s
	if gap > e.gapTol {
		r.fillHoles(s, m, c, e.opts.HoleMargin)
		return
	}
	d := r.depth[c]
	table := e.subPel[r.side]
	a, b := r.span(s, m)
	for x := a; x < b; x++ {
		phase := table[gap][x<<p-s]
		if r.side == 1 {
			phase = -phase
		}
		r.emit(x, r.interp(u<<p+phase), d, Filled)
	}
}

// emit handles the output at scan position x.
func (r *rowPass) emit(x int, v [3]Pel, d Pel, f int32) {
	e := r.e
	pc := x
	if r.side == 1 {
		pc = e.w - 1 - x
	}
	i := r.y*e.w + pc
	if r.kind == passFull {
		e.storeSide(r.side, i, v, d, f)
		return
	}
	out := v
	od := d
	if e.opts.Mode == ModeMerged {
		cur := candidate{v: v, d: d, f: f}
		other := e.candidate(1-r.side, i)
		if r.side == 0 {
			out, od = e.blend(cur, other)
		} else {
			out, od = e.blend(other, cur)
		}
	}
	ne := e.pixErr(out, i)
	r.delta += int64(ne) - int64(e.err[i])
	if r.kind == passCommit {
		e.storeSide(r.side, i, v, d, f)
		if e.opts.Mode == ModeMerged {
			e.storeBlended(i, out, od)
		}
		e.err[i] = ne
	}
}

func (e *Engine) storeSide(s, i int, v [3]Pel, d Pel, f int32) {
	for c := 0; c < 3; c++ {
		e.video[s][c].Pix[i] = v[c]
	}
	e.depth[s].Pix[i] = d
	e.filled[s][i] = f
}

func (e *Engine) storeBlended(i int, v [3]Pel, d Pel) {
	for c := 0; c < 3; c++ {
		e.video[PosBlended][c].Pix[i] = v[c]
	}
	e.depth[PosBlended].Pix[i] = d
}

func (e *Engine) candidate(s, i int) candidate {
	return candidate{
		v: [3]Pel{e.video[s][0].Pix[i], e.video[s][1].Pix[i], e.video[s][2].Pix[i]},
		d: e.depth[s].Pix[i],
		f: e.filled[s][i],
	}
}
