package warp

import "github.com/deepteams/viewsynth/internal/dsp"

// candidate is one side's synthesized sample at a position.
type candidate struct {
	v [3]Pel
	d Pel
	f int32
}

const (
	weightOne  = int(Filled)
	weightHalf = weightOne >> 1
)

// blend merges the left and right candidates of one position and returns
// the output samples and depth.
func (e *Engine) blend(l, r candidate) ([3]Pel, Pel) {
	zl, zr := e.invZ[0][l.d], e.invZ[1][r.d]
	leftNearer := zl > zr || (zl == zr && e.opts.Blend != BlendRightDominant)
	depth := r.d
	if leftNearer {
		depth = l.d
	}

	switch {
	case l.f == Hole && r.f == Hole:
		if leftNearer {
			return l.v, l.d
		}
		return r.v, r.d
	case r.f == Hole:
		return l.v, l.d
	case l.f == Hole:
		return r.v, r.d
	}

	var out [3]Pel
	switch e.opts.Blend {
	case BlendLeftDominant:
		if l.f == Filled {
			return l.v, l.d
		}
		fl := int(l.f)
		for c := range out {
			out[c] = Pel((int(l.v[c])*fl + int(r.v[c])*(weightOne-fl) + weightHalf) >> WeightPrec)
		}
		return out, depth
	case BlendRightDominant:
		if r.f == Filled {
			return r.v, r.d
		}
		fr := int(r.f)
		for c := range out {
			out[c] = Pel((int(r.v[c])*fr + int(l.v[c])*(weightOne-fr) + weightHalf) >> WeightPrec)
		}
		return out, depth
	}

	// Average.
	if dsp.Abs(zl-zr) > e.zThres {
		near, far := l, r
		if !leftNearer {
			near, far = r, l
		}
		if near.f == Filled {
			return near.v, near.d
		}
		fn := int(near.f)
		for c := range out {
			out[c] = Pel((int(near.v[c])*fn + int(far.v[c])*(weightOne-fn) + weightHalf) >> WeightPrec)
		}
		return out, near.d
	}

	wr := e.distToLeft
	wl := weightOne - wr
	switch {
	case l.f == Filled && r.f == Filled:
		for c := range out {
			out[c] = distBlend(l.v[c], r.v[c], wl, wr)
		}
	case l.f == Filled:
		fr := int(r.f)
		for c := range out {
			out[c] = Pel((int(r.v[c])*fr + int(l.v[c])*(weightOne-fr) + weightHalf) >> WeightPrec)
		}
	case r.f == Filled:
		fl := int(l.f)
		for c := range out {
			out[c] = Pel((int(l.v[c])*fl + int(r.v[c])*(weightOne-fl) + weightHalf) >> WeightPrec)
		}
	default:
		kl, kr := int(l.f)*wl, int(r.f)*wr
		den := kl + kr
		for c := range out {
			if den == 0 {
				out[c] = distBlend(l.v[c], r.v[c], wl, wr)
				continue
			}
			out[c] = Pel((int(l.v[c])*kl + int(r.v[c])*kr + den/2) / den)
		}
	}
	return out, depth
}

func distBlend(l, r Pel, wl, wr int) Pel {
	return Pel((int(l)*wl + int(r)*wr + weightHalf) >> WeightPrec)
}

// blendRow blends every position of row y into the blended buffers.
func (e *Engine) blendRow(y int) {
	for i := y * e.w; i < (y+1)*e.w; i++ {
		v, d := e.blend(e.candidate(0, i), e.candidate(1, i))
		e.storeBlended(i, v, d)
	}
}

// zThreshold derives the blend depth threshold from the inverse-depth
// tables: perc percent of their combined range, rounded.
func zThreshold(invL, invR []int, perc int) int {
	lo, hi := invL[0], invL[0]
	for _, t := range [2][]int{invL, invR} {
		for _, v := range t[:1<<dsp.DepthBits] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return (perc*(hi-lo) + 50) / 100
}
