package dsp

// Resampling filters used to prepare base views before warping and to bring
// synthesized pictures back to the output format.
//
// Every function reads from src starting at sOff with stride sStride and
// writes to dst starting at dOff with stride dStride. Source columns beyond
// the given width and rows beyond the given height are never read; edges are
// handled by clamping, so no border extension is required beforehand.

// SubPel returns the sample at phase k of 1<<log2 between a (phase 0) and
// b (phase 1<<log2). It is the interpolation used by SampleHorUp, and the
// warp engine relies on both producing identical values.
func SubPel(a, b Pel, k, log2 int) Pel {
	if k == 0 {
		return a
	}
	n := 1 << log2
	return Pel(((n-k)*int(a) + k*int(b) + n>>1) >> log2)
}

// SampleHorUp up-samples each row horizontally by 1<<log2 using linear
// interpolation between neighbours. The last column is extrapolated.
// dst must hold width<<log2 samples per row.
func SampleHorUp(log2 int, src []Pel, sOff, sStride, width, height int, dst []Pel, dOff, dStride int) {
	n := 1 << log2
	for y := 0; y < height; y++ {
		s := src[sOff+y*sStride : sOff+y*sStride+width]
		d := dst[dOff+y*dStride : dOff+y*dStride+width<<log2]
		if log2 == 0 {
			copy(d, s)
			continue
		}
		for x, a := range s {
			b := a
			if x+1 < width {
				b = s[x+1]
			}
			base := x << log2
			for k := 0; k < n; k++ {
				d[base+k] = SubPel(a, b, k, log2)
			}
		}
	}
}

// SampleHorDown reduces each row horizontally by 1<<log2 with a rounded box
// average. width is the output width; src must hold width<<log2 samples per
// row.
func SampleHorDown(log2 int, src []Pel, sOff, sStride, width, height int, dst []Pel, dOff, dStride int) {
	n := 1 << log2
	for y := 0; y < height; y++ {
		s := src[sOff+y*sStride : sOff+y*sStride+width<<log2]
		d := dst[dOff+y*dStride : dOff+y*dStride+width]
		if log2 == 0 {
			copy(d, s)
			continue
		}
		for x := range d {
			sum := n >> 1
			for _, v := range s[x<<log2 : (x+1)<<log2] {
				sum += int(v)
			}
			d[x] = Pel(sum >> log2)
		}
	}
}

// SampleCUpHorUp converts a 4:2:0 chroma plane of width x height samples to
// 4:4:4 and additionally up-samples it horizontally by 1<<log2. Samples are
// replicated: each input sample covers a (2<<log2) x 2 output block.
func SampleCUpHorUp(log2 int, src []Pel, sOff, sStride, width, height int, dst []Pel, dOff, dStride int) {
	bw := 2 << log2
	for y := 0; y < height; y++ {
		s := src[sOff+y*sStride : sOff+y*sStride+width]
		d0 := dst[dOff+2*y*dStride : dOff+2*y*dStride+width*bw]
		d1 := dst[dOff+(2*y+1)*dStride : dOff+(2*y+1)*dStride+width*bw]
		for x, v := range s {
			for k := x * bw; k < (x+1)*bw; k++ {
				d0[k] = v
				d1[k] = v
			}
		}
	}
}

// tap13 is the [1 3 3 1] kernel of SampleDown2Tap13.
var tap13 = [4]int{1, 3, 3, 1}

// SampleDown2Tap13 halves a plane in both directions with the separable
// [1 3 3 1]/8 kernel. width and height are the output dimensions; the input
// is 2*width x 2*height. Taps outside the input are clamped to the edge.
func SampleDown2Tap13(src []Pel, sOff, sStride, width, height int, dst []Pel, dOff, dStride int) {
	inW, inH := 2*width, 2*height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0
			for j, wy := range tap13 {
				sy := ClampInt(2*y-1+j, 0, inH-1)
				row := sOff + sy*sStride
				acc := 0
				for i, wx := range tap13 {
					sx := ClampInt(2*x-1+i, 0, inW-1)
					acc += wx * int(src[row+sx])
				}
				sum += wy * acc
			}
			dst[dOff+y*dStride+x] = Pel((sum + 32) >> 6)
		}
	}
}

// Binominal smooths a plane with the 3x3 binomial kernel [1 2 1]^T [1 2 1]/16.
// src and dst must not overlap.
func Binominal(src []Pel, sOff, sStride, width, height int, dst []Pel, dOff, dStride int) {
	for y := 0; y < height; y++ {
		up := sOff + ClampInt(y-1, 0, height-1)*sStride
		mid := sOff + y*sStride
		down := sOff + ClampInt(y+1, 0, height-1)*sStride
		for x := 0; x < width; x++ {
			l := ClampInt(x-1, 0, width-1)
			r := ClampInt(x+1, 0, width-1)
			col := func(row int) int {
				return int(src[row+l]) + 2*int(src[row+x]) + int(src[row+r])
			}
			sum := col(up) + 2*col(mid) + col(down)
			dst[dOff+y*dStride+x] = Pel((sum + 8) >> 4)
		}
	}
}
