package dsp

import "math"

// SSE computes the sum of squared errors between two sample blocks.
func SSE(pix []Pel, pOff, pStride int, ref []Pel, rOff, rStride int, width, height int) uint64 {
	var sse uint64
	for y := 0; y < height; y++ {
		p := pix[pOff+y*pStride : pOff+y*pStride+width]
		r := ref[rOff+y*rStride : rOff+y*rStride+width]
		for x, v := range p {
			d := int(v) - int(r[x])
			sse += uint64(d * d)
		}
	}
	return sse
}

// SqErr returns the squared difference of two samples scaled back to 8-bit
// range: shift is 2*(bitDepth-8).
func SqErr(a, b Pel, shift int) int {
	d := int(a) - int(b)
	return (d * d) >> shift
}

// PSNRFromSSE computes the PSNR from the sum of squared errors over count
// samples at the given bit depth.
func PSNRFromSSE(sse uint64, count, bitDepth int) float64 {
	if sse == 0 || count == 0 {
		return 99.0 // perfect
	}
	peak := float64(MaxVal(bitDepth))
	mse := float64(sse) / float64(count)
	return 10.0 * math.Log10(peak*peak/mse)
}
