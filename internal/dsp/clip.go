// Package dsp provides the low-level sample routines of the renderer:
// clamping, resampling filters, sub-pel interpolation and distortion
// metrics. All routines are stateless and operate on flat sample slices
// addressed by (offset, stride) pairs, so callers can pass the interior of
// a padded plane without re-slicing.
package dsp

// Pel is a single picture sample. Video uses up to 14 bits per sample,
// depth maps always 8.
type Pel = uint16

// DepthBits is the bit depth of depth samples; disparity tables are indexed
// by depth values in [0, 1<<DepthBits).
const DepthBits = 8

// MaxVal returns the largest sample value at the given bit depth.
func MaxVal(bitDepth int) int {
	return 1<<bitDepth - 1
}

// ClampInt clamps v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Abs returns |v|.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
