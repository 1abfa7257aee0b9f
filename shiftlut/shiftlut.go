// Package shiftlut builds the lookup tables used by the view renderer: the
// depth-to-shift tables that map an 8-bit depth sample to a horizontal
// shift in 1/2^prec pixel units, and the sub-pel shift tables that choose
// the source phase for every output sample falling inside a warped
// interval.
//
// Real camera rigs derive depth-to-shift tables from their camera
// parameters; Linear covers the common case of a disparity that is an affine
// function of the depth sample.
package shiftlut

import (
	"errors"
	"fmt"
	"math"
)

// Size is the number of entries in a depth-to-shift table: one per 8-bit
// depth value plus a guard entry.
const Size = 257

// Invalid marks sub-pel table entries whose offset lies outside the gap.
const Invalid = math.MinInt32

// ErrShortTable is returned by Validate for tables with fewer than 256
// entries.
var ErrShortTable = errors.New("shiftlut: table has fewer than 256 entries")

// Table is a sub-pel shift table indexed by [gap][offset]. gap and offset
// are in 1/2^prec pixel units and range over [0, 2<<prec].
type Table [][]int

// NewSubPelShift builds the sub-pel shift tables for the given precision.
//
// For an output sample lying offset sub-pels into an interval of width gap,
// left[gap][offset] is the source phase (relative to the interval's origin
// sample) that best represents it, round(offset*2^prec/gap). right holds the
// same phases negated, because right views are warped in the opposite
// direction. Entries with offset >= gap are Invalid.
func NewSubPelShift(prec int) (left, right Table) {
	n := 1 << prec
	maxGap := 2 * n
	left = make(Table, maxGap+1)
	right = make(Table, maxGap+1)
	for gap := 0; gap <= maxGap; gap++ {
		left[gap] = make([]int, maxGap+1)
		right[gap] = make([]int, maxGap+1)
		for off := 0; off <= maxGap; off++ {
			if off >= gap {
				left[gap][off] = Invalid
				right[gap][off] = Invalid
				continue
			}
			s := (off*n + gap/2) / gap
			left[gap][off] = s
			right[gap][off] = -s
		}
	}
	return left, right
}

// MaxGap returns the largest gap covered by the table.
func (t Table) MaxGap() int {
	return len(t) - 1
}

// Linear returns a depth-to-shift table for a disparity (in pixels) of
// scale*d + offset, stored in 1/2^prec pixel units and rounded to nearest.
func Linear(scale, offset float64, prec int) []int {
	lut := make([]int, Size)
	f := float64(int(1) << prec)
	for d := range lut {
		lut[d] = int(math.Round((scale*float64(d) + offset) * f))
	}
	return lut
}

// InvZ derives an inverse-depth table from a full-pel base shift table. Base
// tables describe the shift across the whole left-right baseline, so their
// magnitudes are proportional to inverse depth on the same scale for both
// views and can be compared directly when blending.
func InvZ(base []int) []int {
	inv := make([]int, len(base))
	for d, s := range base {
		if s < 0 {
			s = -s
		}
		inv[d] = s
	}
	return inv
}

// Validate reports whether lut can be indexed by every 8-bit depth value.
func Validate(lut []int) error {
	if len(lut) < 256 {
		return fmt.Errorf("%w: got %d", ErrShortTable, len(lut))
	}
	return nil
}
