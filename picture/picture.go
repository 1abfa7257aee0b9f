package picture

import (
	"errors"
	"fmt"
)

// ChromaFormat describes the chroma sampling of a Picture.
type ChromaFormat int

const (
	Chroma400 ChromaFormat = iota // luma only (depth maps)
	Chroma420                     // chroma halved in both directions
	Chroma444                     // chroma at luma resolution
)

func (f ChromaFormat) String() string {
	switch f {
	case Chroma400:
		return "4:0:0"
	case Chroma420:
		return "4:2:0"
	case Chroma444:
		return "4:4:4"
	}
	return fmt.Sprintf("ChromaFormat(%d)", int(f))
}

// ErrInvalidSize is returned for pictures with unusable dimensions.
var ErrInvalidSize = errors.New("picture: invalid dimensions")

// Picture is one frame: a luma plane and, unless the format is Chroma400,
// two chroma planes.
type Picture struct {
	Planes   [3]*Plane // Y, Cb, Cr
	Format   ChromaFormat
	BitDepth int
}

// New allocates a zeroed picture with the default margin. 4:2:0 pictures
// need even dimensions.
func New(width, height int, format ChromaFormat, bitDepth int) (*Picture, error) {
	return NewWithPad(width, height, format, bitDepth, DefaultPad)
}

// NewWithPad allocates a zeroed picture whose planes carry pad samples of
// margin.
func NewWithPad(width, height int, format ChromaFormat, bitDepth, pad int) (*Picture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if format == Chroma420 && (width%2 != 0 || height%2 != 0) {
		return nil, fmt.Errorf("%w: 4:2:0 needs even dimensions, got %dx%d", ErrInvalidSize, width, height)
	}
	if bitDepth < 8 || bitDepth > 14 {
		return nil, fmt.Errorf("picture: unsupported bit depth %d", bitDepth)
	}
	p := &Picture{Format: format, BitDepth: bitDepth}
	p.Planes[0] = NewPlane(width, height, pad)
	cw, ch := ChromaSize(width, height, format)
	if format != Chroma400 {
		cpad := pad
		if format == Chroma420 {
			cpad = pad / 2
		}
		p.Planes[1] = NewPlane(cw, ch, cpad)
		p.Planes[2] = NewPlane(cw, ch, cpad)
	}
	return p, nil
}

// ChromaSize returns the chroma plane dimensions for a luma size.
func ChromaSize(width, height int, format ChromaFormat) (int, int) {
	switch format {
	case Chroma420:
		return width / 2, height / 2
	case Chroma444:
		return width, height
	}
	return 0, 0
}

// Width returns the luma width.
func (p *Picture) Width() int { return p.Planes[0].Width }

// Height returns the luma height.
func (p *Picture) Height() int { return p.Planes[0].Height }

// NumPlanes returns 1 for Chroma400 pictures and 3 otherwise.
func (p *Picture) NumPlanes() int {
	if p.Format == Chroma400 {
		return 1
	}
	return 3
}

// Luma returns the Y plane.
func (p *Picture) Luma() *Plane { return p.Planes[0] }

// Cb returns the Cb plane, nil for Chroma400.
func (p *Picture) Cb() *Plane { return p.Planes[1] }

// Cr returns the Cr plane, nil for Chroma400.
func (p *Picture) Cr() *Plane { return p.Planes[2] }

// ExtendBorder replicates the edge samples of every plane into its margin.
func (p *Picture) ExtendBorder() {
	for i := 0; i < p.NumPlanes(); i++ {
		p.Planes[i].ExtendBorder()
	}
}

// Fill sets every sample of plane i to v[i].
func (p *Picture) Fill(v ...Pel) {
	for i := 0; i < p.NumPlanes() && i < len(v); i++ {
		p.Planes[i].Fill(v[i])
	}
}

// Clone returns a deep copy of the picture.
func (p *Picture) Clone() *Picture {
	c := &Picture{Format: p.Format, BitDepth: p.BitDepth}
	for i := 0; i < p.NumPlanes(); i++ {
		c.Planes[i] = p.Planes[i].Clone()
	}
	return c
}

// Equal reports whether both pictures have the same format and interior
// samples.
func (p *Picture) Equal(q *Picture) bool {
	if q == nil || p.Format != q.Format || p.BitDepth != q.BitDepth {
		return false
	}
	for i := 0; i < p.NumPlanes(); i++ {
		if !p.Planes[i].Equal(q.Planes[i]) {
			return false
		}
	}
	return true
}
