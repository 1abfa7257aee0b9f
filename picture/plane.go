// Package picture provides the padded, strided sample buffers exchanged with
// the renderer: a Plane is one channel with a replicated border margin, a
// Picture groups the luma and chroma planes of one frame.
package picture

import "github.com/deepteams/viewsynth/internal/dsp"

// Pel is a single sample.
type Pel = dsp.Pel

// DefaultPad is the border margin of pictures allocated by this package.
const DefaultPad = 8

// Plane is a 2D sample array surrounded by Pad samples of margin on every
// side. Sample (x, y) is stored at Pix[(y+Pad)*Stride + x + Pad]; x and y may
// range over [-Pad, Width+Pad) and [-Pad, Height+Pad).
type Plane struct {
	Pix    []Pel
	Width  int
	Height int
	Stride int
	Pad    int
}

// NewPlane allocates a zeroed plane.
func NewPlane(width, height, pad int) *Plane {
	stride := width + 2*pad
	return &Plane{
		Pix:    make([]Pel, stride*(height+2*pad)),
		Width:  width,
		Height: height,
		Stride: stride,
		Pad:    pad,
	}
}

// Offset returns the index of sample (x, y) in Pix.
func (p *Plane) Offset(x, y int) int {
	return (y+p.Pad)*p.Stride + x + p.Pad
}

// At returns sample (x, y).
func (p *Plane) At(x, y int) Pel {
	return p.Pix[p.Offset(x, y)]
}

// Set stores sample (x, y).
func (p *Plane) Set(x, y int, v Pel) {
	p.Pix[p.Offset(x, y)] = v
}

// Row returns the Width samples of line y.
func (p *Plane) Row(y int) []Pel {
	off := p.Offset(0, y)
	return p.Pix[off : off+p.Width]
}

// Fill sets every sample of the plane, margin included, to v.
func (p *Plane) Fill(v Pel) {
	for i := range p.Pix {
		p.Pix[i] = v
	}
}

// SameSize reports whether q has the same width and height as p.
func (p *Plane) SameSize(q *Plane) bool {
	return q != nil && p.Width == q.Width && p.Height == q.Height
}

// CopyFrom copies the interior samples of src, which must have the same
// size. Margins are left untouched.
func (p *Plane) CopyFrom(src *Plane) {
	for y := 0; y < p.Height; y++ {
		copy(p.Row(y), src.Row(y))
	}
}

// Clone returns a deep copy of the plane.
func (p *Plane) Clone() *Plane {
	c := *p
	c.Pix = append([]Pel(nil), p.Pix...)
	return &c
}

// Equal reports whether the interior samples of p and q match.
func (p *Plane) Equal(q *Plane) bool {
	if !p.SameSize(q) {
		return false
	}
	for y := 0; y < p.Height; y++ {
		a, b := p.Row(y), q.Row(y)
		for x := range a {
			if a[x] != b[x] {
				return false
			}
		}
	}
	return true
}

// ExtendBorder replicates the edge samples into the margin.
func (p *Plane) ExtendBorder() {
	if p.Pad == 0 || p.Width == 0 || p.Height == 0 {
		return
	}
	for y := 0; y < p.Height; y++ {
		row := p.Pix[(y+p.Pad)*p.Stride : (y+p.Pad+1)*p.Stride]
		left, right := row[p.Pad], row[p.Pad+p.Width-1]
		for i := 0; i < p.Pad; i++ {
			row[i] = left
			row[p.Pad+p.Width+i] = right
		}
	}
	top := p.Pix[p.Pad*p.Stride : (p.Pad+1)*p.Stride]
	bottom := p.Pix[(p.Pad+p.Height-1)*p.Stride : (p.Pad+p.Height)*p.Stride]
	for i := 0; i < p.Pad; i++ {
		copy(p.Pix[i*p.Stride:(i+1)*p.Stride], top)
		copy(p.Pix[(p.Pad+p.Height+i)*p.Stride:(p.Pad+p.Height+i+1)*p.Stride], bottom)
	}
}
