package picture

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/deepteams/viewsynth/internal/dsp"
)

// FromImage converts img to a picture of the given size, format and bit
// depth. Inputs of a different size are rescaled with a Catmull-Rom kernel;
// 8-bit samples are shifted up to the target bit depth. A 4:2:0 *image.YCbCr
// of the right size is copied without colour conversion.
func FromImage(img image.Image, width, height int, format ChromaFormat, bitDepth int) (*Picture, error) {
	p, err := New(width, height, format, bitDepth)
	if err != nil {
		return nil, err
	}
	shift := bitDepth - 8
	b := img.Bounds()

	if yc, ok := img.(*image.YCbCr); ok && format == Chroma420 &&
		yc.SubsampleRatio == image.YCbCrSubsampleRatio420 &&
		b.Dx() == width && b.Dy() == height {
		copyYCbCr(p, yc, shift)
		return p, nil
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	if b.Dx() == width && b.Dy() == height {
		xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)
	}

	y := p.Luma()
	for j := 0; j < height; j++ {
		row := rgba.Pix[j*rgba.Stride:]
		for i := 0; i < width; i++ {
			r, g, bb := int(row[4*i]), int(row[4*i+1]), int(row[4*i+2])
			y.Set(i, j, Pel(dsp.RGBToY(r, g, bb))<<shift)
		}
	}
	switch format {
	case Chroma444:
		for j := 0; j < height; j++ {
			row := rgba.Pix[j*rgba.Stride:]
			for i := 0; i < width; i++ {
				r, g, bb := int(row[4*i]), int(row[4*i+1]), int(row[4*i+2])
				p.Cb().Set(i, j, Pel(dsp.RGBToU(r, g, bb))<<shift)
				p.Cr().Set(i, j, Pel(dsp.RGBToV(r, g, bb))<<shift)
			}
		}
	case Chroma420:
		// Chroma of the averaged 2x2 RGB block.
		for j := 0; j < height/2; j++ {
			for i := 0; i < width/2; i++ {
				var r, g, bb int
				for k := 0; k < 4; k++ {
					off := (2*j+k/2)*rgba.Stride + 4*(2*i+k%2)
					r += int(rgba.Pix[off])
					g += int(rgba.Pix[off+1])
					bb += int(rgba.Pix[off+2])
				}
				r, g, bb = (r+2)>>2, (g+2)>>2, (bb+2)>>2
				p.Cb().Set(i, j, Pel(dsp.RGBToU(r, g, bb))<<shift)
				p.Cr().Set(i, j, Pel(dsp.RGBToV(r, g, bb))<<shift)
			}
		}
	}
	p.ExtendBorder()
	return p, nil
}

func copyYCbCr(p *Picture, yc *image.YCbCr, shift int) {
	b := yc.Rect
	for j := 0; j < p.Height(); j++ {
		for i := 0; i < p.Width(); i++ {
			p.Luma().Set(i, j, Pel(yc.Y[yc.YOffset(b.Min.X+i, b.Min.Y+j)])<<shift)
		}
	}
	for j := 0; j < p.Cb().Height; j++ {
		for i := 0; i < p.Cb().Width; i++ {
			off := yc.COffset(b.Min.X+2*i, b.Min.Y+2*j)
			p.Cb().Set(i, j, Pel(yc.Cb[off])<<shift)
			p.Cr().Set(i, j, Pel(yc.Cr[off])<<shift)
		}
	}
	p.ExtendBorder()
}

// DepthFromImage converts a depth map image to an 8-bit Chroma400 picture of
// the given size. The grey level of img is the depth sample; maps of a
// different size are rescaled bilinearly.
func DepthFromImage(img image.Image, width, height int) (*Picture, error) {
	p, err := New(width, height, Chroma400, dsp.DepthBits)
	if err != nil {
		return nil, err
	}
	gray := image.NewGray(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		xdraw.Draw(gray, gray.Bounds(), img, b.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, b, xdraw.Src, nil)
	}
	for j := 0; j < height; j++ {
		row := gray.Pix[j*gray.Stride : j*gray.Stride+width]
		dst := p.Luma().Row(j)
		for i, v := range row {
			dst[i] = Pel(v)
		}
	}
	p.ExtendBorder()
	return p, nil
}

// Image returns an 8-bit copy of the picture: *image.Gray for Chroma400,
// *image.YCbCr otherwise.
func (p *Picture) Image() image.Image {
	shift := p.BitDepth - 8
	w, h := p.Width(), p.Height()
	if p.Format == Chroma400 {
		g := image.NewGray(image.Rect(0, 0, w, h))
		for j := 0; j < h; j++ {
			for i, v := range p.Luma().Row(j) {
				g.SetGray(i, j, color.Gray{Y: uint8(v >> shift)})
			}
		}
		return g
	}
	ratio := image.YCbCrSubsampleRatio420
	if p.Format == Chroma444 {
		ratio = image.YCbCrSubsampleRatio444
	}
	yc := image.NewYCbCr(image.Rect(0, 0, w, h), ratio)
	for j := 0; j < h; j++ {
		for i, v := range p.Luma().Row(j) {
			yc.Y[j*yc.YStride+i] = uint8(v >> shift)
		}
	}
	for j := 0; j < p.Cb().Height; j++ {
		cb, cr := p.Cb().Row(j), p.Cr().Row(j)
		for i := range cb {
			yc.Cb[j*yc.CStride+i] = uint8(cb[i] >> shift)
			yc.Cr[j*yc.CStride+i] = uint8(cr[i] >> shift)
		}
	}
	return yc
}
