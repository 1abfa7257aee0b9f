package dsp

// BT.601 RGB -> YUV conversion using 16-bit fixed-point arithmetic, studio
// swing. Used when importing RGB pictures as base views.

const (
	yuvFix  = 16
	yuvHalf = 1 << (yuvFix - 1)
)

// RGB -> YUV conversion coefficients.
const (
	kRGBToY0 = 16839 // 0.2568 * (1 << 16)
	kRGBToY1 = 33059 // 0.5041 * (1 << 16)
	kRGBToY2 = 6420  // 0.0979 * (1 << 16)
	kRGBToU0 = -9719
	kRGBToU1 = -19081
	kRGBToU2 = 28800
	kRGBToV0 = 28800
	kRGBToV1 = -24116
	kRGBToV2 = -4684
)

// RGBToY converts an 8-bit RGB triple to the Y component.
func RGBToY(r, g, b int) uint8 {
	return uint8((kRGBToY0*r + kRGBToY1*g + kRGBToY2*b + yuvHalf + (16 << yuvFix)) >> yuvFix)
}

// RGBToU converts an 8-bit RGB triple to the U (Cb) component.
func RGBToU(r, g, b int) uint8 {
	return clipUV(kRGBToU0*r + kRGBToU1*g + kRGBToU2*b)
}

// RGBToV converts an 8-bit RGB triple to the V (Cr) component.
func RGBToV(r, g, b int) uint8 {
	return clipUV(kRGBToV0*r + kRGBToV1*g + kRGBToV2*b)
}

func clipUV(uv int) uint8 {
	uv = (uv + yuvHalf + (128 << yuvFix)) >> yuvFix
	if uv&^0xff == 0 {
		return uint8(uv)
	}
	if uv < 0 {
		return 0
	}
	return 255
}
