package raster

import (
	"image"
	"math"
)

// rotateEpsilon is the angle below which rotation is treated as a no-op:
// resampling at near-zero angles only blurs the raster.
const rotateEpsilon = 0.1

// Rotate rotates src around its own center by the given angle in degrees,
// positive counterclockwise. The output keeps src's dimensions; regions
// swept in from outside the source are fully transparent. Angles within
// rotateEpsilon of zero return src unchanged.
func Rotate(src *image.NRGBA, degrees float64) *image.NRGBA {
	if math.Abs(degrees) <= rotateEpsilon {
		return src
	}

	w, h := src.Rect.Dx(), src.Rect.Dy()
	cx, cy := float64(w/2), float64(h/2)
	rad := degrees * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			// Inverse mapping: where in the source does this output
			// pixel come from?
			sx := cos*dx - sin*dy + cx
			sy := sin*dx + cos*dy + cy
			r, g, b, a := sampleBilinear(src, sx, sy)
			i := dst.PixOffset(x, y)
			dst.Pix[i] = r
			dst.Pix[i+1] = g
			dst.Pix[i+2] = b
			dst.Pix[i+3] = a
		}
	}
	return dst
}

// sampleBilinear reads src at a fractional position, blending the four
// surrounding pixels. Out-of-bounds neighbors contribute transparent
// black, which gives rotated rasters their transparent border.
func sampleBilinear(src *image.NRGBA, x, y float64) (r, g, b, a uint8) {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	var acc [4]float64
	for dy := 0; dy <= 1; dy++ {
		wy := fy
		if dy == 0 {
			wy = 1 - fy
		}
		for dx := 0; dx <= 1; dx++ {
			wx := fx
			if dx == 0 {
				wx = 1 - fx
			}
			weight := wx * wy
			if weight == 0 {
				continue
			}
			px, py := x0+dx, y0+dy
			if px < 0 || py < 0 || px >= src.Rect.Dx() || py >= src.Rect.Dy() {
				continue
			}
			i := src.PixOffset(px, py)
			acc[0] += weight * float64(src.Pix[i])
			acc[1] += weight * float64(src.Pix[i+1])
			acc[2] += weight * float64(src.Pix[i+2])
			acc[3] += weight * float64(src.Pix[i+3])
		}
	}
	return clampByte(acc[0]), clampByte(acc[1]), clampByte(acc[2]), clampByte(acc[3])
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
