package raster

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ToNRGBA converts any image to an *image.NRGBA anchored at the origin.
// The result is always a fresh buffer, so callers may mutate it without
// touching the source.
func ToNRGBA(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// ToGray converts any image to an *image.Gray anchored at the origin.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

// Clone returns a deep copy of src. Per-frame transform steps operate on
// clones so that concurrently rendered frames never alias one mutable
// raster.
func Clone(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// Resize scales src to w x h with bilinear interpolation. Target
// dimensions are floored to at least one pixel.
func Resize(src *image.NRGBA, w, h int) *image.NRGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// ResizeGray scales a grayscale raster to w x h with bilinear
// interpolation.
func ResizeGray(src *image.Gray, w, h int) *image.Gray {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Flip mirrors src horizontally, vertically, or both. With neither flag
// set it returns src unchanged.
func Flip(src *image.NRGBA, horizontal, vertical bool) *image.NRGBA {
	if !horizontal && !vertical {
		return src
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		sy := y
		if vertical {
			sy = h - 1 - y
		}
		for x := 0; x < w; x++ {
			sx := x
			if horizontal {
				sx = w - 1 - x
			}
			di := dst.PixOffset(x, y)
			si := src.PixOffset(sx, sy)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}

// MultiplyAlpha scales the alpha channel of img by mask/255 elementwise,
// in place. The mask must match img's dimensions; use ResizeGray first
// when it does not.
func MultiplyAlpha(img *image.NRGBA, mask *image.Gray) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		mrow := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x := 0; x < w; x++ {
			a := uint32(row[x*4+3]) * uint32(mrow[x])
			row[x*4+3] = uint8(a / 255)
		}
	}
}
