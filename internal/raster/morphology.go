package raster

import "image"

// Dilate grows the bright regions of mask by running a 3x3 maximum filter
// for the given number of iterations.
func Dilate(mask *image.Gray, iterations int) *image.Gray {
	return morph(mask, iterations, func(a, b uint8) bool { return b > a })
}

// Erode shrinks the bright regions of mask by running a 3x3 minimum
// filter for the given number of iterations.
func Erode(mask *image.Gray, iterations int) *image.Gray {
	return morph(mask, iterations, func(a, b uint8) bool { return b < a })
}

// morph applies a 3x3 structuring element repeatedly. Neighborhoods are
// clamped at the image border, so border pixels see a smaller window
// rather than implicit padding.
func morph(mask *image.Gray, iterations int, better func(cur, candidate uint8) bool) *image.Gray {
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	cur := image.NewGray(image.Rect(0, 0, w, h))
	copy(cur.Pix, mask.Pix)

	for iter := 0; iter < iterations; iter++ {
		next := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			y0, y1 := y-1, y+1
			if y0 < 0 {
				y0 = 0
			}
			if y1 >= h {
				y1 = h - 1
			}
			for x := 0; x < w; x++ {
				x0, x1 := x-1, x+1
				if x0 < 0 {
					x0 = 0
				}
				if x1 >= w {
					x1 = w - 1
				}
				best := cur.Pix[y0*cur.Stride+x0]
				for ny := y0; ny <= y1; ny++ {
					row := cur.Pix[ny*cur.Stride:]
					for nx := x0; nx <= x1; nx++ {
						if better(best, row[nx]) {
							best = row[nx]
						}
					}
				}
				next.Pix[y*next.Stride+x] = best
			}
		}
		cur = next
	}
	return cur
}
