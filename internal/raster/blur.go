package raster

import (
	"image"
	"math"
)

// GaussianBlur softens a grayscale raster with a ksize x ksize Gaussian
// kernel, applied as two separable passes. Even kernel sizes are bumped
// to the next odd value; sizes below 3 are a no-op. Sigma derives from
// the kernel size (0.3*((ksize-1)*0.5 - 1) + 0.8), matching the common
// convention for feathering masks.
func GaussianBlur(mask *image.Gray, ksize int) *image.Gray {
	if ksize < 3 {
		return mask
	}
	if ksize%2 == 0 {
		ksize++
	}

	kernel := gaussianKernel(ksize)
	w, h := mask.Rect.Dx(), mask.Rect.Dy()
	half := ksize / 2

	// Horizontal pass.
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride:]
		for x := 0; x < w; x++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sum += kernel[k+half] * float64(row[reflect101(x+k, w)])
			}
			tmp[y*w+x] = sum
		}
	}

	// Vertical pass.
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -half; k <= half; k++ {
				sum += kernel[k+half] * tmp[reflect101(y+k, h)*w+x]
			}
			out.Pix[y*out.Stride+x] = clampByte(sum)
		}
	}
	return out
}

func gaussianKernel(ksize int) []float64 {
	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
	half := ksize / 2
	kernel := make([]float64, ksize)
	var total float64
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		total += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= total
	}
	return kernel
}

// reflect101 mirrors an index around the edges without repeating the
// border pixel (…cba|abcd|dcb…).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
