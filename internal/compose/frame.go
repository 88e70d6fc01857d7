package compose

import "image"

// Frame is one rendered output: normalized float RGB (height*width*3,
// row-major) and a parallel single-channel coverage mask (height*width).
type Frame struct {
	Width  int
	Height int
	RGB    []float32
	Mask   []float32
}

// RGBImage converts the frame's color plane back to an 8-bit RGBA image,
// fully opaque. Handy for PNG export.
func (f Frame) RGBImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < f.Width*f.Height; i++ {
		img.Pix[i*4] = floatByte(f.RGB[i*3])
		img.Pix[i*4+1] = floatByte(f.RGB[i*3+1])
		img.Pix[i*4+2] = floatByte(f.RGB[i*3+2])
		img.Pix[i*4+3] = 255
	}
	return img
}

// MaskImage converts the frame's mask plane back to an 8-bit grayscale
// image.
func (f Frame) MaskImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	for i, v := range f.Mask {
		img.Pix[i] = floatByte(v)
	}
	return img
}

// RGBBytes packs the color plane as interleaved 8-bit RGB, the layout
// ffmpeg expects for rawvideo rgb24 input.
func (f Frame) RGBBytes() []byte {
	out := make([]byte, len(f.RGB))
	for i, v := range f.RGB {
		out[i] = floatByte(v)
	}
	return out
}

func floatByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
