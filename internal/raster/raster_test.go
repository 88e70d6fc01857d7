package raster

import (
	"image"
	"image/color"
	"testing"
)

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestResizeDimensions(t *testing.T) {
	src := solidNRGBA(10, 20, color.NRGBA{255, 0, 0, 255})

	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{5, 10, 5, 10},
		{20, 40, 20, 40},
		{0, -3, 1, 1}, // floored to one pixel
	}
	for _, tt := range tests {
		got := Resize(src, tt.w, tt.h)
		if got.Rect.Dx() != tt.wantW || got.Rect.Dy() != tt.wantH {
			t.Errorf("Resize(%d,%d) = %dx%d, want %dx%d",
				tt.w, tt.h, got.Rect.Dx(), got.Rect.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestResizePreservesSolidColor(t *testing.T) {
	src := solidNRGBA(8, 8, color.NRGBA{10, 200, 30, 255})
	dst := Resize(src, 16, 16)
	if got := dst.NRGBAAt(8, 8); got != (color.NRGBA{10, 200, 30, 255}) {
		t.Errorf("interior pixel = %v", got)
	}
}

func TestFlip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{1, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{2, 0, 0, 255})
	src.SetNRGBA(0, 1, color.NRGBA{3, 0, 0, 255})
	src.SetNRGBA(1, 1, color.NRGBA{4, 0, 0, 255})

	h := Flip(src, true, false)
	if h.NRGBAAt(0, 0).R != 2 || h.NRGBAAt(1, 0).R != 1 {
		t.Errorf("horizontal flip wrong: %v %v", h.NRGBAAt(0, 0), h.NRGBAAt(1, 0))
	}

	v := Flip(src, false, true)
	if v.NRGBAAt(0, 0).R != 3 || v.NRGBAAt(0, 1).R != 1 {
		t.Errorf("vertical flip wrong: %v %v", v.NRGBAAt(0, 0), v.NRGBAAt(0, 1))
	}

	both := Flip(src, true, true)
	if both.NRGBAAt(0, 0).R != 4 {
		t.Errorf("double flip wrong: %v", both.NRGBAAt(0, 0))
	}

	if Flip(src, false, false) != src {
		t.Error("no-op flip should return the source")
	}
}

func TestRotateSmallAngleIsNoop(t *testing.T) {
	src := solidNRGBA(10, 10, color.NRGBA{255, 255, 255, 255})
	if Rotate(src, 0.05) != src {
		t.Error("rotation within epsilon should return the source untouched")
	}
	if Rotate(src, -0.1) != src {
		t.Error("negative epsilon rotation should return the source untouched")
	}
}

func TestRotateFillsCornersTransparent(t *testing.T) {
	src := solidNRGBA(20, 20, color.NRGBA{255, 0, 0, 255})
	dst := Rotate(src, 45)

	if dst.Rect.Dx() != 20 || dst.Rect.Dy() != 20 {
		t.Fatalf("rotation changed dimensions: %v", dst.Rect)
	}
	// The corners of a 45-degree rotated square fall outside the source.
	if a := dst.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	// The center stays solid.
	if c := dst.NRGBAAt(10, 10); c.A != 255 || c.R != 255 {
		t.Errorf("center pixel = %v", c)
	}
}

func TestRotate90KeepsContentCentered(t *testing.T) {
	// A horizontal bar becomes a vertical bar under a quarter turn.
	src := image.NewNRGBA(image.Rect(0, 0, 21, 21))
	for x := 2; x < 19; x++ {
		src.SetNRGBA(x, 10, color.NRGBA{0, 255, 0, 255})
	}
	dst := Rotate(src, 90)
	if a := dst.NRGBAAt(10, 4).A; a == 0 {
		t.Error("expected vertical bar pixel at (10,4)")
	}
	if a := dst.NRGBAAt(4, 10).A; a != 0 {
		t.Error("horizontal bar should be gone at (4,10)")
	}
}

func TestMultiplyAlpha(t *testing.T) {
	img := solidNRGBA(2, 1, color.NRGBA{9, 9, 9, 200})
	mask := image.NewGray(image.Rect(0, 0, 2, 1))
	mask.Pix[0] = 255
	mask.Pix[1] = 0

	MultiplyAlpha(img, mask)
	if got := img.Pix[3]; got != 200 {
		t.Errorf("full mask: alpha = %d, want 200", got)
	}
	if got := img.Pix[7]; got != 0 {
		t.Errorf("zero mask: alpha = %d, want 0", got)
	}
}

func TestDilateGrowsSinglePixel(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 11, 11))
	mask.SetGray(5, 5, color.Gray{255})

	out := Dilate(mask, 2)

	// Two iterations with a 3x3 element give a 5x5 solid block.
	for y := 3; y <= 7; y++ {
		for x := 3; x <= 7; x++ {
			if out.GrayAt(x, y).Y == 0 {
				t.Fatalf("pixel (%d,%d) not dilated", x, y)
			}
		}
	}
	if out.GrayAt(2, 5).Y != 0 {
		t.Error("dilation leaked beyond two pixels")
	}
}

func TestErodeShrinksBlock(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			mask.SetGray(x, y, color.Gray{255})
		}
	}

	out := Erode(mask, 1)

	// One pixel gone from each side of the 10x10 block.
	if out.GrayAt(5, 10).Y != 0 || out.GrayAt(14, 10).Y != 0 {
		t.Error("block edges should be eroded")
	}
	if out.GrayAt(6, 10).Y != 255 || out.GrayAt(13, 10).Y != 255 {
		t.Error("block interior should survive one erosion")
	}
}

func TestGaussianBlurSpreadsMask(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 15, 15))
	mask.SetGray(7, 7, color.Gray{255})

	out := GaussianBlur(mask, 5)

	center := out.GrayAt(7, 7).Y
	neighbor := out.GrayAt(8, 7).Y
	if center == 0 || neighbor == 0 {
		t.Fatalf("blur did not spread: center=%d neighbor=%d", center, neighbor)
	}
	if neighbor >= center {
		t.Errorf("blur should fall off from the center: center=%d neighbor=%d", center, neighbor)
	}
	if out.GrayAt(0, 0).Y != 0 {
		t.Error("kernel-size 5 blur must not reach the far corner")
	}
}

func TestGaussianBlurSmallKernelIsNoop(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 4, 4))
	if GaussianBlur(mask, 1) != mask {
		t.Error("kernel below 3 should return the source")
	}
}

func TestToNRGBAIsACopy(t *testing.T) {
	src := solidNRGBA(3, 3, color.NRGBA{5, 5, 5, 255})
	dst := ToNRGBA(src)
	dst.SetNRGBA(0, 0, color.NRGBA{99, 0, 0, 255})
	if src.NRGBAAt(0, 0).R == 99 {
		t.Error("ToNRGBA must not alias the source buffer")
	}
}
