package compose

import (
	"image"
	"math"

	"github.com/ivolkov/animframe/internal/anim"
	"github.com/ivolkov/animframe/internal/raster"
)

// renderLayer is a layer whose rasters have been decoded. The raster and
// custom mask are read-only during compositing; per-frame transform steps
// operate on private copies.
type renderLayer struct {
	meta   *anim.Layer
	raster *image.NRGBA
	mask   *image.Gray // custom alpha mask, already at raster dimensions
}

// compositeLayer draws one layer onto the frame's color canvas and, for
// foregrounds, accumulates its coverage into the shared mask canvas.
// Layers composite strictly in list order: each blend reads the canvas
// produced by all earlier layers (painter's algorithm).
func compositeLayer(canvas *image.NRGBA, maskCanvas *image.Gray, rl *renderLayer, t float64) {
	width := canvas.Rect.Dx()
	height := canvas.Rect.Dy()
	tr := resolveTransform(rl.meta, t)
	foreground := rl.meta.Kind == anim.KindForeground

	img := rl.raster
	if foreground && rl.mask != nil {
		img = raster.Clone(img)
		raster.MultiplyAlpha(img, rl.mask)
	}

	ow, oh := img.Rect.Dx(), img.Rect.Dy()
	newW, newH := ow, oh
	if !foreground {
		switch rl.meta.BGMode {
		case anim.BGFill:
			s := math.Max(float64(width)/float64(ow), float64(height)/float64(oh))
			newW = int(float64(ow) * s * tr.ScaleX)
			newH = int(float64(oh) * s * tr.ScaleY)
		case anim.BGStretch:
			newW = int(float64(width) * tr.ScaleX)
			newH = int(float64(height) * tr.ScaleY)
		default: // fit
			s := math.Min(float64(width)/float64(ow), float64(height)/float64(oh))
			newW = int(float64(ow) * s * tr.ScaleX)
			newH = int(float64(oh) * s * tr.ScaleY)
		}
		if newW < 1 {
			newW = 1
		}
		if newH < 1 {
			newH = 1
		}
	} else if tr.ScaleX != 1.0 || tr.ScaleY != 1.0 {
		newW = int(float64(ow) * tr.ScaleX)
		newH = int(float64(oh) * tr.ScaleY)
		if newW < 1 {
			newW = 1
		}
		if newH < 1 {
			newH = 1
		}
	}

	if newW != ow || newH != oh {
		img = raster.Resize(img, newW, newH)
	}
	img = raster.Flip(img, tr.FlipH, tr.FlipV)
	img = raster.Rotate(img, tr.Rotation)

	curW, curH := img.Rect.Dx(), img.Rect.Dy()

	// Transformed raster centered at canvas-center plus offset.
	pasteX := int(math.Floor(float64(width/2) + tr.X - float64(curW/2)))
	pasteY := int(math.Floor(float64(height/2) + tr.Y - float64(curH/2)))

	x0, y0 := maxInt(0, pasteX), maxInt(0, pasteY)
	x1, y1 := minInt(pasteX+curW, width), minInt(pasteY+curH, height)
	if x1 <= x0 || y1 <= y0 {
		return // no overlap with the canvas
	}
	srcX0 := x0 - pasteX
	srcY0 := y0 - pasteY

	// Foreground coverage accumulates as a union: max of the existing
	// mask and this layer's alpha*opacity, never attenuating earlier
	// layers.
	if foreground {
		for y := y0; y < y1; y++ {
			srcRow := img.Pix[(srcY0+y-y0)*img.Stride:]
			dstRow := maskCanvas.Pix[y*maskCanvas.Stride:]
			for x := x0; x < x1; x++ {
				a := float64(srcRow[(srcX0+x-x0)*4+3]) * tr.Opacity
				if v := clampByte(a); v > dstRow[x] {
					dstRow[x] = v
				}
			}
		}
	}

	// Standard over-operator on the color channels; destination alpha
	// keeps the max coverage seen so far.
	for y := y0; y < y1; y++ {
		srcRow := img.Pix[(srcY0+y-y0)*img.Stride:]
		dstRow := canvas.Pix[y*canvas.Stride:]
		for x := x0; x < x1; x++ {
			si := (srcX0 + x - x0) * 4
			di := x * 4
			alpha := float64(srcRow[si+3]) / 255.0 * tr.Opacity
			if alpha <= 0 {
				continue
			}
			inv := 1 - alpha
			dstRow[di] = clampByte(float64(dstRow[di])*inv + float64(srcRow[si])*alpha)
			dstRow[di+1] = clampByte(float64(dstRow[di+1])*inv + float64(srcRow[si+1])*alpha)
			dstRow[di+2] = clampByte(float64(dstRow[di+2])*inv + float64(srcRow[si+2])*alpha)
			if a := clampByte(alpha * 255); a > dstRow[di+3] {
				dstRow[di+3] = a
			}
		}
	}
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

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
