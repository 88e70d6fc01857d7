package compose

import (
	"context"
	"fmt"
	"image"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ivolkov/animframe/internal/anim"
	"github.com/ivolkov/animframe/internal/raster"
	"github.com/ivolkov/animframe/internal/system"
)

// placeholderSize is the edge length of the minimal all-zero frame emitted
// when a render cannot produce real output (malformed description, empty
// frame range). Downstream consumers always expect at least one frame.
const placeholderSize = 64

// Decoder resolves a layer's raster reference (base64 data URI, file
// path) into pixels. Decoding happens once per layer before the per-frame
// loop; the result is treated as read-only afterwards.
type Decoder interface {
	Image(ref string) (image.Image, error)
}

// Overlay stamps extra content onto a finished color canvas before it is
// converted to float output. Apply may be called concurrently for
// different frames.
type Overlay interface {
	Apply(canvas *image.NRGBA, frameIndex int, t float64)
}

// Result carries the rendered frames, in ascending frame-index order,
// plus the diagnostics of every fallback taken along the way.
type Result struct {
	Frames      []Frame
	Diagnostics []Diagnostic
}

// Degraded reports whether any fallback path fired during the render.
func (r *Result) Degraded() bool {
	return len(r.Diagnostics) > 0
}

// Renderer turns an animation description into frame/mask pairs. Frames
// are independent of each other and render in parallel up to Workers;
// within one frame, layers composite strictly sequentially.
type Renderer struct {
	Workers  int
	Decoder  Decoder
	Overlays []Overlay
}

// New builds a renderer with the given raster decoder and frame
// parallelism. workers < 1 means sequential.
func New(dec Decoder, workers int) *Renderer {
	if workers < 1 {
		workers = 1
	}
	return &Renderer{Workers: workers, Decoder: dec}
}

// RenderDescription parses a JSON animation description and renders it.
// A malformed description never fails the render: it degrades to a single
// placeholder frame with a parse diagnostic.
func (r *Renderer) RenderDescription(ctx context.Context, data []byte, startFrame, endFrame int) *Result {
	a, err := anim.Decode(data)
	if err != nil {
		log.Printf("[!] %v", err)
		return &Result{
			Frames:      []Frame{placeholderFrame()},
			Diagnostics: []Diagnostic{{Stage: StageParse, Message: err.Error()}},
		}
	}
	return r.Render(ctx, a, startFrame, endFrame)
}

// Render renders frames [startFrame, endFrame) of an already-parsed
// animation. endFrame < 0 means "through total_frames"; a range past the
// end is clamped. An empty range degrades to a single placeholder frame.
func (r *Renderer) Render(ctx context.Context, a *anim.Animation, startFrame, endFrame int) *Result {
	sink := &diagSink{}
	layers := r.decodeLayers(a, sink)

	total := a.Project.TotalFrames
	if endFrame < 0 || endFrame > total {
		endFrame = total
	}
	if startFrame < 0 {
		startFrame = 0
	}

	count := endFrame - startFrame
	if count <= 0 {
		sink.add(StageRange, "", fmt.Sprintf("frame range [%d,%d) is empty", startFrame, endFrame))
		return &Result{Frames: []Frame{placeholderFrame()}, Diagnostics: sink.records}
	}

	log.Printf("[*] render %dx%d, frames %d-%d/%d, %d layer(s)",
		a.Project.Width, a.Project.Height, startFrame, endFrame, total, len(layers))

	frames := make([]Frame, count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)
	for i := 0; i < count; i++ {
		slot := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frames[slot] = r.renderFrame(&a.Project, layers, startFrame+slot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		sink.add(StageRange, "", fmt.Sprintf("render aborted: %v", err))
	}

	return &Result{Frames: frames, Diagnostics: sink.records}
}

// decodeLayers resolves every layer raster once, up front. A layer whose
// raster fails to decode is dropped for the whole render; a foreground
// whose custom mask fails keeps rendering without the mask. Both paths
// log and record a diagnostic.
func (r *Renderer) decodeLayers(a *anim.Animation, sink *diagSink) []renderLayer {
	layers := make([]renderLayer, 0, len(a.Layers))
	for i := range a.Layers {
		l := &a.Layers[i]

		for prop, track := range l.Keyframes {
			if n := track.Discarded(); n > 0 {
				log.Printf("[!] layer %s: discarded %d invalid sample(s) in %q track", l.ID, n, prop)
				sink.add(StageKeyframes, l.ID, fmt.Sprintf("discarded %d invalid sample(s) in %q", n, prop))
			}
		}

		img, err := r.Decoder.Image(l.ImageData)
		if err != nil {
			log.Printf("[!] layer %s dropped: %v", l.ID, err)
			sink.add(StageDecode, l.ID, err.Error())
			continue
		}
		rl := renderLayer{meta: l, raster: raster.ToNRGBA(img)}

		if l.Kind == anim.KindForeground && l.CustomMask != "" {
			m, err := r.Decoder.Image(l.CustomMask)
			if err != nil {
				log.Printf("[!] layer %s: custom mask dropped: %v", l.ID, err)
				sink.add(StageDecode, l.ID, fmt.Sprintf("custom mask: %v", err))
			} else {
				mask := raster.ToGray(m)
				ow, oh := rl.raster.Rect.Dx(), rl.raster.Rect.Dy()
				if mask.Rect.Dx() != ow || mask.Rect.Dy() != oh {
					mask = raster.ResizeGray(mask, ow, oh)
				}
				rl.mask = mask
			}
		}

		layers = append(layers, rl)
	}
	return layers
}

// renderFrame composites every surviving layer for one frame index, runs
// the mask post-processing, and converts both canvases to normalized
// float planes. Each invocation owns its canvases; nothing is shared
// between frames.
func (r *Renderer) renderFrame(p *anim.Project, layers []renderLayer, frameIndex int) Frame {
	fps := p.FPS
	if fps < 1 {
		fps = 1
	}
	t := float64(frameIndex) / float64(fps)

	rect := image.Rect(0, 0, p.Width, p.Height)
	canvas := system.GetImage(rect)
	defer system.PutImage(canvas)
	clearBytes(canvas.Pix)

	mask := system.GetGray(rect)
	defer system.PutGray(mask)
	clearBytes(mask.Pix)

	for i := range layers {
		compositeLayer(canvas, mask, &layers[i], t)
	}

	if p.MaskExpansion > 0 {
		mask = raster.Dilate(mask, p.MaskExpansion)
	} else if p.MaskExpansion < 0 {
		mask = raster.Erode(mask, -p.MaskExpansion)
	}
	if p.MaskFeather > 0 {
		ksize := p.MaskFeather*2 + 1
		if ksize < 3 {
			ksize = 3
		}
		mask = raster.GaussianBlur(mask, ksize)
	}

	for _, ov := range r.Overlays {
		ov.Apply(canvas, frameIndex, t)
	}

	return toFrame(canvas, mask, p.Width, p.Height)
}

func toFrame(canvas *image.NRGBA, mask *image.Gray, w, h int) Frame {
	f := Frame{
		Width:  w,
		Height: h,
		RGB:    make([]float32, w*h*3),
		Mask:   make([]float32, w*h),
	}
	for y := 0; y < h; y++ {
		crow := canvas.Pix[y*canvas.Stride:]
		mrow := mask.Pix[y*mask.Stride:]
		for x := 0; x < w; x++ {
			o := (y*w + x) * 3
			f.RGB[o] = float32(crow[x*4]) / 255
			f.RGB[o+1] = float32(crow[x*4+1]) / 255
			f.RGB[o+2] = float32(crow[x*4+2]) / 255
			f.Mask[y*w+x] = float32(mrow[x]) / 255
		}
	}
	return f
}

func placeholderFrame() Frame {
	return Frame{
		Width:  placeholderSize,
		Height: placeholderSize,
		RGB:    make([]float32, placeholderSize*placeholderSize*3),
		Mask:   make([]float32, placeholderSize*placeholderSize),
	}
}

func clearBytes(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
