package system

import (
	"image"
	"sync"
)

// ImagePool recycles canvas buffers between frames to keep GC pressure
// down: every rendered frame needs a full-resolution RGBA canvas and a
// grayscale mask canvas, and renders routinely span hundreds of frames.
// Pools are keyed by rectangle, one per canvas geometry.
type ImagePool struct {
	rgba map[string]*sync.Pool
	gray map[string]*sync.Pool
	mu   sync.RWMutex
}

var globalPool = &ImagePool{
	rgba: make(map[string]*sync.Pool),
	gray: make(map[string]*sync.Pool),
}

// GetImage returns an *image.NRGBA for rect from the pool, or a fresh one.
// Contents are undefined; callers clear before use.
func GetImage(rect image.Rectangle) *image.NRGBA {
	return globalPool.GetImage(rect)
}

// PutImage returns a canvas to the pool for reuse.
func PutImage(img *image.NRGBA) {
	globalPool.PutImage(img)
}

// GetGray returns an *image.Gray for rect from the pool, or a fresh one.
// Contents are undefined; callers clear before use.
func GetGray(rect image.Rectangle) *image.Gray {
	return globalPool.GetGray(rect)
}

// PutGray returns a mask canvas to the pool for reuse.
func PutGray(img *image.Gray) {
	globalPool.PutGray(img)
}

func (p *ImagePool) GetImage(rect image.Rectangle) *image.NRGBA {
	return p.get(p.rgba, rect, func() interface{} {
		return image.NewNRGBA(rect)
	}).(*image.NRGBA)
}

func (p *ImagePool) PutImage(img *image.NRGBA) {
	if img == nil {
		return
	}
	p.put(p.rgba, img.Rect.String(), img)
}

func (p *ImagePool) GetGray(rect image.Rectangle) *image.Gray {
	return p.get(p.gray, rect, func() interface{} {
		return image.NewGray(rect)
	}).(*image.Gray)
}

func (p *ImagePool) PutGray(img *image.Gray) {
	if img == nil {
		return
	}
	p.put(p.gray, img.Rect.String(), img)
}

func (p *ImagePool) get(pools map[string]*sync.Pool, rect image.Rectangle, newFn func() interface{}) interface{} {
	key := rect.String()
	p.mu.RLock()
	pool, exists := pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = pools[key]
		if !exists {
			pool = &sync.Pool{New: newFn}
			pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get()
}

func (p *ImagePool) put(pools map[string]*sync.Pool, key string, img interface{}) {
	p.mu.RLock()
	pool, exists := pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
