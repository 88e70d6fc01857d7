// Package source resolves layer raster references into pixels. A
// reference is either a base64 data URI (the form UI descriptions embed),
// a plain image file path, or a PDF whose first page is rasterized.
package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

const defaultDPI = 150

// Decoder loads layer rasters. The zero value is usable; DPI only
// matters for PDF references.
type Decoder struct {
	// DPI is the rasterization density for PDF pages. Zero means 150.
	DPI int
}

// Image decodes a raster reference. Decoding happens once per layer per
// render, never per frame.
func (d *Decoder) Image(ref string) (image.Image, error) {
	switch {
	case ref == "":
		return nil, fmt.Errorf("empty raster reference")
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case strings.EqualFold(filepath.Ext(ref), ".pdf"):
		return d.renderPDF(ref)
	default:
		return decodeFile(ref)
	}
}

func decodeDataURI(ref string) (image.Image, error) {
	_, payload, found := strings.Cut(ref, ",")
	if !found {
		return nil, fmt.Errorf("malformed data URI")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data URI base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("data URI image: %w", err)
	}
	return img, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func (d *Decoder) renderPDF(path string) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	dpi := d.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}
	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("rasterize %s: %w", path, err)
	}
	return img, nil
}
