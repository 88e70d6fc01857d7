package anim

import (
	"fmt"
	"log"
	"strings"
)

// Assemble builds a complete animation description from a project, an
// optional background raster reference, and an ordered list of foreground
// raster references. Per-layer settings saved from a previous description
// are merged back by layer id, so keyframes survive re-assembly when the
// set of input images changes. Saved foreground layers that carry their
// own cached image data (extracted cutouts) are appended after the
// explicit inputs.
func Assemble(project Project, background string, images []string, saved []Layer) *Animation {
	project.normalize()

	savedByID := make(map[string]Layer, len(saved))
	for _, l := range saved {
		savedByID[l.ID] = l
	}

	var layers []Layer

	if background != "" {
		layers = append(layers, mergeLayer(savedByID, "background", "Background", KindBackground, background))
	} else if prev, ok := savedByID["background"]; ok && prev.ImageData != "" {
		// No fresh background input, but a cached raster exists: restore it.
		prev.Kind = KindBackground
		if prev.Name == "" {
			prev.Name = "Background"
		}
		layers = append(layers, prev)
	}

	used := make(map[string]bool, len(images))
	for i, ref := range images {
		id := fmt.Sprintf("layer_%d", i)
		used[id] = true
		layers = append(layers, mergeLayer(savedByID, id, fmt.Sprintf("Image %d", i+1), KindForeground, ref))
	}

	// Saved foregrounds not matching any input keep their cached rasters.
	extracted := 0
	for _, l := range saved {
		if l.Kind == KindForeground && l.ImageData != "" && !used[l.ID] {
			layers = append(layers, l)
			if strings.HasPrefix(l.ID, "extracted_") {
				extracted++
			}
		}
	}
	if extracted > 0 {
		log.Printf("[*] Restored %d extracted layer(s)", extracted)
	}

	return &Animation{Project: project, Layers: layers}
}

// mergeLayer takes the saved settings for id (if any) and binds them to a
// fresh raster reference. A cached raster in the saved layer wins over the
// new reference, matching the description round-trip behavior.
func mergeLayer(saved map[string]Layer, id, name, kind, ref string) Layer {
	layer, ok := saved[id]
	if !ok {
		layer = layerDefaults()
	}
	layer.ID = id
	layer.Kind = kind
	if layer.Name == "" {
		layer.Name = name
	}
	if layer.ImageData == "" {
		layer.ImageData = ref
	}
	layer.normalize()
	return layer
}
