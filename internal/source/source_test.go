package source

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngDataURI(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestImageFromDataURI(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})

	var d Decoder
	got, err := d.Image(pngDataURI(t, src))
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got.Bounds().Dx() != 3 || got.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", got.Bounds())
	}
	r, _, _, _ := got.At(1, 1).RGBA()
	if r>>8 != 255 {
		t.Errorf("pixel (1,1) red = %d, want 255", r>>8)
	}
}

func TestImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	var d Decoder
	got, err := d.Image(path)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got.Bounds().Dx() != 4 {
		t.Errorf("bounds = %v", got.Bounds())
	}
}

func TestImageErrors(t *testing.T) {
	var d Decoder
	tests := []struct {
		name string
		ref  string
	}{
		{"empty reference", ""},
		{"missing comma", "data:image/png;base64"},
		{"bad base64", "data:image/png;base64,@@@@"},
		{"not an image", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("nope"))},
		{"missing file", filepath.Join(t.TempDir(), "missing.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := d.Image(tt.ref); err == nil {
				t.Error("expected error")
			}
		})
	}
}
