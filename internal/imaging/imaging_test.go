package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestJPEG(100, 100)), 0)
	if err != nil {
		t.Fatalf("Process JPEG: %v", err)
	}
	if result.MIME != "image/jpeg" || result.Ext != ".jpg" {
		t.Errorf("expected image/jpeg .jpg, got %s %s", result.MIME, result.Ext)
	}
	if len(result.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestProcessPNGBecomesJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestPNG(100, 60)), 0)
	if err != nil {
		t.Fatalf("Process PNG: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", result.MIME)
	}
	if result.Width != 100 || result.Height != 60 {
		t.Errorf("expected 100x60, got %dx%d", result.Width, result.Height)
	}
}

func TestProcessDownscale(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestPNG(2048, 1024)), 0)
	if err != nil {
		t.Fatalf("Process large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != MaxDimension || b.Dy() != MaxDimension/2 {
		t.Errorf("expected %dx%d, got %dx%d", MaxDimension, MaxDimension/2, b.Dx(), b.Dy())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	result, err := Process(bytes.NewReader(createTestJPEG(50, 50)), 0)
	if err != nil {
		t.Fatalf("Process small image: %v", err)
	}
	if result.Width != 50 || result.Height != 50 {
		t.Errorf("small image should not be resized: got %dx%d", result.Width, result.Height)
	}
}

func TestProcessRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("not an image")},
		{"gif", []byte("GIF89a...")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Process(bytes.NewReader(tt.data), 0)
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
		})
	}
}

func TestProcessTooLarge(t *testing.T) {
	data := createTestPNG(10, 10)
	_, err := Process(bytes.NewReader(data), int64(len(data)-1))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}
