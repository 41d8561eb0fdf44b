package catalog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/futureed/archive/internal/blob"
	"github.com/futureed/archive/internal/db"
	"github.com/futureed/archive/internal/model"
)

const testSecret = "test-secret"

// newService returns a Service over a fresh database and upload directory.
func newService(t *testing.T, opts ...Option) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	blobs, err := blob.NewDisk(dir)
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	return New(db.NewTestDB(t), testSecret, blobs, opts...), dir
}

func register(t *testing.T, s *Service, name string) *model.User {
	t.Helper()
	u, err := s.Register(context.Background(), name, name+"@example.com", "password123")
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return u
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func createItem(t *testing.T, s *Service, owner *model.User, title string, stock int) *model.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), owner.ID, NewItem{
		Title:   title,
		Content: "about " + title,
		Stock:   stock,
		Image:   bytes.NewReader(pngBytes(t, 8, 8)),
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	return item
}

// countFiles returns the number of regular files in dir.
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	n := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			n++
		}
	}
	return n
}

func assertKind(t *testing.T, err error, want Kind, code string) {
	t.Helper()
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if ce.Kind != want {
		t.Errorf("expected kind %s, got %s (%v)", want, ce.Kind, err)
	}
	if code != "" && ce.Code != code {
		t.Errorf("expected code %s, got %s", code, ce.Code)
	}
}
