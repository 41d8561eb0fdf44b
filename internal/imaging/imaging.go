package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// MaxInputBytes is the default cap on raw upload size.
const MaxInputBytes = 5 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported image format (only JPEG and PNG accepted)")
	ErrTooLarge          = errors.New("image too large")
)

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Image is an upload after normalization.
type Image struct {
	Data   []byte
	MIME   string
	Ext    string
	Width  int
	Height int
}

// Process reads at most maxBytes of image data, checks the format by
// sniffing the bytes (client headers are ignored), downscales anything larger
// than MaxDimension and re-encodes it as JPEG.
func Process(r io.Reader, maxBytes int64) (*Image, error) {
	if maxBytes <= 0 {
		maxBytes = MaxInputBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}

	if detected := http.DetectContentType(data); !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Image{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Ext:    ".jpg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping
// the aspect ratio. Images already within bounds are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
