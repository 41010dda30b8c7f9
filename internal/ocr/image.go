package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxImageSide = 800
	DefaultJPEGQuality  = 85
	// DefaultMaxImagePixels is width*height above which an image is refused before decoding.
	DefaultMaxImagePixels = 89_478_485
)

var (
	ErrDecodeImage   = errors.New("ocr: decode image")
	ErrImageTooLarge = errors.New("ocr: image too large")
)

// PrepareImage decodes an image, shrinks it so neither side exceeds maxSide and re-encodes it
// as JPEG. Transparent areas are flattened onto white. Images already within bounds keep
// their size. The header is checked first: more than maxPixels pixels is ErrImageTooLarge.
func PrepareImage(data []byte, maxSide, quality, maxPixels int) ([]byte, error) {
	if maxSide <= 0 {
		maxSide = DefaultMaxImageSide
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxImagePixels
	}

	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeImage, err)
	}
	if px := int64(hdr.Width) * int64(hdr.Height); px > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d is over %d pixels", ErrImageTooLarge, hdr.Width, hdr.Height, maxPixels)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeImage, err)
	}

	b := src.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), maxSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode %s as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}

// scaledSize keeps the aspect ratio; neither side drops below one pixel.
func scaledSize(w, h, maxSide int) (int, int) {
	if w <= maxSide && h <= maxSide {
		return w, h
	}
	ratio := float64(maxSide) / float64(max(w, h))
	nw := max(1, int(float64(w)*ratio))
	nh := max(1, int(float64(h)*ratio))
	return nw, nh
}
