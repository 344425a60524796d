// Package imaging normalizes uploaded item images and profile photos.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// ErrInvalidImage is returned for uploads that are not a usable JPEG or PNG.
var ErrInvalidImage = errors.New("invalid image")

// Image is an encoded, normalized image.
type Image struct {
	Data []byte
	MIME string
}

// Processor bounds and re-encodes uploads. The zero value uses the package
// defaults.
type Processor struct {
	MaxDimension int
	MaxBytes     int64
	Quality      int
}

// Defaults for a zero Processor.
const (
	DefaultMaxDimension = 1024
	DefaultMaxBytes     = 10 << 20
	DefaultQuality      = 85
)

var accepted = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Process sniffs the upload, downscales it to fit within MaxDimension and
// re-encodes it as JPEG. Transparent areas are flattened onto white.
func (p Processor) Process(r io.Reader) (*Image, error) {
	maxBytes := orDefault64(p.MaxBytes, DefaultMaxBytes)
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, maxBytes)
	}

	// Client-declared content types are not trusted.
	if detected := http.DetectContentType(data); !accepted[detected] {
		return nil, fmt.Errorf("%w: unsupported format %s, only JPEG and PNG are accepted", ErrInvalidImage, detected)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	dst := fit(src, orDefault(p.MaxDimension, DefaultMaxDimension))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: orDefault(p.Quality, DefaultQuality)}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}

	return &Image{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// fit draws src onto a white canvas no larger than maxDim on either side,
// preserving the aspect ratio. Smaller images are never upscaled.
func fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > maxDim || h > maxDim {
		if w >= h {
			h = max(1, h*maxDim/w)
			w = maxDim
		} else {
			w = max(1, w*maxDim/h)
			h = maxDim
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}
	return dst
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDefault64(v, def int64) int64 {
	if v <= 0 {
		return def
	}
	return v
}
