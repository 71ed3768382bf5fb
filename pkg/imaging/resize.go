// Package imaging downscales oversized photos and logos before upload.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for anything other than JPEG or PNG.
var ErrUnsupportedFormat = errors.New("imaging: unsupported format")

type Options struct {
	MaxDimension int // longest edge in pixels; <= 0 disables resizing
	Quality      int // JPEG quality 1-100
}

// Result is the image to upload. Resized is false when Data is the input.
type Result struct {
	Data      []byte
	Extension string // ".jpg" or ".png", matching Data
	Resized   bool
}

// Fit scales the image down so its longest edge is at most opts.MaxDimension,
// keeping the aspect ratio and the original encoding. Images already within
// bounds are returned unchanged.
func Fit(data []byte, opts Options) (Result, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("imaging: decode config: %w", err)
	}
	ext, err := extensionFor(format)
	if err != nil {
		return Result{}, err
	}

	unchanged := Result{Data: data, Extension: ext}
	if opts.MaxDimension <= 0 || (cfg.Width <= opts.MaxDimension && cfg.Height <= opts.MaxDimension) {
		return unchanged, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("imaging: decode: %w", err)
	}

	w, h := scaledSize(cfg.Width, cfg.Height, opts.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: q})
	case "png":
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return Result{}, fmt.Errorf("imaging: encode: %w", err)
	}

	return Result{Data: buf.Bytes(), Extension: ext, Resized: true}, nil
}

func extensionFor(format string) (string, error) {
	switch format {
	case "jpeg":
		return ".jpg", nil
	case "png":
		return ".png", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func scaledSize(w, h, limit int) (int, int) {
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
