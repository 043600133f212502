package filestorage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for data that is not a decodable image.
var ErrUnsupportedImage = errors.New("unsupported image format")

// ProcessedImage is an image ready to store.
type ProcessedImage struct {
	Data        []byte
	Ext         string
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

// DownscaleIfNeeded keeps the aspect ratio and never upscales.
func DownscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := max(int(math.Round(float64(w)*scale)), 1)
	nh := max(int(math.Round(float64(h)*scale)), 1)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// ProcessImage decodes data, downscales it to fit maxW x maxH and encodes
// it again. Images already within bounds are returned unchanged. PNG and
// GIF sources are stored as PNG, everything else as JPEG.
func ProcessImage(data []byte, maxW, maxH int) (*ProcessedImage, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	out := &ProcessedImage{Width: src.Bounds().Dx(), Height: src.Bounds().Dy()}
	switch format {
	case "png", "gif":
		out.Ext, out.ContentType = ".png", "image/png"
	default:
		out.Ext, out.ContentType = ".jpg", "image/jpeg"
	}

	scaled := DownscaleIfNeeded(src, maxW, maxH)
	if scaled == src && (format == "png" || format == "jpeg") {
		out.Data = data
		return out, nil
	}

	var buf bytes.Buffer
	if out.ContentType == "image/png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	out.Data = buf.Bytes()
	out.Width, out.Height = scaled.Bounds().Dx(), scaled.Bounds().Dy()
	out.Resized = scaled != src
	return out, nil
}
