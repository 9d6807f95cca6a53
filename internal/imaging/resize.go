// Package imaging normalizes user-selected images before they are sent to
// the media library: oversized photos are downscaled and re-encoded as JPEG
// so a phone picture does not land as a 12MB original on the site.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Normalize decodes data, scales it down to fit within maxW x maxH while
// preserving aspect ratio, and re-encodes it as JPEG at the given quality.
// Images already within bounds are never upscaled, only re-encoded.
func Normalize(data []byte, maxW, maxH, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if newW, newH, ok := fit(w, h, maxW, maxH); ok {
		dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fit returns the dimensions scaled to fit within maxW x maxH, and whether
// scaling is needed at all.
func fit(w, h, maxW, maxH int) (int, int, bool) {
	if w <= maxW && h <= maxH {
		return w, h, false
	}
	newW, newH := w, h
	if newW > maxW {
		newH = newH * maxW / newW
		newW = maxW
	}
	if newH > maxH {
		newW = newW * maxH / newH
		newH = maxH
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH, true
}
