package operations

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
)

// JPEGQuality maps a normalized quality to the encoder's 1..100 range.
func JPEGQuality(q float64) int {
	v := int(math.Round(q * 100))
	switch {
	case v < 1:
		return 1
	case v > 100:
		return 100
	default:
		return v
	}
}

func EncodeJPEG(img image.Image, quality float64) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality(quality)}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
