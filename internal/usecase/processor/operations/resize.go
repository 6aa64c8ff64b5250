package operations

import (
	"errors"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

var (
	ErrEmptyTarget = errors.New("target surface has no pixels")
	ErrTooLarge    = errors.New("target surface exceeds pixel budget")
)

type Resizer struct {
	maxPixels int
}

// NewResizer limits the destination canvas to maxPixels; zero means unlimited.
func NewResizer(maxPixels int) *Resizer {
	return &Resizer{maxPixels: maxPixels}
}

// FitWithin scales (w, h) down so that neither side exceeds its maximum,
// keeping the aspect ratio. A non-positive maximum leaves that side unbounded.
// Images already inside the box keep their size.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}

	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return w, h
	}

	nw := clampSide(int(math.Round(float64(w)*scale)), maxW)
	nh := clampSide(int(math.Round(float64(h)*scale)), maxH)
	return nw, nh
}

func clampSide(v, limit int) int {
	if v < 1 {
		v = 1
	}
	if limit > 0 && v > limit {
		v = limit
	}
	return v
}

// Scale renders img onto a white canvas of the given size.
func (r *Resizer) Scale(img image.Image, width, height int) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, ErrEmptyTarget
	}
	if r.maxPixels > 0 && width*height > r.maxPixels {
		return nil, ErrTooLarge
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	src := img.Bounds()
	if src.Dx() == width && src.Dy() == height {
		xdraw.Draw(dst, dst.Bounds(), img, src.Min, xdraw.Over)
		return dst, nil
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Over, nil)
	return dst, nil
}
