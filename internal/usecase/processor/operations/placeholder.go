package operations

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const PlaceholderText = "No Image"

var (
	placeholderBackground = color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
	placeholderForeground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

type Placeholder struct {
	font *truetype.Font
}

func NewPlaceholder() *Placeholder {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return &Placeholder{}
	}
	return &Placeholder{font: f}
}

// Render draws the label centred on a dark canvas and returns it as PNG.
func (p *Placeholder) Render(width, height int, text string) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, ErrEmptyTarget
	}
	if text == "" {
		text = PlaceholderText
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	if err := p.drawLabel(canvas, text); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *Placeholder) drawLabel(canvas *image.RGBA, text string) error {
	if p.font == nil {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return fmt.Errorf("failed to load font: %w", err)
		}
		p.font = f
	}

	bounds := canvas.Bounds()
	fontSize := float64(bounds.Dx()) / 12
	if fontSize < 8 {
		fontSize = 8
	}

	face := truetype.NewFace(p.font, &truetype.Options{Size: fontSize, DPI: 72, Hinting: font.HintingFull})
	textWidth := font.MeasureString(face, text).Ceil()

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(p.font)
	c.SetFontSize(fontSize)
	c.SetClip(bounds)
	c.SetDst(canvas)
	c.SetSrc(image.NewUniform(placeholderForeground))
	c.SetHinting(font.HintingFull)

	pt := freetype.Pt((bounds.Dx()-textWidth)/2, (bounds.Dy()+int(fontSize*0.7))/2)
	if _, err := c.DrawString(text, pt); err != nil {
		return fmt.Errorf("failed to draw placeholder text: %w", err)
	}
	return nil
}
