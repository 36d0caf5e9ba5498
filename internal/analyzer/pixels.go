package analyzer

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage is matched by every *InvalidImageError via errors.Is.
var ErrInvalidImage = errors.New("invalid image")

// InvalidImageError reports a structurally unusable pixel array.
type InvalidImageError struct {
	Width    int
	Height   int
	Channels int
	Reason   string
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image %dx%d (%d channels): %s", e.Width, e.Height, e.Channels, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrInvalidImage).
func (e *InvalidImageError) Is(target error) bool {
	return target == ErrInvalidImage
}

// Pixels is a decoded 8-bit RGB pixel array stored row-major, three bytes per pixel.
// It must not be modified once handed to an Engine.
type Pixels struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixels copies interleaved channel data into a Pixels value.
// Three channels are read as RGB; four as RGBA with the alpha byte dropped.
func NewPixels(width, height, channels int, data []uint8) (*Pixels, error) {
	if width <= 0 || height <= 0 {
		return nil, &InvalidImageError{Width: width, Height: height, Channels: channels, Reason: "zero area"}
	}
	if channels != 3 && channels != 4 {
		return nil, &InvalidImageError{Width: width, Height: height, Channels: channels, Reason: "unsupported channel layout"}
	}
	if len(data) != width*height*channels {
		return nil, &InvalidImageError{
			Width: width, Height: height, Channels: channels,
			Reason: fmt.Sprintf("expected %d bytes, got %d", width*height*channels, len(data)),
		}
	}

	pix := make([]uint8, width*height*3)
	for i, j := 0, 0; i < len(data); i, j = i+channels, j+3 {
		pix[j] = data[i]
		pix[j+1] = data[i+1]
		pix[j+2] = data[i+2]
	}
	return &Pixels{Width: width, Height: height, Pix: pix}, nil
}

// FromImage normalises any decoded image into a Pixels value.
// Alpha is discarded without compositing, matching how the channel is dropped in NewPixels.
func FromImage(img image.Image) (*Pixels, error) {
	if img == nil {
		return nil, &InvalidImageError{Reason: "nil image"}
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, &InvalidImageError{Width: bounds.Dx(), Height: bounds.Dy(), Channels: 4, Reason: "zero area"}
	}

	// imaging.Clone always yields an NRGBA image anchored at (0,0).
	nrgba := imaging.Clone(img)
	return NewPixels(nrgba.Rect.Dx(), nrgba.Rect.Dy(), 4, nrgba.Pix)
}

// At returns the RGB triple at (x, y).
func (p *Pixels) At(x, y int) (r, g, b uint8) {
	i := (y*p.Width + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

func (p *Pixels) validate() error {
	if p == nil {
		return &InvalidImageError{Reason: "nil pixel array"}
	}
	if p.Width <= 0 || p.Height <= 0 {
		return &InvalidImageError{Width: p.Width, Height: p.Height, Channels: 3, Reason: "zero area"}
	}
	if len(p.Pix) != p.Width*p.Height*3 {
		return &InvalidImageError{Width: p.Width, Height: p.Height, Channels: 3, Reason: "pixel buffer does not match dimensions"}
	}
	return nil
}
