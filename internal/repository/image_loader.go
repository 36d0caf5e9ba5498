package repository

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/anime-shed/ai-image-detector/internal/analyzer"
	"github.com/anime-shed/ai-image-detector/pkg/models"
	"github.com/anime-shed/ai-image-detector/pkg/validation"
)

// LoadedImage is a decoded image ready for the detector
type LoadedImage struct {
	Pixels   *analyzer.Pixels
	Metadata models.ImageMetadata
}

// ImageLoader turns encoded bytes into detector input
type ImageLoader interface {
	// Load sniffs, decodes and normalises data
	Load(data []byte) (*LoadedImage, error)

	// LoadFile reads and loads an image from disk
	LoadFile(path string) (*LoadedImage, error)
}

// DefaultMaxPixels is the decompression bomb limit used by Pillow.
const DefaultMaxPixels = 89478485

type imageLoader struct {
	validator    *validation.UploadValidator
	maxDimension int
	maxPixels    int64
}

// ImageLoaderOption configures an image loader
type ImageLoaderOption func(*imageLoader)

// WithMaxPixels rejects images whose header declares more than n pixels before any
// pixel data is decoded. 0 disables the check.
func WithMaxPixels(n int64) ImageLoaderOption {
	return func(l *imageLoader) {
		l.maxPixels = n
	}
}

// NewImageLoader creates a loader. Images wider or taller than maxDimension are
// downscaled with Lanczos resampling before conversion; 0 keeps full resolution.
func NewImageLoader(validator *validation.UploadValidator, maxDimension int, opts ...ImageLoaderOption) ImageLoader {
	l := &imageLoader{
		validator:    validator,
		maxDimension: maxDimension,
		maxPixels:    DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *imageLoader) Load(data []byte) (*LoadedImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	contentType, err := l.validator.DetectContentType(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); l.maxPixels > 0 && pixels > l.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, cfg.Width, cfg.Height, l.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	bounds := img.Bounds()
	meta := models.ImageMetadata{
		ContentType:   contentType,
		ContentLength: int64(len(data)),
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
	}

	if l.maxDimension > 0 && (meta.Width > l.maxDimension || meta.Height > l.maxDimension) {
		img = imaging.Fit(img, l.maxDimension, l.maxDimension, imaging.Lanczos)
		meta.Downscaled = true
	}

	pixels, err := analyzer.FromImage(img)
	if err != nil {
		return nil, err
	}
	meta.AnalyzedWidth = pixels.Width
	meta.AnalyzedHeight = pixels.Height

	return &LoadedImage{Pixels: pixels, Metadata: meta}, nil
}

func (l *imageLoader) LoadFile(path string) (*LoadedImage, error) {
	if err := l.validator.ValidateFilename(filepath.Base(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := l.validator.ValidateSize(info.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(data)
}
