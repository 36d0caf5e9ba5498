package repository

import "errors"

var (
	// ErrInvalidImageURL indicates an invalid image URL
	ErrInvalidImageURL = errors.New("invalid image URL")

	// ErrEmptyImage indicates an upload or download with no bytes
	ErrEmptyImage = errors.New("image data is empty")

	// ErrUnsupportedFormat indicates content that is not a decodable image type
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrTooManyPixels indicates an image whose declared dimensions exceed the pixel limit
	ErrTooManyPixels = errors.New("image has too many pixels")

	// ErrDecodeFailed indicates bytes that claim a supported format but do not decode
	ErrDecodeFailed = errors.New("failed to decode image")

	// ErrImageFetchFailed indicates the remote source could not be read
	ErrImageFetchFailed = errors.New("failed to fetch image")
)
