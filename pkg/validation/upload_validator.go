package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	apperrors "github.com/anime-shed/ai-image-detector/internal/errors"
)

// DefaultUploadExtensions are the file extensions accepted by the upload endpoint.
var DefaultUploadExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp"}

// DefaultImageMIMETypes are the sniffed content types the loader can decode.
// WebP is only reachable through remote URLs since the upload extension list excludes it.
var DefaultImageMIMETypes = []string{"image/png", "image/jpeg", "image/gif", "image/bmp", "image/webp"}

// UploadValidator checks uploaded files before they are decoded
type UploadValidator struct {
	allowedExtensions []string
	allowedMIMETypes  []string
	maxSize           int64
}

// NewUploadValidator creates an upload validator with the default formats
func NewUploadValidator(maxSize int64) *UploadValidator {
	return &UploadValidator{
		allowedExtensions: DefaultUploadExtensions,
		allowedMIMETypes:  DefaultImageMIMETypes,
		maxSize:           maxSize,
	}
}

// MaxSize returns the upload limit in bytes
func (v *UploadValidator) MaxSize() int64 {
	return v.maxSize
}

// ValidateFilename checks that a file was chosen and that its extension is allowed
func (v *UploadValidator) ValidateFilename(filename string) error {
	if strings.TrimSpace(filename) == "" {
		return apperrors.NewValidationError("No file selected", nil)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !lo.Contains(v.allowedExtensions, ext) {
		return apperrors.NewValidationError(
			fmt.Sprintf("File type not allowed. Supported formats: %s", strings.Join(v.allowedExtensions, ", ")), nil)
	}
	return nil
}

// ValidateSize rejects empty bodies and bodies above the limit
func (v *UploadValidator) ValidateSize(size int64) error {
	if size <= 0 {
		return apperrors.NewValidationError("Uploaded file is empty", nil)
	}
	if v.maxSize > 0 && size > v.maxSize {
		return v.TooLarge()
	}
	return nil
}

// TooLarge builds the error returned for oversized uploads
func (v *UploadValidator) TooLarge() error {
	return apperrors.NewTooLargeError(
		fmt.Sprintf("File too large. Maximum size is %dMB.", v.maxSize>>20), nil)
}

// DetectContentType sniffs the magic bytes of data and rejects anything that is not a
// supported image, whatever the filename claims.
func (v *UploadValidator) DetectContentType(data []byte) (string, error) {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if mimetype.EqualsAny(m.String(), v.allowedMIMETypes...) {
			return m.String(), nil
		}
	}
	return "", apperrors.NewUnsupportedMediaError(
		fmt.Sprintf("Unsupported content type %s", detected.String()), nil)
}
