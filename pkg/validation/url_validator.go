package validation

import (
	"net/url"
	"strings"

	"github.com/samber/lo"

	apperrors "github.com/anime-shed/ai-image-detector/internal/errors"
)

const azureBlobHostSuffix = ".blob.core.windows.net"

// URLValidator handles URL validation logic
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator creates a new URL validator with default settings
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewURLValidatorWithOptions creates a URL validator with custom options
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	return &URLValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
	}
}

// ValidateImageURL validates if the provided URL is acceptable as an image source
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewValidationError("Invalid URL format", err)
	}

	if !lo.Contains(v.allowedSchemes, strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Hostname() == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

// isHostAllowed returns true if no host restrictions are set or host is listed
func (v *URLValidator) isHostAllowed(host string) bool {
	return len(v.allowedHosts) == 0 || lo.Contains(v.allowedHosts, strings.ToLower(host))
}

// IsAzureBlobURL reports whether imageURL points at an Azure Blob Storage account
func IsAzureBlobURL(imageURL string) bool {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsedURL.Hostname()), azureBlobHostSuffix)
}
