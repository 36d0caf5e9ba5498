package validation

import (
	"testing"

	apperrors "github.com/anime-shed/ai-image-detector/internal/errors"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	// Check default schemes
	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Errorf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
}

func TestValidateImageURL(t *testing.T) {
	validator := NewURLValidator()

	testCases := []struct {
		name    string
		url     string
		message string
	}{
		{"http", "http://example.com/image.jpg", ""},
		{"https with path", "https://subdomain.example.com/path/to/image.gif", ""},
		{"ip host", "http://192.168.1.1/image.jpg", ""},
		{"uppercase scheme", "HTTPS://example.com/a.png", ""},
		{"azure blob", "https://acct.blob.core.windows.net/images/a.png", ""},
		{"empty", "", "URL cannot be empty"},
		{"whitespace", " \t\n", "URL cannot be empty"},
		{"bad escape", "http://example.com/%zz", "Invalid URL format"},
		{"ftp", "ftp://example.com/image.jpg", "URL scheme not allowed"},
		{"file", "file:///etc/passwd", "URL scheme not allowed"},
		{"relative", "/images/a.png", "URL scheme not allowed"},
		{"no host", "http:///image.jpg", "URL must have a valid host"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateImageURL(tc.url)
			if tc.message == "" {
				if err != nil {
					t.Errorf("Expected %q to pass validation, got error: %v", tc.url, err)
				}
				return
			}

			appErr, ok := apperrors.As(err)
			if !ok {
				t.Fatalf("Expected *AppError for %q, got %v", tc.url, err)
			}
			if appErr.Type != apperrors.ErrorTypeValidation {
				t.Errorf("Expected validation error, got %s", appErr.Type)
			}
			if appErr.Message != tc.message {
				t.Errorf("Expected %q, got %q", tc.message, appErr.Message)
			}
		})
	}
}

func TestValidateImageURL_HostRestrictions(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"http", "https"}, []string{"example.com", "trusted.com"})

	for _, url := range []string{"http://example.com/image.jpg", "https://trusted.com:8443/image.png"} {
		if err := validator.ValidateImageURL(url); err != nil {
			t.Errorf("Expected allowed host URL '%s' to pass validation, got error: %v", url, err)
		}
	}

	for _, url := range []string{"http://malicious.com/image.jpg", "https://untrusted.com/image.png"} {
		err := validator.ValidateImageURL(url)
		appErr, ok := apperrors.As(err)
		if !ok {
			t.Fatalf("Expected disallowed host URL '%s' to fail validation", url)
		}
		if appErr.Message != "URL host not allowed" {
			t.Errorf("Expected 'URL host not allowed' error, got: %s", appErr.Message)
		}
	}
}

func TestIsAzureBlobURL(t *testing.T) {
	cases := map[string]bool{
		"https://acct.blob.core.windows.net/c/a.png": true,
		"https://ACCT.BLOB.CORE.WINDOWS.NET/c/a.png": true,
		"https://example.com/a.png":                  false,
		"https://blob.core.windows.net.evil.com/a":   false,
		"::not a url":                                false,
	}
	for url, expected := range cases {
		if got := IsAzureBlobURL(url); got != expected {
			t.Errorf("IsAzureBlobURL(%q) = %v, expected %v", url, got, expected)
		}
	}
}
