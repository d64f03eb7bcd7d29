package validation

import (
	"testing"

	apperrors "github.com/anime-shed/sobel-inspector-go/internal/errors"
)

func TestNewLocationValidator(t *testing.T) {
	validator := NewLocationValidator()
	if validator == nil {
		t.Fatal("Expected non-nil location validator")
	}

	expectedSchemes := []string{"http", "https", "azblob"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Fatalf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
	for i, scheme := range expectedSchemes {
		if validator.allowedSchemes[i] != scheme {
			t.Errorf("Expected scheme %s, got %s", scheme, validator.allowedSchemes[i])
		}
	}
	if validator.allowLocal {
		t.Error("Expected local paths to be rejected by default")
	}
}

func TestValidateLocation(t *testing.T) {
	defaults := NewLocationValidator()
	restricted := NewLocationValidatorWithOptions([]string{"https", "azblob"}, []string{"cdn.example.com"}, true)

	tests := []struct {
		name      string
		validator *LocationValidator
		location  string
		wantErr   bool
	}{
		{"http", defaults, "http://example.com/image.jpg", false},
		{"https with port", defaults, "https://example.com:8443/image.png", false},
		{"azblob", defaults, "azblob://frames/2024/a.png", false},
		{"empty", defaults, "   ", true},
		{"ftp", defaults, "ftp://example.com/image.png", true},
		{"no host", defaults, "http:///image.png", true},
		{"local rejected", defaults, "/tmp/image.png", true},
		{"file rejected", defaults, "file:///tmp/image.png", true},
		{"local allowed", restricted, "/tmp/image.png", false},
		{"file allowed", restricted, "file:///tmp/image.png", false},
		{"allowed host", restricted, "https://CDN.example.com/a.png", false},
		{"other host", restricted, "https://evil.example.com/a.png", true},
		{"scheme removed", restricted, "http://cdn.example.com/a.png", true},
		{"azblob ignores host list", restricted, "azblob://frames/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator.ValidateLocation(tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLocation(%q) error = %v, wantErr %v", tt.location, err, tt.wantErr)
			}
			if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error type, got %v", err)
			}
		})
	}
}
