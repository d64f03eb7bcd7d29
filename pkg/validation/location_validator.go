package validation

import (
	"net/url"
	"strings"

	apperrors "github.com/anime-shed/sobel-inspector-go/internal/errors"
)

// LocationValidator decides which image locations API clients may use
type LocationValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	allowLocal     bool
}

// NewLocationValidator creates a validator accepting http, https and azblob
// locations on any host. Local paths are rejected.
func NewLocationValidator() *LocationValidator {
	return &LocationValidator{
		allowedSchemes: []string{"http", "https", "azblob"},
		allowedHosts:   []string{}, // empty means all hosts allowed
	}
}

// NewLocationValidatorWithOptions creates a validator with custom options
func NewLocationValidatorWithOptions(schemes []string, hosts []string, allowLocal bool) *LocationValidator {
	return &LocationValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
		allowLocal:     allowLocal,
	}
}

// ValidateLocation validates a source or destination location
func (v *LocationValidator) ValidateLocation(location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return apperrors.NewValidationError("location cannot be empty", nil)
	}

	if !strings.Contains(location, "://") || strings.HasPrefix(strings.ToLower(location), "file://") {
		if !v.allowLocal {
			return apperrors.NewValidationError("local paths are not allowed", nil)
		}
		return nil
	}

	parsedURL, err := url.Parse(location)
	if err != nil {
		return apperrors.NewValidationError("invalid location format", err)
	}

	if !v.isSchemeAllowed(strings.ToLower(parsedURL.Scheme)) {
		return apperrors.NewValidationError("location scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("location must have a valid host", nil)
	}

	// azblob hosts are container names, not network hosts
	if parsedURL.Scheme != "azblob" && !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("location host not allowed", nil)
	}

	return nil
}

func (v *LocationValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set
func (v *LocationValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if strings.EqualFold(host, allowed) {
			return true
		}
	}
	return false
}
