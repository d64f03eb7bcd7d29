package repository

import (
	"context"
	"image"
)

// ImageRepository loads source images and stores edge images
type ImageRepository interface {
	// Load retrieves and decodes the image at location
	Load(ctx context.Context, location string) (image.Image, error)

	// Save writes encoded image bytes to location
	Save(ctx context.Context, location string, data []byte, format string) error

	// ValidateLocation checks that location is well formed and supported
	ValidateLocation(location string) error
}

// LocationKind classifies where an image lives
type LocationKind string

const (
	KindHTTP  LocationKind = "http"
	KindAzure LocationKind = "azblob"
	KindLocal LocationKind = "local"
)

// Location is a parsed image address
type Location struct {
	Kind LocationKind
	Raw  string

	// Container and Blob are set for KindAzure
	Container string
	Blob      string

	// Path is set for KindLocal
	Path string
}
