package repository

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"

	"github.com/anime-shed/sobel-inspector-go/internal/storage"
)

// imageRepository routes locations to HTTP, Azure blob or local storage
type imageRepository struct {
	fetcher storage.ImageFetcher
	blobs   storage.BlobStorage
	local   storage.LocalStorage
}

// NewImageRepository creates a repository. blobs and local may be nil, in
// which case the corresponding locations report ErrRepositoryUnavailable.
func NewImageRepository(fetcher storage.ImageFetcher, blobs storage.BlobStorage, local storage.LocalStorage) ImageRepository {
	return &imageRepository{
		fetcher: fetcher,
		blobs:   blobs,
		local:   local,
	}
}

// ParseLocation classifies a location string. http(s) URLs go to the fetcher,
// azblob://container/blob/path to blob storage, anything else is a local path.
func ParseLocation(location string) (Location, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Location{}, ErrInvalidLocation
	}

	if !strings.Contains(location, "://") {
		return Location{Kind: KindLocal, Raw: location, Path: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return Location{}, fmt.Errorf("%w: missing host", ErrInvalidLocation)
		}
		return Location{Kind: KindHTTP, Raw: location}, nil
	case "azblob":
		blobName := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || blobName == "" {
			return Location{}, fmt.Errorf("%w: expected azblob://container/blob", ErrInvalidLocation)
		}
		return Location{Kind: KindAzure, Raw: location, Container: u.Host, Blob: blobName}, nil
	case "file":
		return Location{Kind: KindLocal, Raw: location, Path: u.Path}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, u.Scheme)
	}
}

func (r *imageRepository) ValidateLocation(location string) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}
	return r.available(loc)
}

func (r *imageRepository) Load(ctx context.Context, location string) (image.Image, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if err := r.available(loc); err != nil {
		return nil, err
	}

	var img image.Image
	switch loc.Kind {
	case KindHTTP:
		img, err = r.fetcher.FetchImage(ctx, loc.Raw)
	case KindAzure:
		img, err = r.blobs.GetImage(ctx, loc.Container, loc.Blob)
	default:
		img, err = r.local.ReadImage(loc.Path)
	}
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, location)
	}
	return img, err
}

func (r *imageRepository) Save(ctx context.Context, location string, data []byte, format string) error {
	loc, err := ParseLocation(location)
	if err != nil {
		return err
	}
	if loc.Kind == KindHTTP {
		return fmt.Errorf("%w: %s", ErrReadOnlyLocation, location)
	}
	if err := r.available(loc); err != nil {
		return err
	}

	if loc.Kind == KindAzure {
		return r.blobs.PutImage(ctx, loc.Container, loc.Blob, data, storage.ContentType(format))
	}
	return r.local.WriteFile(loc.Path, data)
}

func (r *imageRepository) available(loc Location) error {
	switch {
	case loc.Kind == KindHTTP && r.fetcher == nil,
		loc.Kind == KindAzure && r.blobs == nil,
		loc.Kind == KindLocal && r.local == nil:
		return fmt.Errorf("%w: no %s backend configured", ErrRepositoryUnavailable, loc.Kind)
	}
	return nil
}
