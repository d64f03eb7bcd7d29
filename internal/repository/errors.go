package repository

import "errors"

var (
	// ErrInvalidLocation indicates an empty or unparseable image location
	ErrInvalidLocation = errors.New("invalid image location")

	// ErrImageNotFound indicates the image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrRepositoryUnavailable indicates the backing store is not configured
	ErrRepositoryUnavailable = errors.New("repository unavailable")

	// ErrReadOnlyLocation indicates a location that cannot be written to
	ErrReadOnlyLocation = errors.New("location is read-only")
)
