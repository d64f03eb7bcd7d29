package factory

import (
	"errors"
	"fmt"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/config"
	"github.com/anime-shed/sobel-inspector-go/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// fetchBackoff is the base delay between HTTP fetch attempts
const fetchBackoff = time.Second

// ErrAzureNotConfigured is returned when blob storage is requested without credentials
var ErrAzureNotConfigured = errors.New("azure storage requires AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY")

// Backends groups the storage implementations behind an image repository.
// A nil field means the backend was not requested.
type Backends struct {
	Fetcher storage.ImageFetcher
	Blobs   storage.BlobStorage
	Local   storage.LocalStorage
}

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateBackends(types ...StorageType) (Backends, error)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// DefaultStorageTypes returns the backends implied by cfg: HTTP and local
// always, Azure when credentials are present
func DefaultStorageTypes(cfg *config.Config) []StorageType {
	types := []StorageType{HTTPStorage, LocalStorage}
	if cfg.AzureEnabled() {
		types = append(types, AzureStorage)
	}
	return types
}

// CreateBackends creates the requested storage implementations
func (f *storageFactory) CreateBackends(types ...StorageType) (Backends, error) {
	var backends Backends
	for _, storageType := range types {
		switch storageType {
		case HTTPStorage:
			backends.Fetcher = storage.NewHTTPImageFetcherWithOptions(f.cfg.ImageFetchTimeout, fetchBackoff)
		case AzureStorage:
			if !f.cfg.AzureEnabled() {
				return Backends{}, ErrAzureNotConfigured
			}
			blobs, err := storage.NewAzureStorage(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
			if err != nil {
				return Backends{}, err
			}
			backends.Blobs = blobs
		case LocalStorage:
			backends.Local = storage.NewLocalStorage()
		default:
			return Backends{}, fmt.Errorf("unsupported storage type: %s", storageType)
		}
	}
	return backends, nil
}
