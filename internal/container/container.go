package container

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/anime-shed/sobel-inspector-go/internal/config"
	"github.com/anime-shed/sobel-inspector-go/internal/factory"
	"github.com/anime-shed/sobel-inspector-go/internal/logger"
	"github.com/anime-shed/sobel-inspector-go/internal/observer"
	"github.com/anime-shed/sobel-inspector-go/internal/repository"
	"github.com/anime-shed/sobel-inspector-go/internal/service"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
	"github.com/anime-shed/sobel-inspector-go/internal/transport"
	"github.com/anime-shed/sobel-inspector-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	publisher       *observer.EventPublisher
	metrics         *observer.MetricsObserver
	imageRepository repository.ImageRepository
	edgeService     service.EdgeService
	validator       *validation.LocationValidator

	handlerOnce sync.Once
	handler     http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	backends, err := factory.NewStorageFactory(cfg).CreateBackends(factory.DefaultStorageTypes(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	sobel.SetThreads(cfg.Threads)

	// Build dependency graph
	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	imageRepository := repository.NewImageRepository(backends.Fetcher, backends.Blobs, backends.Local)
	edgeService := service.NewEdgeService(imageRepository, publisher, service.Options{
		Threshold:     uint8(cfg.EdgeThreshold),
		MaxPixels:     cfg.MaxPixels,
		DefaultFormat: cfg.OutputFormat,
	})

	validator := validation.NewLocationValidatorWithOptions(
		[]string{"http", "https", "azblob"},
		cfg.AllowedHosts,
		cfg.AllowLocalPaths,
	)

	return &Container{
		config:          cfg,
		publisher:       publisher,
		metrics:         metrics,
		imageRepository: imageRepository,
		edgeService:     edgeService,
		validator:       validator,
	}, nil
}

// Handler returns the HTTP handler, building the router on first use so
// the CLI never constructs it
func (c *Container) Handler() http.Handler {
	c.handlerOnce.Do(func() {
		c.handler = transport.NewHandler(c.edgeService, c.metrics, c.validator, c.config)
	})
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// EdgeService returns the edge detection service
func (c *Container) EdgeService() service.EdgeService {
	return c.edgeService
}

// Metrics returns the filter metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Publisher returns the event publisher shared by the service and capture loop
func (c *Container) Publisher() observer.Subject {
	return c.publisher
}
