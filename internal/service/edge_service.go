package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"time"

	apperrors "github.com/anime-shed/sobel-inspector-go/internal/errors"
	"github.com/anime-shed/sobel-inspector-go/internal/observer"
	"github.com/anime-shed/sobel-inspector-go/internal/repository"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
	"github.com/anime-shed/sobel-inspector-go/internal/storage"
)

// EdgeService runs Sobel edge detection over images and stores the results
type EdgeService interface {
	// DetectImage filters an already decoded image
	DetectImage(ctx context.Context, img image.Image) (*EdgeResult, error)

	// DetectLocation loads the image at location and filters it
	DetectLocation(ctx context.Context, location string) (*EdgeResult, error)

	// Store encodes result in format and writes it to location. An empty
	// format is derived from the location's extension.
	Store(ctx context.Context, result *EdgeResult, location, format string) error

	// SetThreads requests n filter workers and returns the value in effect
	SetThreads(n int) int

	// Threads returns the requested worker count
	Threads() int
}

// EdgeResult is the outcome of one filter call
type EdgeResult struct {
	Source   string
	Edges    *sobel.Buffer
	Stats    sobel.EdgeStats
	Width    int
	Height   int
	Workers  int
	Duration time.Duration
}

// Image returns the edge buffer as a grayscale image
func (r *EdgeResult) Image() *image.Gray {
	return r.Edges.Gray()
}

// Options configures an EdgeService
type Options struct {
	Threshold     uint8
	MaxPixels     int
	DefaultFormat string
}

// DefaultServiceOptions returns the options used when none are given
func DefaultServiceOptions() Options {
	return Options{
		Threshold:     64,
		MaxPixels:     sobel.DefaultMaxPixels,
		DefaultFormat: "png",
	}
}

type edgeService struct {
	repo      repository.ImageRepository
	publisher observer.Subject
	opts      Options
	now       func() time.Time
}

// NewEdgeService creates a new edge service. publisher may be nil.
func NewEdgeService(repo repository.ImageRepository, publisher observer.Subject, opts Options) EdgeService {
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = "png"
	}
	return &edgeService{
		repo:      repo,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

// DetectImage converts img to intensities and filters it
func (s *edgeService) DetectImage(ctx context.Context, img image.Image) (*EdgeResult, error) {
	return s.detect(ctx, "", img)
}

// DetectLocation loads and filters the image at location
func (s *edgeService) DetectLocation(ctx context.Context, location string) (*EdgeResult, error) {
	if err := s.repo.ValidateLocation(location); err != nil {
		return nil, loadError(err)
	}

	img, err := s.repo.Load(ctx, location)
	if err != nil {
		s.publish(ctx, observer.FilterEvent{
			EventType:    observer.ImageLoadFailed,
			Source:       location,
			ErrorMessage: err.Error(),
		})
		return nil, loadError(err)
	}

	bounds := img.Bounds()
	s.publish(ctx, observer.FilterEvent{
		EventType: observer.ImageLoaded,
		Source:    location,
		Success:   true,
		Metadata: map[string]interface{}{
			"width":  bounds.Dx(),
			"height": bounds.Dy(),
		},
	})

	return s.detect(ctx, location, img)
}

func (s *edgeService) detect(ctx context.Context, source string, img image.Image) (*EdgeResult, error) {
	if img == nil {
		return nil, apperrors.NewValidationError("no image supplied", sobel.ErrEmptyInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("request canceled before filtering", err)
	}

	input, err := sobel.FromImage(img)
	if err != nil {
		return nil, s.failed(ctx, source, err)
	}

	opts := sobel.DefaultOptions().WithMaxPixels(s.opts.MaxPixels)
	workers := opts.EffectiveWorkers(input.Rows)

	s.publish(ctx, observer.FilterEvent{
		EventType: observer.FilterStarted,
		Source:    source,
		Success:   true,
		Metadata:  map[string]interface{}{"workers": workers},
	})

	start := s.now()
	output := &sobel.Buffer{}
	if err := sobel.FilterWithOptions(input, output, opts); err != nil {
		return nil, s.failed(ctx, source, err).WithDetails("input %dx%d, pixel limit %d", input.Cols, input.Rows, s.opts.MaxPixels)
	}
	elapsed := s.now().Sub(start)

	result := &EdgeResult{
		Source:   source,
		Edges:    output,
		Stats:    sobel.ComputeStats(output, s.opts.Threshold),
		Width:    output.Cols,
		Height:   output.Rows,
		Workers:  workers,
		Duration: elapsed,
	}

	s.publish(ctx, observer.FilterEvent{
		EventType:      observer.FilterCompleted,
		Source:         source,
		ProcessingTime: elapsed,
		Success:        true,
		Metadata: map[string]interface{}{
			"workers":   workers,
			"width":     result.Width,
			"height":    result.Height,
			"edge_mean": result.Stats.Mean,
		},
	})
	return result, nil
}

// Store encodes and writes result
func (s *edgeService) Store(ctx context.Context, result *EdgeResult, location, format string) error {
	if result == nil || result.Edges == nil {
		return apperrors.NewValidationError("no edge result to store", nil)
	}
	if err := s.repo.ValidateLocation(location); err != nil {
		return saveError(err)
	}

	if format == "" {
		format = storage.FormatFromPath(location, s.opts.DefaultFormat)
	}
	format = storage.NormalizeFormat(format)

	var buf bytes.Buffer
	if err := storage.Encode(&buf, result.Image(), format); err != nil {
		if errors.Is(err, storage.ErrUnsupportedFormat) {
			return apperrors.NewValidationError("unsupported output format", err)
		}
		return apperrors.NewProcessingError("failed to encode edge image", err)
	}

	if err := s.repo.Save(ctx, location, buf.Bytes(), format); err != nil {
		return saveError(err)
	}
	return nil
}

// SetThreads updates the process-wide worker count
func (s *edgeService) SetThreads(n int) int {
	before := sobel.GetThreads()
	sobel.SetThreads(n)
	after := sobel.GetThreads()

	s.publish(context.Background(), observer.FilterEvent{
		EventType: observer.ThreadsChanged,
		Success:   n > 0,
		Metadata: map[string]interface{}{
			"requested": n,
			"previous":  before,
			"threads":   after,
		},
	})
	return after
}

// Threads returns the process-wide worker count
func (s *edgeService) Threads() int {
	return sobel.GetThreads()
}

func (s *edgeService) failed(ctx context.Context, source string, err error) *apperrors.AppError {
	s.publish(ctx, observer.FilterEvent{
		EventType:    observer.FilterFailed,
		Source:       source,
		ErrorMessage: err.Error(),
	})
	return apperrors.FromFilterError(err)
}

func (s *edgeService) publish(ctx context.Context, event observer.FilterEvent) {
	if s.publisher == nil {
		return
	}
	event.Timestamp = s.now()
	s.publisher.NotifySync(ctx, event)
}

// loadError classifies repository failures
func loadError(err error) error {
	switch {
	case errors.Is(err, repository.ErrImageNotFound):
		return apperrors.NewNotFoundError("image not found", err)
	case errors.Is(err, repository.ErrInvalidLocation):
		return apperrors.NewValidationError("invalid image location", err)
	case errors.Is(err, repository.ErrRepositoryUnavailable):
		return apperrors.NewInternalError("image storage not configured", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewTimeoutError("timed out loading image", err)
	default:
		return apperrors.NewNetworkError("failed to load image", err)
	}
}

// saveError classifies repository write failures
func saveError(err error) error {
	switch {
	case errors.Is(err, repository.ErrReadOnlyLocation), errors.Is(err, repository.ErrInvalidLocation):
		return apperrors.NewValidationError("cannot write to output location", err)
	case errors.Is(err, repository.ErrRepositoryUnavailable):
		return apperrors.NewInternalError("output storage not configured", err)
	default:
		return apperrors.NewProcessingError("failed to save edge image", err)
	}
}
