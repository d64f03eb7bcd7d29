// Package capture runs the interactive camera loop: frames are converted to
// intensity, edge filtered and shown, with keyboard control of the filter
// thread count.
package capture

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/logger"
	"github.com/anime-shed/sobel-inspector-go/internal/observer"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
	"github.com/anime-shed/sobel-inspector-go/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	// ErrCameraUnavailable is returned when no camera can be opened, including
	// builds without OpenCV support
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrNoFrame is returned when the camera stops delivering frames
	ErrNoFrame = errors.New("cannot capture frame")

	// ErrNothingToSave is returned when a save is requested before any frame
	// was filtered
	ErrNothingToSave = errors.New("no filtered frame to save")
)

const (
	cameraWindowTitle   = "Source"
	filteredWindowTitle = "Sobel"
)

// Options configures a capture session
type Options struct {
	Device   int
	Width    int
	Height   int
	RunTime  time.Duration
	SavePath string

	// Publisher receives a frame_processed event per frame; may be nil
	Publisher observer.Subject

	// SetThreads handles digit keys; defaults to the process-wide setter
	SetThreads func(int) int
}

// DefaultOptions requests a 1080p stream from the first camera
func DefaultOptions() Options {
	return Options{
		Device:   0,
		Width:    1920,
		Height:   1080,
		SavePath: "sobel.png",
		SetThreads: func(n int) int {
			sobel.SetThreads(n)
			return sobel.GetThreads()
		},
	}
}

// FrameProcessor filters successive frames into a reused output buffer
type FrameProcessor struct {
	publisher observer.Subject
	local     storage.LocalStorage
	fps       *FPSCounter
	output    *sobel.Buffer
	frames    int
}

// NewFrameProcessor creates a processor publishing to publisher, which may be nil
func NewFrameProcessor(publisher observer.Subject) *FrameProcessor {
	return &FrameProcessor{
		publisher: publisher,
		local:     storage.NewLocalStorage(),
		fps:       NewFPSCounter(),
		output:    &sobel.Buffer{},
	}
}

// Process filters frame and returns the edge buffer, which is overwritten by
// the next call
func (p *FrameProcessor) Process(ctx context.Context, frame *sobel.Buffer) (*sobel.Buffer, error) {
	start := time.Now()
	if err := sobel.FilterInto(frame, p.output); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	p.frames++

	if p.publisher != nil {
		p.publisher.NotifySync(ctx, observer.FilterEvent{
			EventType:      observer.FrameProcessed,
			Timestamp:      start,
			ProcessingTime: elapsed,
			Success:        true,
			Metadata:       map[string]interface{}{"frame": p.frames},
		})
	}

	if fps, ok := p.fps.Tick(); ok {
		logger.Component("capture").WithFields(logrus.Fields{
			"fps":       fps,
			"filter_ms": float64(elapsed.Microseconds()) / 1000.0,
			"threads":   sobel.GetThreads(),
		}).Info("Capture rate")
	}
	return p.output, nil
}

// Save writes the most recent edge frame to path, encoded by its extension
func (p *FrameProcessor) Save(path string) error {
	if p.frames == 0 {
		return ErrNothingToSave
	}
	var buf bytes.Buffer
	if err := storage.Encode(&buf, p.output.Gray(), storage.FormatFromPath(path, "png")); err != nil {
		return err
	}
	return p.local.WriteFile(path, buf.Bytes())
}

// runTimeElapsed reports whether a session limited to runTime has ended.
// A non-positive runTime never ends.
func runTimeElapsed(start, now time.Time, runTime time.Duration) bool {
	return runTime > 0 && now.Sub(start) >= runTime
}
