package capture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/anime-shed/sobel-inspector-go/internal/observer"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"
	"github.com/anime-shed/sobel-inspector-go/internal/storage"
)

type frameCounter struct {
	mu     sync.Mutex
	frames int
}

func (f *frameCounter) OnEvent(ctx context.Context, event observer.FilterEvent) {
	if event.EventType == observer.FrameProcessed {
		f.mu.Lock()
		f.frames++
		f.mu.Unlock()
	}
}

func (f *frameCounter) GetObserverName() string { return "frame_counter" }

func columnFrame() *sobel.Buffer {
	return &sobel.Buffer{Rows: 3, Cols: 3, Pix: []uint8{
		0, 10, 20,
		0, 10, 20,
		0, 10, 20,
	}}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Width != 1920 || opts.Height != 1080 || opts.SavePath != "sobel.png" {
		t.Errorf("Unexpected defaults: %+v", opts)
	}

	prev := sobel.GetThreads()
	t.Cleanup(func() { sobel.SetThreads(prev) })
	if got := opts.SetThreads(5); got != 5 {
		t.Errorf("Expected default setter to apply 5, got %d", got)
	}
	if got := opts.SetThreads(0); got != 5 {
		t.Errorf("Expected default setter to ignore 0, got %d", got)
	}
}

func TestFrameProcessor_ProcessReusesOutput(t *testing.T) {
	counter := &frameCounter{}
	pub := observer.NewEventPublisher()
	pub.Subscribe(counter)
	proc := NewFrameProcessor(pub)

	first, err := proc.Process(context.Background(), columnFrame())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if first.At(1, 1) != 80 {
		t.Errorf("Expected 80, got %d", first.At(1, 1))
	}

	second, err := proc.Process(context.Background(), columnFrame())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if first != second {
		t.Error("Expected the output buffer to be reused across frames")
	}
	if counter.frames != 2 {
		t.Errorf("Expected 2 frame events, got %d", counter.frames)
	}

	if _, err := proc.Process(context.Background(), &sobel.Buffer{}); !errors.Is(err, sobel.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestFrameProcessor_Save(t *testing.T) {
	proc := NewFrameProcessor(nil)
	path := filepath.Join(t.TempDir(), "sobel.png")

	if err := proc.Save(path); !errors.Is(err, ErrNothingToSave) {
		t.Errorf("Expected ErrNothingToSave, got %v", err)
	}

	if _, err := proc.Process(context.Background(), columnFrame()); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if err := proc.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Saved file missing: %v", err)
	}
	defer f.Close()
	img, format, err := storage.Decode(f)
	if err != nil || format != "png" {
		t.Fatalf("Expected png, got format=%q err=%v", format, err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 3 {
		t.Errorf("Unexpected saved bounds: %v", img.Bounds())
	}
}
