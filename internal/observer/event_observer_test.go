package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []FilterEvent
	wg     *sync.WaitGroup
}

func (r *recordingObserver) OnEvent(ctx context.Context, event FilterEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	if r.wg != nil {
		r.wg.Done()
	}
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event FilterEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                        { return "panicky" }

func TestMetricsObserver_Snapshot(t *testing.T) {
	obs := NewMetricsObserver()
	ctx := context.Background()

	obs.OnEvent(ctx, FilterEvent{EventType: FilterStarted})
	obs.OnEvent(ctx, FilterEvent{EventType: FilterCompleted, ProcessingTime: 10 * time.Millisecond})
	obs.OnEvent(ctx, FilterEvent{EventType: FilterStarted})
	obs.OnEvent(ctx, FilterEvent{EventType: FilterCompleted, ProcessingTime: 30 * time.Millisecond})
	obs.OnEvent(ctx, FilterEvent{EventType: FilterStarted})
	obs.OnEvent(ctx, FilterEvent{EventType: FilterFailed})
	obs.OnEvent(ctx, FilterEvent{EventType: ImageLoadFailed})
	obs.OnEvent(ctx, FilterEvent{EventType: FrameProcessed})

	snap := obs.Snapshot()
	if snap.TotalFilters != 3 || snap.SuccessfulFilters != 2 || snap.FailedFilters != 1 {
		t.Errorf("Unexpected filter counters: %+v", snap)
	}
	if snap.LoadFailures != 1 || snap.Frames != 1 {
		t.Errorf("Unexpected load/frame counters: %+v", snap)
	}
	if snap.AvgFilterTime != 20*time.Millisecond {
		t.Errorf("Expected 20ms average, got %s", snap.AvgFilterTime)
	}
}

func TestMetricsObserver_EmptyAverage(t *testing.T) {
	if avg := NewMetricsObserver().Snapshot().AvgFilterTime; avg != 0 {
		t.Errorf("Expected zero average without completions, got %s", avg)
	}
}

func TestEventPublisher_NotifySyncAndUnsubscribe(t *testing.T) {
	pub := NewEventPublisher()
	a := &recordingObserver{name: "a"}
	b := &recordingObserver{name: "b"}
	pub.Subscribe(a)
	pub.Subscribe(b)
	pub.Subscribe(panickingObserver{})

	pub.NotifySync(context.Background(), FilterEvent{EventType: FrameProcessed})
	pub.Unsubscribe(&recordingObserver{name: "a"})
	pub.NotifySync(context.Background(), FilterEvent{EventType: FilterStarted})

	if len(a.events) != 1 {
		t.Errorf("Expected unsubscribed observer to see 1 event, got %d", len(a.events))
	}
	if len(b.events) != 2 {
		t.Errorf("Expected remaining observer to see 2 events, got %d", len(b.events))
	}
}

func TestEventPublisher_NotifyObserversAsync(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)

	pub := NewEventPublisher()
	a := &recordingObserver{name: "a", wg: &wg}
	b := &recordingObserver{name: "b", wg: &wg}
	pub.Subscribe(a)
	pub.Subscribe(b)

	pub.NotifyObservers(context.Background(), FilterEvent{EventType: FilterCompleted})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for async notification")
	}
}

func TestLoggingObserver_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	obs := NewLoggingObserver(logger)
	obs.OnEvent(context.Background(), FilterEvent{
		EventType:      FilterCompleted,
		Source:         "in.png",
		ProcessingTime: 1500 * time.Microsecond,
		Success:        true,
		Metadata:       map[string]interface{}{"workers": 4},
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q", buf.String())
	}
	if entry["msg"] != "Edge filter completed" || entry["source"] != "in.png" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
	if entry["processing_time_ms"] != 1.5 || entry["workers"] != float64(4) {
		t.Errorf("Unexpected numeric fields: %v", entry)
	}
}
