package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FilterEvent describes something that happened while producing an edge image
type FilterEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of filter event
type EventType string

const (
	ImageLoaded     EventType = "image_loaded"
	ImageLoadFailed EventType = "image_load_failed"
	FilterStarted   EventType = "filter_started"
	FilterCompleted EventType = "filter_completed"
	FilterFailed    EventType = "filter_failed"
	ThreadsChanged  EventType = "threads_changed"
	FrameProcessed  EventType = "frame_processed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event FilterEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event FilterEvent)
	NotifySync(ctx context.Context, event FilterEvent)
}

// LoggingObserver logs filter events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles filter events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event FilterEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.Source != "" {
		fields["source"] = event.Source
	}
	if event.ProcessingTime > 0 {
		fields["processing_time_ms"] = float64(event.ProcessingTime.Microseconds()) / 1000.0
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case FilterCompleted:
		entry.Info("Edge filter completed")
	case FilterFailed:
		entry.Error("Edge filter failed")
	case ImageLoadFailed:
		entry.Error("Image load failed")
	case ThreadsChanged:
		entry.Info("Filter thread count changed")
	case FilterStarted, ImageLoaded, FrameProcessed:
		entry.Debug(string(event.EventType))
	default:
		entry.Info("Filter event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsSnapshot is a point-in-time copy of MetricsObserver counters
type MetricsSnapshot struct {
	TotalFilters      int64         `json:"total_filters"`
	SuccessfulFilters int64         `json:"successful_filters"`
	FailedFilters     int64         `json:"failed_filters"`
	LoadFailures      int64         `json:"load_failures"`
	Frames            int64         `json:"frames"`
	TotalFilterTime   time.Duration `json:"total_filter_time_ns"`
	AvgFilterTime     time.Duration `json:"avg_filter_time_ns"`
}

// MetricsObserver collects counters from filter events
type MetricsObserver struct {
	mu                sync.RWMutex
	totalFilters      int64
	successfulFilters int64
	failedFilters     int64
	loadFailures      int64
	frames            int64
	totalFilterTime   time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles filter events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event FilterEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case FilterStarted:
		o.totalFilters++
	case FilterCompleted:
		o.successfulFilters++
		o.totalFilterTime += event.ProcessingTime
	case FilterFailed:
		o.failedFilters++
	case ImageLoadFailed:
		o.loadFailures++
	case FrameProcessed:
		o.frames++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Snapshot returns current metrics
func (o *MetricsObserver) Snapshot() MetricsSnapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()

	snap := MetricsSnapshot{
		TotalFilters:      o.totalFilters,
		SuccessfulFilters: o.successfulFilters,
		FailedFilters:     o.failedFilters,
		LoadFailures:      o.loadFailures,
		Frames:            o.frames,
		TotalFilterTime:   o.totalFilterTime,
	}
	if o.successfulFilters > 0 {
		snap.AvgFilterTime = o.totalFilterTime / time.Duration(o.successfulFilters)
	}
	return snap
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event concurrently
func (p *EventPublisher) NotifyObservers(ctx context.Context, event FilterEvent) {
	for _, observer := range p.snapshot() {
		go p.deliver(ctx, observer, event)
	}
}

// NotifySync notifies all observers on the caller's goroutine, for per-frame
// events where spawning goroutines would dominate the cost
func (p *EventPublisher) NotifySync(ctx context.Context, event FilterEvent) {
	for _, observer := range p.snapshot() {
		p.deliver(ctx, observer, event)
	}
}

func (p *EventPublisher) snapshot() []Observer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	return observers
}

func (p *EventPublisher) deliver(ctx context.Context, obs Observer, event FilterEvent) {
	defer func() {
		if r := recover(); r != nil {
			// Log panic but don't crash the application
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
