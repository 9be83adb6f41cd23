// Package events provides the in-process event bus that connects the sync
// manager, status watcher, tray and settings window.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bearminder/bearminder-tray/internal/constants"
)

// EventType defines the types of events that can be emitted
type EventType string

const (
	EventSyncStarted   EventType = "sync_started"
	EventSyncFinished  EventType = "sync_finished"
	EventSettingsSaved EventType = "settings_saved"
	EventStatusChanged EventType = "status_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// SyncStartedEvent is published when a background sync begins.
type SyncStartedEvent struct {
	BaseEvent
	SinceHours     int
	IgnoreLastSync bool
	DryRun         bool
}

// SyncFinishedEvent is the one-shot completion signal of a sync run.
// Err is nil on success; Output is the tool's output either way.
type SyncFinishedEvent struct {
	BaseEvent
	Output   string
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the run exited cleanly.
func (e *SyncFinishedEvent) Succeeded() bool { return e.Err == nil }

// SettingsSavedEvent is published after the settings file was written.
type SettingsSavedEvent struct {
	BaseEvent
	Path string
}

// StatusChangedEvent is published when status.json was rewritten.
type StatusChangedEvent struct {
	BaseEvent
	Path string
}

// EventBus manages event subscriptions and publishing
type EventBus struct {
	subscribers   map[EventType][]chan Event
	all           []chan Event
	mu            sync.RWMutex
	bufferSize    int
	closed        bool
	droppedEvents atomic.Int64 // Count of dropped events due to full buffers
}

// NewEventBus creates a new event bus with specified buffer size
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &EventBus{
		subscribers: make(map[EventType][]chan Event),
		all:         make([]chan Event, 0),
		bufferSize:  bufferSize,
	}
}

// Subscribe creates a subscription to a specific event type
func (eb *EventBus) Subscribe(eventType EventType) <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], ch)
	return ch
}

// SubscribeAll creates a subscription to all events
func (eb *EventBus) SubscribeAll() <-chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}

	ch := make(chan Event, eb.bufferSize)
	eb.all = append(eb.all, ch)
	return ch
}

// Publish sends an event to all subscribers without blocking.
// Events for a full subscriber are dropped and counted.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.closed {
		return
	}

	for _, ch := range eb.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}

	for _, ch := range eb.all {
		select {
		case ch <- event:
		default:
			eb.droppedEvents.Add(1)
		}
	}
}

// Close shuts down the event bus and closes all channels
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	eb.closed = true

	for _, channels := range eb.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range eb.all {
		close(ch)
	}
}

// Unsubscribe removes a subscription channel from a specific event type
func (eb *EventBus) Unsubscribe(eventType EventType, ch <-chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.closed {
		return
	}

	subscribers := eb.subscribers[eventType]
	for i, subCh := range subscribers {
		if subCh == ch {
			close(subCh)
			subscribers[i] = subscribers[len(subscribers)-1]
			eb.subscribers[eventType] = subscribers[:len(subscribers)-1]
			break
		}
	}
}

// PublishSyncStarted is a convenience method for publishing sync start
func (eb *EventBus) PublishSyncStarted(sinceHours int, ignoreLastSync, dryRun bool) {
	eb.Publish(&SyncStartedEvent{
		BaseEvent:      BaseEvent{EventType: EventSyncStarted, Time: time.Now()},
		SinceHours:     sinceHours,
		IgnoreLastSync: ignoreLastSync,
		DryRun:         dryRun,
	})
}

// PublishSyncFinished is a convenience method for publishing sync completion
func (eb *EventBus) PublishSyncFinished(output string, err error, duration time.Duration) {
	eb.Publish(&SyncFinishedEvent{
		BaseEvent: BaseEvent{EventType: EventSyncFinished, Time: time.Now()},
		Output:    output,
		Err:       err,
		Duration:  duration,
	})
}

// PublishSettingsSaved is a convenience method for publishing settings writes
func (eb *EventBus) PublishSettingsSaved(path string) {
	eb.Publish(&SettingsSavedEvent{
		BaseEvent: BaseEvent{EventType: EventSettingsSaved, Time: time.Now()},
		Path:      path,
	})
}

// PublishStatusChanged is a convenience method for publishing status rewrites
func (eb *EventBus) PublishStatusChanged(path string) {
	eb.Publish(&StatusChangedEvent{
		BaseEvent: BaseEvent{EventType: EventStatusChanged, Time: time.Now()},
		Path:      path,
	})
}

// GetDroppedEventCount returns the total number of events dropped due to full buffers
func (eb *EventBus) GetDroppedEventCount() int64 {
	return eb.droppedEvents.Load()
}
