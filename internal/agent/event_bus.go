// Package agent implements the ReAct step scheduler, its working memory,
// tool registry, and the event bus that streaming UIs and confirmation
// flows observe.
package agent

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reactrun/reactor/internal/models"
)

// Observer receives events emitted on an EventBus. An Observer must be
// safe to call from multiple goroutines and should not block for long —
// the bus dispatches to observers concurrently but waits for all of them,
// so a slow observer delays the return of Emit and EmitSync.
type Observer func(e models.Event)

// EventBus fans a single Agent's events out to any number of subscribed
// Observers, combining sequencing and fan-out in one type since this
// event model has no backpressure-lane distinction to justify keeping
// them separate.
type EventBus struct {
	mu        sync.RWMutex
	observers map[string]Observer
	sequence  uint64

	agentID   string
	agentName string
	taskID    string

	logger *slog.Logger
}

// NewEventBus creates a bus for one agent. A nil logger discards log
// output rather than forcing a global logger on the package.
func NewEventBus(agentID, agentName string, logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EventBus{
		observers: make(map[string]Observer),
		agentID:   agentID,
		agentName: agentName,
		logger:    logger,
	}
}

// SetTaskID scopes subsequently-built event envelopes to a task (solve())
// run, so observers can correlate events from the same call.
func (b *EventBus) SetTaskID(taskID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taskID = taskID
}

// Subscribe registers an observer and returns a subscription ID usable
// with Unsubscribe. Subscribing the same function twice yields two
// independent subscriptions.
func (b *EventBus) Subscribe(obs Observer) string {
	id := models.NewID()
	b.mu.Lock()
	b.observers[id] = obs
	b.mu.Unlock()
	return id
}

// Unsubscribe removes a previously registered observer. Unsubscribing an
// unknown ID is a no-op.
func (b *EventBus) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.observers, id)
	b.mu.Unlock()
}

// ObserverCount reports how many observers are currently subscribed, so a
// caller about to block on a response only a subscriber can send (the
// confirmation flow) can detect up front that nothing will ever answer.
func (b *EventBus) ObserverCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

// Base builds the shared envelope for a new event, stamping a monotonic
// sequence number.
func (b *EventBus) Base(t models.EventType) models.Base {
	b.mu.RLock()
	taskID := b.taskID
	b.mu.RUnlock()
	return models.Base{
		Type:      t,
		AgentID:   b.agentID,
		AgentName: b.agentName,
		EventID:   models.NewID(),
		Timestamp: time.Now(),
		TaskID:    taskID,
		Sequence:  atomic.AddUint64(&b.sequence, 1),
	}
}

// Emit dispatches e to every currently-subscribed observer concurrently
// and waits for all of them to return, so each observer receives events
// in emit order. Emission never panics the ReAct loop — a panicking
// observer is recovered and logged, since an observer must never be able
// to break the run that feeds it.
func (b *EventBus) Emit(e models.Event) {
	b.EmitSync(e)
}

// EmitSync dispatches e to every observer and waits for all of them to
// return. Used by the confirmation flow, where the caller must know that
// a ToolConfirmationRequestEvent has actually reached a listener before
// it starts waiting on the response channel.
func (b *EventBus) EmitSync(e models.Event) {
	b.mu.RLock()
	observers := make([]Observer, 0, len(b.observers))
	for _, obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	var wg sync.WaitGroup
	wg.Add(len(observers))
	for _, obs := range observers {
		obs := obs
		go func() {
			defer wg.Done()
			b.dispatch(obs, e)
		}()
	}
	wg.Wait()
}

func (b *EventBus) dispatch(obs Observer, e models.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("observer panicked", "event_type", e.EventBase().Type, "panic", r)
		}
	}()
	obs(e)
}
