// Package events is the in-process pub/sub spine of the gateway. Handlers
// run synchronously; the caller decides the concurrency model.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"idish/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	EventUserSignedUp        = "user_signed_up"
	EventUserLoggedIn        = "user_logged_in"
	EventUserLoggedOut       = "user_logged_out"
	EventDishCreated         = "dish_created"
	EventHostingCreated      = "hosting_created"
	EventOrderPlaced         = "order_placed"
	EventOrderStatusChange   = "order_status_changed"
	EventBookingPlaced       = "booking_placed"
	EventBookingStatusChange = "booking_status_changed"
	EventExportCreated       = "export_created"
)

// StatusChangePayload describes an order or booking moving through its
// lifecycle.
type StatusChangePayload struct {
	ResourceID string `json:"resource_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// AuthPayload describes a signup, login or logout.
type AuthPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every listed event type.
func (b *EventBus) SubscribeAll(eventTypes []string, handler EventHandler) {
	for _, eventType := range eventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event. A nil bus
// silently drops events so callers need no guard.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// AllEventTypes lists every event the gateway publishes.
func AllEventTypes() []string {
	return []string{
		EventUserSignedUp,
		EventUserLoggedIn,
		EventUserLoggedOut,
		EventDishCreated,
		EventHostingCreated,
		EventOrderPlaced,
		EventOrderStatusChange,
		EventBookingPlaced,
		EventBookingStatusChange,
		EventExportCreated,
	}
}

// LogHandler returns a handler that writes every event to the logger.
func LogHandler(logger *zerolog.Logger) EventHandler {
	return func(event *Event) error {
		logger.Info().
			Str("event", event.Type).
			RawJSON("payload", event.Payload).
			Msg("domain event")
		return nil
	}
}

// MetricsHandler returns a handler that counts events per type.
func MetricsHandler() EventHandler {
	return func(event *Event) error {
		metrics.IncEvent(event.Type)
		return nil
	}
}
