package schema

import "time"

// EventType defines stream event types.
type EventType string

const (
	EventStart EventType = "start"
	EventEnd   EventType = "end"
	EventError EventType = "error"
	EventToken EventType = "token"
)

// StreamEvent represents a stream event.
type StreamEvent struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Error     error       `json:"error,omitempty"`
}

// TokenEvent represents a token-level event.
type TokenEvent struct {
	Token string `json:"token"`
	Delta string `json:"delta,omitempty"`
}

// NewStreamEvent creates a stream event.
func NewStreamEvent(eventType EventType, data interface{}) StreamEvent {
	return StreamEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent creates an error event.
func NewErrorEvent(err error) StreamEvent {
	return StreamEvent{
		Type:      EventError,
		Error:     err,
		Timestamp: time.Now(),
	}
}

// NewTokenEvent creates a token event.
func NewTokenEvent(token, delta string) StreamEvent {
	return StreamEvent{
		Type: EventToken,
		Data: TokenEvent{
			Token: token,
			Delta: delta,
		},
		Timestamp: time.Now(),
	}
}
