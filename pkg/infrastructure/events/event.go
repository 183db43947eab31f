package events

import (
	"time"
)

// Event is one immutable fact appended to a stream. Streams group
// events by subject, typically an order or product identifier.
type Event struct {
	Type     string
	StreamID string
	Data     interface{}
	At       time.Time
	Version  int
}

// Handler consumes published events. Handlers must not block; slow
// consumers should queue internally.
type Handler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// Store appends and replays planning events. Publication is
// fire-and-forget: a failing handler never fails the publisher.
type Store interface {
	Append(streamID string, event Event) error
	ReadStream(streamID string, fromVersion int) ([]Event, error)
	ReadAll(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler Handler) error
	Unsubscribe(handler Handler) error
}

// New creates an unversioned event; the store assigns the stream
// version on append.
func New(eventType, streamID string, data interface{}) Event {
	return Event{
		Type:     eventType,
		StreamID: streamID,
		Data:     data,
		At:       time.Now(),
	}
}
