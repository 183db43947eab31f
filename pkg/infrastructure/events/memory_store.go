package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// MemoryStore keeps event streams in process memory. Handlers are
// notified asynchronously; handler errors are logged, never propagated.
type MemoryStore struct {
	mu          sync.RWMutex
	streams     map[string][]Event
	all         []Event
	subscribers map[string][]Handler
	log         zerolog.Logger
}

// NewMemoryStore creates an empty event store
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]Handler),
		log:         log.With().Str("component", "events").Logger(),
	}
}

// Verify interface compliance
var _ Store = (*MemoryStore)(nil)

// Append stores an event at the stream's next version and notifies
// subscribers.
func (s *MemoryStore) Append(streamID string, event Event) error {
	s.mu.Lock()
	event.StreamID = streamID
	event.Version = len(s.streams[streamID]) + 1
	s.streams[streamID] = append(s.streams[streamID], event)
	s.all = append(s.all, event)
	s.mu.Unlock()

	go s.notify(event)
	return nil
}

// ReadStream returns a stream's events from the given version onward
func (s *MemoryStore) ReadStream(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return nil, nil
	}
	return append([]Event(nil), stream[fromVersion-1:]...), nil
}

// ReadAll returns every event from the given global position onward
func (s *MemoryStore) ReadAll(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.all) {
		return nil, nil
	}
	return append([]Event(nil), s.all[fromPosition:]...), nil
}

// Subscribe registers a handler for the given event types
func (s *MemoryStore) Subscribe(eventTypes []string, handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range eventTypes {
		s.subscribers[t] = append(s.subscribers[t], handler)
	}
	return nil
}

// Unsubscribe removes a handler from every event type
func (s *MemoryStore) Unsubscribe(handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, handlers := range s.subscribers {
		kept := handlers[:0]
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[t] = kept
	}
	return nil
}

func (s *MemoryStore) notify(event Event) {
	s.mu.RLock()
	handlers := append([]Handler(nil), s.subscribers[event.Type]...)
	s.mu.RUnlock()

	for _, h := range handlers {
		if !h.CanHandle(event.Type) {
			continue
		}
		if err := h.Handle(event); err != nil {
			s.log.Error().
				Err(err).
				Str("event_type", event.Type).
				Str("stream", event.StreamID).
				Msg("event handler failed")
		}
	}
}
