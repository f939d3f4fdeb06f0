package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type subscription struct {
	id      string
	handler EventHandler
}

// InMemoryEventStore keeps events in memory and dispatches to subscribers
// synchronously, in subscription order, after the append completes. Handler
// errors are logged and never fail the append. With a retention limit only
// the most recent events are kept; versions and positions stay absolute.
type InMemoryEventStore struct {
	streams     map[string][]Event
	versions    map[string]int
	subscribers map[string][]subscription
	mutex       sync.RWMutex
	allEvents   []Event
	trimmed     int
	retention   int
	logger      logrus.FieldLogger
}

// StoreOption configures an InMemoryEventStore
type StoreOption func(*InMemoryEventStore)

// WithRetention keeps at most limit events across all streams; limit <= 0
// keeps everything
func WithRetention(limit int) StoreOption {
	return func(s *InMemoryEventStore) {
		s.retention = limit
	}
}

func NewInMemoryEventStore(logger logrus.FieldLogger, opts ...StoreOption) *InMemoryEventStore {
	if logger == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		logger = discard
	}
	s := &InMemoryEventStore{
		streams:     make(map[string][]Event),
		versions:    make(map[string]int),
		subscribers: make(map[string][]subscription),
		allEvents:   make([]Event, 0),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	eventID := event.ID()
	if eventID == "" {
		eventID = uuid.NewString()
	}
	eventWithVersion := BaseEvent{
		EventID:      eventID,
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID] + 1,
	}

	s.versions[streamID] = eventWithVersion.EventVersion
	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	s.trim()
	handlers := make([]subscription, len(s.subscribers[event.Type()]))
	copy(handlers, s.subscribers[event.Type()])

	s.mutex.Unlock()

	s.notifySubscribers(eventWithVersion, handlers)
	return nil
}

// trim drops the oldest events beyond the retention limit. The oldest event
// overall is always the oldest of its stream. Callers hold the write lock.
func (s *InMemoryEventStore) trim() {
	if s.retention <= 0 {
		return
	}
	for len(s.allEvents) > s.retention {
		oldest := s.allEvents[0]
		s.allEvents[0] = nil
		s.allEvents = s.allEvents[1:]
		s.trimmed++

		stream := s.streams[oldest.StreamID()]
		if len(stream) <= 1 {
			delete(s.streams, oldest.StreamID())
			continue
		}
		stream[0] = nil
		s.streams[oldest.StreamID()] = stream[1:]
	}
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	out := make([]Event, 0, len(events))
	for _, event := range events {
		if event.Version() >= fromVersion {
			out = append(out, event)
		}
	}
	return out, nil
}

// ReadAllEvents returns events from an absolute position; positions that
// have been trimmed start at the oldest retained event
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	index := fromPosition - s.trimmed
	if index < 0 {
		index = 0
	}

	if index >= len(s.allEvents) {
		return []Event{}, nil
	}

	out := make([]Event, len(s.allEvents)-index)
	copy(out, s.allEvents[index:])
	return out, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := uuid.NewString()
	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], subscription{id: id, handler: handler})
	}

	return id, nil
}

func (s *InMemoryEventStore) Unsubscribe(subscriptionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, subs := range s.subscribers {
		kept := make([]subscription, 0, len(subs))
		for _, sub := range subs {
			if sub.id != subscriptionID {
				kept = append(kept, sub)
			}
		}
		s.subscribers[eventType] = kept
	}

	return nil
}

func (s *InMemoryEventStore) notifySubscribers(event Event, subs []subscription) {
	for _, sub := range subs {
		if !sub.handler.CanHandle(event.Type()) {
			continue
		}
		if err := sub.handler.Handle(event); err != nil {
			s.logger.WithFields(logrus.Fields{
				"event_type": event.Type(),
				"event_id":   event.ID(),
				"stream":     event.StreamID(),
			}).WithError(err).Error("event handler failed")
		}
	}
}
