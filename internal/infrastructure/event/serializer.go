package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/erpsuite/finance/internal/domain/invoicing"
	"github.com/erpsuite/finance/internal/domain/shared"
)

// EventSerializer converts domain events to and from their JSON wire
// form. Deserialization needs the concrete type, so each event type is
// registered with a factory that allocates a fresh instance.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

// NewEventSerializer creates an empty serializer
func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		factories: make(map[string]func() shared.DomainEvent),
	}
}

// NewFinanceEventSerializer returns a serializer with every event this
// service emits already registered.
func NewFinanceEventSerializer() *EventSerializer {
	s := NewEventSerializer()
	s.Register(invoicing.EventTypeInvoiceCreated, &invoicing.InvoiceCreatedEvent{})
	s.Register(invoicing.EventTypeInvoicePaid, &invoicing.InvoicePaidEvent{})
	s.Register(invoicing.EventTypeInvoiceVoided, &invoicing.InvoiceVoidedEvent{})
	s.Register(invoicing.EventTypeQuoteCreated, &invoicing.QuoteCreatedEvent{})
	s.Register(invoicing.EventTypeQuoteConverted, &invoicing.QuoteConvertedEvent{})
	return s
}

// Register binds an event type string to the concrete type of the given
// instance. The instance itself is only used as a type witness.
func (s *EventSerializer) Register(eventType string, instance shared.DomainEvent) {
	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	factory := func() shared.DomainEvent {
		return reflect.New(t).Interface().(shared.DomainEvent)
	}

	s.mu.Lock()
	s.factories[eventType] = factory
	s.mu.Unlock()
}

// Serialize encodes a domain event as JSON
func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize decodes JSON into the registered concrete event type
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", eventType, err)
	}
	return event, nil
}

// IsRegistered reports whether the event type has a registered factory
func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes lists every registered event type
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	return types
}
