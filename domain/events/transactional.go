package events

import (
	log "github.com/sirupsen/logrus"
)

// Sink receives events that survived their transaction
type Sink interface {
	Publish(event Event) error
}

// TransactionalBus buffers events published during a transaction and forwards
// them to the sink only after the transaction commits. Not safe for
// concurrent use; each unit of work owns its own bus.
type TransactionalBus struct {
	sink    Sink
	pending []Event
}

// NewTransactionalBus creates a bus that forwards to the given sink on flush
func NewTransactionalBus(sink Sink) *TransactionalBus {
	return &TransactionalBus{sink: sink}
}

// Publish buffers an event until Flush or Discard
func (b *TransactionalBus) Publish(event Event) error {
	b.pending = append(b.pending, event)
	return nil
}

// Flush forwards all buffered events to the sink. Delivery failures are
// logged rather than returned since the owning transaction already committed.
func (b *TransactionalBus) Flush() {
	for _, event := range b.pending {
		if err := b.sink.Publish(event); err != nil {
			log.WithError(err).WithField("eventType", event.Type()).
				Error("Failed to publish event after commit")
		}
	}
	b.pending = nil
}

// Discard drops all buffered events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
