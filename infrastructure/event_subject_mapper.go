package infrastructure

import (
	"fmt"

	"meltyfi/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeLotteryCreated:
		return "lottery.created"
	case events.EventTypeWonkaBarsPurchased:
		return "lottery.wonkabars.purchased"
	case events.EventTypeLotteryCancelled:
		return "lottery.cancelled"
	case events.EventTypeDrawRequested:
		return "lottery.draw.requested"
	case events.EventTypeLotteryConcluded:
		return "lottery.concluded"
	case events.EventTypeLotteryTrashed:
		return "lottery.trashed"
	case events.EventTypeWonkaBarsMelted:
		return "lottery.wonkabars.melted"
	default:
		return fmt.Sprintf("lottery.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "lottery.created":
		return events.EventTypeLotteryCreated
	case "lottery.wonkabars.purchased":
		return events.EventTypeWonkaBarsPurchased
	case "lottery.cancelled":
		return events.EventTypeLotteryCancelled
	case "lottery.draw.requested":
		return events.EventTypeDrawRequested
	case "lottery.concluded":
		return events.EventTypeLotteryConcluded
	case "lottery.trashed":
		return events.EventTypeLotteryTrashed
	case "lottery.wonkabars.melted":
		return events.EventTypeWonkaBarsMelted
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"lottery.created",
		"lottery.wonkabars.purchased",
		"lottery.cancelled",
		"lottery.draw.requested",
		"lottery.concluded",
		"lottery.trashed",
		"lottery.wonkabars.melted",
	}
}
