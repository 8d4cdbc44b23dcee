package infrastructure

import (
	"testing"

	"meltyfi/domain/events"

	"github.com/stretchr/testify/assert"
)

func TestEventSubjectMapper_RoundTrip(t *testing.T) {
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.LotteryCreatedEvent{}, "lottery.created"},
		{events.WonkaBarsPurchasedEvent{}, "lottery.wonkabars.purchased"},
		{events.LotteryCancelledEvent{}, "lottery.cancelled"},
		{events.DrawRequestedEvent{}, "lottery.draw.requested"},
		{events.LotteryConcludedEvent{}, "lottery.concluded"},
		{events.LotteryTrashedEvent{}, "lottery.trashed"},
		{events.WonkaBarsMeltedEvent{}, "lottery.wonkabars.melted"},
	}

	for _, tt := range tests {
		subject := mapper.MapEventToSubject(tt.event)
		assert.Equal(t, tt.subject, subject)
		assert.Equal(t, tt.event.Type(), mapper.MapSubjectToEventType(subject))
	}

	assert.Len(t, mapper.GetAllSubjects(), len(tests))
}
