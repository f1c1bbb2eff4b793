package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"match-service/internal/mocks"
	"match-service/internal/observability"
)

func TestEmitPublishesDomainEvent(t *testing.T) {
	pub := new(mocks.PublisherMock)
	observability.SetPublisher(pub)
	defer observability.SetPublisher(observability.NewPublisher("", ""))

	var got DomainEvent
	pub.On("PublishJSON", mock.Anything, "match_events.swipe_recorded", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			got = args.Get(2).(DomainEvent)
		}).
		Return(nil).Once()

	e := NewEmitter("match_events", "match-service", "test")
	e.Emit(context.Background(), EventSwipeRecorded, 3, map[string]any{"swiped_user_id": 7})

	pub.AssertExpectations(t)
	require.Equal(t, 1, got.SchemaVersion)
	require.Equal(t, EventSwipeRecorded, got.EventName)
	require.Equal(t, "match-service", got.Service)
	require.Equal(t, 3, got.UserID)
	require.NotEmpty(t, got.OccurredAt)
}

func TestEmitNilEmitterIsSafe(t *testing.T) {
	var e *Emitter
	e.Emit(context.Background(), EventMatchCreated, 1, nil)
}
